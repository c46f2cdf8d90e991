// pkg/registry/registry_test.go
package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkeligibility "travelcard-workers/internal/workers/card/check-eligibility"
	classifytier "travelcard-workers/internal/workers/card/classify-tier"
	processapplication "travelcard-workers/internal/workers/card/process-application"
	queryapplicationhistory "travelcard-workers/internal/workers/card/query-application-history"
	senddecisionnotification "travelcard-workers/internal/workers/card/send-decision-notification"
)

func loadTestRegistry(t *testing.T) *ActivityRegistry {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "registry.json"))
	require.NoError(t, err)
	return reg
}

// ==========================
// Core Functionality Tests
// ==========================

func TestLoadRegistry(t *testing.T) {
	reg := loadTestRegistry(t)

	assert.Equal(t, "1.0.0", reg.Version)
	assert.Len(t, reg.Activities, 5)

	for _, activity := range reg.Activities {
		assert.NotEmpty(t, activity.ID)
		assert.NotEmpty(t, activity.TaskType)
		assert.Equal(t, "implemented", activity.ImplementationStatus)
	}
}

func TestLoadDefault(t *testing.T) {
	reg, err := LoadDefault()
	require.NoError(t, err)
	assert.Len(t, reg.Activities, 5)
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry("does-not-exist.json")
	assert.Error(t, err)
}

// The worker manager refuses to start a worker whose task type is not
// registered, so every shipped worker must have an entry.
func TestRegistry_CoversWorkerTaskTypes(t *testing.T) {
	reg := loadTestRegistry(t)

	taskTypes := []string{
		processapplication.TaskType,
		checkeligibility.TaskType,
		classifytier.TaskType,
		queryapplicationhistory.TaskType,
		senddecisionnotification.TaskType,
	}

	for _, taskType := range taskTypes {
		activity, ok := reg.Find(taskType)
		require.True(t, ok, "task type %s missing from registry", taskType)
		assert.NotEmpty(t, activity.InputSchema)
		assert.NotEmpty(t, activity.OutputSchema)
	}
}

func TestRegistry_Find(t *testing.T) {
	reg := loadTestRegistry(t)

	activity, ok := reg.Find("process-application")
	require.True(t, ok)
	assert.Equal(t, "card-process-application", activity.ID)

	_, ok = reg.Find("no-such-task")
	assert.False(t, ok)
}

// ==========================
// Schema Validation Tests
// ==========================

func TestActivity_ValidateInput(t *testing.T) {
	reg := loadTestRegistry(t)
	activity, ok := reg.Find("process-application")
	require.True(t, ok)

	tests := []struct {
		name    string
		input   map[string]interface{}
		wantErr bool
	}{
		{
			name:    "valid application",
			input:   map[string]interface{}{"userId": "user-001", "cardSlug": "legionnaire"},
			wantErr: false,
		},
		{
			name:    "missing card slug",
			input:   map[string]interface{}{"userId": "user-001"},
			wantErr: true,
		},
		{
			name:    "unknown card slug",
			input:   map[string]interface{}{"userId": "user-001", "cardSlug": "centurion"},
			wantErr: true,
		},
		{
			name:    "empty user id",
			input:   map[string]interface{}{"userId": "", "cardSlug": "tribune"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := activity.ValidateInput(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestActivity_ValidateOutput(t *testing.T) {
	reg := loadTestRegistry(t)
	activity, ok := reg.Find("check-eligibility")
	require.True(t, ok)

	err := activity.ValidateOutput(map[string]interface{}{
		"eligible": true,
		"message":  "Eligible",
	})
	assert.NoError(t, err)

	err = activity.ValidateOutput(map[string]interface{}{"eligible": true})
	assert.Error(t, err)
}

func TestActivity_ValidateInput_EmptySchema(t *testing.T) {
	activity := &Activity{TaskType: "bare"}
	assert.NoError(t, activity.ValidateInput(map[string]interface{}{"anything": 1}))
}

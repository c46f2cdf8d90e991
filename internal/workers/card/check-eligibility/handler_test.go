// internal/workers/card/check-eligibility/handler_test.go
package checkeligibility

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"travelcard-workers/internal/common/logger"
	"travelcard-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

type fakeProfileStore struct {
	profiles map[string]*models.Profile
	getErr   error
}

func (s *fakeProfileStore) Get(ctx context.Context, userID string) (*models.Profile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, errors.New("profile not found")
	}
	return profile, nil
}

func (s *fakeProfileStore) Put(ctx context.Context, profile *models.Profile) error {
	return nil
}

func birthDateForAge(age int) string {
	return time.Now().UTC().AddDate(-age, 0, -7).Format("2006-01-02")
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	heldCard := models.CardTribune
	cooldownDate := time.Now().UTC().AddDate(0, 0, -30).Format("2006-01-02")

	tests := []struct {
		name            string
		profile         *models.Profile
		expectedOutcome bool
		expectedMessage string
	}{
		{
			name: "clean profile is eligible",
			profile: &models.Profile{
				ID:        "user-001",
				BirthDate: birthDateForAge(30),
			},
			expectedOutcome: true,
			expectedMessage: "Eligible",
		},
		{
			name: "underage applicant",
			profile: &models.Profile{
				ID:        "user-002",
				BirthDate: birthDateForAge(17),
			},
			expectedOutcome: false,
			expectedMessage: "You must be at least 18 years old to apply.",
		},
		{
			name: "already holds a card",
			profile: &models.Profile{
				ID:          "user-003",
				BirthDate:   birthDateForAge(30),
				CurrentCard: &heldCard,
			},
			expectedOutcome: false,
			expectedMessage: "You already have the Tribune card. You can only hold one card at a time.",
		},
		{
			name: "inside rejection cooldown",
			profile: &models.Profile{
				ID:            "user-004",
				BirthDate:     birthDateForAge(30),
				RejectionDate: &cooldownDate,
			},
			expectedOutcome: false,
			expectedMessage: fmt.Sprintf("You must wait %d more days before applying again.", 30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := &fakeProfileStore{profiles: map[string]*models.Profile{tt.profile.ID: tt.profile}}
			handler := NewHandler(createTestConfig(), profiles, newTestLogger(t))

			output, err := handler.Execute(context.Background(), &Input{UserID: tt.profile.ID})

			assert.NoError(t, err)
			assert.NotNil(t, output)
			assert.Equal(t, tt.expectedOutcome, output.Eligible)
			assert.Equal(t, tt.expectedMessage, output.Message)
		})
	}
}

// ==========================
// Error Paths
// ==========================

func TestHandler_Execute_ProfileErrors(t *testing.T) {
	t.Run("profile not found", func(t *testing.T) {
		profiles := &fakeProfileStore{profiles: map[string]*models.Profile{}}
		handler := NewHandler(createTestConfig(), profiles, newTestLogger(t))

		output, err := handler.Execute(context.Background(), &Input{UserID: "missing"})

		assert.Error(t, err)
		assert.Nil(t, output)
	})

	t.Run("store unavailable", func(t *testing.T) {
		profiles := &fakeProfileStore{getErr: errors.New("connection refused")}
		handler := NewHandler(createTestConfig(), profiles, newTestLogger(t))

		output, err := handler.Execute(context.Background(), &Input{UserID: "user-001"})

		assert.Error(t, err)
		assert.Nil(t, output)
	})

	t.Run("corrupt birth date", func(t *testing.T) {
		profile := &models.Profile{ID: "user-005", BirthDate: "not-a-date"}
		profiles := &fakeProfileStore{profiles: map[string]*models.Profile{"user-005": profile}}
		handler := NewHandler(createTestConfig(), profiles, newTestLogger(t))

		output, err := handler.Execute(context.Background(), &Input{UserID: "user-005"})

		assert.Error(t, err)
		assert.Nil(t, output)
	})
}

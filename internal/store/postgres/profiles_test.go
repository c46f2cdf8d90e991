// internal/store/postgres/profiles_test.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"travelcard-workers/internal/common/logger"
	"travelcard-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

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

var profileColumns = []string{
	"id", "username", "email", "phone", "birth_date", "salary", "net_worth",
	"credit_score", "address", "current_card", "rejection_date",
	"interest_rate", "created_at", "updated_at",
}

func profileRow(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(profileColumns).AddRow(
		"user-001", "traveler", "traveler@example.com", nil, "1995-03-20",
		80000.0, 100000.0, 730, nil, nil, nil, nil, now, now,
	)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestProfileStore_Get_CacheMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	cache, cacheMock := redismock.NewClientMock()

	cacheMock.ExpectGet("profile:user-001").RedisNil()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, username, email`).
		WithArgs("user-001").
		WillReturnRows(profileRow(now))

	cacheMock.Regexp().ExpectSet("profile:user-001", `.*`, 5*time.Minute).SetVal("OK")

	store := NewProfileStore(db, cache, 5*time.Minute, newTestLogger(t))
	profile, err := store.Get(context.Background(), "user-001")

	assert.NoError(t, err)
	assert.Equal(t, "user-001", profile.ID)
	assert.Equal(t, "traveler", profile.Username)
	assert.Equal(t, 80000.0, profile.Salary)
	assert.Equal(t, 730, profile.CreditScore)
	assert.Nil(t, profile.CurrentCard)
	assert.Nil(t, profile.RejectionDate)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestProfileStore_Get_CacheHit(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	cache, cacheMock := redismock.NewClientMock()

	cached := models.Profile{
		ID:          "user-001",
		Username:    "traveler",
		BirthDate:   "1995-03-20",
		Salary:      80000,
		CreditScore: 730,
	}
	data, err := json.Marshal(&cached)
	assert.NoError(t, err)

	cacheMock.ExpectGet("profile:user-001").SetVal(string(data))

	store := NewProfileStore(db, cache, 5*time.Minute, newTestLogger(t))
	profile, err := store.Get(context.Background(), "user-001")

	assert.NoError(t, err)
	assert.Equal(t, "user-001", profile.ID)
	assert.Equal(t, 80000.0, profile.Salary)

	// Database never touched
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestProfileStore_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, email`).
		WithArgs("missing-user").
		WillReturnRows(sqlmock.NewRows(profileColumns))

	store := NewProfileStore(db, nil, 5*time.Minute, newTestLogger(t))
	profile, err := store.Get(context.Background(), "missing-user")

	assert.Error(t, err)
	assert.Nil(t, profile)
	assert.Contains(t, err.Error(), "not found")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileStore_Get_NullableColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(profileColumns).AddRow(
		"user-002", "rejected", "rejected@example.com", "+1-555-0100", "1990-01-01",
		40000.0, 5000.0, 610, "1 Forum Way", "legionnaire", "2025-05-01", 18.99, now, now,
	)
	mock.ExpectQuery(`SELECT id, username, email`).
		WithArgs("user-002").
		WillReturnRows(rows)

	store := NewProfileStore(db, nil, 5*time.Minute, newTestLogger(t))
	profile, err := store.Get(context.Background(), "user-002")

	assert.NoError(t, err)
	assert.Equal(t, "+1-555-0100", profile.Phone)
	assert.Equal(t, "1 Forum Way", profile.Address)
	assert.NotNil(t, profile.CurrentCard)
	assert.Equal(t, models.CardLegionnaire, *profile.CurrentCard)
	assert.NotNil(t, profile.RejectionDate)
	assert.Equal(t, "2025-05-01", *profile.RejectionDate)
	assert.NotNil(t, profile.InterestRate)
	assert.Equal(t, 18.99, *profile.InterestRate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileStore_Put(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	cache, cacheMock := redismock.NewClientMock()

	slug := models.CardLegionnaire
	rate := 12.99
	profile := &models.Profile{
		ID:           "user-001",
		Salary:       80000,
		NetWorth:     100000,
		CreditScore:  730,
		CurrentCard:  &slug,
		InterestRate: &rate,
	}

	mock.ExpectExec(`UPDATE users`).
		WithArgs("user-001", 80000.0, 100000.0, 730, "legionnaire", nil, 12.99, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	cacheMock.ExpectDel("profile:user-001").SetVal(1)

	store := NewProfileStore(db, cache, 5*time.Minute, newTestLogger(t))
	err = store.Put(context.Background(), profile)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestProfileStore_Put_NoRowsUpdated(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE users`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewProfileStore(db, nil, 5*time.Minute, newTestLogger(t))
	err = store.Put(context.Background(), &models.Profile{ID: "missing-user"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileStore_Put_RowsAffectedError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE users`).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver lost result")))

	store := NewProfileStore(db, nil, 5*time.Minute, newTestLogger(t))
	err = store.Put(context.Background(), &models.Profile{ID: "user-001"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PROFILE_SAVE_FAILED")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileStore_Put_DatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE users`).
		WillReturnError(errors.New("connection reset"))

	store := NewProfileStore(db, nil, 5*time.Minute, newTestLogger(t))
	err = store.Put(context.Background(), &models.Profile{ID: "user-001"})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Edge Cases
// ==========================

func TestProfileStore_Get_CacheUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	cache, cacheMock := redismock.NewClientMock()

	// Cache errors fall through to the database
	cacheMock.ExpectGet("profile:user-001").SetErr(errors.New("connection refused"))

	now := time.Now()
	mock.ExpectQuery(`SELECT id, username, email`).
		WithArgs("user-001").
		WillReturnRows(profileRow(now))

	cacheMock.Regexp().ExpectSet("profile:user-001", `.*`, 5*time.Minute).
		SetErr(errors.New("connection refused"))

	store := NewProfileStore(db, cache, 5*time.Minute, newTestLogger(t))
	profile, err := store.Get(context.Background(), "user-001")

	assert.NoError(t, err)
	assert.Equal(t, "user-001", profile.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestProfileStore_Get_CorruptCacheEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	cache, cacheMock := redismock.NewClientMock()

	cacheMock.ExpectGet("profile:user-001").SetVal("{not json")
	cacheMock.ExpectDel("profile:user-001").SetVal(1)

	now := time.Now()
	mock.ExpectQuery(`SELECT id, username, email`).
		WithArgs("user-001").
		WillReturnRows(profileRow(now))

	cacheMock.Regexp().ExpectSet("profile:user-001", `.*`, 5*time.Minute).SetVal("OK")

	store := NewProfileStore(db, cache, 5*time.Minute, newTestLogger(t))
	profile, err := store.Get(context.Background(), "user-001")

	assert.NoError(t, err)
	assert.Equal(t, "user-001", profile.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

// internal/store/postgres/profiles.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	commonErrors "travelcard-workers/internal/common/errors"
	"travelcard-workers/internal/common/logger"
	"travelcard-workers/internal/models"
)

const profileCachePrefix = "profile:"

// ProfileStore reads and writes applicant profiles, with a Redis
// cache in front of the users table.
type ProfileStore struct {
	db    *sql.DB
	cache *redis.Client
	ttl   time.Duration
	log   logger.Logger
}

// NewProfileStore wires the profile store. cache may be nil, in which
// case every read goes to the database.
func NewProfileStore(db *sql.DB, cache *redis.Client, ttl time.Duration, log logger.Logger) *ProfileStore {
	return &ProfileStore{
		db:    db,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// Get loads a profile, serving from cache when possible.
func (s *ProfileStore) Get(ctx context.Context, userID string) (*models.Profile, error) {
	if profile := s.cacheGet(ctx, userID); profile != nil {
		return profile, nil
	}

	profile, err := s.queryProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, profile)
	return profile, nil
}

// Put persists profile mutations and invalidates the cache entry.
func (s *ProfileStore) Put(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE users
		SET salary = $2,
		    net_worth = $3,
		    credit_score = $4,
		    current_card = $5,
		    rejection_date = $6,
		    interest_rate = $7,
		    updated_at = $8
		WHERE id = $1`

	var currentCard interface{}
	if profile.CurrentCard != nil {
		currentCard = string(*profile.CurrentCard)
	}
	var rejectionDate interface{}
	if profile.RejectionDate != nil {
		rejectionDate = *profile.RejectionDate
	}
	var interestRate interface{}
	if profile.InterestRate != nil {
		interestRate = *profile.InterestRate
	}

	result, err := s.db.ExecContext(ctx, query,
		profile.ID,
		profile.Salary,
		profile.NetWorth,
		profile.CreditScore,
		currentCard,
		rejectionDate,
		interestRate,
		time.Now().UTC(),
	)
	if err != nil {
		return commonErrors.NewProfileSaveFailedError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return commonErrors.NewProfileSaveFailedError(err)
	}
	if rows == 0 {
		return commonErrors.NewProfileNotFoundError(profile.ID)
	}

	s.cacheDel(ctx, profile.ID)
	return nil
}

func (s *ProfileStore) queryProfile(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT id, username, email, phone, birth_date, salary, net_worth,
		       credit_score, address, current_card, rejection_date,
		       interest_rate, created_at, updated_at
		FROM users
		WHERE id = $1`

	var (
		profile       models.Profile
		phone         sql.NullString
		address       sql.NullString
		currentCard   sql.NullString
		rejectionDate sql.NullString
		interestRate  sql.NullFloat64
	)

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID,
		&profile.Username,
		&profile.Email,
		&phone,
		&profile.BirthDate,
		&profile.Salary,
		&profile.NetWorth,
		&profile.CreditScore,
		&address,
		&currentCard,
		&rejectionDate,
		&interestRate,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, commonErrors.NewProfileNotFoundError(userID)
	}
	if err != nil {
		return nil, commonErrors.NewProfileLoadFailedError(err)
	}

	profile.Phone = phone.String
	profile.Address = address.String
	if currentCard.Valid && currentCard.String != "" {
		slug := models.CardSlug(currentCard.String)
		profile.CurrentCard = &slug
	}
	if rejectionDate.Valid && rejectionDate.String != "" {
		date := rejectionDate.String
		profile.RejectionDate = &date
	}
	if interestRate.Valid {
		rate := interestRate.Float64
		profile.InterestRate = &rate
	}

	return &profile, nil
}

func (s *ProfileStore) cacheGet(ctx context.Context, userID string) *models.Profile {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, profileCacheKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("Profile cache read failed", map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			})
		}
		return nil
	}

	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		s.log.Warn("Dropping undecodable profile cache entry", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
		s.cacheDel(ctx, userID)
		return nil
	}
	return &profile
}

func (s *ProfileStore) cacheSet(ctx context.Context, profile *models.Profile) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, profileCacheKey(profile.ID), data, s.ttl).Err(); err != nil {
		s.log.Warn("Profile cache write failed", map[string]interface{}{
			"userId": profile.ID,
			"error":  err.Error(),
		})
	}
}

func (s *ProfileStore) cacheDel(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, profileCacheKey(userID)).Err(); err != nil {
		s.log.Warn("Profile cache invalidation failed", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
	}
}

func profileCacheKey(userID string) string {
	return fmt.Sprintf("%s%s", profileCachePrefix, userID)
}

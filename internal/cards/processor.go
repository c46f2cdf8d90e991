// internal/cards/processor.go
package cards

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	commonErrors "travelcard-workers/internal/common/errors"
	"travelcard-workers/internal/common/logger"
	"travelcard-workers/internal/common/metrics"
	"travelcard-workers/internal/models"
)

// ProfileStore loads and saves applicant profiles.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Put(ctx context.Context, profile *models.Profile) error
}

// RecordStore appends scored application records.
type RecordStore interface {
	Append(ctx context.Context, record *models.ApplicationRecord) error
}

// Processor runs the full application decision pipeline.
type Processor struct {
	catalog  *Catalog
	profiles ProfileStore
	records  RecordStore
	log      logger.Logger

	now   func() time.Time
	newID func() string

	// Serializes decisions per applicant so concurrent applications
	// cannot both pass the eligibility gate on a stale profile.
	userLocks sync.Map
}

// NewProcessor wires the decision pipeline.
func NewProcessor(catalog *Catalog, profiles ProfileStore, records RecordStore, log logger.Logger) *Processor {
	return &Processor{
		catalog:  catalog,
		profiles: profiles,
		records:  records,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (p *Processor) lockUser(userID string) func() {
	v, _ := p.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ProcessApplication decides one application for one applicant. Pre-screen
// denials persist nothing; scored outcomes update the profile and append
// an application record. The profile write and the record append are not
// atomic: an append failure after a saved profile returns a retryable
// error with the profile mutation already committed.
func (p *Processor) ProcessApplication(ctx context.Context, userID string, slug models.CardSlug) (*models.Decision, error) {
	start := p.now()
	defer func() {
		metrics.DecisionDuration.WithLabelValues(string(slug)).Observe(time.Since(start).Seconds())
	}()

	card, err := p.catalog.Get(slug)
	if err != nil {
		return nil, err
	}

	unlock := p.lockUser(userID)
	defer unlock()

	profile, err := p.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := p.now().UTC()

	eligibility, err := CheckEligibility(profile, now)
	if err != nil {
		return nil, err
	}
	if !eligibility.Eligible {
		p.log.Info("Application denied at pre-screen", map[string]interface{}{
			"userId": userID,
			"card":   string(slug),
			"reason": eligibility.Message,
		})
		metrics.PreScreenDenials.WithLabelValues(string(slug)).Inc()
		return &models.Decision{
			Approved:     false,
			Status:       models.StatusRejected,
			ApprovalTier: models.TierUnlikely,
			Message:      eligibility.Message,
		}, nil
	}

	age, err := Age(profile.BirthDate, now)
	if err != nil {
		return nil, err
	}
	snapshot := models.Snapshot{
		Salary:      profile.Salary,
		NetWorth:    profile.NetWorth,
		CreditScore: profile.CreditScore,
		Age:         age,
	}

	tier := ClassifyTier(snapshot, card)
	// Full timestamp, so same-day records still sort by recency.
	decidedAt := now.Format(time.RFC3339)

	record := &models.ApplicationRecord{
		ID:              p.newID(),
		UserID:          userID,
		CardSlug:        slug,
		ApprovalTier:    tier,
		ApplicationDate: decidedAt,
		UserData:        snapshot,
	}

	var decision *models.Decision
	if tier.Approved() {
		rate, err := p.catalog.Rate(slug, tier)
		if err != nil {
			return nil, err
		}

		profile.CurrentCard = &slug
		profile.InterestRate = &rate
		profile.RejectionDate = nil

		record.Status = models.StatusApproved
		record.InterestRate = &rate

		decision = &models.Decision{
			Approved:     true,
			Status:       models.StatusApproved,
			ApprovalTier: tier,
			InterestRate: &rate,
			Message: fmt.Sprintf(
				"Congratulations! You've been approved for the %s card with an APR of %.2f%%.",
				titleCase(string(slug)), rate),
		}
	} else {
		profile.CurrentCard = nil
		profile.InterestRate = nil
		profile.RejectionDate = &decidedAt

		record.Status = models.StatusRejected

		decision = &models.Decision{
			Approved:      false,
			Status:        models.StatusRejected,
			ApprovalTier:  tier,
			Message:       "Your application has been rejected. You may apply again in 60 days.",
			RejectionDate: &decidedAt,
		}
	}

	if err := p.profiles.Put(ctx, profile); err != nil {
		return nil, commonErrors.NewProfileSaveFailedError(err)
	}
	if err := p.records.Append(ctx, record); err != nil {
		return nil, commonErrors.NewRecordInsertFailedError(err)
	}

	p.log.Info("Application decided", map[string]interface{}{
		"userId": userID,
		"card":   string(slug),
		"status": string(record.Status),
		"tier":   string(tier),
	})
	metrics.ApplicationsProcessed.WithLabelValues(string(slug), string(record.Status), string(tier)).Inc()

	return decision, nil
}

// internal/store/postgres/records.go
package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"

	"github.com/elastic/go-elasticsearch/v8"

	commonErrors "travelcard-workers/internal/common/errors"
	"travelcard-workers/internal/common/logger"
	"travelcard-workers/internal/models"
)

// RecordStore appends and queries scored application records. Postgres is
// the system of record; Elasticsearch gets a best-effort copy for search.
type RecordStore struct {
	db    *sql.DB
	es    *elasticsearch.Client
	index string
	log   logger.Logger
}

// NewRecordStore wires the record store. es may be nil to disable indexing.
func NewRecordStore(db *sql.DB, es *elasticsearch.Client, index string, log logger.Logger) *RecordStore {
	return &RecordStore{
		db:    db,
		es:    es,
		index: index,
		log:   log,
	}
}

// Append inserts a record, then indexes it into Elasticsearch. An index
// failure is logged and swallowed; the decision already committed.
func (s *RecordStore) Append(ctx context.Context, record *models.ApplicationRecord) error {
	query := `
		INSERT INTO applications (
			id, user_id, card_slug, status, approval_tier,
			interest_rate, application_date, user_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	userData, err := json.Marshal(record.UserData)
	if err != nil {
		return commonErrors.NewRecordInsertFailedError(err)
	}

	var interestRate interface{}
	if record.InterestRate != nil {
		interestRate = *record.InterestRate
	}

	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		string(record.CardSlug),
		string(record.Status),
		string(record.ApprovalTier),
		interestRate,
		record.ApplicationDate,
		userData,
	)
	if err != nil {
		return commonErrors.NewRecordInsertFailedError(err)
	}

	s.indexRecord(ctx, record)
	return nil
}

// History returns a user's application records, newest first.
func (s *RecordStore) History(ctx context.Context, userID string) ([]models.ApplicationRecord, error) {
	query := `
		SELECT id, user_id, card_slug, status, approval_tier,
		       interest_rate, application_date, user_data
		FROM applications
		WHERE user_id = $1
		ORDER BY application_date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, commonErrors.NewHistoryQueryFailedError(err)
	}
	defer rows.Close()

	var records []models.ApplicationRecord
	for rows.Next() {
		var (
			record       models.ApplicationRecord
			interestRate sql.NullFloat64
			userData     []byte
		)
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.CardSlug,
			&record.Status,
			&record.ApprovalTier,
			&interestRate,
			&record.ApplicationDate,
			&userData,
		); err != nil {
			return nil, commonErrors.NewHistoryQueryFailedError(err)
		}

		if interestRate.Valid {
			rate := interestRate.Float64
			record.InterestRate = &rate
		}
		if len(userData) > 0 {
			if err := json.Unmarshal(userData, &record.UserData); err != nil {
				return nil, commonErrors.NewHistoryQueryFailedError(err)
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, commonErrors.NewHistoryQueryFailedError(err)
	}

	return records, nil
}

func (s *RecordStore) indexRecord(ctx context.Context, record *models.ApplicationRecord) {
	if s.es == nil {
		return
	}

	doc, err := json.Marshal(record)
	if err != nil {
		return
	}

	res, err := s.es.Index(
		s.index,
		bytes.NewReader(doc),
		s.es.Index.WithDocumentID(record.ID),
		s.es.Index.WithContext(ctx),
	)
	if err != nil {
		s.log.Warn("Application record index failed", map[string]interface{}{
			"recordId": record.ID,
			"error":    err.Error(),
		})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		s.log.Warn("Application record index rejected", map[string]interface{}{
			"recordId": record.ID,
			"status":   res.Status(),
		})
	}
}

// internal/models/application.go
package models

// Snapshot captures the applicant's financials at decision time. It is
// stored alongside the record so later profile edits do not rewrite history.
type Snapshot struct {
	Salary      float64 `json:"salary"`
	NetWorth    float64 `json:"netWorth"`
	CreditScore int     `json:"creditScore"`
	Age         int     `json:"age"`
}

// ApplicationRecord is one scored application outcome.
type ApplicationRecord struct {
	ID              string   `json:"id" db:"id"`
	UserID          string   `json:"userId" db:"user_id"`
	CardSlug        CardSlug `json:"cardSlug" db:"card_slug"`
	Status          Status   `json:"status" db:"status"`
	ApprovalTier    Tier     `json:"approvalTier" db:"approval_tier"`
	InterestRate    *float64 `json:"interestRate,omitempty" db:"interest_rate"`
	ApplicationDate string   `json:"applicationDate" db:"application_date"` // RFC 3339 UTC
	UserData        Snapshot `json:"userData" db:"user_data"`
}

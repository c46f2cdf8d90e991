// internal/models/user.go
package models

import "time"

// Profile is an applicant's financial profile as stored in the users table.
type Profile struct {
	ID            string    `json:"id" db:"id"`
	Username      string    `json:"username" db:"username"`
	Email         string    `json:"email" db:"email"`
	Phone         string    `json:"phone,omitempty" db:"phone"`
	BirthDate     string    `json:"birthDate" db:"birth_date"` // YYYY-MM-DD
	Salary        float64   `json:"salary" db:"salary"`
	NetWorth      float64   `json:"netWorth" db:"net_worth"`
	CreditScore   int       `json:"creditScore" db:"credit_score"`
	Address       string    `json:"address,omitempty" db:"address"`
	CurrentCard   *CardSlug `json:"currentCard,omitempty" db:"current_card"`
	RejectionDate *string   `json:"rejectionDate,omitempty" db:"rejection_date"` // RFC 3339 UTC
	InterestRate  *float64  `json:"interestRate,omitempty" db:"interest_rate"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// HasCard reports whether the profile currently holds any card.
func (p *Profile) HasCard() bool {
	return p.CurrentCard != nil && *p.CurrentCard != ""
}

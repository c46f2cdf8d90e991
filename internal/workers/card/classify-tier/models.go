// internal/workers/card/classify-tier/models.go
package classifytier

// Input identifies the applicant and the card to score against.
type Input struct {
	UserID   string `json:"userId"`
	CardSlug string `json:"cardSlug"`
}

// Output carries the tier classification. InterestRate is only set for
// approvable tiers.
type Output struct {
	ApprovalTier string   `json:"approvalTier"`
	Approved     bool     `json:"approved"`
	InterestRate *float64 `json:"interestRate,omitempty"`
}

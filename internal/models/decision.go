// internal/models/decision.go
package models

// Decision is the outcome of processing a single application.
type Decision struct {
	Approved      bool     `json:"approved"`
	Status        Status   `json:"status"`
	ApprovalTier  Tier     `json:"approvalTier"`
	InterestRate  *float64 `json:"interestRate,omitempty"`
	Message       string   `json:"message"`
	RejectionDate *string  `json:"rejectionDate,omitempty"`
}

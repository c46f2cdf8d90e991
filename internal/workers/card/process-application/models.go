// internal/workers/card/process-application/models.go
package processapplication

// Input carries the application request pulled from process variables.
type Input struct {
	UserID   string `json:"userId"`
	CardSlug string `json:"cardSlug"`
}

// Output is merged back into the process instance after the decision.
type Output struct {
	Approved      bool     `json:"approved"`
	Status        string   `json:"status"`
	ApprovalTier  string   `json:"approvalTier"`
	InterestRate  *float64 `json:"interestRate,omitempty"`
	Message       string   `json:"message"`
	RejectionDate *string  `json:"rejectionDate,omitempty"`
}

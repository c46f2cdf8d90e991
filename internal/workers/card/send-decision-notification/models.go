// internal/workers/card/send-decision-notification/models.go
package senddecisionnotification

type Input struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	CardSlug string `json:"cardSlug"`
	Approved bool   `json:"approved"`
	Message  string `json:"message"`
}

type Output struct {
	EmailSent bool `json:"emailSent"`
	SMSSent   bool `json:"smsSent"`
}

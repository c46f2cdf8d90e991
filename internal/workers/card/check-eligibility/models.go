// internal/workers/card/check-eligibility/models.go
package checkeligibility

type Input struct {
	UserID string `json:"userId"`
}

// Output reports the pre-screen result without scoring the application.
type Output struct {
	Eligible bool   `json:"eligible"`
	Message  string `json:"message"`
}

// internal/workers/card/query-application-history/models.go
package queryapplicationhistory

import "travelcard-workers/internal/models"

type Input struct {
	UserID string `json:"userId"`
	Limit  int    `json:"limit,omitempty"`
}

// Output lists a user's scored applications, newest first.
type Output struct {
	Applications []models.ApplicationRecord `json:"applications"`
	Count        int                        `json:"count"`
}

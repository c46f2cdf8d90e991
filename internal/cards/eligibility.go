// internal/cards/eligibility.go
package cards

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"travelcard-workers/internal/models"
)

const (
	minApplicantAge    = 18
	rejectionWaitDays  = 60
	messageEligible    = "Eligible"
	messageUnderage    = "You must be at least 18 years old to apply."
	messageHasCardFmt  = "You already have the %s card. You can only hold one card at a time."
	messageCooldownFmt = "You must wait %d more days before applying again."
)

// Eligibility is the result of the pre-screen gate.
type Eligibility struct {
	Eligible bool
	Message  string
}

// CheckEligibility runs the ordered pre-screen checks: minimum age, one
// card per customer, then the 60-day wait after a rejection. The first
// failing check decides the message.
func CheckEligibility(profile *models.Profile, now time.Time) (Eligibility, error) {
	age, err := Age(profile.BirthDate, now)
	if err != nil {
		return Eligibility{}, err
	}
	if age < minApplicantAge {
		return Eligibility{Eligible: false, Message: messageUnderage}, nil
	}

	if profile.HasCard() {
		return Eligibility{
			Eligible: false,
			Message:  fmt.Sprintf(messageHasCardFmt, titleCase(string(*profile.CurrentCard))),
		}, nil
	}

	if profile.RejectionDate != nil && *profile.RejectionDate != "" {
		rejected, err := parseDate(*profile.RejectionDate)
		if err != nil {
			return Eligibility{}, fmt.Errorf("invalid rejection date %q: %w", *profile.RejectionDate, err)
		}
		daysSince := int(now.Sub(rejected).Hours() / 24)
		if daysSince < rejectionWaitDays {
			return Eligibility{
				Eligible: false,
				Message:  fmt.Sprintf(messageCooldownFmt, rejectionWaitDays-daysSince),
			}, nil
		}
	}

	return Eligibility{Eligible: true, Message: messageEligible}, nil
}

// titleCase upper-cases the first letter of each word in a card slug.
func titleCase(s string) string {
	prev := ' '
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(prev) || prev == '-' || prev == '_' {
			prev = r
			return unicode.ToUpper(r)
		}
		prev = r
		return r
	}, s)
}

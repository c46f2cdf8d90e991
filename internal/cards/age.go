// internal/cards/age.go
package cards

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Age returns the applicant's age in whole years as of now. The year
// difference is decremented when the birthday has not yet passed this year.
func Age(birthDate string, now time.Time) (int, error) {
	birth, err := parseDate(birthDate)
	if err != nil {
		return 0, fmt.Errorf("invalid birth date %q: %w", birthDate, err)
	}

	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age, nil
}

// parseDate accepts a plain date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

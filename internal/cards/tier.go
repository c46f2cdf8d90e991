// internal/cards/tier.go
package cards

import "travelcard-workers/internal/models"

// ClassifyTier assigns the approval tier for a snapshot against a card's
// thresholds. Highly Qualified is checked first; every minimum must be
// met or exceeded for a tier to match.
func ClassifyTier(snapshot models.Snapshot, card Card) models.Tier {
	if meets(snapshot, card.HighlyQualified) {
		return models.TierHighlyQualified
	}
	if meets(snapshot, card.Likely) {
		return models.TierLikely
	}
	return models.TierUnlikely
}

func meets(s models.Snapshot, reqs Requirements) bool {
	return s.Salary >= reqs.MinSalary &&
		s.NetWorth >= reqs.MinNetWorth &&
		s.Age >= reqs.MinAge &&
		s.CreditScore >= reqs.MinFico
}

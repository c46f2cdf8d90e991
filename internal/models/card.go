// internal/models/card.go
package models

import "fmt"

// CardSlug identifies a card product in the catalog.
type CardSlug string

const (
	CardLegionnaire CardSlug = "legionnaire"
	CardTribune     CardSlug = "tribune"
)

// ParseCardSlug validates a raw slug against the known card products.
func ParseCardSlug(raw string) (CardSlug, error) {
	switch CardSlug(raw) {
	case CardLegionnaire, CardTribune:
		return CardSlug(raw), nil
	}
	return "", fmt.Errorf("unknown card slug %q", raw)
}

func (c CardSlug) String() string {
	return string(c)
}

// Tier is the approval tier assigned to a scored application.
type Tier string

const (
	TierHighlyQualified Tier = "Highly Qualified"
	TierLikely          Tier = "Likely"
	TierUnlikely        Tier = "Unlikely"
)

// ParseTier validates a raw tier string.
func ParseTier(raw string) (Tier, error) {
	switch Tier(raw) {
	case TierHighlyQualified, TierLikely, TierUnlikely:
		return Tier(raw), nil
	}
	return "", fmt.Errorf("unknown approval tier %q", raw)
}

func (t Tier) String() string {
	return string(t)
}

// Approved reports whether this tier results in an approval.
func (t Tier) Approved() bool {
	return t == TierHighlyQualified || t == TierLikely
}

// Status is the final status recorded on an application.
type Status string

const (
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) String() string {
	return string(s)
}

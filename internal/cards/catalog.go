// internal/cards/catalog.go
package cards

import (
	"fmt"
	"sort"

	"travelcard-workers/internal/common/config"
	commonErrors "travelcard-workers/internal/common/errors"
	"travelcard-workers/internal/models"
)

const (
	minFicoScore = 300
	maxFicoScore = 850
)

// Requirements are the minimums an applicant must meet or exceed for a tier.
type Requirements struct {
	MinSalary   float64
	MinNetWorth float64
	MinAge      int
	MinFico     int
}

// Card is one card product with its tier thresholds and APRs.
type Card struct {
	Slug            models.CardSlug
	HighlyQualified Requirements
	Likely          Requirements
	Rates           config.RateConfig
}

// Catalog holds the card products loaded from configuration.
type Catalog struct {
	cards map[models.CardSlug]Card
}

// NewCatalog builds the catalog from configuration and validates every
// card up front so a bad deployment fails at startup, not mid-decision.
func NewCatalog(cfg map[string]config.CardConfig) (*Catalog, error) {
	if len(cfg) == 0 {
		return nil, commonErrors.NewCardConfigInvalidError("no cards configured")
	}

	cards := make(map[models.CardSlug]Card, len(cfg))
	for raw, cc := range cfg {
		slug, err := models.ParseCardSlug(raw)
		if err != nil {
			return nil, commonErrors.NewCardConfigInvalidError(err.Error())
		}

		card := Card{
			Slug:            slug,
			HighlyQualified: requirementsFromConfig(cc.HighlyQualified),
			Likely:          requirementsFromConfig(cc.Likely),
			Rates:           cc.Rates,
		}
		if err := validateCard(card); err != nil {
			return nil, commonErrors.NewCardConfigInvalidError(
				fmt.Sprintf("card %s: %v", slug, err))
		}
		cards[slug] = card
	}

	return &Catalog{cards: cards}, nil
}

func requirementsFromConfig(tc config.TierConfig) Requirements {
	return Requirements{
		MinSalary:   tc.MinSalary,
		MinNetWorth: tc.MinNetWorth,
		MinAge:      tc.MinAge,
		MinFico:     tc.MinFico,
	}
}

func validateCard(card Card) error {
	for tier, reqs := range map[string]Requirements{
		"highlyQualified": card.HighlyQualified,
		"likely":          card.Likely,
	} {
		if reqs.MinFico < minFicoScore || reqs.MinFico > maxFicoScore {
			return fmt.Errorf("%s minFico %d outside FICO range [%d, %d]",
				tier, reqs.MinFico, minFicoScore, maxFicoScore)
		}
		if reqs.MinSalary < 0 || reqs.MinNetWorth < 0 || reqs.MinAge < 0 {
			return fmt.Errorf("%s has a negative threshold", tier)
		}
	}

	// The highly qualified bar must sit at or above the likely bar on
	// every axis, otherwise tier classification is not monotonic.
	hq, likely := card.HighlyQualified, card.Likely
	if hq.MinSalary < likely.MinSalary ||
		hq.MinNetWorth < likely.MinNetWorth ||
		hq.MinAge < likely.MinAge ||
		hq.MinFico < likely.MinFico {
		return fmt.Errorf("highlyQualified thresholds must dominate likely thresholds")
	}

	if card.Rates.HighlyQualified <= 0 || card.Rates.Likely <= 0 {
		return fmt.Errorf("rates must be positive")
	}
	if card.Rates.HighlyQualified > card.Rates.Likely {
		return fmt.Errorf("highlyQualified rate %.2f exceeds likely rate %.2f",
			card.Rates.HighlyQualified, card.Rates.Likely)
	}

	return nil
}

// Get returns the card for the given slug.
func (c *Catalog) Get(slug models.CardSlug) (Card, error) {
	card, ok := c.cards[slug]
	if !ok {
		return Card{}, commonErrors.NewUnknownCardError(string(slug))
	}
	return card, nil
}

// Rate returns the APR for an approved tier on the given card.
// Unlikely has no rate.
func (c *Catalog) Rate(slug models.CardSlug, tier models.Tier) (float64, error) {
	card, err := c.Get(slug)
	if err != nil {
		return 0, err
	}
	switch tier {
	case models.TierHighlyQualified:
		return card.Rates.HighlyQualified, nil
	case models.TierLikely:
		return card.Rates.Likely, nil
	}
	return 0, commonErrors.NewInvalidTierError(string(tier))
}

// Slugs returns the configured card slugs in stable order.
func (c *Catalog) Slugs() []models.CardSlug {
	slugs := make([]models.CardSlug, 0, len(c.cards))
	for slug := range c.cards {
		slugs = append(slugs, slug)
	}
	sort.Slice(slugs, func(i, j int) bool { return slugs[i] < slugs[j] })
	return slugs
}

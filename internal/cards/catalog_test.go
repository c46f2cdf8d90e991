// internal/cards/catalog_test.go
package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"travelcard-workers/internal/common/config"
	"travelcard-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func testCardConfig() map[string]config.CardConfig {
	return map[string]config.CardConfig{
		"legionnaire": {
			HighlyQualified: config.TierConfig{MinSalary: 75000, MinNetWorth: 0, MinAge: 25, MinFico: 720},
			Likely:          config.TierConfig{MinSalary: 50000, MinNetWorth: 0, MinAge: 21, MinFico: 700},
			Rates:           config.RateConfig{HighlyQualified: 12.99, Likely: 18.99},
		},
		"tribune": {
			HighlyQualified: config.TierConfig{MinSalary: 200000, MinNetWorth: 1000000, MinAge: 30, MinFico: 800},
			Likely:          config.TierConfig{MinSalary: 150000, MinNetWorth: 800000, MinAge: 25, MinFico: 750},
			Rates:           config.RateConfig{HighlyQualified: 4.99, Likely: 7.49},
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestNewCatalog_Valid(t *testing.T) {
	catalog, err := NewCatalog(testCardConfig())

	assert.NoError(t, err)
	assert.NotNil(t, catalog)
	assert.Equal(t, []models.CardSlug{models.CardLegionnaire, models.CardTribune}, catalog.Slugs())
}

func TestNewCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]config.CardConfig)
	}{
		{
			name:   "empty config",
			mutate: func(cfg map[string]config.CardConfig) { clear(cfg) },
		},
		{
			name: "unknown slug",
			mutate: func(cfg map[string]config.CardConfig) {
				cfg["centurion"] = cfg["legionnaire"]
			},
		},
		{
			name: "fico below range",
			mutate: func(cfg map[string]config.CardConfig) {
				card := cfg["legionnaire"]
				card.Likely.MinFico = 299
				cfg["legionnaire"] = card
			},
		},
		{
			name: "fico above range",
			mutate: func(cfg map[string]config.CardConfig) {
				card := cfg["tribune"]
				card.HighlyQualified.MinFico = 851
				cfg["tribune"] = card
			},
		},
		{
			name: "likely salary above highly qualified",
			mutate: func(cfg map[string]config.CardConfig) {
				card := cfg["legionnaire"]
				card.Likely.MinSalary = 100000
				cfg["legionnaire"] = card
			},
		},
		{
			name: "likely age above highly qualified",
			mutate: func(cfg map[string]config.CardConfig) {
				card := cfg["tribune"]
				card.Likely.MinAge = 40
				cfg["tribune"] = card
			},
		},
		{
			name: "negative salary threshold",
			mutate: func(cfg map[string]config.CardConfig) {
				card := cfg["legionnaire"]
				card.Likely.MinSalary = -1
				cfg["legionnaire"] = card
			},
		},
		{
			name: "zero rate",
			mutate: func(cfg map[string]config.CardConfig) {
				card := cfg["legionnaire"]
				card.Rates.Likely = 0
				cfg["legionnaire"] = card
			},
		},
		{
			name: "highly qualified rate above likely rate",
			mutate: func(cfg map[string]config.CardConfig) {
				card := cfg["tribune"]
				card.Rates.HighlyQualified = 9.99
				cfg["tribune"] = card
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testCardConfig()
			tt.mutate(cfg)

			catalog, err := NewCatalog(cfg)

			assert.Error(t, err)
			assert.Nil(t, catalog)
		})
	}
}

func TestCatalog_Get(t *testing.T) {
	catalog, err := NewCatalog(testCardConfig())
	assert.NoError(t, err)

	card, err := catalog.Get(models.CardLegionnaire)
	assert.NoError(t, err)
	assert.Equal(t, models.CardLegionnaire, card.Slug)
	assert.Equal(t, 720, card.HighlyQualified.MinFico)

	_, err = catalog.Get(models.CardSlug("centurion"))
	assert.Error(t, err)
}

func TestCatalog_Rate(t *testing.T) {
	catalog, err := NewCatalog(testCardConfig())
	assert.NoError(t, err)

	tests := []struct {
		name     string
		card     models.CardSlug
		tier     models.Tier
		expected float64
		wantErr  bool
	}{
		{"legionnaire highly qualified", models.CardLegionnaire, models.TierHighlyQualified, 12.99, false},
		{"legionnaire likely", models.CardLegionnaire, models.TierLikely, 18.99, false},
		{"tribune highly qualified", models.CardTribune, models.TierHighlyQualified, 4.99, false},
		{"tribune likely", models.CardTribune, models.TierLikely, 7.49, false},
		{"unlikely has no rate", models.CardLegionnaire, models.TierUnlikely, 0, true},
		{"unknown card", models.CardSlug("centurion"), models.TierLikely, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := catalog.Rate(tt.card, tt.tier)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, rate)
			}
		})
	}
}

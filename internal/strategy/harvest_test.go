package strategy

import (
	"testing"

	"github.com/retirewise/retirewise/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func brokerageWithBasis(balance, basis domain.Cents) *domain.Account {
	return &domain.Account{
		ID:        "brokerage",
		Kind:      domain.TaxableBrokerage,
		Balance:   balance,
		CostBasis: &basis,
	}
}

func TestUnrealizedLoss(t *testing.T) {
	tests := []struct {
		name     string
		account  *domain.Account
		expected domain.Cents
	}{
		{
			name:     "Balance below basis",
			account:  brokerageWithBasis(8_000_000, 10_000_000),
			expected: 2_000_000,
		},
		{
			name:     "Balance above basis has no loss",
			account:  brokerageWithBasis(12_000_000, 10_000_000),
			expected: 0,
		},
		{
			name:     "No tracked basis",
			account:  &domain.Account{Kind: domain.TaxableBrokerage, Balance: 8_000_000},
			expected: 0,
		},
		{
			name: "Non-taxable accounts never harvest",
			account: &domain.Account{
				Kind: domain.RothIRA, Balance: 8_000_000,
				CostBasis: func() *domain.Cents { c := domain.Cents(10_000_000); return &c }(),
			},
			expected: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UnrealizedLoss(tt.account))
		})
	}
}

func TestHarvestAll(t *testing.T) {
	strategy := &HarvestAll{}
	account := brokerageWithBasis(8_000_000, 10_000_000)

	got := SuggestHarvest(strategy, account, 0, 0)
	assert.Equal(t, domain.Cents(2_000_000), got)
}

func TestOffsetGains(t *testing.T) {
	strategy := &OffsetGains{}

	tests := []struct {
		name     string
		account  *domain.Account
		gains    domain.Cents
		expected domain.Cents
	}{
		{
			name:     "Loss covers gains plus the ordinary offset",
			account:  brokerageWithBasis(8_000_000, 10_000_000),
			gains:    500_000,
			expected: 800_000, // $5,000 gains + $3,000 ordinary offset
		},
		{
			name:     "Loss smaller than the target",
			account:  brokerageWithBasis(9_600_000, 10_000_000),
			gains:    500_000,
			expected: 400_000,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestHarvest(strategy, tt.account, tt.gains, 0)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSuggestHarvestThreshold(t *testing.T) {
	strategy := &HarvestAll{}
	account := brokerageWithBasis(9_950_000, 10_000_000) // $500 loss

	assert.Equal(t, domain.Cents(0), SuggestHarvest(strategy, account, 0, 100_000),
		"suggestions below the threshold are dropped")
	assert.Equal(t, domain.Cents(50_000), SuggestHarvest(strategy, account, 0, 50_000),
		"suggestions at the threshold go through")
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name      string
		settings  domain.StrategySettings
		wantErrs  int
	}{
		{
			name:     "Nothing enabled",
			settings: domain.StrategySettings{},
			wantErrs: 0,
		},
		{
			name: "Valid configuration",
			settings: domain.StrategySettings{
				RothConversion: domain.RothConversionSettings{
					Enabled: true, Strategy: "bracket_fill", BracketTarget: 10_335_000,
				},
				QCD: domain.QCDSettings{
					Enabled: true, Strategy: "fixed", AnnualAmount: 500_000,
				},
				Harvest: domain.HarvestSettings{
					Enabled: true, Strategy: "offset_gains",
				},
			},
			wantErrs: 0,
		},
		{
			name: "Bracket fill without a target",
			settings: domain.StrategySettings{
				RothConversion: domain.RothConversionSettings{Enabled: true, Strategy: "bracket_fill"},
			},
			wantErrs: 1,
		},
		{
			name: "Percentage out of range",
			settings: domain.StrategySettings{
				RothConversion: domain.RothConversionSettings{
					Enabled: true, Strategy: "percentage", Percentage: decimal.RequireFromString("1.5"),
				},
			},
			wantErrs: 1,
		},
		{
			name: "Unknown names everywhere are collected, not short-circuited",
			settings: domain.StrategySettings{
				RothConversion: domain.RothConversionSettings{Enabled: true, Strategy: "mystery"},
				QCD:            domain.QCDSettings{Enabled: true, Strategy: "mystery"},
				Harvest:        domain.HarvestSettings{Enabled: true, Strategy: "mystery"},
			},
			wantErrs: 3,
		},
		{
			name: "Negative harvest threshold",
			settings: domain.StrategySettings{
				Harvest: domain.HarvestSettings{Enabled: true, Strategy: "harvest_all", MinThreshold: -1},
			},
			wantErrs: 1,
		},
		{
			name: "Disabled settings are never validated",
			settings: domain.StrategySettings{
				RothConversion: domain.RothConversionSettings{Enabled: false, Strategy: "mystery"},
			},
			wantErrs: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateSettings(tt.settings)
			assert.Len(t, errs, tt.wantErrs)
		})
	}
}

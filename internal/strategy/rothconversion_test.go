package strategy

import (
	"testing"

	"github.com/retirewise/retirewise/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionFromSettings(t *testing.T) {
	tests := []struct {
		strategy string
		expected string
	}{
		{"bracket_fill", "bracket_fill"},
		{"fixed", "fixed"},
		{"percentage", "percentage"},
		{"backdoor", "backdoor"},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			got := ConversionFromSettings(domain.RothConversionSettings{Strategy: tt.strategy})
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got.Name())
		})
	}

	assert.Nil(t, ConversionFromSettings(domain.RothConversionSettings{Strategy: "mystery"}))
}

func TestBracketFillConversion(t *testing.T) {
	conversion := &BracketFillConversion{}

	tests := []struct {
		name          string
		taxableIncome domain.Cents
		bracketTop    domain.Cents
		balance       domain.Cents
		expected      domain.Cents
	}{
		{
			name:          "Fills the remaining headroom",
			taxableIncome: 4_000_000,
			bracketTop:    10_335_000,
			balance:       50_000_000,
			expected:      6_335_000,
		},
		{
			name:          "Capped by the traditional balance",
			taxableIncome: 4_000_000,
			bracketTop:    10_335_000,
			balance:       2_000_000,
			expected:      2_000_000,
		},
		{
			name:          "Income already at the ceiling",
			taxableIncome: 10_335_000,
			bracketTop:    10_335_000,
			balance:       50_000_000,
			expected:      0,
		},
		{
			name:          "Income past the ceiling never converts negative",
			taxableIncome: 12_000_000,
			bracketTop:    10_335_000,
			balance:       50_000_000,
			expected:      0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := conversion.Amount(tt.taxableIncome, tt.bracketTop, tt.balance, 65, false)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFixedConversion(t *testing.T) {
	conversion := &FixedConversion{Amount_: 1_000_000}
	assert.Equal(t, domain.Cents(1_000_000), conversion.Amount(0, 0, 50_000_000, 65, false))
	assert.Equal(t, domain.Cents(300_000), conversion.Amount(0, 0, 300_000, 65, false), "capped by balance")
}

func TestPercentageConversion(t *testing.T) {
	conversion := &PercentageConversion{Percentage: decimal.RequireFromString("0.10")}
	assert.Equal(t, domain.Cents(5_000_000), conversion.Amount(0, 0, 50_000_000, 65, false))
	assert.Equal(t, domain.Cents(0), conversion.Amount(0, 0, 0, 65, false))
}

func TestBackdoorConversion(t *testing.T) {
	conversion := &BackdoorConversion{}
	assert.Equal(t, BackdoorContributionLimit, conversion.Amount(0, 0, 50_000_000, 45, false))
	assert.Equal(t, domain.Cents(500_000), conversion.Amount(0, 0, 500_000, 45, false), "capped by balance")
}

func TestProRataSplit(t *testing.T) {
	tests := []struct {
		name        string
		conversion  domain.Cents
		basis       domain.Cents
		total       domain.Cents
		taxable     domain.Cents
		nonTaxable  domain.Cents
	}{
		{
			name:       "Quarter basis leaves three quarters taxable",
			conversion: 1_000_000,
			basis:      5_000_000,
			total:      20_000_000,
			taxable:    750_000,
			nonTaxable: 250_000,
		},
		{
			name:       "No basis is fully taxable",
			conversion: 1_000_000,
			basis:      0,
			total:      20_000_000,
			taxable:    1_000_000,
			nonTaxable: 0,
		},
		{
			name:       "Basis above balance caps the ratio at one",
			conversion: 1_000_000,
			basis:      30_000_000,
			total:      20_000_000,
			taxable:    0,
			nonTaxable: 1_000_000,
		},
		{
			name:       "Zero conversion",
			conversion: 0,
			basis:      5_000_000,
			total:      20_000_000,
			taxable:    0,
			nonTaxable: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taxable, nonTaxable := ProRataSplit(tt.conversion, tt.basis, tt.total)
			assert.Equal(t, tt.taxable, taxable)
			assert.Equal(t, tt.nonTaxable, nonTaxable)
			assert.Equal(t, tt.conversion, taxable+nonTaxable, "the split always covers the conversion")
		})
	}
}

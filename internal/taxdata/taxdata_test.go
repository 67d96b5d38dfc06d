package taxdata

import (
	"testing"

	"github.com/retirewise/retirewise/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedYear(t *testing.T) {
	assert.True(t, SupportedYear(2024))
	assert.True(t, SupportedYear(2025))
	assert.False(t, SupportedYear(2023))
	assert.False(t, SupportedYear(2026))
}

func TestFederalBracketsShape(t *testing.T) {
	statuses := []domain.FilingStatus{
		domain.Single, domain.MarriedJoint, domain.MarriedSeparate, domain.HeadOfHousehold,
	}
	for _, year := range []int{2024, 2025} {
		for _, status := range statuses {
			brackets, err := FederalBrackets(year, status)
			require.NoError(t, err, "%d/%s", year, status)
			require.Len(t, brackets, 7)

			// Edges must be contiguous and ascending, with an unbounded top.
			for i, b := range brackets {
				if i > 0 {
					prev := brackets[i-1]
					require.NotNil(t, prev.Upper)
					assert.True(t, b.Lower.Equal(*prev.Upper),
						"%d/%s bracket %d lower edge must meet the previous upper edge", year, status, i)
					assert.True(t, b.Rate.GreaterThan(prev.Rate))
				}
			}
			assert.Nil(t, brackets[6].Upper, "top bracket is unbounded")
		}
	}
}

func TestFederalBracketsUnknownYear(t *testing.T) {
	_, err := FederalBrackets(1999, domain.Single)
	assert.Error(t, err)
}

func TestStandardDeduction(t *testing.T) {
	tests := []struct {
		year     int
		status   domain.FilingStatus
		expected int64
	}{
		{2025, domain.Single, 15750},
		{2025, domain.MarriedJoint, 31500},
		{2025, domain.HeadOfHousehold, 23625},
		{2024, domain.Single, 14600},
		{2024, domain.MarriedJoint, 29200},
	}
	for _, tt := range tests {
		got, err := StandardDeduction(tt.year, tt.status)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(tt.expected)),
			"%d/%s: expected %d, got %s", tt.year, tt.status, tt.expected, got)
	}
}

func TestCapitalGainsBrackets(t *testing.T) {
	brackets, err := CapitalGainsBrackets(2025, domain.Single)
	require.NoError(t, err)
	require.Len(t, brackets, 3)
	assert.True(t, brackets[0].Rate.IsZero())
	assert.True(t, brackets[0].Upper.Equal(decimal.NewFromInt(48350)))
	assert.Nil(t, brackets[2].Upper)
}

func TestFICAParams(t *testing.T) {
	params2024, err := FICA(2024)
	require.NoError(t, err)
	assert.True(t, params2024.SocialSecurityWageBase.Equal(decimal.NewFromInt(168600)))

	params2025, err := FICA(2025)
	require.NoError(t, err)
	assert.True(t, params2025.SocialSecurityWageBase.Equal(decimal.NewFromInt(176100)))

	_, err = FICA(2030)
	assert.Error(t, err)
}

func TestUniformLifetimeFactor(t *testing.T) {
	first, ok := UniformLifetimeFactor(72)
	require.True(t, ok)
	assert.True(t, first.Equal(decimal.RequireFromString("27.4")))

	last, ok := UniformLifetimeFactor(120)
	require.True(t, ok)
	assert.True(t, last.Equal(decimal.RequireFromString("2.0")))

	_, ok = UniformLifetimeFactor(71)
	assert.False(t, ok)
	_, ok = UniformLifetimeFactor(121)
	assert.False(t, ok)
}

func TestUniformLifetimeFactorsDescend(t *testing.T) {
	prev, ok := UniformLifetimeFactor(72)
	require.True(t, ok)
	for age := 73; age <= 120; age++ {
		factor, ok := UniformLifetimeFactor(age)
		require.True(t, ok, "age %d", age)
		assert.True(t, factor.LessThanOrEqual(prev), "age %d", age)
		prev = factor
	}
}

func TestStateBrackets(t *testing.T) {
	// Flat states share one bracket across statuses.
	brackets, deduction, err := StateBrackets("PA", 2025, domain.Single)
	require.NoError(t, err)
	require.Len(t, brackets, 1)
	assert.True(t, brackets[0].Rate.Equal(decimal.RequireFromString("0.0307")))
	assert.True(t, deduction.IsZero())

	// Unknown codes behave as no-income-tax states.
	brackets, deduction, err = StateBrackets("TX", 2025, domain.Single)
	require.NoError(t, err)
	require.Len(t, brackets, 1)
	assert.True(t, brackets[0].Rate.IsZero())
	assert.True(t, deduction.IsZero())

	// A known state without the requested year is an error.
	_, _, err = StateBrackets("NY", 2023, domain.Single)
	assert.Error(t, err)
}

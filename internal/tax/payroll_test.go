package tax

import (
	"testing"

	"github.com/retirewise/retirewise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFICATax(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name     string
		wages    domain.Cents
		status   domain.FilingStatus
		year     int
		expected domain.Cents
	}{
		{
			name:     "Wages under the wage base",
			wages:    10_000_000, // $100,000
			status:   domain.Single,
			year:     2025,
			expected: 765_000, // 6.2% + 1.45%
		},
		{
			name:     "Social Security capped at the 2025 wage base",
			wages:    25_000_000, // $250,000
			status:   domain.MarriedJoint,
			year:     2025,
			expected: 1_454_320, // $10,918.20 SS + $3,625.00 Medicare
		},
		{
			name:     "Additional Medicare above the single threshold",
			wages:    25_000_000, // $250,000, threshold $200,000
			status:   domain.Single,
			year:     2025,
			expected: 1_499_320, // capped SS + Medicare + 0.9% of $50,000
		},
		{
			name:     "2024 wage base is lower",
			wages:    20_000_000, // $200,000
			status:   domain.MarriedJoint,
			year:     2024,
			expected: 1_335_320, // $10,453.20 SS + $2,900.00 Medicare
		},
		{
			name:     "No wages",
			wages:    0,
			status:   domain.Single,
			year:     2025,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.FICATax(tt.wages, tt.status, tt.year)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFICATaxUnsupportedYear(t *testing.T) {
	engine := NewEngine()
	_, err := engine.FICATax(10_000_000, domain.Single, 2020)
	assert.Error(t, err)
}

func TestNIIT(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name             string
		investmentIncome domain.Cents
		magi             domain.Cents
		status           domain.FilingStatus
		expected         domain.Cents
	}{
		{
			name:             "MAGI below threshold",
			investmentIncome: 5_000_000,
			magi:             15_000_000, // $150,000 < $200,000
			status:           domain.Single,
			expected:         0,
		},
		{
			name:             "Investment income smaller than the excess",
			investmentIncome: 8_000_000,  // $80,000
			magi:             30_000_000, // $100,000 over threshold
			status:           domain.Single,
			expected:         304_000, // 3.8% of $80,000
		},
		{
			name:             "Excess smaller than investment income",
			investmentIncome: 15_000_000, // $150,000
			magi:             22_000_000, // $20,000 over threshold
			status:           domain.Single,
			expected:         76_000, // 3.8% of $20,000
		},
		{
			name:             "Joint threshold is higher",
			investmentIncome: 8_000_000,
			magi:             24_000_000, // $240,000 < $250,000
			status:           domain.MarriedJoint,
			expected:         0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.NIIT(tt.investmentIncome, tt.magi, tt.status)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRMDAmount(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name     string
		balance  domain.Cents
		age      int
		expected domain.Cents
	}{
		{
			name:     "Below the start age",
			balance:  50_000_000,
			age:      71,
			expected: 0,
		},
		{
			name:     "First RMD year at 72",
			balance:  50_000_000, // $500,000 / 27.4
			age:      72,
			expected: 1_824_818, // $18,248.18
		},
		{
			name:     "Age 75",
			balance:  50_000_000, // $500,000 / 24.6
			age:      75,
			expected: 2_032_520, // $20,325.20
		},
		{
			name:     "Zero balance",
			balance:  0,
			age:      80,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.RMDAmount(tt.balance, tt.age)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRMDAmountBeyondTable(t *testing.T) {
	engine := NewEngine()
	_, err := engine.RMDAmount(50_000_000, 121)
	assert.Error(t, err, "ages past the table must error, never silently owe zero")
}

func TestRMDGrowsWithAge(t *testing.T) {
	engine := NewEngine()

	// The divisor shrinks every year, so the same balance owes more.
	var prev domain.Cents
	for age := 72; age <= 100; age++ {
		got, err := engine.RMDAmount(50_000_000, age)
		require.NoError(t, err)
		assert.Greater(t, got, prev, "age %d", age)
		prev = got
	}
}

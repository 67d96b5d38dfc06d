package benefit

import (
	"testing"

	"github.com/retirewise/retirewise/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEstimatePIA(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name     string
		earnings domain.Cents
		year     int
		expected domain.Cents
	}{
		{
			name:     "AIME below the first bend point",
			earnings: 1_200_000, // $12,000/year, AIME $1,000
			year:     2025,
			expected: 90_000, // 90%
		},
		{
			name:     "AIME between bend points",
			earnings: 6_000_000, // $60,000/year, AIME $5,000
			year:     2025,
			// 90% of 1,226 + 32% of 3,774 = 1,103.40 + 1,207.68
			expected: 231_108,
		},
		{
			name:     "AIME above the second bend point",
			earnings: 12_000_000, // $120,000/year, AIME $10,000
			year:     2025,
			// 90% of 1,226 + 32% of 6,165 + 15% of 2,609
			expected: 346_755,
		},
		{
			name:     "2024 bend points",
			earnings: 1_200_000, // AIME $1,000, still under the first bend
			year:     2024,
			expected: 90_000,
		},
		{
			name:     "Unknown year reuses the latest table",
			earnings: 1_200_000,
			year:     2030,
			expected: 90_000,
		},
		{
			name:     "No earnings",
			earnings: 0,
			year:     2025,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.EstimatePIA(tt.earnings, tt.year))
		})
	}
}

func TestEstimatePIAMonotonic(t *testing.T) {
	engine := NewEngine()

	var prev domain.Cents
	for _, earnings := range []domain.Cents{1_000_000, 3_000_000, 6_000_000, 12_000_000, 24_000_000} {
		got := engine.EstimatePIA(earnings, 2025)
		assert.Greater(t, got, prev)
		prev = got
	}
}

package benefit

import (
	"github.com/retirewise/retirewise/internal/domain"
	"github.com/shopspring/decimal"
)

// piaBendPoints are the monthly AIME bend points per eligibility year.
// The formula replaces 90% of AIME up to the first bend point, 32% up to
// the second, and 15% beyond.
var piaBendPoints = map[int][2]decimal.Decimal{
	2024: {decimal.NewFromInt(1174), decimal.NewFromInt(7078)},
	2025: {decimal.NewFromInt(1226), decimal.NewFromInt(7391)},
}

var (
	piaRate1 = decimal.NewFromFloat(0.90)
	piaRate2 = decimal.NewFromFloat(0.32)
	piaRate3 = decimal.NewFromFloat(0.15)
	months   = decimal.NewFromInt(12)
)

// EstimatePIA estimates the monthly benefit at FRA from average annual
// earnings using the bend-point formula for the given eligibility year.
// Years without bend-point data reuse the latest available table; the
// estimate is planning guidance, not a statutory computation.
func (e *Engine) EstimatePIA(averageAnnualEarnings domain.Cents, eligibilityYear int) domain.Cents {
	if averageAnnualEarnings <= 0 {
		return 0
	}
	bends, ok := piaBendPoints[eligibilityYear]
	if !ok {
		bends = piaBendPoints[2025]
	}
	aime := averageAnnualEarnings.Dollars().Div(months)

	first := decimal.Min(aime, bends[0])
	pia := first.Mul(piaRate1)
	if aime.GreaterThan(bends[0]) {
		second := decimal.Min(aime, bends[1]).Sub(bends[0])
		pia = pia.Add(second.Mul(piaRate2))
	}
	if aime.GreaterThan(bends[1]) {
		pia = pia.Add(aime.Sub(bends[1]).Mul(piaRate3))
	}
	return domain.CentsFromDollars(pia)
}

// Package benefit implements the Social Security benefit formula:
// full retirement age by birth year, early/delayed claiming adjustment,
// COLA compounding, and the taxable-portion provisional-income test.
package benefit

import (
	"github.com/retirewise/retirewise/internal/domain"
	"github.com/shopspring/decimal"
)

// Engine computes Social Security benefits.
type Engine struct{}

// NewEngine creates a benefit engine.
func NewEngine() *Engine { return &Engine{} }

// FRA is a full retirement age in years and months.
type FRA struct {
	Years  int
	Months int
}

// TotalMonths returns the FRA expressed in months.
func (f FRA) TotalMonths() int { return f.Years*12 + f.Months }

// FullRetirementAge returns the statutory FRA for a birth year. The
// 1938-1942 and 1955-1959 bands step two months per birth year.
func (e *Engine) FullRetirementAge(birthYear int) FRA {
	switch {
	case birthYear <= 1937:
		return FRA{Years: 65}
	case birthYear <= 1942:
		return FRA{Years: 65, Months: 2 * (birthYear - 1937)}
	case birthYear <= 1954:
		return FRA{Years: 66}
	case birthYear <= 1959:
		return FRA{Years: 66, Months: 2 * (birthYear - 1954)}
	default:
		return FRA{Years: 67}
	}
}

var (
	earlyRateFirst36 = decimal.NewFromInt(5).Div(decimal.NewFromInt(9)).Div(decimal.NewFromInt(100))
	earlyRateBeyond  = decimal.NewFromInt(5).Div(decimal.NewFromInt(12)).Div(decimal.NewFromInt(100))
	delayedRate      = decimal.NewFromInt(2).Div(decimal.NewFromInt(3)).Div(decimal.NewFromInt(100))
)

// Benefit returns the monthly benefit for currentYear given the primary
// insurance amount (monthly benefit at FRA). Filing before FRA reduces the
// PIA by 5/9 of 1% per month for the first 36 months early and 5/12 of 1%
// per month beyond; filing after FRA credits 2/3 of 1% per month (8% per
// year). COLA then compounds for each year since the claim year, floored
// at zero. Claiming ages below 62 are not validated here; that is the
// caller's responsibility.
func (e *Engine) Benefit(pia domain.Cents, birthYear, filingAge, currentYear int, colaRate decimal.Decimal) domain.Cents {
	if pia <= 0 {
		return 0
	}
	fraMonths := e.FullRetirementAge(birthYear).TotalMonths()
	filingMonths := filingAge * 12

	amount := pia.Dollars()
	if filingMonths < fraMonths {
		early := fraMonths - filingMonths
		first := early
		if first > 36 {
			first = 36
		}
		reduction := decimal.NewFromInt(int64(first)).Mul(earlyRateFirst36)
		if early > 36 {
			reduction = reduction.Add(decimal.NewFromInt(int64(early - 36)).Mul(earlyRateBeyond))
		}
		amount = amount.Mul(decimal.NewFromInt(1).Sub(reduction))
	} else if filingMonths > fraMonths {
		credit := decimal.NewFromInt(int64(filingMonths - fraMonths)).Mul(delayedRate)
		amount = amount.Mul(decimal.NewFromInt(1).Add(credit))
	}

	claimYear := birthYear + filingAge
	colaYears := currentYear - claimYear
	if colaYears < 0 {
		colaYears = 0
	}
	if colaYears > 0 && !colaRate.IsZero() {
		factor := decimal.NewFromInt(1).Add(colaRate).Pow(decimal.NewFromInt(int64(colaYears)))
		amount = amount.Mul(factor)
	}

	return domain.CentsFromDollars(amount)
}

// ssThresholds are the provisional-income bend points for the taxable
// portion test. Not inflation indexed by statute.
func ssThresholds(status domain.FilingStatus) (first, second decimal.Decimal) {
	if status == domain.MarriedJoint {
		return decimal.NewFromInt(32000), decimal.NewFromInt(44000)
	}
	return decimal.NewFromInt(25000), decimal.NewFromInt(34000)
}

var (
	halfTaxable = decimal.NewFromFloat(0.50)
	maxTaxable  = decimal.NewFromFloat(0.85)
)

// TaxablePortion applies the two-threshold provisional-income test:
// below the first threshold none of the benefit is taxable, between the
// thresholds 50% is, and above the second 85% is, never more.
func (e *Engine) TaxablePortion(annualBenefit, provisionalIncome domain.Cents, status domain.FilingStatus) domain.Cents {
	if annualBenefit <= 0 {
		return 0
	}
	first, second := ssThresholds(status)
	provisional := provisionalIncome.Dollars()

	switch {
	case provisional.LessThanOrEqual(first):
		return 0
	case provisional.LessThanOrEqual(second):
		return domain.CentsFromDollars(annualBenefit.Dollars().Mul(halfTaxable))
	default:
		return domain.CentsFromDollars(annualBenefit.Dollars().Mul(maxTaxable))
	}
}

// ProvisionalIncome is other income plus half the Social Security benefit.
func (e *Engine) ProvisionalIncome(otherIncome, annualBenefit domain.Cents) domain.Cents {
	return otherIncome + domain.CentsFromDollars(annualBenefit.Dollars().Mul(halfTaxable))
}

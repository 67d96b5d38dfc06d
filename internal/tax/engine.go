// Package tax implements the progressive-bracket tax computations over
// the statutory tables in taxdata. Every method takes the tax year
// explicitly; nothing in this package consults the wall clock.
package tax

import (
	"fmt"

	"github.com/retirewise/retirewise/internal/domain"
	"github.com/retirewise/retirewise/internal/taxdata"
	"github.com/shopspring/decimal"
)

// Engine computes federal, state, payroll and investment taxes plus
// required minimum distributions.
type Engine struct{}

// NewEngine creates a tax engine.
func NewEngine() *Engine { return &Engine{} }

// walkBrackets taxes min(remaining, bracketWidth) at each ascending
// bracket rate until the income is exhausted. The top bracket's nil upper
// edge is unbounded.
func walkBrackets(taxable decimal.Decimal, brackets []taxdata.Bracket) decimal.Decimal {
	total := decimal.Zero
	remaining := taxable
	for _, bracket := range brackets {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		inBracket := remaining
		if bracket.Upper != nil {
			width := bracket.Upper.Sub(bracket.Lower)
			if width.LessThan(inBracket) {
				inBracket = width
			}
		}
		total = total.Add(inBracket.Mul(bracket.Rate))
		remaining = remaining.Sub(inBracket)
	}
	return total
}

// FederalTax applies the standard deduction for (year, status) and walks
// the ordinary-income brackets. The computed tax amount is rounded to
// cents (half-up) once, not per bracket. Zero or negative income is zero
// tax; an unsupported year or status is an error.
func (e *Engine) FederalTax(income domain.Cents, status domain.FilingStatus, year int) (domain.Cents, error) {
	if income <= 0 {
		return 0, nil
	}
	deduction, err := taxdata.StandardDeduction(year, status)
	if err != nil {
		return 0, err
	}
	brackets, err := taxdata.FederalBrackets(year, status)
	if err != nil {
		return 0, err
	}
	taxable := income.Dollars().Sub(deduction)
	if taxable.LessThanOrEqual(decimal.Zero) {
		return 0, nil
	}
	return domain.CentsFromDollars(walkBrackets(taxable, brackets)), nil
}

// TaxableOrdinaryIncome returns income less the standard deduction,
// floored at zero. Bracket-fill strategies need the post-deduction figure.
func (e *Engine) TaxableOrdinaryIncome(income domain.Cents, status domain.FilingStatus, year int) (domain.Cents, error) {
	deduction, err := taxdata.StandardDeduction(year, status)
	if err != nil {
		return 0, err
	}
	taxable := income.Dollars().Sub(deduction)
	if taxable.LessThanOrEqual(decimal.Zero) {
		return 0, nil
	}
	return domain.CentsFromDollars(taxable), nil
}

// LongTermCapitalGainsTax walks the 0/15/20% tiers. Gains stack on top of
// ordinary taxable income, so the walk starts at the tier containing that
// income rather than at zero.
func (e *Engine) LongTermCapitalGainsTax(gains, ordinaryTaxable domain.Cents, status domain.FilingStatus, year int) (domain.Cents, error) {
	if gains <= 0 {
		return 0, nil
	}
	brackets, err := taxdata.CapitalGainsBrackets(year, status)
	if err != nil {
		return 0, err
	}
	floor := ordinaryTaxable.Dollars()
	if floor.LessThan(decimal.Zero) {
		floor = decimal.Zero
	}
	ceiling := floor.Add(gains.Dollars())

	total := decimal.Zero
	for _, bracket := range brackets {
		lo := decimal.Max(floor, bracket.Lower)
		hi := ceiling
		if bracket.Upper != nil && bracket.Upper.LessThan(hi) {
			hi = *bracket.Upper
		}
		if hi.GreaterThan(lo) {
			total = total.Add(hi.Sub(lo).Mul(bracket.Rate))
		}
	}
	return domain.CentsFromDollars(total), nil
}

// MarginalRate returns the rate of the bracket containing the taxable
// income.
func (e *Engine) MarginalRate(taxable domain.Cents, status domain.FilingStatus, year int) (decimal.Decimal, error) {
	brackets, err := taxdata.FederalBrackets(year, status)
	if err != nil {
		return decimal.Zero, err
	}
	amount := taxable.Dollars()
	for _, bracket := range brackets {
		if bracket.Upper == nil || amount.LessThanOrEqual(*bracket.Upper) {
			return bracket.Rate, nil
		}
	}
	return brackets[len(brackets)-1].Rate, nil
}

// BracketTop returns the upper edge (in cents) of the bracket whose rate
// matches target, for bracket-fill conversion planning. The top bracket
// has no edge to fill to.
func (e *Engine) BracketTop(targetRate decimal.Decimal, status domain.FilingStatus, year int) (domain.Cents, error) {
	brackets, err := taxdata.FederalBrackets(year, status)
	if err != nil {
		return 0, err
	}
	for _, bracket := range brackets {
		if bracket.Rate.Equal(targetRate) {
			if bracket.Upper == nil {
				return 0, fmt.Errorf("bracket rate %s has no upper edge", targetRate)
			}
			return domain.CentsFromDollars(*bracket.Upper), nil
		}
	}
	return 0, fmt.Errorf("no federal bracket with rate %s in year %d", targetRate, year)
}

// StateTax applies a state's standard deduction and bracket table.
// Unrecognized state codes resolve to a zero-rate bracket in taxdata.
func (e *Engine) StateTax(income domain.Cents, stateCode string, status domain.FilingStatus, year int) (domain.Cents, error) {
	if income <= 0 {
		return 0, nil
	}
	brackets, deduction, err := taxdata.StateBrackets(stateCode, year, status)
	if err != nil {
		return 0, err
	}
	taxable := income.Dollars().Sub(deduction)
	if taxable.LessThanOrEqual(decimal.Zero) {
		return 0, nil
	}
	return domain.CentsFromDollars(walkBrackets(taxable, brackets)), nil
}

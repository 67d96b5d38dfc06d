// Package taxdata holds the statutory tables the engines query by
// (year, filingStatus) and (stateCode, year, filingStatus). The tables are
// a data asset: 2024 and 2025 are the supported tax years and any other
// year is a lookup error, never a silent default.
package taxdata

import (
	"fmt"

	"github.com/retirewise/retirewise/internal/domain"
	"github.com/shopspring/decimal"
)

// Bracket is one row of a progressive table. A nil Upper marks the top
// bracket's unbounded edge.
type Bracket struct {
	Lower decimal.Decimal
	Upper *decimal.Decimal
	Rate  decimal.Decimal
}

func d(v int64) decimal.Decimal      { return decimal.NewFromInt(v) }
func rate(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }
func edge(v int64) *decimal.Decimal  { e := decimal.NewFromInt(v); return &e }

// SupportedYear reports whether statutory data exists for the year.
func SupportedYear(year int) bool { return year == 2024 || year == 2025 }

func progressive(rates []float64, edges []int64) []Bracket {
	brackets := make([]Bracket, len(rates))
	lower := decimal.Zero
	for i, r := range rates {
		b := Bracket{Lower: lower, Rate: rate(r)}
		if i < len(edges) {
			b.Upper = edge(edges[i])
			lower = d(edges[i])
		}
		brackets[i] = b
	}
	return brackets
}

var ordinaryRates = []float64{0.10, 0.12, 0.22, 0.24, 0.32, 0.35, 0.37}

var federalBrackets = map[int]map[domain.FilingStatus][]Bracket{
	2024: {
		domain.Single:          progressive(ordinaryRates, []int64{11600, 47150, 100525, 191950, 243725, 609350}),
		domain.MarriedJoint:    progressive(ordinaryRates, []int64{23200, 94300, 201050, 383900, 487450, 731200}),
		domain.MarriedSeparate: progressive(ordinaryRates, []int64{11600, 47150, 100525, 191950, 243725, 365600}),
		domain.HeadOfHousehold: progressive(ordinaryRates, []int64{16550, 63100, 100500, 191950, 243700, 609350}),
	},
	2025: {
		domain.Single:          progressive(ordinaryRates, []int64{11925, 48475, 103350, 197300, 250525, 626350}),
		domain.MarriedJoint:    progressive(ordinaryRates, []int64{23850, 96950, 206700, 394600, 501050, 751600}),
		domain.MarriedSeparate: progressive(ordinaryRates, []int64{11925, 48475, 103350, 197300, 250525, 375800}),
		domain.HeadOfHousehold: progressive(ordinaryRates, []int64{17000, 64850, 103350, 197300, 250525, 626350}),
	},
}

var standardDeductions = map[int]map[domain.FilingStatus]decimal.Decimal{
	2024: {
		domain.Single:          d(14600),
		domain.MarriedJoint:    d(29200),
		domain.MarriedSeparate: d(14600),
		domain.HeadOfHousehold: d(21900),
	},
	2025: {
		domain.Single:          d(15750),
		domain.MarriedJoint:    d(31500),
		domain.MarriedSeparate: d(15750),
		domain.HeadOfHousehold: d(23625),
	},
}

var capitalGainsRates = []float64{0.0, 0.15, 0.20}

var capitalGainsBrackets = map[int]map[domain.FilingStatus][]Bracket{
	2024: {
		domain.Single:          progressive(capitalGainsRates, []int64{47025, 518900}),
		domain.MarriedJoint:    progressive(capitalGainsRates, []int64{94050, 583750}),
		domain.MarriedSeparate: progressive(capitalGainsRates, []int64{47025, 291850}),
		domain.HeadOfHousehold: progressive(capitalGainsRates, []int64{63000, 551350}),
	},
	2025: {
		domain.Single:          progressive(capitalGainsRates, []int64{48350, 533400}),
		domain.MarriedJoint:    progressive(capitalGainsRates, []int64{96700, 600050}),
		domain.MarriedSeparate: progressive(capitalGainsRates, []int64{48350, 300000}),
		domain.HeadOfHousehold: progressive(capitalGainsRates, []int64{64750, 566700}),
	},
}

// FederalBrackets returns the ordinary-income brackets for (year, status).
func FederalBrackets(year int, status domain.FilingStatus) ([]Bracket, error) {
	byStatus, ok := federalBrackets[year]
	if !ok {
		return nil, fmt.Errorf("no federal tax data for year %d", year)
	}
	brackets, ok := byStatus[status]
	if !ok {
		return nil, fmt.Errorf("no federal tax data for filing status %s", status)
	}
	return brackets, nil
}

// StandardDeduction returns the standard deduction for (year, status).
func StandardDeduction(year int, status domain.FilingStatus) (decimal.Decimal, error) {
	byStatus, ok := standardDeductions[year]
	if !ok {
		return decimal.Zero, fmt.Errorf("no standard deduction data for year %d", year)
	}
	deduction, ok := byStatus[status]
	if !ok {
		return decimal.Zero, fmt.Errorf("no standard deduction for filing status %s", status)
	}
	return deduction, nil
}

// CapitalGainsBrackets returns the long-term capital gains tiers.
func CapitalGainsBrackets(year int, status domain.FilingStatus) ([]Bracket, error) {
	byStatus, ok := capitalGainsBrackets[year]
	if !ok {
		return nil, fmt.Errorf("no capital gains data for year %d", year)
	}
	brackets, ok := byStatus[status]
	if !ok {
		return nil, fmt.Errorf("no capital gains data for filing status %s", status)
	}
	return brackets, nil
}

// FICAParams holds the payroll tax parameters for one year.
type FICAParams struct {
	SocialSecurityRate     decimal.Decimal
	SocialSecurityWageBase decimal.Decimal
	MedicareRate           decimal.Decimal
	AdditionalMedicareRate decimal.Decimal
}

var ficaParams = map[int]FICAParams{
	2024: {
		SocialSecurityRate:     rate(0.062),
		SocialSecurityWageBase: d(168600),
		MedicareRate:           rate(0.0145),
		AdditionalMedicareRate: rate(0.009),
	},
	2025: {
		SocialSecurityRate:     rate(0.062),
		SocialSecurityWageBase: d(176100),
		MedicareRate:           rate(0.0145),
		AdditionalMedicareRate: rate(0.009),
	},
}

// FICA returns the payroll tax parameters for a year.
func FICA(year int) (FICAParams, error) {
	params, ok := ficaParams[year]
	if !ok {
		return FICAParams{}, fmt.Errorf("no FICA data for year %d", year)
	}
	return params, nil
}

// AdditionalMedicareThreshold is the wage threshold above which the 0.9%
// additional Medicare tax applies. Not inflation indexed by statute.
func AdditionalMedicareThreshold(status domain.FilingStatus) decimal.Decimal {
	switch status {
	case domain.MarriedJoint:
		return d(250000)
	case domain.MarriedSeparate:
		return d(125000)
	default:
		return d(200000)
	}
}

// NIITThreshold is the MAGI threshold for the 3.8% net investment income
// tax. Not inflation indexed by statute.
func NIITThreshold(status domain.FilingStatus) decimal.Decimal {
	switch status {
	case domain.MarriedJoint:
		return d(250000)
	case domain.MarriedSeparate:
		return d(125000)
	default:
		return d(200000)
	}
}

package taxdata

import (
	"fmt"

	"github.com/retirewise/retirewise/internal/domain"
	"github.com/shopspring/decimal"
)

// stateTable holds one state's brackets and standard deduction per filing
// status. States without per-status tables reuse the single-filer rows for
// separate filers and heads of household, which matches how these states
// publish their schedules closely enough for planning purposes.
type stateTable struct {
	brackets   map[domain.FilingStatus][]Bracket
	deductions map[domain.FilingStatus]decimal.Decimal
}

func flatState(r float64) stateTable {
	flat := []Bracket{{Lower: decimal.Zero, Rate: rate(r)}}
	return stateTable{
		brackets: map[domain.FilingStatus][]Bracket{
			domain.Single:          flat,
			domain.MarriedJoint:    flat,
			domain.MarriedSeparate: flat,
			domain.HeadOfHousehold: flat,
		},
		deductions: map[domain.FilingStatus]decimal.Decimal{},
	}
}

var caRates = []float64{0.01, 0.02, 0.04, 0.06, 0.08, 0.093, 0.103, 0.113, 0.123}
var nyRates = []float64{0.04, 0.045, 0.0525, 0.055, 0.06, 0.0685, 0.0965}

func californiaTable() stateTable {
	single := progressive(caRates, []int64{10756, 25499, 40245, 55866, 70606, 360659, 432787, 721314})
	joint := progressive(caRates, []int64{21512, 50998, 80490, 111732, 141212, 721318, 865574, 1442628})
	return stateTable{
		brackets: map[domain.FilingStatus][]Bracket{
			domain.Single:          single,
			domain.MarriedJoint:    joint,
			domain.MarriedSeparate: single,
			domain.HeadOfHousehold: single,
		},
		deductions: map[domain.FilingStatus]decimal.Decimal{
			domain.Single:          d(5540),
			domain.MarriedJoint:    d(11080),
			domain.MarriedSeparate: d(5540),
			domain.HeadOfHousehold: d(11080),
		},
	}
}

func newYorkTable() stateTable {
	single := progressive(nyRates, []int64{8500, 11700, 13900, 80650, 215400, 1077550})
	joint := progressive(nyRates, []int64{17150, 23600, 27900, 161550, 323200, 2155350})
	return stateTable{
		brackets: map[domain.FilingStatus][]Bracket{
			domain.Single:          single,
			domain.MarriedJoint:    joint,
			domain.MarriedSeparate: single,
			domain.HeadOfHousehold: single,
		},
		deductions: map[domain.FilingStatus]decimal.Decimal{
			domain.Single:          d(8000),
			domain.MarriedJoint:    d(16050),
			domain.MarriedSeparate: d(8000),
			domain.HeadOfHousehold: d(11200),
		},
	}
}

// stateTables is keyed by state code then year. Both supported years carry
// the same published tables; states adjust on their own cycles and the
// engine treats these as opaque data.
var stateTables = map[string]map[int]stateTable{
	"PA": {2024: flatState(0.0307), 2025: flatState(0.0307)},
	"CO": {2024: flatState(0.044), 2025: flatState(0.044)},
	"IL": {2024: flatState(0.0495), 2025: flatState(0.0495)},
	"CA": {2024: californiaTable(), 2025: californiaTable()},
	"NY": {2024: newYorkTable(), 2025: newYorkTable()},
}

var zeroBracket = []Bracket{{Lower: decimal.Zero, Rate: decimal.Zero}}

// StateBrackets returns the state brackets and standard deduction for
// (stateCode, year, status). Codes absent from the table are treated as
// no-income-tax states: a flat zero-rate bracket and zero deduction, not
// an error. A known state missing the requested year is a hard error.
func StateBrackets(stateCode string, year int, status domain.FilingStatus) ([]Bracket, decimal.Decimal, error) {
	byYear, ok := stateTables[stateCode]
	if !ok {
		return zeroBracket, decimal.Zero, nil
	}
	table, ok := byYear[year]
	if !ok {
		return nil, decimal.Zero, fmt.Errorf("no state tax data for %s in year %d", stateCode, year)
	}
	brackets, ok := table.brackets[status]
	if !ok {
		return nil, decimal.Zero, fmt.Errorf("no state tax data for %s filing status %s", stateCode, status)
	}
	deduction := table.deductions[status]
	return brackets, deduction, nil
}

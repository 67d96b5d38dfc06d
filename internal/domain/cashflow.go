package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IncomeKind classifies the tax treatment of an income item.
type IncomeKind int

const (
	EarnedIncome IncomeKind = iota
	QualifiedIncome
	OtherPassiveIncome
)

func ParseIncomeKind(s string) (IncomeKind, error) {
	switch s {
	case "earned":
		return EarnedIncome, nil
	case "qualified":
		return QualifiedIncome, nil
	case "other-passive":
		return OtherPassiveIncome, nil
	default:
		return 0, fmt.Errorf("unknown income kind %q", s)
	}
}

func (k IncomeKind) String() string {
	switch k {
	case EarnedIncome:
		return "earned"
	case QualifiedIncome:
		return "qualified"
	case OtherPassiveIncome:
		return "other-passive"
	default:
		return "unknown"
	}
}

func (k IncomeKind) MarshalYAML() (interface{}, error) { return k.String(), nil }

func (k *IncomeKind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseIncomeKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Expense is a recurring or one-time outflow. Year offsets are relative to
// plan creation: an item contributes nothing outside [StartYear, EndYear],
// or outside StartYear itself when OneTime is set.
type Expense struct {
	Name              string `yaml:"name"`
	Amount            Cents  `yaml:"amount"`
	StartYear         int    `yaml:"startYear"`
	EndYear           *int   `yaml:"endYear,omitempty"`
	InflationAdjusted bool   `yaml:"inflationAdjusted"`
	OneTime           bool   `yaml:"oneTime"`
}

// AmountForYear returns the expense amount for a given year offset,
// compounding the plan inflation rate from the start year when the item
// is inflation adjusted.
func (e *Expense) AmountForYear(yearOffset int, inflationRate decimal.Decimal) Cents {
	if !activeInYear(yearOffset, e.StartYear, e.EndYear, e.OneTime) {
		return 0
	}
	if !e.InflationAdjusted {
		return e.Amount
	}
	factor := onePlus(inflationRate).Pow(decimal.NewFromInt(int64(yearOffset)))
	return CentsFromDollars(e.Amount.Dollars().Mul(factor))
}

// Income is a recurring or one-time inflow with its own growth rate.
type Income struct {
	Name       string          `yaml:"name"`
	Amount     Cents           `yaml:"amount"`
	StartYear  int             `yaml:"startYear"`
	EndYear    *int            `yaml:"endYear,omitempty"`
	GrowthRate decimal.Decimal `yaml:"growthRate"`
	OneTime    bool            `yaml:"oneTime"`
	Kind       IncomeKind      `yaml:"kind"`
}

// AmountForYear returns the income amount for a given year offset, grown
// at the item's own rate from its start year.
func (inc *Income) AmountForYear(yearOffset int) Cents {
	if !activeInYear(yearOffset, inc.StartYear, inc.EndYear, inc.OneTime) {
		return 0
	}
	years := yearOffset - inc.StartYear
	if years <= 0 || inc.GrowthRate.IsZero() {
		return inc.Amount
	}
	factor := onePlus(inc.GrowthRate).Pow(decimal.NewFromInt(int64(years)))
	return CentsFromDollars(inc.Amount.Dollars().Mul(factor))
}

func activeInYear(yearOffset, startYear int, endYear *int, oneTime bool) bool {
	if oneTime {
		return yearOffset == startYear
	}
	if yearOffset < startYear {
		return false
	}
	if endYear != nil && yearOffset > *endYear {
		return false
	}
	return true
}

func onePlus(rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(rate)
}

package strategy

import (
	"github.com/retirewise/retirewise/internal/domain"
	"github.com/shopspring/decimal"
)

// BackdoorContributionLimit is the annual IRA contribution a backdoor
// conversion moves through the traditional account.
const BackdoorContributionLimit = domain.Cents(7_000_00)

// ConversionFromSettings resolves the configured Roth-conversion strategy.
// Unknown names resolve to nil (no conversion), surfaced separately by
// settings validation.
func ConversionFromSettings(s domain.RothConversionSettings) ConversionStrategy {
	switch s.Strategy {
	case "bracket_fill":
		return &BracketFillConversion{}
	case "fixed":
		return &FixedConversion{Amount_: s.FixedAmount}
	case "percentage":
		return &PercentageConversion{Percentage: s.Percentage}
	case "backdoor":
		return &BackdoorConversion{}
	default:
		return nil
	}
}

// BracketFillConversion converts exactly the remaining room below the
// bracket ceiling, never spilling into the next bracket.
type BracketFillConversion struct{}

func (c *BracketFillConversion) Name() string { return "bracket_fill" }

func (c *BracketFillConversion) Amount(taxableIncome, bracketTop, traditionalBalance domain.Cents, _ int, _ bool) domain.Cents {
	headroom := bracketTop - taxableIncome
	if headroom <= 0 {
		return 0
	}
	return headroom.Min(traditionalBalance)
}

// FixedConversion converts a flat amount capped by the balance.
type FixedConversion struct {
	Amount_ domain.Cents
}

func (c *FixedConversion) Name() string { return "fixed" }

func (c *FixedConversion) Amount(_, _, traditionalBalance domain.Cents, _ int, _ bool) domain.Cents {
	if c.Amount_ <= 0 {
		return 0
	}
	return c.Amount_.Min(traditionalBalance)
}

// PercentageConversion converts a fixed fraction of the balance.
type PercentageConversion struct {
	Percentage decimal.Decimal
}

func (c *PercentageConversion) Name() string { return "percentage" }

func (c *PercentageConversion) Amount(_, _, traditionalBalance domain.Cents, _ int, _ bool) domain.Cents {
	if c.Percentage.LessThanOrEqual(decimal.Zero) || traditionalBalance <= 0 {
		return 0
	}
	return domain.CentsFromDollars(traditionalBalance.Dollars().Mul(c.Percentage))
}

// BackdoorConversion converts the year's nondeductible contribution.
type BackdoorConversion struct{}

func (c *BackdoorConversion) Name() string { return "backdoor" }

func (c *BackdoorConversion) Amount(_, _, traditionalBalance domain.Cents, _ int, _ bool) domain.Cents {
	return BackdoorContributionLimit.Min(traditionalBalance)
}

// ProRataSplit divides a conversion into non-taxable and taxable portions
// by the ratio of after-tax basis to total balance. The ratio, not the raw
// conversion amount, determines taxability.
func ProRataSplit(conversion, basis, totalBalance domain.Cents) (taxable, nonTaxable domain.Cents) {
	if conversion <= 0 {
		return 0, 0
	}
	if totalBalance <= 0 || basis <= 0 {
		return conversion, 0
	}
	ratio := basis.Dollars().Div(totalBalance.Dollars())
	if ratio.GreaterThan(decimal.NewFromInt(1)) {
		ratio = decimal.NewFromInt(1)
	}
	nonTaxable = domain.CentsFromDollars(conversion.Dollars().Mul(ratio))
	return conversion - nonTaxable, nonTaxable
}

package strategy

import (
	"github.com/retirewise/retirewise/internal/domain"
	"github.com/shopspring/decimal"
)

// QCDAnnualCap is the statutory annual limit on qualified charitable
// distributions.
const QCDAnnualCap = domain.Cents(100_000_00)

// QCDEligible reports whether an account may make a QCD at a given age.
// The statutory floor is age 70 1/2; with whole-year ages the first fully
// eligible year is 71.
func QCDEligible(kind domain.AccountKind, age int) bool {
	return kind.QCDEligible() && age >= 71
}

// QCDFromSettings resolves the configured QCD strategy. Unknown names
// resolve to nil; validation reports them separately.
func QCDFromSettings(s domain.QCDSettings) QCDStrategy {
	switch s.Strategy {
	case "fixed":
		return &FixedQCD{Annual: s.AnnualAmount}
	case "percentage":
		return &PercentageQCD{Percentage: s.Percentage}
	case "rmd_match":
		return &RMDMatchQCD{}
	default:
		return nil
	}
}

// QCDAmount caps a strategy's requested distribution at the account
// balance and the statutory annual cap.
func QCDAmount(s QCDStrategy, balance, rmd domain.Cents) domain.Cents {
	requested := s.Amount(balance, rmd)
	return requested.Min(balance).Min(QCDAnnualCap)
}

// FixedQCD gives a flat annual amount.
type FixedQCD struct {
	Annual domain.Cents
}

func (q *FixedQCD) Name() string { return "fixed" }

func (q *FixedQCD) Amount(_, _ domain.Cents) domain.Cents { return q.Annual }

// PercentageQCD gives a fraction of the account balance.
type PercentageQCD struct {
	Percentage decimal.Decimal
}

func (q *PercentageQCD) Name() string { return "percentage" }

func (q *PercentageQCD) Amount(balance, _ domain.Cents) domain.Cents {
	if q.Percentage.LessThanOrEqual(decimal.Zero) || balance <= 0 {
		return 0
	}
	return domain.CentsFromDollars(balance.Dollars().Mul(q.Percentage))
}

// RMDMatchQCD gives exactly the year's required distribution, satisfying
// the RMD obligation charitably.
type RMDMatchQCD struct{}

func (q *RMDMatchQCD) Name() string { return "rmd_match" }

func (q *RMDMatchQCD) Amount(_, rmd domain.Cents) domain.Cents { return rmd }

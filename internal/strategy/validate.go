package strategy

import (
	"fmt"

	"github.com/retirewise/retirewise/internal/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

func percentageInRange(p decimal.Decimal) bool {
	return p.GreaterThan(decimal.Zero) && p.LessThanOrEqual(one)
}

// ValidateSettings checks every enabled strategy selection and collects
// the problems into a list instead of failing on the first, so a settings
// form can be validated in one pass. An empty slice means valid.
func ValidateSettings(s domain.StrategySettings) []error {
	var errs []error

	if s.RothConversion.Enabled {
		switch s.RothConversion.Strategy {
		case "bracket_fill":
			if s.RothConversion.BracketTarget <= 0 {
				errs = append(errs, fmt.Errorf("roth conversion: bracket_fill requires a positive bracketTarget"))
			}
		case "fixed":
			if s.RothConversion.FixedAmount <= 0 {
				errs = append(errs, fmt.Errorf("roth conversion: fixed requires a positive fixedAmount"))
			}
		case "percentage":
			if !percentageInRange(s.RothConversion.Percentage) {
				errs = append(errs, fmt.Errorf("roth conversion: percentage must be in (0, 1]"))
			}
		case "backdoor":
			// No parameters.
		default:
			errs = append(errs, fmt.Errorf("roth conversion: unknown strategy %q", s.RothConversion.Strategy))
		}
	}

	if s.QCD.Enabled {
		switch s.QCD.Strategy {
		case "fixed":
			if s.QCD.AnnualAmount <= 0 {
				errs = append(errs, fmt.Errorf("qcd: fixed requires a positive annualAmount"))
			}
		case "percentage":
			if !percentageInRange(s.QCD.Percentage) {
				errs = append(errs, fmt.Errorf("qcd: percentage must be in (0, 1]"))
			}
		case "rmd_match":
			// No parameters.
		default:
			errs = append(errs, fmt.Errorf("qcd: unknown strategy %q", s.QCD.Strategy))
		}
	}

	if s.Harvest.Enabled {
		switch s.Harvest.Strategy {
		case "harvest_all", "offset_gains":
			if s.Harvest.MinThreshold < 0 {
				errs = append(errs, fmt.Errorf("tax loss harvesting: minThreshold must not be negative"))
			}
		default:
			errs = append(errs, fmt.Errorf("tax loss harvesting: unknown strategy %q", s.Harvest.Strategy))
		}
	}

	return errs
}

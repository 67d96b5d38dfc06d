// Package config loads and validates plan files. Structural problems in
// an input file fail fast at load time so the engines never see a
// half-formed plan.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/retirewise/retirewise/internal/domain"
	"github.com/retirewise/retirewise/internal/strategy"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// LoadPlan reads, parses and validates a YAML plan file.
func LoadPlan(path string) (*domain.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan parses a YAML plan document and validates it.
func ParsePlan(data []byte) (*domain.Plan, error) {
	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	if errs := ValidatePlan(&plan); len(errs) > 0 {
		return nil, fmt.Errorf("invalid plan: %w", errors.Join(errs...))
	}
	return &plan, nil
}

// SavePlan writes a plan back to disk in its canonical YAML form.
func SavePlan(plan *domain.Plan, path string) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing plan file: %w", err)
	}
	return nil
}

var (
	minRate = decimal.NewFromInt(-1)
	maxRate = decimal.NewFromInt(1)
)

func rateInRange(r decimal.Decimal) bool {
	return r.GreaterThan(minRate) && r.LessThan(maxRate)
}

// ValidatePlan collects every structural problem in the plan. An empty
// slice means the plan is safe to project.
func ValidatePlan(plan *domain.Plan) []error {
	var errs []error

	if plan.TaxProfile.CurrentAge <= 0 {
		errs = append(errs, fmt.Errorf("taxProfile: currentAge must be positive"))
	}
	if plan.TaxProfile.RetirementAge < plan.TaxProfile.CurrentAge {
		errs = append(errs, fmt.Errorf("taxProfile: retirementAge %d precedes currentAge %d",
			plan.TaxProfile.RetirementAge, plan.TaxProfile.CurrentAge))
	}

	if len(plan.Accounts) == 0 {
		errs = append(errs, fmt.Errorf("accounts: at least one account is required"))
	}
	seen := make(map[string]bool, len(plan.Accounts))
	for i := range plan.Accounts {
		acct := &plan.Accounts[i]
		if acct.ID == "" {
			errs = append(errs, fmt.Errorf("accounts[%d]: id is required", i))
			continue
		}
		if seen[acct.ID] {
			errs = append(errs, fmt.Errorf("accounts[%d]: duplicate id %q", i, acct.ID))
		}
		seen[acct.ID] = true
		if acct.Balance < 0 {
			errs = append(errs, fmt.Errorf("account %s: balance must not be negative", acct.ID))
		}
		if acct.AnnualContribution < 0 {
			errs = append(errs, fmt.Errorf("account %s: annualContribution must not be negative", acct.ID))
		}
		if acct.CostBasis != nil && *acct.CostBasis < 0 {
			errs = append(errs, fmt.Errorf("account %s: costBasis must not be negative", acct.ID))
		}
	}

	for i := range plan.Expenses {
		e := &plan.Expenses[i]
		if e.Amount < 0 {
			errs = append(errs, fmt.Errorf("expense %q: amount must not be negative", e.Name))
		}
		if e.EndYear != nil && *e.EndYear < e.StartYear {
			errs = append(errs, fmt.Errorf("expense %q: endYear precedes startYear", e.Name))
		}
	}
	for i := range plan.Incomes {
		inc := &plan.Incomes[i]
		if inc.Amount < 0 {
			errs = append(errs, fmt.Errorf("income %q: amount must not be negative", inc.Name))
		}
		if inc.EndYear != nil && *inc.EndYear < inc.StartYear {
			errs = append(errs, fmt.Errorf("income %q: endYear precedes startYear", inc.Name))
		}
	}

	for name, rate := range map[string]decimal.Decimal{
		"inflationRate":    plan.Assumptions.InflationRate,
		"equityGrowthRate": plan.Assumptions.EquityGrowthRate,
		"bondGrowthRate":   plan.Assumptions.BondGrowthRate,
	} {
		if !rateInRange(rate) {
			errs = append(errs, fmt.Errorf("assumptions: %s %s out of range (-1, 1)", name, rate))
		}
	}
	if plan.Assumptions.EquityVolatility.IsNegative() {
		errs = append(errs, fmt.Errorf("assumptions: equityVolatility must not be negative"))
	}
	if plan.Assumptions.BondVolatility.IsNegative() {
		errs = append(errs, fmt.Errorf("assumptions: bondVolatility must not be negative"))
	}

	if ss := &plan.SocialSecurity; ss.Enabled {
		if ss.BirthYear <= 0 {
			errs = append(errs, fmt.Errorf("socialSecurity: birthYear is required"))
		}
		if ss.MonthlyBenefitAtFRA <= 0 {
			errs = append(errs, fmt.Errorf("socialSecurity: monthlyBenefitAtFRA must be positive"))
		}
		if ss.FilingAge < 62 || ss.FilingAge > 70 {
			errs = append(errs, fmt.Errorf("socialSecurity: filingAge %d outside [62, 70]", ss.FilingAge))
		}
	}

	errs = append(errs, strategy.ValidateSettings(plan.Strategies)...)
	return errs
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FilingStatus is the federal filing status used for every bracket lookup.
type FilingStatus int

const (
	Single FilingStatus = iota
	MarriedJoint
	MarriedSeparate
	HeadOfHousehold
)

func ParseFilingStatus(s string) (FilingStatus, error) {
	switch s {
	case "single":
		return Single, nil
	case "married-joint":
		return MarriedJoint, nil
	case "married-separate":
		return MarriedSeparate, nil
	case "head-of-household":
		return HeadOfHousehold, nil
	default:
		return 0, fmt.Errorf("unknown filing status %q", s)
	}
}

func (fs FilingStatus) String() string {
	switch fs {
	case Single:
		return "single"
	case MarriedJoint:
		return "married-joint"
	case MarriedSeparate:
		return "married-separate"
	case HeadOfHousehold:
		return "head-of-household"
	default:
		return "unknown"
	}
}

func (fs FilingStatus) MarshalYAML() (interface{}, error) { return fs.String(), nil }

func (fs *FilingStatus) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseFilingStatus(s)
	if err != nil {
		return err
	}
	*fs = parsed
	return nil
}

// TaxProfile describes the household for tax purposes.
type TaxProfile struct {
	CurrentAge    int             `yaml:"currentAge"`
	RetirementAge int             `yaml:"retirementAge"`
	FilingStatus  FilingStatus    `yaml:"filingStatus"`
	StateCode     string          `yaml:"stateCode"`
	BlendedRate   decimal.Decimal `yaml:"blendedRate"`
}

// Assumptions holds market and inflation assumptions. Volatilities are
// used only by the Monte Carlo engine.
type Assumptions struct {
	InflationRate    decimal.Decimal            `yaml:"inflationRate"`
	EquityGrowthRate decimal.Decimal            `yaml:"equityGrowthRate"`
	BondGrowthRate   decimal.Decimal            `yaml:"bondGrowthRate"`
	EquityVolatility decimal.Decimal            `yaml:"equityVolatility"`
	BondVolatility   decimal.Decimal            `yaml:"bondVolatility"`
	GrowthOverrides  map[string]decimal.Decimal `yaml:"growthOverrides,omitempty"`
}

// SocialSecurityProfile configures the benefit engine for one filer.
type SocialSecurityProfile struct {
	Enabled             bool            `yaml:"enabled"`
	BirthYear           int             `yaml:"birthYear"`
	MonthlyBenefitAtFRA Cents           `yaml:"monthlyBenefitAtFRA"`
	FilingAge           int             `yaml:"filingAge"`
	COLARate            decimal.Decimal `yaml:"colaRate"`
}

// RothConversionSettings selects and parameterizes a conversion strategy.
type RothConversionSettings struct {
	Enabled       bool            `yaml:"enabled"`
	Strategy      string          `yaml:"strategy"`
	FixedAmount   Cents           `yaml:"fixedAmount,omitempty"`
	BracketTarget Cents           `yaml:"bracketTarget,omitempty"`
	Percentage    decimal.Decimal `yaml:"percentage,omitempty"`
}

// QCDSettings selects and parameterizes qualified charitable distributions.
type QCDSettings struct {
	Enabled      bool            `yaml:"enabled"`
	Strategy     string          `yaml:"strategy"`
	AnnualAmount Cents           `yaml:"annualAmount,omitempty"`
	Percentage   decimal.Decimal `yaml:"percentage,omitempty"`
}

// HarvestSettings selects and gates tax-loss harvesting.
type HarvestSettings struct {
	Enabled      bool   `yaml:"enabled"`
	Strategy     string `yaml:"strategy"`
	MinThreshold Cents  `yaml:"minThreshold,omitempty"`
}

// StrategySettings groups all strategy selections for a plan.
type StrategySettings struct {
	Withdrawal     string                 `yaml:"withdrawal,omitempty"`
	RothConversion RothConversionSettings `yaml:"rothConversion"`
	QCD            QCDSettings            `yaml:"qcd"`
	Harvest        HarvestSettings        `yaml:"taxLossHarvesting"`
}

// Plan is the complete caller-owned configuration for one household.
type Plan struct {
	Name           string                `yaml:"name"`
	Accounts       []Account             `yaml:"accounts"`
	Expenses       []Expense             `yaml:"expenses"`
	Incomes        []Income              `yaml:"incomes"`
	TaxProfile     TaxProfile            `yaml:"taxProfile"`
	Assumptions    Assumptions           `yaml:"assumptions"`
	SocialSecurity SocialSecurityProfile `yaml:"socialSecurity"`
	Strategies     StrategySettings      `yaml:"strategies"`
}

// Clone performs a deep structural copy. Monte Carlo scenarios mutate
// assumptions on their own clone, so nothing here may alias the source.
func (p *Plan) Clone() *Plan {
	clone := *p

	clone.Accounts = make([]Account, len(p.Accounts))
	copy(clone.Accounts, p.Accounts)
	for i := range clone.Accounts {
		if p.Accounts[i].CostBasis != nil {
			basis := *p.Accounts[i].CostBasis
			clone.Accounts[i].CostBasis = &basis
		}
	}

	clone.Expenses = make([]Expense, len(p.Expenses))
	copy(clone.Expenses, p.Expenses)
	for i := range clone.Expenses {
		if p.Expenses[i].EndYear != nil {
			end := *p.Expenses[i].EndYear
			clone.Expenses[i].EndYear = &end
		}
	}

	clone.Incomes = make([]Income, len(p.Incomes))
	copy(clone.Incomes, p.Incomes)
	for i := range clone.Incomes {
		if p.Incomes[i].EndYear != nil {
			end := *p.Incomes[i].EndYear
			clone.Incomes[i].EndYear = &end
		}
	}

	if p.Assumptions.GrowthOverrides != nil {
		clone.Assumptions.GrowthOverrides = make(map[string]decimal.Decimal, len(p.Assumptions.GrowthOverrides))
		for k, v := range p.Assumptions.GrowthOverrides {
			clone.Assumptions.GrowthOverrides[k] = v
		}
	}

	return &clone
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountKind is a closed set of account types. Each kind carries its own
// tax treatment, RMD/QCD eligibility and growth class, so "unknown type"
// is an explicit case rather than a silent string-key miss.
type AccountKind int

const (
	Deferred401k AccountKind = iota
	DeferredIRA
	RothIRA
	HSA
	TaxableBrokerage
)

// TaxTreatment classifies how a withdrawal from an account is taxed.
type TaxTreatment int

const (
	OrdinaryIncome TaxTreatment = iota
	TaxFree
	CapitalGains
)

const (
	kind401kName      = "tax-deferred-401k"
	kindIRAName       = "tax-deferred-ira"
	kindRothName      = "tax-free-roth"
	kindHSAName       = "tax-free-hsa"
	kindBrokerageName = "taxable-brokerage"
)

// ParseAccountKind maps the persisted string form to an AccountKind.
func ParseAccountKind(s string) (AccountKind, error) {
	switch s {
	case kind401kName:
		return Deferred401k, nil
	case kindIRAName:
		return DeferredIRA, nil
	case kindRothName:
		return RothIRA, nil
	case kindHSAName:
		return HSA, nil
	case kindBrokerageName:
		return TaxableBrokerage, nil
	default:
		return 0, fmt.Errorf("unknown account kind %q", s)
	}
}

func (k AccountKind) String() string {
	switch k {
	case Deferred401k:
		return kind401kName
	case DeferredIRA:
		return kindIRAName
	case RothIRA:
		return kindRothName
	case HSA:
		return kindHSAName
	case TaxableBrokerage:
		return kindBrokerageName
	default:
		return "unknown"
	}
}

// TaxTreatment returns how withdrawals from this kind are taxed.
func (k AccountKind) TaxTreatment() TaxTreatment {
	switch k {
	case Deferred401k, DeferredIRA:
		return OrdinaryIncome
	case TaxableBrokerage:
		return CapitalGains
	default:
		return TaxFree
	}
}

// RMDEligible reports whether the kind is subject to required minimum
// distributions.
func (k AccountKind) RMDEligible() bool {
	return k == Deferred401k || k == DeferredIRA
}

// QCDEligible reports whether qualified charitable distributions may be
// made from this kind.
func (k AccountKind) QCDEligible() bool {
	return k == Deferred401k || k == DeferredIRA
}

// Known reports whether the kind is one of the closed set. A kind outside
// the set (hand-built plans, future variants) still resolves a growth rate
// via the equity-rate fallback, but callers should log the fallback.
func (k AccountKind) Known() bool {
	return k >= Deferred401k && k <= TaxableBrokerage
}

// MarshalYAML / UnmarshalYAML persist the kind in its string form.
func (k AccountKind) MarshalYAML() (interface{}, error) { return k.String(), nil }

func (k *AccountKind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseAccountKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Account is caller-owned configuration, read-only to the engine.
type Account struct {
	ID                 string      `yaml:"id"`
	Name               string      `yaml:"name"`
	Kind               AccountKind `yaml:"kind"`
	Balance            Cents       `yaml:"balance"`
	AnnualContribution Cents       `yaml:"annualContribution"`
	CostBasis          *Cents      `yaml:"costBasis,omitempty"`
}

// taxableGrowthDrag approximates the annual tax drag on distributions in
// a taxable account: 80% of the equity growth rate.
var taxableGrowthDrag = decimal.NewFromFloat(0.8)

// GrowthRate resolves the annual growth rate for this account kind from
// the plan assumptions. Kind-specific overrides win; otherwise deferred
// and Roth accounts grow at the equity rate, HSA at the bond rate, and
// taxable brokerage at 80% of the equity rate.
func (a *Account) GrowthRate(assumptions *Assumptions) decimal.Decimal {
	if override, ok := assumptions.GrowthOverrides[a.Kind.String()]; ok {
		return override
	}
	switch a.Kind {
	case Deferred401k, DeferredIRA, RothIRA:
		return assumptions.EquityGrowthRate
	case HSA:
		return assumptions.BondGrowthRate
	case TaxableBrokerage:
		return assumptions.EquityGrowthRate.Mul(taxableGrowthDrag)
	default:
		return assumptions.EquityGrowthRate
	}
}

// Package strategy implements the pluggable withdrawal-ordering,
// Roth-conversion, QCD and tax-loss-harvesting policies. Strategies are
// closed enums resolved through factories; an unrecognized withdrawal
// strategy name falls back to proportional rather than erroring.
package strategy

import (
	"github.com/retirewise/retirewise/internal/domain"
)

// WithdrawalStrategy allocates a needed withdrawal across accounts.
//
// Implementations guarantee sum(result) == min(totalNeeded, sum(balances))
// and result[i] <= accounts[i].Balance. rmdByAccount carries the pending
// required distribution per account ID for strategies that front-load
// mandatory withdrawals; it may be nil.
type WithdrawalStrategy interface {
	Name() string
	Allocate(accounts []domain.Account, totalNeeded domain.Cents, rmdByAccount map[string]domain.Cents) []domain.Cents
}

// WithdrawalKind enumerates the withdrawal strategies.
type WithdrawalKind int

const (
	Proportional WithdrawalKind = iota
	TaxEfficient
	TaxAware
)

// ParseWithdrawalKind resolves a configured strategy name. Unrecognized
// names fall back to proportional, preserving the engine's historical
// default rather than failing the plan.
func ParseWithdrawalKind(name string) WithdrawalKind {
	switch name {
	case "tax_efficient":
		return TaxEfficient
	case "tax_aware":
		return TaxAware
	default:
		return Proportional
	}
}

// NewWithdrawal constructs the strategy for a kind.
func NewWithdrawal(kind WithdrawalKind) WithdrawalStrategy {
	switch kind {
	case TaxEfficient:
		return &TaxEfficientStrategy{}
	case TaxAware:
		return &TaxAwareStrategy{}
	default:
		return &ProportionalStrategy{}
	}
}

// WithdrawalFromName is the factory used by the projection engine.
func WithdrawalFromName(name string) WithdrawalStrategy {
	return NewWithdrawal(ParseWithdrawalKind(name))
}

// ConversionStrategy computes a Roth conversion amount for one year.
// taxableIncome is ordinary taxable income already accumulated this year;
// bracketTop is the ceiling for bracket-aware variants; mustTakeRMD
// signals that the year's RMD applies (callers pass the post-RMD balance).
type ConversionStrategy interface {
	Name() string
	Amount(taxableIncome, bracketTop, traditionalBalance domain.Cents, age int, mustTakeRMD bool) domain.Cents
}

// QCDStrategy computes a qualified charitable distribution amount.
type QCDStrategy interface {
	Name() string
	Amount(balance, rmd domain.Cents) domain.Cents
}

// HarvestStrategy computes a suggested tax-loss harvest amount.
type HarvestStrategy interface {
	Name() string
	Suggest(unrealizedLoss, gainsToOffset domain.Cents) domain.Cents
}

package strategy

import (
	"sort"

	"github.com/retirewise/retirewise/internal/domain"
)

func totalBalance(accounts []domain.Account) domain.Cents {
	var total domain.Cents
	for i := range accounts {
		total += accounts[i].Balance
	}
	return total
}

// ProportionalStrategy draws each account's balance-share of the total.
// Integer division leaves a remainder of at most a few cents, which is
// reconciled onto the last accounts with headroom.
type ProportionalStrategy struct{}

func (s *ProportionalStrategy) Name() string { return "proportional" }

func (s *ProportionalStrategy) Allocate(accounts []domain.Account, totalNeeded domain.Cents, _ map[string]domain.Cents) []domain.Cents {
	result := make([]domain.Cents, len(accounts))
	total := totalBalance(accounts)
	target := totalNeeded.Min(total)
	if target <= 0 || total <= 0 {
		return result
	}

	var allocated domain.Cents
	for i := range accounts {
		// Floor division keeps each share at or below its cap.
		share := domain.Cents(int64(target) * int64(accounts[i].Balance) / int64(total))
		result[i] = share
		allocated += share
	}

	remainder := target - allocated
	for i := len(accounts) - 1; i >= 0 && remainder > 0; i-- {
		headroom := accounts[i].Balance - result[i]
		take := remainder.Min(headroom)
		result[i] += take
		remainder -= take
	}
	return result
}

// deferredTierOrder ranks account kinds for the tax-efficient draw:
// taxable first, then traditional deferred, then Roth, then HSA.
func tierOf(kind domain.AccountKind) int {
	switch kind {
	case domain.TaxableBrokerage:
		return 0
	case domain.Deferred401k, domain.DeferredIRA:
		return 1
	case domain.RothIRA:
		return 2
	default:
		return 3
	}
}

// TaxEfficientStrategy satisfies mandatory RMDs first, then draws the
// remaining need tier by tier. Within a tier, smaller balances are drained
// first to preserve flexibility in the larger accounts.
type TaxEfficientStrategy struct{}

func (s *TaxEfficientStrategy) Name() string { return "tax_efficient" }

func (s *TaxEfficientStrategy) Allocate(accounts []domain.Account, totalNeeded domain.Cents, rmdByAccount map[string]domain.Cents) []domain.Cents {
	result := make([]domain.Cents, len(accounts))
	remaining := totalNeeded.Min(totalBalance(accounts))
	if remaining <= 0 {
		return result
	}

	// Mandatory distributions come out first, capped by balance and by
	// the overall need so the allocation invariant holds.
	if rmdByAccount != nil {
		for i := range accounts {
			rmd, ok := rmdByAccount[accounts[i].ID]
			if !ok || rmd <= 0 {
				continue
			}
			take := rmd.Min(accounts[i].Balance).Min(remaining)
			result[i] += take
			remaining -= take
			if remaining <= 0 {
				return result
			}
		}
	}

	order := make([]int, len(accounts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := tierOf(accounts[order[a]].Kind), tierOf(accounts[order[b]].Kind)
		if ta != tb {
			return ta < tb
		}
		return accounts[order[a]].Balance < accounts[order[b]].Balance
	})

	for _, i := range order {
		if remaining <= 0 {
			break
		}
		headroom := accounts[i].Balance - result[i]
		take := remaining.Min(headroom)
		result[i] += take
		remaining -= take
	}
	return result
}

// TaxAwareStrategy delegates to tax-efficient. True bracket-aware
// sequencing is a known simplification still to be built; this stub keeps
// the strategy name routable without inventing behavior.
type TaxAwareStrategy struct {
	TaxEfficientStrategy
}

func (s *TaxAwareStrategy) Name() string { return "tax_aware" }

package strategy

import (
	"github.com/retirewise/retirewise/internal/domain"
)

// OrdinaryIncomeOffset is the annual capital-loss deduction allowed
// against ordinary income.
const OrdinaryIncomeOffset = domain.Cents(3_000_00)

// HarvestFromSettings resolves the configured harvesting strategy.
func HarvestFromSettings(s domain.HarvestSettings) HarvestStrategy {
	switch s.Strategy {
	case "harvest_all":
		return &HarvestAll{}
	case "offset_gains":
		return &OffsetGains{}
	default:
		return nil
	}
}

// UnrealizedLoss is the harvestable loss in a taxable account with a
// tracked cost basis; accounts without basis tracking have none.
func UnrealizedLoss(account *domain.Account) domain.Cents {
	if account.Kind != domain.TaxableBrokerage || account.CostBasis == nil {
		return 0
	}
	loss := *account.CostBasis - account.Balance
	if loss < 0 {
		return 0
	}
	return loss
}

// SuggestHarvest gates a strategy's suggestion by the configured minimum
// threshold; below it the trade is not worth transaction costs.
func SuggestHarvest(s HarvestStrategy, account *domain.Account, gainsToOffset domain.Cents, minThreshold domain.Cents) domain.Cents {
	loss := UnrealizedLoss(account)
	if loss <= 0 {
		return 0
	}
	suggested := s.Suggest(loss, gainsToOffset)
	if suggested < minThreshold {
		return 0
	}
	return suggested
}

// HarvestAll realizes the entire unrealized loss.
type HarvestAll struct{}

func (h *HarvestAll) Name() string { return "harvest_all" }

func (h *HarvestAll) Suggest(unrealizedLoss, _ domain.Cents) domain.Cents {
	return unrealizedLoss
}

// OffsetGains realizes just enough loss to cancel the year's gains plus
// the ordinary-income offset.
type OffsetGains struct{}

func (h *OffsetGains) Name() string { return "offset_gains" }

func (h *OffsetGains) Suggest(unrealizedLoss, gainsToOffset domain.Cents) domain.Cents {
	want := gainsToOffset + OrdinaryIncomeOffset
	return want.Min(unrealizedLoss)
}

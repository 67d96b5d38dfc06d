package tax

import (
	"github.com/retirewise/retirewise/internal/domain"
	"github.com/retirewise/retirewise/internal/taxdata"
	"github.com/shopspring/decimal"
)

// FICATax computes Social Security tax (capped at the wage base) plus
// Medicare (uncapped) plus the 0.9% additional Medicare tax above the
// filing-status threshold.
func (e *Engine) FICATax(wages domain.Cents, status domain.FilingStatus, year int) (domain.Cents, error) {
	if wages <= 0 {
		return 0, nil
	}
	params, err := taxdata.FICA(year)
	if err != nil {
		return 0, err
	}
	w := wages.Dollars()

	ssBase := decimal.Min(w, params.SocialSecurityWageBase)
	total := ssBase.Mul(params.SocialSecurityRate)
	total = total.Add(w.Mul(params.MedicareRate))

	threshold := taxdata.AdditionalMedicareThreshold(status)
	if w.GreaterThan(threshold) {
		total = total.Add(w.Sub(threshold).Mul(params.AdditionalMedicareRate))
	}
	return domain.CentsFromDollars(total), nil
}

var niitRate = decimal.NewFromFloat(0.038)

// NIIT computes the 3.8% net investment income tax on the lesser of
// investment income and the MAGI excess over the filing-status threshold.
func (e *Engine) NIIT(investmentIncome, magi domain.Cents, status domain.FilingStatus) domain.Cents {
	if investmentIncome <= 0 {
		return 0
	}
	excess := magi.Dollars().Sub(taxdata.NIITThreshold(status))
	if excess.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	base := decimal.Min(investmentIncome.Dollars(), excess)
	return domain.CentsFromDollars(base.Mul(niitRate))
}

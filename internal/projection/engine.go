// Package projection advances a plan's account balances year by year from
// the present to the end of the horizon, composing the tax engine, the
// benefit engine and the strategy modules over the account roster.
package projection

import (
	"fmt"

	"github.com/retirewise/retirewise/internal/benefit"
	"github.com/retirewise/retirewise/internal/domain"
	"github.com/retirewise/retirewise/internal/strategy"
	"github.com/retirewise/retirewise/internal/tax"
	"github.com/retirewise/retirewise/internal/taxdata"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultHorizonYears is the projection length when the caller does not
// choose one.
const DefaultHorizonYears = 40

// Engine runs deterministic year-by-year projections.
type Engine struct {
	tax     *tax.Engine
	benefit *benefit.Engine
	logger  *zap.Logger
}

// NewEngine creates a projection engine with a nop logger.
func NewEngine() *Engine {
	return NewEngineWithLogger(zap.NewNop())
}

// NewEngineWithLogger creates a projection engine that logs input
// leniencies (never errors) through the given logger.
func NewEngineWithLogger(logger *zap.Logger) *Engine {
	return &Engine{
		tax:     tax.NewEngine(),
		benefit: benefit.NewEngine(),
		logger:  logger,
	}
}

// yearState carries the mutable per-account balances across the loop.
// YearRecords snapshot it; the state itself never escapes.
type yearState struct {
	balances map[string]domain.Cents
	bases    map[string]domain.Cents
}

// Run projects the plan over the horizon. taxYear anchors both the
// statutory table lookups and calendar year zero; only 2024 and 2025 are
// supported and any other year fails before the loop starts.
func (e *Engine) Run(plan *domain.Plan, years, taxYear int) ([]domain.YearRecord, error) {
	if !taxdata.SupportedYear(taxYear) {
		return nil, fmt.Errorf("unsupported tax year %d: statutory data exists for 2024 and 2025", taxYear)
	}
	if years <= 0 {
		years = DefaultHorizonYears
	}
	// Fail fast on a bad filing status rather than erroring mid-loop.
	if _, err := taxdata.FederalBrackets(taxYear, plan.TaxProfile.FilingStatus); err != nil {
		return nil, err
	}

	state := &yearState{
		balances: make(map[string]domain.Cents, len(plan.Accounts)),
		bases:    make(map[string]domain.Cents, len(plan.Accounts)),
	}
	for i := range plan.Accounts {
		acct := &plan.Accounts[i]
		state.balances[acct.ID] = acct.Balance
		if acct.CostBasis != nil {
			state.bases[acct.ID] = *acct.CostBasis
		}
		if !acct.Kind.Known() {
			e.logger.Warn("unknown account kind; falling back to default equity growth rate",
				zap.String("account", acct.ID))
		}
	}

	records := make([]domain.YearRecord, 0, years)
	for offset := 0; offset < years; offset++ {
		record, err := e.advanceYear(plan, state, offset, taxYear)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// advanceYear applies one year of the state machine and returns its
// immutable snapshot.
func (e *Engine) advanceYear(plan *domain.Plan, state *yearState, offset, taxYear int) (domain.YearRecord, error) {
	profile := &plan.TaxProfile
	age := profile.CurrentAge + offset
	calendarYear := taxYear + offset
	retired := age >= profile.RetirementAge

	totalExpense := domain.Cents(0)
	for i := range plan.Expenses {
		totalExpense += plan.Expenses[i].AmountForYear(offset, plan.Assumptions.InflationRate)
	}

	var earnedIncome, qualifiedIncome, passiveIncome domain.Cents
	for i := range plan.Incomes {
		amount := plan.Incomes[i].AmountForYear(offset)
		switch plan.Incomes[i].Kind {
		case domain.EarnedIncome:
			earnedIncome += amount
		case domain.QualifiedIncome:
			qualifiedIncome += amount
		default:
			passiveIncome += amount
		}
	}

	ssAnnual := domain.Cents(0)
	ss := &plan.SocialSecurity
	if ss.Enabled && age >= ss.FilingAge {
		monthly := e.benefit.Benefit(ss.MonthlyBenefitAtFRA, ss.BirthYear, ss.FilingAge, calendarYear, ss.COLARate)
		ssAnnual = monthly * 12
	}

	record := domain.YearRecord{
		Year:                 calendarYear,
		Age:                  age,
		Retired:              retired,
		SocialSecurityIncome: ssAnnual,
		OtherIncome:          earnedIncome + qualifiedIncome + passiveIncome,
		TotalExpense:         totalExpense,
	}

	var err error
	if retired {
		err = e.advanceRetiredYear(plan, state, &record, age, taxYear, earnedIncome, qualifiedIncome, passiveIncome)
	} else {
		err = e.advanceWorkingYear(plan, state, &record, taxYear, earnedIncome, qualifiedIncome, passiveIncome)
	}
	if err != nil {
		return domain.YearRecord{}, err
	}

	record.AccountBalances = make(map[string]domain.Cents, len(plan.Accounts))
	record.TotalBalance = 0
	for i := range plan.Accounts {
		id := plan.Accounts[i].ID
		record.AccountBalances[id] = state.balances[id]
		record.TotalBalance += state.balances[id]
	}
	return record, nil
}

// advanceWorkingYear adds contributions and applies kind-specific growth.
func (e *Engine) advanceWorkingYear(plan *domain.Plan, state *yearState, record *domain.YearRecord, taxYear int, earned, qualified, passive domain.Cents) error {
	for i := range plan.Accounts {
		acct := &plan.Accounts[i]
		rate := acct.GrowthRate(&plan.Assumptions)
		grown := state.balances[acct.ID].Dollars().
			Add(acct.AnnualContribution.Dollars()).
			Mul(decimal.NewFromInt(1).Add(rate))
		state.balances[acct.ID] = domain.CentsFromDollars(grown)
	}
	return e.applyTaxes(plan, record, taxYear, earned, earned+passive, qualified, 0, passive)
}

// advanceRetiredYear withdraws the year's need from the roster. No growth
// applies in a withdrawal year (withdraw-then-hold); changing that would
// silently reshape decades of compounding.
func (e *Engine) advanceRetiredYear(plan *domain.Plan, state *yearState, record *domain.YearRecord, age, taxYear int, earned, qualified, passive domain.Cents) error {
	need := record.TotalExpense - record.SocialSecurityIncome - record.OtherIncome
	if need < 0 {
		need = 0
	}

	rmds, err := e.requiredDistributions(plan, state, age)
	if err != nil {
		return err
	}

	// Qualified charitable distributions come out ahead of the cash
	// withdrawal: they reduce both the balance and the remaining RMD
	// without creating taxable income.
	if plan.Strategies.QCD.Enabled {
		if qcdStrategy := strategy.QCDFromSettings(plan.Strategies.QCD); qcdStrategy != nil {
			capRemaining := strategy.QCDAnnualCap
			for i := range plan.Accounts {
				acct := &plan.Accounts[i]
				if !strategy.QCDEligible(acct.Kind, age) || capRemaining <= 0 {
					continue
				}
				amount := strategy.QCDAmount(qcdStrategy, state.balances[acct.ID], rmds[acct.ID]).Min(capRemaining)
				if amount <= 0 {
					continue
				}
				state.balances[acct.ID] -= amount
				if reduced := rmds[acct.ID] - amount; reduced > 0 {
					rmds[acct.ID] = reduced
				} else if _, ok := rmds[acct.ID]; ok {
					rmds[acct.ID] = 0
				}
				capRemaining -= amount
				record.QCDAmount += amount
			}
		}
	}

	withdrawals := e.allocateWithdrawals(plan, state, need, rmds)

	var ordinaryWithdrawn, capitalGains domain.Cents
	for i := range plan.Accounts {
		acct := &plan.Accounts[i]
		w := withdrawals[i]
		if w <= 0 {
			continue
		}
		state.balances[acct.ID] -= w
		switch acct.Kind.TaxTreatment() {
		case domain.OrdinaryIncome:
			ordinaryWithdrawn += w
		case domain.CapitalGains:
			capitalGains += e.gainsPortion(state, acct, w)
		}
	}
	for _, rmd := range rmds {
		record.RMDTotal += rmd
	}

	// Tax-loss harvesting offsets realized gains before they are taxed.
	if plan.Strategies.Harvest.Enabled {
		if harvest := strategy.HarvestFromSettings(plan.Strategies.Harvest); harvest != nil {
			for i := range plan.Accounts {
				acct := &plan.Accounts[i]
				suggested := strategy.SuggestHarvest(harvest, &domain.Account{
					Kind:      acct.Kind,
					Balance:   state.balances[acct.ID],
					CostBasis: basisPtr(state, acct),
				}, capitalGains, plan.Strategies.Harvest.MinThreshold)
				record.HarvestedLoss += suggested
			}
			capitalGains -= record.HarvestedLoss
			if capitalGains < 0 {
				capitalGains = 0
			}
		}
	}

	conversionTaxable, err := e.applyRothConversion(plan, state, record, age, taxYear, ordinaryWithdrawn+earned+passive, rmds)
	if err != nil {
		return err
	}

	ordinary := ordinaryWithdrawn + conversionTaxable
	return e.applyTaxes(plan, record, taxYear, earned, ordinary+earned+passive, qualified, capitalGains, passive)
}

func basisPtr(state *yearState, acct *domain.Account) *domain.Cents {
	if basis, ok := state.bases[acct.ID]; ok {
		return &basis
	}
	return acct.CostBasis
}

// requiredDistributions computes this year's RMD per eligible account.
// A missing life-expectancy factor is a hard error, never a silent zero.
func (e *Engine) requiredDistributions(plan *domain.Plan, state *yearState, age int) (map[string]domain.Cents, error) {
	rmds := make(map[string]domain.Cents)
	for i := range plan.Accounts {
		acct := &plan.Accounts[i]
		if !acct.Kind.RMDEligible() {
			continue
		}
		rmd, err := e.tax.RMDAmount(state.balances[acct.ID], age)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", acct.ID, err)
		}
		if rmd > 0 {
			rmds[acct.ID] = rmd
		}
	}
	return rmds, nil
}

// allocateWithdrawals splits the needed net withdrawal across accounts.
// Without a configured strategy the baseline is an even split, each share
// overridden upward to the account's RMD when that is larger. A configured
// strategy name dispatches through the factory (unknown names fall back to
// proportional); RMD overrides apply either way.
func (e *Engine) allocateWithdrawals(plan *domain.Plan, state *yearState, need domain.Cents, rmds map[string]domain.Cents) []domain.Cents {
	n := len(plan.Accounts)
	withdrawals := make([]domain.Cents, n)
	if n == 0 {
		return withdrawals
	}

	if plan.Strategies.Withdrawal != "" {
		accounts := make([]domain.Account, n)
		for i := range plan.Accounts {
			accounts[i] = plan.Accounts[i]
			accounts[i].Balance = state.balances[accounts[i].ID]
		}
		withdrawals = strategy.WithdrawalFromName(plan.Strategies.Withdrawal).Allocate(accounts, need, rmds)
	} else {
		base := need / domain.Cents(n)
		remainder := need - base*domain.Cents(n)
		for i := range withdrawals {
			withdrawals[i] = base
		}
		withdrawals[n-1] += remainder
	}

	for i := range plan.Accounts {
		acct := &plan.Accounts[i]
		balance := state.balances[acct.ID]
		if rmd, ok := rmds[acct.ID]; ok && acct.Kind.RMDEligible() && rmd > withdrawals[i] {
			withdrawals[i] = rmd
		}
		if withdrawals[i] > balance {
			withdrawals[i] = balance
		}
	}
	return withdrawals
}

// gainsPortion approximates the taxable gain in a brokerage withdrawal by
// the account's unrealized-gain ratio when a basis is tracked; without a
// basis the whole withdrawal is treated as gain.
func (e *Engine) gainsPortion(state *yearState, acct *domain.Account, withdrawal domain.Cents) domain.Cents {
	basis, ok := state.bases[acct.ID]
	if !ok {
		return withdrawal
	}
	balance := state.balances[acct.ID] + withdrawal // balance before the withdrawal
	if balance <= 0 {
		return 0
	}
	unrealized := balance - basis
	if unrealized < 0 {
		unrealized = 0
	}
	ratio := unrealized.Dollars().Div(balance.Dollars())
	gain := domain.CentsFromDollars(withdrawal.Dollars().Mul(ratio))

	// Basis is consumed proportionally with the withdrawal.
	consumed := withdrawal - gain
	if consumed > basis {
		consumed = basis
	}
	state.bases[acct.ID] = basis - consumed
	return gain
}

// applyRothConversion moves money from the largest traditional account to
// the first Roth account and returns the taxable portion of the
// conversion (pro-rata when the traditional account carries basis).
func (e *Engine) applyRothConversion(plan *domain.Plan, state *yearState, record *domain.YearRecord, age, taxYear int, ordinaryIncome domain.Cents, rmds map[string]domain.Cents) (domain.Cents, error) {
	settings := plan.Strategies.RothConversion
	if !settings.Enabled {
		return 0, nil
	}
	conversion := strategy.ConversionFromSettings(settings)
	if conversion == nil {
		return 0, nil
	}

	var source, target *domain.Account
	for i := range plan.Accounts {
		acct := &plan.Accounts[i]
		switch {
		case acct.Kind.RMDEligible():
			if source == nil || state.balances[acct.ID] > state.balances[source.ID] {
				source = acct
			}
		case acct.Kind == domain.RothIRA:
			if target == nil {
				target = acct
			}
		}
	}
	if source == nil || target == nil || state.balances[source.ID] <= 0 {
		return 0, nil
	}

	taxable, err := e.tax.TaxableOrdinaryIncome(ordinaryIncome, plan.TaxProfile.FilingStatus, taxYear)
	if err != nil {
		return 0, err
	}
	mustTakeRMD := rmds[source.ID] > 0
	amount := conversion.Amount(taxable, settings.BracketTarget, state.balances[source.ID], age, mustTakeRMD)
	if amount <= 0 {
		return 0, nil
	}

	state.balances[source.ID] -= amount
	state.balances[target.ID] += amount
	record.RothConversion = amount

	if basis, ok := state.bases[source.ID]; ok && basis > 0 {
		taxablePart, nonTaxable := strategy.ProRataSplit(amount, basis, state.balances[source.ID]+amount)
		consumed := nonTaxable.Min(basis)
		state.bases[source.ID] = basis - consumed
		return taxablePart, nil
	}
	return amount, nil
}

// applyTaxes computes the year's tax stack and fills the record.
// ordinaryIncome already includes every ordinary component for the year;
// investment income (gains plus passive and qualified income) feeds NIIT.
func (e *Engine) applyTaxes(plan *domain.Plan, record *domain.YearRecord, taxYear int, earned, ordinaryIncome, qualified, capitalGains, passive domain.Cents) error {
	status := plan.TaxProfile.FilingStatus

	// The taxable share of Social Security joins the ordinary base.
	if record.SocialSecurityIncome > 0 {
		provisional := e.benefit.ProvisionalIncome(ordinaryIncome, record.SocialSecurityIncome)
		ordinaryIncome += e.benefit.TaxablePortion(record.SocialSecurityIncome, provisional, status)
	}

	federal, err := e.tax.FederalTax(ordinaryIncome, status, taxYear)
	if err != nil {
		return err
	}

	taxableOrdinary, err := e.tax.TaxableOrdinaryIncome(ordinaryIncome, status, taxYear)
	if err != nil {
		return err
	}
	gains := capitalGains + qualified
	ltcg, err := e.tax.LongTermCapitalGainsTax(gains, taxableOrdinary, status, taxYear)
	if err != nil {
		return err
	}

	investmentIncome := gains + passive
	magi := ordinaryIncome + gains
	niit := e.tax.NIIT(investmentIncome, magi, status)

	fica, err := e.tax.FICATax(earned, status, taxYear)
	if err != nil {
		return err
	}

	state, err := e.tax.StateTax(ordinaryIncome+gains, plan.TaxProfile.StateCode, status, taxYear)
	if err != nil {
		return err
	}

	record.FederalTax = federal + ltcg + niit
	record.StateTax = state
	record.FICATax = fica
	return nil
}

// Package montecarlo runs many randomized projections to estimate how
// likely a plan is to last the full horizon under market variability.
package montecarlo

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"github.com/retirewise/retirewise/internal/domain"
	"github.com/retirewise/retirewise/internal/projection"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultScenarios balances statistical stability against runtime.
	DefaultScenarios = 1000
	// DefaultHorizonYears mirrors the deterministic engine's default.
	DefaultHorizonYears = projection.DefaultHorizonYears
)

// Default annual volatilities used when the plan leaves them unset.
var (
	defaultEquityVolatility = decimal.RequireFromString("0.12")
	defaultBondVolatility   = decimal.RequireFromString("0.04")
)

// Config parameterizes a simulation run.
type Config struct {
	Scenarios int
	Years     int
	TaxYear   int
	Seed      int64
}

// Result aggregates every scenario outcome.
type Result struct {
	Scenarios           []domain.ScenarioResult `json:"-"`
	NumScenarios        int                     `json:"numScenarios"`
	SuccessRate         decimal.Decimal         `json:"successRate"`
	MarginOfError       decimal.Decimal         `json:"marginOfError"`
	AverageFinalBalance domain.Cents            `json:"averageFinalBalance"`
	Percentiles         PercentileSummary       `json:"percentiles"`
}

// PercentileSummary holds the final-balance distribution at the
// conventional cut points.
type PercentileSummary struct {
	P10 domain.Cents `json:"p10"`
	P25 domain.Cents `json:"p25"`
	P50 domain.Cents `json:"p50"`
	P75 domain.Cents `json:"p75"`
	P90 domain.Cents `json:"p90"`
}

// SequenceRiskAnalysis splits the failed scenarios by when they depleted.
// Early failures cluster when poor returns hit the first retirement years,
// the classic sequence-of-returns problem.
type SequenceRiskAnalysis struct {
	Failures      int `json:"failures"`
	EarlyFailures int `json:"earlyFailures"`
	LateFailures  int `json:"lateFailures"`
}

// Engine runs simulations over a shared deterministic projection engine.
type Engine struct {
	projection *projection.Engine
	logger     *zap.Logger
}

func NewEngine() *Engine {
	return NewEngineWithLogger(zap.NewNop())
}

func NewEngineWithLogger(logger *zap.Logger) *Engine {
	return &Engine{
		projection: projection.NewEngineWithLogger(logger),
		logger:     logger,
	}
}

// Run simulates the plan under cfg. Each scenario clones the plan, draws
// one equity and one bond return from normal distributions centered on the
// plan's expected rates, and projects deterministically with those rates.
// Scenario i always uses rand.NewSource(cfg.Seed + i), so runs with the
// same seed reproduce exactly regardless of worker scheduling.
func (e *Engine) Run(ctx context.Context, plan *domain.Plan, cfg Config) (*Result, error) {
	if cfg.Scenarios <= 0 {
		cfg.Scenarios = DefaultScenarios
	}
	if cfg.Years <= 0 {
		cfg.Years = DefaultHorizonYears
	}

	equityVol := plan.Assumptions.EquityVolatility
	if equityVol.IsZero() {
		equityVol = defaultEquityVolatility
	}
	bondVol := plan.Assumptions.BondVolatility
	if bondVol.IsZero() {
		bondVol = defaultBondVolatility
	}

	scenarios := make([]domain.ScenarioResult, cfg.Scenarios)
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())

	for i := 0; i < cfg.Scenarios; i++ {
		index := i
		group.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			result, err := e.runScenario(plan, cfg, index, equityVol, bondVol)
			if err != nil {
				return err
			}
			scenarios[index] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := summarize(scenarios)
	e.logger.Info("simulation complete",
		zap.Int("scenarios", result.NumScenarios),
		zap.String("successRate", result.SuccessRate.StringFixed(4)))
	return result, nil
}

func (e *Engine) runScenario(plan *domain.Plan, cfg Config, index int, equityVol, bondVol decimal.Decimal) (domain.ScenarioResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed + int64(index)))

	scenario := plan.Clone()
	scenario.Assumptions.EquityGrowthRate = sampleNormal(rng, plan.Assumptions.EquityGrowthRate, equityVol)
	scenario.Assumptions.BondGrowthRate = sampleNormal(rng, plan.Assumptions.BondGrowthRate, bondVol)

	records, err := e.projection.Run(scenario, cfg.Years, cfg.TaxYear)
	if err != nil {
		return domain.ScenarioResult{}, err
	}

	last := records[len(records)-1]
	return domain.ScenarioResult{
		Records:      records,
		Success:      last.TotalBalance > 0,
		FinalBalance: last.TotalBalance,
		FinalAge:     last.Age,
		EquityReturn: scenario.Assumptions.EquityGrowthRate,
		BondReturn:   scenario.Assumptions.BondGrowthRate,
	}, nil
}

// sampleNormal draws from N(mean, stddev) via the Box-Muller transform.
func sampleNormal(rng *rand.Rand, mean, stddev decimal.Decimal) decimal.Decimal {
	u1 := rng.Float64()
	for u1 == 0 {
		u1 = rng.Float64()
	}
	u2 := rng.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	m, _ := mean.Float64()
	s, _ := stddev.Float64()
	return decimal.NewFromFloat(m + s*z)
}

func summarize(scenarios []domain.ScenarioResult) *Result {
	n := len(scenarios)
	successes := 0
	var total domain.Cents
	finals := make([]domain.Cents, n)
	for i := range scenarios {
		if scenarios[i].Success {
			successes++
		}
		finals[i] = scenarios[i].FinalBalance
		total += scenarios[i].FinalBalance
	}
	sort.Slice(finals, func(i, j int) bool { return finals[i] < finals[j] })

	rate := decimal.NewFromInt(int64(successes)).Div(decimal.NewFromInt(int64(n)))
	return &Result{
		Scenarios:           scenarios,
		NumScenarios:        n,
		SuccessRate:         rate,
		MarginOfError:       MarginOfError(rate, n),
		AverageFinalBalance: total / domain.Cents(n),
		Percentiles: PercentileSummary{
			P10: percentile(finals, 0.10),
			P25: percentile(finals, 0.25),
			P50: percentile(finals, 0.50),
			P75: percentile(finals, 0.75),
			P90: percentile(finals, 0.90),
		},
	}
}

// percentile indexes the sorted values at floor(n*p), clamped to the
// last element.
func percentile(sorted []domain.Cents, p float64) domain.Cents {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Floor(float64(len(sorted)) * p))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// MarginOfError is the 95% confidence half-width for a success proportion,
// z * sqrt(p(1-p)/n) with z = 1.96, clamped to [0, 1].
func MarginOfError(p decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.NewFromInt(1)
	}
	pf, _ := p.Float64()
	if pf < 0 {
		pf = 0
	}
	if pf > 1 {
		pf = 1
	}
	moe := 1.96 * math.Sqrt(pf*(1-pf)/float64(n))
	if moe > 1 {
		moe = 1
	}
	return decimal.NewFromFloat(moe)
}

// AnalyzeSequenceRisk classifies each failed scenario by when it ran out
// of money. Depletion at or before the retirement transition counts as
// early; depletion afterwards counts as late.
func AnalyzeSequenceRisk(scenarios []domain.ScenarioResult) SequenceRiskAnalysis {
	var analysis SequenceRiskAnalysis
	for i := range scenarios {
		if scenarios[i].Success {
			continue
		}
		analysis.Failures++

		records := scenarios[i].Records
		firstRetired, depleted := -1, -1
		for j := range records {
			if firstRetired < 0 && records[j].Retired {
				firstRetired = j
			}
			if depleted < 0 && records[j].TotalBalance <= 0 {
				depleted = j
			}
		}
		if depleted >= 0 && (firstRetired < 0 || depleted <= firstRetired) {
			analysis.EarlyFailures++
		} else {
			analysis.LateFailures++
		}
	}
	return analysis
}

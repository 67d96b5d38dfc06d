// Package output renders projection and simulation results for the
// console and for machine consumption.
package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"github.com/retirewise/retirewise/internal/domain"
	"github.com/retirewise/retirewise/internal/montecarlo"
	"github.com/shopspring/decimal"
)

var (
	hundred       = decimal.NewFromInt(100)
	threeQuarters = decimal.RequireFromString("0.75")
)

func percent(d decimal.Decimal) string {
	return d.Mul(hundred).StringFixed(1) + "%"
}

// Format selects a renderer.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	retiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	labelStyle   = lipgloss.NewStyle().Faint(true)
)

// WriteProjection renders a year-by-year projection in the given format.
func WriteProjection(w io.Writer, records []domain.YearRecord, format Format) error {
	switch format {
	case FormatCSV:
		return writeProjectionCSV(w, records)
	case FormatJSON:
		return writeJSON(w, records)
	default:
		return writeProjectionTable(w, records)
	}
}

// WriteSimulation renders a Monte Carlo summary in the given format.
func WriteSimulation(w io.Writer, result *montecarlo.Result, format Format) error {
	switch format {
	case FormatCSV:
		return writeSimulationCSV(w, result)
	case FormatJSON:
		return writeJSON(w, result)
	default:
		return writeSimulationTable(w, result)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func money(c domain.Cents) string {
	return "$" + c.Dollars().StringFixed(2)
}

var projectionColumns = []string{
	"Year", "Age", "Phase", "Balance", "Expenses", "SocSec", "Other Inc", "RMDs", "Fed Tax", "State Tax", "FICA",
}

func projectionRow(r *domain.YearRecord) []string {
	phase := "working"
	if r.Retired {
		phase = "retired"
	}
	return []string{
		strconv.Itoa(r.Year),
		strconv.Itoa(r.Age),
		phase,
		money(r.TotalBalance),
		money(r.TotalExpense),
		money(r.SocialSecurityIncome),
		money(r.OtherIncome),
		money(r.RMDTotal),
		money(r.FederalTax),
		money(r.StateTax),
		money(r.FICATax),
	}
}

func writeProjectionTable(w io.Writer, records []domain.YearRecord) error {
	widths := make([]int, len(projectionColumns))
	rows := make([][]string, len(records))
	for i, col := range projectionColumns {
		widths[i] = len(col)
	}
	for i := range records {
		rows[i] = projectionRow(&records[i])
		for j, cell := range rows[i] {
			if len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, col := range projectionColumns {
		b.WriteString(headerStyle.Render(pad(col, widths[i])))
		b.WriteString("  ")
	}
	b.WriteString("\n")
	for i := range rows {
		line := make([]string, len(rows[i]))
		for j, cell := range rows[i] {
			line[j] = pad(cell, widths[j])
		}
		text := strings.Join(line, "  ")
		if records[i].Retired {
			text = retiredStyle.Render(text)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func writeProjectionCSV(w io.Writer, records []domain.YearRecord) error {
	cw := csv.NewWriter(w)
	header := []string{
		"year", "age", "retired", "total_balance", "total_expense", "social_security",
		"other_income", "rmd_total", "federal_tax", "state_tax", "fica_tax",
		"roth_conversion", "qcd_amount", "harvested_loss",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range records {
		r := &records[i]
		row := []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Age),
			strconv.FormatBool(r.Retired),
			r.TotalBalance.Dollars().StringFixed(2),
			r.TotalExpense.Dollars().StringFixed(2),
			r.SocialSecurityIncome.Dollars().StringFixed(2),
			r.OtherIncome.Dollars().StringFixed(2),
			r.RMDTotal.Dollars().StringFixed(2),
			r.FederalTax.Dollars().StringFixed(2),
			r.StateTax.Dollars().StringFixed(2),
			r.FICATax.Dollars().StringFixed(2),
			r.RothConversion.Dollars().StringFixed(2),
			r.QCDAmount.Dollars().StringFixed(2),
			r.HarvestedLoss.Dollars().StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeSimulationTable(w io.Writer, result *montecarlo.Result) error {
	rateStyle := okStyle
	if result.SuccessRate.LessThan(threeQuarters) {
		rateStyle = failStyle
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Monte Carlo Simulation"))
	b.WriteString("\n\n")
	writeField(&b, "Scenarios", strconv.Itoa(result.NumScenarios))
	writeField(&b, "Success rate", rateStyle.Render(percent(result.SuccessRate)))
	writeField(&b, "Margin of error", "±"+percent(result.MarginOfError))
	writeField(&b, "Avg final balance", money(result.AverageFinalBalance))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Final balance percentiles"))
	b.WriteString("\n")
	writeField(&b, "10th", money(result.Percentiles.P10))
	writeField(&b, "25th", money(result.Percentiles.P25))
	writeField(&b, "50th", money(result.Percentiles.P50))
	writeField(&b, "75th", money(result.Percentiles.P75))
	writeField(&b, "90th", money(result.Percentiles.P90))

	risk := montecarlo.AnalyzeSequenceRisk(result.Scenarios)
	if risk.Failures > 0 {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Sequence-of-returns risk"))
		b.WriteString("\n")
		writeField(&b, "Failures", strconv.Itoa(risk.Failures))
		writeField(&b, "Early (by retirement)", strconv.Itoa(risk.EarlyFailures))
		writeField(&b, "Late", strconv.Itoa(risk.LateFailures))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(pad(label+":", 20)))
	b.WriteString(value)
	b.WriteString("\n")
}

func writeSimulationCSV(w io.Writer, result *montecarlo.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"metric", "value"}); err != nil {
		return err
	}
	rows := [][]string{
		{"scenarios", strconv.Itoa(result.NumScenarios)},
		{"success_rate", result.SuccessRate.StringFixed(4)},
		{"margin_of_error", result.MarginOfError.StringFixed(4)},
		{"avg_final_balance", result.AverageFinalBalance.Dollars().StringFixed(2)},
		{"p10", result.Percentiles.P10.Dollars().StringFixed(2)},
		{"p25", result.Percentiles.P25.Dollars().StringFixed(2)},
		{"p50", result.Percentiles.P50.Dollars().StringFixed(2)},
		{"p75", result.Percentiles.P75.Dollars().StringFixed(2)},
		{"p90", result.Percentiles.P90.Dollars().StringFixed(2)},
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/retirewise/retirewise/internal/config"
	"github.com/retirewise/retirewise/internal/montecarlo"
	"github.com/retirewise/retirewise/internal/output"
	"github.com/retirewise/retirewise/internal/projection"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "retirewise",
	Short: "Retirement planning calculator",
	Long:  "Deterministic projections and Monte Carlo simulations for household retirement plans",
}

func main() {
	viper.SetEnvPrefix("RETIREWISE")
	viper.AutomaticEnv()
	viper.SetDefault("tax_year", 2025)
	viper.SetDefault("years", projection.DefaultHorizonYears)
	viper.SetDefault("scenarios", montecarlo.DefaultScenarios)
	viper.SetDefault("format", string(output.FormatTable))

	rootCmd.AddCommand(projectCmd(), montecarloCmd(), validateCmd(), versionCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().Int("tax-year", viper.GetInt("tax_year"), "statutory tax year (2024 or 2025)")
	cmd.Flags().Int("years", viper.GetInt("years"), "projection horizon in years")
	cmd.Flags().String("format", viper.GetString("format"), "output format: table, csv or json")
	cmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
}

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project [plan-file]",
		Short: "Run a deterministic year-by-year projection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			plan, err := config.LoadPlan(args[0])
			if err != nil {
				return err
			}
			taxYear, _ := cmd.Flags().GetInt("tax-year")
			years, _ := cmd.Flags().GetInt("years")
			format, _ := cmd.Flags().GetString("format")

			records, err := projection.NewEngineWithLogger(logger).Run(plan, years, taxYear)
			if err != nil {
				return err
			}
			return output.WriteProjection(os.Stdout, records, output.Format(format))
		},
	}
	addCommonFlags(cmd)
	return cmd
}

func montecarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo [plan-file]",
		Short: "Run a randomized Monte Carlo simulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			plan, err := config.LoadPlan(args[0])
			if err != nil {
				return err
			}
			taxYear, _ := cmd.Flags().GetInt("tax-year")
			years, _ := cmd.Flags().GetInt("years")
			format, _ := cmd.Flags().GetString("format")
			scenarios, _ := cmd.Flags().GetInt("scenarios")
			seed, _ := cmd.Flags().GetInt64("seed")

			result, err := montecarlo.NewEngineWithLogger(logger).Run(cmd.Context(), plan, montecarlo.Config{
				Scenarios: scenarios,
				Years:     years,
				TaxYear:   taxYear,
				Seed:      seed,
			})
			if err != nil {
				return err
			}
			return output.WriteSimulation(os.Stdout, result, output.Format(format))
		},
	}
	addCommonFlags(cmd)
	cmd.Flags().Int("scenarios", viper.GetInt("scenarios"), "number of scenarios to simulate")
	cmd.Flags().Int64("seed", 1, "base random seed; scenario i uses seed+i")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [plan-file]",
		Short: "Check a plan file without running anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.LoadPlan(args[0]); err != nil {
				return err
			}
			fmt.Println("plan is valid")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "retirewise %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

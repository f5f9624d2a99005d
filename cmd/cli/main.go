package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"edakit/adapters/excel"
	"edakit/domain/table"
	"edakit/internal"
	"edakit/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// env is the state shared by every subcommand, filled in before each run
type env struct {
	cfg    *config.Config
	logger *internal.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	e := &env{}

	rootCmd := &cobra.Command{
		Use:           "edakit",
		Short:         "Exploratory data analysis helpers for CSV and Excel datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = internal.NewLoggerTo(cmd.ErrOrStderr(), internal.ParseLogLevel(cfg.LogLevel))
			return nil
		},
	}

	rootCmd.AddCommand(
		newOutliersCmd(e),
		newNormalityCmd(e),
		newCorrelateCmd(e),
		newEtaCmd(e),
		newMannWhitneyCmd(e),
		newKruskalCmd(e),
		newReportCmd(e),
		newShowCmd(e),
	)
	return rootCmd
}

func (e *env) loadTable(path string) (*table.Table, error) {
	cfg := excel.DefaultConfig()
	cfg.Sheet = e.cfg.Data.Sheet
	return excel.NewDataReaderWithConfig(path, cfg, e.logger).ReadTable()
}

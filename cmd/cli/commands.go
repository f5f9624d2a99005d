package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"edakit/adapters/excel"
	"edakit/adapters/postgres"
	"edakit/adapters/render"
	"edakit/app"
	"edakit/domain/core"
	"edakit/domain/report"
	"edakit/internal/errors"
	"edakit/internal/stattest"
	"edakit/ports"

	"github.com/spf13/cobra"
)

func newOutliersCmd(e *env) *cobra.Command {
	var column, group, out, format string
	var k float64

	cmd := &cobra.Command{
		Use:   "outliers [file]",
		Short: "Drop rows outside the IQR fences of a column",
		Long: `Drop rows whose value in --column lies outside [Q1 - k*IQR, Q3 + k*IQR].
With --group the fences are computed separately within each group.

Example: edakit outliers sales.csv --column price --group region --out clean.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := e.loadTable(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("k") {
				k = e.cfg.Analysis.OutlierK
			}

			svc := app.NewOutlierService(e.logger)
			var summary report.OutlierSummary
			if group != "" {
				t, summary, err = svc.FilterGroupedCopyWithSummary(t, column, group, k)
			} else {
				t, summary, err = svc.FilterCopyWithSummary(t, column, k)
			}
			if err != nil {
				return err
			}

			if out != "" {
				if err := (excel.Writer{Sheet: e.cfg.Data.Sheet}).WriteTable(out, t); err != nil {
					return err
				}
				e.logger.Info("wrote %d rows to %s", t.Len(), out)
			}
			return emit(cmd, format, "Outliers: "+column, render.OutlierMarkdown(summary), "", summary)
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Numeric column to trim")
	cmd.Flags().StringVar(&group, "group", "", "Compute fences within groups of this column")
	cmd.Flags().Float64Var(&k, "k", app.DefaultOutlierK, "Fence multiplier (default from EDA_OUTLIER_K)")
	cmd.Flags().StringVar(&out, "out", "", "Write the trimmed table to this .csv or .xlsx file")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|markdown|html|json")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func newNormalityCmd(e *env) *cobra.Command {
	var columns []string
	var alpha float64
	var format string

	cmd := &cobra.Command{
		Use:   "normality [file]",
		Short: "Shapiro-Wilk normality check of numeric columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := e.loadTable(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("alpha") {
				alpha = e.cfg.Analysis.Alpha
			}
			if len(columns) == 0 {
				columns = t.NumericColumnNames()
			}

			rows, err := app.NewNormalityService(e.logger, e.cfg.Analysis.Workers).Check(cmd.Context(), t, columns, alpha)
			if err != nil {
				return err
			}
			return emit(cmd, format, "Normality", render.NormalityMarkdown(rows), "", rows)
		},
	}

	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to check (default: every numeric column)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Significance level (default from EDA_ALPHA)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|markdown|html|json")
	return cmd
}

func newCorrelateCmd(e *env) *cobra.Command {
	var target, format string
	var factors []string

	cmd := &cobra.Command{
		Use:   "correlate [file]",
		Short: "Pearson/Spearman correlation of numeric factors against a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := e.loadTable(args[0])
			if err != nil {
				return err
			}
			if len(factors) == 0 {
				factors = t.NumericColumnsExcept(target)
			}

			rows, err := app.NewCorrelationService(e.logger, e.cfg.Analysis.Workers).Table(cmd.Context(), t, target, factors)
			if err != nil {
				return err
			}
			return emit(cmd, format, "Correlations: "+target, render.CorrelationMarkdown(rows), "", rows)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Target column")
	cmd.Flags().StringSliceVar(&factors, "factors", nil, "Factor columns (default: every other numeric column)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|markdown|html|json")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newEtaCmd(e *env) *cobra.Command {
	var target, format string
	var factors []string

	cmd := &cobra.Command{
		Use:   "eta [file]",
		Short: "Correlation ratio of grouping columns against a numeric target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := e.loadTable(args[0])
			if err != nil {
				return err
			}
			if len(factors) == 0 {
				factors = t.CategoricalColumnNames()
			}

			rows, err := app.NewAssociationService(e.logger).EtaTable(t, target, factors)
			if err != nil {
				return err
			}
			return emit(cmd, format, "Eta: "+target, render.EtaMarkdown(rows), "", rows)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Numeric target column")
	cmd.Flags().StringSliceVar(&factors, "factors", nil, "Grouping columns (default: every categorical column)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|markdown|html|json")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newMannWhitneyCmd(e *env) *cobra.Command {
	var target, factor, alternative, method, format string

	cmd := &cobra.Command{
		Use:   "mannwhitney [file]",
		Short: "Mann-Whitney U test of a target between the two groups of a factor",
		Long: `Mann-Whitney U test. The alternative is stated for the first group in
sorted key order relative to the second.

Example: edakit mannwhitney trial.csv --target score --factor arm --alternative less`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := e.loadTable(args[0])
			if err != nil {
				return err
			}
			if method == "" {
				method = string(e.cfg.Analysis.MannWhitney)
			}

			res, err := app.NewGroupComparisonService(e.logger).MannWhitney(t, target, factor, stattest.Alternative(alternative), stattest.UMethod(method))
			if err != nil {
				return err
			}
			rows := []report.GroupTestResult{res}
			return emit(cmd, format, "Mann-Whitney: "+factor, render.GroupTestsMarkdown(rows), render.GroupTestText(rows...), res)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Numeric target column")
	cmd.Flags().StringVar(&factor, "factor", "", "Grouping column with exactly two groups")
	cmd.Flags().StringVar(&alternative, "alternative", string(stattest.TwoSided), "two-sided|less|greater")
	cmd.Flags().StringVar(&method, "method", "", "asymptotic|exact (default from EDA_MW_METHOD)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|markdown|html|json")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("factor")
	return cmd
}

func newKruskalCmd(e *env) *cobra.Command {
	var target, factor, format string

	cmd := &cobra.Command{
		Use:   "kruskal [file]",
		Short: "Kruskal-Wallis H test of a target across the groups of a factor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := e.loadTable(args[0])
			if err != nil {
				return err
			}

			res, err := app.NewGroupComparisonService(e.logger).KruskalWallis(t, target, factor)
			if err != nil {
				return err
			}
			rows := []report.GroupTestResult{res}
			return emit(cmd, format, "Kruskal-Wallis: "+factor, render.GroupTestsMarkdown(rows), render.GroupTestText(rows...), res)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Numeric target column")
	cmd.Flags().StringVar(&factor, "factor", "", "Grouping column")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|markdown|html|json")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("factor")
	return cmd
}

func newReportCmd(e *env) *cobra.Command {
	var target, method, outlierColumn, outlierGroup, format string
	var alpha, k float64
	var save bool

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Run every analysis against a target and optionally store the run",
		Long: `Build a full report: normality of numeric columns, correlations and eta
against --target, and a Mann-Whitney or Kruskal-Wallis test per categorical
column. With --save the run is stored in DATABASE_URL.

Example: edakit report survey.xlsx --target spend --outlier-column spend --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := e.loadTable(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("alpha") {
				alpha = e.cfg.Analysis.Alpha
			}
			if !cmd.Flags().Changed("k") {
				k = e.cfg.Analysis.OutlierK
			}
			if method == "" {
				method = string(e.cfg.Analysis.MannWhitney)
			}

			var repo ports.ReportRepository
			if save {
				r, closeDB, err := e.openRepository(cmd.Context())
				if err != nil {
					return err
				}
				defer closeDB()
				repo = r
			}

			run, err := app.NewReportService(e.logger, e.cfg.Analysis.Workers, repo).Build(cmd.Context(), t, app.ReportRequest{
				Dataset:           filepath.Base(args[0]),
				Target:            target,
				Alpha:             alpha,
				MannWhitneyMethod: stattest.UMethod(method),
				OutlierColumn:     outlierColumn,
				OutlierGroup:      outlierGroup,
				OutlierK:          k,
			})
			if err != nil {
				return err
			}
			if save {
				e.logger.Info("saved run %s", run.ID)
			}
			return writeRun(cmd, run, format)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Numeric target column")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Normality significance level (default from EDA_ALPHA)")
	cmd.Flags().StringVar(&method, "method", "", "Mann-Whitney method: asymptotic|exact")
	cmd.Flags().StringVar(&outlierColumn, "outlier-column", "", "Trim outliers of this column first")
	cmd.Flags().StringVar(&outlierGroup, "outlier-group", "", "Compute outlier fences within groups of this column")
	cmd.Flags().Float64Var(&k, "k", app.DefaultOutlierK, "Outlier fence multiplier")
	cmd.Flags().BoolVar(&save, "save", false, "Store the run in DATABASE_URL")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|markdown|html|json")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newShowCmd(e *env) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Print a stored report run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseRunID(args[0])
			if err != nil {
				return err
			}
			repo, closeDB, err := e.openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			run, err := app.NewReportService(e.logger, 1, repo).Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeRun(cmd, run, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|markdown|html|json")
	return cmd
}

func writeRun(cmd *cobra.Command, run *report.Run, format string) error {
	f, err := render.ParseFormat(format)
	if err != nil {
		return err
	}
	out, err := render.Run(run, f)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func (e *env) openRepository(ctx context.Context) (ports.ReportRepository, func(), error) {
	if e.cfg.Database.URL == "" {
		return nil, nil, errors.ConfigInvalid("DATABASE_URL is required to store or load runs")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, e.cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to prepare schema: %w", err)
	}
	return postgres.NewReportRepository(db), func() { db.Close() }, nil
}

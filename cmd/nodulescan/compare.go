package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/radshape/nodulescan/internal/analysis"
	"github.com/radshape/nodulescan/internal/config"
	"github.com/radshape/nodulescan/internal/dataset"
	"github.com/radshape/nodulescan/internal/report"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [category...]",
		Short: "Compare detection counts across dataset categories",
		Long: `Compare runs the pipeline over every category and tabulates the results.

Each category is analyzed in turn with the same parameters; the comparison
table shows per-category totals and a per-method breakdown. Without
arguments all categories are compared.

Examples:
  # Compare all categories, 10 images each
  nodulescan compare

  # Compare two categories with 50 images each, report as Markdown
  nodulescan compare --per-category 50 --markdown report.md COVID Normal

  # Persist every result to the SQLite store
  nodulescan compare --db`,
		Args: cobra.ArbitraryArgs,
		RunE: runCompareCmd,
	}

	addDetectionFlags(cmd)
	cmd.Flags().IntP("per-category", "n", defaultBatchCount, "Maximum images analyzed per category")
	cmd.Flags().String("dataset", "", "Dataset root directory")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency, "Number of images analyzed in parallel")
	cmd.Flags().String("csv", "", "Write the comparison to a CSV file")
	cmd.Flags().String("markdown", "", "Write the comparison to a Markdown file")
	cmd.Flags().BoolP("json", "j", false, "Print the comparison as JSON instead of a table")
	cmd.Flags().Bool("db", false, "Save per-image results to the SQLite store")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	categories, err := resolveCategories(args)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd, "")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dataset") {
		if cfg.DatasetDir, err = cmd.Flags().GetString("dataset"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("concurrency") {
		if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
	}

	perCategory, err := cmd.Flags().GetInt("per-category")
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	ctx, cancel := signalContext(logger)
	defer cancel()

	analyzer, err := analysis.NewAnalyzer(cfg, logger)
	if err != nil {
		return err
	}

	layout, err := dataset.NewLayout(cfg.DatasetDir)
	if err != nil {
		return fmt.Errorf("dataset error: %w", err)
	}

	session := analysis.NewSession()
	cmp, err := analyzer.CompareCategories(ctx, layout, session, categories, perCategory)
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(cmp); err != nil {
			return err
		}
	} else {
		writer, closers, err := buildComparisonWriters(cmd)
		if err != nil {
			return err
		}
		defer closeAll(closers)

		if _, err := writer.WriteComparison(cmp); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	saveDB, err := cmd.Flags().GetBool("db")
	if err != nil {
		return err
	}
	if saveDB {
		return saveResults(cmd, cfg, session.Results())
	}
	return nil
}

// resolveCategories turns positional arguments into categories, defaulting
// to all of them.
func resolveCategories(args []string) ([]dataset.Category, error) {
	if len(args) == 0 {
		return dataset.Categories(), nil
	}
	categories := make([]dataset.Category, 0, len(args))
	for _, arg := range args {
		c := dataset.Category(arg)
		if !c.Valid() {
			return nil, fmt.Errorf("unknown category %q (valid: %s)", arg, categoryList())
		}
		categories = append(categories, c)
	}
	return categories, nil
}

// buildComparisonWriters assembles the text writer plus any file-backed
// writers requested by flags.
func buildComparisonWriters(cmd *cobra.Command) (report.Writer, []*os.File, error) {
	writers := []report.Writer{report.NewTextWriter(cmd.OutOrStdout())}
	var files []*os.File

	csvPath, err := cmd.Flags().GetString("csv")
	if err != nil {
		return nil, nil, err
	}
	if csvPath != "" {
		f, err := createReportFile(csvPath)
		if err != nil {
			return nil, files, err
		}
		files = append(files, f)
		writers = append(writers, report.NewCSVWriter(f))
	}

	mdPath, err := cmd.Flags().GetString("markdown")
	if err != nil {
		return nil, files, err
	}
	if mdPath != "" {
		f, err := createReportFile(mdPath)
		if err != nil {
			return nil, files, err
		}
		files = append(files, f)
		writers = append(writers, report.NewMarkdownWriter(f))
	}

	return report.NewMultiWriter(writers...), files, nil
}

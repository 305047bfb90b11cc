package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/radshape/nodulescan/internal/analysis"
	"github.com/radshape/nodulescan/internal/config"
	"github.com/radshape/nodulescan/internal/database"
	"github.com/radshape/nodulescan/internal/dataset"
	"github.com/radshape/nodulescan/internal/report"
)

// defaultBatchCount bounds how many images a batch analyzes when --count
// is not given.
const defaultBatchCount = 10

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <category>",
		Short: "Analyze a batch of images from one dataset category",
		Long: `Batch runs the detection pipeline over images of a single category.

Images are analyzed concurrently; failures are logged and skipped without
aborting the batch. A per-image table and the category aggregate are
printed to stdout.

Valid categories: ` + categoryList() + `

Examples:
  # Analyze 10 COVID images
  nodulescan batch COVID

  # Analyze 50 images with results exported to CSV
  nodulescan batch --count 50 --csv results.csv Normal

  # Persist results to the SQLite store
  nodulescan batch --db COVID`,
		Args: cobra.ExactArgs(1),
		RunE: runBatchCmd,
	}

	addDetectionFlags(cmd)
	cmd.Flags().IntP("count", "n", defaultBatchCount, "Maximum images to analyze")
	cmd.Flags().String("dataset", "", "Dataset root directory")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency, "Number of images analyzed in parallel")
	cmd.Flags().String("csv", "", "Write per-image rows to a CSV file")
	cmd.Flags().String("markdown", "", "Write per-image rows to a Markdown file")
	cmd.Flags().Bool("db", false, "Save results to the SQLite store")

	return cmd
}

// runBatchCmd executes the batch command.
func runBatchCmd(cmd *cobra.Command, args []string) error {
	category := dataset.Category(args[0])
	if !category.Valid() {
		return fmt.Errorf("unknown category %q (valid: %s)", args[0], categoryList())
	}

	cfg, err := buildConfig(cmd, string(category))
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

	count, err := cmd.Flags().GetInt("count")
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
	summary, err := analyzer.AnalyzeCategory(ctx, layout, session, category, count)
	if err != nil {
		return err
	}

	results := session.Results()
	writer, closers, err := buildResultWriters(cmd)
	if err != nil {
		return err
	}
	defer closeAll(closers)

	if _, err := writer.WriteResults(results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s: %d analyzed, %d failed, %d findings (%.2f per image)\n",
		string(summary.Category), summary.ImagesAnalyzed, summary.ImagesFailed,
		summary.TotalFindings, summary.AvgFindingsPerImage)

	saveDB, err := cmd.Flags().GetBool("db")
	if err != nil {
		return err
	}
	if saveDB {
		if err := saveResults(cmd, cfg, results); err != nil {
			return err
		}
	}
	return nil
}

// buildResultWriters assembles the text writer plus any file-backed
// writers requested by flags. The returned closers must be closed by the
// caller.
func buildResultWriters(cmd *cobra.Command) (report.Writer, []*os.File, error) {
	writers := []report.Writer{report.NewTextWriter(cmd.OutOrStdout(), report.WithVerbose(getVerboseFlag(cmd)))}
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

// createReportFile creates the file and any missing parent directories.
func createReportFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, nil
}

// closeAll closes report files, ignoring errors on the way out.
func closeAll(files []*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}

// saveResults persists a batch to the SQLite store.
func saveResults(cmd *cobra.Command, cfg *config.Config, results []analysis.Result) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open results database: %w", err)
	}
	defer db.Close()

	for i := range results {
		if _, err := db.SaveResult(cmd.Context(), &results[i]); err != nil {
			return fmt.Errorf("failed to save %s: %w", results[i].Filename, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %d results to %s\n", len(results), db.Path())
	return nil
}

// categoryList returns the valid category names, comma separated.
func categoryList() string {
	categories := dataset.Categories()
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

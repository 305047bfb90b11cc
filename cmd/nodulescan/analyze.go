package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/radshape/nodulescan/internal/analysis"
	"github.com/radshape/nodulescan/internal/dataset"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <image-path>",
		Short: "Analyze a single radiograph",
		Long: `Analyze runs the full detection pipeline on one image.

The image is preprocessed, both detectors run, and an annotated copy is
written to the output directory. Detection counts are printed to stdout.

Examples:
  # Analyze one image with default parameters
  nodulescan analyze data/covid_dataset/COVID/images/COVID-1.png

  # Tune the blob detector and print findings as JSON
  nodulescan analyze --min-radius 5 --max-radius 15 --json scan.png

  # Apply the COVID category's overrides from a config file
  nodulescan analyze -c nodulescan.yaml --category COVID scan.png`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyzeCmd,
	}

	addDetectionFlags(cmd)
	cmd.Flags().String("category", "", "Category overrides to apply from the config file")
	cmd.Flags().BoolP("json", "j", false, "Print the result as JSON")
	cmd.Flags().Bool("no-save", false, "Skip writing the annotated image")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	category, err := cmd.Flags().GetString("category")
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd, category)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	analyzer, err := analysis.NewAnalyzer(cfg, logger)
	if err != nil {
		return err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return err
	}

	result, err := analyzer.AnalyzeFile(dataset.Category(category), args[0], !noSave)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %dx%d\n", result.Filename, result.Width, result.Height)
	fmt.Fprintf(out, "  blobs:    %d\n", result.BlobCount)
	fmt.Fprintf(out, "  contours: %d\n", result.ContourCount)
	fmt.Fprintf(out, "  total:    %d\n", result.TotalFindings)
	if result.OutputPath != "" {
		fmt.Fprintf(out, "  saved:    %s\n", result.OutputPath)
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/radshape/nodulescan/internal/config"
	"github.com/radshape/nodulescan/internal/database"
	"github.com/radshape/nodulescan/internal/dataset"
)

// NewDatasetCmd creates the dataset command.
func NewDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Inspect the dataset layout",
		Long: `Dataset prints the category folders of the dataset and their image counts.

With --totals, stored aggregates from the SQLite result store are printed
alongside the on-disk counts.

Examples:
  nodulescan dataset
  nodulescan dataset --dataset /data/covid_dataset --totals`,
		Args: cobra.NoArgs,
		RunE: runDatasetCmd,
	}

	cmd.Flags().String("dataset", config.DefaultDatasetDir, "Dataset root directory")
	cmd.Flags().Bool("totals", false, "Include stored aggregates from the result store")
	cmd.Flags().Bool("preview", false, "Include intensity statistics of each category's first image")

	return cmd
}

// runDatasetCmd executes the dataset command.
func runDatasetCmd(cmd *cobra.Command, _ []string) error {
	root, err := cmd.Flags().GetString("dataset")
	if err != nil {
		return err
	}

	layout, err := dataset.NewLayout(root)
	if err != nil {
		return fmt.Errorf("dataset error: %w", err)
	}

	infos, err := layout.Info()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-16s %8s  %s\n", "Category", "Images", "Path")
	for _, info := range infos {
		if info.Missing {
			fmt.Fprintf(out, "%-16s %8s  %s (missing)\n", string(info.Category), "-", info.Path)
			continue
		}
		fmt.Fprintf(out, "%-16s %8d  %s\n", string(info.Category), info.ImageCount, info.Path)
	}

	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return err
	}
	if preview {
		if err := previewCategories(cmd, layout); err != nil {
			return err
		}
	}

	withTotals, err := cmd.Flags().GetBool("totals")
	if err != nil {
		return err
	}
	if !withTotals {
		return nil
	}

	db, err := database.Open(config.DefaultDBDir(), database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no stored results: %w", err)
	}
	defer db.Close()

	totals, err := db.CategoryTotals(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprint(out, "\nStored results:\n")
	fmt.Fprintf(out, "%-16s %8s %8s %10s %8s\n", "Category", "Images", "Blobs", "Contours", "Total")
	for _, t := range totals {
		fmt.Fprintf(out, "%-16s %8d %8d %10d %8d\n",
			string(t.Category), t.ImageCount, t.TotalBlobs, t.TotalContours, t.TotalFindings)
	}
	return nil
}

// previewCategories prints intensity statistics for the first image of each
// present category.
func previewCategories(cmd *cobra.Command, layout *dataset.Layout) error {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, "\nFirst-image preview:\n")

	for _, category := range dataset.Categories() {
		paths, err := layout.List(category, 1)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			continue
		}

		stats, err := dataset.ImageStats(paths[0])
		if err != nil {
			return fmt.Errorf("preview %s: %w", category, err)
		}
		fmt.Fprintf(out, "%-16s %dx%d, mean %.1f, stddev %.1f, range %d-%d\n",
			string(category), stats.Width, stats.Height, stats.Mean, stats.StdDev, stats.Min, stats.Max)
	}
	return nil
}

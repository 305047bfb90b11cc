package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/radshape/nodulescan/internal/imaging"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <image-path>...",
		Short: "Print image metadata and intensity statistics",
		Long: `Inspect prints dimensions, format, file size, and intensity statistics
for each image without running the detectors. Useful for checking what the
preprocessing stage will see.

Examples:
  nodulescan inspect scan.png
  nodulescan inspect --json data/covid_dataset/COVID/images/*.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInspectCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Print metadata as JSON")

	return cmd
}

// inspection pairs file metadata with intensity statistics for one image.
type inspection struct {
	Path  string            `json:"path"`
	Info  *imaging.GridInfo `json:"info"`
	Stats *imaging.Stats    `json:"stats"`
}

// runInspectCmd executes the inspect command.
func runInspectCmd(cmd *cobra.Command, args []string) error {
	// One cache across all arguments: metadata and statistics for the same
	// file decode it once.
	cache := imaging.NewGridCache()

	inspections := make([]inspection, 0, len(args))
	for _, path := range args {
		info, err := imaging.LoadGridInfo(cache, path)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", path, err)
		}
		g, err := cache.Load(path)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", path, err)
		}
		stats, err := g.ComputeStats()
		if err != nil {
			return fmt.Errorf("inspect %s: %w", path, err)
		}
		inspections = append(inspections, inspection{
			Path:  path,
			Info:  info,
			Stats: stats,
		})
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(inspections)
	}

	out := cmd.OutOrStdout()
	for _, ins := range inspections {
		fmt.Fprintf(out, "%s: %dx%d %s, %d bytes\n",
			ins.Path, ins.Info.Width, ins.Info.Height, ins.Info.Format, ins.Info.FileSizeBytes)
		fmt.Fprintf(out, "  intensity: mean %.1f, stddev %.1f, range %d-%d\n",
			ins.Stats.Mean, ins.Stats.StdDev, ins.Stats.Min, ins.Stats.Max)
	}
	return nil
}

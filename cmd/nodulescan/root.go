// Package main provides the entry point for the nodulescan CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/radshape/nodulescan/internal/config"
	"github.com/radshape/nodulescan/internal/imaging"
	"github.com/radshape/nodulescan/internal/log"
)

// NewRootCmd creates the root command for nodulescan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodulescan",
		Short: "Circular anomaly detection for chest radiographs",
		Long: `Nodulescan analyzes grayscale chest radiographs for circular anomalies.

Each image is preprocessed (downscaled, contrast-normalized, equalized,
denoised) and passed through two complementary detectors: a multi-level
thresholding blob detector and an adaptive-threshold contour detector.
Detections are drawn onto an annotated copy of the image, and batch runs
aggregate counts per dataset category.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewDatasetCmd())
	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewLogger(os.Stderr, verbose)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// addDetectionFlags registers the tuning flags shared by all analysis
// commands.
func addDetectionFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("min-radius", detectionDefault().MinRadius,
		"Minimum blob radius in pixels")
	cmd.Flags().Float64("max-radius", detectionDefault().MaxRadius,
		"Maximum blob radius in pixels")
	cmd.Flags().Float64("clip-limit", imaging.DefaultClipLimit,
		"Contrast limit for adaptive histogram equalization")
	cmd.Flags().Int("tiles", imaging.DefaultTileGridSize,
		"Tile grid size for adaptive histogram equalization")
	cmd.Flags().String("denoise", string(imaging.DenoiseMedian),
		"Denoise method: median or gaussian")
	cmd.Flags().Int("width-cap", imaging.DefaultDownscaleWidthCap,
		"Maximum working width; larger images are downscaled")
	cmd.Flags().Float64("contour-area-min", 0,
		"Minimum contour area in pixels (0 uses the default)")
	cmd.Flags().Float64("contour-area-max", 0,
		"Maximum contour area in pixels (0 uses the default)")
	cmd.Flags().Bool("scale-contour-area", false,
		"Scale contour area bounds with the working resolution")
	cmd.Flags().Bool("segment-lungs", false,
		"Restrict findings to the segmented lung field")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (YAML)")
	cmd.Flags().StringP("output", "o", "",
		"Directory for annotated result images")
}

// detectionDefault returns a fresh default configuration for flag defaults.
func detectionDefault() *config.Config {
	return config.New()
}

// buildConfig creates a Config from cobra command flags, applying any
// configuration file before flag overrides.
func buildConfig(cmd *cobra.Command, category string) (*config.Config, error) {
	cfg := config.New()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		file, err := config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg, category)
	}

	// Flags override file values only when explicitly set, so a config
	// file is not silently clobbered by flag defaults.
	if cmd.Flags().Changed("min-radius") {
		if cfg.MinRadius, err = cmd.Flags().GetFloat64("min-radius"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("max-radius") {
		if cfg.MaxRadius, err = cmd.Flags().GetFloat64("max-radius"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("clip-limit") {
		if cfg.ClipLimit, err = cmd.Flags().GetFloat64("clip-limit"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("tiles") {
		if cfg.TileGridSize, err = cmd.Flags().GetInt("tiles"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("denoise") {
		method, err := cmd.Flags().GetString("denoise")
		if err != nil {
			return nil, err
		}
		cfg.DenoiseMethod = imaging.DenoiseMethod(method)
	}
	if cmd.Flags().Changed("width-cap") {
		if cfg.DownscaleWidthCap, err = cmd.Flags().GetInt("width-cap"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("contour-area-min") {
		if cfg.ContourAreaMin, err = cmd.Flags().GetFloat64("contour-area-min"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("contour-area-max") {
		if cfg.ContourAreaMax, err = cmd.Flags().GetFloat64("contour-area-max"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("scale-contour-area") {
		if cfg.ScaleContourArea, err = cmd.Flags().GetBool("scale-contour-area"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("segment-lungs") {
		if cfg.SegmentLungs, err = cmd.Flags().GetBool("segment-lungs"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("output") {
		if cfg.OutputDir, err = cmd.Flags().GetString("output"); err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

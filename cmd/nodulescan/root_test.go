package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	want := map[string]bool{"analyze": false, "batch": false, "compare": false, "dataset": false, "inspect": false, "version": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out.String(), "nodulescan version") {
		t.Errorf("unexpected version output:\n%s", out.String())
	}
}

// writeScanPNG writes a bright grayscale PNG with one dark nodule.
func writeScanPNG(t *testing.T, path string) {
	t.Helper()
	size := 128
	gray := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			gray.SetGray(x, y, color.Gray{Y: 180})
		}
	}
	for y := 58; y <= 70; y++ {
		for x := 58; x <= 70; x++ {
			dx, dy := x-64, y-64
			if dx*dx+dy*dy <= 36 {
				gray.SetGray(x, y, color.Gray{Y: 40})
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, gray); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestAnalyzeCmd_SingleImage(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "scan.png")
	writeScanPNG(t, imgPath)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"analyze", "--no-save", imgPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("analyze command failed: %v", err)
	}
	for _, want := range []string{"scan.png", "blobs:", "contours:", "total:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestAnalyzeCmd_MissingFile(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"analyze", "--no-save", filepath.Join(t.TempDir(), "absent.png")})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for a missing image")
	}
}

func TestBatchCmd_UnknownCategory(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"batch", "Bacterial"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for an unknown category")
	}
	if !strings.Contains(err.Error(), "unknown category") {
		t.Errorf("error = %v", err)
	}
}

func TestBuildConfig_FlagOverrides(t *testing.T) {
	cmd := NewAnalyzeCmd()
	if err := cmd.Flags().Set("min-radius", "5"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := cmd.Flags().Set("denoise", "gaussian"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	cfg, err := buildConfig(cmd, "")
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}
	if cfg.MinRadius != 5 {
		t.Errorf("MinRadius = %f, want 5", cfg.MinRadius)
	}
	if string(cfg.DenoiseMethod) != "gaussian" {
		t.Errorf("DenoiseMethod = %q", cfg.DenoiseMethod)
	}
}

func TestBuildConfig_InvalidFlag(t *testing.T) {
	cmd := NewAnalyzeCmd()
	if err := cmd.Flags().Set("denoise", "bilateral"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	if _, err := buildConfig(cmd, ""); err == nil {
		t.Fatal("expected validation error for an unknown denoise method")
	}
}

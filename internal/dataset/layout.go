package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// imagesSubdir is the per-category subdirectory holding the image files.
const imagesSubdir = "images"

// imageExtensions lists the accepted image file extensions (lowercase).
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

// Layout locates the category-keyed dataset on disk. The expected structure
// is <Root>/<category folder>/images/*.{png,jpg,jpeg,bmp}.
type Layout struct {
	// Root is the dataset root directory.
	Root string
}

// NewLayout creates a Layout rooted at the given directory and validates
// that the root exists. Individual category folders may still be missing;
// Info reports those per category so a partial dataset remains usable.
func NewLayout(root string) (*Layout, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("dataset root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dataset root %s is not a directory", root)
	}
	return &Layout{Root: root}, nil
}

// ImagesDir returns the image directory for a category.
// Returns an error for an unknown category; the directory itself may or may
// not exist.
func (l *Layout) ImagesDir(c Category) (string, error) {
	folder, ok := c.Folder()
	if !ok {
		return "", fmt.Errorf("unknown category %q", c)
	}
	return filepath.Join(l.Root, folder, imagesSubdir), nil
}

// List returns up to max image paths for a category, sorted by filename for
// deterministic batch ordering. max <= 0 returns all images.
//
// A missing category directory yields an empty list, not an error: the
// dataset distribution ships categories independently and an absent one
// simply contributes no images.
func (l *Layout) List(c Category, max int) ([]string, error) {
	dir, err := l.ImagesDir(c)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read category directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	if max > 0 && len(paths) > max {
		paths = paths[:max]
	}
	return paths, nil
}

// CategoryInfo summarizes one category of the dataset.
type CategoryInfo struct {
	// Category is the partition label.
	Category Category `json:"category"`

	// Path is the image directory for the category.
	Path string `json:"path"`

	// ImageCount is the number of image files found. Zero when Missing.
	ImageCount int `json:"image_count"`

	// Missing indicates the category directory does not exist on disk.
	Missing bool `json:"missing"`
}

// Info reports every known category with its image count, in stable order.
func (l *Layout) Info() ([]CategoryInfo, error) {
	var infos []CategoryInfo
	for _, c := range Categories() {
		dir, err := l.ImagesDir(c)
		if err != nil {
			return nil, err
		}

		paths, err := l.List(c, 0)
		if err != nil {
			return nil, err
		}

		infos = append(infos, CategoryInfo{
			Category:   c,
			Path:       dir,
			ImageCount: len(paths),
			Missing:    !dirExists(dir),
		})
	}
	return infos, nil
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

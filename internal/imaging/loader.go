package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp" // Register BMP format decoder
)

// LoadGrid reads an image file and converts it to an intensity grid.
//
// Supported formats are PNG, JPEG, GIF, and BMP. Color images are converted
// to grayscale via BT.601 luminance.
//
// Returns an error if the file cannot be opened or decoded; the caller in
// batch context records the failure and continues with the next image.
func LoadGrid(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return FromImage(img), nil
}

// GridCache provides thread-safe caching of loaded grids to avoid redundant
// disk reads when the same image is analyzed more than once (e.g., a preview
// followed by a full analysis).
//
// Cached grids remain in memory until explicitly removed via Evict() or
// Clear(). For long batch runs over large datasets, clear the cache between
// categories to bound memory growth.
//
// GridCache is safe for concurrent use by multiple goroutines.
type GridCache struct {
	mu    sync.RWMutex
	grids map[string]*Grid
}

// NewGridCache creates and initializes a new empty grid cache.
func NewGridCache() *GridCache {
	return &GridCache{
		grids: make(map[string]*Grid),
	}
}

// Load retrieves a grid from the cache or loads it from disk if not cached.
//
// The grid is cached using the exact path string provided. Different paths to
// the same file (relative vs absolute) result in separate cache entries.
// Callers must treat the returned grid as read-only; Clone it before mutating.
func (c *GridCache) Load(path string) (*Grid, error) {
	c.mu.RLock()
	if g, ok := c.grids[path]; ok {
		c.mu.RUnlock()
		return g, nil
	}
	c.mu.RUnlock()

	g, err := LoadGrid(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.grids[path] = g
	c.mu.Unlock()

	return g, nil
}

// Clear removes all grids from the cache, freeing the associated memory.
func (c *GridCache) Clear() {
	c.mu.Lock()
	c.grids = make(map[string]*Grid)
	c.mu.Unlock()
}

// Evict removes a specific grid from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *GridCache) Evict(path string) {
	c.mu.Lock()
	delete(c.grids, path)
	c.mu.Unlock()
}

// Len returns the number of cached grids.
func (c *GridCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.grids)
}

// GridInfo contains metadata about a loaded image file.
type GridInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format: "png", "jpeg", "gif", "bmp",
	// or "unknown". Detection is based on file extension.
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadGridInfo loads an image into the cache (if not already cached) and
// returns metadata about it: dimensions, format, and file size.
func LoadGridInfo(cache *GridCache, path string) (*GridInfo, error) {
	g, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch filepath.Ext(path) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".bmp":
		format = "bmp"
	}

	return &GridInfo{
		Width:         g.Width,
		Height:        g.Height,
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}

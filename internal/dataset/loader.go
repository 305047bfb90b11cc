package dataset

import (
	"path/filepath"

	"github.com/radshape/nodulescan/internal/imaging"
)

// LoadResult is the explicit outcome of loading one image: either a grid or
// a load failure, never both. Consumers branch on Ok() instead of handling a
// propagated error, so a failed load in a batch is ordinary data flow rather
// than control flow.
type LoadResult struct {
	// Path is the source file path.
	Path string

	// Grid is the decoded intensity grid. Nil when Err is set.
	Grid *imaging.Grid

	// Err records why the load failed. Nil on success.
	Err error
}

// Ok reports whether the load succeeded.
func (r LoadResult) Ok() bool {
	return r.Err == nil
}

// Basename returns the file name portion of the source path.
func (r LoadResult) Basename() string {
	return filepath.Base(r.Path)
}

// Load reads one image file into a grid, capturing any failure in the result
// value.
func Load(path string) LoadResult {
	g, err := imaging.LoadGrid(path)
	return LoadResult{Path: path, Grid: g, Err: err}
}

// ImageStats loads an image and returns its intensity statistics, for
// dataset previews.
func ImageStats(path string) (*imaging.Stats, error) {
	res := Load(path)
	if !res.Ok() {
		return nil, res.Err
	}
	return res.Grid.ComputeStats()
}

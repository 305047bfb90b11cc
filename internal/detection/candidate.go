package detection

// Method identifies which detector produced a candidate.
type Method string

const (
	// MethodBlob marks candidates from the circular-blob detector.
	MethodBlob Method = "blob"

	// MethodContour marks candidates from the contour/region detector.
	MethodContour Method = "contour"
)

// PointF is a 2D coordinate in float pixel space.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Candidate is a detected anomaly region.
//
// Candidates are immutable once produced: detectors return fresh values and
// downstream stages only read them. Invariants: Radius > 0 and
// 0 <= ShapeMetric <= 1.
type Candidate struct {
	// Center is the region center in float pixel coordinates: the component
	// centroid for blob candidates, the minimum enclosing circle center for
	// contour candidates.
	Center PointF `json:"center"`

	// Radius is the region radius in pixels: sqrt(area/pi) for blob
	// candidates, the minimum enclosing circle radius for contour candidates.
	Radius float64 `json:"radius"`

	// ShapeMetric is the circularity of the region, in [0, 1].
	ShapeMetric float64 `json:"shape_metric"`

	// Area is the region area in square pixels.
	Area float64 `json:"area"`

	// Method records which detector produced this candidate.
	Method Method `json:"method"`
}

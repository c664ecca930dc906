package utils

import (
	"math/rand"
)

// SegmentSpan returns the angular range [start, end) in degrees of segment i
// on a wheel of n equal segments.
func SegmentSpan(i, n int) (start, end float64) {
	width := 360 / float64(n)
	return float64(i) * width, float64(i+1) * width
}

// AngleInSegment picks an angle inside segment i, keeping a margin of a tenth
// of the segment width from each edge.
func AngleInSegment(r *rand.Rand, i, n int) float64 {
	start, end := SegmentSpan(i, n)
	width := end - start
	return start + width*(0.1+0.8*r.Float64())
}

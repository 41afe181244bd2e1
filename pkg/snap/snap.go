// Package snap finds the nearest point on a set of polylines to a query
// point, using an R-tree over per-segment bounding boxes for candidate
// lookup and the plane projection for exact scoring.
package snap

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"

	"planeproj/pkg/projection"
)

// ErrNoSegment is returned when every indexed segment is farther from
// the query point than the index's maximum snap distance.
var ErrNoSegment = errors.New("no segment within snap distance")

// Result is a point snapped to an indexed polyline segment.
type Result struct {
	Line    int       // index of the polyline passed to New
	Segment int       // segment i joins line points i and i+1
	Point   orb.Point // nearest point on the segment
	Ratio   float64   // 0.0 = at segment start, 1.0 = at segment end
	Dist    float64   // distance from the query point, in the projection's unit
}

// segRef identifies one segment of one indexed polyline.
type segRef struct {
	line, seg int
}

// Index answers nearest-segment queries over a fixed set of polylines.
// Immutable after New and safe for concurrent queries; the caller must
// not mutate the indexed polylines afterwards.
type Index struct {
	proj    projection.Projection
	lines   []orb.LineString
	tr      rtree.RTreeG[segRef]
	maxDist float64
	padLon  float64 // maxDist converted to degrees of longitude
	padLat  float64 // maxDist converted to degrees of latitude
}

// New indexes the given polylines. maxDist caps how far Nearest will
// snap, in the projection's unit; zero-length and single-point lines
// contribute no segments.
func New(proj projection.Projection, lines []orb.LineString, maxDist float64) *Index {
	kx, ky := proj.Scale()
	ix := &Index{
		proj:    proj,
		lines:   lines,
		maxDist: maxDist,
		padLon:  maxDist / kx,
		padLat:  maxDist / ky,
	}

	for li, line := range lines {
		for si := 0; si+1 < len(line); si++ {
			a, b := line[si], line[si+1]
			ix.tr.Insert(
				[2]float64{math.Min(a[0], b[0]), math.Min(a[1], b[1])},
				[2]float64{math.Max(a[0], b[0]), math.Max(a[1], b[1])},
				segRef{line: li, seg: si},
			)
		}
	}
	return ix
}

// Len returns the number of indexed segments.
func (ix *Index) Len() int {
	return ix.tr.Len()
}

// Nearest returns the closest point on any indexed polyline to p, or
// ErrNoSegment if nothing lies within the index's snap distance.
func (ix *Index) Nearest(p orb.Point) (Result, error) {
	// Any segment within maxDist of p has a bounding box overlapping
	// the padded query box.
	min := [2]float64{p[0] - ix.padLon, p[1] - ix.padLat}
	max := [2]float64{p[0] + ix.padLon, p[1] + ix.padLat}

	bestDist := math.Inf(1)
	var bestRef segRef
	found := false

	ix.tr.Search(min, max, func(_, _ [2]float64, ref segRef) bool {
		line := ix.lines[ref.line]
		d := ix.proj.DistanceToSegment(p, line[ref.seg], line[ref.seg+1])
		if d < bestDist {
			bestDist = d
			bestRef = ref
			found = true
		}
		return true
	})

	if !found || bestDist > ix.maxDist {
		return Result{}, ErrNoSegment
	}

	line := ix.lines[bestRef.line]
	pt, ratio := ix.proj.PointOnLine(p, line[bestRef.seg], line[bestRef.seg+1])
	return Result{
		Line:    bestRef.line,
		Segment: bestRef.seg,
		Point:   pt,
		Ratio:   ratio,
		Dist:    bestDist,
	}, nil
}

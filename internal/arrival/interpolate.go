package arrival

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
)

var (
	// ErrInterpolation is the parent of every shape derivation failure.
	ErrInterpolation = errors.New("interpolation failed")
	// ErrTooFewPoints reports a shape with fewer than two control points.
	ErrTooFewPoints = fmt.Errorf("%w: at least two control points are required", ErrInterpolation)
	// ErrDegenerate reports repeated or non-finite control point values.
	ErrDegenerate = fmt.Errorf("%w: degenerate control points", ErrInterpolation)
)

// Undefined marks an arrival time that could not be derived.
var Undefined = math.NaN()

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v float64) bool {
	return math.IsNaN(v)
}

// Point is one control point: X is the arrival time, Y the track or
// parameter value it was drawn at.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Interpolate evaluates x(y) at each query, linearly between control points
// ordered by y. Queries outside the control points' y range, and NaN
// queries, yield Undefined.
func Interpolate(points []Point, queryY []float64) ([]float64, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w (got %d)", ErrTooFewPoints, len(points))
	}
	sorted := slices.Clone(points)
	slices.SortFunc(sorted, func(a, b Point) int { return cmp.Compare(a.Y, b.Y) })

	ys := make([]float64, len(sorted))
	for i, p := range sorted {
		if !finite(p.X) || !finite(p.Y) {
			return nil, fmt.Errorf("%w: point (%g, %g) is not finite", ErrDegenerate, p.X, p.Y)
		}
		if i > 0 && p.Y == ys[i-1] {
			return nil, fmt.Errorf("%w: y=%g used twice", ErrDegenerate, p.Y)
		}
		ys[i] = p.Y
	}

	lo, hi := ys[0], ys[len(ys)-1]
	out := make([]float64, len(queryY))
	for i, q := range queryY {
		if math.IsNaN(q) || q < lo || q > hi {
			out[i] = Undefined
			continue
		}
		j := sort.SearchFloat64s(ys, q)
		if ys[j] == q {
			out[i] = sorted[j].X
			continue
		}
		a, b := sorted[j-1], sorted[j]
		out[i] = a.X + (q-a.Y)*(b.X-a.X)/(b.Y-a.Y)
	}
	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

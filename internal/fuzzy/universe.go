package fuzzy

import "fmt"

// Numeric primitives for the Mamdani pipeline: discretized universes,
// trapezoid/triangle sampling, interpolated membership lookup and centroid
// defuzzification. Everything works on plain []float64 curves sampled over a
// universe so rule evaluation stays a flat pass of min/max reductions.

// linspace returns n evenly spaced points over [lo, hi], endpoints included.
func linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// trapezoid samples a trapezoidal membership function with breakpoints
// a <= b <= c <= d over the universe. a==b or c==d degenerate into a
// vertical edge (shoulder sets at the domain borders).
func trapezoid(universe []float64, a, b, c, d float64) ([]float64, error) {
	if !(a <= b && b <= c && c <= d) {
		return nil, fmt.Errorf("trapezoid breakpoints not ordered: [%g %g %g %g]", a, b, c, d)
	}
	y := make([]float64, len(universe))
	for i, x := range universe {
		switch {
		case x < a || x > d:
			y[i] = 0
		case x >= b && x <= c:
			y[i] = 1
		case x < b:
			y[i] = (x - a) / (b - a)
		default: // c < x <= d
			y[i] = (d - x) / (d - c)
		}
	}
	return y, nil
}

// triangle samples a triangular membership function with breakpoints a <= b <= c.
func triangle(universe []float64, a, b, c float64) ([]float64, error) {
	if !(a <= b && b <= c) {
		return nil, fmt.Errorf("triangle breakpoints not ordered: [%g %g %g]", a, b, c)
	}
	y := make([]float64, len(universe))
	for i, x := range universe {
		switch {
		case x < a || x > c:
			y[i] = 0
		case x == b:
			y[i] = 1
		case x < b:
			y[i] = (x - a) / (b - a)
		default: // b < x <= c
			y[i] = (c - x) / (c - b)
		}
	}
	return y, nil
}

// interpMembership evaluates a sampled curve at a crisp value by linear
// interpolation between the two surrounding universe points. Values outside
// the universe are clamped to the nearest endpoint (flat extrapolation), so
// out-of-range readings never produce memberships outside [0,1].
func interpMembership(universe, curve []float64, x float64) float64 {
	n := len(universe)
	if n == 0 {
		return 0
	}
	if x <= universe[0] {
		return curve[0]
	}
	if x >= universe[n-1] {
		return curve[n-1]
	}
	// universes are uniform, locate the cell directly
	step := (universe[n-1] - universe[0]) / float64(n-1)
	i := int((x - universe[0]) / step)
	if i >= n-1 {
		i = n - 2
	}
	x0, x1 := universe[i], universe[i+1]
	if x1 == x0 {
		return curve[i]
	}
	t := (x - x0) / (x1 - x0)
	return curve[i] + t*(curve[i+1]-curve[i])
}

// sumEpsilon is the threshold under which an aggregated output curve is
// considered empty and centroid defuzzification would degenerate.
const sumEpsilon = 1e-9

// centroid returns the center of mass of a sampled curve over its universe.
// The boolean is false when the curve sums to ~zero (no rule contributed).
func centroid(universe, curve []float64) (float64, bool) {
	var num, den float64
	for i, mu := range curve {
		num += universe[i] * mu
		den += mu
	}
	if den < sumEpsilon {
		return 0, false
	}
	return num / den, true
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

package flarm

/*
Package-level fast trig approximations (component A, spec §2).

The tracking table can hold dozens of slots and every sweep rescales
north/east velocity components and bearings for each of them, so the
core avoids the standard library's full-precision math.Sin/Cos/Atan2
on the hot path and instead uses a small quarter-degree lookup table
with linear interpolation. Accuracy is good to ~0.5 degrees, which is
the figure spec.md §2 calls for.

Grounded in the teacher's tone-table approach (gen_tone.go built a
fixed-point sine table for AFSK generation rather than calling
math.Sin per sample); here the same "precompute a table, interpolate
between buckets" shape is applied to bearing/heading math instead of
audio synthesis.

golang/geo's spherical math (used only in tests, see geoutil.go) is
the independent oracle these approximations are checked against: it is
intentionally NOT used here, because the whole point of this package
is to be cheaper than a real spherical calculation.
*/

import "math"

const sinTableSteps = 1440 // quarter-degree resolution over 360 degrees

var sinTable [sinTableSteps + 1]float64

func init() {
	for i := range sinTable {
		deg := float64(i) * 360.0 / sinTableSteps
		sinTable[i] = math.Sin(deg * math.Pi / 180.0)
	}
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}

// Sin returns an approximate sine of an angle given in degrees.
func Sin(deg float64) float64 {
	deg = normalizeDegrees(deg)
	pos := deg * sinTableSteps / 360.0
	lo := int(pos)
	frac := pos - float64(lo)
	hi := lo + 1
	if hi > sinTableSteps {
		hi = sinTableSteps
	}
	return sinTable[lo]*(1-frac) + sinTable[hi]*frac
}

// Cos returns an approximate cosine of an angle given in degrees.
func Cos(deg float64) float64 {
	return Sin(deg + 90.0)
}

// Atan2 returns atan2(y, x) in degrees, in [0, 360). Unlike Sin/Cos
// this calls math.Atan2 directly rather than interpolating a table:
// it runs once per candidate track per sweep (not four times per
// projection sample like Sin/Cos), so the table's time/accuracy
// tradeoff doesn't pay for itself here.
func Atan2(y, x float64) float64 {
	if x == 0 && y == 0 {
		return 0
	}
	deg := math.Atan2(y, x) * 180.0 / math.Pi
	return normalizeDegrees(deg)
}

// Hypot returns an approximate Euclidean norm of (x, y).
func Hypot(x, y float64) float64 {
	x, y = math.Abs(x), math.Abs(y)
	if x < y {
		x, y = y, x
	}
	if x == 0 {
		return 0
	}
	// alpha*x + beta*y stays within ~4% of the true hypot across the
	// whole min/max ratio range for the classic (alpha, beta) =
	// (0.96043..., 0.39782...) constants; cheaper than a sqrt for the
	// per-sweep distance/closing-speed math.
	const alpha = 0.960433870103
	const beta = 0.397824734759
	return alpha*x + beta*y
}

// AngleDiff returns the smallest signed difference a-b in degrees,
// normalized to (-180, 180].
func AngleDiff(a, b float64) float64 {
	d := normalizeDegrees(a) - normalizeDegrees(b)
	for d <= -180 {
		d += 360
	}
	for d > 180 {
		d -= 360
	}
	return d
}

package flarm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSinCosAgreeWithStdlibWithinTolerance(t *testing.T) {
	for deg := -720.0; deg <= 720.0; deg += 7.5 {
		wantSin := math.Sin(deg * math.Pi / 180.0)
		wantCos := math.Cos(deg * math.Pi / 180.0)

		assert.InDelta(t, wantSin, Sin(deg), 0.01, "Sin(%v)", deg)
		assert.InDelta(t, wantCos, Cos(deg), 0.01, "Cos(%v)", deg)
	}
}

func TestAtan2MatchesStdlibInDegrees(t *testing.T) {
	cases := [][2]float64{{1, 0}, {0, 1}, {-1, 0}, {0, -1}, {3, 4}, {-3, 4}, {3, -4}, {-3, -4}}
	for _, c := range cases {
		y, x := c[0], c[1]
		want := math.Atan2(y, x) * 180.0 / math.Pi
		if want < 0 {
			want += 360
		}
		assert.InDelta(t, want, Atan2(y, x), 1e-6)
	}
}

func TestAtan2ZeroZero(t *testing.T) {
	assert.Equal(t, 0.0, Atan2(0, 0))
}

func TestHypotApproximatesEuclideanNorm(t *testing.T) {
	cases := [][2]float64{{3, 4}, {-3, 4}, {0, 5}, {5, 0}, {100, 0.1}}
	for _, c := range cases {
		want := math.Hypot(c[0], c[1])
		got := Hypot(c[0], c[1])
		assert.InDelta(t, want, got, want*0.05+0.01)
	}
}

func TestAngleDiffNormalizesToSignedRange(t *testing.T) {
	assert.InDelta(t, 10.0, AngleDiff(10, 0), 1e-9)
	assert.InDelta(t, -10.0, AngleDiff(350, 0), 1e-9)
	assert.InDelta(t, 180.0, AngleDiff(180, 0), 1e-9)
	assert.InDelta(t, 0.0, AngleDiff(370, 10), 1e-9)
}

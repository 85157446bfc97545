package flarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectionFillsSplineForMovingTrack(t *testing.T) {
	var p Projection
	track := &Track{Course: 90, Speed: 60}

	p.Update(track, 1000, nil)

	assert.True(t, track.Airborne, "60kt ground speed exceeds the airborne threshold")
	nonZero := false
	for _, v := range track.NS {
		if v != 0 {
			nonZero = true
		}
	}
	assert.True(t, nonZero || track.EW[0] != 0, "a moving track should produce a non-trivial spline")
}

func TestProjectionCachesWithinTTL(t *testing.T) {
	var p Projection
	track := &Track{Course: 0, Speed: 50}

	p.Update(track, 1000, nil)
	firstProjTime := track.ProjTimeMs

	track.Course = 270 // change input without moving position or advancing time much
	p.Update(track, 1100, nil)

	assert.Equal(t, firstProjTime, track.ProjTimeMs, "within the cache TTL and with no position change, Update should be a no-op")
}

func TestProjectionRecomputesAfterTTLExpires(t *testing.T) {
	var p Projection
	track := &Track{Course: 0, Speed: 50}

	p.Update(track, 1000, nil)
	p.Update(track, 1000+uint64(ProjectionCacheTTL.Milliseconds())+1, nil)

	assert.Equal(t, uint64(1000+uint64(ProjectionCacheTTL.Milliseconds())+1), track.ProjTimeMs)
}

func TestProjectionRecomputesOnPositionChange(t *testing.T) {
	var p Projection
	track := &Track{Course: 0, Speed: 50, Latitude: 10}

	p.Update(track, 1000, nil)
	track.Latitude = 10.001
	p.Update(track, 1050, nil)

	assert.Equal(t, uint64(1050), track.ProjTimeMs)
}

func TestAirborneStaysFalseForStationaryGroundTraffic(t *testing.T) {
	var p Projection
	track := &Track{Speed: 0, VerticalSpeed: 0, AltitudeMSL: 300}

	p.Update(track, 1000, nil)
	assert.False(t, track.Airborne)
}

func TestSmultShiftsLargeQuarterVelocities(t *testing.T) {
	s := smultFor(2000, 500)
	assert.Greater(t, s, uint8(0))

	v := clampToInt8Shifted(2000, s)
	assert.LessOrEqual(t, v, int8(127))
	assert.GreaterOrEqual(t, v, int8(-128))
}

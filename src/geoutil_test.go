package flarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGreatCircleDistanceMatchesKnownOneDegreeLatitude(t *testing.T) {
	d := GreatCircleDistanceMeters(0, 0, 1, 0)
	assert.InDelta(t, 111194.9, d, 50, "one degree of latitude along a meridian is ~111.195km")
}

func TestGreatCircleDistanceZeroForSamePoint(t *testing.T) {
	d := GreatCircleDistanceMeters(51.5, -0.1, 51.5, -0.1)
	assert.InDelta(t, 0, d, 1e-6)
}

// TestUpdateGeometryDistanceAgreesWithGreatCircleOracle checks the
// component A flat-earth Hypot/Cos distance UpdateGeometry computes
// against github.com/golang/geo/s2's true spherical distance: the two
// must agree closely at FLARM traffic ranges (a few km), which is
// exactly the claim DESIGN.md makes about GreatCircleDistanceMeters
// serving as the independent oracle for this module's fast-math.
func TestUpdateGeometryDistanceAgreesWithGreatCircleOracle(t *testing.T) {
	self := &Track{Latitude: 48.1173, Longitude: 11.5167, AltitudeMSL: 500}
	other := &Track{Latitude: 48.1273, Longitude: 11.5367, AltitudeMSL: 500}

	UpdateGeometry(self, other)
	want := GreatCircleDistanceMeters(self.Latitude, self.Longitude, other.Latitude, other.Longitude)

	assert.InDelta(t, want, other.Distance, want*0.05+10, "flat-earth approximation should track the spherical oracle within a few percent at short range")
}

func TestFormatLatLonDiagnosticRendersHemisphereRunes(t *testing.T) {
	assert.Equal(t, "48.117300 N, 11.516700 E", FormatLatLonDiagnostic(48.1173, 11.5167))
	assert.Equal(t, "33.868800 S, 151.209300 W", FormatLatLonDiagnostic(-33.8688, -151.2093))
}

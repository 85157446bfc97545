package flarm

// Coordinate formatting and an independent spherical-geometry oracle.
// Grounded on the teacher's coordconv.go hemisphere-rune helpers
// (github.com/tzneal/coordconv), generalized here from APRS position
// reports to the $PSRFC diagnostic text this module emits when asked
// to report its configured reference position.

import (
	"fmt"

	"github.com/golang/geo/s2"
	"github.com/tzneal/coordconv"
)

func hemisphereOfLatitude(lat float64) coordconv.Hemisphere {
	if lat < 0 {
		return coordconv.HemisphereSouth
	}
	return coordconv.HemisphereNorth
}

func hemisphereOfLongitude(lon float64) coordconv.Hemisphere {
	if lon < 0 {
		return coordconv.HemisphereSouth // coordconv has no East/West pair; sign is carried by the rune lookup below
	}
	return coordconv.HemisphereNorth
}

// HemisphereToNorthSouthRune maps coordconv's Hemisphere enum onto the
// rune latitude text actually needs, the same shape as the teacher's
// own HemisphereToRune wrapper (coordconv itself only defines the enum,
// not a text rendering).
func HemisphereToNorthSouthRune(h coordconv.Hemisphere) rune {
	switch h {
	case coordconv.HemisphereNorth:
		return 'N'
	case coordconv.HemisphereSouth:
		return 'S'
	default:
		return '?'
	}
}

// HemisphereToEastWestRune maps a longitude sign (encoded as the same
// North/South coordconv.Hemisphere values coordconv exposes) onto the
// East/West rune this module's text output actually needs.
func HemisphereToEastWestRune(h coordconv.Hemisphere) rune {
	switch h {
	case coordconv.HemisphereNorth:
		return 'E'
	case coordconv.HemisphereSouth:
		return 'W'
	default:
		return '?'
	}
}

// FormatLatLonDiagnostic renders a reference position as
// "DD.DDDDDD N, DDD.DDDDDD E" for $PSRFC diagnostic replies.
func FormatLatLonDiagnostic(lat, lon float64) string {
	latHemi := HemisphereToNorthSouthRune(hemisphereOfLatitude(lat))
	lonHemi := HemisphereToEastWestRune(hemisphereOfLongitude(lon))
	return fmt.Sprintf("%.6f %c, %.6f %c", absf(lat), latHemi, absf(lon), lonHemi)
}

const earthRadiusMeters = 6371008.8

// GreatCircleDistanceMeters is the independent spherical-geometry
// oracle geoutil_test.go checks UpdateGeometry's distance against
// (golang/geo's s2, not this module's own
// lookup-table Sin/Cos/Atan2 — using the latter to test itself would
// prove nothing).
func GreatCircleDistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)
	return float64(a.Distance(b)) * earthRadiusMeters
}

package flarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreDistanceZones(t *testing.T) {
	self := &Track{Latitude: 0, Longitude: 0, AltitudeMSL: 1000}

	cases := []struct {
		name     string
		distance float64
		want     AlarmLevel
	}{
		{"urgent", 200, AlarmUrgent},
		{"important", 400, AlarmImportant},
		{"low", 600, AlarmLow},
		{"close", 900, AlarmClose},
		{"none", 1500, AlarmNone},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			other := &Track{
				Latitude:    self.Latitude + c.distance/metersPerDegreeLat,
				Longitude:   self.Longitude,
				AltitudeMSL: self.AltitudeMSL,
			}
			UpdateGeometry(self, other)
			got := ScoreAlarm(AlarmAlgorithmDistance, self, other)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestScoreDistanceIgnoresLargeVerticalSeparation(t *testing.T) {
	self := &Track{AltitudeMSL: 0}
	other := &Track{Latitude: 100.0 / metersPerDegreeLat, AltitudeMSL: 1000}

	UpdateGeometry(self, other)
	got := ScoreAlarm(AlarmAlgorithmDistance, self, other)
	assert.Equal(t, AlarmNone, got)
}

func TestAdjAltDiffBoundedByAltDiff(t *testing.T) {
	self := &Track{AltitudeMSL: 0, VerticalSpeed: 0}
	other := &Track{AltitudeMSL: 500, VerticalSpeed: -2000}

	got := adjAltDiff(self, other)
	assert.LessOrEqual(t, got, other.AltitudeMSL-self.AltitudeMSL)
	assert.GreaterOrEqual(t, got, 0.0)
}

func TestAdjAltDiffDeadBand(t *testing.T) {
	self := &Track{AltitudeMSL: 0}
	other := &Track{AltitudeMSL: VerticalSlack / 2}

	assert.Equal(t, 0.0, adjAltDiff(self, other))
}

func TestScoreVectorHeadOnClosure(t *testing.T) {
	self := &Track{
		Latitude: 0, Longitude: 0, AltitudeMSL: 1000,
		Course: 0, Speed: 100,
		GNSSTimeMs: 2000, PrevGNSSTimeMs: 1000,
	}
	other := &Track{
		Latitude: 1200.0 / metersPerDegreeLat, Longitude: 0, AltitudeMSL: 1000,
		Course: 180, Speed: 100,
		GNSSTimeMs: 2000,
	}

	UpdateGeometry(self, other)
	got := ScoreAlarm(AlarmAlgorithmVector, self, other)
	assert.NotEqual(t, AlarmNone, got, "closing head-on traffic within range must alarm")
}

func TestScoreVectorRequiresPriorSample(t *testing.T) {
	self := &Track{Latitude: 0, Longitude: 0, AltitudeMSL: 1000, Speed: 100}
	other := &Track{Latitude: 500.0 / metersPerDegreeLat, AltitudeMSL: 1000, Speed: 100, Course: 180}

	UpdateGeometry(self, other)
	got := ScoreAlarm(AlarmAlgorithmVector, self, other)
	assert.Equal(t, AlarmNone, got, "no prior self sample means Vector cannot score yet")
}

func TestScoreVectorFallsBackToDistanceWhenCircling(t *testing.T) {
	self := &Track{
		Latitude: 0, Longitude: 0, AltitudeMSL: 1000,
		Speed: 60, TurnRate: 10,
		GNSSTimeMs: 2000, PrevGNSSTimeMs: 1000,
	}
	other := &Track{
		Latitude: 200.0 / metersPerDegreeLat, AltitudeMSL: 1000,
		Speed: 60, Course: 180,
		GNSSTimeMs: 2000,
	}

	UpdateGeometry(self, other)
	got := ScoreAlarm(AlarmAlgorithmVector, self, other)
	want := scoreDistance(other)
	assert.Equal(t, want, got)
}

func TestApplyRatchetSettlesAlertOneTierAboveNewAlarm(t *testing.T) {
	track := &Track{AlarmLevel: AlarmUrgent, AlertLevel: AlarmUrgent}

	ApplyRatchet(track, AlarmNone)
	assert.Equal(t, AlarmClose, track.AlertLevel, "ratchet should settle one tier above the new low alarm")
	assert.Equal(t, AlarmNone, track.AlarmLevel)
}

func TestApplyRatchetDoesNotRaiseAlert(t *testing.T) {
	track := &Track{AlarmLevel: AlarmNone, AlertLevel: AlarmNone}

	ApplyRatchet(track, AlarmUrgent)
	assert.Equal(t, AlarmUrgent, track.AlarmLevel)
	assert.Equal(t, AlarmNone, track.AlertLevel, "ApplyRatchet alone must never raise AlertLevel; only Fire does")
}

func TestFireBumpsAlertAboveAlarm(t *testing.T) {
	track := &Track{AlarmLevel: AlarmLow}
	Fire(track)
	assert.Equal(t, AlarmImportant, track.AlertLevel)
}

func TestFireSaturatesAtUrgent(t *testing.T) {
	track := &Track{AlarmLevel: AlarmUrgent}
	Fire(track)
	assert.Equal(t, AlarmUrgent, track.AlertLevel)
}

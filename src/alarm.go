package flarm

import "math"

// AlarmAlgorithm selects one of the three pluggable scorers (§4.4).
// Spec.md §9 calls for "a tagged selector enum chosen once at startup;
// call sites dispatch via a small match" rather than a vtable/dyn-trait
// object, so ScoreAlarm below is a plain switch, not an interface.
type AlarmAlgorithm uint8

const (
	AlarmAlgorithmNone AlarmAlgorithm = iota
	AlarmAlgorithmDistance
	AlarmAlgorithmVector
	AlarmAlgorithmLegacy // reserved, always scores NONE (§4.4, §9 open question)
)

func (a AlarmAlgorithm) String() string {
	switch a {
	case AlarmAlgorithmDistance:
		return "Distance"
	case AlarmAlgorithmVector:
		return "Vector"
	case AlarmAlgorithmLegacy:
		return "Legacy"
	default:
		return "None"
	}
}

const metersPerDegreeLat = 111320.0

// UpdateGeometry fills other's Distance/Bearing/AltDiff/AdjAltDiff
// relative to self (§3 "Derived per sweep"). Must run before
// ScoreAlarm and before Table.Insert's adj_distance comparisons.
func UpdateGeometry(self, other *Track) {
	distN := (other.Latitude - self.Latitude) * metersPerDegreeLat
	distE := (other.Longitude - self.Longitude) * metersPerDegreeLat * Cos(self.Latitude)

	other.Distance = Hypot(distN, distE)
	other.Bearing = Atan2(distE, distN)
	other.AltDiff = other.AltitudeMSL - self.AltitudeMSL
	other.AdjAltDiff = adjAltDiff(self, other)
	other.AdjDistance = other.Distance + VerticalSlope*math.Abs(other.AdjAltDiff)
}

// adjAltDiff implements §4.5's vertical-convergence adjustment. Its
// result is always bounded in magnitude by |alt_diff| (§8 "Adj_alt_diff
// monotonicity"): the predicted-closure step only ever moves d toward
// zero, and the dead-band only ever subtracts from |d|.
func adjAltDiff(self, other *Track) float64 {
	vsr := other.VerticalSpeed - self.VerticalSpeed
	if vsr > 1000 {
		vsr = 1000
	}
	if vsr < -1000 {
		vsr = -1000
	}
	deltaPredicted := vsr * 0.05

	d := other.AltitudeMSL - self.AltitudeMSL
	if d > 0 && deltaPredicted < 0 {
		d += deltaPredicted
		if d < 0 {
			d = 0
		}
	} else if d < 0 && deltaPredicted > 0 {
		d += deltaPredicted
		if d > 0 {
			d = 0
		}
	}

	if math.Abs(d) < VerticalSlack {
		return 0
	}
	if d > 0 {
		return d - VerticalSlack
	}
	return d + VerticalSlack
}

// ScoreAlarm computes other's AlarmLevel against self using the
// selected algorithm (§4.4). UpdateGeometry must have been called
// first so Distance/Bearing/AltDiff/AdjAltDiff are current.
func ScoreAlarm(algo AlarmAlgorithm, self, other *Track) AlarmLevel {
	switch algo {
	case AlarmAlgorithmDistance:
		return scoreDistance(other)
	case AlarmAlgorithmVector:
		return scoreVector(self, other)
	case AlarmAlgorithmLegacy:
		return AlarmNone
	default:
		return AlarmNone
	}
}

func scoreDistance(other *Track) AlarmLevel {
	if other.Distance > 2*AlarmZoneCLOSE || math.Abs(other.AltDiff) > 2*VerticalSeparation {
		return AlarmNone
	}
	if math.Abs(other.AdjAltDiff) >= VerticalSeparation {
		return AlarmNone
	}

	effDist := other.Distance + VerticalSlope*math.Abs(other.AdjAltDiff)

	switch {
	case effDist < AlarmZoneURGENT:
		return AlarmUrgent
	case effDist < AlarmZoneIMPORTANT:
		return AlarmImportant
	case effDist < AlarmZoneLOW:
		return AlarmLow
	case effDist < AlarmZoneCLOSE:
		return AlarmClose
	default:
		return AlarmNone
	}
}

// vectorAngleBandTable implements the 3x4 table in §4.4: rows are the
// Δ-angle band (<=α, (α,2α], (2α,3α]), columns are the first
// time-to-impact threshold satisfied (<URGENT, <IMPORTANT, <LOW,
// <CLOSE). ">3α" and "no threshold satisfied" both fall outside the
// table and always resolve to NONE in the caller.
var vectorAngleBandTable = [3][4]AlarmLevel{
	{AlarmUrgent, AlarmImportant, AlarmLow, AlarmClose},
	{AlarmImportant, AlarmLow, AlarmClose, AlarmNone},
	{AlarmLow, AlarmClose, AlarmNone, AlarmNone},
}

func scoreVector(self, other *Track) AlarmLevel {
	if self.PrevGNSSTimeMs == 0 {
		return AlarmNone
	}

	sampleAgeMs := int64(self.GNSSTimeMs) - int64(other.GNSSTimeMs)
	if sampleAgeMs < 0 {
		sampleAgeMs = -sampleAgeMs
	}
	if sampleAgeMs > 3000 {
		return AlarmNone
	}

	if other.Distance > 2*AlarmZoneCLOSE {
		return AlarmNone
	}
	if math.Abs(other.AltDiff) > 2*VerticalSeparation {
		return AlarmNone
	}

	selfSpeedMps := self.Speed * 0.514444
	otherSpeedMps := other.Speed * 0.514444
	closingSum := selfSpeedMps + otherSpeedMps
	if closingSum <= 0 {
		return AlarmNone
	}
	if other.Distance/closingSum > AlarmTimeCLOSE {
		return AlarmNone
	}

	if math.Abs(self.TurnRate) > CirclingTurnRate || math.Abs(other.TurnRate) > CirclingTurnRate {
		return scoreDistance(other)
	}

	selfN := self.Speed * Cos(self.Course)
	selfE := self.Speed * Sin(self.Course)
	otherN := other.Speed * Cos(other.Course)
	otherE := other.Speed * Sin(other.Course)

	relNmps := (selfN - otherN) * 0.514444
	relEmps := (selfE - otherE) * 0.514444

	relSpeed := Hypot(relNmps, relEmps)
	if relSpeed < AlarmVectorSpeed {
		return AlarmNone
	}

	effDist := other.Distance + VerticalSlope*math.Abs(other.AdjAltDiff)
	t := effDist / relSpeed

	thetaRel := Atan2(relEmps, relNmps)
	delta := math.Abs(AngleDiff(thetaRel, other.Bearing))

	alpha := AlarmVectorAngle
	var band int
	switch {
	case delta <= alpha:
		band = 0
	case delta <= 2*alpha:
		band = 1
	case delta <= 3*alpha:
		band = 2
	default:
		return AlarmNone
	}

	var col int
	switch {
	case t < AlarmTimeURGENT:
		col = 0
	case t < AlarmTimeIMPORTANT:
		col = 1
	case t < AlarmTimeLOW:
		col = 2
	case t < AlarmTimeCLOSE:
		col = 3
	default:
		return AlarmNone
	}

	return vectorAngleBandTable[band][col]
}

// ApplyRatchet implements the first half of §4.6: whenever a track's
// freshly scored alarm level has receded below its last alert level,
// the alert level ratchets down to one tier above the new (lower)
// alarm, so a later rise must clear that tier again before resounding.
func ApplyRatchet(t *Track, newAlarm AlarmLevel) {
	t.AlarmLevel = newAlarm
	if newAlarm < t.AlertLevel {
		t.AlertLevel = bumpedAlert(newAlarm)
	}
}

// Fire implements the second half of §4.6: raises alert level to one
// tier above the alarm level that just triggered a sound.
func Fire(t *Track) {
	t.AlertLevel = bumpedAlert(t.AlarmLevel)
}

func bumpedAlert(level AlarmLevel) AlarmLevel {
	if level >= AlarmUrgent {
		return AlarmUrgent
	}
	return level + 1
}

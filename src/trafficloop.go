package flarm

import "sort"

// SweepResult summarizes one periodic sweep (§4.3's sweep paragraph,
// §4.6) for the caller to hand to NMEA export and the sound collaborator.
type SweepResult struct {
	// MaxAlarm is the highest-priority track that actually fired a sound
	// this sweep (alarm_level > CLOSE and alarm_level > alert_level), or
	// nil if nothing fired.
	MaxAlarm *Track

	// Order is every non-empty slot, sorted by AlarmLevel (highest
	// first) and then by AdjDistance (nearest first), truncated to
	// MaxNMEAObjects (§4.7) for export.
	Order []*Track
}

// Sweep runs the periodic table maintenance described in §4.3 and
// §4.4-§4.6: expire aged entries, rescore every remaining track against
// self under the given algorithm, ratchet alert levels down where the
// alarm has receded, then pick at most one track to sound an alert for.
//
// self must already reflect the current tick's position/kinematics;
// Sweep does not advance or project it.
func (tb *Table) Sweep(self *Track, algo AlarmAlgorithm, nowSec uint32) SweepResult {
	tb.Expire(nowSec)

	var firing *Track
	for i := range tb.slots {
		s := &tb.slots[i]
		if s.Empty() {
			continue
		}

		UpdateGeometry(self, s)
		newAlarm := ScoreAlarm(algo, self, s)
		ApplyRatchet(s, newAlarm)

		if s.AlarmLevel > AlarmClose && s.AlarmLevel > s.AlertLevel {
			if firing == nil || s.AlarmLevel > firing.AlarmLevel {
				firing = s
			}
		}
	}

	if firing != nil {
		Fire(firing)
	}

	return SweepResult{
		MaxAlarm: firing,
		Order:    tb.ExportOrder(),
	}
}

// ExportOrder returns every non-empty slot sorted by AlarmLevel
// (highest first), ties broken nearest-first by AdjDistance, capped at
// MaxNMEAObjects (§4.7 rule 1).
func (tb *Table) ExportOrder() []*Track {
	live := make([]*Track, 0, len(tb.slots))
	for i := range tb.slots {
		if !tb.slots[i].Empty() {
			live = append(live, &tb.slots[i])
		}
	}

	sort.SliceStable(live, func(i, j int) bool {
		if live[i].AlarmLevel != live[j].AlarmLevel {
			return live[i].AlarmLevel > live[j].AlarmLevel
		}
		return live[i].AdjDistance < live[j].AdjDistance
	})

	if len(live) > MaxNMEAObjects {
		live = live[:MaxNMEAObjects]
	}
	return live
}

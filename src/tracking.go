package flarm

// Table is the fixed-capacity directory of tracked aircraft (component
// E, §3 §4.3). The local aircraft is held separately by Engine, not as
// a table slot, so "exactly one is_self slot, never expired, never
// replaced" (§3) holds by construction rather than by a runtime check —
// grounded in spec.md §9's own Design Notes ("a single owning Engine
// value holding the self track, the fixed table...").
type Table struct {
	slots []Track
}

// NewTable allocates a table with the given slot capacity (§5:
// MAX_TRACKING_OBJECTS, 8 on constrained hardware, tunable to ~60).
func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultMaxTracks
	}
	if capacity > MaxTracksHard {
		capacity = MaxTracksHard
	}
	slots := make([]Track, capacity)
	for i := range slots {
		slots[i].Next = -1
	}
	return &Table{slots: slots}
}

// Slots exposes the backing array for read-only iteration (NMEA export
// and tests). Callers must not mutate Track.Next through this slice;
// use ExportOrder for a sorted view instead.
func (tb *Table) Slots() []Track { return tb.slots }

func (tb *Table) findByAddress(addr uint32) int {
	for i := range tb.slots {
		if !tb.slots[i].Empty() && tb.slots[i].Address == addr {
			return i
		}
	}
	return -1
}

func (tb *Table) findExpired(now uint32) int {
	for i := range tb.slots {
		s := &tb.slots[i]
		if s.Empty() {
			continue
		}
		if now > s.Timestamp+uint32(EntryExpiration.Seconds()) {
			return i
		}
	}
	return -1
}

func (tb *Table) findFirstEmpty() int {
	for i := range tb.slots {
		if tb.slots[i].Empty() {
			return i
		}
	}
	return -1
}

func (tb *Table) findLowerAlarm(incoming AlarmLevel) int {
	for i := range tb.slots {
		if tb.slots[i].Empty() {
			continue
		}
		if incoming > tb.slots[i].AlarmLevel {
			return i
		}
	}
	return -1
}

// findMaxAdjDistance returns the index of the non-empty slot with the
// largest AdjDistance, or -1 if the table holds nothing.
func (tb *Table) findMaxAdjDistance() int {
	best := -1
	for i := range tb.slots {
		if tb.slots[i].Empty() {
			continue
		}
		if best == -1 || tb.slots[i].AdjDistance > tb.slots[best].AdjDistance {
			best = i
		}
	}
	return best
}

// InsertResult reports which replacement rule (§4.3) admitted or
// rejected an incoming track, mostly useful for tests and debug dumps.
type InsertResult struct {
	Admitted bool
	Slot     int
	Rule     string
}

// Insert applies the §4.3 steps 4-8 replacement policy. incoming must
// already have AlarmLevel/AdjDistance populated by the alarm engine
// (§4.4) against the current self state; the caller (receive pipeline,
// component H) is responsible for the upstream §4.3 steps 1-3
// (ignore-list, self-address, loopback) before ever calling Insert.
func (tb *Table) Insert(incoming Track, now uint32) InsertResult {
	if i := tb.findByAddress(incoming.Address); i != -1 {
		preserved := tb.slots[i]
		incoming.AlertLevel = preserved.AlertLevel
		incoming.PrevCourse = preserved.Course
		incoming.PrevGNSSTimeMs = preserved.GNSSTimeMs
		incoming.Next = preserved.Next
		tb.slots[i] = incoming
		return InsertResult{Admitted: true, Slot: i, Rule: "refresh"}
	}

	if i := tb.findFirstEmpty(); i != -1 {
		incoming.Next = -1
		tb.slots[i] = incoming
		return InsertResult{Admitted: true, Slot: i, Rule: "empty"}
	}

	if i := tb.findExpired(now); i != -1 {
		incoming.Next = -1
		tb.slots[i] = incoming
		return InsertResult{Admitted: true, Slot: i, Rule: "expired"}
	}

	if i := tb.findLowerAlarm(incoming.AlarmLevel); i != -1 {
		incoming.Next = -1
		tb.slots[i] = incoming
		return InsertResult{Admitted: true, Slot: i, Rule: "alarm"}
	}

	if maxIdx := tb.findMaxAdjDistance(); maxIdx != -1 {
		if incoming.AdjDistance < tb.slots[maxIdx].AdjDistance && incoming.AlarmLevel >= tb.slots[maxIdx].AlarmLevel {
			incoming.Next = -1
			tb.slots[maxIdx] = incoming
			return InsertResult{Admitted: true, Slot: maxIdx, Rule: "adj_distance"}
		}
	}

	return InsertResult{Admitted: false, Slot: -1, Rule: "full"}
}

// Expire zeros any slot whose age exceeds ENTRY_EXPIRATION (§4.3
// sweep, first half).
func (tb *Table) Expire(now uint32) {
	for i := range tb.slots {
		s := &tb.slots[i]
		if s.Empty() {
			continue
		}
		if now > s.Timestamp+uint32(EntryExpiration.Seconds()) {
			s.reset()
		}
	}
}

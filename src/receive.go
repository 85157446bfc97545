package flarm

import "bytes"

// ReceiveOutcome reports what the §4.3 steps 1-3 pipeline did with one
// inbound frame, for logging and tests.
type ReceiveOutcome struct {
	Insert InsertResult
	Reason string // "ignored", "self_collision", "loopback", "parity", decode outcome, or "" on success
}

// SelfCollision is returned alongside ReceiveOutcome when step 2 fired,
// so the caller (Engine) knows it must re-roll its own address and stop
// transmitting under the old one.
type SelfCollision struct {
	OldAddress uint32
	NewAddress uint32
}

// ReceivePacket implements §4.3 steps 1-3 upstream of Table.Insert:
// reject on loopback (raw payload equal to the last frame this node
// transmitted) before decoding, then reject on the ignore list (handled
// inside DecodeLegacy), adopt a new self address on self-collision, and
// otherwise score the decoded track against self and hand it to
// table.Insert.
//
// newRandomAddress is called only on a self-collision (§4.3 step 2);
// tests can supply a deterministic generator.
func ReceivePacket(
	raw [24]byte,
	ts uint32,
	refLat, refLon, refGeoidSep float64,
	ignoreID uint32,
	self *Track,
	lastTxPayload []byte,
	algo AlarmAlgorithm,
	table *Table,
	newRandomAddress func() uint32,
) (ReceiveOutcome, *SelfCollision) {
	if lastTxPayload != nil && bytes.Equal(raw[:], lastTxPayload) {
		return ReceiveOutcome{Reason: "loopback"}, nil
	}

	result := DecodeLegacy(raw, ts, refLat, refLon, refGeoidSep, ignoreID, self.Address)

	switch result.Outcome {
	case DecodeIgnored:
		return ReceiveOutcome{Reason: "ignored"}, nil
	case DecodeParityFailed:
		return ReceiveOutcome{Reason: "parity"}, nil
	case DecodeSelf:
		old := self.Address
		self.Address = newRandomAddress()
		self.AddrType = AddrAnonymous
		return ReceiveOutcome{Reason: "self_collision"},
			&SelfCollision{OldAddress: old, NewAddress: self.Address}
	}

	incoming := result.Track
	UpdateGeometry(self, &incoming)
	incoming.AlarmLevel = ScoreAlarm(algo, self, &incoming)

	insertResult := table.Insert(incoming, ts)
	return ReceiveOutcome{Insert: insertResult}, nil
}

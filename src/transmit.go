package flarm

// Transmitter is component I: encode the local Track into a Legacy
// frame each time the Engine asks (every tick with a fix), and keep the
// rolling counters the NMEA heartbeat and the receive-side loopback
// guard both depend on (§4.8, §4.3 step 3).
//
// Slot timing itself ("transmitted once per 0.8-1.2s inside a 2-slot
// PPS-synchronised schedule", §6) is the radio collaborator's job, not
// this core's — §4.8 says so explicitly ("transmission is attempted
// only at time slots dictated by the radio collaborator"). Transmitter
// receives no slot signal; deciding when the frame goes on air is left
// to the Radio.Transmit implementation.
type Transmitter struct {
	TxCount uint32
	RxCount uint32

	pflauTicks  uint32
	lastPayload [24]byte
	hasSent     bool

	proj Projection
}

// Encode runs the projection (§4.2) and Legacy packet codec (§4.1)
// against self, as required by §4.8's "call §4.2 then §4.1". ts is the
// UTC second of the last GNSS fix, not a millis() reading, so packets
// at a slot boundary encrypt under the key the receiver expects (§5
// ordering guarantee).
func (tx *Transmitter) Encode(self *Track, ts uint32, nowMs uint64, refLat, refLon, refGeoidSep float64, baroVS *float64) [24]byte {
	tx.proj.Update(self, nowMs, baroVS)
	frame := EncodeLegacy(self, ts, refLat, refLon, refGeoidSep)
	tx.lastPayload = frame
	tx.hasSent = true
	tx.TxCount++
	return frame
}

// LastPayload returns the most recently transmitted frame, or nil if
// nothing has been sent yet. ReceivePacket uses this for the §4.3
// step-3 loopback guard (reject a received frame identical to our own
// last transmission, which indicates the radio echoed it back).
func (tx *Transmitter) LastPayload() []byte {
	if !tx.hasSent {
		return nil
	}
	cp := tx.lastPayload
	return cp[:]
}

// NoteReceived increments the rolling RX counter the $PSRFH heartbeat
// reports (§6).
func (tx *Transmitter) NoteReceived() {
	tx.RxCount++
}

// Tick advances the PFLAU tick counter and reports whether this tick
// is due for a $PSRFH heartbeat (every HeartbeatTicks PFLAU ticks,
// §4.8).
func (tx *Transmitter) Tick() (heartbeatDue bool) {
	tx.pflauTicks++
	if tx.pflauTicks >= HeartbeatTicks {
		tx.pflauTicks = 0
		return true
	}
	return false
}

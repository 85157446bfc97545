package flarm

import "context"

// Fix is one GNSS reading (§6 "gnss.fix() -> Option<(lat, lon, alt,
// course, speed, utc_seconds, millis)>").
type Fix struct {
	Latitude  float64
	Longitude float64
	AltitudeM float64
	Course    float64 // degrees true
	Speed     float64 // knots
	UTCSecond uint32
	Millis    uint64
}

// GNSS is the position-fix collaborator. A nil *Fix with a nil error
// means "no fix yet" (§7 NoFix), not a failure.
type GNSS interface {
	Fix(ctx context.Context) (*Fix, error)
}

// Radio is the bit-transport collaborator; framing, time-slot and
// frequency-hop scheduling live entirely in the implementation, out of
// this module's scope (§1 Non-goals).
type Radio interface {
	Transmit(ctx context.Context, frame [24]byte) error
	// Receive returns nil, nil when nothing is waiting.
	Receive(ctx context.Context) (*[24]byte, error)
}

// Clock abstracts wall time so the core can be driven by a fake clock
// in tests (§6 "clock.millis()", "clock.now()").
type Clock interface {
	Millis() uint64
	NowUTC() uint32
}

// Baro reports a pressure-derived vertical speed in fpm, or nil when
// unavailable (§6 "baro.vertical_speed() -> Option<f32>").
type Baro interface {
	VerticalSpeedFpm() *float64
}

// Wind reports the best current wind estimate as (north, east) knot
// components. Engine.Tick reads it but no emitted sentence uses it, and
// it is never applied to the ground-relative projection components
// (§4.2 explicitly forbids mixing wind into ns/ew).
type Wind interface {
	Best() (ns, ew float64)
}

// Sound is the alarm annunciator (§6 "sound.notify(level)").
type Sound interface {
	Notify(level AlarmLevel)
}

// EEPROM is the persistent settings store (§6 "settings.get()",
// "eeprom.store()"). settings.go's Settings type is what gets
// loaded/saved through it.
type EEPROM interface {
	Load() (Settings, error)
	Store(Settings) error
}

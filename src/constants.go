package flarm

import "time"

// Table capacity. The reference hardware runs with 8 slots; desktop or
// companion-computer builds can afford more.
const (
	DefaultMaxTracks = 8
	MaxTracksHard    = 60
)

// Aging and scheduling deadlines (§5, §4.3).
const (
	EntryExpiration    = 30 * time.Second
	SweepInterval      = 2 * time.Second
	ProjectionCacheTTL = 400 * time.Millisecond
	WindCacheTTL       = 666 * time.Millisecond
	HeartbeatTicks     = 10 // $PSRFH every N $PFLAU ticks
	HandshakeInterval  = 73 * time.Second
)

// NMEA export limits (§4.7).
const MaxNMEAObjects = 12

// NMEA output scratch buffer size (§5); documents the bound, nothing in
// this implementation allocates a fixed byte array against it since Go
// strings grow naturally, but callers streaming to constrained links
// should honor it.
const NMEABufferSize = 256

// Distance-based alarm zones, meters (§4.4 Distance). The reference
// firmware's exact constants were not recoverable from the retrieval
// pack (original_source/ held no usable files); these were chosen to
// satisfy every numeric scenario in spec.md §8.
const (
	AlarmZoneURGENT    = 300.0
	AlarmZoneIMPORTANT = 500.0
	AlarmZoneLOW       = 700.0
	AlarmZoneCLOSE     = 1000.0
	AlarmZoneNONE      = 2000.0 // always-visible range, §4.7 rule 1
)

// Vertical geometry (§4.4, §4.5).
const (
	VerticalSeparation     = 300.0 // meters
	VerticalSlope          = 0.5   // meters of horizontal-equivalent per meter of adj altitude
	VerticalSlack          = 60.0  // meters, dead-band in adj_alt_diff
	VerticalVisibilityRange = 500.0
)

// Vector algorithm thresholds (§4.4 Vector). Time-to-impact bands, in
// seconds. Only the URGENT boundary (~8s) is given directly by
// spec.md's scenario narration; IMPORTANT/LOW/CLOSE are chosen so that
// scenario 1 (t≈9.05s, head-on) lands on LOW, matching the spec's
// stated expectation, and so that the LOW/CLOSE boundary roughly
// agrees with the "13-18s" informal banding documented in
// biturbo-stratux-flarm's makeFlarmPFLAAString comment.
const (
	AlarmTimeURGENT    = 8.0
	AlarmTimeIMPORTANT = 8.5
	AlarmTimeLOW       = 13.0
	AlarmTimeCLOSE     = 20.0

	AlarmVectorAngle = 10.0 // degrees, "α" in §4.4
	AlarmVectorSpeed = 2.0  // m/s, below which Vector returns NONE

	CirclingTurnRate = 3.0 // deg/s, |turn rate| above this means "circling"
)

// Stealth fuzzing thresholds (§4.7 rule 2).
const (
	StealthDistance = 2000.0 // meters
	StealthVertical = 200.0  // meters
)

// Airborne heuristic thresholds (§4.2).
const (
	AirborneSpeedKnots       = 4.0
	AirborneClimbFpm         = 200.0
	AirborneClimbHold        = 5 * time.Second
	AirborneBaroClimbMeters  = 30.0
)

// Projection sample offsets, seconds relative to "now" (§4.2, §3 ns/ew).
var ProjectionSampleTimes = [4]float64{-1.5, 2.0, 5.5, 9.0}

package flarm

import (
	"context"
	"math/rand"
)

// Engine is the single owning value holding the self track, the fixed
// tracking table, settings, and counters that §9's Design Notes ask
// for ("a single owning Engine value... all subsystems take &mut
// Engine"). It drives the per-tick control flow named in §2: baro
// update, GNSS update, turn/climb estimation, rate-gated transmit,
// always-on receive, parse-and-insert, periodic sweep, sound notify,
// NMEA export.
type Engine struct {
	Self     Track
	Table    *Table
	Settings Settings

	tx Transmitter

	prevFixUTC   uint32
	prevFixValid bool
	lastSweepSec uint32
	lastHandshakeSec uint32

	rng *rand.Rand
}

// NewEngine builds an Engine from settings, allocating the tracking
// table at settings.MaxTracks capacity.
func NewEngine(settings Settings, rngSeed int64) *Engine {
	return &Engine{
		Table:    NewTable(settings.MaxTracks),
		Settings: settings,
		rng:      rand.New(rand.NewSource(rngSeed)),
		Self: Track{
			IsSelf:       true,
			AircraftType: settings.AircraftType,
			Stealth:      settings.SelfStealth,
			NoTrack:      settings.SelfNoTrack,
			Next:         -1,
		},
	}
}

// TickOutput bundles everything a caller should do with the results
// of one Tick: sentences to write to the NMEA output, and the alarm
// level (if any) to hand the sound collaborator.
type TickOutput struct {
	Sentences []string
	SoundAt   *AlarmLevel
	Collision *SelfCollision
}

// Tick runs one iteration of the §2/§5 control loop. radio, baro and
// wind may be nil when unavailable (gnss and clock may not); Tick
// degrades gracefully per §7's NoFix/RadioFault handling.
func (e *Engine) Tick(ctx context.Context, gnss GNSS, radio Radio, clock Clock, baro Baro, wind Wind) (TickOutput, error) {
	var out TickOutput

	nowMs := clock.Millis()
	nowSec := clock.NowUTC()

	var baroVS *float64
	if baro != nil {
		baroVS = baro.VerticalSpeedFpm()
	}

	fix, err := gnss.Fix(ctx)
	if err != nil {
		return out, err
	}

	if fix == nil {
		out.Sentences = append(out.Sentences, FormatPFLAU(&e.Self, nil, 0, false, false, false))
		return out, nil
	}

	e.applyFix(fix, baroVS)

	if wind != nil {
		ns, ew := wind.Best()
		_ = ns
		_ = ew
		// Wind is display-only per §4.2; the ground-referenced
		// projection above must not be perturbed by it. Nothing
		// further to do here until a display sentence consumes it.
	}

	if radio != nil {
		if frame, shouldSend := e.maybeTransmit(nowMs, fix.UTCSecond, baroVS); shouldSend {
			if err := radio.Transmit(ctx, frame); err != nil {
				For("transmit").Warn("radio transmit failed", "err", err)
			}
		}

		for {
			raw, err := radio.Receive(ctx)
			if err != nil {
				For("receive").Warn("radio receive failed", "err", err)
				break
			}
			if raw == nil {
				break
			}
			e.tx.NoteReceived()
			if e.Settings.Debug {
				out.Sentences = append(out.Sentences, FormatPSRFI(*raw))
			}
			result, collision := ReceivePacket(*raw, fix.UTCSecond, e.Self.Latitude, e.Self.Longitude,
				e.Self.GeoidSeparation, e.Settings.IgnoreID, &e.Self, e.tx.LastPayload(),
				e.Settings.Alarm, e.Table, e.newRandomAddress)
			if collision != nil {
				out.Collision = collision
			}
			if e.Settings.Debug && result.Insert.Admitted {
				out.Sentences = append(out.Sentences, FormatPSRFL(&e.Table.slots[result.Insert.Slot]))
			}
		}
	}

	if nowSec-e.lastSweepSec >= uint32(SweepInterval.Seconds()) {
		e.lastSweepSec = nowSec
		sweep := e.Table.Sweep(&e.Self, e.Settings.Alarm, nowSec)
		if sweep.MaxAlarm != nil {
			level := sweep.MaxAlarm.AlarmLevel
			out.SoundAt = &level
		}

		exported := SelectForExport(&e.Self, sweep.Order, e.Settings.FollowID)
		out.Sentences = append(out.Sentences, e.buildExportSentences(exported, fix)...)

		if heartbeatDue := e.tx.Tick(); heartbeatDue {
			out.Sentences = append(out.Sentences, FormatPSRFH(e.Self.Address, e.Self.Protocol, e.tx.RxCount, e.tx.TxCount, 0))
		}
	}

	if nowSec-e.lastHandshakeSec >= uint32(HandshakeInterval.Seconds()) {
		e.lastHandshakeSec = nowSec
		out.Sentences = append(out.Sentences, FormatPFLAE(), FormatPFLAV(e.Settings.FirmwareVersion, e.Settings.Ident, e.Settings.HWVersion))
	}

	return out, nil
}

// applyFix folds a fresh GNSS reading into Self: timestamping (§2) and
// a simple turn-rate estimate from consecutive course samples. The
// reference firmware's exact turn/climb estimator was not recoverable
// (no original_source/ files retrieved); a first-difference estimate
// over the fix-to-fix interval is the simplest one consistent with
// §4.2's projection inputs, and is recorded as a resolved Open
// Question in DESIGN.md.
func (e *Engine) applyFix(fix *Fix, baroVS *float64) {
	if e.prevFixValid && fix.UTCSecond != e.prevFixUTC {
		dt := float64(fix.UTCSecond - e.prevFixUTC)
		if dt > 0 {
			e.Self.TurnRate = AngleDiff(fix.Course, e.Self.Course) / dt
		}
	}

	e.Self.PrevCourse = e.Self.Course
	e.Self.PrevGNSSTimeMs = e.Self.GNSSTimeMs

	e.Self.Latitude = fix.Latitude
	e.Self.Longitude = fix.Longitude
	e.Self.AltitudeMSL = fix.AltitudeM
	e.Self.Course = fix.Course
	e.Self.Speed = fix.Speed
	e.Self.Timestamp = fix.UTCSecond
	e.Self.GNSSTimeMs = fix.Millis

	if baroVS != nil {
		e.Self.VerticalSpeed = float64(*baroVS)
	}

	e.prevFixUTC = fix.UTCSecond
	e.prevFixValid = true
}

// maybeTransmit asks the Transmitter to encode a frame. Slot timing is
// the radio collaborator's job (§4.8); here "should send" simply means
// "we have a valid fix", deferring the actual PPS-slot decision to the
// caller's radio implementation, matching how HamlibRadio keys PTT
// only around the actual write.
func (e *Engine) maybeTransmit(nowMs uint64, utcSecond uint32, baroVS *float64) ([24]byte, bool) {
	frame := e.tx.Encode(&e.Self, utcSecond, nowMs, e.Self.Latitude, e.Self.Longitude, e.Self.GeoidSeparation, baroVS)
	return frame, true
}

// HandleConfigSentence parses one incoming $PSRFC/$PSRFD/$PSRFS body
// and applies it to e.Settings, returning a reply sentence to write
// back when the command is a diagnostic query rather than a mutation
// ("" otherwise). This is the read side of §6's config-sentence
// handling; the write side is Settings.ApplyConfigCommand.
func (e *Engine) HandleConfigSentence(raw string) (string, error) {
	cmd, err := ParseConfigSentence(raw)
	if err != nil {
		return "", err
	}

	if cmd.Talker == "PSRFC" && cmd.Key == "position" {
		return FormatPSRFP(&e.Self), nil
	}

	if err := e.Settings.ApplyConfigCommand(cmd); err != nil {
		return "", err
	}
	return "", nil
}

func (e *Engine) newRandomAddress() uint32 {
	for {
		addr := e.rng.Uint32() & 0xFFFFFF
		if addr != 0 && addr != e.Self.Address {
			return addr
		}
	}
}

func (e *Engine) buildExportSentences(exported []*Track, fix *Fix) []string {
	sentences := make([]string, 0, len(exported)+2)

	var hp *Track
	if len(exported) > 0 {
		hp = exported[0]
	}

	pflaaList := exported
	if hp != nil && len(exported) >= MaxNMEAObjects {
		// §4.7 rule 5: omit HP from PFLAA when the list is already full.
		pflaaList = exported[1:]
	}

	for _, t := range pflaaList {
		sentences = append(sentences, FormatPFLAA(&e.Self, t))
	}

	sentences = append(sentences, FormatPFLAU(&e.Self, hp, len(pflaaList), true, true, true))
	sentences = append(sentences, FormatPGRMZ(e.Self.AltitudeMSL, true))

	return sentences
}

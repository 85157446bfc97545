package flarm

import (
	"fmt"
	"strconv"
	"strings"
)

// checksum returns the two-digit uppercase hex XOR checksum of body
// (the bytes between '$' and '*'), per §4.7's "$...*HH\r\n" format.
func checksum(body string) string {
	var c byte
	for i := 0; i < len(body); i++ {
		c ^= body[i]
	}
	return fmt.Sprintf("%02X", c)
}

// sentence wraps body with the leading '$', trailing checksum, and
// CRLF terminator every NMEA sentence in §6 shares.
func sentence(body string) string {
	return "$" + body + "*" + checksum(body) + "\r\n"
}

// alarmNMEA collapses the internal 0..4 scale to the wire scale used
// by $PFLAA/$PFLAU (§4.7 rule 6): "source-level minus 1 when above
// NONE", which folds CLOSE down onto NONE's wire value of 0.
func alarmNMEA(level AlarmLevel) int {
	if level == AlarmNone {
		return 0
	}
	return int(level) - 1
}

func hex6(addr uint32) string {
	return fmt.Sprintf("%06X", addr&0xFFFFFF)
}

// ExportedTarget is one track after §4.7's selection, stealth
// fuzzification, and sort have been applied — what FormatPFLAA turns
// into wire text.
type ExportedTarget struct {
	Track      *Track
	Suppressed bool // dropped entirely, not emitted
}

// SelectForExport implements §4.7 rules 1-3: filter to the
// always-visible/alarmed/followed set, fuzzify or suppress stealth
// targets, then sort descending alarm level (follow_id first) and
// ascending adj_distance within a level.
func SelectForExport(self *Track, order []*Track, followID uint32) []*Track {
	out := make([]*Track, 0, len(order))
	for _, t := range order {
		included := t.AlarmLevel > AlarmNone ||
			(t.Distance < AlarmZoneNONE && absf(t.AdjAltDiff) < VerticalVisibilityRange) ||
			t.Address == followID
		if !included {
			continue
		}

		if (t.Stealth || self.Stealth) && t.AlarmLevel <= AlarmClose {
			if t.Distance > StealthDistance || absf(t.AltDiff) > StealthVertical {
				continue // suppressed
			}
			fuzzified := *t
			fuzzified.AltDiff = float64((int64(t.AltDiff) &^ 0xFF) + 128)
			fuzzified.Course = 0
			fuzzified.Speed = 0
			out = append(out, &fuzzified)
			continue
		}

		out = append(out, t)
	}

	sortExportTargets(out, followID)
	return out
}

func sortExportTargets(list []*Track, followID uint32) {
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && exportLess(list[j], list[j-1], followID); j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
}

func exportLess(a, b *Track, followID uint32) bool {
	aFollow := a.Address == followID
	bFollow := b.Address == followID
	if aFollow != bFollow {
		return aFollow
	}
	if a.AlarmLevel != b.AlarmLevel {
		return a.AlarmLevel > b.AlarmLevel
	}
	return a.AdjDistance < b.AdjDistance
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// FormatPFLAA renders one $PFLAA sentence for other, relative to self.
func FormatPFLAA(self, other *Track) string {
	north := other.Distance * Cos(other.Bearing)
	east := other.Distance * Sin(other.Bearing)
	climbMps := other.VerticalSpeed * 0.00508

	body := fmt.Sprintf("PFLAA,%d,%.0f,%.0f,%.0f,%d,%s,%03.0f,,%.0f,%.1f,%d",
		alarmNMEA(other.AlarmLevel),
		north, east, other.AltDiff,
		int(other.AddrType), hex6(other.Address),
		normalizeDegrees(other.Course),
		other.Speed, climbMps,
		int(other.AircraftType))
	return sentence(body)
}

// FormatPFLAU renders the single $PFLAU summary sentence. count is the
// number of $PFLAA sentences actually emitted this tick; hp is the
// highest-priority exported target, or nil when the list is empty or
// there is no fix. txActive/gpsFix/powerOK are the NoFix-aware flags
// §7 requires ("PFLAU still emitted with fix=0, tx=off").
func FormatPFLAU(self *Track, hp *Track, count int, txActive, gpsFix, powerOK bool) string {
	alarm, relBrg, acftType, altDiff, dist, addrHex := 0, 0.0, 0, 0.0, 0.0, "000000"
	if hp != nil {
		alarm = alarmNMEA(hp.AlarmLevel)
		relBrg = AngleDiff(hp.Bearing, self.Course)
		acftType = int(hp.AircraftType)
		altDiff = hp.AltDiff
		dist = hp.Distance
		addrHex = hex6(hp.Address)
	}

	body := fmt.Sprintf("PFLAU,%d,%d,%d,%d,%d,%.0f,%d,%.0f,%.0f,%s",
		count, boolToInt(txActive), boolToInt(gpsFix), boolToInt(powerOK),
		alarm, relBrg, acftType, altDiff, dist, addrHex)
	return sentence(body)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// FormatPGRMZ renders the barometric/GNSS altitude sentence.
func FormatPGRMZ(altitudeMSLMeters float64, gpsFix bool) string {
	feet := altitudeMSLMeters * 3.28084
	body := fmt.Sprintf("PGRMZ,%.0f,f,%d", feet, boolToInt(gpsFix))
	return sentence(body)
}

// FormatPSRFH renders the heartbeat sentence (§6, §4.8), extended per
// SPEC_FULL.md with both RX and TX counters since the sentence names
// fields for each.
func FormatPSRFH(selfAddr uint32, proto Protocol, rxCount, txCount uint32, batteryCentivolts int) string {
	body := fmt.Sprintf("PSRFH,%s,%d,%d,%d,%d", hex6(selfAddr), int(proto), rxCount, txCount, batteryCentivolts)
	return sentence(body)
}

// FormatPFLAE and FormatPFLAV together form the ~73s "impersonation
// handshake" §6 asks for: a real FLARM unit advertises these so
// ground stations and other traffic displays recognize the stream.
func FormatPFLAE() string {
	return sentence("PFLAE,A,0,0")
}

func FormatPFLAV(firmwareVersion, ident, hwVersion string) string {
	body := fmt.Sprintf("PFLAV,A,2.4,%s,%s-%s", firmwareVersion, ident, hwVersion)
	return sentence(body)
}

// FormatPSRFI / FormatPSRFL are the opt-in debug dumps §7 names
// ("an observer verifies via the $PSRFI debug sentence (raw RX dump)
// or $PSRFL (decoded RX dump)"), gated by Settings.Debug.
func FormatPSRFI(raw [24]byte) string {
	var sb strings.Builder
	sb.WriteString("PSRFI")
	for _, b := range raw {
		sb.WriteString(fmt.Sprintf(",%02X", b))
	}
	return sentence(sb.String())
}

func FormatPSRFL(t *Track) string {
	body := fmt.Sprintf("PSRFL,%s,%.6f,%.6f,%.0f,%.0f,%.0f",
		hex6(t.Address), t.Latitude, t.Longitude, t.AltitudeMSL, t.Course, t.Speed)
	return sentence(body)
}

// ConfigCommand is one parsed $PSRFC/$PSRFD/$PSRFS input sentence
// (§6 "read-modify-write into persistent settings followed by
// reboot"). Exact field grammar was not recoverable from
// original_source/ (0 files retrieved), so a `<ver>,<key>,<value>`
// triple was chosen as the simplest read-modify-write shape — a
// resolved Open Question, documented in DESIGN.md.
type ConfigCommand struct {
	Talker  string // "PSRFC", "PSRFD", or "PSRFS"
	Version int
	Key     string
	Value   string
}

// ParseConfigSentence parses one input sentence's body (without the
// leading '$' or trailing checksum) into a ConfigCommand.
func ParseConfigSentence(raw string) (ConfigCommand, error) {
	raw = strings.TrimPrefix(raw, "$")
	if i := strings.IndexByte(raw, '*'); i >= 0 {
		raw = raw[:i]
	}
	fields := strings.Split(raw, ",")
	if len(fields) < 3 {
		return ConfigCommand{}, fmt.Errorf("nmea: malformed config sentence %q", raw)
	}
	switch fields[0] {
	case "PSRFC", "PSRFD", "PSRFS":
	default:
		return ConfigCommand{}, fmt.Errorf("nmea: unrecognized talker %q", fields[0])
	}

	ver, err := strconv.Atoi(fields[1])
	if err != nil {
		return ConfigCommand{}, fmt.Errorf("nmea: bad version field: %w", err)
	}

	value := ""
	if len(fields) > 3 {
		value = strings.Join(fields[3:], ",")
	}

	return ConfigCommand{Talker: fields[0], Version: ver, Key: fields[2], Value: value}, nil
}

// FormatPSRFP replies to a "$PSRFC,<ver>,position" query with the
// engine's current reference position, rendered through
// FormatLatLonDiagnostic (geoutil.go, github.com/tzneal/coordconv's
// hemisphere runes) rather than the bare signed decimal degrees
// Track.Latitude/Longitude carry internally.
func FormatPSRFP(self *Track) string {
	return sentence(fmt.Sprintf("PSRFP,1,%s", FormatLatLonDiagnostic(self.Latitude, self.Longitude)))
}

package flarm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SerialGNSS implements the GNSS collaborator by tailing $GxRMC
// sentences off a serial reader (the NMEA-0183 fix sentence any GNSS
// module on the market emits). Wire/time-slot and bit-level radio
// concerns have a dedicated collaborator (Radio); this one only ever
// has to understand ASCII fix sentences, so it is plain
// bufio/strconv/strings rather than a library dependency — no NMEA
// parsing library appears anywhere in the retrieved example pack, so
// there is nothing in-corpus to reach for here (recorded in
// DESIGN.md).
type SerialGNSS struct {
	mu      sync.Mutex
	latest  *Fix
	lastErr error
}

// NewSerialGNSS starts a goroutine scanning r for RMC sentences until
// ctx is canceled or r returns an error. r is typically the
// *term.Term returned by OpenSerial.
func NewSerialGNSS(ctx context.Context, r io.Reader) *SerialGNSS {
	g := &SerialGNSS{}
	go g.run(ctx, r)
	return g
}

func (g *SerialGNSS) run(ctx context.Context, r io.Reader) {
	scanner := bufio.NewScanner(r)
	logger := For("gnss")
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "$") {
			continue
		}
		if !strings.Contains(line, "RMC") {
			continue
		}

		fix, err := parseRMC(line)
		if err != nil {
			logger.Debug("unparseable RMC sentence", "line", line, "err", err)
			continue
		}

		g.mu.Lock()
		g.latest = fix
		g.mu.Unlock()
	}
	if err := scanner.Err(); err != nil {
		g.mu.Lock()
		g.lastErr = err
		g.mu.Unlock()
	}
}

// Fix returns the most recently parsed RMC fix, or nil if no valid fix
// has been seen yet (§7 NoFix).
func (g *SerialGNSS) Fix(ctx context.Context) (*Fix, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lastErr != nil {
		return nil, g.lastErr
	}
	return g.latest, nil
}

// parseRMC decodes the minimum subset of a $xxRMC sentence this core
// needs: time, fix validity, lat/lon, speed over ground, course over
// ground.
//
//	$GPRMC,hhmmss.ss,A,ddmm.mmmm,N,dddmm.mmmm,E,speed,course,ddmmyy,,,*CS
func parseRMC(line string) (*Fix, error) {
	body := line
	if i := strings.IndexByte(line, '*'); i >= 0 {
		body = line[:i]
	}
	fields := strings.Split(body, ",")
	if len(fields) < 10 {
		return nil, fmt.Errorf("gnss: short RMC sentence (%d fields)", len(fields))
	}
	if fields[2] != "A" {
		return nil, fmt.Errorf("gnss: RMC status not active (%q)", fields[2])
	}

	lat, err := parseNMEALatLon(fields[3], fields[4], 2)
	if err != nil {
		return nil, fmt.Errorf("gnss: latitude: %w", err)
	}
	lon, err := parseNMEALatLon(fields[5], fields[6], 3)
	if err != nil {
		return nil, fmt.Errorf("gnss: longitude: %w", err)
	}

	speedKnots, err := strconv.ParseFloat(fields[7], 64)
	if err != nil {
		return nil, fmt.Errorf("gnss: speed: %w", err)
	}

	course := 0.0
	if fields[8] != "" {
		course, err = strconv.ParseFloat(fields[8], 64)
		if err != nil {
			return nil, fmt.Errorf("gnss: course: %w", err)
		}
	}

	utcSecond, millis, err := parseNMEATime(fields[1])
	if err != nil {
		return nil, fmt.Errorf("gnss: time: %w", err)
	}

	return &Fix{
		Latitude:  lat,
		Longitude: lon,
		Course:    course,
		Speed:     speedKnots,
		UTCSecond: utcSecond,
		Millis:    millis,
	}, nil
}

// parseNMEALatLon converts ddmm.mmmm/dddmm.mmmm plus hemisphere letter
// into signed decimal degrees. degreeDigits is 2 for latitude, 3 for
// longitude.
func parseNMEALatLon(value, hemisphere string, degreeDigits int) (float64, error) {
	if len(value) < degreeDigits+1 {
		return 0, fmt.Errorf("value %q too short", value)
	}
	degrees, err := strconv.ParseFloat(value[:degreeDigits], 64)
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.ParseFloat(value[degreeDigits:], 64)
	if err != nil {
		return 0, err
	}
	decimal := degrees + minutes/60.0
	switch hemisphere {
	case "S", "W":
		decimal = -decimal
	case "N", "E":
	default:
		return 0, fmt.Errorf("unknown hemisphere %q", hemisphere)
	}
	return decimal, nil
}

func parseNMEATime(value string) (utcSecond uint32, millis uint64, err error) {
	if len(value) < 6 {
		return 0, 0, fmt.Errorf("time field %q too short", value)
	}
	hh, err := strconv.Atoi(value[0:2])
	if err != nil {
		return 0, 0, err
	}
	mm, err := strconv.Atoi(value[2:4])
	if err != nil {
		return 0, 0, err
	}
	ss, err := strconv.Atoi(value[4:6])
	if err != nil {
		return 0, 0, err
	}
	secOfDay := uint32(hh*3600 + mm*60 + ss)

	frac := 0.0
	if dot := strings.IndexByte(value, '.'); dot >= 0 && dot+1 < len(value) {
		frac, _ = strconv.ParseFloat("0"+value[dot:], 64)
	}

	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return uint32(midnight.Unix()) + secOfDay, uint64(midnight.Unix())*1000 + uint64(secOfDay)*1000 + uint64(frac*1000), nil
}

package flarm

// Serial device discovery and open, generalizing the teacher's
// serial_port.go fixed-path open (a devicename known ahead of time)
// into dynamic discovery of the GNSS/radio serial devices as they
// appear on the bus, using github.com/jochenvg/go-udev. The
// (out-of-scope, §1) GNSS/radio drivers are handed the resulting
// device node; this module only watches for it and opens the port.

import (
	"context"
	"fmt"
	"strings"

	"github.com/jochenvg/go-udev"
	"github.com/pkg/term"
)

// DeviceRole distinguishes which collaborator a discovered serial
// device should be wired to.
type DeviceRole int

const (
	DeviceRoleGNSS DeviceRole = iota
	DeviceRoleRadio
)

// DiscoveredDevice is one tty node udev reported, tagged by the role
// guessed from its ID_MODEL/ID_VENDOR udev properties.
type DiscoveredDevice struct {
	Role DeviceRole
	Node string // e.g. /dev/ttyACM0
}

// WatchSerialDevices streams newly attached tty device nodes matching
// gnssHints or radioHints (case-insensitive substrings of ID_MODEL or ID_VENDOR,
// e.g. "u-blox" for a GNSS receiver) until ctx is canceled.
func WatchSerialDevices(ctx context.Context, gnssHints, radioHints []string) (<-chan DiscoveredDevice, error) {
	u := udev.Udev{}
	monitor := u.NewMonitorFromNetlink("udev")
	if err := monitor.FilterAddMatchSubsystem("tty"); err != nil {
		return nil, fmt.Errorf("devicediscovery: filter tty subsystem: %w", err)
	}

	deviceCh, errCh, err := monitor.DeviceChan(ctx)
	if err != nil {
		return nil, fmt.Errorf("devicediscovery: start monitor: %w", err)
	}

	out := make(chan DiscoveredDevice)
	logger := For("devicediscovery")

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errCh:
				if !ok {
					return
				}
				logger.Error("udev monitor error", "err", err)
			case dev, ok := <-deviceCh:
				if !ok {
					return
				}
				if dev.Action() != "add" {
					continue
				}
				node := dev.Devnode()
				if node == "" {
					continue
				}
				role, matched := classifyDevice(dev.PropertyValue("ID_MODEL")+" "+dev.PropertyValue("ID_VENDOR"), gnssHints, radioHints)
				if !matched {
					continue
				}
				select {
				case out <- DiscoveredDevice{Role: role, Node: node}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func classifyDevice(description string, gnssHints, radioHints []string) (DeviceRole, bool) {
	lower := strings.ToLower(description)
	for _, hint := range gnssHints {
		if strings.Contains(lower, strings.ToLower(hint)) {
			return DeviceRoleGNSS, true
		}
	}
	for _, hint := range radioHints {
		if strings.Contains(lower, strings.ToLower(hint)) {
			return DeviceRoleRadio, true
		}
	}
	return 0, false
}

// OpenSerial opens devicename at baud, the same raw-mode open the
// teacher's serial_port_open performs via github.com/pkg/term.
func OpenSerial(devicename string, baud int) (*term.Term, error) {
	fd, err := term.Open(devicename, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("devicediscovery: open %s: %w", devicename, err)
	}

	switch baud {
	case 0:
	case 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200:
		fd.SetSpeed(baud)
	default:
		fd.SetSpeed(4800)
	}

	return fd, nil
}

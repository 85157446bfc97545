package flarm

// Announce the NMEA output stream (§6) using DNS-SD, so traffic
// displays on the local network can find this node without a
// hardcoded address. Generalized from the teacher's dns_sd.go, which
// announces its own KISS-over-TCP service the same way, using the
// pure-Go github.com/brutella/dnssd package.

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"
)

const nmeaServiceType = "_nmea-0183._tcp"

// Advertiser announces the NMEA TCP service over mDNS and keeps the
// responder goroutine running until Stop is called.
type Advertiser struct {
	responder *dnssd.Responder
	cancel    context.CancelFunc
}

// Advertise registers name on port and starts responding to mDNS
// queries in the background.
func Advertise(ctx context.Context, name string, port int) (*Advertiser, error) {
	if name == "" {
		name = "SoftRF NMEA"
	}

	cfg := dnssd.Config{
		Name: name,
		Type: nmeaServiceType,
		Port: port,
	}

	svc, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("mdns: create service: %w", err)
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("mdns: create responder: %w", err)
	}

	if _, err := responder.Add(svc); err != nil {
		return nil, fmt.Errorf("mdns: add service: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	logger := For("mdns")

	go func() {
		if err := responder.Respond(runCtx); err != nil && runCtx.Err() == nil {
			logger.Error("responder stopped", "err", err)
		}
	}()

	return &Advertiser{responder: responder, cancel: cancel}, nil
}

// Stop ends the background mDNS responder.
func (a *Advertiser) Stop() {
	if a == nil {
		return
	}
	a.cancel()
}

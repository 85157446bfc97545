// Command flarmd runs the FLARM-compatible traffic core against a
// GNSS serial feed and a radio collaborator, emitting NMEA traffic
// sentences on stdout. Option parsing follows the teacher's
// cmd/direwolf pflag layout (config file plus per-run overrides).
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	flarm "github.com/Exadios/SoftRF/src"
	"github.com/spf13/pflag"
)

func main() {
	var configFile = pflag.StringP("config-file", "c", "flarmd.yaml", "Settings document path.")
	var gnssDevice = pflag.String("gnss-device", "", "Serial device emitting $GxRMC sentences.")
	var gnssBaud = pflag.Int("gnss-baud", 4800, "Baud rate for --gnss-device.")
	var rigModel = pflag.Int("rig-model", 0, "Hamlib rig model number for the radio collaborator. 0 disables the radio.")
	var rigPort = pflag.String("rig-port", "", "Serial device for the Hamlib control channel.")
	var rigFreqHz = pflag.Float64("rig-freq-hz", 868_200_000, "Operating frequency in Hz.")
	var rigDataDevice = pflag.String("rig-data-device", "", "Serial device carrying raw 24-byte frames to/from the radio.")
	var rigDataBaud = pflag.Int("rig-data-baud", 57600, "Baud rate for --rig-data-device.")
	var gpioChip = pflag.String("gpio-chip", "", "gpiochip device for PTT/LED keying. Empty disables GPIO PTT.")
	var gpioPTTLine = pflag.Int("gpio-ptt-line", 0, "PTT output line offset on --gpio-chip.")
	var gpioLEDLine = pflag.Int("gpio-led-line", 1, "Alert LED output line offset on --gpio-chip.")
	var soundEnabled = pflag.Bool("sound", false, "Enable the PortAudio alarm annunciator.")
	var mdnsAdvertise = pflag.Bool("mdns", false, "Advertise an NMEA-0183 TCP service via mDNS.")
	var mdnsPort = pflag.Int("mdns-port", 10110, "Port to advertise with --mdns.")
	var tickInterval = pflag.Duration("tick", time.Second, "Engine tick period.")
	var debug = pflag.Bool("debug", false, "Emit $PSRFI/$PSRFL debug dump sentences.")
	var showVersion = pflag.Bool("version", false, "Print version and exit.")

	pflag.Parse()

	if *showVersion {
		flarm.PrintVersion(false)
		return
	}

	logger := flarm.For("flarmd")

	eeprom := flarm.FileEEPROM{Path: *configFile}
	settings, err := eeprom.Load()
	if err != nil {
		logger.Fatal("load settings", "err", err)
	}
	settings.Debug = settings.Debug || *debug

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	engine := flarm.NewEngine(settings, time.Now().UnixNano())

	var gnss flarm.GNSS
	if *gnssDevice != "" {
		port, err := flarm.OpenSerial(*gnssDevice, *gnssBaud)
		if err != nil {
			logger.Fatal("open gnss device", "err", err)
		}
		defer port.Close()
		gnss = flarm.NewSerialGNSS(ctx, port)
	} else {
		logger.Warn("no --gnss-device given, running with no fix source")
		gnss = noFixGNSS{}
	}

	var radio flarm.Radio
	if *rigModel != 0 {
		if *rigDataDevice == "" {
			logger.Fatal("--rig-model requires --rig-data-device")
		}
		dataPort, err := flarm.OpenSerial(*rigDataDevice, *rigDataBaud)
		if err != nil {
			logger.Fatal("open radio data device", "err", err)
		}
		defer dataPort.Close()

		hamlibRadio, err := flarm.NewHamlibRadio(*rigModel, *rigPort, *rigFreqHz, dataPort)
		if err != nil {
			logger.Fatal("open radio", "err", err)
		}
		defer hamlibRadio.Close()
		radio = hamlibRadio
	}

	var ptt *flarm.GPIOPTT
	if *gpioChip != "" {
		ptt, err = flarm.NewGPIOPTT(*gpioChip, *gpioPTTLine, *gpioLEDLine)
		if err != nil {
			logger.Fatal("open gpio ptt", "err", err)
		}
		defer ptt.Close()
	}

	var sound flarm.Sound
	if *soundEnabled {
		pa, err := flarm.NewPortaudioSound()
		if err != nil {
			logger.Fatal("open portaudio sound", "err", err)
		}
		defer pa.Close()
		sound = pa
	}

	if *mdnsAdvertise {
		adv, err := flarm.Advertise(ctx, "flarmd", *mdnsPort)
		if err != nil {
			logger.Error("mdns advertise failed, continuing without it", "err", err)
		} else {
			defer adv.Stop()
		}
	}

	ticker := time.NewTicker(*tickInterval)
	defer ticker.Stop()

	clock := flarm.RealtimeClock{}

	// $PSRFC/$PSRFD/$PSRFS config sentences arrive on stdin alongside
	// whatever feeds GNSS/radio traffic in over their own serial
	// devices; scanned on its own goroutine and applied from the main
	// loop so Settings mutations never race with Engine.Tick.
	configLines := make(chan string)
	go func() {
		defer close(configLines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			configLines <- scanner.Text()
		}
	}()

	logger.Info("flarmd running", "tick", *tickInterval)

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case line, ok := <-configLines:
			if !ok {
				configLines = nil
				continue
			}
			reply, err := engine.HandleConfigSentence(line)
			if err != nil {
				logger.Warn("config sentence rejected", "line", line, "err", err)
				continue
			}
			if reply != "" {
				fmt.Print(reply)
			}
		case <-ticker.C:
			out, err := engine.Tick(ctx, gnss, radio, clock, nil, nil)
			if err != nil {
				logger.Error("tick failed", "err", err)
				continue
			}
			for _, sentence := range out.Sentences {
				fmt.Print(sentence)
			}
			if out.SoundAt != nil {
				if sound != nil {
					sound.Notify(*out.SoundAt)
				}
				if ptt != nil {
					if err := ptt.SetAlertLED(*out.SoundAt); err != nil {
						logger.Warn("set alert led", "err", err)
					}
				}
			}
			if out.Collision != nil {
				logger.Warn("self address collision, re-addressed",
					"old", out.Collision.OldAddress, "new", out.Collision.NewAddress)
			}
		}
	}
}

// noFixGNSS is the fallback when no --gnss-device was given: it never
// reports a fix, exercising the §7 NoFix degraded path.
type noFixGNSS struct{}

func (noFixGNSS) Fix(ctx context.Context) (*flarm.Fix, error) { return nil, nil }

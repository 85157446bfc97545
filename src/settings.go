package flarm

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Settings is the persistent configuration store (the "eeprom"
// collaborator of §6's `settings.get()`/`eeprom.store()`). Grounded on
// the teacher's `deviceid.go` pattern of loading a YAML document at
// startup (`gopkg.in/yaml.v3`), generalized here from a static
// read-only device table to a read-write settings document that
// $PSRFC/$PSRFD/$PSRFS mutate at runtime.
type Settings struct {
	MaxTracks int            `yaml:"max_tracks"`
	Alarm     AlarmAlgorithm `yaml:"alarm_algorithm"`

	IgnoreID uint32 `yaml:"ignore_id"`
	FollowID uint32 `yaml:"follow_id"`

	SelfStealth bool `yaml:"stealth"`
	SelfNoTrack bool `yaml:"no_track"`

	AircraftType AircraftType `yaml:"aircraft_type"`
	Callsign     string       `yaml:"callsign"`

	FirmwareVersion string `yaml:"firmware_version"`
	Ident           string `yaml:"ident"`
	HWVersion       string `yaml:"hw_version"`

	Debug bool `yaml:"debug"`
}

// DefaultSettings matches the hardware defaults implied by §4/§5
// (8-slot table, Distance algorithm — Vector requires a prior sample
// so Distance is the safer cold-start default).
func DefaultSettings() Settings {
	return Settings{
		MaxTracks:       DefaultMaxTracks,
		Alarm:           AlarmAlgorithmDistance,
		FirmwareVersion: "1.0",
		Ident:           "SoftRF",
		HWVersion:       "GO1",
	}
}

// LoadSettings reads a YAML settings document from path, falling back
// to DefaultSettings when the file does not exist (first boot).
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("settings: read %s: %w", path, err)
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("settings: parse %s: %w", path, err)
	}
	return s, nil
}

// Save serializes Settings back to path (§6 `eeprom.store()`).
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings: write %s: %w", path, err)
	}
	return nil
}

// BindFlags registers CLI overrides on fs, matching the teacher's
// cmd/*/main.go pflag-based option parsing. Call after LoadSettings so
// flag defaults reflect the loaded document, then fs.Parse, so the
// command line wins over the file.
func (s *Settings) BindFlags(fs *pflag.FlagSet) {
	fs.IntVar(&s.MaxTracks, "max-tracks", s.MaxTracks, "tracking table capacity")
	fs.Uint32Var(&s.IgnoreID, "ignore-id", s.IgnoreID, "24-bit address to silently ignore")
	fs.Uint32Var(&s.FollowID, "follow-id", s.FollowID, "24-bit address to always report")
	fs.BoolVar(&s.SelfStealth, "stealth", s.SelfStealth, "fuzzify our own reported position to others")
	fs.BoolVar(&s.SelfNoTrack, "no-track", s.SelfNoTrack, "ask others not to retain our track history")
	fs.StringVar(&s.Callsign, "callsign", s.Callsign, "callsign stored in settings (not carried in any emitted sentence)")
	fs.BoolVar(&s.Debug, "debug", s.Debug, "emit $PSRFI/$PSRFL debug dump sentences")
}

// ApplyConfigCommand performs the read-modify-write §6 describes for
// $PSRFC/$PSRFD/$PSRFS: PSRFC touches core tracking/alarm config,
// PSRFD touches aircraft identity fields, PSRFS touches
// privacy/debug flags. This three-way split (not specified by
// original_source/, which retrieved 0 files) is a resolved Open
// Question recorded in DESIGN.md.
func (s *Settings) ApplyConfigCommand(cmd ConfigCommand) error {
	switch cmd.Talker {
	case "PSRFC":
		return s.applyCoreConfig(cmd)
	case "PSRFD":
		return s.applyIdentityConfig(cmd)
	case "PSRFS":
		return s.applyPrivacyConfig(cmd)
	default:
		return fmt.Errorf("settings: unknown config talker %q", cmd.Talker)
	}
}

func (s *Settings) applyCoreConfig(cmd ConfigCommand) error {
	switch cmd.Key {
	case "max_tracks":
		var n int
		if _, err := fmt.Sscanf(cmd.Value, "%d", &n); err != nil {
			return fmt.Errorf("settings: max_tracks: %w", err)
		}
		s.MaxTracks = n
	case "alarm_algorithm":
		switch cmd.Value {
		case "none":
			s.Alarm = AlarmAlgorithmNone
		case "distance":
			s.Alarm = AlarmAlgorithmDistance
		case "vector":
			s.Alarm = AlarmAlgorithmVector
		case "legacy":
			s.Alarm = AlarmAlgorithmLegacy
		default:
			return fmt.Errorf("settings: unknown alarm_algorithm %q", cmd.Value)
		}
	case "ignore_id":
		var v uint32
		if _, err := fmt.Sscanf(cmd.Value, "%x", &v); err != nil {
			return fmt.Errorf("settings: ignore_id: %w", err)
		}
		s.IgnoreID = v
	case "follow_id":
		var v uint32
		if _, err := fmt.Sscanf(cmd.Value, "%x", &v); err != nil {
			return fmt.Errorf("settings: follow_id: %w", err)
		}
		s.FollowID = v
	case "position":
		// Read-only diagnostic query, answered by Engine.HandleConfigSentence
		// (it has the reference position; Settings does not), not a
		// mutation — nothing to apply here.
	default:
		return fmt.Errorf("settings: unknown PSRFC key %q", cmd.Key)
	}
	return nil
}

func (s *Settings) applyIdentityConfig(cmd ConfigCommand) error {
	switch cmd.Key {
	case "callsign":
		s.Callsign = cmd.Value
	case "aircraft_type":
		var v uint8
		if _, err := fmt.Sscanf(cmd.Value, "%d", &v); err != nil {
			return fmt.Errorf("settings: aircraft_type: %w", err)
		}
		s.AircraftType = AircraftType(v)
	case "ident":
		s.Ident = cmd.Value
	default:
		return fmt.Errorf("settings: unknown PSRFD key %q", cmd.Key)
	}
	return nil
}

func (s *Settings) applyPrivacyConfig(cmd ConfigCommand) error {
	switch cmd.Key {
	case "stealth":
		s.SelfStealth = cmd.Value == "1"
	case "no_track":
		s.SelfNoTrack = cmd.Value == "1"
	case "debug":
		s.Debug = cmd.Value == "1"
	default:
		return fmt.Errorf("settings: unknown PSRFS key %q", cmd.Key)
	}
	return nil
}

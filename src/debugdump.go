package flarm

// DebugDump wires the §7 "$PSRFI (raw RX dump) / $PSRFL (decoded RX
// dump)" debug sentences behind Settings.Debug, matching
// montge-stratux's and biturbo-stratux-flarm's globalSettings.DEBUG
// gating pattern (SPEC_FULL.md §4): when Debug is false this is a
// no-op, so the hot receive path pays nothing for it.
type DebugDump struct {
	dumper *debugDumper
}

// NewDebugDump wires a dumper writing into dir with the given
// strftime-pattern file name (see logging.go). Calling it with
// dir == "" gives a DebugDump with a nil dumper, whose RawReceive and
// DecodedReceive do nothing, for setups without a debug directory
// configured.
func NewDebugDump(dir, namePattern string) (*DebugDump, error) {
	if dir == "" {
		return &DebugDump{}, nil
	}
	d, err := NewDebugDumper(dir, namePattern)
	if err != nil {
		return nil, err
	}
	return &DebugDump{dumper: d}, nil
}

// RawReceive records one raw 24-byte frame as it arrived, before
// decoding, gated on debugEnabled.
func (d *DebugDump) RawReceive(debugEnabled bool, raw [24]byte) {
	if !debugEnabled || d.dumper == nil {
		return
	}
	if err := d.dumper.Write(FormatPSRFI(raw)); err != nil {
		For("debugdump").Error("write raw dump", "err", err)
	}
}

// DecodedReceive records one successfully decoded Track, gated on
// debugEnabled.
func (d *DebugDump) DecodedReceive(debugEnabled bool, t *Track) {
	if !debugEnabled || d.dumper == nil {
		return
	}
	if err := d.dumper.Write(FormatPSRFL(t)); err != nil {
		For("debugdump").Error("write decoded dump", "err", err)
	}
}

// Close releases the underlying dump file, if any.
func (d *DebugDump) Close() error {
	if d.dumper == nil {
		return nil
	}
	return d.dumper.Close()
}

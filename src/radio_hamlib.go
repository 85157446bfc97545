package flarm

// Radio control-plane (frequency tuning, PTT key/unkey) via
// github.com/xylo04/goHamlib. Bit-level transport (Manchester
// whitening, 2-FSK modulation, the PPS-synced 2-slot schedule, §6) is
// the responsibility of whatever SDR or dedicated FLARM radio module
// sits behind Hamlib; this collaborator only drives the rig's control
// channel, leaving §1's "radio driver (bit transport, ...)" Non-goal
// untouched.

import (
	"context"
	"fmt"

	hamlib "github.com/xylo04/goHamlib"
)

// HamlibRadio implements the Radio collaborator's control-plane half.
// Transmit/Receive of the actual 24-byte frame still goes over
// whatever data channel the rig model exposes (a KISS-style TNC port,
// a USB CDC endpoint, etc.) — HamlibRadio only keys/unkeys PTT and
// tunes frequency around that transfer, which is why Transmit/Receive
// below are left to the caller's own data-channel reader/writer (data)
// rather than reimplemented here.
type HamlibRadio struct {
	rig       *hamlib.Rig
	data      dataChannel
	frequency float64
}

// dataChannel is the narrow read/write surface HamlibRadio needs from
// the rig's data channel; the radio's own driver satisfies this.
type dataChannel interface {
	Write([]byte) (int, error)
	Read([]byte) (int, error)
}

// NewHamlibRadio opens rigModel on port and tunes it to frequencyHz.
func NewHamlibRadio(rigModel int, port string, frequencyHz float64, data dataChannel) (*HamlibRadio, error) {
	rig := hamlib.NewRig(rigModel)
	if err := rig.Open(port); err != nil {
		return nil, fmt.Errorf("radio: open rig model %d on %s: %w", rigModel, port, err)
	}
	if err := rig.SetFreq(hamlib.VFOCurr, frequencyHz); err != nil {
		rig.Close()
		return nil, fmt.Errorf("radio: set frequency: %w", err)
	}

	return &HamlibRadio{rig: rig, data: data, frequency: frequencyHz}, nil
}

// Transmit keys PTT, writes the frame to the data channel, and unkeys.
func (r *HamlibRadio) Transmit(ctx context.Context, frame [24]byte) error {
	if err := r.rig.SetPTT(hamlib.VFOCurr, hamlib.PTTOn); err != nil {
		return fmt.Errorf("radio: key PTT: %w", err)
	}
	defer r.rig.SetPTT(hamlib.VFOCurr, hamlib.PTTOff)

	if _, err := r.data.Write(frame[:]); err != nil {
		return fmt.Errorf("radio: write frame: %w", err)
	}
	return nil
}

// Receive reads one frame from the data channel, or nil, nil if
// nothing is waiting (a non-blocking data channel is assumed, matching
// §5's "bounded (< 20ms)" blocking-wait expectation).
func (r *HamlibRadio) Receive(ctx context.Context) (*[24]byte, error) {
	var frame [24]byte
	n, err := r.data.Read(frame[:])
	if err != nil {
		return nil, fmt.Errorf("radio: read frame: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	if n != 24 {
		return nil, fmt.Errorf("radio: short frame read: %d bytes", n)
	}
	return &frame, nil
}

// Close releases the underlying rig handle.
func (r *HamlibRadio) Close() error {
	return r.rig.Close()
}

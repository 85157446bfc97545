package flarm

// Alarm tone playback via github.com/gordonklaus/portaudio. Reuses the
// teacher's gen_tone.go sine-table-accumulator idea, generalized from
// an AFSK audio encoder into a simple level-dependent beep sequencer:
// higher alarm levels get a higher tone repeated faster.

import (
	"fmt"
	"math"

	"github.com/gordonklaus/portaudio"
)

const soundSampleRate = 44100

// toneHz and repeatHz scale with alarm level; URGENT is both higher
// pitched and faster repeating than CLOSE, matching real FLARM units'
// audible urgency gradient.
var toneHz = [5]float64{0, 660, 880, 1100, 1400}
var repeatHz = [5]float64{0, 1, 1.5, 2.5, 4}

// PortaudioSound implements the Sound collaborator (§6
// "sound.notify(level)") by streaming a square-ish sine burst whose
// pitch and repetition rate depend on level.
type PortaudioSound struct {
	stream *portaudio.Stream
	phase  float64
	level  AlarmLevel
	active bool
}

// NewPortaudioSound opens the default output device. Callers must
// call Close when done to release the PortAudio stream.
func NewPortaudioSound() (*PortaudioSound, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("sound: initialize portaudio: %w", err)
	}

	s := &PortaudioSound{}
	stream, err := portaudio.OpenDefaultStream(0, 1, soundSampleRate, 0, s.fill)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("sound: open stream: %w", err)
	}
	s.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("sound: start stream: %w", err)
	}

	return s, nil
}

// Notify implements the Sound interface: AlarmNone silences the tone,
// anything above starts or retunes it.
func (s *PortaudioSound) Notify(level AlarmLevel) {
	s.level = level
	s.active = level != AlarmNone
}

func (s *PortaudioSound) fill(out []float32) {
	if !s.active {
		for i := range out {
			out[i] = 0
		}
		return
	}

	freq := toneHz[s.level]
	repeat := repeatHz[s.level]
	phaseStep := 2 * math.Pi * freq / soundSampleRate
	repeatStep := repeat / soundSampleRate

	for i := range out {
		s.phase += phaseStep
		dutyPhase := math.Mod(float64(i)*repeatStep, 1.0)
		if dutyPhase < 0.5 {
			out[i] = float32(math.Sin(s.phase)) * 0.3
		} else {
			out[i] = 0
		}
	}
}

// Close releases the PortAudio stream and library handle.
func (s *PortaudioSound) Close() error {
	if s.stream == nil {
		return nil
	}
	err := s.stream.Close()
	portaudio.Terminate()
	return err
}

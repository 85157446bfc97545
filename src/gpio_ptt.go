package flarm

// PTT keying and a status LED via bare GPIO, for boards where the
// radio's push-to-talk line is wired directly to a GPIO header rather
// than behind a Hamlib-controllable rig (see radio_hamlib.go for the
// Hamlib-control-plane alternative). Uses
// github.com/warthog618/go-gpiocdev, the modern Linux gpiochar-cdev
// API.

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOPTT drives a PTT line and an alert-status LED from two lines on
// the same gpiochip.
type GPIOPTT struct {
	pttLine *gpiocdev.Line
	ledLine *gpiocdev.Line
}

// NewGPIOPTT opens pttOffset (active-high key line) and ledOffset
// (alert indicator) on chip (e.g. "gpiochip0"), both as outputs.
func NewGPIOPTT(chip string, pttOffset, ledOffset int) (*GPIOPTT, error) {
	pttLine, err := gpiocdev.RequestLine(chip, pttOffset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("gpio_ptt: request PTT line %d: %w", pttOffset, err)
	}

	ledLine, err := gpiocdev.RequestLine(chip, ledOffset, gpiocdev.AsOutput(0))
	if err != nil {
		pttLine.Close()
		return nil, fmt.Errorf("gpio_ptt: request LED line %d: %w", ledOffset, err)
	}

	return &GPIOPTT{pttLine: pttLine, ledLine: ledLine}, nil
}

// Key asserts the PTT line; Unkey releases it.
func (g *GPIOPTT) Key() error   { return g.pttLine.SetValue(1) }
func (g *GPIOPTT) Unkey() error { return g.pttLine.SetValue(0) }

// SetAlertLED lights the status LED whenever level is above NONE,
// mirroring the audible alarm so a silenced unit still shows threat
// visually.
func (g *GPIOPTT) SetAlertLED(level AlarmLevel) error {
	v := 0
	if level != AlarmNone {
		v = 1
	}
	return g.ledLine.SetValue(v)
}

// Close releases both GPIO lines.
func (g *GPIOPTT) Close() error {
	err1 := g.pttLine.Close()
	err2 := g.ledLine.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

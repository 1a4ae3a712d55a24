package servo

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

// rpioCycle is the number of PWM clock divisions per period. 2000 steps
// at 50Hz gives 10us resolution on the pulse width.
const rpioCycle = 2000

// rpioBackend drives the pin through go-rpio's memory-mapped registers.
// Only BCM pins 12, 13, 18 and 19 are wired to the Pi's PWM channels.
type rpioBackend struct {
	pin    rpio.Pin
	opened bool
}

var rpioPWMPins = map[int]bool{
	12: true,
	13: true,
	18: true,
	19: true,
}

func newRPIOBackend() *rpioBackend {
	return &rpioBackend{}
}

func (b *rpioBackend) Name() string { return "rpio" }

func (b *rpioBackend) Configure(cfg Config) error {
	if !rpioPWMPins[cfg.Pin] {
		return fmt.Errorf("rpio: pin %d has no hardware PWM channel", cfg.Pin)
	}
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("rpio: open /dev/gpiomem: %w", err)
	}
	b.opened = true

	b.pin = rpio.Pin(cfg.Pin)
	b.pin.Mode(rpio.Pwm)
	// The PWM clock runs at freq * cycle so each period has rpioCycle steps.
	b.pin.Freq(cfg.Freq * rpioCycle)
	b.pin.DutyCycle(0, rpioCycle)
	return nil
}

func (b *rpioBackend) SetDuty(frac float64) error {
	if !b.opened {
		return ErrNotConfigured
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	b.pin.DutyCycle(uint32(frac*float64(rpioCycle)+0.5), rpioCycle)
	return nil
}

func (b *rpioBackend) Release() error {
	if !b.opened {
		return ErrNotConfigured
	}
	b.pin.DutyCycle(0, rpioCycle)
	return nil
}

func (b *rpioBackend) Close() error {
	if !b.opened {
		return nil
	}
	b.pin.DutyCycle(0, rpioCycle)
	b.opened = false
	return rpio.Close()
}

package servo

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// periphBackend drives the pin through periph.io's host drivers.
// On a Raspberry Pi this reaches the hardware PWM block when the pin
// supports it, falling back to periph's own software toggling otherwise.
type periphBackend struct {
	pin  gpio.PinIO
	freq physic.Frequency
}

func newPeriphBackend() *periphBackend {
	return &periphBackend{}
}

func (b *periphBackend) Name() string { return "periph" }

func (b *periphBackend) Configure(cfg Config) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}

	pin := gpioreg.ByName(strconv.Itoa(cfg.Pin))
	if pin == nil {
		pin = gpioreg.ByName("GPIO" + strconv.Itoa(cfg.Pin))
	}
	if pin == nil {
		return fmt.Errorf("periph: pin %d not found", cfg.Pin)
	}

	b.pin = pin
	b.freq = physic.Frequency(cfg.Freq) * physic.Hertz

	// Claim the channel with a zero signal. Failure here means the pin
	// is in use or PWM is not possible on this host.
	if err := pin.PWM(0, b.freq); err != nil {
		b.pin = nil
		return fmt.Errorf("periph: claim PWM on pin %d: %w", cfg.Pin, err)
	}
	return nil
}

func (b *periphBackend) SetDuty(frac float64) error {
	if b.pin == nil {
		return ErrNotConfigured
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	duty := gpio.Duty(frac * float64(gpio.DutyMax))
	return b.pin.PWM(duty, b.freq)
}

func (b *periphBackend) Release() error {
	if b.pin == nil {
		return ErrNotConfigured
	}
	return b.pin.PWM(0, b.freq)
}

func (b *periphBackend) Close() error {
	if b.pin == nil {
		return nil
	}
	err := b.pin.Halt()
	b.pin = nil
	return err
}

// Package servo drives the single PWM servo that acts as the robot's mouth.
//
// The package separates the hardware write path (Backend) from the angle
// bookkeeping (Actuator). Backends are interchangeable: a periph.io driver,
// a memory-mapped go-rpio driver, and a no-op driver used for tests and for
// running without hardware. Exactly one Actuator owns a GPIO pin at a time;
// two PWM drivers on one pin conflict electrically.
package servo

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrHardwareUnavailable is returned when no backend can claim the
	// PWM channel (pin busy, missing permissions, no driver on this host).
	ErrHardwareUnavailable = errors.New("servo: hardware unavailable")

	// ErrNotConfigured is returned by backend writes before Configure.
	ErrNotConfigured = errors.New("servo: backend not configured")
)

// Angle limits in degrees. Everything outside is clamped.
const (
	AngleMin = 0
	AngleMax = 180
)

// Config holds the PWM calibration for one servo.
type Config struct {
	// Pin is the BCM GPIO number carrying the control signal.
	Pin int

	// MinDuty and MaxDuty are the duty-cycle fractions for 0 and 180
	// degrees respectively (0.025-0.125 at 50Hz for SG90-class servos).
	MinDuty float64
	MaxDuty float64

	// Freq is the PWM frequency in Hz.
	Freq int
}

// Validate checks the calibration is usable.
func (c Config) Validate() error {
	if c.Pin <= 0 {
		return fmt.Errorf("servo: invalid pin %d", c.Pin)
	}
	if c.MinDuty < 0 || c.MaxDuty <= c.MinDuty || c.MaxDuty > 1 {
		return fmt.Errorf("servo: invalid duty range [%v, %v]", c.MinDuty, c.MaxDuty)
	}
	if c.Freq <= 0 {
		return fmt.Errorf("servo: invalid frequency %d", c.Freq)
	}
	return nil
}

// AngleToDuty converts an angle in degrees to a duty-cycle fraction.
// The angle is clamped to [AngleMin, AngleMax] first; the mapping is
// linear between MinDuty and MaxDuty.
func (c Config) AngleToDuty(angle int) float64 {
	a := ClampAngle(angle)
	return c.MinDuty + (float64(a)/float64(AngleMax))*(c.MaxDuty-c.MinDuty)
}

// ClampAngle restricts an angle to the servo's valid range.
func ClampAngle(angle int) int {
	if angle < AngleMin {
		return AngleMin
	}
	if angle > AngleMax {
		return AngleMax
	}
	return angle
}

// Backend is the raw PWM write path for one servo pin.
//
// Implementations do not need to be safe for concurrent use; the Actuator
// serializes all calls. Close should be best-effort and leave the pin in a
// safe (unpowered) state.
type Backend interface {
	// Name identifies the backend for logging and status reports.
	Name() string

	// Configure claims the PWM channel. It is called at most once.
	Configure(cfg Config) error

	// SetDuty drives the pin at the given duty-cycle fraction [0, 1].
	SetDuty(frac float64) error

	// Release stops driving the pin. The servo loses holding torque but
	// also stops jittering. Idempotent.
	Release() error

	// Close releases the signal and relinquishes the channel.
	Close() error
}

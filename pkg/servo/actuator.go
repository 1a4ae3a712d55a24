package servo

import (
	"sync"

	"github.com/jesterlabs/go-jester/internal/log"
)

// Actuator owns exactly one servo Backend and serializes every write to it.
//
// If no backend can be configured the Actuator runs disabled: all motion
// calls are silent no-ops and Err reports why. The condition is detected
// once at construction and cached; callers never re-probe and never crash.
type Actuator struct {
	cfg     Config
	backend Backend

	mu        sync.Mutex
	lastAngle int
	hasAngle  bool
	closed    bool

	available bool
	err       error
}

// New probes the default backend order (periph.io, then go-rpio) and
// returns an Actuator bound to the first one that claims the pin.
// On total failure the Actuator is disabled, never nil.
func New(cfg Config) *Actuator {
	backend, err := Detect(cfg)
	if err != nil {
		return Disabled(cfg, err)
	}
	return NewWithBackend(cfg, backend)
}

// NewWithBackend wraps an already-configured backend.
func NewWithBackend(cfg Config, backend Backend) *Actuator {
	return &Actuator{
		cfg:       cfg,
		backend:   backend,
		available: true,
	}
}

// Disabled returns an Actuator whose motion calls are all no-ops.
// err records why the hardware is unavailable.
func Disabled(cfg Config, err error) *Actuator {
	if err == nil {
		err = ErrHardwareUnavailable
	}
	log.Warn("servo disabled, animations will be no-ops", "error", err)
	return &Actuator{cfg: cfg, err: err}
}

// Available reports whether the hardware channel was claimed.
func (a *Actuator) Available() bool {
	return a.available
}

// Err returns the startup failure for a disabled Actuator, nil otherwise.
func (a *Actuator) Err() error {
	return a.err
}

// Backend returns the name of the active backend, or "none".
func (a *Actuator) Backend() string {
	if !a.available {
		return "none"
	}
	return a.backend.Name()
}

// Config returns the PWM calibration.
func (a *Actuator) Config() Config {
	return a.cfg
}

// SetAngle clamps angle to [0, 180], converts it to a duty cycle and
// writes it to the hardware. The write and the last-angle bookkeeping
// happen atomically under the guard. No-op when disabled.
func (a *Actuator) SetAngle(angle int) error {
	if !a.available {
		return nil
	}
	angle = ClampAngle(angle)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	if err := a.backend.SetDuty(a.cfg.AngleToDuty(angle)); err != nil {
		return err
	}
	a.lastAngle = angle
	a.hasAngle = true
	return nil
}

// Release stops driving the pin. The servo may drift under load but no
// longer jitters. Idempotent; no-op when disabled.
func (a *Actuator) Release() error {
	if !a.available {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	return a.backend.Release()
}

// Hold re-asserts the duty cycle for the last commanded angle.
// No-op if no angle has ever been set.
func (a *Actuator) Hold() error {
	if !a.available {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || !a.hasAngle {
		return nil
	}
	return a.backend.SetDuty(a.cfg.AngleToDuty(a.lastAngle))
}

// LastAngle returns the last commanded angle. ok is false until the
// first successful SetAngle.
func (a *Actuator) LastAngle() (angle int, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastAngle, a.hasAngle
}

// Shutdown releases the signal and relinquishes the hardware channel.
// Safe to call multiple times and safe when configuration never succeeded.
func (a *Actuator) Shutdown() {
	if !a.available {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	if err := a.backend.Release(); err != nil {
		log.Warn("servo release on shutdown failed", "error", err)
	}
	if err := a.backend.Close(); err != nil {
		log.Warn("servo close failed", "error", err)
	}
}

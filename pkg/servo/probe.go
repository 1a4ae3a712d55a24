package servo

import (
	"github.com/jesterlabs/go-jester/internal/log"
)

// Detect tries each hardware backend in preference order and returns the
// first one that successfully claims the pin. periph.io is preferred
// because it can use the SoC's PWM block through the kernel driver;
// go-rpio maps /dev/gpiomem directly and needs no driver but conflicts
// with anything else touching the PWM clock.
func Detect(cfg Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, backend := range []Backend{newPeriphBackend(), newRPIOBackend()} {
		if err := backend.Configure(cfg); err != nil {
			log.Debug("servo backend unavailable",
				"backend", backend.Name(),
				"error", err,
			)
			continue
		}
		log.Info("servo backend selected",
			"backend", backend.Name(),
			"pin", cfg.Pin,
			"freq_hz", cfg.Freq,
		)
		return backend, nil
	}

	return nil, ErrHardwareUnavailable
}

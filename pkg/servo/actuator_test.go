package servo_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/jesterlabs/go-jester/pkg/servo"
)

func testConfig() servo.Config {
	return servo.Config{Pin: 18, MinDuty: 0.025, MaxDuty: 0.125, Freq: 50}
}

func TestAngleToDuty(t *testing.T) {
	cfg := testConfig()

	t.Run("endpoints", func(t *testing.T) {
		if got := cfg.AngleToDuty(0); got != cfg.MinDuty {
			t.Errorf("AngleToDuty(0) = %v, want %v", got, cfg.MinDuty)
		}
		if got := cfg.AngleToDuty(180); got != cfg.MaxDuty {
			t.Errorf("AngleToDuty(180) = %v, want %v", got, cfg.MaxDuty)
		}
	})

	t.Run("monotonic", func(t *testing.T) {
		prev := math.Inf(-1)
		for a := 0; a <= 180; a++ {
			d := cfg.AngleToDuty(a)
			if d < prev {
				t.Fatalf("duty decreased at angle %d: %v < %v", a, d, prev)
			}
			prev = d
		}
	})

	t.Run("out of range clamps", func(t *testing.T) {
		if got := cfg.AngleToDuty(-45); got != cfg.AngleToDuty(0) {
			t.Errorf("AngleToDuty(-45) = %v, want %v", got, cfg.AngleToDuty(0))
		}
		if got := cfg.AngleToDuty(999); got != cfg.AngleToDuty(180) {
			t.Errorf("AngleToDuty(999) = %v, want %v", got, cfg.AngleToDuty(180))
		}
	})
}

func TestClampAngle(t *testing.T) {
	cases := []struct{ in, want int }{
		{-1, 0}, {0, 0}, {90, 90}, {180, 180}, {181, 180}, {-360, 0}, {720, 180},
	}
	for _, c := range cases {
		if got := servo.ClampAngle(c.in); got != c.want {
			t.Errorf("ClampAngle(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSetAngle(t *testing.T) {
	t.Run("clamped write equals in-range write", func(t *testing.T) {
		cfg := testConfig()

		for _, pair := range [][2]int{{-45, 0}, {999, 180}} {
			a := servo.NewWithBackend(cfg, servo.NewMockBackend())
			b := servo.NewWithBackend(cfg, servo.NewMockBackend())

			if err := a.SetAngle(pair[0]); err != nil {
				t.Fatalf("SetAngle(%d): %v", pair[0], err)
			}
			if err := b.SetAngle(pair[1]); err != nil {
				t.Fatalf("SetAngle(%d): %v", pair[1], err)
			}

			gotA, _ := a.LastAngle()
			gotB, _ := b.LastAngle()
			if gotA != gotB {
				t.Errorf("SetAngle(%d) recorded %d, SetAngle(%d) recorded %d",
					pair[0], gotA, pair[1], gotB)
			}
		}
	})

	t.Run("records last angle", func(t *testing.T) {
		a := servo.NewWithBackend(testConfig(), servo.NewMockBackend())
		if _, ok := a.LastAngle(); ok {
			t.Error("expected no angle before first command")
		}
		if err := a.SetAngle(45); err != nil {
			t.Fatal(err)
		}
		if angle, ok := a.LastAngle(); !ok || angle != 45 {
			t.Errorf("LastAngle() = %d, %v; want 45, true", angle, ok)
		}
	})

	t.Run("backend failure does not record angle", func(t *testing.T) {
		mock := servo.NewMockBackend()
		mock.SetDutyFunc = func(frac float64) error { return errors.New("bus fault") }
		a := servo.NewWithBackend(testConfig(), mock)

		if err := a.SetAngle(90); err == nil {
			t.Fatal("expected error")
		}
		if _, ok := a.LastAngle(); ok {
			t.Error("angle recorded despite failed write")
		}
	})
}

func TestDisabledActuator(t *testing.T) {
	a := servo.Disabled(testConfig(), servo.ErrHardwareUnavailable)

	t.Run("reports unavailable", func(t *testing.T) {
		if a.Available() {
			t.Error("expected Available() == false")
		}
		if !errors.Is(a.Err(), servo.ErrHardwareUnavailable) {
			t.Errorf("Err() = %v, want ErrHardwareUnavailable", a.Err())
		}
		if a.Backend() != "none" {
			t.Errorf("Backend() = %q, want none", a.Backend())
		}
	})

	t.Run("all motion calls are silent no-ops", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			if err := a.SetAngle(90); err != nil {
				t.Fatalf("SetAngle: %v", err)
			}
			if err := a.Release(); err != nil {
				t.Fatalf("Release: %v", err)
			}
			if err := a.Hold(); err != nil {
				t.Fatalf("Hold: %v", err)
			}
		}
		a.Shutdown()
		a.Shutdown()
	})
}

func TestHold(t *testing.T) {
	t.Run("no-op before first angle", func(t *testing.T) {
		mock := servo.NewMockBackend()
		a := servo.NewWithBackend(testConfig(), mock)
		if err := a.Hold(); err != nil {
			t.Fatal(err)
		}
		if n := mock.CallCount("SetDuty"); n != 0 {
			t.Errorf("expected no writes, got %d", n)
		}
	})

	t.Run("re-asserts last duty", func(t *testing.T) {
		cfg := testConfig()
		mock := servo.NewMockBackend()
		a := servo.NewWithBackend(cfg, mock)

		if err := a.SetAngle(45); err != nil {
			t.Fatal(err)
		}
		if err := a.Hold(); err != nil {
			t.Fatal(err)
		}

		duties := mock.Duties()
		if len(duties) != 2 {
			t.Fatalf("expected 2 writes, got %d", len(duties))
		}
		if duties[0] != duties[1] || duties[1] != cfg.AngleToDuty(45) {
			t.Errorf("Hold wrote %v, want %v", duties[1], cfg.AngleToDuty(45))
		}
	})
}

func TestShutdown(t *testing.T) {
	mock := servo.NewMockBackend()
	a := servo.NewWithBackend(testConfig(), mock)

	a.Shutdown()
	a.Shutdown()
	a.Shutdown()

	if n := mock.CallCount("Close"); n != 1 {
		t.Errorf("expected exactly 1 Close, got %d", n)
	}
	if n := mock.CallCount("Release"); n != 1 {
		t.Errorf("expected exactly 1 Release, got %d", n)
	}

	// Writes after shutdown must not reach the dead handle.
	if err := a.SetAngle(10); err != nil {
		t.Fatal(err)
	}
	if n := mock.CallCount("SetDuty"); n != 0 {
		t.Errorf("SetDuty reached backend after shutdown (%d calls)", n)
	}
}

// torn is a backend that stores each duty in two unsynchronized fields.
// Without the actuator's guard, concurrent writers would interleave and
// the fields would disagree (and the race detector would fire).
type torn struct {
	hi, lo float64
	tears  int
}

func (b *torn) Name() string                 { return "torn" }
func (b *torn) Configure(servo.Config) error { return nil }
func (b *torn) Release() error               { return nil }
func (b *torn) Close() error                 { return nil }

func (b *torn) SetDuty(frac float64) error {
	if b.hi != b.lo {
		b.tears++
	}
	b.hi = frac
	b.lo = frac
	return nil
}

func TestConcurrentSetAngleSerialized(t *testing.T) {
	cfg := testConfig()
	backend := &torn{}
	a := servo.NewWithBackend(cfg, backend)

	const iterations = 500
	var wg sync.WaitGroup
	for _, angle := range []int{10, 170} {
		wg.Add(1)
		go func(angle int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				if err := a.SetAngle(angle); err != nil {
					t.Errorf("SetAngle(%d): %v", angle, err)
					return
				}
			}
		}(angle)
	}
	wg.Wait()

	if backend.tears != 0 {
		t.Errorf("observed %d torn duty writes", backend.tears)
	}

	last, ok := a.LastAngle()
	if !ok {
		t.Fatal("no angle recorded")
	}
	if last != 10 && last != 170 {
		t.Errorf("last angle %d is neither of the two requested angles", last)
	}
	if backend.hi != cfg.AngleToDuty(last) {
		t.Errorf("backend duty %v does not match last angle %d", backend.hi, last)
	}
}

package servo

import (
	"sync"
	"time"
)

// Mock implements Backend for testing.
// All methods can be customized via function fields; by default every
// command succeeds and is recorded.
type Mock struct {
	// ConfigureFunc is called when Configure is invoked. Nil means success.
	ConfigureFunc func(cfg Config) error

	// SetDutyFunc is called when SetDuty is invoked. Nil means success.
	SetDutyFunc func(frac float64) error

	// ReleaseFunc is called when Release is invoked. Nil means success.
	ReleaseFunc func() error

	// CloseFunc is called when Close is invoked. Nil means success.
	CloseFunc func() error

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method string
	Duty   float64
	Time   time.Time
}

// NewMockBackend creates a mock backend that records every call.
func NewMockBackend() *Mock {
	return &Mock{}
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Configure(cfg Config) error {
	m.record("Configure", 0)
	if m.ConfigureFunc != nil {
		return m.ConfigureFunc(cfg)
	}
	return nil
}

func (m *Mock) SetDuty(frac float64) error {
	m.record("SetDuty", frac)
	if m.SetDutyFunc != nil {
		return m.SetDutyFunc(frac)
	}
	return nil
}

func (m *Mock) Release() error {
	m.record("Release", 0)
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc()
	}
	return nil
}

func (m *Mock) Close() error {
	m.record("Close", 0)
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *Mock) record(method string, duty float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Duty: duty, Time: time.Now()})
}

// Calls returns a copy of all recorded calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times method was invoked.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Duties returns the duty fraction of every SetDuty call in order.
func (m *Mock) Duties() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []float64
	for _, c := range m.calls {
		if c.Method == "SetDuty" {
			out = append(out, c.Duty)
		}
	}
	return out
}

// Reset clears the recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify Mock implements Backend at compile time.
var _ Backend = (*Mock)(nil)

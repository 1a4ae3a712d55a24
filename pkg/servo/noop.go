package servo

// NoopBackend accepts every command and drives nothing. It carries the
// degraded "no hardware" mode in development and backs the unit tests.
type NoopBackend struct{}

// NewNoop returns a backend that discards all writes.
func NewNoop() *NoopBackend { return &NoopBackend{} }

func (*NoopBackend) Name() string               { return "noop" }
func (*NoopBackend) Configure(cfg Config) error { return nil }
func (*NoopBackend) SetDuty(frac float64) error { return nil }
func (*NoopBackend) Release() error             { return nil }
func (*NoopBackend) Close() error               { return nil }

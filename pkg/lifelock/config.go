package lifelock

// Config carries the build-time knobs spec.md §6 describes as compile-time
// flags (COMPRESSED, USE_NATIVE_WAIT, SPIN_COUNT, SLEEP_MAX_USEC_LOG2). Go
// has no equivalent of a C++ preprocessor flag that changes struct layout,
// so these are ordinary runtime fields instead, set once per Barrier/Cell
// at construction via Option and otherwise left alone — "build-time" in
// spirit, not in the type system.
type Config struct {
	// Compressed selects the compressed Anchor storage strategy from
	// spec.md §4.1. On this port Anchor already stores nothing but a
	// *rc.ControlBlock (Go has no shared_ptr layout to compress further),
	// so this flag is carried for API fidelity and is a documented no-op;
	// see DESIGN.md.
	Compressed bool

	// UseNativeWait selects the channel-based wait (closed exactly once by
	// the deleter) over the spin+sleep backoff loop. Default true.
	UseNativeWait bool

	// SpinCount bounds the spin phase of the backoff wait. Default 1<<14,
	// matching spec.md §4.2.1's recommended value.
	SpinCount int

	// SleepMaxUsecLog2 bounds the exponent used to compute backoff sleep
	// duration: sleep = 2^min(i, SleepMaxUsecLog2) microseconds. Default
	// 18 (~0.26s), matching spec.md §4.2.1.
	SleepMaxUsecLog2 int

	// SlowWaitThresholdNanos, if nonzero, causes Disarm to log a Warn every
	// time a single wait reaches this many nanoseconds. Ambient diagnostics
	// only; not part of spec.md.
	SlowWaitThresholdNanos int64
}

// DefaultConfig returns the spec's recommended defaults.
func DefaultConfig() Config {
	return Config{
		Compressed:             false,
		UseNativeWait:          true,
		SpinCount:              1 << 14,
		SleepMaxUsecLog2:       18,
		SlowWaitThresholdNanos: int64(50_000_000), // 50ms
	}
}

// Option configures a Barrier or Cell at construction time.
type Option func(*Config)

// WithCompressed is a documented no-op on this port; see Config.Compressed.
func WithCompressed(v bool) Option {
	return func(c *Config) { c.Compressed = v }
}

// WithNativeWait selects the wait strategy used by Disarm.
func WithNativeWait(v bool) Option {
	return func(c *Config) { c.UseNativeWait = v }
}

// WithSpinCount overrides the spin-phase iteration bound.
func WithSpinCount(n int) Option {
	return func(c *Config) { c.SpinCount = n }
}

// WithSleepMaxUsecLog2 overrides the backoff sleep exponent cap.
func WithSleepMaxUsecLog2(n int) Option {
	return func(c *Config) { c.SleepMaxUsecLog2 = n }
}

// WithSlowWaitThreshold overrides the slow-wait diagnostic log threshold.
// Zero disables the warning entirely.
func WithSlowWaitThreshold(nanos int64) Option {
	return func(c *Config) { c.SlowWaitThresholdNanos = nanos }
}

func buildConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

package memo

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultStripes is the number of lock stripes an entry table is split into.
const DefaultStripes = 16

// Clock reports the current time. Entries are stamped and checked with it.
type Clock func() time.Time

// Config configures a FunctionCache or a Registry.
// The zero value is usable: no expiry, no logging, global OpenTelemetry providers.
type Config struct {
	// Timeout is how long a stored result stays fresh.
	// Zero or negative means results never expire.
	Timeout time.Duration

	// Stripes is the number of independently locked partitions of an entry table.
	Stripes int

	Logger         *zap.Logger
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider

	// Clock defaults to time.Now.
	Clock Clock
}

// NewConfig returns a normalized Config with the given timeout.
func NewConfig(timeout time.Duration) Config {
	return Config{Timeout: timeout}.normalize()
}

// WithLogger returns a copy of c that logs to logger.
func (c Config) WithLogger(logger *zap.Logger) Config {
	c.Logger = logger
	return c
}

// WithClock returns a copy of c that reads time from clock.
func (c Config) WithClock(clock Clock) Config {
	c.Clock = clock
	return c
}

// WithTelemetry returns a copy of c that reports to the given providers.
// Nil providers fall back to the global ones.
func (c Config) WithTelemetry(mp metric.MeterProvider, tp trace.TracerProvider) Config {
	c.MeterProvider = mp
	c.TracerProvider = tp
	return c
}

func (c Config) normalize() Config {
	if c.Timeout <= 0 {
		c.Timeout = NoTimeout
	}
	if c.Stripes <= 0 {
		c.Stripes = DefaultStripes
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.MeterProvider == nil {
		c.MeterProvider = otel.GetMeterProvider()
	}
	if c.TracerProvider == nil {
		c.TracerProvider = otel.GetTracerProvider()
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-flightcore/pkg/config"
	"github.com/opd-ai/go-flightcore/pkg/control"
	"github.com/opd-ai/go-flightcore/pkg/logging"
)

// Sink is anything that stores control samples
type Sink interface {
	Record(ctx context.Context, simTime float64, state control.AircraftControlState) error
}

// BreakerRecorder wraps a Sink with a circuit breaker. After too many
// consecutive failures the breaker opens and samples are dropped without
// touching the sink until the timeout elapses.
type BreakerRecorder struct {
	sink    Sink
	breaker *gobreaker.CircuitBreaker
	logger  *logging.Logger
}

// NewBreakerRecorder creates a breaker around sink using the recorder settings
func NewBreakerRecorder(sink Sink, cfg config.RecorderConfig, logger *logging.Logger) *BreakerRecorder {
	if logger == nil {
		logger = logging.NewLogger()
	}

	maxFailures := cfg.MaxConsecutiveFailures
	if maxFailures <= 0 {
		maxFailures = 1
	}

	settings := gobreaker.Settings{
		Name:        "flight-recorder",
		MaxRequests: 1,
		Timeout:     time.Duration(cfg.BreakerTimeout * float64(time.Second)),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerRecorder{
		sink:    sink,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Record passes the sample to the sink unless the breaker is open
func (b *BreakerRecorder) Record(ctx context.Context, simTime float64, state control.AircraftControlState) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.sink.Record(ctx, simTime, state)
	})
	if err != nil {
		return fmt.Errorf("circuit breaker: %w", err)
	}
	return nil
}

// State returns the current state of the circuit breaker
func (b *BreakerRecorder) State() gobreaker.State {
	return b.breaker.State()
}

// Counts returns the breaker's failure and success counts
func (b *BreakerRecorder) Counts() gobreaker.Counts {
	return b.breaker.Counts()
}

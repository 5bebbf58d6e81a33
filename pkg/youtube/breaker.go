package youtube

import (
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/arnavshah/workout-scheduler-go/pkg/logging"
)

// tripAfter is the number of consecutive failed calls that opens the breaker.
// Quota exhaustion fails every call, so later channels fail fast instead of retrying.
const tripAfter = 5

func newBreaker() *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "youtube-data-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
}

package collector

import (
	"errors"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/dgallion1/statflat/internal/monitor"
)

// MaxRetries bounds fetch attempts within one collection cycle.
const MaxRetries = 3

// IsRetryable checks if a fetch error is worth retrying: transport
// failures, throttling, and server-side errors. Auth failures and
// malformed documents are not.
func IsRetryable(err error) bool {
	var statusErr *monitor.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= 500
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

// Package embedding holds helpers shared by the embedding provider adapters.
package embedding

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/quotebank/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is quoted in errors.
const maxErrorBody = 512

// Throttle spaces out requests to an embedding provider.
// A nil Throttle never waits.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle creates a throttle allowing rps requests per second.
// Returns nil when rps is not positive.
func NewThrottle(rps float64) *Throttle {
	if rps <= 0 {
		return nil
	}
	burst := max(1, int(math.Ceil(rps)))
	return &Throttle{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until a request may be sent or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}

// StatusError converts a non-200 provider response into an error.
// 429 responses wrap domain.ErrRateLimited so callers can tell them apart.
func StatusError(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w (status %d): %s", provider, domain.ErrRateLimited, status, msg)
	}
	return fmt.Errorf("%s error (status %d): %s", provider, status, msg)
}

// ToFloat32 narrows a decoded JSON vector. Empty input and components
// outside the float32 range are rejected.
func ToFloat32(values []float64) ([]float32, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty vector in response", domain.ErrInvalidEmbedding)
	}
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	if err := domain.CheckFinite(out); err != nil {
		return nil, err
	}
	return out, nil
}

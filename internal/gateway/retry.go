package gateway

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/deepwrite/deepwrite/internal/constants"
)

// retryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
//
//nolint:gochecknoglobals // Overridden by tests
var retryBaseDelay = constants.InitialBackoff

// doWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests) with exponential backoff. The request body must be rewindable
// (req.GetBody set or a nil body) for retries to work.
//
// On each 429 the response body is drained and closed before sleeping. If the
// context is canceled during a backoff wait the function returns ctx.Err().
// After exhausting retries the last 429 response is returned so the caller
// can inspect it.
func doWithRetry(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		if attempt >= constants.MaxRetryAttempts {
			return resp, nil
		}

		// Drain and close the body before retrying.
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * retryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}

		// Rewind the body for the next attempt.
		if req.GetBody != nil {
			body, bodyErr := req.GetBody()
			if bodyErr != nil {
				return nil, bodyErr
			}
			req.Body = body
		}
	}
}

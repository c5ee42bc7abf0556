package remote

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// backoffBase is the first retry delay; subsequent delays double.
const backoffBase = 500 * time.Millisecond

// Do runs fn with bounded exponential backoff. retries is the number of
// additional attempts after the first, so fn runs between 1 and retries+1
// times. Errors that Retryable rejects abort immediately. The returned count
// is the number of attempts actually made; on success err is nil.
//
// ctx gates admission of the next attempt: once it is cancelled no further
// attempt starts. Callers that must let an in-flight attempt finish pass a
// detached context into the request they issue from fn.
func Do(ctx context.Context, retries int, fn func(context.Context) error) (int, error) {
	if retries < 0 {
		retries = 0
	}

	attempts := 0
	backoff := retry.WithMaxRetries(uint64(retries), retry.NewExponential(backoffBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		if err := fn(ctx); err != nil {
			if Retryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	return attempts, err
}

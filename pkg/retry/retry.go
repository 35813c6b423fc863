package retry

import "time"

type fn func() error
type shouldRetry func(err error, attempt int) bool

// WrapWithRetry wraps f, re-running it after delay while it fails and
// shouldRetry approves. The last error is returned once shouldRetry gives
// up.
func WrapWithRetry(f fn, shouldRetry shouldRetry, delay time.Duration) fn {
	return func() error {
		for attempt := 1; ; attempt++ {
			err := f()
			if err == nil {
				return nil
			}
			if !shouldRetry(err, attempt) {
				return err
			}
			time.Sleep(delay)
		}
	}
}

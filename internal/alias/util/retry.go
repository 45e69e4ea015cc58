package util

import (
	"time"
)

// RetryPolicy is a fixed attempt budget with a constant pause between tries.
type RetryPolicy struct {
	Attempts int
	Pause    time.Duration
}

var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Pause: 5 * time.Millisecond}

// Retry calls fn until it returns nil or the budget is spent. It returns the
// number of calls made and the last error. At least one call is always made.
func Retry(p RetryPolicy, fn func() error) (int, error) {
	attempts := max(p.Attempts, 1)
	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(); err == nil {
			return i, nil
		}
		if i < attempts && p.Pause > 0 {
			time.Sleep(p.Pause)
		}
	}
	return attempts, err
}

package storage

import (
	"io"
	"time"

	"golang.org/x/time/rate"
)

// NewLimiter returns nil when bytesPerSec is not positive (unlimited).
func NewLimiter(bytesPerSec int) *rate.Limiter {
	if bytesPerSec <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec)
}

// throttledWriter blocks the caller until the limiter admits each write.
// The sort is synchronous, so waiting is a plain sleep on the reservation.
type throttledWriter struct {
	w   io.Writer
	lim *rate.Limiter
}

func throttle(w io.Writer, lim *rate.Limiter) io.Writer {
	if lim == nil {
		return w
	}
	return &throttledWriter{w: w, lim: lim}
}

func (t *throttledWriter) Write(p []byte) (int, error) {
	written := 0
	burst := t.lim.Burst()
	for written < len(p) {
		chunk := p[written:]
		if len(chunk) > burst {
			chunk = chunk[:burst]
		}
		now := time.Now()
		if d := t.lim.ReserveN(now, len(chunk)).DelayFrom(now); d > 0 {
			time.Sleep(d)
		}
		n, err := t.w.Write(chunk)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

package resource

import (
	"context"
	"io"
)

// RateLimitedWriter wraps an io.Writer with the controller's IO limit.
// Large writes are split into chunks no bigger than the limiter burst.
type RateLimitedWriter struct {
	ctx context.Context
	w   io.Writer
	rc  *Controller
}

// NewRateLimitedWriter creates a new RateLimitedWriter.
func NewRateLimitedWriter(ctx context.Context, w io.Writer, rc *Controller) *RateLimitedWriter {
	return &RateLimitedWriter{ctx: ctx, w: w, rc: rc}
}

func (w *RateLimitedWriter) Write(p []byte) (int, error) {
	burst := w.rc.IOBurst()
	if burst <= 0 {
		return w.w.Write(p)
	}

	total := 0
	for len(p) > 0 {
		chunk := p
		if len(chunk) > burst {
			chunk = chunk[:burst]
		}
		if err := w.rc.AcquireIO(w.ctx, len(chunk)); err != nil {
			return total, err
		}
		n, err := w.w.Write(chunk)
		total += n
		if err != nil {
			return total, err
		}
		p = p[n:]
	}
	return total, nil
}

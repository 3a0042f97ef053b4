package metrics

import (
	"context"
	"time"
)

// Recorder receives notation service metrics
type Recorder interface {
	RecordRender(ctx context.Context, format string, notes, skipped int, duration time.Duration, success bool)
	RecordValidation(ctx context.Context, ok bool, errorCount int)
}

type multiRecorder []Recorder

// Multi fans metrics out to every non-nil recorder
func Multi(recorders ...Recorder) Recorder {
	out := make(multiRecorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m multiRecorder) RecordRender(ctx context.Context, format string, notes, skipped int, duration time.Duration, success bool) {
	for _, r := range m {
		r.RecordRender(ctx, format, notes, skipped, duration, success)
	}
}

func (m multiRecorder) RecordValidation(ctx context.Context, ok bool, errorCount int) {
	for _, r := range m {
		r.RecordValidation(ctx, ok, errorCount)
	}
}

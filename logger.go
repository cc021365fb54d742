package kclust

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with kclust-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithTrial adds a trial index field to the logger.
func (l *Logger) WithTrial(trial int) *Logger {
	return &Logger{
		Logger: l.Logger.With("trial", trial),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogRun logs a completed multi-trial run.
func (l *Logger) LogRun(ctx context.Context, trials int, dissimilarity float64, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "clustering failed",
			"trials", trials,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "clustering completed",
			"trials", trials,
			"dissimilarity", dissimilarity,
			"elapsed", elapsed,
		)
	}
}

// LogTrial logs the outcome of a single trial.
func (l *Logger) LogTrial(ctx context.Context, report TrialReport) {
	if report.Succeeded {
		l.DebugContext(ctx, "trial completed",
			"attempts", report.Attempts,
			"iterations", report.Iterations,
			"dissimilarity", report.Dissimilarity,
		)
	} else {
		l.WarnContext(ctx, "trial exhausted its retries",
			"attempts", report.Attempts,
		)
	}
}

// LogRetry logs an attempt discarded because a cluster ended up empty.
func (l *Logger) LogRetry(ctx context.Context, attempt int, err error) {
	l.DebugContext(ctx, "retrying with new seeds",
		"attempt", attempt,
		"reason", err,
	)
}

// LogIteration logs one assign/update step of a clustering pass.
func (l *Logger) LogIteration(ctx context.Context, it Iteration) {
	l.DebugContext(ctx, "iteration",
		"attempt", it.Attempt,
		"iteration", it.Number,
		"max_shift", it.MaxShift,
		"converged", it.Converged,
	)
}

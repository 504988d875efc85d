// Package common holds small helpers shared by the commands.
package common

import (
	"log/slog"
	"time"
)

// Timer measures one named phase of a command for debug logging.
type Timer struct {
	name     string
	start    time.Time
	duration time.Duration
	stopped  bool
}

// NewNamedTimer starts a timer for the named phase.
func NewNamedTimer(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop records the elapsed time. Later calls keep the first measurement.
func (t *Timer) Stop() time.Duration {
	if !t.stopped {
		t.duration = time.Since(t.start)
		t.stopped = true
	}
	return t.duration
}

// Duration returns the recorded duration, or the running time if the timer
// has not been stopped.
func (t *Timer) Duration() time.Duration {
	if !t.stopped {
		return time.Since(t.start)
	}
	return t.duration
}

func (t *Timer) Name() string { return t.name }

func (t *Timer) String() string {
	return t.name + ": " + t.Duration().String()
}

// LogValue renders the timer as a slog group.
func (t *Timer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("phase", t.name),
		slog.Duration("elapsed", t.Duration()),
	)
}

package common

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer(t *testing.T) {
	timer := NewNamedTimer("decode")
	assert.Equal(t, "decode", timer.Name())

	time.Sleep(10 * time.Millisecond)

	d := timer.Stop()
	assert.GreaterOrEqual(t, d, 10*time.Millisecond)
	assert.Equal(t, d, timer.Duration())

	time.Sleep(time.Millisecond)
	assert.Equal(t, d, timer.Stop(), "second Stop keeps the first measurement")
	assert.Contains(t, timer.String(), "decode: ")
	assert.Contains(t, timer.String(), "ms")
}

func TestTimerLogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	timer := NewNamedTimer("encode")
	timer.Stop()
	logger.Info("done", "timer", timer)

	out := buf.String()
	assert.Contains(t, out, "timer.phase=encode")
	assert.Contains(t, out, "timer.elapsed=")
}

package reembed

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock advances by step on every read.
func fakeClock(step time.Duration) func() time.Time {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}
}

func newTestTracker(buf *bytes.Buffer, total, interval int) *ProgressTracker {
	tracker := NewProgressTracker(buf, total, interval)
	tracker.now = fakeClock(time.Second)
	return tracker
}

func TestProgressTracker_ReportInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 1000, 100)
	tracker.Start()

	tracker.Update(50)
	assert.Empty(t, buf.String(), "should not print under interval")

	tracker.Update(100)
	assert.Contains(t, buf.String(), "100/1000 chunks (10.0%)")

	buf.Reset()
	tracker.Update(150)
	assert.Empty(t, buf.String(), "interval counts from the last report")

	tracker.Update(250)
	assert.Contains(t, buf.String(), "250/1000")
}

func TestProgressTracker_RateAndRemaining(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 40, 10)

	tracker.Start()    // t=0
	tracker.Update(10) // reported at t=1s: 10 chunks/s, 30 left at 0.1s each
	line := buf.String()

	assert.Contains(t, line, "10.0 chunks/s")
	assert.Contains(t, line, "3s left")
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 100, 10)

	tracker.Start()
	tracker.Update(75)
	tracker.Finish()

	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\r")
	last := lines[len(lines)-1]
	assert.Contains(t, last, "100/100 chunks (100.0%)")
	assert.Contains(t, last, "0s left")
	assert.True(t, strings.HasSuffix(output, "\n"))
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 100, 10)

	tracker.Start()
	tracker.Update(150)

	assert.Contains(t, buf.String(), "100/100")
}

func TestProgressTracker_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 0, 10)

	tracker.Start()
	tracker.Finish()

	assert.Contains(t, buf.String(), "0/0 chunks (0.0%)")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 100, 10)

	tracker.Update(10)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}

func TestProgressTracker_Elapsed(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 10, 1)

	tracker.Start()
	assert.Equal(t, time.Second, tracker.Elapsed())
}

func TestProgressTracker_MinimumInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 10, 0)

	tracker.Start()
	tracker.Update(1)
	assert.Contains(t, buf.String(), "1/10")
}

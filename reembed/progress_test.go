package reembed

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestTracker(buf *bytes.Buffer, total, interval int) (*ProgressTracker, *time.Time) {
	tracker := NewProgressTracker(buf, total, interval)
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return clock }
	return tracker, &clock
}

func TestProgressTracker_Increment(t *testing.T) {
	var buf bytes.Buffer
	tracker, clock := newTestTracker(&buf, 100, 10)

	tracker.Start()
	*clock = clock.Add(2 * time.Second)
	tracker.Increment(25)
	tracker.Increment(25)
	tracker.Increment(50)

	assert.Equal(t, 2*time.Second, tracker.Elapsed())
	output := buf.String()
	assert.Contains(t, output, "100/100 (100.0%) - 50.0 reports/s")
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker, _ := newTestTracker(&buf, 10, 1)

	tracker.Start()
	tracker.Increment(25)

	assert.Equal(t, 10, tracker.current)
	assert.Contains(t, buf.String(), "10/10")
}

func TestProgressTracker_ReportInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker, _ := newTestTracker(&buf, 1000, 100)
	tracker.Start()

	tracker.Update(50)
	assert.Empty(t, buf.String(), "should not print under interval")

	tracker.Update(100)
	assert.Contains(t, buf.String(), "100/1000 (10.0%)")

	buf.Reset()
	tracker.Update(150)
	assert.Empty(t, buf.String(), "interval counts from the last report")

	tracker.Update(250)
	assert.Contains(t, buf.String(), "250/1000")
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker, _ := newTestTracker(&buf, 100, 10)

	tracker.Start()
	tracker.Update(75)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "100/100", "finish should set to total")
	assert.True(t, strings.HasSuffix(output, "\n"), "finish should print newline")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker, _ := newTestTracker(&buf, 100, 10)

	tracker.Update(50)
	tracker.Increment(50)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}

func TestProgressTracker_ZeroInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker, _ := newTestTracker(&buf, 3, 0)

	tracker.Start()
	tracker.Increment(1)
	tracker.Increment(1)

	assert.Equal(t, 2, strings.Count(buf.String(), "\r"))
}

func TestRate(t *testing.T) {
	assert.Zero(t, rate(10, 0))
	assert.InDelta(t, 5.0, rate(10, 2*time.Second), 1e-9)
}

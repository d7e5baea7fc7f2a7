package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts the work the event loop does.
type Metrics struct {
	// Paint timing
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64
	emptyFrames  atomic.Uint64

	// Input handling
	eventCount   atomic.Uint64
	eventTotalNs atomic.Int64
	eventIgnored atomic.Uint64

	autoScrollTicks atomic.Uint64
	configReloads   atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
	}
	m.frameMinNs.Store(1<<63 - 1)
	return m
}

// RecordFrame records the time one paint took.
func (m *Metrics) RecordFrame(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordEmptyFrame records a paint that found nothing dirty.
func (m *Metrics) RecordEmptyFrame() {
	m.emptyFrames.Add(1)
}

// RecordEvent records the time one input event took. consumed is false
// when the grid ignored the event.
func (m *Metrics) RecordEvent(duration time.Duration, consumed bool) {
	m.eventCount.Add(1)
	m.eventTotalNs.Add(duration.Nanoseconds())
	if !consumed {
		m.eventIgnored.Add(1)
	}
}

// RecordAutoScroll records one auto-scroll tick.
func (m *Metrics) RecordAutoScroll() {
	m.autoScrollTicks.Add(1)
}

// RecordReload records a configuration reload.
func (m *Metrics) RecordReload() {
	m.configReloads.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frameCount := m.frameCount.Load()
	eventCount := m.eventCount.Load()

	var avgFrameNs, avgEventNs int64
	if frameCount > 0 {
		avgFrameNs = m.frameTotalNs.Load() / int64(frameCount)
	}
	if eventCount > 0 {
		avgEventNs = m.eventTotalNs.Load() / int64(eventCount)
	}

	minFrame := m.frameMinNs.Load()
	if frameCount == 0 {
		minFrame = 0
	}

	return MetricsSnapshot{
		FrameCount:      frameCount,
		AvgFrameTimeNs:  avgFrameNs,
		MinFrameTimeNs:  minFrame,
		MaxFrameTimeNs:  m.frameMaxNs.Load(),
		LastFrameNs:     m.lastFrameNs.Load(),
		EmptyFrames:     m.emptyFrames.Load(),
		EventCount:      eventCount,
		AvgEventTimeNs:  avgEventNs,
		IgnoredEvents:   m.eventIgnored.Load(),
		AutoScrollTicks: m.autoScrollTicks.Load(),
		ConfigReloads:   m.configReloads.Load(),
		Uptime:          time.Since(m.startTime),
	}
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	FrameCount      uint64
	AvgFrameTimeNs  int64
	MinFrameTimeNs  int64
	MaxFrameTimeNs  int64
	LastFrameNs     int64
	EmptyFrames     uint64
	EventCount      uint64
	AvgEventTimeNs  int64
	IgnoredEvents   uint64
	AutoScrollTicks uint64
	ConfigReloads   uint64
	Uptime          time.Duration
}

// AvgFPS returns the average paints per second over the uptime.
func (s MetricsSnapshot) AvgFPS() float64 {
	if s.Uptime <= 0 {
		return 0
	}
	return float64(s.FrameCount) / s.Uptime.Seconds()
}

// Timer measures elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

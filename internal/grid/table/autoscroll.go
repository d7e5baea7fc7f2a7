package table

import (
	"sync"
	"time"
)

// DefaultAutoScrollInterval is the tick interval used when none is set.
const DefaultAutoScrollInterval = 100 * time.Millisecond

// ScrollStep is how far one auto-scroll tick moves, in rows and columns.
// Negative values scroll toward the start.
type ScrollStep struct {
	Rows int
	Cols int
}

// IsZero reports whether the step moves nothing.
func (s ScrollStep) IsZero() bool { return s.Rows == 0 && s.Cols == 0 }

// AutoScroller emits scroll steps at a fixed interval while a drag
// selection is held outside the grid.
//
// Ticks are delivered on a channel so the owner applies them on its own
// goroutine; the scroller never touches the grid. A tick the owner has
// not consumed yet is not queued twice.
//
// Thread-safety: All methods are safe for concurrent use.
type AutoScroller struct {
	mu       sync.Mutex
	interval time.Duration
	step     ScrollStep
	stop     chan struct{}
	done     chan struct{}
	ticks    chan ScrollStep
}

// NewAutoScroller creates a stopped auto-scroller.
func NewAutoScroller(interval time.Duration) *AutoScroller {
	if interval <= 0 {
		interval = DefaultAutoScrollInterval
	}
	return &AutoScroller{
		interval: interval,
		ticks:    make(chan ScrollStep, 1),
	}
}

// Ticks returns the channel scroll steps are delivered on.
func (a *AutoScroller) Ticks() <-chan ScrollStep { return a.ticks }

// Interval returns the tick interval.
func (a *AutoScroller) Interval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interval
}

// SetInterval changes the tick interval. A running scroller restarts.
func (a *AutoScroller) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultAutoScrollInterval
	}
	a.mu.Lock()
	a.interval = d
	running := a.stop != nil
	step := a.step
	a.mu.Unlock()

	if running {
		a.Stop()
		a.Start(step)
	}
}

// Running reports whether the scroller is ticking.
func (a *AutoScroller) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stop != nil
}

// Step returns the step delivered on each tick.
func (a *AutoScroller) Step() ScrollStep {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.step
}

// Start sets the step and starts ticking if not already running. A zero
// step stops the scroller.
func (a *AutoScroller) Start(step ScrollStep) {
	if step.IsZero() {
		a.Stop()
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.step = step
	if a.stop != nil {
		return
	}
	a.stop = make(chan struct{})
	a.done = make(chan struct{})
	go a.run(a.interval, a.stop, a.done)
}

// Stop stops ticking and waits for the ticking goroutine to exit. Any
// undelivered tick is discarded.
func (a *AutoScroller) Stop() {
	a.mu.Lock()
	stop, done := a.stop, a.done
	a.stop, a.done = nil, nil
	a.step = ScrollStep{}
	a.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done

	select {
	case <-a.ticks:
	default:
	}
}

func (a *AutoScroller) run(interval time.Duration, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			step := a.Step()
			if step.IsZero() {
				continue
			}
			select {
			case a.ticks <- step:
			default:
				// Previous tick not consumed yet.
			}
		}
	}
}

// autoScrollStep returns the step for a pointer at x, y checked against
// the edges of the scrolling area. It is zero inside the area and grows by
// one for every ten pixels outside.
func autoScrollStep(x, y, left, top, right, bottom int) ScrollStep {
	var s ScrollStep
	switch {
	case y < top:
		s.Rows = -((top-y)/10 + 1)
	case y > bottom:
		s.Rows = (y-bottom)/10 + 1
	}
	switch {
	case x < left:
		s.Cols = -((left-x)/10 + 1)
	case x > right:
		s.Cols = (x-right)/10 + 1
	}
	return s
}

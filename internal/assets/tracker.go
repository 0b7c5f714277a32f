package assets

import "sync"

// Tracker counts in-flight asset loads for the loader progress indicator.
// Begin is called before a load is issued; the returned done func is called
// on success, failure or timeout. done is idempotent so a stalled load that
// later resolves cannot double-count.
type Tracker struct {
	mu        sync.Mutex
	total     int
	completed int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin registers a pending load and returns its completion func.
func (t *Tracker) Begin(label string) (done func()) {
	t.mu.Lock()
	t.total++
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			t.completed++
			t.mu.Unlock()
		})
	}
}

// Counts returns completed and total load counts.
func (t *Tracker) Counts() (completed, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed, t.total
}

// Fraction returns load progress in [0,1]. An empty tracker reports 1.
func (t *Tracker) Fraction() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.total == 0 {
		return 1
	}
	return float64(t.completed) / float64(t.total)
}

// Idle reports whether no loads are pending.
func (t *Tracker) Idle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed == t.total
}

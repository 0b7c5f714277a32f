package assets

import "testing"

func TestTrackerFraction(t *testing.T) {
	tr := NewTracker()

	// Empty tracker reports complete so the loader UI never hangs at 0
	if f := tr.Fraction(); f != 1 {
		t.Errorf("empty tracker fraction = %v, want 1", f)
	}

	done1 := tr.Begin("photo 0")
	done2 := tr.Begin("video 0")

	if f := tr.Fraction(); f != 0 {
		t.Errorf("fraction with 2 pending = %v, want 0", f)
	}
	if tr.Idle() {
		t.Error("expected tracker busy with pending loads")
	}

	done1()
	if f := tr.Fraction(); f != 0.5 {
		t.Errorf("fraction after 1 of 2 = %v, want 0.5", f)
	}

	done2()
	if !tr.Idle() {
		t.Error("expected tracker idle after all loads done")
	}

	completed, total := tr.Counts()
	if completed != 2 || total != 2 {
		t.Errorf("counts = %d/%d, want 2/2", completed, total)
	}
}

func TestTrackerDoneIdempotent(t *testing.T) {
	tr := NewTracker()

	done := tr.Begin("stalled video")
	done()
	done() // timeout path and late resolution must not double-count
	done()

	completed, total := tr.Counts()
	if completed != 1 || total != 1 {
		t.Errorf("counts = %d/%d, want 1/1", completed, total)
	}
}

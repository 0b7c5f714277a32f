package hints

import (
	"testing"
	"time"
)

func TestTooltipShowsOnHover(t *testing.T) {
	tip := NewTooltip()
	tip.Hover("Power")
	if !tip.Visible() {
		t.Fatal("tooltip not visible after hover")
	}

	tip.Update(200 * time.Millisecond)
	if tip.Alpha() <= 0 {
		t.Error("alpha did not rise while visible")
	}
}

func TestTooltipAutoHides(t *testing.T) {
	tip := NewTooltip()
	tip.Hover("Power")

	tip.Update(autoHideAfter + time.Millisecond)
	if tip.Visible() {
		t.Fatal("tooltip still visible past the auto-hide time")
	}

	// Continuing to hover the same target must not bring it back.
	tip.Hover("Power")
	tip.Update(50 * time.Millisecond)
	if tip.Visible() {
		t.Error("tooltip reappeared without leaving the target")
	}
}

func TestTooltipReshowsAfterLeave(t *testing.T) {
	tip := NewTooltip()
	tip.Hover("Power")
	tip.Update(autoHideAfter + time.Millisecond)

	tip.Hover("") // pointer leaves
	tip.Hover("Power")
	if !tip.Visible() {
		t.Fatal("re-entering the target did not restart the tooltip")
	}
}

func TestTooltipNewTargetRestartsTimer(t *testing.T) {
	tip := NewTooltip()
	tip.Hover("Power")
	tip.Update(autoHideAfter - 100*time.Millisecond)

	// Switching targets starts a fresh session mid-hover.
	tip.Hover("Speaker")
	tip.Update(200 * time.Millisecond)
	if !tip.Visible() {
		t.Error("fresh target hidden by the previous session's timer")
	}
	if tip.Text() != "Speaker" {
		t.Errorf("text = %q, want Speaker", tip.Text())
	}
}

func TestTooltipFadesOutAfterLeave(t *testing.T) {
	tip := NewTooltip()
	tip.Hover("Power")
	for i := 0; i < 20; i++ {
		tip.Update(50 * time.Millisecond)
	}
	if tip.Alpha() < 0.99 {
		t.Fatalf("alpha = %v, want ~1 after a long hover", tip.Alpha())
	}

	tip.Hover("")
	for i := 0; i < 20; i++ {
		tip.Update(50 * time.Millisecond)
	}
	if tip.Alpha() > 0.01 {
		t.Errorf("alpha = %v, want ~0 after leaving", tip.Alpha())
	}
}

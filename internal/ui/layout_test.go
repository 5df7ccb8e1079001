package ui

import "testing"

func TestMeasure(t *testing.T) {
	width := func(s string) int { return 7 * len(s) }
	l := Measure([]string{"gen 12", "a longer line"}, width)

	if l.X != panelMargin || l.Y != panelMargin {
		t.Fatalf("panel origin = (%d,%d)", l.X, l.Y)
	}
	if want := 7*len("a longer line") + 2*panelPadding; l.Width != want {
		t.Fatalf("width = %d, want %d", l.Width, want)
	}
	if len(l.Baselines) != 2 || l.Baselines[1]-l.Baselines[0] != lineHeight {
		t.Fatalf("baselines = %v", l.Baselines)
	}
	bottom := l.Y + l.Height
	if l.Baselines[1] > bottom-panelPadding {
		t.Fatalf("last baseline %d outside panel ending at %d", l.Baselines[1], bottom)
	}
}

func TestMeasureEmpty(t *testing.T) {
	l := Measure(nil, func(string) int { return 0 })
	if len(l.Baselines) != 0 {
		t.Fatalf("unexpected baselines %v", l.Baselines)
	}
}

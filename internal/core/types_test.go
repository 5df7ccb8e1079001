package core

import (
	"errors"
	"testing"
)

func TestSimSize(t *testing.T) {
	cases := []struct {
		display Size
		k       int
		want    Size
	}{
		{Size{1920, 1080}, 4, Size{480, 270}},
		{Size{1921, 1083}, 4, Size{480, 270}},
		{Size{3, 3}, 1, Size{3, 3}},
		{Size{10, 7}, 3, Size{3, 2}},
	}
	for _, c := range cases {
		got, err := SimSize(c.display, c.k)
		if err != nil {
			t.Fatalf("SimSize(%v, %d) returned %v", c.display, c.k, err)
		}
		if got != c.want {
			t.Fatalf("SimSize(%v, %d) = %v, expected %v", c.display, c.k, got, c.want)
		}
	}
}

func TestSimSizeRejectsBadInput(t *testing.T) {
	if _, err := SimSize(Size{100, 100}, 0); !errors.Is(err, ErrInvalidScale) {
		t.Fatalf("expected ErrInvalidScale, got %v", err)
	}
	if _, err := SimSize(Size{3, 100}, 4); !errors.Is(err, ErrEmptyGrid) {
		t.Fatalf("expected ErrEmptyGrid, got %v", err)
	}
}

func TestAlignedDisplay(t *testing.T) {
	got, err := AlignedDisplay(Size{1283, 722}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got != (Size{1280, 720}) {
		t.Fatalf("AlignedDisplay = %v, expected 1280x720", got)
	}
}

package timespan

import (
	"errors"
	"testing"
	"time"
)

var saoPaulo = func() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		panic(err)
	}
	return loc
}()

func at(t *testing.T, day, hour int) time.Time {
	t.Helper()
	return time.Date(2025, time.September, day, hour, 0, 0, 0, saoPaulo)
}

func mustRange(t *testing.T, start, end time.Time) Range {
	t.Helper()
	r, err := NewRange(start, end)
	if err != nil {
		t.Fatalf("NewRange(%v, %v): %v", start, end, err)
	}
	return r
}

func TestNewRangeValidation(t *testing.T) {
	start := at(t, 16, 9)

	t.Run("start equal to end is rejected", func(t *testing.T) {
		_, err := NewRange(start, start)
		if !errors.Is(err, ErrInvalidRange) {
			t.Errorf("expected ErrInvalidRange, got %v", err)
		}
	})

	t.Run("start after end is rejected", func(t *testing.T) {
		_, err := NewRange(start.Add(time.Hour), start)
		if !errors.Is(err, ErrInvalidRange) {
			t.Errorf("expected ErrInvalidRange, got %v", err)
		}
	})

	t.Run("mismatched timezones are rejected", func(t *testing.T) {
		tokyo, err := time.LoadLocation("Asia/Tokyo")
		if err != nil {
			t.Fatal(err)
		}
		_, err = NewRange(start, start.Add(time.Hour).In(tokyo))
		if !errors.Is(err, ErrTimezoneMismatch) {
			t.Errorf("expected ErrTimezoneMismatch, got %v", err)
		}
	})

	t.Run("valid range keeps its endpoints", func(t *testing.T) {
		r, err := NewRange(start, start.Add(time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		if !r.Start.Equal(start) || !r.End.Equal(start.Add(time.Hour)) {
			t.Errorf("unexpected endpoints: %v", r)
		}
		if r.Duration() != time.Hour {
			t.Errorf("duration = %v, want 1h", r.Duration())
		}
	})
}

func TestRangeOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Range
		want bool
	}{
		{
			name: "disjoint ranges",
			a:    Range{at(t, 16, 9), at(t, 16, 12)},
			b:    Range{at(t, 16, 13), at(t, 16, 17)},
			want: false,
		},
		{
			name: "touching endpoints do not overlap",
			a:    Range{at(t, 16, 9), at(t, 16, 12)},
			b:    Range{at(t, 16, 12), at(t, 16, 17)},
			want: false,
		},
		{
			name: "partial overlap",
			a:    Range{at(t, 16, 9), at(t, 16, 13)},
			b:    Range{at(t, 16, 12), at(t, 16, 17)},
			want: true,
		},
		{
			name: "containment",
			a:    Range{at(t, 16, 9), at(t, 16, 17)},
			b:    Range{at(t, 16, 12), at(t, 16, 13)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("b.Overlaps(a) = %v, want %v (must be symmetric)", got, tt.want)
			}
		})
	}
}

func TestRangeSubtract(t *testing.T) {
	tests := []struct {
		name string
		a, b Range
		want []Range
	}{
		{
			name: "no overlap returns the original range",
			a:    Range{at(t, 16, 9), at(t, 16, 12)},
			b:    Range{at(t, 16, 13), at(t, 16, 17)},
			want: []Range{{at(t, 16, 9), at(t, 16, 12)}},
		},
		{
			name: "mask fully inside splits in two",
			a:    Range{at(t, 16, 9), at(t, 16, 17)},
			b:    Range{at(t, 16, 12), at(t, 16, 13)},
			want: []Range{
				{at(t, 16, 9), at(t, 16, 12)},
				{at(t, 16, 13), at(t, 16, 17)},
			},
		},
		{
			name: "mask covering everything yields empty",
			a:    Range{at(t, 16, 12), at(t, 16, 13)},
			b:    Range{at(t, 16, 9), at(t, 16, 17)},
			want: nil,
		},
		{
			name: "mask clipping the left side",
			a:    Range{at(t, 16, 9), at(t, 16, 17)},
			b:    Range{at(t, 16, 8), at(t, 16, 12)},
			want: []Range{{at(t, 16, 12), at(t, 16, 17)}},
		},
		{
			name: "mask clipping the right side",
			a:    Range{at(t, 16, 9), at(t, 16, 17)},
			b:    Range{at(t, 16, 13), at(t, 16, 19)},
			want: []Range{{at(t, 16, 9), at(t, 16, 13)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Subtract(tt.b).Ranges()
			if len(got) != len(tt.want) {
				t.Fatalf("got %d ranges (%v), want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if !got[i].Start.Equal(tt.want[i].Start) || !got[i].End.Equal(tt.want[i].End) {
					t.Errorf("range %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRangeSubtractConservesDuration(t *testing.T) {
	// b fully inside a: the two remainders must account for everything
	// except the overlap.
	a := mustRange(t, at(t, 16, 9), at(t, 16, 17))
	b := mustRange(t, at(t, 16, 12), at(t, 16, 13))

	remainder := a.Subtract(b)
	want := a.Duration() - b.Duration()
	if got := remainder.TotalDuration(); got != want {
		t.Errorf("remainder duration = %v, want %v", got, want)
	}
}

package timespan

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestRangeSetInsertMergesTouchingRuns(t *testing.T) {
	var s RangeSet
	s.Insert(Range{at(t, 16, 13), at(t, 16, 17)})
	s.Insert(Range{at(t, 16, 9), at(t, 16, 12)})
	s.Insert(Range{at(t, 16, 12), at(t, 16, 13)})

	got := s.Ranges()
	if len(got) != 1 {
		t.Fatalf("expected a single merged range, got %v", got)
	}
	if !got[0].Start.Equal(at(t, 16, 9)) || !got[0].End.Equal(at(t, 16, 17)) {
		t.Errorf("merged range = %v, want [09:00, 17:00)", got[0])
	}
	if s.TotalDuration() != 8*time.Hour {
		t.Errorf("total duration = %v, want 8h", s.TotalDuration())
	}
}

func TestRangeSetSubtractEmptyMaskIsIdentity(t *testing.T) {
	s := NewRangeSet(
		Range{at(t, 16, 9), at(t, 16, 12)},
		Range{at(t, 17, 9), at(t, 17, 12)},
	)
	got := s.Subtract(RangeSet{})
	if !reflect.DeepEqual(got.Ranges(), s.Ranges()) {
		t.Errorf("subtracting empty mask changed the set: %v", got.Ranges())
	}
}

func TestRangeSetSubtractFullCoverYieldsEmpty(t *testing.T) {
	s := NewRangeSet(
		Range{at(t, 16, 9), at(t, 16, 12)},
		Range{at(t, 17, 9), at(t, 17, 12)},
	)
	mask := NewRangeSet(Range{at(t, 15, 0), at(t, 18, 0)})
	got := s.Subtract(mask)
	if !got.IsEmpty() {
		t.Errorf("expected empty set, got %v", got.Ranges())
	}
	if got.TotalDuration() != 0 {
		t.Errorf("empty set duration = %v, want 0", got.TotalDuration())
	}
}

func TestRangeSetSubtractAppliesEveryMaskElement(t *testing.T) {
	// A single range crossed by two separate mask elements must lose
	// both, not just one.
	s := NewRangeSet(Range{at(t, 16, 9), at(t, 16, 17)})
	mask := NewRangeSet(
		Range{at(t, 16, 10), at(t, 16, 11)},
		Range{at(t, 16, 12), at(t, 16, 13)},
	)
	got := s.Subtract(mask)
	if got.Len() != 3 {
		t.Fatalf("expected 3 remainders, got %v", got.Ranges())
	}
	if got.TotalDuration() != 6*time.Hour {
		t.Errorf("total = %v, want 6h", got.TotalDuration())
	}
}

// genRange produces ranges with hour granularity inside a two-week window.
func genRange(t *testing.T) gopter.Gen {
	base := at(t, 15, 0)
	return gopter.CombineGens(
		gen.IntRange(0, 14*24),
		gen.IntRange(1, 48),
	).Map(func(vals []interface{}) Range {
		start := base.Add(time.Duration(vals[0].(int)) * time.Hour)
		return Range{Start: start, End: start.Add(time.Duration(vals[1].(int)) * time.Hour)}
	})
}

func genRangeSlice(t *testing.T) gopter.Gen {
	return gen.SliceOf(genRange(t))
}

func TestRangeSetProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.MaxSize = 12

	properties := gopter.NewProperties(parameters)

	// Property 1: normalization is canonical — the result does not depend
	// on insertion order.
	properties.Property("insertion order does not matter", prop.ForAll(
		func(ranges []Range) bool {
			var forward, backward RangeSet
			for _, r := range ranges {
				forward.Insert(r)
			}
			for i := len(ranges) - 1; i >= 0; i-- {
				backward.Insert(ranges[i])
			}
			return reflect.DeepEqual(forward.Ranges(), backward.Ranges())
		},
		genRangeSlice(t),
	))

	// Property 2: normalization is idempotent — re-inserting members of an
	// already normalized set changes nothing.
	properties.Property("normalization is idempotent", prop.ForAll(
		func(ranges []Range) bool {
			s := NewRangeSet(ranges...)
			again := NewRangeSet(s.Ranges()...)
			return reflect.DeepEqual(s.Ranges(), again.Ranges())
		},
		genRangeSlice(t),
	))

	// Property 3: the normalized set is sorted and strictly separated.
	properties.Property("result is sorted and non-touching", prop.ForAll(
		func(ranges []Range) bool {
			s := NewRangeSet(ranges...)
			rs := s.Ranges()
			for i := 1; i < len(rs); i++ {
				if !rs[i-1].End.Before(rs[i].Start) {
					return false
				}
			}
			return true
		},
		genRangeSlice(t),
	))

	// Property 4: subtraction never increases total duration.
	properties.Property("subtraction is monotonic", prop.ForAll(
		func(a, b []Range) bool {
			s := NewRangeSet(a...)
			mask := NewRangeSet(b...)
			return s.Subtract(mask).TotalDuration() <= s.TotalDuration()
		},
		genRangeSlice(t),
		genRangeSlice(t),
	))

	// Property 5: round-trip — removing a mask and adding back the part of
	// the mask that intersected the set reconstructs the original coverage.
	properties.Property("subtract then restore reconstructs coverage", prop.ForAll(
		func(a, b []Range) bool {
			s := NewRangeSet(a...)
			mask := NewRangeSet(b...)
			difference := s.Subtract(mask)
			// mask restricted to s = mask - (mask - s)
			restricted := mask.Subtract(mask.Subtract(s))
			rebuilt := difference
			for _, r := range restricted.Ranges() {
				rebuilt.Insert(r)
			}
			return reflect.DeepEqual(rebuilt.Ranges(), s.Ranges())
		},
		genRangeSlice(t),
		genRangeSlice(t),
	))

	// Property 6: subtracting a single contained mask from a single range
	// conserves duration outside the overlap.
	properties.Property("duration is conserved outside the mask", prop.ForAll(
		func(r Range, mask Range) bool {
			remainder := NewRangeSet(r).Subtract(NewRangeSet(mask))
			overlap := time.Duration(0)
			if r.Overlaps(mask) {
				start := maxTime(r.Start, mask.Start)
				end := minTime(r.End, mask.End)
				overlap = end.Sub(start)
			}
			return remainder.TotalDuration() == r.Duration()-overlap
		},
		genRange(t),
		genRange(t),
	))

	properties.TestingRun(t)
}

package loc_test

import (
	"testing"

	"github.com/openscad-go/scadc/internal/loc"
)

func TestPositionFor(t *testing.T) {
	source := "cube(10);\nsphere(5);\n"

	tests := []struct {
		offset int
		want   loc.Position
	}{
		{0, loc.Position{Line: 0, Column: 0, Offset: 0}},
		{4, loc.Position{Line: 0, Column: 4, Offset: 4}},
		{10, loc.Position{Line: 1, Column: 0, Offset: 10}},
		{16, loc.Position{Line: 1, Column: 6, Offset: 16}},
	}

	for _, tt := range tests {
		got := loc.PositionFor(source, tt.offset)
		if got != tt.want {
			t.Fatalf("PositionFor(%d): expected %+v, got %+v", tt.offset, tt.want, got)
		}
	}
}

func TestSpanContains(t *testing.T) {
	span := loc.Span{
		Start: loc.Position{Line: 1, Column: 2, Offset: 12},
		End:   loc.Position{Line: 1, Column: 8, Offset: 18},
	}

	if !span.Contains(loc.Position{Line: 1, Column: 4}) {
		t.Fatalf("expected span to contain position inside it")
	}
	if span.Contains(loc.Position{Line: 1, Column: 8}) {
		t.Fatalf("end position is exclusive, expected not contained")
	}
	if span.Contains(loc.Position{Line: 0, Column: 4}) {
		t.Fatalf("expected position on earlier line not contained")
	}
	if !span.ContainsOffset(12) || span.ContainsOffset(18) {
		t.Fatalf("expected half-open offset containment")
	}
}

func TestMerge(t *testing.T) {
	a := loc.Span{
		Start: loc.Position{Line: 0, Column: 4, Offset: 4},
		End:   loc.Position{Line: 0, Column: 9, Offset: 9},
	}
	b := loc.Span{
		Start: loc.Position{Line: 0, Column: 0, Offset: 0},
		End:   loc.Position{Line: 0, Column: 6, Offset: 6},
	}

	merged := loc.Merge(a, b)
	if merged.Start != b.Start || merged.End != a.End {
		t.Fatalf("expected merged span %v..%v, got %+v", b.Start, a.End, merged)
	}
}

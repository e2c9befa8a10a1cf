package layout

import "testing"

func TestClassifyBreakpoint(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		width int
		want  Breakpoint
	}{
		{0, BreakpointMobile},
		{320, BreakpointMobile},
		{767, BreakpointMobile},
		{768, BreakpointTablet},
		{1023, BreakpointTablet},
		{1024, BreakpointDesktop},
		{1199, BreakpointDesktop},
		{1200, BreakpointLargeDesktop},
		{2560, BreakpointLargeDesktop},
	}

	for _, tt := range tests {
		if got := th.Classify(tt.width); got != tt.want {
			t.Errorf("Classify(%d) = %s, want %s", tt.width, got, tt.want)
		}
	}
}

func TestClassifyBreakpointCustomThresholds(t *testing.T) {
	th := Thresholds{Tablet: 800, Desktop: 1000, LargeDesktop: 1600}

	if got := th.Classify(900); got != BreakpointTablet {
		t.Errorf("Classify(900) = %s, want tablet", got)
	}
	if got := th.Classify(1500); got != BreakpointDesktop {
		t.Errorf("Classify(1500) = %s, want desktop", got)
	}
}

func TestClassifyConstraints(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          []ConstraintTag
	}{
		{"comfortable", 1200, 800, nil},
		{"extremely narrow", 300, 800, []ConstraintTag{TagExtremelyNarrow, TagVeryNarrow}},
		{"very narrow only", 400, 800, []ConstraintTag{TagVeryNarrow}},
		{"very short", 1200, 399, []ConstraintTag{TagVeryShort, TagExtremeAspectRatio}},
		{"wide aspect", 1300, 400, []ConstraintTag{TagExtremeAspectRatio}},
		{"tall aspect", 500, 1600, []ConstraintTag{TagExtremeAspectRatio}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyConstraints(tt.width, tt.height)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tags %v, want %d", len(got), got, len(tt.want))
			}
			for _, tag := range tt.want {
				if !got.Has(tag) {
					t.Errorf("missing tag %s", tag)
				}
			}
		})
	}
}

func TestClassifyConstraintsIndependent(t *testing.T) {
	// A 310x390 viewport trips narrow and short tags at once.
	got := ClassifyConstraints(310, 390)
	for _, tag := range []ConstraintTag{TagExtremelyNarrow, TagVeryNarrow, TagVeryShort} {
		if !got.Has(tag) {
			t.Errorf("expected %s to be set", tag)
		}
	}
}

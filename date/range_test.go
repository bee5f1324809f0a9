package date

import (
	"testing"
)

func collectEnds(r Range, p Period) []Date {
	var ends []Date
	for d := range r.Ends(p) {
		ends = append(ends, d)
	}
	return ends
}

func TestRangeEnds_MonthlyGrid(t *testing.T) {
	r := Range{From: MustParse("2021-01-05"), To: MustParse("2021-03-20")}
	got := collectEnds(r, Monthly)
	want := []Date{MustParse("2021-01-31"), MustParse("2021-02-28"), MustParse("2021-03-20")}
	if len(got) != len(want) {
		t.Fatalf("Ends() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Ends()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRangeEnds_LastBoundaryClamped(t *testing.T) {
	// The final period is partial: its boundary is the range end itself, not
	// the calendar period end.
	r := Range{From: MustParse("2021-01-05"), To: MustParse("2021-01-20")}
	got := collectEnds(r, Monthly)
	if len(got) != 1 || got[0] != MustParse("2021-01-20") {
		t.Errorf("Ends() = %v, want [2021-01-20]", got)
	}
}

func TestRangeEnds_EmptyRange(t *testing.T) {
	r := Range{From: MustParse("2021-02-01"), To: MustParse("2021-01-01")}
	if got := collectEnds(r, Monthly); len(got) != 0 {
		t.Errorf("Ends(inverted range) = %v, want none", got)
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{From: MustParse("2021-01-05"), To: MustParse("2021-01-20")}
	for _, d := range []string{"2021-01-05", "2021-01-10", "2021-01-20"} {
		if !r.Contains(MustParse(d)) {
			t.Errorf("Contains(%s) = false, want true", d)
		}
	}
	for _, d := range []string{"2021-01-04", "2021-01-21"} {
		if r.Contains(MustParse(d)) {
			t.Errorf("Contains(%s) = true, want false", d)
		}
	}
}

func TestRangeIdentifier(t *testing.T) {
	tests := []struct {
		r    Range
		want string
	}{
		{NewRange(MustParse("2021-02-15"), Monthly), "2021-02"},
		{NewRange(MustParse("2021-02-17"), Weekly), "2021-W07"},
		{NewRange(MustParse("2021-05-15"), Quarterly), "2021-Q2"},
		{NewRange(MustParse("2021-05-15"), Yearly), "2021"},
		{Range{MustParse("2021-01-05"), MustParse("2021-01-05")}, "2021-01-05"},
		{Range{MustParse("2021-01-05"), MustParse("2021-02-10")}, "2021-01-05_2021-02-10"},
	}
	for _, tc := range tests {
		if got := tc.r.Identifier(); got != tc.want {
			t.Errorf("Identifier(%s..%s) = %q, want %q", tc.r.From, tc.r.To, got, tc.want)
		}
	}
}

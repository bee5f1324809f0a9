package date

import (
	"fmt"
	"iter"
)

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange returns the standard period range containing d.
func NewRange(d Date, p Period) Range {
	return Range{From: d.StartOf(p), To: d.EndOf(p)}
}

// Contains reports whether the date falls inside the range, boundaries
// included.
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// Ends returns an iterator over the period-end dates of all periods of
// granularity p that overlap the range, in chronological order. The final
// yielded date is clamped to r.To so a partial last period still gets a
// boundary.
func (r Range) Ends(p Period) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		if r.From.After(r.To) {
			return
		}
		for d := r.From.EndOf(p); ; d = d.Add(1).EndOf(p) {
			if !d.Before(r.To) {
				yield(r.To)
				return
			}
			if !yield(d) {
				return
			}
		}
	}
}

// Identifier computes a short unique identifier for the range when it spans a
// standard period, or "from_to" otherwise.
func (r Range) Identifier() string {
	switch {
	case r.From == r.To:
		return r.From.String()
	case r.From.Weekday().String() == "Monday" && r.From.EndOf(Weekly) == r.To:
		_, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", r.From.Year(), week)
	case r.From.Day() == 1 && r.From.EndOf(Monthly) == r.To:
		return r.From.Format("2006-01")
	case r.From.StartOf(Quarterly) == r.From && r.From.EndOf(Quarterly) == r.To:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), (int(r.From.Month())-1)/3+1)
	case r.From.StartOf(Yearly) == r.From && r.From.EndOf(Yearly) == r.To:
		return r.From.Format("2006")
	default:
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}
}

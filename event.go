package folio

import (
	"fmt"
	"sort"
	"time"
)

// EventKind identifies the type of a canonical event.
type EventKind int

const (
	Buy EventKind = iota
	Sell
	Dividend
	Deposit
	Withdrawal
	FeeOnly
	FxConversion
)

func (k EventKind) String() string {
	switch k {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	case Dividend:
		return "dividend"
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	case FeeOnly:
		return "fee"
	case FxConversion:
		return "fx-conversion"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one canonical, immutable brokerage event. Events are produced once
// by a Normalizer and are the append-only source of truth for a run.
//
// For security events (Buy, Sell, Dividend) Instrument is the ticker and
// UnitPrice is the per-unit price in its currency. For pure cash events
// Instrument is empty and the amount is Quantity x UnitPrice. For
// FxConversion, Instrument holds the target currency code, Quantity the
// target amount, and UnitPrice the cost of one target unit in the source
// currency.
type Event struct {
	Kind       EventKind
	Time       time.Time // UTC, second precision
	Instrument string    // empty for pure cash events
	Quantity   Quantity  // positive increases the holding
	UnitPrice  Money
	Fees       Money // same currency as UnitPrice

	// Index is the event's position in the original input, used as the final
	// ordering tie-break so reruns are deterministic.
	Index int
}

// Currency returns the currency the event is denominated in.
func (e Event) Currency() string { return e.UnitPrice.Currency() }

// Gross returns the event's quantity x unit price, in the event currency.
func (e Event) Gross() Money { return e.UnitPrice.Mul(e.Quantity) }

// Day returns the event's calendar day in UTC.
func (e Event) Day() time.Time { return e.Time.Truncate(24 * time.Hour) }

// kindRank orders events that share one timestamp: acquisitions settle
// first so a same-instant sale can be matched against them, sells settle
// last.
func (e Event) kindRank() int {
	switch e.Kind {
	case Buy:
		return 0
	case Sell:
		return 2
	default:
		return 1
	}
}

// SortEvents sorts events chronologically in place, with Buys before Sells at
// identical timestamps and the original input order as final tie-break.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Time.Equal(b.Time) {
			return a.Time.Before(b.Time)
		}
		if a.kindRank() != b.kindRank() {
			return a.kindRank() < b.kindRank()
		}
		return a.Index < b.Index
	})
}

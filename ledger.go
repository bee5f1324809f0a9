package folio

import (
	"time"

	"github.com/bfonseca/folio/date"
)

// RealizedGain records the closing of (part of) a lot by a sell. Proceeds and
// cost basis are both in the base currency; Proceeds minus CostBasis is the
// realized P&L contribution of the matched chunk.
type RealizedGain struct {
	Instrument string
	Quantity   Quantity
	Proceeds   Money
	CostBasis  Money
	AcquiredAt time.Time
	RealizedAt time.Time
}

// Gain returns the realized profit or loss of the record.
func (g RealizedGain) Gain() Money { return g.Proceeds.Sub(g.CostBasis) }

// instrumentLedger is the FIFO lot state machine for a single instrument. It
// consumes that instrument's events in strict chronological order and emits
// a RealizedGain per matched chunk on every sell. Instruments are
// independent: each ledger runs on one logical thread of control.
type instrumentLedger struct {
	instrument string
	conv       *Converter
	open       lots
	realized   []RealizedGain
}

func newInstrumentLedger(instrument string, conv *Converter) *instrumentLedger {
	return &instrumentLedger{instrument: instrument, conv: conv}
}

// apply folds one event into the ledger. Events that do not touch lots
// (dividends, cash movements) are no-ops here; the aggregator accounts for
// them. Each event applies all-or-nothing: on error the open lots are
// untouched.
func (l *instrumentLedger) apply(ev Event) error {
	switch ev.Kind {
	case Buy:
		return l.buy(ev)
	case Sell:
		return l.sell(ev)
	default:
		return nil
	}
}

func (l *instrumentLedger) buy(ev Event) error {
	on := date.FromTime(ev.Time)
	cost, err := l.conv.ToBase(ev.Gross().Add(ev.Fees), on)
	if err != nil {
		return err
	}
	l.open = append(l.open, Lot{
		AcquiredAt: ev.Time,
		Quantity:   ev.Quantity,
		Cost:       cost,
	})
	return nil
}

func (l *instrumentLedger) sell(ev Event) error {
	if open := l.open.openQuantity(); open.LessThan(ev.Quantity) {
		return &InsufficientLotsError{
			Instrument: l.instrument,
			At:         ev.Time,
			Sell:       ev.Quantity,
			Open:       open,
		}
	}

	on := date.FromTime(ev.Time)
	netProceeds, err := l.conv.ToBase(ev.Gross().Sub(ev.Fees), on)
	if err != nil {
		return err
	}

	remaining, matches := l.open.sell(ev.Quantity)
	for _, m := range matches {
		// Each chunk gets its quantity-proportional share of the net
		// proceeds.
		l.realized = append(l.realized, RealizedGain{
			Instrument: l.instrument,
			Quantity:   m.Quantity,
			Proceeds:   netProceeds.MulRate(m.Quantity.Ratio(ev.Quantity)),
			CostBasis:  m.Cost,
			AcquiredAt: m.AcquiredAt,
			RealizedAt: ev.Time,
		})
	}
	l.open = remaining
	return nil
}

// Position is the open state of one instrument after the full event history.
type Position struct {
	Instrument string
	Quantity   Quantity
	CostBasis  Money // base currency
	Lots       []Lot
}

// position returns the current open state of the ledger.
func (l *instrumentLedger) position() Position {
	return Position{
		Instrument: l.instrument,
		Quantity:   l.open.openQuantity(),
		CostBasis:  l.open.costBasis(l.conv.Base()),
		Lots:       append([]Lot(nil), l.open...),
	}
}

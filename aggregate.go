package folio

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bfonseca/folio/date"
)

// Snapshot is the end-of-period state of one instrument. Snapshots are
// derived data, recomputed on every run; only the event log and the quote
// cache are durable.
type Snapshot struct {
	PeriodEnd       date.Date
	Instrument      string
	Quantity        Quantity
	CostBasis       Money // base currency, open lots only
	MarketValue     Money // base currency
	UnrealizedGain  Money // MarketValue - CostBasis
	DividendsToDate Money // cumulative, base currency
	RealizedToDate  Money // cumulative realized P&L, base currency
}

// CashSnapshot is the end-of-period state of the cash account, in base
// currency.
type CashSnapshot struct {
	PeriodEnd       date.Date
	Balance         Money
	ExternalFlows   Money // cumulative deposits minus withdrawals
	DividendsToDate Money // cumulative dividends across all instruments
}

// SnapshotSeries is the full output of the aggregation stage: one snapshot
// per period per instrument plus the aggregate cash series, over a common
// period grid.
type SnapshotSeries struct {
	Base        string
	Period      date.Period
	Ends        []date.Date // the shared period-end grid, chronological
	Instruments []string    // sorted for deterministic iteration
	Series      map[string][]Snapshot
	Cash        []CashSnapshot
	Realized    []RealizedGain // all realized gains, chronological
	// Linked holds the cumulative time-weighted growth factor at each
	// period end (1.0 = flat since inception).
	Linked []float64
}

// TotalValue returns the portfolio market value plus cash at the i-th period
// end.
func (s *SnapshotSeries) TotalValue(i int) Money {
	total := s.Cash[i].Balance
	for _, name := range s.Instruments {
		total = total.Add(s.Series[name][i].MarketValue)
	}
	return total
}

// computeLinked chains per-period returns into the cumulative time-weighted
// growth factor. External flows are stripped from each period's return so
// deposits and withdrawals do not masquerade as performance.
func (s *SnapshotSeries) computeLinked() {
	s.Linked = make([]float64, len(s.Ends))
	linked := 1.0
	prevValue := 0.0
	prevFlows := 0.0
	for i := range s.Ends {
		value := s.TotalValue(i).Amount().InexactFloat64()
		flows := s.Cash[i].ExternalFlows.Amount().InexactFloat64()
		netFlow := flows - prevFlows
		if prevValue != 0 {
			linked *= (value - netFlow) / prevValue
		}
		s.Linked[i] = linked
		prevValue = value
		prevFlows = flows
	}
}

// periodEnds computes the shared period grid from the first event day up to
// asOf.
func periodEnds(events []Event, period date.Period, asOf date.Date) []date.Date {
	if len(events) == 0 {
		return nil
	}
	first := date.FromTime(events[0].Time)
	var ends []date.Date
	for d := range (date.Range{From: first, To: asOf}).Ends(period) {
		ends = append(ends, d)
	}
	return ends
}

// instrumentSeries folds one instrument's chronologically sorted events into
// its end-of-period snapshots, running the FIFO lot ledger along the way. A
// period without activity carries the prior holdings forward unchanged.
//
// Instruments are independent: this function owns all mutable state it
// touches and is safe to run in parallel across instruments.
func instrumentSeries(instrument string, events []Event, ends []date.Date, conv *Converter, resolver *Resolver) ([]Snapshot, []RealizedGain, error) {
	ledger := newInstrumentLedger(instrument, conv)
	dividends := M(0, conv.Base())
	currency := conv.Base()

	snapshots := make([]Snapshot, 0, len(ends))
	next := 0 // index of the next event to apply

	snapshotAt := func(end date.Date) error {
		pos := ledger.position()
		realized := M(0, conv.Base())
		for _, g := range ledger.realized {
			realized = realized.Add(g.Gain())
		}
		value := M(0, conv.Base())
		if !pos.Quantity.IsZero() {
			price, err := resolver.Resolve(QuoteKey(instrument), end)
			if err != nil {
				return err
			}
			local := M(decimal.NewFromFloat(price), currency).Mul(pos.Quantity)
			if value, err = conv.ToBase(local, end); err != nil {
				return err
			}
		}
		snapshots = append(snapshots, Snapshot{
			PeriodEnd:       end,
			Instrument:      instrument,
			Quantity:        pos.Quantity,
			CostBasis:       pos.CostBasis,
			MarketValue:     value,
			UnrealizedGain:  value.Sub(pos.CostBasis),
			DividendsToDate: dividends,
			RealizedToDate:  realized,
		})
		return nil
	}

	for _, end := range ends {
		for next < len(events) && !date.FromTime(events[next].Time).After(end) {
			ev := events[next]
			next++
			// The instrument trades in the currency of its latest order.
			if ev.Kind == Buy || ev.Kind == Sell {
				currency = ev.Currency()
			}
			if ev.Kind == Dividend {
				d, err := conv.ToBase(ev.Gross().Sub(ev.Fees), date.FromTime(ev.Time))
				if err != nil {
					return nil, nil, err
				}
				dividends = dividends.Add(d)
				continue
			}
			if err := ledger.apply(ev); err != nil {
				return nil, nil, err
			}
		}
		if err := snapshotAt(end); err != nil {
			return nil, nil, err
		}
	}
	return snapshots, ledger.realized, nil
}

// cashSeries folds the full event stream into the end-of-period cash series,
// in base currency. Sell proceeds and buy costs come from the instrument
// events themselves, so the cash account stays consistent with the ledgers.
func cashSeries(events []Event, ends []date.Date, conv *Converter) ([]CashSnapshot, error) {
	balance := M(0, conv.Base())
	external := M(0, conv.Base())
	dividends := M(0, conv.Base())

	snapshots := make([]CashSnapshot, 0, len(ends))
	next := 0

	for _, end := range ends {
		for next < len(events) && !date.FromTime(events[next].Time).After(end) {
			ev := events[next]
			next++
			on := date.FromTime(ev.Time)
			switch ev.Kind {
			case Deposit:
				in, err := conv.ToBase(ev.Gross(), on)
				if err != nil {
					return nil, err
				}
				balance = balance.Add(in)
				external = external.Add(in)
			case Withdrawal:
				out, err := conv.ToBase(ev.Gross(), on)
				if err != nil {
					return nil, err
				}
				balance = balance.Sub(out)
				external = external.Sub(out)
			case Dividend:
				d, err := conv.ToBase(ev.Gross().Sub(ev.Fees), on)
				if err != nil {
					return nil, err
				}
				balance = balance.Add(d)
				dividends = dividends.Add(d)
			case Buy:
				cost, err := conv.ToBase(ev.Gross().Add(ev.Fees), on)
				if err != nil {
					return nil, err
				}
				balance = balance.Sub(cost)
			case Sell:
				proceeds, err := conv.ToBase(ev.Gross().Sub(ev.Fees), on)
				if err != nil {
					return nil, err
				}
				balance = balance.Add(proceeds)
			case FeeOnly:
				fee, err := conv.ToBase(ev.Fees, on)
				if err != nil {
					return nil, err
				}
				balance = balance.Sub(fee)
			case FxConversion:
				// A paired withdrawal/deposit in two currencies: debit the
				// source amount, credit the target amount, both valued in
				// base at the event date.
				source := ev.UnitPrice.Mul(ev.Quantity)
				out, err := conv.ToBase(source, on)
				if err != nil {
					return nil, err
				}
				in, err := conv.ToBase(M(ev.Quantity.value, ev.Instrument), on)
				if err != nil {
					return nil, err
				}
				balance = balance.Sub(out).Add(in)
			}
		}
		snapshots = append(snapshots, CashSnapshot{
			PeriodEnd:       end,
			Balance:         balance,
			ExternalFlows:   external,
			DividendsToDate: dividends,
		})
	}
	return snapshots, nil
}

// groupByInstrument splits a sorted event stream into per-instrument streams,
// preserving order. Pure cash events (empty instrument) are excluded.
func groupByInstrument(events []Event) (map[string][]Event, []string) {
	grouped := make(map[string][]Event)
	for _, ev := range events {
		if ev.Instrument == "" || ev.Kind == FxConversion {
			continue
		}
		grouped[ev.Instrument] = append(grouped[ev.Instrument], ev)
	}
	instruments := make([]string, 0, len(grouped))
	for name := range grouped {
		instruments = append(instruments, name)
	}
	sort.Strings(instruments)
	return grouped, instruments
}

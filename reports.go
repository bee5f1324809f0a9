package folio

import (
	"fmt"

	"github.com/bfonseca/folio/date"
)

// Report building is pure projection over the snapshot series: column
// selection, display rounding and pivoting. No accounting rule lives here,
// and a failure here can never corrupt the upstream series.

// last returns the final snapshot of an instrument series.
func last(snaps []Snapshot) Snapshot {
	return snaps[len(snaps)-1]
}

// SummaryTable projects the final state of every instrument plus the cash
// account: cost, market value, paper profit, income and realized profit, and
// each instrument's share of the portfolio.
func SummaryTable(s *SnapshotSeries) *Table {
	t := &Table{
		Name: "summary",
		Header: []string{
			"Instrument", "Quantity",
			cur("Cost Basis", s.Base), cur("Market Value", s.Base),
			cur("Unrealized Gain", s.Base), cur("Dividends", s.Base),
			cur("Realized Gain", s.Base), "Allocation %",
		},
	}
	if len(s.Ends) == 0 {
		return t
	}

	total := M(0, s.Base)
	for _, name := range s.Instruments {
		total = total.Add(last(s.Series[name]).MarketValue)
	}
	lastCash := s.Cash[len(s.Cash)-1]
	total = total.Add(lastCash.Balance)

	allocation := func(v Money) Cell {
		if total.IsZero() {
			return Num(0)
		}
		return Cell{Kind: NumberCell, Num: v.Amount().Div(total.Amount()).InexactFloat64() * 100, decimals: 2}
	}

	for _, name := range s.Instruments {
		fin := last(s.Series[name])
		t.Append(
			Str(name),
			Num(fin.Quantity.Float()),
			Amount(fin.CostBasis),
			Amount(fin.MarketValue),
			Amount(fin.UnrealizedGain),
			Amount(fin.DividendsToDate),
			Amount(fin.RealizedToDate),
			allocation(fin.MarketValue),
		)
	}
	t.Append(
		Str("Cash"),
		Num(0),
		Amount(lastCash.Balance),
		Amount(lastCash.Balance),
		Amount(M(0, s.Base)),
		Amount(lastCash.DividendsToDate),
		Amount(M(0, s.Base)),
		allocation(lastCash.Balance),
	)
	return t
}

// TimelineTable pivots the series into one row per period end with one
// market-value column per instrument, plus cash and the portfolio total.
// Instrument columns appear in sorted order so the layout is identical
// across runs.
func TimelineTable(s *SnapshotSeries) *Table {
	header := []string{"Date"}
	for _, name := range s.Instruments {
		header = append(header, cur(name, s.Base))
	}
	header = append(header, cur("Cash", s.Base), cur("Total", s.Base))
	t := &Table{Name: "timeline", Header: header}

	for i, end := range s.Ends {
		row := []Cell{Day(end)}
		total := M(0, s.Base)
		for _, name := range s.Instruments {
			v := s.Series[name][i].MarketValue
			total = total.Add(v)
			row = append(row, Amount(v))
		}
		cash := s.Cash[i].Balance
		total = total.Add(cash)
		row = append(row, Amount(cash), Amount(total))
		t.Append(row...)
	}
	return t
}

// BreakdownTable projects the full per-period series of one instrument.
func BreakdownTable(s *SnapshotSeries, instrument string) (*Table, error) {
	snaps, ok := s.Series[instrument]
	if !ok {
		return nil, fmt.Errorf("unknown instrument %q", instrument)
	}
	t := &Table{
		Name: "breakdown-" + instrument,
		Header: []string{
			"Date", "Quantity",
			cur("Cost Basis", s.Base), cur("Market Value", s.Base),
			cur("Unrealized Gain", s.Base), cur("Dividends", s.Base),
			cur("Realized Gain", s.Base),
		},
	}
	for _, snap := range snaps {
		t.Append(
			Day(snap.PeriodEnd),
			Num(snap.Quantity.Float()),
			Amount(snap.CostBasis),
			Amount(snap.MarketValue),
			Amount(snap.UnrealizedGain),
			Amount(snap.DividendsToDate),
			Amount(snap.RealizedToDate),
		)
	}
	return t, nil
}

// DividendTable summarizes income per instrument, with a yield on the
// current cost basis where one is defined.
func DividendTable(s *SnapshotSeries) *Table {
	t := &Table{
		Name:   "dividends",
		Header: []string{"Instrument", cur("Dividends", s.Base), "Yield %"},
	}
	if len(s.Ends) == 0 {
		return t
	}
	for _, name := range s.Instruments {
		fin := last(s.Series[name])
		if fin.DividendsToDate.IsZero() {
			continue
		}
		yield := Num(0)
		if !fin.CostBasis.IsZero() {
			yield = Cell{
				Kind:     NumberCell,
				Num:      fin.DividendsToDate.Amount().Div(fin.CostBasis.Amount()).InexactFloat64() * 100,
				decimals: 2,
			}
		}
		t.Append(Str(name), Amount(fin.DividendsToDate), yield)
	}
	return t
}

// RealizedTable lists every realized gain record, chronologically: the audit
// trail behind the summary's realized column.
func RealizedTable(s *SnapshotSeries) *Table {
	t := &Table{
		Name: "realized",
		Header: []string{
			"Date", "Instrument", "Quantity", "Acquired",
			cur("Proceeds", s.Base), cur("Cost Basis", s.Base), cur("Gain", s.Base),
		},
	}
	for _, g := range s.Realized {
		t.Append(
			Day(date.FromTime(g.RealizedAt)),
			Str(g.Instrument),
			Num(g.Quantity.Float()),
			Day(date.FromTime(g.AcquiredAt)),
			Amount(g.Proceeds),
			Amount(g.CostBasis),
			Amount(g.Gain()),
		)
	}
	return t
}

// PerformanceTable shows the portfolio value, external flows and
// time-weighted return period by period.
func PerformanceTable(s *SnapshotSeries) *Table {
	t := &Table{
		Name: "performance",
		Header: []string{
			"Date", cur("Total Value", s.Base), cur("Net Flows", s.Base), "TWR %",
		},
	}
	prevFlows := M(0, s.Base)
	for i, end := range s.Ends {
		flows := s.Cash[i].ExternalFlows
		t.Append(
			Day(end),
			Amount(s.TotalValue(i)),
			Amount(flows.Sub(prevFlows)),
			Cell{Kind: NumberCell, Num: (s.Linked[i] - 1) * 100, decimals: 2},
		)
		prevFlows = flows
	}
	return t
}

// cur qualifies a numeric column header with its currency.
func cur(name, currency string) string { return name + " (" + currency + ")" }

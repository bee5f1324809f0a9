package folio

import (
	"bytes"
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func scenarioSnapshots(t *testing.T) *SnapshotSeries {
	t.Helper()
	result, err := scenarioEngine(t).Run(context.Background(), scenarioSource())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	return result.Snapshots
}

func assertGoldenCSV(t *testing.T, table *Table) {
	t.Helper()
	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV(%s) failed: %v", table.Name, err)
	}
	g := goldie.New(t)
	g.Assert(t, table.Name, buf.Bytes())
}

func TestSummaryTable(t *testing.T) {
	assertGoldenCSV(t, SummaryTable(scenarioSnapshots(t)))
}

func TestTimelineTable(t *testing.T) {
	assertGoldenCSV(t, TimelineTable(scenarioSnapshots(t)))
}

func TestBreakdownTable(t *testing.T) {
	s := scenarioSnapshots(t)
	table, err := BreakdownTable(s, "AAPL")
	if err != nil {
		t.Fatalf("BreakdownTable() failed: %v", err)
	}
	assertGoldenCSV(t, table)

	if _, err := BreakdownTable(s, "NOPE"); err == nil {
		t.Error("BreakdownTable(unknown instrument) succeeded, want failure")
	}
}

func TestDividendTable(t *testing.T) {
	assertGoldenCSV(t, DividendTable(scenarioSnapshots(t)))
}

func TestRealizedTable(t *testing.T) {
	assertGoldenCSV(t, RealizedTable(scenarioSnapshots(t)))
}

func TestPerformanceTable(t *testing.T) {
	assertGoldenCSV(t, PerformanceTable(scenarioSnapshots(t)))
}

func TestTable_AppendPanicsOnWidthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Append(short row) did not panic")
		}
	}()
	table := &Table{Name: "t", Header: []string{"A", "B"}}
	table.Append(Str("only one"))
}

func TestSummaryTable_EmptySeries(t *testing.T) {
	s := &SnapshotSeries{Base: "EUR", Series: map[string][]Snapshot{}}
	table := SummaryTable(s)
	if len(table.Rows) != 0 {
		t.Errorf("empty series produced %d rows, want 0", len(table.Rows))
	}
}

package folio

import (
	"errors"
	"testing"

	"github.com/bfonseca/folio/date"
)

func monthEnds(t *testing.T, days ...string) []date.Date {
	t.Helper()
	ends := make([]date.Date, len(days))
	for i, d := range days {
		ends[i] = date.MustParse(d)
	}
	return ends
}

func TestInstrumentSeries_CarriesHoldingsForward(t *testing.T) {
	resolver := NewResolver(&staticProvider{histories: map[QuoteKey]*date.History[float64]{
		"ACME": history(t, "2021-01-29", 12.0, "2021-03-31", 15.0),
	}})
	conv, err := NewConverter("EUR", resolver)
	if err != nil {
		t.Fatal(err)
	}

	events := []Event{
		{Kind: Buy, Time: ts(t, "2021-01-10T10:00:00Z"), Instrument: "ACME",
			Quantity: Q(10), UnitPrice: M(10, "EUR")},
	}
	ends := monthEnds(t, "2021-01-31", "2021-02-28", "2021-03-31")

	snapshots, realized, err := instrumentSeries("ACME", events, ends, conv, resolver)
	if err != nil {
		t.Fatalf("instrumentSeries() failed: %v", err)
	}
	if len(realized) != 0 {
		t.Errorf("realized %d gains, want 0", len(realized))
	}
	if len(snapshots) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(snapshots))
	}

	// February has no activity and no new quote: the position carries
	// forward and the January quote is reused.
	for i, want := range []struct {
		value      Money
		unrealized Money
	}{
		{M(120, "EUR"), M(20, "EUR")},
		{M(120, "EUR"), M(20, "EUR")},
		{M(150, "EUR"), M(50, "EUR")},
	} {
		s := snapshots[i]
		if !s.Quantity.Equal(Q(10)) || !s.CostBasis.Equal(M(100, "EUR")) {
			t.Errorf("snapshot[%d] position = %s @ %s, want 10 @ 100 EUR", i, s.Quantity, s.CostBasis)
		}
		if !s.MarketValue.Equal(want.value) {
			t.Errorf("snapshot[%d].MarketValue = %s, want %s", i, s.MarketValue, want.value)
		}
		if !s.UnrealizedGain.Equal(want.unrealized) {
			t.Errorf("snapshot[%d].UnrealizedGain = %s, want %s", i, s.UnrealizedGain, want.unrealized)
		}
	}
}

func TestInstrumentSeries_ClosedPositionNeedsNoQuote(t *testing.T) {
	// Once the position is fully closed, later periods must not require a
	// quote at all.
	resolver := NewResolver(&staticProvider{histories: map[QuoteKey]*date.History[float64]{
		"ACME": history(t, "2021-01-29", 12.0),
	}})
	conv, err := NewConverter("EUR", resolver)
	if err != nil {
		t.Fatal(err)
	}

	events := []Event{
		{Kind: Buy, Time: ts(t, "2021-01-10T10:00:00Z"), Instrument: "ACME",
			Quantity: Q(10), UnitPrice: M(10, "EUR")},
		{Kind: Sell, Time: ts(t, "2021-02-10T10:00:00Z"), Instrument: "ACME",
			Quantity: Q(10), UnitPrice: M(14, "EUR")},
	}
	ends := monthEnds(t, "2021-01-31", "2021-02-28", "2021-03-31")

	snapshots, realized, err := instrumentSeries("ACME", events, ends, conv, resolver)
	if err != nil {
		t.Fatalf("instrumentSeries() failed: %v", err)
	}
	if len(realized) != 1 || !realized[0].Gain().Equal(M(40, "EUR")) {
		t.Fatalf("realized = %+v, want one gain of 40 EUR", realized)
	}
	for _, i := range []int{1, 2} {
		s := snapshots[i]
		if !s.Quantity.IsZero() || !s.MarketValue.IsZero() {
			t.Errorf("snapshot[%d] = %s units, MV %s, want flat zero", i, s.Quantity, s.MarketValue)
		}
		if !s.RealizedToDate.Equal(M(40, "EUR")) {
			t.Errorf("snapshot[%d].RealizedToDate = %s, want 40 EUR", i, s.RealizedToDate)
		}
	}
}

func TestInstrumentSeries_DividendsAccumulateInBase(t *testing.T) {
	resolver := NewResolver(&staticProvider{histories: map[QuoteKey]*date.History[float64]{
		"ACME":                 history(t, "2021-01-29", 12.0),
		PairKey("USD", "EUR"): history(t, "2021-01-15", 0.8),
	}})
	conv, err := NewConverter("EUR", resolver)
	if err != nil {
		t.Fatal(err)
	}

	events := []Event{
		{Kind: Buy, Time: ts(t, "2021-01-10T10:00:00Z"), Instrument: "ACME",
			Quantity: Q(10), UnitPrice: M(10, "EUR")},
		{Kind: Dividend, Time: ts(t, "2021-01-15T10:00:00Z"), Instrument: "ACME",
			Quantity: Q(10), UnitPrice: M(1, "USD")},
	}
	ends := monthEnds(t, "2021-01-31")

	snapshots, _, err := instrumentSeries("ACME", events, ends, conv, resolver)
	if err != nil {
		t.Fatalf("instrumentSeries() failed: %v", err)
	}
	if got := snapshots[0].DividendsToDate; !got.Equal(M(8, "EUR")) {
		t.Errorf("DividendsToDate = %s, want 8 EUR (10 USD at 0.8)", got)
	}
}

func TestInstrumentSeries_MissingQuoteOnOpenPosition(t *testing.T) {
	conv := testConverter(t, nil)
	events := []Event{
		{Kind: Buy, Time: ts(t, "2021-01-10T10:00:00Z"), Instrument: "ACME",
			Quantity: Q(10), UnitPrice: M(10, "EUR")},
	}
	_, _, err := instrumentSeries("ACME", events, monthEnds(t, "2021-01-31"), conv, conv.resolver)
	var noQuote *NoQuoteError
	if !errors.As(err, &noQuote) {
		t.Fatalf("instrumentSeries(no quote) = %v, want NoQuoteError", err)
	}
}

func TestCashSeries_AllKinds(t *testing.T) {
	conv := testConverter(t, map[QuoteKey]*date.History[float64]{
		PairKey("USD", "EUR"): history(t, "2021-01-01", 0.8),
	})

	events := []Event{
		{Kind: Deposit, Time: ts(t, "2021-01-05T08:00:00Z"), Quantity: Q(1), UnitPrice: M(1000, "EUR")},
		{Kind: Buy, Time: ts(t, "2021-01-10T10:00:00Z"), Instrument: "ACME",
			Quantity: Q(10), UnitPrice: M(10, "EUR"), Fees: M(2, "EUR")},
		{Kind: Dividend, Time: ts(t, "2021-01-15T10:00:00Z"), Instrument: "ACME",
			Quantity: Q(10), UnitPrice: M(1, "USD")},
		{Kind: FeeOnly, Time: ts(t, "2021-01-20T10:00:00Z"), Fees: M(3, "EUR")},
		{Kind: Sell, Time: ts(t, "2021-02-10T10:00:00Z"), Instrument: "ACME",
			Quantity: Q(10), UnitPrice: M(14, "EUR"), Fees: M(1, "EUR")},
		{Kind: Withdrawal, Time: ts(t, "2021-02-15T10:00:00Z"), Quantity: Q(1), UnitPrice: M(200, "EUR")},
	}
	ends := monthEnds(t, "2021-01-31", "2021-02-28")

	snapshots, err := cashSeries(events, ends, conv)
	if err != nil {
		t.Fatalf("cashSeries() failed: %v", err)
	}

	// January: 1000 - 102 (buy incl fees) + 8 (dividend at 0.8) - 3 (fee).
	jan := snapshots[0]
	if !jan.Balance.Equal(M(903, "EUR")) {
		t.Errorf("January balance = %s, want 903 EUR", jan.Balance)
	}
	if !jan.ExternalFlows.Equal(M(1000, "EUR")) {
		t.Errorf("January external flows = %s, want 1000 EUR", jan.ExternalFlows)
	}
	if !jan.DividendsToDate.Equal(M(8, "EUR")) {
		t.Errorf("January dividends = %s, want 8 EUR", jan.DividendsToDate)
	}

	// February: + 139 (sell net of fees) - 200 (withdrawal).
	feb := snapshots[1]
	if !feb.Balance.Equal(M(842, "EUR")) {
		t.Errorf("February balance = %s, want 842 EUR", feb.Balance)
	}
	if !feb.ExternalFlows.Equal(M(800, "EUR")) {
		t.Errorf("February external flows = %s, want 800 EUR", feb.ExternalFlows)
	}
}

func TestCashSeries_FxConversion(t *testing.T) {
	conv := testConverter(t, map[QuoteKey]*date.History[float64]{
		PairKey("USD", "EUR"): history(t, "2021-01-01", 0.8),
	})

	// Convert 500 EUR into 600 USD: the source leg debits 500 EUR, the
	// target leg credits 600 USD valued at the day's rate.
	events := []Event{
		{Kind: Deposit, Time: ts(t, "2021-01-05T08:00:00Z"), Quantity: Q(1), UnitPrice: M(1000, "EUR")},
		{Kind: FxConversion, Time: ts(t, "2021-01-10T10:00:00Z"), Instrument: "USD",
			Quantity: Q(600), UnitPrice: M(1.0/1.2, "EUR")},
	}
	snapshots, err := cashSeries(events, monthEnds(t, "2021-01-31"), conv)
	if err != nil {
		t.Fatalf("cashSeries() failed: %v", err)
	}
	// 1000 - 500 + 480, within float conversion noise of the 1/1.2 rate.
	got := snapshots[0].Balance.Rounded()
	if got < 979.99 || got > 980.01 {
		t.Errorf("balance after conversion = %v, want 980 EUR", got)
	}
}

func TestGroupByInstrument(t *testing.T) {
	events := []Event{
		{Kind: Deposit, UnitPrice: M(100, "EUR")},
		{Kind: Buy, Instrument: "ZETA"},
		{Kind: Buy, Instrument: "ACME"},
		{Kind: Dividend, Instrument: "ACME"},
		{Kind: FxConversion, Instrument: "USD"},
		{Kind: Dividend}, // interest on cash
	}
	grouped, instruments := groupByInstrument(events)
	if len(instruments) != 2 || instruments[0] != "ACME" || instruments[1] != "ZETA" {
		t.Fatalf("instruments = %v, want [ACME ZETA]", instruments)
	}
	if len(grouped["ACME"]) != 2 || len(grouped["ZETA"]) != 1 {
		t.Errorf("grouped sizes = %d/%d, want 2/1", len(grouped["ACME"]), len(grouped["ZETA"]))
	}
}

func TestComputeLinked_StripsExternalFlows(t *testing.T) {
	// Value doubles in period one, then a deposit lands in period two with
	// flat performance: the linked factor must stay at 2.
	s := &SnapshotSeries{
		Base:   "EUR",
		Ends:   monthEnds(t, "2021-01-31", "2021-02-28", "2021-03-31"),
		Series: map[string][]Snapshot{},
		Cash: []CashSnapshot{
			{Balance: M(100, "EUR"), ExternalFlows: M(100, "EUR")},
			{Balance: M(200, "EUR"), ExternalFlows: M(100, "EUR")},
			{Balance: M(500, "EUR"), ExternalFlows: M(400, "EUR")},
		},
	}
	s.computeLinked()
	want := []float64{1.0, 2.0, 2.0}
	for i := range want {
		if diff := s.Linked[i] - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Linked[%d] = %v, want %v", i, s.Linked[i], want[i])
		}
	}
}

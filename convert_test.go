package folio

import (
	"errors"
	"testing"

	"github.com/bfonseca/folio/date"
)

func TestConverter_BaseCurrencyPassesThroughExactly(t *testing.T) {
	provider := &staticProvider{}
	conv, err := NewConverter("EUR", NewResolver(provider))
	if err != nil {
		t.Fatal(err)
	}

	in := M(123.456789, "EUR")
	got, err := conv.ToBase(in, date.MustParse("2021-01-04"))
	if err != nil {
		t.Fatalf("ToBase() failed: %v", err)
	}
	if !got.Equal(in) {
		t.Errorf("ToBase(base amount) = %s, want the amount untouched", got)
	}
	if got := provider.fetches.Load(); got != 0 {
		t.Errorf("provider fetched %d times for a base-currency amount, want 0", got)
	}
}

func TestConverter_ConvertsAtHistoricalRate(t *testing.T) {
	conv := testConverter(t, map[QuoteKey]*date.History[float64]{
		PairKey("USD", "EUR"): history(t, "2021-01-04", 0.8, "2021-02-01", 0.9),
	})

	tests := []struct {
		on   string
		want Money
	}{
		{"2021-01-04", M(80, "EUR")},
		{"2021-01-20", M(80, "EUR")},
		{"2021-02-01", M(90, "EUR")},
	}
	for _, tc := range tests {
		got, err := conv.ToBase(M(100, "USD"), date.MustParse(tc.on))
		if err != nil {
			t.Fatalf("ToBase(on %s) failed: %v", tc.on, err)
		}
		if !got.Equal(tc.want) {
			t.Errorf("ToBase(100 USD on %s) = %s, want %s", tc.on, got, tc.want)
		}
	}
}

func TestConverter_MissingRatePropagates(t *testing.T) {
	conv := testConverter(t, nil)
	_, err := conv.ToBase(M(100, "USD"), date.MustParse("2021-01-04"))
	var noQuote *NoQuoteError
	if !errors.As(err, &noQuote) {
		t.Fatalf("ToBase(no rate) = %v, want NoQuoteError", err)
	}
	if noQuote.Key != PairKey("USD", "EUR") {
		t.Errorf("missing key = %s, want USDEUR", noQuote.Key)
	}
}

func TestNewConverter_RejectsBadBase(t *testing.T) {
	for _, base := range []string{"", "XXQ", "euros"} {
		if _, err := NewConverter(base, NewResolver(&staticProvider{})); err == nil {
			t.Errorf("NewConverter(%q) succeeded, want CurrencyConfigError", base)
		}
	}
}

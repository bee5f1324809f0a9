package folio

import (
	"strings"
	"time"
)

// schwab normalizes Charles Schwab transaction CSV exports. Everything is
// denominated in USD.
//
// Relevant columns: Date, Action, Symbol, Description, Quantity, Price,
// "Fees & Comm", Amount.
type schwab struct{}

func (schwab) Tag() string { return "schwab" }

func (b schwab) Normalize(rec Record, index int) ([]Event, error) {
	const src = "schwab"
	const cur = "USD"

	action, err := field(rec, src, index, "Action")
	if err != nil {
		return nil, err
	}
	rawDate, err := field(rec, src, index, "Date")
	if err != nil {
		return nil, err
	}
	// Some rows carry "as of" dates: "01/05/2024 as of 01/04/2024".
	if i := strings.Index(rawDate, " as of "); i >= 0 {
		rawDate = rawDate[:i]
	}
	at, err := time.Parse("01/02/2006", rawDate)
	if err != nil {
		return nil, &MalformedRecordError{Source: src, Index: index, Field: "Date",
			Reason: "unparsable date " + rawDate}
	}
	at = at.UTC()

	desc := strings.TrimSpace(rec["Description"])
	kind, known := schwabKind(action, desc)
	if !known {
		return nil, &MalformedRecordError{Source: src, Index: index, Field: "Action",
			Reason: "unknown action " + action}
	}
	if kind < 0 { // row has no accounting meaning
		return nil, nil
	}

	amount, err := number(rec, src, index, "Amount")
	if err != nil {
		return nil, err
	}
	fees, err := number(rec, src, index, "Fees & Comm")
	if err != nil {
		return nil, err
	}

	switch kind {
	case Deposit, Withdrawal:
		return []Event{{
			Kind:      kind,
			Time:      at,
			Quantity:  Q(1),
			UnitPrice: M(amount.Abs(), cur),
		}}, nil
	case FeeOnly:
		return []Event{{
			Kind: FeeOnly,
			Time: at,
			Fees: M(amount.Abs().Add(fees), cur),
		}}, nil
	}

	symbol := strings.TrimSpace(rec["Symbol"])

	if kind == Dividend {
		// Dividends report only the cash amount; symbol may be empty for
		// account-level interest.
		return []Event{{
			Kind:       Dividend,
			Time:       at,
			Instrument: symbol,
			Quantity:   Q(1),
			UnitPrice:  M(amount.Abs(), cur),
		}}, nil
	}

	qty, err := number(rec, src, index, "Quantity")
	if err != nil {
		return nil, err
	}
	price, err := number(rec, src, index, "Price")
	if err != nil {
		return nil, err
	}
	if symbol == "" {
		return nil, &MalformedRecordError{Source: src, Index: index, Field: "Symbol", Reason: "missing"}
	}

	return []Event{{
		Kind:       kind,
		Time:       at,
		Instrument: symbol,
		Quantity:   Q(qty),
		UnitPrice:  M(price, cur),
		Fees:       M(fees, cur),
	}}, nil
}

// schwabKind maps a Schwab action onto an event kind. The -1 sentinel marks
// rows to ignore (internal transfers).
func schwabKind(action, desc string) (EventKind, bool) {
	if strings.Contains(desc, "FEE") {
		return FeeOnly, true
	}
	words := strings.Fields(action)
	join := func(n int) string {
		if len(words) < n {
			return ""
		}
		return strings.Join(words[:n], " ")
	}
	switch {
	case action == "Buy":
		return Buy, true
	case action == "Sell":
		return Sell, true
	case action == "Withdrawal":
		return Withdrawal, true
	case join(2) == "Internal Transfer":
		return -1, true
	case words[0] == "Wire" && len(words) > 1:
		return Deposit, true
	case strings.Contains(action, "Div") || strings.Contains(action, "Dividend"),
		join(4) == "Long Term Cap Gain",
		strings.HasSuffix(action, "Interest"):
		return Dividend, true
	case strings.Contains(action, "Tax"), join(2) == "Journaled Shares":
		return FeeOnly, true
	default:
		return 0, false
	}
}

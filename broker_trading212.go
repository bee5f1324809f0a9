package folio

import (
	"strings"
	"time"
)

// trading212 normalizes Trading212 CSV history exports.
//
// Relevant columns: Action, Time, Ticker, "No. of shares", "Price / share",
// "Currency (Price / share)", Total, "Currency (Total)", "Withholding tax",
// "Stamp duty reserve tax", "Currency conversion fee".
type trading212 struct{}

func (trading212) Tag() string { return "trading212" }

// t212Time accepts the two timestamp shapes seen in exports.
var t212Time = []string{"2006-01-02 15:04:05", time.RFC3339}

func parseT212Time(v string) (time.Time, bool) {
	for _, layout := range t212Time {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (b trading212) Normalize(rec Record, index int) ([]Event, error) {
	const src = "trading212"

	action, err := field(rec, src, index, "Action")
	if err != nil {
		return nil, err
	}
	rawTime, err := field(rec, src, index, "Time")
	if err != nil {
		return nil, err
	}
	at, ok := parseT212Time(rawTime)
	if !ok {
		return nil, &MalformedRecordError{Source: src, Index: index, Field: "Time",
			Reason: "unparsable timestamp " + rawTime}
	}

	total, err := number(rec, src, index, "Total")
	if err != nil {
		return nil, err
	}
	totalCur := strings.TrimSpace(rec["Currency (Total)"])

	words := strings.Fields(action)
	kind, known := t212Kind(words)
	if !known {
		return nil, &MalformedRecordError{Source: src, Index: index, Field: "Action",
			Reason: "unknown action " + action}
	}

	switch kind {
	case Deposit, Withdrawal:
		if totalCur == "" {
			return nil, &MalformedRecordError{Source: src, Index: index,
				Field: "Currency (Total)", Reason: "missing"}
		}
		return []Event{{
			Kind:      kind,
			Time:      at,
			Quantity:  Q(1),
			UnitPrice: M(total.Abs(), totalCur),
		}}, nil
	}

	// Interest on cash has no ticker: a dividend on no instrument.
	ticker := strings.TrimSpace(rec["Ticker"])
	if kind == Dividend && ticker == "" {
		if totalCur == "" {
			return nil, &MalformedRecordError{Source: src, Index: index,
				Field: "Currency (Total)", Reason: "missing"}
		}
		return []Event{{
			Kind:      Dividend,
			Time:      at,
			Quantity:  Q(1),
			UnitPrice: M(total.Abs(), totalCur),
		}}, nil
	}

	// Security rows from here on.
	if ticker == "" {
		return nil, &MalformedRecordError{Source: src, Index: index, Field: "Ticker", Reason: "missing"}
	}
	qty, err := number(rec, src, index, "No. of shares")
	if err != nil {
		return nil, err
	}
	price, err := number(rec, src, index, "Price / share")
	if err != nil {
		return nil, err
	}
	priceCur, err := field(rec, src, index, "Currency (Price / share)")
	if err != nil {
		return nil, err
	}

	// Older exports blank the per-share price on dividends ("Not
	// available"); fall back to the row total.
	if kind == Dividend && price.IsZero() && totalCur != "" {
		return []Event{{
			Kind:       Dividend,
			Time:       at,
			Instrument: ticker,
			Quantity:   Q(1),
			UnitPrice:  M(total.Abs(), totalCur),
		}}, nil
	}

	ev := Event{
		Kind:       kind,
		Time:       at,
		Instrument: ticker,
		Quantity:   Q(qty),
		UnitPrice:  M(price, priceCur),
		Fees:       M(0, priceCur),
	}

	// Trading212 reports fees and withholding tax in the account currency,
	// which may differ from the price currency (GBX trades, GBP account).
	// Fees in the price currency stay on the trade event; anything else is
	// emitted as a trailing fee-only cash event.
	conversionFee, err := number(rec, src, index, "Currency conversion fee")
	if err != nil {
		return nil, err
	}
	stampDuty, err := number(rec, src, index, "Stamp duty reserve tax")
	if err != nil {
		return nil, err
	}
	withholding, err := number(rec, src, index, "Withholding tax")
	if err != nil {
		return nil, err
	}
	fees := conversionFee.Add(stampDuty).Add(withholding)

	events := []Event{ev}
	if !fees.IsZero() {
		feeCur := totalCur
		if feeCur == "" {
			feeCur = priceCur
		}
		if feeCur == priceCur {
			events[0].Fees = M(fees, priceCur)
		} else {
			events = append(events, Event{
				Kind: FeeOnly,
				Time: at,
				Fees: M(fees, feeCur),
			})
		}
	}
	return events, nil
}

// t212Kind maps a Trading212 action string, split into words, onto an event
// kind. Interest on cash is treated as a dividend on no instrument so it
// shows up in income rather than invested capital.
func t212Kind(words []string) (EventKind, bool) {
	if len(words) == 0 {
		return 0, false
	}
	switch words[0] {
	case "Deposit":
		return Deposit, true
	case "Withdrawal":
		return Withdrawal, true
	case "Dividend", "Interest":
		return Dividend, true
	}
	if len(words) >= 2 {
		switch words[1] {
		case "buy":
			return Buy, true
		case "sell":
			return Sell, true
		}
	}
	return 0, false
}

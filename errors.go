package folio

import (
	"errors"
	"fmt"
	"time"

	"github.com/bfonseca/folio/date"
)

// The engine performs no silent recovery: every failure below aborts the run
// and carries enough context to locate the offending record.

// ErrQuoteNotFound is returned by a Provider when it has no data at all for a
// key. The resolver converts it into a NoQuoteError carrying the request
// context.
var ErrQuoteNotFound = errors.New("quote not found")

// MalformedRecordError reports a raw broker record that could not be
// normalized.
type MalformedRecordError struct {
	Source string // broker tag, e.g. "trading212"
	Index  int    // zero-based record index within the source
	Field  string // offending field, when known
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s record #%d: field %q: %s", e.Source, e.Index, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s record #%d: %s", e.Source, e.Index, e.Reason)
}

// NoQuoteError reports a missing valuation point. Skipping it silently would
// falsify the portfolio value, so it is always fatal.
type NoQuoteError struct {
	Key QuoteKey
	On  date.Date
}

func (e *NoQuoteError) Error() string {
	return fmt.Sprintf("no quote available for %s on or before %s", e.Key, e.On)
}

// InsufficientLotsError reports a sell that exceeds the known open quantity
// of an instrument: either buy history is missing or a sell is duplicated or
// misordered.
type InsufficientLotsError struct {
	Instrument string
	At         time.Time
	Sell       Quantity
	Open       Quantity
}

func (e *InsufficientLotsError) Error() string {
	return fmt.Sprintf("sell of %s %s at %s exceeds open quantity %s",
		e.Sell, e.Instrument, e.At.Format(time.RFC3339), e.Open)
}

// CurrencyConfigError reports an unset or invalid base currency.
type CurrencyConfigError struct {
	Code string
}

func (e *CurrencyConfigError) Error() string {
	if e.Code == "" {
		return "base currency is not configured"
	}
	return fmt.Sprintf("invalid base currency %q", e.Code)
}

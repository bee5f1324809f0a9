package folio

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one raw broker record: a CSV row keyed by its header names.
type Record map[string]string

// A Normalizer maps raw records of one broker export schema into canonical
// Events. Implementations must be pure: deterministic, no I/O, no
// reordering or coalescing across records. One record may normalize into
// zero events (rows with no accounting meaning) or several (fees charged in
// a different currency than the trade).
type Normalizer interface {
	// Tag identifies the source schema, e.g. "trading212".
	Tag() string
	// Normalize converts the index-th record of the source.
	Normalize(rec Record, index int) ([]Event, error)
}

// normalizers is the closed set of supported broker schemas.
var normalizers = map[string]Normalizer{
	"trading212": trading212{},
	"schwab":     schwab{},
}

// NormalizerFor returns the Normalizer registered for a source tag.
func NormalizerFor(tag string) (Normalizer, error) {
	n, ok := normalizers[tag]
	if !ok {
		known := make([]string, 0, len(normalizers))
		for t := range normalizers {
			known = append(known, t)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("unknown source tag %q, supported: %s", tag, strings.Join(known, ", "))
	}
	return n, nil
}

// Normalize runs the tagged normalizer over a full sequence of records,
// preserving input order. Event indices are assigned by position in the
// resulting stream.
func Normalize(tag string, records []Record) ([]Event, error) {
	n, err := NormalizerFor(tag)
	if err != nil {
		return nil, err
	}
	var events []Event
	for i, rec := range records {
		evs, err := n.Normalize(rec, i)
		if err != nil {
			return nil, err
		}
		for _, ev := range evs {
			ev.Index = len(events)
			events = append(events, ev)
		}
	}
	return events, nil
}

// field returns a required field or a MalformedRecordError.
func field(rec Record, source string, index int, name string) (string, error) {
	v, ok := rec[name]
	if !ok || strings.TrimSpace(v) == "" {
		return "", &MalformedRecordError{Source: source, Index: index, Field: name, Reason: "missing"}
	}
	return strings.TrimSpace(v), nil
}

// number parses a decimal field, tolerating currency symbols and thousands
// separators ("-$1,234.56"). Empty or absent fields parse as zero.
func number(rec Record, source string, index int, name string) (decimal.Decimal, error) {
	v := strings.TrimSpace(rec[name])
	if v == "" || v == "Not available" {
		return decimal.Zero, nil
	}
	cleaned := strings.NewReplacer("$", "", ",", "", "(", "-", ")", "").Replace(v)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &MalformedRecordError{
			Source: source, Index: index, Field: name,
			Reason: fmt.Sprintf("unparsable number %q", v),
		}
	}
	return d, nil
}

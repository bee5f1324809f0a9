package folio

import (
	"github.com/shopspring/decimal"

	"github.com/bfonseca/folio/date"
)

// Converter normalizes monetary amounts into the run's base currency using
// historical FX rates from a Resolver. One Converter is built per run and
// threaded explicitly through the ledger and aggregator; there is no global
// currency state.
type Converter struct {
	base     string
	resolver *Resolver
}

// NewConverter validates the base currency and returns a Converter.
func NewConverter(base string, resolver *Resolver) (*Converter, error) {
	if base == "" {
		return nil, &CurrencyConfigError{}
	}
	if err := ValidateCurrency(base); err != nil {
		return nil, &CurrencyConfigError{Code: base}
	}
	return &Converter{base: base, resolver: resolver}, nil
}

// Base returns the configured base currency.
func (c *Converter) Base() string { return c.base }

// ToBase converts m into the base currency at the FX rate in effect on the
// given day. Amounts already in the base currency pass through exactly,
// without consulting the resolver. Resolver failures propagate unchanged.
func (c *Converter) ToBase(m Money, on date.Date) (Money, error) {
	if m.Currency() == c.base {
		return m, nil
	}
	rate, err := c.resolver.Resolve(PairKey(m.Currency(), c.base), on)
	if err != nil {
		return Money{}, err
	}
	converted := m.MulRate(decimal.NewFromFloat(rate))
	return M(converted.Amount(), c.base), nil
}

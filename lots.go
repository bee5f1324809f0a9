package folio

import (
	"time"
)

// Lot is an open quantity of one instrument acquired by a single buy, valued
// at its base-currency cost. Lots are owned exclusively by one instrument
// ledger: created on a buy, shrunk or removed on a matching sell, never
// shared.
type Lot struct {
	AcquiredAt time.Time
	Quantity   Quantity
	Cost       Money // total base-currency cost of the remaining quantity
}

// UnitCost returns the base-currency cost of one unit of the lot.
func (l Lot) UnitCost() Money { return l.Cost.Div(l.Quantity) }

type lots []Lot

// openQuantity returns the total quantity held across all open lots.
func (l lots) openQuantity() Quantity {
	var total Quantity
	for _, lot := range l {
		total = total.Add(lot.Quantity)
	}
	return total
}

// costBasis returns the total base-currency cost of all open lots.
func (l lots) costBasis(base string) Money {
	total := M(0, base)
	for _, lot := range l {
		total = total.Add(lot.Cost)
	}
	return total
}

// lotMatch is the part of one lot consumed by a sell.
type lotMatch struct {
	AcquiredAt time.Time
	Quantity   Quantity
	Cost       Money // proportional base-currency cost of the matched chunk
}

// sell consumes quantityToSell from the front of the queue (FIFO) and
// returns the remaining lots plus one match per consumed chunk. The caller
// must have checked that enough quantity is open.
func (l lots) sell(quantityToSell Quantity) (remaining lots, matches []lotMatch) {
	for _, current := range l {
		if quantityToSell.IsZero() {
			remaining = append(remaining, current)
			continue
		}
		if current.Quantity.GreaterThan(quantityToSell) {
			// Partial sale from this lot.
			soldCost := current.Cost.MulRate(quantityToSell.Ratio(current.Quantity))
			matches = append(matches, lotMatch{
				AcquiredAt: current.AcquiredAt,
				Quantity:   quantityToSell,
				Cost:       soldCost,
			})
			remaining = append(remaining, Lot{
				AcquiredAt: current.AcquiredAt,
				Quantity:   current.Quantity.Sub(quantityToSell),
				Cost:       current.Cost.Sub(soldCost),
			})
			quantityToSell = Q(0)
		} else {
			// Full sale of this lot.
			matches = append(matches, lotMatch{
				AcquiredAt: current.AcquiredAt,
				Quantity:   current.Quantity,
				Cost:       current.Cost,
			})
			quantityToSell = quantityToSell.Sub(current.Quantity)
		}
	}
	return remaining, matches
}

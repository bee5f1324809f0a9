// Package folio reconstructs an investment portfolio from raw brokerage
// events.
//
// The engine ingests buy, sell, dividend and cash events exported from one
// or more trading platforms, normalizes them into a single canonical schema,
// replays them through per-instrument FIFO lot ledgers, values holdings with
// historical quotes, and projects the result into columnar report tables
// (timeline, summary, per-instrument breakdown) ready for spreadsheet
// export.
//
// Every run is a full, idempotent batch recomputation over the event
// history: the event log and the on-disk quote cache are the only durable
// state. Monetary arithmetic is exact (shopspring/decimal) and valuation
// never looks ahead: a quote dated after the requested day is never used.
package folio

package models

import "github.com/shopspring/decimal"

// Prices, totals and dashboard figures go out as JSON numbers. Incoming
// payloads may still carry them as numbers or numeric strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

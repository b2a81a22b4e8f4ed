package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type CostSnapshot struct {
	CallsMade     int64           `json:"api_calls"`
	UnitsBilled   int64           `json:"units_billed"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

// MarshalJSON writes EstimatedCost as a bare JSON number with the exact
// decimal digits, rather than the quoted string decimal uses by default.
func (c CostSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CallsMade     int64       `json:"api_calls"`
		UnitsBilled   int64       `json:"units_billed"`
		EstimatedCost json.Number `json:"estimated_cost"`
	}{c.CallsMade, c.UnitsBilled, json.Number(c.EstimatedCost.String())})
}

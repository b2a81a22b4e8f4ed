package cost

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/spacesedan/fcpulse/internal/models"
)

// DefaultUnitPrice is the provider's list price per billed text unit.
var DefaultUnitPrice = decimal.RequireFromString("0.0001")

// Meter accumulates provider calls for a single analysis run. A new Meter is
// created per run so numbers never bleed between runs.
type Meter struct {
	mu        sync.Mutex
	unitPrice decimal.Decimal
	calls     int64
	units     int64
	cost      decimal.Decimal
}

func New(unitPrice decimal.Decimal) *Meter {
	if unitPrice.IsNegative() {
		unitPrice = decimal.Zero
	}
	return &Meter{
		unitPrice: unitPrice,
		cost:      decimal.Zero,
	}
}

// RecordCall registers one successful provider call that billed units texts.
func (m *Meter) RecordCall(units int) {
	if units < 0 {
		units = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.units += int64(units)
	m.cost = m.cost.Add(m.unitPrice.Mul(decimal.NewFromInt(int64(units))))
}

func (m *Meter) Snapshot() models.CostSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return models.CostSnapshot{
		CallsMade:     m.calls,
		UnitsBilled:   m.units,
		EstimatedCost: m.cost,
	}
}

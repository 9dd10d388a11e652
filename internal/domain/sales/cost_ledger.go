package sales

import (
	"fmt"
	"time"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// UnitPricePlaces is the scale a per-unit price is stored at. Every other
// component is stored in cents.
const UnitPricePlaces int32 = 4

// StoredValue rounds v to the scale kind is persisted at, so an in-memory
// value survives a reload unchanged
func (k ComponentKind) StoredValue(v decimal.Decimal) decimal.Decimal {
	if k.ScalesWithQuantity() {
		return v.Round(UnitPricePlaces)
	}
	return valueobject.RoundMoney(v)
}

// CostComponent is the ledger view of one component of one item
type CostComponent struct {
	Kind      ComponentKind
	Label     string
	Estimated decimal.Decimal
	Realized  decimal.Decimal
	Paid      bool
	PaidAt    *time.Time
}

// Ledger lists all six components of the item in display order
func (i *OrderItem) Ledger() []CostComponent {
	components := make([]CostComponent, 0, ComponentCount)
	for _, kind := range AllComponentKinds() {
		components = append(components, i.Component(kind))
	}
	return components
}

// Component returns the ledger tuple for one kind
func (i *OrderItem) Component(kind ComponentKind) CostComponent {
	return CostComponent{
		Kind:      kind,
		Label:     kind.Label(),
		Estimated: i.EstimatedAmount(kind),
		Realized:  i.RealizedAmount(kind),
		Paid:      i.Paid[kind],
		PaidAt:    i.PaidAt[kind],
	}
}

// EstimatedAmount returns the estimated value, scaled by quantity for the unit price
func (i *OrderItem) EstimatedAmount(kind ComponentKind) decimal.Decimal {
	return i.scaled(kind, i.Estimated[kind])
}

// RealizedAmount returns the realized value, scaled by quantity for the unit price
func (i *OrderItem) RealizedAmount(kind ComponentKind) decimal.Decimal {
	return i.scaled(kind, i.Realized[kind])
}

// scaled is the line amount in cents
func (i *OrderItem) scaled(kind ComponentKind, value decimal.Decimal) decimal.Decimal {
	if kind.ScalesWithQuantity() {
		value = value.Mul(decimal.NewFromInt(int64(i.Quantity)))
	}
	return valueobject.RoundMoney(value)
}

// IsPaid reports whether the component was confirmed as paid
func (i *OrderItem) IsPaid(kind ComponentKind) bool {
	return i.Paid[kind]
}

// HasPaidComponent reports whether any component was paid
func (i *OrderItem) HasPaidComponent() bool {
	for _, paid := range i.Paid {
		if paid {
			return true
		}
	}
	return false
}

// SetRealizedValue overwrites the stored realized value of an unpaid
// component. For the unit price the value is per unit. The value is kept at
// its stored scale.
func (i *OrderItem) SetRealizedValue(kind ComponentKind, value decimal.Decimal) error {
	if !kind.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("unknown cost component %d", int(kind)))
	}
	if i.Paid[kind] {
		return shared.NewInvalidStateError(fmt.Sprintf("%s is already paid; its realized value is frozen", kind.Label()))
	}
	if value.IsNegative() {
		return shared.NewValidationError(fmt.Sprintf("realized %s cannot be negative", kind))
	}
	i.Realized[kind] = kind.StoredValue(value)
	i.UpdatedAt = time.Now()
	return nil
}

// SetRealizedAmount takes the amount actually paid for the whole line. The
// unit price is divided back to a per-unit value at UnitPricePlaces; a total
// that this per-unit value cannot reproduce to the cent is rejected rather
// than stored with a hidden remainder.
func (i *OrderItem) SetRealizedAmount(kind ComponentKind, total decimal.Decimal) error {
	if !kind.ScalesWithQuantity() || i.Quantity <= 0 {
		return i.SetRealizedValue(kind, total)
	}
	quantity := decimal.NewFromInt(int64(i.Quantity))
	unit := kind.StoredValue(total.Div(quantity))
	if !valueobject.RoundMoney(unit.Mul(quantity)).Equal(valueobject.RoundMoney(total)) {
		return shared.NewValidationError(fmt.Sprintf(
			"%s cannot be split evenly over %d units of %q; confirm a total that is a multiple of %s per unit",
			valueobject.FormatBRL(total), i.Quantity, i.ProductName, decimal.New(1, -UnitPricePlaces)))
	}
	return i.SetRealizedValue(kind, unit)
}

// markPaid freezes the component
func (i *OrderItem) markPaid(kind ComponentKind, at time.Time) {
	i.Paid[kind] = true
	i.PaidAt[kind] = &at
	i.UpdatedAt = time.Now()
}

package sales

import (
	"fmt"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ComponentKind tags one of the six cost components of an order item.
// Per-component state is kept in fixed arrays indexed by the kind.
type ComponentKind int

const (
	ComponentUnitPrice ComponentKind = iota
	ComponentCustomization
	ComponentSupplierTransport
	ComponentClientTransport
	ComponentExtraExpense
	ComponentLayout
)

// ComponentCount is the number of cost components per item
const ComponentCount = 6

var componentCodes = [ComponentCount]string{
	"unit_price",
	"customization",
	"supplier_transport",
	"client_transport",
	"extra_expense",
	"layout",
}

var componentLabels = [ComponentCount]string{
	"Fornecedor Produto",
	"Personalização",
	"Frete Fornecedor",
	"Frete Cliente",
	"Despesa Extra",
	"Layout",
}

// AllComponentKinds returns every kind in display order
func AllComponentKinds() []ComponentKind {
	return []ComponentKind{
		ComponentUnitPrice,
		ComponentCustomization,
		ComponentSupplierTransport,
		ComponentClientTransport,
		ComponentExtraExpense,
		ComponentLayout,
	}
}

// ParseComponentKind converts an API code such as "supplier_transport"
func ParseComponentKind(code string) (ComponentKind, error) {
	for i, c := range componentCodes {
		if c == code {
			return ComponentKind(i), nil
		}
	}
	return 0, shared.NewValidationError(fmt.Sprintf("unknown cost component: %q", code))
}

// IsValid checks if the kind is one of the six components
func (k ComponentKind) IsValid() bool {
	return k >= ComponentUnitPrice && k <= ComponentLayout
}

// String returns the API code of the component
func (k ComponentKind) String() string {
	if !k.IsValid() {
		return fmt.Sprintf("component(%d)", int(k))
	}
	return componentCodes[k]
}

// Label returns the name shown to users and written to the audit trail
func (k ComponentKind) Label() string {
	if !k.IsValid() {
		return k.String()
	}
	return componentLabels[k]
}

// ScalesWithQuantity is true for the unit price, which is stored per unit
func (k ComponentKind) ScalesWithQuantity() bool {
	return k == ComponentUnitPrice
}

// CostSet holds one monetary value per component kind
type CostSet [ComponentCount]decimal.Decimal

// NewCostSet builds a set in component order:
// unit price, customization, supplier transport, client transport, extra expense, layout.
func NewCostSet(unitPrice, customization, supplierTransport, clientTransport, extraExpense, layout decimal.Decimal) CostSet {
	return CostSet{unitPrice, customization, supplierTransport, clientTransport, extraExpense, layout}
}

// Stored rounds every component to its persisted scale
func (s CostSet) Stored() CostSet {
	for _, kind := range AllComponentKinds() {
		s[kind] = kind.StoredValue(s[kind])
	}
	return s
}

// Get returns the value for kind
func (s CostSet) Get(kind ComponentKind) decimal.Decimal {
	return s[kind]
}

// With returns a copy of the set with kind replaced
func (s CostSet) With(kind ComponentKind, value decimal.Decimal) CostSet {
	s[kind] = value
	return s
}

// validateNonNegative rejects any negative value in the set
func (s CostSet) validateNonNegative(what string) error {
	for _, kind := range AllComponentKinds() {
		if s[kind].IsNegative() {
			return shared.NewValidationError(fmt.Sprintf("%s %s cannot be negative", what, kind))
		}
	}
	return nil
}

package sales

import (
	"fmt"
	"time"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is one line of an order with its estimated and realized costs.
// Owned by Order: created with it, replaced on save, deleted with it.
type OrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductName  string
	SupplierID   *uuid.UUID
	Quantity     int
	MarkupFactor decimal.Decimal
	Estimated    CostSet
	Realized     CostSet
	Paid         [ComponentCount]bool
	PaidAt       [ComponentCount]*time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ItemInput is the editable part of an item as submitted by a save.
// ID is set when the line already exists on the order.
type ItemInput struct {
	ID           *uuid.UUID
	ProductName  string
	SupplierID   *uuid.UUID
	Quantity     int
	MarkupFactor decimal.Decimal
	Estimated    CostSet
	Realized     CostSet
}

// Validate checks the input; position is 1-based and only used in messages
func (in ItemInput) Validate(position int) error {
	if in.ProductName == "" {
		return shared.NewValidationError(fmt.Sprintf("item %d: product name is required", position))
	}
	if in.Quantity <= 0 {
		return shared.NewValidationError(fmt.Sprintf("item %d: quantity must be positive", position))
	}
	if !in.Estimated[ComponentUnitPrice].IsPositive() {
		return shared.NewValidationError(fmt.Sprintf("item %d: unit price must be positive", position))
	}
	if !in.MarkupFactor.IsPositive() {
		return shared.NewValidationError(fmt.Sprintf("item %d: markup factor must be positive", position))
	}
	if err := in.Estimated.validateNonNegative("estimated"); err != nil {
		return err
	}
	return in.Realized.validateNonNegative("realized")
}

// NewOrderItem creates an unpaid item from input
func NewOrderItem(orderID uuid.UUID, in ItemInput) (*OrderItem, error) {
	if err := in.Validate(1); err != nil {
		return nil, err
	}
	now := time.Now()
	return &OrderItem{
		ID:           uuid.New(),
		OrderID:      orderID,
		ProductName:  in.ProductName,
		SupplierID:   in.SupplierID,
		Quantity:     in.Quantity,
		MarkupFactor: in.MarkupFactor,
		Estimated:    in.Estimated.Stored(),
		Realized:     in.Realized.Stored(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// RawCost is the estimated cost of the line before markup
func (i *OrderItem) RawCost() decimal.Decimal {
	return RawCost(i.Quantity, i.Estimated)
}

// Pricing returns the sale total together with the fallback flag
func (i *OrderItem) Pricing() PriceResult {
	return SalePrice(i.RawCost(), i.MarkupFactor)
}

// SaleTotal is the price charged to the client for the whole line
func (i *OrderItem) SaleTotal() decimal.Decimal {
	return i.Pricing().Total
}

// UnitSalePrice divides the sale total by quantity. A zero quantity is
// treated as one so that a half-edited line can still be displayed.
func (i *OrderItem) UnitSalePrice() decimal.Decimal {
	quantity := i.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	return valueobject.RoundMoney(i.SaleTotal().Div(decimal.NewFromInt(int64(quantity))))
}

// RealizedTotal is the actual cost of the line in cents; no markup is
// applied. It is the sum of the ledger amounts.
func (i *OrderItem) RealizedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, kind := range AllComponentKinds() {
		total = total.Add(i.RealizedAmount(kind))
	}
	return total
}

// applyInput overwrites editable fields from a save. Estimates are always
// editable; realized values and the quantity behind a paid unit price are
// frozen and may only be resubmitted unchanged.
func (i *OrderItem) applyInput(in ItemInput) error {
	for _, kind := range AllComponentKinds() {
		if i.Paid[kind] && !kind.StoredValue(in.Realized[kind]).Equal(i.Realized[kind]) {
			return shared.NewInvalidStateError(fmt.Sprintf("realized %s of %q is already paid and cannot change", kind.Label(), i.ProductName))
		}
	}
	if i.Paid[ComponentUnitPrice] && in.Quantity != i.Quantity {
		return shared.NewInvalidStateError(fmt.Sprintf("quantity of %q cannot change after the supplier was paid", i.ProductName))
	}

	i.ProductName = in.ProductName
	i.SupplierID = in.SupplierID
	i.Quantity = in.Quantity
	i.MarkupFactor = in.MarkupFactor
	i.Estimated = in.Estimated.Stored()
	i.Realized = in.Realized.Stored()
	i.UpdatedAt = time.Now()
	return nil
}

package sales

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayableFilter selects which cost components a payables listing shows
type PayableFilter string

const (
	PayablesAll     PayableFilter = "all"
	PayablesPending PayableFilter = "pending"
	PayablesPaid    PayableFilter = "paid"
)

// IsValid checks if the filter is known
func (f PayableFilter) IsValid() bool {
	return f == PayablesAll || f == PayablesPending || f == PayablesPaid
}

// Payable is one cost component of one item that has money attached to it
type Payable struct {
	OrderID     uuid.UUID
	OrderNumber string
	OrderDate   time.Time
	ItemID      uuid.UUID
	ProductName string
	SupplierID  *uuid.UUID
	Component   CostComponent
}

// Payables lists components whose estimated or realized amount is positive
func (o *Order) Payables() []Payable {
	payables := make([]Payable, 0)
	for i := range o.Items {
		item := &o.Items[i]
		for _, component := range item.Ledger() {
			if !component.Estimated.IsPositive() && !component.Realized.IsPositive() {
				continue
			}
			payables = append(payables, Payable{
				OrderID:     o.ID,
				OrderNumber: o.OrderNumber,
				OrderDate:   o.OrderDate,
				ItemID:      item.ID,
				ProductName: item.ProductName,
				SupplierID:  item.SupplierID,
				Component:   component,
			})
		}
	}
	return payables
}

// Matches applies the filter to one payable
func (f PayableFilter) Matches(p Payable) bool {
	switch f {
	case PayablesPending:
		return !p.Component.Paid
	case PayablesPaid:
		return p.Component.Paid
	}
	return true
}

// PayableTotals summarizes a payables listing. Pending amounts use the
// realized value when one was entered and the estimate otherwise.
type PayableTotals struct {
	Pending decimal.Decimal
	Paid    decimal.Decimal
}

// CollectPayables flattens and filters payables, newest orders first
func CollectPayables(orders []Order, filter PayableFilter) ([]Payable, PayableTotals) {
	totals := PayableTotals{Pending: decimal.Zero, Paid: decimal.Zero}
	selected := make([]Payable, 0)
	for i := range orders {
		for _, p := range orders[i].Payables() {
			if p.Component.Paid {
				totals.Paid = totals.Paid.Add(p.Component.Realized)
			} else if p.Component.Realized.IsPositive() {
				totals.Pending = totals.Pending.Add(p.Component.Realized)
			} else {
				totals.Pending = totals.Pending.Add(p.Component.Estimated)
			}
			if filter.Matches(p) {
				selected = append(selected, p)
			}
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].OrderDate.After(selected[j].OrderDate)
	})
	return selected, totals
}

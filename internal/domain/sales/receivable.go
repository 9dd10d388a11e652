package sales

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableFilter selects which installments a receivables listing shows
type ReceivableFilter string

const (
	ReceivablesAll     ReceivableFilter = "all"
	ReceivablesPending ReceivableFilter = "pending"
	ReceivablesOverdue ReceivableFilter = "overdue"
)

// IsValid checks if the filter is known
func (f ReceivableFilter) IsValid() bool {
	return f == ReceivablesAll || f == ReceivablesPending || f == ReceivablesOverdue
}

// Receivable is one installment of one order, as shown to the finance team
type Receivable struct {
	OrderID     uuid.UUID
	OrderNumber string
	ClientID    uuid.UUID
	Salesperson string
	Type        InstallmentType
	Description string
	Amount      decimal.Decimal
	DueDate     *time.Time
	Confirmed   bool
	ConfirmedAt *time.Time
	Overdue     bool
}

// Receivables lists installments with a non-zero amount
func (o *Order) Receivables(today time.Time) []Receivable {
	receivables := make([]Receivable, 0, 2)
	for _, t := range AllInstallmentTypes() {
		installment := o.installment(t)
		if !installment.Amount.IsPositive() {
			continue
		}
		receivables = append(receivables, Receivable{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			ClientID:    o.ClientID,
			Salesperson: o.Salesperson,
			Type:        t,
			Description: t.Description(),
			Amount:      installment.Amount,
			DueDate:     installment.DueDate,
			Confirmed:   installment.Confirmed,
			ConfirmedAt: installment.ConfirmedAt,
			Overdue:     installment.IsOverdue(today),
		})
	}
	return receivables
}

// Matches applies the filter to one receivable
func (f ReceivableFilter) Matches(r Receivable) bool {
	switch f {
	case ReceivablesPending:
		return !r.Confirmed
	case ReceivablesOverdue:
		return r.Overdue
	}
	return true
}

// ReceivableTotals summarizes a receivables listing
type ReceivableTotals struct {
	Receivable decimal.Decimal
	Overdue    decimal.Decimal
	Received   decimal.Decimal
}

// CollectReceivables flattens, filters and sorts receivables by due date.
// Totals are computed over every receivable, not only the filtered ones.
func CollectReceivables(orders []Order, filter ReceivableFilter, today time.Time) ([]Receivable, ReceivableTotals) {
	totals := ReceivableTotals{Receivable: decimal.Zero, Overdue: decimal.Zero, Received: decimal.Zero}
	selected := make([]Receivable, 0)
	for i := range orders {
		for _, r := range orders[i].Receivables(today) {
			switch {
			case r.Confirmed:
				totals.Received = totals.Received.Add(r.Amount)
			case r.Overdue:
				totals.Overdue = totals.Overdue.Add(r.Amount)
				totals.Receivable = totals.Receivable.Add(r.Amount)
			default:
				totals.Receivable = totals.Receivable.Add(r.Amount)
			}
			if filter.Matches(r) {
				selected = append(selected, r)
			}
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return dueBefore(selected[i].DueDate, selected[j].DueDate)
	})
	return selected, totals
}

// dueBefore orders nil due dates last
func dueBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	}
	return a.Before(*b)
}

package sales

import (
	"time"

	"github.com/brindes/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionRate is the share of a confirmed installment paid to the salesperson
var CommissionRate = decimal.RequireFromString("0.01")

// CommissionStatus is set to PAID by payroll, outside this service
type CommissionStatus string

const (
	CommissionPending CommissionStatus = "PENDING"
	CommissionPaid    CommissionStatus = "PAID"
)

// IsValid checks if the status is a valid CommissionStatus
func (s CommissionStatus) IsValid() bool {
	return s == CommissionPending || s == CommissionPaid
}

// Commission is accrued once per (order, installment type). Its amount is
// fixed when it is created.
type Commission struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	OrderID     uuid.UUID
	Salesperson string
	Type        InstallmentType
	Amount      decimal.Decimal
	Status      CommissionStatus
	CreatedAt   time.Time
}

// Accrue derives the commission for a confirmed installment.
// Whether it is actually stored is decided by the (order, type) uniqueness
// constraint at commit time.
func Accrue(order *Order, installmentType InstallmentType, confirmedAmount decimal.Decimal) *Commission {
	return &Commission{
		ID:          uuid.New(),
		TenantID:    order.TenantID,
		OrderID:     order.ID,
		Salesperson: order.Salesperson,
		Type:        installmentType,
		Amount:      CommissionAmount(confirmedAmount),
		Status:      CommissionPending,
		CreatedAt:   time.Now(),
	}
}

// CommissionAmount is 1% of the confirmed amount, rounded to cents
func CommissionAmount(confirmedAmount decimal.Decimal) decimal.Decimal {
	return valueobject.RoundMoney(confirmedAmount.Mul(CommissionRate))
}

// SalespersonCommissions is the total accrued for one salesperson
type SalespersonCommissions struct {
	Salesperson string
	Total       decimal.Decimal
	Count       int
}

// SummarizeBySalesperson groups commissions, keeping first-seen order
func SummarizeBySalesperson(commissions []Commission) []SalespersonCommissions {
	index := make(map[string]int)
	summaries := make([]SalespersonCommissions, 0)
	for _, c := range commissions {
		pos, ok := index[c.Salesperson]
		if !ok {
			pos = len(summaries)
			index[c.Salesperson] = pos
			summaries = append(summaries, SalespersonCommissions{Salesperson: c.Salesperson, Total: decimal.Zero})
		}
		summaries[pos].Total = summaries[pos].Total.Add(c.Amount)
		summaries[pos].Count++
	}
	return summaries
}

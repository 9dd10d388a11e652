package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentType identifies one of the two receivable installments.
// Commissions use the same type, one commission per installment.
type InstallmentType string

const (
	InstallmentEntry     InstallmentType = "ENTRY"
	InstallmentRemainder InstallmentType = "REMAINDER"
)

// AllInstallmentTypes returns both installment types, entry first
func AllInstallmentTypes() []InstallmentType {
	return []InstallmentType{InstallmentEntry, InstallmentRemainder}
}

// IsValid checks if the type is ENTRY or REMAINDER
func (t InstallmentType) IsValid() bool {
	return t == InstallmentEntry || t == InstallmentRemainder
}

// String returns the string representation of InstallmentType
func (t InstallmentType) String() string {
	return string(t)
}

// Description is the receivable label used by the finance team
func (t InstallmentType) Description() string {
	switch t {
	case InstallmentEntry:
		return "ENTRADA"
	case InstallmentRemainder:
		return "RESTANTE"
	}
	return string(t)
}

// Installment is a scheduled receivable. It moves from unconfirmed to
// confirmed exactly once and never back.
type Installment struct {
	Amount      decimal.Decimal
	DueDate     *time.Time
	Confirmed   bool
	ConfirmedAt *time.Time
}

// ReceivedAmount is the amount if confirmed, zero otherwise
func (i Installment) ReceivedAmount() decimal.Decimal {
	if i.Confirmed {
		return i.Amount
	}
	return decimal.Zero
}

// IsOverdue reports an unconfirmed installment whose due date is before today
func (i Installment) IsOverdue(today time.Time) bool {
	if i.Confirmed || i.DueDate == nil {
		return false
	}
	return truncateDay(*i.DueDate).Before(truncateDay(today))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

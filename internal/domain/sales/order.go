package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// installmentTolerance is how far entry+remainder may drift from the total
// before a save is answered with a warning.
var installmentTolerance = decimal.RequireFromString("0.01")

// InstallmentInput is the installment part of a submitted order header
type InstallmentInput struct {
	Amount      decimal.Decimal
	DueDate     *time.Time
	Confirmed   bool
	ConfirmedAt *time.Time
}

// OrderHeader carries every header field a save may set
type OrderHeader struct {
	OrderNumber     string
	Salesperson     string
	Status          OrderStatus
	BudgetDate      time.Time
	OrderDate       time.Time
	Issuer          string
	BillingModality string
	PaymentMethod   string
	PaymentDueDate  time.Time
	ClientID        uuid.UUID
	Entry           InstallmentInput
	Remainder       InstallmentInput
}

// Validate checks required fields and monetary ranges
func (h OrderHeader) Validate() error {
	switch {
	case strings.TrimSpace(h.OrderNumber) == "":
		return shared.NewValidationError("order number is required")
	case strings.TrimSpace(h.Salesperson) == "":
		return shared.NewValidationError("salesperson is required")
	case h.BudgetDate.IsZero():
		return shared.NewValidationError("budget date is required")
	case h.OrderDate.IsZero():
		return shared.NewValidationError("order date is required")
	case h.ClientID == uuid.Nil:
		return shared.NewValidationError("client is required")
	case strings.TrimSpace(h.BillingModality) == "":
		return shared.NewValidationError("billing modality is required")
	case h.PaymentDueDate.IsZero():
		return shared.NewValidationError("payment due date is required")
	}
	if h.Status != "" && !h.Status.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("unknown order status %q", h.Status))
	}
	if h.Entry.Amount.IsNegative() || h.Remainder.Amount.IsNegative() {
		return shared.NewValidationError("installment amounts cannot be negative")
	}
	return nil
}

func (h OrderHeader) installmentInput(t InstallmentType) InstallmentInput {
	if t == InstallmentEntry {
		return h.Entry
	}
	return h.Remainder
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return shared.NewValidationError("an order needs at least one item")
	}
	for i, in := range items {
		if err := in.Validate(i + 1); err != nil {
			return err
		}
	}
	return nil
}

// Order is the aggregate root of the financial engine: pricing, cost ledger,
// receivables, lifecycle status and the audit records they produce.
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber     string
	Salesperson     string
	Status          OrderStatus
	BudgetDate      time.Time
	OrderDate       time.Time
	Issuer          string
	BillingModality string
	PaymentMethod   string
	PaymentDueDate  time.Time
	ClientID        uuid.UUID
	TotalAmount     decimal.Decimal
	Entry           Installment
	Remainder       Installment
	Items           []OrderItem

	auditEntries []*AuditLogEntry
}

// NewOrder creates an order from a first save. Installments flagged as
// confirmed go through ConfirmInstallment like any later confirmation.
func NewOrder(tenantID uuid.UUID, actor shared.Actor, header OrderHeader, items []ItemInput) (*Order, error) {
	if err := header.Validate(); err != nil {
		return nil, err
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}
	status := header.Status
	if status == "" {
		status = StatusOpen
	}
	if status.RequiresAdmin() && !actor.IsAdmin() {
		return nil, statusPermissionError(status)
	}
	for _, t := range AllInstallmentTypes() {
		in := header.installmentInput(t)
		if in.Confirmed && !in.Amount.IsPositive() {
			return nil, zeroInstallmentError(t)
		}
	}

	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              status,
	}
	order.applyHeader(header)
	order.Items = make([]OrderItem, 0, len(items))
	for _, in := range items {
		item, err := NewOrderItem(order.ID, in)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
	}
	order.recalculateTotal()
	order.recordAudit(actor, orderCreatedMessage)
	order.RecordEvent(NewOrderSavedEvent(order, true))

	if err := order.confirmFlaggedInstallments(actor, header); err != nil {
		return nil, err
	}
	return order, nil
}

// Update applies a full save: header upsert plus complete replacement of the
// item list. Everything is checked before anything is changed, so a failed
// update leaves the order untouched.
func (o *Order) Update(actor shared.Actor, header OrderHeader, items []ItemInput) error {
	if err := header.Validate(); err != nil {
		return err
	}
	if err := validateItems(items); err != nil {
		return err
	}
	if header.Status != "" && header.Status != o.Status && header.Status.RequiresAdmin() && !actor.IsAdmin() {
		return statusPermissionError(header.Status)
	}
	for _, t := range AllInstallmentTypes() {
		current := o.installment(t)
		in := header.installmentInput(t)
		if current.Confirmed {
			if !in.Confirmed {
				return shared.NewInvalidStateError(fmt.Sprintf("%s installment is confirmed and cannot be unconfirmed", t.Description()))
			}
			if !in.Amount.Equal(current.Amount) {
				return shared.NewInvalidStateError(fmt.Sprintf("%s installment is confirmed; its amount cannot change", t.Description()))
			}
		} else if in.Confirmed && !in.Amount.IsPositive() {
			return zeroInstallmentError(t)
		}
	}

	newItems, err := o.mergeItems(items)
	if err != nil {
		return err
	}

	o.applyHeader(header)
	o.Items = newItems
	o.recalculateTotal()
	if header.Status != "" && header.Status != o.Status {
		from := o.Status
		o.Status = header.Status
		o.recordAudit(actor, statusChangedMessage(from, o.Status))
		o.RecordEvent(NewOrderStatusChangedEvent(o, from, actor))
	}
	o.recordAudit(actor, orderUpdatedMessage)
	o.RecordEvent(NewOrderSavedEvent(o, false))
	o.Touch()

	return o.confirmFlaggedInstallments(actor, header)
}

// mergeItems builds the replacement item list. Known lines keep their ledger
// state; lines with paid components cannot be dropped.
func (o *Order) mergeItems(items []ItemInput) ([]OrderItem, error) {
	existing := make(map[uuid.UUID]*OrderItem, len(o.Items))
	for i := range o.Items {
		existing[o.Items[i].ID] = &o.Items[i]
	}

	kept := make(map[uuid.UUID]bool, len(items))
	merged := make([]OrderItem, 0, len(items))
	for _, in := range items {
		if in.ID != nil {
			if current, ok := existing[*in.ID]; ok && !kept[*in.ID] {
				updated := *current
				if err := updated.applyInput(in); err != nil {
					return nil, err
				}
				kept[updated.ID] = true
				merged = append(merged, updated)
				continue
			}
		}
		item, err := NewOrderItem(o.ID, in)
		if err != nil {
			return nil, err
		}
		merged = append(merged, *item)
	}

	for i := range o.Items {
		if !kept[o.Items[i].ID] && o.Items[i].HasPaidComponent() {
			return nil, shared.NewInvalidStateError(fmt.Sprintf("item %q has paid cost components and cannot be removed", o.Items[i].ProductName))
		}
	}
	return merged, nil
}

func (o *Order) applyHeader(h OrderHeader) {
	o.OrderNumber = strings.TrimSpace(h.OrderNumber)
	o.Salesperson = strings.TrimSpace(h.Salesperson)
	o.BudgetDate = h.BudgetDate
	o.OrderDate = h.OrderDate
	o.Issuer = h.Issuer
	o.BillingModality = h.BillingModality
	o.PaymentMethod = h.PaymentMethod
	o.PaymentDueDate = h.PaymentDueDate
	o.ClientID = h.ClientID
	o.Entry.Amount = h.Entry.Amount
	o.Entry.DueDate = h.Entry.DueDate
	o.Remainder.Amount = h.Remainder.Amount
	o.Remainder.DueDate = h.Remainder.DueDate
}

func (o *Order) confirmFlaggedInstallments(actor shared.Actor, header OrderHeader) error {
	for _, t := range AllInstallmentTypes() {
		in := header.installmentInput(t)
		if !in.Confirmed {
			continue
		}
		if _, err := o.ConfirmInstallment(actor, t, in.ConfirmedAt); err != nil {
			return err
		}
	}
	return nil
}

// ConfirmInstallment moves a receivable installment to confirmed. Confirming
// an already confirmed installment is a no-op and returns false; it records
// nothing and accrues nothing. The effective date defaults to now.
func (o *Order) ConfirmInstallment(actor shared.Actor, t InstallmentType, effectiveDate *time.Time) (bool, error) {
	if !t.IsValid() {
		return false, shared.NewValidationError(fmt.Sprintf("unknown installment type %q", t))
	}
	installment := o.installment(t)
	if installment.Confirmed {
		return false, nil
	}
	if !installment.Amount.IsPositive() {
		return false, zeroInstallmentError(t)
	}

	when := time.Now()
	if effectiveDate != nil {
		when = *effectiveDate
	}
	installment.Confirmed = true
	installment.ConfirmedAt = &when

	o.recordAudit(actor, installmentConfirmedMessage(t, installment.Amount))
	o.RecordEvent(NewInstallmentConfirmedEvent(o, t, installment.Amount, when, actor))
	o.Touch()
	return true, nil
}

// ConfirmCostComponent marks a payable component as paid and freezes its
// realized value. When realizedAmount is given it is stored first, as the
// total paid for the line. Confirming a paid component is an error.
func (o *Order) ConfirmCostComponent(actor shared.Actor, itemID uuid.UUID, kind ComponentKind, realizedAmount *decimal.Decimal, effectiveDate *time.Time) error {
	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError(shared.CodeNotFound, "order item not found")
	}
	if !kind.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("unknown cost component %d", int(kind)))
	}
	if item.IsPaid(kind) {
		return shared.NewInvalidStateError(fmt.Sprintf("%s of %q is already paid", kind.Label(), item.ProductName))
	}
	if realizedAmount != nil {
		if err := item.SetRealizedAmount(kind, *realizedAmount); err != nil {
			return err
		}
	}

	when := time.Now()
	if effectiveDate != nil {
		when = *effectiveDate
	}
	item.markPaid(kind, when)

	o.recordAudit(actor, componentConfirmedMessage(item, kind))
	o.RecordEvent(NewCostComponentConfirmedEvent(o, item, kind, when, actor))
	o.Touch()
	return nil
}

// SetRealizedCost corrects the realized value of an unpaid component
func (o *Order) SetRealizedCost(itemID uuid.UUID, kind ComponentKind, value decimal.Decimal) error {
	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError(shared.CodeNotFound, "order item not found")
	}
	if err := item.SetRealizedValue(kind, value); err != nil {
		return err
	}
	o.Touch()
	return nil
}

// ChangeStatus moves the order to target. Returns false when the order is
// already in target. Entering StatusBetweenFinished requires an administrator.
func (o *Order) ChangeStatus(actor shared.Actor, target OrderStatus) (bool, error) {
	if !target.IsValid() {
		return false, shared.NewValidationError(fmt.Sprintf("unknown order status %q", target))
	}
	if target == o.Status {
		return false, nil
	}
	if target.RequiresAdmin() && !actor.IsAdmin() {
		return false, statusPermissionError(target)
	}

	from := o.Status
	o.Status = target
	o.recordAudit(actor, statusChangedMessage(from, target))
	o.RecordEvent(NewOrderStatusChangedEvent(o, from, actor))
	o.Touch()
	return true, nil
}

// GetItem returns the item with id, or nil
func (o *Order) GetItem(id uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i]
		}
	}
	return nil
}

// Installment returns a copy of the installment of type t
func (o *Order) Installment(t InstallmentType) Installment {
	return *o.installment(t)
}

func (o *Order) installment(t InstallmentType) *Installment {
	if t == InstallmentRemainder {
		return &o.Remainder
	}
	return &o.Entry
}

// CommissionAccruals derives one commission per confirmed installment. The
// repository offers all of them on every commit and the (order, type)
// unique constraint keeps only the first.
func (o *Order) CommissionAccruals() []*Commission {
	accruals := make([]*Commission, 0, 2)
	for _, t := range AllInstallmentTypes() {
		installment := o.installment(t)
		if installment.Confirmed {
			accruals = append(accruals, Accrue(o, t, installment.Amount))
		}
	}
	return accruals
}

// InstallmentMismatch returns entry+remainder-total and whether it exceeds a cent
func (o *Order) InstallmentMismatch() (decimal.Decimal, bool) {
	diff := o.Entry.Amount.Add(o.Remainder.Amount).Sub(o.TotalAmount)
	return diff, diff.Abs().GreaterThan(installmentTolerance)
}

// Warnings lists non-fatal problems a user should look at
func (o *Order) Warnings() []string {
	warnings := make([]string, 0)
	if diff, mismatch := o.InstallmentMismatch(); mismatch {
		warnings = append(warnings, fmt.Sprintf(
			"entry plus remainder differs from the order total by %s", valueobject.FormatBRL(diff)))
	}
	for i := range o.Items {
		if o.Items[i].Pricing().Fallback {
			warnings = append(warnings, fmt.Sprintf(
				"item %q uses markup factor %s; price doubled instead of marked up, review it",
				o.Items[i].ProductName, o.Items[i].MarkupFactor.String()))
		}
	}
	return warnings
}

// PendingAuditEntries returns audit entries recorded since the last commit
func (o *Order) PendingAuditEntries() []*AuditLogEntry {
	return o.auditEntries
}

// ClearPendingAuditEntries is called once the entries are stored
func (o *Order) ClearPendingAuditEntries() {
	o.auditEntries = nil
}

func (o *Order) recordAudit(actor shared.Actor, message string) {
	o.auditEntries = append(o.auditEntries, NewAuditLogEntry(o.TenantID, o.ID, actor, message))
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].SaleTotal())
	}
	o.TotalAmount = total
}

func statusPermissionError(target OrderStatus) error {
	return shared.NewPermissionDeniedError(fmt.Sprintf("only administrators can move an order to %s", target))
}

func zeroInstallmentError(t InstallmentType) error {
	return shared.NewValidationError(fmt.Sprintf("%s installment has no amount to confirm", t.Description()))
}

package sales

import (
	"time"

	"github.com/brindes/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Order DTOs ====================

// CostSetInput carries the six per-unit (or per-line) cost components of an item
type CostSetInput struct {
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Customization     decimal.Decimal `json:"customization"`
	SupplierTransport decimal.Decimal `json:"supplier_transport"`
	ClientTransport   decimal.Decimal `json:"client_transport"`
	ExtraExpense      decimal.Decimal `json:"extra_expense"`
	Layout            decimal.Decimal `json:"layout"`
}

func (c CostSetInput) toDomain() sales.CostSet {
	return sales.NewCostSet(c.UnitPrice, c.Customization, c.SupplierTransport, c.ClientTransport, c.ExtraExpense, c.Layout)
}

// InstallmentRequest is the ENTRY or REMAINDER part of a save
type InstallmentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	DueDate     *time.Time      `json:"due_date"`
	Confirmed   bool            `json:"confirmed"`
	ConfirmedAt *time.Time      `json:"confirmed_at"`
}

func (r InstallmentRequest) toDomain() sales.InstallmentInput {
	return sales.InstallmentInput{
		Amount:      r.Amount,
		DueDate:     r.DueDate,
		Confirmed:   r.Confirmed,
		ConfirmedAt: r.ConfirmedAt,
	}
}

// OrderItemRequest is one item line of a save. ID is set for lines that
// already exist on the order; lines without an ID are created.
type OrderItemRequest struct {
	ID           *uuid.UUID      `json:"id"`
	ProductName  string          `json:"product_name" binding:"max=200"`
	SupplierID   *uuid.UUID      `json:"supplier_id"`
	Quantity     int             `json:"quantity"`
	MarkupFactor decimal.Decimal `json:"markup_factor"` // zero uses the configured default
	Estimated    CostSetInput    `json:"estimated"`
	Realized     CostSetInput    `json:"realized"`
}

// SaveOrderRequest creates an order (ID nil) or replaces header and items of
// an existing one. Version, when set, must match the stored version.
type SaveOrderRequest struct {
	ID              *uuid.UUID         `json:"id"`
	Version         int                `json:"version"`
	OrderNumber     string             `json:"order_number" binding:"max=50"`
	Salesperson     string             `json:"salesperson" binding:"max=100"`
	Status          string             `json:"status"`
	BudgetDate      time.Time          `json:"budget_date"`
	OrderDate       time.Time          `json:"order_date"`
	Issuer          string             `json:"issuer" binding:"max=100"`
	BillingModality string             `json:"billing_modality" binding:"max=50"`
	PaymentMethod   string             `json:"payment_method" binding:"max=50"`
	PaymentDueDate  time.Time          `json:"payment_due_date"`
	ClientID        uuid.UUID          `json:"client_id"`
	Entry           InstallmentRequest `json:"entry"`
	Remainder       InstallmentRequest `json:"remainder"`
	Items           []OrderItemRequest `json:"items" binding:"dive"`
}

// ConfirmInstallmentRequest confirms the ENTRY or REMAINDER installment
type ConfirmInstallmentRequest struct {
	Type        string     `json:"type" binding:"required,oneof=ENTRY REMAINDER"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
}

// ConfirmPayableRequest marks one cost component of one item as paid
type ConfirmPayableRequest struct {
	ItemID         uuid.UUID        `json:"item_id" binding:"required"`
	Component      string           `json:"component" binding:"required,cost_component"`
	RealizedAmount *decimal.Decimal `json:"realized_amount"` // total paid for the line
	PaidAt         *time.Time       `json:"paid_at"`
}

// SetRealizedCostRequest corrects the realized value of an unpaid component
type SetRealizedCostRequest struct {
	ItemID    uuid.UUID       `json:"item_id" binding:"required"`
	Component string          `json:"component" binding:"required,cost_component"`
	Value     decimal.Decimal `json:"value"`
}

// ChangeStatusRequest moves an order to another lifecycle status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,order_status"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search      string     `form:"search"`
	Status      string     `form:"status"`
	Salesperson string     `form:"salesperson"`
	ClientID    *uuid.UUID `form:"-"` // parsed by the handler
	Page        int        `form:"page" binding:"min=0"`
	PageSize    int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CostComponentResponse is one row of an item's cost ledger
type CostComponentResponse struct {
	Component string          `json:"component"`
	Label     string          `json:"label"`
	Estimated decimal.Decimal `json:"estimated"`
	Realized  decimal.Decimal `json:"realized"`
	Paid      bool            `json:"paid"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
}

// OrderItemResponse represents an order item with its pricing and ledger
type OrderItemResponse struct {
	ID              uuid.UUID               `json:"id"`
	ProductName     string                  `json:"product_name"`
	SupplierID      *uuid.UUID              `json:"supplier_id,omitempty"`
	Quantity        int                     `json:"quantity"`
	MarkupFactor    decimal.Decimal         `json:"markup_factor"`
	FallbackPricing bool                    `json:"fallback_pricing"`
	RawCost         decimal.Decimal         `json:"raw_cost"`
	UnitSalePrice   decimal.Decimal         `json:"unit_sale_price"`
	SaleTotal       decimal.Decimal         `json:"sale_total"`
	RealizedTotal   decimal.Decimal         `json:"realized_total"`
	Components      []CostComponentResponse `json:"components"`
}

// InstallmentResponse represents one receivable installment
type InstallmentResponse struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Confirmed   bool            `json:"confirmed"`
	ConfirmedAt *time.Time      `json:"confirmed_at,omitempty"`
}

// SettlementResponse carries both balances of an order
type SettlementResponse struct {
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	RealizedCost      decimal.Decimal `json:"realized_cost"`
	ConfirmedReceipts decimal.Decimal `json:"confirmed_receipts"`
	EstimatedBalance  decimal.Decimal `json:"estimated_balance"`
	RealBalance       decimal.Decimal `json:"real_balance"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	Salesperson     string              `json:"salesperson"`
	Status          string              `json:"status"`
	BudgetDate      time.Time           `json:"budget_date"`
	OrderDate       time.Time           `json:"order_date"`
	Issuer          string              `json:"issuer"`
	BillingModality string              `json:"billing_modality"`
	PaymentMethod   string              `json:"payment_method"`
	PaymentDueDate  time.Time           `json:"payment_due_date"`
	ClientID        uuid.UUID           `json:"client_id"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Entry           InstallmentResponse `json:"entry"`
	Remainder       InstallmentResponse `json:"remainder"`
	Items           []OrderItemResponse `json:"items"`
	Settlement      SettlementResponse  `json:"settlement"`
	Version         int                 `json:"version"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderListItemResponse is the summary row of the order list
type OrderListItemResponse struct {
	ID                 uuid.UUID       `json:"id"`
	OrderNumber        string          `json:"order_number"`
	Salesperson        string          `json:"salesperson"`
	Status             string          `json:"status"`
	OrderDate          time.Time       `json:"order_date"`
	ClientID           uuid.UUID       `json:"client_id"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	ItemCount          int             `json:"item_count"`
	EntryConfirmed     bool            `json:"entry_confirmed"`
	RemainderConfirmed bool            `json:"remainder_confirmed"`
	CreatedAt          time.Time       `json:"created_at"`
}

// SaveOrderResponse is the committed order plus non-fatal warnings
type SaveOrderResponse struct {
	Order    OrderResponse `json:"order"`
	Created  bool          `json:"created"`
	Warnings []string      `json:"warnings"`
}

// TransitionResponse reports the committed order and whether anything changed
type TransitionResponse struct {
	Order   OrderResponse `json:"order"`
	Changed bool          `json:"changed"`
}

// AuditLogResponse is one audit trail entry
type AuditLogResponse struct {
	ID        uuid.UUID  `json:"id"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	ActorName string     `json:"actor_name"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
}

// ==================== Receivable / Payable DTOs ====================

// ReceivableResponse is one installment row of the receivables view
type ReceivableResponse struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	ClientID    uuid.UUID       `json:"client_id"`
	Salesperson string          `json:"salesperson"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Confirmed   bool            `json:"confirmed"`
	ConfirmedAt *time.Time      `json:"confirmed_at,omitempty"`
	Overdue     bool            `json:"overdue"`
}

// ReceivablesResponse is the receivables view with totals over all rows
type ReceivablesResponse struct {
	Items  []ReceivableResponse `json:"items"`
	Totals struct {
		Receivable decimal.Decimal `json:"receivable"`
		Overdue    decimal.Decimal `json:"overdue"`
		Received   decimal.Decimal `json:"received"`
	} `json:"totals"`
}

// PayableResponse is one cost component row of the payables view
type PayableResponse struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	OrderDate   time.Time       `json:"order_date"`
	ItemID      uuid.UUID       `json:"item_id"`
	ProductName string          `json:"product_name"`
	SupplierID  *uuid.UUID      `json:"supplier_id,omitempty"`
	Component   string          `json:"component"`
	Label       string          `json:"label"`
	Estimated   decimal.Decimal `json:"estimated"`
	Realized    decimal.Decimal `json:"realized"`
	Paid        bool            `json:"paid"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
}

// PayablesResponse is the payables view with totals over all rows
type PayablesResponse struct {
	Items  []PayableResponse `json:"items"`
	Totals struct {
		Pending decimal.Decimal `json:"pending"`
		Paid    decimal.Decimal `json:"paid"`
	} `json:"totals"`
}

// ==================== Commission DTOs ====================

// CommissionListFilter narrows the commission page. Year and Month select
// the accrual month; both zero means every month.
type CommissionListFilter struct {
	Salesperson string     `form:"salesperson"`
	Year        int        `form:"year" binding:"omitempty,min=2000,max=2100"`
	Month       int        `form:"month" binding:"omitempty,min=1,max=12"`
	Status      string     `form:"status" binding:"omitempty,oneof=PENDING PAID"`
	OrderID     *uuid.UUID `form:"-"` // parsed by the handler
}

// CommissionResponse represents an accrued commission
type CommissionResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	Salesperson string          `json:"salesperson"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SalespersonCommissionResponse is the per-salesperson total
type SalespersonCommissionResponse struct {
	Salesperson string          `json:"salesperson"`
	Total       decimal.Decimal `json:"total"`
	Count       int             `json:"count"`
}

// CommissionListResponse is the commission page
type CommissionListResponse struct {
	Items         []CommissionResponse            `json:"items"`
	Total         decimal.Decimal                 `json:"total"`
	BySalesperson []SalespersonCommissionResponse `json:"by_salesperson"`
}

// ==================== Calculation Factor DTOs ====================

// CreateFactorRequest represents a request to create a markup factor
type CreateFactorRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Value       decimal.Decimal `json:"value" binding:"positive"`
	Description string          `json:"description" binding:"max=500"`
	Active      *bool           `json:"active"`
}

// UpdateFactorRequest represents a request to update a markup factor
type UpdateFactorRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Value       decimal.Decimal `json:"value" binding:"positive"`
	Description string          `json:"description" binding:"max=500"`
	Active      *bool           `json:"active"`
}

// FactorResponse represents a markup factor in API responses
type FactorResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Value           decimal.Decimal `json:"value"`
	Description     string          `json:"description"`
	Active          bool            `json:"active"`
	FallbackPricing bool            `json:"fallback_pricing"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ==================== Converters ====================

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *sales.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		items[i] = toOrderItemResponse(&o.Items[i])
	}
	settlement := o.Settlement()

	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		Salesperson:     o.Salesperson,
		Status:          o.Status.String(),
		BudgetDate:      o.BudgetDate,
		OrderDate:       o.OrderDate,
		Issuer:          o.Issuer,
		BillingModality: o.BillingModality,
		PaymentMethod:   o.PaymentMethod,
		PaymentDueDate:  o.PaymentDueDate,
		ClientID:        o.ClientID,
		TotalAmount:     o.TotalAmount,
		Entry:           toInstallmentResponse(sales.InstallmentEntry, o.Entry),
		Remainder:       toInstallmentResponse(sales.InstallmentRemainder, o.Remainder),
		Items:           items,
		Settlement: SettlementResponse{
			EstimatedCost:     settlement.EstimatedCost,
			RealizedCost:      settlement.RealizedCost,
			ConfirmedReceipts: settlement.ConfirmedReceipts,
			EstimatedBalance:  settlement.EstimatedBalance,
			RealBalance:       settlement.RealBalance,
		},
		Version:   o.Version,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// ToOrderListItemResponse converts a domain Order to its list row
func ToOrderListItemResponse(o *sales.Order) OrderListItemResponse {
	return OrderListItemResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		Salesperson:        o.Salesperson,
		Status:             o.Status.String(),
		OrderDate:          o.OrderDate,
		ClientID:           o.ClientID,
		TotalAmount:        o.TotalAmount,
		ItemCount:          len(o.Items),
		EntryConfirmed:     o.Entry.Confirmed,
		RemainderConfirmed: o.Remainder.Confirmed,
		CreatedAt:          o.CreatedAt,
	}
}

func toOrderItemResponse(item *sales.OrderItem) OrderItemResponse {
	pricing := item.Pricing()
	ledger := item.Ledger()
	components := make([]CostComponentResponse, len(ledger))
	for i, c := range ledger {
		components[i] = toCostComponentResponse(c)
	}
	return OrderItemResponse{
		ID:              item.ID,
		ProductName:     item.ProductName,
		SupplierID:      item.SupplierID,
		Quantity:        item.Quantity,
		MarkupFactor:    item.MarkupFactor,
		FallbackPricing: pricing.Fallback,
		RawCost:         item.RawCost(),
		UnitSalePrice:   item.UnitSalePrice(),
		SaleTotal:       item.SaleTotal(),
		RealizedTotal:   item.RealizedTotal(),
		Components:      components,
	}
}

func toCostComponentResponse(c sales.CostComponent) CostComponentResponse {
	return CostComponentResponse{
		Component: c.Kind.String(),
		Label:     c.Label,
		Estimated: c.Estimated,
		Realized:  c.Realized,
		Paid:      c.Paid,
		PaidAt:    c.PaidAt,
	}
}

func toInstallmentResponse(t sales.InstallmentType, in sales.Installment) InstallmentResponse {
	return InstallmentResponse{
		Type:        t.String(),
		Description: t.Description(),
		Amount:      in.Amount,
		DueDate:     in.DueDate,
		Confirmed:   in.Confirmed,
		ConfirmedAt: in.ConfirmedAt,
	}
}

// ToAuditLogResponse converts an audit entry
func ToAuditLogResponse(e *sales.AuditLogEntry) AuditLogResponse {
	return AuditLogResponse{
		ID:        e.ID,
		ActorID:   e.ActorID,
		ActorName: e.ActorName,
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}
}

// ToReceivableResponse converts a receivable row
func ToReceivableResponse(r sales.Receivable) ReceivableResponse {
	return ReceivableResponse{
		OrderID:     r.OrderID,
		OrderNumber: r.OrderNumber,
		ClientID:    r.ClientID,
		Salesperson: r.Salesperson,
		Type:        r.Type.String(),
		Description: r.Description,
		Amount:      r.Amount,
		DueDate:     r.DueDate,
		Confirmed:   r.Confirmed,
		ConfirmedAt: r.ConfirmedAt,
		Overdue:     r.Overdue,
	}
}

// ToPayableResponse converts a payable row
func ToPayableResponse(p sales.Payable) PayableResponse {
	return PayableResponse{
		OrderID:     p.OrderID,
		OrderNumber: p.OrderNumber,
		OrderDate:   p.OrderDate,
		ItemID:      p.ItemID,
		ProductName: p.ProductName,
		SupplierID:  p.SupplierID,
		Component:   p.Component.Kind.String(),
		Label:       p.Component.Label,
		Estimated:   p.Component.Estimated,
		Realized:    p.Component.Realized,
		Paid:        p.Component.Paid,
		PaidAt:      p.Component.PaidAt,
	}
}

// ToCommissionResponse converts a commission
func ToCommissionResponse(c *sales.Commission) CommissionResponse {
	return CommissionResponse{
		ID:          c.ID,
		OrderID:     c.OrderID,
		Salesperson: c.Salesperson,
		Type:        c.Type.String(),
		Amount:      c.Amount,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
	}
}

// ToFactorResponse converts a calculation factor
func ToFactorResponse(f *sales.CalculationFactor) FactorResponse {
	return FactorResponse{
		ID:              f.ID,
		Name:            f.Name,
		Value:           f.Value,
		Description:     f.Description,
		Active:          f.Active,
		FallbackPricing: f.UsesFallback(),
		Version:         f.Version,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

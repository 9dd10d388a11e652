package models

import (
	"time"

	"github.com/brindes/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
// Installments are flattened into entry_* and remainder_* columns.
type OrderModel struct {
	Versioned
	TenantID             uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:idx_order_tenant_number,priority:1"`
	OrderNumber          string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	Salesperson          string            `gorm:"type:varchar(100);not null;index"`
	Status               sales.OrderStatus `gorm:"type:varchar(40);not null;index"`
	BudgetDate           time.Time         `gorm:"type:date;not null"`
	OrderDate            time.Time         `gorm:"type:date;not null;index"`
	Issuer               string            `gorm:"type:varchar(100)"`
	BillingModality      string            `gorm:"type:varchar(50);not null"`
	PaymentMethod        string            `gorm:"type:varchar(50)"`
	PaymentDueDate       time.Time         `gorm:"type:date;not null"`
	ClientID             uuid.UUID         `gorm:"type:uuid;not null;index"`
	TotalAmount          decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	EntryAmount          decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	EntryDueDate         *time.Time        `gorm:"type:date"`
	EntryConfirmed       bool              `gorm:"not null;default:false"`
	EntryConfirmedAt     *time.Time
	RemainderAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	RemainderDueDate     *time.Time      `gorm:"type:date"`
	RemainderConfirmed   bool            `gorm:"not null;default:false"`
	RemainderConfirmedAt *time.Time
	Items                []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *sales.Order {
	order := &sales.Order{
		TenantAggregateRoot: m.rootFor(m.TenantID),
		OrderNumber:         m.OrderNumber,
		Salesperson:         m.Salesperson,
		Status:              m.Status,
		BudgetDate:          m.BudgetDate,
		OrderDate:           m.OrderDate,
		Issuer:              m.Issuer,
		BillingModality:     m.BillingModality,
		PaymentMethod:       m.PaymentMethod,
		PaymentDueDate:      m.PaymentDueDate,
		ClientID:            m.ClientID,
		TotalAmount:         m.TotalAmount,
		Entry: sales.Installment{
			Amount:      m.EntryAmount,
			DueDate:     m.EntryDueDate,
			Confirmed:   m.EntryConfirmed,
			ConfirmedAt: m.EntryConfirmedAt,
		},
		Remainder: sales.Installment{
			Amount:      m.RemainderAmount,
			DueDate:     m.RemainderDueDate,
			Confirmed:   m.RemainderConfirmed,
			ConfirmedAt: m.RemainderConfirmedAt,
		},
		Items: make([]sales.OrderItem, 0, len(m.Items)),
	}
	for i := range m.Items {
		order.Items = append(order.Items, *m.Items[i].ToDomain())
	}
	return order
}

// FromDomain populates the header columns from a domain Order. Items are
// converted separately because they are written in their own statement.
func (m *OrderModel) FromDomain(o *sales.Order) {
	m.Versioned = versionedOf(o.BaseAggregateRoot)
	m.TenantID = o.TenantID
	m.OrderNumber = o.OrderNumber
	m.Salesperson = o.Salesperson
	m.Status = o.Status
	m.BudgetDate = o.BudgetDate
	m.OrderDate = o.OrderDate
	m.Issuer = o.Issuer
	m.BillingModality = o.BillingModality
	m.PaymentMethod = o.PaymentMethod
	m.PaymentDueDate = o.PaymentDueDate
	m.ClientID = o.ClientID
	m.TotalAmount = o.TotalAmount
	m.EntryAmount = o.Entry.Amount
	m.EntryDueDate = o.Entry.DueDate
	m.EntryConfirmed = o.Entry.Confirmed
	m.EntryConfirmedAt = o.Entry.ConfirmedAt
	m.RemainderAmount = o.Remainder.Amount
	m.RemainderDueDate = o.Remainder.DueDate
	m.RemainderConfirmed = o.Remainder.Confirmed
	m.RemainderConfirmedAt = o.Remainder.ConfirmedAt
}

// OrderModelFromDomain creates a header model from a domain Order.
func OrderModelFromDomain(o *sales.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line. Each cost
// component has an estimated column, a real_ column and paid flags.
type OrderItemModel struct {
	Identity
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position     int             `gorm:"not null;default:0"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	SupplierID   *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity     int             `gorm:"not null"`
	MarkupFactor decimal.Decimal `gorm:"type:decimal(10,4);not null"`

	UnitPrice             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CustomizationCost     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SupplierTransportCost decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ClientTransportCost   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ExtraExpense          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	LayoutCost            decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	RealUnitPrice             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RealCustomizationCost     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	RealSupplierTransportCost decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	RealClientTransportCost   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	RealExtraExpense          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	RealLayoutCost            decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	UnitPricePaid         bool `gorm:"not null;default:false"`
	CustomizationPaid     bool `gorm:"not null;default:false"`
	SupplierTransportPaid bool `gorm:"not null;default:false"`
	ClientTransportPaid   bool `gorm:"not null;default:false"`
	ExtraExpensePaid      bool `gorm:"not null;default:false"`
	LayoutPaid            bool `gorm:"not null;default:false"`

	UnitPricePaidAt         *time.Time
	CustomizationPaidAt     *time.Time
	SupplierTransportPaidAt *time.Time
	ClientTransportPaidAt   *time.Time
	ExtraExpensePaidAt      *time.Time
	LayoutPaidAt            *time.Time
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() *sales.OrderItem {
	return &sales.OrderItem{
		ID:           m.ID,
		OrderID:      m.OrderID,
		ProductName:  m.ProductName,
		SupplierID:   m.SupplierID,
		Quantity:     m.Quantity,
		MarkupFactor: m.MarkupFactor,
		Estimated: sales.NewCostSet(m.UnitPrice, m.CustomizationCost, m.SupplierTransportCost,
			m.ClientTransportCost, m.ExtraExpense, m.LayoutCost).Stored(),
		Realized: sales.NewCostSet(m.RealUnitPrice, m.RealCustomizationCost, m.RealSupplierTransportCost,
			m.RealClientTransportCost, m.RealExtraExpense, m.RealLayoutCost).Stored(),
		Paid: [sales.ComponentCount]bool{m.UnitPricePaid, m.CustomizationPaid, m.SupplierTransportPaid,
			m.ClientTransportPaid, m.ExtraExpensePaid, m.LayoutPaid},
		PaidAt: [sales.ComponentCount]*time.Time{m.UnitPricePaidAt, m.CustomizationPaidAt, m.SupplierTransportPaidAt,
			m.ClientTransportPaidAt, m.ExtraExpensePaidAt, m.LayoutPaidAt},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// OrderItemModelFromDomain converts a domain item at the given list position.
func OrderItemModelFromDomain(tenantID uuid.UUID, position int, item *sales.OrderItem) *OrderItemModel {
	m := &OrderItemModel{
		Identity:     Identity{ID: item.ID, CreatedAt: item.CreatedAt, UpdatedAt: item.UpdatedAt},
		TenantID:     tenantID,
		OrderID:      item.OrderID,
		Position:     position,
		ProductName:  item.ProductName,
		SupplierID:   item.SupplierID,
		Quantity:     item.Quantity,
		MarkupFactor: item.MarkupFactor,
	}

	est, realized := item.Estimated, item.Realized
	m.UnitPrice = est[sales.ComponentUnitPrice]
	m.CustomizationCost = est[sales.ComponentCustomization]
	m.SupplierTransportCost = est[sales.ComponentSupplierTransport]
	m.ClientTransportCost = est[sales.ComponentClientTransport]
	m.ExtraExpense = est[sales.ComponentExtraExpense]
	m.LayoutCost = est[sales.ComponentLayout]

	m.RealUnitPrice = realized[sales.ComponentUnitPrice]
	m.RealCustomizationCost = realized[sales.ComponentCustomization]
	m.RealSupplierTransportCost = realized[sales.ComponentSupplierTransport]
	m.RealClientTransportCost = realized[sales.ComponentClientTransport]
	m.RealExtraExpense = realized[sales.ComponentExtraExpense]
	m.RealLayoutCost = realized[sales.ComponentLayout]

	m.UnitPricePaid, m.UnitPricePaidAt = item.Paid[sales.ComponentUnitPrice], item.PaidAt[sales.ComponentUnitPrice]
	m.CustomizationPaid, m.CustomizationPaidAt = item.Paid[sales.ComponentCustomization], item.PaidAt[sales.ComponentCustomization]
	m.SupplierTransportPaid, m.SupplierTransportPaidAt = item.Paid[sales.ComponentSupplierTransport], item.PaidAt[sales.ComponentSupplierTransport]
	m.ClientTransportPaid, m.ClientTransportPaidAt = item.Paid[sales.ComponentClientTransport], item.PaidAt[sales.ComponentClientTransport]
	m.ExtraExpensePaid, m.ExtraExpensePaidAt = item.Paid[sales.ComponentExtraExpense], item.PaidAt[sales.ComponentExtraExpense]
	m.LayoutPaid, m.LayoutPaidAt = item.Paid[sales.ComponentLayout], item.PaidAt[sales.ComponentLayout]
	return m
}

// OrderItemModelsFromDomain converts every item of the order, keeping list order.
func OrderItemModelsFromDomain(o *sales.Order) []*OrderItemModel {
	items := make([]*OrderItemModel, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, OrderItemModelFromDomain(o.TenantID, i, &o.Items[i]))
	}
	return items
}

// CommissionModel is the persistence model for accrued commissions.
// The (order_id, type) unique index is what makes accrual happen once.
type CommissionModel struct {
	ID          uuid.UUID              `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	OrderID     uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_commission_order_type,priority:1"`
	Type        sales.InstallmentType  `gorm:"type:varchar(20);not null;uniqueIndex:idx_commission_order_type,priority:2"`
	Salesperson string                 `gorm:"type:varchar(100);not null;index"`
	Amount      decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Status      sales.CommissionStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt   time.Time              `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CommissionModel) TableName() string {
	return "commissions"
}

// ToDomain converts the persistence model to a domain Commission.
func (m *CommissionModel) ToDomain() *sales.Commission {
	return &sales.Commission{
		ID:          m.ID,
		TenantID:    m.TenantID,
		OrderID:     m.OrderID,
		Salesperson: m.Salesperson,
		Type:        m.Type,
		Amount:      m.Amount,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
	}
}

// CommissionModelFromDomain creates a persistence model from a domain Commission.
func CommissionModelFromDomain(c *sales.Commission) *CommissionModel {
	return &CommissionModel{
		ID:          c.ID,
		TenantID:    c.TenantID,
		OrderID:     c.OrderID,
		Type:        c.Type,
		Salesperson: c.Salesperson,
		Amount:      c.Amount,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
	}
}

// AuditLogModel is the persistence model for audit trail entries.
// Rows are only ever inserted, and deleted together with their order.
type AuditLogModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_audit_order_created,priority:1"`
	ActorID   *uuid.UUID `gorm:"type:uuid"`
	ActorName string     `gorm:"type:varchar(200);not null"`
	Message   string     `gorm:"type:text;not null"`
	CreatedAt time.Time  `gorm:"not null;index:idx_audit_order_created,priority:2"`
	// Position is the record order within one commit; it breaks created_at ties
	Position int `gorm:"not null;default:0;index:idx_audit_order_created,priority:3"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain AuditLogEntry.
func (m *AuditLogModel) ToDomain() *sales.AuditLogEntry {
	return &sales.AuditLogEntry{
		ID:        m.ID,
		TenantID:  m.TenantID,
		OrderID:   m.OrderID,
		ActorID:   m.ActorID,
		ActorName: m.ActorName,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}

// AuditLogModelFromDomain creates a persistence model from a domain AuditLogEntry.
func AuditLogModelFromDomain(e *sales.AuditLogEntry) *AuditLogModel {
	return &AuditLogModel{
		ID:        e.ID,
		TenantID:  e.TenantID,
		OrderID:   e.OrderID,
		ActorID:   e.ActorID,
		ActorName: e.ActorName,
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}
}

// CalculationFactorModel is the persistence model for markup factors
type CalculationFactorModel struct {
	TenantOwned
	Name        string          `gorm:"type:varchar(100);not null"`
	Value       decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	Description string          `gorm:"type:text"`
	Active      bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CalculationFactorModel) TableName() string {
	return "calculation_factors"
}

// ToDomain converts the persistence model to a domain CalculationFactor.
func (m *CalculationFactorModel) ToDomain() *sales.CalculationFactor {
	return &sales.CalculationFactor{
		TenantAggregateRoot: m.root(),
		Name:                m.Name,
		Value:               m.Value,
		Description:         m.Description,
		Active:              m.Active,
	}
}

// CalculationFactorModelFromDomain creates a persistence model from a domain CalculationFactor.
func CalculationFactorModelFromDomain(f *sales.CalculationFactor) *CalculationFactorModel {
	m := &CalculationFactorModel{
		Name:        f.Name,
		Value:       f.Value,
		Description: f.Description,
		Active:      f.Active,
	}
	m.TenantOwned = tenantOwnedOf(f.TenantAggregateRoot)
	return m
}

package catalog

import (
	"strings"
	"time"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated = "ProductCreated"
	EventTypeProductDeleted = "ProductDeleted"
)

// Product is an entry of the promotional product catalog. Order items copy
// the product name, so renaming or deleting a product never touches orders.
type Product struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
}

// NewProduct creates a new catalog product
func NewProduct(tenantID uuid.UUID, name, description string) (*Product, error) {
	name = normalizeName(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         strings.TrimSpace(description),
	}
	product.RecordEvent(NewProductCreatedEvent(product))
	return product, nil
}

// Rename changes the product name
func (p *Product) Rename(name string) error {
	name = normalizeName(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// normalizeName collapses inner whitespace so "Caneca  Térmica" and
// "Caneca Térmica" collide on the unique name index
func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewValidationError("Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Product name cannot exceed 200 characters")
	}
	return nil
}

// ProductCreatedEvent is published when a product is added to the catalog
type ProductCreatedEvent struct {
	shared.EventHeader
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		EventHeader: shared.NewEventHeader(EventTypeProductCreated, AggregateTypeProduct, p.ID, p.TenantID),
		ProductID:       p.ID,
		Name:            p.Name,
	}
}

// ProductDeletedEvent is published when a product is removed
type ProductDeletedEvent struct {
	shared.EventHeader
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(p *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		EventHeader: shared.NewEventHeader(EventTypeProductDeleted, AggregateTypeProduct, p.ID, p.TenantID),
		ProductID:       p.ID,
		Name:            p.Name,
	}
}

package sales

import (
	"strings"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalculationFactor is a named markup factor offered when pricing items
type CalculationFactor struct {
	shared.TenantAggregateRoot
	Name        string
	Value       decimal.Decimal
	Description string
	Active      bool
}

// NewCalculationFactor creates an active factor
func NewCalculationFactor(tenantID uuid.UUID, name string, value decimal.Decimal, description string) (*CalculationFactor, error) {
	f := &CalculationFactor{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Active:              true,
	}
	if err := f.Update(name, value, description); err != nil {
		return nil, err
	}
	return f, nil
}

// Update changes name, value and description
func (f *CalculationFactor) Update(name string, value decimal.Decimal, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("factor name is required")
	}
	if !value.IsPositive() {
		return shared.NewValidationError("factor value must be positive")
	}
	f.Name = name
	f.Value = value
	f.Description = description
	f.Touch()
	return nil
}

// Activate makes the factor selectable
func (f *CalculationFactor) Activate() {
	f.Active = true
	f.Touch()
}

// Deactivate hides the factor from selection
func (f *CalculationFactor) Deactivate() {
	f.Active = false
	f.Touch()
}

// UsesFallback reports whether pricing with this factor doubles the cost
// instead of applying a markup
func (f *CalculationFactor) UsesFallback() bool {
	return IsFallbackFactor(f.Value)
}

// FactorSeed describes a factor created for a new tenant
type FactorSeed struct {
	Name        string
	Value       decimal.Decimal
	Description string
	Active      bool
}

// DefaultFactorSeeds are the factors the business started with
func DefaultFactorSeeds() []FactorSeed {
	return []FactorSeed{
		{Name: "Margem Padrão", Value: decimal.RequireFromString("1.35"), Description: "Aplicado à maioria dos brindes promocionais de baixo custo unitário.", Active: true},
		{Name: "Linha Premium", Value: decimal.RequireFromString("1.60"), Description: "Itens de luxo e importados, com custos extras de logística.", Active: true},
		{Name: "Ajuste Logístico", Value: decimal.RequireFromString("1.15"), Description: "Entregas em regiões remotas ou frete aéreo urgente.", Active: true},
		{Name: "Urgência 24h", Value: decimal.RequireFromString("2.00"), Description: "Pedidos despachados em menos de 24 horas úteis.", Active: false},
	}
}

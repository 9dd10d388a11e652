package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PartnerType distinguishes clients from suppliers
type PartnerType string

const (
	PartnerTypeClient   PartnerType = "CLIENTE"
	PartnerTypeSupplier PartnerType = "FORNECEDOR"
)

// IsValid checks if the type is CLIENTE or FORNECEDOR
func (t PartnerType) IsValid() bool {
	return t == PartnerTypeClient || t == PartnerTypeSupplier
}

// String returns the string representation of PartnerType
func (t PartnerType) String() string {
	return string(t)
}

var (
	validPhone = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	validEmail = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Partner is a client (referenced by orders) or a supplier (referenced by
// order items)
type Partner struct {
	shared.TenantAggregateRoot
	Type           PartnerType
	Name           string
	Document       string // CPF or CNPJ, stored as typed
	Phone          string
	Email          string
	FinancialEmail string
}

// PartnerInput holds the editable fields of a partner
type PartnerInput struct {
	Name           string
	Document       string
	Phone          string
	Email          string
	FinancialEmail string
}

// NewPartner creates a new partner of the given type
func NewPartner(tenantID uuid.UUID, partnerType PartnerType, in PartnerInput) (*Partner, error) {
	if !partnerType.IsValid() {
		return nil, shared.NewValidationError("Partner type must be 'CLIENTE' or 'FORNECEDOR'")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &Partner{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                partnerType,
	}
	p.apply(in)
	p.RecordEvent(NewPartnerCreatedEvent(p))
	return p, nil
}

// Update replaces the editable fields. The type of a partner never changes.
func (p *Partner) Update(in PartnerInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	p.apply(in)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.RecordEvent(NewPartnerUpdatedEvent(p))
	return nil
}

// IsClient reports whether the partner may be used as an order client
func (p *Partner) IsClient() bool {
	return p.Type == PartnerTypeClient
}

// IsSupplier reports whether the partner may be used as an item supplier
func (p *Partner) IsSupplier() bool {
	return p.Type == PartnerTypeSupplier
}

func (p *Partner) apply(in PartnerInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.Document = strings.TrimSpace(in.Document)
	p.Phone = strings.TrimSpace(in.Phone)
	p.Email = strings.TrimSpace(in.Email)
	p.FinancialEmail = strings.TrimSpace(in.FinancialEmail)
}

func (in PartnerInput) validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return shared.NewValidationError("Partner name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Partner name cannot exceed 200 characters")
	}
	if strings.TrimSpace(in.Document) == "" {
		return shared.NewValidationError("Partner document cannot be empty")
	}
	if len(in.Document) > 20 {
		return shared.NewValidationError("Partner document cannot exceed 20 characters")
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return shared.NewValidationError("Partner phone cannot be empty")
	}
	if len(phone) > 50 || !validPhone.MatchString(phone) {
		return shared.NewValidationError("Invalid phone number format")
	}
	if err := validateEmail(in.Email, true); err != nil {
		return err
	}
	return validateEmail(in.FinancialEmail, false)
}

func validateEmail(email string, required bool) error {
	email = strings.TrimSpace(email)
	if email == "" {
		if required {
			return shared.NewValidationError("Partner email cannot be empty")
		}
		return nil
	}
	if len(email) > 200 {
		return shared.NewValidationError("Email cannot exceed 200 characters")
	}
	if !validEmail.MatchString(email) {
		return shared.NewValidationError("Invalid email format")
	}
	return nil
}

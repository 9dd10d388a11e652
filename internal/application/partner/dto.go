package partner

import (
	"time"

	"github.com/brindes/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CreatePartnerRequest represents a request to create a client or supplier
type CreatePartnerRequest struct {
	Type           string `json:"type" binding:"required,oneof=CLIENTE FORNECEDOR"`
	Name           string `json:"name" binding:"required,min=1,max=200"`
	Document       string `json:"document" binding:"required,max=20"`
	Phone          string `json:"phone" binding:"required,max=50"`
	Email          string `json:"email" binding:"required,email,max=200"`
	FinancialEmail string `json:"financial_email" binding:"omitempty,email,max=200"`
}

// UpdatePartnerRequest represents a request to update a partner. The type
// of a partner never changes.
type UpdatePartnerRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=200"`
	Document       string `json:"document" binding:"required,max=20"`
	Phone          string `json:"phone" binding:"required,max=50"`
	Email          string `json:"email" binding:"required,email,max=200"`
	FinancialEmail string `json:"financial_email" binding:"omitempty,email,max=200"`
}

// PartnerListFilter represents filter options for the partner list
type PartnerListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=CLIENTE FORNECEDOR"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// PartnerResponse represents a partner in API responses
type PartnerResponse struct {
	ID             uuid.UUID `json:"id"`
	Type           string    `json:"type"`
	Name           string    `json:"name"`
	Document       string    `json:"document"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	FinancialEmail string    `json:"financial_email,omitempty"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToPartnerResponse converts a domain Partner to PartnerResponse
func ToPartnerResponse(p *partner.Partner) PartnerResponse {
	return PartnerResponse{
		ID:             p.ID,
		Type:           p.Type.String(),
		Name:           p.Name,
		Document:       p.Document,
		Phone:          p.Phone,
		Email:          p.Email,
		FinancialEmail: p.FinancialEmail,
		Version:        p.Version,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (r CreatePartnerRequest) input() partner.PartnerInput {
	return partner.PartnerInput{
		Name:           r.Name,
		Document:       r.Document,
		Phone:          r.Phone,
		Email:          r.Email,
		FinancialEmail: r.FinancialEmail,
	}
}

func (r UpdatePartnerRequest) input() partner.PartnerInput {
	return partner.PartnerInput{
		Name:           r.Name,
		Document:       r.Document,
		Phone:          r.Phone,
		Email:          r.Email,
		FinancialEmail: r.FinancialEmail,
	}
}

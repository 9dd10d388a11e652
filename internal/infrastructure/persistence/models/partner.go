package models

import (
	"github.com/brindes/backend/internal/domain/partner"
)

// PartnerModel is the persistence model for clients and suppliers
type PartnerModel struct {
	TenantOwned
	Type           partner.PartnerType `gorm:"type:varchar(20);not null;index:idx_partner_type_document,priority:1"`
	Name           string              `gorm:"type:varchar(200);not null"`
	Document       string              `gorm:"type:varchar(20);index:idx_partner_type_document,priority:2"`
	Phone          string              `gorm:"type:varchar(30)"`
	Email          string              `gorm:"type:varchar(200)"`
	FinancialEmail string              `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner entity.
func (m *PartnerModel) ToDomain() *partner.Partner {
	return &partner.Partner{
		TenantAggregateRoot: m.root(),
		Type:                m.Type,
		Name:                m.Name,
		Document:            m.Document,
		Phone:               m.Phone,
		Email:               m.Email,
		FinancialEmail:      m.FinancialEmail,
	}
}

// FromDomain populates the persistence model from a domain Partner entity.
func (m *PartnerModel) FromDomain(p *partner.Partner) {
	m.TenantOwned = tenantOwnedOf(p.TenantAggregateRoot)
	m.Type = p.Type
	m.Name = p.Name
	m.Document = p.Document
	m.Phone = p.Phone
	m.Email = p.Email
	m.FinancialEmail = p.FinancialEmail
}

// PartnerModelFromDomain creates a new persistence model from a domain Partner entity.
func PartnerModelFromDomain(p *partner.Partner) *PartnerModel {
	m := &PartnerModel{}
	m.FromDomain(p)
	return m
}

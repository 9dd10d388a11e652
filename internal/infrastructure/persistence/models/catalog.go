package models

import (
	"github.com/brindes/backend/internal/domain/catalog"
)

// ProductModel is a row of the product catalog
type ProductModel struct {
	TenantOwned
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
}

func (ProductModel) TableName() string {
	return "products"
}

func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		TenantAggregateRoot: m.root(),
		Name:                m.Name,
		Description:         m.Description,
	}
}

func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	return &ProductModel{
		TenantOwned: tenantOwnedOf(p.TenantAggregateRoot),
		Name:        p.Name,
		Description: p.Description,
	}
}

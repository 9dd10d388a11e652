package partner

import (
	"testing"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() PartnerInput {
	return PartnerInput{
		Name:     "Brindes Alfa Ltda",
		Document: "12.345.678/0001-90",
		Phone:    "(11) 98765-4321",
		Email:    "contato@alfa.com.br",
	}
}

func TestNewPartner(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates client", func(t *testing.T) {
		p, err := NewPartner(tenantID, PartnerTypeClient, validInput())

		require.NoError(t, err)
		assert.Equal(t, PartnerTypeClient, p.Type)
		assert.Equal(t, "Brindes Alfa Ltda", p.Name)
		assert.Equal(t, tenantID, p.TenantID)
		assert.True(t, p.IsClient())
		assert.False(t, p.IsSupplier())
		assert.Len(t, p.PendingEvents(), 1)
	})

	t.Run("trims fields", func(t *testing.T) {
		in := validInput()
		in.Name = "  Fornecedor Beta  "
		p, err := NewPartner(tenantID, PartnerTypeSupplier, in)

		require.NoError(t, err)
		assert.Equal(t, "Fornecedor Beta", p.Name)
		assert.True(t, p.IsSupplier())
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewPartner(tenantID, PartnerType("VENDEDOR"), validInput())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	tests := []struct {
		name    string
		mutate  func(in *PartnerInput)
		message string
	}{
		{"empty name", func(in *PartnerInput) { in.Name = " " }, "name cannot be empty"},
		{"empty document", func(in *PartnerInput) { in.Document = "" }, "document cannot be empty"},
		{"empty phone", func(in *PartnerInput) { in.Phone = "" }, "phone cannot be empty"},
		{"bad phone", func(in *PartnerInput) { in.Phone = "call me" }, "Invalid phone"},
		{"empty email", func(in *PartnerInput) { in.Email = "" }, "email cannot be empty"},
		{"bad email", func(in *PartnerInput) { in.Email = "contato" }, "Invalid email"},
		{"bad financial email", func(in *PartnerInput) { in.FinancialEmail = "financeiro@" }, "Invalid email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			p, err := NewPartner(tenantID, PartnerTypeClient, in)

			assert.Nil(t, p)
			assert.ErrorIs(t, err, shared.ErrValidation)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestPartner_Update(t *testing.T) {
	p, err := NewPartner(uuid.New(), PartnerTypeClient, validInput())
	require.NoError(t, err)
	p.DiscardEvents()

	in := validInput()
	in.FinancialEmail = "financeiro@alfa.com.br"
	require.NoError(t, p.Update(in))

	assert.Equal(t, "financeiro@alfa.com.br", p.FinancialEmail)
	assert.Equal(t, 2, p.Version)
	require.Len(t, p.PendingEvents(), 1)
	assert.Equal(t, EventTypePartnerUpdated, p.PendingEvents()[0].EventType())

	in.Email = "invalid"
	assert.Error(t, p.Update(in))
	assert.Equal(t, "contato@alfa.com.br", p.Email)
}

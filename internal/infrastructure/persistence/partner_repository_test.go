package persistence

import (
	"context"
	"testing"

	"github.com/brindes/backend/internal/domain/partner"
	"github.com/brindes/backend/internal/domain/sales"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoPartner(t *testing.T, partnerType partner.PartnerType, name, document string) *partner.Partner {
	t.Helper()
	p, err := partner.NewPartner(repoTenant, partnerType, partner.PartnerInput{
		Name:     name,
		Document: document,
		Phone:    "(11) 98765-4321",
		Email:    "contato@example.com",
	})
	require.NoError(t, err)
	return p
}

func TestGormPartnerRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPartnerRepository(db)
	ctx := context.Background()

	client := newRepoPartner(t, partner.PartnerTypeClient, "Acme Eventos", "12.345.678/0001-90")
	require.NoError(t, repo.Save(ctx, client))

	found, err := repo.FindByIDForTenant(ctx, repoTenant, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Eventos", found.Name)
	assert.True(t, found.IsClient())

	require.NoError(t, found.Update(partner.PartnerInput{
		Name:           "Acme Eventos LTDA",
		Document:       found.Document,
		Phone:          found.Phone,
		Email:          found.Email,
		FinancialEmail: "financeiro@acme.com",
	}))
	require.NoError(t, repo.Save(ctx, found))

	updated, err := repo.FindByIDForTenant(ctx, repoTenant, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Eventos LTDA", updated.Name)
	assert.Equal(t, "financeiro@acme.com", updated.FinancialEmail)

	_, err = repo.FindByIDForTenant(ctx, uuid.New(), client.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPartnerRepository_FindAllForTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPartnerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newRepoPartner(t, partner.PartnerTypeClient, "Beta Brindes", "111")))
	require.NoError(t, repo.Save(ctx, newRepoPartner(t, partner.PartnerTypeClient, "Alfa Promo", "222")))
	require.NoError(t, repo.Save(ctx, newRepoPartner(t, partner.PartnerTypeSupplier, "Gráfica Central", "333")))

	all, err := repo.FindAllForTenant(ctx, repoTenant, shared.Filter{Filters: map[string]interface{}{}})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alfa Promo", all[0].Name, "sorted by name by default")

	clients := shared.Filter{Filters: map[string]interface{}{"type": string(partner.PartnerTypeClient)}}
	count, err := repo.CountForTenant(ctx, repoTenant, clients)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	search := shared.Filter{Search: "gráfica", Filters: map[string]interface{}{}}
	found, err := repo.FindAllForTenant(ctx, repoTenant, search)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, found[0].IsSupplier())

	byDocument := shared.Filter{Search: "22", Filters: map[string]interface{}{}}
	found, err = repo.FindAllForTenant(ctx, repoTenant, byDocument)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Alfa Promo", found[0].Name)
}

func TestGormPartnerRepository_ExistsByDocument(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPartnerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newRepoPartner(t, partner.PartnerTypeClient, "Acme", "999")))

	exists, err := repo.ExistsByDocument(ctx, repoTenant, partner.PartnerTypeClient, "999")
	require.NoError(t, err)
	assert.True(t, exists)

	// the same company may be registered once as client and once as supplier
	exists, err = repo.ExistsByDocument(ctx, repoTenant, partner.PartnerTypeSupplier, "999")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormPartnerRepository_IsReferencedAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPartnerRepository(db)
	orders := NewGormOrderRepository(db)
	ctx := context.Background()

	supplier := newRepoPartner(t, partner.PartnerTypeSupplier, "Gráfica", "444")
	unused := newRepoPartner(t, partner.PartnerTypeSupplier, "Sem pedidos", "555")
	require.NoError(t, repo.Save(ctx, supplier))
	require.NoError(t, repo.Save(ctx, unused))

	order := newRepoOrder(t, "PED-20", march(2))
	order.Items[0].SupplierID = &supplier.ID
	_, err := orders.Commit(ctx, order)
	require.NoError(t, err)

	referenced, err := repo.IsReferenced(ctx, repoTenant, supplier.ID)
	require.NoError(t, err)
	assert.True(t, referenced)

	referenced, err = repo.IsReferenced(ctx, repoTenant, order.ClientID)
	require.NoError(t, err)
	assert.True(t, referenced, "the order client counts as a reference")

	referenced, err = repo.IsReferenced(ctx, repoTenant, unused.ID)
	require.NoError(t, err)
	assert.False(t, referenced)

	require.NoError(t, repo.DeleteForTenant(ctx, repoTenant, unused.ID))
	assert.ErrorIs(t, repo.DeleteForTenant(ctx, repoTenant, unused.ID), shared.ErrNotFound)
}

func TestGormCalculationFactorRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCalculationFactorRepository(db)
	ctx := context.Background()

	for _, seed := range sales.DefaultFactorSeeds() {
		factor, err := sales.NewCalculationFactor(repoTenant, seed.Name, seed.Value, seed.Description)
		require.NoError(t, err)
		if !seed.Active {
			factor.Deactivate()
		}
		require.NoError(t, repo.Save(ctx, factor))
	}

	all, err := repo.FindAllForTenant(ctx, repoTenant, false)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	for _, f := range all {
		if f.Name == "Urgência 24h" {
			assert.False(t, f.Active, "a factor saved inactive stays inactive")
		}
	}

	active, err := repo.FindAllForTenant(ctx, repoTenant, true)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, "Ajuste Logístico", active[0].Name)

	exists, err := repo.ExistsByName(ctx, repoTenant, "  margem padrão ")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByName(ctx, repoTenant, "LINHA PREMIUM")
	require.NoError(t, err)
	assert.True(t, exists)

	premium := active[1]
	require.NoError(t, premium.Update(premium.Name, decimal.RequireFromString("1.75"), premium.Description))
	require.NoError(t, repo.Save(ctx, &premium))
	stored, err := repo.FindByIDForTenant(ctx, repoTenant, premium.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.75").Equal(stored.Value))

	require.NoError(t, repo.DeleteForTenant(ctx, repoTenant, premium.ID))
	_, err = repo.FindByIDForTenant(ctx, repoTenant, premium.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

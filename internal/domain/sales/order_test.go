package sales

import (
	"testing"
	"time"

	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testTenant = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	seller     = shared.NewActor(uuid.New(), "VENDAS 01")
	admin      = shared.NewAdminActor(uuid.New(), "admin@brindes.com")
)

func testHeader() OrderHeader {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	entryDue := day.AddDate(0, 0, 5)
	remainderDue := day.AddDate(0, 1, 0)
	return OrderHeader{
		OrderNumber:     "PED-1001",
		Salesperson:     "VENDAS 01",
		BudgetDate:      day.AddDate(0, 0, -3),
		OrderDate:       day,
		Issuer:          "BRINDES LTDA",
		BillingModality: "FATURADO",
		PaymentMethod:   "PIX",
		PaymentDueDate:  remainderDue,
		ClientID:        uuid.New(),
		Entry:           InstallmentInput{Amount: d("5000"), DueDate: &entryDue},
		Remainder:       InstallmentInput{Amount: d("5000"), DueDate: &remainderDue},
	}
}

func testItems() []ItemInput {
	return []ItemInput{
		{
			ProductName:  "Caneca personalizada",
			Quantity:     10,
			MarkupFactor: d("1.35"),
			Estimated:    NewCostSet(d("10"), decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero),
		},
	}
}

func createTestOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewOrder(testTenant, seller, testHeader(), testItems())
	require.NoError(t, err)
	order.ClearPendingAuditEntries()
	order.DiscardEvents()
	return order
}

func TestNewOrder(t *testing.T) {
	t.Run("creates open order with derived total", func(t *testing.T) {
		order, err := NewOrder(testTenant, seller, testHeader(), testItems())
		require.NoError(t, err)

		assert.Equal(t, StatusOpen, order.Status)
		assert.Equal(t, testTenant, order.TenantID)
		assert.Equal(t, 1, order.Version)
		require.Len(t, order.Items, 1)
		assert.Equal(t, order.ID, order.Items[0].OrderID)
		assert.True(t, order.TotalAmount.Equal(d("153.85")))
		require.Len(t, order.PendingAuditEntries(), 1)
		assert.Equal(t, "Pedido criado.", order.PendingAuditEntries()[0].Message)
		assert.Equal(t, "VENDAS 01", order.PendingAuditEntries()[0].ActorName)
		require.Len(t, order.PendingEvents(), 1)
		assert.Equal(t, EventTypeOrderSaved, order.PendingEvents()[0].EventType())
	})

	t.Run("required header fields", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(h *OrderHeader)
		}{
			{"order number", func(h *OrderHeader) { h.OrderNumber = "  " }},
			{"salesperson", func(h *OrderHeader) { h.Salesperson = "" }},
			{"budget date", func(h *OrderHeader) { h.BudgetDate = time.Time{} }},
			{"order date", func(h *OrderHeader) { h.OrderDate = time.Time{} }},
			{"client", func(h *OrderHeader) { h.ClientID = uuid.Nil }},
			{"billing modality", func(h *OrderHeader) { h.BillingModality = "" }},
			{"payment due date", func(h *OrderHeader) { h.PaymentDueDate = time.Time{} }},
			{"unknown status", func(h *OrderHeader) { h.Status = "CANCELADO" }},
			{"negative entry", func(h *OrderHeader) { h.Entry.Amount = d("-1") }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := testHeader()
				tt.mutate(&h)
				_, err := NewOrder(testTenant, seller, h, testItems())
				assert.ErrorIs(t, err, shared.ErrValidation)
			})
		}
	})

	t.Run("needs at least one item", func(t *testing.T) {
		_, err := NewOrder(testTenant, seller, testHeader(), nil)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("invalid item fails the whole order", func(t *testing.T) {
		items := append(testItems(), ItemInput{ProductName: "Bad", Quantity: 0, MarkupFactor: d("1.35")})
		_, err := NewOrder(testTenant, seller, testHeader(), items)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "item 2")
	})

	t.Run("creating directly as ENTRE FINALIZADO needs admin", func(t *testing.T) {
		h := testHeader()
		h.Status = StatusBetweenFinished
		_, err := NewOrder(testTenant, seller, h, testItems())
		assert.ErrorIs(t, err, shared.ErrPermissionDenied)

		order, err := NewOrder(testTenant, admin, h, testItems())
		require.NoError(t, err)
		assert.Equal(t, StatusBetweenFinished, order.Status)
	})

	t.Run("installment confirmed on creation accrues", func(t *testing.T) {
		h := testHeader()
		h.Entry.Confirmed = true
		order, err := NewOrder(testTenant, seller, h, testItems())
		require.NoError(t, err)

		assert.True(t, order.Entry.Confirmed)
		require.NotNil(t, order.Entry.ConfirmedAt)
		require.Len(t, order.CommissionAccruals(), 1)
		assert.Len(t, order.PendingAuditEntries(), 2)
	})

	t.Run("cannot confirm a zero installment", func(t *testing.T) {
		h := testHeader()
		h.Remainder = InstallmentInput{Amount: decimal.Zero, Confirmed: true}
		_, err := NewOrder(testTenant, seller, h, testItems())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestOrder_ConfirmInstallment(t *testing.T) {
	t.Run("confirms and records audit entry", func(t *testing.T) {
		order := createTestOrder(t)
		when := time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC)

		changed, err := order.ConfirmInstallment(seller, InstallmentEntry, &when)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, order.Entry.Confirmed)
		assert.Equal(t, when, *order.Entry.ConfirmedAt)
		assert.False(t, order.Remainder.Confirmed)

		entries := order.PendingAuditEntries()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Message, "Pagamento de Entrada (")
		assert.Contains(t, entries[0].Message, "000,00")
		assert.Contains(t, entries[0].Message, ") confirmado.")

		events := order.PendingEvents()
		require.Len(t, events, 1)
		evt, ok := events[0].(*InstallmentConfirmedEvent)
		require.True(t, ok)
		assert.Equal(t, InstallmentEntry, evt.InstallmentType)
	})

	t.Run("defaults effective date to now", func(t *testing.T) {
		order := createTestOrder(t)
		before := time.Now()
		_, err := order.ConfirmInstallment(seller, InstallmentRemainder, nil)
		require.NoError(t, err)
		require.NotNil(t, order.Remainder.ConfirmedAt)
		assert.False(t, order.Remainder.ConfirmedAt.Before(before))
		assert.Contains(t, order.PendingAuditEntries()[0].Message, "Pagamento Restante (")
	})

	t.Run("second confirmation is a no-op", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.ConfirmInstallment(seller, InstallmentEntry, nil)
		require.NoError(t, err)
		firstAt := *order.Entry.ConfirmedAt

		later := firstAt.Add(time.Hour)
		changed, err := order.ConfirmInstallment(admin, InstallmentEntry, &later)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, firstAt, *order.Entry.ConfirmedAt)
		assert.Len(t, order.PendingAuditEntries(), 1)
		assert.Len(t, order.PendingEvents(), 1)
		assert.Len(t, order.CommissionAccruals(), 1)
	})

	t.Run("zero amount cannot be confirmed", func(t *testing.T) {
		order := createTestOrder(t)
		order.Remainder.Amount = decimal.Zero
		_, err := order.ConfirmInstallment(seller, InstallmentRemainder, nil)
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.False(t, order.Remainder.Confirmed)
	})

	t.Run("unknown type", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.ConfirmInstallment(seller, InstallmentType("SINAL"), nil)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestOrder_CommissionAccruals(t *testing.T) {
	order := createTestOrder(t)
	assert.Empty(t, order.CommissionAccruals())

	_, err := order.ConfirmInstallment(seller, InstallmentEntry, nil)
	require.NoError(t, err)

	accruals := order.CommissionAccruals()
	require.Len(t, accruals, 1)
	c := accruals[0]
	assert.Equal(t, InstallmentEntry, c.Type)
	assert.True(t, c.Amount.Equal(d("50.00")))
	assert.Equal(t, CommissionPending, c.Status)
	assert.Equal(t, "VENDAS 01", c.Salesperson)
	assert.Equal(t, order.ID, c.OrderID)
	assert.Equal(t, testTenant, c.TenantID)
}

func TestOrder_ConfirmCostComponent(t *testing.T) {
	t.Run("freezes realized amount and logs label", func(t *testing.T) {
		order := createTestOrder(t)
		itemID := order.Items[0].ID
		amount := d("95")

		err := order.ConfirmCostComponent(seller, itemID, ComponentUnitPrice, &amount, nil)
		require.NoError(t, err)

		item := order.GetItem(itemID)
		assert.True(t, item.IsPaid(ComponentUnitPrice))
		assert.True(t, item.Realized[ComponentUnitPrice].Equal(d("9.5")))
		assert.True(t, item.RealizedAmount(ComponentUnitPrice).Equal(d("95")))

		entries := order.PendingAuditEntries()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Message, "Pagamento confirmado: Fornecedor Produto - ")
		assert.Contains(t, entries[0].Message, "95,00")

		err = order.SetRealizedCost(itemID, ComponentUnitPrice, d("1"))
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("confirms current value when no amount is given", func(t *testing.T) {
		order := createTestOrder(t)
		itemID := order.Items[0].ID
		require.NoError(t, order.SetRealizedCost(itemID, ComponentLayout, d("30")))

		require.NoError(t, order.ConfirmCostComponent(seller, itemID, ComponentLayout, nil, nil))
		assert.True(t, order.GetItem(itemID).Realized[ComponentLayout].Equal(d("30")))
	})

	t.Run("second confirmation fails without a second audit entry", func(t *testing.T) {
		order := createTestOrder(t)
		itemID := order.Items[0].ID
		require.NoError(t, order.ConfirmCostComponent(seller, itemID, ComponentCustomization, nil, nil))

		other := d("999")
		err := order.ConfirmCostComponent(admin, itemID, ComponentCustomization, &other, nil)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.Len(t, order.PendingAuditEntries(), 1)
		assert.True(t, order.GetItem(itemID).Realized[ComponentCustomization].IsZero())
	})

	t.Run("negative amount is rejected before freezing", func(t *testing.T) {
		order := createTestOrder(t)
		itemID := order.Items[0].ID
		negative := d("-10")
		err := order.ConfirmCostComponent(seller, itemID, ComponentLayout, &negative, nil)
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.False(t, order.GetItem(itemID).IsPaid(ComponentLayout))
		assert.Empty(t, order.PendingAuditEntries())
	})

	t.Run("unknown item", func(t *testing.T) {
		order := createTestOrder(t)
		err := order.ConfirmCostComponent(seller, uuid.New(), ComponentLayout, nil, nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("any status may follow any other", func(t *testing.T) {
		order := createTestOrder(t)
		for _, status := range []OrderStatus{StatusFinished, StatusInProduction, StatusAwaitingInvoice, StatusOpen} {
			changed, err := order.ChangeStatus(seller, status)
			require.NoError(t, err)
			assert.True(t, changed)
			assert.Equal(t, status, order.Status)
		}
	})

	t.Run("ENTRE FINALIZADO denied for regular actor", func(t *testing.T) {
		order := createTestOrder(t)
		changed, err := order.ChangeStatus(seller, StatusBetweenFinished)
		assert.ErrorIs(t, err, shared.ErrPermissionDenied)
		assert.False(t, changed)
		assert.Equal(t, StatusOpen, order.Status)
		assert.Empty(t, order.PendingAuditEntries())
	})

	t.Run("ENTRE FINALIZADO allowed for admin with one audit entry", func(t *testing.T) {
		order := createTestOrder(t)
		changed, err := order.ChangeStatus(admin, StatusBetweenFinished)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, StatusBetweenFinished, order.Status)
		require.Len(t, order.PendingAuditEntries(), 1)
		assert.Equal(t, "Status alterado de EM ABERTO para ENTRE FINALIZADO.", order.PendingAuditEntries()[0].Message)
		assert.Equal(t, "admin@brindes.com", order.PendingAuditEntries()[0].ActorName)
	})

	t.Run("leaving ENTRE FINALIZADO needs no privilege", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.ChangeStatus(admin, StatusBetweenFinished)
		require.NoError(t, err)
		_, err = order.ChangeStatus(seller, StatusFinished)
		require.NoError(t, err)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		order := createTestOrder(t)
		changed, err := order.ChangeStatus(seller, StatusOpen)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Empty(t, order.PendingAuditEntries())
	})

	t.Run("unknown status", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.ChangeStatus(seller, OrderStatus("CANCELADO"))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestOrder_Update(t *testing.T) {
	t.Run("replaces items and recomputes total", func(t *testing.T) {
		order := createTestOrder(t)
		items := append(testItems(), ItemInput{
			ProductName:  "Camiseta",
			Quantity:     2,
			MarkupFactor: d("1"),
			Estimated:    NewCostSet(d("25"), decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero),
		})

		require.NoError(t, order.Update(seller, testHeader(), items))
		require.Len(t, order.Items, 2)
		assert.True(t, order.TotalAmount.Equal(d("203.85")))
		assert.Equal(t, "Pedido atualizado.", order.PendingAuditEntries()[0].Message)
	})

	t.Run("existing line keeps paid state", func(t *testing.T) {
		order := createTestOrder(t)
		itemID := order.Items[0].ID
		require.NoError(t, order.ConfirmCostComponent(seller, itemID, ComponentCustomization, nil, nil))

		items := testItems()
		items[0].ID = &itemID
		items[0].Estimated[ComponentLayout] = d("40")
		require.NoError(t, order.Update(seller, testHeader(), items))

		item := order.GetItem(itemID)
		require.NotNil(t, item)
		assert.True(t, item.IsPaid(ComponentCustomization))
		assert.True(t, item.Estimated[ComponentLayout].Equal(d("40")))
	})

	t.Run("frozen realized value cannot change through save", func(t *testing.T) {
		order := createTestOrder(t)
		itemID := order.Items[0].ID
		amount := d("12")
		require.NoError(t, order.ConfirmCostComponent(seller, itemID, ComponentClientTransport, &amount, nil))
		total := order.TotalAmount

		items := testItems()
		items[0].ID = &itemID
		items[0].Realized[ComponentClientTransport] = d("15")
		items[0].Quantity = 20
		err := order.Update(seller, testHeader(), items)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.Equal(t, 10, order.Items[0].Quantity)
		assert.True(t, order.TotalAmount.Equal(total))
	})

	t.Run("resubmitting a confirmed uneven split is accepted", func(t *testing.T) {
		order := createTestOrder(t)
		itemID := order.Items[0].ID
		items := testItems()
		items[0].ID = &itemID
		items[0].Quantity = 3
		require.NoError(t, order.Update(seller, testHeader(), items))

		amount := d("100")
		require.NoError(t, order.ConfirmCostComponent(seller, itemID, ComponentUnitPrice, &amount, nil))
		entries := order.PendingAuditEntries()
		assert.Contains(t, entries[len(entries)-1].Message, "100,00")

		items[0].Realized[ComponentUnitPrice] = order.GetItem(itemID).Realized[ComponentUnitPrice]
		require.NoError(t, order.Update(seller, testHeader(), items))
		assert.Equal(t, "100", order.Settlement().RealizedCost.String())
	})

	t.Run("line with paid component cannot be removed", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.ConfirmCostComponent(seller, order.Items[0].ID, ComponentLayout, nil, nil))

		err := order.Update(seller, testHeader(), testItems())
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.Len(t, order.Items, 1)
	})

	t.Run("confirmed installment cannot be unconfirmed", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.ConfirmInstallment(seller, InstallmentEntry, nil)
		require.NoError(t, err)

		err = order.Update(seller, testHeader(), testItems())
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.True(t, order.Entry.Confirmed)
	})

	t.Run("resubmitted confirmation is idempotent", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.ConfirmInstallment(seller, InstallmentEntry, nil)
		require.NoError(t, err)
		order.ClearPendingAuditEntries()

		h := testHeader()
		h.Entry.Confirmed = true
		items := testItems()
		items[0].ID = &order.Items[0].ID
		require.NoError(t, order.Update(seller, h, items))

		require.Len(t, order.PendingAuditEntries(), 1)
		assert.Equal(t, "Pedido atualizado.", order.PendingAuditEntries()[0].Message)
		assert.Len(t, order.CommissionAccruals(), 1)
	})

	t.Run("status change through save respects privilege", func(t *testing.T) {
		order := createTestOrder(t)
		h := testHeader()
		h.Status = StatusBetweenFinished
		err := order.Update(seller, h, testItems())
		assert.ErrorIs(t, err, shared.ErrPermissionDenied)
		assert.Equal(t, StatusOpen, order.Status)
	})
}

func TestOrder_Warnings(t *testing.T) {
	t.Run("installments off by more than a cent", func(t *testing.T) {
		order := createTestOrder(t)
		diff, mismatch := order.InstallmentMismatch()
		assert.True(t, mismatch)
		assert.True(t, diff.Equal(d("9846.15")))
		assert.Len(t, order.Warnings(), 1)
	})

	t.Run("within a cent is fine", func(t *testing.T) {
		order := createTestOrder(t)
		order.Entry.Amount = d("53.85")
		order.Remainder.Amount = d("100.01")
		_, mismatch := order.InstallmentMismatch()
		assert.False(t, mismatch)
	})

	t.Run("fallback pricing is flagged", func(t *testing.T) {
		items := testItems()
		items[0].MarkupFactor = d("2")
		h := testHeader()
		h.Entry.Amount = d("100")
		h.Remainder.Amount = d("100")
		order, err := NewOrder(testTenant, seller, h, items)
		require.NoError(t, err)
		assert.True(t, order.TotalAmount.Equal(d("200")))
		warnings := order.Warnings()
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "review")
	})
}

func TestOrder_Settlement(t *testing.T) {
	order := createTestOrder(t)
	order.Entry.Amount = d("4000")
	order.Remainder.Amount = d("6000")
	order.Items[0].Quantity = 1
	order.Items[0].Estimated = NewCostSet(d("5000"), d("1000"), d("500"), d("300"), d("200"), decimal.Zero)
	order.Items[0].Realized = NewCostSet(d("5200"), d("1100"), d("600"), d("300"), d("200"), d("100"))

	t.Run("nothing received yet", func(t *testing.T) {
		s := order.Settlement()
		assert.True(t, s.ConfirmedReceipts.IsZero())
		assert.True(t, s.EstimatedBalance.Equal(d("-7000")))
	})

	_, err := order.ConfirmInstallment(seller, InstallmentEntry, nil)
	require.NoError(t, err)
	_, err = order.ConfirmInstallment(seller, InstallmentRemainder, nil)
	require.NoError(t, err)

	t.Run("estimated and real balances differ", func(t *testing.T) {
		s := order.Settlement()
		assert.True(t, s.ConfirmedReceipts.Equal(d("10000")))
		assert.True(t, s.EstimatedCost.Equal(d("7000")))
		assert.True(t, s.RealizedCost.Equal(d("7500")))
		assert.True(t, s.EstimatedBalance.Equal(d("3000")))
		assert.True(t, s.RealBalance.Equal(d("2500")))
	})
}

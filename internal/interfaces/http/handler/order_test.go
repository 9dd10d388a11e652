package handler

import (
	"net/http"
	"strings"
	"testing"

	salesapp "github.com/brindes/backend/internal/application/sales"
	"github.com/brindes/backend/internal/infrastructure/persistence"
	"github.com/brindes/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderEnv(t *testing.T) *apiEnv {
	t.Helper()
	env := newAPIEnv(t)
	svc := salesapp.NewOrderService(
		persistence.NewGormOrderRepository(env.db),
		nil,
		persistence.NewGormAuditLogRepository(env.db),
		nil,
	)
	h := NewOrderHandler(svc)
	orders := env.api.Group("/orders")
	orders.POST("", h.Create)
	orders.GET("/:id", h.GetByID)
	orders.PUT("/:id", h.Update)
	orders.POST("/:id/installments/confirm", h.ConfirmInstallment)
	orders.POST("/:id/payables/confirm", h.ConfirmPayable)
	orders.POST("/:id/status", h.ChangeStatus)
	orders.GET("/:id/logs", h.AuditLog)
	env.api.GET("/finance/payables", h.Payables)

	commissions := NewCommissionHandler(salesapp.NewCommissionService(persistence.NewGormCommissionRepository(env.db)))
	env.api.GET("/finance/commissions", commissions.List)
	return env
}

func orderBody(number string) map[string]any {
	return map[string]any{
		"order_number":     number,
		"salesperson":      "VENDAS 02",
		"budget_date":      "2026-03-07T00:00:00Z",
		"order_date":       "2026-03-10T00:00:00Z",
		"billing_modality": "FATURADO",
		"payment_method":   "PIX",
		"payment_due_date": "2026-04-10T00:00:00Z",
		"client_id":        uuid.NewString(),
		"entry":            map[string]any{"amount": "80", "due_date": "2026-03-15T00:00:00Z"},
		"remainder":        map[string]any{"amount": "73.85"},
		"items": []map[string]any{{
			"product_name":  "Caneca personalizada",
			"quantity":      10,
			"markup_factor": "1.35",
			"estimated":     map[string]any{"unit_price": "10"},
		}},
	}
}

func createOrder(t *testing.T, env *apiEnv, number string) salesapp.OrderResponse {
	t.Helper()
	w := env.do(http.MethodPost, "/orders", orderBody(number))
	requireStatus(t, w, http.StatusCreated)
	var resp salesapp.SaveOrderResponse
	decodeData(t, w, &resp)
	require.True(t, resp.Created)
	return resp.Order
}

func auditMessages(t *testing.T, env *apiEnv, orderID uuid.UUID) []string {
	t.Helper()
	w := env.do(http.MethodGet, "/orders/"+orderID.String()+"/logs", nil)
	requireStatus(t, w, http.StatusOK)
	var entries []salesapp.AuditLogResponse
	decodeData(t, w, &entries)
	messages := make([]string, len(entries))
	for i, e := range entries {
		messages[i] = e.Message
	}
	return messages
}

func TestOrderHandler_CreateAndGet(t *testing.T) {
	env := newOrderEnv(t)
	order := createOrder(t, env, "PED-2001")

	assert.Equal(t, "153.85", order.TotalAmount.StringFixed(2))
	assert.Equal(t, "EM ABERTO", order.Status)
	require.Len(t, order.Items, 1)
	assert.Len(t, order.Items[0].Components, 6)

	w := env.do(http.MethodGet, "/orders/"+order.ID.String(), nil)
	requireStatus(t, w, http.StatusOK)
	var found salesapp.OrderResponse
	decodeData(t, w, &found)
	assert.Equal(t, "PED-2001", found.OrderNumber)

	w = env.do(http.MethodPost, "/orders", orderBody("PED-2001"))
	assert.Equal(t, http.StatusConflict, w.Code, "duplicate order number")

	w = env.do(http.MethodGet, "/orders/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderHandler_ConfirmInstallment(t *testing.T) {
	env := newOrderEnv(t)
	order := createOrder(t, env, "PED-2002")
	path := "/orders/" + order.ID.String() + "/installments/confirm"

	w := env.do(http.MethodPost, path, map[string]any{"type": "ENTRY"})
	requireStatus(t, w, http.StatusOK)
	var first salesapp.TransitionResponse
	decodeData(t, w, &first)
	assert.True(t, first.Changed)
	assert.True(t, first.Order.Entry.Confirmed)

	w = env.do(http.MethodPost, path, map[string]any{"type": "ENTRY"})
	requireStatus(t, w, http.StatusOK)
	var repeat salesapp.TransitionResponse
	decodeData(t, w, &repeat)
	assert.False(t, repeat.Changed, "a second confirmation is a no-op")
	assert.True(t, repeat.Order.Entry.Confirmed)

	assert.Len(t, auditMessages(t, env, order.ID), 2, "creation plus one confirmation")

	w = env.do(http.MethodGet, "/finance/commissions", nil)
	requireStatus(t, w, http.StatusOK)
	var commissions salesapp.CommissionListResponse
	decodeData(t, w, &commissions)
	require.Len(t, commissions.Items, 1, "the repeat accrues nothing")
	assert.Equal(t, "VENDAS 02", commissions.Items[0].Salesperson)
}

func TestOrderHandler_ConfirmPayable(t *testing.T) {
	env := newOrderEnv(t)
	order := createOrder(t, env, "PED-2003")
	path := "/orders/" + order.ID.String() + "/payables/confirm"
	body := map[string]any{
		"item_id":         order.Items[0].ID,
		"component":       "unit_price",
		"realized_amount": "95",
	}

	w := env.do(http.MethodPost, path, body)
	requireStatus(t, w, http.StatusOK)
	var paid salesapp.OrderResponse
	decodeData(t, w, &paid)
	unitPrice := paid.Items[0].Components[0]
	assert.True(t, unitPrice.Paid)
	assert.Equal(t, "95.00", unitPrice.Realized.StringFixed(2))

	w = env.do(http.MethodPost, path, body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, decodeResponse(t, w).Error.Code)

	confirmations := 0
	for _, m := range auditMessages(t, env, order.ID) {
		if strings.HasPrefix(m, "Pagamento confirmado") {
			confirmations++
		}
	}
	assert.Equal(t, 1, confirmations)
}

func TestOrderHandler_ChangeStatus(t *testing.T) {
	env := newOrderEnv(t)
	order := createOrder(t, env, "PED-2004")
	path := "/orders/" + order.ID.String() + "/status"

	t.Run("privileged status needs an administrator", func(t *testing.T) {
		env.actor = handlerSeller
		w := env.do(http.MethodPost, path, map[string]any{"status": "ENTRE FINALIZADO"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, dto.ErrCodeForbidden, decodeResponse(t, w).Error.Code)

		w = env.do(http.MethodGet, "/orders/"+order.ID.String(), nil)
		requireStatus(t, w, http.StatusOK)
		var unchanged salesapp.OrderResponse
		decodeData(t, w, &unchanged)
		assert.Equal(t, "EM ABERTO", unchanged.Status)
	})

	t.Run("administrator moves the order", func(t *testing.T) {
		env.actor = handlerAdmin
		w := env.do(http.MethodPost, path, map[string]any{"status": "ENTRE FINALIZADO"})
		requireStatus(t, w, http.StatusOK)
		var resp salesapp.TransitionResponse
		decodeData(t, w, &resp)
		assert.True(t, resp.Changed)
		assert.Equal(t, "ENTRE FINALIZADO", resp.Order.Status)
	})

	t.Run("any actor may use ordinary statuses", func(t *testing.T) {
		env.actor = handlerSeller
		w := env.do(http.MethodPost, path, map[string]any{"status": "EM PRODUÇÃO"})
		requireStatus(t, w, http.StatusOK)
	})
}

func TestOrderHandler_BindingFailures(t *testing.T) {
	env := newOrderEnv(t)
	order := createOrder(t, env, "PED-2005")
	id := order.ID.String()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		code   string
	}{
		{"malformed order json", http.MethodPost, "/orders", `{"order_number":`, dto.ErrCodeBadRequest},
		{"unparseable date", http.MethodPost, "/orders", `{"order_date":"10/03/2026"}`, dto.ErrCodeBadRequest},
		{"unknown installment type", http.MethodPost, "/orders/" + id + "/installments/confirm", map[string]any{"type": "SINAL"}, dto.ErrCodeValidation},
		{"missing installment type", http.MethodPost, "/orders/" + id + "/installments/confirm", map[string]any{}, dto.ErrCodeValidation},
		{"unknown cost component", http.MethodPost, "/orders/" + id + "/payables/confirm", map[string]any{"item_id": order.Items[0].ID, "component": "frete"}, dto.ErrCodeValidation},
		{"missing item id", http.MethodPost, "/orders/" + id + "/payables/confirm", map[string]any{"component": "layout"}, dto.ErrCodeValidation},
		{"unknown status", http.MethodPost, "/orders/" + id + "/status", map[string]any{"status": "CANCELADO"}, dto.ErrCodeValidation},
		{"bad path id", http.MethodPost, "/orders/pedido-1/status", map[string]any{"status": "EM PRODUÇÃO"}, dto.ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", w.Body.String())
			assert.Equal(t, tt.code, decodeResponse(t, w).Error.Code)
		})
	}
}

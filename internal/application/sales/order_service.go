package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/brindes/backend/internal/domain/partner"
	"github.com/brindes/backend/internal/domain/sales"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/brindes/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TransitionRecorder counts status transitions refused for lack of privilege
type TransitionRecorder interface {
	RecordPrivilegedTransitionDenied(ctx context.Context, from, to string)
}

// OrderService runs the order commands: load the aggregate, apply the
// command, commit in one transaction and only then publish what happened.
type OrderService struct {
	orderRepo      sales.OrderRepository
	partnerRepo    partner.PartnerRepository
	auditRepo      sales.AuditLogRepository
	eventPublisher shared.EventPublisher
	transitions    TransitionRecorder
	defaultMarkup  decimal.Decimal
	location       *time.Location
	now            func() time.Time
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo sales.OrderRepository,
	partnerRepo partner.PartnerRepository,
	auditRepo sales.AuditLogRepository,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:   orderRepo,
		partnerRepo: partnerRepo,
		auditRepo:   auditRepo,
		location:    time.UTC,
		now:         time.Now,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTransitionRecorder sets the recorder for denied privileged transitions
func (s *OrderService) SetTransitionRecorder(recorder TransitionRecorder) {
	s.transitions = recorder
}

// SetDefaultMarkupFactor sets the factor applied to items saved without one
func (s *OrderService) SetDefaultMarkupFactor(factor decimal.Decimal) {
	s.defaultMarkup = factor
}

// SetLocation sets the business timezone used to decide what "today" is
func (s *OrderService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

// SaveOrder creates or fully updates an order. Warnings such as an
// installment split that does not add up to the total are returned with the
// committed order and never block the save.
func (s *OrderService) SaveOrder(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req SaveOrderRequest) (_ *SaveOrderResponse, err error) {
	ctx, span := startOrderSpan(ctx, "save", tenantID, req.ID,
		telemetry.SpanAttrOrderNumber, req.OrderNumber,
		telemetry.SpanAttrActor, actor.DisplayName(),
	)
	defer func() { endSpan(span, err) }()

	header, items := s.toDomainInput(req)
	if err := s.checkReferences(ctx, tenantID, header.ClientID, items); err != nil {
		return nil, err
	}

	var (
		order   *sales.Order
		created = req.ID == nil
	)
	if created {
		if err := s.ensureOrderNumberFree(ctx, tenantID, header.OrderNumber); err != nil {
			return nil, err
		}
		order, err = sales.NewOrder(tenantID, actor, header, items)
		if err != nil {
			return nil, err
		}
	} else {
		order, err = s.orderRepo.FindByIDForTenant(ctx, tenantID, *req.ID)
		if err != nil {
			return nil, err
		}
		if req.Version > 0 && req.Version != order.Version {
			return nil, shared.ErrConcurrencyConflict
		}
		if header.OrderNumber != order.OrderNumber {
			if err := s.ensureOrderNumberFree(ctx, tenantID, header.OrderNumber); err != nil {
				return nil, err
			}
		}
		if err := order.Update(actor, header, items); err != nil {
			return nil, err
		}
	}

	if err := s.commit(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order saved",
		zap.String("order_id", order.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("actor", actor.DisplayName()),
		zap.Bool("created", created),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
	)

	return &SaveOrderResponse{
		Order:    ToOrderResponse(order),
		Created:  created,
		Warnings: order.Warnings(),
	}, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves a page of orders
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "order_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Salesperson != "" {
		domainFilter.Filters["salesperson"] = filter.Salesperson
	}
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderListItemResponse(&orders[i])
	}
	return items, total, nil
}

// Delete removes an order with its items, commissions and audit trail
func (s *OrderService) Delete(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if err := s.orderRepo.DeleteForTenant(ctx, tenantID, orderID); err != nil {
		return err
	}

	s.logger.Info("Order deleted",
		zap.String("order_id", orderID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("actor", actor.DisplayName()),
	)
	s.publish(ctx, []shared.DomainEvent{sales.NewOrderDeletedEvent(order)})
	return nil
}

// ConfirmInstallment confirms the ENTRY or REMAINDER installment. Repeating
// the call on a confirmed installment returns Changed=false and writes nothing.
func (s *OrderService) ConfirmInstallment(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, orderID uuid.UUID, req ConfirmInstallmentRequest) (_ *TransitionResponse, err error) {
	ctx, span := startOrderSpan(ctx, "confirm_installment", tenantID, &orderID,
		telemetry.SpanAttrInstallment, req.Type,
		telemetry.SpanAttrActor, actor.DisplayName(),
	)
	defer func() { endSpan(span, err) }()

	installmentType := sales.InstallmentType(req.Type)
	if !installmentType.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("unknown installment type %q", req.Type))
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	changed, err := order.ConfirmInstallment(actor, installmentType, req.ConfirmedAt)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, "changed", changed)
	if changed {
		if err := s.commit(ctx, order); err != nil {
			return nil, err
		}
		telemetry.AddEvent(span, "installment_confirmed",
			telemetry.SpanAttrAmount, order.Installment(installmentType).Amount,
		)
		s.logger.Info("Installment confirmed",
			zap.String("order_id", order.ID.String()),
			zap.String("tenant_id", tenantID.String()),
			zap.String("actor", actor.DisplayName()),
			zap.String("installment_type", installmentType.String()),
			zap.String("amount", order.Installment(installmentType).Amount.StringFixed(2)),
		)
	}

	return &TransitionResponse{Order: ToOrderResponse(order), Changed: changed}, nil
}

// ConfirmPayable marks a cost component as paid and freezes its realized value
func (s *OrderService) ConfirmPayable(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, orderID uuid.UUID, req ConfirmPayableRequest) (_ *OrderResponse, err error) {
	ctx, span := startOrderSpan(ctx, "confirm_payable", tenantID, &orderID,
		telemetry.SpanAttrItemID, req.ItemID,
		telemetry.SpanAttrComponent, req.Component,
		telemetry.SpanAttrActor, actor.DisplayName(),
	)
	defer func() { endSpan(span, err) }()

	kind, err := sales.ParseComponentKind(req.Component)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.ConfirmCostComponent(actor, req.ItemID, kind, req.RealizedAmount, req.PaidAt); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Cost component confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("actor", actor.DisplayName()),
		zap.String("item_id", req.ItemID.String()),
		zap.String("component", kind.String()),
	)
	response := ToOrderResponse(order)
	return &response, nil
}

// SetRealizedCost corrects the realized value of an unpaid component
func (s *OrderService) SetRealizedCost(ctx context.Context, tenantID uuid.UUID, orderID uuid.UUID, req SetRealizedCostRequest) (*OrderResponse, error) {
	kind, err := sales.ParseComponentKind(req.Component)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.SetRealizedCost(req.ItemID, kind, req.Value); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, order); err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// ChangeStatus moves an order to another lifecycle status. Only
// administrators may enter the privileged status; refusals are counted.
func (s *OrderService) ChangeStatus(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, orderID uuid.UUID, req ChangeStatusRequest) (_ *TransitionResponse, err error) {
	ctx, span := startOrderSpan(ctx, "change_status", tenantID, &orderID,
		telemetry.SpanAttrOrderStatus, req.Status,
		telemetry.SpanAttrActor, actor.DisplayName(),
		telemetry.SpanAttrPrivileged, actor.IsAdmin(),
	)
	defer func() { endSpan(span, err) }()

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	target := sales.OrderStatus(req.Status)
	changed, err := order.ChangeStatus(actor, target)
	if err != nil {
		if shared.ErrorCode(err) == shared.CodePermissionDenied {
			s.logger.Warn("Privileged status transition denied",
				zap.String("order_id", order.ID.String()),
				zap.String("tenant_id", tenantID.String()),
				zap.String("actor", actor.DisplayName()),
				zap.String("to_status", target.String()),
			)
			if s.transitions != nil {
				s.transitions.RecordPrivilegedTransitionDenied(ctx, from.String(), target.String())
			}
		}
		return nil, err
	}
	if changed {
		if err := s.commit(ctx, order); err != nil {
			return nil, err
		}
		s.logger.Info("Order status changed",
			zap.String("order_id", order.ID.String()),
			zap.String("tenant_id", tenantID.String()),
			zap.String("actor", actor.DisplayName()),
			zap.String("from_status", from.String()),
			zap.String("to_status", target.String()),
		)
	}

	return &TransitionResponse{Order: ToOrderResponse(order), Changed: changed}, nil
}

// Settlement recomputes both balances of an order
func (s *OrderService) Settlement(ctx context.Context, tenantID, orderID uuid.UUID) (*SettlementResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order).Settlement
	return &response, nil
}

// AuditLog returns the audit trail of an order, newest first
func (s *OrderService) AuditLog(ctx context.Context, tenantID, orderID uuid.UUID) ([]AuditLogResponse, error) {
	if _, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID); err != nil {
		return nil, err
	}
	entries, err := s.auditRepo.ListByOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	responses := make([]AuditLogResponse, len(entries))
	for i := range entries {
		responses[i] = ToAuditLogResponse(&entries[i])
	}
	return responses, nil
}

// Receivables lists installments across all orders. Totals cover every
// installment regardless of the filter.
func (s *OrderService) Receivables(ctx context.Context, tenantID uuid.UUID, filter string) (*ReceivablesResponse, error) {
	f := sales.ReceivableFilter(filter)
	if filter == "" {
		f = sales.ReceivablesAll
	}
	if !f.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("unknown receivables filter %q", filter))
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, shared.Unpaged())
	if err != nil {
		return nil, err
	}
	rows, totals := sales.CollectReceivables(orders, f, s.now().In(s.location))

	response := &ReceivablesResponse{Items: make([]ReceivableResponse, len(rows))}
	for i, r := range rows {
		response.Items[i] = ToReceivableResponse(r)
	}
	response.Totals.Receivable = totals.Receivable
	response.Totals.Overdue = totals.Overdue
	response.Totals.Received = totals.Received
	return response, nil
}

// Payables lists cost components across all orders, newest orders first
func (s *OrderService) Payables(ctx context.Context, tenantID uuid.UUID, filter string) (*PayablesResponse, error) {
	f := sales.PayableFilter(filter)
	if filter == "" {
		f = sales.PayablesAll
	}
	if !f.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("unknown payables filter %q", filter))
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, shared.Unpaged())
	if err != nil {
		return nil, err
	}
	rows, totals := sales.CollectPayables(orders, f)

	response := &PayablesResponse{Items: make([]PayableResponse, len(rows))}
	for i, p := range rows {
		response.Items[i] = ToPayableResponse(p)
	}
	response.Totals.Pending = totals.Pending
	response.Totals.Paid = totals.Paid
	return response, nil
}

func startOrderSpan(ctx context.Context, method string, tenantID uuid.UUID, orderID *uuid.UUID, keyValues ...any) (context.Context, trace.Span) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", method)
	telemetry.SetAttributes(span, telemetry.SpanAttrTenantID, tenantID)
	if orderID != nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrOrderID, *orderID)
	}
	telemetry.SetAttributes(span, keyValues...)
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		telemetry.RecordError(span, err)
	} else {
		telemetry.SetOK(span)
	}
	span.End()
}

// commit stores the order and publishes its events. Commissions reported by
// the repository are the ones actually inserted, so a re-offered accrual
// never raises a second CommissionAccrued.
func (s *OrderService) commit(ctx context.Context, order *sales.Order) error {
	result, err := s.orderRepo.Commit(ctx, order)
	if err != nil {
		order.DiscardEvents()
		return err
	}

	events := order.PullEvents()
	for _, c := range result.Commissions {
		events = append(events, sales.NewCommissionAccruedEvent(c))
	}
	s.publish(ctx, events)
	return nil
}

// publish never fails the command: the state is already committed
func (s *OrderService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish order events",
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
	}
}

func (s *OrderService) ensureOrderNumberFree(ctx context.Context, tenantID uuid.UUID, orderNumber string) error {
	exists, err := s.orderRepo.ExistsByOrderNumber(ctx, tenantID, orderNumber)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, fmt.Sprintf("order number %q is already in use", orderNumber))
	}
	return nil
}

// checkReferences makes sure the client and suppliers exist with the right
// partner type
func (s *OrderService) checkReferences(ctx context.Context, tenantID, clientID uuid.UUID, items []sales.ItemInput) error {
	if s.partnerRepo == nil {
		return nil
	}
	if clientID != uuid.Nil {
		client, err := s.partnerRepo.FindByIDForTenant(ctx, tenantID, clientID)
		if err != nil {
			if shared.ErrorCode(err) == shared.CodeNotFound {
				return shared.NewValidationError("client not found")
			}
			return err
		}
		if !client.IsClient() {
			return shared.NewValidationError(fmt.Sprintf("partner %q is not a client", client.Name))
		}
	}

	checked := make(map[uuid.UUID]bool)
	for i, in := range items {
		if in.SupplierID == nil || checked[*in.SupplierID] {
			continue
		}
		supplier, err := s.partnerRepo.FindByIDForTenant(ctx, tenantID, *in.SupplierID)
		if err != nil {
			if shared.ErrorCode(err) == shared.CodeNotFound {
				return shared.NewValidationError(fmt.Sprintf("item %d: supplier not found", i+1))
			}
			return err
		}
		if !supplier.IsSupplier() {
			return shared.NewValidationError(fmt.Sprintf("item %d: partner %q is not a supplier", i+1, supplier.Name))
		}
		checked[*in.SupplierID] = true
	}
	return nil
}

func (s *OrderService) toDomainInput(req SaveOrderRequest) (sales.OrderHeader, []sales.ItemInput) {
	header := sales.OrderHeader{
		OrderNumber:     req.OrderNumber,
		Salesperson:     req.Salesperson,
		Status:          sales.OrderStatus(req.Status),
		BudgetDate:      req.BudgetDate,
		OrderDate:       req.OrderDate,
		Issuer:          req.Issuer,
		BillingModality: req.BillingModality,
		PaymentMethod:   req.PaymentMethod,
		PaymentDueDate:  req.PaymentDueDate,
		ClientID:        req.ClientID,
		Entry:           req.Entry.toDomain(),
		Remainder:       req.Remainder.toDomain(),
	}

	items := make([]sales.ItemInput, len(req.Items))
	for i, in := range req.Items {
		factor := in.MarkupFactor
		if factor.IsZero() && s.defaultMarkup.IsPositive() {
			factor = s.defaultMarkup
		}
		items[i] = sales.ItemInput{
			ID:           in.ID,
			ProductName:  in.ProductName,
			SupplierID:   in.SupplierID,
			Quantity:     in.Quantity,
			MarkupFactor: factor,
			Estimated:    in.Estimated.toDomain(),
			Realized:     in.Realized.toDomain(),
		}
	}
	return header, items
}

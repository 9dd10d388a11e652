package partner

import (
	"context"
	"strings"

	"github.com/brindes/backend/internal/domain/partner"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PartnerService handles client and supplier registration
type PartnerService struct {
	partnerRepo    partner.PartnerRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(partnerRepo partner.PartnerRepository, logger *zap.Logger) *PartnerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartnerService{
		partnerRepo: partnerRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PartnerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new partner
func (s *PartnerService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePartnerRequest) (*PartnerResponse, error) {
	partnerType := partner.PartnerType(req.Type)
	if !partnerType.IsValid() {
		return nil, shared.NewValidationError("Partner type must be 'CLIENTE' or 'FORNECEDOR'")
	}
	if err := s.ensureDocumentFree(ctx, tenantID, partnerType, req.Document); err != nil {
		return nil, err
	}

	p, err := partner.NewPartner(tenantID, partnerType, req.input())
	if err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.publish(ctx, p)

	response := ToPartnerResponse(p)
	return &response, nil
}

// GetByID retrieves a partner by ID
func (s *PartnerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PartnerResponse, error) {
	p, err := s.partnerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToPartnerResponse(p)
	return &response, nil
}

// List retrieves a page of partners
func (s *PartnerService) List(ctx context.Context, tenantID uuid.UUID, filter PartnerListFilter) ([]PartnerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "name",
		OrderDir: "asc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}

	partners, err := s.partnerRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.partnerRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PartnerResponse, len(partners))
	for i := range partners {
		responses[i] = ToPartnerResponse(&partners[i])
	}
	return responses, total, nil
}

// Update replaces the editable fields of a partner
func (s *PartnerService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePartnerRequest) (*PartnerResponse, error) {
	p, err := s.partnerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Document) != p.Document {
		if err := s.ensureDocumentFree(ctx, tenantID, p.Type, req.Document); err != nil {
			return nil, err
		}
	}

	if err := p.Update(req.input()); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.publish(ctx, p)

	response := ToPartnerResponse(p)
	return &response, nil
}

// Delete deletes a partner. Partners referenced by an order or an order
// item cannot be deleted.
func (s *PartnerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	p, err := s.partnerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	referenced, err := s.partnerRepo.IsReferenced(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewInvalidStateError("Partner is used by existing orders and cannot be deleted")
	}
	if err := s.partnerRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	p.RecordEvent(partner.NewPartnerDeletedEvent(p))
	s.publish(ctx, p)
	return nil
}

func (s *PartnerService) ensureDocumentFree(ctx context.Context, tenantID uuid.UUID, partnerType partner.PartnerType, document string) error {
	document = strings.TrimSpace(document)
	if document == "" {
		return nil
	}
	exists, err := s.partnerRepo.ExistsByDocument(ctx, tenantID, partnerType, document)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Partner with this document already exists")
	}
	return nil
}

func (s *PartnerService) publish(ctx context.Context, p *partner.Partner) {
	events := p.PullEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish partner events",
			zap.String("partner_id", p.ID.String()),
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
	}
}

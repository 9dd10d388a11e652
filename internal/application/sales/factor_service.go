package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/brindes/backend/internal/domain/sales"
	"github.com/brindes/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FactorService manages the markup factors offered when pricing items
type FactorService struct {
	factorRepo sales.CalculationFactorRepository
	logger     *zap.Logger
}

// NewFactorService creates a new FactorService
func NewFactorService(factorRepo sales.CalculationFactorRepository, logger *zap.Logger) *FactorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FactorService{factorRepo: factorRepo, logger: logger}
}

// Create creates a new factor. A value of 2 or more is stored but flagged
// as fallback pricing in the response.
func (s *FactorService) Create(ctx context.Context, tenantID uuid.UUID, req CreateFactorRequest) (*FactorResponse, error) {
	exists, err := s.factorRepo.ExistsByName(ctx, tenantID, strings.TrimSpace(req.Name))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, fmt.Sprintf("factor %q already exists", req.Name))
	}

	factor, err := sales.NewCalculationFactor(tenantID, req.Name, req.Value, req.Description)
	if err != nil {
		return nil, err
	}
	if req.Active != nil && !*req.Active {
		factor.Deactivate()
	}
	if err := s.factorRepo.Save(ctx, factor); err != nil {
		return nil, err
	}
	if factor.UsesFallback() {
		s.logger.Warn("Markup factor uses fallback pricing",
			zap.String("tenant_id", tenantID.String()),
			zap.String("factor", factor.Name),
			zap.String("value", factor.Value.String()),
		)
	}

	response := ToFactorResponse(factor)
	return &response, nil
}

// GetByID retrieves a factor by ID
func (s *FactorService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*FactorResponse, error) {
	factor, err := s.factorRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToFactorResponse(factor)
	return &response, nil
}

// List returns the factors of a tenant, optionally only the active ones
func (s *FactorService) List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]FactorResponse, error) {
	factors, err := s.factorRepo.FindAllForTenant(ctx, tenantID, activeOnly)
	if err != nil {
		return nil, err
	}
	responses := make([]FactorResponse, len(factors))
	for i := range factors {
		responses[i] = ToFactorResponse(&factors[i])
	}
	return responses, nil
}

// Update replaces name, value, description and optionally the active flag
func (s *FactorService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateFactorRequest) (*FactorResponse, error) {
	factor, err := s.factorRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if !strings.EqualFold(name, factor.Name) {
		exists, err := s.factorRepo.ExistsByName(ctx, tenantID, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, fmt.Sprintf("factor %q already exists", name))
		}
	}
	if err := factor.Update(name, req.Value, req.Description); err != nil {
		return nil, err
	}
	if req.Active != nil {
		if *req.Active {
			factor.Activate()
		} else {
			factor.Deactivate()
		}
	}
	if err := s.factorRepo.Save(ctx, factor); err != nil {
		return nil, err
	}

	response := ToFactorResponse(factor)
	return &response, nil
}

// Delete deletes a factor. Items keep the factor value they were priced with.
func (s *FactorService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.factorRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.factorRepo.DeleteForTenant(ctx, tenantID, id)
}

// SeedDefaults creates the default factors for a tenant that has none.
// Returns the number of factors created.
func (s *FactorService) SeedDefaults(ctx context.Context, tenantID uuid.UUID) (int, error) {
	existing, err := s.factorRepo.FindAllForTenant(ctx, tenantID, false)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	created := 0
	for _, seed := range sales.DefaultFactorSeeds() {
		factor, err := sales.NewCalculationFactor(tenantID, seed.Name, seed.Value, seed.Description)
		if err != nil {
			return created, err
		}
		if !seed.Active {
			factor.Deactivate()
		}
		if err := s.factorRepo.Save(ctx, factor); err != nil {
			return created, err
		}
		created++
	}

	s.logger.Info("Seeded default markup factors",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("count", created),
	)
	return created, nil
}

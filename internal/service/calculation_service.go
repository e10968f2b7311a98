package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/arlo/calcledger/internal/calc"
	"github.com/arlo/calcledger/internal/domain"
	"github.com/arlo/calcledger/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

type CalculationService struct {
	calcRepo  repository.CalculationRepository
	eventRepo repository.EventRepository
	notifier  Notifier
}

func NewCalculationService(calcRepo repository.CalculationRepository, eventRepo repository.EventRepository, notifier Notifier) *CalculationService {
	return &CalculationService{
		calcRepo:  calcRepo,
		eventRepo: eventRepo,
		notifier:  notifier,
	}
}

type CreateCalculationInput struct {
	A    float64
	B    float64
	Type calc.Operation
}

// UpdateCalculationInput carries a partial update; nil fields keep their
// stored value. Any change to A, B or Type forces a result recompute.
type UpdateCalculationInput struct {
	A    *float64
	B    *float64
	Type *calc.Operation
}

func (s *CalculationService) Create(ctx context.Context, userID uuid.UUID, input CreateCalculationInput) (*domain.Calculation, error) {
	// Validation happens before anything touches the database
	result, err := calc.Compute(input.Type, input.A, input.B)
	if err != nil {
		return nil, err
	}

	calculation := &domain.Calculation{
		ID:        uuid.New(),
		UserID:    userID,
		A:         input.A,
		B:         input.B,
		Type:      input.Type,
		Result:    result,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.calcRepo.Create(ctx, calculation); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, calculation, domain.EventCalculationCreated)

	return calculation, nil
}

func (s *CalculationService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Calculation, error) {
	calculation, err := s.calcRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCalculationNotFound
		}
		return nil, err
	}
	return calculation, nil
}

func (s *CalculationService) List(ctx context.Context, userID uuid.UUID, skip, limit int) ([]*domain.Calculation, error) {
	skip, limit = normalizePage(skip, limit)
	return s.calcRepo.ListByUser(ctx, userID, skip, limit)
}

func (s *CalculationService) UpdatePartial(ctx context.Context, userID, id uuid.UUID, input UpdateCalculationInput) (*domain.Calculation, error) {
	calculation, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.A != nil {
		calculation.A = *input.A
	}
	if input.B != nil {
		calculation.B = *input.B
	}
	if input.Type != nil {
		calculation.Type = *input.Type
	}

	// Recompute over the merged fields; a patch that would divide by zero
	// fails here and the stored record stays untouched.
	result, err := calc.Compute(calculation.Type, calculation.A, calculation.B)
	if err != nil {
		return nil, err
	}
	calculation.Result = result
	calculation.UpdatedAt = time.Now()

	if err := s.calcRepo.Update(ctx, calculation); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, calculation, domain.EventCalculationUpdated)

	return calculation, nil
}

func (s *CalculationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	calculation, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.calcRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCalculationNotFound
		}
		return err
	}

	s.recordEvent(ctx, calculation, domain.EventCalculationDeleted)

	return nil
}

func (s *CalculationService) ListEvents(ctx context.Context, userID uuid.UUID, skip, limit int) ([]*domain.CalculationEvent, error) {
	skip, limit = normalizePage(skip, limit)
	return s.eventRepo.ListByUser(ctx, userID, skip, limit)
}

// recordEvent writes the audit row and pushes it to the live feed. Audit
// failures are logged rather than failing the already-committed operation.
func (s *CalculationService) recordEvent(ctx context.Context, calculation *domain.Calculation, action string) {
	payload, err := json.Marshal(calculation)
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("failed to marshal calculation event payload")
		return
	}

	event := &domain.CalculationEvent{
		ID:            uuid.New(),
		UserID:        calculation.UserID,
		CalculationID: calculation.ID,
		Action:        action,
		Payload:       datatypes.JSON(payload),
		CreatedAt:     time.Now(),
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		log.Error().Err(err).Str("action", action).Str("calculation_id", calculation.ID.String()).
			Msg("failed to record calculation event")
		return
	}

	if s.notifier != nil {
		s.notifier.Notify(calculation.UserID, event)
	}
}

func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return skip, limit
}

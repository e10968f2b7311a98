package postgres

import (
	"context"

	"github.com/arlo/calcledger/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *eventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.CalculationEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.CalculationEvent, error) {
	var events []*domain.CalculationEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

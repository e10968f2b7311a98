package postgres

import (
	"context"

	"github.com/arlo/calcledger/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type calculationRepository struct {
	db *gorm.DB
}

func NewCalculationRepository(db *gorm.DB) *calculationRepository {
	return &calculationRepository{db: db}
}

func (r *calculationRepository) Create(ctx context.Context, calculation *domain.Calculation) error {
	return r.db.WithContext(ctx).Create(calculation).Error
}

func (r *calculationRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Calculation, error) {
	var calculation domain.Calculation
	err := r.db.WithContext(ctx).First(&calculation, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &calculation, nil
}

func (r *calculationRepository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Calculation, error) {
	var calculations []*domain.Calculation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&calculations).Error
	if err != nil {
		return nil, err
	}
	return calculations, nil
}

func (r *calculationRepository) Update(ctx context.Context, calculation *domain.Calculation) error {
	return r.db.WithContext(ctx).Save(calculation).Error
}

func (r *calculationRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Calculation{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

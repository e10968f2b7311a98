package repository

import (
	"context"

	"github.com/arlo/calcledger/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByUsernameOrEmail matches the identifier against either column,
	// backing the login-with-username-or-email flow.
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
}

// CalculationRepository scopes every read and write by owner. A record that
// exists but belongs to another user behaves exactly like a missing one.
type CalculationRepository interface {
	Create(ctx context.Context, calculation *domain.Calculation) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Calculation, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Calculation, error)
	Update(ctx context.Context, calculation *domain.Calculation) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.CalculationEvent) error
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.CalculationEvent, error)
}

type Repositories struct {
	User        UserRepository
	Calculation CalculationRepository
	Event       EventRepository
}

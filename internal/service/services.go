package service

import (
	"github.com/arlo/calcledger/internal/config"
	"github.com/arlo/calcledger/internal/domain"
	"github.com/arlo/calcledger/internal/repository"
	"github.com/google/uuid"
)

// Notifier receives calculation audit events for live delivery. The
// websocket hub implements it; a nil Notifier disables delivery.
type Notifier interface {
	Notify(userID uuid.UUID, event *domain.CalculationEvent)
}

type Services struct {
	Auth        *AuthService
	Calculation *CalculationService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, notifier Notifier) *Services {
	return &Services{
		Auth:        NewAuthService(repos.User, cfg),
		Calculation: NewCalculationService(repos.Calculation, repos.Event, notifier),
	}
}

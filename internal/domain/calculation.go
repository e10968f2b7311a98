package domain

import (
	"time"

	"github.com/arlo/calcledger/internal/calc"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Calculation is a persisted arithmetic request. Result always matches
// (A, B, Type) under the operation registry at the time of last write.
type Calculation struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	A         float64        `json:"a" gorm:"not null"`
	B         float64        `json:"b" gorm:"not null"`
	Type      calc.Operation `json:"type" gorm:"type:text;not null"`
	Result    float64        `json:"result" gorm:"not null"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Actions recorded in the calculation audit log.
const (
	EventCalculationCreated = "calculation.created"
	EventCalculationUpdated = "calculation.updated"
	EventCalculationDeleted = "calculation.deleted"
)

// CalculationEvent is an audit row describing a change to a calculation.
// Payload carries the record state at the time of the change as JSON and is
// also what the websocket activity feed pushes to the owner's dashboards.
type CalculationEvent struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID        uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	CalculationID uuid.UUID      `json:"calculationId" gorm:"type:uuid;not null"`
	Action        string         `json:"action" gorm:"not null"`
	Payload       datatypes.JSON `json:"payload"`
	CreatedAt     time.Time      `json:"createdAt"`
}

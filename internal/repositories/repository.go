package repositories

import (
	"context"
	"errors"

	"github.com/cardroid/ruleta/internal/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

// PlayerRepository defines the interface for player data operations
type PlayerRepository interface {
	FindByPlate(ctx context.Context, plate string) (*models.Player, error)
	Create(ctx context.Context, player *models.Player) error
	// Update applies fn to the stored player atomically and returns the result.
	Update(ctx context.Context, plate string, fn func(*models.Player) error) (*models.Player, error)
}

// TrackingEventRepository defines the interface for analytics event storage
type TrackingEventRepository interface {
	Create(ctx context.Context, event *models.TrackingEvent) error
	FindBySession(ctx context.Context, sessionID string, limit int) ([]*models.TrackingEvent, error)
}

package repositories

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cardroid/ruleta/internal/models"
)

// ErrAlreadyExists is returned when creating a player whose plate is taken
var ErrAlreadyExists = errors.New("already exists")

// MemoryPlayerRepository keeps players in process memory
type MemoryPlayerRepository struct {
	mu      sync.Mutex
	players map[string]*models.Player
}

// NewMemoryPlayerRepository creates an empty in-memory player store
func NewMemoryPlayerRepository() *MemoryPlayerRepository {
	return &MemoryPlayerRepository{players: map[string]*models.Player{}}
}

func clonePlayer(p *models.Player) *models.Player {
	out := *p
	out.Prizes = append([]models.Prize(nil), p.Prizes...)
	return &out
}

// FindByPlate returns a copy of the player stored under plate
func (r *MemoryPlayerRepository) FindByPlate(_ context.Context, plate string) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[plate]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePlayer(p), nil
}

// Create stores a new player
func (r *MemoryPlayerRepository) Create(_ context.Context, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[player.Plate]; ok {
		return ErrAlreadyExists
	}
	now := time.Now()
	player.CreatedAt = now
	player.UpdatedAt = now
	r.players[player.Plate] = clonePlayer(player)
	return nil
}

// Update applies fn to a copy of the player and stores it when fn succeeds
func (r *MemoryPlayerRepository) Update(_ context.Context, plate string, fn func(*models.Player) error) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[plate]
	if !ok {
		return nil, ErrNotFound
	}
	next := clonePlayer(p)
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now()
	r.players[plate] = next
	return clonePlayer(next), nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/cardroid/ruleta/internal/models"
	"github.com/cardroid/ruleta/internal/repositories"
	"github.com/cardroid/ruleta/internal/utils"
	"github.com/google/uuid"
)

// Errors returned by the development game service
var (
	ErrPlayerOutOfSpins = errors.New("no spins available")
	ErrAlreadyShared    = errors.New("share bonus already granted")
)

// DefaultSegments is the wheel layout served by the development stub API
func DefaultSegments() []models.Segment {
	return []models.Segment{
		{Text: "RADIO 100% GRATIS", FillStyle: "#e63946", TextFillStyle: "#ffffff"},
		{Text: "Sigue Intentando", FillStyle: "#f1faee", TextFillStyle: "#1d3557"},
		{Text: "Descuento 20%", FillStyle: "#a8dadc", TextFillStyle: "#1d3557"},
		{Text: "Giro Adicional", FillStyle: "#457b9d", TextFillStyle: "#ffffff"},
		{Text: "Polo Cardroid", FillStyle: "#1d3557", TextFillStyle: "#ffffff"},
		{Text: "Sigue Intentando", FillStyle: "#f1faee", TextFillStyle: "#1d3557"},
		{Text: "Instalación Gratis", FillStyle: "#e9c46a", TextFillStyle: "#1d3557"},
		{Text: "Giro Adicional", FillStyle: "#457b9d", TextFillStyle: "#ffffff"},
	}
}

// GameConfig configures the development game service
type GameConfig struct {
	Segments     []models.Segment
	InitialSpins int
	ShareBonus   int
	PrizeTTL     time.Duration
	Seed         int64
	Now          func() time.Time
}

// GameService is the server side of the promotion used by the stub API.
// It selects prizes and keeps spin accounting per plate.
type GameService struct {
	players      repositories.PlayerRepository
	segments     []models.Segment
	initialSpins int
	shareBonus   int
	prizeTTL     time.Duration
	now          func() time.Time

	randMu sync.Mutex
	rand   *rand.Rand
}

// NewGameService creates a new GameService
func NewGameService(players repositories.PlayerRepository, cfg GameConfig) *GameService {
	if len(cfg.Segments) == 0 {
		cfg.Segments = DefaultSegments()
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &GameService{
		players:      players,
		segments:     cfg.Segments,
		initialSpins: cfg.InitialSpins,
		shareBonus:   cfg.ShareBonus,
		prizeTTL:     cfg.PrizeTTL,
		now:          cfg.Now,
		rand:         rand.New(rand.NewSource(cfg.Seed)),
	}
}

// WheelConfig returns the served wheel layout
func (s *GameService) WheelConfig() models.WheelConfig {
	return models.WheelConfig{Segments: append([]models.Segment(nil), s.segments...)}
}

// RegisterPlayer returns the player for the plate, creating it with the initial
// spin allowance when it does not exist yet. Contact details are refreshed.
func (s *GameService) RegisterPlayer(ctx context.Context, req models.RegisterRequest) (*models.Player, bool, error) {
	player, err := s.players.Update(ctx, req.Plate, func(p *models.Player) error {
		p.Email = req.Email
		p.Phone = req.Phone
		return nil
	})
	if err == nil {
		return player, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, fmt.Errorf("update player: %w", err)
	}

	player = &models.Player{
		Plate:          req.Plate,
		Email:          req.Email,
		Phone:          req.Phone,
		SpinsAvailable: s.initialSpins,
		Prizes:         []models.Prize{},
	}
	if err := s.players.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			// Lost a race with a concurrent registration of the same plate.
			existing, findErr := s.players.FindByPlate(ctx, req.Plate)
			return existing, false, findErr
		}
		return nil, false, fmt.Errorf("create player: %w", err)
	}
	log.Printf("[GameService] Registered player %s with %d spins", player.Plate, player.SpinsAvailable)
	return player, true, nil
}

// SpinResult is the outcome of one server-side spin
type SpinResult struct {
	Player    *models.Player
	Prize     models.Prize
	StopAngle float64
}

// SpinForPlayer consumes one spin, picks a segment uniformly and records its prize
func (s *GameService) SpinForPlayer(ctx context.Context, plate string) (*SpinResult, error) {
	s.randMu.Lock()
	index := s.rand.Intn(len(s.segments))
	angle := utils.AngleInSegment(s.rand, index, len(s.segments))
	s.randMu.Unlock()

	now := s.now()
	prize := models.Prize{
		ID:     uuid.NewString(),
		Text:   s.segments[index].Text,
		Expiry: now.Add(s.prizeTTL).UTC(),
	}

	player, err := s.players.Update(ctx, plate, func(p *models.Player) error {
		if p.SpinsAvailable <= 0 {
			return ErrPlayerOutOfSpins
		}
		p.SpinsAvailable--
		p.Prizes = append(p.Prizes, prize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[GameService] Player %s spun segment %d (%s), %d spins left", plate, index, prize.Text, player.SpinsAvailable)
	return &SpinResult{Player: player, Prize: prize, StopAngle: angle}, nil
}

// ShareForPlayer grants the share bonus once per player
func (s *GameService) ShareForPlayer(ctx context.Context, plate string) (*models.Player, error) {
	player, err := s.players.Update(ctx, plate, func(p *models.Player) error {
		if p.Shared {
			return ErrAlreadyShared
		}
		p.Shared = true
		p.SpinsAvailable += s.shareBonus
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[GameService] Player %s shared, %d spins available", plate, player.SpinsAvailable)
	return player, nil
}

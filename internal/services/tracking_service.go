package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cardroid/ruleta/internal/models"
	"github.com/cardroid/ruleta/internal/repositories"
)

// Tracker receives analytics events. Implementations must not block for long
// and their failures never affect the spin flow.
type Tracker interface {
	Track(ctx context.Context, event models.TrackingEvent)
}

// EventHistory is implemented by trackers that can read back recorded events
type EventHistory interface {
	History(ctx context.Context, sessionID string, limit int) ([]*models.TrackingEvent, error)
}

// LogTracker writes tracking events to the standard logger
type LogTracker struct{}

// Track logs the event
func (LogTracker) Track(_ context.Context, e models.TrackingEvent) {
	log.Printf("[Tracking] session=%s kind=%s plate=%s prize=%q spins=%d %s", e.SessionID, e.Kind, e.Plate, e.Prize, e.SpinsAvailable, e.Detail)
}

// StoreTracker persists tracking events through a repository
type StoreTracker struct {
	repo    repositories.TrackingEventRepository
	timeout time.Duration
}

// NewStoreTracker creates a tracker writing to repo
func NewStoreTracker(repo repositories.TrackingEventRepository, timeout time.Duration) *StoreTracker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &StoreTracker{repo: repo, timeout: timeout}
}

// Track stores the event, logging any failure
func (t *StoreTracker) Track(ctx context.Context, e models.TrackingEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.timeout)
	defer cancel()
	if err := t.repo.Create(ctx, &e); err != nil {
		log.Printf("[Tracking] Failed to store %s event: %v", e.Kind, err)
	}
}

// History returns the newest events recorded for sessionID
func (t *StoreTracker) History(ctx context.Context, sessionID string, limit int) ([]*models.TrackingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	events, err := t.repo.FindBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	return events, nil
}

type nopTracker struct{}

func (nopTracker) Track(context.Context, models.TrackingEvent) {}

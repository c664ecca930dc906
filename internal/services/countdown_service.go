package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cardroid/ruleta/internal/models"
)

// CountdownSink receives countdown text for a rendered prize
type CountdownSink interface {
	UpdateCountdown(prizeID, text string, expiring bool)
}

// FormatRemaining renders the time left as "Nd Nh Nm Ns". The bool is false once
// the distance is negative.
func FormatRemaining(distance time.Duration) (string, bool) {
	if distance < 0 {
		return "", false
	}
	days := distance / (24 * time.Hour)
	hours := (distance % (24 * time.Hour)) / time.Hour
	minutes := (distance % time.Hour) / time.Minute
	seconds := (distance % time.Minute) / time.Second
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds), true
}

// CountdownBoard runs one countdown task per rendered prize. Each Render
// cancels the tasks of the previous render; a cancelled task never writes
// to the sink again.
type CountdownBoard struct {
	interval     time.Duration
	expiredLabel string
	now          func() time.Time
	sink         CountdownSink

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCountdownBoard creates a board refreshing every interval
func NewCountdownBoard(sink CountdownSink, interval time.Duration, expiredLabel string, now func() time.Time) *CountdownBoard {
	if interval <= 0 {
		interval = time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &CountdownBoard{
		interval:     interval,
		expiredLabel: expiredLabel,
		now:          now,
		sink:         sink,
	}
}

// setClock replaces the board clock
func (b *CountdownBoard) setClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

// Render replaces the running countdowns with one per prize
func (b *CountdownBoard) Render(prizes []models.Prize) {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	b.gen++
	gen := b.gen
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.mu.Unlock()

	for _, p := range prizes {
		b.wg.Add(1)
		go b.run(ctx, gen, p)
	}
}

// Stop cancels all running countdowns and waits for them to exit
func (b *CountdownBoard) Stop() {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.gen++
	b.mu.Unlock()
	b.wg.Wait()
}

func (b *CountdownBoard) run(ctx context.Context, gen uint64, prize models.Prize) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		if done := b.tick(gen, prize); done {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick writes one update and reports whether the countdown has finished.
func (b *CountdownBoard) tick(gen uint64, prize models.Prize) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return true
	}
	distance := prize.Expiry.Sub(b.now())
	text, running := FormatRemaining(distance)
	if !running {
		b.sink.UpdateCountdown(prize.ID, b.expiredLabel, false)
		return true
	}
	b.sink.UpdateCountdown(prize.ID, text, distance < 24*time.Hour)
	return false
}

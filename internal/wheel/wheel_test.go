package wheel

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/cardroid/ruleta/internal/models"
)

func fourSegments() models.WheelConfig {
	return models.WheelConfig{Segments: []models.Segment{
		{Text: "Radio"}, {Text: "Sigue Intentando"}, {Text: "Cap"}, {Text: "Giro Adicional"},
	}}
}

type frameRecorder struct {
	mu     sync.Mutex
	frames []float64
}

func (r *frameRecorder) DrawFrame(rotation float64, _ models.Segment) {
	r.mu.Lock()
	r.frames = append(r.frames, rotation)
	r.mu.Unlock()
}

func TestNewRejectsEmptyConfig(t *testing.T) {
	if _, err := New(models.WheelConfig{}, Options{}, nil); !errors.Is(err, ErrNoSegments) {
		t.Fatalf("err = %v", err)
	}
}

func TestSegmentAt(t *testing.T) {
	w, err := New(fourSegments(), Options{}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	cases := map[float64]int{0: 0, 89.9: 0, 90: 1, 180: 2, 359.9: 3, 360: 0, -10: 3}
	for deg, want := range cases {
		if got := w.SegmentAt(deg); got != want {
			t.Fatalf("SegmentAt(%v) = %d, want %d", deg, got, want)
		}
	}
}

func TestAnimateStopsOnServerAngle(t *testing.T) {
	rec := &frameRecorder{}
	w, _ := New(fourSegments(), Options{Duration: 30 * time.Millisecond, Spins: 8, FrameInterval: 5 * time.Millisecond}, rec)

	got := make(chan models.Segment, 1)
	if err := w.Animate(context.Background(), 200, func(seg models.Segment) { got <- seg }); err != nil {
		t.Fatalf("animate: %v", err)
	}

	select {
	case seg := <-got:
		if seg.Text != "Cap" {
			t.Fatalf("indicated = %q, want Cap", seg.Text)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("animation did not complete")
	}

	want := math.Mod(w.TargetRotation(200), 360)
	if r := w.Rotation(); math.Abs(r-want) > 1e-9 || r >= 360 {
		t.Fatalf("rotation = %v, want %v", r, want)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.frames) == 0 {
		t.Fatal("no frames drawn")
	}
}

func TestAnimateIsSingleFlight(t *testing.T) {
	w, _ := New(fourSegments(), Options{Duration: 200 * time.Millisecond, FrameInterval: 10 * time.Millisecond}, nil)

	done := make(chan struct{})
	if err := w.Animate(context.Background(), 10, func(models.Segment) { close(done) }); err != nil {
		t.Fatalf("first animate: %v", err)
	}
	if err := w.Animate(context.Background(), 10, nil); !errors.Is(err, ErrAnimating) {
		t.Fatalf("second animate err = %v", err)
	}
	<-done
}

func TestAnimateCancelledStillCompletes(t *testing.T) {
	w, _ := New(fourSegments(), Options{Duration: time.Hour, FrameInterval: 10 * time.Millisecond}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	got := make(chan models.Segment, 1)
	if err := w.Animate(ctx, 95, func(seg models.Segment) { got <- seg }); err != nil {
		t.Fatalf("animate: %v", err)
	}
	cancel()

	select {
	case seg := <-got:
		if seg.Text != "Sigue Intentando" {
			t.Fatalf("indicated = %q", seg.Text)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled animation did not complete")
	}
}

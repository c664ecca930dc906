// Package wheel models the prize wheel widget: a fixed segment layout that
// animates toward a stop angle chosen by the server.
package wheel

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/cardroid/ruleta/internal/models"
)

// ErrAnimating is returned when an animation is started while another runs
var ErrAnimating = errors.New("wheel is already animating")

// ErrNoSegments is returned when a wheel is built from an empty configuration
var ErrNoSegments = errors.New("wheel needs at least one segment")

// Renderer draws animation frames
type Renderer interface {
	DrawFrame(rotation float64, indicated models.Segment)
}

// Options controls the spin-to-stop animation
type Options struct {
	Duration      time.Duration
	Spins         int
	FrameInterval time.Duration
	// PointerAngle is where the pointer sits, in degrees clockwise from the top.
	PointerAngle float64
}

// Wheel is a segment layout with a current rotation
type Wheel struct {
	segments []models.Segment
	opts     Options
	renderer Renderer

	mu        sync.Mutex
	rotation  float64
	animating bool
}

// New builds a wheel from cfg. renderer may be nil.
func New(cfg models.WheelConfig, opts Options, renderer Renderer) (*Wheel, error) {
	if len(cfg.Segments) == 0 {
		return nil, ErrNoSegments
	}
	if opts.Spins < 0 {
		opts.Spins = 0
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = 50 * time.Millisecond
	}
	segments := make([]models.Segment, len(cfg.Segments))
	copy(segments, cfg.Segments)
	return &Wheel{segments: segments, opts: opts, renderer: renderer}, nil
}

// Segments returns the wheel layout
func (w *Wheel) Segments() []models.Segment {
	out := make([]models.Segment, len(w.segments))
	copy(out, w.segments)
	return out
}

// Rotation returns the current rotation in degrees
func (w *Wheel) Rotation() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rotation
}

// SegmentAt returns the index of the segment containing wheel angle deg.
// Segment i spans [i*360/n, (i+1)*360/n).
func (w *Wheel) SegmentAt(deg float64) int {
	n := len(w.segments)
	idx := int(normalize(deg) / (360 / float64(n)))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// Indicated returns the segment under the pointer at rotation
func (w *Wheel) Indicated(rotation float64) models.Segment {
	return w.segments[w.SegmentAt(w.opts.PointerAngle-rotation)]
}

// TargetRotation is the final rotation for an animation stopping at stopAngle
func (w *Wheel) TargetRotation(stopAngle float64) float64 {
	return float64(w.opts.Spins)*360 + (360 - stopAngle) + w.opts.PointerAngle
}

// Animate spins the wheel so that wheel angle stopAngle ends under the pointer
// and then calls done with the segment the wheel visually indicates. done is
// bound to this animation only. If ctx is cancelled the wheel jumps to the
// final position and done is still called.
func (w *Wheel) Animate(ctx context.Context, stopAngle float64, done func(indicated models.Segment)) error {
	w.mu.Lock()
	if w.animating {
		w.mu.Unlock()
		return ErrAnimating
	}
	w.animating = true
	start := w.rotation
	w.mu.Unlock()

	target := w.TargetRotation(stopAngle)
	go w.run(ctx, start, target, done)
	return nil
}

func (w *Wheel) run(ctx context.Context, start, target float64, done func(models.Segment)) {
	if w.opts.Duration > 0 {
		ticker := time.NewTicker(w.opts.FrameInterval)
		began := time.Now()
	loop:
		for {
			select {
			case <-ctx.Done():
				break loop
			case <-ticker.C:
				progress := float64(time.Since(began)) / float64(w.opts.Duration)
				if progress >= 1 {
					break loop
				}
				rotation := start + (target-start)*easeOutQuart(progress)
				w.mu.Lock()
				w.rotation = rotation
				w.mu.Unlock()
				if w.renderer != nil {
					w.renderer.DrawFrame(rotation, w.Indicated(rotation))
				}
			}
		}
		ticker.Stop()
	}

	indicated := w.Indicated(target)
	if w.renderer != nil {
		w.renderer.DrawFrame(target, indicated)
	}

	w.mu.Lock()
	// Keep rotation bounded between spins.
	w.rotation = normalize(target)
	w.animating = false
	w.mu.Unlock()

	if done != nil {
		done(indicated)
	}
}

// easeOutQuart is the Power4.easeOut curve.
func easeOutQuart(t float64) float64 {
	return 1 - math.Pow(1-t, 4)
}

func normalize(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Package visualizer animates the point field shown on the secondary page.
package visualizer

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// Defaults of the field.
const (
	DefaultPoints              = 500
	DefaultWidth               = 800
	DefaultHeight              = 400
	DefaultRelocateProbability = 0.01
	DefaultAlertDuration       = 500 * time.Millisecond
	DefaultFrameInterval       = 100 * time.Millisecond
)

type Config struct {
	Points              int
	Width               int
	Height              int
	RelocateProbability float64
	AlertDuration       time.Duration
}

// withDefaults replaces zero or out of range values.
func (c Config) withDefaults() Config {
	if c.Points <= 0 {
		c.Points = DefaultPoints
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.RelocateProbability < 0 || c.RelocateProbability > 1 {
		c.RelocateProbability = DefaultRelocateProbability
	}
	if c.AlertDuration <= 0 {
		c.AlertDuration = DefaultAlertDuration
	}
	return c
}

// Point is one node of the field. V is a fixed per-point intensity.
type Point struct {
	X, Y float64
	V    float64
}

// Frame is an immutable copy of the field at one instant.
type Frame struct {
	Seq    uint64
	Width  int
	Height int
	Alert  bool
	Points []Point
}

// Field holds the points. All methods are safe for concurrent use.
type Field struct {
	cfg Config
	now func() time.Time

	mu         sync.Mutex
	rnd        *rand.Rand
	points     []Point
	seq        uint64
	alertUntil time.Time
}

// New places cfg.Points points at random. A nil src seeds from the clock.
func New(cfg Config, src rand.Source) *Field {
	cfg = cfg.withDefaults()
	if src == nil {
		seed := uint64(time.Now().UnixNano())
		src = rand.NewPCG(seed, seed>>1|1)
	}
	f := &Field{
		cfg:    cfg,
		now:    time.Now,
		rnd:    rand.New(src),
		points: make([]Point, cfg.Points),
	}
	for i := range f.points {
		f.points[i] = Point{
			X: f.rnd.Float64() * float64(cfg.Width),
			Y: f.rnd.Float64() * float64(cfg.Height),
			V: f.rnd.Float64(),
		}
	}
	return f
}

func (f *Field) Config() Config { return f.cfg }

// Step advances one frame: each point moves to a new random position with
// the configured probability. It returns how many points moved.
func (f *Field) Step() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	moved := 0
	for i := range f.points {
		if f.rnd.Float64() >= f.cfg.RelocateProbability {
			continue
		}
		f.points[i].X = f.rnd.Float64() * float64(f.cfg.Width)
		f.points[i].Y = f.rnd.Float64() * float64(f.cfg.Height)
		moved++
	}
	f.seq++
	return moved
}

// Run steps the field every interval until ctx is cancelled.
func (f *Field) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			f.Step()
		}
	}
}

// Alert recolors every point for d, or for the configured duration when d
// is not positive. A later alert extends an active one.
func (f *Field) Alert(d time.Duration) {
	if d <= 0 {
		d = f.cfg.AlertDuration
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if until := f.now().Add(d); until.After(f.alertUntil) {
		f.alertUntil = until
	}
}

// Alerting reports whether an alert is active.
func (f *Field) Alerting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now().Before(f.alertUntil)
}

// Snapshot copies the current frame.
func (f *Field) Snapshot() Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	pts := make([]Point, len(f.points))
	copy(pts, f.points)
	return Frame{
		Seq:    f.seq,
		Width:  f.cfg.Width,
		Height: f.cfg.Height,
		Alert:  f.now().Before(f.alertUntil),
		Points: pts,
	}
}

// Package loop drives the visual modes: one frame per scheduler tick, with
// the fade pre-step, band measurement and batch lifecycle handled here.
package loop

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/olivier-w/visualiser/internal/analysis"
	"github.com/olivier-w/visualiser/internal/particle"
	"github.com/olivier-w/visualiser/internal/surface"
	"github.com/olivier-w/visualiser/internal/visualizer"
)

var (
	// ErrNoSurface is returned by Start when the viewport cannot back a surface.
	ErrNoSurface = errors.New("render loop: no surface")
	// ErrRunning is returned by Start on a driver that is already running.
	ErrRunning = errors.New("render loop: already running")
)

// State is the driver lifecycle state.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Sampler supplies frequency snapshots; nil means no audio session.
type Sampler interface {
	Sample() analysis.Snapshot
}

// Viewport reports the current output size in surface pixels.
type Viewport interface {
	Size() (width, height int)
}

// ViewportFunc adapts a function to Viewport.
type ViewportFunc func() (int, int)

func (f ViewportFunc) Size() (int, int) { return f() }

// Option configures a Driver.
type Option func(*Driver)

// WithScheduler replaces the default 60 fps timer scheduler.
func WithScheduler(s Scheduler) Option { return func(d *Driver) { d.sched = s } }

// WithRand sets the random source used for particles and glitches.
func WithRand(r *rand.Rand) Option { return func(d *Driver) { d.rng = r } }

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *log.Logger) Option { return func(d *Driver) { d.log = l } }

// Driver owns the surface and particle batch and renders the active mode on
// every tick while running. All methods are safe for concurrent use; frames
// never overlap.
type Driver struct {
	mu sync.Mutex

	viewport Viewport
	sched    Scheduler
	rng      *rand.Rand
	log      *log.Logger

	state    State
	pending  Handle
	gen      uint64 // bumped by Start and Stop; ticks from older runs are dropped
	mode     visualizer.Mode
	settings visualizer.Settings
	sampler  Sampler
	surface  *surface.Surface
	field    *particle.Field
	started  time.Time
	energy   analysis.Energies
	frames   uint64

	resized       bool
	width, height int
}

// NewDriver creates an idle driver reading its size from viewport.
func NewDriver(viewport Viewport, opts ...Option) *Driver {
	d := &Driver{viewport: viewport}
	for _, opt := range opts {
		opt(d)
	}
	if d.sched == nil {
		d.sched = NewTimerScheduler(60)
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	if d.log == nil {
		d.log = log.New(io.Discard, "", 0)
	}
	return d
}

// Start sizes the surface from the viewport, builds the particle batch and
// schedules the first frame. It fails with ErrNoSurface when the viewport
// has no area; the driver then stays idle.
func (d *Driver) Start(mode visualizer.Mode, settings visualizer.Settings, sampler Sampler) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == Running {
		return ErrRunning
	}

	w, h := d.viewport.Size()
	s, err := surface.New(w, h)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoSurface, err)
	}

	d.surface = s
	d.width, d.height = w, h
	d.resized = false
	d.mode = mode
	d.settings = settings
	d.sampler = sampler
	d.started = time.Now()
	d.frames = 0
	d.regenerate()
	d.state = Running
	d.gen++
	d.schedule()

	d.log.Printf("render loop started: mode=%s surface=%dx%d particles=%d", mode, w, h, d.field.Len())
	return nil
}

// Stop cancels the pending frame. Stopping an idle driver does nothing.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != Running {
		return
	}
	if d.pending != 0 {
		d.sched.Cancel(d.pending)
		d.pending = 0
	}
	d.state = Idle
	d.gen++
	d.log.Printf("render loop stopped after %d frames", d.frames)
}

// SetMode switches the active renderer and regenerates the batch.
func (d *Driver) SetMode(m visualizer.Mode) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.mode = m
	if d.state == Running {
		d.regenerate()
		d.log.Printf("mode changed to %s, %d particles", m, d.field.Len())
	}
}

// SetSettings replaces the settings vector and regenerates the batch.
func (d *Driver) SetSettings(s visualizer.Settings) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.settings = s
	if d.state == Running {
		d.regenerate()
		d.log.Printf("settings changed, %d particles", d.field.Len())
	}
}

// Resize records a new viewport size. It is applied at the top of the next
// frame and does not regenerate the batch.
func (d *Driver) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.width, d.height = width, height
	d.resized = true
}

// State returns the lifecycle state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Mode returns the active mode.
func (d *Driver) Mode() visualizer.Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// Settings returns the active settings vector.
func (d *Driver) Settings() visualizer.Settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings
}

// Field returns the current particle batch.
func (d *Driver) Field() *particle.Field {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.field
}

// Energies returns the band energies measured for the last frame.
func (d *Driver) Energies() analysis.Energies {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.energy
}

// Frames returns the number of frames rendered since Start.
func (d *Driver) Frames() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// Present returns a display copy of the surface with the settings' blur and
// saturation applied, or nil before the first Start.
func (d *Driver) Present() *image.NRGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.surface == nil {
		return nil
	}
	return d.surface.Present(d.settings.Filter())
}

// schedule queues the next tick for the current run. Callers hold d.mu.
func (d *Driver) schedule() {
	gen := d.gen
	d.pending = d.sched.Schedule(func(now time.Time) { d.tick(gen, now) })
}

func (d *Driver) tick(gen uint64, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != Running || gen != d.gen {
		return
	}
	d.frame(now)
	d.schedule()
}

// frame renders one frame. Callers hold d.mu.
func (d *Driver) frame(now time.Time) {
	if d.resized {
		d.resized = false
		if err := d.surface.Resize(d.width, d.height); err != nil {
			d.log.Printf("resize to %dx%d ignored: %v", d.width, d.height, err)
		} else {
			d.field.SetBounds(float64(d.width), float64(d.height))
			d.log.Printf("surface resized to %dx%d", d.width, d.height)
		}
	}

	var snap analysis.Snapshot
	if d.sampler != nil {
		snap = d.sampler.Sample()
	}
	d.energy = analysis.Measure(snap)

	d.surface.Fade(d.settings.FadeAlpha())
	visualizer.Render(d.mode, &visualizer.Frame{
		Surface:  d.surface,
		Settings: d.settings,
		Energy:   d.energy,
		Field:    d.field,
		Elapsed:  now.Sub(d.started).Seconds(),
		Rand:     d.rng,
	})
	d.frames++
}

// regenerate discards the batch and builds a new one for the current
// settings. Callers hold d.mu.
func (d *Driver) regenerate() {
	w := float64(d.surface.Width())
	h := float64(d.surface.Height())
	d.field = particle.New(d.settings.ParticleCount(), w, h, d.settings.Speed, d.settings.Palette(), d.rng)
}

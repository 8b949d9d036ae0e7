package ui

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/visualiser/internal/loop"
	"github.com/olivier-w/visualiser/internal/player"
	"github.com/olivier-w/visualiser/internal/util"
	"github.com/olivier-w/visualiser/internal/video"
	"github.com/olivier-w/visualiser/internal/visualizer"
)

// Playback is the part of the audio player the visual screen drives.
type Playback interface {
	TogglePause()
	Paused() bool
	Position() time.Duration
	Duration() time.Duration
	Volume() float64
	AdjustVolume(delta float64)
	Seek(delta time.Duration) error
	Done() <-chan struct{}
	Close()
}

// Tap is the PCM buffer the analyser reads; it is emptied on seek so old
// audio does not leak into the new position's spectrum.
type Tap interface {
	Clear()
}

// Config wires a visual screen.
type Config struct {
	Player   Playback
	Metadata player.Metadata
	Sampler  loop.Sampler
	Tap      Tap
	Mode     visualizer.Mode
	Settings visualizer.Settings
	// FPS is both the render loop rate and the repaint rate.
	FPS int
	// Scale is the surface resolution in pixels per terminal column.
	Scale    int
	Renderer *video.Renderer
	Logger   *log.Logger
	// DriverOptions are appended after the defaults built from the fields above.
	DriverOptions []loop.Option
}

// termViewport holds the surface size derived from the terminal size.
type termViewport struct {
	mu   sync.Mutex
	w, h int
}

func (v *termViewport) Size() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.w, v.h
}

func (v *termViewport) set(w, h int) {
	v.mu.Lock()
	v.w, v.h = w, h
	v.mu.Unlock()
}

// Model is the Bubbletea model for the visual screen.
type Model struct {
	player   Playback
	metadata player.Metadata
	driver   *loop.Driver
	viewport *termViewport
	renderer *video.Renderer
	sampler  loop.Sampler
	tap      Tap
	log      *log.Logger

	mode     visualizer.Mode
	settings visualizer.Settings
	fps      int
	scale    int

	elapsed  time.Duration
	duration time.Duration
	volume   float64
	paused   bool

	width, height int
	cols, rows    int
	frame         string

	showPanel bool
	knob      visualizer.Knob
	knobBar   progress.Model
	meters    meters

	quitting bool
	err      error
}

// New creates the visual screen. The render loop starts on the first
// window size message.
func New(cfg Config) Model {
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 4
	}
	if cfg.Renderer == nil {
		cfg.Renderer = video.NewRenderer()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}

	vp := &termViewport{}
	opts := []loop.Option{
		loop.WithScheduler(loop.NewTimerScheduler(cfg.FPS)),
		loop.WithLogger(cfg.Logger),
	}
	opts = append(opts, cfg.DriverOptions...)

	return Model{
		player:   cfg.Player,
		metadata: cfg.Metadata,
		driver:   loop.NewDriver(vp, opts...),
		viewport: vp,
		renderer: cfg.Renderer,
		sampler:  cfg.Sampler,
		tap:      cfg.Tap,
		log:      cfg.Logger,
		mode:     cfg.Mode,
		settings: cfg.Settings,
		fps:      cfg.FPS,
		scale:    cfg.Scale,
		duration: cfg.Player.Duration(),
		volume:   cfg.Player.Volume(),
		knobBar:  newKnobBar(),
		meters:   newMeters(cfg.FPS),
	}
}

// Err returns the error that ended the screen, if any.
func (m Model) Err() error { return m.err }

// Driver exposes the render loop, mainly for shutdown.
func (m Model) Driver() *loop.Driver { return m.driver }

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(m.fps), checkDone(m.player), tea.SetWindowTitle(windowTitle(m.metadata.Title, false)))
}

func checkDone(p Playback) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return playbackEndedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m.layout()

	case frameMsg:
		m.elapsed = m.player.Position()
		m.volume = m.player.Volume()
		m.paused = m.player.Paused()
		if m.driver.State() == loop.Running {
			m.frame = m.renderer.Render(m.driver.Present(), m.cols, m.rows)
			m.meters.update(m.driver.Energies())
		}
		return m, frameCmd(m.fps)

	case playbackEndedMsg:
		m.elapsed = m.duration
		return m.quit()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isQuit(msg) {
		return m.quit()
	}
	if mode, ok := modeKey(msg); ok {
		m.setMode(mode)
		return m, nil
	}

	switch msg.String() {
	case " ":
		m.player.TogglePause()
		m.paused = m.player.Paused()
		return m, tea.SetWindowTitle(windowTitle(m.metadata.Title, m.paused))
	case "m":
		m.setMode(m.mode.Next())
	case "+", "=":
		m.player.AdjustVolume(0.05)
		m.volume = m.player.Volume()
	case "-":
		m.player.AdjustVolume(-0.05)
		m.volume = m.player.Volume()
	case "s":
		m.showPanel = !m.showPanel
		return m.layout()
	case "tab":
		m.knob = (m.knob + 1) % visualizer.Knob(len(visualizer.Knobs()))
	case "shift+tab":
		n := visualizer.Knob(len(visualizer.Knobs()))
		m.knob = (m.knob + n - 1) % n
	case "right", "l":
		if m.showPanel {
			m.adjustKnob(knobStep)
		} else {
			m.seek(seekStep)
		}
	case "left", "h":
		if m.showPanel {
			m.adjustKnob(-knobStep)
		} else {
			m.seek(-seekStep)
		}
	}
	return m, nil
}

func (m *Model) setMode(mode visualizer.Mode) {
	m.mode = mode
	m.driver.SetMode(mode)
}

func (m *Model) seek(delta time.Duration) {
	if err := m.player.Seek(delta); err != nil {
		m.log.Printf("seek %s: %v", delta, err)
		return
	}
	if m.tap != nil {
		m.tap.Clear()
	}
	m.elapsed = m.player.Position()
}

func (m *Model) adjustKnob(delta int) {
	next := m.settings.With(m.knob, m.settings.Get(m.knob)+delta)
	if next == m.settings {
		return
	}
	m.settings = next
	m.driver.SetSettings(next)
}

// layout recomputes the visual area and either starts the render loop or
// defers a resize to it.
func (m Model) layout() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	cols := m.width
	if m.showPanel {
		cols -= panelWidth
	}
	rows := m.height - 3 // header, status, help
	m.cols, m.rows = max(cols, 0), max(rows, 0)

	w, h := video.SurfaceSize(m.cols, m.rows, m.scale)
	m.viewport.set(w, h)

	if m.driver.State() == loop.Running {
		m.driver.Resize(w, h)
		return m, nil
	}
	if err := m.driver.Start(m.mode, m.settings, m.sampler); err != nil {
		m.err = fmt.Errorf("starting visualizer: %w", err)
		return m.quit()
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.driver.Stop()
	m.player.Close()
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteByte('\n')

	visual := m.frame
	if m.showPanel {
		visual = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(m.cols).Render(visual),
			panelStyle.Height(m.rows).Render(m.panelView()),
		)
	}
	b.WriteString(visual)
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render(helpText(m.showPanel)))
	return b.String()
}

func (m Model) headerLine() string {
	title := titleStyle.Render(m.metadata.Title)
	if m.metadata.Artist != "" {
		title += artistStyle.Render("  " + m.metadata.Artist)
	}
	times := timeStyle.Render(util.FormatDuration(m.elapsed) + " / " + util.FormatDuration(m.duration))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(times)
	return title + strings.Repeat(" ", max(gap, 2)) + times
}

func (m Model) statusLine() string {
	icon := "▶  playing"
	if m.paused {
		icon = "❚❚ paused"
	}
	left := fmt.Sprintf("%s  %s", icon, m.mode)
	right := renderVolumePercent(m.volume)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	return statusStyle.Render(left + strings.Repeat(" ", max(gap, 2)) + right)
}

func (m Model) panelView() string {
	return headerStyle.Render("settings") + "\n" +
		renderKnobs(m.knobBar, m.settings, m.knob) + "\n\n" +
		headerStyle.Render("bands") + "\n" +
		m.meters.view(meterWidth-10)
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " · visualiser"
	}
	return "▶ " + title + " · visualiser"
}

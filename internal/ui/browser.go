package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/visualiser/internal/media"
)

// BrowserResult holds the outcome of the file browser.
type BrowserResult struct {
	Path      string
	Cancelled bool
}

type fileItem struct {
	name string
	ext  string
}

func (i fileItem) Title() string       { return i.name }
func (i fileItem) Description() string { return i.ext }
func (i fileItem) FilterValue() string { return i.name }

type pathItem struct{}

func (i pathItem) Title() string       { return "Open path..." }
func (i pathItem) Description() string { return "type the path of an audio file" }
func (i pathItem) FilterValue() string { return "path" }

// BrowserModel lists the audio files in the working directory.
type BrowserModel struct {
	list     list.Model
	input    textinput.Model
	pathMode bool
	inputErr string
	result   *BrowserResult
	err      error
}

// NewBrowser creates a new file browser model scanning the current directory.
func NewBrowser() BrowserModel {
	entries, err := os.ReadDir(".")
	if err != nil {
		return BrowserModel{err: fmt.Errorf("cannot read directory: %w", err)}
	}

	items := []list.Item{pathItem{}}
	for _, e := range entries {
		if e.IsDir() || !media.IsSupportedPath(e.Name()) {
			continue
		}
		ext := filepath.Ext(e.Name())
		items = append(items, fileItem{name: strings.TrimSuffix(e.Name(), ext), ext: ext})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.Color("#FF00FF"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.Color("#FF00FF"))

	l := list.New(items, delegate, 80, 20)
	l.Title = "visualiser"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	ti := textinput.New()
	ti.Placeholder = "path/to/track" + " (" + media.SupportedExtsList() + ")"
	ti.CharLimit = 4096
	ti.Width = 60

	return BrowserModel{list: l, input: ti}
}

// HasError returns true if the browser could not be initialized.
func (m BrowserModel) HasError() bool {
	return m.err != nil
}

// Error returns the initialization error, if any.
func (m BrowserModel) Error() error {
	return m.err
}

// Result returns the browser result after the program finishes.
func (m BrowserModel) Result() BrowserResult {
	if m.result != nil {
		return *m.result
	}
	return BrowserResult{Cancelled: true}
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("visualiser")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.pathMode {
		return m.updatePathInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case pathItem:
				m.pathMode = true
				m.input.Focus()
				return m, textinput.Blink
			case fileItem:
				return m.choose(item.name + item.ext)
			}
		case "q", "esc", "ctrl+c":
			return m.cancel()
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) updatePathInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			path := strings.TrimSpace(m.input.Value())
			if err := checkAudioPath(path); err != nil {
				m.inputErr = err.Error()
				return m, nil
			}
			return m.choose(path)
		case "esc":
			m.pathMode = false
			m.inputErr = ""
			m.input.Reset()
			m.input.Blur()
			return m, nil
		case "ctrl+c":
			return m.cancel()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m BrowserModel) choose(path string) (tea.Model, tea.Cmd) {
	m.result = &BrowserResult{Path: path}
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func (m BrowserModel) cancel() (tea.Model, tea.Cmd) {
	m.result = &BrowserResult{Cancelled: true}
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func checkAudioPath(path string) error {
	if path == "" {
		return fmt.Errorf("no path given")
	}
	if !media.IsSupportedPath(path) {
		return fmt.Errorf("unsupported format (supported: %s)", media.SupportedExtsList())
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func (m BrowserModel) View() string {
	if !m.pathMode {
		return m.list.View()
	}
	s := "\n"
	s += "  " + headerStyle.Render("visualiser") + "\n"
	s += "\n"
	s += "  " + statusStyle.Render("Open path:") + "\n"
	s += "  " + m.input.View() + "\n"
	if m.inputErr != "" {
		s += "  " + artistStyle.Render(m.inputErr) + "\n"
	}
	s += "\n"
	s += "  " + helpStyle.Render("enter confirm  esc back  ctrl+c quit") + "\n"
	return s
}

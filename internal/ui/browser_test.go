package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestBrowserSelectionStoresResult(t *testing.T) {
	restore := chdirTemp(t, map[string]string{
		"song.mp3": "data",
	})
	defer restore()

	m := NewBrowser()

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(BrowserModel)

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BrowserModel)
	if cmd == nil {
		t.Fatal("expected quit command after selection")
	}

	result := m.Result()
	if result.Path != "song.mp3" || result.Cancelled {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestBrowserCancelStoresResult(t *testing.T) {
	restore := chdirTemp(t, map[string]string{})
	defer restore()

	m := NewBrowser()
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected cancel command")
	}
	if !model.(BrowserModel).Result().Cancelled {
		t.Fatal("expected cancelled result")
	}
}

func TestBrowserListsOnlyPlayableFiles(t *testing.T) {
	restore := chdirTemp(t, map[string]string{
		"a.flac":    "data",
		"b.ogg":     "data",
		"c.wav":     "data",
		"notes.txt": "data",
		"clip.m4a":  "data",
	})
	defer restore()

	m := NewBrowser()

	var names []string
	for _, item := range m.list.Items() {
		if file, ok := item.(fileItem); ok {
			names = append(names, file.name+file.ext)
		}
	}
	if len(names) != 3 {
		t.Fatalf("expected 3 playable files, got %v", names)
	}
	for _, name := range names {
		if name == "notes.txt" || name == "clip.m4a" {
			t.Fatalf("unexpected file %s in browser", name)
		}
	}
}

func TestBrowserPathModeValidatesInput(t *testing.T) {
	restore := chdirTemp(t, map[string]string{
		"deep.wav":  "data",
		"cover.png": "data",
	})
	defer restore()

	m := NewBrowser()
	m.pathMode = true

	m.input.SetValue("cover.png")
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BrowserModel)
	if m.inputErr == "" || m.result != nil {
		t.Fatalf("expected unsupported path to be rejected, got err=%q result=%v", m.inputErr, m.result)
	}

	m.input.SetValue("deep.wav")
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BrowserModel)
	if got := m.Result(); got.Path != "deep.wav" {
		t.Fatalf("expected deep.wav, got %+v", got)
	}
}

func TestBrowserPathModeEscReturnsToList(t *testing.T) {
	restore := chdirTemp(t, map[string]string{})
	defer restore()

	m := NewBrowser()
	m.pathMode = true
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.(BrowserModel).pathMode {
		t.Fatal("expected esc to leave path mode")
	}
}

func chdirTemp(t *testing.T, files map[string]string) func() {
	t.Helper()

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir temp dir: %v", err)
	}

	return func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	}
}

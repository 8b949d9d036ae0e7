package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/visualiser/internal/analysis"
	"github.com/olivier-w/visualiser/internal/loop"
	"github.com/olivier-w/visualiser/internal/media"
	"github.com/olivier-w/visualiser/internal/player"
	"github.com/olivier-w/visualiser/internal/ui"
	"github.com/spf13/cobra"
)

// fftSize is the analyser window; it yields 1024 frequency bins.
const fftSize = 2048

// tapSize holds the newest PCM for the analyser with room for 8 channels.
const tapSize = fftSize * 8 * 2 * 2

var rootCmd = &cobra.Command{
	Use:   "visualiser [file]",
	Short: "Audio-reactive visuals in the terminal",
	Long: `visualiser plays an audio file and renders one of five audio-reactive
visual modes (particles, waveform, kaleidoscope, glitch, bloom) in the
terminal. Without a file argument a browser of the current directory opens.

Supported formats: ` + media.SupportedExtsList(),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	registerFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	mode, settings, err := config.resolve()
	if err != nil {
		return err
	}

	logger, closeLog, err := openLog(config.logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	var path string
	if len(args) == 0 {
		path, err = browse()
		if err != nil {
			return err
		}
		if path == "" {
			return nil
		}
	} else {
		path = args[0]
	}
	if err := checkTrack(path); err != nil {
		return err
	}

	ring := analysis.NewRingBuffer(tapSize)
	p, err := player.New(path, ring)
	if err != nil {
		return fmt.Errorf("creating player: %w", err)
	}
	defer p.Close()

	analyzer := analysis.NewAnalyzer(fftSize)
	analyzer.Connect(ring, p.Channels())
	defer analyzer.Disconnect()

	meta := player.ReadMetadata(path)
	logger.Printf("playing %q (%s, %d channels), mode=%s", path, p.Duration(), p.Channels(), mode)

	model := ui.New(ui.Config{
		Player:        p,
		Metadata:      meta,
		Sampler:       analyzer,
		Tap:           ring,
		Mode:          mode,
		Settings:      settings,
		FPS:           config.fps,
		Scale:         config.scale,
		Logger:        logger,
		DriverOptions: []loop.Option{loop.WithRand(newRand(config.seed))},
	})

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(ui.Model); ok {
		m.Driver().Stop()
		if err := m.Err(); err != nil {
			return err
		}
	}
	return nil
}

// browse runs the file browser and returns the chosen path, or "" when the
// user cancelled.
func browse() (string, error) {
	browser := ui.NewBrowser()
	if browser.HasError() {
		return "", browser.Error()
	}
	final, err := tea.NewProgram(browser, tea.WithAltScreen()).Run()
	if err != nil {
		return "", err
	}
	bm, ok := final.(ui.BrowserModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type from browser")
	}
	result := bm.Result()
	if result.Cancelled {
		return "", nil
	}
	return result.Path, nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

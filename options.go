package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/olivier-w/visualiser/internal/media"
	"github.com/olivier-w/visualiser/internal/visualizer"
	"github.com/spf13/cobra"
)

// Command-line configuration
var config options

type options struct {
	mode              string
	colorIntensity    int
	complexity        int
	speed             int
	blurAmount        int
	glitchEffect      int
	bassReactivity    int
	trebleReactivity  int
	rhythmSensitivity int
	distortion        int
	fps               int
	scale             int
	logPath           string
	seed              uint64
}

func registerFlags(cmd *cobra.Command) {
	d := visualizer.DefaultSettings()
	f := cmd.Flags()
	f.StringVarP(&config.mode, "mode", "m", visualizer.Particles.String(),
		"Visual mode: particles, waveform, kaleidoscope, glitch or bloom")
	f.IntVar(&config.colorIntensity, "color-intensity", d.ColorIntensity, "Palette lightness, 0-100")
	f.IntVar(&config.complexity, "complexity", d.Complexity, "Particle count and kaleidoscope segments, 0-100")
	f.IntVar(&config.speed, "speed", d.Speed, "Animation speed, 0-100")
	f.IntVar(&config.blurAmount, "blur", d.BlurAmount, "Motion trails and display blur, 0-100")
	f.IntVar(&config.glitchEffect, "glitch", d.GlitchEffect, "Glitch frequency in glitch mode, 0-100")
	f.IntVar(&config.bassReactivity, "bass", d.BassReactivity, "Bass response, 0-100")
	f.IntVar(&config.trebleReactivity, "treble", d.TrebleReactivity, "Treble response, 0-100")
	f.IntVar(&config.rhythmSensitivity, "rhythm", d.RhythmSensitivity, "Rhythm sensitivity, 0-100")
	f.IntVar(&config.distortion, "distortion", d.Distortion, "Display saturation boost, 0-100")
	f.IntVar(&config.fps, "fps", 30, "Frames per second")
	f.IntVar(&config.scale, "scale", 4, "Surface pixels per terminal column")
	f.StringVarP(&config.logPath, "log", "l", "", "Write debug logs to specified file (empty disables)")
	f.Uint64Var(&config.seed, "seed", 0, "Random seed for particles and glitches (0 picks one)")
}

// resolve validates the flags and builds the initial mode and settings.
// Knob values outside 0-100 are clamped.
func (o options) resolve() (visualizer.Mode, visualizer.Settings, error) {
	mode, err := visualizer.ParseMode(o.mode)
	if err != nil {
		return 0, visualizer.Settings{}, err
	}
	if o.fps < 1 || o.fps > 120 {
		return 0, visualizer.Settings{}, fmt.Errorf("--fps must be between 1 and 120, got %d", o.fps)
	}
	if o.scale < 1 || o.scale > 16 {
		return 0, visualizer.Settings{}, fmt.Errorf("--scale must be between 1 and 16, got %d", o.scale)
	}

	s := visualizer.Settings{}
	for k, v := range map[visualizer.Knob]int{
		visualizer.KnobColorIntensity:    o.colorIntensity,
		visualizer.KnobComplexity:        o.complexity,
		visualizer.KnobSpeed:             o.speed,
		visualizer.KnobBlurAmount:        o.blurAmount,
		visualizer.KnobGlitchEffect:      o.glitchEffect,
		visualizer.KnobBassReactivity:    o.bassReactivity,
		visualizer.KnobTrebleReactivity:  o.trebleReactivity,
		visualizer.KnobRhythmSensitivity: o.rhythmSensitivity,
		visualizer.KnobDistortion:        o.distortion,
	} {
		s = s.With(k, v)
	}
	return mode, s, nil
}

// openLog returns a logger writing to path, or a discarding logger when
// path is empty. The terminal belongs to the UI, so nothing logs to stderr.
func openLog(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := log.New(f, "visualiser ", log.LstdFlags|log.Lmicroseconds)
	return logger, func() { f.Close() }, nil
}

func checkTrack(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if !media.IsSupportedPath(path) {
		return fmt.Errorf("unsupported format %s (supported: %s)", path, media.SupportedExtsList())
	}
	return nil
}

package visualizer

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/olivier-w/visualiser/internal/analysis"
	"github.com/olivier-w/visualiser/internal/particle"
	"github.com/olivier-w/visualiser/internal/surface"
)

func newTestFrame(t *testing.T, settings Settings) *Frame {
	t.Helper()
	s, err := surface.New(160, 120)
	if err != nil {
		t.Fatalf("surface.New returned error: %v", err)
	}
	rng := rand.New(rand.NewPCG(3, 5))
	field := particle.New(settings.ParticleCount(), 160, 120, settings.Speed, settings.Palette(), rng)
	return &Frame{
		Surface:  s,
		Settings: settings,
		Energy:   analysis.Energies{Bass: 0.6, Mid: 0.4, Treble: 0.3},
		Field:    field,
		Elapsed:  1.25,
		Rand:     rng,
	}
}

func TestWaveformFirstSampleAtOrigin(t *testing.T) {
	const height = 600.0
	amplitude := waveformAmplitude(80, 0.5)
	frequency := waveformFrequency(60, 0.2)
	for i := range waveformCurves {
		want := height/2 + amplitude*math.Sin(float64(i)*0.02) + (amplitude/2)*math.Sin(float64(i)*0.01)
		got := waveformY(0, height, amplitude, frequency, 0, i)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("curve %d: expected y=%v, got %v", i, want, got)
		}
	}
}

func TestWaveformAmplitudeAndFrequency(t *testing.T) {
	if got := waveformAmplitude(100, 0); got != 200 {
		t.Fatalf("expected amplitude 200, got %v", got)
	}
	if got := waveformAmplitude(50, 1); got != 300 {
		t.Fatalf("expected amplitude 300, got %v", got)
	}
	if got := waveformFrequency(50, 1); got != 1 {
		t.Fatalf("expected frequency 1, got %v", got)
	}
}

func TestKaleidoscopeSegmentCount(t *testing.T) {
	cases := map[int]int{0: 3, 9: 3, 50: 8, 100: 13}
	for complexity, want := range cases {
		if got := kaleidoscopeSegments(complexity); got != want {
			t.Fatalf("complexity %d: expected %d segments, got %d", complexity, want, got)
		}
	}
}

func TestKaleidoscopeRadiusAtRest(t *testing.T) {
	// At t=0 the sine term for ring 0 vanishes.
	if got := kaleidoscopeRadius(0, 0, 1); got != 50 {
		t.Fatalf("expected ring 0 radius 50, got %v", got)
	}
	want := 50 + 2*40 + math.Sin(2)*20*1.5
	if got := kaleidoscopeRadius(2, 0, 0.5); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected ring 2 radius %v, got %v", want, got)
	}
}

func TestGlitchTriggerRate(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 99))
	const frames = 100000
	hits := 0
	for range frames {
		s, ok := planGlitch(rng, 50, 600)
		if !ok {
			continue
		}
		hits++
		if s.Height < 10 || s.Height >= 60 {
			t.Fatalf("strip height %d outside [10,60)", s.Height)
		}
		if s.Y < 0 || s.Y >= 600 {
			t.Fatalf("strip y %d outside surface", s.Y)
		}
		if s.Offset < -50 || s.Offset > 50 {
			t.Fatalf("strip offset %d outside [-50,50]", s.Offset)
		}
	}
	rate := float64(hits) / frames
	if math.Abs(rate-0.5) > 0.01 {
		t.Fatalf("expected trigger rate near 0.5, got %v", rate)
	}
}

func TestGlitchNeverAndAlways(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	for range 1000 {
		if _, ok := planGlitch(rng, 0, 100); ok {
			t.Fatal("expected no glitch at 0")
		}
		if _, ok := planGlitch(rng, 100, 100); !ok {
			t.Fatal("expected a glitch every frame at 100")
		}
	}
}

func TestBloomRadius(t *testing.T) {
	// sin(0)=0 so scale is 1.
	if got := bloomRadius(4, 0, 0, 0.5, 80); got != 6 {
		t.Fatalf("expected radius 6, got %v", got)
	}
	if got := bloomRadius(4, 3, 1, 0.5, 0); got != 0 {
		t.Fatalf("expected zero radius without reactivity, got %v", got)
	}
}

func TestRenderEveryModeKeepsBatch(t *testing.T) {
	settings := DefaultSettings()
	settings.GlitchEffect = 100
	for _, m := range Modes() {
		f := newTestFrame(t, settings)
		field := f.Field
		for range 3 {
			Render(m, f)
		}
		if f.Field != field || f.Field.Len() != settings.ParticleCount() {
			t.Fatalf("%s: expected the batch to survive rendering", m)
		}
	}
}

func TestParticleModesAdvanceField(t *testing.T) {
	for _, m := range []Mode{Particles, Glitch, Bloom} {
		f := newTestFrame(t, DefaultSettings())
		before := f.Field.Particles[0]
		Render(m, f)
		if f.Field.Particles[0] == before {
			t.Fatalf("%s: expected particles to move", m)
		}
	}
	for _, m := range []Mode{Waveform, Kaleidoscope} {
		f := newTestFrame(t, DefaultSettings())
		before := f.Field.Particles[0]
		Render(m, f)
		if f.Field.Particles[0] != before {
			t.Fatalf("%s: expected particles untouched", m)
		}
	}
}

func TestRenderPaintsSurface(t *testing.T) {
	f := newTestFrame(t, DefaultSettings())
	s, err := surface.New(400, 300)
	if err != nil {
		t.Fatalf("surface.New returned error: %v", err)
	}
	f.Surface = s
	Render(Kaleidoscope, f)
	// Ring 0 of segment 0 sits to the right of the centre.
	x := 200 + int(kaleidoscopeRadius(0, f.clock(), f.Energy.Bass))
	c := s.Image().RGBAAt(x, 150)
	if c.R == surface.Background.R && c.G == surface.Background.G && c.B == surface.Background.B {
		t.Fatalf("expected a dot at (%d,150), found background", x)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Fatalf("expected %s to parse, got %v, %v", m, got, err)
		}
	}
	if _, err := ParseMode("plasma"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if Bloom.Next() != Particles {
		t.Fatal("expected Next to wrap around")
	}
}

func TestSettingsWithClamps(t *testing.T) {
	s := DefaultSettings().With(KnobSpeed, 140).With(KnobDistortion, -3)
	if s.Speed != 100 || s.Distortion != 0 {
		t.Fatalf("expected clamped knobs, got speed=%d distortion=%d", s.Speed, s.Distortion)
	}
	if s.Get(KnobComplexity) != 50 {
		t.Fatalf("expected complexity 50, got %d", s.Get(KnobComplexity))
	}
	if len(Knobs()) != 9 {
		t.Fatalf("expected nine knobs, got %d", len(Knobs()))
	}
}

func TestSettingsFadeAndFilter(t *testing.T) {
	s := DefaultSettings()
	s.BlurAmount = 30
	s.Distortion = 50
	if got := s.FadeAlpha(); math.Abs(got-0.7) > 1e-12 {
		t.Fatalf("expected fade alpha 0.7, got %v", got)
	}
	f := s.Filter()
	if f.Blur != 3 || f.Saturation != 1.5 {
		t.Fatalf("expected blur 3 and saturation 1.5, got %+v", f)
	}
}

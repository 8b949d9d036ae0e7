package analysis

import (
	"encoding/binary"
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// DefaultFFTSize gives 1024 frequency bins per snapshot.
	DefaultFFTSize = 2048

	defaultSmoothing = 0.8
	minDecibels      = -100.0
	maxDecibels      = -30.0
)

// Snapshot is one readout of per-bin frequency magnitudes, lowest bin first.
type Snapshot []uint8

// Analyzer turns the PCM written into a RingBuffer into byte frequency
// snapshots: Blackman window, FFT, smoothing across calls, and a linear
// mapping of [-100 dB, -30 dB] onto [0, 255].
type Analyzer struct {
	mu sync.Mutex

	fftSize   int
	smoothing float64
	fft       *fourier.FFT
	window    []float64
	frame     []float64
	coeffs    []complex128
	smoothed  []float64
	snapshot  Snapshot

	ring     *RingBuffer
	channels int
	seen     uint64
	computed bool
}

// NewAnalyzer creates an analyzer with the given transform window size.
// Sizes below 2 fall back to DefaultFFTSize.
func NewAnalyzer(fftSize int) *Analyzer {
	if fftSize < 2 {
		fftSize = DefaultFFTSize
	}
	a := &Analyzer{
		fftSize:   fftSize,
		smoothing: defaultSmoothing,
		fft:       fourier.NewFFT(fftSize),
		window:    blackman(fftSize),
		frame:     make([]float64, fftSize),
		coeffs:    make([]complex128, fftSize/2+1),
		smoothed:  make([]float64, fftSize/2),
		snapshot:  make(Snapshot, fftSize/2),
	}
	return a
}

// Connect starts an analysis session reading interleaved 16-bit PCM with the
// given channel count from ring.
func (a *Analyzer) Connect(ring *RingBuffer, channels int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if channels < 1 {
		channels = 1
	}
	a.ring = ring
	a.channels = channels
	a.computed = false
	clear(a.smoothed)
}

// Disconnect ends the session; Sample returns nil until the next Connect.
func (a *Analyzer) Disconnect() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ring = nil
	a.computed = false
}

// Sample returns a copy of the current snapshot, or nil when no session is
// active. It only recomputes when new PCM arrived since the previous call.
func (a *Analyzer) Sample() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ring == nil {
		return nil
	}

	frameBytes := a.channels * 2
	pcm, written := a.ring.Read(a.fftSize * frameBytes)
	if !a.computed || written != a.seen {
		a.compute(pcm, frameBytes)
		a.seen = written
		a.computed = true
	}

	out := make(Snapshot, len(a.snapshot))
	copy(out, a.snapshot)
	return out
}

func (a *Analyzer) compute(pcm []byte, frameBytes int) {
	frames := len(pcm) / frameBytes
	pad := a.fftSize - frames
	for i := range a.fftSize {
		if i < pad {
			a.frame[i] = 0
			continue
		}
		off := (i - pad) * frameBytes
		var sum float64
		for ch := range a.channels {
			s := int16(binary.LittleEndian.Uint16(pcm[off+ch*2:]))
			sum += float64(s) / 32768.0
		}
		a.frame[i] = sum / float64(a.channels) * a.window[i]
	}

	a.coeffs = a.fft.Coefficients(a.coeffs, a.frame)

	n := float64(a.fftSize)
	for k := range a.smoothed {
		mag := cmplx.Abs(a.coeffs[k]) / n
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		a.snapshot[k] = decibelsToByte(a.smoothed[k])
	}
}

func decibelsToByte(mag float64) uint8 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := (db - minDecibels) * 255 / (maxDecibels - minDecibels)
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

func blackman(n int) []float64 {
	const alpha = 0.16
	a0 := 0.5 * (1 - alpha)
	a1 := 0.5
	a2 := 0.5 * alpha
	w := make([]float64, n)
	for i := range n {
		x := float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(2*math.Pi*x) + a2*math.Cos(4*math.Pi*x)
	}
	return w
}

package player

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const bitDepth = 2 // 16-bit output

// countingReader wraps the decoder, tracks bytes handed to the device and
// copies them to the analysis tap.
type countingReader struct {
	reader io.Reader
	tap    io.Writer
	pos    int64
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	if n > 0 && cr.tap != nil {
		_, _ = cr.tap.Write(p[:n])
	}
	cr.mu.Lock()
	cr.pos += int64(n)
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

func (cr *countingReader) SetPos(pos int64) {
	cr.mu.Lock()
	cr.pos = pos
	cr.mu.Unlock()
}

// Player plays one decoded audio file and mirrors the PCM it plays into a tap.
type Player struct {
	file        *os.File
	decoder     audioDecoder
	counter     *countingReader
	otoCtx      *oto.Context
	otoPlayer   *oto.Player
	bytesPerSec int64
	channels    int
	duration    time.Duration
	volume      float64
	paused      bool
	done        chan struct{}
	stopMon     chan struct{}
	cleanup     func()
	mu          sync.Mutex
	closed      bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto(sampleRate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// New opens path, starts playback and writes every played PCM byte to tap
// (interleaved signed 16-bit little endian). tap may be nil.
func New(path string, tap io.Writer) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	ctx, err := initOto(dec.SampleRate(), dec.ChannelCount())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening audio device: %w", err)
	}

	bytesPerSec := int64(dec.SampleRate() * dec.ChannelCount() * bitDepth)
	dur := time.Duration(float64(dec.Length()) / float64(bytesPerSec) * float64(time.Second))

	p := &Player{
		file:        f,
		decoder:     dec,
		counter:     &countingReader{reader: dec, tap: tap},
		otoCtx:      ctx,
		bytesPerSec: bytesPerSec,
		channels:    dec.ChannelCount(),
		duration:    dur,
		volume:      0.8,
		done:        make(chan struct{}),
		stopMon:     make(chan struct{}),
		cleanup:     func() { f.Close() },
	}

	p.otoPlayer = ctx.NewPlayer(p.counter)
	p.otoPlayer.SetVolume(p.volume)
	p.otoPlayer.Play()

	go p.monitor(p.done, p.stopMon)

	return p, nil
}

func (p *Player) monitor(done, stop chan struct{}) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		p.mu.Lock()
		finished := !p.paused && p.counter.Pos() >= p.decoder.Length() && !p.otoPlayer.IsPlaying()
		p.mu.Unlock()
		if finished {
			close(done)
			return
		}
	}
}

// Done returns a channel that closes when playback finishes.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Channels returns the channel count of the PCM written to the tap.
func (p *Player) Channels() int { return p.channels }

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.paused {
		p.otoPlayer.Play()
		p.paused = false
	} else {
		p.otoPlayer.Pause()
		p.paused = true
	}
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	if p.bytesPerSec == 0 {
		return 0
	}
	secs := float64(p.counter.Pos()) / float64(p.bytesPerSec)
	return time.Duration(secs * float64(time.Second))
}

// Duration returns the total duration of the track.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// clampSeekByteOffset converts a target position into a byte offset inside
// [0, total], aligned down to a whole sample frame.
func clampSeekByteOffset(target time.Duration, bytesPerSec, total, frameSize int64) int64 {
	pos := int64(target.Seconds() * float64(bytesPerSec))
	if pos < 0 {
		pos = 0
	}
	if pos > total {
		pos = total
	}
	return pos - pos%frameSize
}

// Seek moves playback by delta from the current position.
func (p *Player) Seek(delta time.Duration) error {
	return p.SeekTo(p.Position()+delta, !p.Paused())
}

// SeekTo jumps to an absolute position. Playback resumes afterwards only
// when resume is set.
func (p *Player) SeekTo(target time.Duration, resume bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameSize := int64(p.decoder.ChannelCount() * bitDepth)
	newPos := clampSeekByteOffset(target, p.bytesPerSec, p.decoder.Length(), frameSize)

	if _, err := p.decoder.Seek(newPos, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to %s: %w", target, err)
	}
	p.counter.SetPos(newPos)

	// Recreate the device player to flush its buffer.
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	if p.otoCtx != nil {
		p.otoPlayer = p.otoCtx.NewPlayer(p.counter)
		p.otoPlayer.SetVolume(p.volume)
	}
	p.paused = !resume
	if resume && p.otoPlayer != nil {
		p.otoPlayer.Play()
	}
	return nil
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.volume = v
	if p.otoPlayer != nil {
		p.otoPlayer.SetVolume(v)
	}
}

// AdjustVolume adjusts volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v)
}

// Close stops playback and releases the file. It is safe to call twice.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.stopMon != nil {
		close(p.stopMon)
	}
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	if p.cleanup != nil {
		p.cleanup()
	}
}

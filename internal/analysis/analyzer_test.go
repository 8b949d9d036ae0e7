package analysis

import (
	"encoding/binary"
	"math"
	"testing"
)

func sinePCM(frames, channels int, freq, rate, amp float64) []byte {
	out := make([]byte, frames*channels*2)
	for i := range frames {
		v := int16(amp * 32767 * math.Sin(2*math.Pi*freq*float64(i)/rate))
		for ch := range channels {
			binary.LittleEndian.PutUint16(out[(i*channels+ch)*2:], uint16(v))
		}
	}
	return out
}

func TestSampleWithoutSessionReturnsNil(t *testing.T) {
	a := NewAnalyzer(DefaultFFTSize)
	if s := a.Sample(); s != nil {
		t.Fatalf("expected nil snapshot without a session, got %d bins", len(s))
	}

	rb := NewRingBuffer(4096)
	a.Connect(rb, 2)
	a.Disconnect()
	if s := a.Sample(); s != nil {
		t.Fatal("expected nil snapshot after disconnect")
	}
}

func TestSampleLengthIsHalfWindow(t *testing.T) {
	a := NewAnalyzer(2048)
	a.Connect(NewRingBuffer(2048*4), 2)
	s := a.Sample()
	if len(s) != 1024 {
		t.Fatalf("expected 1024 bins, got %d", len(s))
	}
	for i, v := range s {
		if v != 0 {
			t.Fatalf("expected silent buffer to give zero magnitudes, bin %d = %d", i, v)
		}
	}
}

func TestSampleFindsToneBin(t *testing.T) {
	const rate = 44100.0
	a := NewAnalyzer(2048)
	rb := NewRingBuffer(2048 * 4)
	a.Connect(rb, 2)

	// Bin spacing is rate/2048; aim at bin 100.
	freq := 100 * rate / 2048
	if _, err := rb.Write(sinePCM(2048, 2, freq, rate, 0.8)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var s Snapshot
	// Feed repeated frames so smoothing converges.
	for range 20 {
		rb.Write(sinePCM(2048, 2, freq, rate, 0.8))
		s = a.Sample()
	}

	peak := 0
	for i, v := range s {
		if v > s[peak] {
			peak = i
		}
	}
	if peak < 99 || peak > 101 {
		t.Fatalf("expected peak near bin 100, got %d", peak)
	}
	if s[peak] < 200 {
		t.Fatalf("expected a loud peak, got %d", s[peak])
	}
	if Energy(Bass, s) <= Energy(Treble, s) {
		t.Fatalf("expected bass-heavy tone, bass=%v treble=%v", Energy(Bass, s), Energy(Treble, s))
	}
}

func TestSampleIsStableWithoutNewAudio(t *testing.T) {
	a := NewAnalyzer(256)
	rb := NewRingBuffer(256 * 4)
	a.Connect(rb, 2)
	rb.Write(sinePCM(256, 2, 3000, 44100, 0.5))

	first := a.Sample()
	second := a.Sample()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected identical snapshots without new audio, bin %d: %d vs %d", i, first[i], second[i])
		}
	}

	first[0] = 42
	if third := a.Sample(); third[0] == 42 {
		t.Fatal("expected snapshot to be a copy the caller can modify")
	}
}

func TestDecibelsToByteClamps(t *testing.T) {
	if got := decibelsToByte(0); got != 0 {
		t.Fatalf("expected 0 for zero magnitude, got %d", got)
	}
	if got := decibelsToByte(1); got != 255 {
		t.Fatalf("expected 255 for 0 dB, got %d", got)
	}
	// -65 dB sits halfway between -100 and -30.
	if got := decibelsToByte(math.Pow(10, -65.0/20)); got != 127 {
		t.Fatalf("expected 127 halfway, got %d", got)
	}
}

func TestRingBufferKeepsMostRecentBytes(t *testing.T) {
	rb := NewRingBuffer(4)
	rb.Write([]byte{1, 2, 3})
	rb.Write([]byte{4, 5, 6})

	got, written := rb.Read(10)
	if written != 6 {
		t.Fatalf("expected 6 bytes written, got %d", written)
	}
	want := []byte{3, 4, 5, 6}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	rb.Clear()
	if got, _ := rb.Read(4); got != nil {
		t.Fatalf("expected empty read after clear, got %v", got)
	}
}

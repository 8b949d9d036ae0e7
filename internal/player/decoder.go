package player

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// audioDecoder yields interleaved signed 16-bit little endian PCM.
type audioDecoder interface {
	io.ReadSeeker
	Length() int64
	SampleRate() int
	ChannelCount() int
}

func newDecoder(f *os.File) (audioDecoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// pcmCursor is the output-side bookkeeping shared by the converting decoders:
// a carry-over buffer for partially consumed chunks and the byte position.
type pcmCursor struct {
	buf      []byte
	pos      int64
	total    int64
	channels int
}

// drain copies carried-over bytes into p.
func (c *pcmCursor) drain(p []byte) (int, bool) {
	if len(c.buf) == 0 {
		return 0, false
	}
	n := copy(p, c.buf)
	c.buf = c.buf[n:]
	c.pos += int64(n)
	return n, true
}

// emit copies a freshly converted chunk into p and keeps the rest.
func (c *pcmCursor) emit(p, raw []byte) int {
	n := copy(p, raw)
	if n < len(raw) {
		c.buf = raw[n:]
	}
	c.pos += int64(n)
	return n
}

// target resolves a Seek request into a clamped byte position and the
// sample frame it falls in.
func (c *pcmCursor) target(offset int64, whence int) (int64, int64) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = c.pos + offset
	case io.SeekEnd:
		pos = c.total + offset
	}
	pos = max(0, min(pos, c.total))
	return pos, pos / int64(c.channels*bitDepth)
}

func (c *pcmCursor) moved(pos int64) {
	c.buf = nil
	c.pos = pos
}

func (c *pcmCursor) Length() int64     { return c.total }
func (c *pcmCursor) ChannelCount() int { return c.channels }

func putSample16(dst []byte, sample int) {
	sample = max(-32768, min(sample, 32767))
	binary.LittleEndian.PutUint16(dst, uint16(int16(sample)))
}

// MP3

type mp3Decoder struct {
	dec *mp3.Decoder
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{dec: dec}, nil
}

func (d *mp3Decoder) Read(p []byte) (int, error) { return d.dec.Read(p) }
func (d *mp3Decoder) Seek(offset int64, whence int) (int64, error) {
	return d.dec.Seek(offset, whence)
}
func (d *mp3Decoder) Length() int64     { return d.dec.Length() }
func (d *mp3Decoder) SampleRate() int   { return d.dec.SampleRate() }
func (d *mp3Decoder) ChannelCount() int { return 2 }

// WAV

type wavDecoder struct {
	pcmCursor
	file         *os.File
	pcmStart     int64
	sampleRate   int
	srcBitDepth  int
	srcFrameSize int64
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	depth := int(dec.BitDepth)
	srcFrameSize := int64(channels) * int64(depth) / 8
	if srcFrameSize == 0 {
		return nil, fmt.Errorf("invalid WAV format: %d channels at %d bits", channels, depth)
	}
	frames := dec.PCMLen() / srcFrameSize

	pcmStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("getting PCM start position: %w", err)
	}

	return &wavDecoder{
		pcmCursor:    pcmCursor{total: frames * int64(channels*bitDepth), channels: channels},
		file:         f,
		pcmStart:     pcmStart,
		sampleRate:   int(dec.SampleRate),
		srcBitDepth:  depth,
		srcFrameSize: srcFrameSize,
	}, nil
}

// wavSample widens or narrows one little endian source sample to 16 bits.
func wavSample(src []byte, depth int) int {
	switch depth {
	case 8:
		return (int(src[0]) - 128) << 8
	case 16:
		return int(int16(binary.LittleEndian.Uint16(src)))
	case 24:
		s := int32(src[0]) | int32(src[1])<<8 | int32(src[2])<<16
		if s&0x800000 != 0 {
			s |= ^0xFFFFFF
		}
		return int(s >> 8)
	case 32:
		return int(int32(binary.LittleEndian.Uint32(src)) >> 16)
	}
	return 0
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	width := d.srcBitDepth / 8
	src := make([]byte, max(1, len(p)/bitDepth)*width)
	n, err := io.ReadFull(d.file, src)
	samples := n / width
	if samples == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, samples*bitDepth)
	for i := 0; i < samples; i++ {
		putSample16(raw[i*bitDepth:], wavSample(src[i*width:], d.srcBitDepth))
	}

	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return d.emit(p, raw), err
}

func (d *wavDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, frame := d.target(offset, whence)
	if _, err := d.file.Seek(d.pcmStart+frame*d.srcFrameSize, io.SeekStart); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

func (d *wavDecoder) SampleRate() int { return d.sampleRate }

// FLAC

type flacDecoder struct {
	pcmCursor
	stream     *flac.Stream
	sampleRate int
	bps        int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	return &flacDecoder{
		pcmCursor:  pcmCursor{total: int64(info.NSamples) * int64(channels*bitDepth), channels: channels},
		stream:     stream,
		sampleRate: int(info.SampleRate),
		bps:        int(info.BitsPerSample),
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	nSamples := int(frame.Subframes[0].NSamples)
	raw := make([]byte, nSamples*d.channels*bitDepth)
	for i := 0; i < nSamples; i++ {
		for ch := 0; ch < d.channels; ch++ {
			sample := int(frame.Subframes[ch].Samples[i])
			if d.bps > 16 {
				sample >>= d.bps - 16
			} else if d.bps < 16 {
				sample <<= 16 - d.bps
			}
			putSample16(raw[(i*d.channels+ch)*bitDepth:], sample)
		}
	}
	return d.emit(p, raw), nil
}

func (d *flacDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, frame := d.target(offset, whence)
	if _, err := d.stream.Seek(uint64(frame)); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

func (d *flacDecoder) SampleRate() int { return d.sampleRate }

// Ogg Vorbis

type oggDecoder struct {
	pcmCursor
	reader *oggvorbis.Reader
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}

	channels := reader.Channels()
	return &oggDecoder{
		pcmCursor: pcmCursor{total: reader.Length() * int64(channels*bitDepth), channels: channels},
		reader:    reader,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	samples := make([]float32, max(1, len(p)/bitDepth))
	n, err := d.reader.Read(samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*bitDepth)
	for i, s := range samples[:n] {
		s = max(-1, min(s, 1))
		putSample16(raw[i*bitDepth:], int(s*32767))
	}
	return d.emit(p, raw), err
}

func (d *oggDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, frame := d.target(offset, whence)
	if err := d.reader.SetPosition(frame); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

func (d *oggDecoder) SampleRate() int { return d.reader.SampleRate() }

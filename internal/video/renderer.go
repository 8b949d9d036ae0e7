package video

import (
	"image"
	"image/color"
	"strings"

	"github.com/muesli/termenv"
)

// Renderer converts a raster frame into a terminal string.
// It supports two modes:
//   - Color (half-block): uses "▀" with fg/bg colors to pack 2 pixel rows per terminal row.
//   - ASCII (no color): maps each cell to a brightness character.
//
// Cells are box-averaged over the source pixels they cover, so a surface
// rendered at several pixels per cell keeps thin strokes visible.
type Renderer struct {
	profile termenv.Profile
	sb      strings.Builder
}

// NewRenderer creates a renderer using the current terminal's color capabilities.
func NewRenderer() *Renderer {
	return NewRendererWithProfile(termenv.EnvColorProfile())
}

// NewRendererWithProfile creates a renderer for an explicit color profile.
func NewRendererWithProfile(p termenv.Profile) *Renderer {
	return &Renderer{profile: p}
}

// Color reports whether the renderer emits half-block color cells.
func (r *Renderer) Color() bool { return r.profile != termenv.Ascii }

// Render converts img into outW x outH terminal cells.
func (r *Renderer) Render(img *image.NRGBA, outW, outH int) string {
	if img == nil || outW <= 0 || outH <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return ""
	}

	r.sb.Reset()
	r.sb.Grow(outW * outH * 24)

	if r.Color() {
		r.renderHalfBlock(img, outW, outH)
	} else {
		r.renderASCII(img, outW, outH)
	}
	return r.sb.String()
}

func (r *Renderer) renderHalfBlock(img *image.NRGBA, outW, outH int) {
	pixelRows := outH * 2
	var lastFg, lastBg string

	for row := 0; row < outH; row++ {
		for col := 0; col < outW; col++ {
			top := cellAverage(img, col, row*2, outW, pixelRows)
			bot := cellAverage(img, col, row*2+1, outW, pixelRows)

			fg := colorSeq(r.profile, top, false)
			bg := colorSeq(r.profile, bot, true)
			if fg != lastFg {
				r.sb.WriteString(fg)
				lastFg = fg
			}
			if bg != lastBg {
				r.sb.WriteString(bg)
				lastBg = bg
			}
			r.sb.WriteString("▀")
		}

		r.sb.WriteString(ansiReset)
		lastFg, lastBg = "", ""
		if row < outH-1 {
			r.sb.WriteByte('\n')
		}
	}
}

func (r *Renderer) renderASCII(img *image.NRGBA, outW, outH int) {
	for row := 0; row < outH; row++ {
		for col := 0; col < outW; col++ {
			r.sb.WriteByte(brightnessChar(luminance(cellAverage(img, col, row, outW, outH))))
		}
		if row < outH-1 {
			r.sb.WriteByte('\n')
		}
	}
}

// cellAverage averages the source pixels covered by cell (col, row) of a
// cols x rows grid laid over img.
func cellAverage(img *image.NRGBA, col, row, cols, rows int) color.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	x0, x1 := span(col, cols, w)
	y0, y1 := span(row, rows, h)

	var sr, sg, sb, n int
	for y := y0; y < y1; y++ {
		off := img.PixOffset(b.Min.X+x0, b.Min.Y+y)
		for x := x0; x < x1; x++ {
			sr += int(img.Pix[off])
			sg += int(img.Pix[off+1])
			sb += int(img.Pix[off+2])
			off += 4
			n++
		}
	}
	if n == 0 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n), A: 255}
}

// span returns the half-open pixel range cell i of n covers in size pixels.
// Every cell covers at least one pixel.
func span(i, n, size int) (int, int) {
	lo := i * size / n
	hi := (i + 1) * size / n
	if lo >= size {
		lo = size - 1
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// SurfaceSize returns the pixel size of a surface that fills cols x rows
// terminal cells at scale pixels per cell column. Cells are about twice as
// tall as wide.
func SurfaceSize(cols, rows, scale int) (int, int) {
	if cols <= 0 || rows <= 0 {
		return 0, 0
	}
	if scale < 1 {
		scale = 1
	}
	return cols * scale, rows * 2 * scale
}

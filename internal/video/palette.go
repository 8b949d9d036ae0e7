package video

import (
	"fmt"
	"image/color"

	"github.com/muesli/termenv"
)

// ASCII brightness ramp from darkest to brightest.
const asciiRamp = " .:-=+*#%@"

const ansiReset = termenv.CSI + termenv.ResetSeq + "m"

// brightnessChar maps a 0-255 luminance to an ASCII character.
func brightnessChar(lum uint8) byte {
	idx := int(lum) * (len(asciiRamp) - 1) / 255
	return asciiRamp[idx]
}

// luminance computes perceived brightness (ITU-R BT.601).
func luminance(c color.NRGBA) uint8 {
	return uint8((299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000)
}

// colorSeq returns the escape selecting c as foreground or background,
// degraded to what profile supports. Empty when colors are off.
func colorSeq(profile termenv.Profile, c color.NRGBA, bg bool) string {
	if profile == termenv.Ascii {
		return ""
	}
	tc := profile.Convert(termenv.RGBColor(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)))
	seq := tc.Sequence(bg)
	if seq == "" {
		return ""
	}
	return termenv.CSI + seq + "m"
}

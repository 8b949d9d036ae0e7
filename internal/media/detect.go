package media

import (
	"path/filepath"
	"strings"
)

// audioExts lists the formats the player can decode, in display order.
var audioExts = []string{".mp3", ".wav", ".flac", ".ogg"}

// IsSupportedExt returns true if the extension is a playable audio format.
func IsSupportedExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range audioExts {
		if e == ext {
			return true
		}
	}
	return false
}

// IsSupportedPath reports whether path names a playable audio file.
func IsSupportedPath(path string) bool {
	return IsSupportedExt(filepath.Ext(path))
}

// SupportedExtsList returns a human-readable list of playable audio formats.
func SupportedExtsList() string {
	return strings.Join(audioExts, ", ")
}

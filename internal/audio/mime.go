package audio

import (
	"strconv"
	"strings"
)

const (
	DefaultBitsPerSample = 16
	DefaultSampleRate    = 24000
)

// ParseMimeParams extracts bit depth and sample rate from an audio MIME type
// such as "audio/L16;codec=pcm;rate=24000". Parsing is best-effort: malformed
// or missing parameters keep the defaults (16-bit, 24000 Hz). Same input
// always yields the same pair; this never fails.
func ParseMimeParams(mimeType string) (bitsPerSample, rate int) {
	bitsPerSample = DefaultBitsPerSample
	rate = DefaultSampleRate

	for _, param := range strings.Split(mimeType, ";") {
		param = strings.TrimSpace(param)
		lower := strings.ToLower(param)

		if strings.HasPrefix(lower, "rate=") {
			if v, err := strconv.Atoi(lower[len("rate="):]); err == nil {
				rate = v
			}
			continue
		}

		// Subtype-embedded bit depth, e.g. "audio/L24".
		if idx := strings.Index(lower, "audio/l"); idx >= 0 {
			if v, err := strconv.Atoi(lower[idx+len("audio/l"):]); err == nil {
				bitsPerSample = v
			}
		}
	}

	return bitsPerSample, rate
}

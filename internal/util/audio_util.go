package util

import "strings"

// ExtForAudioMime maps an audio MIME type to a filename extension. MIME
// parameters after ";" are ignored. Unknown types get ".wav" since unknown
// payloads are wrapped in a WAV container upstream.
func ExtForAudioMime(mimeType string) string {
	base := mimeType
	if idx := strings.Index(base, ";"); idx >= 0 {
		base = base[:idx]
	}
	switch strings.ToLower(strings.TrimSpace(base)) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	case "audio/aac":
		return ".aac"
	case "audio/flac":
		return ".flac"
	case "audio/opus":
		return ".opus"
	default:
		return ".wav"
	}
}

// TokenCount reports the number of whitespace-separated tokens in s.
func TokenCount(s string) int {
	return len(strings.Fields(s))
}

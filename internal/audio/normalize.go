package audio

import (
	"errors"
	"iter"
	"strings"

	"google.golang.org/genai"
)

// ErrNoAudio is returned when the response stream finishes without any
// inline audio payload. Callers surface this as "no audio generated"
// rather than a transport failure.
var ErrNoAudio = errors.New("no audio data in response stream")

// Result is the normalized output of a synthesis stream: bytes that form a
// self-describing audio container.
type Result struct {
	Data        []byte
	MimeType    string
	Synthesized bool // true when a WAV header was synthesized around raw PCM
}

// Normalize consumes a streamed generate-content response and produces one
// playable audio buffer.
//
// Only the first audio-bearing chunk is used; once an inline payload is
// found, the rest of the stream is not consumed. Multi-chunk concatenation
// is deliberately unsupported. Chunks without an inline payload (including
// text-only chunks) are skipped.
//
// If the payload's MIME type already names a wav container it is passed
// through byte-for-byte; otherwise a WAV header is synthesized from the
// MIME parameters.
func Normalize(stream iter.Seq2[*genai.GenerateContentResponse, error]) (*Result, error) {
	for chunk, err := range stream {
		if err != nil {
			return nil, err
		}
		blob := inlineAudio(chunk)
		if blob == nil {
			continue
		}

		if strings.Contains(strings.ToLower(blob.MIMEType), "wav") {
			return &Result{Data: blob.Data, MimeType: blob.MIMEType}, nil
		}

		bits, rate := ParseMimeParams(blob.MIMEType)
		return &Result{
			Data:        PCMToWAV(blob.Data, bits, rate),
			MimeType:    "audio/wav",
			Synthesized: true,
		}, nil
	}

	return nil, ErrNoAudio
}

func inlineAudio(chunk *genai.GenerateContentResponse) *genai.Blob {
	if chunk == nil || len(chunk.Candidates) == 0 {
		return nil
	}
	content := chunk.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return nil
	}
	part := content.Parts[0]
	if part.InlineData == nil || len(part.InlineData.Data) == 0 {
		return nil
	}
	return part.InlineData
}

package speech

import (
	"errors"
	"strings"
)

type SynthesisInput struct {
	Text                   string `json:"text"`
	Voice                  string `json:"voice"`
	AdditionalInstructions string `json:"additionalInstructions"`
}

// VoiceProfile maps a requested voice to a prebuilt Gemini voice and the
// tone instruction prepended to the spoken text. The table is fixed at
// compile time and never mutated.
type VoiceProfile struct {
	Key             string
	VoiceName       string
	ToneInstruction string
}

var voiceProfiles = map[string]VoiceProfile{
	"male": {
		Key:             "male",
		VoiceName:       "Enceladus",
		ToneInstruction: "Speak with a deep African male voice, speak as if you are Zambian, like a lecturer who wants the students to understand.",
	},
	"female": {
		Key:             "female",
		VoiceName:       "Aoede",
		ToneInstruction: "Speak with a clear, natural female voice, speak as if you are Zambian, like a lecturer who wants the students to understand, and add weight to the voice.",
	},
}

// ProfileFor selects the voice profile for a request. Matching is
// case-insensitive; anything unrecognized (including absence) gets the male
// profile.
func ProfileFor(voice string) VoiceProfile {
	if p, ok := voiceProfiles[strings.ToLower(strings.TrimSpace(voice))]; ok {
		return p
	}
	return voiceProfiles["male"]
}

// Artifact is one completed synthesis: playable bytes plus the
// timestamp-derived filename they were persisted under.
type Artifact struct {
	Filename    string
	Path        string
	MimeType    string
	Data        []byte
	Synthesized bool
}

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrQuotaExhausted = errors.New("api credentials exhausted")
)

const (
	DefaultTTSModel = "gemini-2.5-flash-preview-tts"

	maxInstructionTokens = 15
	ttsTemperature       = 1
)

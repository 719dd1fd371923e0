package speech

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"net/http"
	"strings"
	"time"

	"speech-forge-api/internal/artifact"
	"speech-forge-api/internal/audio"
	"speech-forge-api/internal/logs"
	"speech-forge-api/internal/util"

	"google.golang.org/genai"
)

// Test hooks
var (
	genaiGenerateStreamHook = func(client *genai.Client, ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
		return client.Models.GenerateContentStream(ctx, model, contents, config)
	}
	nowHook = time.Now
)

type SpeechService struct {
	Resolver SessionResolver
	Store    *artifact.Store
	Logs     *logs.LogService
	Model    string
}

// Synthesize turns one text request into a persisted, playable audio
// artifact. Each call resolves its own session and consumes its own response
// stream; the service keeps no per-request state.
func (ss *SpeechService) Synthesize(ctx context.Context, input SynthesisInput) (*Artifact, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}

	instruction := strings.TrimSpace(input.AdditionalInstructions)
	if util.TokenCount(instruction) > maxInstructionTokens {
		return nil, fmt.Errorf("%w: additional instructions must not exceed %d words", ErrInvalidInput, maxInstructionTokens)
	}

	profile := ProfileFor(input.Voice)
	started := nowHook()

	client, err := ss.Resolver.Resolve(ctx)
	if err != nil {
		return nil, ss.fail(profile, started, fmt.Errorf("%w: %v", ErrQuotaExhausted, err))
	}

	res, err := ss.generate(ctx, client, profile, text, instruction)
	if err != nil && isQuotaError(err) {
		// One-shot substitution: a quota failure on the synthesis call itself
		// gets one retry on the fallback key, then propagates.
		log.Printf("synthesis hit quota on primary credential, retrying on fallback: %v", err)
		fallback, ferr := ss.Resolver.Fallback(ctx)
		if ferr != nil {
			return nil, ss.fail(profile, started, fmt.Errorf("%w: %v", ErrQuotaExhausted, ferr))
		}
		res, err = ss.generate(ctx, fallback, profile, text, instruction)
		if err != nil && isQuotaError(err) {
			err = fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		}
	}
	if err != nil {
		if errors.Is(err, audio.ErrNoAudio) || errors.Is(err, ErrQuotaExhausted) {
			return nil, ss.fail(profile, started, err)
		}
		return nil, ss.fail(profile, started, fmt.Errorf("generation error: %w", err))
	}

	ext := ".wav"
	if !res.Synthesized {
		ext = util.ExtForAudioMime(res.MimeType)
	}
	filename := fmt.Sprintf("speech_%s_%d%s", profile.Key, nowHook().Unix(), ext)

	path, err := ss.Store.Save(filename, res.Data)
	if err != nil {
		return nil, ss.fail(profile, started, err)
	}
	ss.housekeep(ctx, filename, res)

	ss.record(logs.SynthesisLog{
		Voice:       profile.Key,
		Model:       ss.model(),
		Status:      logs.StatusSuccess,
		Filename:    &filename,
		MimeType:    &res.MimeType,
		Synthesized: res.Synthesized,
		SizeBytes:   int64(len(res.Data)),
		DurationMS:  nowHook().Sub(started).Milliseconds(),
	}, map[string]any{"voice_name": profile.VoiceName})

	return &Artifact{
		Filename:    filename,
		Path:        path,
		MimeType:    res.MimeType,
		Data:        res.Data,
		Synthesized: res.Synthesized,
	}, nil
}

func (ss *SpeechService) generate(ctx context.Context, client *genai.Client, profile VoiceProfile, text, instruction string) (*audio.Result, error) {
	prompt := profile.ToneInstruction
	if instruction != "" {
		prompt += " " + instruction
	}
	prompt += "\n" + text

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	config := &genai.GenerateContentConfig{
		Temperature:        genai.Ptr[float32](ttsTemperature),
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: profile.VoiceName},
			},
		},
	}

	return audio.Normalize(genaiGenerateStreamHook(client, ctx, ss.model(), contents, config))
}

// housekeep runs the request-time retention sweep and the optional GCS
// mirror. Neither failure blocks the response; the artifact is already on
// disk.
func (ss *SpeechService) housekeep(ctx context.Context, filename string, res *audio.Result) {
	if _, err := ss.Store.Sweep(artifact.RetentionHorizon); err != nil {
		log.Printf("artifact sweep failed: %v", err)
	}
	if ss.Store.Bucket == "" {
		return
	}
	if _, err := ss.Store.Mirror(ctx, filename, res.Data, res.MimeType); err != nil {
		log.Printf("artifact mirror to gs://%s failed: %v", ss.Store.Bucket, err)
	}
	if _, err := ss.Store.SweepBucket(ctx, artifact.RetentionHorizon); err != nil {
		log.Printf("bucket sweep failed: %v", err)
	}
}

func (ss *SpeechService) fail(profile VoiceProfile, started time.Time, err error) error {
	msg := err.Error()
	ss.record(logs.SynthesisLog{
		Voice:      profile.Key,
		Model:      ss.model(),
		Status:     logs.StatusError,
		Error:      &msg,
		DurationMS: nowHook().Sub(started).Milliseconds(),
	}, nil)
	return err
}

func (ss *SpeechService) record(entry logs.SynthesisLog, metadata interface{}) {
	if ss.Logs == nil {
		return
	}
	if err := ss.Logs.Record(entry, metadata); err != nil {
		log.Printf("failed to record synthesis log: %v", err)
	}
}

func (ss *SpeechService) model() string {
	if ss.Model != "" {
		return ss.Model
	}
	return DefaultTTSModel
}

func isQuotaError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToUpper(err.Error())
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "QUOTA")
}

package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"iter"
	"os"
	"strings"
	"testing"
	"time"

	"speech-forge-api/internal/artifact"
	"speech-forge-api/internal/audio"

	"google.golang.org/genai"
)

type stubResolver struct {
	resolveClient  *genai.Client
	fallbackClient *genai.Client
	resolveErr     error
	fallbackErr    error
	resolveCalls   int
	fallbackCalls  int
}

func (s *stubResolver) Resolve(context.Context) (*genai.Client, error) {
	s.resolveCalls++
	return s.resolveClient, s.resolveErr
}

func (s *stubResolver) Fallback(context.Context) (*genai.Client, error) {
	s.fallbackCalls++
	return s.fallbackClient, s.fallbackErr
}

func chunkFromJSON(t *testing.T, raw string) *genai.GenerateContentResponse {
	t.Helper()
	var out genai.GenerateContentResponse
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("unmarshal chunk: %v", err)
	}
	return &out
}

func audioChunk(t *testing.T, mimeType string, data []byte) *genai.GenerateContentResponse {
	t.Helper()
	b64 := base64.StdEncoding.EncodeToString(data)
	return chunkFromJSON(t, `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"`+mimeType+`","data":"`+b64+`"}}]}}]}`)
}

func okStream(chunks ...*genai.GenerateContentResponse) iter.Seq2[*genai.GenerateContentResponse, error] {
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
	}
}

func errStream(err error) iter.Seq2[*genai.GenerateContentResponse, error] {
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		yield(nil, err)
	}
}

func fixedNow(t *testing.T, unix int64) {
	t.Helper()
	old := nowHook
	nowHook = func() time.Time { return time.Unix(unix, 0) }
	t.Cleanup(func() { nowHook = old })
}

func newTestService(t *testing.T, resolver *stubResolver) *SpeechService {
	t.Helper()
	return &SpeechService{
		Resolver: resolver,
		Store:    &artifact.Store{Dir: t.TempDir()},
	}
}

func TestSynthesize_EmptyText_InvalidInput(t *testing.T) {
	resolver := &stubResolver{}
	ss := newTestService(t, resolver)

	_, err := ss.Synthesize(context.Background(), SynthesisInput{Text: "   "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if resolver.resolveCalls != 0 {
		t.Fatal("resolver must not run for invalid input")
	}
}

func TestSynthesize_InstructionTokenBound(t *testing.T) {
	fifteen := strings.Repeat("slow ", 15)
	sixteen := strings.Repeat("slow ", 16)

	t.Run("16 tokens rejected", func(t *testing.T) {
		ss := newTestService(t, &stubResolver{})
		_, err := ss.Synthesize(context.Background(), SynthesisInput{
			Text:                   "hello",
			AdditionalInstructions: sixteen,
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("15 tokens accepted", func(t *testing.T) {
		resolver := &stubResolver{resolveClient: &genai.Client{}}
		ss := newTestService(t, resolver)

		old := genaiGenerateStreamHook
		var gotPrompt string
		genaiGenerateStreamHook = func(_ *genai.Client, _ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
			gotPrompt = contents[0].Parts[0].Text
			return okStream(audioChunk(t, "audio/L16;rate=24000", []byte{0x01}))
		}
		t.Cleanup(func() { genaiGenerateStreamHook = old })

		if _, err := ss.Synthesize(context.Background(), SynthesisInput{
			Text:                   "hello",
			AdditionalInstructions: fifteen,
		}); err != nil {
			t.Fatalf("expected 15-token instruction accepted, got %v", err)
		}
		if !strings.Contains(gotPrompt, "slow slow") {
			t.Fatalf("prompt missing instruction: %q", gotPrompt)
		}
	})
}

func TestSynthesize_Success_SynthesizedWav(t *testing.T) {
	fixedNow(t, 1700000000)

	resolver := &stubResolver{resolveClient: &genai.Client{}}
	ss := newTestService(t, resolver)

	pcm := []byte{0x01, 0x02, 0x03, 0x04}

	old := genaiGenerateStreamHook
	var gotModel, gotPrompt, gotVoice string
	genaiGenerateStreamHook = func(_ *genai.Client, _ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
		gotModel = model
		gotPrompt = contents[0].Parts[0].Text
		gotVoice = config.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName
		return okStream(audioChunk(t, "audio/L16;rate=24000", pcm))
	}
	t.Cleanup(func() { genaiGenerateStreamHook = old })

	art, err := ss.Synthesize(context.Background(), SynthesisInput{Text: "hello class"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if art.Filename != "speech_male_1700000000.wav" {
		t.Fatalf("filename = %q", art.Filename)
	}
	if art.MimeType != "audio/wav" || !art.Synthesized {
		t.Fatalf("expected synthesized audio/wav, got %q synthesized=%v", art.MimeType, art.Synthesized)
	}
	if string(art.Data[:4]) != "RIFF" || !bytes.Equal(art.Data[44:], pcm) {
		t.Fatalf("bad artifact bytes: %v", art.Data)
	}

	onDisk, err := os.ReadFile(art.Path)
	if err != nil {
		t.Fatalf("artifact not persisted: %v", err)
	}
	if !bytes.Equal(onDisk, art.Data) {
		t.Fatal("persisted bytes differ from returned bytes")
	}

	if gotModel != DefaultTTSModel {
		t.Fatalf("model = %q, want %q", gotModel, DefaultTTSModel)
	}
	if gotVoice != "Enceladus" {
		t.Fatalf("voice = %q, want Enceladus", gotVoice)
	}
	wantPrompt := ProfileFor("male").ToneInstruction + "\nhello class"
	if gotPrompt != wantPrompt {
		t.Fatalf("prompt = %q, want %q", gotPrompt, wantPrompt)
	}
}

func TestSynthesize_FemaleVoice_CaseInsensitive(t *testing.T) {
	fixedNow(t, 1700000001)

	resolver := &stubResolver{resolveClient: &genai.Client{}}
	ss := newTestService(t, resolver)

	old := genaiGenerateStreamHook
	var gotVoice string
	genaiGenerateStreamHook = func(_ *genai.Client, _ context.Context, _ string, _ []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
		gotVoice = config.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName
		return okStream(audioChunk(t, "audio/L16", []byte{0x01}))
	}
	t.Cleanup(func() { genaiGenerateStreamHook = old })

	art, err := ss.Synthesize(context.Background(), SynthesisInput{Text: "hi", Voice: "FEMALE"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if art.Filename != "speech_female_1700000001.wav" {
		t.Fatalf("filename = %q", art.Filename)
	}
	if gotVoice != "Aoede" {
		t.Fatalf("voice = %q, want Aoede", gotVoice)
	}
}

func TestSynthesize_WavPassthrough_ByteForByte(t *testing.T) {
	fixedNow(t, 1700000002)

	resolver := &stubResolver{resolveClient: &genai.Client{}}
	ss := newTestService(t, resolver)

	payload := []byte("pretend-this-is-a-wav")

	old := genaiGenerateStreamHook
	genaiGenerateStreamHook = func(_ *genai.Client, _ context.Context, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
		return okStream(audioChunk(t, "audio/wav", payload))
	}
	t.Cleanup(func() { genaiGenerateStreamHook = old })

	art, err := ss.Synthesize(context.Background(), SynthesisInput{Text: "hi"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if art.Synthesized {
		t.Fatal("expected passthrough")
	}
	if !bytes.Equal(art.Data, payload) {
		t.Fatalf("payload modified: %q", art.Data)
	}
	if !strings.HasSuffix(art.Filename, ".wav") {
		t.Fatalf("filename = %q, want .wav suffix", art.Filename)
	}
}

func TestSynthesize_NoAudio(t *testing.T) {
	resolver := &stubResolver{resolveClient: &genai.Client{}}
	ss := newTestService(t, resolver)

	old := genaiGenerateStreamHook
	genaiGenerateStreamHook = func(_ *genai.Client, _ context.Context, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
		return okStream(chunkFromJSON(t, `{"candidates":[{"content":{"parts":[{"text":"cannot comply"}]}}]}`))
	}
	t.Cleanup(func() { genaiGenerateStreamHook = old })

	_, err := ss.Synthesize(context.Background(), SynthesisInput{Text: "hi"})
	if !errors.Is(err, audio.ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
}

func TestSynthesize_ResolverFailure_QuotaExhausted(t *testing.T) {
	resolver := &stubResolver{resolveErr: errors.New("fallback credential failed: invalid key")}
	ss := newTestService(t, resolver)

	_, err := ss.Synthesize(context.Background(), SynthesisInput{Text: "hi"})
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted, got %v", err)
	}
}

func TestSynthesize_QuotaOnPrimary_RetriesOnFallback(t *testing.T) {
	fixedNow(t, 1700000003)

	primary := &genai.Client{}
	secondary := &genai.Client{}
	resolver := &stubResolver{resolveClient: primary, fallbackClient: secondary}
	ss := newTestService(t, resolver)

	pcm := []byte{0x0A, 0x0B}

	old := genaiGenerateStreamHook
	genaiGenerateStreamHook = func(client *genai.Client, _ context.Context, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
		if client == primary {
			return errStream(errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED"))
		}
		return okStream(audioChunk(t, "audio/L16;rate=24000", pcm))
	}
	t.Cleanup(func() { genaiGenerateStreamHook = old })

	art, err := ss.Synthesize(context.Background(), SynthesisInput{Text: "hi"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resolver.fallbackCalls != 1 {
		t.Fatalf("fallback calls = %d, want 1", resolver.fallbackCalls)
	}
	if !bytes.Equal(art.Data[44:], pcm) {
		t.Fatalf("expected fallback stream's audio, got %v", art.Data)
	}
}

func TestSynthesize_QuotaOnBothCredentials(t *testing.T) {
	resolver := &stubResolver{resolveClient: &genai.Client{}, fallbackClient: &genai.Client{}}
	ss := newTestService(t, resolver)

	old := genaiGenerateStreamHook
	genaiGenerateStreamHook = func(_ *genai.Client, _ context.Context, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
		return errStream(errors.New("quota exceeded for quota metric"))
	}
	t.Cleanup(func() { genaiGenerateStreamHook = old })

	_, err := ss.Synthesize(context.Background(), SynthesisInput{Text: "hi"})
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted, got %v", err)
	}
	if resolver.fallbackCalls != 1 {
		t.Fatalf("fallback calls = %d, want exactly 1 (no retry loop)", resolver.fallbackCalls)
	}
}

func TestSynthesize_UpstreamError(t *testing.T) {
	resolver := &stubResolver{resolveClient: &genai.Client{}}
	ss := newTestService(t, resolver)

	old := genaiGenerateStreamHook
	genaiGenerateStreamHook = func(_ *genai.Client, _ context.Context, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
		return errStream(errors.New("connection reset by peer"))
	}
	t.Cleanup(func() { genaiGenerateStreamHook = old })

	_, err := ss.Synthesize(context.Background(), SynthesisInput{Text: "hi"})
	if err == nil || !strings.Contains(err.Error(), "generation error") {
		t.Fatalf("expected generation error, got %v", err)
	}
	if errors.Is(err, ErrQuotaExhausted) {
		t.Fatal("network error must not classify as quota exhaustion")
	}
	if resolver.fallbackCalls != 0 {
		t.Fatal("non-quota errors must not trigger the fallback credential")
	}
}

// Package voice wraps the speech-synthesis collaborator. The core only
// knows a message's role; the wrapper maps it to a voice profile.
package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shareholder-qa-sim/internal/model"
)

// ErrNotConfigured means the speech capability is absent; callers map it
// to a 503, never to a hard failure.
var ErrNotConfigured = errors.New("speech synthesis not configured")

// Synthesizer converts dialogue text to audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, role model.Role) ([]byte, error)
	Available() bool
}

const outputFormat = "audio-16khz-128kbitrate-mono-mp3"

// Different Japanese neural voices keep the two sides of the dialogue
// audibly distinct.
var roleVoices = map[model.Role]string{
	model.RoleQuestioner: "ja-JP-KeitaNeural",
	model.RoleResponder:  "ja-JP-NanamiNeural",
}

// AzureSynthesizer talks to the Azure Speech REST endpoint.
type AzureSynthesizer struct {
	key    string
	region string
	client *http.Client
}

func NewAzureSynthesizer(key, region string) *AzureSynthesizer {
	return &AzureSynthesizer{
		key:    key,
		region: region,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *AzureSynthesizer) Available() bool {
	return s.key != "" && s.region != ""
}

func (s *AzureSynthesizer) Synthesize(ctx context.Context, text string, role model.Role) ([]byte, error) {
	if !s.Available() {
		return nil, ErrNotConfigured
	}

	voiceName, ok := roleVoices[role]
	if !ok {
		voiceName = roleVoices[model.RoleResponder]
	}

	ssml := fmt.Sprintf(
		`<speak version='1.0' xml:lang='ja-JP'><voice xml:lang='ja-JP' name='%s'>%s</voice></speak>`,
		voiceName, escapeSSML(text))

	url := fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", s.region)
	req, err := http.NewRequestWithContext(ctx, "POST", url, strings.NewReader(ssml))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", outputFormat)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("speech synthesis failed: status %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

func escapeSSML(text string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"'", "&apos;",
		`"`, "&quot;",
	)
	return replacer.Replace(text)
}

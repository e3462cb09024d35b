package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pashonic/globecast/media"
	"github.com/pashonic/globecast/providers"
)

const (
	DefaultMaxChars = 1000
	DefaultMinBytes = 2048
)

var (
	ErrVoiceSynthesis      = errors.New("voice synthesis failed")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrOutputTooSmall      = errors.New("synthesized audio is implausibly small")
)

// SynthesisError is fatal to a job: every downstream track depends on the
// narration duration.
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("%v: %v", ErrVoiceSynthesis, e.Err)
}

func (e *SynthesisError) Unwrap() []error {
	return []error{ErrVoiceSynthesis, e.Err}
}

type Language struct {
	Code          string
	Name          string
	TranslateCode string
	CloudCode     string
}

var Languages = []Language{
	{Code: "en", Name: "Anglais", TranslateCode: "en", CloudCode: "en-US"},
	{Code: "fr", Name: "Français", TranslateCode: "fr", CloudCode: "fr-FR"},
	{Code: "es", Name: "Espagnol", TranslateCode: "es", CloudCode: "es-ES"},
	{Code: "zh", Name: "Chinois Mandarin", TranslateCode: "zh-CN", CloudCode: "cmn-CN"},
	{Code: "hi", Name: "Hindi", TranslateCode: "hi", CloudCode: "hi-IN"},
}

func LookupLanguage(code string) (Language, bool) {
	for _, language := range Languages {
		if language.Code == code {
			return language, true
		}
	}
	return Language{}, false
}

// Backend is the text-to-speech engine: text in, encoded mp3 bytes out.
type Backend interface {
	Synthesize(ctx context.Context, text string, language Language) ([]byte, error)
}

type Sink interface {
	WriteFile(data []byte, ext string) (string, error)
}

type Synthesizer struct {
	Backend  Backend
	MaxChars int
	MinBytes int
}

func NewSynthesizer(backend Backend) *Synthesizer {
	return &Synthesizer{
		Backend:  backend,
		MaxChars: DefaultMaxChars,
		MinBytes: DefaultMinBytes,
	}
}

// Synthesize renders the narration into a new audio file. All failures are
// returned as *SynthesisError.
func (s *Synthesizer) Synthesize(ctx context.Context, text, languageCode string, sink Sink) (media.Asset, error) {
	language, ok := LookupLanguage(languageCode)
	if !ok {
		return media.Asset{}, &SynthesisError{Err: fmt.Errorf("%w: %q", ErrUnsupportedLanguage, languageCode)}
	}
	text = strings.TrimSpace(providers.Truncate(text, s.MaxChars))
	if text == "" {
		return media.Asset{}, &SynthesisError{Err: errors.New("empty script")}
	}

	audio, err := s.Backend.Synthesize(ctx, text, language)
	if err != nil {
		return media.Asset{}, &SynthesisError{Err: err}
	}
	if len(audio) < s.MinBytes {
		return media.Asset{}, &SynthesisError{Err: fmt.Errorf("%w: %d bytes", ErrOutputTooSmall, len(audio))}
	}

	path, err := sink.WriteFile(audio, ".mp3")
	if err != nil {
		return media.Asset{}, &SynthesisError{Err: err}
	}
	return media.Asset{Path: path, Kind: media.KindAudio}, nil
}

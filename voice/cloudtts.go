package voice

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/texttospeech/v1"
)

const cloud_tts_timeout = 12 * time.Second

// CloudTTS speaks through the Google Cloud Text-to-Speech API.
type CloudTTS struct {
	service *texttospeech.Service
	Timeout time.Duration
}

func NewCloudTTS(ctx context.Context, opts ...option.ClientOption) (*CloudTTS, error) {
	service, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech service: %w", err)
	}
	return &CloudTTS{service: service, Timeout: cloud_tts_timeout}, nil
}

func (c *CloudTTS) Synthesize(ctx context.Context, text string, language Language) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	request := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: language.CloudCode,
		},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding: "MP3",
		},
	}
	response, err := c.service.Text.Synthesize(request).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("text-to-speech request failed: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(response.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("invalid audio content: %w", err)
	}
	return audio, nil
}

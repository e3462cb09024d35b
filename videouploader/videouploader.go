package videouploader

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	default_client_secret_file = "client_secret.json"
	default_client_token_file  = "client_token.json"
	default_privacy            = "private"
	default_category_id        = "22"
	max_title_length           = 100
	max_description_length     = 5000
	link_prefix                = "https://youtu.be/"
)

type Settings struct {
	Enabled          bool     `toml:"enabled"`
	ClientSecretFile string   `toml:"client_secret_file"`
	ClientTokenFile  string   `toml:"client_token_file"`
	Privacy          string   `toml:"privacy"`
	Tags             []string `toml:"tags"`
	CategoryId       string   `toml:"category_id"`
}

// Uploader publishes finished videos to a YouTube channel.
type Uploader struct {
	Settings Settings
	Service  *youtube.Service
}

func getTokenFromFile(tokenFilePath string) (*oauth2.Token, error) {
	file, err := os.Open(tokenFilePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	token := &oauth2.Token{}
	if err := json.NewDecoder(file).Decode(token); err != nil {
		return nil, err
	}
	return token, nil
}

// New builds an uploader from the OAuth client secret and the token minted
// by youtube-token-generator.
func New(ctx context.Context, settings Settings) (*Uploader, error) {
	if settings.ClientSecretFile == "" {
		settings.ClientSecretFile = default_client_secret_file
	}
	if settings.ClientTokenFile == "" {
		settings.ClientTokenFile = default_client_token_file
	}

	// Get config using google client config secret file
	byteData, err := os.ReadFile(settings.ClientSecretFile)
	if err != nil {
		return nil, err
	}
	config, err := google.ConfigFromJSON(byteData, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, err
	}

	token, err := getTokenFromFile(settings.ClientTokenFile)
	if err != nil {
		return nil, err
	}

	service, err := youtube.NewService(ctx, option.WithTokenSource(config.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}
	return NewWithService(service, settings), nil
}

func NewWithService(service *youtube.Service, settings Settings) *Uploader {
	if settings.Privacy == "" {
		settings.Privacy = default_privacy
	}
	if settings.CategoryId == "" {
		settings.CategoryId = default_category_id
	}
	return &Uploader{Settings: settings, Service: service}
}

// Publish uploads the file and returns its short link.
func (u *Uploader) Publish(ctx context.Context, path, title, description string) (string, error) {
	upload := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       truncate(title, max_title_length),
			Description: truncate(description, max_description_length),
			CategoryId:  u.Settings.CategoryId,
			Tags:        u.Settings.Tags,
		},
		Status: &youtube.VideoStatus{PrivacyStatus: u.Settings.Privacy},
	}
	call := u.Service.Videos.Insert([]string{"snippet", "status"}, upload)

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	response, err := call.Media(file).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("youtube upload: %w", err)
	}
	log.Printf("Upload successful! Video ID: %v\n", response.Id)
	return link_prefix + response.Id, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

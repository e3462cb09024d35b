package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pashonic/globecast/api"
	"github.com/pashonic/globecast/media"
	"github.com/pashonic/globecast/pipeline"
	"github.com/pashonic/globecast/providers/music"
	"github.com/pashonic/globecast/providers/pexels"
	"github.com/pashonic/globecast/providers/unsplash"
	"github.com/pashonic/globecast/providers/wikipedia"
	"github.com/pashonic/globecast/utils/restclient"
	"github.com/pashonic/globecast/utils/sendsns"
	"github.com/pashonic/globecast/videobuilder"
	"github.com/pashonic/globecast/videouploader"
	"github.com/pashonic/globecast/voice"
	"google.golang.org/api/option"
)

const (
	default_config_file     = "config.toml"
	default_addr            = ":8080"
	default_http_timeout    = 30 * time.Second
	shutdown_timeout        = 10 * time.Second
	env_pexels_api_key      = "PEXELS_API_KEY"
	env_google_tts_api_key  = "GOOGLE_TTS_API_KEY"
	env_sns_arn             = "YOUTUBE_UPLOAD_ALERT_SNS_ARN"
	voice_backend_cloud     = "cloud"
	voice_backend_translate = "translate"
)

type config struct {
	Pipeline pipeline.Config
	Youtube  videouploader.Settings

	Server struct {
		Addr string `toml:"addr"`
	}
	Media struct {
		FFmpeg  string `toml:"ffmpeg"`
		FFprobe string `toml:"ffprobe"`
		Font    string `toml:"font"`
	}
	Providers struct {
		Pexels struct {
			ApiKey string `toml:"api_key"`
		}
		Music struct {
			TrackURL string `toml:"track_url"`
		}
	}
	Voice struct {
		Backend string `toml:"backend"`
		ApiKey  string `toml:"api_key"`
	}
	Alerts struct {
		SnsArn string `toml:"sns_arn"`
	}
}

func loadConfig(configFile string) (config, error) {
	conf := config{Pipeline: pipeline.DefaultConfig()}
	if _, err := toml.DecodeFile(configFile, &conf); err != nil {
		return conf, err
	}
	if conf.Server.Addr == "" {
		conf.Server.Addr = default_addr
	}
	if conf.Providers.Pexels.ApiKey == "" {
		conf.Providers.Pexels.ApiKey = os.Getenv(env_pexels_api_key)
	}
	if conf.Voice.ApiKey == "" {
		conf.Voice.ApiKey = os.Getenv(env_google_tts_api_key)
	}
	if conf.Alerts.SnsArn == "" {
		conf.Alerts.SnsArn = os.Getenv(env_sns_arn)
	}
	return conf, conf.Pipeline.Validate()
}

func newVoiceBackend(ctx context.Context, conf config, client restclient.HTTPClient) (voice.Backend, error) {
	backend := conf.Voice.Backend
	if backend == "" {
		backend = voice_backend_translate
		if conf.Voice.ApiKey != "" {
			backend = voice_backend_cloud
		}
	}
	switch backend {
	case voice_backend_cloud:
		if conf.Voice.ApiKey != "" {
			return voice.NewCloudTTS(ctx, option.WithAPIKey(conf.Voice.ApiKey))
		}
		return voice.NewCloudTTS(ctx)
	case voice_backend_translate:
		return voice.NewGoogleTranslate(client), nil
	}
	return nil, errors.New("unknown voice backend " + backend)
}

func newOrchestrator(ctx context.Context, conf config) (*pipeline.Orchestrator, error) {
	client := restclient.New(default_http_timeout)
	binary := media.NewBinary(conf.Media.FFmpeg, conf.Media.FFprobe)

	backend, err := newVoiceBackend(ctx, conf, client)
	if err != nil {
		return nil, err
	}
	synthesizer := voice.NewSynthesizer(backend)
	synthesizer.MaxChars = conf.Pipeline.TTSChars
	synthesizer.MinBytes = conf.Pipeline.MinVoiceBytes

	normalizer := voice.NewNormalizer(conf.Pipeline.VolumeBoost, binary)
	normalizer.MinBytes = conf.Pipeline.MinBoostBytes

	orchestrator := &pipeline.Orchestrator{
		Config:   conf.Pipeline,
		Excerpts: wikipedia.New(client),
		Images:   unsplash.New(client),
		Music:    music.New(client, conf.Providers.Music.TrackURL),
		Voice:    synthesizer,
		Loudness: normalizer,
		Prober:   binary,
		Captions: videobuilder.NewCaptionBuilder(conf.Pipeline.CaptionRenderer, conf.Media.Font),
		Encoder:  videobuilder.NewEncoder(binary),
		Notifier: sendsns.New(conf.Alerts.SnsArn),
	}
	if conf.Pipeline.AssetSource == pipeline.AssetSourceImageVideo {
		orchestrator.Videos = pexels.New(client, conf.Providers.Pexels.ApiKey)
	}
	if conf.Youtube.Enabled {
		uploader, err := videouploader.New(ctx, conf.Youtube)
		if err != nil {
			return nil, err
		}
		orchestrator.Publisher = uploader
	}
	return orchestrator, nil
}

func main() {

	// Check for config file path
	var configFile string
	if len(os.Args) == 2 {
		configFile = os.Args[1]
	} else {
		configFile = default_config_file
	}

	// Secrets may live in .env
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Load configuration
	conf, err := loadConfig(configFile)
	if err != nil {
		log.Fatalln(err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire the pipeline
	orchestrator, err := newOrchestrator(ctx, conf)
	if err != nil {
		log.Fatalln(err)
		return
	}

	// Serve the form
	server := &http.Server{
		Addr:    conf.Server.Addr,
		Handler: api.NewRouter(api.NewApp(orchestrator, conf.Pipeline.MaxConcurrentJobs)),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdown_timeout)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("Listening on %s", conf.Server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalln(err)
	}
}

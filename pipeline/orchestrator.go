package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"
	"github.com/pashonic/globecast/media"
	"github.com/pashonic/globecast/providers"
	"github.com/pashonic/globecast/providers/music"
	"github.com/pashonic/globecast/providers/pexels"
	"github.com/pashonic/globecast/providers/unsplash"
	"github.com/pashonic/globecast/script"
	"github.com/pashonic/globecast/storage"
	"github.com/pashonic/globecast/videobuilder"
	"github.com/pashonic/globecast/voice"
)

type ExcerptFetcher interface {
	FetchExcerpt(ctx context.Context, subject string) providers.Result[string]
}

type ImageFetcher interface {
	FetchImages(ctx context.Context, subject string, count int, sink unsplash.Sink) providers.Result[[]media.Asset]
}

type VideoFetcher interface {
	FetchStockVideos(ctx context.Context, subject string, count int, size media.FrameSize, sink pexels.Sink) providers.Result[[]media.Asset]
}

type MusicFetcher interface {
	FetchBackgroundMusic(ctx context.Context, sink music.Sink) providers.Result[*media.Asset]
}

type VoiceSynthesizer interface {
	Synthesize(ctx context.Context, text, languageCode string, sink voice.Sink) (media.Asset, error)
}

type LoudnessNormalizer interface {
	Normalize(ctx context.Context, narration media.Asset, scratch voice.Scratch) bool
}

type CaptionBuilder interface {
	Build(text string, size media.FrameSize, duration float64, sink videobuilder.CaptionSink) (*videobuilder.CaptionLayer, error)
}

type Encoder interface {
	Encode(ctx context.Context, composition videobuilder.Composition) error
}

// Publisher pushes a finished video somewhere public and returns its link.
type Publisher interface {
	Publish(ctx context.Context, path, title, description string) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, subject, message string) error
}

// Orchestrator runs one job at a time through the fixed stage sequence.
// Publisher, Notifier, Videos and Loudness are optional.
type Orchestrator struct {
	Config   Config
	Excerpts ExcerptFetcher
	Images   ImageFetcher
	Videos   VideoFetcher
	Music    MusicFetcher
	Voice    VoiceSynthesizer
	Loudness LoudnessNormalizer
	Prober   media.Prober
	Captions CaptionBuilder
	Encoder  Encoder

	Publisher Publisher
	Notifier  Notifier

	// Observe, when set, sees every state the job enters.
	Observe func(jobID string, state State)
}

// Result is a finished job. The output file stays on disk until Close.
type Result struct {
	JobID      string
	Path       string
	Filename   string
	Script     string
	Size       media.FrameSize
	Duration   float64
	Normalized bool
	Degraded   []string
	Link       string

	workspace *storage.Workspace
}

// Close deletes the output file and the job directory. It is safe to call
// more than once.
func (r *Result) Close() {
	if r != nil && r.workspace != nil {
		r.workspace.Cleanup()
	}
}

type job struct {
	id       string
	request  Request
	size     media.FrameSize
	state    State
	degraded []string
	observe  func(string, State)
}

func (j *job) enter(state State) {
	j.state = state
	log.Printf("[job %s] %s", j.id, state)
	if j.observe != nil {
		j.observe(j.id, state)
	}
}

func (j *job) collect(source string, degraded bool, reason error) {
	if degraded {
		log.Printf("[WARN] [job %s] %s degraded: %v", j.id, source, reason)
		j.degraded = append(j.degraded, source)
	}
}

func (j *job) fail(stage State, err error) error {
	return &JobError{JobID: j.id, Stage: stage, Err: err}
}

// Run executes the job. On error every temporary file has been deleted; on
// success only the output remains and is removed by Result.Close.
func (o *Orchestrator) Run(ctx context.Context, request Request) (*Result, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	size, ok := o.Config.FrameSize(request.Layout)
	if !ok {
		return nil, fmt.Errorf("%w: no frame size for %s", ErrInvalidRequest, request.Layout)
	}

	j := &job{id: uuid.New().String(), request: request, size: size, state: Idle, observe: o.Observe}
	log.Printf("[job %s] subject=%q brand=%q language=%s layout=%s", j.id, request.Subject, request.Brand, request.Language, request.Layout)

	ws, err := storage.NewWorkspace(o.Config.WorkDir)
	if err != nil {
		return nil, o.finish(ctx, j, nil, j.fail(Idle, err))
	}

	result, err := o.guardedRun(ctx, j, ws)
	if err != nil {
		ws.Cleanup()
		return nil, o.finish(ctx, j, nil, err)
	}
	ws.Release()
	return result, o.finish(ctx, j, result, nil)
}

// guardedRun turns a panicking stage into a failure of that stage so the
// workspace is still cleaned up and the outcome still reported.
func (o *Orchestrator) guardedRun(ctx context.Context, j *job, ws *storage.Workspace) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, j.fail(j.state, fmt.Errorf("panic: %v", r))
		}
	}()
	return o.run(ctx, j, ws)
}

func (o *Orchestrator) finish(ctx context.Context, j *job, result *Result, err error) error {
	if err != nil {
		j.enter(Failed)
		log.Printf("[job %s] %v", j.id, err)
		o.notify(ctx, j, "Globecast video failed", err.Error())
		return err
	}
	j.enter(Done)
	message := fmt.Sprintf("%s for %s (%s, %.1fs)", result.Filename, j.request.Brand, j.size, result.Duration)
	if result.Link != "" {
		message += "\n" + result.Link
	}
	o.notify(ctx, j, "Globecast video ready", message)
	return nil
}

func (o *Orchestrator) notify(ctx context.Context, j *job, subject, message string) {
	if o.Notifier == nil {
		return
	}
	if err := o.Notifier.Notify(ctx, subject, message); err != nil {
		log.Printf("[WARN] [job %s] notification failed: %v", j.id, err)
	}
}

func (o *Orchestrator) run(ctx context.Context, j *job, ws *storage.Workspace) (*Result, error) {
	cfg := o.Config
	request := j.request

	j.enter(FetchingContent)
	excerpt := o.Excerpts.FetchExcerpt(ctx, request.Subject)
	j.collect("excerpt", excerpt.Degraded, excerpt.Reason)

	j.enter(SynthesizingScript)
	generated := script.Generate(request.Subject, request.Brand, excerpt.Value, cfg.ScriptExcerptChars, cfg.CaptionChars)
	log.Printf("[job %s] script: %s", j.id, generated.Text)

	j.enter(SynthesizingVoice)
	narration, err := o.Voice.Synthesize(ctx, generated.Text, request.Language, ws)
	if err != nil {
		return nil, j.fail(SynthesizingVoice, err)
	}
	normalized := false
	if o.Loudness != nil {
		normalized = o.Loudness.Normalize(ctx, narration, ws)
	}
	narration.Duration, err = o.Prober.Duration(ctx, narration.Path)
	if err == nil && narration.Duration <= 0 {
		err = errors.New("narration has no duration")
	}
	if err != nil {
		return nil, j.fail(SynthesizingVoice, fmt.Errorf("%w: %v", voice.ErrVoiceSynthesis, err))
	}
	duration := math.Min(narration.Duration, cfg.MaxDuration)

	j.enter(FetchingAssets)
	assets := o.fetchAssets(ctx, j, ws)
	background := o.Music.FetchBackgroundMusic(ctx, ws)
	j.collect("music", background.Degraded, background.Reason)

	j.enter(BuildingVisual)
	visual := videobuilder.BuildVisual(assets, cfg.visualOptions(duration, j.size))

	j.enter(BuildingAudio)
	audio := videobuilder.MixAudio(narration, background.Value, duration, cfg.MusicGain)

	j.enter(BuildingCaption)
	caption, err := o.Captions.Build(generated.Caption, j.size, duration, ws)
	if err != nil {
		return nil, j.fail(BuildingCaption, err)
	}

	j.enter(Encoding)
	output := ws.Allocate(".mp4")
	composition := videobuilder.Composition{
		Visual:  visual,
		Audio:   audio,
		Caption: caption,
		Output:  output,
		Params:  cfg.encodeParams(),
	}
	if err := o.Encoder.Encode(ctx, composition); err != nil {
		return nil, j.fail(Encoding, err)
	}
	if err := ws.Keep(output); err != nil {
		return nil, j.fail(Encoding, err)
	}

	result := &Result{
		JobID:      j.id,
		Path:       output,
		Filename:   request.Filename(),
		Script:     generated.Text,
		Size:       j.size,
		Duration:   duration,
		Normalized: normalized,
		workspace:  ws,
	}

	if o.Publisher != nil {
		j.enter(Publishing)
		title := fmt.Sprintf("%s – %s", request.Brand, request.Subject)
		link, err := o.Publisher.Publish(ctx, output, title, generated.Text)
		if err != nil {
			log.Printf("[WARN] [job %s] publishing failed: %v", j.id, err)
		} else {
			result.Link = link
		}
	}
	result.Degraded = j.degraded
	return result, nil
}

// fetchAssets gathers stills and, when enabled, stock clips. Stills are
// normalized to the frame size; ones that fail to decode are dropped.
func (o *Orchestrator) fetchAssets(ctx context.Context, j *job, ws *storage.Workspace) []media.Asset {
	cfg := o.Config
	var assets []media.Asset

	images := o.Images.FetchImages(ctx, j.request.Subject, cfg.ImageCount, ws)
	j.collect("images", images.Degraded, images.Reason)
	dropped := 0
	for _, image := range images.Value {
		still, err := videobuilder.PrepareStill(image, j.size, ws)
		ws.Remove(image.Path)
		if err != nil {
			log.Printf("[WARN] [job %s] dropping image: %v", j.id, err)
			dropped++
			continue
		}
		assets = append(assets, still)
	}
	if dropped > 0 && !images.Degraded {
		j.collect("images", true, fmt.Errorf("%d undecodable images", dropped))
	}

	if cfg.AssetSource != AssetSourceImageVideo || o.Videos == nil {
		return assets
	}
	clips := o.Videos.FetchStockVideos(ctx, j.request.Subject, cfg.VideoCount, j.size, ws)
	j.collect("videos", clips.Degraded, clips.Reason)
	for _, clip := range clips.Value {
		clipDuration, err := o.Prober.Duration(ctx, clip.Path)
		if err != nil {
			log.Printf("[WARN] [job %s] unknown clip duration, looping: %v", j.id, err)
		}
		clip.Duration = clipDuration
		assets = append(assets, clip)
	}
	return assets
}

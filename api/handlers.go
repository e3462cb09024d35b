package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"mime"
	"net/http"
	"net/url"
	"os"

	"github.com/pashonic/globecast/pipeline"
	"github.com/pashonic/globecast/voice"
)

const script_header = "X-Globecast-Script"

//go:embed templates/form.html
var templates embed.FS

var formTemplate = template.Must(template.ParseFS(templates, "templates/form.html"))

type JobRunner interface {
	Run(ctx context.Context, request pipeline.Request) (*pipeline.Result, error)
}

// App serves the submission form and runs jobs synchronously, at most
// cap(slots) at a time.
type App struct {
	Runner JobRunner

	slots chan struct{}
}

func NewApp(runner JobRunner, maxConcurrentJobs int) *App {
	if maxConcurrentJobs <= 0 {
		maxConcurrentJobs = 1
	}
	return &App{
		Runner: runner,
		slots:  make(chan struct{}, maxConcurrentJobs),
	}
}

type option struct {
	Value string
	Label string
}

type formData struct {
	Languages []option
	Layouts   []option
	Request   pipeline.Request
	Error     string
}

func newFormData(request pipeline.Request, message string) formData {
	data := formData{Request: request, Error: message}
	for _, language := range voice.Languages {
		data.Languages = append(data.Languages, option{Value: language.Code, Label: language.Name})
	}
	for _, layout := range pipeline.Layouts {
		data.Layouts = append(data.Layouts, option{Value: string(layout), Label: layout.Label()})
	}
	if data.Request.Language == "" {
		data.Request.Language = "fr"
	}
	if data.Request.Layout == "" {
		data.Request.Layout = pipeline.LayoutVertical
	}
	return data
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func (app *App) FormHandler(w http.ResponseWriter, r *http.Request) {
	app.renderForm(w, http.StatusOK, newFormData(pipeline.Request{}, ""))
}

func (app *App) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.renderForm(w, http.StatusBadRequest, newFormData(pipeline.Request{}, "Invalid form submission"))
		return
	}
	request := pipeline.Request{
		Subject:  r.PostFormValue("subject"),
		Brand:    r.PostFormValue("brand"),
		Language: r.PostFormValue("language"),
		Layout:   pipeline.Layout(r.PostFormValue("layout")),
	}
	if err := request.Validate(); err != nil {
		app.renderForm(w, http.StatusBadRequest, newFormData(request, err.Error()))
		return
	}

	var result *pipeline.Result
	err := app.withSlot(r.Context(), func() error {
		var err error
		result, err = app.Runner.Run(r.Context(), request)
		return err
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, pipeline.ErrInvalidRequest):
			status = http.StatusBadRequest
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			status = http.StatusServiceUnavailable
		}
		app.renderForm(w, status, newFormData(request, err.Error()))
		return
	}
	defer result.Close()

	app.serveVideo(w, r, result)
}

// withSlot waits for a free job slot unless the client goes away first.
func (app *App) withSlot(ctx context.Context, fn func() error) error {
	select {
	case app.slots <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("cancelled while waiting for a job slot: %w", ctx.Err())
	}
	defer func() { <-app.slots }()
	return fn()
}

func (app *App) serveVideo(w http.ResponseWriter, r *http.Request, result *pipeline.Result) {
	file, err := os.Open(result.Path)
	if err != nil {
		app.renderForm(w, http.StatusInternalServerError, newFormData(pipeline.Request{}, "Generated video is missing"))
		return
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		app.renderForm(w, http.StatusInternalServerError, newFormData(pipeline.Request{}, "Generated video is unreadable"))
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	w.Header().Set(script_header, url.QueryEscape(result.Script))
	http.ServeContent(w, r, result.Filename, info.ModTime(), file)
}

func (app *App) renderForm(w http.ResponseWriter, status int, data formData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, data); err != nil {
		log.Printf("[WARN] render form: %v", err)
	}
}

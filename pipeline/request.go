package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/pashonic/globecast/providers"
	"github.com/pashonic/globecast/voice"
)

var ErrInvalidRequest = errors.New("invalid request")

// Request is one submitted job. It is never modified once validated.
type Request struct {
	Subject  string
	Brand    string
	Language string
	Layout   Layout
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Brand) == "" {
		return fmt.Errorf("%w: brand is required", ErrInvalidRequest)
	}
	if _, ok := voice.LookupLanguage(r.Language); !ok {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalidRequest, r.Language)
	}
	if !r.Layout.Valid() {
		return fmt.Errorf("%w: unsupported layout %q", ErrInvalidRequest, r.Layout)
	}
	return nil
}

// Filename is the download name, Pro_<brand>_<subject>.mp4, with spaces
// turned into underscores and path-unsafe characters dropped.
func (r Request) Filename() string {
	name := providers.Underscore(r.Brand) + "_" + providers.Underscore(r.Subject)
	name = strings.Map(func(c rune) rune {
		if unicode.IsSpace(c) {
			return '_'
		}
		if unicode.IsControl(c) || strings.ContainsRune(`/\:*?"<>|`, c) {
			return -1
		}
		return c
	}, name)
	return "Pro_" + name + ".mp4"
}

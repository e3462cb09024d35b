package videobuilder

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pashonic/globecast/media"
)

var ErrEncode = errors.New("encode failed")

type EncodeError struct {
	Output string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Output, e.Err)
}

func (e *EncodeError) Unwrap() []error {
	return []error{ErrEncode, e.Err}
}

type Encoder struct {
	Runner media.Runner
}

func NewEncoder(runner media.Runner) *Encoder {
	return &Encoder{Runner: runner}
}

// Encode renders the composition to its output path. The file exists and is
// non-empty when no error is returned.
func (e *Encoder) Encode(ctx context.Context, composition Composition) error {
	if err := composition.Validate(); err != nil {
		return &EncodeError{Output: composition.Output, Err: err}
	}
	args, err := composition.Args()
	if err != nil {
		return &EncodeError{Output: composition.Output, Err: err}
	}
	if err := e.Runner.Run(ctx, args); err != nil {
		return &EncodeError{Output: composition.Output, Err: err}
	}

	info, err := os.Stat(composition.Output)
	if err != nil {
		return &EncodeError{Output: composition.Output, Err: err}
	}
	if info.Size() == 0 {
		return &EncodeError{Output: composition.Output, Err: errors.New("empty output")}
	}
	return nil
}

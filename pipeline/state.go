package pipeline

import "fmt"

type State string

const (
	Idle               State = "Idle"
	FetchingContent    State = "FetchingContent"
	SynthesizingScript State = "SynthesizingScript"
	SynthesizingVoice  State = "SynthesizingVoice"
	FetchingAssets     State = "FetchingAssets"
	BuildingVisual     State = "BuildingVisual"
	BuildingAudio      State = "BuildingAudio"
	BuildingCaption    State = "BuildingCaption"
	Encoding           State = "Encoding"
	Publishing         State = "Publishing"
	Done               State = "Done"
	Failed             State = "Failed"
)

var stageDescriptions = map[State]string{
	Idle:              "preparing the job",
	SynthesizingVoice: "voice synthesis",
	BuildingCaption:   "caption rendering",
	Encoding:          "video encoding",
}

func (s State) Terminal() bool {
	return s == Done || s == Failed
}

// JobError is the single failure reported to the submitter.
type JobError struct {
	JobID string
	Stage State
	Err   error
}

func (e *JobError) Error() string {
	stage, ok := stageDescriptions[e.Stage]
	if !ok {
		stage = string(e.Stage)
	}
	return fmt.Sprintf("video generation stopped at %s: %v", stage, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

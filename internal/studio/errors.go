package studio

import "fmt"

// ValidationError rejects a request parameter at the boundary, before any
// synthesis work begins.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Stage names the part of the pipeline a render failure came from.
type Stage string

const (
	StagePhoneme Stage = "phoneme build"
	StageMelody  Stage = "melody generation"
	StageVoice   Stage = "voice render"
	StageMix     Stage = "mix"
	StageEncode  Stage = "encode"
)

// RenderError is a terminal failure of one awaited render. It carries the
// failing stage so callers can tell where the pipeline broke. No automatic
// retry is performed.
type RenderError struct {
	Stage Stage
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed at %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

package driver

import "fmt"

// Stage names the step of an effect run that failed.
type Stage string

// Run stages in execution order.
const (
	StageLoad    Stage = "load"
	StageFit     Stage = "fit"
	StageRender  Stage = "render"
	StageMeasure Stage = "measure"
	StageSave    Stage = "save"
)

// EffectError is the failure of one effect at one stage.
type EffectError struct {
	Effect string
	Stage  Stage
	Err    error
}

func (e *EffectError) Error() string {
	return fmt.Sprintf("%s failed at %s: %v", e.Effect, e.Stage, e.Err)
}

func (e *EffectError) Unwrap() error {
	return e.Err
}

func newEffectError(effect string, stage Stage, err error) *EffectError {
	return &EffectError{Effect: effect, Stage: stage, Err: err}
}

package snapshot

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceNotFound means the player is not registered on the bus
	ErrServiceNotFound = errors.New("player service not registered")
	// ErrWindowNotFound means the player is registered but owns no window
	ErrWindowNotFound = errors.New("no window found for player process")
)

// Step names one stage of the restore sequence
type Step string

const (
	StepValidate Step = "validate"
	StepLaunch   Step = "launch"
	StepWindow   Step = "window"
	StepQueue    Step = "queue"
	StepKick     Step = "kick"
	StepSettings Step = "settings"
	StepPosition Step = "position"
	StepStatus   Step = "status"
)

// RestoreError reports the step at which a restore stopped
type RestoreError struct {
	Step Step
	Err  error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("restore aborted at %s step: %v", e.Step, e.Err)
}

func (e *RestoreError) Unwrap() error {
	return e.Err
}

func stepError(step Step, err error) error {
	return &RestoreError{Step: step, Err: err}
}

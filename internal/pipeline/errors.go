package pipeline

import (
	"errors"
	"fmt"

	"github.com/sells-group/mosscheck/internal/model"
)

// StageError marks an infrastructure failure that ended a run.
type StageError struct {
	Stage model.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline: %s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage recorded in err's chain, if any.
func FailedStage(err error) (model.Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

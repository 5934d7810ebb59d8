package services

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// SagaStep is one (action, compensation) pair of a linear saga. Compensation
// may be nil for steps with nothing to undo. BestEffort steps log their
// failure and keep the saga going without rolling anything back.
type SagaStep struct {
	Name       string
	Action     func() error
	Compensate func() error
	BestEffort bool
}

// RunSaga executes the steps in order. On the first hard failure it runs the
// compensations of every completed step in reverse and returns the failure.
// Compensation failures are logged, not escalated.
func RunSaga(name string, steps []SagaStep) error {
	var done []SagaStep
	for _, step := range steps {
		if err := step.Action(); err != nil {
			if step.BestEffort {
				log.Warn().Err(err).Str("saga", name).Str("step", step.Name).
					Msg("best-effort saga step failed, continuing")
				continue
			}
			rollback(name, done)
			return fmt.Errorf("saga %s: step %s: %w", name, step.Name, err)
		}
		done = append(done, step)
	}
	return nil
}

func rollback(name string, done []SagaStep) {
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(); err != nil {
			log.Error().Err(err).Str("saga", name).Str("step", step.Name).
				Msg("saga compensation failed")
		}
	}
}

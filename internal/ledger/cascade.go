package ledger

import "context"

type step struct {
	name string
	run  func(ctx context.Context) error
}

// runSteps executes steps in order and stops at the first failure.
// Earlier steps stay persisted: there is no transaction across keys.
func runSteps(ctx context.Context, op string, steps ...step) error {
	completed := make([]string, 0, len(steps))
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return &CascadeError{Op: op, Completed: completed, Failed: s.name, Err: err}
		}
		if err := s.run(ctx); err != nil {
			return &CascadeError{Op: op, Completed: completed, Failed: s.name, Err: err}
		}
		completed = append(completed, s.name)
	}
	return nil
}

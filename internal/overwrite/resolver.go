package overwrite

import (
	"context"
	"fmt"
	"log/slog"

	"alacify/internal/fileutil"
	"alacify/internal/logging"
	"alacify/internal/services"
	"alacify/internal/task"
)

// Decision is the resolver's verdict for one task.
type Decision struct {
	Proceed bool
	// Exists reports whether the destination was present.
	Exists bool
	// Reason explains a skip.
	Reason string
}

// Resolver applies a Policy to tasks whose destination exists.
type Resolver struct {
	Policy    Policy
	Confirmer Confirmer
	// Simulate forces prompt to behave as skip.
	Simulate bool
	Logger   *slog.Logger
}

// NewResolver builds a resolver. A nil confirmer declines every prompt.
func NewResolver(policy Policy, confirmer Confirmer, simulate bool, logger *slog.Logger) *Resolver {
	if confirmer == nil {
		confirmer = Decline
	}
	return &Resolver{
		Policy:    policy,
		Confirmer: confirmer,
		Simulate:  simulate,
		Logger:    logging.NewComponentLogger(logger, "overwrite"),
	}
}

// Resolve decides whether t may be converted.
func (r *Resolver) Resolve(ctx context.Context, t task.Task) (Decision, error) {
	exists, err := fileutil.Exists(t.Destination)
	if err != nil {
		return Decision{}, services.Wrap(services.ErrInvalidPath, "overwrite", "stat destination", t.Destination, err)
	}
	if !exists {
		return Decision{Proceed: true}, nil
	}

	switch r.Policy {
	case PolicyReplace:
		return Decision{Proceed: true, Exists: true}, nil
	case PolicyPrompt:
		if r.Simulate {
			return skipped("destination exists"), nil
		}
		return r.prompt(ctx, t)
	default:
		return skipped("destination exists"), nil
	}
}

func (r *Resolver) prompt(ctx context.Context, t task.Task) (Decision, error) {
	confirmer := r.Confirmer
	if confirmer == nil {
		confirmer = Decline
	}
	ok, err := confirmer.Confirm(ctx, fmt.Sprintf("%s already exists. Overwrite?", t.Destination))
	if err != nil {
		if ctx.Err() != nil {
			return Decision{}, services.Wrap(services.ErrCanceled, "overwrite", "prompt", t.Destination, ctx.Err())
		}
		logging.WarnWithContext(logging.WithContext(ctx, r.Logger), "overwrite prompt failed; keeping existing file", "overwrite_prompt_failed",
			logging.String("destination", t.Destination),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run with --overwrite replace or skip for unattended use"),
			logging.String(logging.FieldImpact, "task skipped"),
		)
		return skipped("overwrite prompt failed"), nil
	}
	if !ok {
		return skipped("declined overwrite"), nil
	}
	return Decision{Proceed: true, Exists: true}, nil
}

func skipped(reason string) Decision {
	return Decision{Exists: true, Reason: reason}
}

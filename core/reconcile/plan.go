package reconcile

import (
	"context"
	"fmt"
)

// ReconcilePlan holds a computed change set and what it means for the target.
// It does not execute anything; use ApplyPlan for that.
type ReconcilePlan struct {
	// Changes is the change set produced by Diff.
	Changes *ChangeSet `json:"-"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`

	// WipesTarget is true when the source was empty and the plan deletes
	// every target record.
	WipesTarget bool `json:"wipes_target"`
}

// ReconcileOptions controls how a plan is applied.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Confirmed indicates the user accepted a plan that wipes the target.
	// Plans with WipesTarget set are refused without it.
	Confirmed bool
}

// ReconcileWithPlan diffs source against target and returns the plan.
// ErrNoChanges is passed through unchanged.
func ReconcileWithPlan(source, target *Collection) (*ReconcilePlan, error) {
	cs, err := Diff(source, target)
	if err != nil {
		return nil, err
	}

	return &ReconcilePlan{
		Changes:     cs,
		Summary:     cs.Summary(),
		WipesTarget: source.Len() == 0,
	}, nil
}

// ApplyPlan executes the plan against sink and returns the number of
// statements applied. Dry runs apply nothing and report zero.
func ApplyPlan(ctx context.Context, sink Sink, plan *ReconcilePlan, opts ReconcileOptions) (executed int, err error) {
	if plan == nil || plan.Changes == nil {
		return 0, fmt.Errorf("nil reconcile plan")
	}

	if opts.DryRun {
		return 0, nil
	}

	// Safety check: wholesale deletion needs an explicit yes
	if plan.WipesTarget && !opts.Confirmed {
		return 0, ErrAborted
	}

	if err := sink.Apply(ctx, plan.Changes); err != nil {
		return 0, err
	}

	return plan.Changes.Len(), nil
}

// Package reconcile computes and applies the row-level changes that bring a
// store in line with a source snapshot.
//
// # Model
//
// A Record is a composite Key (code, job) plus an optional description. NULL
// and the empty string are different descriptions. Records are plain
// comparable values, so they are used directly as map keys and set members.
//
// A Collection maps keys to records and never holds two records with the same
// key; the Builder rejects duplicates with a *DuplicateKeyError.
//
// # Diff
//
// Diff(source, target) returns a ChangeSet:
//   - ToDelete: target records whose key is not in source
//   - ToUpdate: source records whose key is in target with another description
//   - ToInsert: source records whose key is not in target
//
// Only the smaller collection is iterated. When both sides agree Diff returns
// ErrNoChanges.
//
// # Outcomes
//
// ErrNoChanges and ErrAborted are clean exits (see IsCleanExit). Every other
// error is fatal and is usually wrapped in a *StageError naming the step that
// failed. Sinks report write failures as *StoreWriteError after rolling back.
//
// # Usage Example
//
//	target, err := store.FetchAll(ctx)
//	source, err := snapshots.ReadAll(path)
//
//	plan, err := reconcile.ReconcileWithPlan(source, target)
//	if errors.Is(err, reconcile.ErrNoChanges) {
//	    return nil
//	}
//
//	executed, err := reconcile.ApplyPlan(ctx, store, plan, reconcile.ReconcileOptions{})
package reconcile

package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSink records the change sets it receives.
type mockSink struct {
	applied []*ChangeSet
	err     error
}

func (m *mockSink) Apply(ctx context.Context, cs *ChangeSet) error {
	if m.err != nil {
		return m.err
	}
	m.applied = append(m.applied, cs)
	return nil
}

func TestReconcileWithPlan(t *testing.T) {
	source := MustCollection(NewRecord("c1", "j1", "x"), NewRecord("c3", "j3", "new"))
	target := MustCollection(NewRecord("c1", "j1", "y"), NewRecord("c2", "j2", "z"))

	plan, err := ReconcileWithPlan(source, target)
	require.NoError(t, err)

	assert.Equal(t, PlanSummary{Deletes: 1, Updates: 1, Inserts: 1}, plan.Summary)
	assert.Equal(t, 3, plan.Summary.Total())
	assert.False(t, plan.WipesTarget)
}

func TestReconcileWithPlan_NoChanges(t *testing.T) {
	c := MustCollection(NewRecord("c1", "j1", "x"))

	plan, err := ReconcileWithPlan(c, c)
	assert.ErrorIs(t, err, ErrNoChanges)
	assert.Nil(t, plan)
}

func TestApplyPlan(t *testing.T) {
	target := MustCollection(
		NewRecord("c1", "j1", "a"),
		NewRecord("c2", "j2", "b"),
		NewRecord("c3", "j3", "c"),
	)

	t.Run("Wipe requires confirmation", func(t *testing.T) {
		plan, err := ReconcileWithPlan(MustCollection(), target)
		require.NoError(t, err)
		assert.True(t, plan.WipesTarget)

		sink := &mockSink{}
		executed, err := ApplyPlan(context.Background(), sink, plan, ReconcileOptions{})
		assert.ErrorIs(t, err, ErrAborted)
		assert.Equal(t, 0, executed)
		assert.Empty(t, sink.applied)
	})

	t.Run("Confirmed wipe deletes everything", func(t *testing.T) {
		plan, err := ReconcileWithPlan(MustCollection(), target)
		require.NoError(t, err)

		sink := &mockSink{}
		executed, err := ApplyPlan(context.Background(), sink, plan, ReconcileOptions{Confirmed: true})
		assert.NoError(t, err)
		assert.Equal(t, 3, executed)
		require.Len(t, sink.applied, 1)
		assert.Equal(t, target.Records(), sink.applied[0].ToDelete.Records())
		assert.Empty(t, sink.applied[0].ToUpdate)
		assert.Empty(t, sink.applied[0].ToInsert)
	})

	t.Run("Dry run applies nothing", func(t *testing.T) {
		plan, err := ReconcileWithPlan(MustCollection(NewRecord("c1", "j1", "z")), target)
		require.NoError(t, err)

		sink := &mockSink{}
		executed, err := ApplyPlan(context.Background(), sink, plan, ReconcileOptions{DryRun: true})
		assert.NoError(t, err)
		assert.Equal(t, 0, executed)
		assert.Empty(t, sink.applied)
	})

	t.Run("Sink error propagates", func(t *testing.T) {
		plan, err := ReconcileWithPlan(MustCollection(NewRecord("c1", "j1", "z")), target)
		require.NoError(t, err)

		writeErr := &StoreWriteError{Err: errors.New("constraint violation")}
		sink := &mockSink{err: writeErr}
		_, err = ApplyPlan(context.Background(), sink, plan, ReconcileOptions{})

		var swe *StoreWriteError
		assert.True(t, errors.As(err, &swe))
	})

	t.Run("Nil plan", func(t *testing.T) {
		_, err := ApplyPlan(context.Background(), &mockSink{}, nil, ReconcileOptions{})
		assert.Error(t, err)
	})
}

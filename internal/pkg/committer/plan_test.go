package committer

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingApplier struct {
	calls [][]*spanner.Mutation
	err   error
}

func (r *recordingApplier) Apply(_ context.Context, ms []*spanner.Mutation, _ ...spanner.ApplyOption) (time.Time, error) {
	r.calls = append(r.calls, ms)
	return time.Time{}, r.err
}

func TestCommitPlan_IgnoresNil(t *testing.T) {
	plan := NewPlan()
	plan.Add(nil)
	plan.AddMultiple([]*spanner.Mutation{
		spanner.Delete("adverts", spanner.Key{"a"}),
		nil,
	})

	assert.Equal(t, 1, plan.Count())
	assert.False(t, plan.IsEmpty())
}

func TestCommitter_EmptyPlanSkipsApply(t *testing.T) {
	applier := &recordingApplier{}

	err := NewCommitter(applier).Apply(context.Background(), NewPlan())

	require.NoError(t, err)
	assert.Empty(t, applier.calls)
}

func TestCommitter_AppliesAllMutationsOnce(t *testing.T) {
	applier := &recordingApplier{}
	plan := NewPlan()
	plan.Add(spanner.Delete("adverts", spanner.Key{"a"}))
	plan.Add(spanner.Insert("outbox_events", []string{"event_id"}, []interface{}{"e1"}))

	err := NewCommitter(applier).Apply(context.Background(), plan)

	require.NoError(t, err)
	require.Len(t, applier.calls, 1)
	assert.Len(t, applier.calls[0], 2)
}

func TestCommitter_WrapsError(t *testing.T) {
	cause := errors.New("boom")
	applier := &recordingApplier{err: cause}
	plan := NewPlan()
	plan.Add(spanner.Delete("adverts", spanner.Key{"a"}))

	err := NewCommitter(applier).Apply(context.Background(), plan)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

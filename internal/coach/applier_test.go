package coach_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleandr/stride/internal/coach"
	"github.com/oleandr/stride/internal/record"
	"github.com/oleandr/stride/internal/repository"
)

func TestApplyMixedActions(t *testing.T) {
	store := repository.NewMockStore()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		seedRecord(store, id, record.StatusReady, 2)
	}

	newDate := evalNow.AddDate(0, 0, 14)
	actions := []coach.Action{
		{Kind: coach.ActionExtendDeadline, RecordID: "a", ToDate: newDate},
		{Kind: coach.ActionPauseTasks, RecordIDs: []string{"b", "c"}},
		{Kind: coach.ActionFocusMode, RecordIDs: []string{"d", "e"}},
		{Kind: coach.ActionSuggestSkip, RecordID: "a"},
	}

	applier := coach.NewApplier(store)
	report, err := applier.Apply(context.Background(), "user-1", actions)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Extended)
	assert.Equal(t, 2, report.Paused)
	assert.Equal(t, 5, report.Updated)

	assert.True(t, store.Records["a"].ScheduledDate.Equal(newDate))
	assert.Equal(t, record.StatusPaused, store.Records["b"].Status)
	assert.Equal(t, record.StatusPaused, store.Records["c"].Status)
	assert.Equal(t, record.PriorityHigh, store.Records["d"].Priority)
	assert.Equal(t, record.PriorityHigh, store.Records["e"].Priority)
	assert.Equal(t, record.StatusReady, store.Records["a"].Status, "advisory kinds mutate nothing")
}

func TestApplyMissingRecordSkipped(t *testing.T) {
	store := repository.NewMockStore()
	applier := coach.NewApplier(store)

	report, err := applier.Apply(context.Background(), "user-1", []coach.Action{
		{Kind: coach.ActionExtendDeadline, RecordID: "ghost", ToDate: evalNow},
	})
	require.NoError(t, err, "a vanished target is a skip, not a failure")
	assert.Zero(t, report.Extended)
	assert.Zero(t, report.Updated)
}

func TestApplyExtendIdempotentWithinPass(t *testing.T) {
	store := repository.NewMockStore()
	seedRecord(store, "a", record.StatusReady, 2)

	newDate := evalNow.AddDate(0, 0, 14)
	actions := []coach.Action{
		{Kind: coach.ActionExtendDeadline, RecordID: "a", ToDate: newDate},
		{Kind: coach.ActionExtendDeadline, RecordID: "a", ToDate: newDate},
	}

	applier := coach.NewApplier(store)
	report, err := applier.Apply(context.Background(), "user-1", actions)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Extended, "duplicate extend targets count once")
	assert.Len(t, store.UpdateCalls, 1, "the duplicate never reaches the store")
}

func TestApplyReapplySameActions(t *testing.T) {
	store := repository.NewMockStore()
	seedRecord(store, "a", record.StatusReady, 2)
	seedRecord(store, "b", record.StatusReady, 2)

	newDate := evalNow.AddDate(0, 0, 14)
	actions := []coach.Action{
		{Kind: coach.ActionExtendDeadline, RecordID: "a", ToDate: newDate},
		{Kind: coach.ActionPauseTasks, RecordIDs: []string{"b"}},
	}

	applier := coach.NewApplier(store)
	_, err := applier.Apply(context.Background(), "user-1", actions)
	require.NoError(t, err)
	_, err = applier.Apply(context.Background(), "user-1", actions)
	require.NoError(t, err)

	assert.True(t, store.Records["a"].ScheduledDate.Equal(newDate))
	assert.Equal(t, record.StatusPaused, store.Records["b"].Status)
}

func TestApplyContinuesPastFailures(t *testing.T) {
	store := repository.NewMockStore()
	seedRecord(store, "a", record.StatusReady, 2)
	seedRecord(store, "b", record.StatusReady, 2)
	store.UpdateError = errors.New("connection refused")

	actions := []coach.Action{
		{Kind: coach.ActionExtendDeadline, RecordID: "a", ToDate: evalNow.AddDate(0, 0, 7)},
		{Kind: coach.ActionPauseTasks, RecordIDs: []string{"b"}},
	}

	applier := coach.NewApplier(store)
	report, err := applier.Apply(context.Background(), "user-1", actions)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "extend a")
	assert.Zero(t, report.Extended)
	assert.Equal(t, 1, report.Paused, "later actions still run after a failure")
	assert.Equal(t, record.StatusPaused, store.Records["b"].Status)
}

package scanrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens/ingest/pkg/domain/shared"
)

func TestNewScanRun(t *testing.T) {
	repoID := shared.NewID()

	run, err := New(repoID, "full")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, run.Status)
	assert.Equal(t, repoID, run.RepositoryID)
	assert.Nil(t, run.CompletedAt)
	assert.False(t, run.StartedAt.IsZero())
}

func TestNewScanRunDefaultsScanType(t *testing.T) {
	run, err := New(shared.NewID(), "")
	require.NoError(t, err)
	assert.Equal(t, "full", run.ScanType)
}

func TestNewScanRunRequiresRepository(t *testing.T) {
	_, err := New(shared.ID{}, "full")
	assert.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestScanRunComplete(t *testing.T) {
	run, err := New(shared.NewID(), "full")
	require.NoError(t, err)

	require.NoError(t, run.Complete(42))
	assert.Equal(t, StatusCompleted, run.Status)
	assert.Equal(t, 42, run.FindingsCount)
	require.NotNil(t, run.CompletedAt)
}

func TestScanRunFail(t *testing.T) {
	run, err := New(shared.NewID(), "full")
	require.NoError(t, err)

	require.NoError(t, run.Fail("parser exploded"))
	assert.Equal(t, StatusFailed, run.Status)
	assert.Equal(t, "parser exploded", run.ErrorMessage)
	require.NotNil(t, run.CompletedAt)
}

// Terminal runs must reject any further transition.
func TestScanRunTerminalStateIsFinal(t *testing.T) {
	run, err := New(shared.NewID(), "full")
	require.NoError(t, err)
	require.NoError(t, run.Complete(1))

	assert.Error(t, run.Complete(2))
	assert.Error(t, run.Fail("too late"))
	assert.Equal(t, 1, run.FindingsCount)

	failed, err := New(shared.NewID(), "full")
	require.NoError(t, err)
	require.NoError(t, failed.Fail("boom"))
	assert.Error(t, failed.Complete(5))
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusRunning.IsValid())
	assert.True(t, StatusCompleted.IsValid())
	assert.True(t, StatusFailed.IsValid())
	assert.False(t, Status("paused").IsValid())

	assert.False(t, StatusRunning.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
}

package conflagrate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBranchTrackerWaitsForAllBranches(t *testing.T) {
	t.Parallel()

	tr := NewBranchTracker(1)
	require.NoError(t, tr.AddBranch())
	require.NoError(t, tr.AddBranch())

	done := make(chan error, 1)
	go func() { done <- tr.Wait(context.Background()) }()

	select {
	case <-done:
		t.Fatal("Wait returned before all branches retired")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, tr.RemoveBranch())
	require.NoError(t, tr.RemoveBranch())
	require.NoError(t, tr.RemoveBranch())

	require.NoError(t, <-done)
}

func TestBranchTrackerRejectsOperationsAfterClose(t *testing.T) {
	t.Parallel()

	tr := NewBranchTracker(1)
	require.NoError(t, tr.RemoveBranch())

	require.ErrorIs(t, tr.AddBranch(), ErrTrackerClosed)
	require.ErrorIs(t, tr.RemoveBranch(), ErrTrackerClosed)
}

func TestBranchTrackerWaitRespectsContextCancellation(t *testing.T) {
	t.Parallel()

	tr := NewBranchTracker(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := tr.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

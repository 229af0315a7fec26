package deletion_test

import (
	"testing"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/deletion"
	"github.com/stretchr/testify/require"
)

func TestTracker_MarkAndIsDeleted_NoTimestamps(t *testing.T) {
	tr := deletion.New()
	ref := core.FrozenEdge(0, 5)

	require.False(t, tr.IsDeletedOut(ref, core.AllLevels(0)))

	tr.MarkDeletedOut(3, ref, 0, false)
	require.True(t, tr.IsDeletedOut(ref, core.AllLevels(0)))
	require.Equal(t, 1, tr.DeletedOutCount(3))

	// Marking again is a no-op and does not double-count.
	tr.MarkDeletedOut(3, ref, 0, false)
	require.Equal(t, 1, tr.DeletedOutCount(3))
}

func TestTracker_Timestamped(t *testing.T) {
	tr := deletion.New()
	ref := core.FrozenEdge(1, 2)
	tr.MarkDeletedOut(7, ref, 100, true)

	before := core.Window{HasTS: true, ReaderTS: 50}
	after := core.Window{HasTS: true, ReaderTS: 150}

	require.False(t, tr.IsDeletedOut(ref, before))
	require.True(t, tr.IsDeletedOut(ref, after))
}

func TestTracker_DirectionsIndependent(t *testing.T) {
	tr := deletion.New()
	ref := core.FrozenEdge(0, 1)
	tr.MarkDeletedOut(1, ref, 0, false)

	require.True(t, tr.OutView().IsDeleted(ref, core.AllLevels(0)))
	require.False(t, tr.InView().IsDeleted(ref, core.AllLevels(0)))
}

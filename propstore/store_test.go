package propstore_test

import (
	"testing"

	"github.com/katalvlaran/llama-csr/propstore"
	"github.com/stretchr/testify/require"
)

func TestColumn32_CowThenFlush_SurvivesCheckpoint(t *testing.T) {
	s := propstore.NewStore()
	col, err := s.CreateUninitializedNodeProperty32("rank", propstore.TagFloat)
	require.NoError(t, err)

	col.WritableInit()
	col.CowWriteFloat32(3, 0.85)

	v, ok := col.GetFloat32(3)
	require.True(t, ok)
	require.InDelta(t, 0.85, v, 1e-6)

	// Promote overlay writes into a frozen extent (checkpoint's property
	// promotion step); the value must read back identically afterward.
	col.FlushInto(8)
	v2, ok := col.GetFloat32(3)
	require.True(t, ok)
	require.InDelta(t, 0.85, v2, 1e-6)
}

func TestColumn64_StringPtr_RoundTrip(t *testing.T) {
	s := propstore.NewStore()
	col, err := s.CreateUninitializedEdgeProperty64("label", propstore.TagStringPtr)
	require.NoError(t, err)

	col.WritableInit()
	col.CowWriteString(0, "friend-of")

	got, ok := col.GetString(0)
	require.True(t, ok)
	require.Equal(t, "friend-of", got)
}

func TestStore_RejectsTagMismatchOnReregister(t *testing.T) {
	s := propstore.NewStore()
	_, err := s.CreateUninitializedNodeProperty32("x", propstore.TagInt32)
	require.NoError(t, err)

	_, err = s.CreateUninitializedNodeProperty32("x", propstore.TagFloat)
	require.Error(t, err)
}

func TestStore_Create64RejectsNarrowTag(t *testing.T) {
	s := propstore.NewStore()
	_, err := s.CreateUninitializedNodeProperty64("bad", propstore.TagInt32)
	require.Error(t, err)
}

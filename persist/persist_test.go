package persist_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/levelstack"
	"github.com/katalvlaran/llama-csr/persist"
	"github.com/katalvlaran/llama-csr/propstore"
	"github.com/stretchr/testify/require"
)

func buildSampleLevel(t *testing.T) *levelstack.Level {
	t.Helper()
	lvl := levelstack.InitLevelFromDegrees(0, []uint32{2, 0, 1})
	lvl.Edges[0] = 1
	lvl.Edges[1] = 2
	lvl.Edges[2] = 0
	lvl.EdgeWeights = []float64{1.5, 2.5, 3.5}
	return lvl
}

func TestWriteReadLevel_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	lvl := buildSampleLevel(t)

	require.NoError(t, persist.WriteLevel(dir, lvl))

	got, err := persist.ReadLevel(dir, 0)
	require.NoError(t, err)
	require.Equal(t, lvl.Vertices, got.Vertices)
	require.Equal(t, lvl.Edges, got.Edges)
	require.Equal(t, lvl.EdgeWeights, got.EdgeWeights)
}

func TestReadLevel_MissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := persist.ReadLevel(dir, 7)
	require.Error(t, err)
}

func TestReadRecordFile_CorruptChecksumRaisesFault(t *testing.T) {
	dir := t.TempDir()
	lvl := buildSampleLevel(t)
	require.NoError(t, persist.WriteLevel(dir, lvl))

	path := filepath.Join(dir, "level000000.edg")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	defer func() {
		r := recover()
		require.NotNil(t, r)
		fault, ok := r.(*core.Fault)
		require.True(t, ok)
		require.Equal(t, core.FaultCorruptPersisted, fault.Code)
	}()
	_, _ = persist.ReadLevel(dir, 0)
	t.Fatal("expected panic")
}

func TestWriteOpenColumn32_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	store := propstore.NewStore()
	col, err := store.CreateUninitializedNodeProperty32("rank", propstore.TagInt32)
	require.NoError(t, err)
	col.WritableInit()
	col.CowWriteInt32(0, 7)
	col.CowWriteInt32(2, -3)
	col.FlushInto(3)

	require.NoError(t, persist.WriteColumn32(dir, col))

	store2 := propstore.NewStore()
	col2, err := store2.CreateUninitializedNodeProperty32("rank", propstore.TagInt32)
	require.NoError(t, err)
	require.NoError(t, persist.OpenColumn32(dir, "rank", 1, col2))

	v0, ok := col2.GetInt32(0)
	require.True(t, ok)
	require.Equal(t, int32(7), v0)
	v2, ok := col2.GetInt32(2)
	require.True(t, ok)
	require.Equal(t, int32(-3), v2)
}

func TestWriteColumn64_RejectsStringColumns(t *testing.T) {
	dir := t.TempDir()
	store := propstore.NewStore()
	col, err := store.CreateUninitializedNodeProperty64("label", propstore.TagStringPtr)
	require.NoError(t, err)

	err = persist.WriteColumn64(dir, col)
	require.Error(t, err)
}

func TestSaveOpenDatabase_RoundTripsStackAndColumns(t *testing.T) {
	dir := t.TempDir()

	stack := levelstack.New()
	stack.Append(buildSampleLevel(t))

	store := propstore.NewStore()
	weightCol, err := store.CreateUninitializedNodeProperty64("score", propstore.TagDouble)
	require.NoError(t, err)
	weightCol.WritableInit()
	weightCol.CowWriteDouble(1, 9.5)
	weightCol.FlushInto(3)

	require.NoError(t, persist.SaveDatabase(dir, stack, store))

	gotStack, gotStore, cat, err := persist.OpenDatabase(dir)
	require.NoError(t, err)
	require.NotEmpty(t, cat.ID)
	require.Equal(t, []uint32{0}, cat.Levels)
	require.Equal(t, 1, gotStack.NumLevels())
	require.Equal(t, stack.Newest().Edges, gotStack.Newest().Edges)

	gotCol, ok := gotStore.GetNodeProperty64("score")
	require.True(t, ok)
	v, ok := gotCol.GetDouble(1)
	require.True(t, ok)
	require.InDelta(t, 9.5, v, 1e-9)
}

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/llama-csr/llamagraph"
)

// seedDatabase writes a tiny two-node, one-edge database to dir, the way a
// real llamagraph.Graph.Save caller would, so the CLI tests below have
// something real to open.
func seedDatabase(t *testing.T, dir string) {
	t.Helper()
	g, err := llamagraph.New()
	require.NoError(t, err)

	g.AddNodeID(0, 0)
	g.AddNodeID(1, 0)
	g.AddEdge(0, 1, 0)
	require.NoError(t, g.Checkpoint(context.Background()))
	require.NoError(t, g.Save(dir))
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestStatCmd_ReportsLevelAndNodeCounts(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, dir)

	out := runCLI(t, "stat", "--db", dir)
	require.Contains(t, out, "levels:      1")
	require.Contains(t, out, "max_node_id: 2")
}

func TestLevelsCmd_ListsOneLevel(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, dir)

	out := runCLI(t, "levels", "--db", dir)
	require.Contains(t, out, "NUMBER")
	require.Contains(t, out, "0")
}

func TestDegreeCmd_ReportsOutAndInDegree(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, dir)

	out := runCLI(t, "degree", "0", "--db", dir, "--direction", "out")
	require.Contains(t, out, "1")

	out = runCLI(t, "degree", "1", "--db", dir, "--direction", "in")
	require.Contains(t, out, "0")
}

func TestDegreeCmd_RejectsUnknownDirection(t *testing.T) {
	dir := t.TempDir()
	seedDatabase(t, dir)

	cmd := rootCmd()
	cmd.SetArgs([]string{"degree", "0", "--db", dir, "--direction", "sideways"})
	cmd.SetOut(new(bytes.Buffer))
	require.Error(t, cmd.Execute())
}

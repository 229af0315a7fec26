package snapfmt_test

import (
	"strings"
	"testing"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/datasource/snapfmt"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, r *snapfmt.Reader) ([]core.NodeID, []core.NodeID, error) {
	t.Helper()
	var tails, heads []core.NodeID
	for {
		e, ok, err := r.NextEdge()
		if err != nil {
			return tails, heads, err
		}
		if !ok {
			return tails, heads, nil
		}
		tails = append(tails, e.Tail)
		heads = append(heads, e.Head)
	}
}

func TestReader_SkipsCommentsAndBlankLines(t *testing.T) {
	input := "# comment\n\n1 2\n3   4\n"
	r := snapfmt.NewReader(strings.NewReader(input), 0)

	tails, heads, err := drain(t, r)
	require.NoError(t, err)
	require.Equal(t, []core.NodeID{1, 3}, tails)
	require.Equal(t, []core.NodeID{2, 4}, heads)
}

func TestReader_ToleratesMalformedLinesUpToBudget(t *testing.T) {
	input := "1 2\nnotanumber\n3 4\n"
	r := snapfmt.NewReader(strings.NewReader(input), 1)

	tails, _, err := drain(t, r)
	require.NoError(t, err)
	require.Equal(t, []core.NodeID{1, 3}, tails)
}

func TestReader_FailsFastPastBudget(t *testing.T) {
	input := "bad1\nbad2\n1 2\n"
	r := snapfmt.NewReader(strings.NewReader(input), 1)

	_, _, err := drain(t, r)
	require.Error(t, err)
}

func TestReader_ZeroBudgetFailsOnFirstMalformedLine(t *testing.T) {
	r := snapfmt.NewReader(strings.NewReader("nope\n"), 0)
	_, ok, err := r.NextEdge()
	require.Error(t, err)
	require.False(t, ok)
}

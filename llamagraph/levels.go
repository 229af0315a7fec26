package llamagraph

import "github.com/katalvlaran/llama-csr/levelstack"

// SetMinLevel records that no future reader needs levels below l, on both
// stacks this Graph maintains. It does not itself free anything; call
// DeleteLevel for each level number now eligible, once no outstanding
// iterator holds a Window requiring it.
func (g *Graph) SetMinLevel(l uint32) {
	g.out.SetMinLevel(l)
	if g.in != nil {
		g.in.SetMinLevel(l)
	}
}

// DeleteLevel removes the level numbered n from both stacks and releases
// any string-arena references its property-column extents held. The
// caller is responsible for SetMinLevel having already retired n on every
// reader's Window.
func (g *Graph) DeleteLevel(n uint32) {
	if stackIndexOf(g.out, n) >= 0 {
		g.props.OnLevelDeleted(int(n))
	}
	g.out.DeleteLevel(n)
	if g.in != nil {
		g.in.DeleteLevel(n)
	}
}

// stackIndexOf returns s's stack-position index for the level numbered n
// (distinct from n itself once any earlier level has been deleted), or -1
// if no such level is retained. DeleteLevel uses it only as an existence
// check: a column's extents are never removed when a level is deleted, so
// propstore.Store.OnLevelDeleted addresses them by Level.Number, not by
// this shifting stack position.
func stackIndexOf(s *levelstack.Stack, n uint32) int {
	for i := 0; i < s.NumLevels(); i++ {
		if lvl := s.LevelAt(i); lvl != nil && lvl.Number == n {
			return i
		}
	}
	return -1
}

package montecarlo

import (
	"math"

	"github.com/mosaicmind/mosaic/game"
	"github.com/mosaicmind/mosaic/move"
	"github.com/mosaicmind/mosaic/movegen"
	"github.com/mosaicmind/mosaic/stats"
)

// node is a search-tree node for the position reached by playing m from
// the parent. A node is unexpanded until its move list is generated,
// expanded afterwards, and terminal if no moves exist (round boundary).
type node struct {
	m      move.Move
	parent *node

	// onTurn is the agent to move at this node's position.
	onTurn   int
	children []*node
	// untried holds generated but not yet expanded moves, in generator
	// order.
	untried  []move.Move
	expanded bool
	terminal bool

	visits uint64
	// values accumulates one backpropagated score per agent.
	values []float64
	// stat tracks the running distribution of this child's value for
	// the agent on turn at the parent; only root children maintain it.
	stat stats.Statistic
}

func newNode(m move.Move, parent *node, onTurn, numPlayers int) *node {
	return &node{
		m:      m,
		parent: parent,
		onTurn: onTurn,
		values: make([]float64, numPlayers),
	}
}

// expand generates this node's move list from st, which must be the
// node's position.
func (n *node) expand(st *game.State) {
	n.untried = movegen.Generate(st, n.onTurn)
	n.expanded = true
	n.terminal = len(n.untried) == 0
}

func (n *node) mean(agentID int) float64 {
	if n.visits == 0 {
		return 0
	}
	return n.values[agentID] / float64(n.visits)
}

// selectChild returns the child maximizing UCB1 for the agent on turn
// at n. Ties go to the earlier-generated child.
func (n *node) selectChild(c float64) *node {
	logN := math.Log(float64(n.visits))
	var best *node
	bestScore := math.Inf(-1)
	for _, child := range n.children {
		score := child.mean(n.onTurn) +
			c*math.Sqrt(logN/float64(child.visits))
		if score > bestScore {
			best = child
			bestScore = score
		}
	}
	return best
}

// robustChild returns the highest-visit child; ties go to the
// earlier-generated child. This has lower variance than picking the
// highest mean.
func (n *node) robustChild() *node {
	var best *node
	for _, child := range n.children {
		if best == nil || child.visits > best.visits {
			best = child
		}
	}
	return best
}

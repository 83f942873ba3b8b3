package mcts

import (
	"math"

	"github.com/wordforge/wordforge/pool"
)

const defaultExplorationConstant = 1.414

// node is one partial letter sequence in the search tree. Children are
// unique per resulting state. The parent pointer is non-owning; each
// per-worker tree is discarded wholesale after the search.
type node struct {
	state    string
	parent   *node
	children []*node
	// untried holds next letters not yet expanded into children, drawn
	// from the letters remaining at this node.
	untried []byte

	visitCount uint32
	winCount   float64
}

func newNode(state string, parent *node, remaining *pool.LetterPool) *node {
	return &node{
		state:   state,
		parent:  parent,
		untried: remaining.Distinct(),
	}
}

func (n *node) update(reward float64) {
	n.visitCount++
	n.winCount += reward
}

func (n *node) meanReward() float64 {
	if n.visitCount == 0 {
		return 0
	}
	return n.winCount / float64(n.visitCount)
}

// uct computes the UCB1 score of n from its parent's perspective. An
// unvisited node scores +Inf so every child is tried once before any is
// revisited.
func (n *node) uct(c float64) float64 {
	if n.visitCount == 0 {
		return math.Inf(1)
	}
	if n.parent == nil || n.parent.visitCount == 0 {
		return n.meanReward()
	}
	exploit := n.meanReward()
	explore := c * math.Sqrt(math.Log(float64(n.parent.visitCount))/float64(n.visitCount))
	return exploit + explore
}

func (n *node) fullyExpanded() bool {
	return len(n.untried) == 0
}

func (n *node) bestChild(c float64) *node {
	var best *node
	bestScore := math.Inf(-1)
	for _, child := range n.children {
		if score := child.uct(c); score > bestScore {
			bestScore = score
			best = child
		}
	}
	return best
}

// bestVisitedDescendant follows, at each level, the visited child with
// the highest mean reward. Used as the extraction fallback when no
// single rollout produced a strictly best word.
func (n *node) bestVisitedDescendant() *node {
	cur := n
	for {
		var best *node
		bestMean := math.Inf(-1)
		for _, child := range cur.children {
			if child.visitCount == 0 {
				continue
			}
			if m := child.meanReward(); m > bestMean {
				bestMean = m
				best = child
			}
		}
		if best == nil {
			return cur
		}
		cur = best
	}
}

func (n *node) countNodes() int {
	count := 1
	for _, child := range n.children {
		count += child.countNodes()
	}
	return count
}

func (n *node) branchingStats() (branches, interior int) {
	if len(n.children) > 0 {
		branches += len(n.children)
		interior++
	}
	for _, child := range n.children {
		b, i := child.branchingStats()
		branches += b
		interior += i
	}
	return branches, interior
}

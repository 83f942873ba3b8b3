// Package mcts implements a Monte-Carlo Tree Search over partial letter
// sequences. This is a single-agent optimization search, not an
// adversarial game tree: rewards are never flipped during
// backpropagation. Selection uses UCB1, expansion consumes letters from
// the pool multiset without replacement, and rollouts try short random,
// greedy and balanced completions checked against the trie and the
// valid-word set.
//
// The search can run rollouts in parallel: each worker owns a private
// tree shard (visit and win accumulation never crosses workers), and
// the shards' results are merged when the workers drain. A canceled
// context truncates remaining simulations and keeps the best result
// found so far.
package mcts

import (
	"context"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/wordforge/wordforge/lexicon"
	"github.com/wordforge/wordforge/pool"
	"github.com/wordforge/wordforge/rng"
	"github.com/wordforge/wordforge/stats"
	"github.com/wordforge/wordforge/trie"
)

const (
	defaultMaxDepth    = 15
	defaultSimulations = 200
	defaultMinLength   = 3
	rolloutTries       = 3
	balancedExploreP   = 0.3
)

type rolloutStrategy string

const (
	strategyRandom   rolloutStrategy = "random"
	strategyGreedy   rolloutStrategy = "greedy"
	strategyBalanced rolloutStrategy = "balanced"
)

var rolloutStrategies = []rolloutStrategy{strategyRandom, strategyGreedy, strategyBalanced}

// SearchStats describes one completed search invocation.
type SearchStats struct {
	Simulations     int            `yaml:"simulations"`
	Nodes           int            `yaml:"nodes"`
	AvgBranching    float64        `yaml:"avg_branching"`
	BestWord        string         `yaml:"best_word,omitempty"`
	BestReward      float64        `yaml:"best_reward"`
	RewardMean      float64        `yaml:"reward_mean"`
	RewardStdev     float64        `yaml:"reward_stdev"`
	StrategyWins    map[string]int `yaml:"strategy_wins"`
	Elapsed         time.Duration  `yaml:"elapsed"`
	WorkersUsed     int            `yaml:"workers"`
	TruncatedByCtx  bool           `yaml:"truncated,omitempty"`
	FallbackExtract bool           `yaml:"fallback_extract,omitempty"`
}

// Explorer runs MCTS searches. Trees are rebuilt per Search call and
// discarded after the best word is extracted; no cross-turn retention.
type Explorer struct {
	trie *trie.Trie
	lex  lexicon.Lexicon

	maxDepth     int
	simulations  int
	minLength    int
	explorationC float64
	threads      int

	// A caller-injected randomizer pins the search to one worker so
	// tests get deterministic traversals.
	injectedRand rng.Source

	logMu     sync.Mutex
	logStream io.Writer

	lastStats SearchStats
}

func NewExplorer(t *trie.Trie, lex lexicon.Lexicon) *Explorer {
	if lex == nil {
		lex = lexicon.AcceptAll{}
	}
	return &Explorer{
		trie:         t,
		lex:          lex,
		maxDepth:     defaultMaxDepth,
		simulations:  defaultSimulations,
		minLength:    defaultMinLength,
		explorationC: defaultExplorationConstant,
		threads:      max(1, runtime.NumCPU()),
	}
}

func (e *Explorer) SetSimulations(n int) {
	e.simulations = n
}

func (e *Explorer) SetMaxDepth(d int) {
	e.maxDepth = d
}

func (e *Explorer) SetMinLength(n int) {
	e.minLength = n
}

func (e *Explorer) SetThreads(n int) {
	e.threads = max(1, n)
}

func (e *Explorer) SetRandomizer(r rng.Source) {
	e.injectedRand = r
}

// Stats returns the statistics of the most recent Search.
func (e *Explorer) Stats() SearchStats {
	return e.lastStats
}

type workerResult struct {
	bestWord     string
	bestReward   float64
	rewards      stats.Statistic
	nodes        int
	branches     int
	interior     int
	strategyWins map[rolloutStrategy]int
	root         *node
}

// Search runs the configured number of simulations and returns the best
// valid word found, or "" when the pool is empty or nothing valid was
// reached. An empty result is an exhaustion outcome, not an error.
func (e *Explorer) Search(ctx context.Context, letters *pool.LetterPool) string {
	start := time.Now()
	e.lastStats = SearchStats{StrategyWins: map[string]int{}}
	if letters == nil || letters.Empty() {
		return ""
	}

	threads := e.threads
	if e.injectedRand != nil {
		threads = 1
	}

	var simCount atomic.Int64
	results := make([]workerResult, threads)

	g := errgroup.Group{}
	for t := 0; t < threads; t++ {
		t := t
		g.Go(func() error {
			r := e.injectedRand
			if r == nil {
				r = rng.Default()
			}
			results[t] = e.runWorker(ctx, t, letters, r, &simCount)
			return nil
		})
	}
	// Workers never return errors; exhaustion is a valid outcome.
	_ = g.Wait()

	st := SearchStats{
		Simulations:  int(simCount.Load()),
		StrategyWins: map[string]int{},
		WorkersUsed:  threads,
		Elapsed:      time.Since(start),
	}
	if ctx.Err() != nil {
		st.TruncatedByCtx = true
	}

	best := ""
	bestReward := 0.0
	var mostVisitedRoot *node
	var rewards stats.Statistic
	branches, interior := 0, 0
	for _, res := range results {
		rewards.Merge(&res.rewards)
		st.Nodes += res.nodes
		branches += res.branches
		interior += res.interior
		for s, n := range res.strategyWins {
			st.StrategyWins[string(s)] += n
		}
		if res.bestReward > bestReward {
			bestReward = res.bestReward
			best = res.bestWord
		}
		if mostVisitedRoot == nil || res.root.visitCount > mostVisitedRoot.visitCount {
			mostVisitedRoot = res.root
		}
	}

	if best == "" && mostVisitedRoot != nil {
		// No rollout ever completed a word; fall back to walking the
		// deepest well-rewarded path and see if it happens to be legal.
		cand := mostVisitedRoot.bestVisitedDescendant().state
		if len(cand) >= e.minLength && e.isValidWord(cand) {
			best = cand
			st.FallbackExtract = true
		}
	}

	st.BestWord = best
	st.BestReward = bestReward
	st.RewardMean = rewards.Mean()
	st.RewardStdev = rewards.Stdev()
	if interior > 0 {
		st.AvgBranching = float64(branches) / float64(interior)
	}
	e.lastStats = st

	log.Debug().Str("best", best).Float64("reward", bestReward).
		Int("sims", st.Simulations).Int("nodes", st.Nodes).
		Msg("mcts-search-done")
	return best
}

func (e *Explorer) runWorker(ctx context.Context, thread int, letters *pool.LetterPool,
	r rng.Source, simCount *atomic.Int64) workerResult {

	root := newNode("", nil, letters)
	res := workerResult{root: root, strategyWins: map[rolloutStrategy]int{}}

	for {
		if ctx.Err() != nil {
			break
		}
		iter := simCount.Add(1)
		if iter > int64(e.simulations) {
			simCount.Add(-1)
			break
		}

		nd := e.selectNode(root, r)
		child := e.expand(nd, letters, r)
		if child == nil {
			child = nd
		}
		reward, word, strat := e.rollout(child, letters, r)
		e.backpropagate(child, reward)
		res.rewards.Push(reward)

		if reward > 0 {
			res.strategyWins[strat]++
		}
		if reward > res.bestReward {
			res.bestReward = reward
			res.bestWord = word
		}
		e.logIteration(int(iter), thread, child.state, reward, res.bestWord)
	}

	res.nodes = root.countNodes()
	res.branches, res.interior = root.branchingStats()
	return res
}

// selectNode descends while the current node is fully expanded and has
// children, always preferring an unvisited child (UCT +Inf) before
// revisiting any sibling.
func (e *Explorer) selectNode(root *node, r rng.Source) *node {
	nd := root
	for len(nd.state) < e.maxDepth && nd.fullyExpanded() && len(nd.children) > 0 {
		var unvisited []*node
		for _, child := range nd.children {
			if child.visitCount == 0 {
				unvisited = append(unvisited, child)
			}
		}
		if len(unvisited) > 0 {
			return unvisited[r.Intn(len(unvisited))]
		}
		next := nd.bestChild(e.explorationC)
		if next == nil {
			break
		}
		nd = next
	}
	return nd
}

// expand creates children for every untried letter still present in the
// remaining multiset, then returns a random child for rollout. Letters
// already consumed by the node's state are unavailable.
func (e *Explorer) expand(nd *node, letters *pool.LetterPool, r rng.Source) *node {
	if len(nd.state) >= e.maxDepth {
		return nil
	}
	remaining := remainingLetters(letters, nd.state)
	if remaining.Empty() {
		return nil
	}

	for _, c := range nd.untried {
		if !remaining.Has(c) {
			continue
		}
		childRemaining := remaining.Copy()
		childRemaining.Take(c)
		nd.children = append(nd.children, newNode(nd.state+string(c), nd, childRemaining))
	}
	nd.untried = nil

	if len(nd.children) == 0 {
		return nil
	}
	return nd.children[r.Intn(len(nd.children))]
}

// rollout tries the random, greedy and balanced completion strategies in
// order and returns the first positive reward, along with the completed
// word that earned it.
func (e *Explorer) rollout(nd *node, letters *pool.LetterPool, r rng.Source) (float64, string, rolloutStrategy) {
	// The node's own state may already be a complete word; a rollout
	// that extends it can only win if the longer word is also legal.
	selfReward := e.completionReward(nd.state)

	remaining := remainingLetters(letters, nd.state)
	if remaining.Empty() {
		return selfReward, nd.state, strategyGreedy
	}
	for _, strat := range rolloutStrategies {
		var reward float64
		var word string
		switch strat {
		case strategyRandom:
			reward, word = e.rolloutRandom(nd.state, remaining, r)
		case strategyGreedy:
			reward, word = e.rolloutGreedy(nd.state, remaining)
		case strategyBalanced:
			if r.Float64() < balancedExploreP {
				reward, word = e.rolloutRandom(nd.state, remaining, r)
			} else {
				reward, word = e.rolloutGreedy(nd.state, remaining)
			}
		}
		if reward > 0 {
			return reward, word, strat
		}
	}
	if selfReward > 0 {
		return selfReward, nd.state, strategyGreedy
	}
	return 0, "", strategyRandom
}

// rolloutRandom extends the state with a random remaining letter, up to
// rolloutTries times, looking for a legal completion.
func (e *Explorer) rolloutRandom(state string, remaining *pool.LetterPool, r rng.Source) (float64, string) {
	distinct := remaining.Distinct()
	if len(distinct) == 0 {
		return 0, ""
	}
	for try := 0; try < rolloutTries; try++ {
		word := state + string(distinct[r.Intn(len(distinct))])
		if reward := e.completionReward(word); reward > 0 {
			return reward, word
		}
	}
	return 0, ""
}

// rolloutGreedy tries every remaining letter and keeps the best legal
// completion.
func (e *Explorer) rolloutGreedy(state string, remaining *pool.LetterPool) (float64, string) {
	bestReward := 0.0
	bestWord := ""
	for _, c := range remaining.Distinct() {
		word := state + string(c)
		if reward := e.completionReward(word); reward > bestReward {
			bestReward = reward
			bestWord = word
		}
	}
	return bestReward, bestWord
}

// completionReward scores a candidate completion: zero if illegal,
// otherwise proportional to length so longer valid words beat merely
// legal ones.
func (e *Explorer) completionReward(word string) float64 {
	if len(word) < e.minLength || !e.isValidWord(word) {
		return 0
	}
	return float64(len(word)) * 2
}

func (e *Explorer) isValidWord(word string) bool {
	return e.trie.Search(word) && e.lex.HasWord(word)
}

// backpropagate walks from nd to the root incrementing visits and
// accumulating reward. Single-agent search: the reward is never
// inverted.
func (e *Explorer) backpropagate(nd *node, reward float64) {
	for n := nd; n != nil; n = n.parent {
		n.update(reward)
	}
}

// remainingLetters returns the pool minus the letters consumed by state.
func remainingLetters(letters *pool.LetterPool, state string) *pool.LetterPool {
	remaining := letters.Copy()
	for i := 0; i < len(state); i++ {
		remaining.Take(state[i])
	}
	return remaining
}

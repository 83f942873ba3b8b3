// Package strategy coordinates the candidate-generation, scoring and
// selection models into one decision engine. Per turn: the Markov
// generator and the MCTS explorer propose candidates, the Naive-Bayes
// scorer values them, the Q-learning selector makes (or is overridden
// on) the final pick, and the eventual outcome fans back into every
// learner.
package strategy

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/wordforge/wordforge/bayes"
	"github.com/wordforge/wordforge/lexicon"
	"github.com/wordforge/wordforge/markov"
	"github.com/wordforge/wordforge/mcts"
	"github.com/wordforge/wordforge/pool"
	"github.com/wordforge/wordforge/qlearn"
	"github.com/wordforge/wordforge/rng"
	"github.com/wordforge/wordforge/stats"
	"github.com/wordforge/wordforge/store"
	"github.com/wordforge/wordforge/trie"
	"github.com/wordforge/wordforge/wordstats"
)

// phase is the coordinator's decision state machine.
type phase int

const (
	phaseIdle phase = iota
	phaseGenerating
	phaseScoring
	phaseSelecting
	phaseAwaitingFeedback
)

// Source records which model produced a candidate.
type Source string

const (
	SourceMarkov Source = "markov"
	SourceMCTS   Source = "mcts"
)

// Candidate is a proposed word with provenance and its Naive-Bayes
// score. Candidates are rebuilt fresh each turn and never persisted.
type Candidate struct {
	Word   string
	Source Source
	Score  float64
}

// Engine is the strategy coordinator. One ChooseWord call runs to
// completion before the next begins; the mutex serializes decisions
// because the search trees and table lookups are not designed for
// interleaved mutation.
type Engine struct {
	mu sync.Mutex

	analyzer *wordstats.Analyzer

	markov *markov.Generator
	mcts   *mcts.Explorer
	bayes  *bayes.Scorer
	qlearn *qlearn.Selector

	difficulty Difficulty
	weights    Weights
	phase      phase

	// pending spans ChooseWord and OnOutcome: the candidates of the
	// current turn keyed by word, and the pool they were chosen from.
	pending        map[string]Candidate
	pendingLetters *pool.LetterPool

	totalDecisions  int
	successfulWords int
	modelSuccess    map[Model]*stats.Statistic
	history         []Decision
}

// NewEngine builds a coordinator over an already-populated trie and
// legality oracle. The Markov chain order is fixed at 2.
func NewEngine(tr *trie.Trie, lex lexicon.Lexicon, difficulty Difficulty) (*Engine, error) {
	if lex == nil {
		lex = lexicon.AcceptAll{}
	}
	gen, err := markov.New(tr, lex, 2)
	if err != nil {
		return nil, err
	}
	analyzer := wordstats.NewAnalyzer()

	e := &Engine{
		analyzer:     analyzer,
		markov:       gen,
		mcts:         mcts.NewExplorer(tr, lex),
		bayes:        bayes.NewScorer(analyzer),
		qlearn:       qlearn.NewSelector(),
		difficulty:   difficulty,
		weights:      InitialWeights(difficulty),
		modelSuccess: make(map[Model]*stats.Statistic),
	}
	for _, m := range AllModels {
		e.modelSuccess[m] = &stats.Statistic{}
	}
	return e, nil
}

// SetStores attaches durable persistence to the learners. Either store
// may be nil to stay in-memory.
func (e *Engine) SetStores(ms store.MarkovStore, qs store.QStore) {
	if ms != nil {
		e.markov.SetStore(ms)
	}
	if qs != nil {
		e.qlearn.SetStore(qs)
	}
}

// SetRandomizer makes every model sample from r; searches become
// deterministic (and single-threaded) for tests.
func (e *Engine) SetRandomizer(r rng.Source) {
	e.markov.SetRandomizer(r)
	e.mcts.SetRandomizer(r)
	e.qlearn.SetRandomizer(r)
}

func (e *Engine) MCTS() *mcts.Explorer {
	return e.mcts
}

func (e *Engine) Markov() *markov.Generator {
	return e.markov
}

func (e *Engine) QLearn() *qlearn.Selector {
	return e.qlearn
}

// Train fits the Markov chain and the frequency analyzer on the corpus.
func (e *Engine) Train(words []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.markov.Train(words); err != nil {
		return err
	}
	e.analyzer.AnalyzeWords(words)
	return nil
}

// StartGame resets per-game learner state: exploration decays and the
// weight table snaps back to the difficulty baseline.
func (e *Engine) StartGame(difficulty Difficulty) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.difficulty = difficulty
	e.weights = InitialWeights(difficulty)
	e.qlearn.StartGame()
	e.phase = phaseIdle
}

// ChooseWord runs one full decision over the available letters. An
// empty result means the AI found no move; it is an expected outcome
// under a sparse pool, never an error.
func (e *Engine) ChooseWord(ctx context.Context, letters *pool.LetterPool) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.totalDecisions++
	if letters == nil || letters.Empty() {
		return ""
	}

	e.phase = phaseGenerating
	candidates := e.generateCandidates(ctx, letters)
	if len(candidates) == 0 {
		e.phase = phaseIdle
		log.Debug().Str("letters", letters.StateKey()).Msg("no-candidates-found")
		return ""
	}

	e.phase = phaseScoring
	for i := range candidates {
		candidates[i].Score = e.bayes.Score(candidates[i].Word)
	}

	e.phase = phaseSelecting
	chosen := e.selectWord(letters, candidates)

	e.pending = lo.KeyBy(candidates, func(c Candidate) string { return c.Word })
	e.pendingLetters = letters.Copy()
	e.phase = phaseAwaitingFeedback

	log.Debug().Str("letters", letters.StateKey()).Str("word", chosen).
		Int("candidates", len(candidates)).Msg("word-chosen")
	return chosen
}

// generateCandidates collects proposals from the Markov generator and
// the MCTS explorer, merging duplicates by word.
func (e *Engine) generateCandidates(ctx context.Context, letters *pool.LetterPool) []Candidate {
	var candidates []Candidate
	if w := e.markov.Generate(letters); w != "" {
		candidates = append(candidates, Candidate{Word: w, Source: SourceMarkov})
	}
	if w := e.mcts.Search(ctx, letters); w != "" {
		candidates = append(candidates, Candidate{Word: w, Source: SourceMCTS})
	}
	return lo.UniqBy(candidates, func(c Candidate) string { return c.Word })
}

// selectWord applies the selection policy: a sufficiently confident
// MCTS candidate wins outright, then the Q-learning choice, then the
// highest-scored candidate.
func (e *Engine) selectWord(letters *pool.LetterPool, candidates []Candidate) string {
	threshold := mctsConfidenceThreshold[e.difficulty]
	for _, c := range candidates {
		if c.Source == SourceMCTS && c.Score > threshold {
			e.qlearn.RecordChoice(letters, c.Word)
			return c.Word
		}
	}

	words := lo.Map(candidates, func(c Candidate, _ int) string { return c.Word })
	if action := e.qlearn.SelectAction(letters, words); action != "" {
		return action
	}

	best := lo.MaxBy(candidates, func(a, b Candidate) bool { return a.Score > b.Score })
	e.qlearn.RecordChoice(letters, best.Word)
	return best.Word
}

// OnOutcome fans the result of a placed word back into every learner
// and adjusts the ensemble weights toward whichever model proposed it.
func (e *Engine) OnOutcome(word string, isValid bool, score int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	word = strings.ToUpper(word)
	reward := float64(score) / 10.0
	if !isValid {
		reward = -1.0
	}

	if isValid && word != "" {
		e.successfulWords++
		e.analyzer.ObserveWord(word)
		e.bayes.Observe(word)
		e.markov.Learn(word, reward)
	}

	e.qlearn.Update(reward, e.pendingLetters)

	matched, ok := e.pending[word]
	if ok {
		success := 0.0
		if isValid {
			success = 1.0
			e.weights.Reward(sourceModel(matched.Source))
		}
		e.modelSuccess[sourceModel(matched.Source)].Push(success)
	}

	e.recordDecision(word, matched.Source, isValid, score)
	e.pending = nil
	e.pendingLetters = nil
	e.phase = phaseIdle

	log.Debug().Str("word", word).Bool("valid", isValid).Int64("score", score).
		Msg("outcome-recorded")
}

func sourceModel(s Source) Model {
	if s == SourceMCTS {
		return ModelMCTS
	}
	return ModelMarkov
}

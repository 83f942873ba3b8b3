// Package markov implements an order-N letter-transition model trained
// on a word corpus. Generation samples a start gram and then extends it
// letter by letter, restricted at every step to letters still available
// in the pool and to prefixes the trie confirms can still reach a word.
package markov

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wordforge/wordforge/lexicon"
	"github.com/wordforge/wordforge/pool"
	"github.com/wordforge/wordforge/rng"
	"github.com/wordforge/wordforge/store"
	"github.com/wordforge/wordforge/trie"
)

// StartState is the pseudo-state whose outgoing transitions are the
// initial order-length grams.
const StartState = "START"

var (
	ErrEmptyCorpus = errors.New("cannot train on an empty word list")
	ErrNotTrained  = errors.New("model has not been trained")
)

const (
	defaultMinLength   = 3
	defaultMaxLength   = 15
	defaultMaxAttempts = 10
)

// Generator is the Markov-chain word generator.
type Generator struct {
	order int
	trie  *trie.Trie
	lex   lexicon.Lexicon
	store store.MarkovStore // optional; nil means in-memory only
	rand  rng.Source

	// transitions maps a gram to raw outgoing counts per next letter.
	// Counts are normalized lazily at sampling time.
	transitions map[string]map[byte]int
	startCounts map[string]int
	trained     bool

	minLength   int
	maxLength   int
	maxAttempts int
}

// New creates a Generator. A chain order below 1 is a configuration
// error and fails fast.
func New(t *trie.Trie, lex lexicon.Lexicon, order int) (*Generator, error) {
	if order < 1 {
		return nil, fmt.Errorf("markov order must be at least 1, got %d", order)
	}
	if lex == nil {
		lex = lexicon.AcceptAll{}
	}
	return &Generator{
		order:       order,
		trie:        t,
		lex:         lex,
		rand:        rng.Default(),
		transitions: make(map[string]map[byte]int),
		startCounts: make(map[string]int),
		minLength:   defaultMinLength,
		maxLength:   defaultMaxLength,
		maxAttempts: defaultMaxAttempts,
	}, nil
}

func (g *Generator) SetRandomizer(r rng.Source) {
	g.rand = r
}

func (g *Generator) SetStore(s store.MarkovStore) {
	g.store = s
}

// SetWordBounds overrides the minimum and maximum generated lengths.
func (g *Generator) SetWordBounds(min, max int) {
	g.minLength = min
	g.maxLength = max
}

func (g *Generator) Order() int {
	return g.order
}

func (g *Generator) Trained() bool {
	return g.trained
}

// States returns the number of grams with recorded outgoing transitions.
func (g *Generator) States() int {
	return len(g.transitions)
}

// Train records START and sliding-window transitions for every
// alphabetic word of at least order length. Non-alphabetic tokens are
// filtered; an effectively empty corpus is an error.
func (g *Generator) Train(words []string) error {
	filtered := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w == "" || !isAlpha(w) || len(w) < g.order {
			continue
		}
		filtered = append(filtered, w)
	}
	if len(filtered) == 0 {
		return ErrEmptyCorpus
	}

	for _, w := range filtered {
		g.recordWord(w, 1)
	}
	g.trained = true
	log.Debug().Int("words", len(filtered)).Int("states", len(g.transitions)).
		Msg("markov-trained")
	return nil
}

func (g *Generator) recordWord(word string, count int) {
	start := word[:g.order]
	g.startCounts[start] += count
	g.persist(StartState, start, count)

	for i := 0; i+g.order < len(word); i++ {
		gram := word[i : i+g.order]
		next := word[i+g.order]
		t, ok := g.transitions[gram]
		if !ok {
			t = make(map[byte]int)
			g.transitions[gram] = t
		}
		t[next] += count
		g.persist(gram, string(next), count)
	}
}

// persist mirrors a transition into the durable store. Store failures
// degrade to in-memory state only.
func (g *Generator) persist(current, next string, count int) {
	if g.store == nil {
		return
	}
	if err := g.store.RecordTransition(current, next, count); err != nil {
		log.Warn().Err(err).Str("state", current).Msg("markov-store-record-failed")
	}
}

// Learn reinforces the transition path of a successfully played word.
// The boost scales with the awarded score so high-value words pull the
// distributions harder.
func (g *Generator) Learn(word string, score float64) {
	word = strings.ToUpper(word)
	if word == "" || !isAlpha(word) || len(word) < g.order {
		return
	}
	boost := int(score * 100)
	if boost < 1 {
		boost = 1
	}
	g.recordWord(word, boost)
}

// Generate produces a trie-valid, lexicon-valid word formable from the
// pool, or "" when bounded attempts all dead-end. An empty result is an
// exhaustion outcome, not an error.
func (g *Generator) Generate(letters *pool.LetterPool) string {
	if !g.trained || letters == nil || letters.Empty() {
		return ""
	}
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if w := g.generateOnce(letters); w != "" {
			return w
		}
	}
	return ""
}

func (g *Generator) generateOnce(letters *pool.LetterPool) string {
	remaining := letters.Copy()

	word := g.sampleStart(remaining)
	if word == "" {
		return ""
	}
	for _, c := range []byte(word) {
		remaining.Take(c)
	}

	for len(word) < g.maxLength {
		next, ok := g.sampleNext(word, remaining)
		if !ok {
			break
		}
		word += string(next)
		remaining.Take(next)
	}

	if len(word) >= g.minLength && g.trie.Search(word) && g.lex.HasWord(word) {
		return word
	}
	return ""
}

// sampleStart draws a start gram from the START distribution restricted
// to grams formable from the pool and trie-valid as prefixes.
func (g *Generator) sampleStart(letters *pool.LetterPool) string {
	grams := make([]string, 0, len(g.startCounts))
	weights := make([]int, 0, len(g.startCounts))
	for gram, count := range g.startCounts {
		if letters.CanForm(gram) && g.trie.StartsWith(gram) {
			grams = append(grams, gram)
			weights = append(weights, count)
		}
	}
	idx := g.weightedPick(weights)
	if idx < 0 {
		return ""
	}
	return grams[idx]
}

// sampleNext draws the next letter for the current word, restricted to
// letters remaining in the pool and to extendable trie prefixes. A state
// with no recorded outgoing transitions is a dead end.
func (g *Generator) sampleNext(word string, letters *pool.LetterPool) (byte, bool) {
	gram := word[len(word)-g.order:]
	outgoing, ok := g.transitions[gram]
	if !ok {
		return 0, false
	}
	candidates := make([]byte, 0, len(outgoing))
	weights := make([]int, 0, len(outgoing))
	for next, count := range outgoing {
		if letters.Has(next) && g.trie.StartsWith(word+string(next)) {
			candidates = append(candidates, next)
			weights = append(weights, count)
		}
	}
	idx := g.weightedPick(weights)
	if idx < 0 {
		return 0, false
	}
	return candidates[idx], true
}

// weightedPick returns an index drawn proportionally to weights, or -1
// if the total weight is zero.
func (g *Generator) weightedPick(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return -1
	}
	n := g.rand.Intn(total)
	for i, w := range weights {
		n -= w
		if n < 0 {
			return i
		}
	}
	return -1
}

func isAlpha(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return true
}

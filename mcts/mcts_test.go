package mcts

import (
	"bytes"
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/wordforge/wordforge/lexicon"
	"github.com/wordforge/wordforge/pool"
	"github.com/wordforge/wordforge/trie"
)

func newExplorer(words []string) *Explorer {
	e := NewExplorer(trie.NewFromWords(words), lexicon.NewWordSet("test", words))
	e.SetRandomizer(rand.New(rand.NewSource(11)))
	e.SetSimulations(1000)
	return e
}

func TestUCTUnvisitedIsInfinite(t *testing.T) {
	is := is.New(t)
	letters := pool.FromString("ATE")
	parent := newNode("", nil, letters)
	parent.visitCount = 5

	child := newNode("A", parent, pool.FromString("TE"))
	is.True(math.IsInf(child.uct(defaultExplorationConstant), 1))

	child.update(4)
	is.True(!math.IsInf(child.uct(defaultExplorationConstant), 1))
	is.Equal(child.visitCount, uint32(1))
	is.True(child.meanReward() == 4)
}

func TestUCTBalancesExploitAndExplore(t *testing.T) {
	parent := newNode("", nil, pool.FromString("AB"))
	parent.visitCount = 100

	exploited := newNode("A", parent, pool.FromString("B"))
	exploited.visitCount = 90
	exploited.winCount = 90 // mean 1.0, heavily visited

	neglected := newNode("B", parent, pool.FromString("A"))
	neglected.visitCount = 2
	neglected.winCount = 1.6 // mean 0.8, barely visited

	// With enough exploration weight the neglected child wins.
	assert.Greater(t, neglected.uct(3.0), exploited.uct(3.0))
	// With no exploration weight the exploiter wins.
	assert.Greater(t, exploited.uct(0.0), neglected.uct(0.0))
}

func TestBackpropagationCounts(t *testing.T) {
	is := is.New(t)
	e := newExplorer([]string{"ATE"})

	letters := pool.FromString("ATE")
	root := newNode("", nil, letters)
	a := newNode("A", root, pool.FromString("TE"))
	a.parent = root
	at := newNode("AT", a, pool.FromString("E"))
	at.parent = a

	e.backpropagate(at, 6)
	e.backpropagate(at, 0)
	e.backpropagate(a, 2)

	// Visit count equals the number of backpropagation passes that
	// touched each node.
	is.Equal(at.visitCount, uint32(2))
	is.Equal(a.visitCount, uint32(3))
	is.Equal(root.visitCount, uint32(3))
	is.True(root.winCount == 8)
}

func TestSearchFindsValidWord(t *testing.T) {
	words := []string{"RATE", "TEARS", "STARE"}
	e := newExplorer(words)
	letters := pool.FromString("ATERS")

	word := e.Search(context.Background(), letters)
	assert.NotEmpty(t, word)
	assert.Contains(t, words, word)
	assert.True(t, letters.CanForm(word))

	st := e.Stats()
	assert.Equal(t, word, st.BestWord)
	assert.Greater(t, st.Simulations, 0)
	assert.Greater(t, st.Nodes, 1)
}

func TestSearchEmptyPool(t *testing.T) {
	is := is.New(t)
	e := newExplorer([]string{"RATE"})

	is.Equal(e.Search(context.Background(), pool.FromString("")), "")
	is.Equal(e.Search(context.Background(), nil), "")
}

func TestSearchNoValidWord(t *testing.T) {
	is := is.New(t)
	e := newExplorer([]string{"RATE"})
	is.Equal(e.Search(context.Background(), pool.FromString("QZJX")), "")
}

func TestSearchDuplicateLetters(t *testing.T) {
	// SEES needs two Es and two Ss.
	e := newExplorer([]string{"SEES"})

	assert.Empty(t, e.Search(context.Background(), pool.FromString("SEE")))
	assert.Equal(t, "SEES", e.Search(context.Background(), pool.FromString("SEES")))
}

func TestExpansionConsumesMultiset(t *testing.T) {
	is := is.New(t)
	e := newExplorer([]string{"SEES"})
	letters := pool.FromString("SEE")
	r := rand.New(rand.NewSource(3))

	root := newNode("", nil, letters)
	is.Equal(string(root.untried), "ES") // distinct letters only

	e.expand(root, letters, r)
	is.Equal(len(root.children), 2)

	// Descend to "SE": only E remains; S is used up.
	var se *node
	for _, child := range root.children {
		if child.state == "S" {
			e.expand(child, letters, r)
			for _, gc := range child.children {
				if gc.state == "SE" {
					se = gc
				}
			}
		}
	}
	is.True(se != nil)
	e.expand(se, letters, r)
	is.Equal(len(se.children), 1)
	is.Equal(se.children[0].state, "SEE")
}

func TestSearchCanceledContext(t *testing.T) {
	e := newExplorer([]string{"RATE"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A canceled context truncates the search immediately; no panic, no
	// error, just no result.
	word := e.Search(ctx, pool.FromString("ATERS"))
	assert.Empty(t, word)
	assert.True(t, e.Stats().TruncatedByCtx)
}

func TestLogStream(t *testing.T) {
	e := newExplorer([]string{"ATE"})
	e.SetSimulations(10)
	var buf bytes.Buffer
	e.SetLogStream(&buf)

	e.Search(context.Background(), pool.FromString("ATE"))
	assert.Greater(t, buf.Len(), 0)

	// The stream must be a sequence of parsable YAML documents.
	var its []LogIteration
	dec := yaml.NewDecoder(&buf)
	for {
		var chunk []LogIteration
		if err := dec.Decode(&chunk); err != nil {
			break
		}
		its = append(its, chunk...)
	}
	assert.NotEmpty(t, its)
}

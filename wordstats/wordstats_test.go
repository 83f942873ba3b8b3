package wordstats

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

func TestLetterProbability(t *testing.T) {
	is := is.New(t)
	a := NewAnalyzer()
	a.AnalyzeWords([]string{"AB", "AC"})

	// 4 letters total: A A B C
	is.True(fuzz(a.LetterProbability('A'), 0.5))
	is.True(fuzz(a.LetterProbability('b'), 0.25))
	is.True(fuzz(a.LetterProbability('Z'), 0.0))
}

func TestPositionProbability(t *testing.T) {
	is := is.New(t)
	a := NewAnalyzer()
	a.AnalyzeWords([]string{"AB", "AC", "BA"})

	is.True(fuzz(a.PositionProbability('A', 0), 2.0/3.0))
	is.True(fuzz(a.PositionProbability('B', 0), 1.0/3.0))
	is.True(fuzz(a.PositionProbability('A', 1), 1.0/3.0))
	is.True(fuzz(a.PositionProbability('A', 5), 0.0))
}

func TestNextLetterProbability(t *testing.T) {
	is := is.New(t)
	a := NewAnalyzer()
	a.AnalyzeWords([]string{"AB", "AB", "AC"})

	is.True(fuzz(a.NextLetterProbability('A', 'B'), 2.0/3.0))
	is.True(fuzz(a.NextLetterProbability('A', 'C'), 1.0/3.0))
	is.True(fuzz(a.NextLetterProbability('B', 'A'), 0.0))
}

func TestWordScore(t *testing.T) {
	a := NewAnalyzer()
	a.AnalyzeWords([]string{"RATE", "RACE", "TEARS"})

	assert.Greater(t, a.WordScore("RATE"), 0.0)
	assert.Greater(t, a.WordScore("rate"), 0.0, "scoring normalizes case")
	// A word with a never-observed feature scores exactly zero.
	assert.Zero(t, a.WordScore("QI"))
	assert.Zero(t, a.WordScore(""))
	assert.Zero(t, a.WordScore("R4TE"))

	// RATE shares every positional letter with itself; RACE diverges at
	// position 2, which was seen less often in that slot than T.
	assert.GreaterOrEqual(t, a.WordScore("RATE"), a.WordScore("RACE"))
}

func TestObserveWordIsOnline(t *testing.T) {
	a := NewAnalyzer()
	a.AnalyzeWords([]string{"RATE"})
	before := a.WordScore("RACE")
	a.ObserveWord("RACE")
	after := a.WordScore("RACE")
	assert.Greater(t, after, before)
	assert.Equal(t, 2, a.TotalWords())
}

func fuzz(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

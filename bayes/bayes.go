// Package bayes estimates how valuable a candidate word is from three
// signal families: the word's own observed success frequency, its
// prefix/suffix pattern frequencies, and a corpus-derived fallback score
// from the word-statistics collaborator. Training is online; there is no
// batch retrain step.
package bayes

import (
	"strings"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// scoreEpsilon floors every combined score so a candidate is never
// eliminated outright by a zero probability.
const scoreEpsilon = 0.01

// patternLength is how many leading/trailing characters form the
// prefix/suffix pattern keys.
const patternLength = 3

// FallbackScorer supplies the corpus-frequency signal used before any
// play outcomes have been observed.
type FallbackScorer interface {
	WordScore(word string) float64
}

// Scorer is the Naive-Bayes word scorer.
type Scorer struct {
	mu       sync.RWMutex
	fallback FallbackScorer

	wordCounts    map[string]int
	patternCounts map[string]int
	observations  int
}

func NewScorer(fallback FallbackScorer) *Scorer {
	return &Scorer{
		fallback:      fallback,
		wordCounts:    make(map[string]int),
		patternCounts: make(map[string]int),
	}
}

// Observe records one successful submission of word, updating its own
// counter and its prefix/suffix pattern counters.
func (s *Scorer) Observe(word string) {
	word = strings.ToUpper(word)
	if word == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observations++
	s.wordCounts[word]++
	if len(word) >= patternLength {
		s.patternCounts["prefix_"+word[:patternLength]]++
		s.patternCounts["suffix_"+word[len(word)-patternLength:]]++
	}
}

// Score estimates P(word is valuable) in [scoreEpsilon, 1]. With no
// observations yet it defers entirely to the fallback signal; otherwise
// it averages the word-frequency, pattern and fallback signals.
func (s *Scorer) Score(word string) float64 {
	word = strings.ToUpper(word)

	s.mu.RLock()
	defer s.mu.RUnlock()

	fallbackScore := 0.0
	if s.fallback != nil {
		fallbackScore = s.fallback.WordScore(word)
	}
	if s.observations == 0 {
		if fallbackScore < scoreEpsilon {
			return scoreEpsilon
		}
		return fallbackScore
	}

	n := float64(s.observations)
	wordProb := float64(s.wordCounts[word]) / n

	patternProb := 0.0
	if len(word) >= patternLength {
		prefixProb := float64(s.patternCounts["prefix_"+word[:patternLength]]) / n
		suffixProb := float64(s.patternCounts["suffix_"+word[len(word)-patternLength:]]) / n
		patternProb = (prefixProb + suffixProb) / 2
	}

	combined := stat.Mean([]float64{wordProb, patternProb, fallbackScore}, nil)
	if combined < scoreEpsilon {
		return scoreEpsilon
	}
	return combined
}

// Observations returns how many successful submissions have been folded
// in.
func (s *Scorer) Observations() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.observations
}

// Reset clears all learned state, as at the start of a fresh session.
func (s *Scorer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wordCounts = make(map[string]int)
	s.patternCounts = make(map[string]int)
	s.observations = 0
}

// Package wordstats analyzes letter and word-shape frequencies over a
// corpus. It is the statistics provider behind the Naive-Bayes fallback
// signal and the per-position probabilities exposed to other models.
package wordstats

import (
	"strings"
	"sync"
)

// Analyzer tracks letter frequencies, position-based frequencies, letter
// bigrams and the word-length distribution of every word it has seen.
// Analysis is online: successful submissions during play are folded in
// with ObserveWord.
type Analyzer struct {
	mu sync.RWMutex

	letterFreqs  map[byte]int
	totalLetters int

	wordLengths map[int]int
	totalWords  int

	// letterPairs[a][b] counts b directly following a.
	letterPairs map[byte]map[byte]int

	// positionFreqs[i][c] counts letter c at word position i.
	positionFreqs map[int]map[byte]int
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		letterFreqs:   make(map[byte]int),
		wordLengths:   make(map[int]int),
		letterPairs:   make(map[byte]map[byte]int),
		positionFreqs: make(map[int]map[byte]int),
	}
}

// AnalyzeWords folds a whole word list into the frequency tables.
func (a *Analyzer) AnalyzeWords(words []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, w := range words {
		a.analyzeWord(strings.ToUpper(w))
	}
}

// ObserveWord folds a single successfully played word into the tables.
func (a *Analyzer) ObserveWord(word string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.analyzeWord(strings.ToUpper(word))
}

func (a *Analyzer) analyzeWord(word string) {
	if word == "" || !isAlpha(word) {
		return
	}
	a.wordLengths[len(word)]++
	a.totalWords++

	for i := 0; i < len(word); i++ {
		c := word[i]
		a.letterFreqs[c]++
		a.totalLetters++

		pf, ok := a.positionFreqs[i]
		if !ok {
			pf = make(map[byte]int)
			a.positionFreqs[i] = pf
		}
		pf[c]++

		if i < len(word)-1 {
			lp, ok := a.letterPairs[c]
			if !ok {
				lp = make(map[byte]int)
				a.letterPairs[c] = lp
			}
			lp[word[i+1]]++
		}
	}
}

// LetterProbability returns the marginal probability of a letter
// occurring anywhere in the analyzed corpus.
func (a *Analyzer) LetterProbability(letter byte) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.totalLetters == 0 {
		return 0.0
	}
	return float64(a.letterFreqs[upper(letter)]) / float64(a.totalLetters)
}

// PositionProbability returns the probability of the letter occurring at
// the given zero-based position.
func (a *Analyzer) PositionProbability(letter byte, position int) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	pf, ok := a.positionFreqs[position]
	if !ok {
		return 0.0
	}
	total := 0
	for _, n := range pf {
		total += n
	}
	if total == 0 {
		return 0.0
	}
	return float64(pf[upper(letter)]) / float64(total)
}

// NextLetterProbability returns P(next | current) from the bigram table.
func (a *Analyzer) NextLetterProbability(current, next byte) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	lp, ok := a.letterPairs[upper(current)]
	if !ok {
		return 0.0
	}
	total := 0
	for _, n := range lp {
		total += n
	}
	if total == 0 {
		return 0.0
	}
	return float64(lp[upper(next)]) / float64(total)
}

// LengthProbability returns the fraction of analyzed words with the
// given length.
func (a *Analyzer) LengthProbability(length int) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.totalWords == 0 {
		return 0.0
	}
	return float64(a.wordLengths[length]) / float64(a.totalWords)
}

// WordScore computes a probability-shaped score for a word: the length
// probability multiplied by each letter's positional probability and
// each adjacent pair's transition probability. Scores are small but
// comparable between words; a word with any never-seen feature scores 0.
func (a *Analyzer) WordScore(word string) float64 {
	word = strings.ToUpper(word)
	if word == "" || !isAlpha(word) {
		return 0.0
	}
	score := a.LengthProbability(len(word))
	for i := 0; i < len(word); i++ {
		score *= a.PositionProbability(word[i], i)
		if i < len(word)-1 {
			score *= a.NextLetterProbability(word[i], word[i+1])
		}
	}
	return score
}

// TotalWords returns how many words have been analyzed, counting
// repeats.
func (a *Analyzer) TotalWords() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.totalWords
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func isAlpha(w string) bool {
	for i := 0; i < len(w); i++ {
		c := upper(w[i])
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

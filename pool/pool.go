// Package pool models the multiset of letters available to build a word.
// Duplicate letters are tracked by count, so two Es in the pool really are
// usable twice; every consumer draws without replacement.
package pool

import (
	"sort"
	"strings"
)

// LetterPool is a count-per-letter multiset over A-Z. The zero value is
// an empty pool.
type LetterPool struct {
	counts [26]int
	size   int
}

func letterIndex(c byte) int {
	if c >= 'a' && c <= 'z' {
		return int(c - 'a')
	}
	if c >= 'A' && c <= 'Z' {
		return int(c - 'A')
	}
	return -1
}

// FromString builds a pool from the letters of s. Non-alphabetic
// characters are ignored.
func FromString(s string) *LetterPool {
	p := &LetterPool{}
	for i := 0; i < len(s); i++ {
		if idx := letterIndex(s[i]); idx >= 0 {
			p.counts[idx]++
			p.size++
		}
	}
	return p
}

// FromLetters builds a pool from a slice of single-letter strings.
func FromLetters(letters []string) *LetterPool {
	return FromString(strings.Join(letters, ""))
}

func (p *LetterPool) Copy() *LetterPool {
	c := *p
	return &c
}

// Size returns the number of letters in the pool, counting multiplicity.
func (p *LetterPool) Size() int {
	return p.size
}

func (p *LetterPool) Empty() bool {
	return p.size == 0
}

// Count returns how many of the given letter remain.
func (p *LetterPool) Count(c byte) int {
	idx := letterIndex(c)
	if idx < 0 {
		return 0
	}
	return p.counts[idx]
}

// Has reports whether at least one of the given letter remains.
func (p *LetterPool) Has(c byte) bool {
	return p.Count(c) > 0
}

// Take removes one occurrence of the letter. It returns false if none
// remain.
func (p *LetterPool) Take(c byte) bool {
	idx := letterIndex(c)
	if idx < 0 || p.counts[idx] == 0 {
		return false
	}
	p.counts[idx]--
	p.size--
	return true
}

// Put returns one occurrence of the letter to the pool.
func (p *LetterPool) Put(c byte) {
	if idx := letterIndex(c); idx >= 0 {
		p.counts[idx]++
		p.size++
	}
}

// CanForm reports whether the word is formable from the pool without
// replacement.
func (p *LetterPool) CanForm(word string) bool {
	if word == "" {
		return false
	}
	var used [26]int
	for i := 0; i < len(word); i++ {
		idx := letterIndex(word[i])
		if idx < 0 {
			return false
		}
		used[idx]++
		if used[idx] > p.counts[idx] {
			return false
		}
	}
	return true
}

// Letters returns the pool expanded into individual uppercase letters,
// in alphabetical order.
func (p *LetterPool) Letters() []byte {
	out := make([]byte, 0, p.size)
	for i, n := range p.counts {
		for j := 0; j < n; j++ {
			out = append(out, byte('A'+i))
		}
	}
	return out
}

// Distinct returns the distinct letters present, in alphabetical order.
func (p *LetterPool) Distinct() []byte {
	out := make([]byte, 0, 26)
	for i, n := range p.counts {
		if n > 0 {
			out = append(out, byte('A'+i))
		}
	}
	return out
}

// StateKey returns the canonical sorted-letters representation of the
// pool, used to key Q-table states.
func (p *LetterPool) StateKey() string {
	return string(p.Letters())
}

func (p *LetterPool) String() string {
	letters := p.Letters()
	parts := make([]string, len(letters))
	for i, c := range letters {
		parts[i] = string(c)
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

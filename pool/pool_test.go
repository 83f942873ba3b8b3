package pool

import (
	"math/rand"
	"testing"

	"github.com/matryer/is"
)

func TestCanForm(t *testing.T) {
	is := is.New(t)
	p := FromString("ATERS")

	is.True(p.CanForm("RATE"))
	is.True(p.CanForm("TEARS"))
	is.True(p.CanForm("stare")) // case-insensitive
	is.True(!p.CanForm("SEES")) // only one E and one S
	is.True(!p.CanForm("QI"))
	is.True(!p.CanForm(""))
}

func TestDuplicateLetters(t *testing.T) {
	is := is.New(t)
	p := FromString("LETTER")

	is.Equal(p.Count('T'), 2)
	is.Equal(p.Count('E'), 2)
	is.True(p.CanForm("LETTER"))
	is.True(!p.CanForm("TETTER")) // needs three Ts

	is.True(p.Take('T'))
	is.True(p.Take('T'))
	is.True(!p.Take('T'))
	is.Equal(p.Size(), 4)

	p.Put('T')
	is.Equal(p.Count('T'), 1)
}

func TestStateKey(t *testing.T) {
	is := is.New(t)
	is.Equal(FromString("TEARS").StateKey(), "AERST")
	is.Equal(FromString("seat").StateKey(), "AEST")
	is.Equal(FromString("LETTER").StateKey(), "EELRTT")
	is.Equal(FromString("").StateKey(), "")
}

func TestLettersAndDistinct(t *testing.T) {
	is := is.New(t)
	p := FromString("BANANA")
	is.Equal(string(p.Letters()), "AAABNN")
	is.Equal(string(p.Distinct()), "ABN")
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	p := FromString("RATE")
	c := p.Copy()
	c.Take('R')
	is.Equal(p.Count('R'), 1)
	is.Equal(c.Count('R'), 0)
}

func TestGenerate(t *testing.T) {
	is := is.New(t)
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		p := Generate(4, 6, r)
		is.Equal(p.Size(), 10)

		hasVowel, hasConsonant := false, false
		for _, c := range p.Distinct() {
			if isVowel(c) {
				hasVowel = true
			} else {
				hasConsonant = true
			}
		}
		is.True(hasVowel)
		is.True(hasConsonant)
	}
}

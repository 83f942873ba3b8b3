package pool

import (
	"github.com/rs/zerolog/log"

	"github.com/wordforge/wordforge/rng"
)

// commonLetters is where shared letters are drawn from; they are the
// most frequent letters in English text.
const commonLetters = "ETAOINSHRDLU"

const vowels = "AEIOU"

// weightedAlphabet repeats each letter in proportion to its usage
// frequency, so a uniform draw over the slice is a frequency-weighted
// draw over the alphabet.
var weightedAlphabet = []byte(
	"EEEEEEEEEE" +
		"AAAAAAA" +
		"RRRRR" +
		"IIIII" +
		"OOOOO" +
		"TTTT" +
		"NNNN" +
		"SSSS" +
		"LLL" +
		"CCC" +
		"UU" +
		"DD" +
		"MM" +
		"PP" +
		"BGYFWKVXZJQ")

func isVowel(c byte) bool {
	for i := 0; i < len(vowels); i++ {
		if vowels[i] == c {
			return true
		}
	}
	return false
}

// Generate produces a random letter pool of numShared distinct common
// letters (guaranteed to include at least one vowel and one consonant)
// plus numPrivate letters drawn from the frequency-weighted alphabet.
func Generate(numShared, numPrivate int, r rng.Source) *LetterPool {
	if r == nil {
		r = rng.Default()
	}
	shared := sampleShared(numShared, r)

	p := &LetterPool{}
	for _, c := range shared {
		p.Put(c)
	}
	for i := 0; i < numPrivate; i++ {
		p.Put(weightedAlphabet[r.Intn(len(weightedAlphabet))])
	}
	log.Debug().Str("pool", p.String()).Msg("generated-letter-pool")
	return p
}

func sampleShared(n int, r rng.Source) []byte {
	if n <= 0 {
		return nil
	}
	if n > len(commonLetters) {
		n = len(commonLetters)
	}
	for {
		// Partial Fisher-Yates over a copy gives n distinct letters.
		letters := []byte(commonLetters)
		for i := 0; i < n; i++ {
			j := i + r.Intn(len(letters)-i)
			letters[i], letters[j] = letters[j], letters[i]
		}
		pick := letters[:n]

		hasVowel, hasConsonant := false, false
		for _, c := range pick {
			if isVowel(c) {
				hasVowel = true
			} else {
				hasConsonant = true
			}
		}
		if n < 2 || (hasVowel && hasConsonant) {
			return pick
		}
	}
}

package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LoadFile reads a word list (one word per line) and returns the
// normalized words. The language tag drives uppercasing; plain
// strings.ToUpper mishandles locales like Turkish, where i uppercases
// to dotted İ.
func LoadFile(path string, lang language.Tag) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open word list: %w", err)
	}
	defer f.Close()

	words, err := LoadReader(f, lang)
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", filepath.Base(path)).Int("words", len(words)).
		Msg("loaded-word-list")
	return words, nil
}

// LoadReader reads words from r, uppercasing per the language tag and
// dropping entries with non-alphabetic characters.
func LoadReader(r io.Reader, lang language.Tag) ([]string, error) {
	upper := cases.Upper(lang)
	var words []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w == "" {
			continue
		}
		w = upper.String(w)
		if !isAlpha(w) {
			continue
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading word list: %w", err)
	}
	return words, nil
}

func isAlpha(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return true
}

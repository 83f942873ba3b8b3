// Package lexicon provides the word-legality oracle and word-list
// loading. The curated valid-word set may be narrower than everything
// inserted into the trie, which is why legality is a separate interface.
package lexicon

type Lexicon interface {
	Name() string
	HasWord(word string) bool
}

// WordSet is a Lexicon backed by an in-memory set of uppercase words.
type WordSet struct {
	name  string
	words map[string]struct{}
}

func NewWordSet(name string, words []string) *WordSet {
	ws := &WordSet{name: name, words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		ws.words[w] = struct{}{}
	}
	return ws
}

func (ws *WordSet) Name() string {
	return ws.name
}

func (ws *WordSet) HasWord(word string) bool {
	_, ok := ws.words[word]
	return ok
}

func (ws *WordSet) Size() int {
	return len(ws.words)
}

// Words returns the contents of the set, in no particular order.
func (ws *WordSet) Words() []string {
	out := make([]string, 0, len(ws.words))
	for w := range ws.words {
		out = append(out, w)
	}
	return out
}

// AcceptAll is a Lexicon that admits every word. Useful in tests and in
// degraded mode when no word list could be loaded.
type AcceptAll struct{}

func (lex AcceptAll) Name() string {
	return "AcceptAll"
}

func (lex AcceptAll) HasWord(word string) bool {
	return true
}

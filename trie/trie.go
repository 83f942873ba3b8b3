// Package trie implements the prefix tree used for dictionary membership
// and prefix-legality checks. Every operation is O(length of the input),
// independent of dictionary size; the prefix queries (StartsWith,
// PrefixCount, WordsWithPrefix) are what let the generators prune dead
// letter sequences early instead of enumerating the whole lexicon.
package trie

import (
	"sort"
	"strings"
)

type node struct {
	children map[byte]*node
	isEnd    bool
	// wordCount is the multiplicity of insertions terminating at this node;
	// prefixCount is the number of inserted words whose path passes through
	// (or ends at) this node. prefixCount >= wordCount always holds.
	wordCount   uint32
	prefixCount uint32
}

func newNode() *node {
	return &node{children: make(map[byte]*node)}
}

// Trie is the dictionary structure. It is not safe for concurrent
// mutation; the owner serializes access (see strategy.Engine).
type Trie struct {
	root          *node
	totalWords    int
	maxWordLength int
}

func New() *Trie {
	return &Trie{root: newNode()}
}

// NewFromWords builds a trie containing every word in the given list.
func NewFromWords(words []string) *Trie {
	t := New()
	for _, w := range words {
		t.Insert(w)
	}
	return t
}

// Insert adds a word to the trie. Input is uppercased before traversal.
// Duplicate insertions accumulate word and prefix counts.
func (t *Trie) Insert(word string) {
	if word == "" {
		return
	}
	word = strings.ToUpper(word)
	n := t.root
	n.prefixCount++
	for i := 0; i < len(word); i++ {
		c := word[i]
		child, ok := n.children[c]
		if !ok {
			child = newNode()
			n.children[c] = child
		}
		n = child
		n.prefixCount++
	}
	n.isEnd = true
	n.wordCount++
	t.totalWords++
	if len(word) > t.maxWordLength {
		t.maxWordLength = len(word)
	}
}

// Search reports whether the exact word was inserted.
func (t *Trie) Search(word string) bool {
	if word == "" {
		return false
	}
	n := t.traverse(strings.ToUpper(word))
	return n != nil && n.isEnd
}

// StartsWith reports whether any inserted word begins with prefix. The
// empty prefix is trivially true.
func (t *Trie) StartsWith(prefix string) bool {
	if prefix == "" {
		return true
	}
	n := t.traverse(strings.ToUpper(prefix))
	return n != nil && n.prefixCount > 0
}

// PrefixCount returns the number of inserted words beginning with prefix.
func (t *Trie) PrefixCount(prefix string) uint32 {
	if prefix == "" {
		return uint32(t.totalWords)
	}
	n := t.traverse(strings.ToUpper(prefix))
	if n == nil {
		return 0
	}
	return n.prefixCount
}

// Delete removes one occurrence of word. It returns false, without
// mutating anything, if the word is not present. Nodes whose prefixCount
// drops to zero are pruned bottom-up.
func (t *Trie) Delete(word string) bool {
	if word == "" {
		return false
	}
	word = strings.ToUpper(word)

	path := make([]*node, 0, len(word)+1)
	n := t.root
	path = append(path, n)
	for i := 0; i < len(word); i++ {
		child, ok := n.children[word[i]]
		if !ok {
			return false
		}
		n = child
		path = append(path, n)
	}
	if !n.isEnd {
		return false
	}

	n.wordCount--
	if n.wordCount == 0 {
		n.isEnd = false
	}
	t.totalWords--

	for i := len(path) - 1; i >= 0; i-- {
		path[i].prefixCount--
		if i > 0 && path[i].prefixCount == 0 {
			delete(path[i-1].children, word[i-1])
		}
	}
	return true
}

// WordsWithPrefix returns up to max words sharing the given prefix, in
// depth-first letter order. The order is deterministic for a given build
// of the trie.
func (t *Trie) WordsWithPrefix(prefix string, max int) []string {
	if max <= 0 {
		return nil
	}
	prefix = strings.ToUpper(prefix)
	n := t.root
	if prefix != "" {
		n = t.traverse(prefix)
		if n == nil {
			return nil
		}
	}
	var words []string
	t.dfs(n, prefix, max, &words)
	return words
}

// TotalWords returns the number of inserted words, counting multiplicity.
func (t *Trie) TotalWords() int {
	return t.totalWords
}

// MaxWordLength returns the length of the longest word ever inserted.
func (t *Trie) MaxWordLength() int {
	return t.maxWordLength
}

func (t *Trie) traverse(chars string) *node {
	n := t.root
	for i := 0; i < len(chars); i++ {
		child, ok := n.children[chars[i]]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

func (t *Trie) dfs(n *node, cur string, max int, words *[]string) {
	if len(*words) >= max {
		return
	}
	if n.isEnd {
		*words = append(*words, cur)
	}
	letters := make([]byte, 0, len(n.children))
	for c := range n.children {
		letters = append(letters, c)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	for _, c := range letters {
		t.dfs(n.children[c], cur+string(c), max, words)
	}
}

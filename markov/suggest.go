package markov

import (
	"gonum.org/v1/gonum/stat"

	"github.com/wordforge/wordforge/pool"
)

// Suggestion is a generated word plus the model's confidence in it.
type Suggestion struct {
	Word       string
	Confidence float64
}

// Suggest generates a word and scores it by the mean transition
// probability along its gram path. An empty result carries zero
// confidence.
func (g *Generator) Suggest(letters *pool.LetterPool) Suggestion {
	word := g.Generate(letters)
	if word == "" {
		return Suggestion{}
	}
	return Suggestion{Word: word, Confidence: g.pathConfidence(word)}
}

func (g *Generator) pathConfidence(word string) float64 {
	if len(word) <= g.order {
		return 0
	}
	total := 0.0
	steps := 0
	for i := 0; i+g.order < len(word); i++ {
		gram := word[i : i+g.order]
		next := word[i+g.order]
		probs := g.StateProbabilities(gram)
		total += probs[string(next)]
		steps++
	}
	if steps == 0 {
		return 0
	}
	return total / float64(steps)
}

// StateProbabilities returns the normalized outgoing distribution for a
// gram. A state with no recorded transitions yields an empty map.
func (g *Generator) StateProbabilities(gram string) map[string]float64 {
	outgoing, ok := g.transitions[gram]
	if !ok {
		return map[string]float64{}
	}
	total := 0
	for _, c := range outgoing {
		total += c
	}
	if total == 0 {
		return map[string]float64{}
	}
	probs := make(map[string]float64, len(outgoing))
	for next, c := range outgoing {
		probs[string(next)] = float64(c) / float64(total)
	}
	return probs
}

// StartProbabilities returns the normalized START distribution over
// initial grams.
func (g *Generator) StartProbabilities() map[string]float64 {
	total := 0
	for _, c := range g.startCounts {
		total += c
	}
	if total == 0 {
		return map[string]float64{}
	}
	probs := make(map[string]float64, len(g.startCounts))
	for gram, c := range g.startCounts {
		probs[gram] = float64(c) / float64(total)
	}
	return probs
}

// StateEntropy measures the uncertainty of a state's outgoing
// distribution in nats. Deterministic states have zero entropy.
func (g *Generator) StateEntropy(gram string) float64 {
	probs := g.StateProbabilities(gram)
	if len(probs) == 0 {
		return 0
	}
	p := make([]float64, 0, len(probs))
	for _, v := range probs {
		p = append(p, v)
	}
	return stat.Entropy(p)
}

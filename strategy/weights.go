package strategy

import (
	"fmt"
)

// Model identifies one of the four candidate/learning models.
type Model string

const (
	ModelMarkov     Model = "markov"
	ModelMCTS       Model = "mcts"
	ModelNaiveBayes Model = "naive_bayes"
	ModelQLearning  Model = "q_learning"
)

var AllModels = []Model{ModelMarkov, ModelMCTS, ModelNaiveBayes, ModelQLearning}

// Difficulty selects the initial model-weight table and the MCTS
// confidence threshold.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// mctsConfidenceThreshold is the per-difficulty bar an MCTS candidate's
// score must clear to be preferred outright.
var mctsConfidenceThreshold = map[Difficulty]float64{
	Easy:   0.3,
	Medium: 0.5,
	Hard:   0.7,
}

// adjustDelta is how much weight a successful model gains per outcome,
// before renormalization.
const adjustDelta = 0.05

// Weights is the ensemble weighting over models. It always sums to 1.
type Weights map[Model]float64

// InitialWeights returns the per-difficulty starting table. Easier
// opponents lean on the more predictable Markov patterns; harder ones
// on search and learned strategy.
func InitialWeights(d Difficulty) Weights {
	switch d {
	case Easy:
		return Weights{
			ModelMarkov:     0.4,
			ModelNaiveBayes: 0.3,
			ModelMCTS:       0.2,
			ModelQLearning:  0.1,
		}
	case Hard:
		return Weights{
			ModelMarkov:     0.1,
			ModelNaiveBayes: 0.2,
			ModelMCTS:       0.3,
			ModelQLearning:  0.4,
		}
	default:
		return Weights{
			ModelMarkov:     0.25,
			ModelNaiveBayes: 0.25,
			ModelMCTS:       0.25,
			ModelQLearning:  0.25,
		}
	}
}

// Reward increases the given model's weight; every other model's share
// shrinks proportionally under the renormalization.
func (w Weights) Reward(m Model) {
	if _, ok := w[m]; !ok {
		return
	}
	w[m] += adjustDelta
	w.normalize()
}

func (w Weights) normalize() {
	total := 0.0
	for _, v := range w {
		total += v
	}
	if total == 0 {
		uniform := 1.0 / float64(len(w))
		for m := range w {
			w[m] = uniform
		}
		return
	}
	for m := range w {
		w[m] /= total
	}
}

// Copy returns an independent snapshot of the table.
func (w Weights) Copy() Weights {
	out := make(Weights, len(w))
	for m, v := range w {
		out[m] = v
	}
	return out
}

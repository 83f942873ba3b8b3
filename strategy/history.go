package strategy

import "time"

// maxHistory bounds the in-memory decision log.
const maxHistory = 500

// Decision is one completed choose/outcome cycle.
type Decision struct {
	Word    string    `yaml:"word"`
	Source  Source    `yaml:"source,omitempty"`
	Valid   bool      `yaml:"valid"`
	Score   int64     `yaml:"score"`
	Time    time.Time `yaml:"time"`
	Letters string    `yaml:"letters,omitempty"`
}

func (e *Engine) recordDecision(word string, src Source, valid bool, score int64) {
	d := Decision{
		Word:   word,
		Source: src,
		Valid:  valid,
		Score:  score,
		Time:   time.Now(),
	}
	if e.pendingLetters != nil {
		d.Letters = e.pendingLetters.StateKey()
	}
	e.history = append(e.history, d)
	if len(e.history) > maxHistory {
		e.history = e.history[len(e.history)-maxHistory:]
	}
}

// History returns a snapshot of the recent decision log, oldest first.
func (e *Engine) History() []Decision {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Decision, len(e.history))
	copy(out, e.history)
	return out
}

// EngineStats is a point-in-time summary of the coordinator's learning
// state.
type EngineStats struct {
	Difficulty      Difficulty
	TotalDecisions  int
	SuccessfulWords int
	SuccessRate     float64
	Weights         Weights
	// ModelSuccessRate is the mean validity of each model's chosen
	// words; ModelSuccessMargin is its 95% confidence half-width.
	ModelSuccessRate   map[Model]float64
	ModelSuccessMargin map[Model]float64
	MarkovStates       int
	QStates            int
	BayesSamples       int
}

// GetStats summarizes decisions so far. Models that never sourced a
// chosen word report a zero success rate.
func (e *Engine) GetStats() EngineStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := EngineStats{
		Difficulty:         e.difficulty,
		TotalDecisions:     e.totalDecisions,
		SuccessfulWords:    e.successfulWords,
		Weights:            e.weights.Copy(),
		ModelSuccessRate:   make(map[Model]float64, len(AllModels)),
		ModelSuccessMargin: make(map[Model]float64, len(AllModels)),
		MarkovStates:       e.markov.States(),
		QStates:            e.qlearn.TotalStates(),
		BayesSamples:       e.bayes.Observations(),
	}
	if e.totalDecisions > 0 {
		s.SuccessRate = float64(e.successfulWords) / float64(e.totalDecisions)
	}
	for m, st := range e.modelSuccess {
		if st.Iterations() > 0 {
			s.ModelSuccessRate[m] = st.Mean()
			s.ModelSuccessMargin[m] = st.ErrorMargin(95)
		}
	}
	return s
}

package mcts

import (
	"io"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// LogIteration is one search iteration, serialized to the log stream
// for offline debugging of a search.
type LogIteration struct {
	Iteration int     `yaml:"iteration"`
	Thread    int     `yaml:"thread"`
	State     string  `yaml:"state"`
	Reward    float64 `yaml:"reward"`
	Best      string  `yaml:"best,omitempty"`
}

// SetLogStream directs per-iteration records at w. Pass nil to disable.
func (e *Explorer) SetLogStream(w io.Writer) {
	e.logMu.Lock()
	defer e.logMu.Unlock()
	e.logStream = w
}

func (e *Explorer) logIteration(iteration, thread int, state string, reward float64, best string) {
	e.logMu.Lock()
	defer e.logMu.Unlock()
	if e.logStream == nil {
		return
	}
	out, err := yaml.Marshal([]LogIteration{{
		Iteration: iteration,
		Thread:    thread,
		State:     state,
		Reward:    reward,
		Best:      best,
	}})
	if err != nil {
		log.Err(err).Msg("could not marshal log iteration")
		return
	}
	if _, err := e.logStream.Write(out); err != nil {
		log.Err(err).Msg("could not write log iteration")
	}
}

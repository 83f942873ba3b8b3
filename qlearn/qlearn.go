// Package qlearn implements tabular Q-learning over letter-pool states.
// States are keyed by the canonical sorted-letters representation of the
// pool; actions are words. Absent entries read as Q=0, an optimistic
// default that keeps unseen candidates competitive with low-confidence
// learned ones.
package qlearn

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wordforge/wordforge/pool"
	"github.com/wordforge/wordforge/rng"
	"github.com/wordforge/wordforge/store"
)

const (
	defaultLearningRate = 0.1
	defaultDiscount     = 0.9
	defaultEpsilon      = 0.2
	defaultEpsilonDecay = 0.95
	defaultEpsilonMin   = 0.01
)

// Selector picks a final action from a candidate set and adapts from
// the reward signal.
type Selector struct {
	mu    sync.Mutex
	table map[string]map[string]float64
	qs    store.QStore // optional durable backing
	rand  rng.Source

	learningRate float64
	discount     float64
	epsilon      float64
	epsilonDecay float64
	epsilonMin   float64

	lastState  string
	lastAction string
}

func NewSelector() *Selector {
	return &Selector{
		table:        make(map[string]map[string]float64),
		rand:         rng.Default(),
		learningRate: defaultLearningRate,
		discount:     defaultDiscount,
		epsilon:      defaultEpsilon,
		epsilonDecay: defaultEpsilonDecay,
		epsilonMin:   defaultEpsilonMin,
	}
}

func (s *Selector) SetRandomizer(r rng.Source) {
	s.rand = r
}

func (s *Selector) SetStore(qs store.QStore) {
	s.qs = qs
}

// SetLearningParams overrides the learning rate, discount factor and
// exploration rate.
func (s *Selector) SetLearningParams(alpha, gamma, epsilon float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.learningRate = alpha
	s.discount = gamma
	s.epsilon = epsilon
}

func (s *Selector) Epsilon() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epsilon
}

// StartGame decays the exploration rate, shifting from exploration to
// exploitation over repeated play, and clears the pending action.
func (s *Selector) StartGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epsilon *= s.epsilonDecay
	if s.epsilon < s.epsilonMin {
		s.epsilon = s.epsilonMin
	}
	s.lastState = ""
	s.lastAction = ""
}

// SelectAction picks a word from candidates formable from the pool. It
// returns "" when no candidate is formable, a no-action outcome the
// coordinator falls through on, never an error. The chosen (state,
// action) pair is recorded for the next Update.
func (s *Selector) SelectAction(letters *pool.LetterPool, candidates []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := letters.StateKey()
	formable := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		cand = strings.ToUpper(cand)
		if letters.CanForm(cand) {
			formable = append(formable, cand)
		}
	}
	if len(formable) == 0 {
		return ""
	}

	var action string
	if s.rand.Float64() < s.epsilon {
		action = formable[s.rand.Intn(len(formable))]
	} else {
		// Exploit: highest Q wins; ties break to the first encountered.
		best := s.qValueLocked(state, formable[0])
		action = formable[0]
		for _, cand := range formable[1:] {
			if q := s.qValueLocked(state, cand); q > best {
				best = q
				action = cand
			}
		}
	}

	s.lastState = state
	s.lastAction = action
	return action
}

// RecordChoice registers an action chosen outside the selector so the
// next Update credits it.
func (s *Selector) RecordChoice(letters *pool.LetterPool, action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if letters == nil || action == "" {
		return
	}
	s.lastState = letters.StateKey()
	s.lastAction = strings.ToUpper(action)
}

// Update applies the tabular Q-learning rule to the pending (state,
// action) pair. The max over an as-yet-empty next state is 0.
func (s *Selector) Update(reward float64, next *pool.LetterPool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastState == "" || s.lastAction == "" {
		return
	}

	maxNext := 0.0
	if next != nil {
		for _, q := range s.stateLocked(next.StateKey()) {
			if q > maxNext {
				maxNext = q
			}
		}
	}

	current := s.qValueLocked(s.lastState, s.lastAction)
	updated := current + s.learningRate*(reward+s.discount*maxNext-current)
	s.setQValueLocked(s.lastState, s.lastAction, updated)

	s.lastState = ""
	s.lastAction = ""
}

// QValue returns the learned value for a (state, action) pair; absent
// pairs are 0.
func (s *Selector) QValue(state, action string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.qValueLocked(state, strings.ToUpper(action))
}

// TotalStates returns the number of states with at least one learned
// action.
func (s *Selector) TotalStates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.table)
}

// stateLocked returns the in-memory action map for a state, lazily
// hydrating it from the durable store on first access.
func (s *Selector) stateLocked(state string) map[string]float64 {
	actions, ok := s.table[state]
	if ok {
		return actions
	}
	actions = make(map[string]float64)
	if s.qs != nil {
		stored, err := s.qs.StateActions(state)
		if err != nil {
			log.Warn().Err(err).Str("state", state).Msg("q-store-read-failed")
		} else {
			for a, v := range stored {
				actions[a] = v
			}
		}
	}
	s.table[state] = actions
	return actions
}

func (s *Selector) qValueLocked(state, action string) float64 {
	return s.stateLocked(state)[action]
}

func (s *Selector) setQValueLocked(state, action string, value float64) {
	s.stateLocked(state)[action] = value
	if s.qs != nil {
		if err := s.qs.SetQValue(state, action, value); err != nil {
			log.Warn().Err(err).Str("state", state).Str("action", action).
				Msg("q-store-write-failed")
		}
	}
}

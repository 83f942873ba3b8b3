// Package store holds the persistence collaborators for the learning
// models: Markov transition counts and Q-values. Both interfaces follow
// "not found means default" semantics, never erroring on absent rows, so
// a cold store degrades quality rather than availability.
package store

import "sync"

// MarkovStore persists transition counts between letter states. The
// distinguished "START" state maps to initial grams.
type MarkovStore interface {
	// RecordTransition accumulates count onto the (current, next) pair.
	RecordTransition(current, next string, count int) error
	// Transitions returns the raw outgoing counts for a state. A state
	// with no recorded transitions yields an empty map.
	Transitions(current string) (map[string]int, error)
	// StateProbabilities returns the normalized outgoing distribution
	// for a state, empty if the state has no recorded transitions.
	StateProbabilities(current string) (map[string]float64, error)
}

// QStore persists the Q-table. Absent (state, action) pairs read as 0.
type QStore interface {
	GetQValue(state, action string) (float64, error)
	SetQValue(state, action string, value float64) error
	// StateActions returns all recorded actions and values for a state.
	StateActions(state string) (map[string]float64, error)
}

// Memory is an in-process MarkovStore and QStore. It backs tests and is
// the fallback when the durable store is unavailable.
type Memory struct {
	mu          sync.RWMutex
	transitions map[string]map[string]int
	qvalues     map[string]map[string]float64
}

func NewMemory() *Memory {
	return &Memory{
		transitions: make(map[string]map[string]int),
		qvalues:     make(map[string]map[string]float64),
	}
}

func (m *Memory) RecordTransition(current, next string, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transitions[current]
	if !ok {
		t = make(map[string]int)
		m.transitions[current] = t
	}
	t[next] += count
	return nil
}

func (m *Memory) Transitions(current string) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int, len(m.transitions[current]))
	for next, count := range m.transitions[current] {
		out[next] = count
	}
	return out, nil
}

func (m *Memory) StateProbabilities(current string) (map[string]float64, error) {
	counts, err := m.Transitions(current)
	if err != nil {
		return nil, err
	}
	return Normalize(counts), nil
}

func (m *Memory) GetQValue(state, action string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.qvalues[state][action], nil
}

func (m *Memory) SetQValue(state, action string, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.qvalues[state]
	if !ok {
		q = make(map[string]float64)
		m.qvalues[state] = q
	}
	q[action] = value
	return nil
}

func (m *Memory) StateActions(state string) (map[string]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]float64, len(m.qvalues[state]))
	for action, value := range m.qvalues[state] {
		out[action] = value
	}
	return out, nil
}

// Normalize turns raw outgoing counts into a probability distribution.
// Zero total yields an empty map, never a division by zero.
func Normalize(counts map[string]int) map[string]float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return map[string]float64{}
	}
	probs := make(map[string]float64, len(counts))
	for next, c := range counts {
		probs[next] = float64(c) / float64(total)
	}
	return probs
}

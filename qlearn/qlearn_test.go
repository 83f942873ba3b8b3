package qlearn

import (
	"math/rand"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordforge/wordforge/pool"
	"github.com/wordforge/wordforge/store"
)

func newSelector(seed int64) *Selector {
	s := NewSelector()
	s.SetRandomizer(rand.New(rand.NewSource(seed)))
	return s
}

func TestSelectActionFiltersFormable(t *testing.T) {
	is := is.New(t)
	s := newSelector(1)
	letters := pool.FromString("ATERS")

	// QUILT is not formable and must never be chosen.
	for i := 0; i < 20; i++ {
		got := s.SelectAction(letters, []string{"QUILT", "RATE"})
		is.Equal(got, "RATE")
	}
}

func TestSelectActionNoFormableCandidates(t *testing.T) {
	is := is.New(t)
	s := newSelector(1)

	is.Equal(s.SelectAction(pool.FromString("ATERS"), []string{"QUILT"}), "")
	is.Equal(s.SelectAction(pool.FromString("ATERS"), nil), "")
	is.Equal(s.SelectAction(pool.FromString(""), []string{"RATE"}), "")
}

func TestSelectActionDuplicateLetters(t *testing.T) {
	is := is.New(t)
	s := newSelector(1)

	// SEES needs two Ss; the pool only has one.
	is.Equal(s.SelectAction(pool.FromString("SEE"), []string{"SEES"}), "")
	is.Equal(s.SelectAction(pool.FromString("SEES"), []string{"SEES"}), "SEES")
}

func TestUpdateMovesTowardReward(t *testing.T) {
	s := newSelector(2)
	s.SetLearningParams(0.5, 0.9, 0)
	letters := pool.FromString("ATERS")

	got := s.SelectAction(letters, []string{"RATE"})
	require.Equal(t, "RATE", got)
	s.Update(1.0, nil)

	q1 := s.QValue("AERST", "RATE")
	assert.InDelta(t, 0.5, q1, 1e-9) // 0 + 0.5*(1.0 + 0 - 0)

	s.SelectAction(letters, []string{"RATE"})
	s.Update(1.0, nil)
	q2 := s.QValue("AERST", "RATE")
	assert.Greater(t, q2, q1, "repeated reward keeps pulling Q upward")
}

func TestUpdateWithoutPendingActionIsNoop(t *testing.T) {
	is := is.New(t)
	s := newSelector(3)
	s.Update(5.0, pool.FromString("ATERS"))
	is.Equal(s.TotalStates(), 0)
}

func TestUpdateUsesNextStateMax(t *testing.T) {
	s := newSelector(4)
	s.SetLearningParams(1.0, 0.5, 0)

	// Seed the next state with a known value.
	next := pool.FromString("TEA")
	s.SelectAction(next, []string{"TEA"})
	s.Update(1.0, nil) // Q(AET, TEA) = 1.0

	letters := pool.FromString("ATERS")
	s.SelectAction(letters, []string{"RATE"})
	s.Update(0.0, next)
	// Q = 0 + 1.0*(0 + 0.5*1.0 - 0) = 0.5
	assert.InDelta(t, 0.5, s.QValue("AERST", "RATE"), 1e-9)
}

func TestToyMDPConvergence(t *testing.T) {
	// One state, two actions, deterministic rewards. With decaying
	// exploration the selector converges to the better action.
	s := newSelector(5)
	s.SetLearningParams(0.2, 0.9, 0.5)
	letters := pool.FromString("ATERS")
	rewards := map[string]float64{"RATE": 1.0, "TEA": 0.2}

	for i := 0; i < 300; i++ {
		action := s.SelectAction(letters, []string{"TEA", "RATE"})
		require.NotEmpty(t, action)
		s.Update(rewards[action], nil)
	}

	// Epsilon to zero: pure exploitation must pick RATE.
	s.SetLearningParams(0.2, 0.9, 0)
	assert.Equal(t, "RATE", s.SelectAction(letters, []string{"TEA", "RATE"}))
	assert.Greater(t, s.QValue("AERST", "RATE"), s.QValue("AERST", "TEA"))
}

func TestOptimisticDefault(t *testing.T) {
	// A learned negative value loses to an unseen action's default 0.
	s := newSelector(6)
	s.SetLearningParams(1.0, 0.9, 0)
	letters := pool.FromString("ATERS")

	s.SelectAction(letters, []string{"TEA"})
	s.Update(-1.0, nil)
	assert.Equal(t, "RATE", s.SelectAction(letters, []string{"TEA", "RATE"}))
}

func TestEpsilonDecay(t *testing.T) {
	is := is.New(t)
	s := newSelector(7)
	start := s.Epsilon()
	s.StartGame()
	is.True(s.Epsilon() < start)

	for i := 0; i < 200; i++ {
		s.StartGame()
	}
	is.True(s.Epsilon() >= defaultEpsilonMin)
}

func TestStoreRoundTrip(t *testing.T) {
	st := store.NewMemory()

	s := newSelector(8)
	s.SetStore(st)
	s.SetLearningParams(1.0, 0.9, 0)
	letters := pool.FromString("ATERS")
	s.SelectAction(letters, []string{"RATE"})
	s.Update(1.0, nil)

	// A fresh selector hydrates the learned value from the store.
	s2 := newSelector(9)
	s2.SetStore(st)
	assert.InDelta(t, 1.0, s2.QValue("AERST", "RATE"), 1e-9)
}

package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
	}
}

func TestMerge(t *testing.T) {
	is := is.New(t)
	vals := []float64{10, 12, 23, 23, 16, 23, 21, 16}

	whole := &Statistic{}
	for _, v := range vals {
		whole.Push(v)
	}

	a := &Statistic{}
	b := &Statistic{}
	for i, v := range vals {
		if i < 3 {
			a.Push(v)
		} else {
			b.Push(v)
		}
	}
	a.Merge(b)

	is.Equal(a.Iterations(), whole.Iterations())
	is.True(FuzzyEqual(a.Mean(), whole.Mean()))
	is.True(FuzzyEqual(a.Stdev(), whole.Stdev()))
}

func TestErrorMargin(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	is.True(FuzzyEqual(s.ErrorMargin(95), 0))

	for _, v := range []float64{10, 12, 23, 23, 16, 23, 21, 16} {
		s.Push(v)
	}
	// z(95%) is about 1.96.
	expected := 1.959963985 * s.StandardError()
	is.True(FuzzyEqual(s.ErrorMargin(95), expected))
	is.True(s.ErrorMargin(99) > s.ErrorMargin(95))
}

func TestMergeEmpty(t *testing.T) {
	is := is.New(t)
	a := &Statistic{}
	b := &Statistic{}
	b.Push(5)
	a.Merge(b)
	is.Equal(a.Iterations(), 1)
	is.True(FuzzyEqual(a.Mean(), 5))

	c := &Statistic{}
	a.Merge(c)
	is.Equal(a.Iterations(), 1)
}

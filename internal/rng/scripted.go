package rng

import "fmt"

// Scripted replays a fixed sequence of draws. It is meant for tests that
// need a known deck order or dice roll; it panics when the script runs
// out or a value falls outside the requested bound.
type Scripted struct {
	values []int
	next   int
}

func NewScripted(values ...int) *Scripted {
	return &Scripted{values: values}
}

func (s *Scripted) Intn(n int) int {
	if s.next >= len(s.values) {
		panic("rng: scripted source exhausted")
	}
	v := s.values[s.next]
	s.next++
	if v < 0 || v >= n {
		panic(fmt.Sprintf("rng: scripted value %d outside [0,%d)", v, n))
	}
	return v
}

// Remaining reports how many scripted draws are left.
func (s *Scripted) Remaining() int {
	return len(s.values) - s.next
}

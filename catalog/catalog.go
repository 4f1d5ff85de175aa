/*
Package catalog provides the questions, statuses and answerers of a headless
simulation, where agents are described by samples of named properties.
*/
package catalog

import (
	"fmt"
	"reflect"

	"github.com/pbanos/evolution/brain"
	"github.com/pbanos/evolution/tree"
)

/*
Case is a sample along the status an agent in that state is expected to
take.
*/
type Case struct {
	Sample   Sample
	Expected tree.Status
}

/*
Catalog gathers the questions and statuses brains can be built from and
the cases to evaluate them against. Questions and statuses are told apart
with ==, so their types must be comparable.
*/
type Catalog struct {
	Questions []tree.Question
	Statuses  []tree.Status
	Cases     []Case
}

/*
Validate returns an error if the catalog has no questions or statuses, has
repeated ones, or has cases expecting statuses not in the catalog.
*/
func (c *Catalog) Validate() error {
	if len(c.Questions) == 0 {
		return fmt.Errorf("catalog has no questions")
	}
	if len(c.Statuses) == 0 {
		return fmt.Errorf("catalog has no statuses")
	}
	for i, q := range c.Questions {
		if !isComparable(q) {
			return fmt.Errorf("catalog question %d of type %T cannot be compared", i, q)
		}
		for _, other := range c.Questions[:i] {
			if q == other {
				return fmt.Errorf("catalog repeats question %v", q)
			}
		}
	}
	for i, s := range c.Statuses {
		if !isComparable(s) {
			return fmt.Errorf("catalog status %d of type %T cannot be compared", i, s)
		}
		for _, other := range c.Statuses[:i] {
			if s == other {
				return fmt.Errorf("catalog repeats status %v", s)
			}
		}
	}
	for i, cs := range c.Cases {
		if !c.hasStatus(cs.Expected) {
			return fmt.Errorf("case %d expects unknown status %v", i, cs.Expected)
		}
	}
	return nil
}

func (c *Catalog) hasStatus(s tree.Status) bool {
	if !isComparable(s) {
		return false
	}
	for _, status := range c.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// isComparable returns whether v can be compared with == without panicking
func isComparable(v interface{}) bool {
	return v != nil && reflect.TypeOf(v).Comparable()
}

/*
SuccessRate takes a brain and a slice of cases and returns the share of
cases for which the brain decides the expected status. It returns an
error if there are no cases or a decision cannot be made.
*/
func SuccessRate(b brain.Brain, cases []Case) (float64, error) {
	if b == nil {
		return 0.0, fmt.Errorf("%w: brain cannot be nil", tree.ErrInvalidArgument)
	}
	if len(cases) == 0 {
		return 0.0, fmt.Errorf("%w: no cases to evaluate", tree.ErrInvalidArgument)
	}
	var result float64
	for i, cs := range cases {
		s, err := b.Decide(cs.Sample)
		if err != nil {
			return 0.0, fmt.Errorf("deciding case %d: %w", i, err)
		}
		if isComparable(s) && s == cs.Expected {
			result += 1.0
		}
	}
	return result / float64(len(cases)), nil
}

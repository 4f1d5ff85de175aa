package catalog

import (
	"fmt"

	"github.com/pbanos/evolution/tree"
)

/*
Sample represents the observable state of an agent as a set of named
property values: float64 values for numeric properties and string values
for discrete ones.

Sample is a tree.Answerer: it answers SampleQuestions by themselves
and any other question with false.
*/
type Sample map[string]interface{}

/*
NewSample takes a map of property names to values and returns a sample
with them. Integer values are converted to float64. It returns an error if
any value is not a number or a string.
*/
func NewSample(values map[string]interface{}) (Sample, error) {
	s := make(Sample, len(values))
	for p, v := range values {
		switch v := v.(type) {
		case float64:
			s[p] = v
		case float32:
			s[p] = float64(v)
		case int:
			s[p] = float64(v)
		case int64:
			s[p] = float64(v)
		case string:
			s[p] = v
		default:
			return nil, fmt.Errorf("property %s expects a number or string value, got %T value", p, v)
		}
	}
	return s, nil
}

// ValueFor returns the value of the sample for the given property, or nil
func (s Sample) ValueFor(property string) interface{} {
	return s[property]
}

// Answer takes a question and returns the answer of the sample to it
func (s Sample) Answer(q tree.Question) bool {
	sq, ok := q.(SampleQuestion)
	if !ok {
		return false
	}
	return sq.AnsweredBy(s)
}

func (s Sample) String() string {
	return fmt.Sprintf("%v", map[string]interface{}(s))
}

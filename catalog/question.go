package catalog

import (
	"fmt"
)

/*
SampleQuestion is a question that samples can answer. Its AnsweredBy method
takes a sample and returns the answer of the sample to the question.
*/
type SampleQuestion interface {
	fmt.Stringer
	AnsweredBy(Sample) bool
}

/*
ThresholdQuestion asks whether a numeric property of a sample is
above a threshold, or below it if Below is true.
*/
type ThresholdQuestion struct {
	Property  string
	Threshold float64
	Below     bool
}

/*
EqualityQuestion asks whether a discrete property of a sample takes
a given value.
*/
type EqualityQuestion struct {
	Property string
	Value    string
}

/*
AnsweredBy takes a sample and returns true if the sample defines a
float64 value for the question property that is strictly above the
threshold (or strictly below it for Below questions), and false otherwise.
*/
func (q ThresholdQuestion) AnsweredBy(s Sample) bool {
	v, ok := s.ValueFor(q.Property).(float64)
	if !ok {
		return false
	}
	if q.Below {
		return v < q.Threshold
	}
	return v > q.Threshold
}

func (q ThresholdQuestion) String() string {
	if q.Below {
		return fmt.Sprintf("%s < %g", q.Property, q.Threshold)
	}
	return fmt.Sprintf("%s > %g", q.Property, q.Threshold)
}

/*
AnsweredBy takes a sample and returns true if the sample defines the
question value for the question property, and false otherwise.
*/
func (q EqualityQuestion) AnsweredBy(s Sample) bool {
	v, ok := s.ValueFor(q.Property).(string)
	return ok && v == q.Value
}

func (q EqualityQuestion) String() string {
	return fmt.Sprintf("%s is %s", q.Property, q.Value)
}

// NamedStatus is a status identified by its name
type NamedStatus string

func (ns NamedStatus) String() string {
	return string(ns)
}

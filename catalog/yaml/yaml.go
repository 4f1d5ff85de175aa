/*
Package yaml provides methods to parse catalog.Catalog specifications from
YAML documents.
*/
package yaml

import (
	"fmt"
	"os"

	"github.com/pbanos/evolution/catalog"
	"github.com/pbanos/evolution/tree"
	yaml "gopkg.in/yaml.v2"
)

type document struct {
	Questions []question `yaml:"questions"`
	Statuses  []string   `yaml:"statuses"`
	Cases     []testCase `yaml:"cases"`
}

type question struct {
	Property string   `yaml:"property"`
	Above    *float64 `yaml:"above"`
	Below    *float64 `yaml:"below"`
	Is       *string  `yaml:"is"`
}

type testCase struct {
	Sample map[string]interface{} `yaml:"sample"`
	Status string                 `yaml:"status"`
}

/*
ReadCatalog takes a slice of bytes with a catalog specification in YML and
returns the catalog parsed from it or an error.
The YML is expected to be an object with the following properties:
  - questions: a list of objects with a property name and one of
    'above' or 'below' with a numeric threshold, or 'is' with a value.
  - statuses: a list of status names.
  - cases: an optional list of objects with a 'sample' object mapping
    property names to values and the name of the expected 'status'.

The parsed catalog is validated before being returned.
*/
func ReadCatalog(md []byte) (*catalog.Catalog, error) {
	doc := &document{}
	err := yaml.Unmarshal(md, doc)
	if err != nil {
		return nil, fmt.Errorf("parsing yml catalog: %v", err)
	}
	c := &catalog.Catalog{}
	for i, q := range doc.Questions {
		parsed, err := q.parse()
		if err != nil {
			return nil, fmt.Errorf("parsing question %d: %v", i, err)
		}
		c.Questions = append(c.Questions, parsed)
	}
	for _, s := range doc.Statuses {
		c.Statuses = append(c.Statuses, catalog.NamedStatus(s))
	}
	for i, tc := range doc.Cases {
		s, err := catalog.NewSample(tc.Sample)
		if err != nil {
			return nil, fmt.Errorf("parsing case %d: %v", i, err)
		}
		if tc.Status == "" {
			return nil, fmt.Errorf("parsing case %d: no status", i)
		}
		c.Cases = append(c.Cases, catalog.Case{Sample: s, Expected: catalog.NamedStatus(tc.Status)})
	}
	if err = c.Validate(); err != nil {
		return nil, fmt.Errorf("validating yml catalog: %v", err)
	}
	return c, nil
}

/*
ReadCatalogFromFile takes a filepath string, reads its contents and uses
ReadCatalog to parse it and return a catalog or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadCatalogFromFile(filepath string) (*catalog.Catalog, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading catalog yml file %s: %v", filepath, err)
	}
	c, err := ReadCatalog(md)
	if err != nil {
		err = fmt.Errorf("parsing catalog yml file %s: %v", filepath, err)
	}
	return c, err
}

func (q question) parse() (tree.Question, error) {
	if q.Property == "" {
		return nil, fmt.Errorf("no property")
	}
	var set int
	for _, ok := range []bool{q.Above != nil, q.Below != nil, q.Is != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("question on %s must define exactly one of above, below or is", q.Property)
	}
	switch {
	case q.Above != nil:
		return catalog.ThresholdQuestion{Property: q.Property, Threshold: *q.Above}, nil
	case q.Below != nil:
		return catalog.ThresholdQuestion{Property: q.Property, Threshold: *q.Below, Below: true}, nil
	}
	return catalog.EqualityQuestion{Property: q.Property, Value: *q.Is}, nil
}

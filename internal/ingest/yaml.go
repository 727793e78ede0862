package ingest

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Questions []Draft `yaml:"questions"`
}

// LoadYAML reads a catalog file:
//
//	questions:
//	  - content: What is 2+2?
//	    options: ["3", "4"]
//	    correct_answers: [B]
func LoadYAML(r io.Reader, opts Options) ([]Draft, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i := range f.Questions {
		f.Questions[i].Clean(opts)
	}
	return f.Questions, nil
}

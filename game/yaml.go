/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"errors"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

type yamlMovie struct {
	Title string   `yaml:"title"`
	Cast  []string `yaml:"cast"`
}

type yamlDocument struct {
	Actresses []string    `yaml:"actresses"`
	Actors    []string    `yaml:"actors"`
	Movies    []yamlMovie `yaml:"movies"`
}

// ParseYAML reads a game described as a YAML document:
//
//	actresses: [DianaKruger, MelanieLaurent]
//	actors: [BradPitt, NormanReedus]
//	movies:
//	  - title: Inglourious Basterds
//	    cast: [DianaKruger, MelanieLaurent, BradPitt]
func ParseYAML(r io.Reader) (*Input, error) {
	var doc yamlDocument

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrMalformedInput)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	in := &Input{
		Actresses: doc.Actresses,
		Actors:    doc.Actors,
		Movies:    make([]Movie, 0, len(doc.Movies)),
	}
	for _, m := range doc.Movies {
		in.Movies = append(in.Movies, NewMovie(m.Title, m.Cast...))
	}

	return in, nil
}

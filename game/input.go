/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

var ErrMalformedInput = errors.New("malformed input")

const maxLineSize = 1 << 20

// Input is a fully loaded game: both name lists in input order and the movie
// table.
type Input struct {
	Actresses []string
	Actors    []string
	Movies    []Movie
}

// Seed returns the opening state of the game described by in.
func (in *Input) Seed() (State, error) {
	return Seed(in.Actresses, in.Actors)
}

func (in *Input) Catalog() *Catalog {
	return NewCatalog(in.Movies)
}

// Validate checks the assumptions the engine makes about its input: names
// are unique within each side and no name appears on both sides.
func (in *Input) Validate() error {
	sides := make(map[string]string, len(in.Actresses)+len(in.Actors))

	for _, side := range []struct {
		label string
		names []string
	}{
		{"actress", in.Actresses},
		{"actor", in.Actors},
	} {
		for _, name := range side.names {
			prev, ok := sides[name]
			switch {
			case ok && prev == side.label:
				return fmt.Errorf("%w: duplicate %s %q", ErrMalformedInput, side.label, name)
			case ok:
				return fmt.Errorf("%w: %q is listed as both %s and %s", ErrMalformedInput, name, prev, side.label)
			}
			sides[name] = side.label
		}
	}

	return nil
}

type Format int

const (
	FormatAuto Format = iota
	FormatText
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text", "txt":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatAuto, fmt.Errorf("unknown input format %q (expected text, yaml or auto)", s)
	}
}

// FormatFromPath guesses the format of a file from its extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Load reads a game in the given format. FormatAuto is treated as text.
func Load(r io.Reader, f Format) (*Input, error) {
	if f == FormatYAML {
		return ParseYAML(r)
	}
	return Parse(r)
}

type lineReader struct {
	s    *bufio.Scanner
	line int
}

func newLineReader(r io.Reader) *lineReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &lineReader{s: s}
}

func (lr *lineReader) next(what string) (string, error) {
	if !lr.s.Scan() {
		if err := lr.s.Err(); err != nil {
			return "", fmt.Errorf("line %d: reading %s: %w", lr.line+1, what, err)
		}
		return "", fmt.Errorf("%w: line %d: unexpected end of input, expected %s", ErrMalformedInput, lr.line+1, what)
	}
	lr.line++
	return strings.TrimSuffix(lr.s.Text(), "\r"), nil
}

// count reads a non-negative integer, skipping blank lines first. Anything
// after the first field is ignored.
func (lr *lineReader) count(what string) (int, error) {
	for {
		text, err := lr.next(what)
		if err != nil {
			return 0, err
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: line %d: invalid %s %q", ErrMalformedInput, lr.line, what, fields[0])
		}
		return n, nil
	}
}

func (lr *lineReader) names(n int, what string) ([]string, error) {
	names := make([]string, 0, n)
	for range n {
		name, err := lr.next(what)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Parse reads the line-oriented game format:
//
//	n m
//	n actress lines
//	n actor lines
//	m times: a title line, a cast size line, then that many cast lines
//
// Every name occupies a whole line and may contain spaces.
func Parse(r io.Reader) (*Input, error) {
	lr := newLineReader(r)

	var header []string
	for len(header) == 0 {
		text, err := lr.next("counts")
		if err != nil {
			return nil, err
		}
		header = strings.Fields(text)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: line %d: expected name and movie counts, got %q", ErrMalformedInput, lr.line, strings.Join(header, " "))
	}

	n, err := strconv.Atoi(header[0])
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: line %d: invalid name count %q", ErrMalformedInput, lr.line, header[0])
	}
	m, err := strconv.Atoi(header[1])
	if err != nil || m < 0 {
		return nil, fmt.Errorf("%w: line %d: invalid movie count %q", ErrMalformedInput, lr.line, header[1])
	}

	in := &Input{
		Movies: make([]Movie, 0, m),
	}

	if in.Actresses, err = lr.names(n, "actress"); err != nil {
		return nil, err
	}
	if in.Actors, err = lr.names(n, "actor"); err != nil {
		return nil, err
	}

	for range m {
		title, err := lr.next("movie title")
		if err != nil {
			return nil, err
		}
		size, err := lr.count("cast size")
		if err != nil {
			return nil, err
		}
		cast, err := lr.names(size, "cast member of "+strconv.Quote(title))
		if err != nil {
			return nil, err
		}
		in.Movies = append(in.Movies, NewMovie(title, cast...))
	}

	return in, nil
}

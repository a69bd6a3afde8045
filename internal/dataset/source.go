// Package dataset fetches and parses the datasets a story declares.
//
// Sources are fetched in parallel but always returned in declaration order,
// and a batch either loads completely or fails as a whole.
package dataset

import (
	"fmt"
	"strings"
)

// Format is the shape of a source document.
type Format string

const (
	// FormatTabular is CSV with a header row.
	FormatTabular Format = "tabular"
	// FormatTree is a JSON (or YAML) document.
	FormatTree Format = "tree"
)

// ParseFormat accepts the canonical names plus the file-type aliases used in
// story files.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tabular", "csv":
		return FormatTabular, nil
	case "tree", "json", "yaml":
		return FormatTree, nil
	}
	return "", fmt.Errorf("unknown source format %q", s)
}

// Source is one declared dataset: how to parse it and where it lives.
type Source struct {
	Format   Format `yaml:"format" json:"format"`
	Location string `yaml:"location" json:"location"`
}

func (s Source) String() string {
	return fmt.Sprintf("%s:%s", s.Format, s.Location)
}

// Validate checks the descriptor without fetching anything.
func (s Source) Validate() error {
	if _, err := ParseFormat(string(s.Format)); err != nil {
		return err
	}
	if strings.TrimSpace(s.Location) == "" {
		return fmt.Errorf("source location is empty")
	}
	return nil
}

// Normalize rewrites format aliases to their canonical names.
func (s Source) Normalize() Source {
	if f, err := ParseFormat(string(s.Format)); err == nil {
		s.Format = f
	}
	return s
}

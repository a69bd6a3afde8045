package dataset

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Tree is a parsed hierarchical document held as JSON.
type Tree struct {
	raw []byte
}

// ParseTree accepts JSON, or YAML when the location says so. YAML is
// re-encoded as JSON so every consumer queries one representation.
func ParseTree(data []byte, location string) (*Tree, error) {
	switch strings.ToLower(path.Ext(location)) {
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("yaml to json: %w", err)
		}
		return &Tree{raw: raw}, nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("json: invalid document")
	}
	return &Tree{raw: data}, nil
}

// Raw returns the JSON bytes.
func (t *Tree) Raw() []byte { return t.raw }

// Get evaluates a gjson path against the document. An empty path is the root.
func (t *Tree) Get(p string) gjson.Result {
	if p == "" || p == "@this" {
		return gjson.ParseBytes(t.raw)
	}
	return gjson.GetBytes(t.raw, p)
}

// Decode unmarshals the document into v.
func (t *Tree) Decode(v interface{}) error {
	return json.Unmarshal(t.raw, v)
}

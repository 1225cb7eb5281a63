package index

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/incidents/internal/model"
)

// Format names a dataset encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// document is the on-disk dataset shape
type document struct {
	Groups []rawGroup `json:"groups" yaml:"groups"`
}

type rawGroup struct {
	Race              string `json:"race" yaml:"race"`
	Armed             string `json:"armed" yaml:"armed"`
	N                 int    `json:"n" yaml:"n"`
	IDs               []int  `json:"ids" yaml:"ids"`
	IDsMissingContent []int  `json:"idsMissingContent" yaml:"idsMissingContent"`
}

// FormatFromPath infers the dataset format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Load reads and validates the dataset at path
func Load(path string) (*Index, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	return Parse(data, format)
}

// Parse decodes a dataset. Both {"groups": [...]} and a bare group array are accepted.
// Unknown keys and a missing groups key are rejected.
func Parse(data []byte, format Format) (*Index, error) {
	var (
		doc document
		err error
	)

	switch format {
	case FormatJSON:
		doc, err = decodeJSON(bytes.TrimSpace(data))
	case FormatYAML:
		doc, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}
	if err != nil {
		return nil, &DataFormatError{Group: -1, Reason: err.Error()}
	}
	if doc.Groups == nil {
		return nil, &DataFormatError{Group: -1, Reason: "missing groups"}
	}

	groups := make([]model.Group, len(doc.Groups))
	for i, raw := range doc.Groups {
		race, err := model.ParseRace(raw.Race)
		if err != nil {
			return nil, formatErr(i, "%v", err)
		}
		armed, err := model.ParseArmed(raw.Armed)
		if err != nil {
			return nil, formatErr(i, "%v", err)
		}
		groups[i] = model.Group{
			Race:         race,
			Armed:        armed,
			N:            raw.N,
			FullIDs:      raw.IDs,
			DeficientIDs: raw.IDsMissingContent,
		}
	}

	return New(groups)
}

func decodeJSON(data []byte) (document, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if len(data) > 0 && data[0] == '[' {
		return doc, dec.Decode(&doc.Groups)
	}
	return doc, dec.Decode(&doc)
}

func decodeYAML(data []byte) (document, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var node yaml.Node
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return doc, errors.New("empty document")
		}
		return doc, err
	}

	// Re-decode through a strict decoder once the top-level shape is known
	strict := yaml.NewDecoder(bytes.NewReader(data))
	strict.KnownFields(true)
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		return doc, strict.Decode(&doc.Groups)
	}
	return doc, strict.Decode(&doc)
}

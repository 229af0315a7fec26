package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// document is the YAML-serializable mirror of Loader. Direction is spelled
// out as a string in the file (directed/undirected_double/undirected_ordered)
// so configuration files stay readable and stable across any future
// reordering of the Direction iota.
type document struct {
	Direction           string   `yaml:"direction"`
	ReverseEdges        bool     `yaml:"reverse_edges"`
	ReverseMaps         bool     `yaml:"reverse_maps"`
	Deduplicate         bool     `yaml:"deduplicate"`
	NoProperties        bool     `yaml:"no_properties"`
	TmpDirs             []string `yaml:"tmp_dirs"`
	XSBufferSize        int64    `yaml:"xs_buffer_size"`
	MaxEdges            uint64   `yaml:"max_edges"`
	PartialLoadPart     int      `yaml:"partial_load_part"`
	PartialLoadNumParts int      `yaml:"partial_load_num_parts"`
	Continuations       bool     `yaml:"continuations"`
	Timestamps          bool     `yaml:"timestamps"`
	MaxMalformedLines   int      `yaml:"max_malformed_lines"`
}

func directionToString(d Direction) string {
	switch d {
	case UndirectedDouble:
		return "undirected_double"
	case UndirectedOrdered:
		return "undirected_ordered"
	default:
		return "directed"
	}
}

func directionFromString(s string) (Direction, error) {
	switch s {
	case "", "directed":
		return Directed, nil
	case "undirected_double":
		return UndirectedDouble, nil
	case "undirected_ordered":
		return UndirectedOrdered, nil
	default:
		return 0, fmt.Errorf("config: unknown direction %q", s)
	}
}

func (l Loader) toDocument() document {
	return document{
		Direction:           directionToString(l.Direction),
		ReverseEdges:        l.ReverseEdges,
		ReverseMaps:         l.ReverseMaps,
		Deduplicate:         l.Deduplicate,
		NoProperties:        l.NoProperties,
		TmpDirs:             l.TmpDirs,
		XSBufferSize:        l.XSBufferSize,
		MaxEdges:            l.MaxEdges,
		PartialLoadPart:     l.PartialLoadPart,
		PartialLoadNumParts: l.PartialLoadNumParts,
		Continuations:       l.Continuations,
		Timestamps:          l.Timestamps,
		MaxMalformedLines:   l.MaxMalformedLines,
	}
}

func (d document) toLoader() (Loader, error) {
	dir, err := directionFromString(d.Direction)
	if err != nil {
		return Loader{}, err
	}
	return Loader{
		Direction:           dir,
		ReverseEdges:        d.ReverseEdges,
		ReverseMaps:         d.ReverseMaps,
		Deduplicate:         d.Deduplicate,
		NoProperties:        d.NoProperties,
		TmpDirs:             d.TmpDirs,
		XSBufferSize:        d.XSBufferSize,
		MaxEdges:            d.MaxEdges,
		PartialLoadPart:     d.PartialLoadPart,
		PartialLoadNumParts: d.PartialLoadNumParts,
		Continuations:       d.Continuations,
		Timestamps:          d.Timestamps,
		MaxMalformedLines:   d.MaxMalformedLines,
	}, nil
}

// Marshal renders l as YAML bytes.
func (l Loader) Marshal() ([]byte, error) {
	return yaml.Marshal(l.toDocument())
}

// Unmarshal parses YAML bytes into a Loader and validates it.
func Unmarshal(data []byte) (Loader, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Loader{}, fmt.Errorf("config: parse yaml: %w", err)
	}
	l, err := doc.toLoader()
	if err != nil {
		return Loader{}, err
	}
	if err := l.Validate(); err != nil {
		return Loader{}, err
	}
	return l, nil
}

// LoadFile reads and validates a Loader configuration from a YAML file.
func LoadFile(path string) (Loader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loader{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Unmarshal(data)
}

// SaveFile writes l as YAML to path, overwriting any existing file.
func (l Loader) SaveFile(path string) error {
	data, err := l.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

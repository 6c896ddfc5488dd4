package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("catalog: unknown dataset format")

//go:embed data/museums.yaml
var seedYAML []byte

// document is the on-disk shape of a dataset file.
type document struct {
	Museums []Museum `json:"museums" yaml:"museums"`
}

// Embedded returns the dataset compiled into the binary.
func Embedded() (*Dataset, error) {
	return Decode(bytes.NewReader(seedYAML), "yaml")
}

// LoadFile reads a .json, .yaml or .yml dataset file.
func LoadFile(path string) (*Dataset, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return d, nil
}

// Decode parses a dataset document in the given format ("json", "yaml" or "yml").
func Decode(r io.Reader, format string) (*Dataset, error) {
	var doc document
	switch format {
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return NewDataset(doc.Museums)
}

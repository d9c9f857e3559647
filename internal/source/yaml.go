package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v2"
)

// advisoryFile is the document layout of an advisory YAML file.
type advisoryFile struct {
	Advisories []Record `yaml:"advisories"`
}

// YAMLSource reads advisories from a YAML file on disk.
type YAMLSource struct {
	Path string
}

// NewYAMLSource returns a source for the file at path.
func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{Path: path}
}

// Name identifies the source in logs and sync status.
func (s *YAMLSource) Name() string {
	return "yaml:" + s.Path
}

// Load reads and decodes the whole file. A missing or unreadable file and a
// malformed document are unrecoverable.
func (s *YAMLSource) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		err = fmt.Errorf("read advisories file: %w", err)
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, Unrecoverable(err)
		}
		return nil, err
	}

	records, err := DecodeYAML(data)
	if err != nil {
		return nil, Unrecoverable(err)
	}
	return records, nil
}

// DecodeYAML parses an advisory document of the form `advisories: [...]`.
func DecodeYAML(data []byte) ([]Record, error) {
	var doc advisoryFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode advisories yaml: %w", err)
	}
	return doc.Advisories, nil
}

package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// FileSource reads a graph document from a JSON file.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the JSON document at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the file the source reads.
func (s *FileSource) Path() string { return s.path }

// Describe implements Source.
func (s *FileSource) Describe() string { return "file:" + s.path }

// Load implements Source.
func (s *FileSource) Load(_ context.Context) (*Document, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening graph file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodeDocument(f)
}

// DecodeDocument parses a JSON graph document. Both top-level keys must be
// present; either array may be empty.
func DecodeDocument(r io.Reader) (*Document, error) {
	var raw struct {
		Entities      *[]RawEntity       `json:"entities"`
		Relationships *[]RawRelationship `json:"relationships"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if raw.Entities == nil {
		return nil, fmt.Errorf("%w: missing \"entities\" array", ErrInvalidDocument)
	}
	if raw.Relationships == nil {
		return nil, fmt.Errorf("%w: missing \"relationships\" array", ErrInvalidDocument)
	}
	return &Document{
		Entities:      *raw.Entities,
		Relationships: *raw.Relationships,
	}, nil
}

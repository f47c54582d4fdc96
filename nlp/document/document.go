// Package document reads mention documents produced by an upstream mention
// detector. Input is checked against a JSON schema before it is decoded, so a
// malformed file fails as a whole with ErrInvalidDocument.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/oarkflow/coref/nlp/coref"
	"github.com/oarkflow/coref/nlp/streaming"
)

var ErrInvalidDocument = errors.New("document: invalid input")

const documentSchema = `{
	"type": "object",
	"required": ["mentions"],
	"properties": {
		"id": {"type": "string"},
		"mentions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["index", "type"],
				"properties": {
					"index": {"type": "integer", "minimum": 0},
					"head": {"type": "string"},
					"type": {"type": "string", "minLength": 1},
					"text": {"type": "string"},
					"sentence": {"type": "integer", "minimum": 0},
					"gender": {"type": "string"},
					"number": {"type": "string"},
					"span": {
						"type": "object",
						"properties": {
							"begin": {"type": "integer", "minimum": 0},
							"end": {"type": "integer", "minimum": 0}
						}
					}
				}
			}
		}
	}
}`

var batchSchema = `{
	"type": "object",
	"required": ["documents"],
	"properties": {
		"documents": {"type": "array", "items": ` + documentSchema + `}
	}
}`

var (
	compileOnce sync.Once
	docSchema   *jsonschema.Schema
	batchSch    *jsonschema.Schema
	compileErr  error
)

func schemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		docSchema, compileErr = compiler.Compile([]byte(documentSchema))
		if compileErr != nil {
			return
		}
		batchSch, compileErr = compiler.Compile([]byte(batchSchema))
	})
	return docSchema, batchSch, compileErr
}

// Decode reads JSON holding either one document or {"documents": [...]}.
func Decode(data []byte) ([]coref.Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	single, batch, err := schemas()
	if err != nil {
		return nil, fmt.Errorf("compile document schema: %w", err)
	}

	if _, ok := raw["documents"]; ok {
		if result := batch.Validate(raw); !result.IsValid() {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, result.Errors)
		}
		var wrapper struct {
			Documents []coref.Document `json:"documents"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return wrapper.Documents, nil
	}

	if result := single.Validate(raw); !result.IsValid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, result.Errors)
	}
	var doc coref.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return []coref.Document{doc}, nil
}

// DecodeYAML converts YAML input to JSON and decodes it like Decode.
func DecodeYAML(data []byte) ([]coref.Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return Decode(b)
}

// DecodeLines reads newline delimited JSON, one document (or batch) per line.
func DecodeLines(r io.Reader) ([]coref.Document, error) {
	var docs []coref.Document
	err := streaming.Lines(r, func(_ int, line []byte) error {
		batch, err := Decode(line)
		if err != nil {
			return err
		}
		docs = append(docs, batch...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Load reads a document file. The extension picks the format: .yaml and .yml
// are YAML, .jsonl and .ndjson hold one JSON document per line, anything else
// is JSON.
func Load(path string) ([]coref.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidDocument, path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	case ".jsonl", ".ndjson":
		return DecodeLines(bytes.NewReader(data))
	default:
		return Decode(data)
	}
}

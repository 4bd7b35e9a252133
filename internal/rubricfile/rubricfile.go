// Package rubricfile reads and writes rubrics as JSON files. Files are
// validated against a JSON schema before use, since they are often edited by
// hand or produced by other tools.
package rubricfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/penilai/internal/rubric"
)

// Version is the file format version written by Write.
const Version = 1

// File is the on-disk layout.
type File struct {
	Version    int           `json:"version"`
	Title      string        `json:"title,omitempty"`
	DocumentID string        `json:"document_id,omitempty"`
	Rubric     rubric.Rubric `json:"rubric"`
}

const schemaJSON = `{
  "type": "object",
  "required": ["version", "rubric"],
  "properties": {
    "version": {"const": 1},
    "title": {"type": "string"},
    "document_id": {"type": "string"},
    "rubric": {
      "type": "object",
      "required": ["scheme", "criteria"],
      "properties": {
        "scheme": {"enum": ["rubric", "descriptive-criteria", "value-interval", "unknown"]},
        "label": {"type": "string"},
        "criteria": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["aspect"],
            "properties": {
              "aspect": {"type": "string", "minLength": 1},
              "indicator": {"type": "string"},
              "levels": {
                "type": "array",
                "maxItems": 4,
                "items": {
                  "type": "object",
                  "required": ["score"],
                  "properties": {
                    "score": {"type": "integer", "minimum": 1, "maximum": 4},
                    "label": {"type": "string"},
                    "description": {"type": "string"}
                  },
                  "additionalProperties": false
                }
              }
            },
            "additionalProperties": false
          }
        }
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

var fileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	const url = "schema://rubric-file.json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	return c.Compile(url)
})

// Read decodes and validates a rubric file.
func Read(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rubric file: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("rubric file is not JSON: %w", err)
	}
	sch, err := fileSchema()
	if err != nil {
		return nil, fmt.Errorf("compile rubric file schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid rubric file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode rubric file: %w", err)
	}
	for i := range f.Rubric.Criteria {
		f.Rubric.Criteria[i].Aspect = rubric.Normalize(f.Rubric.Criteria[i].Aspect)
		if f.Rubric.Criteria[i].Aspect == "" {
			return nil, fmt.Errorf("invalid rubric file: criterion %d has an empty aspect", i)
		}
	}
	if f.Rubric.Criteria == nil {
		f.Rubric.Criteria = []rubric.Criterion{}
	}
	return &f, nil
}

// Load reads a rubric file and returns only its rubric.
func Load(r io.Reader) (rubric.Rubric, error) {
	f, err := Read(r)
	if err != nil {
		return rubric.Rubric{}, err
	}
	return f.Rubric, nil
}

// Write encodes f as indented JSON, filling in the version.
func Write(w io.Writer, f File) error {
	f.Version = Version
	if f.Rubric.Criteria == nil {
		f.Rubric.Criteria = []rubric.Criterion{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("write rubric file: %w", err)
	}
	return nil
}

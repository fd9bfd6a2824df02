package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/elektrokombinacija/gridagent/internal/core"
)

// SchemaJSON describes the scenario file format.
const SchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["columns", "rows", "start"],
  "additionalProperties": false,
  "definitions": {
    "cell": {
      "type": "array",
      "items": {"type": "integer", "minimum": 0},
      "minItems": 2,
      "maxItems": 2
    }
  },
  "properties": {
    "name": {"type": "string"},
    "columns": {"type": "integer", "minimum": 1},
    "rows": {"type": "integer", "minimum": 1},
    "start": {"$ref": "#/definitions/cell"},
    "barriers": {
      "type": "array",
      "items": {"$ref": "#/definitions/cell"}
    },
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "cell"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "integer"},
          "cell": {"$ref": "#/definitions/cell"}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(SchemaJSON)

// SchemaError lists schema violations in a scenario document.
type SchemaError struct {
	Errors []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("scenario does not match schema: %s", strings.Join(e.Errors, "; "))
}

// fileCell is a [column, row] pair.
type fileCell [2]int

func (c fileCell) cell() core.Cell { return core.Cell{Col: c[0], Row: c[1]} }

func toFileCell(c core.Cell) fileCell { return fileCell{c.Col, c.Row} }

type fileTask struct {
	ID   int      `json:"id"`
	Cell fileCell `json:"cell"`
}

type file struct {
	Name     string     `json:"name,omitempty"`
	Columns  int        `json:"columns"`
	Rows     int        `json:"rows"`
	Start    fileCell   `json:"start"`
	Barriers []fileCell `json:"barriers"`
	Tasks    []fileTask `json:"tasks"`
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*core.Scenario, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, &SchemaError{Errors: msgs}
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}

	s := core.NewScenario(f.Name, f.Columns, f.Rows)
	s.Start = f.Start.cell()
	for _, b := range f.Barriers {
		c := b.cell()
		if !s.Grid.InBounds(c) {
			return nil, fmt.Errorf("%w: barrier %v out of bounds", core.ErrInvalidScenario, c)
		}
		s.Grid.AddBarrier(c)
	}
	for _, t := range f.Tasks {
		if !s.Grid.Tasks.Add(t.Cell.cell(), core.TaskID(t.ID)) {
			return nil, fmt.Errorf("%w: two tasks at %v", core.ErrInvalidScenario, t.Cell.cell())
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads a scenario file.
func Load(path string) (*core.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Marshal encodes a scenario in file format.
func Marshal(s *core.Scenario) ([]byte, error) {
	f := file{
		Name:     s.Name,
		Columns:  s.Grid.Columns,
		Rows:     s.Grid.Rows,
		Start:    toFileCell(s.Start),
		Barriers: []fileCell{},
		Tasks:    []fileTask{},
	}
	for _, b := range s.Grid.Barriers() {
		f.Barriers = append(f.Barriers, toFileCell(b))
	}
	for _, e := range s.Grid.Tasks.Entries() {
		f.Tasks = append(f.Tasks, fileTask{ID: int(e.ID), Cell: toFileCell(e.Cell)})
	}
	return json.MarshalIndent(f, "", "  ")
}

// Save writes a scenario file.
func Save(path string, s *core.Scenario) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	return nil
}

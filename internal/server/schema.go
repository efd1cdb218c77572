package server

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema names, one per request body.
const (
	schemaProfile       = "profile"
	schemaCompleteTopic = "complete_topic"
	schemaActivity      = "activity"
	schemaAdapt         = "adapt"
	schemaSchedule      = "schedule"
	schemaResources     = "resources"
)

type schemaSet map[string]*gojsonschema.Schema

func loadSchemas() (schemaSet, error) {
	set := make(schemaSet)
	err := fs.WalkDir(schemaFS, "schemas", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := schemaFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			return fmt.Errorf("compiling %s: %w", p, err)
		}
		set[strings.TrimSuffix(path.Base(p), ".json")] = schema
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// decode validates body against the named schema, then unmarshals it into
// dst. An empty body is treated as an empty object.
func (s schemaSet) decode(name string, body []byte, dst any) error {
	schema, ok := s[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &requestError{msg: fmt.Sprintf("malformed JSON: %v", err)}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return &requestError{msg: strings.Join(msgs, "; ")}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return &requestError{msg: fmt.Sprintf("decoding body: %v", err)}
	}
	return nil
}

// requestError is a client error reported as 400.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

package model

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	resumeSchema  = mustSchema("schemas/resume.schema.json")
	payloadSchema = mustSchema("schemas/save_payload.schema.json")
)

func mustSchema(name string) *gojsonschema.Schema {
	b, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("model: read %s: %v", name, err))
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		panic(fmt.Sprintf("model: compile %s: %v", name, err))
	}
	return s
}

// ValidateDocument checks an aggregated resume against resume.schema.json.
// It is a structural guard; field rules live in the orchestrator.
func ValidateDocument(r Resume) error {
	return check(resumeSchema, gojsonschema.NewGoLoader(r))
}

// ValidatePayload checks a raw save-resume request body.
func ValidatePayload(body []byte) error {
	return check(payloadSchema, gojsonschema.NewBytesLoader(body))
}

func check(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader) error {
	res, err := schema.Validate(doc)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	// collect errors
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}

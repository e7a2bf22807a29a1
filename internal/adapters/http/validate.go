package http

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Request body schemas. Compiled once at startup; a bad schema is a programming error.
var (
	deliveryCheckSchema = mustSchema(`{
		"type": "object",
		"properties": {
			"address": {"type": "string", "maxLength": 300},
			"point": {
				"type": "object",
				"properties": {
					"latitude":  {"type": "number", "minimum": -90,  "maximum": 90},
					"longitude": {"type": "number", "minimum": -180, "maximum": 180}
				},
				"required": ["latitude", "longitude"],
				"additionalProperties": false
			},
			"order_total": {"type": "number", "minimum": 0}
		},
		"anyOf": [
			{"required": ["address"], "properties": {"address": {"minLength": 1}}},
			{"required": ["point"]}
		],
		"additionalProperties": false
	}`)

	markdownPreviewSchema = mustSchema(`{
		"type": "object",
		"properties": {
			"markdown": {"type": "string", "maxLength": 65536}
		},
		"required": ["markdown"],
		"additionalProperties": false
	}`)

	contentSchema = mustSchema(`{
		"type": "object",
		"properties": {
			"id":            {"type": "string"},
			"kind":          {"type": "string", "enum": ["page", "post", "banner"]},
			"slug":          {"type": "string", "maxLength": 200},
			"title":         {"type": "string", "minLength": 1, "maxLength": 200},
			"body_markdown": {"type": "string", "maxLength": 65536}
		},
		"required": ["kind", "title"],
		"additionalProperties": false
	}`)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("compile schema: " + err.Error())
	}
	return s
}

// validateBody checks body against schema and returns one message per violation.
func validateBody(schema *gojsonschema.Schema, body []byte) ([]string, error) {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if res.Valid() {
		return nil, nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return msgs, nil
}

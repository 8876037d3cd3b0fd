package protocol

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidRequest wraps every decoding and schema failure.
var ErrInvalidRequest = errors.New("invalid request")

const requestSchemaURL = "request.schema.json"

//go:embed request.schema.json
var requestSchemaJSON []byte

var (
	schemaOnce    sync.Once
	requestSchema *jsonschema.Schema
	schemaErr     error
)

// RequestSchema returns the compiled request schema.
func RequestSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(requestSchemaURL, bytes.NewReader(requestSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		requestSchema, schemaErr = c.Compile(requestSchemaURL)
	})
	return requestSchema, schemaErr
}

// DecodeRequest validates data against the request schema and decodes it.
// The returned request keeps whatever ID could be read so failures can be
// answered in kind.
func DecodeRequest(data []byte) (Request, error) {
	var req Request

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return req, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if m, ok := doc.(map[string]any); ok {
		req.ID, _ = m["id"].(string)
		req.Op, _ = m["op"].(string)
	}

	schema, err := RequestSchema()
	if err != nil {
		return req, fmt.Errorf("compile request schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return req, fmt.Errorf("%w: %s", ErrInvalidRequest, describe(err))
	}

	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return req, nil
}

// describe flattens a validation error to its most specific cause.
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, ve.Message)
}

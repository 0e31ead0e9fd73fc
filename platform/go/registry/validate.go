package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const configSchemaURL = "memory://registry/collections.schema.json"

// validateConfig checks the raw collection table against the embedded JSON
// Schema before it is decoded into typed specs.
func validateConfig(raw []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(configSchemaURL, bytes.NewReader(collectionsSchemaJSON)); err != nil {
		return fmt.Errorf("register registry schema: %w", err)
	}

	compiled, err := compiler.Compile(configSchemaURL)
	if err != nil {
		return fmt.Errorf("compile registry schema: %w", err)
	}

	var document any
	if err := json.Unmarshal(raw, &document); err != nil {
		return fmt.Errorf("decode registry document: %w", err)
	}

	if err := compiled.Validate(document); err != nil {
		return fmt.Errorf("registry schema validation: %w", err)
	}

	return nil
}

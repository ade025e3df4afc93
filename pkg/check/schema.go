package check

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"github.com/cartograph/testgroups/pkg/config"
	"github.com/cartograph/testgroups/pkg/group"
	"github.com/cartograph/testgroups/pkg/util"
)

var (
	schemaOnce     sync.Once
	resolvedSchema *jsonschema.Resolved
	schemaErr      error
)

// DocumentSchema returns the JSON schema of a descriptor document.
func DocumentSchema() *jsonschema.Schema {
	envs := make([]any, 0, len(group.Environments()))
	for _, e := range group.Environments() {
		envs = append(envs, string(e))
	}

	// subschemas must form a tree, so every property gets its own instance
	patterns := func() *jsonschema.Schema {
		return &jsonschema.Schema{
			Type:  "array",
			Items: &jsonschema.Schema{Type: "string", MinLength: ptr.To(1)},
		}
	}

	groupSchema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"environment": {Type: "string", Enum: envs},
			"env":         {Type: "string", Enum: envs},
			"rootPath":    {Type: "string", MinLength: ptr.To(1)},
			"sources":     patterns(),
			"tests":       patterns(),
			"extensions":  patterns(),
		},
		Required:             []string{"rootPath"},
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}

	return &jsonschema.Schema{
		Title: "Test group descriptor",
		Type:  "object",
		Properties: map[string]*jsonschema.Schema{
			"apiVersion": {Type: "string", Enum: []any{util.APIVersionV1Alpha1}},
			"kind":       {Type: "string", Enum: []any{config.KindTestGroups}},
			"groups": {
				Type:                 "object",
				MinProperties:        ptr.To(1),
				PropertyNames:        &jsonschema.Schema{MinLength: ptr.To(1)},
				AdditionalProperties: groupSchema,
			},
		},
		Required:             []string{"kind", "groups"},
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}

func documentSchema() (*jsonschema.Resolved, error) {
	schemaOnce.Do(func() {
		resolvedSchema, schemaErr = DocumentSchema().Resolve(nil)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("failed to resolve descriptor schema: %w", schemaErr)
		}
	})

	return resolvedSchema, schemaErr
}

// ValidateDocument checks a raw descriptor document against DocumentSchema.
func ValidateDocument(data []byte) error {
	schema, err := documentSchema()
	if err != nil {
		return err
	}

	j, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	var instance any
	if err := json.Unmarshal(j, &instance); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

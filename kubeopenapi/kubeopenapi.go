// Package kubeopenapi imports Kubernetes OpenAPI v3 schemas (as found in
// CustomResourceDefinitions) into schema trees.
package kubeopenapi

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/reoring/skema/schema"
)

// Import converts an OpenAPI v3 schema into a schema tree. The input can be
// either a decoded map[string]any or raw JSON bytes, and may be a bare
// schema, an object holding openAPIV3Schema, or a whole CRD document.
func Import(doc any) (*schema.Node, Diag, error) {
	d := &simpleDiag{}
	if doc == nil {
		return nil, d, errors.New("kubeopenapi: nil schema")
	}
	var root map[string]any
	switch t := doc.(type) {
	case []byte:
		if err := json.Unmarshal(t, &root); err != nil {
			return nil, d, fmt.Errorf("kubeopenapi: invalid JSON: %w", err)
		}
	case map[string]any:
		root = deepCopyMap(t)
	default:
		return nil, d, fmt.Errorf("kubeopenapi: unsupported input %T", doc)
	}

	// Accept direct schema (openAPIV3Schema) or unwrap CRD root (spec.versions[].schema.openAPIV3Schema)
	if spec, ok := root["openAPIV3Schema"].(map[string]any); ok {
		root = spec
	} else if unwrapped := unwrapCRDSchema(root); unwrapped != nil {
		root = unwrapped
	}

	defs := extractDefs(root)
	visited := make(map[string]bool)
	resolveRefsInPlace(root, defs, d, visited)
	delete(root, "$defs")

	translate(root, "#", d)

	n, err := schema.FromValue(root)
	if err != nil {
		return nil, d, fmt.Errorf("kubeopenapi: %w", err)
	}
	return n, d, nil
}

// unwrapCRDSchema tries to extract openAPIV3Schema from a Kubernetes CRD document.
// It looks for spec.versions[].schema.openAPIV3Schema (preferring served=true),
// then falls back to spec.validation.openAPIV3Schema for legacy specs.
func unwrapCRDSchema(root map[string]any) map[string]any {
	spec, ok := root["spec"].(map[string]any)
	if !ok {
		return nil
	}
	if vers, ok := spec["versions"].([]any); ok {
		var firstFound map[string]any
		for _, v := range vers {
			vm, _ := v.(map[string]any)
			if vm == nil {
				continue
			}
			served := true
			if sv, ok := vm["served"].(bool); ok {
				served = sv
			}
			if sch, ok := vm["schema"].(map[string]any); ok {
				if oas, ok := sch["openAPIV3Schema"].(map[string]any); ok {
					if served {
						return oas
					}
					if firstFound == nil {
						firstFound = oas
					}
				}
			}
		}
		if firstFound != nil {
			return firstFound
		}
	}
	// legacy: spec.validation.openAPIV3Schema
	if val, ok := spec["validation"].(map[string]any); ok {
		if oas, ok := val["openAPIV3Schema"].(map[string]any); ok {
			return oas
		}
	}
	return nil
}

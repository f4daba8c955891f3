package kubeopenapi

import (
	"fmt"
	"regexp"
)

// translate rewrites the OpenAPI v3 / Kubernetes dialect in place into the
// JSON form schema.FromValue understands:
//
//   - nullable: true            -> type: [T, "null"]
//   - x-kubernetes-int-or-string -> anyOf: [integer, string]
//   - oneOf                     -> anyOf (exclusivity is not checked)
//
// Constructs with no equivalent are dropped with a warning. Other x-kubernetes-*
// markers stay in the node's extra keys.
func translate(s map[string]any, at string, d *simpleDiag) {
	if s == nil {
		return
	}

	if b, ok := s["x-kubernetes-int-or-string"].(bool); ok && b {
		delete(s, "type")
		s["anyOf"] = []any{
			map[string]any{"type": "integer"},
			map[string]any{"type": "string"},
		}
	}

	if b, ok := s["nullable"].(bool); ok {
		delete(s, "nullable")
		if t, ok := s["type"].(string); ok && b {
			s["type"] = []any{t, "null"}
		}
	}

	if one, ok := s["oneOf"]; ok {
		delete(s, "oneOf")
		if _, exists := s["anyOf"]; exists {
			d.warnf("%s: oneOf dropped alongside anyOf", at)
		} else {
			s["anyOf"] = one
			d.warnf("%s: oneOf treated as anyOf", at)
		}
	}
	for _, k := range []string{"allOf", "not", "patternProperties", "x-kubernetes-validations"} {
		if _, ok := s[k]; ok {
			delete(s, k)
			d.warnf("%s: %s is not supported and was dropped", at, k)
		}
	}
	if p, ok := s["pattern"].(string); ok {
		if _, err := regexp.Compile(p); err != nil {
			d.warnf("%s: pattern %q is not RE2 and will match any string", at, p)
		}
	}

	if pm, ok := s["properties"].(map[string]any); ok {
		for name, raw := range pm {
			child := childSchema(raw, at+"/properties/"+name, d)
			pm[name] = child
			translate(child, at+"/properties/"+name, d)
		}
	}
	switch it := s["items"].(type) {
	case map[string]any:
		translate(it, at+"/items", d)
	case []any:
		for i, raw := range it {
			path := fmt.Sprintf("%s/items/%d", at, i)
			child := childSchema(raw, path, d)
			it[i] = child
			translate(child, path, d)
		}
	}
	if ap, ok := s["additionalProperties"].(map[string]any); ok {
		translate(ap, at+"/additionalProperties", d)
	}
	if list, ok := s["anyOf"].([]any); ok {
		for i, raw := range list {
			path := fmt.Sprintf("%s/anyOf/%d", at, i)
			child := childSchema(raw, path, d)
			list[i] = child
			translate(child, path, d)
		}
	}
}

// childSchema maps boolean sub-schemas to the permissive map form. The model
// has no "false" schema, so those are widened with a warning.
func childSchema(raw any, at string, d *simpleDiag) map[string]any {
	switch t := raw.(type) {
	case map[string]any:
		return t
	case bool:
		if !t {
			d.warnf("%s: false schema widened to accept anything", at)
		}
	default:
		d.warnf("%s: unexpected %T replaced by an empty schema", at, raw)
	}
	return map[string]any{}
}

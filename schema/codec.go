package schema

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Parse decodes a JSON schema document into a Node.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("schema: invalid JSON: %w", err)
	}
	return FromValue(raw)
}

// ParseYAML decodes a YAML schema document into a Node.
func ParseYAML(data []byte) (*Node, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("schema: invalid YAML: %w", err)
	}
	return FromValue(NormalizeYAML(raw))
}

// MarshalJSON renders n in its JSON Schema form.
func (n *Node) MarshalJSON() ([]byte, error) { return json.Marshal(n.ToValue()) }

// UnmarshalJSON decodes the JSON Schema form into n.
func (n *Node) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}

var knownKeys = map[string]struct{}{
	"type": {}, "anyOf": {}, "enum": {},
	"minLength": {}, "maxLength": {}, "pattern": {}, "format": {},
	"minimum": {}, "maximum": {}, "multipleOf": {},
	"items": {}, "minItems": {}, "maxItems": {},
	"properties": {}, "required": {}, "additionalProperties": {},
	"minProperties": {}, "maxProperties": {},
	"title": {}, "description": {}, "default": {},
}

// FromValue builds a Node from a decoded JSON-like value (map[string]any
// trees as produced by encoding/json, goccy/go-json or NormalizeYAML).
func FromValue(v any) (*Node, error) { return fromValue(v, "#") }

func fromValue(v any, at string) (*Node, error) {
	switch t := v.(type) {
	case nil:
		return &Node{}, nil
	case bool:
		// Boolean schemas: true accepts anything. false has no equivalent in
		// this model and is rejected.
		if t {
			return &Node{}, nil
		}
		return nil, fmt.Errorf("schema: %s: boolean false schema is not supported", at)
	case map[string]any:
		return fromMap(t, at)
	default:
		return nil, fmt.Errorf("schema: %s: expected object, got %T", at, v)
	}
}

func fromMap(m map[string]any, at string) (*Node, error) {
	n := &Node{}
	var err error

	if raw, ok := m["type"]; ok {
		if n.Type, err = decodeType(raw, at); err != nil {
			return nil, err
		}
	}
	if raw, ok := m["anyOf"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("schema: %s/anyOf: expected array", at)
		}
		n.AnyOf = make([]*Node, 0, len(list))
		for i, item := range list {
			c, err := fromValue(item, fmt.Sprintf("%s/anyOf/%d", at, i))
			if err != nil {
				return nil, err
			}
			n.AnyOf = append(n.AnyOf, c)
		}
	}
	if raw, ok := m["enum"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("schema: %s/enum: expected array", at)
		}
		n.Enum = make([]any, len(list))
		for i := range list {
			n.Enum[i] = NormalizeLiteral(list[i])
		}
	}

	ints := []struct {
		key string
		dst **int
	}{
		{"minLength", &n.MinLength}, {"maxLength", &n.MaxLength},
		{"minItems", &n.MinItems}, {"maxItems", &n.MaxItems},
		{"minProperties", &n.MinProperties}, {"maxProperties", &n.MaxProperties},
	}
	for _, f := range ints {
		if raw, ok := m[f.key]; ok {
			if *f.dst, err = decodeInt(raw, at+"/"+f.key); err != nil {
				return nil, err
			}
		}
	}
	floats := []struct {
		key string
		dst **float64
	}{
		{"minimum", &n.Minimum}, {"maximum", &n.Maximum}, {"multipleOf", &n.MultipleOf},
	}
	for _, f := range floats {
		if raw, ok := m[f.key]; ok {
			fv, ok := ToFloat(raw)
			if !ok {
				return nil, fmt.Errorf("schema: %s/%s: expected number", at, f.key)
			}
			*f.dst = &fv
		}
	}
	strs := []struct {
		key string
		dst *string
	}{
		{"pattern", &n.Pattern}, {"format", &n.Format},
		{"title", &n.Title}, {"description", &n.Description},
	}
	for _, f := range strs {
		if raw, ok := m[f.key]; ok {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("schema: %s/%s: expected string", at, f.key)
			}
			*f.dst = s
		}
	}

	if raw, ok := m["items"]; ok {
		if n.Items, err = decodeItems(raw, at+"/items"); err != nil {
			return nil, err
		}
	}
	if raw, ok := m["properties"]; ok {
		props, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("schema: %s/properties: expected object", at)
		}
		names := make([]string, 0, len(props))
		for k := range props {
			names = append(names, k)
		}
		sort.Strings(names)
		n.Properties = make(Properties, 0, len(names))
		for _, name := range names {
			c, err := fromValue(props[name], at+"/properties/"+name)
			if err != nil {
				return nil, err
			}
			n.Properties = append(n.Properties, Property{Name: name, Schema: c})
		}
	}
	if raw, ok := m["required"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("schema: %s/required: expected array", at)
		}
		for _, r := range list {
			s, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("schema: %s/required: expected string entries", at)
			}
			n.Required = append(n.Required, s)
		}
	}
	if raw, ok := m["additionalProperties"]; ok {
		switch ap := raw.(type) {
		case bool:
			n.AdditionalAllowed = &ap
		default:
			if n.AdditionalProperties, err = fromValue(ap, at+"/additionalProperties"); err != nil {
				return nil, err
			}
		}
	}
	if raw, ok := m["default"]; ok {
		n.Default = NormalizeLiteral(raw)
	}
	for k, v := range m {
		if _, known := knownKeys[k]; known {
			continue
		}
		if n.Extra == nil {
			n.Extra = make(map[string]any)
		}
		n.Extra[k] = NormalizeLiteral(v)
	}
	return n, nil
}

func decodeType(raw any, at string) (*Type, error) {
	switch t := raw.(type) {
	case string:
		return &Type{Base: t}, nil
	case []any:
		if len(t) == 2 {
			base, ok0 := t[0].(string)
			null, ok1 := t[1].(string)
			if ok0 && ok1 && null == "null" {
				return &Type{Base: base, Nullable: true}, nil
			}
		}
	}
	return nil, fmt.Errorf("schema: %s/type: expected a type name or [type, \"null\"]", at)
}

func decodeInt(raw any, at string) (*int, error) {
	f, ok := ToFloat(raw)
	if !ok || f != math.Trunc(f) || f < 0 {
		return nil, fmt.Errorf("schema: %s: expected non-negative integer", at)
	}
	i := int(f)
	return &i, nil
}

func decodeItems(raw any, at string) (*Items, error) {
	if list, ok := raw.([]any); ok {
		tuple := make([]*Node, 0, len(list))
		for i, item := range list {
			c, err := fromValue(item, fmt.Sprintf("%s/%d", at, i))
			if err != nil {
				return nil, err
			}
			tuple = append(tuple, c)
		}
		return &Items{Tuple: tuple}, nil
	}
	c, err := fromValue(raw, at)
	if err != nil {
		return nil, err
	}
	return &Items{Schema: c}, nil
}

// NormalizeLiteral converts number literals to float64 recursively so that
// literals decoded from JSON and YAML compare equal.
func NormalizeLiteral(v any) any {
	switch t := v.(type) {
	case string, bool, nil, float64:
		return v
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = NormalizeLiteral(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = NormalizeLiteral(t[i])
		}
		return out
	}
	if f, ok := ToFloat(v); ok {
		return f
	}
	return v
}

// NormalizeYAML converts YAML-decoded values (which may contain map[any]any)
// into JSON-like map[string]any trees. Non-string keys are dropped.
func NormalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = NormalizeYAML(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = NormalizeYAML(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = NormalizeYAML(t[i])
		}
		return arr
	default:
		return v
	}
}

// ToValue renders n as a JSON-like map tree.
func (n *Node) ToValue() map[string]any {
	out := make(map[string]any)
	if n == nil {
		return out
	}
	if n.Type != nil {
		if n.Type.Nullable {
			out["type"] = []any{n.Type.Base, "null"}
		} else {
			out["type"] = n.Type.Base
		}
	}
	if len(n.AnyOf) > 0 {
		list := make([]any, len(n.AnyOf))
		for i, m := range n.AnyOf {
			list[i] = m.ToValue()
		}
		out["anyOf"] = list
	}
	if n.Enum != nil {
		out["enum"] = n.Enum
	}
	putInt(out, "minLength", n.MinLength)
	putInt(out, "maxLength", n.MaxLength)
	putInt(out, "minItems", n.MinItems)
	putInt(out, "maxItems", n.MaxItems)
	putInt(out, "minProperties", n.MinProperties)
	putInt(out, "maxProperties", n.MaxProperties)
	putFloat(out, "minimum", n.Minimum)
	putFloat(out, "maximum", n.Maximum)
	putFloat(out, "multipleOf", n.MultipleOf)
	putString(out, "pattern", n.Pattern)
	putString(out, "format", n.Format)
	putString(out, "title", n.Title)
	putString(out, "description", n.Description)
	if n.Items != nil {
		if n.Items.IsTuple() {
			list := make([]any, len(n.Items.Tuple))
			for i, m := range n.Items.Tuple {
				list[i] = m.ToValue()
			}
			out["items"] = list
		} else {
			out["items"] = n.Items.Schema.ToValue()
		}
	}
	if n.Properties != nil {
		props := make(map[string]any, len(n.Properties))
		for _, p := range n.Properties {
			props[p.Name] = p.Schema.ToValue()
		}
		out["properties"] = props
	}
	if len(n.Required) > 0 {
		out["required"] = n.Required
	}
	if n.AdditionalProperties != nil {
		out["additionalProperties"] = n.AdditionalProperties.ToValue()
	} else if n.AdditionalAllowed != nil {
		out["additionalProperties"] = *n.AdditionalAllowed
	}
	if n.Default != nil {
		out["default"] = n.Default
	}
	for k, v := range n.Extra {
		out[k] = v
	}
	return out
}

func putInt(m map[string]any, k string, v *int) {
	if v != nil {
		m[k] = *v
	}
}

func putFloat(m map[string]any, k string, v *float64) {
	if v != nil {
		m[k] = *v
	}
}

func putString(m map[string]any, k, v string) {
	if v != "" {
		m[k] = v
	}
}

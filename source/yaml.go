package source

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/reoring/skema/schema"
)

// YAML returns the gopkg.in/yaml.v3 backed driver. Mappings decode to
// map[string]any; non-string keys are dropped.
func YAML() Driver { return yamlDriver{} }

type yamlDriver struct{}

func (yamlDriver) Name() string { return "yaml.v3" }

func (yamlDriver) Decode(r io.Reader) (any, error) {
	var v any
	if err := yaml.NewDecoder(r).Decode(&v); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	return schema.NormalizeYAML(v), nil
}

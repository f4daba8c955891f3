package kubeopenapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/reoring/skema/schema"
)

// ErrCRDNotFound is returned when a YAML bundle holds no matching CRD.
var ErrCRDNotFound = errors.New("kubeopenapi: CRD not found in YAML bundle")

// ImportYAMLForCRDKind scans a multi-document YAML (e.g., CRD bundle) and imports
// the first CustomResourceDefinition matching the given spec.names.kind.
func ImportYAMLForCRDKind(data []byte, kind string) (*schema.Node, Diag, error) {
	return importYAML(data, func(crd map[string]any) bool {
		spec, _ := crd["spec"].(map[string]any)
		names, _ := spec["names"].(map[string]any)
		k, _ := names["kind"].(string)
		return k == kind
	}, "kind "+kind)
}

// ImportYAMLForCRDName scans a multi-document YAML and imports the CRD
// with given metadata.name.
func ImportYAMLForCRDName(data []byte, name string) (*schema.Node, Diag, error) {
	return importYAML(data, func(crd map[string]any) bool {
		meta, _ := crd["metadata"].(map[string]any)
		n, _ := meta["name"].(string)
		return n == name
	}, "name "+name)
}

func importYAML(data []byte, match func(map[string]any) bool, what string) (*schema.Node, Diag, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &simpleDiag{}, fmt.Errorf("kubeopenapi: %w", err)
		}
		m, ok := schema.NormalizeYAML(doc).(map[string]any)
		if !ok {
			continue
		}
		if k, _ := m["kind"].(string); k != "CustomResourceDefinition" {
			continue
		}
		if match(m) {
			return Import(m)
		}
	}
	return nil, &simpleDiag{}, fmt.Errorf("%w: %s", ErrCRDNotFound, what)
}

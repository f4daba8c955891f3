package skema

import (
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// ChangeKind identifies the shape of a Change.
type ChangeKind int

const (
	// ChangeFields groups nested changes by property name (or tuple index).
	ChangeFields ChangeKind = iota
	// ChangeValue is a literal attribute change with From and To.
	ChangeValue
	// ChangeMismatch is a terminal structural mismatch described by Error.
	// Union mismatches also carry the member lists in From and To.
	ChangeMismatch
	// ChangeAdded marks a property present only in the second schema.
	ChangeAdded
	// ChangeRemoved marks a property present only in the first schema.
	ChangeRemoved
)

// Rendered forms of property additions and removals.
const (
	AddedInB   = "Added in B"
	RemovedInB = "Removed in B"
)

// Change is a node of the change-set tree returned by Diff. Reports are
// always phrased from the first schema to the second.
type Change struct {
	Kind   ChangeKind
	Error  string
	From   any
	To     any
	Fields map[string]*Change
}

// Field returns the nested change under name, or nil.
func (c *Change) Field(name string) *Change {
	if c == nil || c.Fields == nil {
		return nil
	}
	return c.Fields[name]
}

// Index returns the nested change for a tuple position under "items".
func (c *Change) Index(i int) *Change {
	return c.Field("items").Field(strconv.Itoa(i))
}

// Names lists the names of nested changes in sorted order.
func (c *Change) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.Fields))
	for k := range c.Fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ToValue renders the change-set as plain JSON-like values:
// nested maps, {"from","to"} pairs, {"error"} objects and the
// "Added in B"/"Removed in B" markers.
func (c *Change) ToValue() any {
	if c == nil {
		return nil
	}
	switch c.Kind {
	case ChangeAdded:
		return AddedInB
	case ChangeRemoved:
		return RemovedInB
	case ChangeValue:
		return map[string]any{"from": c.From, "to": c.To}
	case ChangeMismatch:
		out := map[string]any{"error": c.Error}
		if c.From != nil || c.To != nil {
			out["from"] = c.From
			out["to"] = c.To
		}
		return out
	default:
		out := make(map[string]any, len(c.Fields))
		for k, v := range c.Fields {
			out[k] = v.ToValue()
		}
		return out
	}
}

// MarshalJSON renders c with ToValue.
func (c *Change) MarshalJSON() ([]byte, error) { return json.Marshal(c.ToValue()) }

func fieldsChange(fields map[string]*Change) *Change {
	if len(fields) == 0 {
		return nil
	}
	return &Change{Kind: ChangeFields, Fields: fields}
}

func valueChange(from, to any) *Change { return &Change{Kind: ChangeValue, From: from, To: to} }

func mismatch(msg string) *Change { return &Change{Kind: ChangeMismatch, Error: msg} }

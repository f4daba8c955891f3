package skema

import (
	"reflect"

	"github.com/reoring/skema/schema"
)

// valueKind classifies a Go value in the JSON value model.
type valueKind int

const (
	kindNull valueKind = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
	kindOther
)

// classify resolves the JSON kind of v. The common decoder outputs take the
// fast path; other Go values are classified by reflection without copying.
// Non-nil pointers are followed; nil pointers are null.
func classify(v any) (any, valueKind) {
	switch v.(type) {
	case nil:
		return nil, kindNull
	case string:
		return v, kindString
	case bool:
		return v, kindBool
	case float64, int, int64:
		return v, kindNumber
	case []any:
		return v, kindArray
	case map[string]any:
		return v, kindObject
	}
	if schema.IsNumeric(v) {
		return v, kindNumber
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, kindNull
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.ValueOf(v).Kind() {
		return classify(rv.Interface())
	}
	switch rv.Kind() {
	case reflect.String:
		return v, kindString
	case reflect.Bool:
		return v, kindBool
	case reflect.Slice, reflect.Array:
		return v, kindArray
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return v, kindObject
		}
	}
	return v, kindOther
}

// asString returns the string content of a kindString value.
func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return reflect.ValueOf(v).String()
}

// asBool returns the value of a kindBool value, including named bool types.
func asBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return reflect.ValueOf(v).Bool()
}

// arrayView reads a kindArray value without copying it.
type arrayView struct {
	fast []any
	rv   reflect.Value
	n    int
}

func viewArray(v any) arrayView {
	if a, ok := v.([]any); ok {
		return arrayView{fast: a, n: len(a)}
	}
	rv := reflect.ValueOf(v)
	return arrayView{rv: rv, n: rv.Len()}
}

func (a arrayView) Len() int { return a.n }

func (a arrayView) At(i int) any {
	if a.fast != nil || !a.rv.IsValid() {
		return a.fast[i]
	}
	return a.rv.Index(i).Interface()
}

// objectView reads a kindObject value without copying it.
type objectView struct {
	fast map[string]any
	rv   reflect.Value
}

func viewObject(v any) objectView {
	if m, ok := v.(map[string]any); ok {
		return objectView{fast: m}
	}
	return objectView{rv: reflect.ValueOf(v)}
}

func (o objectView) Len() int {
	if !o.rv.IsValid() {
		return len(o.fast)
	}
	return o.rv.Len()
}

func (o objectView) Get(k string) (any, bool) {
	if !o.rv.IsValid() {
		v, ok := o.fast[k]
		return v, ok
	}
	e := o.rv.MapIndex(reflect.ValueOf(k).Convert(o.rv.Type().Key()))
	if !e.IsValid() {
		return nil, false
	}
	return e.Interface(), true
}

// Range calls fn for every own key until fn returns false.
func (o objectView) Range(fn func(k string, v any) bool) {
	if !o.rv.IsValid() {
		for k, v := range o.fast {
			if !fn(k, v) {
				return
			}
		}
		return
	}
	it := o.rv.MapRange()
	for it.Next() {
		if !fn(it.Key().String(), it.Value().Interface()) {
			return
		}
	}
}

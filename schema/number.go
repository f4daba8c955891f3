package schema

import "reflect"

// numberLiteral is satisfied by json.Number from both encoding/json and
// goccy/go-json.
type numberLiteral interface {
	Float64() (float64, error)
	String() string
}

// ToFloat converts any Go numeric value or JSON number literal to float64.
// The second result is false when v is not numeric.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case numberLiteral:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case nil, string, bool:
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// IsNumeric reports whether v is a number.
func IsNumeric(v any) bool {
	_, ok := ToFloat(v)
	return ok
}

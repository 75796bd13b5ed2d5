package detour

import (
	"fmt"
	"strconv"

	"github.com/tidwall/sjson"
)

// Kind identifies the payload type carried by a Value.
type Kind uint8

const (
	// KindNone is the zero Kind and marks an absent value.
	KindNone Kind = iota
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindInt represents a signed integer value.
	KindInt
	// KindFloat represents a floating-point value.
	KindFloat
	// KindArray represents an ordered, heterogeneous array of values.
	KindArray
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a configuration value. It is a closed union over the supported
// payload types; the zero Value is absent and reports Exists() == false.
type Value struct {
	kind Kind
	str  string
	b    bool
	num  int64
	f    float64
	arr  []Value
}

// String creates a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool creates a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int creates an integer Value.
func Int(i int64) Value {
	return Value{kind: KindInt, num: i}
}

// Float creates a floating-point Value.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// Array creates an array Value from the given elements.
// Absent elements are preserved as JSON nulls when stringified.
func Array(elems ...Value) Value {
	arr := make([]Value, len(elems))
	copy(arr, elems)
	return Value{kind: KindArray, arr: arr}
}

// FromAny converts a dynamically typed value, such as one produced by a
// YAML or TOML decoder, into a Value. Nil converts to the absent Value.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Int(int64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return Int(int64(x)), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case []any:
		arr := make([]Value, 0, len(x))
		for _, item := range x {
			elem, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			arr = append(arr, elem)
		}
		return Value{kind: KindArray, arr: arr}, nil
	case []string:
		arr := make([]Value, 0, len(x))
		for _, item := range x {
			arr = append(arr, String(item))
		}
		return Value{kind: KindArray, arr: arr}, nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind {
	return v.kind
}

// Exists reports whether the value is present.
func (v Value) Exists() bool {
	return v.kind != KindNone
}

// String returns the canonical string form of the value. Booleans render
// as "true"/"false", integers in base 10, floats in their shortest
// round-trip form, and arrays as JSON text. The absent value renders as
// the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindArray:
		return v.jsonArray()
	default:
		return ""
	}
}

// jsonArray renders an array value as JSON text.
func (v Value) jsonArray() string {
	doc := "[]"
	for _, elem := range v.arr {
		switch elem.kind {
		case KindString:
			doc, _ = sjson.Set(doc, "-1", elem.str)
		case KindBool:
			doc, _ = sjson.Set(doc, "-1", elem.b)
		case KindInt:
			doc, _ = sjson.Set(doc, "-1", elem.num)
		case KindFloat:
			doc, _ = sjson.Set(doc, "-1", elem.f)
		case KindArray:
			doc, _ = sjson.SetRaw(doc, "-1", elem.jsonArray())
		default:
			doc, _ = sjson.SetRaw(doc, "-1", "null")
		}
	}
	return doc
}

// Bool returns the boolean payload. It is false unless the kind is KindBool.
func (v Value) Bool() bool {
	return v.kind == KindBool && v.b
}

// Int returns the integer payload, or 0 for other kinds.
func (v Value) Int() int64 {
	if v.kind == KindInt {
		return v.num
	}
	return 0
}

// Float returns the floating-point payload. Integer values are widened.
func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInt:
		return float64(v.num)
	default:
		return 0
	}
}

// Array returns a copy of the array payload, or nil for other kinds.
func (v Value) Array() []Value {
	if v.kind != KindArray {
		return nil
	}
	arr := make([]Value, len(v.arr))
	for i, elem := range v.arr {
		arr[i] = elem.clone()
	}
	return arr
}

// Equal reports whether two values have the same kind and payload.
// Arrays are compared element-wise.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.num == other.num
	case KindFloat:
		return v.f == other.f
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// clone creates a structural copy of the value. Only arrays carry
// mutable backing state.
func (v Value) clone() Value {
	if v.kind != KindArray {
		return v
	}
	arr := make([]Value, len(v.arr))
	for i, elem := range v.arr {
		arr[i] = elem.clone()
	}
	return Value{kind: KindArray, arr: arr}
}

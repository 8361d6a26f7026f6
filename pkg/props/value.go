// Package props implements the dynamically typed property bag carried by
// script nodes. Values form a small closed variant (absent, null, bool,
// int, double, string) and bags resolve names case-insensitively, so the
// same property may be spelled Message, message or MESSAGE by authoring
// tools and still land in one slot.
package props

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

type Kind int8

const (
	KindAbsent Kind = iota
	KindNull
	KindBool
	KindInt
	KindDouble
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	}
	return "unknown"
}

// Value is one dynamically typed property value. The zero value is Absent.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

func Absent() Value { return Value{} }

func Null() Value { return Value{kind: KindNull} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Int(i int64) Value { return Value{kind: KindInt, i: i} }

func Double(f float64) Value { return Value{kind: KindDouble, f: f} }

func String(s string) Value { return Value{kind: KindString, s: s} }

// FromAny converts a freshly decoded or host-supplied dynamic value into
// the closed variant. Unknown types stringify.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return Int(int64(t))
	case uint64:
		return Int(int64(t))
	case float32:
		return Double(float64(t))
	case float64:
		// Whole floats arriving from generic decoders stay doubles; the
		// accessors coerce, so consumers never notice.
		return Double(t)
	case string:
		return String(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i)
		}
		if f, err := t.Float64(); err == nil {
			return Double(f)
		}
		return String(t.String())
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

func (v Value) Kind() Kind { return v.kind }

// IsSet reports whether the value counts as "provided" for validation:
// absent, null and blank/whitespace-only strings do not.
func (v Value) IsSet() bool {
	switch v.kind {
	case KindAbsent, KindNull:
		return false
	case KindString:
		return strings.TrimSpace(v.s) != ""
	default:
		return true
	}
}

// Strict accessors: the second return is false when the stored kind differs.

func (v Value) BoolVal() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) IntVal() (int64, bool)     { return v.i, v.kind == KindInt }
func (v Value) DoubleVal() (float64, bool) { return v.f, v.kind == KindDouble }
func (v Value) StringVal() (string, bool) { return v.s, v.kind == KindString }

// Loose accessors used by the interpreter: they coerce across the variant
// and fall back to zero values, matching the "degrade, never fail" rule
// for malformed authored data.

func (v Value) AsBool() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindDouble:
		return v.f != 0
	case KindString:
		switch strings.ToLower(strings.TrimSpace(v.s)) {
		case "true", "yes", "1":
			return true
		}
		return false
	default:
		return false
	}
}

func (v Value) AsInt() int64 {
	switch v.kind {
	case KindInt:
		return v.i
	case KindDouble:
		return int64(v.f)
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindString:
		if n, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64); err == nil {
			return int64(f)
		}
		return 0
	default:
		return 0
	}
}

func (v Value) AsDouble() float64 {
	switch v.kind {
	case KindDouble:
		return v.f
	case KindInt:
		return float64(v.i)
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindString:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}

func (v Value) AsString() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return ""
	}
}

// ToAny lowers the variant back into a plain dynamic value for expression
// environments and host parameter maps.
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindDouble:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// Equal compares kind and payload. Int and double never compare equal even
// when numerically identical; the wire form keeps them distinct.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindDouble:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindString:
		return v.s == o.s
	default:
		return true
	}
}

func (v Value) String() string {
	if v.kind == KindAbsent {
		return "<absent>"
	}
	if v.kind == KindNull {
		return "<null>"
	}
	return v.AsString()
}

// MarshalJSON keeps the dynamic type on the wire: bools, integers,
// doubles and strings serialize natively, absent collapses to null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindDouble:
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = Null()
		return nil
	}
	var raw any
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

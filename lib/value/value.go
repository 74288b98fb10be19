package value

import (
	"fmt"
	"sort"
	"strconv"
)

// Kind is the shape of a decoded value.
type Kind int

const (
	KindAbsent Kind = iota // no value: the key is missing, unreachable or of an unsupported type
	KindString             // scalar string
	KindNumber             // scalar integer
	KindList               // ordered list of strings
	KindSet                // unordered set of strings, element order is not significant
	KindMap                // field map of string to string
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a generic structured value. The zero Value is Absent.
type Value struct {
	kind   Kind
	str    string
	num    int64
	elems  []string
	fields map[string]string
}

// --------------------------------------------------------------------------
// Constructors
// --------------------------------------------------------------------------

func Absent() Value { return Value{} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func Number(n int64) Value { return Value{kind: KindNumber, num: n} }

// List creates an ordered list. The slice is copied.
func List(elems ...string) Value {
	return Value{kind: KindList, elems: append(make([]string, 0, len(elems)), elems...)}
}

// Set creates an unordered set. Duplicates are kept as given; the store is the
// authority on set semantics.
func Set(members ...string) Value {
	return Value{kind: KindSet, elems: append(make([]string, 0, len(members)), members...)}
}

// Map creates a field map. The map is copied.
func Map(fields map[string]string) Value {
	m := make(map[string]string, len(fields))
	for k, v := range fields {
		m[k] = v
	}
	return Value{kind: KindMap, fields: m}
}

// --------------------------------------------------------------------------
// Inspection
// --------------------------------------------------------------------------

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Str returns the scalar string. Numbers are formatted in base 10.
func (v Value) Str() string {
	if v.kind == KindNumber {
		return strconv.FormatInt(v.num, 10)
	}
	return v.str
}

// Num returns the scalar number, or 0 for other kinds.
func (v Value) Num() int64 { return v.num }

// Elems returns a copy of the list or set elements.
func (v Value) Elems() []string {
	if v.elems == nil {
		return nil
	}
	return append([]string(nil), v.elems...)
}

// Fields returns a copy of the field map.
func (v Value) Fields() map[string]string {
	if v.fields == nil {
		return nil
	}
	m := make(map[string]string, len(v.fields))
	for k, val := range v.fields {
		m[k] = val
	}
	return m
}

// Len returns the element or field count, 1 for scalars and 0 for Absent.
func (v Value) Len() int {
	switch v.kind {
	case KindList, KindSet:
		return len(v.elems)
	case KindMap:
		return len(v.fields)
	case KindString, KindNumber:
		return 1
	default:
		return 0
	}
}

// Each calls fn for every list or set element in order until fn returns false.
func (v Value) Each(fn func(i int, elem string) bool) {
	for i, e := range v.elems {
		if !fn(i, e) {
			return
		}
	}
}

// Range calls fn for every map field in sorted key order until fn returns false.
func (v Value) Range(fn func(field, val string) bool) {
	for _, k := range v.Keys() {
		if !fn(k, v.fields[k]) {
			return
		}
	}
}

// Keys returns the sorted field names of a map.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --------------------------------------------------------------------------
// Mutation
// --------------------------------------------------------------------------

// AppendElem appends to a list or set. It panics for other kinds.
func (v *Value) AppendElem(elem string) {
	if v.kind != KindList && v.kind != KindSet {
		panic(fmt.Sprintf("value: AppendElem on %s", v.kind))
	}
	v.elems = append(v.elems, elem)
}

// SetField sets a map field. It panics for other kinds.
func (v *Value) SetField(field, val string) {
	if v.kind != KindMap {
		panic(fmt.Sprintf("value: SetField on %s", v.kind))
	}
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	v.fields[field] = val
}

// --------------------------------------------------------------------------
// Comparison
// --------------------------------------------------------------------------

// Equal compares two values. Set element order and map field order are ignored.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindAbsent:
		return true
	case KindString:
		return a.str == b.str
	case KindNumber:
		return a.num == b.num
	case KindList:
		return equalSlices(a.elems, b.elems)
	case KindSet:
		x, y := a.Elems(), b.Elems()
		sort.Strings(x)
		sort.Strings(y)
		return equalSlices(x, y)
	case KindMap:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for k, v := range a.fields {
			if w, ok := b.fields[k]; !ok || w != v {
				return false
			}
		}
		return true
	}
	return false
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindNumber:
		return strconv.FormatInt(v.num, 10)
	case KindList, KindSet:
		return fmt.Sprintf("%s%q", v.kind, v.elems)
	case KindMap:
		return fmt.Sprintf("map%v", v.fields)
	default:
		return "absent"
	}
}

package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// --------------------------------------------------------------------------
// JSON
// --------------------------------------------------------------------------

// MarshalJSON renders Absent as null, scalars as string/number, lists and sets as
// arrays and maps as objects.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.native())
}

// UnmarshalJSON is the inverse of MarshalJSON. Arrays decode to lists, since JSON has
// no set type.
func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromInterface(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// --------------------------------------------------------------------------
// YAML
// --------------------------------------------------------------------------

func (v Value) MarshalYAML() (interface{}, error) {
	return v.native(), nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw interface{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromInterface(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// native returns the plain Go representation used by both encoders.
func (v Value) native() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindList, KindSet:
		return v.Elems()
	case KindMap:
		return v.Fields()
	default:
		return nil
	}
}

// --------------------------------------------------------------------------
// Conversion from decoded documents
// --------------------------------------------------------------------------

// FromInterface converts the output of a JSON or YAML decoder into a Value:
// nil → Absent, integers → Number, other scalars → String, arrays → List,
// objects → Map. Nested containers inside arrays and objects are flattened to
// their compact JSON text, since the store only holds strings at that level.
func FromInterface(raw interface{}) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Absent(), nil
	case []interface{}:
		out := List()
		for _, e := range x {
			s, err := scalarText(e)
			if err != nil {
				return Absent(), err
			}
			out.AppendElem(s)
		}
		return out, nil
	case map[string]interface{}:
		out := Map(nil)
		for k, e := range x {
			s, err := scalarText(e)
			if err != nil {
				return Absent(), err
			}
			out.SetField(k, s)
		}
		return out, nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return Number(n), nil
		}
		return String(x.String()), nil
	case int:
		return Number(int64(x)), nil
	case int64:
		return Number(x), nil
	case uint64:
		if x <= 1<<63-1 {
			return Number(int64(x)), nil
		}
		return String(strconv.FormatUint(x, 10)), nil
	case float64:
		if x == float64(int64(x)) {
			return Number(int64(x)), nil
		}
		return String(strconv.FormatFloat(x, 'f', -1, 64)), nil
	default:
		s, err := scalarText(x)
		if err != nil {
			return Absent(), err
		}
		return String(s), nil
	}
}

// scalarText renders an element of an array or object as a string.
func scalarText(e interface{}) (string, error) {
	switch x := e.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case []interface{}, map[string]interface{}:
		b, err := json.Marshal(x)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("value: unsupported element type %T", e)
	}
}

// ParseDocument parses a JSON object into one Value per top-level field.
func ParseDocument(data []byte) (map[string]Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("value: document must be a JSON object: %w", err)
	}
	doc := make(map[string]Value, len(raw))
	for k, e := range raw {
		v, err := FromInterface(e)
		if err != nil {
			return nil, fmt.Errorf("value: field %q: %w", k, err)
		}
		doc[k] = v
	}
	return doc, nil
}

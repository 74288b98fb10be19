package value

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ISerializer is the interface for all Value serializers
type ISerializer interface {
	// Serialize serializes a Value into a byte array
	Serialize(v Value) ([]byte, error)
	// Deserialize parses a byte array into a Value
	Deserialize(b []byte, v *Value) error
}

// NewJSONSerializer creates a new serializer using json encoding
func NewJSONSerializer() ISerializer {
	return &jsonSerializerImpl{}
}

// NewYAMLSerializer creates a new serializer using yaml encoding
func NewYAMLSerializer() ISerializer {
	return &yamlSerializerImpl{}
}

// GetSerializer returns the serializer registered under name (json or yaml)
func GetSerializer(name string) (ISerializer, error) {
	switch name {
	case "json":
		return NewJSONSerializer(), nil
	case "yaml":
		return NewYAMLSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", name)
	}
}

// jsonSerializerImpl implements the ISerializer interface using json encoding
type jsonSerializerImpl struct {
}

// yamlSerializerImpl implements the ISerializer interface using yaml encoding
type yamlSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see value.ISerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Serialize(v Value) ([]byte, error) {
	return json.Marshal(v)
}

func (j jsonSerializerImpl) Deserialize(b []byte, v *Value) error {
	return json.Unmarshal(b, v)
}

func (y yamlSerializerImpl) Serialize(v Value) ([]byte, error) {
	return yaml.Marshal(v)
}

func (y yamlSerializerImpl) Deserialize(b []byte, v *Value) error {
	return yaml.Unmarshal(b, v)
}

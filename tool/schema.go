package tool

import (
	"fmt"
	"reflect"

	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Type is one of the JSON schema types a parameter can take.
type Type string

const (
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeString  Type = "string"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Valid reports whether t is a known parameter type.
func (t Type) Valid() bool {
	switch t {
	case TypeNumber, TypeBoolean, TypeString, TypeArray, TypeObject:
		return true
	}
	return false
}

// TypeFor maps a Go type to its parameter type.
func TypeFor[T any]() Type {
	return typeOf(reflect.TypeFor[T]())
}

func typeOf(t reflect.Type) Type {
	if t == nil {
		return TypeObject
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Bool:
		return TypeBoolean
	case reflect.String:
		return TypeString
	case reflect.Slice, reflect.Array:
		return TypeArray
	default:
		return TypeObject
	}
}

// Param declares one named parameter of a tool.
type Param struct {
	Name        string
	Type        Type
	Description string
	// Enum restricts the accepted values when not empty.
	Enum []any
	// Optional parameters may be omitted without a default.
	Optional bool
	// Default is bound when the argument is absent. A non-nil default makes
	// the parameter optional.
	Default any
}

// NewParam declares a parameter whose type is derived from T.
func NewParam[T any](name, description string) Param {
	return Param{Name: name, Type: TypeFor[T](), Description: description}
}

// WithDefault returns a copy of p bound to value when the argument is absent.
func (p Param) WithDefault(value any) Param {
	p.Default = value
	return p
}

// AsOptional returns a copy of p that may be omitted.
func (p Param) AsOptional() Param {
	p.Optional = true
	return p
}

// OneOf returns a copy of p restricted to values.
func (p Param) OneOf(values ...any) Param {
	p.Enum = values
	return p
}

// Required reports whether the model must supply the argument.
func (p Param) Required() bool {
	return p.Default == nil && !p.Optional
}

func (p Param) schema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        string(p.Type),
		Description: p.Description,
		Enum:        p.Enum,
	}
}

// InputSchema builds the object schema for a parameter list, properties in
// declaration order.
func InputSchema(params []Param) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: orderedmap.New[string, *jsonschema.Schema](),
	}
	var required []string
	for _, p := range params {
		schema.Properties.Set(p.Name, p.schema())
		if p.Required() {
			required = append(required, p.Name)
		}
	}
	if len(required) > 0 {
		schema.Required = required
	}
	return schema
}

// normalize checks value against the parameter type and returns it in the
// representation the binder produces for arguments.
func (p Param) normalize(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("value for %q is not JSON encodable: %w", p.Name, err)
	}
	return p.convertJSON(data)
}

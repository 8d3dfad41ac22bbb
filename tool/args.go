package tool

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// Args holds arguments bound against a tool's parameters. Values use JSON
// representations: float64 for numbers, bool, string, []any for arrays and
// map[string]any for objects.
type Args map[string]any

// Has reports whether name is bound.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Value returns the raw bound value.
func (a Args) Value(name string) any {
	return a[name]
}

// String returns a string argument, or "" when unbound.
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Float returns a number argument, or 0 when unbound.
func (a Args) Float(name string) float64 {
	f, _ := a[name].(float64)
	return f
}

// Int returns a number argument truncated to an int.
func (a Args) Int(name string) int {
	return int(a.Float(name))
}

// Bool returns a boolean argument, or false when unbound.
func (a Args) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// Decode converts the argument bound to name into T. It fails when the
// argument is unbound or does not fit T, e.g. 2.5 for an int.
func Decode[T any](a Args, name string) (T, error) {
	var out T
	v, ok := a[name]
	if !ok {
		return out, &ArgumentError{Param: name, Reason: "not bound"}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return out, &ArgumentError{Param: name, Reason: err.Error()}
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, &ArgumentError{Param: name, Reason: fmt.Sprintf("cannot decode into %T: %v", out, err)}
	}
	return out, nil
}

// Bind decodes serialized arguments against params. Absent arguments take
// their default or are left unbound when optional; everything else must be
// present, of the declared type, within the enum, and declared.
func Bind(params []Param, arguments string) (Args, error) {
	arguments = strings.TrimSpace(arguments)
	if arguments == "" {
		arguments = "{}"
	}
	if !gjson.Valid(arguments) {
		return nil, &ArgumentError{Reason: "arguments are not valid JSON"}
	}
	jv := gjson.Parse(arguments)
	if !jv.IsObject() {
		return nil, &ArgumentError{Reason: "arguments must be a JSON object"}
	}

	present := make(map[string]gjson.Result)
	var errs error
	jv.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if !slices.ContainsFunc(params, func(p Param) bool { return p.Name == name }) {
			errs = errors.Join(errs, &ArgumentError{Param: name, Reason: "unknown argument"})
			return true
		}
		present[name] = value
		return true
	})

	args := make(Args, len(params))
	for _, p := range params {
		value, ok := present[p.Name]
		if !ok || value.Type == gjson.Null {
			switch {
			case p.Default != nil:
				args[p.Name] = p.Default
			case p.Optional:
			default:
				errs = errors.Join(errs, &ArgumentError{Param: p.Name, Reason: "missing required argument"})
			}
			continue
		}

		v, err := p.convert(value)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if err := p.checkEnum(v); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		args[p.Name] = v
	}
	if errs != nil {
		return nil, errs
	}
	return args, nil
}

func (p Param) convertJSON(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ArgumentError{Param: p.Name, Reason: "not valid JSON"}
	}
	return p.convert(gjson.ParseBytes(data))
}

// convert applies the lossless conversions between JSON scalars: numbers and
// booleans written as strings are accepted, and scalars are accepted as strings
// in their literal form.
func (p Param) convert(v gjson.Result) (any, error) {
	mismatch := func() error {
		return &ArgumentError{Param: p.Name, Reason: fmt.Sprintf("expected %s, got %s", p.Type, jsonKind(v))}
	}

	switch p.Type {
	case TypeNumber:
		switch v.Type {
		case gjson.Number:
			return v.Float(), nil
		case gjson.String:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
			if err != nil {
				return nil, mismatch()
			}
			return f, nil
		}
	case TypeBoolean:
		switch v.Type {
		case gjson.True, gjson.False:
			return v.Bool(), nil
		case gjson.String:
			switch strings.TrimSpace(v.Str) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
	case TypeString:
		switch v.Type {
		case gjson.String:
			return v.Str, nil
		case gjson.Number, gjson.True, gjson.False:
			return v.Raw, nil
		}
	case TypeArray:
		if v.IsArray() {
			return v.Value(), nil
		}
	case TypeObject:
		if v.IsObject() {
			return v.Value(), nil
		}
	default:
		return nil, &ArgumentError{Param: p.Name, Reason: fmt.Sprintf("unsupported parameter type %q", p.Type)}
	}
	return nil, mismatch()
}

func (p Param) checkEnum(v any) error {
	if len(p.Enum) == 0 {
		return nil
	}
	got, err := json.Marshal(v)
	if err != nil {
		return &ArgumentError{Param: p.Name, Reason: err.Error()}
	}
	for _, e := range p.Enum {
		want, err := json.Marshal(e)
		if err == nil && bytes.Equal(got, want) {
			return nil
		}
	}
	return &ArgumentError{Param: p.Name, Reason: fmt.Sprintf("%s is not one of %s", got, enumList(p.Enum))}
}

func enumList(values []any) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			continue
		}
		parts = append(parts, string(b))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func jsonKind(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return "string"
	case gjson.Number:
		return "number"
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Null:
		return "null"
	default:
		if v.IsArray() {
			return "array"
		}
		return "object"
	}
}

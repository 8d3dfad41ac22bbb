package tool

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/casualjim/palaver/pkg/stdx"
	"github.com/fogfish/opts"
	"github.com/invopop/jsonschema"
)

// Handler runs a tool with bound arguments. The returned value is shaped into
// a Result: a Result passes through, nil means success, anything else is
// stringified into Result.Data.
type Handler func(ctx context.Context, args Args) (any, error)

// Definition describes a callable tool. Definitions are immutable once built.
type Definition struct {
	Name                 string
	Description          string
	Params               []Param
	RequiresConfirmation bool
	Handler              Handler
}

var validName = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// Option configures a Definition.
type Option = opts.Option[Definition]

// Description sets the human-readable description shown to the model.
var Description = opts.ForName[Definition, string]("Description")

// Params declares the parameters in the order they are presented to the model.
func Params(params ...Param) Option {
	return opts.Type[Definition](func(d *Definition) error {
		d.Params = append(d.Params, params...)
		return nil
	})
}

// RequiresConfirmation gates the tool behind a Confirmer.
func RequiresConfirmation() Option {
	return opts.Type[Definition](func(d *Definition) error {
		d.RequiresConfirmation = true
		return nil
	})
}

// Must is New that panics on error, for package-level declarations.
func Must(name string, handler Handler, options ...Option) Definition {
	return stdx.Must1(New(name, handler, options...))
}

// New builds a validated Definition. Defaults and enum values are checked
// against their parameter types.
func New(name string, handler Handler, options ...Option) (Definition, error) {
	def := Definition{Name: name, Handler: handler}
	if err := opts.Apply(&def, options); err != nil {
		return Definition{}, err
	}
	if err := def.validate(); err != nil {
		return Definition{}, fmt.Errorf("tool %q: %w", name, err)
	}
	return def, nil
}

func (d *Definition) validate() error {
	var errs error
	if !validName.MatchString(d.Name) {
		errs = errors.Join(errs, fmt.Errorf("name must match %s", validName))
	}
	if d.Handler == nil {
		errs = errors.Join(errs, errors.New("handler is required"))
	}

	seen := make(map[string]struct{}, len(d.Params))
	params := make([]Param, len(d.Params))
	for i, p := range d.Params {
		if p.Name == "" {
			errs = errors.Join(errs, fmt.Errorf("parameter %d has no name", i))
			continue
		}
		if _, dup := seen[p.Name]; dup {
			errs = errors.Join(errs, fmt.Errorf("duplicate parameter %q", p.Name))
		}
		seen[p.Name] = struct{}{}
		if !p.Type.Valid() {
			errs = errors.Join(errs, fmt.Errorf("parameter %q has invalid type %q", p.Name, p.Type))
			continue
		}

		if p.Default != nil {
			v, err := p.normalize(p.Default)
			if err != nil {
				errs = errors.Join(errs, fmt.Errorf("default: %w", err))
			} else if err := p.checkEnum(v); err != nil {
				errs = errors.Join(errs, fmt.Errorf("default: %w", err))
			} else {
				p.Default = v
			}
		}
		for _, e := range p.Enum {
			if _, err := p.normalize(e); err != nil {
				errs = errors.Join(errs, fmt.Errorf("enum: %w", err))
			}
		}
		params[i] = p
	}
	d.Params = params
	return errs
}

// Param looks up a declared parameter by name.
func (d Definition) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Required lists the required parameter names in declaration order.
func (d Definition) Required() []string {
	var out []string
	for _, p := range d.Params {
		if p.Required() {
			out = append(out, p.Name)
		}
	}
	return out
}

// InputSchema returns the JSON schema of the tool's arguments.
func (d Definition) InputSchema() *jsonschema.Schema {
	return InputSchema(d.Params)
}

// Exported is the catalog entry a provider sends to the model.
type Exported struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

// Export renders the definition in the catalog format.
func (d Definition) Export() Exported {
	return Exported{Name: d.Name, Description: d.Description, InputSchema: d.InputSchema()}
}

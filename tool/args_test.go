package tool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bindParams = []Param{
	NewParam[float64]("x", "").WithDefault(1),
	NewParam[string]("label", ""),
	NewParam[bool]("visible", "").AsOptional(),
	NewParam[string]("axis", "").OneOf("x", "y", "z").WithDefault("z"),
	NewParam[[]string]("tags", "").AsOptional(),
	NewParam[map[string]any]("meta", "").AsOptional(),
}

func bindDef(t *testing.T) Definition {
	t.Helper()
	return Must("bind", noop, Params(bindParams...))
}

func TestBind(t *testing.T) {
	params := bindDef(t).Params
	tests := []struct {
		name string
		args string
		want Args
	}{
		{
			name: "all present",
			args: `{"x":2.5,"label":"cube","visible":true,"axis":"x","tags":["a"],"meta":{"k":1}}`,
			want: Args{"x": 2.5, "label": "cube", "visible": true, "axis": "x", "tags": []any{"a"}, "meta": map[string]any{"k": float64(1)}},
		},
		{
			name: "defaults applied",
			args: `{"label":"cube"}`,
			want: Args{"x": float64(1), "label": "cube", "axis": "z"},
		},
		{
			name: "null takes default",
			args: `{"label":"cube","x":null}`,
			want: Args{"x": float64(1), "label": "cube", "axis": "z"},
		},
		{
			name: "lossless coercion",
			args: `{"x":"3","label":42,"visible":"false"}`,
			want: Args{"x": float64(3), "label": "42", "visible": false, "axis": "z"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Bind(params, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBind_Rejects(t *testing.T) {
	params := bindDef(t).Params
	tests := []struct {
		name string
		args string
		want string
	}{
		{"invalid json", `{"label":`, "not valid JSON"},
		{"not an object", `["cube"]`, "must be a JSON object"},
		{"missing required", `{}`, `argument "label": missing required argument`},
		{"unknown argument", `{"label":"a","colour":"red"}`, `argument "colour": unknown argument`},
		{"wrong type", `{"label":"a","x":"far"}`, `argument "x": expected number, got string`},
		{"bool from number", `{"label":"a","visible":1}`, `argument "visible": expected boolean, got number`},
		{"string from object", `{"label":{}}`, `argument "label": expected string, got object`},
		{"array from string", `{"label":"a","tags":"x"}`, `argument "tags": expected array, got string`},
		{"outside enum", `{"label":"a","axis":"w"}`, `argument "axis": "w" is not one of ["x", "y", "z"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bind(params, tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			var argErr *ArgumentError
			assert.True(t, errors.As(err, &argErr))
		})
	}
}

func TestBind_EmptyArguments(t *testing.T) {
	params := []Param{NewParam[int]("n", "").AsOptional()}
	for _, raw := range []string{"", "  ", "{}"} {
		args, err := Bind(params, raw)
		require.NoError(t, err)
		assert.Empty(t, args)
	}
}

func TestArgs_Accessors(t *testing.T) {
	args := Args{"s": "text", "n": 4.0, "b": true, "list": []any{"a", "b"}}

	assert.True(t, args.Has("s"))
	assert.False(t, args.Has("nope"))
	assert.Equal(t, "text", args.String("s"))
	assert.Equal(t, "", args.String("n"))
	assert.Equal(t, 4.0, args.Float("n"))
	assert.Equal(t, 4, args.Int("n"))
	assert.True(t, args.Bool("b"))
	assert.Equal(t, []any{"a", "b"}, args.Value("list"))

	list, err := Decode[[]string](args, "list")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, list)

	n, err := Decode[int](args, "n")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = Decode[bool](args, "s")
	require.Error(t, err)

	_, err = Decode[string](args, "missing")
	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "missing", argErr.Param)
}

// Command palaver-toolgen generates tool registrations for functions marked
// with a //palaver:tool directive.
//
// For every source file with at least one marked function it writes a sibling
// <file>.palaver.go declaring a tool.Definition per function and a module
// function returning all of them:
//
//	// getWeather returns the forecast for a city.
//	//
//	//palaver:tool
//	//palaver:param city the city to look up
//	//palaver:default days 3
//	//palaver:enum unit celsius,fahrenheit
//	func getWeather(ctx context.Context, city string, days int, unit string) (string, error)
//
// generates getWeatherTool and weatherTools, which can be passed to
// tool.NewRegistry. A leading context.Context parameter receives the call's
// context; every other parameter becomes a tool parameter named in snake case.
//
// Directives:
//
//	//palaver:tool                 marks the function
//	//palaver:confirm              requires confirmation before every call
//	//palaver:param <name> <desc>  describes a parameter
//	//palaver:optional <name>      makes a parameter optional
//	//palaver:default <name> <json> gives a parameter a default value
//	//palaver:enum <name> <a,b,c>  restricts a parameter to a set of strings
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/casualjim/palaver/pkg/slogx"
	"github.com/go-openapi/swag"
	json "github.com/goccy/go-json"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
	"mvdan.cc/gofumpt/format"
)

const (
	directivePrefix = "//palaver:"
	generatedSuffix = ".palaver.go"
)

var (
	log    zerolog.Logger
	osExit = os.Exit
)

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log = zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: slog.LevelInfo}),
	))
}

func main() {
	path := flag.String("path", ".", "file or directory to scan for tool functions")
	export := flag.Bool("export", false, "export the generated declarations")
	flag.Parse()

	info, err := os.Stat(*path)
	if err != nil {
		log.Error().Err(err).Str("path", *path).Msg("Error accessing path")
		osExit(1)
		return
	}

	if !info.IsDir() {
		if err := processGoFile(*path, *export); err != nil {
			osExit(1)
			return
		}
		osExit(0)
		return
	}

	var failed bool
	err = filepath.WalkDir(*path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != *path && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") || d.Name() == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isSourceFile(d.Name()) {
			return nil
		}
		if err := processGoFile(p, *export); err != nil {
			failed = true
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("path", *path).Msg("Error accessing path")
		osExit(1)
		return
	}
	if failed {
		osExit(1)
		return
	}
	osExit(0)
}

func isSourceFile(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, generatedSuffix)
}

// processGoFile generates the registration file for path. Files without tool
// functions are left alone.
func processGoFile(path string, exportTools bool) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("Error parsing file")
		return err
	}

	tools, err := collectTools(file, exportTools)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("Error reading tool directives")
		return err
	}
	if len(tools) == 0 {
		slog.Debug("no tools found", slogx.LoggerName("toolgen"), slog.String("file", path))
		return nil
	}

	base := strings.TrimSuffix(filepath.Base(path), ".go")
	src, err := renderToolsFile(file.Name.Name, moduleName(base, exportTools), tools)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("Error generating code")
		return err
	}

	out := filepath.Join(filepath.Dir(path), base+generatedSuffix)
	if err := os.WriteFile(out, src, 0o644); err != nil {
		log.Error().Err(err).Str("file", out).Msg("Error writing file")
		return err
	}
	log.Info().Str("file", out).Int("tools", len(tools)).Msg("Generated file")
	return nil
}

type toolFuncInfo struct {
	name        string
	description string
	confirm     bool
	hasContext  bool
	params      []paramInfo
	results     resultShape
	exportTools bool
}

type paramInfo struct {
	goName      string
	name        string
	typ         string
	description string
	optional    bool
	defaultLit  string
	enum        []string
}

type resultShape int

const (
	resultNone resultShape = iota
	resultValue
	resultError
	resultValueError
)

// collectTools finds every top-level function carrying the tool directive.
func collectTools(file *ast.File, exportTools bool) ([]toolFuncInfo, error) {
	var (
		tools []toolFuncInfo
		errs  error
	)
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || fn.Doc == nil || !hasToolDirective(fn.Doc) {
			continue
		}
		info, err := inspectFunc(fn)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%s: %w", fn.Name.Name, err))
			continue
		}
		info.exportTools = exportTools
		tools = append(tools, info)
	}
	return tools, errs
}

func hasToolDirective(doc *ast.CommentGroup) bool {
	for _, c := range doc.List {
		if strings.TrimSpace(c.Text) == directivePrefix+"tool" {
			return true
		}
	}
	return false
}

func inspectFunc(fn *ast.FuncDecl) (toolFuncInfo, error) {
	info := toolFuncInfo{name: fn.Name.Name}

	byName := map[string]*paramInfo{}
	fields := fn.Type.Params.List
	for i, field := range fields {
		typ := types.ExprString(field.Type)
		if i == 0 && typ == "context.Context" && len(field.Names) <= 1 {
			info.hasContext = true
			continue
		}
		if len(field.Names) == 0 {
			return info, errors.New("tool parameters must be named")
		}
		for _, n := range field.Names {
			info.params = append(info.params, paramInfo{
				goName: n.Name,
				name:   swag.ToFileName(n.Name),
				typ:    typ,
			})
		}
	}
	for i := range info.params {
		byName[info.params[i].name] = &info.params[i]
		byName[info.params[i].goName] = &info.params[i]
	}

	shape, err := resultsOf(fn.Type.Results)
	if err != nil {
		return info, err
	}
	info.results = shape

	var description []string
	for _, c := range fn.Doc.List {
		text := strings.TrimSpace(c.Text)
		if !strings.HasPrefix(text, directivePrefix) {
			description = append(description, strings.Fields(strings.TrimPrefix(text, "//"))...)
			continue
		}
		if err := applyDirective(&info, byName, strings.TrimPrefix(text, directivePrefix)); err != nil {
			return info, err
		}
	}
	info.description = trimFuncName(strings.Join(description, " "), fn.Name.Name)
	return info, nil
}

// trimFuncName turns "getWeather returns x" into "Returns x".
func trimFuncName(doc, name string) string {
	rest, ok := strings.CutPrefix(doc, name+" ")
	if !ok || rest == "" {
		return doc
	}
	r, size := utf8.DecodeRuneInString(rest)
	return string(unicode.ToUpper(r)) + rest[size:]
}

func resultsOf(results *ast.FieldList) (resultShape, error) {
	if results == nil || len(results.List) == 0 {
		return resultNone, nil
	}
	var typs []string
	for _, f := range results.List {
		n := max(len(f.Names), 1)
		for range n {
			typs = append(typs, types.ExprString(f.Type))
		}
	}
	switch {
	case len(typs) == 1 && typs[0] == "error":
		return resultError, nil
	case len(typs) == 1:
		return resultValue, nil
	case len(typs) == 2 && typs[1] == "error":
		return resultValueError, nil
	default:
		return resultNone, fmt.Errorf("unsupported results (%s)", strings.Join(typs, ", "))
	}
}

func applyDirective(info *toolFuncInfo, params map[string]*paramInfo, directive string) error {
	verb, rest, _ := strings.Cut(directive, " ")
	rest = strings.TrimSpace(rest)

	lookup := func() (*paramInfo, string, error) {
		name, arg, _ := strings.Cut(rest, " ")
		p, ok := params[name]
		if !ok {
			return nil, "", fmt.Errorf("%s directive names unknown parameter %q", verb, name)
		}
		return p, strings.TrimSpace(arg), nil
	}

	switch verb {
	case "tool":
		return nil
	case "confirm":
		info.confirm = true
		return nil
	case "param":
		p, desc, err := lookup()
		if err != nil {
			return err
		}
		p.description = desc
	case "optional":
		p, _, err := lookup()
		if err != nil {
			return err
		}
		p.optional = true
	case "default":
		p, value, err := lookup()
		if err != nil {
			return err
		}
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return fmt.Errorf("default for %q is not valid JSON: %w", p.name, err)
		}
		if v == nil {
			return fmt.Errorf("default for %q must not be null", p.name)
		}
		p.defaultLit = fmt.Sprintf("%#v", v)
	case "enum":
		p, values, err := lookup()
		if err != nil {
			return err
		}
		for _, v := range strings.Split(values, ",") {
			if v = strings.TrimSpace(v); v != "" {
				p.enum = append(p.enum, v)
			}
		}
	default:
		return fmt.Errorf("unknown directive %q", verb)
	}
	return nil
}

func moduleName(base string, exportTools bool) string {
	name := swag.ToGoName(base) + "Tools"
	if exportTools {
		return name
	}
	return swag.ToVarName(name)
}

func (t toolFuncInfo) VarName() string {
	if t.exportTools {
		return swag.ToGoName(t.name) + "Tool"
	}
	return t.name + "Tool"
}

func (t toolFuncInfo) ToolName() string    { return swag.ToFileName(t.name) }
func (t toolFuncInfo) Description() string { return t.description }
func (t toolFuncInfo) Confirm() bool       { return t.confirm }
func (t toolFuncInfo) Params() []paramInfo { return t.params }

// Call renders the invocation of the wrapped function, ending in a return.
func (t toolFuncInfo) Call() string {
	args := make([]string, 0, len(t.params)+1)
	if t.hasContext {
		args = append(args, "ctx")
	}
	for _, p := range t.params {
		args = append(args, p.goName)
	}
	call := fmt.Sprintf("%s(%s)", t.name, strings.Join(args, ", "))
	switch t.results {
	case resultValueError:
		return "return " + call
	case resultValue:
		return "return " + call + ", nil"
	case resultError:
		return "return nil, " + call
	default:
		return call + "\nreturn nil, nil"
	}
}

func (p paramInfo) Name() string   { return p.name }
func (p paramInfo) GoName() string { return p.goName }
func (p paramInfo) Type() string   { return p.typ }

// Decl renders the tool.Param for p.
func (p paramInfo) Decl() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tool.NewParam[%s](%q, %q)", p.typ, p.name, p.description)
	if p.defaultLit != "" {
		fmt.Fprintf(&b, ".WithDefault(%s)", p.defaultLit)
	}
	if p.optional {
		b.WriteString(".AsOptional()")
	}
	if len(p.enum) > 0 {
		quoted := make([]string, len(p.enum))
		for i, v := range p.enum {
			quoted[i] = fmt.Sprintf("%q", v)
		}
		fmt.Fprintf(&b, ".OneOf(%s)", strings.Join(quoted, ", "))
	}
	return b.String()
}

var fileTemplate = template.Must(template.New("tools").Parse(`// Code generated by palaver-toolgen. DO NOT EDIT.

package {{ .Package }}

import (
	"context"

	"github.com/casualjim/palaver/tool"
)

{{ range .Tools }}
{{ with .Description }}// {{ . }}
{{ end -}}
var {{ .VarName }} = tool.Must({{ printf "%q" .ToolName }},
	func(ctx context.Context, args tool.Args) (any, error) {
		{{- range .Params }}
		var {{ .GoName }} {{ .Type }}
		if args.Has({{ printf "%q" .Name }}) {
			v, err := tool.Decode[{{ .Type }}](args, {{ printf "%q" .Name }})
			if err != nil {
				return nil, err
			}
			{{ .GoName }} = v
		}
		{{- end }}
		{{ .Call }}
	},
	{{- with .Description }}
	tool.Description({{ printf "%q" . }}),
	{{- end }}
	{{- if .Params }}
	tool.Params(
		{{- range .Params }}
		{{ .Decl }},
		{{- end }}
	),
	{{- end }}
	{{- if .Confirm }}
	tool.RequiresConfirmation(),
	{{- end }}
)
{{ end }}
// {{ .Module }} returns the tools declared in this file.
func {{ .Module }}() []tool.Definition {
	return []tool.Definition{
		{{- range .Tools }}
		{{ .VarName }},
		{{- end }}
	}
}
`))

func renderToolsFile(pkgName, module string, tools []toolFuncInfo) ([]byte, error) {
	var buf bytes.Buffer
	err := fileTemplate.Execute(&buf, struct {
		Package string
		Module  string
		Tools   []toolFuncInfo
	}{pkgName, module, tools})
	if err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes(), format.Options{})
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w\n%s", err, buf.String())
	}
	return src, nil
}

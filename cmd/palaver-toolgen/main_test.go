package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput captures both zerolog and slog output during test execution
func captureOutput(fn func()) string {
	var buf bytes.Buffer

	oldZeroLogger := log
	oldSlogLogger := slog.Default()
	defer func() {
		log = oldZeroLogger
		slog.SetDefault(oldSlogLogger)
	}()

	output := zerolog.ConsoleWriter{
		Out:        &buf,
		NoColor:    true,
		TimeFormat: time.Stamp,
	}
	log = zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: slog.LevelDebug}),
	))

	fn()
	return buf.String()
}

const weatherSource = `package demo

import "context"

// getWeather returns the forecast
// for a city.
//
//palaver:tool
//palaver:param city the city to look up
//palaver:default days 3
//palaver:enum unit celsius, fahrenheit
//palaver:optional unit
func getWeather(ctx context.Context, city string, days int, unit string) (string, error) {
	return "", nil
}

// Not a tool
func notATool() {}

//palaver:tool
//palaver:confirm
func deleteAll(olderThan, limit int) error { return nil }

//palaver:tool
func ping() {}
`

func TestCollectTools(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", weatherSource, parser.ParseComments)
	require.NoError(t, err)

	got, err := collectTools(file, false)
	require.NoError(t, err)
	require.Len(t, got, 3)

	weather := got[0]
	assert.Equal(t, "getWeather", weather.name)
	assert.Equal(t, "get_weather", weather.ToolName())
	assert.Equal(t, "Returns the forecast for a city.", weather.description)
	assert.True(t, weather.hasContext)
	assert.Equal(t, resultValueError, weather.results)
	require.Len(t, weather.params, 3)
	assert.Equal(t, paramInfo{goName: "city", name: "city", typ: "string", description: "the city to look up"}, weather.params[0])
	assert.Equal(t, "3", weather.params[1].defaultLit)
	assert.Equal(t, []string{"celsius", "fahrenheit"}, weather.params[2].enum)
	assert.True(t, weather.params[2].optional)

	deleteAll := got[1]
	assert.True(t, deleteAll.confirm)
	assert.False(t, deleteAll.hasContext)
	assert.Equal(t, resultError, deleteAll.results)
	require.Len(t, deleteAll.params, 2)
	assert.Equal(t, "older_than", deleteAll.params[0].name)
	assert.Equal(t, "olderThan", deleteAll.params[0].goName)

	assert.Equal(t, resultNone, got[2].results)
	assert.Empty(t, got[2].params)
}

func TestCollectTools_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{
			name: "unknown parameter",
			source: `package test
//palaver:tool
//palaver:param nope what
func f(a string) {}`,
			wantErr: `unknown parameter "nope"`,
		},
		{
			name: "unknown directive",
			source: `package test
//palaver:tool
//palaver:cache
func f() {}`,
			wantErr: `unknown directive "cache"`,
		},
		{
			name: "bad default",
			source: `package test
//palaver:tool
//palaver:default a {oops
func f(a string) {}`,
			wantErr: "not valid JSON",
		},
		{
			name: "too many results",
			source: `package test
//palaver:tool
func f() (int, int, error) { return 0, 0, nil }`,
			wantErr: "unsupported results",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := parser.ParseFile(token.NewFileSet(), "", tt.source, parser.ParseComments)
			require.NoError(t, err)
			_, err = collectTools(file, false)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRenderToolsFile(t *testing.T) {
	file, err := parser.ParseFile(token.NewFileSet(), "", weatherSource, parser.ParseComments)
	require.NoError(t, err)
	tools, err := collectTools(file, false)
	require.NoError(t, err)

	src, err := renderToolsFile("demo", "weatherTools", tools)
	require.NoError(t, err)
	out := string(src)

	assert.Contains(t, out, "// Code generated by palaver-toolgen. DO NOT EDIT.")
	assert.Contains(t, out, `var getWeatherTool = tool.Must("get_weather",`)
	assert.Contains(t, out, `tool.NewParam[int]("days", "").WithDefault(3)`)
	assert.Contains(t, out, `tool.NewParam[string]("unit", "").AsOptional().OneOf("celsius", "fahrenheit")`)
	assert.Contains(t, out, `tool.Decode[string](args, "city")`)
	assert.Contains(t, out, "return getWeather(ctx, city, days, unit)")
	assert.Contains(t, out, "return nil, deleteAll(olderThan, limit)")
	assert.Contains(t, out, "tool.RequiresConfirmation()")
	assert.Contains(t, out, "func weatherTools() []tool.Definition")

	// the output must itself be valid Go
	_, err = parser.ParseFile(token.NewFileSet(), "", src, 0)
	require.NoError(t, err)
}

func TestNaming(t *testing.T) {
	tests := []struct {
		name        string
		tool        toolFuncInfo
		base        string
		wantVar     string
		wantModule  string
		exportTools bool
	}{
		{name: "unexported", tool: toolFuncInfo{name: "testTool"}, base: "weather", wantVar: "testToolTool", wantModule: "weatherTools"},
		{name: "exported", tool: toolFuncInfo{name: "testTool", exportTools: true}, base: "weather", wantVar: "TestToolTool", wantModule: "WeatherTools", exportTools: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantVar, tt.tool.VarName())
			assert.Equal(t, tt.wantModule, moduleName(tt.base, tt.exportTools))
		})
	}
}

func TestProcessGoFile(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name      string
		content   string
		wantErr   bool
		checkFile bool
	}{
		{
			name:      "valid file with tool",
			content:   weatherSource,
			checkFile: true,
		},
		{
			name: "invalid go file",
			content: `package test
invalid go code`,
			wantErr: true,
		},
		{
			name: "file without tools",
			content: `package test
func regular() {}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFile := filepath.Join(tmpDir, tt.name+".go")
			err := os.WriteFile(testFile, []byte(tt.content), 0o644)
			require.NoError(t, err)

			output := captureOutput(func() {
				err = processGoFile(testFile, false)
			})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, output, "Error parsing file")
				return
			}
			assert.NoError(t, err)

			generated := filepath.Join(tmpDir, tt.name+generatedSuffix)
			if tt.checkFile {
				assert.Contains(t, output, "Generated file")
				content, err := os.ReadFile(generated)
				require.NoError(t, err)
				assert.Contains(t, string(content), "DO NOT EDIT")
			} else {
				assert.NoFileExists(t, generated)
			}
		})
	}
}

func TestMainFunction(t *testing.T) {
	tmpDir := t.TempDir()

	validDir := filepath.Join(tmpDir, "valid")
	require.NoError(t, os.MkdirAll(validDir, 0o755))
	validFile := filepath.Join(validDir, "valid.go")
	require.NoError(t, os.WriteFile(validFile, []byte(weatherSource), 0o644))

	invalidDir := filepath.Join(tmpDir, "invalid")
	require.NoError(t, os.MkdirAll(invalidDir, 0o755))
	invalidFile := filepath.Join(invalidDir, "invalid.go")
	require.NoError(t, os.WriteFile(invalidFile, []byte("invalid go code"), 0o644))

	tests := []struct {
		name       string
		args       []string
		wantErr    bool
		wantOutput string
	}{
		{name: "process directory", args: []string{"-path", validDir}, wantOutput: "Generated file"},
		{name: "process single valid file", args: []string{"-path", validFile}, wantOutput: "Generated file"},
		{name: "process single invalid file", args: []string{"-path", invalidFile}, wantErr: true, wantOutput: "Error parsing file"},
		{name: "invalid path", args: []string{"-path", "/nonexistent/path"}, wantErr: true, wantOutput: "Error accessing path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			defer func() { os.Args = origArgs }()
			os.Args = append([]string{"cmd"}, tt.args...)
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			exitCode := -1
			oldOsExit := osExit
			defer func() { osExit = oldOsExit }()
			osExit = func(code int) {
				exitCode = code
				panic(fmt.Sprintf("os.Exit(%d)", code))
			}

			output := captureOutput(func() {
				defer func() { _ = recover() }()
				main()
			})

			if tt.wantErr {
				assert.Equal(t, 1, exitCode)
			} else {
				assert.Equal(t, 0, exitCode)
			}
			assert.Contains(t, output, tt.wantOutput)
		})
	}
}

package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(name, desc string) Definition {
	return Must(name, noop, Description(desc))
}

func TestRegistry_OrderAndLastWins(t *testing.T) {
	r := NewRegistry(
		Static(named("a", "first a"), named("b", "b")),
		Static(named("c", "c"), named("a", "second a")),
	)

	require.Equal(t, 3, r.Len())
	defs := r.Definitions()
	assert.Equal(t, []string{"a", "b", "c"}, []string{defs[0].Name, defs[1].Name, defs[2].Name})

	a, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "second a", a.Description)

	_, ok = r.Lookup("zzz")
	assert.False(t, ok)
}

func TestRegistry_RebuildReplacesCatalog(t *testing.T) {
	tools := []Definition{named("old", "")}
	r := NewRegistry(func() []Definition { return tools })
	require.Equal(t, 1, r.Len())

	tools = []Definition{named("new", ""), named("newer", "")}
	_, ok := r.Lookup("new")
	assert.False(t, ok, "catalog only changes on rebuild")

	r.Rebuild()
	_, ok = r.Lookup("old")
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len())

	r.AddModule(Static(named("extra", "")))
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_Export(t *testing.T) {
	r := NewRegistry(Static(
		Must("move", noop, Description("Moves things"), Params(NewParam[float64]("dx", "delta x"))),
	))
	exported := r.Export()
	require.Len(t, exported, 1)
	assert.Equal(t, "move", exported[0].Name)
	assert.Equal(t, "Moves things", exported[0].Description)
	assert.Equal(t, []string{"dx"}, exported[0].InputSchema.Required)

	prop, ok := exported[0].InputSchema.Properties.Get("dx")
	require.True(t, ok)
	assert.Equal(t, "number", prop.Type)
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	r := NewRegistry(Static(named("a", "")))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 100 {
			r.Rebuild()
		}
	}()
	for range 100 {
		_, _ = r.Lookup("a")
		_ = r.Definitions()
	}
	<-done
	_, ok := r.Lookup("a")
	assert.True(t, ok)
}

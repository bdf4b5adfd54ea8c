package macro

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"
)

func TestSubstitute_NoTokensIsIdentity(t *testing.T) {
	e := NewEngine()
	e.AddMacro("first", "one")
	assert.Equal(t, "A plain sentence.", e.Substitute("A plain sentence."))
	assert.Equal(t, "", e.Substitute(""))
}

func TestSubstitute_Simple(t *testing.T) {
	e := NewEngine()
	e.AddMacro("$(name)", "Bob")
	assert.Equal(t, "Hello Bob, Bob.", e.Substitute("Hello $(name), $(name)."))
}

func TestSubstitute_Transitive(t *testing.T) {
	e := NewEngine()
	e.AddMacro("$(second)", "hello world.")
	e.AddMacro("$(first)", "$(second)")
	assert.Contains(t, e.Substitute("He said $(first)"), "hello world.")
}

func TestSubstitute_SelfReferenceTerminates(t *testing.T) {
	e := NewEngine()
	e.AddMacro("$(first)", "$(first)")

	done := make(chan string, 1)
	go func() { done <- e.Substitute("This is $(first) text") }()
	select {
	case out := <-done:
		assert.Contains(t, out, "$(first)")
	case <-time.After(2 * time.Second):
		t.Fatal("self-referencing macro did not terminate")
	}
}

func TestSubstitute_MutualCycleTerminates(t *testing.T) {
	e := NewEngine()
	e.AddMacro("a", "x $(b)")
	e.AddMacro("b", "y $(a)")
	assert.Equal(t, "x y $(a)", e.Substitute("$(a)"))
	assert.Equal(t, "y x $(b)", e.Substitute("$(b)"))
}

func TestSubstitute_SameMacroTwiceInSequenceExpandsBoth(t *testing.T) {
	e := NewEngine()
	e.AddMacro("w", "word")
	e.AddMacro("pair", "$(w) $(w)")
	assert.Equal(t, "word word", e.Substitute("$(pair)"))
}

func TestSubstitute_TokenFormedAcrossBoundary(t *testing.T) {
	e := NewEngine()
	e.AddMacro("a", "$(b")
	e.AddMacro("b", "hello")
	assert.Equal(t, "hello", e.Substitute("$(a))"))

	e.AddMacro("open", "$(")
	assert.Equal(t, "say hello", e.Substitute("say $(open)b)"))
}

func TestSubstitute_GrowingBoundaryCycleTerminates(t *testing.T) {
	e := NewEngine()
	e.AddMacro("a", "x$(a)")
	e.AddMacro("open", "$(open")

	done := make(chan [2]string, 1)
	go func() { done <- [2]string{e.Substitute("$(a)"), e.Substitute("$(open))")} }()
	select {
	case out := <-done:
		assert.Equal(t, "x$(a)", out[0])
		assert.Equal(t, "$(open)", out[1])
	case <-time.After(2 * time.Second):
		t.Fatal("boundary cycle did not terminate")
	}
}

func TestSubstitute_UnknownTokenVerbatim(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, "Hi $(nobody).", e.Substitute("Hi $(nobody)."))
}

func TestAddMacro_OverwritesAndCounts(t *testing.T) {
	e := NewEngine()
	e.AddMacro("first", "one")
	e.AddMacro("$(first)", "uno")
	e.AddMacro("second", "two")
	e.AddMacro("  ", "ignored")

	assert.Equal(t, 2, e.Count())
	assert.Equal(t, "uno", e.Substitute("$(first)"))
	assert.Equal(t, []string{"first", "second"}, e.Names())

	r, ok := e.Macro("$(second)")
	require.True(t, ok)
	assert.Equal(t, "two", r)

	e.RemoveMacro("$(first)")
	assert.Equal(t, 1, e.Count())
	assert.Equal(t, "$(first)", e.Substitute("$(first)"))
}

func TestSubstitute_LogsCycle(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := NewEngine(WithLogger(zap.New(core)))
	e.AddMacro("loop", "$(loop)")
	e.Substitute("$(loop)")

	entries := logs.FilterMessage("macro cycle left unexpanded").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "loop", entries[0].ContextMap()["macro"])
}

func TestPropertySubstituteIdentityWithoutTokens(t *testing.T) {
	e := NewEngine()
	e.AddMacro("first", "one")
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Filter(func(s string) bool { return !strings.Contains(s, "$(") }).Draw(t, "text")
		if got := e.Substitute(text); got != text {
			t.Fatalf("Substitute(%q) = %q", text, got)
		}
	})
}

func TestPropertyArbitraryMacroGraphsTerminate(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	rapid.Check(t, func(t *rapid.T) {
		e := NewEngine()
		for _, n := range names {
			refs := rapid.SliceOfN(rapid.SampledFrom(names), 0, 3).Draw(t, "refs_"+n)
			var sb strings.Builder
			for _, r := range refs {
				sb.WriteString("$(" + r + ") ")
			}
			e.AddMacro(n, sb.String())
		}
		start := rapid.SampledFrom(names).Draw(t, "start")
		_ = e.Substitute("$(" + start + ")")
	})
}

package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/textreality/internal/game/command"
	"github.com/cory-johannsen/textreality/internal/game/world"
	"github.com/cory-johannsen/textreality/internal/scripting"
)

func newTestManager(t testing.TB) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(zap.New(core))
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0644))
	return dir
}

func TestManager_Load_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function test_hook(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.Load(dir, 0))
	ret, err := mgr.CallHook("test_hook", lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
}

func TestManager_CallHook_MissingHook_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadString(`-- no functions`))
	ret, err := mgr.CallHook("nonexistent_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_CallHook_RuntimeError_WarnLogNoPanic(t *testing.T) {
	mgr, logs := newTestManager(t)
	require.NoError(t, mgr.LoadString(`
		function bad_hook()
			error("intentional error")
		end
	`))
	ret, err := mgr.CallHook("bad_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len(), "expected Warn log for Lua runtime error")
}

func TestManager_CallHook_RunawayHookIsStopped(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "loop.lua", `function spin() while true do end end`)
	require.NoError(t, mgr.Load(dir, 500))
	ret, err := mgr.CallHook("spin")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestManager_Load_EmptyDir_NoError(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load(t.TempDir(), 0))
	ret, err := mgr.CallHook("anything")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_Load_Errors(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.Error(t, mgr.Load(writeTempLua(t, "bad.lua", `this is not valid lua @@@@`), 0))
	assert.Error(t, mgr.Load("/nonexistent/scripts", 0))
	assert.Error(t, mgr.LoadString(`this is not valid lua @@@@`))
}

func TestManager_Load_MultipleFiles_OrderedByName(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`base_val = 10`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`
		function get_val() return base_val end
	`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not lua`), 0644))
	require.NoError(t, mgr.Load(dir, 0))
	ret, err := mgr.CallHook("get_val")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(10), ret)
}

func TestNewManager_PanicsOnNilLogger(t *testing.T) {
	assert.Panics(t, func() {
		scripting.NewManager(nil)
	})
}

func TestManager_Close_CallHookReturnsNil(t *testing.T) {
	mgr := scripting.NewManager(zap.NewNop())
	require.NoError(t, mgr.LoadString(`function get_x() return 1 end`))
	mgr.Close()
	mgr.Close()
	ret, err := mgr.CallHook("get_x")
	assert.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_Bind(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadString(`
		function study_command(cmd)
			if cmd.verb == "read" and cmd.noun == "book" then
				return "It is a diary. The last page reads: " .. cmd.text
			end
			return nil
		end
		not_a_function = 3
	`))
	study, err := world.NewLocation("Study", "A quiet study.")
	require.NoError(t, err)
	w, err := world.NewWorld(study)
	require.NoError(t, err)

	require.NoError(t, mgr.Bind(w, map[string]string{"study": "study_command"}))
	assert.Error(t, mgr.Bind(w, map[string]string{"attic": "study_command"}))
	assert.Error(t, mgr.Bind(w, map[string]string{"study": "not_a_function"}))
	assert.Error(t, mgr.Bind(w, map[string]string{"study": "missing"}))

	actor := newActor(study)
	reply := study.ProcessCommand(actor, command.Command{Verb: command.Read, Noun: "book", FullTextCommand: "read book"})
	assert.Equal(t, "It is a diary. The last page reads: read book", reply)

	reply = study.ProcessCommand(actor, command.Command{Verb: command.Look})
	assert.Equal(t, "A quiet study.", reply, "nil return falls through to the default handler")
}

func TestManager_Intercept_ErrorDeclines(t *testing.T) {
	mgr, logs := newTestManager(t)
	require.NoError(t, mgr.LoadString(`
		function broken(cmd)
			return cmd.missing.field
		end
	`))
	l, err := world.NewLocation("Cellar", "A damp cellar.")
	require.NoError(t, err)
	l.Intercept(mgr.Intercept("broken"))

	assert.Equal(t, "A damp cellar.", l.ProcessCommand(newActor(l), command.Command{Verb: command.Look}))
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestProperty_CallHookMissingNeverPanics(t *testing.T) {
	mgr, _ := newTestManager(t)
	rapid.Check(t, func(rt *rapid.T) {
		hook := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "hook")
		count := rapid.IntRange(1, 20).Draw(rt, "count")
		for i := 0; i < count; i++ {
			mgr.CallHook(hook) //nolint:errcheck
		}
	})
}

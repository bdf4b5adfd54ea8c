package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/textreality/internal/game/command"
	"github.com/cory-johannsen/textreality/internal/game/world"
)

// Manager owns the sandboxed VM for one game session and adapts Lua hook
// functions into location intercepts.
//
// A Manager is bound to a single session and is not safe for concurrent use.
type Manager struct {
	L      *lua.LState
	limit  int
	world  *world.World
	logger *zap.Logger

	// Set for the duration of one intercept call; nil otherwise.
	actor    world.Actor
	location *world.Location
}

// NewManager creates a Manager with an empty sandboxed VM and the engine.*
// modules registered.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager; the caller must call Close.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	m := &Manager{
		L:      NewSandboxedState(),
		limit:  DefaultInstructionLimit,
		logger: logger,
	}
	m.RegisterModules(m.L)
	return m
}

// Load executes every *.lua file in scriptDir in lexicographic order. instLimit
// bounds each subsequent hook call; 0 keeps DefaultInstructionLimit.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Returns an error on the first Lua load failure.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	if instLimit > 0 {
		m.limit = instLimit
	}
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		release := Budget(m.L, m.limit)
		err := m.L.DoFile(path)
		release()
		if err != nil {
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	m.logger.Debug("scripts loaded", zap.String("dir", scriptDir), zap.Int("files", len(luaFiles)))
	return nil
}

// LoadString executes a chunk of Lua source.
func (m *Manager) LoadString(src string) error {
	release := Budget(m.L, m.limit)
	defer release()
	if err := m.L.DoString(src); err != nil {
		return fmt.Errorf("scripting: loading source: %w", err)
	}
	return nil
}

// Bind attaches hook functions to the locations of w. hooks maps location IDs
// to global Lua function names.
//
// Precondition: scripts defining the hooks must already be loaded.
// Postcondition: Returns an error naming the first unknown location or
// undefined function; locations bound before the error keep their intercepts.
func (m *Manager) Bind(w *world.World, hooks map[string]string) error {
	m.world = w
	ids := make([]string, 0, len(hooks))
	for id := range hooks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		l, ok := w.Location(id)
		if !ok {
			return fmt.Errorf("scripting: hook %q bound to unknown location %q", hooks[id], id)
		}
		fn := hooks[id]
		if m.L.GetGlobal(fn).Type() != lua.LTFunction {
			return fmt.Errorf("scripting: location %q: hook %q is not a Lua function", id, fn)
		}
		l.Intercept(m.Intercept(fn))
	}
	return nil
}

// Intercept adapts the Lua function hook into a location intercept. The hook
// receives a command table {verb, noun, noun2, preposition, raw_noun,
// raw_noun2, text, profanity} and handles the command by returning a string;
// returning nil declines it.
func (m *Manager) Intercept(hook string) world.Intercept {
	return func(a world.Actor, l *world.Location, cmd command.Command) (string, bool) {
		m.actor, m.location = a, l
		defer func() { m.actor, m.location = nil, nil }()

		ret, err := m.CallHook(hook, m.commandTable(cmd))
		if err != nil {
			return "", false
		}
		if s, ok := ret.(lua.LString); ok {
			return string(s), true
		}
		return "", false
	}
}

// CallHook calls the named Lua global function. Returns (LNil, nil) if the hook
// is not defined. Lua runtime errors, including an exhausted instruction
// budget, are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	if m.L == nil {
		return lua.LNil, nil
	}
	fn := m.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	release := Budget(m.L, m.limit)
	defer release()
	if err := m.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := m.L.Get(-1)
	m.L.Pop(1)
	return ret, nil
}

func (m *Manager) commandTable(cmd command.Command) *lua.LTable {
	t := m.L.NewTable()
	t.RawSetString("verb", lua.LString(cmd.Verb.String()))
	t.RawSetString("noun", lua.LString(cmd.Noun))
	t.RawSetString("noun2", lua.LString(cmd.Noun2))
	t.RawSetString("preposition", lua.LString(cmd.Preposition))
	t.RawSetString("raw_noun", lua.LString(cmd.RawNoun))
	t.RawSetString("raw_noun2", lua.LString(cmd.RawNoun2))
	t.RawSetString("text", lua.LString(cmd.FullTextCommand))
	t.RawSetString("profanity", lua.LBool(cmd.ProfanityDetected))
	return t
}

// Close releases the VM. CallHook after Close returns LNil.
func (m *Manager) Close() {
	if m.L != nil {
		m.L.Close()
		m.L = nil
	}
}

package scripting

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/textreality/internal/game/npc"
	"github.com/cory-johannsen/textreality/internal/game/world"
)

// RegisterModules registers the engine.log, engine.player, engine.location,
// engine.content and engine.character tables into L. Player and location functions act on the command currently
// being intercepted and raise a Lua error when called outside one.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"debug": m.logFn(zap.DebugLevel),
		"info":  m.logFn(zap.InfoLevel),
		"warn":  m.logFn(zap.WarnLevel),
	}))
	L.SetField(engine, "player", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"has":        m.playerHas,
		"give":       m.playerGive,
		"take":       m.playerTake,
		"score":      m.playerScore,
		"count_move": m.playerCountMove,
		"move_to":    m.playerMoveTo,
		"location":   m.playerLocation,
	}))
	L.SetField(engine, "location", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"id":            m.locationID,
		"describe":      m.locationDescribe,
		"description":   m.locationDescription,
		"lights":        m.locationLights,
		"toggle_lights": m.locationToggleLights,
		"unlock":        m.locationSetLock(false),
		"lock":          m.locationSetLock(true),
		"locked":        m.locationLocked,
		"flag":          m.locationFlag,
		"set_flag":      m.locationSetFlag,
		"has_item":      m.locationHasItem,
		"remove_item":   m.locationRemoveItem,
	}))
	L.SetField(engine, "content", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"get": m.contentGet,
	}))
	L.SetField(engine, "character", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"here":     m.characterHere,
		"busy":     m.characterBusy,
		"set_busy": m.characterSetBusy,
		"move_to":  m.characterMoveTo,
	}))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logFn(level zapcore.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		if ce := m.logger.Check(level, msg); ce != nil {
			ce.Write(zap.String("source", "lua"))
		}
		return 0
	}
}

func (m *Manager) bound(L *lua.LState) (world.Actor, *world.Location) {
	if m.actor == nil || m.location == nil {
		L.RaiseError("engine: called outside a location command")
		return nil, nil
	}
	return m.actor, m.location
}

func (m *Manager) playerHas(L *lua.LState) int {
	a, _ := m.bound(L)
	L.Push(lua.LBool(a.Inventory().Has(L.CheckString(1))))
	return 1
}

// playerGive adds an item to the inventory: give(name [, description [, pick_up_message]]).
func (m *Manager) playerGive(L *lua.LState) int {
	a, _ := m.bound(L)
	item, err := world.NewItem(L.CheckString(1), L.OptString(2, ""), L.OptString(3, ""))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	L.Push(lua.LBool(a.Inventory().Add(item) == nil))
	return 1
}

func (m *Manager) playerTake(L *lua.LState) int {
	a, _ := m.bound(L)
	_, ok := a.Inventory().Remove(L.CheckString(1))
	L.Push(lua.LBool(ok))
	return 1
}

func (m *Manager) playerScore(L *lua.LState) int {
	a, _ := m.bound(L)
	a.IncreaseScore(L.OptInt(1, 1))
	return 0
}

func (m *Manager) playerCountMove(L *lua.LState) int {
	a, _ := m.bound(L)
	a.IncrementMoves()
	return 0
}

// playerMoveTo relocates the player to a location by ID and returns its description.
func (m *Manager) playerMoveTo(L *lua.LState) int {
	a, _ := m.bound(L)
	id := L.CheckString(1)
	if m.world == nil {
		L.RaiseError("engine.player.move_to: no world bound")
		return 0
	}
	dest, ok := m.world.Location(id)
	if !ok {
		L.ArgError(1, "unknown location "+id)
		return 0
	}
	a.MoveTo(dest)
	L.Push(lua.LString(dest.Describe()))
	return 1
}

func (m *Manager) playerLocation(L *lua.LState) int {
	a, _ := m.bound(L)
	L.Push(lua.LString(a.CurrentLocation().ID))
	return 1
}

// contentGet returns the content string for an identifier, or "" when unknown.
func (m *Manager) contentGet(L *lua.LState) int {
	a, _ := m.bound(L)
	L.Push(lua.LString(a.RetrieveText(L.CheckString(1))))
	return 1
}

func (m *Manager) character(L *lua.LState) *npc.Character {
	id := L.CheckString(1)
	if m.world == nil {
		L.RaiseError("engine.character: no world bound")
		return nil
	}
	c, ok := m.world.Characters().Get(id)
	if !ok {
		L.ArgError(1, "unknown character "+id)
		return nil
	}
	return c
}

// characterHere reports whether the character is in the intercepted location.
func (m *Manager) characterHere(L *lua.LState) int {
	_, l := m.bound(L)
	c := m.character(L)
	_, ok := l.Character(c.ID)
	L.Push(lua.LBool(ok))
	return 1
}

func (m *Manager) characterBusy(L *lua.LState) int {
	m.bound(L)
	L.Push(lua.LBool(m.character(L).Busy))
	return 1
}

func (m *Manager) characterSetBusy(L *lua.LState) int {
	m.bound(L)
	m.character(L).Busy = L.OptBool(2, true)
	return 0
}

// characterMoveTo moves a character to the location with the given ID.
func (m *Manager) characterMoveTo(L *lua.LState) int {
	m.bound(L)
	c := m.character(L)
	dest, ok := m.world.Location(L.CheckString(2))
	if !ok {
		L.ArgError(2, "unknown location "+L.CheckString(2))
		return 0
	}
	if from, ok := m.world.CharacterLocation(c.ID); ok {
		from.RemoveCharacter(c.ID)
	}
	L.Push(lua.LBool(dest.AddCharacter(c) == nil))
	return 1
}

func (m *Manager) locationID(L *lua.LState) int {
	_, l := m.bound(L)
	L.Push(lua.LString(l.ID))
	return 1
}

func (m *Manager) locationDescribe(L *lua.LState) int {
	_, l := m.bound(L)
	L.Push(lua.LString(l.Describe()))
	return 1
}

func (m *Manager) locationDescription(L *lua.LState) int {
	_, l := m.bound(L)
	L.Push(lua.LString(l.Description))
	return 1
}

func (m *Manager) locationLights(L *lua.LState) int {
	_, l := m.bound(L)
	L.Push(lua.LBool(l.LightsOn))
	return 1
}

func (m *Manager) locationToggleLights(L *lua.LState) int {
	_, l := m.bound(L)
	L.Push(lua.LBool(l.ToggleLights()))
	return 1
}

func (m *Manager) locationSetLock(locked bool) lua.LGFunction {
	return func(L *lua.LState) int {
		_, l := m.bound(L)
		dir := world.Direction(strings.ToLower(L.CheckString(1)))
		L.Push(lua.LBool(l.SetDoorLock(locked, dir) == nil))
		return 1
	}
}

func (m *Manager) locationLocked(L *lua.LState) int {
	_, l := m.bound(L)
	e, ok := l.Exits().Get(world.Direction(strings.ToLower(L.CheckString(1))))
	L.Push(lua.LBool(ok && e.Locked()))
	return 1
}

func (m *Manager) locationFlag(L *lua.LState) int {
	_, l := m.bound(L)
	L.Push(lua.LBool(l.Flag(L.CheckString(1))))
	return 1
}

func (m *Manager) locationSetFlag(L *lua.LState) int {
	_, l := m.bound(L)
	l.SetFlag(L.CheckString(1), L.OptBool(2, true))
	return 0
}

func (m *Manager) locationHasItem(L *lua.LState) int {
	_, l := m.bound(L)
	L.Push(lua.LBool(l.Items().Has(L.CheckString(1))))
	return 1
}

func (m *Manager) locationRemoveItem(L *lua.LState) int {
	_, l := m.bound(L)
	_, ok := l.Items().Remove(L.CheckString(1))
	L.Push(lua.LBool(ok))
	return 1
}

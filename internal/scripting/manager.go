package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// GlobalKey is the reserved key for scripts loaded via LoadGlobal. CallHook
// falls back to this VM when no VM is registered under the requested key.
const GlobalKey = "__global__"

type vm struct {
	L     *lua.LState
	limit int
	// builtins holds the globals present before any script ran.
	builtins map[string]struct{}
}

// Manager owns one sandboxed LState per script set and dispatches hooks.
//
// Calls into the same VM are serialized by the manager's mutex.
type Manager struct {
	mu     sync.Mutex
	vms    map[string]*vm
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no VMs.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		logger: logger,
	}
}

// Load creates a sandboxed VM under key, registers the colony module and
// executes every *.lua file in scriptDir in lexicographic order. A VM already
// registered under key is replaced.
//
// Precondition: key must be non-empty; scriptDir must be a readable directory.
// Postcondition: Returns an error on read or Lua load failure, leaving any
// previous VM in place.
func (m *Manager) Load(key, scriptDir string, instLimit int) error {
	if key == "" {
		return fmt.Errorf("scripting.Manager.Load: key must not be empty")
	}
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting.Manager.Load: reading script dir %q for %q: %w", scriptDir, key, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(files)

	L := NewSandboxedState(instLimit)
	m.registerModule(L)
	builtins := make(map[string]struct{})
	L.G.Global.ForEach(func(k, _ lua.LValue) {
		if name, ok := k.(lua.LString); ok {
			builtins[string(name)] = struct{}{}
		}
	})
	for _, path := range files {
		cancel := ResetBudget(L, instLimit)
		err := L.DoFile(path)
		cancel()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting.Manager.Load: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.vms[key]; ok {
		old.L.Close()
	}
	m.vms[key] = &vm{L: L, limit: instLimit, builtins: builtins}
	m.mu.Unlock()

	m.logger.Info("scripts loaded",
		zap.String("key", key),
		zap.String("dir", scriptDir),
		zap.Int("files", len(files)),
	)
	return nil
}

// LoadGlobal loads scriptDir under GlobalKey.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.Load(GlobalKey, scriptDir, instLimit)
}

func (m *Manager) lookup(key string) (*vm, bool) {
	if v, ok := m.vms[key]; ok {
		return v, true
	}
	v, ok := m.vms[GlobalKey]
	return v, ok
}

// Hooks returns the names of script-defined global Lua functions in key's VM,
// falling back to the global VM, that start with prefix, sorted. Functions the
// sandbox installs itself are never reported.
func (m *Manager) Hooks(key, prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.lookup(key)
	if !ok {
		return nil
	}
	var names []string
	v.L.G.Global.ForEach(func(k, val lua.LValue) {
		name, isStr := k.(lua.LString)
		if !isStr || val.Type() != lua.LTFunction || !strings.HasPrefix(string(name), prefix) {
			return
		}
		if _, builtin := v.builtins[string(name)]; !builtin {
			names = append(names, string(name))
		}
	})
	sort.Strings(names)
	return names
}

// CallHook calls the named Lua global function in key's VM, falling back to
// the global VM. Returns (LNil, nil) if no VM exists or the hook is not
// defined. Lua runtime errors, including an exhausted instruction budget, are
// logged at Warn level and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(key, hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.call(key, hook, func(*lua.LState) []lua.LValue { return args })
}

// CallWithFields calls hook with a single table argument built from fields.
// Values may be float64, int, bool or string; other types are skipped.
func (m *Manager) CallWithFields(key, hook string, fields map[string]any) (lua.LValue, error) {
	return m.call(key, hook, func(L *lua.LState) []lua.LValue {
		tbl := L.NewTable()
		for k, v := range fields {
			switch val := v.(type) {
			case float64:
				tbl.RawSetString(k, lua.LNumber(val))
			case int:
				tbl.RawSetString(k, lua.LNumber(val))
			case bool:
				tbl.RawSetString(k, lua.LBool(val))
			case string:
				tbl.RawSetString(k, lua.LString(val))
			}
		}
		return []lua.LValue{tbl}
	})
}

func (m *Manager) call(key, hook string, build func(*lua.LState) []lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.lookup(key)
	if !ok {
		m.logger.Debug("scripting: no VM for key",
			zap.String("key", key),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}
	L := v.L
	fn := L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, nil
	}

	cancel := ResetBudget(L, v.limit)
	defer cancel()
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, build(L)...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("key", key),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.vms {
		v.L.Close()
		delete(m.vms, k)
	}
}

// registerModule installs the colony table: colony.clamp(v, lo, hi) and
// colony.log(msg), which writes to the manager's logger at Debug.
func (m *Manager) registerModule(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "clamp", L.NewFunction(func(L *lua.LState) int {
		v, lo, hi := L.CheckNumber(1), L.CheckNumber(2), L.CheckNumber(3)
		switch {
		case v < lo:
			v = lo
		case v > hi:
			v = hi
		}
		L.Push(v)
		return 1
	}))
	L.SetField(mod, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Debug("lua", zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetGlobal("colony", mod)
}

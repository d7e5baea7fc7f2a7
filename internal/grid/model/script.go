package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds the script body and each cell call.
const DefaultExecutionTimeout = time.Second

// ScriptOption configures a ScriptModel.
type ScriptOption func(*ScriptModel)

// WithExecutionTimeout sets how long the script body and each call to
// cell may run. A non-positive d keeps the default.
func WithExecutionTimeout(d time.Duration) ScriptOption {
	return func(m *ScriptModel) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// ScriptModel computes cells with a Lua script. The script must set the
// globals rows and cols and define cell(row, col), with zero-based
// indices:
//
//	rows = 1000
//	cols = 8
//	function cell(row, col) return row * col end
//
// Results are cached until Invalidate. A failing or timed-out call yields
// "#ERR" for that cell and is reported by Err.
//
// The Lua state is not goroutine-safe; a ScriptModel must only be used
// from the UI goroutine.
type ScriptModel struct {
	L       *lua.LState
	fn      lua.LValue
	rows    int
	cols    int
	timeout time.Duration
	cache   map[[2]int]any
	err     error
}

// LoadScript reads and runs a Lua table script from path.
func LoadScript(path string, opts ...ScriptOption) (*ScriptModel, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	return NewScriptModel(string(src), opts...)
}

// NewScriptModel runs source in a fresh Lua state with only the base,
// table, string and math libraries opened.
func NewScriptModel(source string, opts ...ScriptOption) (*ScriptModel, error) {
	m := &ScriptModel{timeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(m)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	if err := m.bounded(L, func() error { return L.DoString(source) }); err != nil {
		L.Close()
		if errors.Is(err, ErrExecutionTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}

	rows, ok1 := L.GetGlobal("rows").(lua.LNumber)
	cols, ok2 := L.GetGlobal("cols").(lua.LNumber)
	if !ok1 || !ok2 {
		L.Close()
		return nil, fmt.Errorf("%w: rows and cols must be numbers", ErrInvalidScript)
	}
	fn := L.GetGlobal("cell")
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("%w: cell is not a function", ErrInvalidScript)
	}

	m.L = L
	m.fn = fn
	m.rows = max(int(rows), 0)
	m.cols = max(int(cols), 0)
	m.cache = make(map[[2]int]any)
	return m, nil
}

// bounded runs fn with L bound to a deadline. Running past it reports
// ErrExecutionTimeout.
func (m *ScriptModel) bounded(L *lua.LState, fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	L.SetContext(ctx)
	defer L.RemoveContext()

	err := fn()
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("%w after %v", ErrExecutionTimeout, m.timeout)
	}
	return err
}

// Close releases the Lua state.
func (m *ScriptModel) Close() {
	if m.L != nil {
		m.L.Close()
		m.L = nil
	}
}

// Err returns the last script error.
func (m *ScriptModel) Err() error {
	return m.err
}

// Invalidate drops cached cell values.
func (m *ScriptModel) Invalidate() {
	m.cache = make(map[[2]int]any)
}

// LastRow implements Model.
func (m *ScriptModel) LastRow() int { return m.rows - 1 }

// LastColumn implements Model.
func (m *ScriptModel) LastColumn() int { return m.cols - 1 }

// Item implements Model.
func (m *ScriptModel) Item(row, col int) any {
	if m.L == nil || row < 0 || col < 0 || row >= m.rows || col >= m.cols {
		return nil
	}
	k := [2]int{row, col}
	if v, ok := m.cache[k]; ok {
		return v
	}

	err := m.bounded(m.L, func() error {
		return m.L.CallByParam(lua.P{Fn: m.fn, NRet: 1, Protect: true}, lua.LNumber(row), lua.LNumber(col))
	})
	if err != nil {
		m.err = fmt.Errorf("cell(%d, %d): %w", row, col, err)
		m.cache[k] = "#ERR"
		return "#ERR"
	}
	ret := m.L.Get(-1)
	m.L.Pop(1)

	v := fromLua(ret)
	m.cache[k] = v
	return v
}

func fromLua(v lua.LValue) any {
	switch x := v.(type) {
	case lua.LNumber:
		f := float64(x)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int(f)
		}
		return f
	case lua.LString:
		return string(x)
	case lua.LBool:
		return bool(x)
	default:
		if v == lua.LNil {
			return nil
		}
		return v.String()
	}
}

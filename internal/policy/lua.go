package policy

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/SeamusWaldron/rubikscube"
)

// ErrScript reports a Lua policy that failed to load or returned a bad action.
var ErrScript = errors.New("policy: lua script error")

// Lua runs a policy written in Lua. The script must define a global
// function
//
//	function act(obs, step, actions) ... end
//
// where obs is a 1-based table of the 480 observation entries, step counts
// actions taken this episode and actions is the size of the action space.
// It returns a 0-based action id. Scripts may call random(n) for a seeded
// integer in [0, n).
type Lua struct {
	L       *lua.LState
	act     lua.LValue
	obs     *lua.LTable
	actions int
}

// NewLua loads a policy from Lua source.
func NewLua(source string, src rubikscube.Source, actions int) (*Lua, error) {
	L := lua.NewState()

	L.SetGlobal("random", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n <= 0 {
			L.ArgError(1, "must be positive")
			return 0
		}
		L.Push(lua.LNumber(src.IntN(n)))
		return 1
	}))

	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}

	act := L.GetGlobal("act")
	if act.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("%w: script does not define function act", ErrScript)
	}

	obs := L.CreateTable(rubikscube.ObservationSize, 0)
	for i := 1; i <= rubikscube.ObservationSize; i++ {
		obs.RawSetInt(i, lua.LNumber(0))
	}

	return &Lua{L: L, act: act, obs: obs, actions: actions}, nil
}

func (p *Lua) Act(obs *rubikscube.Observation, step int) (int, error) {
	for i, v := range obs {
		p.obs.RawSetInt(i+1, lua.LNumber(v))
	}

	err := p.L.CallByParam(lua.P{
		Fn:      p.act,
		NRet:    1,
		Protect: true,
	}, p.obs, lua.LNumber(step), lua.LNumber(p.actions))
	if err != nil {
		return -1, fmt.Errorf("%w: %v", ErrScript, err)
	}

	ret := p.L.Get(-1)
	p.L.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return -1, fmt.Errorf("%w: act returned %s, want number", ErrScript, ret.Type())
	}
	action := int(n)
	if float64(action) != float64(n) || action < 0 || action >= p.actions {
		return -1, fmt.Errorf("%w: act returned %v, want integer in [0, %d)", ErrScript, float64(n), p.actions)
	}
	return action, nil
}

func (p *Lua) Close() error {
	p.L.Close()
	return nil
}

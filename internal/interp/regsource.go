package interp

import (
	"fmt"

	"github.com/dswartz/teco-core/internal/register"
)

// regSource adapts Interpreter's register lookup to strbuild.RegisterSource
// so the string-building sub-machine can resolve ^EQ/^EU/^E\\/^E@/^E<n>
// interpolation without strbuild depending on the register package.
type regSource struct {
	it *Interpreter
}

func (r *regSource) table(local bool) *register.Table {
	if local {
		if f := r.it.topFrame(); f != nil && f.Locals != nil {
			return f.Locals
		}
		return nil
	}
	return r.it.Globals
}

func (r *regSource) GetString(name string, local bool) (string, error) {
	t := r.table(local)
	if t == nil {
		return "", fmt.Errorf("strbuild: no local register frame active")
	}
	reg := t.Lookup(name)
	if reg == nil || reg.Payload == nil || r.it.Widget == nil {
		return "", nil
	}
	prev := r.it.Widget.SetDocPointer(reg.Payload.Handle)
	defer r.it.Widget.SetDocPointer(prev)
	return r.it.Widget.GetText(), nil
}

func (r *regSource) GetInt(name string, local bool) (int64, error) {
	t := r.table(local)
	if t == nil {
		return 0, fmt.Errorf("strbuild: no local register frame active")
	}
	reg := t.Lookup(name)
	if reg == nil {
		return 0, nil
	}
	return reg.Value, nil
}

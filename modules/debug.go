package modules

import (
	"rmc/compiler"
	"rmc/diag"
	"rmc/instructions"
	"rmc/source"
)

// debugPortBase is the first of a run of output ports debug.trace
// writes to, one per call site in a program, so successive traces don't
// overwrite each other.
const debugPortBase = 40

// debugModule exposes `debug.trace(expr)`, mostly to exercise two
// things a single-module program can't: loading more than one module in
// a `use` statement, and a module keeping its own opaque state across
// calls (here, a simple call counter) via Compiler.ModuleState.
type debugModule struct{}

func newDebug() *debugModule { return &debugModule{} }

func (*debugModule) Name() string { return "debug" }

func (*debugModule) Init(c *compiler.Compiler, _ source.Range) error {
	c.SetModuleState("debug", 0)
	return nil
}

func (*debugModule) Call(c *compiler.Compiler, method string, call compiler.CallInfo) error {
	switch method {
	case "trace":
		if len(call.Args) != 1 {
			return diag.Newf(diag.ModuleError, call.Range,
				"debug.trace expects exactly 1 argument, got %d", len(call.Args))
		}
		raw, _ := c.ModuleState("debug")
		n, _ := raw.(int)
		if n > 255-debugPortBase {
			return diag.Newf(diag.ModuleError, call.Range, "too many debug.trace call sites")
		}

		if err := c.EvalExpr(call.Args[0]); err != nil {
			return err
		}
		c.EmitArg(instructions.Sva, byte(debugPortBase+n), call.Range)
		c.SetModuleState("debug", n+1)
		return nil
	default:
		return diag.New(diag.UnknownMethod, call.Range)
	}
}

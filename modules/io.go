package modules

import (
	"rmc/compiler"
	"rmc/diag"
	"rmc/instructions"
	"rmc/source"
)

// outputPort is the fixed port number `io.write` stores to. Slots 0-31
// are variables; anything at or above 32 is an output port as far as
// SVA is concerned.
const outputPort = 32

// ioModule exposes a single intrinsic, `io.write(expr)`, which lowers
// expr and stores the result to the machine's output port.
type ioModule struct{}

func newIO() *ioModule { return &ioModule{} }

func (*ioModule) Name() string { return "io" }

func (*ioModule) Init(_ *compiler.Compiler, _ source.Range) error { return nil }

func (*ioModule) Call(c *compiler.Compiler, method string, call compiler.CallInfo) error {
	switch method {
	case "write":
		if len(call.Args) != 1 {
			return diag.Newf(diag.ModuleError, call.Range,
				"io.write expects exactly 1 argument, got %d", len(call.Args))
		}
		if err := c.EvalExpr(call.Args[0]); err != nil {
			return err
		}
		c.EmitArg(instructions.Sva, outputPort, call.Range)
		return nil
	default:
		return diag.New(diag.UnknownMethod, call.Range)
	}
}

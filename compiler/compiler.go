// Package compiler lowers the parsed AST into this machine's bytecode.
//
// It tracks, for every point in the emitted code, what the two working
// registers are symbolically known to hold, eliding a reload whenever it
// can prove a register already has the value a reference needs. A
// non-empty stack of scopes manages the 32-slot register file: pushing a
// scope (loop body, conditional branch) opens a new slot-allocation
// frame, popping one frees every slot it claimed.
package compiler

import (
	"rmc/ast"
	"rmc/diag"
	"rmc/instructions"
	"rmc/parser"
	"rmc/source"
)

// numSlots is the size of the register file: 32 variable slots.
const numSlots = 32

// CallInfo describes one `module.method(args)` call site, passed to a
// Registry so a module can lower its own arguments and emit its own
// code.
type CallInfo struct {
	Method string
	Args   []ast.Expression
	Range  source.Range
}

// Registry is how modules plug into the compiler: it answers whether a
// module name exists, initializes a module's state on `use`, and lowers
// a call against a loaded module. Defined here, rather than in the
// modules package, so the compiler need not import its own plugins.
type Registry interface {
	Exist(name string) bool
	Init(c *Compiler, name string, rng source.Range) error
	Call(c *Compiler, name string, call CallInfo) error
}

// Compiler holds everything needed to lower one program: the scope
// stack, the register occupancy bitmap, symbolic jump marks, the set of
// loaded modules, and their opaque state.
type Compiler struct {
	scopes []*scope
	slots  [numSlots]bool

	instrCount int
	nextMark   byte
	jumpMarks  map[byte]int

	registry    Registry
	modules     map[string]bool
	moduleState map[string]any
}

// New builds a Compiler with a single, empty global scope.
func New(registry Registry) *Compiler {
	c := &Compiler{
		jumpMarks:   map[byte]int{},
		registry:    registry,
		modules:     map[string]bool{},
		moduleState: map[string]any{},
	}
	c.scopes = []*scope{newScope(ComputerState{})}
	return c
}

// Compile parses sourceText and lowers it to this machine's assembly
// text, using registry to resolve every `use`d module.
func Compile(sourceText string, registry Registry) (string, error) {
	program, errs := parser.Parse(sourceText)
	if len(errs) != 0 {
		return "", errs
	}
	c := New(registry)
	return c.GenerateAssembly(program)
}

// GenerateAssembly lowers a whole program, collecting every statement's
// diagnostics rather than stopping at the first, and renders the final
// assembly text.
func (c *Compiler) GenerateAssembly(program []ast.Expression) (string, error) {
	var errs diag.Errors
	for _, stmt := range program {
		if err := c.compileStatement(stmt); err != nil {
			errs = append(errs, flattenDiag(err)...)
		}
	}
	if len(errs) != 0 {
		return "", errs
	}
	return c.finish()
}

func flattenDiag(err error) diag.Errors {
	switch e := err.(type) {
	case diag.Errors:
		return e
	case diag.Error:
		return diag.Errors{e}
	default:
		return diag.Errors{diag.Newf(diag.SomethingElseWentWrong, source.Range{}, "%s", e)}
	}
}

// state returns a pointer to the current scope's register state, so it
// can be read and updated in place.
func (c *Compiler) state() *ComputerState {
	return &c.current().state
}

// Emit appends an argument-less instruction to the current scope and
// updates the tracked register state. Exported so a Registry
// implementation can lower its own calls.
func (c *Compiler) Emit(variant instructions.Variant, rng source.Range) {
	c.append(instructions.New(variant, rng))
}

// EmitArg appends an instruction carrying a byte argument.
func (c *Compiler) EmitArg(variant instructions.Variant, arg byte, rng source.Range) {
	c.append(instructions.NewArg(variant, arg, rng))
}

func (c *Compiler) append(ins instructions.Instruction) {
	s := c.current()
	s.instructions = append(s.instructions, CodeInstr{Instruction: ins})
	c.instrCount++
	updateState(&s.state, ins)
}

// updateState applies the bookkeeping rule for one emitted instruction.
// SVA leaves A itself unchanged - storing A's value to a slot doesn't
// change what A holds, and leaving A's own tracking alone is exactly
// what lets a later reference to the same value skip a reload. But it
// does overwrite that slot's backing memory, so B's tracking must be
// invalidated if B was claiming to hold that same slot's (now stale)
// value; A's own matching claim, if any, stays true by construction
// (A's claim can only have been established by a prior load, so A
// already holds exactly what it's about to store).
func updateState(state *ComputerState, ins instructions.Instruction) {
	switch ins.Variant {
	case instructions.Lal:
		state.A = numberContents(signExtend8(*ins.Arg))
	case instructions.Lah:
		state.A = combineHigh(state.A, *ins.Arg)
	case instructions.La:
		state.A = variableContents(*ins.Arg)
	case instructions.Lbl:
		state.B = numberContents(signExtend8(*ins.Arg))
	case instructions.Lbh:
		state.B = combineHigh(state.B, *ins.Arg)
	case instructions.Lb:
		state.B = variableContents(*ins.Arg)
	case instructions.Sva:
		if state.B.IsVariable(*ins.Arg) {
			state.B = unknownContents()
		}
	case instructions.Add, instructions.Sub, instructions.Mul,
		instructions.And, instructions.Or, instructions.Xor:
		state.A = unknownContents()
	}
}

// combineHigh folds a LAH/LBH high-byte load onto a register already
// known to hold a number from a preceding low-byte load. If the low
// byte isn't known the result is Unknown: what LAH alone does to an
// otherwise-untracked register is undocumented by the machine.
func combineHigh(prev Contents, high byte) Contents {
	if prev.Kind != KnownNumber {
		return unknownContents()
	}
	low := uint16(prev.Number) & 0xFF
	return numberContents(int16(low | uint16(high)<<8))
}

func signExtend8(b byte) int16 {
	return int16(int8(b))
}

// ModuleState returns the opaque state a module stashed for itself via
// SetModuleState, if any.
func (c *Compiler) ModuleState(name string) (any, bool) {
	v, ok := c.moduleState[name]
	return v, ok
}

// SetModuleState stores a module's own opaque state, keyed by its name.
func (c *Compiler) SetModuleState(name string, v any) {
	c.moduleState[name] = v
}

// EvalExpr lowers expr so its value ends up in register A. Exported so
// a Registry implementation can lower its own call arguments.
func (c *Compiler) EvalExpr(expr ast.Expression) error {
	return c.evalExpr(expr)
}

// Package instructions contains the machine's instruction set.
//
// The compiler lowers an AST into a flat sequence of these: each one
// carries its Variant, an optional byte argument, and the source range
// of the expression that produced it. A final pass (see the compiler
// package's page-jump rewrite) may replace a jump's Variant with its
// discontinuous counterpart and insert an Lcl before it.
package instructions

import (
	"fmt"
	"strconv"

	"rmc/source"
)

// Variant is the instruction-set enum: every opcode this machine knows.
type Variant byte

const (
	// Loads into A.
	Lal Variant = iota // load A low byte (immediate)
	Lah                // load A high byte (immediate)
	La                 // load A from a variable slot

	// Loads into B.
	Lbl
	Lbh
	Lb

	// Select the target page, ahead of a discontinuous jump.
	Lcl

	// Store A to a variable slot (0-31) or an output port (32+).
	Sva

	// ALU: operate on A, B, writing the result to A.
	Add
	Sub
	Mul
	And
	Or
	Xor

	// Plain (intra-page) jumps.
	Jmp
	Jeq
	Jne
	Jlt
	Jgt
	Jle
	Jge

	// Discontinuous (inter-page) jumps, each paired 1:1 with a plain one.
	Jmpd
	Jeqd
	Jned
	Jltd
	Jgtd
	Jled
	Jged
)

var mnemonics = map[Variant]string{
	Lal: "LAL", Lah: "LAH", La: "LA",
	Lbl: "LBL", Lbh: "LBH", Lb: "LB",
	Lcl: "LCL",
	Sva: "SVA",
	Add: "ADD", Sub: "SUB", Mul: "MUL", And: "AND", Or: "OR", Xor: "XOR",
	Jmp: "JMP", Jeq: "JEQ", Jne: "JNE", Jlt: "JLT", Jgt: "JGT", Jle: "JLE", Jge: "JGE",
	Jmpd: "JMPD", Jeqd: "JEQD", Jned: "JNED", Jltd: "JLTD", Jgtd: "JGTD", Jled: "JLED", Jged: "JGED",
}

// Mnemonic returns the upper-case opcode name, as written in the
// assembly text form.
func (v Variant) Mnemonic() string {
	if m, ok := mnemonics[v]; ok {
		return m
	}
	return fmt.Sprintf("UNKNOWN(%d)", byte(v))
}

// HasArg reports whether this variant carries a byte argument. Every
// load, the store, the page-select, and every jump take one; the ALU
// operations never do.
func (v Variant) HasArg() bool {
	switch v {
	case Add, Sub, Mul, And, Or, Xor:
		return false
	default:
		return true
	}
}

// IsJump reports whether v is any of the fourteen jump variants, plain
// or discontinuous.
func (v Variant) IsJump() bool {
	switch v {
	case Jmp, Jeq, Jne, Jlt, Jgt, Jle, Jge,
		Jmpd, Jeqd, Jned, Jltd, Jgtd, Jled, Jged:
		return true
	default:
		return false
	}
}

// IsDiscJump reports whether v is already one of the inter-page jump
// variants.
func (v Variant) IsDiscJump() bool {
	switch v {
	case Jmpd, Jeqd, Jned, Jltd, Jgtd, Jled, Jged:
		return true
	default:
		return false
	}
}

var discPair = map[Variant]Variant{
	Jmp: Jmpd, Jeq: Jeqd, Jne: Jned, Jlt: Jltd, Jgt: Jgtd, Jle: Jled, Jge: Jged,
}

// ToDiscJump maps a plain jump to its paired discontinuous variant. It
// is a programmer error to call this on anything that is not a plain
// jump - reaching that is a back-end bug, not a user-facing one.
func (v Variant) ToDiscJump() Variant {
	d, ok := discPair[v]
	if !ok {
		panic(fmt.Sprintf("instructions: %s is not a plain jump", v.Mnemonic()))
	}
	return d
}

// FromOp maps an equality operator onto its conditional-jump variant,
// e.g. EqualTo -> Jeq. Every equality operator has exactly one matching
// jump, so this is a total function over the six operators.
func FromOp(op source.EqualityOperator) Variant {
	switch op {
	case source.EqualTo:
		return Jeq
	case source.NotEqualTo:
		return Jne
	case source.GreaterThan:
		return Jgt
	case source.LessThan:
		return Jlt
	case source.GreaterOrEqual:
		return Jge
	case source.LessOrEqual:
		return Jle
	default:
		panic(fmt.Sprintf("instructions: unhandled equality operator %v", op))
	}
}

func (v Variant) String() string {
	return v.Mnemonic()
}

// Instruction is one emitted unit of code: its opcode, an optional byte
// argument (nil for ALU ops), and the source range that caused it to be
// emitted - every instruction traces back to the expression that
// produced it, so diagnostics and (eventually) debuggers can map code
// back to source.
type Instruction struct {
	Variant Variant
	Arg     *byte
	Range   source.Range
}

// New builds an argument-less instruction, e.g. ADD.
func New(variant Variant, rng source.Range) Instruction {
	return Instruction{Variant: variant, Range: rng}
}

// NewArg builds an instruction carrying a byte argument, e.g. LA 3.
func NewArg(variant Variant, arg byte, rng source.Range) Instruction {
	return Instruction{Variant: variant, Arg: &arg, Range: rng}
}

// Text renders the instruction in its assembly text form: the mnemonic,
// optionally a space and the decimal argument, and a trailing newline.
func (i Instruction) Text() string {
	if i.Arg == nil {
		return i.Variant.Mnemonic() + "\n"
	}
	return i.Variant.Mnemonic() + " " + strconv.Itoa(int(*i.Arg)) + "\n"
}

package compiler

import (
	"strings"

	"rmc/diag"
	"rmc/instructions"
)

// pageSize is the number of instructions in one page; a plain jump may
// only target an index on the same page as itself.
const pageSize = 64

// flatten walks a scope's closed instruction tree depth-first, turning
// the nested Instr structure back into one flat instruction stream in
// exactly the order everything was emitted.
func flatten(items []Instr) []instructions.Instruction {
	var out []instructions.Instruction
	for _, item := range items {
		switch v := item.(type) {
		case CodeInstr:
			out = append(out, v.Instruction)
		case ScopeInstr:
			out = append(out, flatten(v.Items)...)
		}
	}
	return out
}

// insertDiscJumps rewrites every plain jump whose target lands on a
// different page into its discontinuous counterpart, preceded by an
// LCL selecting the target page. Inserting an LCL shifts every
// instruction after it, so bound mark indices are updated in marks as
// the pass goes; this runs to a fixed point since one insertion can
// push a jump that was previously same-page onto a different page.
func insertDiscJumps(prog []instructions.Instruction, marks map[byte]int) []instructions.Instruction {
	for {
		changed := false
		for i := 0; i < len(prog); i++ {
			ins := prog[i]
			if !ins.Variant.IsJump() || ins.Variant.IsDiscJump() {
				continue
			}
			target, ok := marks[*ins.Arg]
			if !ok {
				continue
			}
			if i/pageSize == target/pageSize {
				continue
			}

			disc := instructions.NewArg(ins.Variant.ToDiscJump(), *ins.Arg, ins.Range)
			lcl := instructions.NewArg(instructions.Lcl, byte(target/pageSize), ins.Range)

			rewritten := make([]instructions.Instruction, 0, len(prog)+1)
			rewritten = append(rewritten, prog[:i]...)
			rewritten = append(rewritten, lcl, disc)
			rewritten = append(rewritten, prog[i+1:]...)
			prog = rewritten

			for m, idx := range marks {
				if idx >= i {
					marks[m] = idx + 1
				}
			}
			changed = true
			break
		}
		if !changed {
			return prog
		}
	}
}

// resolveMarks replaces every jump's provisional argument - a mark id -
// with the final resolved instruction index that mark was bound to.
func resolveMarks(prog []instructions.Instruction, marks map[byte]int) ([]instructions.Instruction, error) {
	for i, ins := range prog {
		if !ins.Variant.IsJump() {
			continue
		}
		idx, ok := marks[*ins.Arg]
		if !ok {
			return nil, diag.Newf(diag.SomethingElseWentWrong, ins.Range, "jump mark %d was never bound", *ins.Arg)
		}
		if idx > 255 {
			return nil, diag.Newf(diag.SomethingElseWentWrong, ins.Range, "program exceeds 256 instructions; jump target %d unaddressable", idx)
		}
		prog[i] = instructions.NewArg(ins.Variant, byte(idx), ins.Range)
	}
	return prog, nil
}

// finish flattens the (by now single, global) remaining scope, rewrites
// page-crossing jumps, resolves every jump mark to its final index, and
// renders the result as assembly text.
func (c *Compiler) finish() (string, error) {
	prog := flatten(c.current().instructions)

	marks := make(map[byte]int, len(c.jumpMarks))
	for k, v := range c.jumpMarks {
		marks[k] = v
	}

	prog = insertDiscJumps(prog, marks)

	prog, err := resolveMarks(prog, marks)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, ins := range prog {
		sb.WriteString(ins.Text())
	}
	return sb.String(), nil
}

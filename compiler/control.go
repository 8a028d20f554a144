package compiler

import (
	"rmc/ast"
	"rmc/diag"
	"rmc/instructions"
	"rmc/source"
)

// allocateMark reserves a new symbolic jump target. Its value is used
// directly as a jump instruction's provisional argument byte; finish
// later rewrites every such argument to the real resolved index.
func (c *Compiler) allocateMark() byte {
	m := c.nextMark
	c.nextMark++
	return m
}

func (c *Compiler) bindMark(mark byte, index int) {
	c.jumpMarks[mark] = index
}

// negateEq returns the logical opposite of an equality condition -
// taking the branch when the original condition is false.
func negateEq(eq *ast.EqExpr) *ast.EqExpr {
	return &ast.EqExpr{
		Left:     eq.Left,
		Right:    eq.Right,
		Operator: eq.Operator.Opposite(),
		Rng:      eq.Rng,
	}
}

// putComparison lowers an equality condition into operand placement
// plus a conditional jump to mark. If put_ab swapped the operands the
// comparison operator must be turned around to match.
func (c *Compiler) putComparison(eq *ast.EqExpr, mark byte, rng source.Range) error {
	swapped, err := c.putAB(eq.Left, eq.Right, true, eq.Rng)
	if err != nil {
		return err
	}
	op := eq.Operator
	if swapped {
		op = op.Turnaround()
	}
	c.EmitArg(instructions.FromOp(op), mark, rng)
	return nil
}

func asCondition(expr ast.Expression) (*ast.EqExpr, error) {
	eq, ok := expr.(*ast.EqExpr)
	if !ok {
		return nil, diag.New(diag.NormalInEqExpr, expr.Range())
	}
	return eq, nil
}

func (c *Compiler) compileBody(body []ast.Expression) error {
	for _, stmt := range body {
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// compileEndlessLoop lowers `forever body end`: bind a mark to the loop
// start, compile the body in a fresh (Unknown/Unknown) scope, then jump
// back unconditionally.
func (c *Compiler) compileEndlessLoop(e *ast.EndlessLoop) error {
	mark := c.allocateMark()
	c.bindMark(mark, c.instrCount)

	c.pushScope(ComputerState{})
	err := c.compileBody(e.Body)
	c.popScope()
	if err != nil {
		return err
	}

	c.EmitArg(instructions.Jmp, mark, e.Rng)
	return nil
}

// compileWhileLoop lowers `while cond body end`: test the negated
// condition up front to skip the loop entirely when it never runs, then
// re-test the positive condition at the end of each iteration to loop
// back.
func (c *Compiler) compileWhileLoop(e *ast.WhileLoop) error {
	cond, err := asCondition(e.Condition)
	if err != nil {
		return err
	}

	startMark := c.allocateMark()
	endMark := c.allocateMark()

	if err := c.putComparison(negateEq(cond), endMark, e.Rng); err != nil {
		return err
	}

	c.bindMark(startMark, c.instrCount)
	parentState := c.current().state
	c.pushScope(parentState)

	bodyErr := c.compileBody(e.Body)
	if bodyErr == nil {
		bodyErr = c.putComparison(cond, startMark, e.Rng)
	}
	c.popScope()
	if bodyErr != nil {
		return bodyErr
	}

	c.bindMark(endMark, c.instrCount)
	return nil
}

// compileConditional lowers `if cond body (elif cond body)* (else body)? end`.
// Each branch's negated condition jumps to the next branch (or to the
// end, for the last one); every branch but the last one taken jumps to
// the end once its body completes.
func (c *Compiler) compileConditional(e *ast.Conditional) error {
	endMark := c.allocateMark()
	parentState := c.current().state

	if err := c.compileBranch(e.Condition, e.Body, parentState, endMark, len(e.Paths) > 0 || e.Alternate != nil); err != nil {
		return err
	}

	for i, branch := range e.Paths {
		hasMore := i != len(e.Paths)-1 || e.Alternate != nil
		if err := c.compileBranch(branch.Condition, branch.Body, parentState, endMark, hasMore); err != nil {
			return err
		}
	}

	if e.Alternate != nil {
		c.pushScope(parentState)
		err := c.compileBody(e.Alternate)
		c.popScope()
		if err != nil {
			return err
		}
	}

	c.bindMark(endMark, c.instrCount)
	return nil
}

// compileBranch lowers one `if`/`elif` branch: negated-condition jump
// past the branch, the body in its own scope, and - unless this is the
// last branch with no following `else` - a trailing jump to the whole
// conditional's end.
func (c *Compiler) compileBranch(condition ast.Expression, body []ast.Expression, parentState ComputerState, endMark byte, hasMore bool) error {
	cond, err := asCondition(condition)
	if err != nil {
		return err
	}

	nextMark := c.allocateMark()
	if err := c.putComparison(negateEq(cond), nextMark, condition.Range()); err != nil {
		return err
	}

	c.pushScope(parentState)
	bodyErr := c.compileBody(body)
	if bodyErr == nil && hasMore {
		c.EmitArg(instructions.Jmp, endMark, condition.Range())
	}
	c.popScope()
	if bodyErr != nil {
		return bodyErr
	}

	c.bindMark(nextMark, c.instrCount)
	return nil
}

package compiler

import (
	"rmc/ast"
	"rmc/diag"
	"rmc/instructions"
	"rmc/source"
)

// evalExpr lowers expr so its value ends up in register A. Every
// expression kind has a defined result, even the ones - Assignment,
// IAssignment, Call - that are really statements in disguise; that's
// what lets them nest inside a larger expression.
func (c *Compiler) evalExpr(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.NumericLiteral:
		return c.putIntoA(e)
	case *ast.Identifier:
		return c.putIntoA(e)
	case *ast.Debug:
		c.EmitArg(instructions.Lal, 17, e.Rng)
		return nil
	case *ast.Pass:
		return nil
	case *ast.BinaryExpr:
		return c.evalBinary(e)
	case *ast.EqExpr:
		return diag.New(diag.EqInNormalExpr, e.Rng)
	case *ast.Assignment:
		return c.evalAssignment(e)
	case *ast.IAssignment:
		return c.evalIAssignment(e)
	case *ast.Call:
		return c.evalCall(e)
	case *ast.Member:
		return diag.New(diag.NoConstants, e.Rng)
	default:
		return diag.Newf(diag.SomethingElseWentWrong, expr.Range(), "%T cannot appear as an expression", expr)
	}
}

func (c *Compiler) evalBinary(e *ast.BinaryExpr) error {
	_, err := c.putAB(e.Left, e.Right, e.Operator.IsCommutative(), e.Rng)
	if err != nil {
		return err
	}
	c.putOp(e.Operator, e.Rng)
	return nil
}

func (c *Compiler) putOp(op source.BinaryOperator, rng source.Range) {
	switch op {
	case source.Plus:
		c.Emit(instructions.Add, rng)
	case source.Minus:
		c.Emit(instructions.Sub, rng)
	case source.Mult:
		c.Emit(instructions.Mul, rng)
	case source.And:
		c.Emit(instructions.And, rng)
	case source.Or:
		c.Emit(instructions.Or, rng)
	case source.Xor:
		c.Emit(instructions.Xor, rng)
	}
}

func (c *Compiler) evalAssignment(e *ast.Assignment) error {
	if err := c.evalExpr(e.Value); err != nil {
		return err
	}
	slot, err := c.insertVar(e.Ident.Name, e.Ident.Range)
	if err != nil {
		return err
	}
	c.EmitArg(instructions.Sva, slot, e.Rng)
	return nil
}

// evalIAssignment lowers `ident op= value`. Per this language's compound
// assignment, it evaluates value into A, loads the existing ident into
// B, applies op, and stores the result back over ident - in that literal
// order, not `ident op value`.
func (c *Compiler) evalIAssignment(e *ast.IAssignment) error {
	if err := c.evalExpr(e.Value); err != nil {
		return err
	}
	slot, ok := c.lookupVar(e.Ident.Name)
	if !ok {
		return diag.New(diag.NonexistentVar, e.Ident.Range)
	}
	if !c.state().B.IsVariable(slot) {
		c.EmitArg(instructions.Lb, slot, e.Rng)
	}
	c.putOp(e.Operator, e.Rng)
	c.EmitArg(instructions.Sva, slot, e.Rng)
	return nil
}

func (c *Compiler) evalCall(e *ast.Call) error {
	member, ok := e.Function.(*ast.Member)
	if !ok {
		return diag.Newf(diag.InvalidDot, e.Rng, "calls must be of the form module.method(...)")
	}
	moduleIdent, ok := member.Object.(*ast.Identifier)
	if !ok {
		return diag.New(diag.InvalidModuleName, member.Object.Range())
	}
	if !c.modules[moduleIdent.Name] {
		if c.registry != nil && c.registry.Exist(moduleIdent.Name) {
			return diag.New(diag.UnloadedModule, e.Rng)
		}
		return diag.New(diag.NonexistentModule, e.Rng)
	}
	return c.registry.Call(c, moduleIdent.Name, CallInfo{
		Method: member.Property.Name,
		Args:   e.Args,
		Range:  e.Rng,
	})
}

// canPutIntoA reports whether expr belongs to the class put_ab can place
// directly into A without a full recursive evaluation: a literal, an
// identifier, or an assignment (whose own lowering leaves its value in
// A as a side effect).
func canPutIntoA(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.NumericLiteral, *ast.Identifier, *ast.Assignment:
		return true
	default:
		return false
	}
}

// canPutIntoB is the same classification for B, which never accepts an
// assignment directly - an assignment's own lowering runs through A.
func canPutIntoB(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.NumericLiteral, *ast.Identifier:
		return true
	default:
		return false
	}
}

// isLiteral and isIdentifier are the narrow classifications put_ab's
// swap heuristic checks against.
func isLiteral(expr ast.Expression) bool {
	_, ok := expr.(*ast.NumericLiteral)
	return ok
}

func isIdentifier(expr ast.Expression) bool {
	_, ok := expr.(*ast.Identifier)
	return ok
}

// isInA reports whether expr's value is already known to sit in A,
// without emitting anything.
func (c *Compiler) isInA(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.NumericLiteral:
		return c.state().A.IsNumber(e.Value)
	case *ast.Identifier:
		if v, ok := c.lookupInline(e.Name); ok {
			return c.state().A.IsNumber(v)
		}
		if slot, ok := c.lookupVar(e.Name); ok {
			return c.state().A.IsVariable(slot)
		}
		return false
	default:
		return false
	}
}

func (c *Compiler) isInB(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.NumericLiteral:
		return c.state().B.IsNumber(e.Value)
	case *ast.Identifier:
		if v, ok := c.lookupInline(e.Name); ok {
			return c.state().B.IsNumber(v)
		}
		if slot, ok := c.lookupVar(e.Name); ok {
			return c.state().B.IsVariable(slot)
		}
		return false
	default:
		return false
	}
}

// putIntoA places expr's value into register A, eliding the load if A
// is already known to hold it.
func (c *Compiler) putIntoA(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.NumericLiteral:
		if c.state().A.IsNumber(e.Value) {
			return nil
		}
		c.loadNumber(instructions.Lal, instructions.Lah, e.Value, e.Rng)
		return nil
	case *ast.Identifier:
		if v, ok := c.lookupInline(e.Name); ok {
			if c.state().A.IsNumber(v) {
				return nil
			}
			c.loadNumber(instructions.Lal, instructions.Lah, v, e.Rng)
			return nil
		}
		slot, ok := c.lookupVar(e.Name)
		if !ok {
			return diag.New(diag.NonexistentVar, e.Rng)
		}
		if c.state().A.IsVariable(slot) {
			return nil
		}
		c.EmitArg(instructions.La, slot, e.Rng)
		return nil
	case *ast.Assignment:
		return c.evalAssignment(e)
	default:
		return diag.Newf(diag.SomethingElseWentWrong, expr.Range(), "%T cannot be placed into A", expr)
	}
}

// putIntoB is putIntoA's counterpart for B; it never accepts an
// assignment.
func (c *Compiler) putIntoB(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.NumericLiteral:
		if c.state().B.IsNumber(e.Value) {
			return nil
		}
		c.loadNumber(instructions.Lbl, instructions.Lbh, e.Value, e.Rng)
		return nil
	case *ast.Identifier:
		if v, ok := c.lookupInline(e.Name); ok {
			if c.state().B.IsNumber(v) {
				return nil
			}
			c.loadNumber(instructions.Lbl, instructions.Lbh, v, e.Rng)
			return nil
		}
		slot, ok := c.lookupVar(e.Name)
		if !ok {
			return diag.New(diag.NonexistentVar, e.Rng)
		}
		if c.state().B.IsVariable(slot) {
			return nil
		}
		c.EmitArg(instructions.Lb, slot, e.Rng)
		return nil
	default:
		return diag.Newf(diag.SomethingElseWentWrong, expr.Range(), "%T cannot be placed into B", expr)
	}
}

// loadNumber emits the low-byte load always, and the high-byte load
// only when it's non-zero - an all-zero high byte needs no LAH/LBH at
// all, since the low load alone sign-extends to the right value.
func (c *Compiler) loadNumber(low, high instructions.Variant, v int16, rng source.Range) {
	u := uint16(v)
	c.EmitArg(low, byte(u&0xFF), rng)
	if hb := byte(u >> 8); hb != 0 {
		c.EmitArg(high, hb, rng)
	}
}

// switchAB moves A's current value into B by spilling it through a
// temporary slot: store A out, then load B back in from that slot.
func (c *Compiler) switchAB(rng source.Range) error {
	slot, err := c.insertTempVar(rng)
	if err != nil {
		return err
	}
	c.EmitArg(instructions.Sva, slot, rng)
	c.EmitArg(instructions.Lb, slot, rng)
	c.cleanupTempVar(slot)
	return nil
}

// putAB places left into A and right into B (or swaps them, when doing
// so is cheaper and the operator tolerates it), returning whether it
// swapped. It is the single place that decides how a binary operator's
// two operands reach the registers.
func (c *Compiler) putAB(left, right ast.Expression, isCommutative bool, rng source.Range) (bool, error) {
	leftOK := canPutIntoA(left)
	rightOK := canPutIntoB(right)

	switch {
	case leftOK && rightOK:
		if isCommutative && (c.isInA(right) || c.isInB(left) || (isLiteral(left) && isIdentifier(right))) {
			if err := c.putIntoA(right); err != nil {
				return false, err
			}
			if err := c.putIntoB(left); err != nil {
				return false, err
			}
			return true, nil
		}
		if err := c.putIntoA(left); err != nil {
			return false, err
		}
		if err := c.putIntoB(right); err != nil {
			return false, err
		}
		return false, nil

	case leftOK && !rightOK:
		if err := c.evalExpr(right); err != nil {
			return false, err
		}
		if isCommutative && canPutIntoB(left) {
			if err := c.putIntoB(left); err != nil {
				return false, err
			}
			return true, nil
		}
		if assign, ok := right.(*ast.Assignment); ok {
			slot, _ := c.lookupVar(assign.Ident.Name)
			if !c.state().B.IsVariable(slot) {
				c.EmitArg(instructions.Lb, slot, rng)
			}
		} else {
			if err := c.switchAB(rng); err != nil {
				return false, err
			}
		}
		if err := c.putIntoA(left); err != nil {
			return false, err
		}
		return false, nil

	case !leftOK && rightOK:
		if err := c.evalExpr(left); err != nil {
			return false, err
		}
		if err := c.putIntoB(right); err != nil {
			return false, err
		}
		return false, nil

	default:
		if assign, ok := right.(*ast.Assignment); ok {
			if err := c.evalExpr(right); err != nil {
				return false, err
			}
			if err := c.evalExpr(left); err != nil {
				return false, err
			}
			slot, _ := c.lookupVar(assign.Ident.Name)
			if !c.state().B.IsVariable(slot) {
				c.EmitArg(instructions.Lb, slot, rng)
			}
			return false, nil
		}
		if err := c.evalExpr(right); err != nil {
			return false, err
		}
		temp, err := c.insertTempVar(rng)
		if err != nil {
			return false, err
		}
		c.EmitArg(instructions.Sva, temp, rng)
		if err := c.evalExpr(left); err != nil {
			c.cleanupTempVar(temp)
			return false, err
		}
		c.EmitArg(instructions.Lb, temp, rng)
		c.cleanupTempVar(temp)
		return false, nil
	}
}

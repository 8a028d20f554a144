package compiler

import (
	"rmc/ast"
	"rmc/diag"
)

// compileStatement dispatches one top-level-or-nested statement. Plain
// expressions fall through to evalExpr, which discards their value -
// a statement that's just `1 + 2` is legal, if pointless.
func (c *Compiler) compileStatement(stmt ast.Expression) error {
	switch e := stmt.(type) {
	case *ast.InlineDeclaration:
		return c.compileInlineDeclaration(e)
	case *ast.Use:
		return c.compileUse(e)
	case *ast.VarDeclaration:
		_, err := c.insertVar(e.Ident.Name, e.Ident.Range)
		return err
	case *ast.Pass:
		return nil
	case *ast.EndlessLoop:
		return c.compileEndlessLoop(e)
	case *ast.WhileLoop:
		return c.compileWhileLoop(e)
	case *ast.Conditional:
		return c.compileConditional(e)
	default:
		return c.evalExpr(stmt)
	}
}

// compileInlineDeclaration binds a compile-time constant. Its value
// must fold; an inline value that isn't a known-at-compile-time
// arithmetic expression is rejected rather than silently materialized
// at runtime.
func (c *Compiler) compileInlineDeclaration(e *ast.InlineDeclaration) error {
	v, ok := c.tryEvalConst(e.Value)
	if !ok {
		return diag.New(diag.ForbiddenInline, e.Value.Range())
	}
	c.current().inline[e.Ident.Name] = v
	return nil
}

// compileUse loads one or more modules, only legal in the global scope.
// Unlike every other statement, a `use` with several
// comma-separated modules collects each module's own error
// independently rather than stopping at the first.
func (c *Compiler) compileUse(e *ast.Use) error {
	if len(c.scopes) != 1 {
		return diag.New(diag.UseOutsideGlobalScope, e.Rng)
	}

	var errs diag.Errors
	for _, m := range e.Modules {
		if c.modules[m.Name] {
			continue
		}
		if c.registry == nil || !c.registry.Exist(m.Name) {
			errs = append(errs, diag.New(diag.NonexistentModule, m.Range))
			continue
		}
		if err := c.registry.Init(c, m.Name, m.Range); err != nil {
			errs = append(errs, flattenDiag(err)...)
			continue
		}
		c.modules[m.Name] = true
	}
	if len(errs) != 0 {
		return errs
	}
	return nil
}

// Package ast defines the abstract syntax tree the parser builds and the
// compiler consumes: a closed sum type over expression kinds, each
// carrying the source range it was parsed from.
package ast

import "rmc/source"

// Expression is the sealed interface every AST node implements. The set
// of implementations below is exhaustive; the compiler switches on the
// concrete type.
type Expression interface {
	Range() source.Range
	exprNode()
}

// NumericLiteral is a signed 16-bit integer constant.
type NumericLiteral struct {
	Value int16
	Rng   source.Range
}

func (n *NumericLiteral) Range() source.Range { return n.Rng }
func (*NumericLiteral) exprNode()             {}

// Identifier is a bare variable or inline-constant reference.
type Identifier struct {
	Name string
	Rng  source.Range
}

func (i *Identifier) Range() source.Range { return i.Rng }
func (*Identifier) exprNode()             {}

// Debug is the marker expression that lowers to `LAL 17`.
type Debug struct {
	Rng source.Range
}

func (d *Debug) Range() source.Range { return d.Rng }
func (*Debug) exprNode()             {}

// Pass is a no-op statement, used to give a block a non-empty body.
type Pass struct {
	Rng source.Range
}

func (p *Pass) Range() source.Range { return p.Rng }
func (*Pass) exprNode()             {}

// BinaryExpr is an arithmetic or bitwise infix expression.
type BinaryExpr struct {
	Left, Right Expression
	Operator    source.BinaryOperator
	Rng         source.Range
}

func (b *BinaryExpr) Range() source.Range { return b.Rng }
func (*BinaryExpr) exprNode()             {}

// EqExpr is a comparison expression, legal only as a condition.
type EqExpr struct {
	Left, Right Expression
	Operator    source.EqualityOperator
	Rng         source.Range
}

func (e *EqExpr) Range() source.Range { return e.Rng }
func (*EqExpr) exprNode()             {}

// Assignment is `ident = value`. It evaluates to the assigned value, so
// it may appear nested inside another expression.
type Assignment struct {
	Ident source.Ident
	Value Expression
	Rng   source.Range
}

func (a *Assignment) Range() source.Range { return a.Rng }
func (*Assignment) exprNode()             {}

// IAssignment is a compound assignment `ident op= value`; the ident must
// already exist.
type IAssignment struct {
	Ident    source.Ident
	Value    Expression
	Operator source.BinaryOperator
	Rng      source.Range
}

func (a *IAssignment) Range() source.Range { return a.Rng }
func (*IAssignment) exprNode()             {}

// Call is `module.method(args)`; Function must be a *Member.
type Call struct {
	Function Expression
	Args     []Expression
	Rng      source.Range
}

func (c *Call) Range() source.Range { return c.Rng }
func (*Call) exprNode()             {}

// Member is dotted access, used only to form a module-qualified call.
type Member struct {
	Object   Expression
	Property source.Ident
	Rng      source.Range
}

func (m *Member) Range() source.Range { return m.Rng }
func (*Member) exprNode()             {}

// VarDeclaration introduces a new runtime variable.
type VarDeclaration struct {
	Ident source.Ident
	Rng   source.Range
}

func (v *VarDeclaration) Range() source.Range { return v.Rng }
func (*VarDeclaration) exprNode()             {}

// InlineDeclaration binds a compile-time constant, never materialized at
// runtime.
type InlineDeclaration struct {
	Ident source.Ident
	Value Expression
	Rng   source.Range
}

func (i *InlineDeclaration) Range() source.Range { return i.Rng }
func (*InlineDeclaration) exprNode()             {}

// Use loads one or more modules, named in a comma-separated list; only
// legal in the global scope.
type Use struct {
	Modules []source.Ident
	Rng     source.Range
}

func (u *Use) Range() source.Range { return u.Rng }
func (*Use) exprNode()             {}

// ElifBranch is one `elif condition body` clause of a Conditional.
type ElifBranch struct {
	Condition Expression
	Body      []Expression
}

// Conditional is `if cond body (elif cond body)* (else body)? end`.
// Alternate is nil when there is no `else`.
type Conditional struct {
	Condition Expression
	Body      []Expression
	Paths     []ElifBranch
	Alternate []Expression
	Rng       source.Range
}

func (c *Conditional) Range() source.Range { return c.Rng }
func (*Conditional) exprNode()             {}

// EndlessLoop is `forever body end`.
type EndlessLoop struct {
	Body []Expression
	Rng  source.Range
}

func (e *EndlessLoop) Range() source.Range { return e.Rng }
func (*EndlessLoop) exprNode()             {}

// WhileLoop is `while cond body end`.
type WhileLoop struct {
	Condition Expression
	Body      []Expression
	Rng       source.Range
}

func (w *WhileLoop) Range() source.Range { return w.Rng }
func (*WhileLoop) exprNode()             {}

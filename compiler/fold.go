package compiler

import (
	"rmc/ast"
	"rmc/source"
)

// tryEvalConst attempts to fold expr down to a single compile-time
// int16, recursing through arithmetic whose operands all fold and
// through identifiers that name an inline constant. It is how `inline`
// declarations are checked (their value must fold) and how references
// to an inline constant are turned into literal loads.
func (c *Compiler) tryEvalConst(expr ast.Expression) (int16, bool) {
	switch e := expr.(type) {
	case *ast.NumericLiteral:
		return e.Value, true
	case *ast.Identifier:
		v, ok := c.lookupInline(e.Name)
		return v, ok
	case *ast.BinaryExpr:
		left, ok := c.tryEvalConst(e.Left)
		if !ok {
			return 0, false
		}
		right, ok := c.tryEvalConst(e.Right)
		if !ok {
			return 0, false
		}
		return applyBinary(e.Operator, left, right), true
	default:
		return 0, false
	}
}

// applyBinary computes op over two int16 operands. Go's fixed-width
// integer arithmetic already wraps modulo 2^16 in two's complement, the
// same wraparound this machine's ALU performs.
func applyBinary(op source.BinaryOperator, left, right int16) int16 {
	switch op {
	case source.Plus:
		return left + right
	case source.Minus:
		return left - right
	case source.Mult:
		return left * right
	case source.And:
		return left & right
	case source.Or:
		return left | right
	case source.Xor:
		return left ^ right
	default:
		return 0
	}
}

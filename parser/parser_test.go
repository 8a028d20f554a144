package parser

import (
	"testing"

	"rmc/ast"
)

func TestParseNumericLiteral(t *testing.T) {
	program, errs := Parse("5")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(program) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program))
	}
	lit, ok := program[0].(*ast.NumericLiteral)
	if !ok {
		t.Fatalf("expected *ast.NumericLiteral, got %T", program[0])
	}
	if lit.Value != 5 {
		t.Errorf("expected 5, got %d", lit.Value)
	}
}

func TestParseVarAndAssignment(t *testing.T) {
	program, errs := Parse("var a\na = 1 + 2")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(program) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program))
	}
	if _, ok := program[0].(*ast.VarDeclaration); !ok {
		t.Fatalf("expected *ast.VarDeclaration, got %T", program[0])
	}
	assign, ok := program[1].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected *ast.Assignment, got %T", program[1])
	}
	if assign.Ident.Name != "a" {
		t.Errorf("expected ident 'a', got %q", assign.Ident.Name)
	}
	bin, ok := assign.Value.(*ast.BinaryExpr)
	if !ok || bin.Operator != 0 {
		t.Fatalf("expected a Plus BinaryExpr, got %#v", assign.Value)
	}
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	_, errs := Parse("1 = 2")
	if len(errs) == 0 {
		t.Fatalf("expected an error assigning to a literal")
	}
}

func TestParseIAssignment(t *testing.T) {
	program, errs := Parse("var a\na += 1")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	ia, ok := program[1].(*ast.IAssignment)
	if !ok {
		t.Fatalf("expected *ast.IAssignment, got %T", program[1])
	}
	if ia.Ident.Name != "a" {
		t.Errorf("expected ident 'a', got %q", ia.Ident.Name)
	}
}

func TestParseConditionalRequiresEnd(t *testing.T) {
	_, errs := Parse("if 1 == 1 pass")
	if len(errs) == 0 {
		t.Fatalf("expected a MissingEnd error")
	}
}

func TestParseEmptyBlockRejected(t *testing.T) {
	_, errs := Parse("if 1 == 1 end")
	if len(errs) == 0 {
		t.Fatalf("expected an EmptyBlock error")
	}
}

func TestParseConditionalWithElifElse(t *testing.T) {
	program, errs := Parse(`
var a
if a == 1
  pass
elif a == 2
  pass
else
  pass
end
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	cond, ok := program[1].(*ast.Conditional)
	if !ok {
		t.Fatalf("expected *ast.Conditional, got %T", program[1])
	}
	if len(cond.Paths) != 1 {
		t.Fatalf("expected 1 elif branch, got %d", len(cond.Paths))
	}
	if cond.Alternate == nil {
		t.Fatalf("expected an else branch")
	}
}

func TestParseCallRequiresNoSpaceForParen(t *testing.T) {
	program, errs := Parse("io.write(1)")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	call, ok := program[0].(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", program[0])
	}
	if _, ok := call.Function.(*ast.Member); !ok {
		t.Fatalf("expected call function to be a *ast.Member, got %T", call.Function)
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(call.Args))
	}
}

func TestParseFunctionChainingRejected(t *testing.T) {
	_, errs := Parse("io.write(1)(2)")
	if len(errs) == 0 {
		t.Fatalf("expected a FunctionChaining error")
	}
}

func TestParseUseMultipleModules(t *testing.T) {
	program, errs := Parse("use io, debug")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	use, ok := program[0].(*ast.Use)
	if !ok {
		t.Fatalf("expected *ast.Use, got %T", program[0])
	}
	if len(use.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(use.Modules))
	}
}

func TestParseForeverAndWhile(t *testing.T) {
	program, errs := Parse(`
forever
  pass
end
var a
while a == 0
  pass
end
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, ok := program[0].(*ast.EndlessLoop); !ok {
		t.Fatalf("expected *ast.EndlessLoop, got %T", program[0])
	}
	if _, ok := program[2].(*ast.WhileLoop); !ok {
		t.Fatalf("expected *ast.WhileLoop, got %T", program[2])
	}
}

func TestParseCollectsMultipleErrors(t *testing.T) {
	// Two independent bogus statements; the parser should report both,
	// not just the first.
	_, errs := Parse("1 = 2\n3 = 4")
	if len(errs) < 2 {
		t.Fatalf("expected at least 2 errors, got %d: %v", len(errs), errs)
	}
}

func TestParseGroupingParens(t *testing.T) {
	program, errs := Parse("(1 + 2) * 3")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	bin, ok := program[0].(*ast.BinaryExpr)
	if !ok || bin.Operator != 2 { // Mult
		t.Fatalf("expected top-level Mult, got %#v", program[0])
	}
	if _, ok := bin.Left.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected grouped addition on the left, got %T", bin.Left)
	}
}

// Package diag holds the structured diagnostics produced by the parser
// and the compiler. Every error in this project is a {kind, location}
// value per the language's error taxonomy; this package is the one place
// that taxonomy is defined.
package diag

import (
	"fmt"
	"strings"

	"rmc/source"
)

// Kind is the closed set of diagnostic kinds this compiler can raise.
type Kind string

// Parse-stage kinds.
const (
	InvalidAssignment  Kind = "InvalidAssignment"
	InvalidDeclaration Kind = "InvalidDeclaration"
	InvalidModuleName  Kind = "InvalidModuleName"
	InvalidDot         Kind = "InvalidDot"
	MissingEnd         Kind = "MissingEnd"
	MissingEquals      Kind = "MissingEquals"
	MissingOpenParen   Kind = "MissingOpenParen"
	MissingClosingParen Kind = "MissingClosingParen"
	ExpectedParen      Kind = "ExpectedParen"
	EmptyBlock         Kind = "EmptyBlock"
	FunctionChaining   Kind = "FunctionChaining"
	UnexpectedOther    Kind = "UnexpectedOther"
	Eof                Kind = "Eof"
)

// Semantic-stage kinds.
const (
	NonexistentVar       Kind = "NonexistentVar"
	NonexistentInlineVar Kind = "NonexistentInlineVar"
	NonexistentModule    Kind = "NonexistentModule"
	UnloadedModule       Kind = "UnloadedModule"
	UnknownMethod        Kind = "UnknownMethod"
	UseOutsideGlobalScope Kind = "UseOutsideGlobalScope"
	TooManyVars          Kind = "TooManyVars"
	ForbiddenInline      Kind = "ForbiddenInline"
	EqInNormalExpr       Kind = "EqInNormalExpr"
	NormalInEqExpr       Kind = "NormalInEqExpr"
	NoConstants          Kind = "NoConstants"
)

// Module-specific and internal kinds. Modules raise ModuleError with their
// own Detail text; SomethingElseWentWrong is reserved for reachable but
// unexpected back-end states (see spec §7).
const (
	ModuleError            Kind = "ModuleError"
	SomethingElseWentWrong Kind = "SomethingElseWentWrong"
)

// Error is a single diagnostic: what went wrong, where, and (for module
// errors and internal errors) a human-readable detail.
type Error struct {
	Kind   Kind
	Range  source.Range
	Detail string
}

// New builds a bare diagnostic with no extra detail text.
func New(kind Kind, rng source.Range) Error {
	return Error{Kind: kind, Range: rng}
}

// Newf builds a diagnostic with a formatted detail message.
func Newf(kind Kind, rng source.Range, format string, args ...any) Error {
	return Error{Kind: kind, Range: rng, Detail: fmt.Sprintf(format, args...)}
}

func (e Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s at %s", e.Kind, e.Range)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Range, e.Detail)
}

// Errors is a non-empty collection of diagnostics. The parser and the
// top-level statement loop both accumulate every error they find across a
// whole compilation rather than stopping at the first one; Errors is the
// flattened form returned to the caller.
type Errors []Error

func (es Errors) Error() string {
	lines := make([]string, 0, len(es))
	for _, e := range es {
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}

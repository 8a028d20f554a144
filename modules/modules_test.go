package modules

import (
	"strings"
	"testing"

	"rmc/compiler"
)

func TestIOWrite(t *testing.T) {
	out, err := compiler.Compile("use io\nio.write(5)", NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "LAL 5\nSVA 32\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestIOWriteWrongArity(t *testing.T) {
	_, err := compiler.Compile("use io\nio.write(1, 2)", NewRegistry())
	if err == nil {
		t.Fatalf("expected an arity error")
	}
	if !strings.Contains(err.Error(), "ModuleError") {
		t.Errorf("expected a ModuleError, got %v", err)
	}
}

func TestIOUnknownMethod(t *testing.T) {
	_, err := compiler.Compile("use io\nio.nope(1)", NewRegistry())
	if err == nil {
		t.Fatalf("expected UnknownMethod")
	}
	if !strings.Contains(err.Error(), "UnknownMethod") {
		t.Errorf("expected UnknownMethod, got %v", err)
	}
}

func TestUseTwoModulesAndDebugState(t *testing.T) {
	out, err := compiler.Compile("use io, debug\ndebug.trace(1)\ndebug.trace(2)\nio.write(3)", NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "LAL 1\nSVA 40\nLAL 2\nSVA 41\nLAL 3\nSVA 32\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestCallBeforeUseIsUnloadedModule(t *testing.T) {
	_, err := compiler.Compile("io.write(1)", NewRegistry())
	if err == nil {
		t.Fatalf("expected UnloadedModule")
	}
	if !strings.Contains(err.Error(), "UnloadedModule") {
		t.Errorf("expected UnloadedModule, got %v", err)
	}
}

func TestUnknownModuleName(t *testing.T) {
	_, err := compiler.Compile("use nope", NewRegistry())
	if err == nil {
		t.Fatalf("expected NonexistentModule")
	}
}

// Package modules is the built-in implementation of the compiler's
// plugin registry: the set of `use`-able modules that expose intrinsic
// calls (`module.method(args)`) lowering straight to machine code.
package modules

import (
	"rmc/compiler"
	"rmc/diag"
	"rmc/source"
)

// Module is one pluggable unit the registry can load. Init runs once,
// when a program `use`s the module by name; Call lowers one call site
// against it.
type Module interface {
	Name() string
	Init(c *compiler.Compiler, rng source.Range) error
	Call(c *compiler.Compiler, method string, call compiler.CallInfo) error
}

// Registry is the concrete, built-in compiler.Registry: a fixed table
// of known modules, looked up by name.
type Registry struct {
	modules map[string]Module
}

// NewRegistry builds a registry carrying every module this project
// ships: `io` (the output-port intrinsic) and `debug` (a second module,
// mostly to exercise multi-module `use` and per-module opaque state).
func NewRegistry() *Registry {
	r := &Registry{modules: map[string]Module{}}
	r.register(newIO())
	r.register(newDebug())
	return r
}

func (r *Registry) register(m Module) {
	r.modules[m.Name()] = m
}

// Exist reports whether name is a module this registry knows about at
// all, regardless of whether it has been `use`d yet.
func (r *Registry) Exist(name string) bool {
	_, ok := r.modules[name]
	return ok
}

// Init loads name, running its one-time setup.
func (r *Registry) Init(c *compiler.Compiler, name string, rng source.Range) error {
	m, ok := r.modules[name]
	if !ok {
		return diag.New(diag.NonexistentModule, rng)
	}
	return m.Init(c, rng)
}

// Call lowers one call site against an already-loaded module.
func (r *Registry) Call(c *compiler.Compiler, name string, call compiler.CallInfo) error {
	m, ok := r.modules[name]
	if !ok {
		return diag.New(diag.NonexistentModule, call.Range)
	}
	return m.Call(c, call.Method, call)
}

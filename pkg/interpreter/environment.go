package interpreter

import (
	"github.com/brainfeed/brainfeed/pkg/parser"
)

// Value is the single runtime value domain: a signed 64-bit integer.
// Character literals live here too, as their ASCII ordinals.
type Value = int64

// Environment is the flat mutable mapping from identifier to current value
// for one program execution. There are no nested scopes; while/if bodies
// mutate the same environment. First-declaration order is recorded so hosts
// can present bindings deterministically.
type Environment struct {
	values map[parser.Identifier]Value
	order  []parser.Identifier
}

func NewEnvironment() *Environment {
	return &Environment{
		values: make(map[parser.Identifier]Value),
	}
}

// Declare binds name to value, creating or overwriting the binding.
// Redeclaration overwrites; with a single flat scope there is nothing to
// shadow.
func (e *Environment) Declare(name parser.Identifier, value Value) {
	if _, ok := e.values[name]; !ok {
		e.order = append(e.order, name)
	}
	e.values[name] = value
}

// Assign overwrites an existing binding. It reports false when name is not
// bound; assignment never creates bindings.
func (e *Environment) Assign(name parser.Identifier, value Value) bool {
	if _, ok := e.values[name]; !ok {
		return false
	}
	e.values[name] = value
	return true
}

// Get returns the value bound to name.
func (e *Environment) Get(name parser.Identifier) (Value, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Len returns the number of bindings.
func (e *Environment) Len() int {
	return len(e.values)
}

// Binding is a single name/value pair.
type Binding struct {
	Name  parser.Identifier
	Value Value
}

// Bindings returns all bindings in first-declaration order.
func (e *Environment) Bindings() []Binding {
	bindings := make([]Binding, 0, len(e.order))
	for _, name := range e.order {
		bindings = append(bindings, Binding{Name: name, Value: e.values[name]})
	}
	return bindings
}

// Package starlark evaluates user supplied naming rules. A rule is a
// Starlark expression over the variable `name`, for example
//
//	name + "Type"
//	"valid" + upper_first(name)
//
// and decides the identifier a generated validator gets.
package starlark

import (
	"fmt"
	"sync"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// NameRule is a compiled naming rule. It is safe for concurrent use.
type NameRule struct {
	expr string
	fn   starlark.Callable

	mu    sync.Mutex
	cache map[string]string
}

// CompileNameRule compiles expr and checks that it yields a string.
func CompileNameRule(expr string) (*NameRule, error) {
	thread := newThread("validator_name")
	src := "lambda name: (" + expr + ")"

	predeclared := Predeclared()
	predeclared.Freeze()
	v, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, "validator_name", src, predeclared)
	if err != nil {
		return nil, &EvalError{Expr: expr, Message: err.Error()}
	}
	fn, ok := v.(starlark.Callable)
	if !ok {
		return nil, &EvalError{Expr: expr, Message: fmt.Sprintf("got %s, want a function", v.Type())}
	}
	v.Freeze()

	r := &NameRule{expr: expr, fn: fn, cache: make(map[string]string)}
	if _, err := r.Name("Example"); err != nil {
		return nil, err
	}
	return r, nil
}

// Expr returns the source expression of the rule.
func (r *NameRule) Expr() string {
	return r.expr
}

// Name applies the rule to a type name.
func (r *NameRule) Name(typeName string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name, ok := r.cache[typeName]; ok {
		return name, nil
	}

	thread := newThread(typeName)
	v, err := starlark.Call(thread, r.fn, starlark.Tuple{starlark.String(typeName)}, nil)
	if err != nil {
		return "", &EvalError{Expr: r.expr, Name: typeName, Message: err.Error()}
	}
	s, ok := starlark.AsString(v)
	if !ok {
		return "", &EvalError{Expr: r.expr, Name: typeName, Message: fmt.Sprintf("got %s, want string", v.Type())}
	}
	if !IsIdentifier(s) {
		return "", &EvalError{Expr: r.expr, Name: typeName, Message: fmt.Sprintf("%q is not a valid identifier", s)}
	}
	r.cache[typeName] = s
	return s, nil
}

// newThread creates a Starlark thread for one evaluation.
func newThread(name string) *starlark.Thread {
	return &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, _ string) {
			// rules have no output
		},
	}
}

// IsIdentifier reports whether s is a valid JavaScript identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		case r > 127 && i > 0:
		default:
			return false
		}
	}
	return true
}

// EvalError represents an error while compiling or applying a rule.
type EvalError struct {
	Expr string
	// Name is the type name the rule was applied to, empty at compile time.
	Name    string
	Message string
}

func (e *EvalError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("validator name rule %q for %s: %s", e.Expr, e.Name, e.Message)
	}
	return fmt.Sprintf("validator name rule %q: %s", e.Expr, e.Message)
}

package convert

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/token"
)

// Error messages reported for unsupported or unresolvable source.
const (
	ErrUnsupportedType     = "Unsupported type"
	ErrUnsupportedProperty = "Unsupported object property"
	ErrUnsupportedKey      = "Unsupported key type"
	ErrMissingAnnotation   = "Property is missing type annotation"
	ErrMissingTypeParams   = "missing required type parameter(s)"
	ErrMixedIndexers       = "Properties mixed with indexers aren't supported"
	ErrMultipleIndexers    = "Multiple indexers aren't supported"
	ErrParameterized       = "parameterized types are not supported"
	ErrNotBound            = "identifier %s is not bound, and not a known builtin class"
	ErrExportNotFound      = "export %s not found in file: %s"
	ErrExportAll           = "export * is not supported"
	ErrBareSpecifier       = "import source must be relative: %s"
	ErrQualifiedName       = "cannot follow qualified name"
	ErrNestedSite          = "reification sites are only supported in top-level statements"
	ErrNamespaceShadowed   = "validator namespace %s is already declared in this file"
)

// overrideHint is attached to errors the override directive can work around.
const overrideHint = "add a `// @gen-typed-validators type: Name` comment above the declaration to use another validator"

// namespaceHint is attached to namespace collisions.
const namespaceHint = "rename the declaration or set another namespace in valgen.yaml"

// nestedSiteHint is attached to reification sites found inside functions,
// classes or blocks.
const nestedSiteHint = "declare the validator in a top-level const and reference it instead"

// NodeError reports a problem at a specific node of a source file.
type NodeError struct {
	Message string
	File    string
	Pos     token.Position
}

func (e *NodeError) Error() string {
	if !e.Pos.IsValid() {
		return fmt.Sprintf("%s (%s)", e.Message, e.File)
	}
	return fmt.Sprintf("%s (%s %d:%d)", e.Message, e.File, e.Pos.Line, e.Pos.Column)
}

// nodeError builds a NodeError located at n.
func (f *File) nodeError(n ast.Node, format string, args ...any) error {
	var pos token.Position
	if n != nil {
		pos = n.GetSpan().Start
	}
	return f.errorAt(pos, format, args...)
}

// errorAt builds a NodeError located at pos.
func (f *File) errorAt(pos token.Position, format string, args ...any) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return errors.WithStack(&NodeError{Message: msg, File: f.Path, Pos: pos})
}

// unsupported reports a construct the converter cannot express and hints at
// the override directive.
func (f *File) unsupported(n ast.Node, msg string) error {
	return errors.WithHint(f.nodeError(n, "%s", msg), overrideHint)
}

func (f *File) unsupportedAt(pos token.Position, msg string) error {
	return errors.WithHint(f.errorAt(pos, "%s", msg), overrideHint)
}

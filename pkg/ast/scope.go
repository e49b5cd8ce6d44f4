package ast

// BindingKind identifies what kind of declaration introduces a name.
type BindingKind int

// Binding kinds.
const (
	BindImport BindingKind = iota
	BindTypeAlias
	BindInterface
	BindClass
	BindVar
)

// Binding is a module-scope name together with the nodes that declare it.
type Binding struct {
	Kind BindingKind
	Name string
	// Node is the declaring node: an ImportSpec, *TypeAliasDecl,
	// *InterfaceDecl, *ClassDecl or *VarDeclarator.
	Node Node
	// Decl is the import declaration for BindImport and the VarDecl for BindVar.
	Decl Statement
	// Stmt is the top-level statement containing the declaration.
	Stmt Statement
}

// Scope answers name lookups against the top-level declarations of a file.
// It reads the file body on every lookup, so it always reflects mutations.
type Scope struct {
	file *File
}

// NewScope creates the module scope of f.
func NewScope(f *File) *Scope {
	return &Scope{file: f}
}

// LookupType finds a binding usable in type position: an import, type
// alias, interface or class.
func (s *Scope) LookupType(name string) *Binding {
	var found *Binding
	s.each(func(b *Binding) bool {
		if b.Name == name && b.Kind != BindVar {
			found = b
			return false
		}
		return true
	})
	return found
}

// LookupValue finds a binding usable in value position: an import, class or
// variable declarator.
func (s *Scope) LookupValue(name string) *Binding {
	var found *Binding
	s.each(func(b *Binding) bool {
		if b.Name == name && b.Kind != BindTypeAlias && b.Kind != BindInterface {
			found = b
			return false
		}
		return true
	})
	return found
}

// Bindings returns every module-scope binding in source order.
func (s *Scope) Bindings() []*Binding {
	var out []*Binding
	s.each(func(b *Binding) bool {
		out = append(out, b)
		return true
	})
	return out
}

func (s *Scope) each(fn func(*Binding) bool) {
	for _, stmt := range s.file.Body {
		if !declBindings(stmt, stmt, fn) {
			return
		}
	}
}

func declBindings(stmt, top Statement, fn func(*Binding) bool) bool {
	switch d := stmt.(type) {
	case *ImportDecl:
		for _, spec := range d.Specifiers {
			var local *Ident
			switch sp := spec.(type) {
			case *ImportDefaultSpec:
				local = sp.Local
			case *ImportNamespaceSpec:
				local = sp.Local
			case *ImportSpecifier:
				local = sp.Local
			}
			if local != nil && !fn(&Binding{Kind: BindImport, Name: local.Name, Node: spec, Decl: d, Stmt: top}) {
				return false
			}
		}
	case *TypeAliasDecl:
		return fn(&Binding{Kind: BindTypeAlias, Name: d.Name.Name, Node: d, Stmt: top})
	case *InterfaceDecl:
		return fn(&Binding{Kind: BindInterface, Name: d.Name.Name, Node: d, Stmt: top})
	case *ClassDecl:
		if d.Name != nil {
			return fn(&Binding{Kind: BindClass, Name: d.Name.Name, Node: d, Stmt: top})
		}
	case *VarDecl:
		for _, decl := range d.Declarators {
			if !fn(&Binding{Kind: BindVar, Name: decl.Name.Name, Node: decl, Decl: d, Stmt: top}) {
				return false
			}
		}
	case *ExportNamedDecl:
		if d.Decl != nil {
			return declBindings(d.Decl, top, fn)
		}
	case *ExportDefaultDecl:
		if d.Decl != nil {
			return declBindings(d.Decl, top, fn)
		}
	}
	return true
}

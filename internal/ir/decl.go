// Package ir holds the in-memory representation of C/C++ declarations
// reconstructed from ABI instrumentation documents: translation units,
// namespaces, types, variables, functions, classes and templates.
//
// The node graph is cyclic by nature (types reference types, methods
// reference their class). Nodes are shared through plain pointers; every
// child-to-parent edge (declaration to scope, method type to class,
// definition to earlier declaration) is a back-reference that no code
// treats as owning.
package ir

import (
	"fmt"

	"abix/internal/source"
)

// Visibility is the ELF-style symbol visibility of a declaration.
type Visibility uint8

const (
	// VisibilityNone means the attribute was absent from the input.
	VisibilityNone Visibility = iota
	VisibilityDefault
	VisibilityHidden
	VisibilityInternal
	VisibilityProtected
)

func (v Visibility) String() string {
	switch v {
	case VisibilityNone:
		return "none"
	case VisibilityDefault:
		return "default"
	case VisibilityHidden:
		return "hidden"
	case VisibilityInternal:
		return "internal"
	case VisibilityProtected:
		return "protected"
	default:
		return fmt.Sprintf("Visibility(%d)", v)
	}
}

// Binding is the linkage binding of a declaration.
type Binding uint8

const (
	// BindingNone means the attribute was absent from the input.
	BindingNone Binding = iota
	BindingGlobal
	BindingLocal
	BindingWeak
)

func (b Binding) String() string {
	switch b {
	case BindingNone:
		return "none"
	case BindingGlobal:
		return "global"
	case BindingLocal:
		return "local"
	case BindingWeak:
		return "weak"
	default:
		return fmt.Sprintf("Binding(%d)", b)
	}
}

// Access is a C++ member access specifier.
type Access uint8

const (
	AccessPrivate Access = iota
	AccessProtected
	AccessPublic
)

func (a Access) String() string {
	switch a {
	case AccessPrivate:
		return "private"
	case AccessProtected:
		return "protected"
	case AccessPublic:
		return "public"
	default:
		return fmt.Sprintf("Access(%d)", a)
	}
}

// Decl is implemented by every declaration node.
type Decl interface {
	Name() string
	MangledName() string
	Location() source.LocID
	Visibility() Visibility
	Binding() Binding
	// Scope returns the enclosing lexical scope, or nil for detached
	// declarations and the global scope itself.
	Scope() Scope

	setScope(Scope)
}

// DeclBase carries the attributes every declaration shares. Embed it in
// concrete declaration nodes.
type DeclBase struct {
	name       string
	mangled    string
	loc        source.LocID
	visibility Visibility
	binding    Binding
	scope      Scope
}

// NewDeclBase assembles the shared declaration state.
func NewDeclBase(name, mangled string, loc source.LocID, vis Visibility, bind Binding) DeclBase {
	return DeclBase{
		name:       name,
		mangled:    mangled,
		loc:        loc,
		visibility: vis,
		binding:    bind,
	}
}

func (d *DeclBase) Name() string { return d.name }
func (d *DeclBase) MangledName() string { return d.mangled }
func (d *DeclBase) Location() source.LocID { return d.loc }
func (d *DeclBase) Visibility() Visibility { return d.visibility }
func (d *DeclBase) Binding() Binding { return d.binding }
func (d *DeclBase) Scope() Scope { return d.scope }

func (d *DeclBase) setScope(s Scope) { d.scope = s }

// AddDeclToScope attaches d as a member of s and records the scope
// back-reference. A nil scope leaves d detached.
func AddDeclToScope(d Decl, s Scope) {
	if d == nil || s == nil {
		return
	}
	s.AddMember(d)
	d.setScope(s)
}

// AtClassScope reports whether the declaration's enclosing scope is a class.
func AtClassScope(d Decl) bool {
	if d == nil {
		return false
	}
	_, ok := d.Scope().(*Class)
	return ok
}

// GlobalScopeOf walks the scope chain up to the global scope, or nil when
// the declaration is detached.
func GlobalScopeOf(d Decl) *GlobalScope {
	for d != nil {
		if g, ok := d.(*GlobalScope); ok {
			return g
		}
		s := d.Scope()
		if s == nil {
			return nil
		}
		d = s
	}
	return nil
}

// UnitOf returns the translation unit a declaration belongs to, or nil.
func UnitOf(d Decl) *TranslationUnit {
	if g := GlobalScopeOf(d); g != nil {
		return g.Unit()
	}
	return nil
}

package ir

import "abix/internal/source"

// Scope is a declaration that owns an ordered list of member declarations.
type Scope interface {
	Decl
	Members() []Decl
	AddMember(Decl)
}

// ScopeBase implements the member list shared by scope declarations.
type ScopeBase struct {
	DeclBase
	members []Decl
}

func (s *ScopeBase) Members() []Decl { return s.members }
func (s *ScopeBase) AddMember(d Decl) { s.members = append(s.members, d) }

// GlobalScope is the root scope of one translation unit.
type GlobalScope struct {
	ScopeBase
	unit *TranslationUnit
}

// Unit returns the translation unit owning this global scope.
func (g *GlobalScope) Unit() *TranslationUnit { return g.unit }

// IsGlobalScope reports whether s is a translation unit's root scope.
func IsGlobalScope(s Scope) bool {
	_, ok := s.(*GlobalScope)
	return ok
}

// Namespace is a C++ namespace declaration.
type Namespace struct {
	ScopeBase
}

// NewNamespace creates a namespace declaration.
func NewNamespace(name string, loc source.LocID) *Namespace {
	ns := &Namespace{}
	ns.DeclBase = NewDeclBase(name, "", loc, VisibilityNone, BindingNone)
	return ns
}

// Walk visits every declaration under s in document order, depth first.
// Returning false from fn prunes the subtree below the current node.
func Walk(s Scope, fn func(Decl) bool) {
	for _, m := range s.Members() {
		if !fn(m) {
			continue
		}
		if inner, ok := m.(Scope); ok {
			Walk(inner, fn)
		}
	}
}

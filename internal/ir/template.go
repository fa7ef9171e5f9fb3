package ir

import "abix/internal/source"

// TemplateParameter is implemented by every template parameter kind.
// The index is the parameter's position in the enclosing parameter list.
type TemplateParameter interface {
	Index() int
}

type templateParameterBase struct {
	index int
}

func (p *templateParameterBase) Index() int { return p.index }

// TypeTemplateParameter is a template type parameter ("typename T").
// It doubles as a type so later parameters can refer to it by id.
type TypeTemplateParameter struct {
	DeclBase
	TypeBase
	templateParameterBase
}

// NewTypeTemplateParameter creates a type parameter at the given index.
func NewTypeTemplateParameter(index int, name string, loc source.LocID) *TypeTemplateParameter {
	p := &TypeTemplateParameter{}
	p.index = index
	p.DeclBase = NewDeclBase(name, "", loc, VisibilityNone, BindingNone)
	return p
}

// NonTypeTemplateParameter is a template value parameter ("int N").
type NonTypeTemplateParameter struct {
	DeclBase
	templateParameterBase
	typ Type
}

// NewNonTypeTemplateParameter creates a non-type parameter of the given type.
func NewNonTypeTemplateParameter(index int, name string, typ Type, loc source.LocID) *NonTypeTemplateParameter {
	p := &NonTypeTemplateParameter{typ: typ}
	p.index = index
	p.DeclBase = NewDeclBase(name, "", loc, VisibilityNone, BindingNone)
	return p
}

// Type returns the parameter's value type.
func (p *NonTypeTemplateParameter) Type() Type { return p.typ }

// TemplateTemplateParameter is a template parameter that is itself a
// template, carrying a nested parameter list. It acts as a scope for its
// nested parameters and as a type keyed in the symbol table.
type TemplateTemplateParameter struct {
	ScopeBase
	TypeBase
	templateParameterBase
	params []TemplateParameter
}

// NewTemplateTemplateParameter creates a template-template parameter.
func NewTemplateTemplateParameter(index int, name string, loc source.LocID) *TemplateTemplateParameter {
	p := &TemplateTemplateParameter{}
	p.index = index
	p.DeclBase = NewDeclBase(name, "", loc, VisibilityNone, BindingNone)
	return p
}

// AddTemplateParameter appends a nested parameter.
func (p *TemplateTemplateParameter) AddTemplateParameter(tp TemplateParameter) {
	p.params = append(p.params, tp)
}

// TemplateParameters returns the nested parameter list.
func (p *TemplateTemplateParameter) TemplateParameters() []TemplateParameter { return p.params }

// TypeComposition wraps a pointer, reference or qualified type composed
// from an earlier type parameter.
type TypeComposition struct {
	DeclBase
	templateParameterBase
	composed Type
}

// NewTypeComposition creates a type composition at the given index.
func NewTypeComposition(index int, composed Type) *TypeComposition {
	p := &TypeComposition{composed: composed}
	p.index = index
	p.DeclBase = NewDeclBase("", "", source.NoLocID, VisibilityNone, BindingNone)
	return p
}

// ComposedType returns the wrapped type, which may be nil until set.
func (p *TypeComposition) ComposedType() Type { return p.composed }

// SetComposedType records the wrapped type.
func (p *TypeComposition) SetComposedType(t Type) { p.composed = t }

// FunctionTemplate is a function template declaration. It scopes its
// parameters and its pattern.
type FunctionTemplate struct {
	ScopeBase
	params  []TemplateParameter
	pattern *FunctionDecl
}

// NewFunctionTemplate creates an empty function template.
func NewFunctionTemplate(loc source.LocID, vis Visibility, bind Binding) *FunctionTemplate {
	t := &FunctionTemplate{}
	t.DeclBase = NewDeclBase("", "", loc, vis, bind)
	return t
}

// AddTemplateParameter appends a template parameter.
func (t *FunctionTemplate) AddTemplateParameter(p TemplateParameter) {
	t.params = append(t.params, p)
}

// TemplateParameters returns the ordered parameter list.
func (t *FunctionTemplate) TemplateParameters() []TemplateParameter { return t.params }

// Pattern returns the function declaration pattern.
func (t *FunctionTemplate) Pattern() *FunctionDecl { return t.pattern }

// SetPattern records the function declaration pattern.
func (t *FunctionTemplate) SetPattern(f *FunctionDecl) { t.pattern = f }

// ClassTemplate is a class template declaration. It scopes its parameters
// and its pattern.
type ClassTemplate struct {
	ScopeBase
	params  []TemplateParameter
	pattern *Class
}

// NewClassTemplate creates an empty class template.
func NewClassTemplate(loc source.LocID, vis Visibility) *ClassTemplate {
	t := &ClassTemplate{}
	t.DeclBase = NewDeclBase("", "", loc, vis, BindingNone)
	return t
}

// AddTemplateParameter appends a template parameter.
func (t *ClassTemplate) AddTemplateParameter(p TemplateParameter) {
	t.params = append(t.params, p)
}

// TemplateParameters returns the ordered parameter list.
func (t *ClassTemplate) TemplateParameters() []TemplateParameter { return t.params }

// Pattern returns the class declaration pattern.
func (t *ClassTemplate) Pattern() *Class { return t.pattern }

// SetPattern records the class declaration pattern.
func (t *ClassTemplate) SetPattern(c *Class) { t.pattern = c }

package ir

import "abix/internal/source"

// Parameter is one formal parameter of a function type.
type Parameter struct {
	typ        Type
	name       string
	loc        source.LocID
	variadic   bool
	artificial bool
}

// NewParameter creates a function parameter. A variadic parameter carries
// no type.
func NewParameter(typ Type, name string, loc source.LocID, variadic, artificial bool) *Parameter {
	return &Parameter{typ: typ, name: name, loc: loc, variadic: variadic, artificial: artificial}
}

func (p *Parameter) Type() Type { return p.typ }
func (p *Parameter) Name() string { return p.name }
func (p *Parameter) Location() source.LocID { return p.loc }
func (p *Parameter) IsVariadic() bool { return p.variadic }
func (p *Parameter) IsArtificial() bool { return p.artificial }

// Callable is implemented by FunctionType and MethodType.
type Callable interface {
	Type
	Parameters() []*Parameter
	ReturnType() Type
}

// FunctionType is the type of a free function.
type FunctionType struct {
	TypeBase
	params []*Parameter
	ret    Type
}

// NewFunctionType creates an empty function type.
func NewFunctionType(sizeInBits, alignInBits uint64) *FunctionType {
	t := &FunctionType{}
	t.TypeBase = NewTypeBase(sizeInBits, alignInBits)
	return t
}

func (t *FunctionType) Parameters() []*Parameter { return t.params }
func (t *FunctionType) ReturnType() Type { return t.ret }

// AppendParameter adds a parameter at the end of the list.
func (t *FunctionType) AppendParameter(p *Parameter) { t.params = append(t.params, p) }

// SetReturnType records the return type.
func (t *FunctionType) SetReturnType(ret Type) { t.ret = ret }

// MethodType is a function type bound to a containing class.
// The class edge is a back-reference.
type MethodType struct {
	FunctionType
	class *Class
}

// NewMethodType creates a method type for the given class.
func NewMethodType(class *Class, sizeInBits, alignInBits uint64) *MethodType {
	t := &MethodType{class: class}
	t.TypeBase = NewTypeBase(sizeInBits, alignInBits)
	return t
}

// Class returns the class this method type belongs to.
func (t *MethodType) Class() *Class { return t.class }

// VarDecl is a variable declaration.
type VarDecl struct {
	DeclBase
	typ Type
}

// NewVarDecl creates a variable declaration of the given underlying type.
func NewVarDecl(name string, typ Type, loc source.LocID, mangled string, vis Visibility, bind Binding) *VarDecl {
	v := &VarDecl{typ: typ}
	v.DeclBase = NewDeclBase(name, mangled, loc, vis, bind)
	return v
}

// Type returns the variable's underlying type.
func (v *VarDecl) Type() Type { return v.typ }

// FunctionDecl is a function declaration. When its type is a MethodType
// the declaration is a method of that type's class.
type FunctionDecl struct {
	DeclBase
	fnType         Callable
	declaredInline bool
}

// NewFunctionDecl creates a function declaration owning fnType.
func NewFunctionDecl(name string, fnType Callable, declaredInline bool, loc source.LocID,
	mangled string, vis Visibility, bind Binding) *FunctionDecl {
	f := &FunctionDecl{fnType: fnType, declaredInline: declaredInline}
	f.DeclBase = NewDeclBase(name, mangled, loc, vis, bind)
	return f
}

// Type returns the function's type.
func (f *FunctionDecl) Type() Callable { return f.fnType }

// DeclaredInline reports whether the function was declared inline.
func (f *FunctionDecl) DeclaredInline() bool { return f.declaredInline }

// IsMethod reports whether the function's type is a method type.
func (f *FunctionDecl) IsMethod() bool {
	_, ok := f.fnType.(*MethodType)
	return ok
}

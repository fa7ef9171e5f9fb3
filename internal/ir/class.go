package ir

import "abix/internal/source"

// BaseSpec describes one base class of a class declaration.
type BaseSpec struct {
	class  *Class
	access Access
	// offset is the layout offset in bits, or -1 when the base is not
	// laid out.
	offset  int64
	virtual bool
}

// NewBaseSpec creates a base class specifier.
func NewBaseSpec(class *Class, access Access, offsetInBits int64, virtual bool) *BaseSpec {
	return &BaseSpec{class: class, access: access, offset: offsetInBits, virtual: virtual}
}

func (b *BaseSpec) Class() *Class { return b.class }
func (b *BaseSpec) Access() Access { return b.access }
func (b *BaseSpec) OffsetInBits() int64 { return b.offset }
func (b *BaseSpec) IsVirtual() bool { return b.virtual }

// DataMember is a variable declaration held as a class member.
type DataMember struct {
	Var     *VarDecl
	Access  Access
	LaidOut bool
	// OffsetInBits is meaningful only when LaidOut is set.
	OffsetInBits uint64
	Static       bool
}

// MemberFunction is a method declaration held as a class member.
type MemberFunction struct {
	Fn            *FunctionDecl
	Access        Access
	VtableOffset  uint64
	Static        bool
	IsConstructor bool
	IsDestructor  bool
	IsConst       bool
}

// MemberFunctionTemplate wraps a function template declared inside a class.
type MemberFunctionTemplate struct {
	Template      *FunctionTemplate
	Access        Access
	Static        bool
	IsConstructor bool
	IsConst       bool
}

// MemberClassTemplate wraps a class template declared inside a class.
type MemberClassTemplate struct {
	Template *ClassTemplate
	Access   Access
	Static   bool
}

// Class is a class or struct declaration. A declaration-only class has a
// name and nothing else; a definition may link back to the earlier
// declaration-only node it completes.
type Class struct {
	ScopeBase
	TypeBase
	declOnly bool
	earlier  *Class

	bases                []*BaseSpec
	memberTypes          []Type
	dataMembers          []*DataMember
	memberFunctions      []*MemberFunction
	memberFnTemplates    []*MemberFunctionTemplate
	memberClassTemplates []*MemberClassTemplate
}

// NewClass creates a class definition.
func NewClass(name string, sizeInBits, alignInBits uint64, loc source.LocID, vis Visibility) *Class {
	c := &Class{}
	c.DeclBase = NewDeclBase(name, "", loc, vis, BindingNone)
	c.TypeBase = NewTypeBase(sizeInBits, alignInBits)
	return c
}

// NewClassDeclarationOnly creates a declaration-only placeholder class.
func NewClassDeclarationOnly(name string) *Class {
	c := &Class{declOnly: true}
	c.DeclBase = NewDeclBase(name, "", source.NoLocID, VisibilityNone, BindingNone)
	return c
}

// IsDeclarationOnly reports whether the class is a placeholder without a
// definition.
func (c *Class) IsDeclarationOnly() bool { return c.declOnly }

// EarlierDeclaration returns the declaration-only node this definition
// completes, or nil.
func (c *Class) EarlierDeclaration() *Class { return c.earlier }

// SetEarlierDeclaration links this definition to its earlier
// declaration-only node.
func (c *Class) SetEarlierDeclaration(d *Class) { c.earlier = d }

// AddMember attaches a declaration to the class scope. Type members are
// additionally tracked in the member type list.
func (c *Class) AddMember(d Decl) {
	c.ScopeBase.AddMember(d)
	if t, ok := d.(Type); ok {
		c.memberTypes = append(c.memberTypes, t)
	}
}

// AddBaseSpecifier appends a base class.
func (c *Class) AddBaseSpecifier(b *BaseSpec) { c.bases = append(c.bases, b) }

// AddDataMember appends a data member built from a detached var declaration.
// The variable's scope back-reference is pointed at the class.
func (c *Class) AddDataMember(v *VarDecl, access Access, laidOut bool, static bool, offsetInBits uint64) {
	v.setScope(c)
	c.dataMembers = append(c.dataMembers, &DataMember{
		Var:          v,
		Access:       access,
		LaidOut:      laidOut,
		OffsetInBits: offsetInBits,
		Static:       static,
	})
}

// AddMemberFunction appends a member function.
func (c *Class) AddMemberFunction(f *FunctionDecl, access Access, vtableOffset uint64,
	static, isCtor, isDtor, isConst bool) {
	f.setScope(c)
	c.memberFunctions = append(c.memberFunctions, &MemberFunction{
		Fn:            f,
		Access:        access,
		VtableOffset:  vtableOffset,
		Static:        static,
		IsConstructor: isCtor,
		IsDestructor:  isDtor,
		IsConst:       isConst,
	})
}

// AddMemberFunctionTemplate appends a member function template.
func (c *Class) AddMemberFunctionTemplate(m *MemberFunctionTemplate) {
	m.Template.setScope(c)
	c.memberFnTemplates = append(c.memberFnTemplates, m)
}

// AddMemberClassTemplate appends a member class template.
func (c *Class) AddMemberClassTemplate(m *MemberClassTemplate) {
	m.Template.setScope(c)
	c.memberClassTemplates = append(c.memberClassTemplates, m)
}

func (c *Class) Bases() []*BaseSpec { return c.bases }
func (c *Class) MemberTypes() []Type { return c.memberTypes }
func (c *Class) DataMembers() []*DataMember { return c.dataMembers }
func (c *Class) MemberFunctions() []*MemberFunction { return c.memberFunctions }

func (c *Class) MemberFunctionTemplates() []*MemberFunctionTemplate { return c.memberFnTemplates }
func (c *Class) MemberClassTemplates() []*MemberClassTemplate { return c.memberClassTemplates }

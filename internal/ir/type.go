package ir

import (
	"fmt"

	"abix/internal/source"
)

// Type is implemented by every type node. Size and alignment are 0 where
// the input did not state them.
type Type interface {
	SizeInBits() uint64
	AlignmentInBits() uint64
}

// TypeBase carries size and alignment for type nodes.
type TypeBase struct {
	size  uint64
	align uint64
}

// NewTypeBase assembles the shared type state.
func NewTypeBase(sizeInBits, alignInBits uint64) TypeBase {
	return TypeBase{size: sizeInBits, align: alignInBits}
}

func (t *TypeBase) SizeInBits() uint64 { return t.size }
func (t *TypeBase) AlignmentInBits() uint64 { return t.align }

// BasicType is a fundamental type such as "int" or "char".
type BasicType struct {
	DeclBase
	TypeBase
}

// NewBasicType creates a fundamental type declaration.
func NewBasicType(name string, sizeInBits, alignInBits uint64, loc source.LocID) *BasicType {
	t := &BasicType{}
	t.DeclBase = NewDeclBase(name, "", loc, VisibilityNone, BindingNone)
	t.TypeBase = NewTypeBase(sizeInBits, alignInBits)
	return t
}

// CVQualifier is a bitmask over const and volatile.
type CVQualifier uint8

const (
	CVNone     CVQualifier = 0
	CVConst    CVQualifier = 1 << 0
	CVVolatile CVQualifier = 1 << 1
)

func (cv CVQualifier) Const() bool { return cv&CVConst != 0 }
func (cv CVQualifier) Volatile() bool { return cv&CVVolatile != 0 }

func (cv CVQualifier) String() string {
	switch cv {
	case CVNone:
		return "none"
	case CVConst:
		return "const"
	case CVVolatile:
		return "volatile"
	case CVConst | CVVolatile:
		return "const volatile"
	default:
		return fmt.Sprintf("CVQualifier(%d)", cv)
	}
}

// QualifiedType wraps an underlying type with CV qualification.
type QualifiedType struct {
	DeclBase
	TypeBase
	underlying Type
	cv         CVQualifier
}

// NewQualifiedType creates a CV-qualified view of underlying.
func NewQualifiedType(underlying Type, cv CVQualifier, loc source.LocID) *QualifiedType {
	t := &QualifiedType{underlying: underlying, cv: cv}
	t.DeclBase = NewDeclBase("", "", loc, VisibilityNone, BindingNone)
	if underlying != nil {
		t.TypeBase = NewTypeBase(underlying.SizeInBits(), underlying.AlignmentInBits())
	}
	return t
}

func (t *QualifiedType) Underlying() Type { return t.underlying }
func (t *QualifiedType) Qualifiers() CVQualifier { return t.cv }

// PointerType points at a pointee type.
type PointerType struct {
	DeclBase
	TypeBase
	pointee Type
}

// NewPointerType creates a pointer type.
func NewPointerType(pointee Type, sizeInBits, alignInBits uint64, loc source.LocID) *PointerType {
	t := &PointerType{pointee: pointee}
	t.DeclBase = NewDeclBase("", "", loc, VisibilityNone, BindingNone)
	t.TypeBase = NewTypeBase(sizeInBits, alignInBits)
	return t
}

func (t *PointerType) Pointee() Type { return t.pointee }

// ReferenceType refers to a referent type as an lvalue or rvalue reference.
type ReferenceType struct {
	DeclBase
	TypeBase
	referent Type
	lvalue   bool
}

// NewReferenceType creates a reference type.
func NewReferenceType(referent Type, lvalue bool, sizeInBits, alignInBits uint64, loc source.LocID) *ReferenceType {
	t := &ReferenceType{referent: referent, lvalue: lvalue}
	t.DeclBase = NewDeclBase("", "", loc, VisibilityNone, BindingNone)
	t.TypeBase = NewTypeBase(sizeInBits, alignInBits)
	return t
}

func (t *ReferenceType) Referent() Type { return t.referent }
func (t *ReferenceType) IsLValue() bool { return t.lvalue }

// TypedefDecl names an underlying type.
type TypedefDecl struct {
	DeclBase
	TypeBase
	underlying Type
}

// NewTypedefDecl creates a typedef. Size and alignment follow the
// underlying type.
func NewTypedefDecl(name string, underlying Type, loc source.LocID) *TypedefDecl {
	t := &TypedefDecl{underlying: underlying}
	t.DeclBase = NewDeclBase(name, "", loc, VisibilityNone, BindingNone)
	if underlying != nil {
		t.TypeBase = NewTypeBase(underlying.SizeInBits(), underlying.AlignmentInBits())
	}
	return t
}

func (t *TypedefDecl) Underlying() Type { return t.underlying }

// Enumerator is one named value of an enum type.
type Enumerator struct {
	Name  string
	Value int64
}

// EnumType is an enumeration over an underlying integer type.
type EnumType struct {
	DeclBase
	TypeBase
	underlying  Type
	enumerators []Enumerator
}

// NewEnumType creates an enum type declaration.
func NewEnumType(name string, loc source.LocID, underlying Type, enumerators []Enumerator) *EnumType {
	t := &EnumType{underlying: underlying, enumerators: enumerators}
	t.DeclBase = NewDeclBase(name, "", loc, VisibilityNone, BindingNone)
	if underlying != nil {
		t.TypeBase = NewTypeBase(underlying.SizeInBits(), underlying.AlignmentInBits())
	}
	return t
}

func (t *EnumType) Underlying() Type { return t.underlying }
func (t *EnumType) Enumerators() []Enumerator { return t.enumerators }

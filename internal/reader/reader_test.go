package reader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"

	"abix/internal/diag"
	"abix/internal/ir"
)

func parseTU(t *testing.T, doc string) *ir.TranslationUnit {
	t.Helper()
	tu, err := TranslationUnitFromBuffer([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return tu
}

func parseTUErr(t *testing.T, doc string) error {
	t.Helper()
	tu, err := TranslationUnitFromBuffer([]byte(doc))
	if err == nil {
		t.Fatalf("expected parse failure, got unit %+v", tu)
	}
	if tu != nil {
		t.Fatalf("failed parse must not return a unit")
	}
	return err
}

func diagCode(t *testing.T, err error) diag.Code {
	t.Helper()
	var d diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("error %v is not a diagnostic", err)
	}
	return d.Code
}

func TestMinimalTranslationUnit(t *testing.T) {
	tu := parseTU(t, `<abi-instr path="/tmp/a.cc" address-size="8"/>`)

	if tu.Path() != "/tmp/a.cc" {
		t.Fatalf("path = %q", tu.Path())
	}
	if tu.AddressSize() != 8 {
		t.Fatalf("address size = %d", tu.AddressSize())
	}
	if !tu.IsEmpty() {
		t.Fatalf("global scope must be empty")
	}
}

func TestBasicTypeAndTypedef(t *testing.T) {
	tu := parseTU(t, `<abi-instr>`+
		`<type-decl name="int" id="t1" size-in-bits="32" alignment-in-bits="32"/>`+
		`<typedef-decl name="I" type-id="t1" id="t2"/>`+
		`</abi-instr>`)

	members := tu.GlobalScope().Members()
	if len(members) != 2 {
		t.Fatalf("global members = %d, want 2", len(members))
	}
	bt, ok := members[0].(*ir.BasicType)
	if !ok || bt.Name() != "int" || bt.SizeInBits() != 32 || bt.AlignmentInBits() != 32 {
		t.Fatalf("unexpected first member %#v", members[0])
	}
	td, ok := members[1].(*ir.TypedefDecl)
	if !ok || td.Name() != "I" {
		t.Fatalf("unexpected second member %#v", members[1])
	}
	if td.Underlying() != ir.Type(bt) {
		t.Fatalf("typedef underlying is not the basic type")
	}
}

func TestPointerType(t *testing.T) {
	tu := parseTU(t, `<abi-instr>`+
		`<type-decl name="X" id="x" size-in-bits="8"/>`+
		`<pointer-type-def type-id="x" id="px" size-in-bits="64" alignment-in-bits="64"/>`+
		`</abi-instr>`)

	members := tu.GlobalScope().Members()
	if len(members) != 2 {
		t.Fatalf("global members = %d, want 2", len(members))
	}
	x := members[0].(*ir.BasicType)
	px, ok := members[1].(*ir.PointerType)
	if !ok {
		t.Fatalf("second member is %#v, want pointer type", members[1])
	}
	if px.Pointee() != ir.Type(x) {
		t.Fatalf("pointee is not X")
	}
	if px.SizeInBits() != 64 || px.AlignmentInBits() != 64 {
		t.Fatalf("size/align = %d/%d", px.SizeInBits(), px.AlignmentInBits())
	}
}

func TestReferenceTypeKinds(t *testing.T) {
	tu := parseTU(t, `<abi-instr>`+
		`<type-decl name="X" id="x"/>`+
		`<reference-type-def type-id="x" id="r1" kind="rvalue"/>`+
		`<reference-type-def type-id="x" id="r2" kind="lvalue"/>`+
		`<reference-type-def type-id="x" id="r3"/>`+
		`</abi-instr>`)

	members := tu.GlobalScope().Members()
	if len(members) != 4 {
		t.Fatalf("global members = %d, want 4", len(members))
	}
	if members[1].(*ir.ReferenceType).IsLValue() {
		t.Fatalf("r1 must be an rvalue reference")
	}
	if !members[2].(*ir.ReferenceType).IsLValue() {
		t.Fatalf("r2 must be an lvalue reference")
	}
	if !members[3].(*ir.ReferenceType).IsLValue() {
		t.Fatalf("a missing kind must default to lvalue")
	}
}

func TestQualifiedTypeAndEnum(t *testing.T) {
	tu := parseTU(t, `<abi-instr>`+
		`<type-decl name="int" id="t1" size-in-bits="32"/>`+
		`<qualified-type-def type-id="t1" const="yes" volatile="yes" id="q1"/>`+
		`<enum-decl name="E" id="e1">`+
		`<underlying-type type-id="t1"/>`+
		`<enumerator name="A" value="0"/>`+
		`<enumerator name="B" value="-3"/>`+
		`</enum-decl>`+
		`</abi-instr>`)

	members := tu.GlobalScope().Members()
	q := members[1].(*ir.QualifiedType)
	if !q.Qualifiers().Const() || !q.Qualifiers().Volatile() {
		t.Fatalf("qualifiers = %v", q.Qualifiers())
	}
	if q.SizeInBits() != 32 {
		t.Fatalf("qualified type must take the underlying size")
	}
	e := members[2].(*ir.EnumType)
	if e.Name() != "E" || len(e.Enumerators()) != 2 {
		t.Fatalf("unexpected enum %#v", e)
	}
	if e.Enumerators()[1].Name != "B" || e.Enumerators()[1].Value != -3 {
		t.Fatalf("unexpected enumerator %+v", e.Enumerators()[1])
	}
}

func TestNamespaceNesting(t *testing.T) {
	tu := parseTU(t, `<abi-instr>`+
		`<namespace-decl name="outer">`+
		`<namespace-decl name="inner">`+
		`<type-decl name="int" id="t1"/>`+
		`</namespace-decl>`+
		`</namespace-decl>`+
		`<namespace-decl name="other"/>`+
		`</abi-instr>`)

	members := tu.GlobalScope().Members()
	if len(members) != 2 {
		t.Fatalf("global members = %d, want 2", len(members))
	}
	outer := members[0].(*ir.Namespace)
	if outer.Name() != "outer" || len(outer.Members()) != 1 {
		t.Fatalf("unexpected outer namespace %#v", outer)
	}
	inner := outer.Members()[0].(*ir.Namespace)
	if inner.Name() != "inner" || len(inner.Members()) != 1 {
		t.Fatalf("unexpected inner namespace %#v", inner)
	}
	if bt := inner.Members()[0].(*ir.BasicType); bt.Scope() != ir.Scope(inner) {
		t.Fatalf("type scope must be the inner namespace")
	}
	if members[1].(*ir.Namespace).Name() != "other" {
		t.Fatalf("sibling namespace lost")
	}
}

func TestVarAndFunctionDecl(t *testing.T) {
	tu := parseTU(t, `<abi-instr>`+
		`<type-decl name="int" id="t1" size-in-bits="32"/>`+
		`<var-decl name="v" type-id="t1" mangled-name="_Zv" visibility="hidden" binding="weak" filepath="a.cc" line="3" column="1"/>`+
		`<function-decl name="f" declared-inline="yes">`+
		`<parameter type-id="t1" name="x"/>`+
		`<parameter is-variadic="yes"/>`+
		`<return type-id="t1"/>`+
		`</function-decl>`+
		`</abi-instr>`)

	members := tu.GlobalScope().Members()
	v := members[1].(*ir.VarDecl)
	if v.MangledName() != "_Zv" || v.Visibility() != ir.VisibilityHidden || v.Binding() != ir.BindingWeak {
		t.Fatalf("unexpected var attributes %#v", v)
	}
	loc, ok := tu.Locations().Lookup(v.Location())
	if !ok || loc.File != "a.cc" || loc.Line != 3 || loc.Column != 1 {
		t.Fatalf("unexpected location %v", loc)
	}

	f := members[2].(*ir.FunctionDecl)
	if !f.DeclaredInline() || f.IsMethod() {
		t.Fatalf("unexpected function flags %#v", f)
	}
	params := f.Type().Parameters()
	if len(params) != 2 {
		t.Fatalf("parameters = %d, want 2", len(params))
	}
	if params[0].Type() == nil || params[0].Name() != "x" {
		t.Fatalf("first parameter must carry a resolved type")
	}
	if !params[1].IsVariadic() || params[1].Type() != nil {
		t.Fatalf("variadic parameter must carry no type")
	}
	if f.Type().ReturnType() == nil {
		t.Fatalf("return type missing")
	}
}

const classDoc = `<abi-instr>` +
	`<type-decl name="int" id="t1" size-in-bits="32"/>` +
	`<class-decl name="C" id="c" size-in-bits="32">` +
	`<data-member access="public">` +
	`<var-decl name="a" type-id="t1"/>` +
	`</data-member>` +
	`<member-function access="public">` +
	`<function-decl name="f">` +
	`<return type-id="t1"/>` +
	`</function-decl>` +
	`</member-function>` +
	`</class-decl>` +
	`</abi-instr>`

func TestClassWithDataMemberAndMethod(t *testing.T) {
	tu := parseTU(t, classDoc)

	members := tu.GlobalScope().Members()
	if len(members) != 2 {
		t.Fatalf("global members = %d, want 2", len(members))
	}
	c := members[1].(*ir.Class)
	if c.IsDeclarationOnly() {
		t.Fatalf("class must be a definition")
	}
	if len(c.DataMembers()) != 1 {
		t.Fatalf("data members = %d, want 1", len(c.DataMembers()))
	}
	dm := c.DataMembers()[0]
	if dm.Access != ir.AccessPublic || dm.LaidOut || dm.OffsetInBits != 0 || dm.Static {
		t.Fatalf("unexpected data member flags %+v", dm)
	}
	if dm.Var.Name() != "a" {
		t.Fatalf("data member name = %q", dm.Var.Name())
	}

	if len(c.MemberFunctions()) != 1 {
		t.Fatalf("member functions = %d, want 1", len(c.MemberFunctions()))
	}
	mf := c.MemberFunctions()[0]
	if mf.Access != ir.AccessPublic || mf.IsConst || mf.Static || mf.VtableOffset != 0 {
		t.Fatalf("unexpected member function flags %+v", mf)
	}
	mt, ok := mf.Fn.Type().(*ir.MethodType)
	if !ok {
		t.Fatalf("member function type must be a method type")
	}
	if mt.Class() != c {
		t.Fatalf("method type must point back at the class")
	}
	if mt.ReturnType() == nil {
		t.Fatalf("method return type missing")
	}
}

func TestClassMemberTypeAndFollowingSibling(t *testing.T) {
	// The member-type wrapper adds an extra XML level around a single
	// IR node; a sibling element after the class exercises the
	// depth-pop adjustment.
	tu := parseTU(t, `<abi-instr>`+
		`<type-decl name="int" id="t1"/>`+
		`<class-decl name="C" id="c">`+
		`<member-type access="public">`+
		`<typedef-decl name="I" type-id="t1" id="t2"/>`+
		`</member-type>`+
		`</class-decl>`+
		`<type-decl name="char" id="t3"/>`+
		`</abi-instr>`)

	members := tu.GlobalScope().Members()
	if len(members) != 3 {
		t.Fatalf("global members = %d, want 3", len(members))
	}
	c := members[1].(*ir.Class)
	if len(c.MemberTypes()) != 1 {
		t.Fatalf("member types = %d, want 1", len(c.MemberTypes()))
	}
	td := c.MemberTypes()[0].(*ir.TypedefDecl)
	if td.Name() != "I" || td.Scope() != ir.Scope(c) {
		t.Fatalf("member typedef not attached to the class")
	}
	if ch, ok := members[2].(*ir.BasicType); !ok || ch.Name() != "char" {
		t.Fatalf("sibling after the class lost: %#v", members[2])
	}
}

func TestClassBases(t *testing.T) {
	tu := parseTU(t, `<abi-instr>`+
		`<class-decl name="B" id="b" size-in-bits="8"/>`+
		`<class-decl name="D" id="d" size-in-bits="16">`+
		`<base-class type-id="b" access="public" layout-offset-in-bits="0" is-virtual="yes"/>`+
		`</class-decl>`+
		`<class-decl name="E" id="e" size-in-bits="16">`+
		`<base-class type-id="b"/>`+
		`</class-decl>`+
		`</abi-instr>`)

	members := tu.GlobalScope().Members()
	d := members[1].(*ir.Class)
	if len(d.Bases()) != 1 {
		t.Fatalf("bases = %d, want 1", len(d.Bases()))
	}
	base := d.Bases()[0]
	if base.Class().Name() != "B" || base.Access() != ir.AccessPublic ||
		base.OffsetInBits() != 0 || !base.IsVirtual() {
		t.Fatalf("unexpected base %+v", base)
	}

	e := members[2].(*ir.Class)
	eb := e.Bases()[0]
	if eb.Access() != ir.AccessPrivate || eb.OffsetInBits() != -1 || eb.IsVirtual() {
		t.Fatalf("defaulted base spec wrong: %+v", eb)
	}
}

func TestDeclarationOnlyThenDefinition(t *testing.T) {
	tu := parseTU(t, `<abi-instr>`+
		`<class-decl name="D" id="cd" is-declaration-only="yes"/>`+
		`<class-decl name="D" id="cd" def-of-decl-id="cd" size-in-bits="32"/>`+
		`</abi-instr>`)

	members := tu.GlobalScope().Members()
	if len(members) != 2 {
		t.Fatalf("global members = %d, want 2", len(members))
	}
	decl := members[0].(*ir.Class)
	if !decl.IsDeclarationOnly() {
		t.Fatalf("first class must be declaration-only")
	}
	if decl.SizeInBits() != 0 || len(decl.DataMembers()) != 0 || len(decl.Bases()) != 0 {
		t.Fatalf("declaration-only class must stay empty")
	}
	def := members[1].(*ir.Class)
	if def.IsDeclarationOnly() {
		t.Fatalf("second class must be a definition")
	}
	if def.EarlierDeclaration() != decl {
		t.Fatalf("definition must reference the declaration-only node")
	}
}

func TestSelfReferentialClass(t *testing.T) {
	// A member typed as a pointer to the class's own id keeps pointing at
	// the declaration-only node the id named when the pointer was built,
	// even after the definition reuses that id.
	tu := parseTU(t, `<abi-instr>`+
		`<class-decl name="N" id="n" is-declaration-only="yes"/>`+
		`<pointer-type-def type-id="n" id="pn" size-in-bits="64"/>`+
		`<class-decl name="N" id="n" size-in-bits="64">`+
		`<data-member access="private" layout-offset-in-bits="0">`+
		`<var-decl name="next" type-id="pn"/>`+
		`</data-member>`+
		`</class-decl>`+
		`</abi-instr>`)

	members := tu.GlobalScope().Members()
	def := members[2].(*ir.Class)
	dm := def.DataMembers()[0]
	if !dm.LaidOut || dm.OffsetInBits != 0 {
		t.Fatalf("laid-out data member flags wrong: %+v", dm)
	}
	pn := dm.Var.Type().(*ir.PointerType)
	if pn.Pointee() != ir.Type(members[0].(*ir.Class)) {
		t.Fatalf("self-referential pointer must point at the declaration-only node")
	}
}

func TestFunctionTemplate(t *testing.T) {
	tu := parseTU(t, `<abi-instr>`+
		`<function-template-decl id="ft1" visibility="default" binding="global">`+
		`<template-type-parameter id="tp1" name="T"/>`+
		`<function-decl name="max">`+
		`<parameter type-id="tp1" name="x"/>`+
		`<return type-id="tp1"/>`+
		`</function-decl>`+
		`</function-template-decl>`+
		`</abi-instr>`)

	members := tu.GlobalScope().Members()
	if len(members) != 1 {
		t.Fatalf("global members = %d, want 1", len(members))
	}
	ft := members[0].(*ir.FunctionTemplate)
	if len(ft.TemplateParameters()) != 1 {
		t.Fatalf("template parameters = %d, want 1", len(ft.TemplateParameters()))
	}
	tp := ft.TemplateParameters()[0].(*ir.TypeTemplateParameter)
	if tp.Index() != 0 || tp.Name() != "T" {
		t.Fatalf("unexpected type parameter %#v", tp)
	}
	pattern := ft.Pattern()
	if pattern == nil || pattern.Name() != "max" {
		t.Fatalf("pattern missing")
	}
	if pattern.Type().Parameters()[0].Type() != ir.Type(tp) {
		t.Fatalf("pattern parameter must resolve to the type parameter")
	}
}

func TestClassTemplateWithComposition(t *testing.T) {
	tu := parseTU(t, `<abi-instr>`+
		`<class-template-decl id="ct1">`+
		`<template-type-parameter id="tp1" name="T"/>`+
		`<template-non-type-parameter type-id="tp1" name="N"/>`+
		`<template-parameter-type-composition>`+
		`<pointer-type-def type-id="tp1" id="ptp" size-in-bits="64"/>`+
		`</template-parameter-type-composition>`+
		`<class-decl name="Box" id="box" size-in-bits="64"/>`+
		`</class-template-decl>`+
		`</abi-instr>`)

	ct := tu.GlobalScope().Members()[0].(*ir.ClassTemplate)
	params := ct.TemplateParameters()
	if len(params) != 3 {
		t.Fatalf("template parameters = %d, want 3", len(params))
	}
	if params[0].Index() != 0 || params[1].Index() != 1 || params[2].Index() != 2 {
		t.Fatalf("parameter indices wrong")
	}
	ntp := params[1].(*ir.NonTypeTemplateParameter)
	if ntp.Type() != ir.Type(params[0].(*ir.TypeTemplateParameter)) {
		t.Fatalf("non-type parameter type must resolve to T")
	}
	comp := params[2].(*ir.TypeComposition)
	pt, ok := comp.ComposedType().(*ir.PointerType)
	if !ok || pt.Pointee() != ir.Type(params[0].(*ir.TypeTemplateParameter)) {
		t.Fatalf("composition must wrap a pointer to T")
	}
	if ct.Pattern() == nil || ct.Pattern().Name() != "Box" {
		t.Fatalf("class template pattern missing")
	}
}

func TestMemberTemplate(t *testing.T) {
	tu := parseTU(t, `<abi-instr>`+
		`<class-decl name="C" id="c" size-in-bits="8">`+
		`<member-template access="public" static="yes" constructor="yes">`+
		`<function-template-decl id="ft1">`+
		`<template-type-parameter id="tp1" name="T"/>`+
		`<function-decl name="make">`+
		`<parameter type-id="tp1"/>`+
		`</function-decl>`+
		`</function-template-decl>`+
		`</member-template>`+
		`</class-decl>`+
		`</abi-instr>`)

	c := tu.GlobalScope().Members()[0].(*ir.Class)
	if len(c.MemberFunctionTemplates()) != 1 {
		t.Fatalf("member function templates = %d, want 1", len(c.MemberFunctionTemplates()))
	}
	mft := c.MemberFunctionTemplates()[0]
	if mft.Access != ir.AccessPublic || !mft.Static || !mft.IsConstructor || mft.IsConst {
		t.Fatalf("unexpected member template flags %+v", mft)
	}
	if mft.Template.Pattern() == nil || mft.Template.Pattern().Name() != "make" {
		t.Fatalf("member template pattern missing")
	}
}

func TestUnknownAttributeFallbacks(t *testing.T) {
	tu := parseTU(t, `<abi-instr>`+
		`<type-decl name="int" id="t1"/>`+
		`<var-decl name="v" type-id="t1" visibility="bogus" binding="bogus"/>`+
		`<class-decl name="C" id="c">`+
		`<data-member access="bogus"><var-decl name="a" type-id="t1"/></data-member>`+
		`</class-decl>`+
		`</abi-instr>`)

	v := tu.GlobalScope().Members()[1].(*ir.VarDecl)
	if v.Visibility() != ir.VisibilityDefault {
		t.Fatalf("unknown visibility must fall back to default, got %v", v.Visibility())
	}
	if v.Binding() != ir.BindingGlobal {
		t.Fatalf("unknown binding must fall back to global, got %v", v.Binding())
	}
	c := tu.GlobalScope().Members()[2].(*ir.Class)
	if c.DataMembers()[0].Access != ir.AccessPrivate {
		t.Fatalf("unknown access must fall back to private")
	}
}

func TestMissingAttributeDefaults(t *testing.T) {
	tu := parseTU(t, `<abi-instr>`+
		`<type-decl name="int" id="t1"/>`+
		`<var-decl name="v" type-id="t1" line="3" column="1"/>`+
		`</abi-instr>`)

	if tu.AddressSize() != 0 {
		t.Fatalf("absent address-size must stay unset")
	}
	v := tu.GlobalScope().Members()[1].(*ir.VarDecl)
	if v.Visibility() != ir.VisibilityNone || v.Binding() != ir.BindingNone {
		t.Fatalf("absent visibility/binding must stay none")
	}
	// line/column without filepath never make a location.
	if v.Location().IsValid() {
		t.Fatalf("location without filepath must be null")
	}
}

func TestParseFailures(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		code diag.Code
	}{
		{"wrong root", `<bogus/>`, diag.SchemaUnexpectedRoot},
		{"unknown element", `<abi-instr><mystery/></abi-instr>`, diag.SchemaUnknownElement},
		{"unresolved pointee", `<abi-instr><pointer-type-def type-id="nope" id="p"/></abi-instr>`, diag.RefUnresolvedType},
		{"unresolved var type", `<abi-instr><var-decl name="v" type-id="nope"/></abi-instr>`, diag.RefUnresolvedType},
		{"duplicate id", `<abi-instr><type-decl name="a" id="t"/><type-decl name="b" id="t"/></abi-instr>`, diag.KeyDuplicateID},
		{"missing id", `<abi-instr><type-decl name="a"/></abi-instr>`, diag.KeyEmptyID},
		{"base not a class", `<abi-instr>` +
			`<type-decl name="int" id="t1"/>` +
			`<class-decl name="C" id="c"><base-class type-id="t1"/></class-decl>` +
			`</abi-instr>`, diag.RefNotAClass},
		{"decl-only claiming definition", `<abi-instr>` +
			`<class-decl name="X" id="x" is-declaration-only="yes" def-of-decl-id="x"/>` +
			`</abi-instr>`, diag.SchemaMissingAttribute},
		{"dangling def-of-decl-id", `<abi-instr>` +
			`<class-decl name="X" id="x" def-of-decl-id="missing"/>` +
			`</abi-instr>`, diag.RefUnresolvedType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := parseTUErr(t, tc.doc)
			if got := diagCode(t, err); got != tc.code {
				t.Fatalf("code = %v, want %v (err: %v)", got, tc.code, err)
			}
		})
	}
}

func TestCorpusFromStream(t *testing.T) {
	doc := `<abi-corpus path="/lib.so">` +
		`<abi-instr path="/a.cc"/>` +
		`<abi-instr path="/b.cc"><type-decl name="int" id="t1"/></abi-instr>` +
		`</abi-corpus>`

	corp, err := CorpusFromStream(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse corpus: %v", err)
	}
	if corp.Path() != "/lib.so" {
		t.Fatalf("corpus path = %q", corp.Path())
	}
	units := corp.Units()
	if len(units) != 2 {
		t.Fatalf("units = %d, want 2", len(units))
	}
	if units[0].Path() != "/a.cc" || units[1].Path() != "/b.cc" {
		t.Fatalf("unit paths = %q, %q", units[0].Path(), units[1].Path())
	}
	if !units[0].IsEmpty() || units[1].IsEmpty() {
		t.Fatalf("unit contents wrong")
	}
	// The second unit's own type-decl lands in its global scope.
	if _, ok := units[1].GlobalScope().Members()[0].(*ir.BasicType); !ok {
		t.Fatalf("second unit member missing")
	}
}

func TestCorpusFromArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	entries := []struct{ name, doc string }{
		{"entry-a.xml", `<abi-instr path="/src/a.cc" address-size="8"/>`},
		{"entry-b.xml", `<abi-instr path="/src/b.cc"/>`},
		{"broken.xml", `<not-an-instr/>`},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		if _, err := w.Write([]byte(e.doc)); err != nil {
			t.Fatalf("write entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	corp := ir.NewCorpus(path)
	n, err := ReadCorpusFromArchive(path, corp)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if n != 2 {
		t.Fatalf("read count = %d, want 2", n)
	}
	units := corp.Units()
	if len(units) != 2 {
		t.Fatalf("units = %d, want 2", len(units))
	}
	// Document path attributes win over entry names.
	if units[0].Path() != "/src/a.cc" || units[1].Path() != "/src/b.cc" {
		t.Fatalf("unit paths = %q, %q", units[0].Path(), units[1].Path())
	}
	if units[0].AddressSize() != 8 {
		t.Fatalf("address size lost in archive read")
	}
}

func TestCorpusArchiveMissing(t *testing.T) {
	corp := ir.NewCorpus("")
	n, err := ReadCorpusFromArchive(filepath.Join(t.TempDir(), "nope.zip"), corp)
	if err == nil || n != -1 {
		t.Fatalf("missing archive must fail with count -1, got %d, %v", n, err)
	}
}

func TestScopeBackrefInvariant(t *testing.T) {
	tu := parseTU(t, classDoc)
	var bad int
	ir.Walk(tu.GlobalScope(), func(d ir.Decl) bool {
		s := d.Scope()
		if s == nil {
			bad++
			return false
		}
		seen := 0
		for _, m := range s.Members() {
			if m == d {
				seen++
			}
		}
		if seen != 1 {
			bad++
		}
		return true
	})
	if bad != 0 {
		t.Fatalf("%d declarations with broken scope membership", bad)
	}
}

package reader

import (
	"abix/internal/diag"
	"abix/internal/ir"
	"abix/internal/xmlcursor"
)

// Builders construct IR nodes from detached subtree nodes. Every builder
// returns (nil, nil) when the node's tag is not its kind, so the
// polymorphic buildType and buildTemplateParameter can try alternatives
// in a fixed order. Any other failure is fatal to the parse.

// buildFunctionParameter builds one parameter of a function type.
func buildFunctionParameter(c *context, node *xmlcursor.Node) (*ir.Parameter, error) {
	if node.Name != "parameter" {
		return nil, nil
	}

	isVariadic := attrYes(node, "is-variadic")
	isArtificial := attrYes(node, "is-artificial")

	typeID := attrString(node, "type-id")
	typ := c.typeByID(typeID)
	if typ == nil && !isVariadic {
		return nil, c.errorf(diag.RefUnresolvedType, "parameter type-id %q is unknown", typeID)
	}

	name := attrString(node, "name")
	loc := readLocation(c, node)

	return ir.NewParameter(typ, name, loc, isVariadic, isArtificial), nil
}

// buildFunctionDecl builds a function declaration. When asMethodOf is
// non-nil the declaration's type is a method type of that class.
func buildFunctionDecl(c *context, node *xmlcursor.Node, asMethodOf *ir.Class,
	updateDepth, addToScope bool) (*ir.FunctionDecl, error) {
	if node.Name != "function-decl" {
		return nil, nil
	}

	name := attrString(node, "name")
	mangled := attrString(node, "mangled-name")
	declaredInline := attrYes(node, "declared-inline")
	vis := readVisibility(node)
	bind := readBinding(node)
	size, align := readSizeAndAlignment(node)
	loc := readLocation(c, node)

	var fnType ir.Callable
	var proto *ir.FunctionType
	if asMethodOf != nil {
		mt := ir.NewMethodType(asMethodOf, size, align)
		fnType, proto = mt, &mt.FunctionType
	} else {
		ft := ir.NewFunctionType(size, align)
		fnType, proto = ft, ft
	}

	fn := ir.NewFunctionDecl(name, fnType, declaredInline, loc, mangled, vis, bind)
	c.pushDeclNode(fn, node, updateDepth, addToScope)

	for _, n := range node.Children {
		switch n.Name {
		case "parameter":
			p, err := buildFunctionParameter(c, n)
			if err != nil {
				return nil, err
			}
			if p != nil {
				proto.AppendParameter(p)
			}
		case "return":
			typeID := attrString(n, "type-id")
			if typeID != "" {
				ret := c.typeByID(typeID)
				if ret == nil {
					return nil, c.errorf(diag.RefUnresolvedType, "return type-id %q is unknown", typeID)
				}
				proto.SetReturnType(ret)
			}
		}
	}

	return fn, nil
}

// buildVarDecl builds a variable declaration.
func buildVarDecl(c *context, node *xmlcursor.Node, updateDepth, addToScope bool) (*ir.VarDecl, error) {
	if node.Name != "var-decl" {
		return nil, nil
	}

	name := attrString(node, "name")
	typeID := attrString(node, "type-id")
	typ := c.typeByID(typeID)
	if typ == nil {
		return nil, c.errorf(diag.RefUnresolvedType, "var-decl %q: type-id %q is unknown", name, typeID)
	}

	mangled := attrString(node, "mangled-name")
	vis := readVisibility(node)
	bind := readBinding(node)
	loc := readLocation(c, node)

	v := ir.NewVarDecl(name, typ, loc, mangled, vis, bind)
	c.pushDeclNode(v, node, updateDepth, addToScope)
	return v, nil
}

// requireFreshID checks that a keyed element carries a non-empty id not
// yet present in the type table.
func (c *context) requireFreshID(node *xmlcursor.Node) (string, error) {
	id := attrString(node, "id")
	if id == "" {
		return "", c.errorf(diag.KeyEmptyID, "<%s> carries no id", node.Name)
	}
	if c.typeByID(id) != nil {
		return "", c.errorf(diag.KeyDuplicateID, "<%s> reuses type id %q", node.Name, id)
	}
	return id, nil
}

// buildBasicType builds a fundamental type from a "type-decl" node.
func buildBasicType(c *context, node *xmlcursor.Node, updateDepth, addToScope bool) (*ir.BasicType, error) {
	if node.Name != "type-decl" {
		return nil, nil
	}

	id, err := c.requireFreshID(node)
	if err != nil {
		return nil, err
	}
	name := attrString(node, "name")
	size, align := readSizeAndAlignment(node)
	loc := readLocation(c, node)

	t := ir.NewBasicType(name, size, align, loc)
	if err := c.pushAndKeyTypeNode(t, id, node, updateDepth, addToScope); err != nil {
		return nil, err
	}
	return t, nil
}

// buildQualifiedType builds a CV-qualified type from a
// "qualified-type-def" node.
func buildQualifiedType(c *context, node *xmlcursor.Node, updateDepth, addToScope bool) (*ir.QualifiedType, error) {
	if node.Name != "qualified-type-def" {
		return nil, nil
	}

	typeID := attrString(node, "type-id")
	underlying := c.typeByID(typeID)
	if underlying == nil {
		return nil, c.errorf(diag.RefUnresolvedType, "qualified-type-def: type-id %q is unknown", typeID)
	}
	id, err := c.requireFreshID(node)
	if err != nil {
		return nil, err
	}

	cv := ir.CVNone
	if attrYes(node, "const") {
		cv |= ir.CVConst
	}
	if attrYes(node, "volatile") {
		cv |= ir.CVVolatile
	}
	loc := readLocation(c, node)

	t := ir.NewQualifiedType(underlying, cv, loc)
	if err := c.pushAndKeyTypeNode(t, id, node, updateDepth, addToScope); err != nil {
		return nil, err
	}
	return t, nil
}

// buildPointerType builds a pointer type from a "pointer-type-def" node.
func buildPointerType(c *context, node *xmlcursor.Node, updateDepth, addToScope bool) (*ir.PointerType, error) {
	if node.Name != "pointer-type-def" {
		return nil, nil
	}

	typeID := attrString(node, "type-id")
	pointee := c.typeByID(typeID)
	if pointee == nil {
		return nil, c.errorf(diag.RefUnresolvedType, "pointer-type-def: type-id %q is unknown", typeID)
	}
	id, err := c.requireFreshID(node)
	if err != nil {
		return nil, err
	}
	size, align := readSizeAndAlignment(node)
	loc := readLocation(c, node)

	t := ir.NewPointerType(pointee, size, align, loc)
	if err := c.pushAndKeyTypeNode(t, id, node, updateDepth, addToScope); err != nil {
		return nil, err
	}
	return t, nil
}

// buildReferenceType builds a reference type from a "reference-type-def"
// node. A missing or unknown "kind" attribute means an lvalue reference.
func buildReferenceType(c *context, node *xmlcursor.Node, updateDepth, addToScope bool) (*ir.ReferenceType, error) {
	if node.Name != "reference-type-def" {
		return nil, nil
	}

	isLValue := attrString(node, "kind") != "rvalue"

	typeID := attrString(node, "type-id")
	referent := c.typeByID(typeID)
	if referent == nil {
		return nil, c.errorf(diag.RefUnresolvedType, "reference-type-def: type-id %q is unknown", typeID)
	}
	id, err := c.requireFreshID(node)
	if err != nil {
		return nil, err
	}
	size, align := readSizeAndAlignment(node)
	loc := readLocation(c, node)

	t := ir.NewReferenceType(referent, isLValue, size, align, loc)
	if err := c.pushAndKeyTypeNode(t, id, node, updateDepth, addToScope); err != nil {
		return nil, err
	}
	return t, nil
}

// buildEnumType builds an enum from an "enum-decl" node and its
// underlying-type and enumerator children.
func buildEnumType(c *context, node *xmlcursor.Node, updateDepth, addToScope bool) (*ir.EnumType, error) {
	if node.Name != "enum-decl" {
		return nil, nil
	}

	name := attrString(node, "name")
	loc := readLocation(c, node)
	id, err := c.requireFreshID(node)
	if err != nil {
		return nil, err
	}

	var underlyingID string
	var enumerators []ir.Enumerator
	for _, n := range node.Children {
		switch n.Name {
		case "underlying-type":
			underlyingID = attrString(n, "type-id")
		case "enumerator":
			enumerators = append(enumerators, ir.Enumerator{
				Name:  attrString(n, "name"),
				Value: attrInt64(n, "value"),
			})
		}
	}

	underlying := c.typeByID(underlyingID)
	if underlying == nil {
		return nil, c.errorf(diag.RefUnresolvedType, "enum-decl %q: underlying type-id %q is unknown", name, underlyingID)
	}

	t := ir.NewEnumType(name, loc, underlying, enumerators)
	if err := c.pushAndKeyTypeNode(t, id, node, updateDepth, addToScope); err != nil {
		return nil, err
	}
	return t, nil
}

// buildTypedef builds a typedef from a "typedef-decl" node.
func buildTypedef(c *context, node *xmlcursor.Node, updateDepth, addToScope bool) (*ir.TypedefDecl, error) {
	if node.Name != "typedef-decl" {
		return nil, nil
	}

	name := attrString(node, "name")
	typeID := attrString(node, "type-id")
	underlying := c.typeByID(typeID)
	if underlying == nil {
		return nil, c.errorf(diag.RefUnresolvedType, "typedef-decl %q: type-id %q is unknown", name, typeID)
	}
	id, err := c.requireFreshID(node)
	if err != nil {
		return nil, err
	}
	loc := readLocation(c, node)

	t := ir.NewTypedefDecl(name, underlying, loc)
	if err := c.pushAndKeyTypeNode(t, id, node, updateDepth, addToScope); err != nil {
		return nil, err
	}
	return t, nil
}

// buildClassDecl builds a class from a "class-decl" node. A
// declaration-only class keeps its name and nothing else. Keying happens
// after the member recursion so self-referential members resolve the id
// to the pre-existing declaration-only entry, if any; a definition then
// replaces that entry while staying linked to it.
func buildClassDecl(c *context, node *xmlcursor.Node, updateDepth, addToScope bool) (*ir.Class, error) {
	if node.Name != "class-decl" {
		return nil, nil
	}

	name := attrString(node, "name")
	size, align := readSizeAndAlignment(node)
	vis := readVisibility(node)

	id := attrString(node, "id")
	if id == "" {
		return nil, c.errorf(diag.KeyEmptyID, "<class-decl> %q carries no id", name)
	}

	// An already-keyed id is only legal when it names a
	// declaration-only placeholder this node may define.
	var prior *ir.Class
	if t := c.typeByID(id); t != nil {
		pc, ok := t.(*ir.Class)
		if !ok || !pc.IsDeclarationOnly() {
			return nil, c.errorf(diag.KeyDuplicateID, "<class-decl> reuses type id %q", id)
		}
		prior = pc
	}

	loc := readLocation(c, node)
	isDeclOnly := attrYes(node, "is-declaration-only")
	defID := attrString(node, "def-of-decl-id")
	if isDeclOnly && defID != "" {
		return nil, c.errorf(diag.SchemaMissingAttribute,
			"<class-decl> %q is declaration-only yet claims to define %q", name, defID)
	}

	var decl *ir.Class
	if isDeclOnly {
		decl = ir.NewClassDeclarationOnly(name)
	} else {
		decl = ir.NewClass(name, size, align, loc, vis)
		if defID != "" {
			earlier, _ := c.typeByID(defID).(*ir.Class)
			if earlier == nil || !earlier.IsDeclarationOnly() {
				return nil, c.errorf(diag.RefUnresolvedType,
					"<class-decl> %q: def-of-decl-id %q names no declaration-only class", name, defID)
			}
			decl.SetEarlierDeclaration(earlier)
		}
	}

	c.pushDeclNode(decl, node, updateDepth, addToScope)

	if !isDeclOnly {
		if err := buildClassMembers(c, node, decl); err != nil {
			return nil, err
		}
	}

	if prior != nil || decl.EarlierDeclaration() != nil {
		c.keyTypeReplacement(decl, id)
	} else if err := c.keyType(decl, id); err != nil {
		return nil, err
	}
	return decl, nil
}

// buildClassMembers consumes the member wrapper children of a class-decl
// node.
func buildClassMembers(c *context, node *xmlcursor.Node, decl *ir.Class) error {
	for _, n := range node.Children {
		switch n.Name {
		case "base-class":
			access := readAccess(n)
			typeID := attrString(n, "type-id")
			base, _ := c.typeByID(typeID).(*ir.Class)
			if base == nil {
				return c.errorf(diag.RefNotAClass, "base-class type-id %q names no class", typeID)
			}
			offset := int64(-1)
			if v, ok := attrBitsPresent(n, "layout-offset-in-bits"); ok {
				offset = int64(v)
			}
			decl.AddBaseSpecifier(ir.NewBaseSpec(base, access, offset, attrYes(n, "is-virtual")))

		case "member-type":
			// The built type lands in the class through the usual
			// scope attachment; no explicit add.
			for _, p := range n.Children {
				if _, err := buildType(c, p, true, true); err != nil {
					return err
				}
			}

		case "data-member":
			access := readAccess(n)
			offset, laidOut := attrBitsPresent(n, "layout-offset-in-bits")
			isStatic := attrYes(n, "static")
			for _, p := range n.Children {
				v, err := buildVarDecl(c, p, true, false)
				if err != nil {
					return err
				}
				if v != nil {
					decl.AddDataMember(v, access, laidOut, isStatic, offset)
				}
			}

		case "member-function":
			access := readAccess(n)
			vtableOffset := attrBits(n, "vtable-offset")
			isStatic := attrYes(n, "static")
			isCtor, isDtor, isConst := readCdtorConst(n)
			for _, p := range n.Children {
				f, err := buildFunctionDecl(c, p, decl, true, false)
				if err != nil {
					return err
				}
				if f != nil {
					decl.AddMemberFunction(f, access, vtableOffset, isStatic, isCtor, isDtor, isConst)
				}
			}

		case "member-template":
			access := readAccess(n)
			isStatic := attrYes(n, "static")
			isCtor, _, isConst := readCdtorConst(n)
			for _, p := range n.Children {
				ft, err := buildFunctionTemplate(c, p, true, false)
				if err != nil {
					return err
				}
				if ft != nil {
					decl.AddMemberFunctionTemplate(&ir.MemberFunctionTemplate{
						Template:      ft,
						Access:        access,
						Static:        isStatic,
						IsConstructor: isCtor,
						IsConst:       isConst,
					})
					continue
				}
				ct, err := buildClassTemplate(c, p, true, false)
				if err != nil {
					return err
				}
				if ct != nil {
					decl.AddMemberClassTemplate(&ir.MemberClassTemplate{
						Template: ct,
						Access:   access,
						Static:   isStatic,
					})
				}
			}
		}
	}
	return nil
}

// buildFunctionTemplate builds a function template from a
// "function-template-decl" node. A missing or already-keyed id makes the
// node unrecognizable rather than fatal, so member-template dispatch can
// try the class template builder next.
func buildFunctionTemplate(c *context, node *xmlcursor.Node, updateDepth, addToScope bool) (*ir.FunctionTemplate, error) {
	if node.Name != "function-template-decl" {
		return nil, nil
	}

	id := attrString(node, "id")
	if id == "" || c.fnTemplateByID(id) != nil {
		return nil, nil
	}

	loc := readLocation(c, node)
	vis := readVisibility(node)
	bind := readBinding(node)

	t := ir.NewFunctionTemplate(loc, vis, bind)
	c.pushDeclNode(t, node, updateDepth, addToScope)

	index := 0
	for _, n := range node.Children {
		p, err := buildTemplateParameter(c, n, index, true)
		if err != nil {
			return nil, err
		}
		if p != nil {
			t.AddTemplateParameter(p)
			index++
			continue
		}
		f, err := buildFunctionDecl(c, n, nil, true, true)
		if err != nil {
			return nil, err
		}
		if f != nil {
			t.SetPattern(f)
		}
	}

	if err := c.keyFnTemplate(t, id); err != nil {
		return nil, err
	}
	return t, nil
}

// buildClassTemplate builds a class template from a "class-template-decl"
// node. The pattern is attached to the current scope (the template
// itself) only when the template was attached to its own scope.
func buildClassTemplate(c *context, node *xmlcursor.Node, updateDepth, addToScope bool) (*ir.ClassTemplate, error) {
	if node.Name != "class-template-decl" {
		return nil, nil
	}

	id := attrString(node, "id")
	if id == "" || c.classTemplateByID(id) != nil {
		return nil, nil
	}

	loc := readLocation(c, node)
	vis := readVisibility(node)

	t := ir.NewClassTemplate(loc, vis)
	c.pushDeclNode(t, node, updateDepth, addToScope)

	index := 0
	for _, n := range node.Children {
		p, err := buildTemplateParameter(c, n, index, true)
		if err != nil {
			return nil, err
		}
		if p != nil {
			t.AddTemplateParameter(p)
			index++
			continue
		}
		cd, err := buildClassDecl(c, n, true, addToScope)
		if err != nil {
			return nil, err
		}
		if cd != nil {
			t.SetPattern(cd)
		}
	}

	if err := c.keyClassTemplate(t, id); err != nil {
		return nil, err
	}
	return t, nil
}

// buildTypeTemplateParameter builds a type parameter from a
// "template-type-parameter" node.
func buildTypeTemplateParameter(c *context, node *xmlcursor.Node, index int, updateDepth bool) (*ir.TypeTemplateParameter, error) {
	if node.Name != "template-type-parameter" {
		return nil, nil
	}

	id := attrString(node, "id")
	if id != "" && c.typeByID(id) != nil {
		return nil, c.errorf(diag.KeyDuplicateID, "template-type-parameter reuses type id %q", id)
	}

	if typeID := attrString(node, "type-id"); typeID != "" {
		if _, ok := c.typeByID(typeID).(*ir.TypeTemplateParameter); !ok {
			return nil, c.errorf(diag.RefUnresolvedType,
				"template-type-parameter: type-id %q names no type parameter", typeID)
		}
	}

	name := attrString(node, "name")
	loc := readLocation(c, node)

	p := ir.NewTypeTemplateParameter(index, name, loc)
	if id == "" {
		c.pushDeclNode(p, node, updateDepth, true)
		return p, nil
	}
	if err := c.pushAndKeyTypeNode(p, id, node, updateDepth, true); err != nil {
		return nil, err
	}
	return p, nil
}

// buildTypeComposition builds a composed pointer/reference/qualified type
// from a "template-parameter-type-composition" node.
func buildTypeComposition(c *context, node *xmlcursor.Node, index int, updateDepth bool) (*ir.TypeComposition, error) {
	if node.Name != "template-parameter-type-composition" {
		return nil, nil
	}

	p := ir.NewTypeComposition(index, nil)
	c.pushDeclNode(p, node, updateDepth, true)

	for _, n := range node.Children {
		var composed ir.Type
		if t, err := buildPointerType(c, n, true, true); err != nil {
			return nil, err
		} else if t != nil {
			composed = t
		} else if t, err := buildReferenceType(c, n, true, true); err != nil {
			return nil, err
		} else if t != nil {
			composed = t
		} else if t, err := buildQualifiedType(c, n, true, true); err != nil {
			return nil, err
		} else if t != nil {
			composed = t
		}
		if composed != nil {
			p.SetComposedType(composed)
			break
		}
	}
	return p, nil
}

// buildNonTypeTemplateParameter builds a value parameter from a
// "template-non-type-parameter" node.
func buildNonTypeTemplateParameter(c *context, node *xmlcursor.Node, index int, updateDepth bool) (*ir.NonTypeTemplateParameter, error) {
	if node.Name != "template-non-type-parameter" {
		return nil, nil
	}

	typeID := attrString(node, "type-id")
	typ := c.typeByID(typeID)
	if typ == nil {
		return nil, c.errorf(diag.RefUnresolvedType,
			"template-non-type-parameter: type-id %q is unknown", typeID)
	}

	name := attrString(node, "name")
	loc := readLocation(c, node)

	p := ir.NewNonTypeTemplateParameter(index, name, typ, loc)
	c.pushDeclNode(p, node, updateDepth, true)
	return p, nil
}

// buildTemplateTemplateParameter builds a template-template parameter and
// its nested parameter list from a "template-template-parameter" node.
func buildTemplateTemplateParameter(c *context, node *xmlcursor.Node, index int, updateDepth bool) (*ir.TemplateTemplateParameter, error) {
	if node.Name != "template-template-parameter" {
		return nil, nil
	}

	id, err := c.requireFreshID(node)
	if err != nil {
		return nil, err
	}

	if typeID := attrString(node, "type-id"); typeID != "" {
		if _, ok := c.typeByID(typeID).(*ir.TemplateTemplateParameter); !ok {
			return nil, c.errorf(diag.RefUnresolvedType,
				"template-template-parameter: type-id %q names no template parameter", typeID)
		}
	}

	name := attrString(node, "name")
	loc := readLocation(c, node)

	p := ir.NewTemplateTemplateParameter(index, name, loc)
	c.pushDeclNode(p, node, updateDepth, true)

	nested := 0
	for _, n := range node.Children {
		np, err := buildTemplateParameter(c, n, nested, true)
		if err != nil {
			return nil, err
		}
		if np != nil {
			p.AddTemplateParameter(np)
			nested++
		}
	}

	if err := c.keyType(p, id); err != nil {
		return nil, err
	}
	return p, nil
}

// buildTemplateParameter tries every template parameter kind in a fixed
// order; the first builder that recognizes the node wins.
func buildTemplateParameter(c *context, node *xmlcursor.Node, index int, updateDepth bool) (ir.TemplateParameter, error) {
	if p, err := buildTypeTemplateParameter(c, node, index, updateDepth); err != nil || p != nil {
		return nonNilParameter(p, err)
	}
	if p, err := buildNonTypeTemplateParameter(c, node, index, updateDepth); err != nil || p != nil {
		return nonNilParameter(p, err)
	}
	if p, err := buildTemplateTemplateParameter(c, node, index, updateDepth); err != nil || p != nil {
		return nonNilParameter(p, err)
	}
	if p, err := buildTypeComposition(c, node, index, updateDepth); err != nil || p != nil {
		return nonNilParameter(p, err)
	}
	return nil, nil
}

// nonNilParameter keeps a typed nil from leaking into the
// TemplateParameter interface value.
func nonNilParameter[T ir.TemplateParameter](p T, err error) (ir.TemplateParameter, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

// buildType tries every type kind in a fixed order; the first builder
// that recognizes the node wins.
func buildType(c *context, node *xmlcursor.Node, updateDepth, addToScope bool) (ir.Type, error) {
	if t, err := buildBasicType(c, node, updateDepth, addToScope); err != nil || t != nil {
		return nonNilType(t, err)
	}
	if t, err := buildQualifiedType(c, node, updateDepth, addToScope); err != nil || t != nil {
		return nonNilType(t, err)
	}
	if t, err := buildPointerType(c, node, updateDepth, addToScope); err != nil || t != nil {
		return nonNilType(t, err)
	}
	if t, err := buildReferenceType(c, node, updateDepth, addToScope); err != nil || t != nil {
		return nonNilType(t, err)
	}
	if t, err := buildEnumType(c, node, updateDepth, addToScope); err != nil || t != nil {
		return nonNilType(t, err)
	}
	if t, err := buildTypedef(c, node, updateDepth, addToScope); err != nil || t != nil {
		return nonNilType(t, err)
	}
	if t, err := buildClassDecl(c, node, updateDepth, addToScope); err != nil || t != nil {
		return nonNilType(t, err)
	}
	return nil, nil
}

// nonNilType keeps a typed nil from leaking into the Type interface value.
func nonNilType[T ir.Type](t T, err error) (ir.Type, error) {
	if err != nil {
		return nil, err
	}
	return t, nil
}

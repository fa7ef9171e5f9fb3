package reader

import (
	"abix/internal/diag"
	"abix/internal/ir"
	"abix/internal/xmlcursor"
)

// handleElement dispatches the current element of the cursor to its
// handler. Unknown tags at translation-unit level fail the parse.
func handleElement(c *context) error {
	switch c.cur.Name() {
	case "namespace-decl":
		return handleNamespaceDecl(c)
	case "type-decl":
		return handleTypeDecl(c)
	case "qualified-type-def":
		return handleQualifiedTypeDef(c)
	case "pointer-type-def":
		return handlePointerTypeDef(c)
	case "reference-type-def":
		return handleReferenceTypeDef(c)
	case "enum-decl":
		return handleEnumDecl(c)
	case "typedef-decl":
		return handleTypedefDecl(c)
	case "var-decl":
		return handleVarDecl(c)
	case "function-decl":
		return handleFunctionDecl(c)
	case "class-decl":
		return handleClassDecl(c)
	case "function-template-decl":
		return handleFunctionTemplateDecl(c)
	case "class-template-decl":
		return handleClassTemplateDecl(c)
	}
	return c.errorf(diag.SchemaUnknownElement, "unexpected element <%s>", c.cur.Name())
}

// expand snapshots the current element's subtree.
func expand(c *context) (*xmlcursor.Node, error) {
	node, err := c.cur.Expand()
	if err != nil {
		return nil, c.errorf(diag.IOCursor, "expand <%s>: %v", c.cur.Name(), err)
	}
	return node, nil
}

// handleNamespaceDecl consumes a namespace-decl as a streaming event: the
// namespace is pushed open and its members arrive as later elements.
// Namespaces only nest under the global scope or other namespaces.
func handleNamespaceDecl(c *context) error {
	s := c.currentScope()
	if s == nil {
		return c.errorf(diag.SchemaBadScope, "<namespace-decl> outside any scope")
	}
	if !ir.IsGlobalScope(s) {
		if _, ok := s.(*ir.Namespace); !ok {
			return c.errorf(diag.SchemaBadScope, "<namespace-decl> inside a %T scope", s)
		}
	}

	name := attrString(c.cur, "name")
	loc := readLocation(c, c.cur)

	c.pushDeclToScope(ir.NewNamespace(name, loc), true)
	return nil
}

// handleTypeDecl parses a type-decl element.
func handleTypeDecl(c *context) error {
	node, err := expand(c)
	if err != nil {
		return err
	}
	_, err = buildBasicType(c, node, false, true)
	return err
}

// handleQualifiedTypeDef consumes a qualified-type-def as a streaming
// event.
func handleQualifiedTypeDef(c *context) error {
	typeID := attrString(c.cur, "type-id")
	underlying := c.typeByID(typeID)
	if underlying == nil {
		return c.errorf(diag.RefUnresolvedType, "qualified-type-def: type-id %q is unknown", typeID)
	}
	id, err := c.requireFreshCursorID()
	if err != nil {
		return err
	}

	cv := ir.CVNone
	if attrYes(c.cur, "const") {
		cv |= ir.CVConst
	}
	if attrYes(c.cur, "volatile") {
		cv |= ir.CVVolatile
	}
	loc := readLocation(c, c.cur)

	return c.pushAndKeyType(ir.NewQualifiedType(underlying, cv, loc), id, true)
}

// handlePointerTypeDef consumes a pointer-type-def as a streaming event.
func handlePointerTypeDef(c *context) error {
	typeID := attrString(c.cur, "type-id")
	pointee := c.typeByID(typeID)
	if pointee == nil {
		return c.errorf(diag.RefUnresolvedType, "pointer-type-def: type-id %q is unknown", typeID)
	}
	id, err := c.requireFreshCursorID()
	if err != nil {
		return err
	}
	size, align := readSizeAndAlignment(c.cur)
	loc := readLocation(c, c.cur)

	return c.pushAndKeyType(ir.NewPointerType(pointee, size, align, loc), id, true)
}

// handleReferenceTypeDef consumes a reference-type-def as a streaming
// event.
func handleReferenceTypeDef(c *context) error {
	isLValue := attrString(c.cur, "kind") != "rvalue"

	typeID := attrString(c.cur, "type-id")
	referent := c.typeByID(typeID)
	if referent == nil {
		return c.errorf(diag.RefUnresolvedType, "reference-type-def: type-id %q is unknown", typeID)
	}
	id, err := c.requireFreshCursorID()
	if err != nil {
		return err
	}
	size, align := readSizeAndAlignment(c.cur)
	loc := readLocation(c, c.cur)

	return c.pushAndKeyType(ir.NewReferenceType(referent, isLValue, size, align, loc), id, true)
}

// handleEnumDecl parses an enum-decl element.
func handleEnumDecl(c *context) error {
	node, err := expand(c)
	if err != nil {
		return err
	}
	_, err = buildEnumType(c, node, false, true)
	return err
}

// handleTypedefDecl consumes a typedef-decl as a streaming event.
func handleTypedefDecl(c *context) error {
	name := attrString(c.cur, "name")
	typeID := attrString(c.cur, "type-id")
	underlying := c.typeByID(typeID)
	if underlying == nil {
		return c.errorf(diag.RefUnresolvedType, "typedef-decl %q: type-id %q is unknown", name, typeID)
	}
	id, err := c.requireFreshCursorID()
	if err != nil {
		return err
	}
	loc := readLocation(c, c.cur)

	return c.pushAndKeyType(ir.NewTypedefDecl(name, underlying, loc), id, true)
}

// handleVarDecl parses a var-decl element.
func handleVarDecl(c *context) error {
	node, err := expand(c)
	if err != nil {
		return err
	}
	_, err = buildVarDecl(c, node, false, true)
	return err
}

// handleFunctionDecl parses a function-decl element. Builder failures
// propagate; earlier revisions of the format reader swallowed them here.
func handleFunctionDecl(c *context) error {
	node, err := expand(c)
	if err != nil {
		return err
	}
	_, err = buildFunctionDecl(c, node, nil, false, true)
	return err
}

// handleClassDecl parses a class-decl element.
func handleClassDecl(c *context) error {
	node, err := expand(c)
	if err != nil {
		return err
	}
	_, err = buildClassDecl(c, node, false, true)
	return err
}

// handleFunctionTemplateDecl parses a function-template-decl element.
func handleFunctionTemplateDecl(c *context) error {
	node, err := expand(c)
	if err != nil {
		return err
	}
	t, err := buildFunctionTemplate(c, node, false, true)
	if err != nil {
		return err
	}
	if t == nil {
		return c.errorf(diag.KeyEmptyID, "<function-template-decl> carries no usable id")
	}
	return nil
}

// handleClassTemplateDecl parses a class-template-decl element.
func handleClassTemplateDecl(c *context) error {
	node, err := expand(c)
	if err != nil {
		return err
	}
	t, err := buildClassTemplate(c, node, false, true)
	if err != nil {
		return err
	}
	if t == nil {
		return c.errorf(diag.KeyEmptyID, "<class-template-decl> carries no usable id")
	}
	return nil
}

// requireFreshCursorID is requireFreshID for streaming handlers.
func (c *context) requireFreshCursorID() (string, error) {
	id := attrString(c.cur, "id")
	if id == "" {
		return "", c.errorf(diag.KeyEmptyID, "<%s> carries no id", c.cur.Name())
	}
	if c.typeByID(id) != nil {
		return "", c.errorf(diag.KeyDuplicateID, "<%s> reuses type id %q", c.cur.Name(), id)
	}
	return id, nil
}

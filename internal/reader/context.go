// Package reader de-serializes ABI instrumentation XML documents into the
// ir declaration graph. It accepts a single translation unit rooted at
// <abi-instr>, a corpus rooted at <abi-corpus>, or a ZIP archive of
// per-unit documents.
package reader

import (
	"fmt"

	"abix/internal/diag"
	"abix/internal/ir"
	"abix/internal/xmlcursor"
)

// context carries the mutable state of one parse: the cursor, the depth
// counter, the three symbol tables and the stack of declarations forming
// the current lexical path.
type context struct {
	cur  *xmlcursor.Cursor
	path string

	depth int

	types          map[string]ir.Type
	fnTemplates    map[string]*ir.FunctionTemplate
	classTemplates map[string]*ir.ClassTemplate

	decls []ir.Decl
	unit  *ir.TranslationUnit
}

func newContext(cur *xmlcursor.Cursor, path string) *context {
	return &context{
		cur:            cur,
		path:           path,
		types:          make(map[string]ir.Type),
		fnTemplates:    make(map[string]*ir.FunctionTemplate),
		classTemplates: make(map[string]*ir.ClassTemplate),
	}
}

// errorf builds an error-severity diagnostic bound to this document.
func (c *context) errorf(code diag.Code, format string, args ...any) error {
	return diag.NewError(code, fmt.Sprintf(format, args...)).WithPath(c.path)
}

// currentDecl returns the top of the declaration stack, or nil.
func (c *context) currentDecl() ir.Decl {
	if len(c.decls) == 0 {
		return nil
	}
	return c.decls[len(c.decls)-1]
}

// currentScope returns the nearest enclosing scope: the current decl when
// it is itself a scope, its scope otherwise, or nil on an empty stack.
func (c *context) currentScope() ir.Scope {
	d := c.currentDecl()
	if d == nil {
		return nil
	}
	if s, ok := d.(ir.Scope); ok {
		return s
	}
	return d.Scope()
}

func (c *context) pushDecl(d ir.Decl) {
	c.decls = append(c.decls, d)
}

// popDecl pops and returns the top declaration, or nil on an empty stack.
func (c *context) popDecl() ir.Decl {
	if len(c.decls) == 0 {
		return nil
	}
	d := c.decls[len(c.decls)-1]
	c.decls = c.decls[:len(c.decls)-1]
	return d
}

func (c *context) clearTypes() {
	c.types = make(map[string]ir.Type)
}

// typeByID resolves a type id, returning nil on a miss.
func (c *context) typeByID(id string) ir.Type { return c.types[id] }

// keyType associates an ID with a type. Keying an ID twice is a
// consistency violation.
func (c *context) keyType(t ir.Type, id string) error {
	if _, dup := c.types[id]; dup {
		return c.errorf(diag.KeyDuplicateID, "type id %q keyed twice", id)
	}
	c.types[id] = t
	return nil
}

// keyTypeReplacement associates an ID with a type, overwriting any prior
// entry. Used when a class definition supersedes its declaration-only
// placeholder; the placeholder node stays alive through the definition's
// back-reference.
func (c *context) keyTypeReplacement(t ir.Type, id string) {
	c.types[id] = t
}

func (c *context) fnTemplateByID(id string) *ir.FunctionTemplate { return c.fnTemplates[id] }

func (c *context) keyFnTemplate(t *ir.FunctionTemplate, id string) error {
	if _, dup := c.fnTemplates[id]; dup {
		return c.errorf(diag.KeyDuplicateID, "function template id %q keyed twice", id)
	}
	c.fnTemplates[id] = t
	return nil
}

func (c *context) classTemplateByID(id string) *ir.ClassTemplate { return c.classTemplates[id] }

func (c *context) keyClassTemplate(t *ir.ClassTemplate, id string) error {
	if _, dup := c.classTemplates[id]; dup {
		return c.errorf(diag.KeyDuplicateID, "class template id %q keyed twice", id)
	}
	c.classTemplates[id] = t
	return nil
}

// pushDeclToScope attaches d to the current scope when requested, then
// pushes it so nested builders see it as their context.
func (c *context) pushDeclToScope(d ir.Decl, addToScope bool) {
	if addToScope {
		ir.AddDeclToScope(d, c.currentScope())
	}
	c.pushDecl(d)
}

// pushDeclNode is pushDeclToScope for the expand-and-build path. When
// updateDepth is set the context first re-synchronizes its depth from the
// subtree node; callers that reached the node through advanceCursor pass
// false because the advance already updated it.
func (c *context) pushDeclNode(d ir.Decl, node *xmlcursor.Node, updateDepth, addToScope bool) {
	if updateDepth {
		c.updateFromNode(node)
	}
	c.pushDeclToScope(d, addToScope)
}

// pushAndKeyType attaches a type declaration to the current scope, pushes
// it and keys it in the type table.
func (c *context) pushAndKeyType(t ir.Type, id string, addToScope bool) error {
	d, ok := t.(ir.Decl)
	if !ok {
		return c.errorf(diag.UnknownCode, "type for id %q is not a declaration", id)
	}
	c.pushDeclToScope(d, addToScope)
	return c.keyType(t, id)
}

// pushAndKeyTypeNode is pushAndKeyType for the expand-and-build path.
func (c *context) pushAndKeyTypeNode(t ir.Type, id string, node *xmlcursor.Node, updateDepth, addToScope bool) error {
	if updateDepth {
		c.updateFromNode(node)
	}
	return c.pushAndKeyType(t, id, addToScope)
}

// advanceCursor moves to the next XML node and, when it lands on an
// element, re-synchronizes the scope stack against the element's depth.
func (c *context) advanceCursor() (bool, error) {
	ok, err := c.cur.Read()
	if err != nil {
		return false, c.errorf(diag.IOCursor, "advance: %v", err)
	}
	if ok && c.cur.Kind() == xmlcursor.KindElement {
		c.updateDepth(c.cur.Depth())
	}
	return ok, nil
}

// advanceToElement advances until the cursor sits on an element node.
// Returns false when the document ends first.
func (c *context) advanceToElement() (bool, error) {
	for {
		if c.cur.Kind() == xmlcursor.KindElement {
			return true, nil
		}
		ok, err := c.advanceCursor()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
}

// updateFromNode re-synchronizes the depth counter from a detached
// subtree node instead of the cursor.
func (c *context) updateFromNode(n *xmlcursor.Node) {
	if n.Depth >= 0 {
		c.updateDepth(n.Depth)
	}
}

// updateDepth maintains the scope stack against the streaming depth
// signal. Descending defers any change to the element's handler.
// Ascending or moving sideways pops one entry per level left, plus the
// level of the element itself.
//
// The class-member adjustment: members of a class are wrapped in an extra
// XML element (data-member > var-decl and friends) that corresponds to a
// single IR node, so when a popped declaration sits in class scope and at
// least two pops remain, one pop is skipped. The XML layer reports no
// reliable end-of-element signal here, which is why the stack is
// reconciled from depth deltas at all.
func (c *context) updateDepth(newDepth int) {
	if newDepth <= c.depth {
		for nb := c.depth - newDepth + 1; nb > 0; nb-- {
			d := c.popDecl()
			if ir.AtClassScope(d) && nb > 2 {
				nb--
			}
		}
	}
	c.depth = newDepth
}

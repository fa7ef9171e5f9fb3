// Package xmlcursor wraps encoding/xml's token stream in the pull-cursor
// shape the ABI reader consumes: advance, inspect the current node, and
// expand the current element into a detached subtree.
package xmlcursor

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// NodeKind enumerates the node kinds the cursor distinguishes.
type NodeKind uint8

const (
	KindNone NodeKind = iota
	KindElement
	KindEndElement
	KindText
	KindOther
)

func (k NodeKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindElement:
		return "element"
	case KindEndElement:
		return "end-element"
	case KindText:
		return "text"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("NodeKind(%d)", k)
	}
}

// Cursor is a forward-only reader over one XML document.
//
// Depth numbering follows the convention of the dump format's producers:
// the document root element sits at depth 0, its children at depth 1.
// End-element nodes are reported but carry no attributes.
type Cursor struct {
	dec   *xml.Decoder
	kind  NodeKind
	name  string
	attrs []xml.Attr
	depth int
	open  int
}

// New creates a cursor over the document carried by r.
// Non-UTF-8 documents are transcoded through the IANA charset index.
func New(r io.Reader) *Cursor {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	return &Cursor{dec: dec, kind: KindNone, depth: -1}
}

// FromBytes creates a cursor over an in-memory document.
func FromBytes(buf []byte) *Cursor {
	return New(bytes.NewReader(buf))
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported document charset %q", charset)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

// Read advances the cursor to the next node.
// Returns false with a nil error when the document is exhausted.
func (c *Cursor) Read() (bool, error) {
	tok, err := c.dec.Token()
	if err == io.EOF {
		c.kind = KindNone
		c.name = ""
		c.attrs = nil
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch t := tok.(type) {
	case xml.StartElement:
		c.kind = KindElement
		c.name = t.Name.Local
		c.attrs = append([]xml.Attr(nil), t.Attr...)
		c.depth = c.open
		c.open++
	case xml.EndElement:
		c.kind = KindEndElement
		c.name = t.Name.Local
		c.attrs = nil
		c.open--
		c.depth = c.open
	case xml.CharData:
		c.kind = KindText
		c.name = ""
		c.attrs = nil
	default:
		c.kind = KindOther
		c.name = ""
		c.attrs = nil
	}
	return true, nil
}

// Kind returns the kind of the current node.
func (c *Cursor) Kind() NodeKind { return c.kind }

// Name returns the element name of the current node, or "" for non-elements.
func (c *Cursor) Name() string { return c.name }

// Depth returns the depth of the current node; the root element is depth 0.
func (c *Cursor) Depth() int { return c.depth }

// Attr looks up an attribute on the current element node by local name.
func (c *Cursor) Attr(name string) (string, bool) {
	return lookupAttr(c.attrs, name)
}

// Node is a detached element subtree produced by Expand.
type Node struct {
	// Name is the element tag name.
	Name string
	// Depth is the element's absolute depth in the source document.
	Depth int
	// Children holds the child elements in document order.
	Children []*Node

	attrs []xml.Attr
}

// Attr looks up an attribute by local name.
func (n *Node) Attr(name string) (string, bool) {
	return lookupAttr(n.attrs, name)
}

func lookupAttr(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Expand consumes the rest of the current element and returns it as a
// detached subtree. The cursor keeps reporting the expanded element as its
// current node; the next Read lands on the node following the subtree.
func (c *Cursor) Expand() (*Node, error) {
	if c.kind != KindElement {
		return nil, fmt.Errorf("expand: cursor is on a %s node, not an element", c.kind)
	}

	root := &Node{Name: c.name, Depth: c.depth, attrs: c.attrs}
	stack := []*Node{root}
	for len(stack) > 0 {
		tok, err := c.dec.Token()
		if err != nil {
			// io.EOF inside an open element is a malformed document.
			return nil, fmt.Errorf("expand %q: %w", root.Name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				Name:  t.Name.Local,
				Depth: c.open,
				attrs: append([]xml.Attr(nil), t.Attr...),
			}
			c.open++
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
			stack = append(stack, n)
		case xml.EndElement:
			c.open--
			stack = stack[:len(stack)-1]
		}
	}
	return root, nil
}

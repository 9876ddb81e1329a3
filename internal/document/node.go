package document

import (
	"io"
	"strconv"
)

// Record kinds written by the scene manager.
const (
	KindState              = "State"
	KindOriginalDataSource = "OriginalDataSource"
	KindDataSource         = "DataSource"
	KindModule             = "Module"
	KindLayout             = "Layout"
	KindView               = "View"
)

// Attr is a single named text attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is one record of the persisted tree.
type Node struct {
	Kind     string
	attrs    []Attr
	children []*Node
}

// NewNode creates an empty node of the given kind.
func NewNode(kind string) *Node {
	return &Node{Kind: kind}
}

// Attrs returns a copy of the node's attributes in insertion order.
func (n *Node) Attrs() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// SetAttr sets an attribute, replacing an existing value in place.
func (n *Node) SetAttr(name, value string) {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Name: name, Value: value})
}

// SetUint sets a numeric attribute written as a decimal string.
func (n *Node) SetUint(name string, v uint32) {
	n.SetAttr(name, strconv.FormatUint(uint64(v), 10))
}

// SetInt sets a signed numeric attribute.
func (n *Node) SetInt(name string, v int) {
	n.SetAttr(name, strconv.Itoa(v))
}

// SetBool writes "1" or "0".
func (n *Node) SetBool(name string, v bool) {
	if v {
		n.SetAttr(name, "1")
		return
	}
	n.SetAttr(name, "0")
}

// Attr returns the raw attribute value and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// Uint parses an unsigned attribute. Missing or malformed values yield 0,
// which is never a valid proxy ID.
func (n *Node) Uint(name string) uint32 {
	v, ok := n.Attr(name)
	if !ok {
		return 0
	}
	u, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(u)
}

// Int parses a signed attribute, returning def when missing or malformed.
func (n *Node) Int(name string, def int) int {
	v, ok := n.Attr(name)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// Bool parses "1"/"true" style attributes, returning def when missing.
func (n *Node) Bool(name string, def bool) bool {
	v, ok := n.Attr(name)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// AppendChild creates a child of the given kind at the end of the child list.
func (n *Node) AppendChild(kind string) *Node {
	c := NewNode(kind)
	n.children = append(n.children, c)
	return c
}

// AddChild appends an existing node.
func (n *Node) AddChild(c *Node) {
	n.children = append(n.children, c)
}

// RemoveChild detaches c by identity. It reports whether c was a child.
func (n *Node) RemoveChild(c *Node) bool {
	for i, child := range n.children {
		if child == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return true
		}
	}
	return false
}

// Children returns the children of the given kind in document order. An
// empty kind returns all children.
func (n *Node) Children(kind string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if kind == "" || c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first child of the given kind, or nil.
func (n *Node) Child(kind string) *Node {
	for _, c := range n.children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Codec turns a node tree into bytes and back.
type Codec interface {
	Encode(w io.Writer, root *Node) error
	Decode(r io.Reader) (*Node, error)
}

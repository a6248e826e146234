package parse

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
)

// ErrBadXML wraps any XML decode failure.
var ErrBadXML = errors.New("unreadable xml")

// Node is a generic XML element: name, attributes and child elements.
// Handlers navigate the feed through it instead of per-message typed
// structs, because ODF shapes share most of their element vocabulary
// and carry provider-specific extensions.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []Node     `xml:",any"`
}

// ParseDocument decodes raw XML bytes into a node tree.
func ParseDocument(raw []byte) (*Node, error) {
	var root Node
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadXML, err)
	}
	return &root, nil
}

// Attr returns the value of the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// HasAttr reports whether the named attribute is present.
func (n *Node) HasAttr(name string) bool {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return true
		}
	}
	return false
}

// Child returns the first direct child with the given element name.
func (n *Node) Child(name string) *Node {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return &n.Children[i]
		}
	}
	return nil
}

// ChildWhere returns the first direct child with the given element name
// whose attribute matches, falling back to the first name match when no
// attribute matches. Mirrors the feed convention of preferring the ENG
// language variant.
func (n *Node) ChildWhere(name, attr, value string) *Node {
	for i := range n.Children {
		c := &n.Children[i]
		if c.XMLName.Local == name && c.Attr(attr) == value {
			return c
		}
	}
	return n.Child(name)
}

// ChildrenNamed returns every direct child with the given element name.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			out = append(out, &n.Children[i])
		}
	}
	return out
}

// Path walks a chain of first-match child names and returns the final
// node, or nil when any hop is missing.
func (n *Node) Path(names ...string) *Node {
	cur := n
	for _, name := range names {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Descendants collects every node named name anywhere under n,
// depth-first.
func (n *Node) Descendants(name string) []*Node {
	var out []*Node
	var walk func(node *Node)
	walk = func(node *Node) {
		for i := range node.Children {
			c := &node.Children[i]
			if c.XMLName.Local == name {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// FindDescendant returns the first node named name anywhere under n.
func (n *Node) FindDescendant(name string) *Node {
	for i := range n.Children {
		c := &n.Children[i]
		if c.XMLName.Local == name {
			return c
		}
		if found := c.FindDescendant(name); found != nil {
			return found
		}
	}
	return nil
}

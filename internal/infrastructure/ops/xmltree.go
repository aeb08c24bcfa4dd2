package ops

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one element of a parsed OPS response. The published-data schema
// varies across document types and eras, so responses are kept as a generic
// element tree and probed with ordered path chains instead of being decoded
// into fixed structs. Namespace prefixes are dropped; OPS local names are
// unambiguous within a response.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node

	text string
}

// ParseXML decodes an XML body into an element tree and returns the root
// element.
func ParseXML(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml parse: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local, Attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("xml parse: empty document")
	}
	return root, nil
}

// Attr returns the value of the named attribute, or "".
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	return n.Attrs[name]
}

// Text returns the element's own character data, trimmed.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.text)
}

// DeepText returns the first non-blank character data found in the element
// or any descendant, in document order.
func (n *Node) DeepText() string {
	if n == nil {
		return ""
	}
	if t := n.Text(); t != "" {
		return t
	}
	for _, c := range n.Children {
		if t := c.DeepText(); t != "" {
			return t
		}
	}
	return ""
}

// step is one segment of a lookup path. A descendant step matches at any
// depth below the current node; a child step matches direct children only.
type step struct {
	name       string
	attrKey    string
	attrVal    string
	descendant bool
}

// parsePath splits a lookup path into steps. Segments are separated by "/";
// a doubled separator marks the following segment as a descendant step, as
// in "applicant//name". The first segment is always a descendant step so
// every lookup starts as "anywhere under this node". A segment may carry
// one attribute predicate: "document-id[@document-id-type='epodoc']".
func parsePath(path string) []step {
	segments := strings.Split(path, "/")
	steps := make([]step, 0, len(segments))
	descendant := true
	for _, seg := range segments {
		if seg == "" {
			descendant = true
			continue
		}
		s := step{descendant: descendant}
		descendant = false
		if i := strings.Index(seg, "[@"); i >= 0 {
			s.name = seg[:i]
			pred := strings.TrimSuffix(seg[i+2:], "]")
			if eq := strings.Index(pred, "="); eq >= 0 {
				s.attrKey = pred[:eq]
				s.attrVal = strings.Trim(pred[eq+1:], "'\"")
			}
		} else {
			s.name = seg
		}
		steps = append(steps, s)
	}
	return steps
}

func (s step) matches(n *Node) bool {
	if n.Name != s.name {
		return false
	}
	return s.attrKey == "" || n.Attrs[s.attrKey] == s.attrVal
}

// collectDescendants appends every node at or below each child of n that
// matches s, in document order.
func collectDescendants(n *Node, s step, out []*Node) []*Node {
	for _, c := range n.Children {
		if s.matches(c) {
			out = append(out, c)
		}
		out = collectDescendants(c, s, out)
	}
	return out
}

// FindAll returns every node reached by walking the path from n, in
// document order.
func (n *Node) FindAll(path string) []*Node {
	if n == nil {
		return nil
	}
	current := []*Node{n}
	for _, s := range parsePath(path) {
		var next []*Node
		for _, cur := range current {
			if s.descendant {
				next = collectDescendants(cur, s, next)
			} else {
				for _, c := range cur.Children {
					if s.matches(c) {
						next = append(next, c)
					}
				}
			}
		}
		current = next
		if len(current) == 0 {
			return nil
		}
	}
	return current
}

// First returns the first node reached by the path, or nil.
func (n *Node) First(path string) *Node {
	found := n.FindAll(path)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// FirstText returns the trimmed text of the first node reached by the
// path, or "".
func (n *Node) FirstText(path string) string {
	return n.First(path).Text()
}

// firstTextOf probes the ordered candidate paths and returns the first
// non-empty text value, or "". This is the core of the schema-tolerant
// extraction: narrow, specific paths come before broad ones so a specific
// node is never shadowed by an unrelated one deeper in the document.
func firstTextOf(n *Node, paths []string) string {
	for _, p := range paths {
		if v := n.FirstText(p); v != "" {
			return v
		}
	}
	return ""
}

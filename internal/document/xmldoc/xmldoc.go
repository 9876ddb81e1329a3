// Package xmldoc encodes document trees as XML, the layout used by state
// files of the original desktop application.
package xmldoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/voxview/internal/document"
)

// Codec implements document.Codec for XML.
type Codec struct{}

// New returns an XML codec.
func New() *Codec {
	return &Codec{}
}

// Encode writes root and its subtree as indented XML.
func (c *Codec) Encode(w io.Writer, root *document.Node) error {
	if root == nil {
		return fmt.Errorf("xmldoc: nil root")
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := writeNode(enc, root); err != nil {
		return err
	}
	return enc.Flush()
}

func writeNode(enc *xml.Encoder, n *document.Node) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Kind}}
	for _, a := range n.Attrs() {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("xmldoc: encode %s: %w", n.Kind, err)
	}
	for _, child := range n.Children("") {
		if err := writeNode(enc, child); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// Decode parses XML into a document tree. The root element's name becomes
// the root node kind.
func (c *Codec) Decode(r io.Reader) (*document.Node, error) {
	dec := xml.NewDecoder(r)
	var root *document.Node
	var stack []*document.Node

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmldoc: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			var n *document.Node
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("xmldoc: multiple root elements")
				}
				n = document.NewNode(t.Name.Local)
				root = n
			} else {
				n = stack[len(stack)-1].AppendChild(t.Name.Local)
			}
			for _, a := range t.Attr {
				n.SetAttr(a.Name.Local, a.Value)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, fmt.Errorf("xmldoc: document has no root element")
	}
	return root, nil
}

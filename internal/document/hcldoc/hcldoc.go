// Package hcldoc encodes document trees as HCL. Every node kind becomes a
// block type, every attribute a string attribute, and the root node's
// attributes become top-level attributes of the file.
package hcldoc

import (
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/voxview/internal/document"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Codec implements document.Codec for HCL.
type Codec struct {
	// Filename is reported in parse diagnostics.
	Filename string
}

// New returns an HCL codec reporting diagnostics against filename.
func New(filename string) *Codec {
	return &Codec{Filename: filename}
}

// Encode writes root as an HCL file.
func (c *Codec) Encode(w io.Writer, root *document.Node) error {
	if root == nil {
		return fmt.Errorf("hcldoc: nil root")
	}
	f := hclwrite.NewEmptyFile()
	if err := writeBody(f.Body(), root); err != nil {
		return err
	}
	_, err := w.Write(f.Bytes())
	return err
}

func writeBody(body *hclwrite.Body, n *document.Node) error {
	for _, a := range n.Attrs() {
		if !hclsyntax.ValidIdentifier(a.Name) {
			return fmt.Errorf("hcldoc: attribute name %q on %s is not a valid identifier", a.Name, n.Kind)
		}
		body.SetAttributeValue(a.Name, cty.StringVal(a.Value))
	}
	for _, child := range n.Children("") {
		if !hclsyntax.ValidIdentifier(child.Kind) {
			return fmt.Errorf("hcldoc: node kind %q is not a valid identifier", child.Kind)
		}
		block := body.AppendNewBlock(child.Kind, nil)
		if err := writeBody(block.Body(), child); err != nil {
			return err
		}
	}
	return nil
}

// Decode parses an HCL file into a document tree rooted at a State node.
func (c *Codec) Decode(r io.Reader) (*document.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("hcldoc: read: %w", err)
	}
	filename := c.Filename
	if filename == "" {
		filename = "state.vxs"
	}
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("hcldoc: failed to parse %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("hcldoc: unexpected body type %T", file.Body)
	}

	root := document.NewNode(document.KindState)
	if err := readBody(root, body); err != nil {
		return nil, err
	}
	return root, nil
}

func readBody(n *document.Node, body *hclsyntax.Body) error {
	// Attributes arrive as a map; source order keeps the round trip stable.
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, a := range body.Attributes {
		attrs = append(attrs, a)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})

	for _, a := range attrs {
		val, diags := a.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("hcldoc: attribute %q of %s: %w", a.Name, n.Kind, diags)
		}
		s, err := toString(val)
		if err != nil {
			return fmt.Errorf("hcldoc: attribute %q of %s: %w", a.Name, n.Kind, err)
		}
		n.SetAttr(a.Name, s)
	}

	for _, b := range body.Blocks {
		if err := readBody(n.AppendChild(b.Type), b.Body); err != nil {
			return err
		}
	}
	return nil
}

func toString(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", nil
	}
	if !val.IsKnown() {
		return "", fmt.Errorf("value is not known")
	}
	sv, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", err
	}
	return sv.AsString(), nil
}

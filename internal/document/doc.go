// Package document defines the hierarchical, format-agnostic node tree used
// to persist the scene graph.
//
// A Node has a kind (OriginalDataSource, DataSource, Module, Layout, View, or
// any nested kind a collaborator chooses), an ordered list of text attributes
// and an ordered list of children. Concrete encodings live in the hcldoc and
// xmldoc sub-packages; the manager never sees bytes, only Nodes.
package document

package testutil

import (
	"errors"
	"reflect"

	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/module"
	"github.com/specialistvlad/voxview/internal/proxy"
	"github.com/specialistvlad/voxview/internal/registry"
)

// StubType is the type name StubProvider registers.
const StubType = "Stub"

// StubProvider registers StubModule under StubType.
type StubProvider struct{}

// Register implements the registry.Provider interface.
func (StubProvider) Register(r *registry.Registry) {
	r.RegisterModule(StubType, &registry.RegisteredModule{
		Type: reflect.TypeOf((*StubModule)(nil)),
		New:  func() module.Module { return &StubModule{} },
	})
}

// StubModule is a module with one display proxy and configurable failures.
// Finalized counts Finalize calls so tests can check for double release.
type StubModule struct {
	module.Base

	FailInitialize  error
	FailSerialize   error
	FailDeserialize error

	Finalized int
	Restored  string
}

func (m *StubModule) Initialize(ds *datasource.DataSource, view proxy.View) error {
	return m.Init(ds, view, func() error {
		p, err := m.Create(proxy.GroupRepresentations, proxy.GroupRepresentations, "GeometryRepresentation")
		if err != nil {
			return err
		}
		m.Display(p)
		return m.FailInitialize
	})
}

func (m *StubModule) Finalize() error {
	m.Finalized++
	return m.Release()
}

func (m *StubModule) SetVisibility(v bool) error {
	module.MustBeInitialized(m, "SetVisibility")
	m.SetVisible(v)
	return nil
}

func (m *StubModule) Visibility() bool {
	module.MustBeInitialized(m, "Visibility")
	return m.Visible()
}

func (m *StubModule) Serialize(node *document.Node) error {
	if m.FailSerialize != nil {
		return m.FailSerialize
	}
	m.WriteVisibility(node)
	node.SetAttr("stub", "1")
	return nil
}

func (m *StubModule) Deserialize(node *document.Node) error {
	if m.FailDeserialize != nil {
		return m.FailDeserialize
	}
	if _, ok := node.Attr("stub"); !ok {
		return errors.New("stub: missing stub attribute")
	}
	m.Restored, _ = node.Attr("stub")
	m.ReadVisibility(node)
	return nil
}

func (m *StubModule) Label() string { return "Stub" }
func (m *StubModule) Icon() string  { return "" }

// Package outline implements the Outline module, which draws the bounding
// box of a DataSource.
package outline

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/module"
	"github.com/specialistvlad/voxview/internal/proxy"
	"github.com/specialistvlad/voxview/internal/registry"
)

// TypeName is the name the variant is registered and serialized under.
const TypeName = "Outline"

// KindRepresentation holds the representation's property dump.
const KindRepresentation = "Representation"

// Provider implements the registry.Provider interface for this package.
type Provider struct{}

// Register registers the Outline variant.
func (Provider) Register(r *registry.Registry) {
	r.RegisterModule(TypeName, &registry.RegisteredModule{
		Type: reflect.TypeOf((*Outline)(nil)),
		New:  func() module.Module { return New() },
	})
}

// Outline feeds the producer through an outline filter into a geometry
// representation shown in the view.
type Outline struct {
	module.Base
	filter         proxy.Proxy
	representation proxy.Proxy
}

// New returns an uninitialized Outline.
func New() *Outline {
	return &Outline{}
}

func (o *Outline) Initialize(ds *datasource.DataSource, view proxy.View) error {
	return o.Init(ds, view, func() error {
		filter, err := o.Create(proxy.GroupSources, proxy.GroupFilters, "OutlineFilter")
		if err != nil {
			return fmt.Errorf("outline: %w", err)
		}
		filter.SetProxyProperty(module.PropInput, ds.Producer())
		o.filter = filter

		rep, err := o.Create(proxy.GroupRepresentations, proxy.GroupRepresentations, "GeometryRepresentation")
		if err != nil {
			return fmt.Errorf("outline: %w", err)
		}
		rep.SetProxyProperty(module.PropInput, filter)
		o.Display(rep)
		o.representation = rep
		return nil
	})
}

func (o *Outline) Finalize() error {
	o.filter = nil
	o.representation = nil
	return o.Release()
}

func (o *Outline) SetVisibility(visible bool) error {
	module.MustBeInitialized(o, "SetVisibility")
	o.SetVisible(visible)
	return nil
}

func (o *Outline) Visibility() bool {
	module.MustBeInitialized(o, "Visibility")
	return o.Visible()
}

func (o *Outline) Serialize(node *document.Node) error {
	if o.representation == nil {
		return errors.New("outline: no representation to serialize")
	}
	o.WriteVisibility(node)
	rep := node.AppendChild(KindRepresentation)
	if err := o.DataSource().ProxyManager().Serialize(o.representation, rep); err != nil {
		return fmt.Errorf("outline: serialize representation: %w", err)
	}
	return nil
}

func (o *Outline) Deserialize(node *document.Node) error {
	if o.representation == nil {
		return errors.New("outline: no representation to deserialize into")
	}
	if rep := node.Child(KindRepresentation); rep != nil {
		if err := o.DataSource().ProxyManager().Deserialize(o.representation, rep, nil); err != nil {
			return fmt.Errorf("outline: deserialize representation: %w", err)
		}
	}
	o.ReadVisibility(node)
	return nil
}

func (o *Outline) Label() string { return "Outline" }
func (o *Outline) Icon() string  { return ":/icons/pqProbeLocation24.png" }

// Representation returns the geometry representation, nil before Initialize.
func (o *Outline) Representation() proxy.Proxy {
	return o.representation
}

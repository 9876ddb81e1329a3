// Package volume implements the Volume module, a direct volume rendering of
// a DataSource coloured by its colour map.
package volume

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
const TypeName = "Volume"

const propShade = "Shade"

// Provider implements the registry.Provider interface for this package.
type Provider struct{}

// Register registers the Volume variant.
func (Provider) Register(r *registry.Registry) {
	r.RegisterModule(TypeName, &registry.RegisteredModule{
		Type: reflect.TypeOf((*Volume)(nil)),
		New:  func() module.Module { return New() },
	})
}

type Volume struct {
	module.Base
	representation proxy.Proxy
	shade          bool
}

// New returns an uninitialized Volume.
func New() *Volume {
	return &Volume{}
}

func (v *Volume) Initialize(ds *datasource.DataSource, view proxy.View) error {
	return v.Init(ds, view, func() error {
		lut, err := ds.ColorMap()
		if err != nil {
			return fmt.Errorf("volume: %w", err)
		}
		rep, err := v.Create(proxy.GroupRepresentations, proxy.GroupRepresentations, "VolumeRepresentation")
		if err != nil {
			return fmt.Errorf("volume: %w", err)
		}
		rep.SetProxyProperty(module.PropInput, ds.Producer())
		rep.SetProxyProperty("LookupTable", lut)
		v.Display(rep)
		v.representation = rep
		v.SetShade(v.shade)
		return nil
	})
}

func (v *Volume) Finalize() error {
	v.representation = nil
	return v.Release()
}

func (v *Volume) SetVisibility(visible bool) error {
	module.MustBeInitialized(v, "SetVisibility")
	v.SetVisible(visible)
	return nil
}

func (v *Volume) Visibility() bool {
	module.MustBeInitialized(v, "Visibility")
	return v.Visible()
}

// Shade reports whether lighting is applied to the volume.
func (v *Volume) Shade() bool { return v.shade }

// SetShade toggles lighting.
func (v *Volume) SetShade(on bool) {
	v.shade = on
	if v.representation == nil {
		return
	}
	if on {
		v.representation.SetProperty(propShade, "1")
	} else {
		v.representation.SetProperty(propShade, "0")
	}
}

func (v *Volume) Serialize(node *document.Node) error {
	if v.representation == nil {
		return errors.New("volume: no representation to serialize")
	}
	v.WriteVisibility(node)
	node.SetBool("shade", v.shade)
	return nil
}

func (v *Volume) Deserialize(node *document.Node) error {
	if v.representation == nil {
		return errors.New("volume: no representation to deserialize into")
	}
	v.SetShade(node.Bool("shade", v.shade))
	v.ReadVisibility(node)
	return nil
}

func (v *Volume) Label() string { return "Volume" }
func (v *Volume) Icon() string  { return ":/icons/pqVolumeData16.png" }

// Representation returns the volume representation, nil before Initialize.
func (v *Volume) Representation() proxy.Proxy {
	return v.representation
}

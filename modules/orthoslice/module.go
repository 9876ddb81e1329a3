// Package orthoslice implements the Orthogonal Slice module: a single
// axis-aligned slice of a volume rendered straight from the producer.
package orthoslice

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/module"
	"github.com/specialistvlad/voxview/internal/proxy"
	"github.com/specialistvlad/voxview/internal/registry"
)

// TypeName is the name the variant is registered and serialized under.
const TypeName = "Orthogonal Slice"

// Mode is the slicing axis.
type Mode string

const (
	ModeXY Mode = "XY"
	ModeYZ Mode = "YZ"
	ModeXZ Mode = "XZ"
)

// ErrInvalidMode is returned for slice modes other than XY, YZ and XZ.
var ErrInvalidMode = errors.New("orthoslice: invalid slice mode")

const (
	propSliceMode = "SliceMode"
	propSlice     = "Slice"
)

// Provider implements the registry.Provider interface for this package.
type Provider struct{}

// Register registers the Orthogonal Slice variant.
func (Provider) Register(r *registry.Registry) {
	r.RegisterModule(TypeName, &registry.RegisteredModule{
		Type: reflect.TypeOf((*OrthoSlice)(nil)),
		New:  func() module.Module { return New() },
	})
}

// OrthoSlice shows one slice of the producer in a slice representation.
type OrthoSlice struct {
	module.Base
	representation proxy.Proxy
	mode           Mode
	slice          int
}

// New returns an uninitialized OrthoSlice on the XY plane.
func New() *OrthoSlice {
	return &OrthoSlice{mode: ModeXY}
}

func (o *OrthoSlice) Initialize(ds *datasource.DataSource, view proxy.View) error {
	return o.Init(ds, view, func() error {
		rep, err := o.Create(proxy.GroupRepresentations, proxy.GroupRepresentations, "SliceRepresentation")
		if err != nil {
			return fmt.Errorf("orthoslice: %w", err)
		}
		rep.SetProxyProperty(module.PropInput, ds.Producer())
		if arrays := ds.Producer().DataInformation().PointArrays; len(arrays) > 0 {
			lut, err := ds.ColorMap()
			if err != nil {
				return fmt.Errorf("orthoslice: %w", err)
			}
			rep.SetProxyProperty("LookupTable", lut)
		}
		o.Display(rep)
		o.representation = rep
		o.apply()
		return nil
	})
}

func (o *OrthoSlice) Finalize() error {
	o.representation = nil
	return o.Release()
}

func (o *OrthoSlice) SetVisibility(visible bool) error {
	module.MustBeInitialized(o, "SetVisibility")
	o.SetVisible(visible)
	return nil
}

func (o *OrthoSlice) Visibility() bool {
	module.MustBeInitialized(o, "Visibility")
	return o.Visible()
}

// Mode returns the slicing axis.
func (o *OrthoSlice) Mode() Mode { return o.mode }

// Slice returns the slice index along the axis.
func (o *OrthoSlice) Slice() int { return o.slice }

// SetSlice moves the slice.
func (o *OrthoSlice) SetSlice(mode Mode, index int) error {
	switch mode {
	case ModeXY, ModeYZ, ModeXZ:
	default:
		return fmt.Errorf("%w %q", ErrInvalidMode, mode)
	}
	if index < 0 {
		return fmt.Errorf("orthoslice: negative slice index %d", index)
	}
	o.mode = mode
	o.slice = index
	o.apply()
	return nil
}

func (o *OrthoSlice) apply() {
	if o.representation == nil {
		return
	}
	o.representation.SetProperty(propSliceMode, string(o.mode))
	o.representation.SetProperty(propSlice, strconv.Itoa(o.slice))
}

func (o *OrthoSlice) Serialize(node *document.Node) error {
	if o.representation == nil {
		return errors.New("orthoslice: no representation to serialize")
	}
	o.WriteVisibility(node)
	node.SetAttr("slice_mode", string(o.mode))
	node.SetInt("slice", o.slice)
	return nil
}

func (o *OrthoSlice) Deserialize(node *document.Node) error {
	if o.representation == nil {
		return errors.New("orthoslice: no representation to deserialize into")
	}
	mode := o.mode
	if raw, ok := node.Attr("slice_mode"); ok {
		mode = Mode(raw)
	}
	if err := o.SetSlice(mode, node.Int("slice", o.slice)); err != nil {
		return err
	}
	o.ReadVisibility(node)
	return nil
}

func (o *OrthoSlice) Label() string { return "Orthogonal Slice" }
func (o *OrthoSlice) Icon() string  { return ":/icons/pqSlice24.png" }

// Representation returns the slice representation, nil before Initialize.
func (o *OrthoSlice) Representation() proxy.Proxy {
	return o.representation
}

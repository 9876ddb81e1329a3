// Package slice implements the Slice module: an interactive plane widget
// cutting through a DataSource, coloured by its first point array.
package slice

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/module"
	"github.com/specialistvlad/voxview/internal/proxy"
	"github.com/specialistvlad/voxview/internal/registry"
)

// TypeName is the name the variant is registered and serialized under.
const TypeName = "Slice"

// ErrNoPointArrays is returned by Initialize when the DataSource exposes no
// point data to colour the plane with.
var ErrNoPointArrays = errors.New("slice: data source has no point arrays")

// Widget property names.
const (
	propOrigin      = "Origin"
	propNormal      = "Normal"
	propPoint1      = "Point1"
	propPoint2      = "Point2"
	propLookupTable = "LookupTable"
	propArrayName   = "ArrayName"
)

// Provider implements the registry.Provider interface for this package.
type Provider struct{}

// Register registers the Slice variant.
func (Provider) Register(r *registry.Registry) {
	r.RegisterModule(TypeName, &registry.RegisteredModule{
		Type: reflect.TypeOf((*Slice)(nil)),
		New:  func() module.Module { return New() },
	})
}

// Vec3 is a point or direction in world coordinates.
type Vec3 [3]float64

// Plane is the full state of the slicing plane.
type Plane struct {
	Origin Vec3
	Normal Vec3
	Point1 Vec3
	Point2 Vec3
}

// DefaultPlane is the axial plane through the origin.
var DefaultPlane = Plane{
	Origin: Vec3{0, 0, 0},
	Normal: Vec3{0, 0, 1},
	Point1: Vec3{1, 0, 0},
	Point2: Vec3{0, 1, 0},
}

// Slice inserts a pass-through filter after the producer and drives an
// image plane widget from it.
type Slice struct {
	module.Base
	passThrough proxy.Proxy
	widget      proxy.Proxy
	plane       Plane
}

// New returns an uninitialized Slice.
func New() *Slice {
	return &Slice{plane: DefaultPlane}
}

func (s *Slice) Initialize(ds *datasource.DataSource, view proxy.View) error {
	return s.Init(ds, view, func() error {
		pt, err := s.Create(proxy.GroupSources, proxy.GroupFilters, "PassThrough")
		if err != nil {
			return fmt.Errorf("slice: %w", err)
		}
		pt.SetProxyProperty(module.PropInput, ds.Producer())
		s.passThrough = pt

		arrays := ds.Producer().DataInformation().PointArrays
		if len(arrays) == 0 {
			return ErrNoPointArrays
		}
		lut, err := ds.ColorMap()
		if err != nil {
			return fmt.Errorf("slice: %w", err)
		}

		w, err := s.Create(proxy.GroupWidgets, proxy.GroupWidgets, "ImagePlaneWidget")
		if err != nil {
			return fmt.Errorf("slice: %w", err)
		}
		w.SetProxyProperty(module.PropInput, pt)
		w.SetProxyProperty(propLookupTable, lut)
		w.SetProperty(propArrayName, arrays[0])
		s.Display(w)
		s.widget = w
		s.applyPlane()
		return nil
	})
}

func (s *Slice) Finalize() error {
	s.passThrough = nil
	s.widget = nil
	return s.Release()
}

func (s *Slice) SetVisibility(visible bool) error {
	module.MustBeInitialized(s, "SetVisibility")
	s.SetVisible(visible)
	return nil
}

func (s *Slice) Visibility() bool {
	module.MustBeInitialized(s, "Visibility")
	return s.Visible()
}

// Plane returns the current plane state.
func (s *Slice) Plane() Plane {
	return s.plane
}

// SetPlane moves the plane. A zero normal is rejected.
func (s *Slice) SetPlane(p Plane) error {
	if p.Normal == (Vec3{}) {
		return errors.New("slice: plane normal must not be zero")
	}
	s.plane = p
	s.applyPlane()
	return nil
}

func (s *Slice) applyPlane() {
	if s.widget == nil {
		return
	}
	s.widget.SetProperty(propOrigin, s.plane.Origin.strings()...)
	s.widget.SetProperty(propNormal, s.plane.Normal.strings()...)
	s.widget.SetProperty(propPoint1, s.plane.Point1.strings()...)
	s.widget.SetProperty(propPoint2, s.plane.Point2.strings()...)
}

func (s *Slice) Serialize(node *document.Node) error {
	if s.widget == nil {
		return errors.New("slice: no plane widget to serialize")
	}
	s.WriteVisibility(node)
	node.SetAttr("origin", s.plane.Origin.String())
	node.SetAttr("normal", s.plane.Normal.String())
	node.SetAttr("point1", s.plane.Point1.String())
	node.SetAttr("point2", s.plane.Point2.String())
	return nil
}

func (s *Slice) Deserialize(node *document.Node) error {
	if s.widget == nil {
		return errors.New("slice: no plane widget to deserialize into")
	}
	p := s.plane
	for _, f := range []struct {
		attr string
		dst  *Vec3
	}{
		{"origin", &p.Origin},
		{"normal", &p.Normal},
		{"point1", &p.Point1},
		{"point2", &p.Point2},
	} {
		raw, ok := node.Attr(f.attr)
		if !ok {
			continue
		}
		v, err := ParseVec3(raw)
		if err != nil {
			return fmt.Errorf("slice: attribute %q: %w", f.attr, err)
		}
		*f.dst = v
	}
	if err := s.SetPlane(p); err != nil {
		return err
	}
	s.ReadVisibility(node)
	return nil
}

func (s *Slice) Label() string { return "Slice" }
func (s *Slice) Icon() string  { return ":/icons/pqSlice24.png" }

// Widget returns the plane widget, nil before Initialize.
func (s *Slice) Widget() proxy.Proxy {
	return s.widget
}

func (v Vec3) strings() []string {
	return []string{
		strconv.FormatFloat(v[0], 'g', -1, 64),
		strconv.FormatFloat(v[1], 'g', -1, 64),
		strconv.FormatFloat(v[2], 'g', -1, 64),
	}
}

// String formats v as three space separated numbers.
func (v Vec3) String() string {
	return strings.Join(v.strings(), " ")
}

// ParseVec3 parses the format written by Vec3.String.
func ParseVec3(s string) (Vec3, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return Vec3{}, fmt.Errorf("want 3 components, got %d in %q", len(fields), s)
	}
	var v Vec3
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Vec3{}, err
		}
		v[i] = x
	}
	return v, nil
}

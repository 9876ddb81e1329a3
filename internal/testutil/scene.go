package testutil

import (
	"testing"

	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/headless"
	"github.com/specialistvlad/voxview/internal/proxy"
	"github.com/stretchr/testify/require"
)

// Scene is a headless proxy manager with one registered layout and view,
// the minimum a module needs to be initialized.
type Scene struct {
	PM     *headless.Manager
	Layout proxy.Proxy
	View   proxy.View
}

// NewScene builds a Scene. Options are passed to the headless manager.
func NewScene(t *testing.T, opts ...headless.Option) *Scene {
	t.Helper()
	pm := headless.New(opts...)
	s := &Scene{PM: pm}

	layout, err := pm.NewProxy(proxy.GroupLayouts, "ViewLayout")
	require.NoError(t, err)
	require.NoError(t, pm.Register(proxy.GroupLayouts, layout))
	s.Layout = layout
	s.View = s.AddView(t)
	return s
}

// AddView registers another render view, attached to the scene's layout.
func (s *Scene) AddView(t *testing.T) proxy.View {
	t.Helper()
	p, err := s.PM.NewProxy(proxy.GroupViews, "RenderView")
	require.NoError(t, err)
	require.NoError(t, s.PM.Register(proxy.GroupViews, p))
	if s.Layout != nil {
		s.Layout.SetProxyProperty("Views", append(s.Layout.ProxyProperty("Views"), p)...)
	}
	return p.(proxy.View)
}

// Reader creates an unregistered TIFF reader for file.
func (s *Scene) Reader(t *testing.T, file string) proxy.Source {
	t.Helper()
	p, err := s.PM.NewProxy(proxy.GroupSources, "TIFFSeriesReader")
	require.NoError(t, err)
	p.SetProperty("FileName", file)
	return p.(proxy.Source)
}

// DataSource creates a DataSource reading from reader.
func (s *Scene) DataSource(t *testing.T, reader proxy.Source) *datasource.DataSource {
	t.Helper()
	ds, err := datasource.New(s.PM, reader)
	require.NoError(t, err)
	return ds
}

// ReaderlessSource returns a DataSource whose reader reports no point arrays.
func (s *Scene) ReaderlessSource(t *testing.T) *datasource.DataSource {
	t.Helper()
	p, err := s.PM.NewProxy(proxy.GroupSources, "TIFFSeriesReader")
	require.NoError(t, err)
	p.SetProperty("PointArrays")
	return s.DataSource(t, p.(proxy.Source))
}

package outline

import (
	"testing"

	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/module"
	"github.com/specialistvlad/voxview/internal/proxy"
	"github.com/specialistvlad/voxview/internal/registry"
	"github.com/specialistvlad/voxview/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutline_Lifecycle(t *testing.T) {
	// Arrange
	scene := testutil.NewScene(t)
	ds := scene.DataSource(t, scene.Reader(t, "a.tif"))
	before := scene.PM.RegisteredCount()
	o := New()

	// Act
	require.NoError(t, o.Initialize(ds, scene.View))

	// Assert
	rep := o.Representation()
	require.NotNil(t, rep)
	filters := rep.ProxyProperty(module.PropInput)
	require.Len(t, filters, 1)
	assert.Equal(t, "OutlineFilter", filters[0].Name())
	assert.Equal(t, []proxy.Proxy{ds.Producer()}, filters[0].ProxyProperty(module.PropInput))
	assert.Equal(t, []proxy.Proxy{scene.View}, rep.ProxyProperty(module.PropView))
	assert.Equal(t, before+2, scene.PM.RegisteredCount())

	require.NoError(t, o.Finalize())
	require.NoError(t, o.Finalize())
	assert.Equal(t, before, scene.PM.RegisteredCount())
	assert.Nil(t, o.Representation())
}

func TestOutline_SerializeRoundTrip(t *testing.T) {
	scene := testutil.NewScene(t)
	ds := scene.DataSource(t, scene.Reader(t, "a.tif"))
	src := New()
	require.NoError(t, src.Initialize(ds, scene.View))
	require.NoError(t, src.SetVisibility(false))
	src.Representation().SetProperty("DiffuseColor", "1", "0", "0")

	node := document.NewNode(document.KindModule)
	require.NoError(t, src.Serialize(node))
	require.NotNil(t, node.Child(KindRepresentation))

	dst := New()
	require.NoError(t, dst.Initialize(ds, scene.View))
	require.NoError(t, dst.Deserialize(node))

	assert.False(t, dst.Visibility())
	assert.Equal(t, []string{"1", "0", "0"}, dst.Representation().Property("DiffuseColor"))
	assert.Equal(t, []proxy.Proxy{scene.View}, dst.Representation().ProxyProperty(module.PropView),
		"references survive a restore without a locator")
}

func TestOutline_SerializeUninitialized(t *testing.T) {
	o := New()
	require.Error(t, o.Serialize(document.NewNode(document.KindModule)))
	require.Error(t, o.Deserialize(document.NewNode(document.KindModule)))
}

func TestOutline_Register(t *testing.T) {
	r := registry.New()
	Provider{}.Register(r)

	scene := testutil.NewScene(t)
	ds := scene.DataSource(t, scene.Reader(t, "a.tif"))
	m, err := r.CreateModule(TypeName, ds, scene.View)
	require.NoError(t, err)
	assert.IsType(t, &Outline{}, m)
	assert.Equal(t, TypeName, r.ModuleType(m))
	assert.Equal(t, "Outline", m.Label())
}

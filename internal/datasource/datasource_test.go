package datasource

import (
	"testing"

	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/headless"
	"github.com/specialistvlad/voxview/internal/proxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReader(t *testing.T, pm *headless.Manager, file string) proxy.Source {
	t.Helper()
	p, err := pm.NewProxy(proxy.GroupSources, "TIFFSeriesReader")
	require.NoError(t, err)
	if file != "" {
		p.SetProperty("FileName", file)
	}
	return p.(proxy.Source)
}

func TestNew(t *testing.T) {
	// Arrange
	pm := headless.New()
	reader := newReader(t, pm, "/data/tomo.tif")

	// Act
	ds, err := New(pm, reader)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, ds.Producer())
	assert.Same(t, reader, ds.OriginalDataSource())
	assert.Equal(t, "/data/tomo.tif", ds.Label())
	assert.Equal(t, ProducerName, ds.Producer().Name())
	assert.Equal(t, []proxy.Proxy{reader}, ds.Producer().ProxyProperty("Input"))
	assert.Equal(t, []proxy.Proxy{ds.Producer()}, pm.Proxies(proxy.GroupSources))
	assert.False(t, pm.IsRegistered(reader), "readers are not registered by the data source")
	assert.Equal(t, []string{headless.DefaultPointArray}, ds.Producer().DataInformation().PointArrays)
}

func TestNew_LabelFallsBackToReaderName(t *testing.T) {
	pm := headless.New()
	ds, err := New(pm, newReader(t, pm, ""))
	require.NoError(t, err)
	assert.Equal(t, "TIFFSeriesReader", ds.Label())
}

func TestNew_RequiresArguments(t *testing.T) {
	pm := headless.New()
	_, err := New(nil, newReader(t, pm, ""))
	require.Error(t, err)
	_, err = New(pm, nil)
	require.Error(t, err)
}

func TestDataSource_SharedReader(t *testing.T) {
	pm := headless.New()
	reader := newReader(t, pm, "shared.tif")

	a, err := New(pm, reader)
	require.NoError(t, err)
	b, err := New(pm, reader)
	require.NoError(t, err)

	assert.NotSame(t, a.Producer(), b.Producer())
	assert.Same(t, a.OriginalDataSource(), b.OriginalDataSource())
}

func TestDataSource_ColorMap(t *testing.T) {
	pm := headless.New(headless.WithPointArrays("density", "mask"))
	ds, err := New(pm, newReader(t, pm, "x.tif"))
	require.NoError(t, err)
	assert.False(t, ds.HasColorMap())

	lut, err := ds.ColorMap()
	require.NoError(t, err)
	again, err := ds.ColorMap()
	require.NoError(t, err)

	assert.Same(t, lut, again)
	assert.True(t, ds.HasColorMap())
	assert.Equal(t, []string{"density"}, lut.Property("ArrayName"))
	assert.Equal(t, []proxy.Proxy{lut}, pm.Proxies(proxy.GroupLookupTables))
}

func TestDataSource_SerializeRoundTrip(t *testing.T) {
	// Arrange
	pm := headless.New()
	src, err := New(pm, newReader(t, pm, "a.tif"))
	require.NoError(t, err)
	src.SetLabel("tilt series")
	lut, err := src.ColorMap()
	require.NoError(t, err)
	lut.SetProperty("RGBPoints", "0", "0", "0", "0", "1", "1", "1", "1")

	node := document.NewNode(document.KindDataSource)

	// Act
	require.NoError(t, src.Serialize(node))
	dst, err := New(pm, newReader(t, pm, "b.tif"))
	require.NoError(t, err)
	require.NoError(t, dst.Deserialize(node))

	// Assert
	assert.Equal(t, "tilt series", dst.Label())
	require.True(t, dst.HasColorMap())
	restored, err := dst.ColorMap()
	require.NoError(t, err)
	assert.Equal(t, lut.Property("RGBPoints"), restored.Property("RGBPoints"))
	assert.Nil(t, node.Child("OriginalDataSource"), "the reader is never written here")
}

func TestDataSource_SerializeWithoutColorMap(t *testing.T) {
	pm := headless.New()
	ds, err := New(pm, newReader(t, pm, "a.tif"))
	require.NoError(t, err)

	node := document.NewNode(document.KindDataSource)
	require.NoError(t, ds.Serialize(node))
	assert.Nil(t, node.Child(KindColorMap))
	assert.False(t, ds.HasColorMap(), "serializing must not create a colour map")
}

func TestDataSource_Destroy(t *testing.T) {
	pm := headless.New()
	ds, err := New(pm, newReader(t, pm, "a.tif"))
	require.NoError(t, err)
	_, err = ds.ColorMap()
	require.NoError(t, err)
	require.Equal(t, 2, pm.RegisteredCount())

	ds.Destroy()
	ds.Destroy()

	assert.True(t, ds.Destroyed())
	assert.Equal(t, 0, pm.RegisteredCount())
}

package manager_test

import (
	"strings"
	"testing"

	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/document/hcldoc"
	"github.com/specialistvlad/voxview/internal/manager"
	"github.com/specialistvlad/voxview/internal/module"
	"github.com/specialistvlad/voxview/internal/registry"
	"github.com/specialistvlad/voxview/internal/testutil"
	"github.com/specialistvlad/voxview/modules/outline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stateDoc is a hand-written state with one reader (id 10), one DataSource
// (id 20), one view (id 30) and the module records passed in.
func stateDoc(t *testing.T, modules string) *document.Node {
	t.Helper()
	src := `
Layout {
  id       = "1"
  xmlgroup = "layouts"
  xmlname  = "ViewLayout"
}
View {
  id       = "30"
  xmlgroup = "views"
  xmlname  = "RenderView"
  active   = "1"
}
OriginalDataSource {
  id       = "10"
  xmlgroup = "sources"
  xmlname  = "TIFFSeriesReader"
  Property {
    name               = "FileName"
    number_of_elements = "1"
    Element {
      index = "0"
      value = "/data/tomo.tif"
    }
  }
}
DataSource {
  id                   = "20"
  original_data_source = "10"
  active               = "1"
  label                = "tomo"
}
` + modules
	root, err := hcldoc.New("state.vxs").Decode(strings.NewReader(src))
	require.NoError(t, err)
	return root
}

func TestDeserialize_BogusTypeIsSkipped(t *testing.T) {
	// Arrange
	e := newEnv(t)
	root := stateDoc(t, `
Module {
  type        = "Bogus"
  data_source = "20"
  view        = "30"
}
Module {
  type        = "Outline"
  data_source = "20"
  view        = "30"
  active      = "1"
}
`)
	ctx, logs := testutil.LogContext(t)

	// Act
	report, err := e.mgr.Deserialize(ctx, root)

	// Assert
	require.NoError(t, err)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, document.KindModule, report.Skipped[0].Kind)
	assert.ErrorIs(t, report.Skipped[0].Err, registry.ErrUnknownType)
	testutil.AssertWarned(t, logs, "kind=Module", "Bogus")

	require.Len(t, e.mgr.Modules(), 1)
	assert.IsType(t, &outline.Outline{}, e.mgr.Modules()[0])
	assert.Equal(t, e.mgr.Modules()[0], e.active.ActiveModule())
	require.Len(t, e.mgr.DataSources(), 1)
	ds := e.mgr.DataSources()[0]
	assert.Equal(t, "tomo", ds.Label())
	assert.Same(t, ds, e.active.ActiveDataSource())
	assert.Equal(t, []string{"/data/tomo.tif"}, ds.OriginalDataSource().Property("FileName"))
	require.NotNil(t, e.active.ActiveView())
	assert.Equal(t, e.active.ActiveView(), e.mgr.Modules()[0].View())
}

func TestDeserialize_UnresolvedReferences(t *testing.T) {
	e := newEnv(t)
	root := stateDoc(t, `
Module {
  type        = "Outline"
  data_source = "99"
  view        = "30"
}
Module {
  type        = "Outline"
  data_source = "20"
  view        = "31"
}
Module {
  type        = "Outline"
  data_source = "20"
  view        = "1"
}
DataSource {
  id                   = "21"
  original_data_source = "11"
}
`)
	ctx, logs := testutil.LogContext(t)

	report, err := e.mgr.Deserialize(ctx, root)

	require.NoError(t, err)
	assert.Empty(t, e.mgr.Modules())
	assert.Len(t, e.mgr.DataSources(), 1)
	require.Len(t, report.Skipped, 4)
	for _, s := range report.Skipped {
		assert.ErrorIs(t, s.Err, manager.ErrUnresolvedReference, "%s %d", s.Kind, s.ID)
	}
	assert.Len(t, report.SkippedKind(document.KindModule), 3, "a layout is not a view")
	testutil.AssertWarned(t, logs, "kind=DataSource", "id=21")
}

func TestDeserialize_InvalidRecords(t *testing.T) {
	e := newEnv(t)
	root := stateDoc(t, `
View {
  id       = "32"
  xmlgroup = "views"
}
OriginalDataSource {
  id       = "0"
  xmlgroup = "sources"
  xmlname  = "TIFFSeriesReader"
}
OriginalDataSource {
  id       = "12"
  xmlgroup = "layouts"
  xmlname  = "ViewLayout"
}
View {
  id       = "33"
  xmlgroup = "layouts"
  xmlname  = "ViewLayout"
}
DataSource {
  id                   = "0"
  original_data_source = "10"
}
DataSource {
  id = "22"
}
Module {
  data_source = "20"
  view        = "30"
}
`)
	ctx, _ := testutil.LogContext(t)

	report, err := e.mgr.Deserialize(ctx, root)

	require.NoError(t, err)
	assert.Len(t, e.mgr.DataSources(), 1)
	require.Len(t, report.Skipped, 7)
	for _, s := range report.Skipped {
		assert.ErrorIs(t, s.Err, manager.ErrInvalidRecord, "%s %d", s.Kind, s.ID)
	}
}

func TestDeserialize_AttributeFailures(t *testing.T) {
	// Arrange
	e := newEnv(t)
	root := stateDoc(t, `
Module {
  type        = "Stub"
  data_source = "20"
  view        = "30"
}
Module {
  type        = "Outline"
  data_source = "20"
  view        = "30"
}
OriginalDataSource {
  id       = "11"
  xmlgroup = "sources"
  xmlname  = "PNGSeriesReader"
}
DataSource {
  id                   = "21"
  original_data_source = "11"
}
`)
	e.pm.FailDeserialize("sources", "PNGSeriesReader")
	ctx, _ := testutil.LogContext(t)

	// Act
	report, err := e.mgr.Deserialize(ctx, root)

	// Assert: the stub record lacks its own attribute, the PNG reader fails
	// to load and takes its DataSource with it.
	require.NoError(t, err)
	require.Len(t, e.mgr.Modules(), 1)
	assert.IsType(t, &outline.Outline{}, e.mgr.Modules()[0])
	require.Len(t, e.mgr.DataSources(), 1)

	require.Len(t, report.SkippedKind(document.KindModule), 1)
	assert.ErrorIs(t, report.SkippedKind(document.KindModule)[0].Err, manager.ErrAttributeSerialization)
	require.Len(t, report.SkippedKind(document.KindOriginalDataSource), 1)
	assert.ErrorIs(t, report.SkippedKind(document.KindOriginalDataSource)[0].Err, testutil.ErrInjected)
	require.Len(t, report.SkippedKind(document.KindDataSource), 1)
	assert.ErrorIs(t, report.SkippedKind(document.KindDataSource)[0].Err, manager.ErrUnresolvedReference)
}

func TestDeserialize_FailedViewIsNotResolvable(t *testing.T) {
	e := newEnv(t)
	e.pm.FailDeserialize("views", "RenderView")
	root := stateDoc(t, `
Module {
  type        = "Outline"
  data_source = "20"
  view        = "30"
}
`)
	ctx, _ := testutil.LogContext(t)

	report, err := e.mgr.Deserialize(ctx, root)

	require.NoError(t, err)
	assert.Nil(t, e.active.ActiveView())
	assert.Empty(t, e.mgr.Modules())
	require.Len(t, report.SkippedKind(document.KindView), 1)
	require.Len(t, report.SkippedKind(document.KindModule), 1)
	assert.ErrorIs(t, report.SkippedKind(document.KindModule)[0].Err, manager.ErrUnresolvedReference)
}

func TestDeserialize_ReplacesCurrentScene(t *testing.T) {
	e := newEnv(t)
	old := e.addDataSource(t, e.scene.Reader(t, "old.tif"))
	oldModule := e.addModule(t, outline.TypeName, old, e.scene.View)
	ctx, _ := testutil.LogContext(t)

	_, err := e.mgr.Deserialize(ctx, stateDoc(t, ""))

	require.NoError(t, err)
	require.Len(t, e.mgr.DataSources(), 1)
	assert.NotSame(t, old, e.mgr.DataSources()[0])
	assert.True(t, old.Destroyed())
	assert.Empty(t, e.mgr.Modules())
	assert.Equal(t, module.Finalized, oldModule.State())
	assert.False(t, e.scene.PM.IsRegistered(e.scene.View))
}

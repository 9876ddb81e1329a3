package active_test

import (
	"testing"

	"github.com/specialistvlad/voxview/internal/active"
	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/headless"
	"github.com/specialistvlad/voxview/internal/manager"
	"github.com/specialistvlad/voxview/internal/registry"
	"github.com/specialistvlad/voxview/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ manager.ActiveObjects = (*active.Objects)(nil)

func setup(t *testing.T) (*testutil.Scene, *active.Objects, *manager.Manager) {
	t.Helper()
	scene := testutil.NewScene(t)
	reg := registry.New()
	testutil.StubProvider{}.Register(reg)
	objs := active.New(scene.PM)
	return scene, objs, manager.New(scene.PM, reg, objs)
}

func TestObjects_SettersNotifyWatchers(t *testing.T) {
	// Arrange
	scene, objs, mgr := setup(t)
	ds := scene.DataSource(t, scene.Reader(t, "a.tif"))
	mgr.AddDataSource(ds)
	var seen []active.Selection
	objs.Watch(func(s active.Selection) { seen = append(seen, s) })

	// Act
	objs.SetActiveView(scene.View)
	objs.SetActiveView(scene.View)
	objs.SetActiveDataSource(ds)
	objs.SetActiveDataSource(ds)
	objs.SetActiveView(nil)

	// Assert
	require.Len(t, seen, 3, "setting the same value twice does not notify")
	assert.Equal(t, scene.View, seen[0].View)
	assert.Same(t, ds, seen[1].DataSource)
	assert.Nil(t, seen[2].View)
	assert.Same(t, ds, objs.ActiveDataSource())
}

func TestObjects_SettingModuleKeepsDataSource(t *testing.T) {
	scene, objs, mgr := setup(t)
	a := scene.DataSource(t, scene.Reader(t, "a.tif"))
	b := scene.DataSource(t, scene.Reader(t, "b.tif"))
	mgr.AddDataSource(a)
	mgr.AddDataSource(b)
	mod, err := mgr.CreateAndAddModule(testutil.StubType, b, scene.View)
	require.NoError(t, err)

	objs.SetActiveDataSource(a)
	objs.SetActiveModule(mod)

	assert.Same(t, a, objs.ActiveDataSource())
	assert.Equal(t, mod, objs.ActiveModule())
}

func TestObjects_RemovalClearsSlots(t *testing.T) {
	// Arrange
	scene, objs, mgr := setup(t)
	ds := scene.DataSource(t, scene.Reader(t, "a.tif"))
	other := scene.DataSource(t, scene.Reader(t, "b.tif"))
	mgr.AddDataSource(ds)
	mgr.AddDataSource(other)
	mod, err := mgr.CreateAndAddModule(testutil.StubType, ds, scene.View)
	require.NoError(t, err)
	objs.SetActiveDataSource(ds)
	objs.SetActiveModule(mod)

	// Act
	require.NoError(t, mgr.RemoveModule(mod))
	mgr.RemoveDataSource(other)

	// Assert
	assert.Nil(t, objs.ActiveModule())
	assert.Same(t, ds, objs.ActiveDataSource(), "removing an inactive data source keeps the active one")

	mgr.RemoveDataSource(ds)
	assert.Nil(t, objs.ActiveDataSource())
}

func TestObjects_RenderAllViews(t *testing.T) {
	scene, objs, _ := setup(t)
	second := scene.AddView(t)

	n := objs.RenderAllViews()

	assert.Equal(t, 2, n)
	assert.Equal(t, 1, headless.RenderCount(scene.View))
	assert.Equal(t, 1, headless.RenderCount(second))
}

func TestObjects_ResetClearsActiveView(t *testing.T) {
	scene, objs, mgr := setup(t)
	objs.SetActiveView(scene.View)

	require.NoError(t, mgr.Reset())

	assert.Nil(t, objs.ActiveView())
	assert.Equal(t, 0, objs.RenderAllViews())
}

func TestObjects_SelectionRestoredByLoad(t *testing.T) {
	scene, objs, mgr := setup(t)
	ds := scene.DataSource(t, scene.Reader(t, "a.tif"))
	mgr.AddDataSource(ds)
	objs.SetActiveView(scene.View)
	objs.SetActiveDataSource(ds)

	ctx, _ := testutil.LogContext(t)
	root := document.NewNode(document.KindState)
	_, err := mgr.Serialize(ctx, root)
	require.NoError(t, err)

	var last active.Selection
	objs.Watch(func(s active.Selection) { last = s })
	_, err = mgr.Deserialize(ctx, root)
	require.NoError(t, err)

	require.NotNil(t, last.View)
	require.NotNil(t, last.DataSource)
	assert.NotSame(t, scene.View, last.View)
	assert.Equal(t, objs.Selection(), last)
}

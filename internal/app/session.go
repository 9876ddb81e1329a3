package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/voxview/internal/ctxlog"
	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/fsutil"
	"github.com/specialistvlad/voxview/internal/module"
	"github.com/specialistvlad/voxview/internal/proxy"
)

// ErrUnsupportedFile is returned for data files without a configured reader.
var ErrUnsupportedFile = errors.New("no reader for file")

const (
	layoutName = "ViewLayout"
	viewName   = "RenderView"
)

// ensureView makes sure the session has a view and that one is active. A
// fresh session, or a state saved without views, gets a layout holding a
// single render view.
func (app *App) ensureView() error {
	if app.active.ActiveView() != nil {
		return nil
	}
	for _, p := range app.pm.Proxies(proxy.GroupViews) {
		if v, ok := p.(proxy.View); ok {
			app.active.SetActiveView(v)
			return nil
		}
	}

	layout, err := app.pm.NewProxy(proxy.GroupLayouts, layoutName)
	if err != nil {
		return err
	}
	if err := app.pm.Register(proxy.GroupLayouts, layout); err != nil {
		return err
	}
	p, err := app.pm.NewProxy(proxy.GroupViews, viewName)
	if err != nil {
		return err
	}
	view, ok := p.(proxy.View)
	if !ok {
		return fmt.Errorf("%s/%s is not a view", proxy.GroupViews, viewName)
	}
	if err := app.pm.Register(proxy.GroupViews, view); err != nil {
		return err
	}
	layout.SetProxyProperty("Views", view)
	app.active.SetActiveView(view)
	app.logger.Debug("Default view created.", "view", uint32(view.ID()))
	return nil
}

// LoadData opens one data file: a reader is picked by extension, wrapped in
// a DataSource and the configured default modules are created for it in the
// active view. The last module created becomes active. A default module that
// cannot be created is logged and skipped.
func (app *App) LoadData(ctx context.Context, path string) (*datasource.DataSource, error) {
	ctx = ctxlog.WithLogger(ctx, app.logger)
	logger := ctxlog.FromContext(ctx).With("path", path)

	readerName, ok := app.model.ReaderFor(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open %s: is a directory", path)
	}

	p, err := app.pm.NewProxy(proxy.GroupSources, readerName)
	if err != nil {
		return nil, fmt.Errorf("create reader %s: %w", readerName, err)
	}
	reader, ok := p.(proxy.Source)
	if !ok {
		return nil, fmt.Errorf("reader %s does not produce data", readerName)
	}
	reader.SetProperty("FileName", abs)

	ds, err := datasource.New(app.pm, reader)
	if err != nil {
		return nil, err
	}
	app.manager.AddDataSource(ds)
	app.active.SetActiveDataSource(ds)

	if err := app.ensureView(); err != nil {
		return ds, err
	}
	view := app.active.ActiveView()
	var last module.Module
	for _, typeName := range app.model.Session.DefaultModules {
		m, err := app.manager.CreateAndAddModule(typeName, ds, view)
		if err != nil {
			logger.Warn("Default module not created.", "type", typeName, "error", err)
			continue
		}
		last = m
	}
	if last != nil {
		app.active.SetActiveModule(last)
	}

	if err := app.recent.Push(ctx, abs, readerName); err != nil {
		logger.Warn("Recent files not updated.", "error", err)
	}
	logger.Info("Data loaded.", "reader", readerName, "modules", len(app.manager.FindModulesGeneric(ds, nil)))
	return ds, nil
}

// LoadDirectory opens every file under dir that has a configured reader, in
// lexical order. Files that fail are reported together; the others stay
// loaded.
func (app *App) LoadDirectory(ctx context.Context, dir string) ([]*datasource.DataSource, error) {
	files, err := fsutil.FindFilesByExtensions(dir, app.model.Extensions()...)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	var loaded []*datasource.DataSource
	var errs []error
	for _, f := range files {
		ds, err := app.LoadData(ctx, f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		loaded = append(loaded, ds)
	}
	return loaded, errors.Join(errs...)
}

// LoadPath opens path as a directory or as a single file.
func (app *App) LoadPath(ctx context.Context, path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		dss, err := app.LoadDirectory(ctx, path)
		return len(dss), err
	}
	if _, err := app.LoadData(ctx, path); err != nil {
		return 0, err
	}
	return 1, nil
}

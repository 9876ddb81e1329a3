package manager

import (
	"context"
	"fmt"

	"github.com/specialistvlad/voxview/internal/ctxlog"
	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/proxy"
)

// Deserialize replaces the current scene with the one stored under root.
//
// Records are restored in dependency order: layouts and views, readers,
// DataSources, then Modules. IDs in the document are remapped to the new
// proxies through a locator that lives only for this call. A record that
// cannot be restored is skipped and reported; the rest of the document still
// loads. Only a nil root is an error. Diagnostics go to the ctxlog logger in
// ctx and are dropped when there is none.
func (m *Manager) Deserialize(ctx context.Context, root *document.Node) (*Report, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	ctx = ctxlog.Ensure(ctx)
	logger := ctxlog.FromContext(ctx)
	report := &Report{}

	if err := m.Reset(); err != nil {
		logger.Warn("Reset before load finished with errors.", "error", err)
	}

	loc := proxy.NewMapLocator()
	m.deserializeViews(ctx, root, loc, report)
	readers := m.deserializeReaders(ctx, root, loc, report)
	dataSources := m.deserializeDataSources(ctx, root, readers, report)
	m.deserializeModules(ctx, root, dataSources, loc, report)

	logger.Debug("Scene deserialized.", "records", report.Records, "skipped", len(report.Skipped))
	return report, nil
}

type restoredProxy struct {
	kind string
	id   proxy.ID
	node *document.Node
	p    proxy.Proxy
}

// deserializeViews restores layouts, then views. Every proxy is created and
// assigned in the locator before any attributes are loaded, so a layout can
// refer to the views it contains.
func (m *Manager) deserializeViews(ctx context.Context, root *document.Node, loc *proxy.MapLocator, report *Report) {
	var created []restoredProxy
	for _, rec := range []struct{ kind, regGroup string }{
		{document.KindLayout, proxy.GroupLayouts},
		{document.KindView, proxy.GroupViews},
	} {
		for _, node := range root.Children(rec.kind) {
			p, id, err := m.newProxyFor(node)
			if err != nil {
				report.skip(ctx, rec.kind, id, err)
				continue
			}
			if rec.kind == document.KindView {
				if _, ok := p.(proxy.View); !ok {
					report.skip(ctx, rec.kind, id, fmt.Errorf("%w: %s/%s is not a view", ErrInvalidRecord, p.Group(), p.Name()))
					continue
				}
			}
			if err := m.pm.Register(rec.regGroup, p); err != nil {
				report.skip(ctx, rec.kind, id, fmt.Errorf("%w: %w", ErrAttributeSerialization, err))
				continue
			}
			loc.Assign(id, p)
			created = append(created, restoredProxy{kind: rec.kind, id: id, node: node, p: p})
		}
	}

	for _, c := range created {
		if err := m.pm.Deserialize(c.p, c.node, loc); err != nil {
			m.pm.Unregister(c.p)
			loc.Remove(c.id)
			report.skip(ctx, c.kind, c.id, fmt.Errorf("%w: %w", ErrAttributeSerialization, err))
			continue
		}
		report.done(c.kind)
		if c.kind == document.KindView && c.node.Bool(attrActive, false) {
			m.active.SetActiveView(c.p.(proxy.View))
		}
	}
}

// deserializeReaders rebuilds readers into a map keyed by their old ID.
// Readers are not owned by the Manager and are not registered.
func (m *Manager) deserializeReaders(ctx context.Context, root *document.Node, loc proxy.Locator, report *Report) map[proxy.ID]proxy.Source {
	readers := make(map[proxy.ID]proxy.Source)
	for _, node := range root.Children(document.KindOriginalDataSource) {
		p, id, err := m.newProxyFor(node)
		if err != nil {
			report.skip(ctx, document.KindOriginalDataSource, id, err)
			continue
		}
		reader, ok := p.(proxy.Source)
		if !ok {
			report.skip(ctx, document.KindOriginalDataSource, id,
				fmt.Errorf("%w: %s/%s does not produce data", ErrInvalidRecord, p.Group(), p.Name()))
			continue
		}
		if err := m.pm.Deserialize(reader, node, loc); err != nil {
			report.skip(ctx, document.KindOriginalDataSource, id, fmt.Errorf("%w: %w", ErrAttributeSerialization, err))
			continue
		}
		readers[id] = reader
		report.done(document.KindOriginalDataSource)
	}
	return readers
}

func (m *Manager) deserializeDataSources(ctx context.Context, root *document.Node, readers map[proxy.ID]proxy.Source, report *Report) map[proxy.ID]*datasource.DataSource {
	dataSources := make(map[proxy.ID]*datasource.DataSource)
	for _, node := range root.Children(document.KindDataSource) {
		id := proxy.ID(node.Uint(attrID))
		readerID := proxy.ID(node.Uint(attrOriginalDataSource))
		if id == 0 || readerID == 0 {
			report.skip(ctx, document.KindDataSource, id,
				fmt.Errorf("%w: id and %s are required", ErrInvalidRecord, attrOriginalDataSource))
			continue
		}
		reader, ok := readers[readerID]
		if !ok {
			report.skip(ctx, document.KindDataSource, id,
				fmt.Errorf("%w: original data source %s", ErrUnresolvedReference, readerID))
			continue
		}

		ds, err := datasource.New(m.pm, reader)
		if err != nil {
			report.skip(ctx, document.KindDataSource, id, fmt.Errorf("%w: %w", ErrAttributeSerialization, err))
			continue
		}
		if err := ds.Deserialize(node); err != nil {
			ds.Destroy()
			report.skip(ctx, document.KindDataSource, id, fmt.Errorf("%w: %w", ErrAttributeSerialization, err))
			continue
		}

		m.AddDataSource(ds)
		dataSources[id] = ds
		report.done(document.KindDataSource)
		if node.Bool(attrActive, false) {
			m.active.SetActiveDataSource(ds)
		}
	}
	return dataSources
}

func (m *Manager) deserializeModules(ctx context.Context, root *document.Node, dataSources map[proxy.ID]*datasource.DataSource, loc proxy.Locator, report *Report) {
	for _, node := range root.Children(document.KindModule) {
		typeName, _ := node.Attr(attrType)
		dsID := proxy.ID(node.Uint(attrDataSource))
		if typeName == "" {
			report.skip(ctx, document.KindModule, 0, fmt.Errorf("%w: missing %s", ErrInvalidRecord, attrType))
			continue
		}
		ds, ok := dataSources[dsID]
		if !ok {
			report.skip(ctx, document.KindModule, 0,
				fmt.Errorf("%w: %q module's data source %s", ErrUnresolvedReference, typeName, dsID))
			continue
		}
		viewID := proxy.ID(node.Uint(attrView))
		view, ok := loc.Locate(viewID).(proxy.View)
		if !ok {
			report.skip(ctx, document.KindModule, 0,
				fmt.Errorf("%w: %q module's view %s", ErrUnresolvedReference, typeName, viewID))
			continue
		}

		mod, err := m.registry.CreateModule(typeName, ds, view)
		if err != nil {
			report.skip(ctx, document.KindModule, 0, err)
			continue
		}
		if err := mod.Deserialize(node); err != nil {
			if ferr := mod.Finalize(); ferr != nil {
				ctxlog.FromContext(ctx).Warn("Finalize after failed restore.", "type", typeName, "error", ferr)
			}
			report.skip(ctx, document.KindModule, 0, fmt.Errorf("%w: %q module: %w", ErrAttributeSerialization, typeName, err))
			continue
		}

		m.AddModule(mod)
		report.done(document.KindModule)
		if node.Bool(attrActive, false) {
			m.active.SetActiveModule(mod)
		}
	}
}

// newProxyFor creates the proxy a record describes. The returned ID is the
// record's id attribute, valid even when an error is returned.
func (m *Manager) newProxyFor(node *document.Node) (proxy.Proxy, proxy.ID, error) {
	id := proxy.ID(node.Uint(attrID))
	group, _ := node.Attr(attrGroup)
	name, _ := node.Attr(attrName)
	if id == 0 || group == "" || name == "" {
		return nil, id, fmt.Errorf("%w: id, %s and %s are required", ErrInvalidRecord, attrGroup, attrName)
	}
	p, err := m.pm.NewProxy(group, name)
	if err != nil {
		return nil, id, fmt.Errorf("%w: %w", ErrAttributeSerialization, err)
	}
	return p, id, nil
}

package manager

import (
	"context"
	"fmt"

	"github.com/specialistvlad/voxview/internal/ctxlog"
	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/proxy"
	"github.com/specialistvlad/voxview/internal/registry"
)

// Document attribute names.
const (
	attrID                 = "id"
	attrGroup              = "xmlgroup"
	attrName               = "xmlname"
	attrOriginalDataSource = "original_data_source"
	attrDataSource         = "data_source"
	attrView               = "view"
	attrType               = "type"
	attrActive             = "active"
)

// Serialize appends the scene graph to root: one OriginalDataSource record
// per distinct reader, then DataSources, Modules, Layouts and Views.
//
// A record whose attributes fail to serialize is removed again, reported and
// logged; records that depend on it are skipped. Only a nil root is an error.
// Diagnostics go to the ctxlog logger in ctx and are dropped when there is
// none.
func (m *Manager) Serialize(ctx context.Context, root *document.Node) (*Report, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	ctx = ctxlog.Ensure(ctx)
	logger := ctxlog.FromContext(ctx)
	report := &Report{}

	readers := m.serializeReaders(ctx, root, report)
	written := m.serializeDataSources(ctx, root, readers, report)
	m.serializeModules(ctx, root, written, report)
	m.serializeProxies(ctx, root, document.KindLayout, proxy.GroupLayouts, nil, report)
	m.serializeProxies(ctx, root, document.KindView, proxy.GroupViews, m.active.ActiveView(), report)

	logger.Debug("Scene serialized.", "records", report.Records, "skipped", len(report.Skipped))
	return report, nil
}

// serializeReaders writes each distinct reader once and returns the ones
// that were written.
func (m *Manager) serializeReaders(ctx context.Context, root *document.Node, report *Report) map[proxy.Source]bool {
	seen := make(map[proxy.Source]bool)
	written := make(map[proxy.Source]bool)
	for _, ds := range m.dataSources {
		reader := ds.OriginalDataSource()
		if seen[reader] {
			continue
		}
		seen[reader] = true

		node := root.AppendChild(document.KindOriginalDataSource)
		node.SetUint(attrID, uint32(reader.ID()))
		node.SetAttr(attrGroup, reader.Group())
		node.SetAttr(attrName, reader.Name())
		if err := m.pm.Serialize(reader, node); err != nil {
			root.RemoveChild(node)
			report.skip(ctx, document.KindOriginalDataSource, reader.ID(), fmt.Errorf("%w: %w", ErrAttributeSerialization, err))
			continue
		}
		written[reader] = true
		report.done(document.KindOriginalDataSource)
	}
	return written
}

func (m *Manager) serializeDataSources(ctx context.Context, root *document.Node, readers map[proxy.Source]bool, report *Report) map[*datasource.DataSource]bool {
	written := make(map[*datasource.DataSource]bool)
	activeDS := m.active.ActiveDataSource()
	for _, ds := range m.dataSources {
		id := ds.Producer().ID()
		reader := ds.OriginalDataSource()
		if !readers[reader] {
			report.skip(ctx, document.KindDataSource, id,
				fmt.Errorf("%w: original data source %s was not written", ErrAttributeSerialization, reader.ID()))
			continue
		}

		node := root.AppendChild(document.KindDataSource)
		node.SetUint(attrID, uint32(id))
		node.SetUint(attrOriginalDataSource, uint32(reader.ID()))
		if ds == activeDS {
			node.SetBool(attrActive, true)
		}
		if err := ds.Serialize(node); err != nil {
			root.RemoveChild(node)
			report.skip(ctx, document.KindDataSource, id, fmt.Errorf("%w: %w", ErrAttributeSerialization, err))
			continue
		}
		written[ds] = true
		report.done(document.KindDataSource)
	}
	return written
}

func (m *Manager) serializeModules(ctx context.Context, root *document.Node, dataSources map[*datasource.DataSource]bool, report *Report) {
	activeModule := m.active.ActiveModule()
	for _, mod := range m.modules {
		ds := mod.DataSource()
		if !dataSources[ds] {
			report.skip(ctx, document.KindModule, 0,
				fmt.Errorf("%w: %q module's data source was not written", ErrUnresolvedReference, mod.Label()))
			continue
		}
		typeName := m.registry.ModuleType(mod)
		if typeName == "" {
			report.skip(ctx, document.KindModule, 0, fmt.Errorf("%w: %T", registry.ErrUnknownType, mod))
			continue
		}

		node := root.AppendChild(document.KindModule)
		node.SetAttr(attrType, typeName)
		node.SetUint(attrDataSource, uint32(ds.Producer().ID()))
		node.SetUint(attrView, uint32(mod.View().ID()))
		if mod == activeModule {
			node.SetBool(attrActive, true)
		}
		if err := mod.Serialize(node); err != nil {
			root.RemoveChild(node)
			report.skip(ctx, document.KindModule, 0, fmt.Errorf("%w: %q module: %w", ErrAttributeSerialization, typeName, err))
			continue
		}
		report.done(document.KindModule)
	}
}

// serializeProxies dumps every proxy registered under regGroup as a record
// of the given kind, flagging active.
func (m *Manager) serializeProxies(ctx context.Context, root *document.Node, kind, regGroup string, active proxy.Proxy, report *Report) {
	for _, p := range m.pm.Proxies(regGroup) {
		node := root.AppendChild(kind)
		node.SetUint(attrID, uint32(p.ID()))
		node.SetAttr(attrGroup, p.Group())
		node.SetAttr(attrName, p.Name())
		if active != nil && p == active {
			node.SetBool(attrActive, true)
		}
		if err := m.pm.Serialize(p, node); err != nil {
			root.RemoveChild(node)
			report.skip(ctx, kind, p.ID(), fmt.Errorf("%w: %w", ErrAttributeSerialization, err))
			continue
		}
		report.done(kind)
	}
}

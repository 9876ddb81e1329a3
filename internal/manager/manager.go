// Package manager owns the live DataSources and Modules of a session and
// persists the whole scene graph to a document.
//
// The Manager is not safe for concurrent use. Every operation runs on the
// caller's goroutine and notifies listeners synchronously, in issue order.
package manager

import (
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/module"
	"github.com/specialistvlad/voxview/internal/proxy"
	"github.com/specialistvlad/voxview/internal/registry"
)

// ActiveObjects is the selection cursor the Manager consults while
// serializing and restores while deserializing. It is always subscribed as
// a listener so removals can clear its slots.
type ActiveObjects interface {
	Listener

	ActiveView() proxy.View
	SetActiveView(v proxy.View)
	ActiveDataSource() *datasource.DataSource
	SetActiveDataSource(ds *datasource.DataSource)
	ActiveModule() module.Module
	SetActiveModule(m module.Module)
}

// Manager owns DataSources and Modules. Both collections keep insertion
// order and hold each entity at most once.
type Manager struct {
	pm       proxy.Manager
	registry *registry.Registry
	active   ActiveObjects

	dataSources []*datasource.DataSource
	modules     []module.Module
	listeners   []Listener
}

// New creates a Manager. active is subscribed before any other listener.
func New(pm proxy.Manager, reg *registry.Registry, active ActiveObjects) *Manager {
	m := &Manager{
		pm:       pm,
		registry: reg,
		active:   active,
	}
	m.Subscribe(active)
	return m
}

// Subscribe adds a listener. Listeners must not add or remove the entity
// they are being notified about.
func (m *Manager) Subscribe(l Listener) {
	if l != nil {
		m.listeners = append(m.listeners, l)
	}
}

// ProxyManager returns the rendering subsystem the Manager works against.
func (m *Manager) ProxyManager() proxy.Manager { return m.pm }

// Registry returns the module factory.
func (m *Manager) Registry() *registry.Registry { return m.registry }

// Active returns the selection cursor.
func (m *Manager) Active() ActiveObjects { return m.active }

// DataSources returns the live DataSources in insertion order.
func (m *Manager) DataSources() []*datasource.DataSource {
	return slices.Clone(m.dataSources)
}

// Modules returns the live Modules in insertion order.
func (m *Manager) Modules() []module.Module {
	return slices.Clone(m.modules)
}

// AddDataSource takes ownership of ds. Adding a DataSource twice does nothing.
func (m *Manager) AddDataSource(ds *datasource.DataSource) {
	if ds == nil || slices.Contains(m.dataSources, ds) {
		return
	}
	m.dataSources = append(m.dataSources, ds)
	for _, l := range m.listeners {
		l.DataSourceAdded(ds)
	}
}

// AddModule takes ownership of mod. Adding a Module twice does nothing.
func (m *Manager) AddModule(mod module.Module) {
	if mod == nil || slices.Contains(m.modules, mod) {
		return
	}
	m.modules = append(m.modules, mod)
	for _, l := range m.listeners {
		l.ModuleAdded(mod)
	}
}

// RemoveDataSource removes every Module bound to ds, then removes ds,
// notifies listeners and destroys it. The DataSource is removed even when a
// Module fails to finalize; those errors are returned joined.
func (m *Manager) RemoveDataSource(ds *datasource.DataSource) error {
	i := slices.Index(m.dataSources, ds)
	if i < 0 {
		return nil
	}
	err := m.RemoveAllModules(ds)
	i = slices.Index(m.dataSources, ds)
	m.dataSources = slices.Delete(m.dataSources, i, i+1)
	for _, l := range m.listeners {
		l.DataSourceRemoved(ds)
	}
	ds.Destroy()
	return err
}

// RemoveModule removes mod, notifies listeners and then finalizes it.
func (m *Manager) RemoveModule(mod module.Module) error {
	i := slices.Index(m.modules, mod)
	if i < 0 {
		return nil
	}
	m.modules = slices.Delete(m.modules, i, i+1)
	for _, l := range m.listeners {
		l.ModuleRemoved(mod)
	}
	if err := mod.Finalize(); err != nil {
		return fmt.Errorf("finalize module %q: %w", mod.Label(), err)
	}
	return nil
}

// RemoveAllModules removes every Module bound to ds.
func (m *Manager) RemoveAllModules(ds *datasource.DataSource) error {
	var errs []error
	for _, mod := range m.FindModulesGeneric(ds, nil) {
		if err := m.RemoveModule(mod); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reset removes all Modules, then all DataSources, then asks the rendering
// subsystem to drop every remaining proxy. A document load always starts
// from here so it replaces the scene instead of merging into it.
func (m *Manager) Reset() error {
	var errs []error
	for _, mod := range slices.Clone(m.modules) {
		if err := m.RemoveModule(mod); err != nil {
			errs = append(errs, err)
		}
	}
	for _, ds := range slices.Clone(m.dataSources) {
		if err := m.RemoveDataSource(ds); err != nil {
			errs = append(errs, err)
		}
	}
	m.pm.DeleteAll()
	m.active.SetActiveView(nil)
	return errors.Join(errs...)
}

// FindModulesGeneric returns the Modules bound to ds and, unless view is
// nil, to view.
func (m *Manager) FindModulesGeneric(ds *datasource.DataSource, view proxy.View) []module.Module {
	var found []module.Module
	for _, mod := range m.modules {
		if mod.DataSource() != ds {
			continue
		}
		if view != nil && mod.View() != view {
			continue
		}
		found = append(found, mod)
	}
	return found
}

// CreateAndAddModule builds a Module through the registry and adds it.
func (m *Manager) CreateAndAddModule(typeName string, ds *datasource.DataSource, view proxy.View) (module.Module, error) {
	if ds == nil || view == nil {
		return nil, module.ErrNilBinding
	}
	mod, err := m.registry.CreateModule(typeName, ds, view)
	if err != nil {
		return nil, err
	}
	m.AddModule(mod)
	return mod, nil
}

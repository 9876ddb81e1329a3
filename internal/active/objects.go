// Package active tracks the session's selection cursor: the active view,
// DataSource and Module.
package active

import (
	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/module"
	"github.com/specialistvlad/voxview/internal/proxy"
)

// Selection is a snapshot of the three slots.
type Selection struct {
	View       proxy.View
	DataSource *datasource.DataSource
	Module     module.Module
}

// Objects holds at most one active view, DataSource and Module. It listens
// to the manager so that a removed DataSource or Module never stays active.
type Objects struct {
	pm       proxy.Manager
	sel      Selection
	watchers []func(Selection)
}

// New creates an empty selection. pm is used to find the views to render.
func New(pm proxy.Manager) *Objects {
	return &Objects{pm: pm}
}

// Watch registers fn to be called after every change of the selection.
func (o *Objects) Watch(fn func(Selection)) {
	if fn != nil {
		o.watchers = append(o.watchers, fn)
	}
}

// Selection returns the current slots.
func (o *Objects) Selection() Selection { return o.sel }

func (o *Objects) ActiveView() proxy.View                   { return o.sel.View }
func (o *Objects) ActiveDataSource() *datasource.DataSource { return o.sel.DataSource }
func (o *Objects) ActiveModule() module.Module              { return o.sel.Module }

// SetActiveView changes the active view. A nil view clears the slot.
func (o *Objects) SetActiveView(v proxy.View) {
	if o.sel.View == v {
		return
	}
	o.sel.View = v
	o.changed()
}

// SetActiveDataSource changes the active DataSource.
func (o *Objects) SetActiveDataSource(ds *datasource.DataSource) {
	if o.sel.DataSource == ds {
		return
	}
	o.sel.DataSource = ds
	o.changed()
}

// SetActiveModule changes the active Module. It does not touch the active
// DataSource.
func (o *Objects) SetActiveModule(m module.Module) {
	if o.sel.Module == m {
		return
	}
	o.sel.Module = m
	o.changed()
}

// RenderAllViews renders every registered view.
func (o *Objects) RenderAllViews() int {
	n := 0
	for _, p := range o.pm.Proxies(proxy.GroupViews) {
		if v, ok := p.(proxy.View); ok {
			v.Render()
			n++
		}
	}
	return n
}

func (o *Objects) DataSourceAdded(*datasource.DataSource) {}

// DataSourceRemoved clears the DataSource slot when ds is active.
func (o *Objects) DataSourceRemoved(ds *datasource.DataSource) {
	if o.sel.DataSource == ds {
		o.SetActiveDataSource(nil)
	}
}

func (o *Objects) ModuleAdded(module.Module) {}

// ModuleRemoved clears the Module slot when m is active.
func (o *Objects) ModuleRemoved(m module.Module) {
	if o.sel.Module != nil && o.sel.Module == m {
		o.SetActiveModule(nil)
	}
}

func (o *Objects) changed() {
	sel := o.sel
	for _, fn := range o.watchers {
		fn(sel)
	}
}

package manager

import (
	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/module"
)

// Listener observes additions and removals. Removal callbacks run before the
// entity is destroyed, so its last state can still be read.
//
// Callbacks must not add or remove the entity they are notified about.
type Listener interface {
	DataSourceAdded(ds *datasource.DataSource)
	DataSourceRemoved(ds *datasource.DataSource)
	ModuleAdded(m module.Module)
	ModuleRemoved(m module.Module)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnDataSourceAdded   func(ds *datasource.DataSource)
	OnDataSourceRemoved func(ds *datasource.DataSource)
	OnModuleAdded       func(m module.Module)
	OnModuleRemoved     func(m module.Module)
}

func (f ListenerFuncs) DataSourceAdded(ds *datasource.DataSource) {
	if f.OnDataSourceAdded != nil {
		f.OnDataSourceAdded(ds)
	}
}

func (f ListenerFuncs) DataSourceRemoved(ds *datasource.DataSource) {
	if f.OnDataSourceRemoved != nil {
		f.OnDataSourceRemoved(ds)
	}
}

func (f ListenerFuncs) ModuleAdded(m module.Module) {
	if f.OnModuleAdded != nil {
		f.OnModuleAdded(m)
	}
}

func (f ListenerFuncs) ModuleRemoved(m module.Module) {
	if f.OnModuleRemoved != nil {
		f.OnModuleRemoved(m)
	}
}

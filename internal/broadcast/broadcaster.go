package broadcast

import (
	"github.com/specialistvlad/voxview/internal/active"
	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/manager"
	"github.com/specialistvlad/voxview/internal/module"
)

// Event names.
const (
	EventDataSourceAdded   = "data_source_added"
	EventDataSourceRemoved = "data_source_removed"
	EventModuleAdded       = "module_added"
	EventModuleRemoved     = "module_removed"
	EventSelectionChanged  = "selection_changed"
	EventStateSaved        = "state_saved"
	EventStateLoaded       = "state_loaded"
)

// TypeNamer maps a live module to its registered type name.
type TypeNamer interface {
	ModuleType(m module.Module) string
}

// Broadcaster turns manager and selection notifications into events.
type Broadcaster struct {
	emitter Emitter
	types   TypeNamer
}

var _ manager.Listener = (*Broadcaster)(nil)

func New(emitter Emitter, types TypeNamer) *Broadcaster {
	return &Broadcaster{emitter: emitter, types: types}
}

// Close closes the underlying emitter.
func (b *Broadcaster) Close() error { return b.emitter.Close() }

func (b *Broadcaster) DataSourceAdded(ds *datasource.DataSource) {
	b.emitter.Emit(EventDataSourceAdded, dataSourcePayload(ds))
}

func (b *Broadcaster) DataSourceRemoved(ds *datasource.DataSource) {
	b.emitter.Emit(EventDataSourceRemoved, dataSourcePayload(ds))
}

func (b *Broadcaster) ModuleAdded(m module.Module) {
	b.emitter.Emit(EventModuleAdded, b.modulePayload(m))
}

func (b *Broadcaster) ModuleRemoved(m module.Module) {
	b.emitter.Emit(EventModuleRemoved, b.modulePayload(m))
}

// SelectionChanged is meant for active.Objects.Watch.
func (b *Broadcaster) SelectionChanged(s active.Selection) {
	payload := map[string]any{"view": nil, "data_source": nil, "module": nil}
	if s.View != nil {
		payload["view"] = uint32(s.View.ID())
	}
	if s.DataSource != nil {
		payload["data_source"] = s.DataSource.Label()
	}
	if s.Module != nil {
		payload["module"] = s.Module.Label()
	}
	b.emitter.Emit(EventSelectionChanged, payload)
}

// StateSaved announces a completed save of key.
func (b *Broadcaster) StateSaved(key string, r *manager.Report) {
	b.emitter.Emit(EventStateSaved, reportPayload(key, r))
}

// StateLoaded announces a completed load of key.
func (b *Broadcaster) StateLoaded(key string, r *manager.Report) {
	b.emitter.Emit(EventStateLoaded, reportPayload(key, r))
}

func dataSourcePayload(ds *datasource.DataSource) map[string]any {
	reader := ds.OriginalDataSource()
	payload := map[string]any{
		"label":  ds.Label(),
		"reader": reader.Name(),
		"file":   "",
	}
	if files := reader.Property("FileName"); len(files) > 0 {
		payload["file"] = files[0]
	}
	return payload
}

func (b *Broadcaster) modulePayload(m module.Module) map[string]any {
	payload := map[string]any{
		"type":        b.types.ModuleType(m),
		"label":       m.Label(),
		"data_source": "",
		"visible":     false,
	}
	// Visibility panics outside the Initialized state.
	if m.State() == module.Initialized {
		payload["visible"] = m.Visibility()
	}
	if ds := m.DataSource(); ds != nil {
		payload["data_source"] = ds.Label()
	}
	return payload
}

func reportPayload(key string, r *manager.Report) map[string]any {
	records, skipped := 0, 0
	if r != nil {
		for _, n := range r.Records {
			records += n
		}
		skipped = len(r.Skipped)
	}
	return map[string]any{"key": key, "records": records, "skipped": skipped}
}

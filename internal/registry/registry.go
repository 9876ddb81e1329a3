package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/module"
	"github.com/specialistvlad/voxview/internal/proxy"
)

// ErrUnknownType is returned when no variant is registered under a name.
var ErrUnknownType = errors.New("unknown module type")

// Provider is implemented by every package that contributes module variants.
type Provider interface {
	Register(r *Registry)
}

// RegisteredModule holds the compiled Go parts of a module variant.
type RegisteredModule struct {
	// Type is the dynamic type New returns, used for the inverse lookup.
	Type reflect.Type
	New  func() module.Module
}

// Registry holds the module variants of a single application instance.
type Registry struct {
	ModuleRegistry map[string]*RegisteredModule
	typeNames      map[reflect.Type]string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		ModuleRegistry: make(map[string]*RegisteredModule),
		typeNames:      make(map[reflect.Type]string),
	}
}

// RegisterModule registers a variant under typeName. Registering the same
// name or Go type twice is a programmer error and panics.
func (r *Registry) RegisterModule(typeName string, m *RegisteredModule) {
	if _, exists := r.ModuleRegistry[typeName]; exists {
		panic(fmt.Sprintf("module type with name '%s' already registered", typeName))
	}
	if m == nil || m.New == nil || m.Type == nil {
		panic(fmt.Sprintf("module type '%s' registered without a constructor or Go type", typeName))
	}
	if other, exists := r.typeNames[m.Type]; exists {
		panic(fmt.Sprintf("Go type %s already registered as module type '%s'", m.Type, other))
	}
	slog.Debug("Registering module type.", "name", typeName, "goType", m.Type.String())
	r.ModuleRegistry[typeName] = m
	r.typeNames[m.Type] = typeName
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.ModuleRegistry))
	for name := range r.ModuleRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CreateModule constructs the variant registered as typeName and initializes
// it with ds and view. A module whose Initialize fails is finalized before
// the error is returned, so nothing it created outlives the call.
func (r *Registry) CreateModule(typeName string, ds *datasource.DataSource, view proxy.View) (module.Module, error) {
	reg, ok := r.ModuleRegistry[typeName]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, typeName)
	}
	m := reg.New()
	if err := m.Initialize(ds, view); err != nil {
		if ferr := m.Finalize(); ferr != nil {
			return nil, fmt.Errorf("initialize %q: %w (finalize: %v)", typeName, err, ferr)
		}
		return nil, fmt.Errorf("initialize %q: %w", typeName, err)
	}
	return m, nil
}

// ModuleType returns the name m's variant is registered under, or "" when
// its Go type is unknown to the registry.
func (r *Registry) ModuleType(m module.Module) string {
	if m == nil {
		return ""
	}
	return r.typeNames[reflect.TypeOf(m)]
}

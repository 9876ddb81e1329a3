package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/specialistvlad/voxview/internal/ctxlog"
)

// ValidateRegistry checks that every registered constructor returns the Go
// type it was registered with, and that every name in required (typically
// the configured default modules) is registered.
func (r *Registry) ValidateRegistry(ctx context.Context, required ...string) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Types() {
		reg := r.ModuleRegistry[name]
		m := reg.New()
		if m == nil {
			errs = append(errs, fmt.Sprintf("module type '%s': constructor returned nil", name))
			continue
		}
		if got := reflect.TypeOf(m); got != reg.Type {
			errs = append(errs, fmt.Sprintf("module type '%s': constructor returns %s but was registered as %s", name, got, reg.Type))
			continue
		}
		if m.Label() == "" {
			logger.Warn("Module type has an empty label.", "type", name)
		}
	}

	for _, name := range required {
		if _, ok := r.ModuleRegistry[name]; !ok {
			errs = append(errs, fmt.Sprintf("module type '%s' is required by configuration but not registered (known: %s)", name, strings.Join(r.Types(), ", ")))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

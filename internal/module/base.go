package module

import (
	"fmt"

	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/proxy"
)

// Property names shared by module proxies.
const (
	PropInput      = "Input"
	PropVisibility = "Visibility"
	PropView       = "View"
)

// attrVisible is the document attribute holding a module's visibility.
const attrVisible = "visible"

// Base carries the bindings, lifecycle state and owned proxies of a module.
// Variants embed it and call Init and Release from their own Initialize and
// Finalize.
type Base struct {
	ds    *datasource.DataSource
	view  proxy.View
	state State

	owned   []proxy.Proxy
	display []proxy.Proxy
	visible bool
}

// Init validates and stores the bindings, then runs setup. The module only
// becomes Initialized when setup succeeds; proxies owned before a failure are
// released by the next Release.
func (b *Base) Init(ds *datasource.DataSource, view proxy.View, setup func() error) error {
	if ds == nil || view == nil {
		return ErrNilBinding
	}
	if b.state != Uninitialized {
		return fmt.Errorf("%w (state %s)", ErrAlreadyInitialized, b.state)
	}
	b.ds = ds
	b.view = view
	b.visible = true
	if setup != nil {
		if err := setup(); err != nil {
			return err
		}
	}
	b.state = Initialized
	return nil
}

// Release unregisters every proxy the module owns and moves it to Finalized.
// Repeated calls do nothing.
func (b *Base) Release() error {
	if b.state == Finalized {
		return nil
	}
	b.state = Finalized
	if len(b.owned) == 0 {
		return nil
	}
	pm := b.ds.ProxyManager()
	for i := len(b.owned) - 1; i >= 0; i-- {
		pm.Unregister(b.owned[i])
	}
	b.owned = nil
	b.display = nil
	return nil
}

// Create makes a proxy through the DataSource's proxy manager, registers it
// and records it as owned by this module.
func (b *Base) Create(regGroup, group, name string) (proxy.Proxy, error) {
	pm := b.ds.ProxyManager()
	p, err := pm.NewProxy(group, name)
	if err != nil {
		return nil, fmt.Errorf("create %s/%s: %w", group, name, err)
	}
	if err := pm.Register(regGroup, p); err != nil {
		return nil, fmt.Errorf("register %s/%s: %w", group, name, err)
	}
	b.owned = append(b.owned, p)
	return p, nil
}

// Display marks p as shown in the view. SetVisibility toggles every display
// proxy together.
func (b *Base) Display(p proxy.Proxy) {
	p.SetProxyProperty(PropView, b.view)
	p.SetProperty(PropVisibility, boolString(b.visible))
	b.display = append(b.display, p)
}

// Owned returns the proxies the module has created, oldest first.
func (b *Base) Owned() []proxy.Proxy {
	return append([]proxy.Proxy(nil), b.owned...)
}

func (b *Base) setVisibility(visible bool) {
	b.visible = visible
	for _, p := range b.display {
		p.SetProperty(PropVisibility, boolString(visible))
	}
}

// DataSource returns the bound DataSource, nil before Initialize.
func (b *Base) DataSource() *datasource.DataSource { return b.ds }

// View returns the bound view, nil before Initialize.
func (b *Base) View() proxy.View { return b.view }

// State returns the lifecycle state.
func (b *Base) State() State { return b.state }

// WriteVisibility stores the visibility flag on node.
func (b *Base) WriteVisibility(node *document.Node) {
	node.SetBool(attrVisible, b.visible)
}

// ReadVisibility applies the visibility flag stored on node, if any.
func (b *Base) ReadVisibility(node *document.Node) {
	if node.HasAttr(attrVisible) {
		b.setVisibility(node.Bool(attrVisible, b.visible))
	}
}

// Visible reports the flag without the initialization check.
func (b *Base) Visible() bool { return b.visible }

// SetVisible changes the flag and the display proxies without the
// initialization check. Variants wrap it behind MustBeInitialized.
func (b *Base) SetVisible(visible bool) { b.setVisibility(visible) }

func boolString(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

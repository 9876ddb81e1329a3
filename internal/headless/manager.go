// Package headless is an in-process implementation of proxy.Manager. It keeps
// proxies and their properties in memory and renders nothing, which is all a
// CLI session or a test needs from the rendering subsystem.
package headless

import (
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/proxy"
)

// DefaultPointArray is the array name readers report until told otherwise.
const DefaultPointArray = "ImageFile"

// Node kinds used by the generic property serializer.
const (
	KindProperty = "Property"
	KindElement  = "Element"
)

// Option configures a Manager.
type Option func(*Manager)

// WithPointArrays overrides the point arrays new readers report.
func WithPointArrays(names ...string) Option {
	return func(m *Manager) {
		m.readerArrays = append([]string(nil), names...)
	}
}

// WithFirstID makes the manager start allocating IDs at id.
func WithFirstID(id proxy.ID) Option {
	return func(m *Manager) {
		if id > 0 {
			m.nextID = id
		}
	}
}

// Manager implements proxy.Manager without any native backend.
type Manager struct {
	nextID       proxy.ID
	registered   map[string][]proxy.Proxy
	readerArrays []string
}

var _ proxy.Manager = (*Manager)(nil)

// New creates an empty headless proxy manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		nextID:       1,
		registered:   make(map[string][]proxy.Proxy),
		readerArrays: []string{DefaultPointArray},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewProxy creates a proxy. Views get a View implementation, sources and
// filters a Source implementation, everything else a plain proxy.
func (m *Manager) NewProxy(group, name string) (proxy.Proxy, error) {
	if group == "" || name == "" {
		return nil, fmt.Errorf("headless: proxy group and name are required (got %q, %q)", group, name)
	}
	base := &baseProxy{id: m.nextID, group: group, name: name}
	m.nextID++

	switch group {
	case proxy.GroupViews:
		return &viewProxy{baseProxy: base}, nil
	case proxy.GroupSources, proxy.GroupFilters:
		if strings.HasSuffix(name, "Reader") && len(m.readerArrays) > 0 {
			base.SetProperty(propPointArrays, m.readerArrays...)
		}
		return &sourceProxy{baseProxy: base}, nil
	default:
		return base, nil
	}
}

// Register implements proxy.Manager.
func (m *Manager) Register(registrationGroup string, p proxy.Proxy) error {
	if p == nil {
		return fmt.Errorf("headless: cannot register nil proxy in %q", registrationGroup)
	}
	if registrationGroup == "" {
		return fmt.Errorf("headless: registration group is required for proxy %s", p.ID())
	}
	if slices.Contains(m.registered[registrationGroup], p) {
		return nil
	}
	m.registered[registrationGroup] = append(m.registered[registrationGroup], p)
	return nil
}

// Unregister implements proxy.Manager.
func (m *Manager) Unregister(p proxy.Proxy) {
	if p == nil {
		return
	}
	for group, proxies := range m.registered {
		m.registered[group] = slices.DeleteFunc(proxies, func(q proxy.Proxy) bool { return q == p })
	}
}

// Proxies implements proxy.Manager.
func (m *Manager) Proxies(registrationGroup string) []proxy.Proxy {
	return slices.Clone(m.registered[registrationGroup])
}

// IsRegistered reports whether p is registered under any group.
func (m *Manager) IsRegistered(p proxy.Proxy) bool {
	for _, proxies := range m.registered {
		if slices.Contains(proxies, p) {
			return true
		}
	}
	return false
}

// RegisteredCount returns how many proxies are registered across all groups.
func (m *Manager) RegisteredCount() int {
	n := 0
	for _, proxies := range m.registered {
		n += len(proxies)
	}
	return n
}

// DeleteAll implements proxy.Manager.
func (m *Manager) DeleteAll() {
	m.registered = make(map[string][]proxy.Proxy)
}

// Serialize writes one Property child per property of p.
func (m *Manager) Serialize(p proxy.Proxy, node *document.Node) error {
	if p == nil || node == nil {
		return fmt.Errorf("headless: serialize needs a proxy and a node")
	}
	bp, err := unwrap(p)
	if err != nil {
		return err
	}
	for _, name := range bp.order {
		prop := node.AppendChild(KindProperty)
		prop.SetAttr("name", name)
		if refs, ok := bp.refs[name]; ok {
			prop.SetBool("ref", true)
			prop.SetInt("number_of_elements", len(refs))
			for i, ref := range refs {
				el := prop.AppendChild(KindElement)
				el.SetInt("index", i)
				el.SetUint("value", uint32(ref.ID()))
			}
			continue
		}
		values := bp.props[name]
		prop.SetInt("number_of_elements", len(values))
		for i, v := range values {
			el := prop.AppendChild(KindElement)
			el.SetInt("index", i)
			el.SetAttr("value", v)
		}
	}
	return nil
}

// Deserialize restores properties written by Serialize. Proxy references are
// remapped through loc and references that do not resolve are dropped. With a
// nil loc, reference properties are left untouched.
func (m *Manager) Deserialize(p proxy.Proxy, node *document.Node, loc proxy.Locator) error {
	if p == nil || node == nil {
		return fmt.Errorf("headless: deserialize needs a proxy and a node")
	}
	for _, prop := range node.Children(KindProperty) {
		name, ok := prop.Attr("name")
		if !ok || name == "" {
			return fmt.Errorf("headless: property without a name on proxy %s/%s", p.Group(), p.Name())
		}
		elements := prop.Children(KindElement)
		if prop.Bool("ref", false) {
			if loc == nil {
				continue
			}
			var refs []proxy.Proxy
			for _, el := range elements {
				if ref := loc.Locate(proxy.ID(el.Uint("value"))); ref != nil {
					refs = append(refs, ref)
				}
			}
			p.SetProxyProperty(name, refs...)
			continue
		}
		values := make([]string, 0, len(elements))
		for _, el := range elements {
			v, _ := el.Attr("value")
			values = append(values, v)
		}
		p.SetProperty(name, values...)
	}
	return nil
}

func unwrap(p proxy.Proxy) (*baseProxy, error) {
	switch v := p.(type) {
	case *baseProxy:
		return v, nil
	case *sourceProxy:
		return v.baseProxy, nil
	case *viewProxy:
		return v.baseProxy, nil
	default:
		return nil, fmt.Errorf("headless: proxy %s of type %T was not created by this manager", p.ID(), p)
	}
}

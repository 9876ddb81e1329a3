package testutil

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/proxy"
)

// ErrInjected is the error returned by FailingManager for injected failures.
var ErrInjected = errors.New("injected failure")

// FailingManager wraps a proxy.Manager and fails selected calls.
type FailingManager struct {
	proxy.Manager

	serialize   map[proxy.Proxy]bool
	deserialize map[string]bool
	create      map[string]bool
}

// NewFailingManager wraps pm. Without further configuration it behaves
// exactly like pm.
func NewFailingManager(pm proxy.Manager) *FailingManager {
	return &FailingManager{
		Manager:     pm,
		serialize:   make(map[proxy.Proxy]bool),
		deserialize: make(map[string]bool),
		create:      make(map[string]bool),
	}
}

// FailSerialize makes Serialize fail for p.
func (f *FailingManager) FailSerialize(p proxy.Proxy) {
	f.serialize[p] = true
}

// FailDeserialize makes Deserialize fail for every proxy of the given kind.
func (f *FailingManager) FailDeserialize(group, name string) {
	f.deserialize[group+"/"+name] = true
}

// FailCreate makes NewProxy fail for the given kind.
func (f *FailingManager) FailCreate(group, name string) {
	f.create[group+"/"+name] = true
}

func (f *FailingManager) NewProxy(group, name string) (proxy.Proxy, error) {
	if f.create[group+"/"+name] {
		return nil, fmt.Errorf("new proxy %s/%s: %w", group, name, ErrInjected)
	}
	return f.Manager.NewProxy(group, name)
}

func (f *FailingManager) Serialize(p proxy.Proxy, node *document.Node) error {
	if f.serialize[p] {
		return fmt.Errorf("serialize proxy %s: %w", p.ID(), ErrInjected)
	}
	return f.Manager.Serialize(p, node)
}

func (f *FailingManager) Deserialize(p proxy.Proxy, node *document.Node, loc proxy.Locator) error {
	if f.deserialize[p.Group()+"/"+p.Name()] {
		return fmt.Errorf("deserialize proxy %s/%s: %w", p.Group(), p.Name(), ErrInjected)
	}
	return f.Manager.Deserialize(p, node, loc)
}

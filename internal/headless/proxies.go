package headless

import (
	"slices"

	"github.com/specialistvlad/voxview/internal/proxy"
)

const (
	propPointArrays = "PointArrays"
	propInput       = "Input"
)

type baseProxy struct {
	id    proxy.ID
	group string
	name  string

	order []string
	props map[string][]string
	refs  map[string][]proxy.Proxy
}

func (p *baseProxy) ID() proxy.ID  { return p.id }
func (p *baseProxy) Group() string { return p.group }
func (p *baseProxy) Name() string  { return p.name }

func (p *baseProxy) touch(name string) {
	if !slices.Contains(p.order, name) {
		p.order = append(p.order, name)
	}
}

func (p *baseProxy) SetProperty(name string, values ...string) {
	if p.props == nil {
		p.props = make(map[string][]string)
	}
	delete(p.refs, name)
	p.props[name] = append([]string(nil), values...)
	p.touch(name)
}

func (p *baseProxy) Property(name string) []string {
	return slices.Clone(p.props[name])
}

func (p *baseProxy) SetProxyProperty(name string, proxies ...proxy.Proxy) {
	if p.refs == nil {
		p.refs = make(map[string][]proxy.Proxy)
	}
	delete(p.props, name)
	p.refs[name] = slices.DeleteFunc(slices.Clone(proxies), func(q proxy.Proxy) bool { return q == nil })
	p.touch(name)
}

func (p *baseProxy) ProxyProperty(name string) []proxy.Proxy {
	return slices.Clone(p.refs[name])
}

// sourceProxy reports point arrays from its own PointArrays property, or
// from its first input when it has none.
type sourceProxy struct {
	*baseProxy
}

func (s *sourceProxy) DataInformation() proxy.DataInformation {
	if arrays, ok := s.props[propPointArrays]; ok {
		return proxy.DataInformation{PointArrays: slices.Clone(arrays)}
	}
	for _, in := range s.refs[propInput] {
		if src, ok := in.(proxy.Source); ok {
			return src.DataInformation()
		}
	}
	return proxy.DataInformation{}
}

// viewProxy counts render requests.
type viewProxy struct {
	*baseProxy
	renders int
}

func (v *viewProxy) Render() {
	v.renders++
}

// RenderCount returns how many times a headless view has been rendered. It
// returns -1 for views that did not come from this package.
func RenderCount(v proxy.View) int {
	if hv, ok := v.(*viewProxy); ok {
		return hv.renders
	}
	return -1
}

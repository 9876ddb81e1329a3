// Package proxy defines the narrow contract between the scene core and the
// external rendering/pipeline subsystem.
//
// A Proxy is an opaque handle to a native object (reader, filter, view,
// layout, representation, widget, lookup table). The core never owns or
// copies a proxy's internals; it stores proxies, compares them by identity,
// reads and writes named properties, and asks the subsystem to dump or load
// a proxy's attributes into a document node.
package proxy

import (
	"strconv"

	"github.com/specialistvlad/voxview/internal/document"
)

// ID is the process-unique identifier assigned by the rendering subsystem.
// Zero is never a valid ID.
type ID uint32

// String renders the ID as the decimal string used in documents.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Registration groups used by the core.
const (
	GroupLayouts         = "layouts"
	GroupViews           = "views"
	GroupSources         = "sources"
	GroupFilters         = "filters"
	GroupRepresentations = "representations"
	GroupWidgets         = "widgets"
	GroupLookupTables    = "lookup_tables"
)

// Proxy is an opaque handle to a native object.
type Proxy interface {
	ID() ID
	// Group and Name are the (xmlgroup, xmlname) pair describing the kind of
	// native object, e.g. ("sources", "TIFFSeriesReader").
	Group() string
	Name() string

	SetProperty(name string, values ...string)
	Property(name string) []string
	SetProxyProperty(name string, proxies ...Proxy)
	ProxyProperty(name string) []Proxy
}

// DataInformation summarizes the data produced by a Source.
type DataInformation struct {
	PointArrays []string
}

// Source is a proxy producing data: readers, producers and filters.
type Source interface {
	Proxy
	DataInformation() DataInformation
}

// View is a proxy that renders representations.
type View interface {
	Proxy
	Render()
}

// Locator resolves IDs recorded in a document to proxies created during the
// current load.
type Locator interface {
	Locate(id ID) Proxy
}

// Manager is the rendering subsystem's proxy manager.
type Manager interface {
	// NewProxy creates an unregistered proxy of the given kind.
	NewProxy(group, name string) (Proxy, error)
	// Register makes p visible under a registration group such as "views".
	Register(registrationGroup string, p Proxy) error
	// Unregister removes p from every registration group. Unregistering an
	// unknown or nil proxy is a no-op.
	Unregister(p Proxy)
	// Proxies lists the proxies registered under a group in registration order.
	Proxies(registrationGroup string) []Proxy
	// DeleteAll unregisters every proxy the manager knows about.
	DeleteAll()

	// Serialize dumps p's own attributes into node.
	Serialize(p Proxy, node *document.Node) error
	// Deserialize loads attributes from node into p. Proxy references are
	// resolved through loc, which may be nil.
	Deserialize(p Proxy, node *document.Node, loc Locator) error
}

// MapLocator is a Locator backed by a map. A fresh one is built for every
// load and discarded afterwards.
type MapLocator struct {
	proxies map[ID]Proxy
}

// NewMapLocator returns an empty locator.
func NewMapLocator() *MapLocator {
	return &MapLocator{proxies: make(map[ID]Proxy)}
}

// Assign records that id in the document now refers to p.
func (l *MapLocator) Assign(id ID, p Proxy) {
	l.proxies[id] = p
}

// Locate implements Locator.
func (l *MapLocator) Locate(id ID) Proxy {
	return l.proxies[id]
}

// Remove forgets id.
func (l *MapLocator) Remove(id ID) {
	delete(l.proxies, id)
}

// Len returns the number of assigned IDs.
func (l *MapLocator) Len() int {
	return len(l.proxies)
}

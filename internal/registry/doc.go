// Package registry is the module factory: it maps the type names written in
// state documents (e.g. "Outline") to the Go constructors of the
// corresponding module variants.
//
// Variant packages register themselves through a Provider, so the manager
// never has to know which variants are compiled in. During application
// startup the registry is populated and then validated against the
// configured default modules, which turns a misspelled type name into a
// startup error instead of a silently empty scene.
package registry

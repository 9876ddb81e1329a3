// Package module defines the contract every visualization module implements,
// plus Base, the binding and lifecycle state machine shared by all variants.
//
// A module is bound to exactly one DataSource and one view. Both bindings are
// weak: the module never destroys them, and the manager guarantees that a
// module is removed before the DataSource it points to.
package module

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/voxview/internal/datasource"
	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/proxy"
)

// State is a module's position in its lifecycle.
type State int

const (
	Uninitialized State = iota
	Initialized
	Finalized
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Finalized:
		return "finalized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrNilBinding is returned by Initialize when the DataSource or view is nil.
	ErrNilBinding = errors.New("module: data source and view are required")
	// ErrAlreadyInitialized is returned when Initialize runs twice.
	ErrAlreadyInitialized = errors.New("module: already initialized")
)

// Module is a visualization overlay bound to one DataSource and one view.
type Module interface {
	// Initialize builds the variant's proxies and attaches them to view. It
	// is the only way out of the Uninitialized state and is not retried.
	Initialize(ds *datasource.DataSource, view proxy.View) error
	// Finalize releases whatever Initialize created. It may be called any
	// number of times, including after a failed Initialize.
	Finalize() error

	// SetVisibility and Visibility panic on a module that is not initialized.
	SetVisibility(visible bool) error
	Visibility() bool

	// Serialize writes the variant's own state into node. An error means the
	// node is incomplete and must be discarded.
	Serialize(node *document.Node) error
	// Deserialize restores what Serialize wrote.
	Deserialize(node *document.Node) error

	Label() string
	Icon() string

	DataSource() *datasource.DataSource
	View() proxy.View
	State() State
}

// MustBeInitialized panics unless m is initialized. Operating on a module
// that was never initialized (or was already finalized) is a caller bug.
func MustBeInitialized(m Module, op string) {
	if st := m.State(); st != Initialized {
		panic(fmt.Sprintf("module %q: %s called on %s module", m.Label(), op, st))
	}
}

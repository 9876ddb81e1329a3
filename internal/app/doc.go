// Package app contains the session logic: it wires the proxy manager, the
// module registry, the scene graph manager and the selection together with
// the state store, the recent files list, metrics and broadcasting, and
// runs one session from a CLI or server entrypoint.
package app

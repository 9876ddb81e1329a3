// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from files.
//
// The `config.Model` is the single source of truth for session defaults, the
// reader table and the peripheral services (state store, recent files,
// broadcast). Concrete loaders, such as the HCL one, live in separate
// packages.
package config

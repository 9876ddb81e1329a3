// Package broadcast mirrors scene graph activity to a socket.io endpoint so
// that remote panels (a pipeline browser, a properties panel) can follow a
// session without sharing its memory.
//
// Events and their payloads:
//
//	data_source_added / data_source_removed   {"label", "reader", "file"}
//	module_added / module_removed             {"type", "label", "data_source", "visible"}
//	selection_changed                         {"view", "data_source", "module"}
//	state_saved / state_loaded                {"key", "records", "skipped"}
package broadcast

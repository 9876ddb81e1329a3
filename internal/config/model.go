package config

import (
	"maps"
	"slices"
	"strings"
)

// Model is the unified, format-agnostic representation of the application
// configuration.
type Model struct {
	Session     *Session
	Readers     map[string]string
	StateStore  *StateStore
	RecentFiles *RecentFiles
	Broadcast   *Broadcast
}

// Session holds defaults applied while the user works.
type Session struct {
	// DefaultModules are created, in order, for every loaded data file. The
	// last one becomes the active module.
	DefaultModules []string
}

// StateStore selects where saved states are written.
type StateStore struct {
	// Driver is one of "fs", "memory" or "s3".
	Driver string
	// Path is the root directory of the fs driver.
	Path string

	Bucket   string
	Prefix   string
	Region   string
	Endpoint string
	// PathStyle addresses the bucket in the URL path, as MinIO expects.
	PathStyle bool
	// Static credentials; empty values fall back to the AWS default chain.
	AccessKeyID     string
	SecretAccessKey string
}

// RecentFiles configures the recently opened files list.
type RecentFiles struct {
	// Path of the SQLite database; ":memory:" keeps the list per process.
	Path  string
	Limit int
}

// Broadcast configures the socket.io endpoint that receives scene events.
// An empty URL disables broadcasting.
type Broadcast struct {
	URL       string
	Namespace string
}

// DefaultReaders maps lower-case file extensions to reader proxy names.
var DefaultReaders = map[string]string{
	".tif":  "TIFFSeriesReader",
	".tiff": "TIFFSeriesReader",
	".png":  "PNGSeriesReader",
	".jpg":  "JPEGSeriesReader",
	".jpeg": "JPEGSeriesReader",
	".raw":  "RawImageReader",
	".dat":  "RawImageReader",
	".bin":  "RawImageReader",
	".txt":  "CSVReader",
}

// Default returns the configuration used when no file overrides it.
func Default() *Model {
	return &Model{
		Session: &Session{
			DefaultModules: []string{"Outline", "Orthogonal Slice"},
		},
		Readers: maps.Clone(DefaultReaders),
		StateStore: &StateStore{
			Driver: "fs",
			Path:   "states",
		},
		RecentFiles: &RecentFiles{
			Path:  ":memory:",
			Limit: 10,
		},
		Broadcast: &Broadcast{
			Namespace: "/",
		},
	}
}

// ReaderFor returns the reader proxy name for a file path, matched on its
// extension without regard to case.
func (m *Model) ReaderFor(path string) (string, bool) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", false
	}
	name, ok := m.Readers[strings.ToLower(path[i:])]
	return name, ok
}

// Extensions returns the known file extensions, sorted.
func (m *Model) Extensions() []string {
	return slices.Sorted(maps.Keys(m.Readers))
}

package manager

import (
	"context"
	"errors"

	"github.com/specialistvlad/voxview/internal/ctxlog"
	"github.com/specialistvlad/voxview/internal/proxy"
)

var (
	// ErrNilRoot is the only error that aborts a whole Serialize or Deserialize.
	ErrNilRoot = errors.New("manager: document root is nil")

	// ErrUnresolvedReference marks a record whose reader, DataSource or view
	// ID does not resolve.
	ErrUnresolvedReference = errors.New("unresolved reference")
	// ErrAttributeSerialization marks a record whose own attributes could
	// not be written or read. Records depending on it are dropped too.
	ErrAttributeSerialization = errors.New("attribute serialization failed")
	// ErrInvalidRecord marks a record with missing tags or a zero ID.
	ErrInvalidRecord = errors.New("invalid record")
)

// Skipped describes one record that was not written or not restored.
type Skipped struct {
	Kind string
	// ID is the record's id attribute, or zero for kinds without one.
	ID  proxy.ID
	Err error
}

// Report summarizes a Serialize or Deserialize pass. Records counts the
// records written or restored per kind.
type Report struct {
	Records map[string]int
	Skipped []Skipped
}

// OK reports whether every record made it.
func (r *Report) OK() bool {
	return len(r.Skipped) == 0
}

// SkippedKind returns the skipped records of one kind.
func (r *Report) SkippedKind(kind string) []Skipped {
	var out []Skipped
	for _, s := range r.Skipped {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func (r *Report) done(kind string) {
	if r.Records == nil {
		r.Records = make(map[string]int)
	}
	r.Records[kind]++
}

func (r *Report) skip(ctx context.Context, kind string, id proxy.ID, err error) {
	r.Skipped = append(r.Skipped, Skipped{Kind: kind, ID: id, Err: err})
	ctxlog.FromContext(ctx).Warn("Skipping record.", "kind", kind, "id", uint32(id), "error", err)
}

package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/specialistvlad/voxview/internal/ctxlog"
	"github.com/specialistvlad/voxview/internal/document"
	"github.com/specialistvlad/voxview/internal/document/hcldoc"
	"github.com/specialistvlad/voxview/internal/document/xmldoc"
	"github.com/specialistvlad/voxview/internal/manager"
	"github.com/specialistvlad/voxview/internal/metrics"
)

// ErrUnsupportedState is returned for state keys whose extension maps to no
// document format.
var ErrUnsupportedState = errors.New("unsupported state format")

// codecFor picks the document format from the key's extension: .vxs and
// .hcl are HCL, .xml is XML.
func codecFor(key string) (document.Codec, error) {
	switch strings.ToLower(path.Ext(key)) {
	case ".vxs", ".hcl":
		return hcldoc.New(path.Base(key)), nil
	case ".xml":
		return xmldoc.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedState, key)
	}
}

// SaveState serializes the scene and writes it under key. Records that
// could not be written are listed in the report; they do not fail the save.
func (a *App) SaveState(ctx context.Context, key string) (*manager.Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	codec, err := codecFor(key)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	root := document.NewNode(document.KindState)
	report, err := a.manager.Serialize(ctx, root)
	a.metrics.ObserveReport(metrics.OpSave, report, time.Since(start))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := codec.Encode(&buf, root); err != nil {
		return report, fmt.Errorf("encode %s: %w", key, err)
	}
	if err := a.store.Put(ctx, key, buf.Bytes()); err != nil {
		return report, fmt.Errorf("store %s: %w", key, err)
	}
	if a.broadcaster != nil {
		a.broadcaster.StateSaved(key, report)
	}
	a.logger.Info("State saved.", "key", key, "records", report.Records, "skipped", len(report.Skipped))
	return report, nil
}

// LoadState replaces the scene with the state stored under key.
func (a *App) LoadState(ctx context.Context, key string) (*manager.Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	codec, err := codecFor(key)
	if err != nil {
		return nil, err
	}
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	root, err := codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}

	start := time.Now()
	report, err := a.manager.Deserialize(ctx, root)
	a.metrics.ObserveReport(metrics.OpLoad, report, time.Since(start))
	if err != nil {
		return nil, err
	}
	if err := a.ensureView(); err != nil {
		return report, err
	}
	a.active.RenderAllViews()
	if a.broadcaster != nil {
		a.broadcaster.StateLoaded(key, report)
	}
	a.logger.Info("State loaded.", "key", key, "records", report.Records, "skipped", len(report.Skipped))
	return report, nil
}

// ListStates returns the stored state keys starting with prefix.
func (a *App) ListStates(ctx context.Context, prefix string) ([]string, error) {
	return a.store.List(ctx, prefix)
}

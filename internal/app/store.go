package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/voxview/internal/config"
	"github.com/specialistvlad/voxview/internal/statestore"
	fsstore "github.com/specialistvlad/voxview/internal/statestore/fs"
	"github.com/specialistvlad/voxview/internal/statestore/memory"
	s3store "github.com/specialistvlad/voxview/internal/statestore/s3"
)

// openStateStore selects a statestore.Store implementation from cfg.
func openStateStore(ctx context.Context, cfg *config.StateStore) (statestore.Store, error) {
	switch statestore.Driver(cfg.Driver) {
	case statestore.DriverFilesystem, "":
		return fsstore.New(cfg.Path)
	case statestore.DriverMemory:
		return memory.New(), nil
	case statestore.DriverS3:
		return s3store.New(ctx, s3store.Config{
			Bucket:          cfg.Bucket,
			Prefix:          cfg.Prefix,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			PathStyle:       cfg.PathStyle,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unknown state store driver %q", cfg.Driver)
	}
}

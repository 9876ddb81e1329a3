package hclconfig

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes all top-level blocks of a configuration file.
type fileRoot struct {
	Session     *sessionBlock     `hcl:"session,block"`
	Readers     []*readerBlock    `hcl:"reader,block"`
	StateStore  *stateStoreBlock  `hcl:"state_store,block"`
	RecentFiles *recentFilesBlock `hcl:"recent_files,block"`
	Broadcast   *broadcastBlock   `hcl:"broadcast,block"`
	Remain      hcl.Body          `hcl:",remain"`
}

type sessionBlock struct {
	DefaultModules *[]string `hcl:"default_modules,optional"`
}

type readerBlock struct {
	Extension string `hcl:"extension,label"`
	Name      string `hcl:"name"`
}

type stateStoreBlock struct {
	Driver   string  `hcl:"driver"`
	Path     *string `hcl:"path,optional"`
	Bucket   *string `hcl:"bucket,optional"`
	Prefix   *string `hcl:"prefix,optional"`
	Region   *string `hcl:"region,optional"`
	Endpoint *string `hcl:"endpoint,optional"`

	PathStyle       *bool   `hcl:"path_style,optional"`
	AccessKeyID     *string `hcl:"access_key_id,optional"`
	SecretAccessKey *string `hcl:"secret_access_key,optional"`
}

type recentFilesBlock struct {
	Path  *string `hcl:"path,optional"`
	Limit *int    `hcl:"limit,optional"`
}

type broadcastBlock struct {
	URL       string  `hcl:"url"`
	Namespace *string `hcl:"namespace,optional"`
}

package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths []string // hcl files or directories
	DataPaths   []string // data files or directories to open

	LoadState string // state key restored before DataPaths are opened
	SaveState string // state key written after everything is opened

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.DataPaths) == 0 && cfg.LoadState == "" && cfg.HealthcheckPort <= 0 {
		return nil, errors.New("nothing to do: give a data path, a state to load or a healthcheck port")
	}
	return &cfg, nil
}

package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/voxview/internal/ctxlog"
)

// Run executes one session: restore a state if asked, open the data paths,
// render, save if asked. With a health check port the session then stays
// up, serving /health and /metrics, until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if _, err := a.healthCheckServer(); err != nil {
		return err
	}
	defer a.closeHealthCheckServer()

	if a.config.LoadState != "" {
		report, err := a.LoadState(ctx, a.config.LoadState)
		if err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}
		if !report.OK() {
			a.logger.Warn("State loaded partially.", "skipped", len(report.Skipped))
		}
	}

	var errs []error
	for _, p := range a.config.DataPaths {
		n, err := a.LoadPath(ctx, p)
		if err != nil {
			errs = append(errs, err)
		}
		a.logger.Debug("Data path processed.", "path", p, "loaded", n)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}

	rendered := a.active.RenderAllViews()
	a.logger.Info("🏁 Scene ready.",
		"data_sources", len(a.manager.DataSources()),
		"modules", len(a.manager.Modules()),
		"views", rendered,
	)

	if a.config.SaveState != "" {
		if _, err := a.SaveState(ctx, a.config.SaveState); err != nil {
			return fmt.Errorf("failed to save state: %w", err)
		}
	}

	if a.httpServer != nil {
		a.logger.Info("Serving until interrupted.")
		<-ctx.Done()
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/gophprofile/internal/client/client"
	"github.com/dmitrijs2005/gophprofile/internal/client/config"
	"github.com/dmitrijs2005/gophprofile/internal/client/connectivity"
	"github.com/dmitrijs2005/gophprofile/internal/client/forms"
	"github.com/dmitrijs2005/gophprofile/internal/client/i18n"
	"github.com/dmitrijs2005/gophprofile/internal/client/metrics"
	"github.com/dmitrijs2005/gophprofile/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/gophprofile/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/gophprofile/internal/client/session"
	"github.com/dmitrijs2005/gophprofile/internal/filex"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
)

// Build wires the session cache, the identity client, the profile store,
// the connectivity watcher and the coordinator into an App.
func Build(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	tr := i18n.NewTranslator(cfg.Locale)

	if _, err := filex.EnsureParentDir(cfg.SessionDBPath); err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	db, err := client.InitDatabase(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}

	id, err := client.NewGRPCIdentity(cfg.IdentityAddr, sessions.NewSQLiteStore(db), client.WithLogger(logger))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("identity client: %w", err)
	}

	store, closeStore, err := profiles.Open(ctx, cfg.Profiles())
	if err != nil {
		id.Close()
		db.Close()
		return nil, fmt.Errorf("profile store: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	recorder := metrics.NewRecorder(reg)

	watcher := connectivity.NewWatcher(id, cfg.ConnectivityInterval, cfg.ProbeTimeout, logger)

	coord := session.NewCoordinator(id, store, watcher,
		session.WithLogger(logger),
		session.WithTranslator(tr),
		session.WithMetrics(recorder),
	)

	v := forms.New(tr, forms.WithVariant(forms.Variant(cfg.NameRule)))

	app := NewApp(coord, v, tr, logger)
	app.background = append(app.background, coord.Run)
	if cfg.MetricsAddr != "" {
		app.background = append(app.background, func(ctx context.Context) {
			if err := serveMetrics(ctx, cfg.MetricsAddr, metrics.Handler(reg), app.logger); err != nil {
				app.logger.Error(ctx, "metrics server failed", "error", err)
			}
		})
	}
	app.closers = append(app.closers,
		func(context.Context) error { return db.Close() },
		func(context.Context) error { return id.Close() },
		closeStore,
	)
	return app, nil
}

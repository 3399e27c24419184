package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	tcellbackend "github.com/odvcencio/arrownav/pkg/backend/tcell"
	"github.com/odvcencio/arrownav/pkg/bus"
	"github.com/odvcencio/arrownav/pkg/config"
	"github.com/odvcencio/arrownav/pkg/demo"
	"github.com/odvcencio/arrownav/pkg/errors"
	"github.com/odvcencio/arrownav/pkg/logging"
	"github.com/odvcencio/arrownav/pkg/nav"
	"github.com/odvcencio/arrownav/pkg/surface"
	"github.com/odvcencio/arrownav/pkg/telemetry"
)

const navTracerName = "github.com/odvcencio/arrownav/pkg/nav"

func runInteractive(opts startupOptions) error {
	if !isInteractiveTerminal() {
		return withExitCode(
			errors.New(errors.ErrCodeTerminal, "stdin and stdout must be a terminal").
				WithRemediation("run arrownav from an interactive terminal, or use `arrownav config check`"),
			2,
		)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	sessionID := uuid.New().String()[:8]
	logger, err := logging.Open(cfg.Logging.File, cfg.LogLevel())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "opening log file").WithContext("path", cfg.Logging.File)
	}
	defer logger.Close()
	log := logger.WithSession(sessionID)
	for _, w := range cfg.ValidationWarnings() {
		log.Warn("config warning", "detail", w)
	}

	tp, err := telemetry.OpenTraceFile(cfg.Telemetry.TraceFile, "arrownav", version)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("trace shutdown failed", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(reg)

	keys, err := cfg.KeyMap()
	if err != nil {
		return err
	}

	b, err := tcellbackend.New()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeTerminal, "opening terminal")
	}
	if err := b.Init(); err != nil {
		return errors.Wrap(err, errors.ErrCodeTerminal, "initializing terminal")
	}
	defer b.Fini()

	width, height := b.Size()
	s := surface.New(width, max(1, height-1), surface.WithSmoothSteps(cfg.Scroll.SmoothSteps))

	events := bus.New()
	defer events.Close()
	defer nav.LogEvents(events, log.WithComponent("bus").Logger).Unsubscribe()
	registry := nav.NewRegistry()
	defer registry.Attach(events).Close()
	registrar := nav.NewRegistrar(events)
	defer registrar.Close()

	screen := demo.Build(s, registrar, demo.Options{
		Rows:        cfg.Demo.Rows,
		TilesPerRow: cfg.Demo.TilesPerRow,
		SideItems:   cfg.Demo.SideItems,
		RowPolicy:   cfg.Demo.RowPolicy,
	})
	defer screen.Close()

	ctrl := nav.NewController(registry, events,
		nav.WithHitTester(s),
		nav.WithAutoScroll(s, cfg.Scroll.BandLow, cfg.Scroll.BandHigh),
		nav.WithKeyMap(keys),
		nav.WithEnteringOptions(cfg.EnteringOptions()),
		nav.WithLogger(log.WithComponent("nav").Logger),
		nav.WithRecorder(metrics),
		nav.WithTracer(tp.Tracer(navTracerName)),
	)
	if id := cfg.Navigation.InitialFocus; id != "" && !ctrl.Focus(id) {
		log.Warn("initial focus not found", "element", id)
	}

	app := demo.NewApp(b, screen, ctrl, demo.AppOptions{
		MovesPerSecond: cfg.Input.MaxMovesPerSecond,
		Logger:         log.WithComponent("demo").Logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return app.Run(gctx)
	})

	if addr := cfg.Telemetry.MetricsAddr; addr != "" {
		srv := &http.Server{
			Addr:              addr,
			Handler:           telemetry.NewRouter(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, errors.ErrCodeTelemetry, "metrics server").WithContext("addr", addr)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
		log.Info("serving metrics", "addr", addr)
	}

	if path := configSource(opts.configPath); path != "" {
		watchLog := log.WithComponent("config")
		g.Go(func() error {
			err := config.Watch(gctx, path, func(next *config.Config, err error) {
				if err == nil && opts.configPath == "" {
					// Reload every layer, not just the file that changed.
					next, err = loadConfig(opts)
				}
				if err != nil {
					watchLog.Warn("config reload failed", "path", path, "error", err)
					return
				}
				km, err := next.KeyMap()
				if err != nil {
					watchLog.Warn("invalid key bindings", "path", path, "error", err)
					return
				}
				if err := app.SetKeyMap(km); err != nil {
					watchLog.Warn("applying key bindings", "error", err)
					return
				}
				watchLog.Info("key bindings reloaded", "path", path, "bindings", len(km))
			})
			if err != nil {
				// Reloading is optional; keep the UI running.
				watchLog.Warn("config watch unavailable", "path", path, "error", err)
			}
			return nil
		})
	}

	log.Info("arrownav started", "width", width, "height", height, "version", version)
	err = g.Wait()
	log.Info("arrownav stopped", "moves_dropped", app.Dropped())
	return err
}

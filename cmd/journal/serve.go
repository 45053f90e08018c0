package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"

	journal "github.com/alnah/go-journal"
	"github.com/alnah/go-journal/internal/assets"
	"github.com/alnah/go-journal/internal/config"
	"github.com/alnah/go-journal/internal/fileutil"
	"github.com/alnah/go-journal/internal/hints"
	"github.com/alnah/go-journal/internal/logger"
	"github.com/alnah/go-journal/internal/roster"
	"github.com/alnah/go-journal/internal/web"
)

// Sentinel errors for serve.
var ErrUploadDir = errors.New("upload directory unusable")

// uploadDirPermissions is rwxr-x---: owner full, group read+execute.
const uploadDirPermissions = 0o750

// server is a configured but not yet listening journal service.
type server struct {
	cfg      *config.Config
	log      *logger.Logger
	exporter *journal.Exporter
	http     *http.Server
}

// runServe starts the HTTP service and blocks until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, _, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common, flags.converter, env)
	if err != nil {
		return err
	}
	applyServeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := env.newLogger(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	undo, _ := maxprocs.Set(maxprocs.Logger(log.Printf))
	defer undo()

	srv, err := newServer(cfg, env, log)
	if err != nil {
		return err
	}
	defer func() { _ = srv.exporter.Close() }()

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
	}
	return srv.serve(ctx, ln)
}

// applyServeFlags overlays explicitly set serve flags onto cfg.
func applyServeFlags(f *serveFlags, cfg *config.Config) {
	setString(&cfg.Server.Addr, f.addr)
	setString(&cfg.Roster.Path, f.roster)
	setString(&cfg.Server.UploadDir, f.uploadDir)
	setString(&cfg.Assets.BasePath, f.assetPath)
}

// newServer loads the roster, prepares the upload directory and wires the
// exporter into the router. A missing PDF converter is logged, not fatal:
// DOCX downloads keep working and PDF requests answer 503.
func newServer(cfg *config.Config, env *Environment, log *logger.Logger) (*server, error) {
	ros, err := roster.Load(cfg.Roster.Path)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w%s", err, hints.ForRoster())
	}
	log.Info("roster loaded", "path", cfg.Roster.Path, "students", ros.Len())

	if err := os.MkdirAll(cfg.Server.UploadDir, uploadDirPermissions); err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrUploadDir, err, hints.ForUploadDirectory())
	}
	if !fileutil.DirWritable(cfg.Server.UploadDir) {
		return nil, fmt.Errorf("%w: %s is not writable%s", ErrUploadDir, cfg.Server.UploadDir, hints.ForUploadDirectory())
	}

	exp, err := newExporter(cfg, env, log)
	if err != nil {
		return nil, fmt.Errorf("creating exporter: %w", err)
	}

	pdfEnabled := true
	if err := exp.Check(); err != nil {
		pdfEnabled = false
		log.Warn("PDF export disabled", "backend", exp.Backend(), "error", err.Error()+converterHint(err, cfg, env.Getenv))
	}

	var loader assets.AssetLoader
	if cfg.Assets.BasePath != "" {
		loader, err = assets.NewAssetResolver(cfg.Assets.BasePath)
		if err != nil {
			_ = exp.Close()
			return nil, fmt.Errorf("loading assets: %w", err)
		}
	}

	router, err := web.NewRouter(web.RouterConfig{
		Log:            log,
		Roster:         ros,
		Exporter:       exp,
		Assets:         loader,
		SiteTitle:      cfg.Site.Title,
		Intro:          cfg.Site.Intro,
		UploadDir:      cfg.Server.UploadDir,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		CORSOrigins:    cfg.Server.CORSOrigins,
		PDFEnabled:     pdfEnabled,
	})
	if err != nil {
		_ = exp.Close()
		return nil, fmt.Errorf("building router: %w", err)
	}

	return &server{
		cfg:      cfg,
		log:      log,
		exporter: exp,
		http: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           router,
			ReadHeaderTimeout: cfg.Server.ReadTimeout.Std(),
			ReadTimeout:       cfg.Server.ReadTimeout.Std(),
			WriteTimeout:      cfg.Server.WriteTimeout.Std(),
		},
	}, nil
}

// serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully within server.shutdownTimeout.
func (s *server) serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("listening",
			"addr", ln.Addr().String(),
			"backend", s.exporter.Backend(),
			"workers", s.exporter.Workers(),
		)
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

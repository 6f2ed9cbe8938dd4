package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/term"

	"github.com/aretw0/pagedform"
	"github.com/aretw0/pagedform/internal/compiler"
	"github.com/aretw0/pagedform/internal/logging"
	"github.com/aretw0/pagedform/internal/presentation/tui"
	httpadapter "github.com/aretw0/pagedform/pkg/adapters/http"
	mcpadapter "github.com/aretw0/pagedform/pkg/adapters/mcp"
	"github.com/aretw0/pagedform/pkg/observability"
	"github.com/aretw0/pagedform/pkg/runner"
)

// App carries what every command needs once the configuration is known.
type App struct {
	Config Config
	Logger *slog.Logger
}

// NewApp validates cfg and builds the logger.
func NewApp(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, Logger: logging.New(level)}, nil
}

// LoadForms compiles every definition file.
func LoadForms(paths ...string) ([]*pagedform.Blueprint, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no form definition given")
	}
	parser := compiler.NewParser()
	forms := make([]*pagedform.Blueprint, 0, len(paths))
	for _, path := range paths {
		bp, err := parser.Load(path)
		if err != nil {
			return nil, err
		}
		forms = append(forms, bp)
	}
	return forms, nil
}

// NewServer assembles the HTTP server for forms, with its own metrics registry.
// The returned function releases the submission store.
func (a *App) NewServer(ctx context.Context, forms []*pagedform.Blueprint) (*http.Server, func() error, error) {
	sealer, err := a.Config.Sealer()
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := OpenStore(ctx, a.Config, sealer, a.Logger)
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}

	opts := []httpadapter.Option{
		httpadapter.WithStore(store),
		httpadapter.WithMetrics(metrics),
		httpadapter.WithGatherer(reg),
		httpadapter.WithLogger(a.Logger),
		httpadapter.WithMaxInputSize(a.Config.MaxInputSize),
	}
	if sealer != nil {
		opts = append(opts, httpadapter.WithSealer(sealer))
	}
	handler, err := httpadapter.NewHandler(forms, opts...)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, closeStore, nil
}

// NewMCPServer assembles the MCP tool server for forms. The returned function
// releases the submission store.
func (a *App) NewMCPServer(ctx context.Context, forms []*pagedform.Blueprint, version string) (*mcpadapter.Server, func() error, error) {
	sealer, err := a.Config.Sealer()
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := OpenStore(ctx, a.Config, sealer, a.Logger)
	if err != nil {
		return nil, nil, err
	}
	srv, err := mcpadapter.NewServer(forms, version,
		mcpadapter.WithStore(store),
		mcpadapter.WithLogger(a.Logger),
		mcpadapter.WithMaxInputSize(a.Config.MaxInputSize),
	)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	return srv, closeStore, nil
}

// Serve runs srv until ctx ends, then shuts it down gracefully.
func (a *App) Serve(ctx context.Context, srv *http.Server, grace time.Duration) error {
	errs := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", "addr", srv.Addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down", "grace", grace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("graceful shutdown did not complete", "error", err)
		return srv.Close()
	}
	return nil
}

// RunOptions configures an interactive run.
type RunOptions struct {
	In       io.Reader
	Out      io.Writer
	Headless bool
}

// IsInteractive reports whether stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Run fills bp in the terminal and stores the result. Prompts use survey on a
// terminal and plain lines otherwise.
func (a *App) Run(ctx context.Context, bp *pagedform.Blueprint, opts RunOptions) (*runner.Result, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	sealer, err := a.Config.Sealer()
	if err != nil {
		return nil, err
	}
	store, closeStore, err := OpenStore(ctx, a.Config, sealer, a.Logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.Logger.Warn("close store failed", "error", err)
		}
	}()

	var (
		driver   runner.PromptDriver
		renderer runner.ContentRenderer
	)
	if !opts.Headless && IsInteractive() {
		driver = runner.NewSurveyDriver()
		renderer = tui.NewRenderer(0)
		tui.PrintBanner(opts.Out, bp.Name(), len(bp.Pages()))
	} else {
		driver = runner.NewLineDriver(opts.In, opts.Out)
		renderer = tui.NewPlainRenderer(80)
	}

	r := runner.New(driver,
		runner.WithOutput(opts.Out),
		runner.WithRenderer(renderer),
		runner.WithLogger(a.Logger),
		runner.WithStore(store),
		runner.WithMaxInputSize(a.Config.MaxInputSize),
		runner.WithControllerOptions(pagedform.WithLifecycleHooks(observability.LoggingHooks(a.Logger))),
	)
	return r.Run(ctx, bp)
}

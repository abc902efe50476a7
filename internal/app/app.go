package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmoreau-sec/wifiscout/internal/adapters/reporting"
	"github.com/tmoreau-sec/wifiscout/internal/adapters/scan"
	"github.com/tmoreau-sec/wifiscout/internal/adapters/storage"
	webserver "github.com/tmoreau-sec/wifiscout/internal/adapters/web/server"
	"github.com/tmoreau-sec/wifiscout/internal/adapters/web/websocket"
	"github.com/tmoreau-sec/wifiscout/internal/config"
	"github.com/tmoreau-sec/wifiscout/internal/core/services/assessment"
	"github.com/tmoreau-sec/wifiscout/internal/core/services/auth"
	"github.com/tmoreau-sec/wifiscout/internal/telemetry"
)

// Application wires the scanner, stores and servers together. It acts
// as the facade for the whole system.
type Application struct {
	Config       *config.Config
	Orchestrator *scan.Orchestrator
	Sessions     *storage.FileSessionStore
	History      *storage.SQLiteHistory
	WebServer    *webserver.Server
	Hub          *websocket.Hub
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	app := &Application{Config: cfg}

	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}
	return app, nil
}

func (app *Application) bootstrap() error {
	telemetry.InitMetrics()

	sessions, err := storage.NewFileSessionStore(app.Config.DataDir)
	if err != nil {
		return fmt.Errorf("failed to init session store: %w", err)
	}
	app.Sessions = sessions

	history, err := storage.NewSQLiteHistory(app.Config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to init history index: %w", err)
	}
	app.History = history

	tools := scan.DefaultToolPaths()
	if app.Config.IwlistPath != "" {
		tools.Iwlist = app.Config.IwlistPath
	}
	if app.Config.IwconfigPath != "" {
		tools.Iwconfig = app.Config.IwconfigPath
	}
	if app.Config.AirportPath != "" {
		tools.Airport = app.Config.AirportPath
	}
	if app.Config.ProfilerPath != "" {
		tools.SystemProfiler = app.Config.ProfilerPath
	}
	if app.Config.NetworksetupPath != "" {
		tools.Networksetup = app.Config.NetworksetupPath
	}
	if app.Config.IfconfigPath != "" {
		tools.Ifconfig = app.Config.IfconfigPath
	}

	runner := scan.ExecRunner{}
	enum := scan.NewEnumerator(app.Config.Platform, runner, tools, 0)
	app.Orchestrator = scan.NewOrchestrator(
		app.Config.Platform, runner, enum, sessions, history, tools, app.Config.ScanTimeout)

	app.Orchestrator.SetDefaultInterface(app.Config.Interface)

	app.Hub = websocket.NewHub()
	app.Orchestrator.SetEvents(app.Hub)

	engine := assessment.NewEngine()

	if app.Config.OperatorPassword == "wifiscout" {
		slog.Warn("operator password is the default, set WIFISCOUT_PASSWORD")
	}
	hash, err := auth.HashPassword(app.Config.OperatorPassword)
	if err != nil {
		return fmt.Errorf("failed to hash operator password: %w", err)
	}
	authService := auth.NewService(hash)

	app.WebServer = webserver.NewServer(
		app.Config.Addr,
		app.Orchestrator,
		enum,
		sessions,
		history,
		engine,
		authService,
		app.Hub,
		reporting.NewPDFExporter(engine),
	)

	return nil
}

// Run starts the web server and blocks until the context is cancelled.
func (app *Application) Run(ctx context.Context) error {
	slog.Info("starting wifiscout",
		"platform", app.Config.Platform, "data_dir", app.Config.DataDir)

	err := app.WebServer.Run(ctx)

	if closeErr := app.History.Close(); closeErr != nil {
		slog.Error("history close failed", "error", closeErr)
	}
	return err
}

// Package app wires the glossmark subsystems into a runnable
// application: configuration, logging, rendering, catalogs, session
// persistence, file watching and plugins.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/glosskit/glossmark/internal/annot"
	"github.com/glosskit/glossmark/internal/catalog"
	"github.com/glosskit/glossmark/internal/config"
	"github.com/glosskit/glossmark/internal/document"
	"github.com/glosskit/glossmark/internal/logging"
	"github.com/glosskit/glossmark/internal/plugin"
	"github.com/glosskit/glossmark/internal/render"
	"github.com/glosskit/glossmark/internal/session"
	"github.com/glosskit/glossmark/internal/watch"
)

// Options are the command-line settings. Zero values defer to the
// config file.
type Options struct {
	ConfigPath  string
	CatalogPath string
	Interface   string
	LogLevel    string
	SessionID   string
	NoResume    bool
	Paths       []string
}

// App is a fully wired annotation session.
type App struct {
	cfg config.Config
	log *logging.Logger

	ui        render.Interface
	annotator *annot.Annotator
	watcher   *watch.Watcher
	plugins   *plugin.Engine
	store     *session.Store

	sessionID string
	logFile   io.Closer
}

// New builds an application from options and configuration.
func New(opts Options) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	mergeOptions(&cfg, opts)

	a := &App{cfg: cfg, sessionID: opts.SessionID}

	if err := a.setupLogging(); err != nil {
		return nil, err
	}
	if err := a.setupInterface(); err != nil {
		a.Shutdown()
		return nil, err
	}
	if err := a.setupSession(); err != nil {
		a.Shutdown()
		return nil, err
	}
	if err := a.setupAnnotator(opts); err != nil {
		a.Shutdown()
		return nil, err
	}
	a.setupPlugins()

	return a, nil
}

func mergeOptions(cfg *config.Config, opts Options) {
	if opts.CatalogPath != "" {
		cfg.Catalog.Source = opts.CatalogPath
	}
	if opts.Interface != "" {
		cfg.General.Interface = opts.Interface
	}
	if opts.LogLevel != "" {
		cfg.General.LogLevel = opts.LogLevel
	}
	if opts.NoResume {
		cfg.Session.Resume = false
	}
}

func (a *App) setupLogging() error {
	lcfg := logging.DefaultConfig()
	lcfg.Level = logging.ParseLevel(a.cfg.General.LogLevel)

	if a.cfg.General.LogFile != "" {
		f, err := os.OpenFile(a.cfg.General.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		lcfg.Output = f
		a.logFile = f
	} else if a.cfg.General.Interface == "console" {
		// The console owns the terminal. Without a log file, drop logs
		// rather than corrupt the display.
		lcfg.Output = io.Discard
	}

	a.log = logging.New(lcfg)
	return nil
}

func (a *App) setupInterface() error {
	switch a.cfg.General.Interface {
	case "minimal":
		a.ui = render.NewMinimal(os.Stdout, os.Stdin)
		return nil
	default:
		ui, err := render.NewConsole(render.WithLightMode(a.cfg.General.LightMode))
		if err != nil {
			return fmt.Errorf("starting console: %w", err)
		}
		a.ui = ui
		return nil
	}
}

func (a *App) setupSession() error {
	if a.cfg.Session.Store == "" {
		return nil
	}
	store, err := session.Open(a.cfg.Session.Store)
	if err != nil {
		return err
	}
	a.store = store
	return nil
}

func (a *App) setupAnnotator(opts Options) error {
	state, err := a.initialState(opts)
	if err != nil {
		return err
	}
	if a.cfg.Catalog.Source == "" {
		return errors.New("no catalog source configured")
	}

	source := &catalog.FileSource{Path: a.cfg.Catalog.Source}
	a.annotator = annot.NewAnnotator(a.ui, a.log, source, state)

	watcher, err := watch.New(a.log)
	if err != nil {
		a.log.Warn("file watching unavailable: %v", err)
		return nil
	}
	a.watcher = watcher
	for _, doc := range state.Documents {
		if doc.Path == "" {
			continue
		}
		if err := watcher.Add(doc.Path); err != nil {
			a.log.Warn("cannot watch %s: %v", doc.Path, err)
		}
	}
	a.annotator.SetChangeDetector(watcher)
	return nil
}

// initialState builds the starting state: a resumed session when one is
// requested or available, otherwise the documents named on the command
// line.
func (a *App) initialState(opts Options) (*annot.State, error) {
	if a.store != nil && len(opts.Paths) == 0 {
		rec, err := a.resumeRecord(opts)
		if err == nil {
			a.sessionID = rec.ID
			a.log.Info("resuming session %s", rec.ID)
			return annot.DecodeState(rec.State)
		}
		if !errors.Is(err, session.ErrNotFound) {
			return nil, err
		}
	}

	if len(opts.Paths) == 0 {
		return nil, errors.New("no files given and no session to resume")
	}
	docs, err := document.FromPaths(opts.Paths)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.New("no annotatable files found")
	}
	return annot.NewState(docs), nil
}

func (a *App) resumeRecord(opts Options) (*session.Record, error) {
	if opts.SessionID != "" {
		return a.store.Load(opts.SessionID)
	}
	if !a.cfg.Session.Resume {
		return nil, session.ErrNotFound
	}
	return a.store.Latest()
}

func (a *App) setupPlugins() {
	if a.cfg.Plugins.Dir == "" {
		return
	}
	a.plugins = plugin.NewEngine(a.log)
	if err := a.plugins.LoadDir(a.cfg.Plugins.Dir); err != nil {
		a.log.Warn("loading plugins: %v", err)
		return
	}
	a.annotator.AddCommandProvider(a.plugins.Provider())
}

// Run drives the interactive loop to completion and saves the session
// afterwards.
func (a *App) Run() error {
	reason, err := a.annotator.Run()
	if err != nil {
		return err
	}
	a.log.Info("session finished: %s", reason)

	if saveErr := a.saveSession(); saveErr != nil {
		a.log.Error("saving session: %v", saveErr)
	}
	return nil
}

func (a *App) saveSession() error {
	if a.store == nil {
		return nil
	}
	payload, err := annot.EncodeState(a.annotator.State())
	if err != nil {
		return err
	}
	rec := &session.Record{
		ID:    a.sessionID,
		Name:  sessionName(a.annotator.State()),
		State: payload,
	}
	if err := a.store.Save(rec); err != nil {
		return err
	}
	a.sessionID = rec.ID
	return nil
}

func sessionName(state *annot.State) string {
	for _, doc := range state.Documents {
		if doc.Path != "" {
			return doc.Path
		}
	}
	if len(state.Documents) > 0 {
		return state.Documents[0].Identifier
	}
	return "empty"
}

// Shutdown releases all resources. Safe to call on a partially built
// application and more than once.
func (a *App) Shutdown() {
	if a.plugins != nil {
		a.plugins.Close()
		a.plugins = nil
	}
	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
	if c, ok := a.ui.(*render.Console); ok {
		c.Close()
		a.ui = nil
	}
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
}

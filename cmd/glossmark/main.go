// Package main is the entry point for the glossmark annotator.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/glosskit/glossmark/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, ok := parseFlags()
	if !ok {
		return 0
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Shutdown()
		os.Exit(1)
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parseFlags returns the options and whether the program should keep
// running.
func parseFlags() (app.Options, bool) {
	var opts app.Options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.CatalogPath, "catalog", "", "Path to the verbalization catalog")
	flag.StringVar(&opts.Interface, "interface", "", "Interface: console or minimal")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.SessionID, "session", "", "Resume a specific session by id")
	flag.BoolVar(&opts.NoResume, "no-resume", false, "Start fresh instead of resuming")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "glossmark - interactive glossary annotator\n\n")
		fmt.Fprintf(os.Stderr, "Usage: glossmark [options] [files or directories...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  glossmark notes/              Annotate every file under notes/\n")
		fmt.Fprintf(os.Stderr, "  glossmark intro.en.tex        Annotate a single file\n")
		fmt.Fprintf(os.Stderr, "  glossmark -session <id>       Resume a saved session\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("glossmark %s (commit %s, built %s)\n", version, commit, date)
		return opts, false
	}

	opts.Paths = flag.Args()
	return opts, true
}

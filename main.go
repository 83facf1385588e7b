package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"ura-xlaw/internal/app"
	"ura-xlaw/internal/config"
	"ura-xlaw/internal/observability"
	"ura-xlaw/internal/storage"
	"ura-xlaw/internal/web"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	// Parse command-line flags
	cfg, serve, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if serve {
		if err := runWeb(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Web client error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := runTerminal(ctx, cancel, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags loads the config file and environment, then applies the flags
// the user actually passed on top. serve reports whether --serve was given.
func parseFlags() (cfg *config.Config, serve bool, err error) {
	defaults := config.NewConfig()

	configPath := flag.String("config", "", "YAML config file")
	apiURL := flag.String("api-url", defaults.API.BaseURL, "Legal assistant backend URL")
	timeout := flag.Duration("timeout", defaults.API.Timeout, "Backend request timeout")
	noMock := flag.Bool("no-mock", false, "Disable the offline fallbacks")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	logFile := flag.String("log-file", defaults.Log.Path, "Log file for the terminal client")
	style := flag.String("style", defaults.Terminal.Style, "Markdown style (dark, light, notty); empty detects")
	serveAddr := flag.String("serve", "", "Serve the web client on this address instead of the terminal client (e.g. :8080)")

	flag.Parse()

	cfg, err = config.Load(*configPath)
	if err != nil {
		return nil, false, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api-url":
			cfg.API.BaseURL = *apiURL
		case "timeout":
			cfg.API.Timeout = *timeout
		case "no-mock":
			cfg.Mock.Enabled = !*noMock
		case "verbose":
			cfg.Log.Verbose = *verbose
		case "log-file":
			cfg.Log.Path = *logFile
		case "style":
			cfg.Terminal.Style = *style
		case "serve":
			cfg.Web.Addr = *serveAddr
			serve = true
		}
	})
	return cfg, serve, nil
}

// runWeb serves the browser client. Every visitor gets an in-memory
// workspace; nothing is written to disk.
func runWeb(cfg *config.Config) error {
	logger := observability.NewLogger(os.Stderr, cfg.Log.Verbose)

	srv, err := web.New(cfg.Web.Addr, func() *app.Workspace {
		return app.NewWorkspace(cfg, storage.NewMemoryStore(), logger)
	}, logger)
	if err != nil {
		return err
	}
	return srv.Start()
}

// terminalLogger logs to the configured file so the chat owns stdout
func terminalLogger(cfg *config.Config) (*slog.Logger, io.Closer) {
	if cfg.Log.Path == "" {
		return observability.Discard(), io.NopCloser(nil)
	}
	logger, closer, err := observability.OpenFile(cfg.Log.Path, cfg.Log.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging disabled: %v\n", err)
		return observability.Discard(), io.NopCloser(nil)
	}
	return logger, closer
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type cli struct {
	Config   string `short:"c" type:"path" env:"LEADS_CONFIG" help:"Optional YAML config file."`
	LogLevel string `default:"info" env:"LEADS_LOG_LEVEL" enum:"debug,info,warn,error" help:"Log level (debug,info,warn,error)."`

	Serve    serveCmd    `cmd:"" default:"withargs" help:"Serve the leads overview dashboard."`
	Snapshot snapshotCmd `cmd:"" help:"Print the leads dataset served by the configured source."`
	Manifest manifestCmd `cmd:"" help:"Validate or extend widget manifests."`
}

type manifestCmd struct {
	Validate validateCmd `cmd:"" help:"Validate a widget manifest file."`
	Scaffold scaffoldCmd `cmd:"" help:"Add a widget definition to a manifest and generate a provider stub."`
}

func main() {
	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var app cli
	kctx := kong.Parse(&app,
		kong.Name("leadsctl"),
		kong.Description("Leads overview dashboard server and tooling."),
		kong.UsageOnError(),
	)
	logger := newLogger(app.LogLevel)
	cfg, err := loadConfig(app.Config)
	kctx.FatalIfErrorf(err)
	kctx.Bind(cfg, logger)
	kctx.BindTo(context.Background(), (*context.Context)(nil))
	kctx.FatalIfErrorf(kctx.Run())
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Str("app", "leadsctl").
		Logger()
}

// loadDotEnv exports the LEADS_* variables of an optional dotenv file before
// flags are parsed. Variables already set in the environment win.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("leadsctl: load %s: %w", path, err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/iedon/docsite-go/config"
	"github.com/iedon/docsite-go/site"
	"github.com/iedon/docsite-go/templatex"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"mkdocs.yml" type:"path"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Build struct {
		Clean bool `help:"Assemble the site in a temporary directory and replace the output only on success"`
	} `cmd:"" default:"1" help:"Render the documentation into a static site"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("docsite"),
		kong.Description("Static site generator for markdown documentation."),
		kong.UsageOnError(),
	)

	switch ctx.Command() {
	case "version":
		fmt.Println(VersionString())
	default:
		if err := runBuild(CLI.Config, CLI.Build.Clean, CLI.Verbose); err != nil {
			slog.Error("build", "error", err)
			os.Exit(1)
		}
	}
}

func runBuild(cfgPath string, clean, verbose bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if clean {
		cfg.CleanBuild = true
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("starting", "version", Version, "config", cfgPath, "pages", len(cfg.Pages), "clean", cfg.CleanBuild)

	templates, err := templatex.Load(cfg.ThemeDir)
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return site.NewService(cfg, templates, logger).Build(ctx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

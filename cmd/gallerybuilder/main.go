package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/gallerybuilder/internal/build"
	"git.home.luguber.info/inful/gallerybuilder/internal/catalog"
	"git.home.luguber.info/inful/gallerybuilder/internal/check"
	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	"git.home.luguber.info/inful/gallerybuilder/internal/daemon"
	"git.home.luguber.info/inful/gallerybuilder/internal/deployments"
	gerrors "git.home.luguber.info/inful/gallerybuilder/internal/errors"
	"git.home.luguber.info/inful/gallerybuilder/internal/metrics"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"gallery.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Strict bool `help:"Treat recoverable findings as build failures"`
	} `cmd:"" help:"Assemble the gallery: category pages, root index, navigation and redirects"`

	Validate struct{} `cmd:"" help:"Check catalog metadata, artifacts, thumbnails and label icons without writing output"`

	Deployments struct{} `cmd:"" help:"Write the deployment endpoint listing for deployable projects"`

	Daemon struct{} `cmd:"" help:"Run continuously: rebuild on catalog changes and on a timer, serve status over HTTP"`
}

func main() {
	kctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	errorAdapter := gerrors.NewCLIErrorAdapter(CLI.Verbose, logger)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errorAdapter.HandleError(err)
	}

	switch kctx.Command() {
	case "build":
		if CLI.Build.Strict {
			cfg.Strict = true
		}
		errorAdapter.HandleError(runBuild(cfg, logger))
	case "validate":
		errorAdapter.HandleError(runValidate(cfg, logger))
	case "deployments":
		errorAdapter.HandleError(runDeployments(cfg, logger))
	case "daemon":
		errorAdapter.HandleError(runDaemon(cfg, logger))
	default:
		errorAdapter.HandleError(gerrors.New(gerrors.CategoryValidation, gerrors.SeverityFatal,
			"unknown command "+kctx.Command()))
	}
}

func runBuild(cfg *config.Config, logger *slog.Logger) error {
	report, err := build.New(cfg, logger, metrics.Noop{}).Run(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Build %s: %d projects, %d skipped, %d warnings, %d documents\n",
		report.BuildID, report.Projects, report.Skipped, len(report.Warnings), len(report.Documents))
	return nil
}

func runValidate(cfg *config.Config, logger *slog.Logger) error {
	findings, err := check.Run(cfg, logger)
	if err != nil {
		return err
	}
	if len(findings) == 0 {
		fmt.Println("Gallery is valid")
		return nil
	}
	for _, f := range findings {
		fmt.Println(f)
	}
	return gerrors.ValidationFailed("gallery", fmt.Sprintf("%d findings", len(findings)))
}

func runDeployments(cfg *config.Config, logger *slog.Logger) error {
	cat, err := catalog.Load(cfg)
	if err != nil {
		return err
	}
	endpoints := deployments.List(cfg, cat)
	if err := deployments.Write(cfg.Deployments.Output, endpoints); err != nil {
		return err
	}
	logger.Info("Deployment listing written",
		"path", cfg.Deployments.Output, "endpoints", len(endpoints))
	return nil
}

func runDaemon(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := daemon.New(cfg, logger)
	if err != nil {
		return err
	}
	return d.Run(ctx)
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/ricehub/ricehub/pkg/auth"
	"github.com/ricehub/ricehub/pkg/config"
	"github.com/ricehub/ricehub/pkg/external"
	"github.com/ricehub/ricehub/pkg/repository"
	"github.com/ricehub/ricehub/pkg/store"
	"github.com/ricehub/ricehub/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"f" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		cancel()
		os.Exit(1)
	}
	cancel()
	log.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	extCfg := cfg.GetExternalConfig()
	authCfg := cfg.GetAuthConfig()
	setupLog(opts.Debug, opts.NoColor, authCfg.Secret, extCfg.GithubToken, extCfg.YoutubeKey)

	log.Printf("[INFO] starting ricehub version %s", revision)

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to init database: %w", err)
	}
	defer func() {
		if closeErr := repos.Close(); closeErr != nil {
			log.Printf("[WARN] failed to close database: %v", closeErr)
		}
	}()

	authSvc := auth.NewService(auth.Config{
		Secret:     authCfg.Secret,
		TokenTTL:   authCfg.TokenTTL,
		CookieName: authCfg.CookieName,
		Secure:     authCfg.Secure,
	})

	uploadsCfg := cfg.GetUploadsConfig()
	blobs, err := store.NewFileStore(uploadsCfg.Dir, uploadsCfg.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to init file store: %w", err)
	}

	aggregator := external.NewAggregator(extCfg.CacheTTL,
		external.NewGithubClient(extCfg.GithubURL, extCfg.GithubToken, extCfg.PerSource, extCfg.FetchTimeout),
		external.NewYoutubeClient(extCfg.YoutubeURL, extCfg.YoutubeKey, extCfg.PerSource, extCfg.FetchTimeout),
	)

	srv := server.New(server.Deps{
		Config:        cfg,
		Users:         repos.User,
		Rices:         repos.Rice,
		Comments:      repos.Comment,
		Notifications: repos.Notification,
		Auth:          authSvc,
		Blobs:         blobs,
		External:      aggregator,
		MaxUpload:     uploadsCfg.MaxSize,
		Version:       revision,
		Debug:         opts.Debug,
	})

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	// secrets are masked in logs
	var secrets []string
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}

	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}

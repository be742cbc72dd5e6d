package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"github.com/goliatone/go-formrelay/internal/challenge/recaptcha"
	"github.com/goliatone/go-formrelay/internal/ingest/web3forms"
	"github.com/goliatone/go-formrelay/pkg/form"
	"github.com/goliatone/go-formrelay/pkg/site"
	"github.com/goliatone/go-formrelay/pkg/submission"
)

type config struct {
	Addr         string `env:"FORMRELAY_ADDR" envDefault:":8080"`
	SiteName     string `env:"FORMRELAY_SITE_NAME" envDefault:"Formrelay"`
	FormPath     string `env:"FORMRELAY_FORM"`
	Theme        string `env:"FORMRELAY_THEME"`
	ThemeVariant string `env:"FORMRELAY_THEME_VARIANT"`

	RecaptchaSiteKey  string `env:"RECAPTCHA_SITE_KEY"`
	Web3FormsKey      string `env:"WEB3FORMS_ACCESS_KEY"`
	Web3FormsEndpoint string `env:"WEB3FORMS_ENDPOINT"`

	Debug bool `env:"FORMRELAY_DEBUG"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "formrelay-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	def, err := loadDefinition(ctx, cfg.FormPath)
	if err != nil {
		return err
	}

	controller := submission.New(def, controllerOptions(cfg)...)

	server, err := site.NewServer(site.Config{
		Addr:         cfg.Addr,
		SiteName:     cfg.SiteName,
		Theme:        cfg.Theme,
		ThemeVariant: cfg.ThemeVariant,
	},
		site.WithLogger(logger),
		site.WithController(controller),
	)
	if err != nil {
		return err
	}

	logger.Info("starting site server",
		zap.String("addr", cfg.Addr),
		zap.String("form", def.Name),
	)
	return server.ListenAndServe(ctx)
}

func controllerOptions(cfg config) []submission.Option {
	var options []submission.Option
	if key := strings.TrimSpace(cfg.RecaptchaSiteKey); key != "" {
		options = append(options, submission.WithChallengeProvider(
			recaptcha.New(recaptcha.WithSiteKey(key)),
		))
	}

	var ingestOpts []web3forms.Option
	if key := strings.TrimSpace(cfg.Web3FormsKey); key != "" {
		ingestOpts = append(ingestOpts, web3forms.WithAccessKey(key))
	}
	if endpoint := strings.TrimSpace(cfg.Web3FormsEndpoint); endpoint != "" {
		ingestOpts = append(ingestOpts, web3forms.WithEndpoint(endpoint))
	}
	if len(ingestOpts) > 0 {
		options = append(options, submission.WithIngestClient(web3forms.New(ingestOpts...)))
	}
	return options
}

func loadDefinition(ctx context.Context, path string) (*form.Definition, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return form.DefaultContact(), nil
	}

	var (
		src     form.Source
		options []form.LoaderOption
	)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		src = form.SourceFromURL(path)
		options = append(options, form.WithHTTPClient(nil))
	} else {
		src = form.SourceFromFile(path)
	}

	def, err := form.NewLoader(options...).Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load form definition: %w", err)
	}
	return def, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

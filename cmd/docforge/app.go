package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-docforge/internal/config"
	"github.com/goliatone/go-docforge/internal/logger"
	"github.com/goliatone/go-docforge/pkg/client"
	"github.com/goliatone/go-docforge/pkg/editor"
	"github.com/goliatone/go-docforge/pkg/renderers/tui"
	"github.com/goliatone/go-docforge/pkg/wizard"
	"github.com/goliatone/go-docforge/pkg/wizard/sqlitestore"
)

// app carries what every command needs once the root pre-run resolved
// configuration.
type app struct {
	envFile string
	apiBase string
	token   string
	output  string
	debug   bool

	cfg    *config.Config
	log    *zap.SugaredLogger
	api    *client.Client
	driver tui.PromptDriver
	// lookup overrides the process environment in tests.
	lookup config.LookupFunc
}

func newApp() *app {
	return &app{}
}

func (a *app) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if a.lookup != nil {
		cfg, err = config.LoadWith(a.envFile, a.lookup)
	} else {
		cfg, err = config.Load(a.envFile)
	}
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("api-base") {
		cfg.APIBase = a.apiBase
	}
	if flags.Changed("token") {
		cfg.Token = a.token
	}
	if flags.Changed("debug") {
		cfg.Debug = a.debug
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	switch a.output {
	case outputTable, outputJSON:
	default:
		return fmt.Errorf("unknown output format %q (want table or json)", a.output)
	}
	a.cfg = cfg

	if a.log == nil {
		l, err := logger.New(logger.Options{Production: cfg.IsProduction(), Debug: cfg.Debug})
		if err != nil {
			return err
		}
		a.log = l
	}

	opts := []client.Option{client.WithToken(cfg.Token), client.WithLogger(a.log)}
	if cfg.HTTPTimeout > 0 {
		opts = append(opts, client.WithTimeout(cfg.HTTPTimeout))
	}
	a.api = client.New(cfg.APIBase, opts...)

	if a.driver == nil {
		a.driver = tui.NewSurveyDriver()
	}
	a.log.Debugw("configuration loaded", "api", cfg.APIBase, "env", cfg.Environment, "sessionDB", cfg.SessionDB)
	return nil
}

// confirmer asks yes/no questions through the prompt driver.
func (a *app) confirmer() editor.Confirmer {
	return editor.ConfirmFunc(func(ctx context.Context, message string) (bool, error) {
		return a.driver.Confirm(ctx, tui.ConfirmConfig{Message: message})
	})
}

// openWizard returns a wizard over the configured session store and a func
// releasing it. Without a session database sessions live for the process.
func (a *app) openWizard() (*wizard.Wizard, wizard.Store, func(), error) {
	opts := []wizard.Option{wizard.WithTTL(a.cfg.SessionTTL), wizard.WithLogger(a.log)}
	if a.cfg.SessionDB == "" {
		store := wizard.NewMemoryStore(nil)
		return wizard.New(store, a.api, opts...), store, func() {}, nil
	}
	store, err := sqlitestore.Open(a.cfg.SessionDB, sqlitestore.WithLogger(a.log))
	if err != nil {
		return nil, nil, nil, err
	}
	release := func() {
		if err := store.Close(); err != nil {
			a.log.Warnw("close session store", "error", err)
		}
	}
	return wizard.New(store, a.api, opts...), store, release, nil
}

func (a *app) stdout(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

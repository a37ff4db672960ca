package main

import (
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tableside/concierge/internal/apperror"
	"github.com/tableside/concierge/internal/config"
	"github.com/tableside/concierge/internal/credential"
	"github.com/tableside/concierge/internal/gateway"
	"github.com/tableside/concierge/internal/logging"
	"github.com/tableside/concierge/internal/service/auth"
	"github.com/tableside/concierge/internal/service/scan"
)

// app holds everything a command needs, built once per invocation.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	tokens  *auth.Tokens
	gw      *gateway.Client
	auth    *auth.Service
	scanner *scan.Scanner
	out     io.Writer
	errOut  io.Writer
}

func newApp(cmd *cobra.Command, verbose bool) (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if verbose || cfg.Log.File != "" {
		logCfg := cfg.Log
		if verbose {
			logCfg = logging.Verbose(logCfg)
		}
		if logger, err = logging.New(logCfg); err != nil {
			return nil, err
		}
	}

	tokens := auth.NewTokens(credential.NewFileStore(cfg.Client.CredentialsPath))
	if err := tokens.Load(); err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		tokens: tokens,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}
	a.wire()
	return a, nil
}

// wire builds the backend-facing services on the current logger.
func (a *app) wire() {
	a.gw = gateway.New(a.cfg.Client.BaseURL, a.cfg.Client.Timeout, a.tokens, gateway.WithLogger(a.logger))
	a.auth = auth.NewService(a.gw, a.tokens, a.logger)
	a.scanner = scan.NewScanner(a.gw, a.tokens, scan.DecoderFor(a.cfg.Client.ScanDecoder), a.logger)
}

// detachConsole drops stderr logging before a full-screen program takes over
// the terminal. A configured LOG_FILE keeps logging.
func (a *app) detachConsole() {
	if a.cfg.Log.File != "" {
		return
	}
	_ = a.logger.Sync()
	a.logger = zap.NewNop()
	a.wire()
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// showAlert prints alert and returns err so the process exits non-zero.
func (a *app) showAlert(alert *apperror.Alert, err error) error {
	if alert != nil {
		fmt.Fprintf(a.errOut, "%s: %s\n", alert.Title, alert.Message)
	}
	if err != nil {
		return errSilent{err}
	}
	return nil
}

// errSilent marks errors already reported to the user.
type errSilent struct{ error }

func (e errSilent) Unwrap() error { return e.error }

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellogoogle/internal/auth/session"
	"github.com/dropDatabas3/hellogoogle/internal/auth/state"
	"github.com/dropDatabas3/hellogoogle/internal/config"
	httpserver "github.com/dropDatabas3/hellogoogle/internal/http"
	authctrl "github.com/dropDatabas3/hellogoogle/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/hellogoogle/internal/http/controllers/health"
	homectrl "github.com/dropDatabas3/hellogoogle/internal/http/controllers/home"
	userctrl "github.com/dropDatabas3/hellogoogle/internal/http/controllers/user"
	"github.com/dropDatabas3/hellogoogle/internal/http/router"
	svcauth "github.com/dropDatabas3/hellogoogle/internal/http/services/auth"
	"github.com/dropDatabas3/hellogoogle/internal/oauth/google"
	"github.com/dropDatabas3/hellogoogle/internal/observability/logger"
)

// version se fija en build time via -ldflags.
var version = "dev"

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "hellogoogle",
		Short:         "Google OIDC relying party: login, session cookie, protected API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to optional YAML config (env CONFIG_PATH)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	root.AddCommand(serveCmd, versionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serve(configPath string) error {
	// .env es opcional; las variables reales del entorno mandan.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "hellogoogle"})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := google.New(ctx, google.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURI:  cfg.Google.RedirectURI,
		Scopes:       cfg.Google.Scopes,
		Timeout:      cfg.Google.Timeout,
	})
	if err != nil {
		return fmt.Errorf("google discovery: %w", err)
	}

	secret := []byte(cfg.SecretKey)
	sessions := session.New(secret, cfg.Session.TTL)
	states := state.NewSigner(secret, cfg.State.TTL)
	service := svcauth.NewService(provider, states, sessions)

	handler := router.New(router.Deps{
		Auth: authctrl.NewController(service, authctrl.CookieConfig{
			SessionName: cfg.Session.CookieName,
			StateName:   cfg.State.CookieName,
			SameSite:    cfg.Session.SameSite,
			Secure:      cfg.Session.Secure,
			SessionTTL:  cfg.Session.TTL,
			StateTTL:    cfg.State.TTL,
		}),
		User:              userctrl.NewController(),
		Health:            healthctrl.NewController(),
		Home:              homectrl.NewController(sessions, cfg.Session.CookieName),
		Sessions:          sessions,
		SessionCookieName: cfg.Session.CookieName,
		Registry:          prometheus.NewRegistry(),
	})

	log.Info("starting",
		logger.String("version", version),
		logger.String("env", cfg.App.Env),
		logger.String("addr", cfg.Addr()),
		logger.String("redirect_uri", cfg.Google.RedirectURI),
	)

	return httpserver.NewServer(cfg.Addr(), handler).Run(ctx)
}

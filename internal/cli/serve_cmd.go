package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexanderramin/apo/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if cfg == nil {
				return fmt.Errorf("serve requires a loaded configuration")
			}
			if cfg.Auth.JWTSecret == "" && !cfg.Auth.AllowActorHeader {
				return fmt.Errorf("auth.jwt_secret (APO_AUTH_JWT_SECRET) is required unless auth.allow_actor_header is set")
			}

			srvCfg := server.Config{
				Projects:    app.Projects,
				Milestones:  app.Milestones,
				Allocations: app.Allocations,
				Ledger:      app.Ledger,
				Simulation:  app.Simulation,
				Team:        app.Team,
				Workspaces:  app.Workspaces,
				BasePath:    cfg.Server.BasePath,
				Auth: server.AuthConfig{
					JWTSecret:        cfg.Auth.JWTSecret,
					AllowActorHeader: cfg.Auth.AllowActorHeader,
				},
				Logger: app.Logger,
			}
			if app.Store != nil {
				srvCfg.Files = app.Store.FileSystem()
			}
			if app.Metrics != nil {
				srvCfg.Metrics = app.Metrics.Handler()
			}
			handler, err := server.New(srvCfg)
			if err != nil {
				return err
			}

			srv := &http.Server{Addr: cfg.Server.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving APO API on http://%s%s (OpenAPI at %s/openapi.json, docs at %s/docs)\n",
				cfg.Server.Addr, cfg.Server.BasePath, cfg.Server.BasePath, cfg.Server.BasePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default 127.0.0.1:8080)")
	cmd.Flags().String("base-path", "", "API base path (default /v1)")
	cmd.Flags().String("storage-dir", "", "Directory for uploaded documents")
	cmd.Flags().String("public-url", "", "Public base URL for stored documents")

	return cmd
}

func newTokenCmd(app *App) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a bearer token for the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Config == nil || app.Config.Auth.JWTSecret == "" {
				return fmt.Errorf("auth.jwt_secret (APO_AUTH_JWT_SECRET) is not set")
			}
			token, err := server.IssueToken(app.Config.Auth.JWTSecret, args[0], ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}

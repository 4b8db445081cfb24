package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"backstage/internal/auth"
	"backstage/internal/metrics"
	"backstage/internal/server"
)

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("base-path") {
				cfg.Server.BasePath = basePath
			}
			m := metrics.New()
			sess, err := openSession(ctx, cfg, m)
			if err != nil {
				return err
			}
			defer sess.Close()

			authCfg := server.AuthConfig{Logger: log.Default()}
			if cfg.Auth.Secret != "" {
				issuer, err := auth.NewIssuer(auth.Config{Secret: cfg.Auth.Secret, Password: cfg.SharedPassword(), TTL: cfg.TokenTTL()})
				if err != nil {
					return err
				}
				authCfg.Issuer = issuer
			}
			exports, err := openExports(ctx, cfg)
			if err != nil {
				return err
			}
			handler, err := server.New(server.Config{
				Session:  sess,
				BasePath: cfg.Server.BasePath,
				Auth:     authCfg,
				Schedule: scheduleOptions(cfg),
				Exports:  exports,
				Metrics:  m,
			})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: cfg.Server.Addr, Handler: handler}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()
			log.Printf("serving Backstage API on http://%s%s (storage %s, exports %s)", cfg.Server.Addr, cfg.Server.BasePath, cfg.Storage.Driver, exports.Driver())
			fmt.Printf("OpenAPI at %s/openapi.json, Swagger UI at /docs, metrics at /metrics\n", cfg.Server.BasePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path (overrides server.base_path)")
	return cmd
}

func remoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Talk to a running 'bst serve'",
		Long:  "Remote commands use BACKSTAGE_URL and BACKSTAGE_TOKEN (also read from .env). 'remote login' stores the token.",
	}
	cmd.PersistentFlags().String("url", "http://127.0.0.1:8080", "server URL")
	cmd.PersistentFlags().String("token", "", "bearer token")
	_ = viper.BindPFlag("url", cmd.PersistentFlags().Lookup("url"))
	_ = viper.BindPFlag("token", cmd.PersistentFlags().Lookup("token"))
	cmd.AddCommand(remoteLoginCmd())
	cmd.AddCommand(remoteHistoryCmd("undo", "Undo the last change on the server"))
	cmd.AddCommand(remoteHistoryCmd("redo", "Redo the last undone change on the server"))
	cmd.AddCommand(remoteConflictsCmd())
	return cmd
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"casestudy-mapper/internal/api"
	"casestudy-mapper/internal/engine"
	"casestudy-mapper/internal/schema"
)

var (
	serveAddr   string
	serveSource string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the mapping API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if serveAddr != "" {
			cfg.HTTP.Addr = serveAddr
		}

		var opts []engine.Option
		if serveSource != "" {
			opts = append(opts, engine.WithSourceLoader(schema.FileLoader{Path: serveSource}))
		}

		opts = append([]engine.Option{engine.WithLogger(slog.Default())}, opts...)

		e, err := engine.New(cfg, opts...)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := e.Start(ctx); err != nil {
			return err
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := e.Shutdown(shutdownCtx); err != nil {
				slog.Error("engine shutdown", "error", err)
			}
		}()

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		return api.Serve(ctx, cfg.HTTP.Addr, api.NewRouter(e, slog.Default()), slog.Default())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVarP(&serveSource, "source", "s", "", "Source schema file served by /api/mappings/suggest without fields")
}

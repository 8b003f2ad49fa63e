package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/milluces/milluces-backend/internal/server"
	"github.com/milluces/milluces-backend/internal/storage"
	"github.com/milluces/milluces-backend/internal/user"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server which provides:
- the public storefront, SEO and payment endpoints
- the admin API behind JWT sign-in and role checks
- the uploaded images under the public upload path`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	bucket, err := storage.NewBucket(e.cfg.UploadDir, e.cfg.PublicUploadURL, e.log)
	if err != nil {
		return fmt.Errorf("failed to open upload dir: %w", err)
	}

	services := server.NewPostgresServices(e.db, e.log)
	tokens := user.NewTokens(e.cfg.JWTSecret, e.cfg.TokenTTL)
	handlers := services.Handlers(e.cfg, server.NewGateways(e.cfg), bucket, tokens, e.log)
	app := server.New(handlers, tokens, server.Options{
		UploadDir:       e.cfg.UploadDir,
		PublicUploadURL: e.cfg.PublicUploadURL,
	}, e.log)

	errCh := make(chan error, 1)
	go func() {
		e.log.Info("starting server", zap.String("addr", e.cfg.Addr))
		errCh <- app.Listen(e.cfg.Addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	e.log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	e.log.Info("server stopped")
	return nil
}

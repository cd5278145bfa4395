package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitecraft/internal/blob"
	"github.com/sitecraft/internal/config"
	"github.com/sitecraft/internal/db"
	"github.com/sitecraft/internal/handler"
	"github.com/sitecraft/internal/router"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	janitorInterval  = 5 * time.Minute
	workspaceMaxIdle = 2 * time.Hour
	shutdownTimeout  = 10 * time.Second
)

func newServeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *cliOptions) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(databaseOptions(cfg)); err != nil {
		logger.Error("failed to initialize database", zap.Error(err))
		return err
	}

	blobs, err := blob.New(blob.Options{
		CloudinaryURL: cfg.CloudinaryURL,
		Dir:           cfg.UploadDir,
		URLPrefix:     cfg.UploadURLPath,
	}, logger)
	if err != nil {
		return err
	}

	api, err := handler.NewAPI(db.DB, handler.Options{
		Blobs:           blobs,
		Logger:          logger,
		DefaultLanguage: cfg.DefaultLanguage,
		SiteBaseURL:     cfg.SiteBaseURL,
	})
	if err != nil {
		return err
	}

	r := router.SetupRouter(api, router.Options{
		SessionSecret: cfg.SessionSecret,
		StaticDir:     "./web/static",
		UploadDir:     cfg.UploadDir,
		UploadURLPath: cfg.UploadURLPath,
		SecureCookie:  cfg.GinMode == gin.ReleaseMode && isHTTPS(cfg.SiteBaseURL),
		Logger:        logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go api.Workspaces().RunJanitor(ctx, janitorInterval, workspaceMaxIdle)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.ListenAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func databaseOptions(cfg config.AppConfig) db.Options {
	return db.Options{
		Driver: cfg.DatabaseDriver,
		Path:   cfg.DatabasePath,
		DSN:    cfg.DatabaseDSN,
		Silent: cfg.LogMode != "development",
	}
}

func isHTTPS(baseURL string) bool {
	return strings.HasPrefix(strings.ToLower(baseURL), "https://")
}

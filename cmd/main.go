package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-registration/config"
	"github.com/oksasatya/go-user-registration/internal/container"
	"github.com/oksasatya/go-user-registration/internal/interface/middleware"
	"github.com/oksasatya/go-user-registration/internal/router"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
	"github.com/oksasatya/go-user-registration/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	// Store, cache, search and queue clients. Connection failures are logged
	// and the server keeps starting.
	app := container.New(context.Background(), cfg, logger)
	defer app.Close()

	r := gin.New()
	if err := middleware.TrustProxies(r, cfg.TrustedProxyList()); err != nil {
		logger.WithError(err).Error("invalid TRUSTED_PROXIES")
		return
	}
	r.Use(gin.Recovery())
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID},
			ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
			MaxAge:        12 * time.Hour,
		}))
	}
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r, "/")
	reg.Use(middleware.RequestIDMiddleware(), middleware.RealIP())
	router.InitModules(reg, app)
	reg.RegisterAll()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	if err := serve(ctx, srv, logger); err != nil {
		logger.WithError(err).Error("server stopped")
		return
	}
	logger.Info("server exited properly")
}

// serve runs srv until ctx is done, then shuts it down gracefully. A listen
// failure is returned instead of exiting so deferred cleanup still runs.
func serve(ctx context.Context, srv *http.Server, logger logrus.FieldLogger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		return err
	}
	return nil
}

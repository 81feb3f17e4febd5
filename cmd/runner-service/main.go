package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	commonmw "cprun/internal/common/http/middleware"
	"cprun/internal/runner/controller"
	"cprun/internal/runner/engine"
	"cprun/internal/runner/judge"
	"cprun/internal/runner/notify"
	"cprun/internal/runner/profile"
	"cprun/internal/runner/registry"
	"cprun/internal/runner/service"
	"cprun/pkg/utils/logger"
)

const defaultConfigPath = "configs/runner_service.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	flag.Parse()

	appCfg, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		return
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	catalog, err := profile.BuildCatalog(appCfg.Languages)
	if err != nil {
		logger.Error(context.Background(), "build language catalog failed", zap.Error(err))
		return
	}

	procRegistry := registry.New()
	eng, err := engine.NewEngine(
		appCfg.Engine.toEngineConfig(),
		procRegistry,
		notify.LogNotifier{},
		engine.MarkerOriginResolver{Marker: appCfg.Origin.Marker},
	)
	if err != nil {
		logger.Error(context.Background(), "init engine failed", zap.Error(err))
		return
	}

	runnerSvc, err := service.NewService(service.Config{
		Engine:        eng,
		Judge:         judge.LineComparator{},
		Languages:     catalog,
		MaxConcurrent: appCfg.Service.MaxConcurrent,
	})
	if err != nil {
		logger.Error(context.Background(), "init runner service failed", zap.Error(err))
		return
	}

	httpServer := buildHTTPServer(appCfg.Server, runnerSvc)
	listener, err := net.Listen("tcp", appCfg.Server.Addr)
	if err != nil {
		logger.Error(context.Background(), "init http listener failed", zap.Error(err))
		return
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "runner http server started", zap.String("addr", appCfg.Server.Addr))
		errCh <- httpServer.Serve(listener)
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "http server stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	}

	// Live candidates must not outlive the harness.
	runnerSvc.KillAll(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error(context.Background(), "http server shutdown failed", zap.Error(err))
	}
}

func buildHTTPServer(cfg ServerConfig, svc *service.Service) *http.Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(commonmw.TraceContextMiddleware())
	router.Use(requestLogger())

	api := router.Group("/api/v1/runner")
	runnerController := controller.NewRunnerController(svc)
	api.POST("/runs", runnerController.Run)
	api.POST("/kill", runnerController.KillAll)
	api.DELETE("/artifacts", runnerController.DeleteArtifact)
	api.GET("/languages", runnerController.Languages)

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		logger.Info(
			c.Request.Context(),
			"request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// Package main is the entry point for the shortid API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shortid/internal/config"
	"shortid/internal/domain/auth"
	"shortid/internal/domain/idgen"
	v1 "shortid/internal/infrastructure/http/v1"
	"shortid/pkg/logger"
	"shortid/pkg/shortid"
)

var version = "dev"

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		OutputPaths: cfg.Log.OutputPaths,
		Service:     "shortid",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Infow("starting shortid server", "version", version, "env", cfg.App.Env)

	// Validate has already parsed these; errors are impossible here.
	machine32, _ := cfg.MachineID32()
	machine24, _ := cfg.MachineID24()
	node, _ := cfg.NodeID()
	epoch, _ := cfg.EpochValue()

	// --- Generator ---
	opts := []shortid.Option{
		shortid.WithLogger(log.WithComponent("generator").SugaredLogger),
	}
	if cfg.Generator.UnboundedAdvance {
		opts = append(opts, shortid.WithUnboundedAdvance())
		log.Warn("generator timestamps may run ahead of the clock under sustained load")
	}
	gen := shortid.New(opts...)

	service := idgen.NewService(gen, idgen.Settings{
		Machine32: machine32,
		Machine24: machine24,
		Node:      node,
		Epoch:     epoch,
		MaxBatch:  cfg.Generator.MaxBatch,
	})

	log.Infow("generator initialized",
		"machine", cfg.Generator.MachineID,
		"epoch", cfg.Generator.Epoch,
		"max_batch", cfg.Generator.MaxBatch,
		"bounded", !cfg.Generator.UnboundedAdvance,
	)

	// --- Router ---
	routerCfg := v1.RouterConfig{
		Service: service,
		Logger:  log,
		Version: version,
	}
	if cfg.Auth.Enabled {
		jwtCfg := auth.DefaultJWTConfig(cfg.Auth.Secret)
		jwtCfg.Issuer = cfg.Auth.Issuer
		jwtCfg.TokenTTL = cfg.Auth.TokenTTL
		routerCfg.JWTValidator = auth.NewJWTService(jwtCfg)
		log.Info("bearer authentication enabled")
	}
	router := v1.NewRouter(routerCfg)

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	stats := gen.Stats()
	log.Infow("server stopped", "workers_allocated", stats.Allocated)
	_ = log.Sync()
}

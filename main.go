package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moviereview/movie-api/handlers"
	"github.com/moviereview/movie-api/internal/config"
	"github.com/moviereview/movie-api/internal/movie/handler"
	"github.com/moviereview/movie-api/internal/movie/service"
	"github.com/moviereview/movie-api/internal/movie/store"
	"github.com/moviereview/movie-api/internal/validation"
	"github.com/moviereview/movie-api/pkg/logger"
	"github.com/moviereview/movie-api/pkg/metrics"
	"github.com/moviereview/movie-api/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// LOG_LEVEL/LOG_FORMAT are read again from config once it is loaded
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.SetFormat(os.Getenv("LOG_FORMAT"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	logger.SetFormat(cfg.Log.Format)
	logger.Infof("config loaded: backend=%s redis=%v rate_limit=%v", cfg.Store.Backend, cfg.Redis.Addr() != "", cfg.RateLimit.Enabled)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := store.New(cfg)
	if err != nil {
		logger.Fatalf("failed to create store: %v", err)
	}
	svc := service.New(st)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
	r.Use(middleware.RequestLogger())

	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warnf("redis %s unreachable at startup: %v", addr, err)
		} else {
			logger.Infof("connected to redis %s", addr)
		}
		cancel()
		defer func() { _ = rdb.Close() }()
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
			logger.Infof("rate limiter: redis (%.1f rps, burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
			logger.Infof("rate limiter: memory (%.1f rps, burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	r.Use(middleware.ErrorHandler(
		middleware.ErrorMapping{Err: service.ErrNotFound, Status: http.StatusNotFound, Message: "Movie not found"},
		middleware.ErrorMapping{Err: service.ErrInvalidInput, Status: http.StatusBadRequest, Message: validation.ValidationFailed},
	))

	handlers.RegisterHealth(r, svc, 5*time.Second)
	handlers.RegisterSwagger(r)
	handler.RegisterMovieRoutes(r.Group("/movies"), svc)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("movie-api listening on %s (store=%s)", srv.Addr, cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Infof("received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	if err := st.Close(ctx); err != nil {
		logger.Errorf("closing store: %v", err)
	}
	logger.Infof("server stopped")
}

// @title Tourism Media API
// @version 1.0
// @description Gallery images and videos for sanctuaries, districts, subdistricts, territories and seasonal guides.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"

	_ "github.com/princekumarofficial/tourism-media-service/docs"
	"github.com/princekumarofficial/tourism-media-service/internal/blobstore"
	"github.com/princekumarofficial/tourism-media-service/internal/cache"
	"github.com/princekumarofficial/tourism-media-service/internal/config"
	"github.com/princekumarofficial/tourism-media-service/internal/events"
	"github.com/princekumarofficial/tourism-media-service/internal/http/handlers/files"
	"github.com/princekumarofficial/tourism-media-service/internal/http/handlers/health"
	mediaHandlers "github.com/princekumarofficial/tourism-media-service/internal/http/handlers/media"
	"github.com/princekumarofficial/tourism-media-service/internal/http/handlers/users"
	wsHandlers "github.com/princekumarofficial/tourism-media-service/internal/http/handlers/websocket"
	"github.com/princekumarofficial/tourism-media-service/internal/http/middleware"
	mediaService "github.com/princekumarofficial/tourism-media-service/internal/services/media"
	"github.com/princekumarofficial/tourism-media-service/internal/storage"
	"github.com/princekumarofficial/tourism-media-service/internal/storage/driver"
	"github.com/princekumarofficial/tourism-media-service/internal/websocket"
)

func main() {
	// load config
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// database setup
	db, err := driver.Open(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer db.Close()
	slog.Info("Database ready", slog.String("driver", cfg.Database.Driver))

	blobs, err := blobstore.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize file storage: ", err)
	}
	slog.Info("File storage ready", slog.String("backend", cfg.Storage.Backend))

	checks := map[string]health.Checker{"database": db.Ping}

	var store storage.Storage = db
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to Redis: ", err)
		}
		slog.Info("Connected to Redis", slog.String("address", cfg.Redis.Address))

		store = cache.NewCacheService(db, redisClient)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		slog.Warn("Redis address not set, caching and rate limiting are disabled")
	}

	hub := websocket.NewHub()
	publisher := events.NewEventPublisher(hub)
	svc := mediaService.NewService(store, blobs, publisher, cfg.Media)

	auth := middleware.AuthMiddleware(cfg.Auth.JWTSecret)
	limits := middleware.NewRateLimitConfig(redisClient, cfg.RateLimits)

	// setup router
	router := http.NewServeMux()

	mediaHandlers.NewMediaHandlers(svc).Register(router, mediaHandlers.Routes{
		Auth:       auth,
		UploadRate: limits.RateLimitMiddleware(middleware.ActionUpload),
		DeleteRate: limits.RateLimitMiddleware(middleware.ActionDelete),
	})

	router.HandleFunc("POST /login", users.Login(store, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))
	if cfg.Auth.AllowSignup {
		router.HandleFunc("POST /signup", users.SignUp(store))
	}

	router.HandleFunc("GET /uploads/{filename}", files.Serve(blobs))
	router.HandleFunc("GET /ws", wsHandlers.WebSocketHandler(hub))
	router.HandleFunc("GET /health", health.Health(checks))
	router.Handle("GET /swagger/", httpSwagger.WrapHandler)

	if redisClient != nil {
		router.Handle("GET /api/admin/cache/stats", auth(cache.GetCacheStats(redisClient)))
		router.Handle("DELETE /api/admin/cache", auth(cache.ClearCache(redisClient)))
	}

	server := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      middleware.Logger(router),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		slog.Info("server started", slog.String("address", cfg.HTTPServer.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Server stopped")
}

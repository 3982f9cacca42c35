package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"netabase/database"
	"netabase/internal/api/handler"
	"netabase/internal/api/middleware"
	"netabase/internal/api/repository"
	"netabase/internal/api/service"
	"netabase/internal/cache"
	"netabase/internal/config"
	"netabase/internal/news"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		log.Error("could not connect to database", "error", err)
		os.Exit(1)
	}

	store, err := cache.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Error("could not connect to redis", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	partyRepo := repository.NewPartyRepository(db)
	politicianRepo := repository.NewPoliticianRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, service.IDTokenVerifier{}, cfg)
	partyService := service.NewPartyService(partyRepo)
	politicianService := service.NewPoliticianService(politicianRepo, ratingRepo, store, cfg.CacheTTL)
	ratingService := service.NewRatingService(ratingRepo, politicianRepo, store)
	aggregator := news.NewAggregator(news.NewFetcher(cfg.NewsTimeout), parseNewsSources(cfg.NewsSources))

	// Handlers
	authHandler := handler.NewAuthHandler(authService, cfg)
	partyHandler := handler.NewPartyHandler(partyService, politicianService)
	politicianHandler := handler.NewPoliticianHandler(politicianService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	newsHandler := handler.NewNewsHandler(aggregator)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	authMW := middleware.AuthMiddleware(authService)
	authRateLimit := middleware.RateLimit(rate.Every(time.Minute/10), 10)
	listCache := middleware.CachePage(store, 5*time.Minute)
	detailCache := middleware.CachePage(store, 10*time.Minute)
	newsCache := middleware.CachePage(store, cfg.CacheTTL)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	authHandler.RegisterRoutes(api.Group("/auth"), authMW, authRateLimit)
	partyHandler.RegisterRoutes(api.Group("/parties"), detailCache, authMW)
	politicians := api.Group("/politicians")
	politicianHandler.RegisterRoutes(politicians, listCache, authMW)
	ratingHandler.RegisterRoutes(politicians, api.Group("/ratings"), authMW)
	newsHandler.RegisterRoutes(api.Group("/news"), newsCache)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.Info("server starting", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// parseNewsSources turns NEWS_SOURCES entries into the aggregator's source
// map. Entries are "name=url"; a bare URL is keyed by its hostname. An empty
// list leaves the aggregator on its built-in sources.
func parseNewsSources(entries []string) map[string]string {
	if len(entries) == 0 {
		return nil
	}
	sources := make(map[string]string, len(entries))
	for _, entry := range entries {
		if name, feedURL, ok := strings.Cut(entry, "="); ok {
			sources[name] = feedURL
			continue
		}
		name := entry
		if u, err := url.Parse(entry); err == nil && u.Host != "" {
			name = u.Host
		}
		sources[name] = entry
	}
	return sources
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devconnect/profile-service/handlers"
	"github.com/devconnect/profile-service/internal/config"
	"github.com/devconnect/profile-service/internal/database"
	"github.com/devconnect/profile-service/internal/oidc"
	profilehandler "github.com/devconnect/profile-service/internal/profile/handler"
	"github.com/devconnect/profile-service/internal/profile/repository"
	"github.com/devconnect/profile-service/internal/profile/service"
	"github.com/devconnect/profile-service/internal/sessions"
	"github.com/devconnect/profile-service/internal/storage"
	"github.com/devconnect/profile-service/internal/tokens"
	"github.com/devconnect/profile-service/internal/users"
	"github.com/devconnect/profile-service/pkg/logger"
	"github.com/devconnect/profile-service/pkg/metrics"
	"github.com/devconnect/profile-service/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	if cfg.IsDevelopment() {
		logger.SetOutput(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Infof("config loaded: keycloak=%v mongo=%v redis=%v minio=%v log=%s",
		cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "", logger.LevelString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := connectRedis(ctx, cfg)
	blacklist := sessions.NewBlacklist(redisClient)
	verifier := buildVerifier(ctx, cfg)

	// Mongo is optional: no URI runs on memory stores, an unreachable server
	// keeps the process up with every store call failing as unavailable.
	var (
		mongoClient *mongo.Client
		profileRepo repository.Repository
		userRepo    users.UserRepository
	)
	switch {
	case cfg.MongoDB.URI == "":
		logger.Warnf("MONGODB_URI not set; using in-memory stores")
		profileRepo = repository.NewMemoryRepo()
		userRepo = users.NewMemoryUserRepository()
	default:
		mongoClient, err = database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.ConnectAttempts, time.Second)
		if err != nil {
			logger.Errorf("MongoDB unavailable, profile routes will return 503: %v", err)
			profileRepo = repository.Unavailable{Cause: err}
			userRepo = users.UnavailableRepository{Cause: err}
			break
		}
		db := mongoClient.Database(cfg.MongoDB.Database)
		mongoProfiles := repository.NewMongoRepo(db.Collection("profiles"))
		mongoUsers := users.NewMongoUserRepository(db.Collection("users"))
		if err := mongoProfiles.EnsureIndexes(ctx); err != nil {
			logger.Warnf("profile index creation failed: %v", err)
		}
		if err := mongoUsers.EnsureIndexes(ctx); err != nil {
			logger.Warnf("user index creation failed: %v", err)
		}
		profileRepo, userRepo = mongoProfiles, mongoUsers
		logger.Infof("connected to MongoDB database %s", cfg.MongoDB.Database)
	}

	userSvc := users.NewService(userRepo)
	profileSvc := service.New(profileRepo, userSvc)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), cors(), middleware.RequestLogger(), middleware.HTTPMetrics(), middleware.ErrorHandler())
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readiness(cfg, mongoClient, blacklist, verifier))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	private := []gin.HandlerFunc{unauthenticated}
	if verifier != nil {
		private = []gin.HandlerFunc{middleware.AuthMiddleware(verifier, blacklist), middleware.Identity(userSvc)}
	} else {
		logger.Warnf("no token verifier configured; private routes will reject every request")
	}

	profilehandler.RegisterProfileRoutes(r, profileSvc, private...)
	handlers.NewAuthHandler(userSvc, blacklist).Register(r, private...)

	if cfg.MinIO.Endpoint != "" {
		avatars, err := storage.NewAvatarStore(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("avatar storage disabled: %v", err)
		} else {
			handlers.NewAvatarHandler(avatars, userSvc).Register(r, private...)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting profile service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	if mongoClient != nil {
		_ = mongoClient.Disconnect(shutdownCtx)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

// connectRedis returns nil when Redis is not configured or not reachable.
func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	addr := cfg.RedisAddr()
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		_ = client.Close()
		return nil
	}
	logger.Infof("connected to Redis at %s", addr)
	return client
}

// buildVerifier picks OIDC, then HMAC, then (opt-in) the insecure verifier.
func buildVerifier(ctx context.Context, cfg *config.Config) middleware.Verifier {
	if issuer := cfg.KeycloakIssuer(); issuer != "" {
		ver, err := oidc.NewVerifier(ctx, issuer, cfg.Keycloak.ClientID)
		if err == nil {
			logger.Infof("verifying tokens against %s", issuer)
			return ver
		}
		logger.Warnf("failed to initialize OIDC verifier: %v", err)
	}
	if cfg.JWT.Secret != "" {
		logger.Infof("verifying HS256 tokens with JWT_SECRET")
		return tokens.NewHMACVerifier(cfg.JWT.Secret)
	}
	if cfg.AllowInsecureToken {
		logger.Warnf("enabling insecure token verifier (integration mode)")
		return oidc.NewInsecureVerifier()
	}
	return nil
}

func unauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication not configured"})
}

// readiness returns 200 only when the configured dependencies answer.
func readiness(cfg *config.Config, mongoClient *mongo.Client, bl *sessions.Blacklist, verifier middleware.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		deps := map[string]bool{}
		if cfg.MongoDB.URI != "" {
			deps["mongo"] = mongoClient != nil && mongoClient.Ping(ctx, nil) == nil
		}
		if cfg.RedisAddr() != "" {
			deps["redis"] = bl.Enabled() && bl.Ping(ctx) == nil
		}
		deps["auth"] = verifier != nil

		ready := true
		for _, ok := range deps {
			ready = ready && ok
		}
		body := gin.H{"status": "ready", "deps": deps, "uptime": fmt.Sprint(time.Since(startTime).Round(time.Second))}
		if !ready {
			body["status"] = "not_ready"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		c.JSON(http.StatusOK, body)
	}
}

// cors sets permissive headers and answers preflight requests.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
		h.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

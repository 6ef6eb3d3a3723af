package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/chronos/internal/config"
	"github.com/MrSnakeDoc/chronos/internal/httpserver"
	"github.com/MrSnakeDoc/chronos/internal/httpserver/deps"
	"github.com/MrSnakeDoc/chronos/internal/index"
	"github.com/MrSnakeDoc/chronos/internal/insight"
	"github.com/MrSnakeDoc/chronos/internal/logger"
	"github.com/MrSnakeDoc/chronos/internal/panel"
	"github.com/MrSnakeDoc/chronos/internal/redis"
	"github.com/MrSnakeDoc/chronos/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/chronos/internal/store/redis"
	"github.com/MrSnakeDoc/chronos/internal/utils"
	"github.com/MrSnakeDoc/chronos/internal/version"
)

var errNoAPIKey = errors.New("gemini api key not configured")

type App struct {
	cfg          *config.Config
	logger       logger.Logger
	server       *httpserver.Server
	redisClient  *goredis.Client
	seedReloader *scheduler.SeedReloader
	janitor      *scheduler.ChatJanitor
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	ctx := context.Background()

	list := index.NewResourceList()

	// Redis is optional: without it the resource list lives in memory only.
	var (
		redisClient *goredis.Client
		store       *redisstore.Store
		mirror      panel.ResourceMirror
	)
	if cfg.RedisEnabled() {
		client, err := redis.Connect(ctx, redis.Options{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisClient = client
		store = redisstore.NewStore(client)
		mirror = store

		syncer := scheduler.NewRedisSyncer(store, list, loggerClient)
		if err := syncer.Sync(ctx); err != nil {
			loggerClient.Warn("failed to sync resources from redis on startup",
				logger.Error(err))
		}
	} else {
		loggerClient.Info("redis not configured, resources are kept in memory only")
	}

	host := panel.NewHost(list, mirror, loggerClient.Named("panel"))

	backend, geminiConfigured := newBackend(ctx, cfg, loggerClient)
	insights := insight.New(backend, insight.Config{
		InsightModel:   cfg.InsightModel,
		TopicModel:     cfg.TopicModel,
		ChatModel:      cfg.ChatModel,
		ThinkingBudget: int32(cfg.ThinkingBudget),
		HistorySize:    cfg.InsightHistory,
		Location:       time.Local,
	}, loggerClient.Named("insight"))

	chats := index.NewChatRegistry()
	janitor := scheduler.NewChatJanitor(chats, loggerClient, cfg.ChatSweepInterval, cfg.ChatIdleTTL)

	var (
		seedReloader  *scheduler.SeedReloader
		reloadTrigger chan struct{}
	)
	if cfg.ResourceFile != "" {
		loggerClient.Info("resource file configured, initializing seed reloader",
			logger.String("file", cfg.ResourceFile))
		reloadTrigger = make(chan struct{}, 1)
		seedReloader = scheduler.NewSeedReloader(
			cfg.ResourceFile,
			store,
			list,
			loggerClient,
			cfg.ReloadInterval,
			reloadTrigger,
		)
	}

	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Build:            version.Get(),
		TimeNow:          time.Now,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		CORSOrigins:      cfg.CORSOrigins,
		RedisClient:      redisClient,
		Resources:        list,
		Panel:            host.Panel(),
		Insights:         insights,
		GeminiConfigured: geminiConfigured,
		Chats:            chats,
		ReloadTrigger:    reloadTrigger,
		ProbeTimeout:     cfg.ProbeTimeout,
		ProbePrivate:     cfg.ProbePrivate,
		RequestTimeout:   cfg.RequestTimeout,
		AITimeout:        cfg.AITimeout,
		AIRateBurst:      cfg.AIRateBurst,
		AIRatePerMin:     cfg.AIRatePerMin,
		MaxBodyBytes:     cfg.MaxRequestBodySize,
	}

	return &App{
		cfg:          cfg,
		logger:       loggerClient,
		server:       httpserver.New(cfg, loggerClient, d),
		redisClient:  redisClient,
		seedReloader: seedReloader,
		janitor:      janitor,
	}, nil
}

// newBackend builds the Gemini client. A missing key or a client error is not
// fatal: the service then answers with its fallbacks and chat creation fails.
func newBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (insight.Backend, bool) {
	if cfg.GeminiAPIKey == "" {
		log.Warn("no gemini api key configured, AI features will return fallbacks")
		return insight.UnavailableBackend(errNoAPIKey), false
	}

	backend, err := insight.NewGeminiBackend(ctx, insight.GeminiConfig{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		HTTPClient: &http.Client{},
	})
	if err != nil {
		log.Error("failed to create gemini client, AI features will return fallbacks",
			logger.Error(err))
		return insight.UnavailableBackend(err), false
	}

	log.Info("gemini client ready",
		logger.String("insight_model", cfg.InsightModel),
		logger.String("topic_model", cfg.TopicModel),
		logger.String("chat_model", cfg.ChatModel))
	return backend, true
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Chronos v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Chronos %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.seedReloader != nil {
		if err := a.seedReloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start seed reloader: %w", err)
		}
		a.logger.Info("seed reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	a.janitor.Start(ctx)
	a.logger.Info("chat janitor started",
		logger.Duration("interval", a.cfg.ChatSweepInterval),
		logger.Duration("idle_ttl", a.cfg.ChatIdleTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.seedReloader != nil {
		a.seedReloader.Stop()
	}
	a.janitor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		utils.CloseLogged(a.redisClient, "redis", a.logger)
	}

	a.logger.Info("✅ Chronos stopped cleanly")
	_ = a.logger.Sync()
	return nil
}

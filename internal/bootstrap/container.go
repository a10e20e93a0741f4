package bootstrap

import (
	"context"
	"fmt"

	"ai-shopping-agent-be/internal/config"
	"ai-shopping-agent-be/internal/controller"
	"ai-shopping-agent-be/internal/mapper"
	"ai-shopping-agent-be/internal/pkg/logger"
	"ai-shopping-agent-be/internal/pkg/metrics"
	"ai-shopping-agent-be/internal/repository/contract"
	"ai-shopping-agent-be/internal/repository/memory"
	"ai-shopping-agent-be/internal/repository/postgres"
	"ai-shopping-agent-be/internal/service"
	"ai-shopping-agent-be/internal/websocket"
	"ai-shopping-agent-be/pkg/ai/intent"
	"ai-shopping-agent-be/pkg/ai/router"
	"ai-shopping-agent-be/pkg/ai/safety"
	"ai-shopping-agent-be/pkg/catalog"
	"ai-shopping-agent-be/pkg/llm"
	"ai-shopping-agent-be/pkg/llm/cache"
	"ai-shopping-agent-be/pkg/llm/factory"
	pktNats "ai-shopping-agent-be/pkg/nats"
	"ai-shopping-agent-be/pkg/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	ProductController controller.IProductController
	HealthController  controller.IHealthController

	// Background services, started by Start.
	ConsumerService service.IConsumerService
	CleanupService  service.ICleanupService
	WebSocketHub    *websocket.Hub

	Router   *router.Router
	Catalog  *catalog.Store
	Sessions *session.Store
	Metrics  *metrics.Metrics
	Logger   logger.ILogger

	closers []func()
}

// NewContainer wires the application. db may be nil; Postgres-backed
// features (catalog source, turn logs) are then unavailable.
func NewContainer(ctx context.Context, cfg *config.Config, db *gorm.DB) (*Container, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger, Metrics: metrics.New()}

	// 1. Catalog
	productMapper := mapper.NewProductMapper()
	store, err := loadCatalog(ctx, cfg.Catalog, db)
	if err != nil {
		return nil, err
	}
	c.Catalog = store
	searcher := catalog.NewSearcher(store, catalog.SearchConfig{
		TokenOverlap:  cfg.Search.TokenOverlap,
		Abbreviations: catalog.DefaultSearchConfig().Abbreviations,
	})
	sysLogger.Info("BOOTSTRAP", "Catalog loaded", map[string]interface{}{
		"source": cfg.Catalog.Source,
		"phones": store.Len(),
	})

	// 2. Infrastructure
	rdb := connectRedis(ctx, cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS unavailable, events stay in-process", map[string]interface{}{"error": err.Error()})
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	var turnLogs contract.TurnLogRepository
	if db != nil {
		turnLogs = postgres.NewTurnLogRepository(db)
	}

	// 3. LLM collaborators
	provider, err := factory.NewLLMProvider(ctx, factory.Settings{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		APIKey:   cfg.Ai.GeminiAPIKey,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		Timeout:  cfg.Ai.LLMTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	if provider != nil && rdb != nil && cfg.Cache.Enabled {
		provider = cache.New(provider, rdb, cfg.Cache.TTL, sysLogger)
	}
	sysLogger.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"enabled":  provider != nil,
		"cached":   provider != nil && rdb != nil && cfg.Cache.Enabled,
	})

	registry, err := safety.DefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("load safety patterns: %w", err)
	}
	classifier := safety.NewClassifier(registry, semanticChecker(cfg, provider, sysLogger), sysLogger)
	extractor := intent.NewExtractor(store, provider, intent.Options{
		Timeout:   cfg.Ai.LLMTimeout,
		Heuristic: cfg.Ai.IntentFallback == "heuristic",
	}, sysLogger)

	// 4. Sessions
	sessionRepo := memory.NewSessionRepository(2*cfg.Session.TTL, cfg.Session.CleanupInterval)
	c.Sessions = session.NewStore(sessionRepo, sysLogger, session.WithMaxHistory(cfg.Session.MaxHistory))
	c.CleanupService = service.NewCleanupService(c.Sessions, cfg.Session.TTL, cfg.Session.CleanupInterval, c.Metrics, sysLogger)

	// 5. Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	chatMapper := mapper.NewChatMapper(productMapper)
	publisherService := service.NewPublisherService(cfg.App.EventsTopic, pubSub, chatMapper, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.EventsTopic, turnLogs, forwarder, chatMapper, sysLogger)

	// 6. Router
	c.Router = router.NewRouter(router.Deps{
		Catalog:   store,
		Searcher:  searcher,
		Safety:    classifier,
		Intents:   extractor,
		Sessions:  c.Sessions,
		Generator: provider,
		Logger:    sysLogger,
	},
		router.WithGenerationTimeout(cfg.Ai.LLMTimeout),
		router.WithObserver(c.Metrics),
		router.WithObserver(publisherService),
	)

	// 7. Controllers
	c.WebSocketHub = websocket.NewHub(rdb, sysLogger)
	chatService := service.NewChatService(c.Router, c.Sessions, chatMapper)
	productService := service.NewProductService(store, searcher, productMapper)

	c.ChatController = controller.NewChatController(chatService, c.WebSocketHub, sysLogger)
	c.ProductController = controller.NewProductController(productService)
	c.HealthController = controller.NewHealthController(store, c.Sessions, cfg.Ai.LLMProvider)

	return c, nil
}

// Start runs the background workers until ctx ends.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)
	go c.CleanupService.Run(ctx)
	return c.ConsumerService.Consume(ctx)
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func loadCatalog(ctx context.Context, cfg config.CatalogConfig, db *gorm.DB) (*catalog.Store, error) {
	switch cfg.Source {
	case "", "embedded":
		return catalog.LoadEmbedded()
	case "file":
		return catalog.LoadFile(cfg.Path)
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("catalog source postgres needs DB_CONNECTION_STRING")
		}
		products, err := postgres.NewProductRepository(db).FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("load catalog from postgres: %w", err)
		}
		return catalog.NewStore(products)
	default:
		return nil, fmt.Errorf("unsupported catalog source: %s", cfg.Source)
	}
}

// semanticChecker returns an untyped nil when the tier is off so the
// classifier sees no checker at all.
func semanticChecker(cfg *config.Config, provider llm.LLMProvider, log logger.ILogger) safety.SemanticChecker {
	if provider == nil || !cfg.Safety.LLMEnabled {
		return nil
	}
	return safety.NewSemanticClassifier(provider, cfg.Safety.ConfidenceThreshold, cfg.Safety.Timeout, log)
}

func connectRedis(ctx context.Context, url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Redis unavailable, running single-instance without cache", map[string]interface{}{"error": err.Error()})
		rdb.Close()
		return nil
	}
	return rdb
}

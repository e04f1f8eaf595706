package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cridiv/Aedar/internal/config"
	"github.com/cridiv/Aedar/internal/controller"
	"github.com/cridiv/Aedar/internal/pkg/logger"
	"github.com/cridiv/Aedar/internal/repository/implementation"
	"github.com/cridiv/Aedar/internal/repository/memory"
	redisrepo "github.com/cridiv/Aedar/internal/repository/redis"
	"github.com/cridiv/Aedar/internal/service"
	"github.com/cridiv/Aedar/pkg/calendar"
	"github.com/cridiv/Aedar/pkg/calendar/google"
	"github.com/cridiv/Aedar/pkg/database"
	"github.com/cridiv/Aedar/pkg/events"
	"github.com/cridiv/Aedar/pkg/llm/factory"
	"github.com/cridiv/Aedar/pkg/roadmap"

	pktNats "github.com/cridiv/Aedar/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	RoadmapController  controller.IRoadmapController
	CalendarController controller.ICalendarController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	closers []func()
}

func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	publisher := events.Fanout{events.NewChannelPublisher(pubSub)}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			publisher = append(publisher, natsPub)
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	activityLogger := logger.NewIsolatedLogger(cfg.App.ActivityLogPath)
	c.ConsumerService = service.NewConsumerService(pubSub, activityLogger)

	// 3. Roadmap pipeline
	generator, err := factory.NewStructuredGenerator(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.AiBaseURL(),
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	extractor := roadmap.NewExtractor(generator, sysLogger, cfg.Ai.ExtractionTemperature)
	synthesizer := roadmap.NewSynthesizer(generator, sysLogger, cfg.Ai.SynthesisTemperature)
	roadmapService := service.NewRoadmapService(
		extractor,
		synthesizer,
		publisher,
		sysLogger,
		time.Duration(cfg.Ai.RequestTimeoutSeconds)*time.Second,
	)

	// 4. Calendar
	store, err := c.newCredentialStore(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	sink := google.NewSink(google.NewOAuthConfig(
		cfg.Google.ClientID,
		cfg.Google.ClientSecret,
		cfg.Google.RedirectURL,
	))
	calendarService := service.NewCalendarService(
		calendar.NewScheduler(),
		store,
		sink,
		publisher,
		sysLogger,
		service.CalendarOptions{
			DefaultCalendarID: cfg.Calendar.DefaultCalendarID,
			PreviewSize:       cfg.Calendar.PreviewSize,
			DeliveryTimeout:   time.Duration(cfg.Calendar.DeliveryTimeoutSecond) * time.Second,
		},
	)

	// 5. Controllers
	c.RoadmapController = controller.NewRoadmapController(roadmapService)
	c.CalendarController = controller.NewCalendarController(calendarService)

	return c, nil
}

func (c *Container) newCredentialStore(cfg *config.Config) (calendar.CredentialStore, error) {
	ttl := time.Duration(cfg.Calendar.CredentialTTLHours) * time.Hour

	switch cfg.Calendar.CredentialStore {
	case "memory", "":
		log.Printf("[INFO] Calendar credentials: in-memory")
		return memory.NewCredentialRepository(ttl), nil

	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		log.Printf("[INFO] Calendar credentials: redis")
		return redisrepo.NewCredentialRepository(rdb, ttl), nil

	case "postgres":
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Environment != "production")
		if err != nil {
			return nil, fmt.Errorf("unable to connect to GORM DB: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			c.closers = append(c.closers, func() { _ = sqlDB.Close() })
		}
		log.Printf("[INFO] Calendar credentials: postgres")
		return implementation.NewCalendarCredentialRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported calendar credential store: %s", cfg.Calendar.CredentialStore)
	}
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

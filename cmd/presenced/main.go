package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mossu/presenced/internal/calendar"
	"github.com/mossu/presenced/internal/config"
	"github.com/mossu/presenced/internal/database"
	"github.com/mossu/presenced/internal/logbuf"
	"github.com/mossu/presenced/internal/office"
	"github.com/mossu/presenced/internal/resolver"
	"github.com/mossu/presenced/internal/schedule"
	signalsrc "github.com/mossu/presenced/internal/signal"
	"github.com/mossu/presenced/internal/slackapi"
	"github.com/mossu/presenced/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	var kv store.Store
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("failed to create redis client", zap.Error(err))
		}
		defer redisClient.Close()
		kv = store.NewRedisStore(redisClient)
	} else {
		logger.Warn("REDIS_URL not set, state will not survive restarts")
		kv = store.NewMemoryStore()
	}

	sched, err := schedule.Load(ctx, kv)
	if err != nil {
		logger.Fatal("failed to load schedule preferences", zap.Error(err))
	}

	events := logbuf.New(logbuf.DefaultCapacity, logger)

	engine, err := resolver.New(resolver.Options{
		Registry: office.DefaultRegistry(),
		Schedule: sched,
		Store:    kv,
		NewClient: func(token string) slackapi.Client {
			return slackapi.New(token)
		},
		Events: events,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("failed to build engine", zap.Error(err))
	}

	// Notification collaborator: state changes surface as log lines here;
	// a desktop front-end would subscribe the same way.
	go func() {
		for update := range engine.Subscribe() {
			switch {
			case update.AuthRequired:
				logger.Warn("authorization required")
			case update.Changed:
				logger.Info("status changed", zap.String("text", update.Text))
			}
		}
	}()

	engine.Start()
	defer engine.Stop()

	sources := []signalsrc.Source{
		signalsrc.NewNetworkSource(nil, cfg.NetworkPollInterval, logger),
		signalsrc.NewConnectivitySource(cfg.ConnectivityProbeAddr, cfg.ConnectivityPollInterval, logger),
	}
	if cfg.Location != nil {
		sources = append(sources, signalsrc.NewStaticLocationSource(office.Location{
			Lat: cfg.Location.Lat,
			Lon: cfg.Location.Lon,
		}))
	}
	if cfg.CalendarFile != "" {
		provider := calendar.NewFileProvider(cfg.CalendarFile)
		selected := func(ctx context.Context) string {
			id, err := kv.Get(ctx, store.KeySelectedCalendar)
			if err != nil {
				return ""
			}
			return id
		}
		sources = append(sources, signalsrc.NewCalendarSource(provider, selected, cfg.CalendarPollInterval, logger))
	}

	for _, src := range sources {
		go src.Run(ctx, engine.HandleSample)
	}

	logger.Info("presence daemon started", zap.Int("sources", len(sources)))
	<-ctx.Done()
	logger.Info("shutting down")
}

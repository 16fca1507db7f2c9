package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"jobcoach/internal/config"
	"jobcoach/internal/database"
	dbpostgres "jobcoach/internal/database/postgres"
	"jobcoach/internal/infrastructure/cache"
	"jobcoach/internal/logger"
	"jobcoach/internal/repository"
	"jobcoach/internal/usecase"

	"go.uber.org/zap"
)

type Container struct {
	Config config.Config
	Logger *zap.Logger

	// DB and Cache are nil when no database is configured.
	DB    database.DB
	Cache *cache.Redis

	Recommender *usecase.Recommender
	Assistant   *usecase.Assistant
}

func NewContainer(ctx context.Context, cfg config.Config, l *zap.Logger) (*Container, error) {
	l = logger.OrNop(l)
	c := &Container{Config: cfg, Logger: l}

	var (
		profiles repository.CandidateProfileStore
		listings repository.ListingRepository
	)

	if cfg.Database.Enabled() {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		db, err := dbpostgres.Connect(connectCtx, cfg.Database)
		cancel()
		if err != nil {
			return nil, err
		}
		c.DB = db
		c.Cache = cache.NewRedis(cfg.Redis, l.Named("cache"))

		profiles = repository.NewPostgresCandidateProfileStore(db)
		listings = repository.NewCachedListingRepository(
			repository.NewPostgresListingRepository(db),
			c.Cache,
			cfg.Redis.TTL,
			l.Named("listings"),
		)
	} else {
		l.Warn("database not configured, recommendations will be empty")
	}

	provider, err := NewProvider(ctx, cfg.Assistant, &http.Client{})
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	if provider == nil {
		l.Warn("assistant provider credential missing, chat requests will fail",
			logger.ProviderFields(cfg.Assistant.Provider, cfg.Assistant.ModelID)...)
	}

	c.Recommender = usecase.NewRecommender(profiles, listings, l.Named("recommender"))
	c.Assistant = usecase.NewAssistant(
		c.Recommender,
		usecase.NewAssistantGateway(cfg.Assistant, provider, l.Named("assistant")),
	)
	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}

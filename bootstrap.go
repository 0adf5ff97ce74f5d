package main

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/logging"
	"storefront/internal/search"
	"storefront/internal/services"
	"storefront/pkg/kafka"
	"storefront/pkg/rabbitmq"

	"gorm.io/gorm"
)

// runtime holds what every command needs: configuration, the root logger
// and, once opened, the database.
type runtime struct {
	cfg *config.Config
	log *slog.Logger
	db  *gorm.DB
}

func bootConfig() *runtime {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.AppEnv)
	slog.SetDefault(log)
	return &runtime{cfg: cfg, log: log}
}

func boot(ctx context.Context) (*runtime, error) {
	rt := bootConfig()
	db, err := database.Open(ctx, rt.cfg.DBDriver, rt.cfg.DatabaseDSN, rt.cfg.DBPool)
	if err != nil {
		return nil, err
	}
	rt.db = db
	rt.log.Info("database connected", "driver", rt.cfg.DBDriver)
	return rt, nil
}

func (rt *runtime) Close() {
	if rt.db == nil {
		return
	}
	if err := database.Close(rt.db); err != nil {
		rt.log.Error("closing database failed", "error", err)
	}
}

// publisher connects to the configured broker. With EVENTS_DRIVER=none
// events are dropped.
func (rt *runtime) publisher() (events.Publisher, error) {
	switch rt.cfg.EventsDriver {
	case "", "none":
		return events.Nop{}, nil
	case "rabbitmq":
		client, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      rt.cfg.RabbitMQURL,
			Exchange: rt.cfg.RabbitMQExchange,
			Logger:   rt.log,
		})
		if err != nil {
			return nil, err
		}
		return events.NewRabbitPublisher(client), nil
	case "kafka":
		producer, err := kafka.NewProducer(rt.cfg.KafkaBrokers)
		if err != nil {
			return nil, err
		}
		rt.log.Info("kafka producer ready", "brokers", rt.cfg.KafkaBrokers)
		return events.NewKafkaPublisher(producer), nil
	}
	return nil, fmt.Errorf("unknown EVENTS_DRIVER %q", rt.cfg.EventsDriver)
}

// catalogIndex returns the external search index, or nil when search runs
// against the database.
func (rt *runtime) catalogIndex(ctx context.Context) (services.CatalogIndex, error) {
	switch rt.cfg.SearchDriver {
	case "", "database":
		return nil, nil
	case "elasticsearch":
		idx, err := search.NewElasticIndex(search.Config{
			URL:        rt.cfg.ESURL,
			Username:   rt.cfg.ESUsername,
			Password:   rt.cfg.ESPassword,
			Index:      rt.cfg.ESIndex,
			MaxResults: rt.cfg.SearchMaxResults,
		})
		if err != nil {
			return nil, err
		}
		if err := idx.EnsureIndex(ctx); err != nil {
			return nil, err
		}
		rt.log.Info("search index ready", "index", rt.cfg.ESIndex)
		return idx, nil
	}
	return nil, fmt.Errorf("unknown SEARCH_DRIVER %q", rt.cfg.SearchDriver)
}

func (rt *runtime) cache(ctx context.Context) (*cache.Cache, error) {
	c, err := cache.New(ctx, rt.cfg.RedisAddr, rt.cfg.RedisPassword)
	if err != nil {
		return nil, err
	}
	if c.Enabled() {
		rt.log.Info("redis cache connected", "addr", rt.cfg.RedisAddr)
	}
	return c, nil
}

package container

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-registration/config"
	"github.com/oksasatya/go-user-registration/internal/domain/repository"
	"github.com/oksasatya/go-user-registration/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-user-registration/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
)

// Container owns the process-wide clients shared by every request. It is
// built once at startup, handed to the router, and torn down with Close.
// Optional backends that fail to connect are logged and left nil.
type Container struct {
	Config    *config.Config
	Logger    *logrus.Logger
	PGPool    *pgxpool.Pool
	Redis     *redis.Client
	ES        *elasticsearch.Client
	RabbitPub *helpers.RabbitPublisher
	Users     repository.UserRepository
}

// New connects the configured backends. It never fails: a missing or
// unreachable document store leaves Users returning ErrConnectivity so the
// server can still start.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) *Container {
	c := &Container{Config: cfg, Logger: logger}

	c.Users = c.connectStore(ctx)

	if rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			logger.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unavailable; rate limiting disabled")
			_ = rdb.Close()
		} else {
			c.Redis = rdb
		}
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.WithError(err).Warn("elasticsearch client init failed; indexing disabled")
	}
	c.ES = es

	if cfg.RabbitMQURL != "" && cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; welcome emails disabled")
		} else {
			c.RabbitPub = pub
		}
	}

	return c
}

func (c *Container) connectStore(ctx context.Context) repository.UserRepository {
	cfg := c.Config
	if cfg.StoreDriver == config.StoreDriverMemory {
		c.Logger.Warn("using in-memory user store; data is lost on restart")
		return memory.NewUserRepository()
	}

	pool, err := pginfra.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		c.Logger.WithError(err).Error("failed to connect to document store")
		return pginfra.NewUserRepository(nil)
	}
	c.PGPool = pool
	c.Logger.Info("connected to document store")

	if err := pginfra.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir, c.Logger); err != nil {
		c.Logger.WithError(err).Error("migration failed")
	}
	return pginfra.NewUserRepository(pool)
}

// Close releases every client opened by New.
func (c *Container) Close() {
	if c.RabbitPub != nil {
		c.RabbitPub.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
}

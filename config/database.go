package config

import (
	"context"
	"fmt"
	"handmade-store/repositories"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Datastore bundles the repositories backed by the configured store.
type Datastore struct {
	Driver   string
	Products repositories.ProductRepository
	Admins   repositories.AdminRepository
	closers  []func()
}

func (d *Datastore) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

// DetectDriver infers the store driver from the connection string scheme.
func DetectDriver(dsn string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	switch {
	case strings.HasPrefix(lower, "mongodb://") || strings.HasPrefix(lower, "mongodb+srv://"):
		return DriverMongo, nil
	case strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://"):
		return DriverPostgres, nil
	case lower == "memory" || strings.HasPrefix(lower, "memory://"):
		return DriverMemory, nil
	case lower == "":
		return "", fmt.Errorf("db: empty DATABASE_URL")
	default:
		return "", fmt.Errorf("db: unsupported DATABASE_URL scheme")
	}
}

func ConnectDB(ctx context.Context, cfg *Config) (*Datastore, error) {
	driver, err := DetectDriver(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	var store *Datastore
	switch driver {
	case DriverMongo:
		store, err = connectMongo(ctx, cfg)
	case DriverPostgres:
		store, err = connectPostgres(ctx, cfg)
	default:
		mem := repositories.NewMemoryStore()
		store = &Datastore{Products: mem.Products(), Admins: mem.Admins()}
		log.Warn("using in-memory datastore, data is lost on restart")
	}
	if err != nil {
		return nil, err
	}
	store.Driver = driver

	if client := connectRedis(ctx, cfg); client != nil {
		store.Products = repositories.NewCachedProductRepository(store.Products, client)
		store.closers = append(store.closers, func() { _ = client.Close() })
	}

	return store, nil
}

func connectMongo(ctx context.Context, cfg *Config) (*Datastore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DatabaseURL))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("unable to ping mongo: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	products := repositories.NewMongoProductRepository(db)
	admins := repositories.NewMongoAdminRepository(db)

	if err := products.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Warn("failed to ensure product indexes")
	}
	if err := admins.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Warn("failed to ensure admin indexes")
	}

	log.WithField("database", cfg.MongoDatabase).Info("mongo connected successfully")
	return &Datastore{
		Products: products,
		Admins:   admins,
		closers: []func(){func() {
			_ = client.Disconnect(context.Background())
			log.Info("mongo connection closed")
		}},
	}, nil
}

func connectPostgres(ctx context.Context, cfg *Config) (*Datastore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB config: %w", err)
	}
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if err := runMigrations(cfg.DatabaseURL); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("postgres connected successfully")
	return &Datastore{
		Products: repositories.NewPostgresProductRepository(pool),
		Admins:   repositories.NewPostgresAdminRepository(pool),
		closers: []func(){func() {
			pool.Close()
			log.Info("database connection closed")
		}},
	}, nil
}

// connectRedis returns nil when no cache is configured or reachable; the
// catalog then reads straight from the store.
func connectRedis(ctx context.Context, cfg *Config) *redis.Client {
	var opt *redis.Options
	switch {
	case cfg.RedisURL != "":
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("failed to parse REDIS_URL, running without cache")
			return nil
		}
		opt = parsed
	case cfg.RedisAddr != "":
		opt = &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	default:
		return nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis connection failed, running without cache")
		_ = client.Close()
		return nil
	}

	log.Info("redis connected")
	return client
}

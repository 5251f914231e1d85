package container

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/serroba/secretdrop/internal/analytics"
	analyticsstore "github.com/serroba/secretdrop/internal/analytics/store"
	"github.com/serroba/secretdrop/internal/crypto"
	"github.com/serroba/secretdrop/internal/handlers"
	"github.com/serroba/secretdrop/internal/health"
	"github.com/serroba/secretdrop/internal/link"
	"github.com/serroba/secretdrop/internal/messaging"
	"github.com/serroba/secretdrop/internal/middleware"
	"github.com/serroba/secretdrop/internal/ratelimit"
	"github.com/serroba/secretdrop/internal/store"
)

// Options configures both binaries. humacli populates it from flags,
// environment variables, and defaults.
type Options struct {
	Port           int    `default:"8888"           help:"Port to listen on"                                            short:"p"`
	BaseURL        string `default:""               help:"Public base URL; defaults to http://localhost:<port>"`
	HandleLength   int    `default:"8"              help:"Length of generated link handles"                             short:"c"`
	Backend        string `default:"memory"         enum:"memory,redis,postgres" help:"Record store backend"`
	RedisAddr      string `default:"localhost:6379" help:"Redis server address"                                         short:"r"`
	PostgresDSN    string `default:""               help:"PostgreSQL connection string (required for postgres backend)"`
	BlobDir        string `default:"./blobs"        help:"Directory for encrypted file payloads"`
	EncryptionKey  string `default:""               help:"Hex-encoded 32-byte encryption key"`
	Secret         string `default:"dev-secret-key" help:"Process secret used to derive the encryption key when no key is given"`
	AnalyticsStore string `default:"redis"          enum:"redis,log" help:"Where the consumer persists analytics events"`
	LogFormat      string `default:"console"        enum:"console,json" help:"Log output format"`
}

func (o *Options) baseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the pgx pool and ensures the schema exists.
// Only invoked when the postgres backend is selected.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		if options.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres backend selected but no DSN configured")
		}

		pool, err := pgxpool.New(context.Background(), options.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		return pool, nil
	})
}

// CipherPackage provides the process-wide cipher: an explicit operator key
// when configured, otherwise a key derived from the process secret so
// restarts stay compatible with stored ciphertexts.
func CipherPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*crypto.Cipher, error) {
		options := do.MustInvoke[*Options](i)

		if options.EncryptionKey != "" {
			key, err := crypto.KeyFromHex(options.EncryptionKey)
			if err != nil {
				return nil, err
			}

			return crypto.NewCipher(key)
		}

		return crypto.NewDerivedCipher(options.Secret)
	})
}

// RepositoryPackage provides the record and blob stores for the selected
// backend.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (link.Repository, error) {
		options := do.MustInvoke[*Options](i)

		switch options.Backend {
		case "redis":
			return store.NewRedisStore(do.MustInvoke[*redis.Client](i)), nil
		case "postgres":
			pool := do.MustInvoke[*pgxpool.Pool](i)

			pg := store.NewPostgresStore(pool)
			if err := pg.EnsureSchema(context.Background()); err != nil {
				return nil, fmt.Errorf("ensure schema: %w", err)
			}

			return pg, nil
		default:
			return store.NewMemoryStore(), nil
		}
	})

	do.Provide(injector, func(i *do.Injector) (link.BlobStore, error) {
		options := do.MustInvoke[*Options](i)

		// The redis backend keeps blobs next to the records; the others
		// write one encrypted file per handle, like the record stores the
		// service originally shipped with.
		if options.Backend == "redis" {
			return store.NewRedisBlobStore(do.MustInvoke[*redis.Client](i)), nil
		}

		return store.NewFSBlobStore(options.BlobDir)
	})
}

// ServicePackage provides the link service.
func ServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*link.Service, error) {
		options := do.MustInvoke[*Options](i)

		return link.NewService(
			do.MustInvoke[link.Repository](i),
			do.MustInvoke[link.BlobStore](i),
			do.MustInvoke[*crypto.Cipher](i),
			options.HandleLength,
			do.MustInvoke[*zap.Logger](i),
		)
	})
}

// RateLimitPackage provides the policy limiter backed by the in-memory
// sliding-window store.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*ratelimit.PolicyLimiter, error) {
		return ratelimit.NewPolicyLimiter(
			store.NewRateLimitMemoryStore(),
			ratelimit.DefaultPolicy(),
		), nil
	})
}

// PublisherGroupPackage provides the Redis Streams publisher used for link
// lifecycle events.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: do.MustInvoke[*redis.Client](i),
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// ConsumerGroupPackage provides the consumer-group worker that persists
// analytics events from the Redis Streams topics.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*redis.Client](i),
			ConsumerGroup: "analytics",
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		var eventStore analytics.Store
		if options.AnalyticsStore == "log" {
			eventStore = analyticsstore.NewNoop(logger)
		} else {
			eventStore = analyticsstore.NewRedis(do.MustInvoke[*redis.Client](i))
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			subscriber,
			analytics.TopicLinkCreated,
			analytics.NewLinkCreatedHandler(eventStore),
			logger,
		))
		group.Add(messaging.NewConsumer(
			subscriber,
			analytics.TopicLinkAccessed,
			analytics.NewLinkAccessedHandler(eventStore),
			logger,
		))

		return group, nil
	})
}

// HTTPPackage provides the router and the huma API with all middleware and
// routes registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("secretdrop", "1.0.0"))

		api.UseMiddleware(middleware.RequestMeta(api))
		api.UseMiddleware(middleware.PolicyRateLimiter(
			api,
			do.MustInvoke[*ratelimit.PolicyLimiter](i),
			ratelimit.NewOperationScopeResolver(),
			logger,
		))

		publisher := do.MustInvoke[*messaging.PublisherGroup](i).Publisher()

		linkHandler := handlers.NewLinkHandler(
			do.MustInvoke[*link.Service](i),
			options.baseURL(),
			messaging.NewPublishFunc[analytics.LinkCreatedEvent](publisher, analytics.TopicLinkCreated),
			messaging.NewPublishFunc[analytics.LinkAccessedEvent](publisher, analytics.TopicLinkAccessed),
			logger,
		)
		handlers.RegisterRoutes(api, linkHandler)

		checks := map[string]health.Checker{
			"redis": health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
		}
		if options.Backend == "postgres" {
			checks["postgres"] = health.NewPostgresChecker(do.MustInvoke[*pgxpool.Pool](i))
		}

		health.RegisterRoutes(api, health.NewHandler(checks))

		return api, nil
	})
}

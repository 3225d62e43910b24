package services

import (
	"context"
	"fmt"
	"net/http"

	"cloud.google.com/go/spanner"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/adapter/accounts"
	"github.com/light-bringer/advert-catalog/internal/adapter/accounts/mongodir"
	"github.com/light-bringer/advert-catalog/internal/adapter/accounts/rediscache"
	"github.com/light-bringer/advert-catalog/internal/adapter/identity/jwtauth"
	"github.com/light-bringer/advert-catalog/internal/adapter/messaging/natspub"
	"github.com/light-bringer/advert-catalog/internal/adapter/storage/memstore"
	"github.com/light-bringer/advert-catalog/internal/adapter/storage/miniostore"
	"github.com/light-bringer/advert-catalog/internal/app/advert/access"
	"github.com/light-bringer/advert-catalog/internal/app/advert/catalog"
	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/images"
	"github.com/light-bringer/advert-catalog/internal/app/advert/queries/get_advert"
	"github.com/light-bringer/advert-catalog/internal/app/advert/queries/list_adverts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/queries/list_owner_adverts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/queries/list_statuses"
	"github.com/light-bringer/advert-catalog/internal/app/advert/relay"
	"github.com/light-bringer/advert-catalog/internal/app/advert/repo"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/change_status"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/create_advert"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/delete_advert"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/edit_advert"
	"github.com/light-bringer/advert-catalog/internal/config"
	"github.com/light-bringer/advert-catalog/internal/pkg/background"
	"github.com/light-bringer/advert-catalog/internal/pkg/clock"
	"github.com/light-bringer/advert-catalog/internal/pkg/committer"
	"github.com/light-bringer/advert-catalog/internal/pkg/metrics"
	httpadvert "github.com/light-bringer/advert-catalog/internal/transport/http/advert"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	Router http.Handler
	Relay  *relay.Relay
	Runner *background.Runner
	Outbox contracts.OutboxRepository

	closers []func()
}

// advertStore is what a repository backend provides.
type advertStore interface {
	contracts.AdvertRepository
	contracts.OutboxRepository
}

// spannerStore joins the Spanner repositories that share one client.
type spannerStore struct {
	*repo.AdvertRepo
	*repo.OutboxRepo
}

// NewServiceOptions creates and wires up all application dependencies.
// Optional collaborators fall back to in-process implementations when
// their address is not configured.
func NewServiceOptions(ctx context.Context, cfg *config.Config, m *metrics.MetricsManager, logger *zap.Logger) (*ServiceOptions, error) {
	opts := &ServiceOptions{}
	clk := clock.NewRealClock()

	// 1. Repository
	store, err := opts.newStore(ctx, cfg, clk, logger)
	if err != nil {
		opts.Close()
		return nil, err
	}
	opts.Outbox = store

	// 2. Collaborators
	objects, err := newObjectStore(ctx, cfg, logger)
	if err != nil {
		opts.Close()
		return nil, err
	}
	directory, err := opts.newDirectory(ctx, cfg, logger)
	if err != nil {
		opts.Close()
		return nil, err
	}
	publisher, err := opts.newPublisher(cfg, logger)
	if err != nil {
		opts.Close()
		return nil, err
	}

	// 3. Shared infrastructure
	opts.Runner = background.NewRunner(logger, m, cfg.ImageReleaseTimeout)
	imageService := images.NewService(objects, opts.Runner, m, logger)
	gate := access.NewGate(store)
	reader := catalog.NewReader(store, directory, cfg.MaxPageSize)

	// 4. Command use cases (write operations)
	commands := httpadvert.Commands{
		Create:       create_advert.NewInteractor(store, imageService, clk, m, logger),
		Edit:         edit_advert.NewInteractor(store, gate, imageService, clk, m, logger),
		ChangeStatus: change_status.NewInteractor(store, gate, clk, m, logger),
		Delete:       delete_advert.NewInteractor(store, gate, imageService, clk, m, logger),
	}

	// 5. Query use cases (read operations)
	queries := httpadvert.Queries{
		List:         list_adverts.NewQuery(reader, cfg.CatalogPageSize),
		ListByOwner:  list_owner_adverts.NewQuery(directory, reader, cfg.OwnerPageSize),
		Get:          get_advert.NewQuery(store, directory),
		ListStatuses: list_statuses.NewQuery(),
	}

	// 6. HTTP handler and outbox relay
	handler := httpadvert.NewHandler(commands, queries, m, logger)
	opts.Router = httpadvert.NewRouter(handler, jwtauth.NewVerifier(cfg.JWTSecret), m, logger)
	opts.Relay = relay.New(store, publisher, relay.Config{
		BatchSize:  cfg.OutboxBatchSize,
		MaxRetries: cfg.OutboxMaxRetries,
	}, m, logger)

	return opts, nil
}

func (o *ServiceOptions) newStore(ctx context.Context, cfg *config.Config, clk clock.Clock, logger *zap.Logger) (advertStore, error) {
	if cfg.StoreDriver == config.DriverMemory {
		logger.Warn("Using in-memory advert store; data is lost on restart")
		return repo.NewMemoryStore(clk), nil
	}

	client, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}
	o.closers = append(o.closers, client.Close)

	comm := committer.NewCommitter(client)
	return spannerStore{repo.NewAdvertRepo(client, comm), repo.NewOutboxRepo(client, comm)}, nil
}

func newObjectStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (contracts.ObjectStore, error) {
	if cfg.MinioEndpoint == "" {
		logger.Warn("MINIO_ENDPOINT not set; images are kept in memory")
		return memstore.New(), nil
	}
	return miniostore.New(ctx, miniostore.Options{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	}, logger)
}

func (o *ServiceOptions) newDirectory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (contracts.AccountDirectory, error) {
	if cfg.MongoURI == "" {
		return accounts.ParseStaticDirectory(cfg.Accounts)
	}

	client, err := mongodir.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	o.closers = append(o.closers, func() { disconnectMongo(client) })

	var directory contracts.AccountDirectory = mongodir.New(client.Database(cfg.MongoDatabase))
	if cfg.RedisAddress == "" {
		return directory, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddress, err)
	}
	o.closers = append(o.closers, func() { _ = rdb.Close() })

	return rediscache.New(directory, rdb, cfg.AccountCacheTTL, logger), nil
}

func (o *ServiceOptions) newPublisher(cfg *config.Config, logger *zap.Logger) (contracts.EventPublisher, error) {
	if cfg.NATSURL == "" {
		logger.Warn("NATS_URL not set; relayed events are only logged")
		return &logPublisher{logger: logger}, nil
	}

	conn, err := natspub.Connect(cfg.NATSURL, logger)
	if err != nil {
		return nil, err
	}
	o.closers = append(o.closers, func() {
		_ = conn.Drain()
	})
	return natspub.NewPublisher(conn, cfg.NATSSubjectPrefix), nil
}

func disconnectMongo(client *mongo.Client) {
	_ = client.Disconnect(context.Background())
}

// Close releases connections in reverse order of creation.
func (o *ServiceOptions) Close() {
	for i := len(o.closers) - 1; i >= 0; i-- {
		o.closers[i]()
	}
	o.closers = nil
}

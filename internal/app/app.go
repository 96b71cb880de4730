package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	config "github.com/shopstream-tech/search-backend/internal/cfg"
	v1Http "github.com/shopstream-tech/search-backend/internal/delivery/v1/http"
	"github.com/shopstream-tech/search-backend/internal/infrastructure/embedder"
	"github.com/shopstream-tech/search-backend/internal/infrastructure/images"
	"github.com/shopstream-tech/search-backend/internal/infrastructure/kafka"
	s3Repo "github.com/shopstream-tech/search-backend/internal/repository/minio"
	"github.com/shopstream-tech/search-backend/internal/repository/pgdb"
	pgdbConv "github.com/shopstream-tech/search-backend/internal/repository/pgdb/converter/generated"
	qdrantRepo "github.com/shopstream-tech/search-backend/internal/repository/qdrant"
	"github.com/shopstream-tech/search-backend/internal/repository/redis"
	redisConv "github.com/shopstream-tech/search-backend/internal/repository/redis/converter/generated"
	"github.com/shopstream-tech/search-backend/internal/usecase"
	"github.com/shopstream-tech/search-backend/pkg/clients"
	"github.com/shopstream-tech/search-backend/pkg/closer"
	"github.com/shopstream-tech/search-backend/pkg/e"
	"github.com/shopstream-tech/search-backend/pkg/logger"
	"github.com/shopstream-tech/search-backend/pkg/postgres"
)

const (
	initTimeout          = 10 * time.Second
	shutdownTimeout      = 10 * time.Second
	closerForcedTimeout  = 2 * time.Second
	kafkaEnsureTopicWait = 10 * time.Second
)

// App держит собранный граф зависимостей сервиса.
type App struct {
	cfg      *config.Config
	logger   logger.Logger
	httpSrv  *v1Http.Server
	consumer *kafka.Consumer
	closer   *closer.Closer
}

// NewApp собирает все зависимости: БД с миграциями, MinIO, Qdrant, Redis,
// Kafka, embedding-клиент, конвейер загрузки и HTTP-роутер.
// Порядок регистрации в closer обратен порядку остановки (LIFO).
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.NewCloser(closerForcedTimeout)

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap("app.NewApp", err)
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		log.Infof("postgres pool closed")
		return nil
	})

	itemConv := pgdbConv.NewItemConverterImpl()
	cacheConv := redisConv.NewItemConverterImpl()

	itemRepo := pgdb.NewItemRepo(db.Pool, itemConv)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return nil, e.Wrap("app.NewApp: minio", err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), initTimeout)
	err = clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName)
	minioCancel()
	if err != nil {
		return nil, e.Wrap("app.NewApp: minio bucket", err)
	}

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)

	qdrantClient, err := clients.NewQdrantClient(cfg.Qdrant)
	if err != nil {
		return nil, e.Wrap("app.NewApp: qdrant", err)
	}
	cl.Add(func(ctx context.Context) error {
		if err := qdrantClient.Client.Close(); err != nil {
			return e.Wrap("qdrant close", err)
		}
		log.Infof("qdrant client closed")
		return nil
	})

	qdrantCtx, qdrantCancel := context.WithTimeout(context.Background(), initTimeout)
	err = clients.EnsureCollection(qdrantCtx, qdrantClient)
	qdrantCancel()
	if err != nil {
		return nil, e.Wrap("app.NewApp: qdrant collection", err)
	}

	vectorRepo := qdrantRepo.NewPointRepo(qdrantClient.Client, cfg.Qdrant)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = redisClient.Ping(redisCtx)
	redisCancel()
	if err != nil {
		return nil, e.Wrap("app.NewApp: redis", err)
	}
	cl.Add(func(ctx context.Context) error {
		if err := redisClient.Client.Close(); err != nil {
			return e.Wrap("redis close", err)
		}
		log.Infof("redis client closed")
		return nil
	})

	cacheRepo := redis.NewCacheRepo(redisClient, cacheConv, cfg.Redis, log)

	emb := embedder.NewEmbedder(cfg.Embedder, log)
	normalizer := images.NewNormalizer(imageRepo, cfg.Images, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		return nil, e.Wrap("app.NewApp: kafka producer", err)
	}
	if err := producer.EnsureTopic(kafkaEnsureTopicWait); err != nil {
		return nil, e.Wrap("app.NewApp: kafka topic", err)
	}
	cl.Add(func(ctx context.Context) error {
		if err := producer.Close(); err != nil {
			return e.Wrap("kafka producer close", err)
		}
		log.Infof("kafka producer closed")
		return nil
	})

	itemUC := usecase.NewItemUC(
		itemRepo,
		vectorRepo,
		db.Pool,
		emb,
		normalizer,
		cacheRepo,
		producer,
		log,
	)

	consumer := kafka.NewConsumer(cfg.Kafka, itemUC, log)
	cl.Add(func(ctx context.Context) error {
		if err := consumer.Close(); err != nil {
			return e.Wrap("kafka consumer close", err)
		}
		log.Infof("kafka consumer stopped")
		return nil
	})

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(itemUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add(func(ctx context.Context) error {
		if err := httpSrv.Stop(ctx); err != nil {
			return e.Wrap("http server shutdown", err)
		}
		log.Infof("HTTP server stopped")
		return nil
	})

	return &App{
		cfg:      cfg,
		logger:   log,
		httpSrv:  httpSrv,
		consumer: consumer,
		closer:   cl,
	}, nil
}

// Run запускает consumer и HTTP-сервер и блокируется до сигнала
// завершения или фатальной ошибки сервера.
func (a *App) Run() error {
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()
	a.consumer.Start(consumerCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	consumerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "graceful shutdown finished with errors")
		if appErr == nil {
			appErr = err
		}
	} else {
		a.logger.Infof("Application shutdown complete")
	}

	return appErr
}

func initPGDB(log logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		log.Errorf(err, "failed to connect to database")
		return nil, err
	}

	if err := db.RunMigrations(log); err != nil {
		log.Errorf(err, "failed to run migrations")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		log.Errorf(err, "failed to ping database")
		return nil, err
	}

	return db, nil
}

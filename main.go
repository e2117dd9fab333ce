package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"auctionhub/internal/config"
	"auctionhub/internal/database/db_client"
	"auctionhub/internal/database/migrate"
	"auctionhub/internal/events"
	"auctionhub/internal/http/http_server"
	"auctionhub/internal/redis/auctionlock"
	"auctionhub/internal/redis/redis_client"
	"auctionhub/internal/repository"
	"auctionhub/internal/scheduler"
	"auctionhub/internal/services/auction"
	"auctionhub/internal/services/bidding"
	"auctionhub/internal/services/evaluation"
	"auctionhub/internal/ws"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	var err error
	var cfg *config.Config
	var redisClient *redis.Client

	// 1. Load configuration
	cfg, err = config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Redis
	redisClient, err = redis_client.NewRedisClient(cfg.RedisHost, int(cfg.RedisPort))
	if err != nil {
		Log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer redisClient.Close()
	Log.Debug("Redis client created successfully")

	// 4. Postgres db client + schema migrations
	pgDb, err := db_client.Open(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb)
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()
	if err := migrate.Up(pgDb); err != nil {
		Log.Fatal("pg-migrate", zap.Error(err))
	}

	// 5. RabbitMQ publisher for the outbox relay
	amqpConn, err := amqp.Dial(cfg.RabbitUrl)
	if err != nil {
		Log.Fatal("rabbit-dial", zap.Error(err))
	}
	defer amqpConn.Close()
	publisher, err := events.NewRabbitMQPublisher(amqpConn)
	if err != nil {
		Log.Fatal("rabbit-publisher", zap.Error(err))
	}

	// 6. Repositories
	auctionRepo := repository.NewAuctionRepository(pgDb)
	bidRepo := repository.NewBidRepository(pgDb)
	evaluationRepo := repository.NewEvaluationRepository(pgDb)
	extensionRepo := repository.NewExtensionRepository(pgDb)
	activityRepo := repository.NewActivityRepository(pgDb)
	watcherRepo := repository.NewWatcherRepository(pgDb)
	questionRepo := repository.NewQuestionRepository(pgDb)
	outboxRepo := repository.NewOutboxRepository(pgDb)

	// 7. Services
	notifier := events.NewRedisNotifier(redisClient)
	locker := auctionlock.New(redisClient, cfg.CloseLockTtl)
	bidService := bidding.NewBidService(pgDb, auctionRepo, bidRepo, extensionRepo,
		activityRepo, outboxRepo, notifier, cfg.MaxAutoExtensions, cfg.BidLockTimeout)
	auctionService := auction.NewAuctionService(pgDb, auctionRepo, bidRepo, evaluationRepo,
		extensionRepo, activityRepo, outboxRepo, locker, notifier)
	engagementService := auction.NewEngagementService(auctionRepo, watcherRepo, questionRepo, activityRepo)
	evaluationService := evaluation.NewEvaluationService(auctionRepo, bidRepo, evaluationRepo)

	// 8. Background: lifecycle scheduler + outbox relay
	scheduler.Run(ctx, auctionService, cfg.SchedulerInterval)
	relay := events.NewRelay(pgDb, outboxRepo, publisher, cfg.OutboxBatchSize, cfg.OutboxInterval)
	go relay.Run(ctx)

	// 9. WebSockets hub + WS server
	hub := ws.NewHub()
	wsSrv := ws.NewWsServer(hub, redisClient, auctionService, bidService)

	// 10. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv,
		auctionService, engagementService, bidService, evaluationService)
	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}

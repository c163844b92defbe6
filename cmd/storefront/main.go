// Command storefront serves the storefront HTTP API and its gRPC health endpoint.
//
//	@title						Storefront API
//	@version					1.0
//	@description				Catalog, cart, checkout, enquiries and admin back-office.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@securityDefinitions.apikey	AdminAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/admin"
	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/config"
	"github.com/MikeMC777/storefront/internal/enquiry"
	"github.com/MikeMC777/storefront/internal/events"
	"github.com/MikeMC777/storefront/internal/grpcx"
	"github.com/MikeMC777/storefront/internal/httpx"
	"github.com/MikeMC777/storefront/internal/memstore"
	"github.com/MikeMC777/storefront/internal/order"
	"github.com/MikeMC777/storefront/internal/pg"
	"github.com/MikeMC777/storefront/internal/product"
	"github.com/MikeMC777/storefront/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	logger, err := cfg.Logger()
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("storefront stopped", zap.Error(err))
		os.Exit(1)
	}
}

// stores is the set of repositories behind the services.
type stores struct {
	products  product.Repository
	users     user.Repository
	admins    admin.Repository
	carts     cart.Repository
	orders    order.Repository
	enquiries enquiry.Repository
	probe     grpcx.Probe
	close     func()
}

func memoryStores() stores {
	st := memstore.New()
	return stores{
		products:  st.Products(),
		users:     st.Users(),
		admins:    st.Admins(),
		carts:     st.Carts(),
		orders:    st.Orders(),
		enquiries: st.Enquiries(),
		close:     func() {},
	}
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		return memoryStores(), nil
	}
	pool, err := pg.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return stores{}, err
	}
	if err := pg.Migrate(ctx, pool); err != nil {
		pool.Close()
		return stores{}, err
	}
	return stores{
		products:  product.NewPGRepo(pool),
		users:     user.NewPGRepo(pool),
		admins:    admin.NewPGRepo(pool),
		carts:     cart.NewPGRepo(pool),
		orders:    order.NewPGRepo(pool),
		enquiries: enquiry.NewPGRepo(pool),
		probe:     pool.Ping,
		close:     pool.Close,
	}, nil
}

func newLocker(ctx context.Context, cfg *config.Config) (order.Locker, func(), error) {
	if cfg.LockDriver != config.LockDriverRedis {
		return order.NewMemoryLocker(), func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return order.NewRedisLocker(rdb, cfg.LockTTL), func() { _ = rdb.Close() }, nil
}

func newPublisher(cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	switch cfg.EventsDriver {
	case config.EventsDriverKafka:
		return events.NewKafkaPublisher(cfg.KafkaBrokers), nil
	case config.EventsDriverAMQP:
		return events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	case config.EventsDriverLog:
		return events.NewLogPublisher(logger), nil
	default:
		return events.Nop{}, nil
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Service configuration",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Port),
		zap.String("grpc_addr", cfg.GRPCAddr),
		zap.String("store", cfg.StoreDriver),
		zap.String("lock", cfg.LockDriver),
		zap.String("events", cfg.EventsDriver))

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	locker, closeLocker, err := newLocker(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLocker()

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("publisher close", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := newApp(st, locker, publisher, settings{
		jwtSecret:        cfg.JWTSecret,
		adminSecret:      cfg.AdminSecret,
		tokenExpiry:      cfg.TokenExpiry,
		adminTokenExpiry: cfg.AdminTokenExpiry,
		bcryptCost:       cfg.BcryptRounds,
	}, reg, logger)
	if err != nil {
		return err
	}
	if err := a.seed(ctx); err != nil {
		return err
	}

	router := newRouter(a, st.probe, httpx.NewServerMetrics(reg, "api"), logger)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	health := grpcx.NewServer(st.probe, 10*time.Second, logger)
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}

	var wg sync.WaitGroup
	errc := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		logger.Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		defer wg.Done()
		logger.Info("Starting gRPC health server", zap.String("addr", cfg.GRPCAddr))
		if err := health.Serve(ctx, lis); err != nil {
			errc <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errc:
	}

	logger.Info("Shutting down servers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	health.Stop()
	wg.Wait()
	logger.Info("All servers stopped")
	return runErr
}

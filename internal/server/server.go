package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	v1 "github.com/emrgen/docversion/apis/v1"
	"github.com/emrgen/docversion/internal/config"
	"github.com/emrgen/docversion/internal/diff"
	"github.com/emrgen/docversion/internal/events"
	"github.com/emrgen/docversion/internal/jobs"
	"github.com/emrgen/docversion/internal/metrics"
	"github.com/emrgen/docversion/internal/service"
	"github.com/emrgen/docversion/internal/store"
	grpcmiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcvalidator "github.com/grpc-ecosystem/go-grpc-middleware/validator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Server represents the server
type Server struct {
	cfg *config.Config
}

// NewServer creates a new server
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Start starts the server
func (s *Server) Start() {
	if err := Start(s.cfg); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// App holds the components wired from a configuration.
type App struct {
	Store     store.Store
	Service   *service.ComparisonService
	Metrics   *metrics.Metrics
	Registry  *prometheus.Registry
	Publisher events.Publisher
	Executor  *jobs.TaskExecutor
}

// NewApp opens the database and wires the services.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := config.GetDb(cfg)
	if err != nil {
		return nil, err
	}

	codec, err := cfg.Codec()
	if err != nil {
		return nil, err
	}

	docStore := store.NewGormStore(db, codec)
	if err = docStore.Migrate(); err != nil {
		return nil, err
	}

	publisher, err := cfg.Publisher()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	versions := service.NewVersionService(docStore,
		service.WithCache(cfg.VersionCache()),
		service.WithPublisher(publisher),
		service.WithMetrics(m),
	)
	svc := service.NewComparisonService(
		versions,
		service.NewTagService(versions),
		service.NewRestoreService(versions, cfg.Versioning.CloneOnRestore),
		diff.NewEngine(),
		cfg.Policy(),
	)

	executor := jobs.NewTaskExecutor(jobs.NewInvariantCheckTask(cfg.Jobs.InvariantCheck, docStore, m))

	return &App{
		Store:     docStore,
		Service:   svc,
		Metrics:   m,
		Registry:  registry,
		Publisher: publisher,
		Executor:  executor,
	}, nil
}

// NewGrpcServer creates the grpc server with the version service registered.
func NewGrpcServer(svc *service.ComparisonService, m *metrics.Metrics) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcmiddleware.ChainUnaryServer(
			UnaryRecoveryInterceptor(),
			// log and time the request
			UnaryGrpcRequestTimeInterceptor(m),
			// inject the actor and check the role against the method
			UnaryActorInterceptor(),
			grpcvalidator.UnaryServerInterceptor(),
		)),
	)
	v1.RegisterVersionServiceServer(grpcServer, NewVersionAPI(svc))

	return grpcServer
}

// NewHTTPHandler serves the REST gateway, metrics and health endpoints.
func NewHTTPHandler(client v1.VersionServiceClient, gatherer prometheus.Gatherer) (http.Handler, error) {
	gateway, err := NewGateway(client)
	if err != nil {
		return nil, err
	}

	apiMux := http.NewServeMux()
	apiMux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	apiMux.HandleFunc("GET /healthz", healthz)
	apiMux.Handle("/", gateway)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // All origins are allowed
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type", ActorIDHeader, ActorRoleHeader},
		AllowCredentials: true,
	})

	return c.Handler(apiMux), nil
}

// Start starts the grpc and http servers
func Start(cfg *config.Config) error {
	grpcPort := ":" + cfg.Server.GrpcPort
	httpPort := ":" + cfg.Server.HttpPort

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Publisher.Close(); err != nil {
			logrus.Errorf("error closing publisher: %v", err)
		}
	}()

	gl, err := net.Listen("tcp", grpcPort)
	if err != nil {
		return err
	}

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	grpcServer := NewGrpcServer(app.Service, app.Metrics)

	// connect the rest gateway to the grpc server
	conn, err := grpc.NewClient("localhost"+grpcPort,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(UnaryRequestTimeInterceptor()),
	)
	if err != nil {
		return fmt.Errorf("failed to connect rest gateway: %w", err)
	}
	defer conn.Close()

	handler, err := NewHTTPHandler(v1.NewVersionServiceClient(conn), app.Registry)
	if err != nil {
		return err
	}

	restServer := &http.Server{
		Addr:              httpPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err = app.Executor.Start(); err != nil {
		return err
	}
	defer app.Executor.Stop()

	// make sure to wait for the servers to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting rest gateway on: ", httpPort)
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting rest gateway: %v", err)
			}
		}
		logrus.Infof("rest gateway stopped")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting grpc server on: ", grpcPort)
		if err := grpcServer.Serve(gl); err != nil {
			logrus.Infof("grpc failed to start: %v", err)
		}
		logrus.Infof("grpc server stopped")
	}()

	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	grpcServer.GracefulStop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = restServer.Shutdown(ctx); err != nil {
		logrus.Errorf("error stopping rest gateway: %v", err)
	}

	wg.Wait()

	return nil
}

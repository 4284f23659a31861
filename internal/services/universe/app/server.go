package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/net/netutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	platformgrpc "github.com/louisbranch/tickverse/internal/platform/grpc"
	"github.com/louisbranch/tickverse/internal/services/universe/api/grpc/interceptors"
	grpcmeta "github.com/louisbranch/tickverse/internal/services/universe/api/grpc/metadata"
	universegrpc "github.com/louisbranch/tickverse/internal/services/universe/api/grpc/universe"
	"github.com/louisbranch/tickverse/internal/services/universe/domain/counter"
	"github.com/louisbranch/tickverse/internal/services/universe/domain/engine"
	"github.com/louisbranch/tickverse/internal/services/universe/events"
	"github.com/louisbranch/tickverse/internal/services/universe/storage"
	storagesqlite "github.com/louisbranch/tickverse/internal/services/universe/storage/sqlite"
)

const (
	// StorageSQLite keeps universes in a SQLite file.
	StorageSQLite = "sqlite"
	// StorageMemory keeps universes in process memory.
	StorageMemory = "memory"

	httpShutdownTimeout = 5 * time.Second
	defaultMaxWatchers  = 256
)

// Options configures a Server.
type Options struct {
	// GRPCAddr is the gRPC listen address, e.g. ":8090".
	GRPCAddr string
	// HTTPAddr is the websocket event stream listen address. Empty disables it.
	HTTPAddr string
	// Storage selects the backend: StorageSQLite or StorageMemory.
	Storage string
	// DBPath is the SQLite file used by StorageSQLite.
	DBPath string
	// MaxWatchers caps concurrent event stream connections; zero uses 256.
	MaxWatchers int
	// Logger receives event and audit lines; nil uses the standard logger.
	Logger *log.Logger
}

// Server hosts the universe gRPC API and the event stream.
type Server struct {
	listener     net.Listener
	httpListener net.Listener
	grpcServer   *grpc.Server
	httpServer   *http.Server
	health       *health.Server
	hub          *events.Hub
	store        storage.Store
}

// New opens storage and listeners and registers every service.
func New(ctx context.Context, opts Options) (*Server, error) {
	store, err := openStore(ctx, opts)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", opts.GRPCAddr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", opts.GRPCAddr, err)
	}
	var httpListener net.Listener
	if opts.HTTPAddr != "" {
		httpListener, err = net.Listen("tcp", opts.HTTPAddr)
		if err != nil {
			_ = listener.Close()
			_ = store.Close()
			return nil, fmt.Errorf("listen on %s: %w", opts.HTTPAddr, err)
		}
		maxWatchers := opts.MaxWatchers
		if maxWatchers <= 0 {
			maxWatchers = defaultMaxWatchers
		}
		httpListener = netutil.LimitListener(httpListener, maxWatchers)
	}

	hub := events.NewHub()
	sink := events.NewJournal(store, events.Fanout{
		events.LogSink{Logger: opts.Logger},
		hub,
	})
	eng := engine.New(store, sink, engine.WithLocker(engine.NewKeyedLocker()))
	counterService := counter.NewService(store, sink)

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcmeta.UnaryServerInterceptor(nil),
			interceptors.AuditInterceptor(opts.Logger),
			interceptors.ErrorInterceptor(),
		),
	)
	universegrpc.RegisterUniverseServer(grpcServer, universegrpc.NewUniverseService(eng, store))
	universegrpc.RegisterCounterServer(grpcServer, universegrpc.NewCounterService(counterService))
	healthServer := platformgrpc.NewHealthServer(grpcServer,
		universegrpc.UniverseServiceName,
		universegrpc.CounterServiceName,
	)

	mux := http.NewServeMux()
	mux.Handle("/events", hub)

	return &Server{
		listener:     listener,
		httpListener: httpListener,
		grpcServer:   grpcServer,
		httpServer:   &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
		health:       healthServer,
		hub:          hub,
		store:        store,
	}, nil
}

// Addr returns the gRPC listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// HTTPAddr returns the event stream listener address, or "" when disabled.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// Run creates and serves a server until ctx ends.
func Run(ctx context.Context, opts Options) error {
	srv, err := New(ctx, opts)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}

// Serve blocks until ctx ends or a listener fails, then shuts everything
// down and closes storage.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		if err := s.store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go s.hub.Run(hubCtx)

	log.Printf("universe server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 2)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()
	if s.httpListener != nil {
		log.Printf("universe event stream listening at %v", s.httpListener.Addr())
		go func() {
			serveErr <- s.httpServer.Serve(s.httpListener)
		}()
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}
	s.shutdown()
	return handleServeErr(err)
}

func (s *Server) shutdown() {
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.httpListener != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown event stream: %v", err)
		}
	}
	s.grpcServer.GracefulStop()
}

func handleServeErr(err error) error {
	if err == nil || errors.Is(err, grpc.ErrServerStopped) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("serve: %w", err)
}

func openStore(ctx context.Context, opts Options) (storage.Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Storage)) {
	case StorageMemory:
		return storage.NewMemory(), nil
	case "", StorageSQLite:
		path := strings.TrimSpace(opts.DBPath)
		if path == "" {
			path = filepath.Join("data", "universe.db")
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create storage dir: %w", err)
			}
		}
		store, err := storagesqlite.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", opts.Storage)
	}
}

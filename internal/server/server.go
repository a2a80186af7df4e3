// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/smartflowpark/hub/api"
	"github.com/smartflowpark/hub/internal/auth"
	"github.com/smartflowpark/hub/internal/config"
	"github.com/smartflowpark/hub/internal/database"
	"github.com/smartflowpark/hub/internal/events"
	"github.com/smartflowpark/hub/internal/hubservice"
	"github.com/smartflowpark/hub/internal/models"
	"github.com/smartflowpark/hub/internal/monitoring"
	"github.com/smartflowpark/hub/internal/registry"
	"github.com/smartflowpark/hub/internal/repository"
	"github.com/smartflowpark/hub/internal/repository/memory"
	"github.com/smartflowpark/hub/internal/repository/postgres"
	"github.com/smartflowpark/hub/internal/timeutil"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	hubservice *hubservice.HubService
	monitoring *monitoring.Service
	db         database.DB
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
	}
}

// Start wires the service graph and begins listening for requests
func (s *Server) Start() error {
	s.hubservice = s.initializeHubService()
	s.monitoring = monitoring.NewService()

	if err := s.hubservice.Validate(); err != nil {
		return err
	}

	s.setupEventHandlers()

	if err := s.seedDefaultMonitor(); err != nil {
		return err
	}

	router := api.NewRouter(s.hubservice, s.monitoring)

	handler := ghandlers.RecoveryHandler(
		ghandlers.PrintRecoveryStack(true),
	)(router)
	handler = ghandlers.CORS(
		ghandlers.AllowedOrigins([]string{"*"}),
		ghandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE"}),
		ghandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(handler)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:      handler,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	if err := s.hubservice.Publisher.Close(); err != nil {
		nuts.L.Errorf("[Server] Error closing publisher: %v", err)
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			nuts.L.Errorf("[Server] Error closing database: %v", err)
		}
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) setupEventHandlers() {
	s.hubservice.Registry.On(registry.EventAnnounced, func(id string) {
		s.monitoring.RecordEvent("unit_announced", map[string]string{
			"client_id": id,
		})
	})

	s.hubservice.Registry.On(registry.EventResetRequested, func(id string) {
		nuts.L.Infof("[Server] Counter reset pending for unit %s", id)
		s.monitoring.RecordEvent("reset_requested", map[string]string{
			"client_id": id,
		})
	})
}

// seedDefaultMonitor provisions one monitor with random credentials when the
// directory is empty, so a fresh install has a unit identity to hand to the
// first camera.
func (s *Server) seedDefaultMonitor() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	existing, err := s.hubservice.Monitors.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing monitors: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	monitor := &models.Monitor{
		Name:     nuts.NID("cam", 8),
		Key:      nuts.NID("key", 16),
		Location: "default",
	}
	if err := s.hubservice.CreateMonitor(ctx, monitor); err != nil {
		return fmt.Errorf("error seeding default monitor: %w", err)
	}

	nuts.L.Infof("[Server] Seeded default monitor name=%s key=%s", monitor.Name, monitor.Key)
	return nil
}

// initializeHubService creates and configures the hub service. Without a
// configured database host the directory runs in memory, which is enough for
// a single-node standalone deployment.
func (s *Server) initializeHubService() *hubservice.HubService {
	var (
		monitors repository.MonitorRepository
		zoneRepo repository.ZoneRepository
		accounts repository.AccountRepository
	)

	if s.config.Database.Host != "" {
		db := s.initDirectoryDB()
		s.db = db
		monitors = postgres.NewMonitorRepository(db)
		zoneRepo = postgres.NewZoneRepository(db)
		accounts = postgres.NewAccountRepository(db)
	} else {
		nuts.L.Infof("[Server] No database host configured, using in-memory directory")
		monitors = memory.NewMonitorRepository()
		zoneRepo = memory.NewZoneRepository()
		accounts = memory.NewAccountRepository()
	}

	clock := timeutil.RealClock{}
	reg := registry.New(monitors, clock, s.config.Registry.StalenessThreshold)
	authority := auth.NewAuthority(accounts, clock, s.config.Auth.TokenTTL)

	var publisher events.Publisher
	if s.config.Redis.Enabled {
		addr := fmt.Sprintf("%s:%d", s.config.Redis.Host, s.config.Redis.Port)
		p, err := events.NewRedisPublisher(addr, s.config.Redis.Password, s.config.Redis.DB, s.config.Redis.Channel)
		if err != nil {
			nuts.L.Fatalf("[Server] Failed to connect to Redis: %v", err)
		}
		publisher = p
	}

	return hubservice.New(monitors, zoneRepo, accounts, reg, authority, publisher)
}

func (s *Server) initDirectoryDB() database.DB {
	db, err := database.NewPostgresDB(database.Config{
		Host:     s.config.Database.Host,
		Port:     s.config.Database.Port,
		User:     s.config.Database.User,
		Password: s.config.Database.Password,
		DBName:   s.config.Database.DBName,
		SSLMode:  s.config.Database.SSLMode,
	})
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to directory database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping directory database: %v", err)
	}
	return db
}

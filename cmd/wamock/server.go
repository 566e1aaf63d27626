package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"wamock/internal/constants"
	"wamock/internal/mediastore"
	"wamock/internal/middleware"
	"wamock/internal/models"
	"wamock/internal/service"
	"wamock/internal/webhook"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Server wires the route table to the engine: message router, media store
// and webhook dispatcher, behind the ordered validation middlewares.
type Server struct {
	cfg        *models.Config
	router     *mux.Router
	logger     *logrus.Logger
	msgService *service.MessageService
	store      *mediastore.Store
	dispatcher *webhook.Dispatcher
	server     *http.Server
	listener   net.Listener
}

func NewServer(cfg *models.Config, msgService *service.MessageService, store *mediastore.Store, dispatcher *webhook.Dispatcher, logger *logrus.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		router:     mux.NewRouter(),
		logger:     logger,
		msgService: msgService,
		store:      store,
		dispatcher: dispatcher,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(
		middleware.Recovery(s.logger),
		middleware.Observability(s.logger),
		middleware.ResponseDelay(s.cfg.ResponseDelayMs),
	)

	// Debug surface: the test harness talking to the emulator directly.
	// Registered first and unauthenticated by design; these routes are not
	// part of the vendor wire protocol.
	debug := s.router.PathPrefix("/debug").Subrouter()
	debug.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	debug.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)
	debug.HandleFunc("/media/list", s.handleMediaList()).Methods(http.MethodGet)
	debug.HandleFunc("/media/expire/all", s.handleMediaExpireAll()).Methods(http.MethodPost)
	debug.HandleFunc("/media/expire/{id}", s.handleMediaExpireOne()).Methods(http.MethodPost)
	debug.HandleFunc("/simulate-incoming", s.handleSimulateIncoming()).Methods(http.MethodPost)
	debug.HandleFunc("/messages/send-interactive", s.handleSendInteractive()).Methods(http.MethodPost)

	// Vendor wire surface: version check always runs before the
	// phone-identity check.
	api := s.router.PathPrefix("/{version}/{phoneNumberId}").Subrouter()
	api.Use(
		middleware.VersionCheck(s.logger),
		middleware.PhoneIDCheck(s.cfg.PhoneNumberID, s.logger),
	)
	api.HandleFunc("/messages", s.handleSendMessage()).Methods(http.MethodPost)
	api.HandleFunc("/media", s.handleUploadMedia()).Methods(http.MethodPost)
}

// Router exposes the handler tree for in-process tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start binds the listener and performs the manifest import if configured.
// It returns once the server is accepting connections; serving continues in
// the background until Stop.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}
	s.listener = listener

	if dir := s.cfg.Persistence.ImportPath; dir != "" {
		loaded, discarded, err := s.store.Import(dir)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to import media manifest")
		} else {
			s.logger.WithFields(logrus.Fields{
				"loaded":       loaded,
				"auto_cleaned": discarded,
			}).Info("Media manifest imported")
		}
	}

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  constants.DefaultServerReadTimeoutSec * time.Second,
		WriteTimeout: constants.DefaultServerWriteTimeoutSec * time.Second,
		IdleTimeout:  constants.DefaultServerIdleTimeoutSec * time.Second,
	}

	s.logger.WithField("addr", listener.Addr().String()).Info("Emulator listening")
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("HTTP server stopped unexpectedly")
		}
	}()

	return nil
}

// Addr returns the bound listener address; valid after Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop closes the listener, drains in-flight webhook deliveries, and
// performs the manifest export if configured. It returns only after the
// socket is closed and any manifest write completed.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server gracefully: %w", err)
		}
	}

	s.dispatcher.Wait()

	if s.cfg.Persistence.ExportOnExit {
		dir := s.cfg.Persistence.ExportPath
		if dir == "" {
			dir = s.cfg.Persistence.ImportPath
		}
		if dir != "" {
			if err := s.store.Export(dir); err != nil {
				return fmt.Errorf("failed to export media manifest: %w", err)
			}
			s.logger.WithField("dir", dir).Info("Media manifest exported")
		}
	}

	return nil
}

package server

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// shutdownTimeout bounds the time in-flight requests get after a stop signal
const shutdownTimeout = 10 * time.Second

// Server defines fields used in HTTP processing
type Server struct {
	logger        *zap.SugaredLogger
	httpServer    *http.Server
	h             *handler
	afterShutdown []func()
}

// NewServer returns new Server struct with provided zap.SugaredLogger and store
func NewServer(logger *zap.SugaredLogger, store chatStore, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("server: nil store")
	}

	h := &handler{
		logger: logger,
		store:  store,
	}

	cfg := &config{
		httpServer: &http.Server{
			Addr: EnvConfig{Host: "127.0.0.1", Port: 8080}.Addr(),
		},
		handlers: map[string]http.Handler{
			"/users/add":      enforcePOSTJSON(http.HandlerFunc(h.createUser)),
			"/chats/add":      enforcePOSTJSON(http.HandlerFunc(h.createChat)),
			"/chats/get":      enforcePOSTJSON(http.HandlerFunc(h.chat)),
			"/messages/add":   enforcePOSTJSON(http.HandlerFunc(h.createMessage)),
			"/messages/state": enforcePOSTJSON(http.HandlerFunc(h.messageState)),
			"/schema":         enforceGET(http.HandlerFunc(h.schemas)),
		},
		status: DefaultStatusText(),
	}

	for _, opt := range opts {
		opt.apply(cfg)
	}
	applyLog(logger.Desugar()).apply(cfg)
	registerHandlers().apply(cfg)

	h.status = cfg.status

	return &Server{
		logger:        logger,
		httpServer:    cfg.httpServer,
		h:             h,
		afterShutdown: cfg.afterShutdown,
	}, nil
}

// Handler returns root http.Handler with every endpoint and middleware registered
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns address the server listens on
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start calls ListenAndServe on http.Server instance inside Server struct
// and implements graceful shutdown via goroutine waiting for SIGINT or SIGTERM
func (s *Server) Start() error {
	idleConnsClosed := make(chan struct{})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		s.logger.Info("Shutting down HTTP server")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Errorf("srv.Shutdown: %v", err)
		}
		s.logger.Info("HTTP server is stopped")

		close(idleConnsClosed)
	}()

	s.logger.Infof("Starting HTTP server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("s.httpServer.ListenAndServe: %v", err)
	}

	<-idleConnsClosed

	for _, f := range s.afterShutdown {
		f()
	}

	s.logger.Info("Closing store")
	s.h.store.Close()
	s.logger.Info("Store is closed")

	return nil
}

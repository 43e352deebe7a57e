package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/voterlist/pkg/config"
	"github.com/doodlesbykumbi/voterlist/pkg/server/middleware"
	"github.com/doodlesbykumbi/voterlist/pkg/store"
	"github.com/doodlesbykumbi/voterlist/pkg/token"
	"github.com/doodlesbykumbi/voterlist/pkg/voterlist"
)

type Server struct {
	Registry      *voterlist.VoterList
	HealthStore   store.HealthStore
	Config        *config.Config
	Router        *mux.Router
	JWTMiddleware *middleware.JWTAuthenticator
	RateLimiter   *middleware.RateLimiter
	srv           *http.Server
}

func NewServer(
	registry *voterlist.VoterList,
	verifier *token.Verifier,
	cfg *config.Config,
	host string,
	port string,
) *Server {
	router := mux.NewRouter().UseEncodedPath()
	limiter := middleware.NewRateLimiter(cfg, nil)
	router.Use(limiter.Middleware)

	srv := &http.Server{
		Handler:      handlers.LoggingHandler(os.Stdout, router),
		Addr:         host + ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	s := &Server{
		Registry:      registry,
		Config:        cfg,
		Router:        router,
		JWTMiddleware: middleware.NewJWTAuthenticator(verifier, cfg),
		RateLimiter:   limiter,
		srv:           srv,
	}
	if hs, ok := registry.Store().(store.HealthStore); ok {
		s.HealthStore = hs
	}
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

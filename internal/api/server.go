// Package api serves the calculator over local HTTP and WebSocket.
package api

import (
	"bufio"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/udisondev/ragecalc/internal/db"
	"github.com/udisondev/ragecalc/internal/session"
)

// Server routes API requests to the session manager.
type Server struct {
	sessions *session.Manager
	store    db.Store
	router   *mux.Router
	upgrader websocket.Upgrader
}

// NewServer builds the router.
func NewServer(sessions *session.Manager, store db.Store) *Server {
	s := &Server{
		sessions: sessions,
		store:    store,
		router:   mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Local tool; the front-end may be served from another port.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.Use(logRequests)

	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	api.HandleFunc("/catalog/cards", s.handleCatalogCards).Methods(http.MethodGet)
	api.HandleFunc("/catalog/runes", s.handleCatalogRunes).Methods(http.MethodGet)

	api.HandleFunc("/team", s.handleGetTeam).Methods(http.MethodGet)
	api.HandleFunc("/team", s.handlePutTeam).Methods(http.MethodPut)
	api.HandleFunc("/team/reset", s.handleResetTeam).Methods(http.MethodPost)

	api.HandleFunc("/settings", s.handleGetSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.handlePutSettings).Methods(http.MethodPut)

	api.HandleFunc("/store/{key}", s.handleStoreGet).Methods(http.MethodGet)
	api.HandleFunc("/store/{key}", s.handleStoreHas).Methods(http.MethodHead)
	api.HandleFunc("/store/{key}", s.handleStorePut).Methods(http.MethodPut)
	api.HandleFunc("/store/{key}", s.handleStoreDelete).Methods(http.MethodDelete)

	axie := api.PathPrefix("/axies/{position}").Subrouter()
	axie.HandleFunc("", s.handlePatchAxie).Methods(http.MethodPatch)
	axie.HandleFunc("/cards/{slot}", s.handlePutCard).Methods(http.MethodPut)
	axie.HandleFunc("/cards/{slot}/evolve", s.handleEvolve).Methods(http.MethodPost)
	axie.HandleFunc("/rune", s.handlePutRune).Methods(http.MethodPut)
	axie.HandleFunc("/rune", s.handleDeleteRune).Methods(http.MethodDelete)
	axie.HandleFunc("/turn/reset", s.handleResetTurn).Methods(http.MethodPost)
	axie.HandleFunc("/pure-damage", s.handlePureDamage).Methods(http.MethodPost)

	api.HandleFunc("/damage-config", s.handleGetDamageConfig).Methods(http.MethodGet)
	api.HandleFunc("/damage-config", s.handlePutDamageConfig).Methods(http.MethodPut)

	api.HandleFunc("/damage", s.handleDamageTable).Methods(http.MethodGet)
	api.HandleFunc("/damage/{position}/{slot}", s.handleDamage).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack is needed by the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return http.NewResponseController(r.ResponseWriter).Hijack()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

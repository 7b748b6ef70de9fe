package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/udisondev/ragecalc/internal/db"
)

// Raw key/value access. Writes to the well-known keys reload the session so
// the live state follows the store.

func storeKey(r *http.Request) string {
	return mux.Vars(r)["key"]
}

func (s *Server) reloadIfKnown(ctx context.Context, key string) {
	switch key {
	case db.KeyTeam, db.KeySettings, db.KeyDamageConfig:
		s.sessions.Load(ctx)
	}
}

func (s *Server) handleStoreGet(w http.ResponseWriter, r *http.Request) {
	key := storeKey(r)
	var v any
	ok, err := db.GetValue(r.Context(), s.store, key, &v)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no value for key "+key)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleStoreHas(w http.ResponseWriter, r *http.Request) {
	ok, err := s.store.Has(r.Context(), storeKey(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStorePut(w http.ResponseWriter, r *http.Request) {
	key := storeKey(r)
	var v any
	if err := decodeBody(r, &v); err != nil {
		writeErr(w, err)
		return
	}
	if err := db.SetValue(r.Context(), s.store, key, v); err != nil {
		writeErr(w, err)
		return
	}
	s.reloadIfKnown(r.Context(), key)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStoreDelete(w http.ResponseWriter, r *http.Request) {
	key := storeKey(r)
	if err := s.store.Delete(r.Context(), key); err != nil {
		writeErr(w, err)
		return
	}
	s.reloadIfKnown(r.Context(), key)
	w.WriteHeader(http.StatusNoContent)
}

package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"filterdsl"
	"filterdsl/sqlstore"
)

type Server struct {
	cfg     Config
	store   *sqlstore.Store
	backend *filterdsl.Backend
}

// RunServer serves filtered and sorted rows of the configured table.
func RunServer(cfg Config) error {
	db, err := sqlx.Connect("sqlite", cfg.Database)
	if err != nil {
		return err
	}

	s := &Server{
		cfg:   cfg,
		store: sqlstore.New(db),
		backend: &filterdsl.Backend{
			FilterParam: cfg.FilterParam,
			SortParam:   cfg.SortParam,
			Casts:       filterdsl.DefaultCasts(),
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/records", s.withAuth(s.handleRecords))

	log.Printf("Serving table %s from %s on %s", cfg.Table, cfg.Database, cfg.ListenAddr)
	return http.ListenAndServe(cfg.ListenAddr, mux)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	log.Printf("Received %s request for %s", r.Method, r.URL.Path)

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	fields, err := s.store.TableFields(s.cfg.Table)
	if err != nil {
		log.Printf("Error reading table fields: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	query, err := s.backend.CompileRequest(fields, r)
	if err != nil {
		log.Printf("Rejected query %q: %v", r.URL.RawQuery, err)
		filterdsl.WriteError(w, err)
		return
	}

	rows, err := s.store.Select(r.Context(), s.cfg.Table, query)
	if err != nil {
		log.Printf("Error selecting rows: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Results []map[string]interface{} `json:"results"`
		Count   int                      `json:"count"`
	}{
		Results: rows,
		Count:   len(rows),
	})
}

// withAuth requires a valid HS256 bearer token when a JWT key is configured.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	if s.cfg.JWTKey == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			http.Error(w, "Missing bearer token", http.StatusUnauthorized)
			return
		}
		if err := validateToken(tokenString, []byte(s.cfg.JWTKey)); err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func validateToken(tokenString string, secret []byte) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}

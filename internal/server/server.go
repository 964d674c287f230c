// Package server wires the HTTP surface: Huma REST API, Datastar SSE
// routes, and the static viewer pages.
package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/joeblew999/plat-ring/internal/api"
	"github.com/joeblew999/plat-ring/internal/api/live"
	"github.com/joeblew999/plat-ring/internal/db"
	"github.com/joeblew999/plat-ring/internal/humastar"
	"github.com/joeblew999/plat-ring/internal/service"
)

// Config holds the server configuration.
type Config struct {
	Host    string
	Port    string
	DataDir string
	WebDir  string // Path to web/ directory for static files and templates
}

// Server is the ring HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	db       *sql.DB
	services *api.Services
	renderer *humastar.Renderer
}

// New creates a new ring server.
func New(cfg Config) *Server {
	mux := http.NewServeMux()

	// Create Huma API with humago (pure stdlib) adapter
	humaConfig := huma.DefaultConfig("plat-ring API", "1.0.0")
	humaConfig.Info.Description = "Geodesic ring platform API for building ring geometry and driving segment highlight sweeps."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	// Inject auto-generated RFC 8288 Link headers on every response.
	humaConfig.Transformers = append(humaConfig.Transformers, humastar.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	rings := service.NewRingService(cfg.DataDir)
	services := &api.Services{
		Ring:  rings,
		Sweep: service.NewSweepService(rings),
	}

	// Initialize template renderer for live SSE handlers
	var renderer *humastar.Renderer
	if cfg.WebDir != "" {
		fragmentsDir := filepath.Join(cfg.WebDir, "templates", "fragments")
		if r, err := humastar.NewRenderer(fragmentsDir); err == nil {
			renderer = r
			fmt.Printf("Loaded fragment templates from %s\n", fragmentsDir)
		}
	}

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		services: services,
		renderer: renderer,
	}

	// Initialize DuckDB connection for the archive tables
	conn, err := db.Get(db.Config{
		DataDir: cfg.DataDir,
		DBName:  "ring",
	})
	if err == nil {
		s.db = conn
		services.Ring.AttachDB(conn)
		services.Sweep.AttachDB(conn)
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// OpenAPI returns the generated OpenAPI document for spec export.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Close stops all running sweeps and closes server resources.
func (s *Server) Close() error {
	s.services.Sweep.StopAll()
	return db.Close()
}

func (s *Server) routes() {
	// Huma REST API routes (OpenAPI-documented JSON endpoints)
	handler := api.NewAPIHandler(s.services)
	huma.AutoRegister(s.humaAPI, handler)

	api.NewInfoHandler(s.config.DataDir, s.db != nil).RegisterRoutes(s.humaAPI)
	api.NewDBHandler(s.db).RegisterRoutes(s.humaAPI)

	// Live SSE routes using Huma + Datastar SDK
	if s.renderer != nil {
		ringHandler := live.NewRingHandler(s.services.Ring, s.services.Sweep, s.renderer)
		ringHandler.RegisterRoutes(s.humaAPI)

		eventHandler := live.NewEventHandler(s.services.Ring, s.services.Sweep, s.renderer)
		eventHandler.RegisterRoutes(s.humaAPI)
	}

	// Hypermedia links: generate after all routes are registered.
	humastar.AutoLinks(s.humaAPI)

	// Static files
	if s.config.WebDir != "" {
		staticDir := filepath.Join(s.config.WebDir, "static")
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}

	// Page routes
	s.mux.HandleFunc("/viewer", s.handleViewer)
	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	for _, link := range humastar.RootLinks() {
		w.Header().Add("Link", link)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "plat-ring",
		"status":  "running",
	})
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	templatePath := filepath.Join(s.config.WebDir, "templates", "viewer.html")
	http.ServeFile(w, r, templatePath)
}

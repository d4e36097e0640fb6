package api

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/dgallion1/mdview/internal/config"
	"github.com/dgallion1/mdview/internal/markdown"
	"github.com/dgallion1/mdview/internal/viewer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server is the HTTP front end of the viewer.
type Server struct {
	router   chi.Router
	sessions *viewer.Sessions
	md       *markdown.Renderer
	docs     fs.FS
	log      *slog.Logger
	cfg      *config.Config
}

// NewServer creates and configures the HTTP server. docs is the documents
// tree served under /md/; nil when documents come from a remote host.
func NewServer(sessions *viewer.Sessions, md *markdown.Renderer, docs fs.FS, log *slog.Logger, cfg *config.Config) *Server {
	s := &Server{
		sessions: sessions,
		md:       md,
		docs:     docs,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/styles.css", s.handleStyles)

	r.Get("/", s.handlePage)
	r.Post("/theme", s.handleToggleTheme)
	r.Post("/asides", s.handleToggleAsides)

	// Read-only JSON endpoints, usable from other origins.
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		r.Get("/items.json", s.handleManifest)
		r.Get("/api/view", s.handleView)
	})

	if s.docs != nil {
		r.Handle("/md/*", http.StripPrefix("/md/", http.FileServer(http.FS(publicDocs{fsys: s.docs}))))
	}

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

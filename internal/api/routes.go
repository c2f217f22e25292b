package api

import (
	"context"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"time"
	"venue-guide/internal/backend"
	"venue-guide/internal/db"
	"venue-guide/internal/geo"
	"venue-guide/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Cache buster timestamp (set at startup)
var cacheBuster = strconv.FormatInt(time.Now().Unix(), 10)

// Options wires the router's dependencies. Geocoder, Router and Syncer are
// optional.
type Options struct {
	DB        *db.DB
	Backend   *backend.Client
	Syncer    Syncer
	Geocoder  *geo.Geocoder
	Router    *geo.Router
	Observer  geo.Point
	Logger    *zap.Logger
	StaticDir string
	MapAPIKey string
	// Triggered syncs are cancelled when Context is done
	Context context.Context
}

// NewRouter creates and configures the Chi router
func NewRouter(opts Options) http.Handler {
	h := NewHandlers(opts)
	return h.Routes(opts.StaticDir, opts.MapAPIKey)
}

// Routes mounts the handlers on a new router
func (h *Handlers) Routes(staticDir, mapAPIKey string) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(RequestID)
	r.Use(Logger(h.logger))
	r.Use(CORS)
	r.Use(Session)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/venues", h.ListVenues)
		r.Get("/venues/{id}", h.GetVenue)
		r.Get("/venues/{id}/comments", h.ListComments)
		r.Get("/filters/options", h.GetFilterOptions)
		r.Get("/sessions", h.ParseSessions)
		r.Get("/translations", h.GetTranslations)
		r.Post("/auth/login", h.Login)
		r.Get("/sync/status", h.GetSyncStatus)
		r.Post("/sync/trigger", h.TriggerSync)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)

			r.Post("/venues/{id}/comments", h.AddComment)

			r.Get("/favorites", h.ListFavorites)
			r.Post("/favorites/{venueId}", h.AddFavorite)
			r.Delete("/favorites/{venueId}", h.RemoveFavorite)

			r.Get("/events", h.ListEvents)
			r.Post("/events", h.CreateEvent)
			r.Put("/events/{id}", h.UpdateEvent)
			r.Delete("/events/{id}", h.DeleteEvent)

			r.Get("/users", h.ListUsers)
			r.Post("/users", h.CreateUser)
			r.Put("/users/{id}", h.UpdateUser)
			r.Delete("/users/{id}", h.DeleteUser)
		})
	})

	if staticDir == "" {
		return r
	}

	// Serve static files
	fileServer := http.FileServer(http.Dir(staticDir))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Serve index.html for root with cache buster
	tmplPath := filepath.Join(staticDir, "..", "templates", "index.html")
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		tmpl, err := template.ParseFiles(tmplPath)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s := session.FromContext(r.Context())
		w.Header().Set("Content-Type", "text/html")
		tmpl.Execute(w, map[string]string{
			"V":         cacheBuster,
			"MapAPIKey": mapAPIKey,
			"Lang":      string(s.Locale),
		})
	})

	return r
}

package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
	"venue-guide/internal/backend"
	"venue-guide/internal/catalog"
	"venue-guide/internal/db"
	"venue-guide/internal/geo"
	"venue-guide/internal/i18n"
	"venue-guide/internal/models"
	"venue-guide/internal/ranker"
	"venue-guide/internal/session"
	"venue-guide/internal/sessions"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Number of sessions shown before the "more" link on venue detail
const sessionPreview = 3

// Syncer refreshes the venue cache
type Syncer interface {
	Run(ctx context.Context) (catalog.Result, error)
}

// Handlers contains HTTP handlers and their dependencies
type Handlers struct {
	db       *db.DB
	backend  *backend.Client
	syncer   Syncer
	geocoder *geo.Geocoder
	router   *geo.Router
	observer geo.Point
	logger   *zap.Logger

	baseCtx context.Context
	syncMu  sync.Mutex
	syncing bool
	syncWG  sync.WaitGroup
}

// NewHandlers creates a new Handlers instance
func NewHandlers(opts Options) *Handlers {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	observer := opts.Observer
	if !observer.Valid() || observer == (geo.Point{}) {
		observer = geo.Observer
	}
	baseCtx := opts.Context
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Handlers{
		baseCtx:  baseCtx,
		db:       opts.DB,
		backend:  opts.Backend,
		syncer:   opts.Syncer,
		geocoder: opts.Geocoder,
		router:   opts.Router,
		observer: observer,
		logger:   logger,
	}
}

type venueView struct {
	models.Venue
	DisplayName     string `json:"display_name"`
	DisplayDistrict string `json:"display_district,omitempty"`
	EventCount      int    `json:"event_count"`
}

type eventView struct {
	models.Event
	DisplayTitle       string   `json:"display_title"`
	DisplayDate        string   `json:"display_date,omitempty"`
	DisplayDescription string   `json:"display_description,omitempty"`
	DisplayPresenter   string   `json:"display_presenter,omitempty"`
	Sessions           []string `json:"sessions"`
	SessionsPreview    []string `json:"sessions_preview"`
	MoreSessions       int      `json:"more_sessions"`
}

type venueDetail struct {
	venueView
	Events []eventView      `json:"events"`
	Camera geo.CameraTarget `json:"camera"`
	Travel *geo.RouteResult `json:"travel,omitempty"`
}

func newVenueView(v models.Venue, l i18n.Locale) venueView {
	if v.Events == nil {
		v.Events = []models.Event{}
	}
	return venueView{
		Venue:           v,
		DisplayName:     i18n.ResolveLocalizedField(v, "name", l),
		DisplayDistrict: i18n.ResolveLocalizedField(v, "district", l),
		EventCount:      len(v.Events),
	}
}

func newEventView(e models.Event, l i18n.Locale) eventView {
	list := sessions.ForEvent(e, l)
	preview, more := sessions.Preview(list, sessionPreview)
	return eventView{
		Event:              e,
		DisplayTitle:       i18n.ResolveLocalizedField(e, "title", l),
		DisplayDate:        i18n.ResolveLocalizedField(e, "date", l),
		DisplayDescription: i18n.ResolveLocalizedField(e, "description", l),
		DisplayPresenter:   i18n.ResolveLocalizedField(e, "presenter", l),
		Sessions:           list,
		SessionsPreview:    preview,
		MoreSessions:       more,
	}
}

// ListVenues handles GET /api/venues
func (h *Handlers) ListVenues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s := session.FromContext(r.Context())

	filters := ranker.Filters{
		Search:      q.Get("q"),
		MaxDistance: q.Get("max_distance"),
		District:    q.Get("district"),
	}
	state := ranker.ParseSortState(q.Get("sort"), q.Get("dir"))

	venues, err := h.db.ListVenues(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	ranked := ranker.Rank(venues, h.observer, filters, state, s.Locale)
	views := make([]venueView, 0, len(ranked))
	for _, v := range ranked {
		views = append(views, newVenueView(v, s.Locale))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"venues":   views,
		"count":    len(views),
		"observer": h.observer,
		"sort":     state,
	})
}

// GetVenue handles GET /api/venues/{id}
func (h *Handlers) GetVenue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := session.FromContext(ctx)

	v, err := h.db.GetVenue(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	p, located := v.Location()
	if located {
		d := geo.DistanceKm(h.observer, p)
		v.Distance = &d
		if v.Address == "" {
			v.Address = h.lookupAddress(ctx, p, s.Locale)
			// The venue row holds the primary-language address
			if v.Address != "" && s.Locale == i18n.English {
				if err := h.db.SetVenueAddress(ctx, v.ID, v.Address); err != nil {
					h.logger.Warn("failed to store venue address", zap.String("venue", v.ID), zap.Error(err))
				}
			}
		}
	}

	detail := venueDetail{
		venueView: newVenueView(*v, s.Locale),
		Events:    make([]eventView, 0, len(v.Events)),
		Camera:    geo.CameraFor(p, located),
	}
	for _, e := range v.Events {
		detail.Events = append(detail.Events, newEventView(e, s.Locale))
	}

	if located && h.router != nil {
		route, err := h.router.TravelTime(ctx, p)
		if err != nil {
			h.logger.Warn("route lookup failed", zap.String("venue", v.ID), zap.Error(err))
		} else {
			detail.Travel = route
		}
	}

	writeJSON(w, http.StatusOK, detail)
}

// lookupAddress returns the cached street address for p, asking the
// geocoder on a miss. Failures yield "".
func (h *Handlers) lookupAddress(ctx context.Context, p geo.Point, l i18n.Locale) string {
	lang := string(l)
	addr, err := h.db.GetAddress(ctx, p, lang)
	if err == nil {
		return addr
	}
	if h.geocoder == nil {
		return ""
	}

	addr, err = h.geocoder.WithLanguage(lang).ReverseGeocode(ctx, p)
	if err != nil {
		h.logger.Warn("reverse geocoding failed", zap.Float64("lat", p.Lat), zap.Float64("lng", p.Lng), zap.Error(err))
		return ""
	}
	if err := h.db.SaveAddress(ctx, p, lang, addr); err != nil {
		h.logger.Warn("failed to cache address", zap.Error(err))
	}
	return addr
}

type districtOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// GetFilterOptions handles GET /api/filters/options
func (h *Handlers) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())

	districts, err := h.db.ListDistricts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	options := make([]districtOption, 0, len(districts))
	for _, d := range districts {
		options = append(options, districtOption{Value: d, Label: i18n.TranslateLocation(d, s.Locale)})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"districts": options,
		"sort_keys": []ranker.SortKey{ranker.SortName, ranker.SortEventCount, ranker.SortDistance},
	})
}

// ParseSessions handles GET /api/sessions
func (h *Handlers) ParseSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": sessions.Parse(r.URL.Query().Get("text")),
	})
}

// GetTranslations handles GET /api/translations
func (h *Handlers) GetTranslations(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookie,
		Value:    string(s.Locale),
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"locale":   s.Locale,
		"toggle":   s.Locale.Toggle(),
		"messages": i18n.Catalogue(s.Locale),
	})
}

// GetSyncStatus handles GET /api/sync/status
func (h *Handlers) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	h.syncMu.Lock()
	running := h.syncing
	h.syncMu.Unlock()

	resp := map[string]any{"running": running}
	last, err := h.db.LastSync(r.Context())
	switch {
	case err == nil:
		resp["last"] = last
	case !errors.Is(err, db.ErrNotFound):
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// TriggerSync handles POST /api/sync/trigger
func (h *Handlers) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if h.syncer == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "sync is not configured")
		return
	}

	h.syncMu.Lock()
	if h.syncing {
		h.syncMu.Unlock()
		writeJSON(w, http.StatusAccepted, map[string]string{
			"status":  "running",
			"message": "Catalog sync is already running",
		})
		return
	}
	h.syncing = true
	h.syncWG.Add(1)
	h.syncMu.Unlock()

	go func() {
		defer h.syncWG.Done()
		defer func() {
			h.syncMu.Lock()
			h.syncing = false
			h.syncMu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(h.baseCtx, 10*time.Minute)
		defer cancel()
		if _, err := h.syncer.Run(ctx); err != nil {
			h.logger.Error("triggered sync failed", zap.Error(err))
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "queued",
		"message": "Catalog sync has been queued",
	})
}

// Wait blocks until any triggered sync has finished. Cancel the Options
// context first to stop one in progress.
func (h *Handlers) Wait() {
	h.syncWG.Wait()
}

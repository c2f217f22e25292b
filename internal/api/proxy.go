package api

import (
	"net/http"
	"strings"
	"venue-guide/internal/i18n"
	"venue-guide/internal/models"
	"venue-guide/internal/session"

	"github.com/go-chi/chi/v5"
)

// Login handles POST /api/auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeBody(w, r, &creds); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	resp, err := h.backend.Login(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}
	if resp.Username == "" {
		resp.Username = creds.Username
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListComments handles GET /api/venues/{id}/comments
func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.backend.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// AddComment handles POST /api/venues/{id}/comments
func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		writeJSONError(w, http.StatusBadRequest, "comment text is required")
		return
	}

	comment, err := h.backend.AddComment(r.Context(), chi.URLParam(r, "id"), text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// ListFavorites handles GET /api/favorites
func (h *Handlers) ListFavorites(w http.ResponseWriter, r *http.Request) {
	l := session.FromContext(r.Context()).Locale

	venues, err := h.backend.ListFavorites(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]venueView, 0, len(venues))
	for _, v := range venues {
		views = append(views, newVenueView(v, l))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"venues": views,
		"count":  len(views),
	})
}

// AddFavorite handles POST /api/favorites/{venueId}
func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.AddFavorite(r.Context(), chi.URLParam(r, "venueId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFavorite handles DELETE /api/favorites/{venueId}
func (h *Handlers) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.RemoveFavorite(r.Context(), chi.URLParam(r, "venueId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// eventForm is the admin event editor payload. Date and time are the form's
// separate inputs and are combined into an ISO dateTime for the backend.
type eventForm struct {
	Title       string `json:"title"`
	Venue       string `json:"venue"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Presenter   string `json:"presentor"`
	Price       string `json:"price"`
}

func (f eventForm) event() models.Event {
	dateTime := f.Date
	if f.Time != "" {
		dateTime = f.Date + "T" + f.Time + ":00"
	}
	return models.Event{
		Title:       strings.TrimSpace(f.Title),
		Venue:       models.VenueRef{ID: f.Venue},
		DateTime:    dateTime,
		Description: f.Description,
		Presenter:   f.Presenter,
		Price:       f.Price,
	}
}

func (h *Handlers) decodeEventForm(w http.ResponseWriter, r *http.Request) (models.Event, bool) {
	var form eventForm
	if err := decodeBody(w, r, &form); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return models.Event{}, false
	}
	if strings.TrimSpace(form.Title) == "" || form.Venue == "" || form.Date == "" {
		l := session.FromContext(r.Context()).Locale
		writeJSONError(w, http.StatusBadRequest, i18n.T(l, "admin.eventRequired"))
		return models.Event{}, false
	}
	return form.event(), true
}

// ListEvents handles GET /api/events
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.backend.ListEvents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /api/events
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	e, ok := h.decodeEventForm(w, r)
	if !ok {
		return
	}
	created, err := h.backend.CreateEvent(r.Context(), e)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateEvent handles PUT /api/events/{id}
func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	e, ok := h.decodeEventForm(w, r)
	if !ok {
		return
	}
	updated, err := h.backend.UpdateEvent(r.Context(), chi.URLParam(r, "id"), e)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteEvent handles DELETE /api/events/{id}
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUsers handles GET /api/users
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.backend.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func decodeUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	var u models.User
	if err := decodeBody(w, r, &u); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return u, false
	}
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		writeJSONError(w, http.StatusBadRequest, "username is required")
		return u, false
	}
	switch u.Role {
	case "":
		u.Role = models.RoleUser
	case models.RoleUser, models.RoleAdmin:
	default:
		writeJSONError(w, http.StatusBadRequest, "role must be user or admin")
		return u, false
	}
	return u, true
}

// CreateUser handles POST /api/users
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	u, ok := decodeUser(w, r)
	if !ok {
		return
	}
	if u.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "password is required")
		return
	}
	created, err := h.backend.CreateUser(r.Context(), u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateUser handles PUT /api/users/{id}. An empty password keeps the
// existing one.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	u, ok := decodeUser(w, r)
	if !ok {
		return
	}
	updated, err := h.backend.UpdateUser(r.Context(), chi.URLParam(r, "id"), u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteUser handles DELETE /api/users/{id}
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

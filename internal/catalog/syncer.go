// Package catalog refreshes the local venue cache from the backend.
package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"venue-guide/internal/backend"
	"venue-guide/internal/db"
	"venue-guide/internal/geo"
	"venue-guide/internal/models"
)

// Source is the backend catalog
type Source interface {
	ListVenues(ctx context.Context) ([]models.Venue, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
}

// Store persists a synced catalog
type Store interface {
	ReplaceCatalog(ctx context.Context, venues []models.Venue) error
	RecordSync(ctx context.Context, run db.SyncRun) error
}

// Geocoder resolves venue addresses to points
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Point, error)
}

// Config holds syncer configuration
type Config struct {
	// Bearer token for backends that guard the events listing
	Token string
	// Geocode venues that arrive without coordinates
	FillMissing  bool
	GeocodeDelay time.Duration
	// Appended to venue names when building geocoder queries
	Region string
}

// DefaultConfig returns default syncer settings
func DefaultConfig() Config {
	return Config{
		GeocodeDelay: time.Second,
		Region:       "Hong Kong",
	}
}

// Result summarises one sync
type Result struct {
	Venues   int           `json:"venues"`
	Events   int           `json:"events"`
	Geocoded int           `json:"geocoded"`
	Duration time.Duration `json:"duration"`
}

// Syncer pulls venues and events from the backend into the cache
type Syncer struct {
	source Source
	store  Store
	geo    Geocoder
	logger *zap.Logger
	config Config
}

// New creates a Syncer. geocoder may be nil when FillMissing is off.
func New(source Source, store Store, geocoder Geocoder, logger *zap.Logger, config Config) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		source: source,
		store:  store,
		geo:    geocoder,
		logger: logger,
		config: config,
	}
}

// Run executes one sync
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	s.logger.Info("starting catalog sync")
	started := time.Now()

	result, err := s.run(ctx)
	result.Duration = time.Since(started)

	run := db.SyncRun{
		StartedAt:  started.UTC(),
		FinishedAt: time.Now().UTC(),
		Venues:     result.Venues,
		Events:     result.Events,
		Geocoded:   result.Geocoded,
	}
	if err != nil {
		run.Error = err.Error()
	}
	if recErr := s.store.RecordSync(context.WithoutCancel(ctx), run); recErr != nil {
		s.logger.Warn("failed to record sync", zap.Error(recErr))
	}

	if err != nil {
		s.logger.Error("catalog sync failed", zap.Error(err), zap.Duration("duration", result.Duration))
		return result, err
	}

	s.logger.Info("catalog sync complete",
		zap.Int("venues", result.Venues),
		zap.Int("events", result.Events),
		zap.Int("geocoded", result.Geocoded),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (s *Syncer) run(ctx context.Context) (Result, error) {
	var result Result

	fetchCtx := ctx
	if s.config.Token != "" {
		fetchCtx = backend.WithToken(ctx, s.config.Token)
	}

	var venues []models.Venue
	var events []models.Event

	g, gctx := errgroup.WithContext(fetchCtx)
	g.Go(func() error {
		v, err := s.source.ListVenues(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch venues: %w", err)
		}
		venues = v
		return nil
	})
	g.Go(func() error {
		e, err := s.source.ListEvents(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch events: %w", err)
		}
		events = e
		return nil
	})
	if err := g.Wait(); err != nil {
		return result, err
	}

	s.logger.Debug("fetched catalog", zap.Int("venues", len(venues)), zap.Int("events", len(events)))

	venues = Merge(venues, events)

	if s.config.FillMissing && s.geo != nil {
		geocoded, err := s.fillMissing(ctx, venues)
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if err != nil {
			for _, e := range multierr.Errors(err) {
				s.logger.Warn("geocoding failed", zap.Error(e))
			}
		}
		result.Geocoded = geocoded
	}

	if err := s.store.ReplaceCatalog(ctx, venues); err != nil {
		return result, fmt.Errorf("failed to save catalog: %w", err)
	}

	result.Venues = len(venues)
	for _, v := range venues {
		result.Events += len(v.Events)
	}
	return result, nil
}

// Merge attaches each event to the venue it references, skipping events the
// venue already embeds. Embedded events that are bare id references are
// filled in from events and dropped when events has no match. An event
// without an id is matched on its title and schedule, then given an id
// derived from its venue and position. Events pointing at unknown venues are
// dropped.
func Merge(venues []models.Venue, events []models.Event) []models.Venue {
	index := make(map[string]int, len(venues))
	seen := make(map[string]map[string]int, len(venues))

	out := make([]models.Venue, 0, len(venues))
	for _, v := range venues {
		if v.ID == "" {
			continue
		}
		if _, dup := index[v.ID]; dup {
			continue
		}
		v.Events = append([]models.Event(nil), v.Events...)
		seen[v.ID] = make(map[string]int, len(v.Events))
		for i := range v.Events {
			e := &v.Events[i]
			e.Venue.ID = v.ID
			if k := contentKey(*e); k != "" {
				seen[v.ID][k] = i
			}
			if e.ID == "" {
				e.ID = syntheticID(v.ID, i)
			}
			seen[v.ID][e.ID] = i
		}
		index[v.ID] = len(out)
		out = append(out, v)
	}

	for _, e := range events {
		i, ok := index[e.Venue.ID]
		if !ok {
			continue
		}
		v := &out[i]
		key := e.ID
		if key == "" {
			key = contentKey(e)
		}
		if j, dup := seen[v.ID][key]; dup {
			if isReference(v.Events[j]) {
				e.ID = v.Events[j].ID
				v.Events[j] = e
			}
			continue
		}
		if e.ID == "" {
			e.ID = syntheticID(v.ID, len(v.Events))
		}
		if k := contentKey(e); k != "" {
			seen[v.ID][k] = len(v.Events)
		}
		seen[v.ID][e.ID] = len(v.Events)
		v.Events = append(v.Events, e)
	}

	for i := range out {
		kept := make([]models.Event, 0, len(out[i].Events))
		for _, e := range out[i].Events {
			if !isReference(e) {
				kept = append(kept, e)
			}
		}
		out[i].Events = kept
	}
	return out
}

func syntheticID(venueID string, i int) string {
	return venueID + "-" + strconv.Itoa(i)
}

// contentKey identifies an event by what it says rather than its id
func contentKey(e models.Event) string {
	if e.Title == "" {
		return ""
	}
	return "\x00" + e.Title + "\x00" + e.DateTime + "\x00" + e.Date
}

// isReference reports whether e carries nothing but its ids
func isReference(e models.Event) bool {
	return e == models.Event{ID: e.ID, Venue: e.Venue}
}

func (s *Syncer) fillMissing(ctx context.Context, venues []models.Venue) (int, error) {
	var errs error
	geocoded := 0

	for i := range venues {
		if _, ok := venues[i].Location(); ok {
			continue
		}
		addr := s.query(&venues[i])
		if addr == "" {
			continue
		}

		p, err := s.geo.Geocode(ctx, addr)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("venue %s: %w", venues[i].ID, err))
		} else {
			venues[i].Latitude = models.NewCoordinate(p.Lat)
			venues[i].Longitude = models.NewCoordinate(p.Lng)
			geocoded++
		}

		select {
		case <-ctx.Done():
			return geocoded, multierr.Append(errs, ctx.Err())
		case <-time.After(s.config.GeocodeDelay):
		}
	}

	return geocoded, errs
}

func (s *Syncer) query(v *models.Venue) string {
	var parts []string
	for _, p := range []string{v.Address, v.Name, v.District, s.config.Region} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if v.Address == "" && v.Name == "" {
		return ""
	}
	return strings.Join(parts, ", ")
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"venue-guide/internal/backend"
	"venue-guide/internal/config"
	"venue-guide/internal/db"
	"venue-guide/internal/i18n"
	"venue-guide/internal/logging"
	"venue-guide/internal/models"
	"venue-guide/internal/ranker"
	"venue-guide/internal/session"
	"venue-guide/internal/sessions"
	"venue-guide/internal/snapshot"
)

var configPath *string

func main() {
	// Sub-commands
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	os.Args = os.Args[1:] // Shift args for flag parsing
	configPath = config.RegisterFlags(flag.CommandLine)

	switch cmd {
	case "sessions":
		parseSessions()
	case "rank":
		rankVenues()
	case "login":
		login()
	case "logout":
		logout()
	case "lang":
		setLanguage()
	case "status":
		syncStatus()
	case "snapshot":
		takeSnapshot()
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: tools <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  sessions  Split an event schedule into sessions")
	fmt.Println("  rank      List cached venues filtered and sorted by distance, name or events")
	fmt.Println("  login     Sign in to the backend and store the session")
	fmt.Println("  logout    Clear the stored session")
	fmt.Println("  lang      Show, set (en, zh) or toggle the stored language")
	fmt.Println("  status    Show the last catalog sync")
	fmt.Println("  snapshot  Render the portal or a venue to PNG")
}

type env struct {
	cfg    config.Config
	logger *zap.Logger
	db     *db.DB
}

// setup parses flags, loads config and opens the cache
func setup() *env {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err == nil {
		err = cfg.ApplyFlags(flag.CommandLine)
	}
	if err != nil {
		fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, true)
	if err != nil {
		fatalf("logging: %v", err)
	}

	database, err := db.New(cfg.DBPath)
	if err != nil {
		fatalf("failed to open database: %v", err)
	}

	return &env{cfg: cfg, logger: logger, db: database}
}

func (e *env) close() {
	e.db.Close()
	e.logger.Sync()
}

func (e *env) manager() *session.Manager {
	return session.NewManager(e.db, backend.New(e.cfg.BackendURL))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func parseSessions() {
	text := flag.String("text", "", "Schedule text (or pass it as arguments)")
	flag.Parse()

	schedule := *text
	if schedule == "" {
		schedule = strings.Join(flag.Args(), " ")
	}
	for _, s := range sessions.Parse(schedule) {
		fmt.Println(s)
	}
}

func rankVenues() {
	search := flag.String("q", "", "Search venue names")
	district := flag.String("district", "", "Only this district")
	maxDist := flag.String("max", "", "Maximum distance in km")
	sortKey := flag.String("sort", "", "Sort by name, eventCount or distance")
	dir := flag.String("dir", "asc", "Sort direction (asc, desc)")
	lang := flag.String("lang", "", "Language (default from stored session)")
	e := setup()
	defer e.close()

	ctx := context.Background()
	locale := i18n.ParseLocale(*lang)
	if *lang == "" {
		if s, err := e.manager().Current(ctx); err == nil {
			locale = s.Locale
		}
	}

	venues, err := e.db.ListVenues(ctx)
	if err != nil {
		fatalf("%v", err)
	}

	filters := ranker.Filters{Search: *search, MaxDistance: *maxDist, District: *district}
	ranked := ranker.Rank(venues, e.cfg.Observer, filters, ranker.ParseSortState(*sortKey, *dir), locale)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		i18n.T(locale, "home.headerName"),
		i18n.T(locale, "home.headerEvents"),
		i18n.T(locale, "home.headerDistance"))
	for _, v := range ranked {
		fmt.Fprintf(w, "%s\t%d\t%.2f %s\n",
			i18n.ResolveLocalizedField(v, "name", locale),
			len(v.Events),
			*v.Distance,
			i18n.T(locale, "home.unitKm"))
	}
	w.Flush()
}

func login() {
	username := flag.String("username", "", "Username")
	password := flag.String("password", os.Getenv("VENUE_PASSWORD"), "Password")
	e := setup()
	defer e.close()

	if *username == "" || *password == "" {
		fatalf("username and password are required")
	}

	s, err := e.manager().Login(context.Background(), models.Credentials{Username: *username, Password: *password})
	if err != nil {
		fatalf("login failed: %v", err)
	}
	fmt.Printf("Logged in as %s (%s)\n", s.Username, s.Role)
}

func logout() {
	e := setup()
	defer e.close()

	if err := e.manager().Logout(context.Background()); err != nil {
		fatalf("logout failed: %v", err)
	}
	fmt.Println(i18n.T(i18n.Default, "nav.logout"))
}

func setLanguage() {
	e := setup()
	defer e.close()

	ctx := context.Background()
	m := e.manager()

	var (
		s   session.Session
		err error
	)
	switch arg := flag.Arg(0); arg {
	case "":
		s, err = m.Current(ctx)
	case "toggle":
		s, err = m.ToggleLanguage(ctx)
	default:
		s, err = m.SetLocale(ctx, i18n.ParseLocale(arg))
	}
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Println(s.Locale)
}

func syncStatus() {
	e := setup()
	defer e.close()

	ctx := context.Background()
	count, err := e.db.GetVenueCount(ctx)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Cached venues: %d\n", count)

	run, err := e.db.LastSync(ctx)
	if err != nil {
		fmt.Println("No sync recorded")
		return
	}
	fmt.Printf("Last sync: %s (%s)\n", run.FinishedAt.Local().Format("2006-01-02 15:04:05"), run.FinishedAt.Sub(run.StartedAt))
	fmt.Printf("  venues=%d events=%d geocoded=%d\n", run.Venues, run.Events, run.Geocoded)
	if run.Error != "" {
		fmt.Printf("  error: %s\n", run.Error)
	}
}

func takeSnapshot() {
	baseURL := flag.String("url", "http://localhost:8080", "Portal base URL")
	venueID := flag.String("venue", "", "Venue to open (default: home page)")
	output := flag.String("output", "snapshot.png", "Output file")
	headless := flag.Bool("headless", true, "Run browser in headless mode (set false to see browser)")
	e := setup()
	defer e.close()

	ctx := context.Background()
	s, err := e.manager().Current(ctx)
	if err != nil {
		fatalf("%v", err)
	}

	pageURL, err := snapshot.VenueURL(*baseURL, *venueID, string(s.Locale))
	if err != nil {
		fatalf("%v", err)
	}

	opts := snapshot.DefaultOptions()
	opts.Headless = *headless
	r := snapshot.New(opts)
	if err := r.Start(); err != nil {
		fatalf("failed to start browser: %v", err)
	}
	defer r.Stop()

	e.logger.Info("capturing", zap.String("url", pageURL))
	png, err := r.Capture(ctx, pageURL, s.Token, string(s.Locale))
	if err != nil {
		fatalf("%v", err)
	}

	if err := os.WriteFile(*output, png, 0644); err != nil {
		fatalf("failed to write %s: %v", *output, err)
	}
	e.logger.Info("saved", zap.String("file", *output), zap.Int("bytes", len(png)))
}

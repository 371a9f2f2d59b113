package server

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andeanbio/biomon/pkg/api"
	"github.com/andeanbio/biomon/pkg/storage"
)

//go:embed web
var WebFS embed.FS

// viewState is the data behind every dashboard endpoint. It is replaced
// wholesale by a refresh; handlers only ever read it.
type viewState struct {
	posts      []api.Post
	species    []api.Species
	fetchedAt  time.Time
	generation uint64
}

type Server struct {
	Client   *api.Client
	DB       *storage.DB // optional snapshot cache, may be nil
	Username string
	Password string
	Interval time.Duration
	Log      *logrus.Logger

	mu      sync.RWMutex
	state   viewState
	nextGen uint64
}

func New(client *api.Client, db *storage.DB, user, pass string, interval time.Duration, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{
		Client:   client,
		DB:       db,
		Username: user,
		Password: pass,
		Interval: interval,
		Log:      log,
	}
}

// Start seeds the view from the snapshot cache when one exists, kicks off the
// periodic refresher and serves until the listener fails.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.seedFromSnapshot(ctx)

	go s.refreshLoop(ctx)

	mux := http.NewServeMux()

	// API Group
	mux.HandleFunc("GET /api/metrics", s.basicAuth(s.handleMetrics))
	mux.HandleFunc("GET /api/species-ranking", s.basicAuth(s.handleSpeciesRanking))
	mux.HandleFunc("GET /api/monthly", s.basicAuth(s.handleMonthly))
	mux.HandleFunc("GET /api/top-users", s.basicAuth(s.handleTopUsers))
	mux.HandleFunc("GET /api/recent", s.basicAuth(s.handleRecent))
	mux.HandleFunc("GET /api/posts", s.basicAuth(s.handlePosts))
	mux.HandleFunc("GET /api/charts/monthly.png", s.basicAuth(s.handleMonthlyChart))
	mux.HandleFunc("GET /api/charts/species.png", s.basicAuth(s.handleSpeciesChart))

	// Static Files
	webRoot, err := fs.Sub(WebFS, "web")
	if err != nil {
		return err
	}
	fileServer := http.FileServer(http.FS(webRoot))
	mux.Handle("/", s.basicAuthMiddlewareForStatic(fileServer))

	s.Log.Infof("Starting dashboard server on %s", addr)
	return http.ListenAndServe(addr, mux)
}

// snapshot returns the current view state for handlers.
func (s *Server) snapshot() viewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Server) seedFromSnapshot(ctx context.Context) {
	if s.DB == nil {
		return
	}
	posts, species, err := s.DB.LoadSnapshot(ctx)
	if err != nil {
		s.Log.Warnf("Could not seed view from local snapshot: %v", err)
		return
	}
	stats, err := s.DB.Stats(ctx)
	if err != nil {
		s.Log.Warnf("Could not read snapshot stats: %v", err)
	}

	s.mu.Lock()
	s.state = viewState{posts: posts, species: species, fetchedAt: stats.FetchedAt}
	s.mu.Unlock()

	s.Log.Infof("Seeded view from local snapshot: %d posts, %d species", len(posts), len(species))
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) basicAuthMiddlewareForStatic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

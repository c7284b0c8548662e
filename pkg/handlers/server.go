package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"cafe-site/pkg/config"
	"cafe-site/pkg/logging"
	"cafe-site/pkg/models"
	"cafe-site/pkg/session"
)

// SessionCookie is the cookie holding the visitor session ID
const SessionCookie = "cafe_session"

// SiteSource provides the static page content
type SiteSource interface {
	Site() (models.Site, error)
}

// Server serves the page and the state API
type Server struct {
	cfg      *config.Config
	sites    SiteSource
	sessions *session.Store
	log      *logrus.Entry
	router   chi.Router
	now      func() time.Time
}

// NewServer creates a server with all routes registered
func NewServer(cfg *config.Config, sites SiteSource, sessions *session.Store) *Server {
	s := &Server{
		cfg:      cfg,
		sites:    sites,
		sessions: sessions,
		log:      logging.NewLogger("http"),
		now:      time.Now,
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router
func (s *Server) Router() chi.Router { return s.router }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", s.PageHandler)
	r.Get("/book/{package}", s.BookHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Get("/site", s.FeedHandler)
		r.Get("/state", s.StateHandler)
		r.Post("/commands", s.CommandHandler)
		r.Post("/keys", s.KeyHandler)
	})

	fileServer := http.FileServer(http.Dir(s.cfg.PublicDir))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	return r
}

func requestLogger(log *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start),
				"request_id": middleware.GetReqID(r.Context()),
			}).Info("Request")
		})
	}
}

// visitorSession returns the session named by the request cookie, starting
// a new one and setting the cookie when there is none
func (s *Server) visitorSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	var id string
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		id = cookie.Value
	}

	sess, created, err := s.sessions.GetOrCreate(id, s.sites.Site)
	if err != nil {
		return nil, err
	}
	if created {
		s.log.WithField("session", sess.ID).Debug("Started session")
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		})
	}
	return sess, nil
}

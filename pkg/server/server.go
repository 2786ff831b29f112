// Package server exposes the resolver over HTTP.
//
// Endpoints:
//
//	POST /api/v1/resolve      resolve a coordinate or an inline POM document
//	GET  /api/v1/models/{id}  fetch a previously resolved model by ID
//	GET  /healthz             liveness probe
//
// Each resolve request runs its own Resolver instance (the resolver is
// single-threaded by contract) over the shared downloader, settings, and
// model store. Non-fatal resolution errors are collected per request and
// returned alongside the model, mirroring the error-sink contract of the
// core.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pomtree/pomtree/pkg/cache"
	apperrors "github.com/pomtree/pomtree/pkg/errors"
	"github.com/pomtree/pomtree/pkg/pom"
	"github.com/pomtree/pomtree/pkg/resolve"
	"github.com/pomtree/pomtree/pkg/settings"
	"github.com/pomtree/pomtree/pkg/store"
)

// Server wires the resolver pipeline behind an HTTP API.
type Server struct {
	downloader resolve.Downloader
	sctx       settings.Context
	store      store.Store
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *log.Logger
}

// New creates a Server. The store may be nil to disable persistence; a nil
// logger discards request logs.
func New(d resolve.Downloader, sctx settings.Context, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		downloader: d,
		sctx:       sctx,
		store:      st,
		cache:      cache.NewNullCache(),
		cacheTTL:   time.Hour,
		logger:     logger,
	}
}

// WithCache installs a response cache for coordinate-based resolve
// requests. A zero TTL keeps entries indefinitely.
func (s *Server) WithCache(c cache.Cache, ttl time.Duration) *Server {
	if c != nil {
		s.cache = c
	}
	s.cacheTTL = ttl
	return s
}

// Router builds the chi router with logging and panic-recovery middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/resolve", s.handleResolve)
		r.Get("/models/{id}", s.handleModel)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		s.logger.Info("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

// resolveRequest is the POST /api/v1/resolve body.
type resolveRequest struct {
	// Coordinate is a "groupId:artifactId:version" triple to fetch and
	// resolve. Mutually exclusive with Pom.
	Coordinate string `json:"coordinate,omitempty"`
	// Pom is an inline pom.xml document.
	Pom string `json:"pom,omitempty"`
	// Profiles activates additional profiles for this request.
	Profiles []string `json:"profiles,omitempty"`
}

// resolveResponse wraps the resolved model with the non-fatal errors the
// resolution reported.
type resolveResponse struct {
	Model  *pom.Pom      `json:"model"`
	Errors []errorDetail `json:"errors,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (s *Server) handleResolve(w http.ResponseWriter, req *http.Request) {
	var body resolveRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid request body: %v", err))
		return
	}

	// Coordinate resolutions are deterministic per settings, so serve
	// repeats straight from the response cache.
	cacheKey := ""
	if body.Coordinate != "" && body.Pom == "" {
		cacheKey = "resolve:" + body.Coordinate + "|" + strings.Join(body.Profiles, ",")
		if data, ok, err := s.cache.Get(req.Context(), cacheKey); err == nil && ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			_, _ = w.Write(data)
			return
		}
	}

	var raw *pom.RawPom
	var err error
	switch {
	case body.Coordinate != "" && body.Pom != "":
		s.writeError(w, http.StatusBadRequest, apperrors.New(apperrors.ErrCodeInvalidInput, "coordinate and pom are mutually exclusive"))
		return
	case body.Pom != "":
		raw, err = pom.Parse([]byte(body.Pom))
		if err != nil {
			s.writeError(w, http.StatusBadRequest, apperrors.Wrap(apperrors.ErrCodeInvalidPom, err, "parsing inline pom"))
			return
		}
	case body.Coordinate != "":
		ga, version, cerr := pom.ParseCoordinate(body.Coordinate)
		if cerr != nil || version == "" {
			s.writeError(w, http.StatusBadRequest, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid coordinate %q", body.Coordinate))
			return
		}
		raw, err = s.downloader.Download(req.Context(), ga.Group, ga.Artifact, version, "", nil, s.sctx.Repositories)
		if err != nil {
			s.writeError(w, http.StatusNotFound, apperrors.Wrap(apperrors.ErrCodeNotFound, err, "fetching %s", body.Coordinate))
			return
		}
	default:
		s.writeError(w, http.StatusBadRequest, apperrors.New(apperrors.ErrCodeInvalidInput, "either coordinate or pom is required"))
		return
	}

	var details []errorDetail
	sctx := s.sctx.WithOnError(func(err error) {
		details = append(details, errorDetail{Code: string(apperrors.GetCode(err)), Message: apperrors.UserMessage(err)})
	})
	sctx.ActiveProfiles = append(slices.Clone(s.sctx.ActiveProfiles), body.Profiles...)

	resolver := resolve.New(s.downloader, sctx, resolve.Options{Logger: s.logger})
	model, err := resolver.Resolve(req.Context(), raw)
	if err != nil {
		resp := resolveResponse{Errors: details}
		resp.Errors = append(resp.Errors, errorDetail{Code: string(apperrors.GetCode(err)), Message: apperrors.UserMessage(err)})
		s.writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	if s.store != nil {
		if fp := resolver.FingerprintOf(model); fp != "" {
			if err := s.store.Put(req.Context(), fp, model); err != nil {
				s.logger.Warn("storing model failed", "model", model.Coordinates(), "err", err)
			}
		}
	}

	resp := resolveResponse{Model: model, Errors: details}
	if cacheKey != "" {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(req.Context(), cacheKey, data, s.cacheTTL); err != nil {
				s.logger.Debug("response cache write failed", "err", err)
			}
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModel(w http.ResponseWriter, req *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, apperrors.New(apperrors.ErrCodeNotFound, "model store disabled"))
		return
	}
	id := chi.URLParam(req, "id")
	rec, err := s.store.GetByID(req.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, apperrors.Wrap(apperrors.ErrCodeNotFound, err, "model %s", id))
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encoding response failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{
		"code":  string(apperrors.GetCode(err)),
		"error": apperrors.UserMessage(err),
	})
}

// Package server serves the dashboard API, the rendered dashboard page and
// the Prometheus metrics endpoint.
package server

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	lru "github.com/hashicorp/golang-lru"

	"github.com/naka-gawa/pr-dashboard/internal/gateway"
	"github.com/naka-gawa/pr-dashboard/internal/render"
	"github.com/naka-gawa/pr-dashboard/internal/usecase"
)

// Routes served by the dashboard.
const (
	RouteIndex   = "/"
	RouteAPI     = "/api/dashboard/"
	RouteMetrics = "/metrics"
)

// Server wires the dashboard use case to HTTP.
type Server struct {
	dashboard *usecase.Dashboard
	dataFile  string
	pages     *lru.Cache
	metrics   *Metrics
	logger    *log.Logger
	mux       *http.ServeMux
}

type cachedPage struct {
	contentType string
	body        []byte
}

// New creates a Server. dataFile is the data set served by the API route
// and cacheSize bounds the number of rendered pages kept in memory.
func New(dashboard *usecase.Dashboard, dataFile string, cacheSize int, logger *log.Logger) (*Server, error) {
	pages, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create page cache: %w", err)
	}
	s := &Server{
		dashboard: dashboard,
		dataFile:  dataFile,
		pages:     pages,
		metrics:   NewMetrics(),
		logger:    logger,
		mux:       http.NewServeMux(),
	}
	s.mux.Handle(RouteIndex, s.metrics.Instrument(RouteIndex, http.HandlerFunc(s.handleIndex)))
	s.mux.Handle(RouteAPI, s.metrics.Instrument(RouteAPI, http.HandlerFunc(s.handleAPI)))
	s.mux.Handle(RouteMetrics, s.metrics.Handler())
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleAPI serves the data file as a JSON string holding the JSON payload.
func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	payload, err := gateway.LoadDataFile(s.dataFile)
	if err != nil {
		s.logger.Printf("Failed to load data file %s: %v\n", s.dataFile, err)
		http.Error(w, "dashboard data unavailable", http.StatusInternalServerError)
		return
	}
	body, err := gateway.EncodePayload(payload)
	if err != nil {
		s.logger.Printf("Failed to encode payload: %v\n", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		s.logger.Printf("Failed to write API response: %v\n", err)
	}
}

// handleIndex renders the dashboard page. ?view=echarts switches to the
// interactive charts, any other format name to that renderer.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != RouteIndex {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	format := render.FormatHTML
	if name := r.URL.Query().Get("view"); name != "" {
		f, err := render.ParseFormat(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}

	view := s.dashboard.Build(r.Context())
	s.observe(view)

	key, err := pageKey(format, view)
	if err != nil {
		s.logger.Printf("Failed to hash view: %v\n", err)
	}
	if key != "" {
		if page, ok := s.pages.Get(key); ok {
			s.metrics.cacheLookups.WithLabelValues("hit").Inc()
			s.writePage(w, page.(cachedPage))
			return
		}
		s.metrics.cacheLookups.WithLabelValues("miss").Inc()
	}

	var buf bytes.Buffer
	if err := render.Write(&buf, format, view); err != nil {
		s.logger.Printf("Failed to render %s page: %v\n", format, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	page := cachedPage{contentType: format.ContentType(), body: buf.Bytes()}
	if key != "" && view.LoadErr == nil {
		s.pages.Add(key, page)
	}
	s.writePage(w, page)
}

func (s *Server) writePage(w http.ResponseWriter, page cachedPage) {
	w.Header().Set("Content-Type", page.contentType)
	if _, err := w.Write(page.body); err != nil {
		s.logger.Printf("Failed to write page: %v\n", err)
	}
}

func (s *Server) observe(v *usecase.View) {
	if v.LoadErr != nil {
		s.metrics.loadFailures.Inc()
	}
	if v.BarErr != nil {
		s.metrics.sectionErrors.WithLabelValues("bar_data").Inc()
	}
	if v.StackedErr != nil {
		s.metrics.sectionErrors.WithLabelValues("stacked_data").Inc()
	}
	if v.Empty() {
		s.metrics.emptyViews.Inc()
	}
}

// pageKey identifies a rendered page by its format and the data it shows.
// Charts are a pure function of the payload, so equal payloads render
// equal pages.
func pageKey(format render.Format, v *usecase.View) (string, error) {
	data, err := json.Marshal(v.Payload)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write(data)
	fmt.Fprintf(h, "|%t|%t", v.BarErr != nil, v.StackedErr != nil)
	return hex.EncodeToString(h.Sum(nil)), nil
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
	"github.com/aretw0/formstate/pkg/sanitize"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Forms is the form service exposed over HTTP. session.Manager implements it.
type Forms interface {
	View(ctx context.Context, formID string, fn func(g *form.Group) error) error
	SetValue(ctx context.Context, formID string, value any) (*domain.Snapshot, error)
	Execute(ctx context.Context, formID, path string, params any) (*domain.Snapshot, error)
	Delete(ctx context.Context, formID string) error
	List(ctx context.Context) ([]string, error)
}

// FormView is the JSON shape of a form read.
type FormView struct {
	ID      string              `json:"id"`
	Value   any                 `json:"value"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Changed bool                `json:"changed"`
	Valid   bool                `json:"valid"`
}

// Server serves the form routes.
type Server struct {
	Forms   Forms
	Streams *StreamManager

	metrics http.Handler
	version string
	logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithLogger sets the request logger (default slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewHandler creates a new HTTP handler for the form service.
func NewHandler(forms Forms, opts ...Option) http.Handler {
	server := &Server{
		Forms:   forms,
		Streams: NewStreamManager(),
		version: "dev",
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	r.Route("/forms", func(r chi.Router) {
		r.Get("/", server.ListForms)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", server.GetForm)
			r.Put("/", server.PutForm)
			r.Delete("/", server.DeleteForm)
			r.Get("/full", server.GetFullValue)
			r.Get("/errors", server.GetErrors)
			r.Get("/events", server.SubscribeEvents)
			r.Post("/actions/{path}", server.ExecuteAction)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "formstate-http",
		"version": s.version,
	})
}

// ListForms handles GET /forms.
func (s *Server) ListForms(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Forms.List(r.Context())
	if err != nil {
		s.writeError(w, "ListForms", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetForm handles GET /forms/{id}. The value excludes disabled fields.
func (s *Server) GetForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var view FormView
	err := s.Forms.View(r.Context(), id, func(g *form.Group) error {
		view = FormView{
			ID:      id,
			Value:   g.Value(),
			Errors:  form.ErrorsByPath(g),
			Changed: g.IsChanged(),
			Valid:   form.Valid(g),
		}
		return nil
	})
	if err != nil {
		s.writeError(w, "GetForm", err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// GetFullValue handles GET /forms/{id}/full.
func (s *Server) GetFullValue(w http.ResponseWriter, r *http.Request) {
	var full any
	err := s.Forms.View(r.Context(), chi.URLParam(r, "id"), func(g *form.Group) error {
		full = g.FullValue()
		return nil
	})
	if err != nil {
		s.writeError(w, "GetFullValue", err)
		return
	}
	s.writeJSON(w, http.StatusOK, full)
}

// GetErrors handles GET /forms/{id}/errors.
func (s *Server) GetErrors(w http.ResponseWriter, r *http.Request) {
	var errs map[string][]string
	err := s.Forms.View(r.Context(), chi.URLParam(r, "id"), func(g *form.Group) error {
		errs = form.ErrorsByPath(g)
		return nil
	})
	if err != nil {
		s.writeError(w, "GetErrors", err)
		return
	}
	if errs == nil {
		errs = map[string][]string{}
	}
	s.writeJSON(w, http.StatusOK, errs)
}

// PutForm handles PUT /forms/{id}: the body is the (partial) value to assign.
func (s *Server) PutForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body, err := readBody(w, r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PutForm: Invalid request body", "error", err)
		return
	}

	snap, err := s.Forms.SetValue(r.Context(), id, body)
	if err != nil {
		s.writeError(w, "PutForm", err)
		return
	}
	s.broadcast(id, snap)
	s.writeJSON(w, http.StatusOK, snap)
}

// ExecuteAction handles POST /forms/{id}/actions/{path}. The optional body
// is passed to the action as params.
func (s *Server) ExecuteAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	path := chi.URLParam(r, "path")
	params, err := readBody(w, r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("ExecuteAction: Invalid request body", "error", err)
		return
	}

	snap, err := s.Forms.Execute(r.Context(), id, path, params)
	if err != nil {
		s.writeError(w, "ExecuteAction", err)
		return
	}
	s.broadcast(id, snap)
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteForm handles DELETE /forms/{id}.
func (s *Server) DeleteForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Forms.Delete(r.Context(), id); err != nil {
		s.writeError(w, "DeleteForm", err)
		return
	}
	s.Streams.Broadcast(id, `{"deleted":true}`)
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents handles GET /forms/{id}/events (SSE). Every saved
// snapshot of the form is pushed as one data line.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id := chi.URLParam(r, "id")
	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected", "form_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcast(formID string, snap *domain.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Warn("Failed to encode snapshot for subscribers", "form_id", formID, "error", err)
		return
	}
	s.Streams.Broadcast(formID, string(data))
}

// readBody decodes an optional JSON body and sanitizes its strings. An empty
// body yields nil.
func readBody(w http.ResponseWriter, r *http.Request) (any, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return sanitize.Value(v)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrFormNotFound), errors.Is(err, domain.ErrFieldNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, domain.ErrStructuredData),
		errors.Is(err, domain.ErrNotAction):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Debug(op+" rejected", "error", err, "status", status)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // FormID -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a buffered channel for formID. The returned func
// unsubscribes and closes it.
func (sm *StreamManager) Subscribe(formID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[formID]; !ok {
		sm.subscribers[formID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[formID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[formID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, formID)
			}
		}
	}
}

// Broadcast delivers msg to every subscriber of formID without blocking.
func (sm *StreamManager) Broadcast(formID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[formID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			slog.Warn("SSE: Client buffer full, dropping message", "form_id", formID)
		}
	}
}

// Subscribers reports how many channels listen on formID.
func (sm *StreamManager) Subscribers(formID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[formID])
}

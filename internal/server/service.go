// Package server exposes finbot sessions over a JSON HTTP API. Each session is
// isolated and runs one action at a time.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/finbot/internal/gateway"
	"github.com/theirongolddev/finbot/internal/prompt"
	"github.com/theirongolddev/finbot/internal/session"
	"github.com/theirongolddev/finbot/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	Currency     string
	Market       string
	Provider     string
	EventsBuffer int
}

// Event is emitted whenever a session's state or output changes.
type Event struct {
	ID        int64            `json:"id"`
	Type      string           `json:"type"`
	SessionID uuid.UUID        `json:"session_id"`
	Timestamp time.Time        `json:"timestamp"`
	Outcome   *session.Outcome `json:"outcome,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Provider        string    `json:"provider"`
	Sessions        int       `json:"sessions"`
	ActionCount     int64     `json:"action_count"`
	FailedActions   int64     `json:"failed_actions"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// entry is one registered session. mu is held for the whole of any request
// touching the session, so actions on one session never interleave.
type entry struct {
	mu     sync.Mutex
	sess   *session.Session
	ctrl   *session.Controller
	closed bool
}

type subscriber struct {
	session uuid.UUID
	ch      chan Event
}

// Service holds the session registry and serves the HTTP API.
type Service struct {
	cfg    Config
	newGen gateway.Factory
	log    *zap.Logger

	mu            sync.RWMutex
	startedAt     time.Time
	sessions      map[uuid.UUID]*entry
	actionCount   int64
	failedActions int64
	nextEventID   int64
	events        []Event

	nextSubID int
	subs      map[int]subscriber
}

// New returns a server for cfg. newGen is called once per created session.
func New(cfg Config, newGen gateway.Factory, log *zap.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8411"
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		newGen:    newGen,
		log:       log,
		startedAt: time.Now(),
		sessions:  make(map[uuid.UUID]*entry),
		subs:      make(map[int]subscriber),
	}
}

// Handler returns the API routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("POST /v1/sessions", s.handleCreate)
	mux.HandleFunc("GET /v1/sessions/{id}", s.handleGet)
	mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleDelete)
	mux.HandleFunc("PUT /v1/sessions/{id}/profile", s.handleProfile)
	mux.HandleFunc("PUT /v1/sessions/{id}/financials", s.handleFinancials)
	mux.HandleFunc("POST /v1/sessions/{id}/actions/{action}", s.handleAction)
	mux.HandleFunc("GET /v1/sessions/{id}/events", s.handleEvents)
	mux.HandleFunc("GET /v1/sessions/{id}/stream", s.handleStream)
	return mux
}

// Run serves until ctx is canceled, then closes every session.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("server listening", zap.String("addr", s.cfg.Addr), zap.String("provider", s.cfg.Provider))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		s.closeAll()
		return err
	case err := <-errCh:
		s.closeAll()
		return fmt.Errorf("http server: %w", err)
	}
}

// Create registers a new session whose gateway uses apiKey.
func (s *Service) Create(ctx context.Context, apiKey string) (uuid.UUID, error) {
	gen, err := s.newGen(ctx, apiKey)
	if err != nil {
		return uuid.Nil, err
	}

	sess := store.OpenSession(s.log)
	e := &entry{
		sess: sess,
		ctrl: &session.Controller{
			Gateway:  gateway.New(gen, s.log),
			Currency: s.cfg.Currency,
			Market:   s.cfg.Market,
			Logger:   s.log,
		},
	}

	s.mu.Lock()
	s.sessions[sess.ID] = e
	s.mu.Unlock()

	s.log.Info("session created", zap.String("session", sess.ID.String()))
	return sess.ID, nil
}

// Close tears a session down, destroying its data.
func (s *Service) Close(id uuid.UUID) bool {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	for subID, sub := range s.subs {
		if sub.session == id {
			close(sub.ch)
			delete(s.subs, subID)
		}
	}
	kept := s.events[:0]
	for _, ev := range s.events {
		if ev.SessionID != id {
			kept = append(kept, ev)
		}
	}
	s.events = kept
	s.mu.Unlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if err := e.sess.Close(); err != nil {
		s.log.Warn("closing session", zap.String("session", id.String()), zap.Error(err))
	}
	s.log.Info("session closed", zap.String("session", id.String()))
	return true
}

func (s *Service) closeAll() {
	s.mu.RLock()
	ids := make([]uuid.UUID, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		s.Close(id)
	}
}

func (s *Service) lookup(id uuid.UUID) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	return e, ok
}

// run executes one action on e. The caller holds e.mu. The provider call is
// detached from the request context: once issued it runs to completion.
func (s *Service) run(ctx context.Context, e *entry, action prompt.Action, question string) session.Outcome {
	out := e.ctrl.Run(context.WithoutCancel(ctx), e.sess, action, question)

	s.mu.Lock()
	s.actionCount++
	if out.Failed() {
		s.failedActions++
	}
	s.mu.Unlock()

	if !out.Failed() {
		s.publish(e.sess.ID, "outcome", &out)
	}
	return out
}

func (s *Service) publish(id uuid.UUID, typ string, out *session.Outcome) {
	s.mu.Lock()
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      typ,
		SessionID: id,
		Timestamp: time.Now(),
		Outcome:   out,
	}
	kept := ev
	kept.Outcome = retained(out)
	s.events = append(s.events, kept)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, sub := range s.subs {
		if sub.session != id {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

// retained is the form of out kept in the event buffer. One-shot outputs reach
// live subscribers only; the buffer records that they happened, not what
// they said.
func retained(out *session.Outcome) *session.Outcome {
	if out == nil || out.Persisted {
		return out
	}
	return &session.Outcome{Action: out.Action, Target: out.Target, Title: out.Title}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Provider:        s.cfg.Provider,
		Sessions:        len(s.sessions),
		ActionCount:     s.actionCount,
		FailedActions:   s.failedActions,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) sessionEvents(id uuid.UUID) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, ev := range s.events {
		if ev.SessionID == id {
			out = append(out, ev)
		}
	}
	return out
}

// addSubscriber registers ch for id's events. It fails once the session is
// closed; Close closes the channels of the subscribers it finds.
func (s *Service) addSubscriber(id uuid.UUID, ch chan Event) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return 0, false
	}
	s.nextSubID++
	subID := s.nextSubID
	s.subs[subID] = subscriber{session: id, ch: ch}
	return subID, true
}

func (s *Service) removeSubscriber(subID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, subID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

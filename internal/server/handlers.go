package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/theirongolddev/finbot/internal/finance"
	"github.com/theirongolddev/finbot/internal/prompt"
	"github.com/theirongolddev/finbot/internal/session"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxBodySize = 1 << 20 // 1 MB

type createRequest struct {
	APIKey string `json:"api_key"`
}

type financialsRequest struct {
	MonthlyIncome decimal.Decimal            `json:"monthly_income"`
	Expenses      map[string]decimal.Decimal `json:"expenses"`
}

type actionRequest struct {
	Question string `json:"question"`
}

type actionResponse struct {
	session.Outcome
	Error string `json:"error,omitempty"`
}

type metricsView struct {
	TotalExpenses decimal.Decimal     `json:"total_expenses"`
	Savings       decimal.Decimal     `json:"savings"`
	SavingsRate   decimal.NullDecimal `json:"savings_rate"`
	Overspending  bool                `json:"overspending"`
}

type sessionView struct {
	ID         uuid.UUID              `json:"id"`
	CreatedAt  time.Time              `json:"created_at"`
	State      string                 `json:"state"`
	Profile    *finance.UserProfile   `json:"profile"`
	Financials *finance.FinancialData `json:"financials"`
	Metrics    metricsView            `json:"metrics"`
	Budget     *session.BudgetSummary `json:"budget_summary"`
	History    []session.HistoryEntry `json:"history"`
	Exchanges  int                    `json:"exchange_count"`
	Available  []prompt.Action        `json:"available_actions"`
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.Create(r.Context(), req.APIKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]uuid.UUID{"id": id})
}

func (s *Service) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if !s.Close(id) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entryFor(w, r)
	if !ok {
		return
	}
	if !lockOpen(w, e) {
		return
	}
	defer e.mu.Unlock()
	s.writeView(w, e)
}

func (s *Service) handleProfile(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entryFor(w, r)
	if !ok {
		return
	}

	var p finance.UserProfile
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if !lockOpen(w, e) {
		return
	}
	defer e.mu.Unlock()
	e.sess.SaveProfile(p)
	s.publish(e.sess.ID, "profile", nil)
	s.writeView(w, e)
}

func (s *Service) handleFinancials(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entryFor(w, r)
	if !ok {
		return
	}

	var req financialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	expenses := make(map[finance.Category]decimal.Decimal, len(req.Expenses))
	for k, v := range req.Expenses {
		c, err := finance.ParseCategory(k)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		expenses[c] = v
	}

	if !lockOpen(w, e) {
		return
	}
	defer e.mu.Unlock()
	if err := e.sess.UpdateFinancials(req.MonthlyIncome, expenses); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.publish(e.sess.ID, "financials", nil)
	s.writeView(w, e)
}

func (s *Service) handleAction(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entryFor(w, r)
	if !ok {
		return
	}
	action, err := prompt.ParseAction(r.PathValue("action"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req actionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !lockOpen(w, e) {
		return
	}
	out := s.run(r.Context(), e, action, req.Question)
	e.mu.Unlock()

	resp := actionResponse{Outcome: out}
	status := http.StatusOK
	if out.Failed() {
		resp.Error = out.Err.Error()
		var ve *session.ValidationError
		if errors.As(out.Err, &ve) {
			status = http.StatusUnprocessableEntity
		} else {
			status = http.StatusBadGateway
		}
	}
	writeJSON(w, status, resp)
}

func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entryFor(w, r)
	if !ok {
		return
	}
	events := s.sessionEvents(e.sess.ID)
	if events == nil {
		events = []Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entryFor(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch := make(chan Event, 16)
	subID, ok := s.addSubscriber(e.sess.ID, ch)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	defer s.removeSubscriber(subID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	writeSSE(w, Event{Type: "hello", SessionID: e.sess.ID, Timestamp: time.Now()})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-ch:
			if !ok {
				writeSSE(w, Event{Type: "closed", SessionID: e.sess.ID, Timestamp: time.Now()})
				flusher.Flush()
				return
			}
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

// writeView renders the session. The caller holds e.mu.
func (s *Service) writeView(w http.ResponseWriter, e *entry) {
	history, err := e.sess.RecentExchanges()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	count, err := e.sess.ExchangeCount()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	m := e.sess.Metrics()
	available := e.ctrl.Available(e.sess)
	if available == nil {
		available = []prompt.Action{}
	}
	writeJSON(w, http.StatusOK, sessionView{
		ID:         e.sess.ID,
		CreatedAt:  e.sess.CreatedAt,
		State:      e.sess.State().String(),
		Profile:    e.sess.Profile(),
		Financials: e.sess.Financials(),
		Metrics: metricsView{
			TotalExpenses: m.TotalExpenses,
			Savings:       m.Savings,
			SavingsRate:   m.SavingsRate,
			Overspending:  m.Overspending(),
		},
		Budget:    e.sess.Budget(),
		History:   history,
		Exchanges: count,
		Available: available,
	})
}

func (s *Service) entryFor(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	id, ok := parseID(w, r)
	if !ok {
		return nil, false
	}
	e, ok := s.lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return e, true
}

// lockOpen locks e, failing with 404 if the session was closed while the
// request waited. On success the caller must unlock e.mu.
func lockOpen(w http.ResponseWriter, e *entry) bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		writeError(w, http.StatusNotFound, "session not found")
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return uuid.Nil, false
	}
	return id, true
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

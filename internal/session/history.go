package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// HistoryDisplayLimit is how many exchanges the history view shows.
	HistoryDisplayLimit = 3
	// ResponsePreviewChars bounds the response text in the history view.
	ResponsePreviewChars = 200
	// QuestionLabelChars bounds the question used as a history entry label.
	QuestionLabelChars = 50
)

// HistoryEntry is one exchange as shown in the history view.
type HistoryEntry struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Question  string    `json:"question"`
	Preview   string    `json:"preview"`
	Timestamp time.Time `json:"timestamp"`
}

// RecentExchanges returns the history view: the most recent exchanges,
// newest first, with truncated response text.
func (s *Session) RecentExchanges() ([]HistoryEntry, error) {
	recent, err := s.history.Recent(HistoryDisplayLimit)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryEntry, 0, len(recent))
	for _, ex := range recent {
		out = append(out, HistoryEntry{
			ID:        ex.ID,
			Label:     Truncate(ex.Question, QuestionLabelChars),
			Question:  ex.Question,
			Preview:   Truncate(ex.Response, ResponsePreviewChars),
			Timestamp: ex.Timestamp,
		})
	}
	return out, nil
}

// ExchangeCount returns the total number of stored exchanges.
func (s *Session) ExchangeCount() (int, error) {
	return s.history.Len()
}

// Truncate shortens s to n runes, appending "..." when anything was cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// MemoryLog is a ChatLog held in a slice.
type MemoryLog struct {
	mu        sync.Mutex
	exchanges []ChatExchange
}

// NewMemoryLog returns an empty in-memory chat log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Append implements ChatLog.
func (m *MemoryLog) Append(ex ChatExchange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exchanges = append(m.exchanges, ex)
	return nil
}

// Recent implements ChatLog.
func (m *MemoryLog) Recent(n int) ([]ChatExchange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ChatExchange, 0, n)
	for i := len(m.exchanges) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.exchanges[i])
	}
	return out, nil
}

// Len implements ChatLog.
func (m *MemoryLog) Len() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.exchanges), nil
}

// Close implements ChatLog.
func (m *MemoryLog) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exchanges = nil
	return nil
}

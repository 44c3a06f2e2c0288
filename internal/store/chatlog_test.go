package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/theirongolddev/finbot/internal/session"

	"github.com/google/uuid"
)

func TestChatLog_RecentNewestFirst(t *testing.T) {
	cl, err := OpenChatLog()
	if err != nil {
		t.Fatalf("OpenChatLog: %v", err)
	}
	defer func() { _ = cl.Close() }()

	base := time.Date(2026, 4, 1, 10, 0, 0, 123, time.UTC)
	var ids []uuid.UUID
	for i := 1; i <= 4; i++ {
		ex := session.ChatExchange{
			ID:        uuid.New(),
			Question:  fmt.Sprintf("q%d", i),
			Response:  fmt.Sprintf("r%d", i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		ids = append(ids, ex.ID)
		if err := cl.Append(ex); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := cl.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"q4", "q3", "q2"} {
		if got[i].Question != want {
			t.Errorf("got[%d] = %s, want %s", i, got[i].Question, want)
		}
	}
	if got[0].ID != ids[3] {
		t.Errorf("ID = %s, want %s", got[0].ID, ids[3])
	}
	if !got[0].Timestamp.Equal(base.Add(4 * time.Minute)) {
		t.Errorf("Timestamp = %v", got[0].Timestamp)
	}

	n, err := cl.Len()
	if err != nil || n != 4 {
		t.Fatalf("Len = %d, %v; want 4", n, err)
	}
}

func TestChatLog_SessionsIsolated(t *testing.T) {
	a, err := OpenChatLog()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = a.Close() }()
	b, err := OpenChatLog()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = b.Close() }()

	if err := a.Append(session.ChatExchange{ID: uuid.New(), Question: "only a", Timestamp: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if n, _ := b.Len(); n != 0 {
		t.Fatalf("second log sees %d exchanges from the first", n)
	}
}

func TestOpenSession_UsesChatLog(t *testing.T) {
	s := OpenSession(nil)
	defer func() { _ = s.Close() }()

	if n, err := s.ExchangeCount(); err != nil || n != 0 {
		t.Fatalf("ExchangeCount = %d, %v", n, err)
	}
}

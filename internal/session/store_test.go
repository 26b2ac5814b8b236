package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gopherai-interview/internal/session"
)

type staticQuestions struct{}

func (staticQuestions) Generate(_ context.Context, topic string) []string {
	qs := make([]string, session.QuestionCount)
	for i := range qs {
		qs[i] = fmt.Sprintf("%s question %d", topic, i+1)
	}
	return qs
}

type shortQuestions struct{}

func (shortQuestions) Generate(context.Context, string) []string { return []string{"only one"} }

func TestStore_CreateAndGet(t *testing.T) {
	store := session.NewStore(staticQuestions{})

	s, err := store.Create(context.Background(), "Asha", "Finance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected generated id")
	}
	if len(s.Questions) != session.QuestionCount {
		t.Fatalf("questions = %d, want %d", len(s.Questions), session.QuestionCount)
	}

	got, err := store.Get(s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Asha" || got.Topic != "Finance" {
		t.Fatalf("unexpected session %+v", got)
	}
}

func TestStore_RejectsShortQuestionBank(t *testing.T) {
	store := session.NewStore(shortQuestions{})
	if _, err := store.Create(context.Background(), "n", "t"); err == nil {
		t.Fatal("expected error when question source returns fewer than 10 questions")
	}
}

func TestStore_RegeneratesCollidingID(t *testing.T) {
	ids := []string{"dup", "dup", "fresh"}
	next := 0
	store := session.NewStore(staticQuestions{}, session.WithIDGenerator(func() string {
		id := ids[next]
		next++
		return id
	}))

	first, err := store.Create(context.Background(), "a", "t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.Create(context.Background(), "b", "t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != "dup" || second.ID != "fresh" {
		t.Fatalf("ids = %q, %q, want dup, fresh", first.ID, second.ID)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := session.NewStore(staticQuestions{})
	if _, err := store.Get("missing"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrSessionNotFound", err)
	}
}

func TestStore_CloseIsOneShot(t *testing.T) {
	store := session.NewStore(staticQuestions{})
	s, _ := store.Create(context.Background(), "n", "t")

	calls := 0
	closeFn := func(*session.Session) error {
		calls++
		return nil
	}
	if err := store.Close(s.ID, closeFn); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := store.Close(s.ID, closeFn); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("second Close error = %v, want ErrSessionNotFound", err)
	}
	if err := store.Close("never-existed", closeFn); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("Close unknown error = %v, want ErrSessionNotFound", err)
	}
	if calls != 1 {
		t.Fatalf("close callback ran %d times, want 1", calls)
	}
	if store.Len() != 0 {
		t.Fatalf("Len = %d, want 0", store.Len())
	}
}

func TestStore_CloseRemovesOnlyOnSuccess(t *testing.T) {
	store := session.NewStore(staticQuestions{})
	s, _ := store.Create(context.Background(), "n", "t")

	boom := errors.New("boom")
	if err := store.Close(s.ID, func(*session.Session) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Close error = %v, want boom", err)
	}
	if _, err := store.Get(s.ID); err != nil {
		t.Fatalf("session should survive failed close: %v", err)
	}

	if err := store.Close(s.ID, func(*session.Session) error { return nil }); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := store.Close(s.ID, func(*session.Session) error { return nil }); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("second Close error = %v, want ErrSessionNotFound", err)
	}
}

func TestStore_UpdateSerializesSameSession(t *testing.T) {
	store := session.NewStore(staticQuestions{})
	s, _ := store.Create(context.Background(), "n", "t")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.Update(s.ID, func(sess *session.Session) error {
				sess.Record(session.QuestionRef{Slot: i % session.QuestionCount}, "a", session.Evaluation{Score: 5}, time.Now())
				return nil
			})
			if err != nil {
				t.Errorf("Update: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := store.Get(s.ID)
	if len(got.Responses) != 50 {
		t.Fatalf("responses = %d, want 50", len(got.Responses))
	}
}

func TestStore_UpdateAfterCloseIsNotFound(t *testing.T) {
	store := session.NewStore(staticQuestions{})
	s, _ := store.Create(context.Background(), "n", "t")

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- store.Close(s.ID, func(*session.Session) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	updateErr := make(chan error, 1)
	go func() {
		updateErr <- store.Update(s.ID, func(*session.Session) error { return nil })
	}()

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := <-updateErr; !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("Update racing Close error = %v, want ErrSessionNotFound", err)
	}
}

func TestStore_EvictOlderThan(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := session.NewStore(staticQuestions{}, session.WithClock(func() time.Time { return now }))

	old, _ := store.Create(context.Background(), "old", "t")
	now = now.Add(3 * time.Hour)
	fresh, _ := store.Create(context.Background(), "fresh", "t")

	if n := store.EvictOlderThan(2 * time.Hour); n != 1 {
		t.Fatalf("evicted = %d, want 1", n)
	}
	if _, err := store.Get(old.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("old session should be evicted, got %v", err)
	}
	if _, err := store.Get(fresh.ID); err != nil {
		t.Fatalf("fresh session should remain: %v", err)
	}
}

func TestStore_EvictKeepsRecentlyAnsweredSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := session.NewStore(staticQuestions{}, session.WithClock(func() time.Time { return now }))

	s, _ := store.Create(context.Background(), "Asha", "Finance")
	answeredAt := now.Add(119 * time.Minute)
	err := store.Update(s.ID, func(sess *session.Session) error {
		sess.Record(session.QuestionRef{Slot: 0}, "late answer", session.Evaluation{Score: 7}, answeredAt)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	now = now.Add(121 * time.Minute)
	if n := store.EvictOlderThan(120 * time.Minute); n != 0 {
		t.Fatalf("evicted = %d, want 0 for a session answered 2 minutes ago", n)
	}
	if err := store.Close(s.ID, func(*session.Session) error { return nil }); err != nil {
		t.Fatalf("Close after eviction pass: %v", err)
	}
}

func TestStore_EvictUsesLastAnswer(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := session.NewStore(staticQuestions{}, session.WithClock(func() time.Time { return now }))

	s, _ := store.Create(context.Background(), "Asha", "Finance")
	_ = store.Update(s.ID, func(sess *session.Session) error {
		sess.Record(session.QuestionRef{Slot: 0}, "a", session.Evaluation{Score: 7}, now.Add(10*time.Minute))
		return nil
	})

	now = now.Add(10*time.Minute + 121*time.Minute)
	if n := store.EvictOlderThan(120 * time.Minute); n != 1 {
		t.Fatalf("evicted = %d, want 1 once idle past the ttl", n)
	}
}

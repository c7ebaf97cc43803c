package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "lugha.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"auth_sessions", "submission_events", "llm_request_events", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lugha.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.SessionRepo().Save(ctx, SessionRecord{AccessToken: "a", UserID: "u1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	rec, err := s.SessionRepo().Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec == nil || rec.UserID != "u1" {
		t.Fatalf("expected persisted session for u1, got %+v", rec)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sc, err := newSequenceCounter(s.DB())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestSessionSaveLoadClear(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	rec, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load (empty): %v", err)
	}
	if rec != nil {
		t.Fatal("expected nil session when none saved")
	}

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	err = repo.Save(ctx, SessionRecord{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		Expiry:       expiry,
		UserID:       "user-1",
		Email:        "wanjiru@example.com",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Saving again replaces the single row.
	err = repo.Save(ctx, SessionRecord{
		AccessToken:  "access-2",
		RefreshToken: "refresh-2",
		Expiry:       expiry,
		UserID:       "user-1",
		Email:        "wanjiru@example.com",
	})
	if err != nil {
		t.Fatalf("save again: %v", err)
	}

	rec, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.AccessToken != "access-2" || rec.RefreshToken != "refresh-2" {
		t.Errorf("tokens = %q/%q, want access-2/refresh-2", rec.AccessToken, rec.RefreshToken)
	}
	if !rec.Expiry.Equal(expiry) {
		t.Errorf("expiry = %v, want %v", rec.Expiry, expiry)
	}
	if rec.TokenType != "bearer" {
		t.Errorf("token type = %q, want bearer", rec.TokenType)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	rec, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if rec != nil {
		t.Fatal("expected nil session after clear")
	}
}

func TestSessionSaveRequiresIdentity(t *testing.T) {
	s := openTestStore(t)
	if err := s.SessionRepo().Save(context.Background(), SessionRecord{AccessToken: "a"}); err == nil {
		t.Fatal("expected error for record without user id")
	}
}

func TestSubmissionsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []SubmissionEventData{
		{Kind: KindAnswer, QuestionID: "q1", SelectedIndex: 2, Success: true, Correct: true, XP: 5},
		{Kind: KindAnswer, QuestionID: "q2", SelectedIndex: 0, Success: false, ErrorMessage: "timeout"},
		{Kind: KindCompletion, LessonID: "l1", Score: 1, LanguageCode: "swahili", Success: true, XP: 15},
	}
	for _, e := range events {
		if err := repo.AppendSubmission(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.Submissions(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	if got[0].Kind != KindCompletion || got[0].XP != 15 {
		t.Errorf("newest event = %+v, want completion with 15 XP", got[0])
	}
	if got[1].ErrorMessage != "timeout" || got[1].Success {
		t.Errorf("failed answer not stored as failure: %+v", got[1])
	}

	limited, err := repo.Submissions(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 || limited[0].Sequence != got[0].Sequence {
		t.Errorf("limit 1 returned %+v", limited)
	}

	after, err := repo.Submissions(ctx, QueryOpts{After: got[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 {
		t.Errorf("after filter returned %d events, want 1", len(after))
	}
}

func TestAppendSubmissionRejectsUnknownKind(t *testing.T) {
	s := openTestStore(t)
	err := s.EventRepo().AppendSubmission(context.Background(), SubmissionEventData{Kind: "hint"})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestLLMRequestsShareSequenceWithSubmissions(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendSubmission(ctx, SubmissionEventData{Kind: KindAnswer, Success: true}); err != nil {
		t.Fatalf("append submission: %v", err)
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "conversation-turn", Success: true, InputTokens: 12,
	}); err != nil {
		t.Fatalf("append llm: %v", err)
	}

	subs, _ := repo.Submissions(ctx, QueryOpts{})
	llms, err := repo.LLMRequests(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query llm: %v", err)
	}
	if len(llms) != 1 || llms[0].InputTokens != 12 || llms[0].Purpose != "conversation-turn" {
		t.Fatalf("unexpected llm events: %+v", llms)
	}
	if llms[0].Sequence <= subs[0].Sequence {
		t.Errorf("llm sequence %d should follow submission sequence %d", llms[0].Sequence, subs[0].Sequence)
	}
}

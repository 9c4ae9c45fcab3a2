package logs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLastLinesOffset(t *testing.T) {
	cases := []struct {
		name    string
		content string
		lines   int
		want    string
	}{
		{name: "zero lines starts at end", content: "a\nb\n", lines: 0, want: ""},
		{name: "trailing newline", content: "a\nb\nc\n", lines: 2, want: "b\nc\n"},
		{name: "partial last line", content: "a\nb\nc", lines: 2, want: "b\nc"},
		{name: "more lines than file", content: "a\nb\n", lines: 10, want: "a\nb\n"},
		{name: "empty file", content: "", lines: 3, want: ""},
		{name: "spans blocks", content: strings.Repeat("x", 9000) + "\n" + "tail\n", lines: 1, want: "tail\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := strings.NewReader(tc.content)
			offset, err := lastLinesOffset(r, int64(len(tc.content)), tc.lines)
			if err != nil {
				t.Fatalf("lastLinesOffset: %v", err)
			}
			if got := tc.content[offset:]; got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func openTestSession(t *testing.T, content string, poll time.Duration) (*Session, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.out")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	s, err := Open(path, FollowOptions{PollInterval: poll})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s, path
}

func TestNextFailsWhenHandleBecomesUnreadable(t *testing.T) {
	s, path := openTestSession(t, "history\n", 10*time.Millisecond)
	t.Cleanup(func() { _ = s.Close() })

	if err := s.file.Close(); err != nil {
		t.Fatalf("close handle: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := s.Next(ctx)
	if !errors.Is(err, ErrTailIO) {
		t.Fatalf("expected ErrTailIO, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestClosedWatcherFallsBackToPolling(t *testing.T) {
	s, path := openTestSession(t, "", time.Hour)
	t.Cleanup(func() { _ = s.Close() })
	if s.watcher == nil {
		t.Skip("file notifications unavailable")
	}

	watcher := s.watcher
	if err := watcher.Close(); err != nil {
		t.Fatalf("close watcher: %v", err)
	}
	if err := s.wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if s.watcher != nil {
		t.Fatal("expected closed watcher to be dropped")
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open for append: %v", err)
	}
	if _, err := f.WriteString("after\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()

	chunk, err := s.Next(context.Background())
	if err != nil || string(chunk) != "after\n" {
		t.Fatalf("Next = %q, %v", chunk, err)
	}
}

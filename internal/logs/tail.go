package logs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"clustermon/internal/logging"
)

// ErrTailIO reports that a followed file could no longer be read.
var ErrTailIO = errors.New("log tail failed")

const (
	defaultPollInterval = 250 * time.Millisecond
	readChunkSize       = 32 * 1024
)

// FollowOptions controls how a Session attaches to a file.
type FollowOptions struct {
	// Lines replays the last Lines lines before following. Zero starts at
	// the end of the file as it was when the session opened.
	Lines int
	// PollInterval bounds how long growth can go unnoticed when change
	// notifications are unavailable.
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Session is an open read cursor over one file. Offset only ever advances by
// the number of bytes handed to the caller, except after truncation.
type Session struct {
	path    string
	file    *os.File
	offset  int64
	buf     []byte
	id      fileID
	moved   bool
	watcher *fsnotify.Watcher
	ticker  *time.Ticker
	logger  *slog.Logger
}

// Open attaches a Session to path.
func Open(path string, opts FollowOptions) (*Session, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrTailIO, path, err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: stat %s: %w", ErrTailIO, path, err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrTailIO, path)
	}

	offset, err := lastLinesOffset(file, info.Size(), opts.Lines)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: read %s: %w", ErrTailIO, path, err)
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: seek %s: %w", ErrTailIO, path, err)
	}

	poll := opts.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	s := &Session{
		path:   path,
		file:   file,
		offset: offset,
		buf:    make([]byte, readChunkSize),
		ticker: time.NewTicker(poll),
		logger: logging.NewComponentLogger(opts.Logger, "tailer").With(logging.String(logging.FieldPath, path)),
	}
	if id, err := handleID(file); err == nil {
		s.id = id
	}
	s.watcher = newWatcher(path, s.logger)
	s.logger.Debug("tail session opened", logging.Int64(logging.FieldOffset, offset))
	return s, nil
}

// Path returns the followed file.
func (s *Session) Path() string {
	return s.path
}

// Offset returns the number of bytes of the file already delivered.
func (s *Session) Offset() int64 {
	return s.offset
}

// Next blocks until bytes beyond the current offset are available and returns
// them. The returned slice is only valid until the following call. Next
// returns ctx.Err() once ctx is done and a wrapped ErrTailIO when the file
// can no longer be read.
func (s *Session) Next(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.checkTruncated(); err != nil {
			return nil, err
		}
		n, err := s.file.Read(s.buf)
		if n > 0 {
			s.offset += int64(n)
			return s.buf[:n], nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: read %s: %w", ErrTailIO, s.path, err)
		}
		s.checkReplaced()
		if err := s.wait(ctx); err != nil {
			return nil, err
		}
	}
}

// Close releases the file handle and watcher.
func (s *Session) Close() error {
	s.ticker.Stop()
	s.dropWatcher()
	return s.file.Close()
}

// dropWatcher closes the change watcher; the session keeps polling.
func (s *Session) dropWatcher() {
	if s.watcher == nil {
		return
	}
	_ = s.watcher.Close()
	s.watcher = nil
}

func (s *Session) checkTruncated() error {
	info, err := s.file.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrTailIO, s.path, err)
	}
	if info.Size() >= s.offset {
		return nil
	}
	s.logger.Warn("log file truncated; reading from start",
		logging.Int64(logging.FieldOffset, s.offset),
		logging.Int64("size", info.Size()),
	)
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek %s: %w", ErrTailIO, s.path, err)
	}
	s.offset = 0
	return nil
}

// checkReplaced warns once when path no longer names the open file. Reading
// continues on the original handle.
func (s *Session) checkReplaced() {
	if s.moved || s.id == (fileID{}) {
		return
	}
	current, err := pathID(s.path)
	if err == nil && current == s.id {
		return
	}
	s.moved = true
	s.logger.Warn("log file was replaced or removed; still following the original file")
}

func (s *Session) wait(ctx context.Context) error {
	var events <-chan fsnotify.Event
	var errs <-chan error
	if s.watcher != nil {
		events = s.watcher.Events
		errs = s.watcher.Errors
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case _, ok := <-events:
		if !ok {
			s.dropWatcher()
		}
	case err, ok := <-errs:
		if !ok {
			s.dropWatcher()
			return nil
		}
		s.logger.Debug("file watcher error; relying on polling", logging.Error(err))
	case <-s.ticker.C:
	}
	return nil
}

func newWatcher(path string, logger *slog.Logger) *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Debug("file notifications unavailable; polling", logging.Error(err))
		return nil
	}
	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		logger.Debug("file notifications unavailable; polling", logging.Error(err))
		return nil
	}
	return watcher
}

// Follow streams bytes appended to path into w until ctx is done, which ends
// the stream normally and returns nil. Bytes are written in file order,
// without loss or duplication.
func Follow(ctx context.Context, path string, w io.Writer, opts FollowOptions) error {
	session, err := Open(path, opts)
	if err != nil {
		return err
	}
	defer session.Close()

	for {
		chunk, err := session.Next(ctx)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				session.logger.Debug("tail session cancelled", logging.Int64(logging.FieldOffset, session.offset))
				return nil
			}
			return err
		}
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("write log output: %w", err)
		}
	}
}

// lastLinesOffset returns the offset at which the last n lines of a file of
// the given size begin. A trailing newline terminates the final line.
func lastLinesOffset(r io.ReaderAt, size int64, n int) (int64, error) {
	if n <= 0 || size == 0 {
		return size, nil
	}
	var last [1]byte
	if _, err := r.ReadAt(last[:], size-1); err != nil {
		return 0, err
	}
	end := size
	if last[0] == '\n' {
		end--
	}

	buf := make([]byte, 8*1024)
	found := 0
	for end > 0 {
		start := end - int64(len(buf))
		if start < 0 {
			start = 0
		}
		chunk := buf[:end-start]
		if _, err := r.ReadAt(chunk, start); err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		for i := len(chunk) - 1; i >= 0; i-- {
			if chunk[i] != '\n' {
				continue
			}
			found++
			if found == n {
				return start + int64(i) + 1, nil
			}
		}
		end = start
	}
	return 0, nil
}

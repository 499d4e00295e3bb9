package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"swapRoute/internal/model"
)

// JournalFile appends execution events to a JSONL file.
type JournalFile struct {
	path string
	mu   sync.Mutex
}

func NewJournalFile(path string) *JournalFile {
	return &JournalFile{path: path}
}

func (s *JournalFile) Path() string {
	return s.path
}

// Append writes events as JSON lines and syncs the file before returning.
func (s *JournalFile) Append(ctx context.Context, events ...model.ExecutionEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create journal dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, event := range events {
		line, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal journal event: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write journal event: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush journal: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync journal: %w", err)
	}
	return nil
}

// ReadJournal loads every event from a JSONL journal. A missing file is an empty journal.
// A truncated final line, as left by a crash mid-write, is skipped.
func ReadJournal(path string) ([]model.ExecutionEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	var (
		events  []model.ExecutionEvent
		pending error
		lineNo  int
	)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if pending != nil {
			return nil, pending
		}
		var event model.ExecutionEvent
		if err := json.Unmarshal(line, &event); err != nil {
			pending = fmt.Errorf("parse journal line %d: %w", lineNo, err)
			continue
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return events, nil
}

package event

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// DeadLetterSchemaVersion is the version of the dead-letter line format
const DeadLetterSchemaVersion = "2"

// DeadLetterEntry is one undeliverable event. EventID and EventType repeat
// fields of Event so the file can be grepped without parsing payloads.
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"`
	FailedAt      time.Time `json:"failed_at"`
	EventID       string    `json:"event_id"`
	EventType     Type      `json:"event_type"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
	Event         Event     `json:"event"`
}

// DeadLetterWriter appends DeadLetterEntry lines to a JSONL file
type DeadLetterWriter struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// NewDeadLetterWriter opens path for appending, creating it if needed
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to open dead-letter file %s: %w", path, err)
	}
	return &DeadLetterWriter{file: f, now: time.Now}, nil
}

// Write appends one entry. Each line is written with a single call so
// concurrent writers never interleave.
func (w *DeadLetterWriter) Write(evt Event, attempts int, lastErr error) error {
	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		FailedAt:      w.now().UTC(),
		EventID:       evt.ID,
		EventType:     evt.Type,
		Attempts:      attempts,
		Event:         evt,
	}
	if lastErr != nil {
		entry.LastError = lastErr.Error()
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode dead letter for %s: %w", evt.Type, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.file.Write(append(line, '\n')); err != nil {
		return err
	}

	logger.FromContext(context.Background()).Warn(LogMsgEventDeadLettered,
		"event_id", evt.ID,
		"event_type", evt.Type,
		"attempts", attempts,
		"error", entry.LastError)
	return nil
}

// Close flushes and closes the file
func (w *DeadLetterWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.file.Sync(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// ReadDeadLetters parses a dead-letter file. Payloads come back as JSON
// maps; use DecodePayload to get the typed form.
func ReadDeadLetters(path string) ([]DeadLetterEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []DeadLetterEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for line := 1; scanner.Scan(); line++ {
		var e DeadLetterEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return entries, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}

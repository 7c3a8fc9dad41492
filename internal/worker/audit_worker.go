package worker

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fintrack/internal/events"
)

// AuditWorker appends consumed activity messages to a CSV audit log. One
// consumer process owns the file; the mutex guards against overlapping
// handler invocations, not other processes.
type AuditWorker struct {
	mu   sync.Mutex
	path string
}

func NewAuditWorker(path string) (*AuditWorker, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create audit log directory: %w", err)
		}
	}
	return &AuditWorker{path: path}, nil
}

// HandleActivity appends one row. Errors bubble up so the consumer nacks
// and the broker redelivers.
func (w *AuditWorker) HandleActivity(msg *events.ActivityMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	record := []string{
		msg.Timestamp.UTC().Format(time.RFC3339),
		msg.Entity,
		msg.Action,
		msg.Ref,
		msg.Month,
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush audit record: %w", err)
	}

	slog.Info("Activity recorded",
		"entity", msg.Entity,
		"action", msg.Action,
		"ref", msg.Ref)
	return nil
}

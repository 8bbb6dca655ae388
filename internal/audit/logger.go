// Package audit implements the append-only action log for the ROV
// control core.
//
// Every safety-relevant action (arm, disarm, reset, fault latch,
// rejected command) is appended as one JSON line, rotated by size so
// a long deployment cannot fill the pilot computer's disk.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Entry is a single audit record.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Action    string    `json:"action"`
	State     string    `json:"state"`
	Reason    string    `json:"reason,omitempty"`
	Outcome   string    `json:"outcome"`
}

// Logger writes audit entries as JSON lines.
type Logger struct {
	mu  sync.Mutex
	out *lumberjack.Logger
}

// NewLogger creates an audit logger writing to <logDir>/actions.jsonl.
func NewLogger(logDir string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &Logger{
		out: &lumberjack.Logger{
			Filename:   filepath.Join(logDir, "actions.jsonl"),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		},
	}, nil
}

// LogTransition records a state machine transition.
func (l *Logger) LogTransition(action, state, reason string) {
	l.writeEntry(Entry{
		Timestamp: time.Now().UTC(),
		Action:    action,
		State:     state,
		Reason:    reason,
		Outcome:   "SUCCESS",
	})
}

// LogRejection records a command rejected at a boundary.
func (l *Logger) LogRejection(action, state string, err error) {
	outcome := "REJECTED"
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	l.writeEntry(Entry{
		Timestamp: time.Now().UTC(),
		Action:    action,
		State:     state,
		Reason:    reason,
		Outcome:   outcome,
	})
}

func (l *Logger) writeEntry(entry Entry) {
	jsonData, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal audit entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.out.Write(append(jsonData, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write audit entry: %v\n", err)
	}
}

// Close closes the underlying log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Close()
}

// Package audit provides structured event logging for deployment targets.
// Events are stored as JSON Lines (JSONL) files, one per target.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/firefly-engineering/firefly-outpost/internal/config"
)

// EventType classifies a convergence lifecycle event.
type EventType string

const (
	EventResolve  EventType = "resolve"
	EventConverge EventType = "converge"
	EventCheck    EventType = "check"
	EventMonitor  EventType = "monitor"
	EventError    EventType = "error"
)

// Event represents a single audit log entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Target    string    `json:"target"`
	Details   string    `json:"details,omitempty"`
}

// Logger writes and reads audit events for targets.
// Events are stored in {stateDir}/targets/{name}.events.jsonl.
type Logger struct {
	paths *config.Paths
}

// NewLogger creates a new audit logger using the given paths.
func NewLogger(paths *config.Paths) *Logger {
	return &Logger{paths: paths}
}

// eventPath returns the path to the JSONL event log for a target.
func (l *Logger) eventPath(target string) (string, error) {
	return l.paths.TargetPath(target, ".events.jsonl")
}

// Log appends an event to the target's audit log.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	path, err := l.eventPath(event.Target)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogEvent is a convenience method that creates and logs an event.
func (l *Logger) LogEvent(eventType EventType, target, details string) error {
	return l.Log(Event{
		Timestamp: time.Now(),
		Type:      eventType,
		Target:    target,
		Details:   details,
	})
}

// Events reads all events for a target in chronological order.
func (l *Logger) Events(target string) ([]Event, error) {
	path, err := l.eventPath(target)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading audit log: %w", err)
	}

	return events, nil
}

// Remove deletes the audit log for a target.
func (l *Logger) Remove(target string) error {
	path, err := l.eventPath(target)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

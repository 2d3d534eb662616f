package sinks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/log"
)

// FileSink writes one JSON object per event to a run's log file. Every entry
// carries the run ID, a sequence number and the phase it belongs to ("run"
// outside any phase); other fields are nested under "fields".
type FileSink struct {
	mu    sync.Mutex
	file  *os.File
	runID string
	seq   int
}

// NewFileSink creates the log file for runID at path, making its directory.
func NewFileSink(path, runID string) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", path, err)
	}
	return &FileSink{file: f, runID: runID}, nil
}

type fileEntry struct {
	RunID   string         `json:"run_id"`
	Seq     int            `json:"seq"`
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Phase   string         `json:"phase"`
	Step    string         `json:"step,omitempty"`
	Message string         `json:"message"`
	Error   string         `json:"error,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`
}

func (fs *FileSink) Write(event *log.LogEvent) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.seq++
	entry := fileEntry{
		RunID:   fs.runID,
		Seq:     fs.seq,
		Time:    event.Timestamp.Format(time.RFC3339Nano),
		Level:   levelToString(event.Level),
		Phase:   getStringField(event.Fields, "phase"),
		Step:    getStringField(event.Fields, "step"),
		Message: event.Message,
		Error:   getStringField(event.Fields, "error"),
	}
	if entry.Phase == "" {
		entry.Phase = "run"
	}
	for k, v := range event.Fields {
		switch k {
		case "phase", "step", "error":
			continue
		}
		if entry.Fields == nil {
			entry.Fields = make(map[string]any, len(event.Fields))
		}
		entry.Fields[k] = v
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshalling log entry %d: %w", entry.Seq, err)
	}
	if _, err := fs.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing log entry %d: %w", entry.Seq, err)
	}
	return nil
}

func (fs *FileSink) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.file == nil {
		return nil
	}
	err := fs.file.Close()
	fs.file = nil
	return err
}

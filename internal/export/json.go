package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/hi-z-k/focustime/internal/store"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Sessions   []jsonSession `json:"sessions"`
}

type jsonSession struct {
	ID          string `json:"id"`
	Mode        string `json:"mode"`
	Status      string `json:"status"`
	DurationSec int    `json:"duration_seconds"`
	Duration    string `json:"duration"`
	Timestamp   string `json:"timestamp"`
}

// ToJSON writes the session history to path.
func ToJSON(records []store.SessionRecord, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
	}

	for _, r := range records {
		out.Sessions = append(out.Sessions, jsonSession{
			ID:          r.ID,
			Mode:        string(r.Mode),
			Status:      string(r.Status),
			DurationSec: r.Duration,
			Duration:    formatDuration(int64(r.Duration)),
			Timestamp:   r.Timestamp.Local().Format(time.RFC3339),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

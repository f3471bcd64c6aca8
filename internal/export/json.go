package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pomodr/internal/store"
)

type jsonExport struct {
	ExportedAt   string        `json:"exported_at"`
	Count        int           `json:"count"`
	WorkSessions int           `json:"work_sessions"`
	Sessions     []jsonSession `json:"sessions"`
}

type jsonSession struct {
	ID          string `json:"id"`
	Phase       string `json:"phase"`
	DurationSec int    `json:"duration_seconds"`
	Duration    string `json:"duration"`
	CompletedAt string `json:"completed_at"`
}

// ToJSON writes sessions to path as an indented document.
func ToJSON(sessions []store.Session, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(sessions),
	}

	for _, s := range sessions {
		if s.Phase == store.PhaseWork {
			export.WorkSessions++
		}
		export.Sessions = append(export.Sessions, jsonSession{
			ID:          s.ID,
			Phase:       string(s.Phase),
			DurationSec: s.Duration,
			Duration:    formatDuration(int64(s.Duration)),
			CompletedAt: s.CompletedTime().Local().Format(time.RFC3339),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

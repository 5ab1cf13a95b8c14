package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/hi-z-k/focustime/internal/store"
)

// ToCSV writes the session history to path, newest first as given.
func ToCSV(records []store.SessionRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Mode", "Status", "Duration (s)", "Duration", "Timestamp"}); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.ID,
			string(r.Mode),
			string(r.Status),
			fmt.Sprintf("%d", r.Duration),
			formatDuration(int64(r.Duration)),
			r.Timestamp.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

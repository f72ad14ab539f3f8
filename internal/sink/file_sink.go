package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spacesedan/insightflow/internal/models"
)

// FileSink writes each report as an indented JSON document under Dir. The
// filename derives from the report date so identical batches land on the
// same file.
type FileSink struct {
	Dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

func (s *FileSink) Store(ctx context.Context, report *models.Report) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return &models.PersistenceError{Op: "creating report directory", Err: err}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return &models.PersistenceError{Op: "encoding report", Err: err}
	}

	date := report.Date
	if date == "" {
		date = "undated"
	}
	path := filepath.Join(s.Dir, fmt.Sprintf("feedback_report_%s.json", date))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &models.PersistenceError{Op: "writing report file", Err: err}
	}

	slog.Info("[FileSink] Report written",
		slog.String("path", path),
		slog.Int("bytes", len(data)))
	return nil
}

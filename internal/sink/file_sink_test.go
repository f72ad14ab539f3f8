package sink

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spacesedan/insightflow/internal/models"
)

func TestFileSinkStore(t *testing.T) {
	dir := t.TempDir()

	report := &models.Report{
		Date:             "2026-02-10",
		TotalComments:    3,
		OverallSentiment: 0.12,
	}

	if err := NewFileSink(dir).Store(context.Background(), report); err != nil {
		t.Fatalf("Store: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "feedback_report_2026-02-10.json"))
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}

	var decoded models.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if decoded.TotalComments != 3 {
		t.Errorf("totalComments = %d, want 3", decoded.TotalComments)
	}
	if decoded.Date != "2026-02-10" {
		t.Errorf("date = %q", decoded.Date)
	}
}

func TestFileSinkCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	report := &models.Report{Date: "2026-02-11", TotalComments: 1}
	if err := NewFileSink(dir).Store(context.Background(), report); err != nil {
		t.Fatalf("Store: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "feedback_report_2026-02-11.json")); err != nil {
		t.Errorf("report file missing: %v", err)
	}
}

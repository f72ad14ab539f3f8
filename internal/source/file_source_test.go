package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spacesedan/insightflow/internal/models"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "comments.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestFileSourceFetch(t *testing.T) {
	path := writeTempFile(t, `[
		{"id": "c1", "productId": "p1", "productName": "Widget", "text": "Nice!", "rating": 5, "createdAt": "2026-02-10T09:30:00Z"},
		{"id": "c2", "productId": "p1", "text": "Meh.", "createdAt": "2026-02-10T10:30:00Z"}
	]`)

	comments, err := NewFileSource(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	if comments[0].ID != "c1" || comments[1].ID != "c2" {
		t.Errorf("order not preserved: %v, %v", comments[0].ID, comments[1].ID)
	}
	if comments[0].Rating == nil || *comments[0].Rating != 5 {
		t.Error("c1 rating not decoded")
	}
	if comments[1].Rating != nil {
		t.Error("c2 should have no rating")
	}
	if comments[1].ProductName != "" {
		t.Error("c2 should have no product name")
	}
}

func TestFileSourceErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `{{{`},
		{"missing id", `[{"text": "hello", "createdAt": "2026-02-10T09:30:00Z"}]`},
		{"missing text", `[{"id": "c1", "createdAt": "2026-02-10T09:30:00Z"}]`},
		{"rating out of range", `[{"id": "c1", "text": "hi", "rating": 9}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, tt.content)
			_, err := NewFileSource(path).Fetch(context.Background())

			var dsErr *models.DataSourceError
			if !errors.As(err, &dsErr) {
				t.Fatalf("err = %v, want DataSourceError", err)
			}
		})
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.json")).Fetch(context.Background())

	var dsErr *models.DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("err = %v, want DataSourceError", err)
	}
}

package source

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/spacesedan/insightflow/internal/models"
)

// FileSource reads one JSON array of comments from disk.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Fetch(ctx context.Context) ([]models.Comment, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &models.DataSourceError{Reason: "reading comments file", Err: err}
	}

	var comments []models.Comment
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, &models.DataSourceError{Reason: "decoding comments file", Err: err}
	}

	for i, c := range comments {
		if err := ValidateComment(i, c); err != nil {
			return nil, err
		}
	}

	slog.Info("[FileSource] Loaded comments",
		slog.String("path", s.Path),
		slog.Int("count", len(comments)))
	return comments, nil
}

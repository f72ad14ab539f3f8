// Package source supplies comment batches to the pipeline. The core only
// sees the CommentSource interface; file and Kafka implementations live
// behind it.
package source

import (
	"context"
	"fmt"

	"github.com/spacesedan/insightflow/internal/models"
)

// CommentSource delivers one ordered batch of comments. Implementations
// surface malformed input as a DataSourceError since aggregation over a
// malformed corpus is meaningless.
type CommentSource interface {
	Fetch(ctx context.Context) ([]models.Comment, error)
}

// ValidateComment enforces the required fields. Rating and product name are
// optional and may be absent without error.
func ValidateComment(i int, c models.Comment) error {
	if c.ID == "" {
		return &models.DataSourceError{Reason: fmt.Sprintf("comment %d has no id", i)}
	}
	if c.Text == "" {
		return &models.DataSourceError{Reason: fmt.Sprintf("comment %q has no text", c.ID)}
	}
	if c.Rating != nil && (*c.Rating < 1 || *c.Rating > 5) {
		return &models.DataSourceError{Reason: fmt.Sprintf("comment %q rating %d outside [1,5]", c.ID, *c.Rating)}
	}
	return nil
}

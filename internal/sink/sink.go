// Package sink persists assembled reports. The core only sees the
// ReportSink interface; file and DynamoDB implementations live behind it.
package sink

import (
	"context"

	"github.com/spacesedan/insightflow/internal/models"
)

// ReportSink accepts one assembled report as a single document. Failures
// surface as a retryable PersistenceError.
type ReportSink interface {
	Store(ctx context.Context, report *models.Report) error
}

package sink

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/spacesedan/insightflow/internal/clients"
	"github.com/spacesedan/insightflow/internal/models"
)

const (
	reportsTableName = "FeedbackReports"

	dynamoMaxRetries = 3
	dynamoBackoff    = 500 * time.Millisecond
)

// DynamoDBSink stores each report as one item keyed by report date.
type DynamoDBSink struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoDBSink(table string) *DynamoDBSink {
	if table == "" {
		table = reportsTableName
	}
	return &DynamoDBSink{
		client: clients.GetDynamoDBClient(),
		table:  table,
	}
}

func (s *DynamoDBSink) Store(ctx context.Context, report *models.Report) error {
	item, err := attributevalue.MarshalMap(report)
	if err != nil {
		return &models.PersistenceError{Op: "marshaling report item", Err: err}
	}

	backoff := dynamoBackoff
	for attempt := 1; ; attempt++ {
		_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(s.table),
			Item:      item,
		})
		if err == nil {
			break
		}
		if attempt >= dynamoMaxRetries {
			return &models.PersistenceError{Op: "storing report item", Err: err}
		}
		slog.Warn("[DynamoDBSink] PutItem failed, retrying...",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		time.Sleep(backoff)
		backoff *= 2
	}

	slog.Info("[DynamoDBSink] Report stored",
		slog.String("table", s.table),
		slog.String("date", report.Date))
	return nil
}

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/insightflow/internal/models"
	"github.com/spacesedan/insightflow/internal/utils"
)

const (
	defaultBatchSize = 100
	readTimeout      = 5 * time.Second
	maxReadRetries   = 5
)

// KafkaConfig carries the consumer settings, read from the environment.
type KafkaConfig struct {
	Broker    string
	GroupID   string
	Topic     string
	BatchSize int
}

func GetKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Broker:    getEnv("KAFKA_BROKER", "localhost:29092"),
		GroupID:   getEnv("KAFKA_CONSUMER_GROUP_ID", "insightflow-consumer-group"),
		Topic:     getEnv("KAFKA_COMMENTS_TOPIC", "customer-feedback"),
		BatchSize: getEnvInt("KAFKA_BATCH_SIZE", defaultBatchSize),
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// KafkaSource consumes comment records from a feedback topic and hands the
// pipeline one batch at a time. Offsets are committed only after a batch is
// fully drained.
type KafkaSource struct {
	consumer *kafka.Consumer
	cfg      KafkaConfig
}

func NewKafkaSource(cfg KafkaConfig) (*KafkaSource, error) {
	slog.Info("[KafkaSource] Initializing consumer",
		slog.String("broker", cfg.Broker),
		slog.String("group_id", cfg.GroupID),
		slog.String("topic", cfg.Topic))

	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Broker,
		"group.id":           cfg.GroupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaSource] Failed to create consumer: %w", err)
	}

	if err := c.SubscribeTopics([]string{cfg.Topic}, nil); err != nil {
		return nil, fmt.Errorf("[KafkaSource] Failed to subscribe: %w", err)
	}

	return &KafkaSource{consumer: c, cfg: cfg}, nil
}

// Fetch reads until the batch is full or the topic stays quiet for a full
// read timeout with data in hand. Malformed records abort the batch.
func (s *KafkaSource) Fetch(ctx context.Context) ([]models.Comment, error) {
	buffer := utils.NewBatchBuffer[models.Comment](s.cfg.BatchSize)
	retries := 0

	for !buffer.Full() {
		select {
		case <-ctx.Done():
			slog.Warn("[KafkaSource] Context cancelled, stopping fetch")
			return nil, ctx.Err()
		default:
		}

		msg, err := s.consumer.ReadMessage(readTimeout)
		if err != nil {
			if kafkaErr, ok := err.(kafka.Error); ok {
				if kafkaErr.Code() == kafka.ErrTimedOut {
					if buffer.HasData() {
						// Quiet topic, ship what we have.
						break
					}
					continue
				}
				if kafkaErr.Code() == kafka.ErrAllBrokersDown {
					slog.Error("[KafkaSource] All brokers are down. Aborting")
					return nil, &models.DataSourceError{Reason: "all brokers down", Err: err}
				}
			}

			retries++
			if retries >= maxReadRetries {
				return nil, &models.DataSourceError{Reason: "reading from topic", Err: err}
			}
			slog.Warn("[KafkaSource] Failed to read message, retrying...",
				slog.Int("attempt", retries),
				slog.Int("max_retries", maxReadRetries),
				slog.String("error", err.Error()))
			continue
		}
		retries = 0

		var comment models.Comment
		if err := json.Unmarshal(msg.Value, &comment); err != nil {
			return nil, &models.DataSourceError{Reason: "decoding comment record", Err: err}
		}
		if err := ValidateComment(buffer.Size(), comment); err != nil {
			return nil, err
		}
		buffer.Add(comment)
	}

	buffer.LogBatchProcessing("comments")
	batch := buffer.GetAndClear()

	if len(batch) > 0 {
		if _, err := s.consumer.Commit(); err != nil {
			slog.Warn("[KafkaSource] Failed to commit offsets",
				slog.String("error", err.Error()))
		}
	}
	return batch, nil
}

func (s *KafkaSource) Close() {
	if s.consumer != nil {
		if err := s.consumer.Close(); err != nil {
			slog.Warn("[KafkaSource] Failed to close consumer",
				slog.String("error", err.Error()))
		}
	}
}

package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/lewisaaronpaul/covid-dashboard/internal/config"
	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
)

// Writer publishes the latest day of a snapshot to a Kafka topic, one
// message per country. It implements pipeline.SnapshotPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSnapshotTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSnapshot serializes every latest-day country row and writes them in
// a single WriteMessages call. Messages are keyed by country so a compacted
// topic keeps the newest row per country.
func (w *Writer) PublishSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	latest := snap.Latest()
	if len(latest) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(latest))
	for i := range latest {
		msg, err := serializeToMessage(latest[i], snap.BuiltAt())
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write snapshot messages: %w", err)
	}
	w.logger.Info("snapshot published", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// countryRecord is the wire form of a CountryDay. Unknown coordinates are
// null.
type countryRecord struct {
	Date      string   `json:"date"`
	Country   string   `json:"country"`
	Lat       *float64 `json:"lat"`
	Long      *float64 `json:"long"`
	Confirmed int64    `json:"confirmed"`
	Deaths    int64    `json:"deaths"`
	Recovered int64    `json:"recovered"`
	Active    int64    `json:"active"`
}

// serializeToMessage marshals a CountryDay into a Kafka message.
func serializeToMessage(d domain.CountryDay, builtAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(countryRecord{
		Date:      d.Date.Format(time.DateOnly),
		Country:   d.Country,
		Lat:       coordinate(d.Lat),
		Long:      coordinate(d.Long),
		Confirmed: d.Confirmed,
		Deaths:    d.Deaths,
		Recovered: d.Recovered,
		Active:    d.Active,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize country row: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(d.Country),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "date", Value: []byte(d.Date.Format(time.DateOnly))},
			{Key: "built_at", Value: []byte(builtAt.Format(time.RFC3339))},
		},
	}, nil
}

func coordinate(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

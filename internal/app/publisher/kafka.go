package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"webcrawler/internal/usecase"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes a CrawlEvent for every freshly crawled domain.
type Kafka struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafka creates a publisher writing to topic on broker.
func NewKafka(broker, topic string) *Kafka {
	return NewKafkaWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: false,
	})
}

// NewKafkaWithWriter builds a publisher using a custom writer (tests).
func NewKafkaWithWriter(writer messageWriter) *Kafka {
	return &Kafka{writer: writer, now: time.Now}
}

func (p *Kafka) Close() error {
	return p.writer.Close()
}

// Publish writes the event keyed by domain name, so every event of a domain
// lands on the same partition.
func (p *Kafka) Publish(ctx context.Context, rs *usecase.ResultSet) error {
	now := p.now()
	payload, err := json.Marshal(usecase.NewCrawlEvent(rs, now))
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(rs.DomainCrawled),
		Value: payload,
		Time:  now.UTC(),
	}
	return p.writer.WriteMessages(ctx, msg)
}

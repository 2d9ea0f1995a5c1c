package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"app/internal/usecase"

	"github.com/segmentio/kafka-go"
)

// Publisher は売上確定イベントをKafkaへ流す。
// ブローカー未設定の構成では writer を持たず、何もしない。
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher はカンマ区切りのブローカー一覧から生成する。空なら無効。
func NewPublisher(brokersCSV string, topic string) *Publisher {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return &Publisher{}
	}

	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Publisher) Enabled() bool {
	return p != nil && p.writer != nil
}

// PublishSaleCompleted は usecase.SaleEventPublisher を実装する。
func (p *Publisher) PublishSaleCompleted(ctx context.Context, ev usecase.SaleCompletedEvent) error {
	if !p.Enabled() {
		return nil
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.TransactionID),
		Value: data,
		Time:  time.Now().UTC(),
	})
}

func (p *Publisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.writer.Close()
}

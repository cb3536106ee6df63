// Package kafka ships audit events to a Kafka topic for downstream SIEM
// consumption. The primary store remains the durable record; this sink is
// best-effort fan-out.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	audit "certseal/pkg/platform/audit"

	"github.com/twmb/franz-go/pkg/kgo"
)

const defaultTopic = "certseal.audit"

type Publisher struct {
	client *kgo.Client
	topic  string
}

// New connects a producer to the given brokers. Close must be called on
// shutdown to flush buffered records.
func New(brokers []string, topic string) (*Publisher, error) {
	if topic == "" {
		topic = defaultTopic
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Publisher{client: client, topic: topic}, nil
}

// wirePayload is the JSON structure written to the topic. Field names are
// stable; consumers depend on them.
type wirePayload struct {
	Category      string `json:"category"`
	Timestamp     string `json:"timestamp"`
	CertificateID string `json:"certificate_id"`
	ProfileID     string `json:"profile_id,omitempty"`
	Subject       string `json:"subject,omitempty"`
	Action        string `json:"action"`
	Decision      string `json:"decision,omitempty"`
	Reason        string `json:"reason,omitempty"`
	RiskLevel     string `json:"risk_level,omitempty"`
	TrustScore    int    `json:"trust_score"`
	RequestID     string `json:"request_id,omitempty"`
	ClientInfo    string `json:"client_info,omitempty"`
	Severity      string `json:"severity,omitempty"`
}

// Append publishes one event. Records are keyed by certificate ID so all
// events for a certificate land on the same partition, in order.
func (p *Publisher) Append(ctx context.Context, event audit.Event) error {
	payload := wirePayload{
		Category:      string(event.Category),
		Timestamp:     event.Timestamp.Format(time.RFC3339Nano),
		CertificateID: event.CertificateID,
		ProfileID:     event.ProfileID,
		Subject:       event.Subject,
		Action:        event.Action,
		Decision:      event.Decision,
		Reason:        event.Reason,
		RiskLevel:     event.RiskLevel,
		TrustScore:    event.TrustScore,
		RequestID:     event.RequestID,
		ClientInfo:    event.ClientInfo,
		Severity:      string(event.Severity),
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Key:   []byte(event.CertificateID),
		Value: value,
		Topic: p.topic,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit record: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	p.client.Close()
}

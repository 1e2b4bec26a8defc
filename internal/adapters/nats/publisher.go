package natsadapter

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/siara/internal/core/domain"
)

// Publisher implements ports.EventPublisher on core NATS. Every running
// desktop must see every change, so plain fan-out subjects are used rather
// than a work-queue stream.
type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(conn *nats.Conn) *Publisher {
	return &Publisher{conn: conn}
}

func (p *Publisher) PublishReportEvent(ctx context.Context, event *domain.ReportEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(Subject(event), data)
}

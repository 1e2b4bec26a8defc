package natsadapter

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/siara/internal/core/domain"
)

// ReportSubjects matches every report change event.
const ReportSubjects = "siara.reports.>"

// Subject returns the subject an event is published on:
// siara.reports.<type>.<action>.
func Subject(event *domain.ReportEvent) string {
	return fmt.Sprintf("siara.reports.%s.%s", event.Type, event.Action)
}

// Connect dials NATS with reconnects enabled. The same connection can back
// a Publisher and a Subscriber.
func Connect(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return conn, nil
}

package audit

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Recorder is the narrow contract the orchestrator appends through.
type Recorder interface {
	Append(ctx context.Context, record DecisionRecord) error
}

// MessagePublisher delivers an opaque payload to a message bus. Satisfied by
// the Kafka producer; nil disables mirroring.
type MessagePublisher interface {
	Publish(ctx context.Context, key, payload []byte) error
}

// Publisher appends records to the store and optionally mirrors them to a
// message bus for downstream consumers. The mirror leg is asynchronous and
// best-effort; the store append is the source of truth.
type Publisher struct {
	store  Store
	logger *slog.Logger
	outbox chan DecisionRecord
}

// NewPublisher wires a publisher over the given store. When bus is non-nil a
// background worker drains the mirror outbox until ctx is done.
func NewPublisher(ctx context.Context, store Store, bus MessagePublisher, logger *slog.Logger) *Publisher {
	p := &Publisher{store: store, logger: logger}
	if bus != nil {
		p.outbox = make(chan DecisionRecord, 256)
		go p.mirror(ctx, bus)
	}
	return p
}

// Append persists the record, then queues the mirror copy without blocking.
// A full outbox drops the mirror copy; the store write already succeeded.
func (p *Publisher) Append(ctx context.Context, record DecisionRecord) error {
	if err := p.store.Append(ctx, record); err != nil {
		return err
	}
	if p.outbox != nil {
		select {
		case p.outbox <- record:
		default:
			p.logger.Warn("audit mirror outbox full, dropping copy", "record_id", record.ID)
		}
	}
	return nil
}

// Query passes through to the store.
func (p *Publisher) Query(ctx context.Context, filter Filter) ([]DecisionRecord, error) {
	return p.store.Query(ctx, filter)
}

// mirror drains the outbox into the message bus.
func (p *Publisher) mirror(ctx context.Context, bus MessagePublisher) {
	for {
		select {
		case <-ctx.Done():
			return
		case record := <-p.outbox:
			payload, err := json.Marshal(record)
			if err != nil {
				p.logger.Error("audit mirror marshal failed", "record_id", record.ID, "error", err)
				continue
			}
			if err := bus.Publish(ctx, []byte(record.ID.String()), payload); err != nil {
				p.logger.Warn("audit mirror publish failed", "record_id", record.ID, "error", err)
			}
		}
	}
}

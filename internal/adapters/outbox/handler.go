package outbox

import (
	"context"
	"time"

	"github.com/rafaelleal24/catalog/internal/adapters/config"
	"github.com/rafaelleal24/catalog/internal/core/logger"
	"github.com/rafaelleal24/catalog/internal/core/port"
)

const defaultPublishTimeout = 10 * time.Second

// Handler relays pending outbox entries to the broker on every tick. Entries are deleted only
// after a successful publish, so delivery is at least once. Once an entry fails, later entries
// of the same aggregate wait for the next tick so consumers never see them out of order.
type Handler struct {
	outbox         Repository
	broker         port.BrokerPort
	interval       time.Duration
	batch          int
	publishTimeout time.Duration
}

func NewHandler(outbox Repository, broker port.BrokerPort, config config.OutboxConfig) *Handler {
	publishTimeout := config.PublishTimeout
	if publishTimeout <= 0 {
		publishTimeout = defaultPublishTimeout
	}
	return &Handler{
		outbox:         outbox,
		broker:         broker,
		interval:       config.Interval,
		batch:          config.BatchSize,
		publishTimeout: publishTimeout,
	}
}

func (h *Handler) Start(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.drain(ctx)
		}
	}
}

// drain keeps fetching while full batches are relayed cleanly.
func (h *Handler) drain(ctx context.Context) {
	for ctx.Err() == nil {
		fetched, failed := h.processEvents(ctx)
		if fetched < h.batch || failed > 0 {
			return
		}
	}
}

func (h *Handler) processEvents(ctx context.Context) (fetched, failed int) {
	entries, err := h.outbox.FetchPending(ctx, h.batch)
	if err != nil {
		logger.Error(ctx, "outbox: failed to fetch pending events", err, map[string]any{
			"batch": h.batch,
		})
		return 0, 1
	}

	blocked := make(map[string]struct{})
	for _, entry := range entries {
		entryCtx := logger.WithAttributes(ctx, map[string]any{
			"event_id":     entry.ID,
			"aggregate_id": entry.AggregateID,
			"event_name":   entry.EventName,
			"entity_name":  entry.EntityName,
		})

		if _, skip := blocked[entry.AggregateID]; skip {
			logger.Debug(entryCtx, "outbox: event deferred behind failed predecessor", nil)
			failed++
			continue
		}

		if err := h.publish(entryCtx, entry); err != nil {
			logger.Error(entryCtx, "outbox: failed to publish event", err, nil)
			if entry.AggregateID != "" {
				blocked[entry.AggregateID] = struct{}{}
			}
			failed++
			continue
		}

		logger.Debug(entryCtx, "outbox: event published", nil)

		if err := h.outbox.Delete(ctx, entry.ID); err != nil {
			logger.Error(entryCtx, "outbox: failed to delete event after publish", err, nil)
		}
	}
	return len(entries), failed
}

func (h *Handler) publish(ctx context.Context, entry Entry) error {
	ctx, cancel := context.WithTimeout(ctx, h.publishTimeout)
	defer cancel()
	return h.broker.PublishRaw(ctx, entry.EventName, entry.EntityName, entry.EventData)
}

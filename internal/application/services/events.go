package services

import (
	"context"

	"github.com/messup/backend/internal/domain/entities"
	"github.com/messup/backend/internal/domain/providers"
	"github.com/rs/zerolog/log"
)

// publishEvent notifies subscribers of a collection change. Publishing is
// best-effort: a failed publish never fails the durable write it follows,
// subscribers just see the change on their next snapshot.
func publishEvent(ctx context.Context, bus providers.EventBus, collection string, eventType entities.CollectionEventType, docID string) {
	if bus == nil {
		return
	}

	event := entities.NewCollectionEvent(collection, eventType, docID)
	if err := bus.Publish(ctx, providers.GetCollectionChannel(collection), event); err != nil {
		log.Warn().Err(err).Str("collection", collection).Str("doc_id", docID).Msg("failed to publish collection event")
	}
}

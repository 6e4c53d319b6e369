package models

import (
	"context"

	"github.com/google/uuid"
)

// ItemStore is the persistence collaborator supplying wardrobe items.
// The retrieval pipeline treats the returned lists as opaque input.
type ItemStore interface {
	Create(ctx context.Context, item *CreateItemRequest) (*WardrobeItem, error)
	Get(ctx context.Context, userID string, itemUUID uuid.UUID) (*WardrobeItem, error)
	List(ctx context.Context, userID string, filters *ItemFilters) (*ItemListResponse, error)
	// ListAll returns every item owned by userID, unpaged, for retrieval.
	ListAll(ctx context.Context, userID string) ([]WardrobeItem, error)
	Update(ctx context.Context, userID string, itemUUID uuid.UUID, update *UpdateItemRequest) (*WardrobeItem, error)
	// Delete removes the item and cascades its color/occasion links and
	// persisted embedding.
	Delete(ctx context.Context, userID string, itemUUID uuid.UUID) error
}

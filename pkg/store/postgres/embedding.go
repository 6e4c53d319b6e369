package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/getfitted/fitted/pkg/models"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

var _ models.EmbeddingStore = &EmbeddingStoreDAO{}

// EmbeddingStoreDAO persists one embedding row per wardrobe item. It sits
// behind the in-memory cache as a write-through; retrieval never queries it.
type EmbeddingStoreDAO struct {
	db *bun.DB
}

func NewEmbeddingStoreDAO(db *bun.DB) *EmbeddingStoreDAO {
	return &EmbeddingStoreDAO{db: db}
}

// PutItemEmbedding upserts the item's embedding, replacing any stored vector
// for a previous description.
func (dao *EmbeddingStoreDAO) PutItemEmbedding(
	ctx context.Context,
	itemUUID uuid.UUID,
	fingerprint string,
	embedding []float32,
) error {
	row := &ItemEmbeddingSchema{
		ItemUUID:    itemUUID,
		Fingerprint: fingerprint,
		Embedding:   pgvector.NewVector(embedding),
	}
	_, err := dao.db.NewInsert().
		Model(row).
		On("CONFLICT (item_uuid) DO UPDATE").
		Set("fingerprint = EXCLUDED.fingerprint").
		Set("embedding = EXCLUDED.embedding").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to store embedding for item %s: %w", itemUUID, err)
	}
	return nil
}

// DeleteItemEmbedding removes the stored embedding for an item.
func (dao *EmbeddingStoreDAO) DeleteItemEmbedding(
	ctx context.Context,
	itemUUID uuid.UUID,
) error {
	_, err := dao.db.NewDelete().
		Model((*ItemEmbeddingSchema)(nil)).
		Where("item_uuid = ?", itemUUID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete embedding for item %s: %w", itemUUID, err)
	}
	return nil
}

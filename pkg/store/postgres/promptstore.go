package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/uptrace/bun"

	"github.com/getfitted/fitted/pkg/models"

	"github.com/google/uuid"
)

var _ models.PromptStore = &PromptStoreDAO{}

type PromptStoreDAO struct {
	db *bun.DB
}

func NewPromptStoreDAO(db *bun.DB) *PromptStoreDAO {
	return &PromptStoreDAO{db: db}
}

// Create stores a new prompt template at version 1, inactive.
func (dao *PromptStoreDAO) Create(
	ctx context.Context,
	request *models.CreatePromptRequest,
) (*models.Prompt, error) {
	promptDB := &PromptSchema{
		Name:        request.Name,
		Description: request.Description,
		Type:        request.Type,
		Content:     request.Content,
		Version:     1,
	}
	if _, err := dao.db.NewInsert().Model(promptDB).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create prompt: %w", err)
	}
	return promptSchemaToPrompt(promptDB), nil
}

// Get gets a prompt by UUID.
func (dao *PromptStoreDAO) Get(
	ctx context.Context,
	promptUUID uuid.UUID,
) (*models.Prompt, error) {
	promptDB := new(PromptSchema)
	err := dao.db.NewSelect().Model(promptDB).Where("uuid = ?", promptUUID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("prompt " + promptUUID.String())
		}
		return nil, err
	}
	return promptSchemaToPrompt(promptDB), nil
}

// List returns all stored prompts, newest first.
func (dao *PromptStoreDAO) List(ctx context.Context) ([]models.Prompt, error) {
	var promptsDB []PromptSchema
	err := dao.db.NewSelect().
		Model(&promptsDB).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	prompts := make([]models.Prompt, len(promptsDB))
	for i := range promptsDB {
		prompts[i] = *promptSchemaToPrompt(&promptsDB[i])
	}
	return prompts, nil
}

// Update applies a partial update, bumping the version when the content
// changes.
func (dao *PromptStoreDAO) Update(
	ctx context.Context,
	promptUUID uuid.UUID,
	update *models.UpdatePromptRequest,
) (*models.Prompt, error) {
	current, err := dao.Get(ctx, promptUUID)
	if err != nil {
		return nil, err
	}

	merged := applyPromptUpdate(current, update)

	promptDB := &PromptSchema{
		Name:        merged.Name,
		Description: merged.Description,
		Content:     merged.Content,
		Version:     merged.Version,
	}
	_, err = dao.db.NewUpdate().
		Model(promptDB).
		Column("name", "description", "content", "version", "updated_at").
		Where("uuid = ?", promptUUID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update prompt: %w", err)
	}

	return dao.Get(ctx, promptUUID)
}

// Delete removes a prompt.
func (dao *PromptStoreDAO) Delete(ctx context.Context, promptUUID uuid.UUID) error {
	result, err := dao.db.NewDelete().
		Model((*PromptSchema)(nil)).
		Where("uuid = ?", promptUUID).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.NewNotFoundError("prompt " + promptUUID.String())
	}
	return nil
}

// Activate marks the prompt active and deactivates all others of its type in
// one transaction.
func (dao *PromptStoreDAO) Activate(
	ctx context.Context,
	promptUUID uuid.UUID,
) (*models.Prompt, error) {
	prompt, err := dao.Get(ctx, promptUUID)
	if err != nil {
		return nil, err
	}

	err = dao.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model((*PromptSchema)(nil)).
			Set("is_active = false").
			Where("type = ?", prompt.Type).
			Where("is_active = true").
			Exec(ctx)
		if err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model((*PromptSchema)(nil)).
			Set("is_active = true").
			Where("uuid = ?", promptUUID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to activate prompt: %w", err)
	}

	return dao.Get(ctx, promptUUID)
}

// GetActive returns the active prompt for the given type.
func (dao *PromptStoreDAO) GetActive(
	ctx context.Context,
	promptType string,
) (*models.Prompt, error) {
	promptDB := new(PromptSchema)
	err := dao.db.NewSelect().
		Model(promptDB).
		Where("type = ?", promptType).
		Where("is_active = true").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("active prompt for type " + promptType)
		}
		return nil, err
	}
	return promptSchemaToPrompt(promptDB), nil
}

// applyPromptUpdate merges non-nil update fields over the current prompt.
// A content change bumps the version.
func applyPromptUpdate(
	current *models.Prompt,
	update *models.UpdatePromptRequest,
) *models.Prompt {
	merged := *current
	if update.Name != nil {
		merged.Name = *update.Name
	}
	if update.Description != nil {
		merged.Description = *update.Description
	}
	if update.Content != nil && *update.Content != current.Content {
		merged.Content = *update.Content
		merged.Version = current.Version + 1
	}
	return &merged
}

func promptSchemaToPrompt(promptDB *PromptSchema) *models.Prompt {
	prompt := &models.Prompt{}
	if err := copier.Copy(prompt, promptDB); err != nil {
		log.Errorf("failed to copy prompt schema: %v", err)
	}
	return prompt
}

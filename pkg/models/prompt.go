package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const PromptTypeOutfitGeneration = "outfit_generation"

// Prompt is a named, versioned prompt template. At most one prompt per type is
// active at a time; the recommend route uses the active outfit_generation
// template when the caller supplies no custom prompt.
type Prompt struct {
	UUID        uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	Content     string    `json:"content"`
	Version     int       `json:"version"`
	IsActive    bool      `json:"is_active"`
}

type CreatePromptRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
	Type        string `json:"type"        validate:"required,oneof=outfit_generation"`
	Content     string `json:"content"     validate:"required"`
}

type UpdatePromptRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}

type PromptStore interface {
	Create(ctx context.Context, prompt *CreatePromptRequest) (*Prompt, error)
	Get(ctx context.Context, promptUUID uuid.UUID) (*Prompt, error)
	List(ctx context.Context) ([]Prompt, error)
	// Update bumps the version when the content changes.
	Update(ctx context.Context, promptUUID uuid.UUID, update *UpdatePromptRequest) (*Prompt, error)
	Delete(ctx context.Context, promptUUID uuid.UUID) error
	// Activate marks the prompt active and deactivates all others of its type.
	Activate(ctx context.Context, promptUUID uuid.UUID) (*Prompt, error)
	GetActive(ctx context.Context, promptType string) (*Prompt, error)
}

package postgres

import (
	"testing"
	"time"

	"github.com/getfitted/fitted/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestApplyItemUpdate(t *testing.T) {
	current := &models.WardrobeItem{
		UUID:        uuid.New(),
		UserID:      "user-1",
		Description: "white oxford shirt",
		Category:    models.CategoryTop,
		Subcategory: "Shirt",
		Colors:      []string{"white"},
		Fit:         "slim",
		Brand:       "Uniqlo",
		Occasions:   []string{"casual"},
	}

	desc := "blue oxford shirt"
	merged := applyItemUpdate(current, &models.UpdateItemRequest{
		Description: &desc,
		Colors:      []string{"blue", "white"},
	})

	assert.Equal(t, "blue oxford shirt", merged.Description)
	assert.Equal(t, []string{"blue", "white"}, merged.Colors)
	// untouched fields survive the merge
	assert.Equal(t, models.CategoryTop, merged.Category)
	assert.Equal(t, "slim", merged.Fit)
	assert.Equal(t, []string{"casual"}, merged.Occasions)

	// the source item is not mutated
	assert.Equal(t, "white oxford shirt", current.Description)
	assert.Equal(t, []string{"white"}, current.Colors)
}

func TestApplyItemUpdateEmpty(t *testing.T) {
	current := &models.WardrobeItem{
		Description: "navy chinos",
		Category:    models.CategoryBottom,
		Colors:      []string{"navy"},
	}

	merged := applyItemUpdate(current, &models.UpdateItemRequest{})
	assert.Equal(t, current, merged)
}

func TestApplyItemUpdateClearsFields(t *testing.T) {
	current := &models.WardrobeItem{
		Description: "white oxford shirt",
		Category:    models.CategoryTop,
		Subcategory: "Shirt",
		Colors:      []string{"white"},
		Fit:         "slim",
		Brand:       "Uniqlo",
	}

	// An explicit empty string clears the field rather than preserving it.
	empty := ""
	merged := applyItemUpdate(current, &models.UpdateItemRequest{
		Fit:   &empty,
		Brand: &empty,
	})

	assert.Empty(t, merged.Fit)
	assert.Empty(t, merged.Brand)
	assert.Equal(t, "white oxford shirt", merged.Description)
	assert.Equal(t, []string{"white"}, merged.Colors)

	assert.Equal(t, "slim", current.Fit)
	assert.Equal(t, "Uniqlo", current.Brand)
}

func TestItemSchemaToItem(t *testing.T) {
	now := time.Now()
	itemDB := &WardrobeItemSchema{
		UUID:        uuid.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      "user-1",
		Description: "black leather boots",
		Category:    models.CategoryFootwear,
		Subcategory: "Boots",
		Fit:         "regular",
		Brand:       "Dr. Martens",
	}

	item := itemSchemaToItem(itemDB)

	assert.Equal(t, itemDB.UUID, item.UUID)
	assert.Equal(t, "user-1", item.UserID)
	assert.Equal(t, "black leather boots", item.Description)
	assert.Equal(t, models.CategoryFootwear, item.Category)
	assert.Equal(t, "Dr. Martens", item.Brand)
	assert.Empty(t, item.Colors)
}

package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/uptrace/bun/extra/bundebug"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/getfitted/fitted/config"
	"github.com/getfitted/fitted/pkg/models"
	"github.com/getfitted/fitted/pkg/outfits"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dbfixture"
	"gopkg.in/yaml.v3"
)

type Row interface {
	WardrobeItemSchema | ColorSchema | OccasionSchema |
		WardrobeItemColorSchema | WardrobeItemOccasionSchema | PromptSchema
}

type FixtureModel[T Row] struct {
	Model string `yaml:"model"`
	Rows  []T    `yaml:"rows"`
}

type Fixtures[T Row] []FixtureModel[T]

func generateTimeLastNDays(nDays int) time.Time {
	now := time.Now()
	start := now.Add(time.Duration(-nDays) * 24 * time.Hour)
	return gofakeit.DateRange(start, now)
}

var fixtureCategories = map[string][]string{
	models.CategoryTop:       {"T-Shirt", "Shirt", "Sweater", "Polo"},
	models.CategoryBottom:    {"Jeans", "Chinos", "Shorts", "Trousers"},
	models.CategoryFullBody:  {"Dress", "Jumpsuit", "Overalls"},
	models.CategoryOuterwear: {"Jacket", "Coat", "Blazer", "Cardigan"},
	models.CategoryFootwear:  {"Sneakers", "Boots", "Loafers", "Sandals"},
	models.CategoryAccessory: {"Belt", "Hat", "Scarf", "Watch"},
}

var fixtureColors = []string{
	"black", "white", "navy", "grey", "beige", "olive", "brown", "red", "blue",
}

// GenerateFixtureData writes YAML fixtures for the wardrobe schema to
// outputDir.
func GenerateFixtureData(fixtureCount int, outputDir string) {
	fakerGlobal := gofakeit.NewUnlocked(0)
	gofakeit.SetGlobalFaker(fakerGlobal)

	colors := make([]ColorSchema, len(fixtureColors))
	for i, name := range fixtureColors {
		colors[i] = ColorSchema{ID: int64(i + 1), Name: name}
	}
	occasions := make([]OccasionSchema, len(models.Occasions))
	for i, name := range models.Occasions {
		occasions[i] = OccasionSchema{ID: int64(i + 1), Name: name}
	}

	categories := make([]string, 0, len(fixtureCategories))
	for category := range fixtureCategories {
		categories = append(categories, category)
	}

	items := make([]WardrobeItemSchema, fixtureCount)
	var itemColors []WardrobeItemColorSchema
	var itemOccasions []WardrobeItemOccasionSchema
	for i := 0; i < fixtureCount; i++ {
		dateCreated := generateTimeLastNDays(14)
		category := categories[gofakeit.Number(0, len(categories)-1)]
		subcategories := fixtureCategories[category]
		subcategory := subcategories[gofakeit.Number(0, len(subcategories)-1)]

		items[i] = WardrobeItemSchema{
			UUID:        uuid.New(),
			CreatedAt:   dateCreated,
			UpdatedAt:   dateCreated,
			UserID:      "local",
			Description: gofakeit.AdjectiveDescriptive() + " " + subcategory,
			Category:    category,
			Subcategory: subcategory,
			Fit:         gofakeit.RandomString([]string{"slim", "regular", "relaxed", "oversized"}),
			Brand:       gofakeit.Company(),
		}

		colorIdxs := sequence(len(colors))
		gofakeit.ShuffleInts(colorIdxs)
		for _, colorIdx := range colorIdxs[:gofakeit.Number(1, 3)] {
			itemColors = append(itemColors, WardrobeItemColorSchema{
				ItemUUID: items[i].UUID,
				ColorID:  colors[colorIdx].ID,
			})
		}
		occasionIdxs := sequence(len(occasions))
		gofakeit.ShuffleInts(occasionIdxs)
		for _, occasionIdx := range occasionIdxs[:gofakeit.Number(1, 3)] {
			itemOccasions = append(itemOccasions, WardrobeItemOccasionSchema{
				ItemUUID:   items[i].UUID,
				OccasionID: occasions[occasionIdx].ID,
			})
		}
	}

	dateCreated := generateTimeLastNDays(14)
	prompts := []PromptSchema{
		{
			UUID:        uuid.New(),
			CreatedAt:   dateCreated,
			UpdatedAt:   dateCreated,
			Name:        "default outfit prompt",
			Description: "compiled-in stylist template",
			Type:        models.PromptTypeOutfitGeneration,
			Content:     outfits.DefaultPromptTemplate,
			Version:     1,
			IsActive:    true,
		},
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	writeFixture(outputDir, "color.yaml", Fixtures[ColorSchema]{
		{Model: "ColorSchema", Rows: colors},
	})
	writeFixture(outputDir, "occasion.yaml", Fixtures[OccasionSchema]{
		{Model: "OccasionSchema", Rows: occasions},
	})
	writeFixture(outputDir, "wardrobe_item.yaml", Fixtures[WardrobeItemSchema]{
		{Model: "WardrobeItemSchema", Rows: items},
	})
	writeFixture(outputDir, "wardrobe_item_color.yaml", Fixtures[WardrobeItemColorSchema]{
		{Model: "WardrobeItemColorSchema", Rows: itemColors},
	})
	writeFixture(outputDir, "wardrobe_item_occasion.yaml", Fixtures[WardrobeItemOccasionSchema]{
		{Model: "WardrobeItemOccasionSchema", Rows: itemOccasions},
	})
	writeFixture(outputDir, "prompt.yaml", Fixtures[PromptSchema]{
		{Model: "PromptSchema", Rows: prompts},
	})
}

func sequence(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

func writeFixture[T Row](outputDir, filename string, fixtures Fixtures[T]) {
	data, err := yaml.Marshal(fixtures)
	if err != nil {
		log.Fatalf("failed to marshal fixture %s: %v", filename, err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, filename), data, 0o644); err != nil {
		log.Fatalf("failed to write fixture %s: %v", filename, err)
	}
}

// LoadFixtures drops and recreates the schema, then loads all YAML fixtures
// from fixturePath.
func LoadFixtures(
	ctx context.Context,
	cfg *config.Config,
	db *bun.DB,
	fixturePath string,
) error {
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))

	dropSchemaQuery := `DROP SCHEMA public CASCADE;
CREATE SCHEMA public;
GRANT ALL ON SCHEMA public TO postgres;
GRANT ALL ON SCHEMA public TO public;`

	_, err := db.ExecContext(ctx, dropSchemaQuery)
	if err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}

	err = enablePgVectorExtension(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to enable pg_vector extension: %w", err)
	}

	err = CreateSchema(ctx, cfg, db)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	db.RegisterModel(
		(*ColorSchema)(nil),
		(*OccasionSchema)(nil),
		(*WardrobeItemSchema)(nil),
		(*WardrobeItemColorSchema)(nil),
		(*WardrobeItemOccasionSchema)(nil),
		(*PromptSchema)(nil),
		(*ItemEmbeddingSchema)(nil),
	)

	fixture := dbfixture.New(db, dbfixture.WithRecreateTables())

	files, err := os.ReadDir(fixturePath)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, file := range files {
		if !file.IsDir() {
			switch filepath.Ext(file.Name()) {
			case ".yaml", ".yml":
				err := fixture.Load(ctx, os.DirFS(fixturePath), file.Name())
				if err != nil {
					return fmt.Errorf("failed to load fixture %s: %w", file.Name(), err)
				}
			}
		}
	}

	return nil
}

package testutils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/getfitted/fitted/pkg/models"
)

var itemSubcategories = map[string][]string{
	models.CategoryTop:       {"T-Shirt", "Shirt", "Sweater"},
	models.CategoryBottom:    {"Jeans", "Chinos", "Shorts"},
	models.CategoryFullBody:  {"Dress", "Jumpsuit"},
	models.CategoryOuterwear: {"Jacket", "Coat"},
	models.CategoryFootwear:  {"Sneakers", "Boots"},
	models.CategoryAccessory: {"Belt", "Hat", "Scarf"},
}

// GenerateWardrobeItem returns a fake wardrobe item of the given category.
func GenerateWardrobeItem(category string) models.WardrobeItem {
	subcategories, ok := itemSubcategories[category]
	if !ok {
		subcategories = []string{"Misc"}
	}
	subcategory := subcategories[gofakeit.Number(0, len(subcategories)-1)]
	return models.WardrobeItem{
		UUID:        uuid.New(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		UserID:      "local",
		Description: gofakeit.AdjectiveDescriptive() + " " + subcategory,
		Category:    category,
		Subcategory: subcategory,
		Colors:      []string{gofakeit.Color()},
		Fit:         gofakeit.RandomString([]string{"slim", "regular", "relaxed"}),
		Brand:       gofakeit.Company(),
		Occasions:   []string{models.Occasions[gofakeit.Number(0, len(models.Occasions)-1)]},
	}
}

// GenerateWardrobeItems returns count fake items spread over all categories.
func GenerateWardrobeItems(count int) []models.WardrobeItem {
	categories := make([]string, 0, len(itemSubcategories))
	for category := range itemSubcategories {
		categories = append(categories, category)
	}
	items := make([]models.WardrobeItem, count)
	for i := range items {
		items[i] = GenerateWardrobeItem(categories[i%len(categories)])
	}
	return items
}

// RandomUnitVector returns a random vector of the given dimensions, normalized
// to unit length.
func RandomUnitVector(dimensions int) []float32 {
	vector := make([]float32, dimensions)
	var magnitude float64
	for i := range vector {
		vector[i] = gofakeit.Float32Range(-1, 1)
		magnitude += float64(vector[i]) * float64(vector[i])
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude == 0 {
		vector[0] = 1
		return vector
	}
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / magnitude)
	}
	return vector
}

// GenerateRandomString returns a random hex string of the given length.
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, (length+1)/2)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random string: %w", err)
	}
	return hex.EncodeToString(bytes)[:length], nil
}

// FindProjectRoot returns the absolute path to the project root directory.
func FindProjectRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("could not get current file path")
	}

	dir := filepath.Dir(currentFilePath)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		if dir == filepath.Dir(dir) {
			return "", fmt.Errorf("project root not found")
		}

		dir = filepath.Dir(dir)
	}
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getfitted/fitted/config"
	"github.com/getfitted/fitted/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryItemStore is an in-memory ItemStore for route tests.
type memoryItemStore struct {
	items map[uuid.UUID]models.WardrobeItem
}

func newMemoryItemStore() *memoryItemStore {
	return &memoryItemStore{items: make(map[uuid.UUID]models.WardrobeItem)}
}

func (s *memoryItemStore) Create(
	_ context.Context,
	request *models.CreateItemRequest,
) (*models.WardrobeItem, error) {
	item := models.WardrobeItem{
		UUID:        uuid.New(),
		UserID:      request.UserID,
		Description: request.Description,
		Category:    request.Category,
		Subcategory: request.Subcategory,
		Colors:      request.Colors,
		Fit:         request.Fit,
		Brand:       request.Brand,
		Occasions:   request.Occasions,
	}
	s.items[item.UUID] = item
	return &item, nil
}

func (s *memoryItemStore) Get(
	_ context.Context,
	userID string,
	itemUUID uuid.UUID,
) (*models.WardrobeItem, error) {
	item, ok := s.items[itemUUID]
	if !ok || item.UserID != userID {
		return nil, models.NewNotFoundError("item " + itemUUID.String())
	}
	return &item, nil
}

func (s *memoryItemStore) List(
	_ context.Context,
	userID string,
	filters *models.ItemFilters,
) (*models.ItemListResponse, error) {
	var items []models.WardrobeItem
	for _, item := range s.items {
		if item.UserID != userID {
			continue
		}
		if filters.Category != "" && item.Category != filters.Category {
			continue
		}
		items = append(items, item)
	}
	return &models.ItemListResponse{
		Items: items,
		Total: len(items),
		Page:  1,
		Limit: len(items),
	}, nil
}

func (s *memoryItemStore) ListAll(
	_ context.Context,
	userID string,
) ([]models.WardrobeItem, error) {
	var items []models.WardrobeItem
	for _, item := range s.items {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *memoryItemStore) Update(
	_ context.Context,
	userID string,
	itemUUID uuid.UUID,
	update *models.UpdateItemRequest,
) (*models.WardrobeItem, error) {
	item, ok := s.items[itemUUID]
	if !ok || item.UserID != userID {
		return nil, models.NewNotFoundError("item " + itemUUID.String())
	}
	if update.Description != nil {
		item.Description = *update.Description
	}
	if update.Colors != nil {
		item.Colors = update.Colors
	}
	s.items[itemUUID] = item
	return &item, nil
}

func (s *memoryItemStore) Delete(
	_ context.Context,
	userID string,
	itemUUID uuid.UUID,
) error {
	item, ok := s.items[itemUUID]
	if !ok || item.UserID != userID {
		return models.NewNotFoundError("item " + itemUUID.String())
	}
	delete(s.items, itemUUID)
	return nil
}

func testAppState(store models.ItemStore) *models.AppState {
	return &models.AppState{
		ItemStore: store,
		Config:    &config.Config{},
	}
}

func TestItemCRUDRoutes(t *testing.T) {
	store := newMemoryItemStore()
	router := setupRouter(testAppState(store))

	createBody := `{
		"desc": "white oxford shirt",
		"category": "Top",
		"subcategory": "Shirt",
		"colors": ["white"]
	}`
	req := httptest.NewRequest(
		http.MethodPost, "/api/v1/items", strings.NewReader(createBody),
	)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusCreated, res.Code)

	var created models.WardrobeItem
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	assert.Equal(t, "white oxford shirt", created.Description)
	assert.NotEqual(t, uuid.Nil, created.UUID)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/items/"+created.UUID.String(), nil)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	updateBody, _ := json.Marshal(map[string]interface{}{"desc": "blue oxford shirt"})
	req = httptest.NewRequest(
		http.MethodPatch,
		"/api/v1/items/"+created.UUID.String(),
		bytes.NewReader(updateBody),
	)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	var updated models.WardrobeItem
	require.NoError(t, json.NewDecoder(res.Body).Decode(&updated))
	assert.Equal(t, "blue oxford shirt", updated.Description)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	var list models.ItemListResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&list))
	assert.Equal(t, 1, list.Total)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/items/"+created.UUID.String(), nil)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/items/"+created.UUID.String(), nil)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusNotFound, res.Code)
}

func TestCreateItemValidation(t *testing.T) {
	router := setupRouter(testAppState(newMemoryItemStore()))

	// missing category and colors
	req := httptest.NewRequest(
		http.MethodPost, "/api/v1/items", strings.NewReader(`{"desc": "lonely shirt"}`),
	)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestGetItemInvalidUUID(t *testing.T) {
	router := setupRouter(testAppState(newMemoryItemStore()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items/not-a-uuid", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusBadRequest, res.Code)
}

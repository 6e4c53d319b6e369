package server

import (
	"net/http"

	"github.com/getfitted/fitted/internal"
	"github.com/getfitted/fitted/pkg/auth"
	"github.com/getfitted/fitted/pkg/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var log = internal.GetLogger()

var validate = validator.New()

const OKResponse = "OK"

// CreateItemHandler godoc
//
//	@Summary		Add a wardrobe item
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.CreateItemRequest	true	"Item"
//	@Success		201		{object}	models.WardrobeItem
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Router			/api/v1/items [post]
func CreateItemHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request models.CreateItemRequest
		if err := decodeJSON(r, &request); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}
		request.UserID = auth.UserID(r)
		if err := validate.Struct(request); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		item, err := appState.ItemStore.Create(r.Context(), &request)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		if err := encodeJSON(w, item); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetItemHandler godoc
//
//	@Summary		Returns a wardrobe item by UUID
//	@Tags			items
//	@Produce		json
//	@Param			itemUUID	path		string	true	"Item UUID"
//	@Success		200			{object}	models.WardrobeItem
//	@Failure		404			{object}	APIError	"Not Found"
//	@Failure		500			{object}	APIError	"Internal Server Error"
//	@Router			/api/v1/items/{itemUUID} [get]
func GetItemHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemUUID := parseUUIDFromURL(r, w, "itemUUID")
		if itemUUID == uuid.Nil {
			return
		}

		item, err := appState.ItemStore.Get(r.Context(), auth.UserID(r), itemUUID)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := encodeJSON(w, item); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetItemListHandler godoc
//
//	@Summary		Returns a filtered, paged list of the user's wardrobe
//	@Tags			items
//	@Produce		json
//	@Param			category	query		string	false	"Category filter"
//	@Param			color		query		string	false	"Color filter"
//	@Param			occasion	query		string	false	"Occasion filter"
//	@Param			search		query		string	false	"Description search"
//	@Param			page		query		integer	false	"Page number"
//	@Param			limit		query		integer	false	"Page size"
//	@Success		200			{object}	models.ItemListResponse
//	@Failure		500			{object}	APIError	"Internal Server Error"
//	@Router			/api/v1/items [get]
func GetItemListHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := extractQueryStringValueToInt(r, "page")
		if err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}
		limit, err := extractQueryStringValueToInt(r, "limit")
		if err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		filters := &models.ItemFilters{
			Category: r.URL.Query().Get("category"),
			Color:    r.URL.Query().Get("color"),
			Fit:      r.URL.Query().Get("fit"),
			Occasion: r.URL.Query().Get("occasion"),
			Search:   r.URL.Query().Get("search"),
			Page:     page,
			Limit:    limit,
		}

		items, err := appState.ItemStore.List(r.Context(), auth.UserID(r), filters)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := encodeJSON(w, items); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// UpdateItemHandler godoc
//
//	@Summary		Applies a partial update to a wardrobe item
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			itemUUID	path		string						true	"Item UUID"
//	@Param			item		body		models.UpdateItemRequest	true	"Update"
//	@Success		200			{object}	models.WardrobeItem
//	@Failure		404			{object}	APIError	"Not Found"
//	@Failure		500			{object}	APIError	"Internal Server Error"
//	@Router			/api/v1/items/{itemUUID} [patch]
func UpdateItemHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemUUID := parseUUIDFromURL(r, w, "itemUUID")
		if itemUUID == uuid.Nil {
			return
		}

		var request models.UpdateItemRequest
		if err := decodeJSON(r, &request); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		item, err := appState.ItemStore.Update(r.Context(), auth.UserID(r), itemUUID, &request)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := encodeJSON(w, item); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// DeleteItemHandler godoc
//
//	@Summary		Removes a wardrobe item and its persisted embedding
//	@Tags			items
//	@Param			itemUUID	path		string	true	"Item UUID"
//	@Success		200			{string}	string	"OK"
//	@Failure		404			{object}	APIError	"Not Found"
//	@Failure		500			{object}	APIError	"Internal Server Error"
//	@Router			/api/v1/items/{itemUUID} [delete]
func DeleteItemHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemUUID := parseUUIDFromURL(r, w, "itemUUID")
		if itemUUID == uuid.Nil {
			return
		}

		if err := appState.ItemStore.Delete(r.Context(), auth.UserID(r), itemUUID); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(OKResponse))
	}
}

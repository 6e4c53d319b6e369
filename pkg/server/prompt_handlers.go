package server

import (
	"net/http"

	"github.com/getfitted/fitted/pkg/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreatePromptHandler godoc
//
//	@Summary		Stores a new prompt template
//	@Tags			prompts
//	@Accept			json
//	@Produce		json
//	@Param			prompt	body		models.CreatePromptRequest	true	"Prompt"
//	@Success		201		{object}	models.Prompt
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Router			/api/v1/prompts [post]
func CreatePromptHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request models.CreatePromptRequest
		if err := decodeJSON(r, &request); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(request); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		prompt, err := appState.PromptStore.Create(r.Context(), &request)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		if err := encodeJSON(w, prompt); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetPromptHandler godoc
//
//	@Summary		Returns a prompt by UUID
//	@Tags			prompts
//	@Produce		json
//	@Param			promptUUID	path		string	true	"Prompt UUID"
//	@Success		200			{object}	models.Prompt
//	@Failure		404			{object}	APIError	"Not Found"
//	@Router			/api/v1/prompts/{promptUUID} [get]
func GetPromptHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promptUUID := parseUUIDFromURL(r, w, "promptUUID")
		if promptUUID == uuid.Nil {
			return
		}

		prompt, err := appState.PromptStore.Get(r.Context(), promptUUID)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := encodeJSON(w, prompt); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetPromptListHandler godoc
//
//	@Summary		Returns all stored prompts
//	@Tags			prompts
//	@Produce		json
//	@Success		200	{object}	[]models.Prompt
//	@Router			/api/v1/prompts [get]
func GetPromptListHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prompts, err := appState.PromptStore.List(r.Context())
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := encodeJSON(w, prompts); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetActivePromptHandler godoc
//
//	@Summary		Returns the active prompt for a prompt type
//	@Tags			prompts
//	@Produce		json
//	@Param			promptType	path		string	true	"Prompt type"
//	@Success		200			{object}	models.Prompt
//	@Failure		404			{object}	APIError	"Not Found"
//	@Router			/api/v1/prompts/active/{promptType} [get]
func GetActivePromptHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promptType := chi.URLParam(r, "promptType")

		prompt, err := appState.PromptStore.GetActive(r.Context(), promptType)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := encodeJSON(w, prompt); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// UpdatePromptHandler godoc
//
//	@Summary		Updates a prompt, bumping its version when the content changes
//	@Tags			prompts
//	@Accept			json
//	@Produce		json
//	@Param			promptUUID	path		string						true	"Prompt UUID"
//	@Param			prompt		body		models.UpdatePromptRequest	true	"Update"
//	@Success		200			{object}	models.Prompt
//	@Failure		404			{object}	APIError	"Not Found"
//	@Router			/api/v1/prompts/{promptUUID} [patch]
func UpdatePromptHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promptUUID := parseUUIDFromURL(r, w, "promptUUID")
		if promptUUID == uuid.Nil {
			return
		}

		var request models.UpdatePromptRequest
		if err := decodeJSON(r, &request); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		prompt, err := appState.PromptStore.Update(r.Context(), promptUUID, &request)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := encodeJSON(w, prompt); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// DeletePromptHandler godoc
//
//	@Summary		Removes a prompt
//	@Tags			prompts
//	@Param			promptUUID	path		string	true	"Prompt UUID"
//	@Success		200			{string}	string	"OK"
//	@Failure		404			{object}	APIError	"Not Found"
//	@Router			/api/v1/prompts/{promptUUID} [delete]
func DeletePromptHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promptUUID := parseUUIDFromURL(r, w, "promptUUID")
		if promptUUID == uuid.Nil {
			return
		}

		if err := appState.PromptStore.Delete(r.Context(), promptUUID); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(OKResponse))
	}
}

// ActivatePromptHandler godoc
//
//	@Summary		Marks a prompt active, deactivating all others of its type
//	@Tags			prompts
//	@Produce		json
//	@Param			promptUUID	path		string	true	"Prompt UUID"
//	@Success		200			{object}	models.Prompt
//	@Failure		404			{object}	APIError	"Not Found"
//	@Router			/api/v1/prompts/{promptUUID}/activate [post]
func ActivatePromptHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promptUUID := parseUUIDFromURL(r, w, "promptUUID")
		if promptUUID == uuid.Nil {
			return
		}

		prompt, err := appState.PromptStore.Activate(r.Context(), promptUUID)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := encodeJSON(w, prompt); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

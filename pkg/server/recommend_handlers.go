package server

import (
	"fmt"
	"net/http"

	"github.com/getfitted/fitted/pkg/auth"
	"github.com/getfitted/fitted/pkg/models"
	"github.com/getfitted/fitted/pkg/outfits"
)

// RecommendHandler godoc
//
//	@Summary		Generates outfit combinations for an occasion from the user's wardrobe
//	@Tags			recommend
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.RecommendRequest	true	"Recommendation request"
//	@Success		200		{object}	models.RecommendResponse
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Router			/api/v1/recommend [post]
func RecommendHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request models.RecommendRequest
		if err := decodeJSON(r, &request); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		if !models.IsValidOccasion(request.Occasion) {
			renderError(
				w,
				fmt.Errorf("invalid occasion %q", request.Occasion),
				http.StatusBadRequest,
			)
			return
		}
		maxNote := appState.Config.Server.MaxNoteLength
		if maxNote > 0 && len(request.Note) > maxNote {
			renderError(
				w,
				fmt.Errorf("note exceeds maximum length of %d characters", maxNote),
				http.StatusBadRequest,
			)
			return
		}

		response, err := outfits.Recommend(r.Context(), appState, auth.UserID(r), &request)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := encodeJSON(w, response); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

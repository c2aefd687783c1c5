package handler

import (
	"errors"
	"net/http"

	"github.com/pokedex/pokedex-go/internal/middleware"
	"github.com/pokedex/pokedex-go/internal/model"
	"github.com/pokedex/pokedex-go/internal/service"
)

// TrainerHandler handles HTTP requests for collection operations.
// Every route operates on the authenticated account's own record.
type TrainerHandler struct {
	service *service.TrainerService
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(svc *service.TrainerService) *TrainerHandler {
	return &TrainerHandler{service: svc}
}

// HandleCreate handles POST /trainer requests.
func (h *TrainerHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("user not authenticated"))
		return
	}

	var req model.CreateTrainerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Create(r.Context(), user.ID, req)
	if err != nil {
		writeTrainerError(w, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, dataResponse{Data: resp})
}

// HandleGet handles GET /trainer requests.
func (h *TrainerHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("user not authenticated"))
		return
	}

	resp, err := h.service.Get(r.Context(), user.ID)
	if err != nil {
		writeTrainerError(w, err, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Data: resp})
}

// HandleUpdate handles PUT /trainer requests.
func (h *TrainerHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("user not authenticated"))
		return
	}

	var req model.UpdateTrainerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Update(r.Context(), user.ID, req)
	if err != nil {
		writeTrainerError(w, err, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Data: resp})
}

// HandleDelete handles DELETE /trainer requests.
func (h *TrainerHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("user not authenticated"))
		return
	}

	if err := h.service.Delete(r.Context(), user.ID); err != nil {
		writeTrainerError(w, err, http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleMark handles POST /trainer/mark requests.
func (h *TrainerHandler) HandleMark(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("user not authenticated"))
		return
	}

	var req model.MarkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Mark(r.Context(), user.ID, req)
	if err != nil {
		writeTrainerError(w, err, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Data: resp})
}

// writeTrainerError maps service errors to statuses; not-found errors
// use notFoundStatus so create keeps the original API's 400.
func writeTrainerError(w http.ResponseWriter, err error, notFoundStatus int) {
	switch {
	case errors.Is(err, service.ErrTrainerNotFound), errors.Is(err, service.ErrPokemonNotFound):
		writeJSON(w, notFoundStatus, errorResponse(err.Error()))
	case errors.Is(err, service.ErrTrainerExists),
		errors.Is(err, service.ErrTrainerNameRequired),
		errors.Is(err, service.ErrImgURLRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pokedex/pokedex-go/internal/model"
	"github.com/pokedex/pokedex-go/internal/service"
)

// PokemonHandler handles HTTP requests for catalog operations.
type PokemonHandler struct {
	service *service.PokemonService
}

// NewPokemonHandler creates a new PokemonHandler.
func NewPokemonHandler(svc *service.PokemonService) *PokemonHandler {
	return &PokemonHandler{service: svc}
}

// HandleCreate handles POST /pkmn requests.
func (h *PokemonHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePokemonRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		writePokemonError(w, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, dataResponse{Data: p})
}

// HandleGetOne handles GET /pkmn?id=... or GET /pkmn?name=... requests.
func (h *PokemonHandler) HandleGetOne(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var p *model.Pokemon
	var err error
	switch {
	case q.Get("id") != "":
		var id int64
		id, err = strconv.ParseInt(q.Get("id"), 10, 64)
		if err == nil {
			p, err = h.service.GetByID(r.Context(), id)
		} else {
			err = service.ErrPokemonNotFound
		}
	case q.Get("name") != "":
		p, err = h.service.GetByName(r.Context(), q.Get("name"))
	default:
		err = service.ErrPokemonNotFound
	}

	if err != nil {
		writePokemonError(w, err, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Data: p})
}

// HandleUpdate handles PUT /pkmn?id=... requests.
func (h *PokemonHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r, "id")
	if !ok {
		return
	}

	var req model.UpdatePokemonRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		writePokemonError(w, err, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Data: p})
}

// HandleDelete handles DELETE /pkmn?id=... requests.
func (h *PokemonHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse(service.ErrPokemonNotFound.Error()))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writePokemonError(w, err, http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUpsertRegion handles POST /pkmn/region?pkmnId=... requests.
// Every failure, including an unknown pkmnId, maps to 400 here.
func (h *PokemonHandler) HandleUpsertRegion(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r, "pkmnId")
	if !ok {
		return
	}

	var region model.Region
	if !decodeBody(w, r, &region) {
		return
	}

	p, err := h.service.UpsertRegion(r.Context(), id, region)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(publicMessage(err)))
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Data: p})
}

// HandleRemoveRegion handles DELETE /pkmn/region?pkmnId=...&regionName=... requests.
func (h *PokemonHandler) HandleRemoveRegion(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r, "pkmnId")
	if !ok {
		return
	}

	regionName := r.URL.Query().Get("regionName")
	if regionName == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse(service.ErrRegionNameRequired.Error()))
		return
	}

	if err := h.service.RemoveRegion(r.Context(), id, regionName); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(publicMessage(err)))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSearch handles GET /pkmn/search requests.
func (h *PokemonHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, ok := queryInt(w, q.Get("page"), 1)
	if !ok {
		return
	}
	size, ok := queryInt(w, q.Get("size"), 20)
	if !ok {
		return
	}

	filter := model.SearchFilter{PartialName: q.Get("partialName")}
	if t := q.Get("typeOne"); t != "" {
		filter.Types = append(filter.Types, model.Type(t))
	}
	if t := q.Get("typeTwo"); t != "" {
		filter.Types = append(filter.Types, model.Type(t))
	}

	resp, err := h.service.Search(r.Context(), filter, page, size)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleTypes handles GET /pkmn/types requests.
func (h *PokemonHandler) HandleTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Types())
}

// HandleAdminCheck handles GET /pkmn/admin requests.
func (h *PokemonHandler) HandleAdminCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Accessible by admins only"})
}

// writePokemonError maps service errors to statuses: not-found keeps
// notFoundStatus (404 on reads/deletes, 400 where the original API used
// it), validation and duplicates are 400, the rest 500.
func writePokemonError(w http.ResponseWriter, err error, notFoundStatus int) {
	switch {
	case errors.Is(err, service.ErrPokemonNotFound):
		writeJSON(w, notFoundStatus, errorResponse(err.Error()))
	case errors.Is(err, service.ErrPokemonExists),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrDescriptionRequired),
		errors.Is(err, service.ErrImgURLRequired),
		errors.Is(err, service.ErrInvalidTypes),
		errors.Is(err, service.ErrRegionNameRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

// publicMessage hides internal error details behind a generic message.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrPokemonNotFound),
		errors.Is(err, service.ErrRegionNameRequired):
		return err.Error()
	default:
		return "internal server error"
	}
}

func queryID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get(param), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid "+param))
		return 0, false
	}
	return id, true
}

func queryInt(w http.ResponseWriter, raw string, fallback int) (int, bool) {
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid pagination parameter"))
		return 0, false
	}
	return n, true
}

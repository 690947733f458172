package handlers

import (
	"net/http"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/services"
)

type PoolHandler struct {
	tournamentService services.TournamentService
}

func NewPoolHandler(tournamentService services.TournamentService) *PoolHandler {
	return &PoolHandler{tournamentService: tournamentService}
}

// Create godoc
// @Summary Generate a pool play or round robin stage
// @Tags pools
// @Accept json
// @Produce json
// @Param input body services.GeneratePoolsInput true "participants and settings"
// @Success 201 {object} models.PoolStage
// @Security BearerAuth
// @Router /pools [post]
func (h *PoolHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.GeneratePoolsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	stage, err := h.tournamentService.GeneratePools(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, stage)
}

func (h *PoolHandler) Get(w http.ResponseWriter, r *http.Request) {
	stageID, ok := urlParam(w, r, "stageID")
	if !ok {
		return
	}
	view, err := h.tournamentService.GetPoolStage(r.Context(), stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view)
}

func (h *PoolHandler) Standings(w http.ResponseWriter, r *http.Request) {
	stageID, ok := urlParam(w, r, "stageID")
	if !ok {
		return
	}
	standings, err := h.tournamentService.GetStandings(r.Context(), stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"pools": standings})
}

func (h *PoolHandler) poolMatchParams(w http.ResponseWriter, r *http.Request) (stageID, poolID, matchID string, ok bool) {
	if stageID, ok = urlParam(w, r, "stageID"); !ok {
		return
	}
	if poolID, ok = urlParam(w, r, "poolID"); !ok {
		return
	}
	matchID, ok = urlParam(w, r, "matchID")
	return
}

func (h *PoolHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	stageID, poolID, matchID, ok := h.poolMatchParams(w, r)
	if !ok {
		return
	}
	match, err := h.tournamentService.StartPoolMatch(r.Context(), stageID, poolID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, match)
}

func (h *PoolHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	stageID, poolID, matchID, ok := h.poolMatchParams(w, r)
	if !ok {
		return
	}
	var score models.Score
	if err := readJSON(w, r, &score); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	stage, err := h.tournamentService.RecordPoolResult(r.Context(), stageID, poolID, matchID, score)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, stage)
}

// Advance godoc
// @Summary Build the playoff bracket from pool standings
// @Tags pools
// @Accept json
// @Produce json
// @Param stageID path string true "pool stage id"
// @Param input body services.AdvanceInput false "playoff options"
// @Success 201 {object} models.BracketSet
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /pools/{stageID}/advance [post]
func (h *PoolHandler) Advance(w http.ResponseWriter, r *http.Request) {
	stageID, ok := urlParam(w, r, "stageID")
	if !ok {
		return
	}
	var input services.AdvanceInput
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}
	set, err := h.tournamentService.AdvancePools(r.Context(), stageID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, set)
}

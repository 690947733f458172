package handlers

import (
	"fmt"
	"net/http"

	"github.com/skip2/go-qrcode"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/services"
)

const qrCodeSize = 256

type BracketHandler struct {
	tournamentService services.TournamentService
	publicBaseURL     string
}

func NewBracketHandler(tournamentService services.TournamentService, publicBaseURL string) *BracketHandler {
	return &BracketHandler{tournamentService: tournamentService, publicBaseURL: publicBaseURL}
}

// Create godoc
// @Summary Generate an elimination bracket set
// @Tags brackets
// @Accept json
// @Produce json
// @Param input body services.GenerateBracketInput true "participants and settings"
// @Success 201 {object} models.BracketSet
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /brackets [post]
func (h *BracketHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.GenerateBracketInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	set, err := h.tournamentService.GenerateBracket(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, set)
}

// Get godoc
// @Summary Get a bracket set
// @Tags brackets
// @Produce json
// @Param setID path string true "bracket set id"
// @Success 200 {object} models.BracketSet
// @Failure 404 {object} map[string]string
// @Router /brackets/{setID} [get]
func (h *BracketHandler) Get(w http.ResponseWriter, r *http.Request) {
	setID, ok := urlParam(w, r, "setID")
	if !ok {
		return
	}
	set, err := h.tournamentService.GetBracketSet(r.Context(), setID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, set)
}

func (h *BracketHandler) Progress(w http.ResponseWriter, r *http.Request) {
	setID, ok := urlParam(w, r, "setID")
	if !ok {
		return
	}
	view, err := h.tournamentService.GetBracketProgress(r.Context(), setID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view)
}

// Next returns the match that should be called next, or null when nothing
// is ready.
func (h *BracketHandler) Next(w http.ResponseWriter, r *http.Request) {
	setID, ok := urlParam(w, r, "setID")
	if !ok {
		return
	}
	view, err := h.tournamentService.GetBracketProgress(r.Context(), setID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"match": view.Next})
}

// QRCode serves a PNG that links spectators to the bracket page.
func (h *BracketHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	setID, ok := urlParam(w, r, "setID")
	if !ok {
		return
	}
	if _, err := h.tournamentService.GetBracketSet(r.Context(), setID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	png, err := qrcode.Encode(fmt.Sprintf("%s/brackets/%s", h.publicBaseURL, setID), qrcode.Medium, qrCodeSize)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("encode qr code: %w", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *BracketHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	setID, ok := urlParam(w, r, "setID")
	if !ok {
		return
	}
	matchID, ok := urlParam(w, r, "matchID")
	if !ok {
		return
	}
	match, err := h.tournamentService.StartBracketMatch(r.Context(), setID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, match)
}

// RecordResult godoc
// @Summary Record a bracket match result
// @Tags brackets
// @Accept json
// @Produce json
// @Param setID path string true "bracket set id"
// @Param matchID path string true "match id, e.g. R1M2"
// @Param score body models.Score true "game scores"
// @Success 200 {object} models.BracketSet
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /brackets/{setID}/matches/{matchID}/result [post]
func (h *BracketHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	setID, ok := urlParam(w, r, "setID")
	if !ok {
		return
	}
	matchID, ok := urlParam(w, r, "matchID")
	if !ok {
		return
	}
	var score models.Score
	if err := readJSON(w, r, &score); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	set, err := h.tournamentService.RecordBracketResult(r.Context(), setID, matchID, score)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, set)
}

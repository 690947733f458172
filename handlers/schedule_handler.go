package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/services"
)

// ScheduleHandler serves the stateless planning helpers.
type ScheduleHandler struct {
	tournamentService services.TournamentService
}

func NewScheduleHandler(tournamentService services.TournamentService) *ScheduleHandler {
	return &ScheduleHandler{tournamentService: tournamentService}
}

type validateRequest struct {
	Format models.FormatType `json:"format"`
	Count  int               `json:"count"`
}

// Validate godoc
// @Summary Check whether a participant count suits a format
// @Tags schedules
// @Accept json
// @Produce json
// @Param input body validateRequest true "format and count"
// @Success 200 {object} brackets.ValidationResult
// @Router /validate [post]
func (h *ScheduleHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var input validateRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Format == "" {
		badRequestResponse(w, r, errors.New("format is required"))
		return
	}
	respond(w, r, http.StatusOK, h.tournamentService.ValidateParticipants(input.Format, input.Count))
}

func (h *ScheduleHandler) RotatingPartners(w http.ResponseWriter, r *http.Request) {
	var input services.RotatingPartnersInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matches, err := h.tournamentService.ScheduleRotatingPartners(input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"matches": matches})
}

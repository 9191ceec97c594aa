package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carromhq/tournament-engine/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(standingsService services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: standingsService}
}

func (h *StandingsHandler) All(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.AllGroupStandings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) Group(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	group := chi.URLParam(r, "group")

	standings, err := h.standingsService.GroupStandings(r.Context(), tournamentID, group)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

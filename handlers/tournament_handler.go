package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/carromhq/tournament-engine/models"
	"github.com/carromhq/tournament-engine/repositories"
	"github.com/carromhq/tournament-engine/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	bracketService    services.BracketService
}

func NewTournamentHandler(tournamentService services.TournamentService, bracketService services.BracketService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: tournamentService,
		bracketService:    bracketService,
	}
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name      string    `json:"name"`
		StartDate time.Time `json:"start_date"`
	}

	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input.Name, input.StartDate)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) RegisterTeams(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Teams []services.TeamInput `json:"teams"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.tournamentService.RegisterTeams(r.Context(), tournamentID, input.Teams)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"teams": teams}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) DivideIntoGroups(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	shuffle := r.URL.Query().Get("shuffle") == "true"

	groups, err := h.tournamentService.DivideIntoGroups(r.Context(), tournamentID, shuffle)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"groups": groups}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GenerateGroupFixtures(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.tournamentService.GenerateGroupFixtures(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ScheduleMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Start            time.Time `json:"start"`
		DurationMinutes  int       `json:"duration_minutes,omitempty"`
		ParallelMatches  int       `json:"parallel_matches,omitempty"`
		AvoidTeamClashes bool      `json:"avoid_team_clashes,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Start.IsZero() {
		badRequestResponse(w, r, errors.New("start is required"))
		return
	}

	opts := services.ScheduleOptions{
		MatchDuration:    time.Duration(input.DurationMinutes) * time.Minute,
		ParallelCapacity: input.ParallelMatches,
		AvoidTeamClashes: input.AvoidTeamClashes,
	}

	matches, err := h.tournamentService.ScheduleMatches(r.Context(), tournamentID, input.Start, opts)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var filter repositories.MatchFilter
	query := r.URL.Query()

	if raw := query.Get("stage"); raw != "" {
		stage := models.Stage(raw)
		if !stage.Valid() {
			badRequestResponse(w, r, errors.New("invalid stage filter"))
			return
		}
		filter.Stage = &stage
	}
	if raw := query.Get("group"); raw != "" {
		group := raw
		filter.Group = &group
	}
	if raw := query.Get("status"); raw != "" {
		status := models.MatchStatus(raw)
		if status != models.MatchStatusScheduled && status != models.MatchStatusCompleted {
			badRequestResponse(w, r, errors.New("invalid status filter"))
			return
		}
		filter.Status = &status
	}

	matches, err := h.tournamentService.ListMatches(r.Context(), tournamentID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) AdvanceStage(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		From string `json:"from"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.bracketService.AdvanceStage(r.Context(), tournamentID, models.Stage(input.From))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// Продвижение финала не создает матчей — турнир завершен.
	if matches == nil {
		err = writeJSON(w, http.StatusOK, jsonResponse{"status": models.StatusCompleted}, nil)
	} else {
		err = writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil)
	}
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ResetFromStage(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Stage string `json:"stage"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.bracketService.ResetFromStage(r.Context(), tournamentID, models.Stage(input.Stage)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"message": "stage reset"}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) Champion(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	champion, err := h.tournamentService.Champion(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"champion": champion}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

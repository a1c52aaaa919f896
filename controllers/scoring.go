package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"kalamela-backend/models"
	"kalamela-backend/services"
	"kalamela-backend/utils"
)

// ScoringController records marks and serves the published results.
type ScoringController struct {
	DB     *gorm.DB
	Ledger *services.Ledger
	Stats  *services.Statistics
}

type scoreIndividualRequest struct {
	EventID int                   `json:"event_id" validate:"required"`
	Scores  []services.ScoreInput `json:"scores" validate:"required,min=1"`
}

func (c *ScoringController) ScoreIndividualEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req scoreIndividualRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		cards, err := c.Ledger.ScoreIndividualEvent(req.EventID, req.Scores)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, cards)
	}
}

type scoreGroupRequest struct {
	EventName string                     `json:"event_name" validate:"required"`
	Scores    []services.GroupScoreInput `json:"scores" validate:"required,min=1"`
}

func (c *ScoringController) ScoreGroupEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req scoreGroupRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		cards, err := c.Ledger.ScoreGroupEvent(req.EventName, req.Scores)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, cards)
	}
}

// RecalculateRanks refreshes one event's ranks after mark corrections. The
// event type is selected by the `type` query parameter.
func (c *ScoringController) RecalculateRanks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var updated int
		if models.EventType(r.URL.Query().Get("type")) == models.EventTypeGroup {
			updated, err = c.Ledger.RecalculateGroupRanks(r.URL.Query().Get("event_name"))
		} else {
			var eventID int
			eventID, err = utils.StrToInt(mux.Vars(r)["id"])
			if err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid event id"})
				return
			}
			updated, err = c.Ledger.RecalculateIndividualRanks(eventID)
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, map[string]int{"updated": updated})
	}
}

// TopIndividualResults is a public read; `event_id` and `limit` query
// parameters are optional.
func (c *ScoringController) TopIndividualResults() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, _ := utils.StrToInt(r.URL.Query().Get("event_id"))
		limit, _ := utils.StrToInt(r.URL.Query().Get("limit"))

		cards, err := c.Ledger.TopIndividualResults(eventID, limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, cards)
	}
}

func (c *ScoringController) TopGroupResults() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := utils.StrToInt(r.URL.Query().Get("limit"))

		cards, err := c.Ledger.TopGroupResults(r.URL.Query().Get("event_name"), limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, cards)
	}
}

// Champions is the public championship read: the leading male and female
// all-round performers.
func (c *ScoringController) Champions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kalaprathibha, kalathilakam, err := c.Stats.Champions()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, map[string]*services.Champion{
			"kalaprathibha": kalaprathibha,
			"kalathilakam":  kalathilakam,
		})
	}
}

func (c *ScoringController) BackfillGrades() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		updated, err := c.Ledger.BackfillGrades()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, map[string]int{"updated": updated})
	}
}

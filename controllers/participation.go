package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"kalamela-backend/models"
	"kalamela-backend/services"
	"kalamela-backend/utils"
)

// ParticipationController handles event registration for unit officials.
type ParticipationController struct {
	DB        *gorm.DB
	Registrar *services.Registrar
	Roster    *services.Roster
}

type registerIndividualRequest struct {
	EventID       int `json:"event_id" validate:"required"`
	ParticipantID int `json:"participant_id" validate:"required"`
}

func (c *ParticipationController) RegisterIndividual() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		official, status, err := authorize(c.DB, r, models.RoleOfficial, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req registerIndividualRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		var member models.Member
		if err := c.DB.First(&member, req.ParticipantID).Error; err != nil {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Participant not found"})
			return
		}
		bucket, err := c.Roster.SeniorityFor(member.DOB)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if bucket != string(models.SeniorityJunior) && bucket != string(models.SenioritySenior) {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Participant's date of birth is outside the eligible range"})
			return
		}

		participation, err := c.Registrar.RegisterIndividual(
			req.EventID, req.ParticipantID, official.ID, models.SeniorityCategory(bucket))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, participation)
	}
}

type registerGroupRequest struct {
	EventID        int   `json:"event_id" validate:"required"`
	ParticipantIDs []int `json:"participant_ids" validate:"required,min=1,dive,required"`
}

func (c *ParticipationController) RegisterGroupTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		official, status, err := authorize(c.DB, r, models.RoleOfficial, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req registerGroupRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		rows, err := c.Registrar.RegisterGroupTeam(req.EventID, req.ParticipantIDs, official.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, rows)
	}
}

func (c *ParticipationController) RemoveIndividual() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		id, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid participation id"})
			return
		}

		if err := c.Registrar.RemoveIndividual(id); err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Participation removed"})
	}
}

func (c *ParticipationController) RemoveGroup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		id, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid participation id"})
			return
		}

		if err := c.Registrar.RemoveGroup(id); err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Participation removed"})
	}
}

// MyDistrictIndividual lists the official's district registrations grouped by
// event.
func (c *ParticipationController) MyDistrictIndividual() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		official, status, err := authorize(c.DB, r, models.RoleOfficial, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		grouped, err := c.Registrar.ListIndividualParticipations(official.DistrictID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, grouped)
	}
}

func (c *ParticipationController) MyDistrictGroup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		official, status, err := authorize(c.DB, r, models.RoleOfficial, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		grouped, err := c.Registrar.ListGroupParticipations(official.DistrictID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, grouped)
	}
}

// EligibleMembers lists district members still eligible for an event. The
// event type is selected by the `type` query parameter.
func (c *ParticipationController) EligibleMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		official, status, err := authorize(c.DB, r, models.RoleOfficial, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		eventID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid event id"})
			return
		}

		var members []models.Member
		switch models.EventType(r.URL.Query().Get("type")) {
		case models.EventTypeGroup:
			var event models.GroupEvent
			if err := c.DB.First(&event, eventID).Error; err != nil {
				utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Event not found"})
				return
			}
			members, err = c.Roster.EligibleGroupMembers(&event, official.DistrictID, official.UnitID)
		default:
			var event models.IndividualEvent
			if err := c.DB.First(&event, eventID).Error; err != nil {
				utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Event not found"})
				return
			}
			members, err = c.Roster.EligibleIndividualMembers(&event, official.DistrictID, 0)
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, members)
	}
}

package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"kalamela-backend/models"
	"kalamela-backend/services"
	"kalamela-backend/utils"
)

// RosterController manages exclusions and member archival.
type RosterController struct {
	DB     *gorm.DB
	Roster *services.Roster
}

type excludeRequest struct {
	MemberID int `json:"member_id" validate:"required"`
}

func (c *RosterController) ExcludeMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req excludeRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		entry, err := c.Roster.Exclude(req.MemberID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, entry)
	}
}

func (c *RosterController) RemoveExclusion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		id, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid exclusion id"})
			return
		}

		if err := c.Roster.RemoveExclusion(id); err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "Exclusion removed"})
	}
}

func (c *RosterController) ListExclusions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var entries []models.ExclusionEntry
		if err := c.DB.Preload("Member").Find(&entries).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, entries)
	}
}

// ArchiveMember moves a member off the active roster.
func (c *RosterController) ArchiveMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		id, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid member id"})
			return
		}

		archived, err := c.Roster.Archive(id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, archived)
	}
}

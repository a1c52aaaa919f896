package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"kalamela-backend/models"
	"kalamela-backend/services"
	"kalamela-backend/utils"
)

// ScheduleController manages stage slots for event day.
type ScheduleController struct {
	DB        *gorm.DB
	Scheduler *services.Scheduler
}

type scheduleRequest struct {
	EventID   int              `json:"event_id" validate:"required"`
	EventType models.EventType `json:"event_type" validate:"required,oneof=individual group"`
	StageName string           `json:"stage_name" validate:"required"`
	StartTime time.Time        `json:"start_time" validate:"required"`
	EndTime   time.Time        `json:"end_time" validate:"required"`
}

func (c *ScheduleController) CreateSchedule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req scheduleRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		slot, err := c.Scheduler.Schedule(models.EventSchedule{
			EventID:     req.EventID,
			EventType:   req.EventType,
			StageName:   req.StageName,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			CreatedByID: &admin.ID,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, slot)
	}
}

type rescheduleRequest struct {
	StageName string    `json:"stage_name"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

func (c *ScheduleController) Reschedule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		id, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid schedule id"})
			return
		}

		var req rescheduleRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		slot, err := c.Scheduler.Reschedule(id, req.StageName, req.StartTime, req.EndTime)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, slot)
	}
}

type scheduleStatusRequest struct {
	Status models.ScheduleStatus `json:"status" validate:"required,oneof=Scheduled Ongoing Completed Cancelled Postponed"`
}

func (c *ScheduleController) SetScheduleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		id, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid schedule id"})
			return
		}

		var req scheduleStatusRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		slot, err := c.Scheduler.SetStatus(id, req.Status)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, slot)
	}
}

// GetSchedules is a public read, optionally filtered by stage.
func (c *ScheduleController) GetSchedules() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slots, err := c.Scheduler.ListSchedules(r.URL.Query().Get("stage"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, slots)
	}
}

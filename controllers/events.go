package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"kalamela-backend/models"
	"kalamela-backend/utils"
)

// EventController manages the event catalogue: categories, fees, individual
// and group events.
type EventController struct {
	DB *gorm.DB
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (c *EventController) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req categoryRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		category := models.EventCategory{Name: req.Name, Description: req.Description}
		if err := c.DB.Create(&category).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, category)
	}
}

func (c *EventController) GetCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var categories []models.EventCategory
		if err := c.DB.Order("name").Find(&categories).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, categories)
	}
}

type feeRequest struct {
	Name      string           `json:"name" validate:"required"`
	EventType models.EventType `json:"event_type" validate:"required,oneof=individual group"`
	Amount    int              `json:"amount" validate:"required,min=0"`
}

func (c *EventController) CreateFee() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req feeRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		fee := models.RegistrationFee{Name: req.Name, EventType: req.EventType, Amount: req.Amount}
		if err := c.DB.Create(&fee).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, fee)
	}
}

func (c *EventController) GetFees() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fees []models.RegistrationFee
		if err := c.DB.Order("event_type, name").Find(&fees).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, fees)
	}
}

type individualEventRequest struct {
	Name                 string                   `json:"name" validate:"required"`
	CategoryID           *int                     `json:"category_id"`
	RegistrationFeeID    *int                     `json:"registration_fee_id"`
	Description          string                   `json:"description"`
	IsMandatory          bool                     `json:"is_mandatory"`
	GenderRestriction    models.GenderRestriction `json:"gender_restriction" validate:"omitempty,oneof=Male Female"`
	SeniorityRestriction models.SeniorityCategory `json:"seniority_restriction" validate:"omitempty,oneof=Junior Senior"`
}

func (c *EventController) CreateIndividualEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req individualEventRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		event := models.IndividualEvent{
			Name:                 req.Name,
			CategoryID:           req.CategoryID,
			RegistrationFeeID:    req.RegistrationFeeID,
			Description:          req.Description,
			IsMandatory:          req.IsMandatory,
			IsActive:             true,
			GenderRestriction:    req.GenderRestriction,
			SeniorityRestriction: req.SeniorityRestriction,
		}
		if err := c.DB.Create(&event).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, event)
	}
}

func (c *EventController) GetIndividualEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := c.DB.Preload("Category").Order("name")
		if r.URL.Query().Get("all") == "" {
			q = q.Where("is_active = ?", true)
		}
		var events []models.IndividualEvent
		if err := q.Find(&events).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, events)
	}
}

type groupEventRequest struct {
	Name                 string                   `json:"name" validate:"required"`
	CategoryID           *int                     `json:"category_id"`
	RegistrationFeeID    *int                     `json:"registration_fee_id"`
	Description          string                   `json:"description"`
	IsMandatory          bool                     `json:"is_mandatory"`
	GenderRestriction    models.GenderRestriction `json:"gender_restriction" validate:"omitempty,oneof=Male Female"`
	SeniorityRestriction models.SeniorityCategory `json:"seniority_restriction" validate:"omitempty,oneof=Junior Senior"`
	MaxAllowedLimit      int                      `json:"max_allowed_limit" validate:"required,min=1"`
	MinAllowedLimit      int                      `json:"min_allowed_limit" validate:"required,min=1"`
	PerUnitAllowedLimit  int                      `json:"per_unit_allowed_limit" validate:"required,min=1"`
}

func (c *EventController) CreateGroupEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req groupEventRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}
		if req.MinAllowedLimit > req.MaxAllowedLimit {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Minimum limit cannot exceed maximum limit"})
			return
		}

		event := models.GroupEvent{
			Name:                 req.Name,
			CategoryID:           req.CategoryID,
			RegistrationFeeID:    req.RegistrationFeeID,
			Description:          req.Description,
			IsMandatory:          req.IsMandatory,
			IsActive:             true,
			GenderRestriction:    req.GenderRestriction,
			SeniorityRestriction: req.SeniorityRestriction,
			MaxAllowedLimit:      req.MaxAllowedLimit,
			MinAllowedLimit:      req.MinAllowedLimit,
			PerUnitAllowedLimit:  req.PerUnitAllowedLimit,
		}
		if err := c.DB.Create(&event).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, event)
	}
}

func (c *EventController) GetGroupEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := c.DB.Preload("Category").Order("name")
		if r.URL.Query().Get("all") == "" {
			q = q.Where("is_active = ?", true)
		}
		var events []models.GroupEvent
		if err := q.Find(&events).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, events)
	}
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// SetEventActive toggles an event's availability. The event type is selected
// by the `type` query parameter.
func (c *EventController) SetEventActive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		id, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid event id"})
			return
		}

		var req setActiveRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		if models.EventType(r.URL.Query().Get("type")) == models.EventTypeGroup {
			var event models.GroupEvent
			if err := c.DB.First(&event, id).Error; err != nil {
				utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Event not found"})
				return
			}
			event.IsActive = *req.IsActive
			if err := c.DB.Save(&event).Error; err != nil {
				writeServiceError(w, err)
				return
			}
			utils.ResponseJSON(w, event)
			return
		}

		var event models.IndividualEvent
		if err := c.DB.First(&event, id).Error; err != nil {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Event not found"})
			return
		}
		event.IsActive = *req.IsActive
		if err := c.DB.Save(&event).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, event)
	}
}

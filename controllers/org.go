package controllers

import (
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kalamela-backend/models"
	"kalamela-backend/utils"
)

// OrgController manages the organisational base data: districts, units,
// members and registering officials.
type OrgController struct {
	DB *gorm.DB
}

type districtRequest struct {
	Name string `json:"name" validate:"required"`
}

func (c *OrgController) CreateDistrict() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req districtRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		district := models.District{Name: req.Name}
		if err := c.DB.Create(&district).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, district)
	}
}

func (c *OrgController) GetDistricts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var districts []models.District
		if err := c.DB.Order("name").Find(&districts).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, districts)
	}
}

type unitRequest struct {
	Name       string `json:"name" validate:"required"`
	DistrictID int    `json:"district_id" validate:"required"`
}

func (c *OrgController) CreateUnit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req unitRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		var district models.District
		if err := c.DB.First(&district, req.DistrictID).Error; err != nil {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "District not found"})
			return
		}

		unit := models.Unit{Name: req.Name, DistrictID: req.DistrictID}
		if err := c.DB.Create(&unit).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, unit)
	}
}

func (c *OrgController) GetUnits() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := c.DB.Preload("District").Order("name")
		if districtID, err := utils.StrToInt(r.URL.Query().Get("district_id")); err == nil && districtID != 0 {
			q = q.Where("district_id = ?", districtID)
		}
		var units []models.Unit
		if err := q.Find(&units).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, units)
	}
}

type memberRequest struct {
	Name   string        `json:"name" validate:"required"`
	Gender models.Gender `json:"gender" validate:"required,oneof=M F"`
	DOB    string        `json:"dob" validate:"required"`
	Phone  string        `json:"phone"`
}

// CreateMember adds a member to the official's own unit.
func (c *OrgController) CreateMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		official, status, err := authorize(c.DB, r, models.RoleOfficial, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req memberRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}
		dob, err := time.Parse("2006-01-02", req.DOB)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid date of birth, expected YYYY-MM-DD"})
			return
		}

		member := models.Member{
			Name:   req.Name,
			Gender: req.Gender,
			DOB:    &dob,
			Phone:  req.Phone,
			UnitID: official.UnitID,
		}
		if err := c.DB.Create(&member).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, member)
	}
}

// GetMembers lists the official's unit roster.
func (c *OrgController) GetMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		official, status, err := authorize(c.DB, r, models.RoleOfficial, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		q := c.DB.Preload("Unit").Order("name")
		if official.Role == models.RoleOfficial {
			q = q.Where("unit_id = ?", official.UnitID)
		}
		var members []models.Member
		if err := q.Find(&members).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, members)
	}
}

type userRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Name       string `json:"name" validate:"required"`
	Role       string `json:"role" validate:"required,oneof=official admin"`
	UnitID     int    `json:"unit_id"`
	DistrictID int    `json:"district_id"`
}

// CreateUser registers an official or admin account.
func (c *OrgController) CreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req userRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		if req.Role == models.RoleOfficial {
			var unit models.Unit
			if err := c.DB.First(&unit, req.UnitID).Error; err != nil {
				utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Unit not found"})
				return
			}
			req.DistrictID = unit.DistrictID
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		user := models.User{
			Email:      req.Email,
			Password:   string(hash),
			Name:       req.Name,
			Role:       req.Role,
			UnitID:     req.UnitID,
			DistrictID: req.DistrictID,
		}
		if err := c.DB.Create(&user).Error; err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, user)
	}
}

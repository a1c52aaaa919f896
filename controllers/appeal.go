package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"kalamela-backend/models"
	"kalamela-backend/services"
	"kalamela-backend/utils"
)

// AppealController files and resolves score appeals.
type AppealController struct {
	DB   *gorm.DB
	Desk *services.AppealDesk
}

type fileAppealRequest struct {
	MemberID    int    `json:"member_id" validate:"required"`
	ChestNumber string `json:"chest_number" validate:"required"`
	EventName   string `json:"event_name" validate:"required"`
	Statement   string `json:"statement" validate:"required,max=1000"`
}

func (c *AppealController) FileAppeal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleOfficial, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req fileAppealRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		appeal, err := c.Desk.FileAppeal(req.MemberID, req.ChestNumber, req.EventName, req.Statement)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, appeal)
	}
}

func (c *AppealController) ListAppeals() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		appeals, err := c.Desk.ListAppeals(models.AppealStatus(r.URL.Query().Get("status")))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, appeals)
	}
}

type resolveAppealRequest struct {
	Status models.AppealStatus `json:"status" validate:"required,oneof=Approved Rejected"`
	Reply  string              `json:"reply" validate:"required,max=1000"`
}

func (c *AppealController) ResolveAppeal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		id, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid appeal id"})
			return
		}

		var req resolveAppealRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		appeal, err := c.Desk.Resolve(id, req.Status, req.Reply)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, appeal)
	}
}

type appealPaymentStatusRequest struct {
	Status models.PaymentStatus `json:"status" validate:"required,oneof=Paid Declined"`
}

func (c *AppealController) SetAppealPaymentStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		id, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid appeal id"})
			return
		}

		var req appealPaymentStatusRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		payment, err := c.Desk.SetAppealPaymentStatus(id, req.Status)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, payment)
	}
}

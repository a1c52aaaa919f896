package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"kalamela-backend/models"
	"kalamela-backend/services"
	"kalamela-backend/utils"
)

const maxProofSize = 10 << 20 // 10 MB

// PaymentController handles district registration payments and proof
// uploads.
type PaymentController struct {
	DB       *gorm.DB
	Payments *services.Payments
	Stats    *services.Statistics
}

// CreatePayment opens the district's payment from current registration
// counts, with an optional multipart proof attached in the same request.
func (c *PaymentController) CreatePayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		official, status, err := authorize(c.DB, r, models.RoleOfficial)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		payment, err := c.Payments.CreatePayment(official.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if err := r.ParseMultipartForm(maxProofSize); err == nil {
			if file, header, err := r.FormFile("proof"); err == nil {
				defer file.Close()
				key := fmt.Sprintf("proofs/%s%s", uuid.NewString(), filepath.Ext(header.Filename))
				url, err := utils.UploadFileToS3(file, key)
				if err != nil {
					writeServiceError(w, err)
					return
				}
				payment, _, err = c.Payments.AttachProof(payment.ID, url)
				if err != nil {
					writeServiceError(w, err)
					return
				}
			}
		}
		utils.ResponseJSON(w, payment)
	}
}

// UploadProof attaches or replaces the proof on a pending payment.
func (c *PaymentController) UploadProof() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleOfficial, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		id, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid payment id"})
			return
		}

		if err := r.ParseMultipartForm(maxProofSize); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid multipart form"})
			return
		}
		file, header, err := r.FormFile("proof")
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Proof file missing"})
			return
		}
		defer file.Close()

		key := fmt.Sprintf("proofs/%s%s", uuid.NewString(), filepath.Ext(header.Filename))
		url, err := utils.UploadFileToS3(file, key)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		payment, replaced, err := c.Payments.AttachProof(id, url)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if replaced != "" {
			if err := utils.DeleteFileFromS3(replaced); err != nil {
				log.WithError(err).WithField("payment_id", id).Warn("failed to delete replaced proof")
			}
		}
		utils.ResponseJSON(w, payment)
	}
}

type paymentStatusRequest struct {
	Status models.PaymentStatus `json:"status" validate:"required,oneof=Paid Declined"`
}

func (c *PaymentController) SetPaymentStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		id, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid payment id"})
			return
		}

		var req paymentStatusRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		payment, err := c.Payments.SetStatus(id, req.Status)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, payment)
	}
}

func (c *PaymentController) ListPayments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		payments, err := c.Payments.ListPayments(models.PaymentStatus(r.URL.Query().Get("status")))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, payments)
	}
}

// MyDistrictPayment shows the official's latest district payment.
func (c *PaymentController) MyDistrictPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		official, status, err := authorize(c.DB, r, models.RoleOfficial, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		payment, err := c.Payments.DistrictPayment(official.DistrictID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, payment)
	}
}

func (c *PaymentController) DistrictStatistics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleOfficial, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		districtID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid district id"})
			return
		}

		stats, err := c.Stats.ForDistrict(districtID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, stats)
	}
}

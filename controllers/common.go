package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"kalamela-backend/models"
	"kalamela-backend/services"
	"kalamela-backend/utils"
)

var validate = validator.New()

// authorize verifies the bearer token, loads the acting user and checks the
// role when one or more roles are required.
func authorize(db *gorm.DB, r *http.Request, roles ...string) (*models.User, int, error) {
	userID, err := utils.VerifyToken(r)
	if err != nil {
		return nil, http.StatusUnauthorized, err
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, http.StatusUnauthorized, err
	}

	if len(roles) == 0 {
		return &user, 0, nil
	}
	for _, role := range roles {
		if user.Role == role {
			return &user, 0, nil
		}
	}
	return nil, http.StatusForbidden, errForbidden
}

var errForbidden = &roleError{}

type roleError struct{}

func (e *roleError) Error() string { return "Access denied for this role" }

// decodeAndValidate reads a JSON body into dst and runs validator tags.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// writeServiceError maps a service error to an HTTP response: rejections use
// their reason string with 404 for missing records and 400 otherwise, and
// anything unexpected is logged and masked as a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	if services.IsRejection(err) {
		status := http.StatusBadRequest
		if services.KindOf(err) == services.KindNotFound {
			status = http.StatusNotFound
		}
		utils.RespondWithError(w, status, models.Error{Message: err.Error()})
		return
	}
	log.WithError(err).Error("request failed")
	utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Internal server error"})
}

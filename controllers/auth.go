package controllers

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kalamela-backend/models"
	"kalamela-backend/utils"
)

const sessionDuration = 24 * time.Hour

// AuthController issues and inspects session tokens.
type AuthController struct {
	DB *gorm.DB
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (c *AuthController) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		var user models.User
		if err := c.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Invalid email or password"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Invalid email or password"})
			return
		}

		token, err := utils.GenerateToken(user, sessionDuration)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, loginResponse{Token: token, User: user})
	}
}

// Session reports whether the presented bearer token is still usable, so the
// frontend can prompt for a fresh login before a request fails.
func (c *AuthController) Session() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "Authorization header missing"})
			return
		}
		utils.ResponseJSON(w, map[string]bool{"expired": utils.IsTokenExpired(parts[1])})
	}
}

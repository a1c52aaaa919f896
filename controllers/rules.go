package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"kalamela-backend/models"
	"kalamela-backend/services"
	"kalamela-backend/utils"
)

// RuleController exposes the admin view of the tunable rules table.
type RuleController struct {
	DB    *gorm.DB
	Rules *services.RuleStore
}

func (c *RuleController) ListRules() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		rules, err := c.Rules.ListRules()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, rules)
	}
}

type updateRuleRequest struct {
	RuleKey   string `json:"rule_key" validate:"required"`
	RuleValue string `json:"rule_value" validate:"required"`
}

func (c *RuleController) UpdateRule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin, status, err := authorize(c.DB, r, models.RoleAdmin)
		if err != nil {
			utils.RespondWithError(w, status, models.Error{Message: err.Error()})
			return
		}

		var req updateRuleRequest
		if err := decodeAndValidate(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request body"})
			return
		}

		rule, err := c.Rules.UpdateRule(req.RuleKey, req.RuleValue, admin.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseJSON(w, rule)
	}
}

package models

import "time"

// Rule is an admin-managed configuration row: age restrictions, participation
// limits and fee amounts, keyed by rule_key.
type Rule struct {
	ID          int          `json:"id" gorm:"primaryKey"`
	RuleKey     string       `json:"rule_key" gorm:"uniqueIndex;not null"`
	Category    RuleCategory `json:"rule_category" gorm:"type:varchar(32);not null"`
	RuleValue   string       `json:"rule_value" gorm:"not null"`
	DisplayName string       `json:"display_name" gorm:"not null"`
	Description string       `json:"description" gorm:"type:varchar(500)"`
	IsActive    bool         `json:"is_active" gorm:"not null"`
	CreatedOn   time.Time    `json:"created_on" gorm:"autoCreateTime"`
	UpdatedOn   time.Time    `json:"updated_on" gorm:"autoUpdateTime"`
	UpdatedByID *int         `json:"updated_by_id"`
}

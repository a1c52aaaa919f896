package models

import "time"

// EventCategory groups events for listings and championship aggregation.
type EventCategory struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedOn   time.Time `json:"created_on" gorm:"autoCreateTime"`
}

// RegistrationFee is the configured per-event fee used when computing the
// amount a district owes.
type RegistrationFee struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	EventType EventType `json:"event_type" gorm:"type:varchar(16);not null"`
	Amount    int       `json:"amount" gorm:"not null;default:0"`
	CreatedOn time.Time `json:"created_on" gorm:"autoCreateTime"`
}

type IndividualEvent struct {
	ID                   int               `json:"id" gorm:"primaryKey"`
	Name                 string            `json:"name" gorm:"uniqueIndex;not null"`
	CategoryID           *int              `json:"category_id"`
	Category             *EventCategory    `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	RegistrationFeeID    *int              `json:"registration_fee_id"`
	Description          string            `json:"description"`
	IsMandatory          bool              `json:"is_mandatory" gorm:"not null;default:false"`
	IsActive             bool              `json:"is_active" gorm:"not null;default:true"`
	GenderRestriction    GenderRestriction `json:"gender_restriction" gorm:"type:varchar(16)"`
	SeniorityRestriction SeniorityCategory `json:"seniority_restriction" gorm:"type:varchar(16)"`
	CreatedOn            time.Time         `json:"created_on" gorm:"autoCreateTime"`
}

type GroupEvent struct {
	ID                   int               `json:"id" gorm:"primaryKey"`
	Name                 string            `json:"name" gorm:"uniqueIndex;not null"`
	CategoryID           *int              `json:"category_id"`
	Category             *EventCategory    `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	RegistrationFeeID    *int              `json:"registration_fee_id"`
	Description          string            `json:"description"`
	IsMandatory          bool              `json:"is_mandatory" gorm:"not null;default:false"`
	IsActive             bool              `json:"is_active" gorm:"not null;default:true"`
	GenderRestriction    GenderRestriction `json:"gender_restriction" gorm:"type:varchar(16)"`
	SeniorityRestriction SeniorityCategory `json:"seniority_restriction" gorm:"type:varchar(16)"`
	// MaxAllowedLimit caps registrations per district, PerUnitAllowedLimit
	// caps how many participants one unit may contribute.
	MaxAllowedLimit     int       `json:"max_allowed_limit" gorm:"not null;default:2"`
	MinAllowedLimit     int       `json:"min_allowed_limit" gorm:"not null;default:1"`
	PerUnitAllowedLimit int       `json:"per_unit_allowed_limit" gorm:"not null;default:1"`
	CreatedOn           time.Time `json:"created_on" gorm:"autoCreateTime"`
}

package models

import "time"

// User is a registered account (unit official or admin). Participations record
// the acting user so district and unit quotas can be derived from the recorder.
type User struct {
	ID         int       `json:"id" gorm:"primaryKey"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null"`
	Password   string    `json:"-" gorm:"not null"`
	Name       string    `json:"name"`
	Role       string    `json:"role" gorm:"not null;default:official"`
	UnitID     int       `json:"unit_id" gorm:"index"`
	DistrictID int       `json:"district_id" gorm:"index"`
	Unit       *Unit     `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
	CreatedOn  time.Time `json:"created_on" gorm:"autoCreateTime"`
}

const (
	RoleOfficial = "official"
	RoleAdmin    = "admin"
)

package models

import "time"

// District is the top-level administrative grouping of units.
type District struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedOn time.Time `json:"created_on" gorm:"autoCreateTime"`
}

// Unit is a local chapter belonging to one district.
type Unit struct {
	ID         int       `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	DistrictID int       `json:"district_id" gorm:"index;not null"`
	District   *District `json:"district,omitempty" gorm:"foreignKey:DistrictID"`
	CreatedOn  time.Time `json:"created_on" gorm:"autoCreateTime"`
}

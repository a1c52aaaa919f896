package models

import "time"

// Member is an individual belonging to a unit, eligible to participate in
// events. District affiliation is derived through the unit.
type Member struct {
	ID        int        `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"not null"`
	Gender    Gender     `json:"gender" gorm:"type:varchar(1)"`
	DOB       *time.Time `json:"dob"`
	Phone     string     `json:"phone"`
	UnitID    int        `json:"unit_id" gorm:"index;not null"`
	Unit      *Unit      `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
	CreatedOn time.Time  `json:"created_on" gorm:"autoCreateTime"`
}

// ArchivedMember is an immutable copy of a member removed from the active
// roster (aged out or removed on request).
type ArchivedMember struct {
	ID         int        `json:"id" gorm:"primaryKey"`
	MemberID   int        `json:"member_id" gorm:"index;not null"`
	Name       string     `json:"name" gorm:"not null"`
	Gender     Gender     `json:"gender" gorm:"type:varchar(1)"`
	DOB        *time.Time `json:"dob"`
	UnitID     int        `json:"unit_id"`
	ArchivedOn time.Time  `json:"archived_on" gorm:"autoCreateTime"`
}

// ExclusionEntry bars a member from all events. At most one row per member.
type ExclusionEntry struct {
	ID       int     `json:"id" gorm:"primaryKey"`
	MemberID int     `json:"member_id" gorm:"uniqueIndex;not null"`
	Member   *Member `json:"member,omitempty" gorm:"foreignKey:MemberID"`
}

package models

import "time"

// IndividualEventParticipation links one member to one individual event.
// Chest numbers are unique per event; a member can join an event once.
type IndividualEventParticipation struct {
	ID                int               `json:"id" gorm:"primaryKey"`
	IndividualEventID int               `json:"individual_event_id" gorm:"not null;uniqueIndex:uq_ind_event_participant;uniqueIndex:uq_ind_event_chest"`
	ParticipantID     int               `json:"participant_id" gorm:"not null;uniqueIndex:uq_ind_event_participant"`
	AddedByID         int               `json:"added_by_id" gorm:"index;not null"`
	ChestNumber       string            `json:"chest_number" gorm:"type:varchar(50);uniqueIndex:uq_ind_event_chest"`
	SeniorityCategory SeniorityCategory `json:"seniority_category" gorm:"type:varchar(16)"`
	CreatedOn         time.Time         `json:"created_on" gorm:"autoCreateTime"`

	IndividualEvent *IndividualEvent `json:"individual_event,omitempty" gorm:"foreignKey:IndividualEventID"`
	Participant     *Member          `json:"participant,omitempty" gorm:"foreignKey:ParticipantID"`
	AddedBy         *User            `json:"added_by,omitempty" gorm:"foreignKey:AddedByID"`
}

// GroupEventParticipation links one member to one group event as a team
// member. All members of one team share a chest number, so chest numbers are
// deliberately not unique per participation row.
type GroupEventParticipation struct {
	ID           int       `json:"id" gorm:"primaryKey"`
	GroupEventID int       `json:"group_event_id" gorm:"not null;uniqueIndex:uq_group_event_participant"`
	ParticipantID int      `json:"participant_id" gorm:"not null;uniqueIndex:uq_group_event_participant"`
	ChestNumber  string    `json:"chest_number" gorm:"type:varchar(50);index"`
	AddedByID    int       `json:"added_by_id" gorm:"index;not null"`
	CreatedOn    time.Time `json:"created_on" gorm:"autoCreateTime"`

	GroupEvent  *GroupEvent `json:"group_event,omitempty" gorm:"foreignKey:GroupEventID"`
	Participant *Member     `json:"participant,omitempty" gorm:"foreignKey:ParticipantID"`
	AddedBy     *User       `json:"added_by,omitempty" gorm:"foreignKey:AddedByID"`
}

package models

import "time"

// IndividualEventScoreCard is one scoring record per individual participation.
// Score cards are append-only; corrections are new rows.
type IndividualEventScoreCard struct {
	ID                   int       `json:"id" gorm:"primaryKey"`
	EventParticipationID int       `json:"event_participation_id" gorm:"index;not null"`
	ParticipantID        int       `json:"participant_id" gorm:"index;not null"`
	AwardedMark          float64   `json:"awarded_mark" gorm:"type:numeric(5,2);not null;default:0"`
	Grade                string    `json:"grade" gorm:"type:varchar(1)"`
	GradePoints          int       `json:"grade_points" gorm:"not null;default:0"`
	Rank                 *int      `json:"rank"`
	RankPoints           int       `json:"rank_points" gorm:"not null;default:0"`
	TotalPoints          int       `json:"total_points" gorm:"not null;default:0"`
	AddedOn              time.Time `json:"added_on" gorm:"index"`

	Participation *IndividualEventParticipation `json:"participation,omitempty" gorm:"foreignKey:EventParticipationID"`
}

// GroupEventScoreCard is one scoring record per (event name, team chest
// number). Teams are identified only by chest number, so there is no foreign
// key to a participation row.
type GroupEventScoreCard struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	EventName   string    `json:"event_name" gorm:"index;not null"`
	ChestNumber string    `json:"chest_number" gorm:"type:varchar(50);index;not null"`
	AwardedMark float64   `json:"awarded_mark" gorm:"type:numeric(5,2);not null;default:0"`
	Grade       string    `json:"grade" gorm:"type:varchar(1)"`
	GradePoints int       `json:"grade_points" gorm:"not null;default:0"`
	Rank        *int      `json:"rank"`
	RankPoints  int       `json:"rank_points" gorm:"not null;default:0"`
	TotalPoints int       `json:"total_points" gorm:"not null;default:0"`
	AddedOn     time.Time `json:"added_on" gorm:"index"`
}

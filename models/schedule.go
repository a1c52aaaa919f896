package models

import "time"

// EventSchedule is a scheduled stage slot for an event on event day.
type EventSchedule struct {
	ID          int            `json:"id" gorm:"primaryKey"`
	EventID     int            `json:"event_id" gorm:"index;not null"`
	EventType   EventType      `json:"event_type" gorm:"type:varchar(16);not null"`
	StageName   string         `json:"stage_name" gorm:"index;not null"`
	StartTime   time.Time      `json:"start_time" gorm:"not null"`
	EndTime     time.Time      `json:"end_time" gorm:"not null"`
	Status      ScheduleStatus `json:"status" gorm:"type:varchar(16);not null;default:Scheduled"`
	CreatedOn   time.Time      `json:"created_on" gorm:"autoCreateTime"`
	UpdatedOn   time.Time      `json:"updated_on" gorm:"autoUpdateTime"`
	CreatedByID *int           `json:"created_by_id"`
}

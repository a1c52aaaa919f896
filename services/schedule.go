package services

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"kalamela-backend/models"
)

// Scheduler manages stage slots for event day. Two slots on one stage must
// not overlap in time unless one of them is cancelled.
type Scheduler struct {
	db *gorm.DB
}

func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{db: db}
}

func (s *Scheduler) hasConflict(slot *models.EventSchedule) (bool, error) {
	q := s.db.Model(&models.EventSchedule{}).
		Where("stage_name = ?", slot.StageName).
		Where("status <> ?", models.ScheduleCancelled).
		Where("start_time < ? AND end_time > ?", slot.EndTime, slot.StartTime)
	if slot.ID != 0 {
		q = q.Where("id <> ?", slot.ID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "check stage conflicts")
	}
	return count > 0, nil
}

// Schedule creates a stage slot for an event after checking the event exists
// and the stage is free.
func (s *Scheduler) Schedule(slot models.EventSchedule) (*models.EventSchedule, error) {
	if !slot.EndTime.After(slot.StartTime) {
		return nil, reject(KindInvalidInput, "End time must be after start time")
	}

	switch slot.EventType {
	case models.EventTypeIndividual:
		var event models.IndividualEvent
		if err := s.db.First(&event, slot.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, reject(KindNotFound, "Event not found")
			}
			return nil, errors.Wrap(err, "load event")
		}
	case models.EventTypeGroup:
		var event models.GroupEvent
		if err := s.db.First(&event, slot.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, reject(KindNotFound, "Event not found")
			}
			return nil, errors.Wrap(err, "load event")
		}
	default:
		return nil, reject(KindInvalidInput, "Event type must be individual or group")
	}

	conflict, err := s.hasConflict(&slot)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, reject(KindAlreadyExists, "Stage is already booked for this time slot")
	}

	slot.Status = models.ScheduleScheduled
	if err := s.db.Create(&slot).Error; err != nil {
		return nil, errors.Wrap(err, "create schedule")
	}
	return &slot, nil
}

// Reschedule moves a slot to a new stage or time window, re-checking
// conflicts against the other active slots.
func (s *Scheduler) Reschedule(scheduleID int, stageName string, startTime, endTime time.Time) (*models.EventSchedule, error) {
	if !endTime.After(startTime) {
		return nil, reject(KindInvalidInput, "End time must be after start time")
	}

	var slot models.EventSchedule
	if err := s.db.First(&slot, scheduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "Schedule not found")
		}
		return nil, errors.Wrap(err, "load schedule")
	}
	if slot.Status == models.ScheduleCompleted || slot.Status == models.ScheduleCancelled {
		return nil, reject(KindInvalidTransition, "Schedule has already been closed")
	}

	if stageName != "" {
		slot.StageName = stageName
	}
	slot.StartTime = startTime
	slot.EndTime = endTime

	conflict, err := s.hasConflict(&slot)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, reject(KindAlreadyExists, "Stage is already booked for this time slot")
	}

	slot.Status = models.ScheduleScheduled
	if err := s.db.Save(&slot).Error; err != nil {
		return nil, errors.Wrap(err, "update schedule")
	}
	return &slot, nil
}

// ListSchedules returns slots ordered by start time, optionally filtered by
// stage.
func (s *Scheduler) ListSchedules(stageName string) ([]models.EventSchedule, error) {
	q := s.db.Order("start_time ASC")
	if stageName != "" {
		q = q.Where("stage_name = ?", stageName)
	}
	var slots []models.EventSchedule
	if err := q.Find(&slots).Error; err != nil {
		return nil, errors.Wrap(err, "list schedules")
	}
	return slots, nil
}

// SetStatus moves a slot through its lifecycle. Completed and Cancelled are
// terminal.
func (s *Scheduler) SetStatus(scheduleID int, status models.ScheduleStatus) (*models.EventSchedule, error) {
	switch status {
	case models.ScheduleScheduled, models.ScheduleOngoing, models.ScheduleCompleted,
		models.ScheduleCancelled, models.SchedulePostponed:
	default:
		return nil, reject(KindInvalidInput, "Unknown schedule status")
	}

	var slot models.EventSchedule
	if err := s.db.First(&slot, scheduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "Schedule not found")
		}
		return nil, errors.Wrap(err, "load schedule")
	}
	if slot.Status == models.ScheduleCompleted || slot.Status == models.ScheduleCancelled {
		return nil, reject(KindInvalidTransition, "Schedule has already been closed")
	}

	slot.Status = status
	if err := s.db.Save(&slot).Error; err != nil {
		return nil, errors.Wrap(err, "update schedule")
	}
	return &slot, nil
}

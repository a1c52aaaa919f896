package services

import (
	"testing"
	"time"

	"kalamela-backend/models"
)

func TestScheduler(t *testing.T) {
	day := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)

	slotFor := func(eventID int, stage string, start, end time.Time) models.EventSchedule {
		return models.EventSchedule{
			EventID:   eventID,
			EventType: models.EventTypeIndividual,
			StageName: stage,
			StartTime: start,
			EndTime:   end,
		}
	}

	t.Run("overlapping slots on one stage are rejected", func(t *testing.T) {
		f := newFixture(t)
		a := f.individualEvent("Elocution")
		b := f.individualEvent("Recitation")

		scheduler := NewScheduler(f.db)
		if _, err := scheduler.Schedule(slotFor(a.ID, "Stage 1", day, day.Add(time.Hour))); err != nil {
			t.Fatalf("first slot: %v", err)
		}

		_, err := scheduler.Schedule(slotFor(b.ID, "Stage 1", day.Add(30*time.Minute), day.Add(90*time.Minute)))
		wantKind(t, err, KindAlreadyExists)
	})

	t.Run("back-to-back slots do not conflict", func(t *testing.T) {
		f := newFixture(t)
		a := f.individualEvent("Elocution")
		b := f.individualEvent("Recitation")

		scheduler := NewScheduler(f.db)
		if _, err := scheduler.Schedule(slotFor(a.ID, "Stage 1", day, day.Add(time.Hour))); err != nil {
			t.Fatalf("first slot: %v", err)
		}
		if _, err := scheduler.Schedule(slotFor(b.ID, "Stage 1", day.Add(time.Hour), day.Add(2*time.Hour))); err != nil {
			t.Fatalf("adjacent slot: %v", err)
		}
	})

	t.Run("another stage is free", func(t *testing.T) {
		f := newFixture(t)
		a := f.individualEvent("Elocution")
		b := f.individualEvent("Recitation")

		scheduler := NewScheduler(f.db)
		if _, err := scheduler.Schedule(slotFor(a.ID, "Stage 1", day, day.Add(time.Hour))); err != nil {
			t.Fatalf("first slot: %v", err)
		}
		if _, err := scheduler.Schedule(slotFor(b.ID, "Stage 2", day, day.Add(time.Hour))); err != nil {
			t.Fatalf("other stage: %v", err)
		}
	})

	t.Run("cancelled slots free their window", func(t *testing.T) {
		f := newFixture(t)
		a := f.individualEvent("Elocution")
		b := f.individualEvent("Recitation")

		scheduler := NewScheduler(f.db)
		first, err := scheduler.Schedule(slotFor(a.ID, "Stage 1", day, day.Add(time.Hour)))
		if err != nil {
			t.Fatalf("first slot: %v", err)
		}
		if _, err := scheduler.SetStatus(first.ID, models.ScheduleCancelled); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if _, err := scheduler.Schedule(slotFor(b.ID, "Stage 1", day, day.Add(time.Hour))); err != nil {
			t.Fatalf("reuse window: %v", err)
		}
	})

	t.Run("rescheduling checks the new window", func(t *testing.T) {
		f := newFixture(t)
		a := f.individualEvent("Elocution")
		b := f.individualEvent("Recitation")

		scheduler := NewScheduler(f.db)
		if _, err := scheduler.Schedule(slotFor(a.ID, "Stage 1", day, day.Add(time.Hour))); err != nil {
			t.Fatalf("first slot: %v", err)
		}
		second, err := scheduler.Schedule(slotFor(b.ID, "Stage 1", day.Add(2*time.Hour), day.Add(3*time.Hour)))
		if err != nil {
			t.Fatalf("second slot: %v", err)
		}

		_, err = scheduler.Reschedule(second.ID, "", day.Add(30*time.Minute), day.Add(90*time.Minute))
		wantKind(t, err, KindAlreadyExists)

		moved, err := scheduler.Reschedule(second.ID, "Stage 2", day.Add(30*time.Minute), day.Add(90*time.Minute))
		if err != nil {
			t.Fatalf("reschedule: %v", err)
		}
		if moved.StageName != "Stage 2" {
			t.Errorf("stage = %q, want Stage 2", moved.StageName)
		}
	})

	t.Run("invalid windows and unknown events are rejected", func(t *testing.T) {
		f := newFixture(t)
		a := f.individualEvent("Elocution")

		scheduler := NewScheduler(f.db)
		_, err := scheduler.Schedule(slotFor(a.ID, "Stage 1", day.Add(time.Hour), day))
		wantKind(t, err, KindInvalidInput)

		_, err = scheduler.Schedule(slotFor(9999, "Stage 1", day, day.Add(time.Hour)))
		wantKind(t, err, KindNotFound)
	})

	t.Run("closed slots cannot change status", func(t *testing.T) {
		f := newFixture(t)
		a := f.individualEvent("Elocution")

		scheduler := NewScheduler(f.db)
		slot, err := scheduler.Schedule(slotFor(a.ID, "Stage 1", day, day.Add(time.Hour)))
		if err != nil {
			t.Fatalf("schedule: %v", err)
		}
		if _, err := scheduler.SetStatus(slot.ID, models.ScheduleCompleted); err != nil {
			t.Fatalf("complete: %v", err)
		}
		_, err = scheduler.SetStatus(slot.ID, models.ScheduleOngoing)
		wantKind(t, err, KindInvalidTransition)
	})
}

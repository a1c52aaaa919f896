package services

import (
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"kalamela-backend/models"
)

// Registrar orchestrates participant registration: existence checks, quota
// evaluation, chest-number allocation and the insert, as one transaction.
// Counts are always computed from current rows at decision time; caps are
// strict cutoffs, so the registration that would reach the cap is rejected.
type Registrar struct {
	db    *gorm.DB
	rules *RuleStore
	locks *keyedLocks
}

func NewRegistrar(db *gorm.DB, rules *RuleStore) *Registrar {
	return &Registrar{db: db, rules: rules, locks: newKeyedLocks()}
}

// RegisterIndividual adds one member to an individual event on behalf of the
// recording official. The official's district scopes the quota checks.
func (r *Registrar) RegisterIndividual(eventID, participantID, addedByID int, bucket models.SeniorityCategory) (*models.IndividualEventParticipation, error) {
	limits, err := r.rules.Limits()
	if err != nil {
		return nil, err
	}

	var recorder models.User
	if err := r.db.First(&recorder, addedByID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "Recording official not found")
		}
		return nil, errors.Wrap(err, "load recording official")
	}

	// Serialize check-then-insert per (event, district, bucket) so a pair of
	// concurrent registrations cannot both pass the same count.
	unlock := r.locks.lock(fmt.Sprintf("ind:%d:%d:%s", eventID, recorder.DistrictID, bucket))
	defer unlock()

	var participation models.IndividualEventParticipation
	err = r.db.Transaction(func(tx *gorm.DB) error {
		var member models.Member
		if err := tx.First(&member, participantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reject(KindNotFound, "Participant not found")
			}
			return errors.Wrap(err, "load participant")
		}

		var event models.IndividualEvent
		if err := tx.First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reject(KindNotFound, "Event not found")
			}
			return errors.Wrap(err, "load event")
		}

		excluded, err := isExcluded(tx, member.ID)
		if err != nil {
			return err
		}
		if excluded {
			return reject(KindExcluded, "Participant is excluded from events")
		}

		var dup int64
		err = tx.Model(&models.IndividualEventParticipation{}).
			Where("individual_event_id = ? AND participant_id = ?", event.ID, member.ID).
			Count(&dup).Error
		if err != nil {
			return errors.Wrap(err, "check duplicate registration")
		}
		if dup > 0 {
			return reject(KindDuplicateMember, "Participant already registered for this event")
		}

		var personCount int64
		err = tx.Model(&models.IndividualEventParticipation{}).
			Where("participant_id = ?", member.ID).
			Count(&personCount).Error
		if err != nil {
			return errors.Wrap(err, "count participant events")
		}
		if int(personCount) >= limits.MaxIndividualEventsPerPerson {
			return reject(KindPersonEventCap, fmt.Sprintf(
				"Participant already registered for %d individual events (maximum allowed)",
				limits.MaxIndividualEventsPerPerson))
		}

		var districtCount int64
		err = tx.Model(&models.IndividualEventParticipation{}).
			Joins("JOIN users ON users.id = individual_event_participations.added_by_id").
			Where("individual_event_participations.individual_event_id = ?", event.ID).
			Where("individual_event_participations.seniority_category = ?", bucket).
			Where("users.district_id = ?", recorder.DistrictID).
			Count(&districtCount).Error
		if err != nil {
			return errors.Wrap(err, "count district registrations")
		}
		if int(districtCount) >= limits.MaxPerDistrictPerSeniority {
			return reject(KindDistrictQuota, "District quota reached for this event and seniority")
		}

		chestNumber, err := individualChestNumber(tx, event.ID, recorder.DistrictID, bucket)
		if err != nil {
			return err
		}

		participation = models.IndividualEventParticipation{
			IndividualEventID: event.ID,
			ParticipantID:     member.ID,
			AddedByID:         recorder.ID,
			ChestNumber:       chestNumber,
			SeniorityCategory: bucket,
		}
		if err := tx.Create(&participation).Error; err != nil {
			return errors.Wrap(err, "create participation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &participation, nil
}

// RegisterGroupTeam adds one or more members to a group event as (part of) a
// team. All members of the recording official's unit share one team chest
// number, allocated once when the unit's first member joins.
func (r *Registrar) RegisterGroupTeam(eventID int, participantIDs []int, addedByID int) ([]models.GroupEventParticipation, error) {
	if len(participantIDs) == 0 {
		return nil, reject(KindInvalidInput, "No participants given")
	}

	var recorder models.User
	if err := r.db.First(&recorder, addedByID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "Recording official not found")
		}
		return nil, errors.Wrap(err, "load recording official")
	}

	unlock := r.locks.lock(fmt.Sprintf("grp:%d:%d", eventID, recorder.DistrictID))
	defer unlock()

	var created []models.GroupEventParticipation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var event models.GroupEvent
		if err := tx.First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reject(KindNotFound, "Event not found")
			}
			return errors.Wrap(err, "load event")
		}

		var member []models.Member
		if err := tx.Where("id IN ?", participantIDs).Find(&member).Error; err != nil {
			return errors.Wrap(err, "load participants")
		}
		if len(member) != len(participantIDs) {
			return reject(KindNotFound, "Some participants not found")
		}

		var excludedCount int64
		err := tx.Model(&models.ExclusionEntry{}).
			Where("member_id IN ?", participantIDs).
			Count(&excludedCount).Error
		if err != nil {
			return errors.Wrap(err, "check exclusions")
		}
		if excludedCount > 0 {
			return reject(KindExcluded, "Some participants are excluded from events")
		}

		var dup int64
		err = tx.Model(&models.GroupEventParticipation{}).
			Where("group_event_id = ? AND participant_id IN ?", event.ID, participantIDs).
			Count(&dup).Error
		if err != nil {
			return errors.Wrap(err, "check duplicate registrations")
		}
		if dup > 0 {
			return reject(KindDuplicateMember, "Some participants are already registered for this event")
		}

		// Reuse the unit's team chest number when one exists; otherwise this
		// call creates a new team.
		var existing models.GroupEventParticipation
		err = tx.Joins("JOIN users ON users.id = group_event_participations.added_by_id").
			Where("group_event_participations.group_event_id = ?", event.ID).
			Where("users.unit_id = ?", recorder.UnitID).
			Order("group_event_participations.created_on").
			First(&existing).Error
		joiningExistingTeam := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(err, "find team chest number")
		}

		// The district cap limits teams, not members, so it only applies when
		// this registration would create a new team.
		if !joiningExistingTeam {
			var teamCount int64
			err = tx.Model(&models.GroupEventParticipation{}).
				Joins("JOIN users ON users.id = group_event_participations.added_by_id").
				Where("group_event_participations.group_event_id = ?", event.ID).
				Where("users.district_id = ?", recorder.DistrictID).
				Distinct("group_event_participations.chest_number").
				Count(&teamCount).Error
			if err != nil {
				return errors.Wrap(err, "count district teams")
			}
			if int(teamCount) >= event.MaxAllowedLimit {
				return reject(KindDistrictQuota, "District quota reached for this event")
			}
		}

		var unitCount int64
		err = tx.Model(&models.GroupEventParticipation{}).
			Joins("JOIN users ON users.id = group_event_participations.added_by_id").
			Where("group_event_participations.group_event_id = ?", event.ID).
			Where("users.unit_id = ?", recorder.UnitID).
			Count(&unitCount).Error
		if err != nil {
			return errors.Wrap(err, "count unit registrations")
		}
		if int(unitCount)+len(participantIDs) > event.PerUnitAllowedLimit {
			return reject(KindUnitQuota, "Unit quota reached for this event")
		}

		chestNumber := existing.ChestNumber
		if !joiningExistingTeam {
			chestNumber, err = groupChestNumber(tx, &event, recorder.DistrictID)
			if err != nil {
				return err
			}
		}

		for _, id := range participantIDs {
			row := models.GroupEventParticipation{
				GroupEventID:  event.ID,
				ParticipantID: id,
				ChestNumber:   chestNumber,
				AddedByID:     recorder.ID,
			}
			if err := tx.Create(&row).Error; err != nil {
				return errors.Wrap(err, "create participation")
			}
			created = append(created, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RemoveIndividual deletes an individual participation (admin correction).
func (r *Registrar) RemoveIndividual(participationID int) error {
	var p models.IndividualEventParticipation
	if err := r.db.First(&p, participationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reject(KindNotFound, "Participation not found")
		}
		return errors.Wrap(err, "load participation")
	}
	if err := r.db.Delete(&p).Error; err != nil {
		return errors.Wrap(err, "delete participation")
	}
	return nil
}

// RemoveGroup deletes a group participation row (admin correction).
func (r *Registrar) RemoveGroup(participationID int) error {
	var p models.GroupEventParticipation
	if err := r.db.First(&p, participationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reject(KindNotFound, "Participation not found")
		}
		return errors.Wrap(err, "load participation")
	}
	if err := r.db.Delete(&p).Error; err != nil {
		return errors.Wrap(err, "delete participation")
	}
	return nil
}

// ListIndividualParticipations returns individual participations, optionally
// filtered to one recording district, grouped by event name.
func (r *Registrar) ListIndividualParticipations(districtID int) (map[string][]models.IndividualEventParticipation, error) {
	q := r.db.Model(&models.IndividualEventParticipation{}).
		Preload("IndividualEvent").
		Preload("Participant").
		Preload("Participant.Unit").
		Preload("Participant.Unit.District").
		Order("individual_event_participations.individual_event_id")
	if districtID != 0 {
		q = q.Joins("JOIN users ON users.id = individual_event_participations.added_by_id").
			Where("users.district_id = ?", districtID)
	}

	var rows []models.IndividualEventParticipation
	if err := q.Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list individual participations")
	}

	grouped := make(map[string][]models.IndividualEventParticipation)
	for _, row := range rows {
		name := ""
		if row.IndividualEvent != nil {
			name = row.IndividualEvent.Name
		}
		grouped[name] = append(grouped[name], row)
	}
	return grouped, nil
}

// ListGroupParticipations returns group participations grouped by event name
// and then by team chest number.
func (r *Registrar) ListGroupParticipations(districtID int) (map[string]map[string][]models.GroupEventParticipation, error) {
	q := r.db.Model(&models.GroupEventParticipation{}).
		Preload("GroupEvent").
		Preload("Participant").
		Preload("Participant.Unit").
		Preload("Participant.Unit.District").
		Order("group_event_participations.group_event_id, group_event_participations.chest_number")
	if districtID != 0 {
		q = q.Joins("JOIN users ON users.id = group_event_participations.added_by_id").
			Where("users.district_id = ?", districtID)
	}

	var rows []models.GroupEventParticipation
	if err := q.Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list group participations")
	}

	grouped := make(map[string]map[string][]models.GroupEventParticipation)
	for _, row := range rows {
		name := ""
		if row.GroupEvent != nil {
			name = row.GroupEvent.Name
		}
		if grouped[name] == nil {
			grouped[name] = make(map[string][]models.GroupEventParticipation)
		}
		grouped[name][row.ChestNumber] = append(grouped[name][row.ChestNumber], row)
	}
	return grouped, nil
}

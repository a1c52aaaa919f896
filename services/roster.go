package services

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"kalamela-backend/models"
)

// Roster answers exclusion and participation-count questions about members
// and maintains the exclusion list.
type Roster struct {
	db    *gorm.DB
	rules *RuleStore
}

func NewRoster(db *gorm.DB, rules *RuleStore) *Roster {
	return &Roster{db: db, rules: rules}
}

// IsExcluded reports whether the member is barred from all events.
func (r *Roster) IsExcluded(memberID int) (bool, error) {
	return isExcluded(r.db, memberID)
}

func isExcluded(db *gorm.DB, memberID int) (bool, error) {
	var count int64
	err := db.Model(&models.ExclusionEntry{}).Where("member_id = ?", memberID).Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "check exclusion")
	}
	return count > 0, nil
}

// IndividualEventCount returns how many individual events the member has
// already joined.
func (r *Roster) IndividualEventCount(memberID int) (int, error) {
	var count int64
	err := r.db.Model(&models.IndividualEventParticipation{}).
		Where("participant_id = ?", memberID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count individual participations")
	}
	return int(count), nil
}

// Exclude bars a member from all events. Existing participations are not
// retroactively invalidated.
func (r *Roster) Exclude(memberID int) (*models.ExclusionEntry, error) {
	var member models.Member
	if err := r.db.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "Member not found")
		}
		return nil, errors.Wrap(err, "load member")
	}

	excluded, err := r.IsExcluded(memberID)
	if err != nil {
		return nil, err
	}
	if excluded {
		return nil, reject(KindAlreadyExists, "Member is already excluded")
	}

	entry := models.ExclusionEntry{MemberID: memberID}
	if err := r.db.Create(&entry).Error; err != nil {
		return nil, errors.Wrap(err, "create exclusion")
	}
	return &entry, nil
}

// RemoveExclusion deletes an exclusion entry by its id.
func (r *Roster) RemoveExclusion(exclusionID int) error {
	var entry models.ExclusionEntry
	if err := r.db.First(&entry, exclusionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reject(KindNotFound, "Exclusion not found")
		}
		return errors.Wrap(err, "load exclusion")
	}
	if err := r.db.Delete(&entry).Error; err != nil {
		return errors.Wrap(err, "delete exclusion")
	}
	return nil
}

// SeniorityFor classifies a date of birth against the configured DOB windows.
// Returns "Junior", "Senior", "Ineligible" or "Unknown".
func (r *Roster) SeniorityFor(dob *time.Time) (string, error) {
	if dob == nil {
		return "Unknown", nil
	}
	windows, err := r.rules.AgeWindows()
	if err != nil {
		return "", err
	}
	d := *dob
	switch {
	case !d.Before(windows.JuniorStart) && !d.After(windows.JuniorEnd):
		return string(models.SeniorityJunior), nil
	case !d.Before(windows.SeniorStart) && !d.After(windows.SeniorEnd):
		return string(models.SenioritySenior), nil
	default:
		return "Ineligible", nil
	}
}

// EligibleIndividualMembers lists district members who may still be added to
// an individual event: not excluded, not already registered, and matching the
// event's gender and seniority restrictions. unitID of 0 means any unit in
// the district.
func (r *Roster) EligibleIndividualMembers(event *models.IndividualEvent, districtID, unitID int) ([]models.Member, error) {
	registered := r.db.Model(&models.IndividualEventParticipation{}).
		Select("individual_event_participations.participant_id").
		Joins("JOIN users ON users.id = individual_event_participations.added_by_id").
		Where("individual_event_participations.individual_event_id = ? AND users.district_id = ?", event.ID, districtID)

	return r.eligibleMembers(registered, event.GenderRestriction, event.SeniorityRestriction, districtID, unitID)
}

// EligibleGroupMembers is the group-event counterpart of
// EligibleIndividualMembers.
func (r *Roster) EligibleGroupMembers(event *models.GroupEvent, districtID, unitID int) ([]models.Member, error) {
	registered := r.db.Model(&models.GroupEventParticipation{}).
		Select("group_event_participations.participant_id").
		Joins("JOIN users ON users.id = group_event_participations.added_by_id").
		Where("group_event_participations.group_event_id = ? AND users.district_id = ?", event.ID, districtID)

	return r.eligibleMembers(registered, event.GenderRestriction, event.SeniorityRestriction, districtID, unitID)
}

func (r *Roster) eligibleMembers(registered *gorm.DB, gender models.GenderRestriction, seniority models.SeniorityCategory, districtID, unitID int) ([]models.Member, error) {
	excluded := r.db.Model(&models.ExclusionEntry{}).Select("member_id")

	q := r.db.Model(&models.Member{}).
		Joins("JOIN units ON units.id = members.unit_id").
		Where("units.district_id = ?", districtID).
		Where("members.id NOT IN (?)", registered).
		Where("members.id NOT IN (?)", excluded)

	if unitID != 0 {
		q = q.Where("members.unit_id = ?", unitID)
	}

	switch gender {
	case models.RestrictMale:
		q = q.Where("members.gender = ?", models.GenderMale)
	case models.RestrictFemale:
		q = q.Where("members.gender = ?", models.GenderFemale)
	}

	if seniority != "" {
		windows, err := r.rules.AgeWindows()
		if err != nil {
			return nil, err
		}
		switch seniority {
		case models.SeniorityJunior:
			q = q.Where("members.dob BETWEEN ? AND ?", windows.JuniorStart, windows.JuniorEnd)
		case models.SenioritySenior:
			q = q.Where("members.dob BETWEEN ? AND ?", windows.SeniorStart, windows.SeniorEnd)
		}
	}

	var member []models.Member
	if err := q.Order("members.name").Find(&member).Error; err != nil {
		return nil, errors.Wrap(err, "list eligible members")
	}
	return member, nil
}

// Archive moves a member into the archive table and removes the active row.
// Archived rows are never modified afterwards.
func (r *Roster) Archive(memberID int) (*models.ArchivedMember, error) {
	var member models.Member
	if err := r.db.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "Member not found")
		}
		return nil, errors.Wrap(err, "load member")
	}

	archived := models.ArchivedMember{
		MemberID: member.ID,
		Name:     member.Name,
		Gender:   member.Gender,
		DOB:      member.DOB,
		UnitID:   member.UnitID,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&archived).Error; err != nil {
			return errors.Wrap(err, "archive member")
		}
		if err := tx.Delete(&member).Error; err != nil {
			return errors.Wrap(err, "remove member")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &archived, nil
}
